package domain

import "errors"

var ErrSessionNotFound = errors.New("session not found")
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is the portal-side authentication state for one signed-in vendor.
// Invariant: Authenticated is true iff User and AccessToken are both present
// and the token's exp claim lies in the future. CheckAuthStatus reconciles
// any drift in one pass.
type Session struct {
	ID            string         `json:"id"`
	User          *User          `json:"user"`
	AccessToken   string         `json:"access_token"`
	UserID        string         `json:"user_id"`
	VendorID      string         `json:"vendor_id"`
	VendorDetails map[string]any `json:"vendor_details,omitempty"`
	Authenticated bool           `json:"authenticated"`

	// Error carries the last login failure message. Ephemeral: never part of
	// the persisted snapshot.
	Error string `json:"error,omitempty"`
}

// Snapshot is the subset of Session that survives process restarts.
type Snapshot struct {
	User          *User          `json:"user"`
	AccessToken   string         `json:"access_token"`
	UserID        string         `json:"user_id"`
	VendorID      string         `json:"vendor_id"`
	VendorDetails map[string]any `json:"vendor_details,omitempty"`
	Authenticated bool           `json:"authenticated"`
}

// Snapshot strips the ephemeral fields for persistence.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		User:          s.User,
		AccessToken:   s.AccessToken,
		UserID:        s.UserID,
		VendorID:      s.VendorID,
		VendorDetails: s.VendorDetails,
		Authenticated: s.Authenticated,
	}
}

// SessionFromSnapshot rebuilds a Session from its persisted subset.
func SessionFromSnapshot(id string, snap Snapshot) *Session {
	return &Session{
		ID:            id,
		User:          snap.User,
		AccessToken:   snap.AccessToken,
		UserID:        snap.UserID,
		VendorID:      snap.VendorID,
		VendorDetails: snap.VendorDetails,
		Authenticated: snap.Authenticated,
	}
}

// Clear resets every field except the ID to its zero value.
func (s *Session) Clear() {
	s.User = nil
	s.AccessToken = ""
	s.UserID = ""
	s.VendorID = ""
	s.VendorDetails = nil
	s.Authenticated = false
	s.Error = ""
}
