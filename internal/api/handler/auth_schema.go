package handler

import "github.com/bazarly/vendor-portal/internal/core/domain"

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// sessionResponse is the client-facing session view. The ephemeral error
// field is surfaced so a failed reconciliation is visible; the persisted
// snapshot internals are not.
type sessionResponse struct {
	SessionID     string         `json:"session_id"`
	User          *domain.User   `json:"user,omitempty"`
	AccessToken   string         `json:"access_token,omitempty"`
	UserID        string         `json:"user_id,omitempty"`
	VendorID      string         `json:"vendor_id,omitempty"`
	VendorDetails map[string]any `json:"vendor_details,omitempty"`
	Authenticated bool           `json:"authenticated"`
}

func toSessionResponse(sess *domain.Session) sessionResponse {
	return sessionResponse{
		SessionID:     sess.ID,
		User:          sess.User,
		AccessToken:   sess.AccessToken,
		UserID:        sess.UserID,
		VendorID:      sess.VendorID,
		VendorDetails: sess.VendorDetails,
		Authenticated: sess.Authenticated,
	}
}
