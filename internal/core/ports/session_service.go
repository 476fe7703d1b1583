package ports

import (
	"context"

	"github.com/bazarly/vendor-portal/internal/core/domain"
)

// LoginResult is the outcome of a login attempt. Failures are carried in the
// result (Success=false plus the backend's message) rather than as errors, so
// the transport layer can render them inline.
type LoginResult struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message,omitempty"`
	SessionID string          `json:"session_id,omitempty"`
	Session   *domain.Session `json:"session,omitempty"`
}

// SessionService owns the token lifecycle for portal sessions.
type SessionService interface {
	// Login authenticates against the marketplace backend. On success a new
	// portal session is created and its snapshot persisted; on failure no
	// session state is created or mutated.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// Logout clears the session to its zero state and deletes the persisted
	// snapshot. No backend call is made.
	Logout(ctx context.Context, sessionID string) error

	// Get returns the session as persisted, without reconciliation.
	Get(ctx context.Context, sessionID string) (*domain.Session, error)

	// CheckAuthStatus reconciles the authenticated flag against the presence
	// and validity of the token and user, healing drift in one pass. An
	// invalid or expired token triggers an implicit logout of the auth
	// fields (the session record itself survives so the caller can observe
	// the healed state).
	CheckAuthStatus(ctx context.Context, sessionID string) (*domain.Session, error)

	// ValidateToken decodes the token's exp claim without verifying the
	// signature. Malformed tokens and tokens without a decodable expiry are
	// invalid, never an error.
	ValidateToken(token string) bool

	UpdateAccessToken(ctx context.Context, sessionID, token string) error
	UpdateUser(ctx context.Context, sessionID string, user *domain.User) error

	// UpdateVendor records the vendor linkage for the session, e.g. after a
	// successful registration or a profile lookup that found a newly approved
	// vendor record.
	UpdateVendor(ctx context.Context, sessionID, vendorID string, details map[string]any) error

	// BearerToken returns the session's current access token for an outbound
	// call. Clients must call this at request time, never cache it.
	BearerToken(ctx context.Context, sessionID string) (string, error)
}

// SessionSignals is the observer interface through which the shared backend
// HTTP client refreshes or evicts a session without importing the session
// service. It replaces the source system's process-wide event bus.
type SessionSignals interface {
	// OnTokenRefreshed applies a refreshed access token; user is optional
	// and replaces the stored record when non-nil.
	OnTokenRefreshed(ctx context.Context, sessionID, token string, user *domain.User)

	// OnForceLogout evicts the session, equivalent to Logout.
	OnForceLogout(ctx context.Context, sessionID string)
}
