package domain

import "time"

const (
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// User models the marketplace account behind a portal session. It is returned
// by the backend's login endpoint and stored verbatim on the session.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}
