package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/ports"
)

const (
	// SessionHeader carries the portal session ID on API calls.
	SessionHeader = "X-Session-ID"
	// SessionCookie is the fallback for browser clients.
	SessionCookie = "portal_session"
)

// SessionID extracts the portal session ID from the request, header first.
func SessionID(c echo.Context) string {
	if id := c.Request().Header.Get(SessionHeader); id != "" {
		return id
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// Session guards authenticated routes. It reconciles the session's auth
// state on every request (opportunistic CheckAuthStatus), rejects missing,
// unknown, and expired sessions, and injects the session identity into
// context.
func Session(sessions ports.SessionService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := SessionID(c)
			if id == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing session")
			}

			sess, err := sessions.CheckAuthStatus(c.Request().Context(), id)
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid session")
				}
				return err
			}
			if !sess.Authenticated {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			c.Set("session_id", id)
			c.Set("user_id", sess.UserID)
			c.Set("vendor_id", sess.VendorID)
			if sess.User != nil {
				c.Set("role", sess.User.Role)
			}

			return next(c)
		}
	}
}
