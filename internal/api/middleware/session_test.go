package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/ports"
)

// stubSessions implements ports.SessionService; only CheckAuthStatus matters
// for the middleware.
type stubSessions struct {
	checkFn func(ctx context.Context, sessionID string) (*domain.Session, error)
}

func (s *stubSessions) Login(context.Context, string, string) (*ports.LoginResult, error) {
	return nil, nil
}
func (s *stubSessions) Logout(context.Context, string) error { return nil }
func (s *stubSessions) Get(context.Context, string) (*domain.Session, error) {
	return nil, domain.ErrSessionNotFound
}
func (s *stubSessions) CheckAuthStatus(ctx context.Context, sessionID string) (*domain.Session, error) {
	return s.checkFn(ctx, sessionID)
}
func (s *stubSessions) ValidateToken(string) bool { return false }
func (s *stubSessions) UpdateAccessToken(context.Context, string, string) error {
	return nil
}
func (s *stubSessions) UpdateUser(context.Context, string, *domain.User) error {
	return nil
}
func (s *stubSessions) UpdateVendor(context.Context, string, string, map[string]any) error {
	return nil
}
func (s *stubSessions) BearerToken(context.Context, string) (string, error) {
	return "", domain.ErrNotAuthenticated
}

func runSession(t *testing.T, sessions ports.SessionService, mutate func(*http.Request)) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/wizard", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Session(sessions)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, c, err
}

func TestSession_MissingID(t *testing.T) {
	_, _, err := runSession(t, &stubSessions{}, nil)

	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestSession_HeaderBeatsCookie(t *testing.T) {
	var seen string
	sessions := &stubSessions{
		checkFn: func(_ context.Context, sessionID string) (*domain.Session, error) {
			seen = sessionID
			return &domain.Session{
				ID:            sessionID,
				User:          &domain.User{ID: "user_1", Role: domain.RoleVendor},
				UserID:        "user_1",
				Authenticated: true,
			}, nil
		},
	}

	_, _, err := runSession(t, sessions, func(r *http.Request) {
		r.Header.Set(SessionHeader, "from-header")
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	})
	if err != nil {
		t.Fatal(err)
	}
	if seen != "from-header" {
		t.Errorf("header must take precedence, got %q", seen)
	}
}

func TestSession_CookieFallback(t *testing.T) {
	var seen string
	sessions := &stubSessions{
		checkFn: func(_ context.Context, sessionID string) (*domain.Session, error) {
			seen = sessionID
			return &domain.Session{ID: sessionID, Authenticated: true}, nil
		},
	}

	_, _, err := runSession(t, sessions, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "cookie-id"})
	})
	if err != nil {
		t.Fatal(err)
	}
	if seen != "cookie-id" {
		t.Errorf("expected cookie fallback, got %q", seen)
	}
}

func TestSession_UnknownSession(t *testing.T) {
	sessions := &stubSessions{
		checkFn: func(context.Context, string) (*domain.Session, error) {
			return nil, domain.ErrSessionNotFound
		},
	}

	_, _, err := runSession(t, sessions, func(r *http.Request) {
		r.Header.Set(SessionHeader, "ghost")
	})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestSession_ExpiredSession(t *testing.T) {
	sessions := &stubSessions{
		checkFn: func(_ context.Context, sessionID string) (*domain.Session, error) {
			// CheckAuthStatus healed the drift: the token had expired.
			return &domain.Session{ID: sessionID, Authenticated: false}, nil
		},
	}

	_, _, err := runSession(t, sessions, func(r *http.Request) {
		r.Header.Set(SessionHeader, "s1")
	})
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestSession_InjectsIdentity(t *testing.T) {
	sessions := &stubSessions{
		checkFn: func(_ context.Context, sessionID string) (*domain.Session, error) {
			return &domain.Session{
				ID:            sessionID,
				User:          &domain.User{ID: "user_1", Role: domain.RoleVendor},
				UserID:        "user_1",
				VendorID:      "vendor_1",
				Authenticated: true,
			}, nil
		},
	}

	_, c, err := runSession(t, sessions, func(r *http.Request) {
		r.Header.Set(SessionHeader, "s1")
	})
	if err != nil {
		t.Fatal(err)
	}
	if c.Get("session_id") != "s1" || c.Get("user_id") != "user_1" {
		t.Errorf("identity not injected: %v %v", c.Get("session_id"), c.Get("user_id"))
	}
	if c.Get("vendor_id") != "vendor_1" || c.Get("role") != domain.RoleVendor {
		t.Errorf("vendor identity not injected: %v %v", c.Get("vendor_id"), c.Get("role"))
	}
}
