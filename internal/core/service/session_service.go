package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/ports"
	"github.com/bazarly/vendor-portal/internal/metrics"
)

// SessionService implements the portal session token lifecycle. It also
// satisfies ports.SessionSignals so the shared backend client can refresh or
// evict sessions without a direct dependency.
type SessionService struct {
	repo      ports.SessionRepository
	drafts    ports.DraftRepository
	authAPI   ports.AuthAPI
	vendorAPI ports.VendorAPI
	logger    zerolog.Logger
}

func NewSessionService(
	repo ports.SessionRepository,
	drafts ports.DraftRepository,
	authAPI ports.AuthAPI,
	vendorAPI ports.VendorAPI,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		repo:      repo,
		drafts:    drafts,
		authAPI:   authAPI,
		vendorAPI: vendorAPI,
		logger:    logger,
	}
}

// Login delegates to the backend and, on success, creates and persists a new
// portal session. A rejected or unreachable login creates no session state;
// the backend's message (or the fixed network-error message) is carried in
// the result.
func (s *SessionService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	res := s.authAPI.Login(ctx, email, password)
	if !res.Success || res.User == nil || res.Token == "" {
		outcome := "rejected"
		if res.NetworkError {
			outcome = "network_error"
		}
		metrics.LoginsTotal.WithLabelValues(outcome).Inc()
		s.logger.Info().Str("email", email).Str("reason", res.Message).Msg("login rejected")
		return &ports.LoginResult{Success: false, Message: res.Message}, nil
	}

	sess := &domain.Session{
		ID:            uuid.NewString(),
		User:          res.User,
		AccessToken:   res.Token,
		UserID:        res.User.ID,
		Authenticated: true,
	}

	// Vendor linkage is best effort: a freshly registered account has no
	// vendor record yet.
	lookup := s.vendorAPI.LookupByUser(ctx, ports.CallAuth{SessionID: sess.ID, Token: sess.AccessToken}, sess.UserID)
	if lookup.Success {
		sess.VendorID = lookup.VendorID
		sess.VendorDetails = lookup.Vendor
	} else {
		s.logger.Debug().Str("user_id", sess.UserID).Str("reason", lookup.Message).Msg("no vendor linked at login")
	}

	if err := s.repo.Save(ctx, sess.ID, sess.Snapshot()); err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("session_id", sess.ID).Str("user_id", sess.UserID).Msg("session created")

	return &ports.LoginResult{Success: true, SessionID: sess.ID, Session: sess}, nil
}

// Logout deletes the persisted snapshot and the session's wizard draft.
// Idempotent: logging out an unknown session is not an error.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	_ = s.drafts.Delete(ctx, sessionID)
	s.logger.Info().Str("session_id", sessionID).Msg("session cleared")
	return nil
}

func (s *SessionService) Get(ctx context.Context, sessionID string) (*domain.Session, error) {
	snap, err := s.repo.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return domain.SessionFromSnapshot(sessionID, snap), nil
}

// ValidateToken decodes the exp claim without verifying the signature; the
// portal never holds the backend's signing key. Malformed tokens and tokens
// without a decodable expiry read as invalid.
func (s *SessionService) ValidateToken(token string) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return time.Now().Before(exp.Time)
}

// CheckAuthStatus reconciles the authenticated flag against the token and
// user in a single pass:
//   - invalid or expired token with auth fields present → implicit logout of
//     the auth fields
//   - valid token and user but flag unset → healed to true
//   - no token and no user but flag set → healed to false
func (s *SessionService) CheckAuthStatus(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	valid := sess.User != nil && sess.AccessToken != "" && s.ValidateToken(sess.AccessToken)
	changed := false

	switch {
	case valid && !sess.Authenticated:
		sess.Authenticated = true
		changed = true
	case !valid && (sess.AccessToken != "" || sess.User != nil):
		s.logger.Info().Str("session_id", sessionID).Msg("token invalid or expired, clearing session auth state")
		sess.Clear()
		changed = true
	case !valid && sess.Authenticated:
		sess.Authenticated = false
		changed = true
	}

	if changed {
		if err := s.repo.Save(ctx, sessionID, sess.Snapshot()); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (s *SessionService) UpdateAccessToken(ctx context.Context, sessionID, token string) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.AccessToken = token
	return s.repo.Save(ctx, sessionID, sess.Snapshot())
}

func (s *SessionService) UpdateUser(ctx context.Context, sessionID string, user *domain.User) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.User = user
	if user != nil {
		sess.UserID = user.ID
	}
	return s.repo.Save(ctx, sessionID, sess.Snapshot())
}

// UpdateVendor records the vendor linkage discovered after login, e.g. when
// a profile refresh finds a newly approved vendor record.
func (s *SessionService) UpdateVendor(ctx context.Context, sessionID, vendorID string, details map[string]any) error {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.VendorID = vendorID
	sess.VendorDetails = details
	return s.repo.Save(ctx, sessionID, sess.Snapshot())
}

// BearerToken resolves the session's current access token for an outbound
// call. Callers must not cache the returned token.
func (s *SessionService) BearerToken(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}
	if !sess.Authenticated || sess.AccessToken == "" {
		return "", domain.ErrNotAuthenticated
	}
	return sess.AccessToken, nil
}

// OnTokenRefreshed applies a refreshed token (and optionally a refreshed
// user record) delivered by the backend client. Failures are logged, not
// returned: the signal sender has no recovery path.
func (s *SessionService) OnTokenRefreshed(ctx context.Context, sessionID, token string, user *domain.User) {
	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("token refresh signal for unknown session")
		return
	}
	sess.AccessToken = token
	if user != nil {
		sess.User = user
		sess.UserID = user.ID
	}
	if err := s.repo.Save(ctx, sessionID, sess.Snapshot()); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("failed to persist refreshed token")
		return
	}
	s.logger.Info().Str("session_id", sessionID).Msg("access token refreshed")
}

// OnForceLogout evicts the session synchronously.
func (s *SessionService) OnForceLogout(ctx context.Context, sessionID string) {
	metrics.ForcedLogoutsTotal.Inc()
	if err := s.Logout(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("force logout failed")
		return
	}
	s.logger.Info().Str("session_id", sessionID).Msg("session force-logged-out")
}
