package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/ports"
)

// ProductService proxies product operations to the backend, resolving the
// session's bearer token and vendor ID at call time.
type ProductService struct {
	sessions   ports.SessionService
	productAPI ports.ProductAPI
	vendorAPI  ports.VendorAPI
	logger     zerolog.Logger
}

func NewProductService(sessions ports.SessionService, productAPI ports.ProductAPI, vendorAPI ports.VendorAPI, logger zerolog.Logger) *ProductService {
	return &ProductService{sessions: sessions, productAPI: productAPI, vendorAPI: vendorAPI, logger: logger}
}

// callAuth resolves the auth pair plus vendor ID for a session, failing fast
// when the account has no vendor record yet.
func (s *ProductService) callAuth(ctx context.Context, sessionID string) (ports.CallAuth, string, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return ports.CallAuth{}, "", err
	}
	if !sess.Authenticated || sess.AccessToken == "" {
		return ports.CallAuth{}, "", domain.ErrNotAuthenticated
	}
	if sess.VendorID == "" {
		return ports.CallAuth{}, "", domain.ErrVendorNotLinked
	}
	return ports.CallAuth{SessionID: sessionID, Token: sess.AccessToken}, sess.VendorID, nil
}

func (s *ProductService) Create(ctx context.Context, sessionID string, data map[string]any, images []ports.FileUpload) (*ports.ProductResult, error) {
	auth, vendorID, err := s.callAuth(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.productAPI.Create(ctx, auth, vendorID, data, images), nil
}

func (s *ProductService) List(ctx context.Context, sessionID string, page, limit int) (*ports.ProductListResult, error) {
	auth, vendorID, err := s.callAuth(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.productAPI.List(ctx, auth, vendorID, page, limit), nil
}

func (s *ProductService) Update(ctx context.Context, sessionID, productID string, data map[string]any, images []ports.FileUpload) (*ports.ProductResult, error) {
	auth, vendorID, err := s.callAuth(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.productAPI.Update(ctx, auth, vendorID, productID, data, images), nil
}

func (s *ProductService) Delete(ctx context.Context, sessionID, productID string) (*ports.ProductResult, error) {
	auth, vendorID, err := s.callAuth(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.productAPI.Delete(ctx, auth, vendorID, productID), nil
}

// PatchImmediate forwards only the fields the backend mutates in place;
// anything else in the request is dropped before the call.
func (s *ProductService) PatchImmediate(ctx context.Context, sessionID, productID string, fields map[string]any) (*ports.ProductResult, error) {
	auth, vendorID, err := s.callAuth(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	patch := make(map[string]any, len(fields))
	for k, v := range fields {
		if domain.ImmediateField(k) {
			patch[k] = v
		} else {
			s.logger.Debug().Str("field", k).Msg("dropping non-immediate field from patch")
		}
	}
	return s.productAPI.PatchImmediate(ctx, auth, vendorID, productID, patch), nil
}

func (s *ProductService) SubmitForReview(ctx context.Context, sessionID, productID string, review ports.ReviewSubmission) (*ports.ProductResult, error) {
	auth, vendorID, err := s.callAuth(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.productAPI.SubmitForReview(ctx, auth, vendorID, productID, review), nil
}

// Vendor looks up the vendor record behind the session's user and heals the
// session linkage when the lookup finds one.
func (s *ProductService) Vendor(ctx context.Context, sessionID string) (*ports.VendorLookupResult, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated || sess.AccessToken == "" {
		return nil, domain.ErrNotAuthenticated
	}

	res := s.vendorAPI.LookupByUser(ctx, ports.CallAuth{SessionID: sessionID, Token: sess.AccessToken}, sess.UserID)
	if res.Success && res.VendorID != "" && res.VendorID != sess.VendorID {
		if err := s.sessions.UpdateVendor(ctx, sessionID, res.VendorID, res.Vendor); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to refresh vendor linkage")
		}
	}
	return res, nil
}

func (s *ProductService) Brands(ctx context.Context) *ports.BrandsResult {
	return s.productAPI.Brands(ctx)
}
