package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub product API
// ---------------------------------------------------------------------------

type stubProductAPI struct {
	lastAuth     ports.CallAuth
	lastVendorID string
	lastPatch    map[string]any
	lastPage     int
	lastLimit    int
}

func okProduct() *ports.ProductResult {
	return &ports.ProductResult{CallResult: ports.CallResult{Success: true}}
}

func (p *stubProductAPI) Create(_ context.Context, auth ports.CallAuth, vendorID string, _ map[string]any, _ []ports.FileUpload) *ports.ProductResult {
	p.lastAuth, p.lastVendorID = auth, vendorID
	return okProduct()
}

func (p *stubProductAPI) List(_ context.Context, auth ports.CallAuth, vendorID string, page, limit int) *ports.ProductListResult {
	p.lastAuth, p.lastVendorID, p.lastPage, p.lastLimit = auth, vendorID, page, limit
	return &ports.ProductListResult{CallResult: ports.CallResult{Success: true}, Page: page, Limit: limit}
}

func (p *stubProductAPI) Update(_ context.Context, auth ports.CallAuth, vendorID, _ string, _ map[string]any, _ []ports.FileUpload) *ports.ProductResult {
	p.lastAuth, p.lastVendorID = auth, vendorID
	return okProduct()
}

func (p *stubProductAPI) Delete(_ context.Context, auth ports.CallAuth, vendorID, _ string) *ports.ProductResult {
	p.lastAuth, p.lastVendorID = auth, vendorID
	return okProduct()
}

func (p *stubProductAPI) PatchImmediate(_ context.Context, auth ports.CallAuth, vendorID, _ string, fields map[string]any) *ports.ProductResult {
	p.lastAuth, p.lastVendorID, p.lastPatch = auth, vendorID, fields
	return okProduct()
}

func (p *stubProductAPI) SubmitForReview(_ context.Context, auth ports.CallAuth, vendorID, _ string, _ ports.ReviewSubmission) *ports.ProductResult {
	p.lastAuth, p.lastVendorID = auth, vendorID
	return okProduct()
}

func (p *stubProductAPI) Brands(context.Context) *ports.BrandsResult {
	return &ports.BrandsResult{CallResult: ports.CallResult{Success: true}}
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

func newProductFixture(snap domain.Snapshot) (*ProductService, *stubProductAPI, *stubVendorAPI) {
	repo := newStubSessionRepo()
	repo.snapshots["s1"] = snap
	sessions := NewSessionService(repo, newStubDrafts(), &stubAuthAPI{}, &stubVendorAPI{}, discardLogger)

	productAPI := &stubProductAPI{}
	vendorAPI := &stubVendorAPI{}
	return NewProductService(sessions, productAPI, vendorAPI, discardLogger), productAPI, vendorAPI
}

func linkedSnapshot() domain.Snapshot {
	return domain.Snapshot{
		User:          &domain.User{ID: "user_1", Role: domain.RoleVendor},
		AccessToken:   "tok-abc",
		UserID:        "user_1",
		VendorID:      "vendor_1",
		Authenticated: true,
	}
}

// ---------------------------------------------------------------------------
// Auth gating
// ---------------------------------------------------------------------------

func TestProductService_RequiresAuthentication(t *testing.T) {
	svc, _, _ := newProductFixture(domain.Snapshot{Authenticated: false})

	_, err := svc.List(context.Background(), "s1", 1, 20)
	if !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestProductService_RequiresVendorLinkage(t *testing.T) {
	snap := linkedSnapshot()
	snap.VendorID = ""
	svc, _, _ := newProductFixture(snap)

	_, err := svc.Create(context.Background(), "s1", map[string]any{"name": "Dates"}, nil)
	if !errors.Is(err, domain.ErrVendorNotLinked) {
		t.Errorf("expected ErrVendorNotLinked, got %v", err)
	}
}

func TestProductService_ResolvesAuthPerCall(t *testing.T) {
	svc, productAPI, _ := newProductFixture(linkedSnapshot())

	if _, err := svc.Delete(context.Background(), "s1", "p1"); err != nil {
		t.Fatal(err)
	}
	if productAPI.lastAuth.Token != "tok-abc" || productAPI.lastAuth.SessionID != "s1" {
		t.Errorf("unexpected auth: %+v", productAPI.lastAuth)
	}
	if productAPI.lastVendorID != "vendor_1" {
		t.Errorf("unexpected vendor id %q", productAPI.lastVendorID)
	}
}

// ---------------------------------------------------------------------------
// List and patch semantics
// ---------------------------------------------------------------------------

func TestProductService_ListNormalizesPaging(t *testing.T) {
	svc, productAPI, _ := newProductFixture(linkedSnapshot())

	if _, err := svc.List(context.Background(), "s1", 0, 0); err != nil {
		t.Fatal(err)
	}
	if productAPI.lastPage != 1 || productAPI.lastLimit != 20 {
		t.Errorf("expected defaults 1/20, got %d/%d", productAPI.lastPage, productAPI.lastLimit)
	}

	if _, err := svc.List(context.Background(), "s1", 3, 500); err != nil {
		t.Fatal(err)
	}
	if productAPI.lastLimit != 20 {
		t.Errorf("oversized limit must fall back to the default, got %d", productAPI.lastLimit)
	}
}

func TestProductService_PatchDropsNonImmediateFields(t *testing.T) {
	svc, productAPI, _ := newProductFixture(linkedSnapshot())

	_, err := svc.PatchImmediate(context.Background(), "s1", "p1", map[string]any{
		"price":       99,
		"status":      "active",
		"name":        "renamed", // requires the full update path
		"description": "nope",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(productAPI.lastPatch) != 2 {
		t.Fatalf("expected 2 surviving fields, got %v", productAPI.lastPatch)
	}
	if _, ok := productAPI.lastPatch["name"]; ok {
		t.Error("non-immediate fields must be dropped")
	}
}

// ---------------------------------------------------------------------------
// Vendor lookup healing
// ---------------------------------------------------------------------------

func TestProductService_VendorLookupHealsLinkage(t *testing.T) {
	snap := linkedSnapshot()
	snap.VendorID = "" // approved after login; session predates the record
	svc, _, vendorAPI := newProductFixture(snap)

	vendorAPI.lookupFn = func(_ context.Context, _ ports.CallAuth, userID string) *ports.VendorLookupResult {
		return &ports.VendorLookupResult{
			CallResult: ports.CallResult{Success: true},
			VendorID:   "vendor_new",
			Vendor:     map[string]any{"id": "vendor_new"},
		}
	}

	res, err := svc.Vendor(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.VendorID != "vendor_new" {
		t.Fatalf("unexpected result: %+v", res)
	}

	// Product calls now work without a re-login.
	if _, err := svc.Delete(context.Background(), "s1", "p1"); err != nil {
		t.Errorf("expected healed linkage, got %v", err)
	}
}
