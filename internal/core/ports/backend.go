package ports

import (
	"context"

	"github.com/bazarly/vendor-portal/internal/core/domain"
)

// FileUpload is a file attachment for a multipart backend request.
type FileUpload struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
}

// CallResult is the uniform outcome shape shared by every backend client
// call. Backend rejections and transport failures never surface as Go
// errors: they are normalized into Success=false plus a message resolved
// through the fallback chain (JSON "message" → JSON "error" → raw body →
// "request failed with status N"), or the fixed "network error" message when
// the request never completed.
type CallResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message,omitempty"`
	Status       int    `json:"status,omitempty"`
	NetworkError bool   `json:"network_error,omitempty"`
}

// AuthLoginResult is the login endpoint's normalized response.
type AuthLoginResult struct {
	CallResult
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user,omitempty"`
}

// AuthAPI is the client for the backend's authentication endpoints.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) *AuthLoginResult
}

// RegisterVendorInput is the multipart registration request: the flattened
// vendorData JSON part plus up to six named document parts.
type RegisterVendorInput struct {
	VendorData map[string]any
	Documents  map[domain.DocumentSlot]*domain.Document
}

// VendorRegisterResult is the registration endpoint's normalized response.
type VendorRegisterResult struct {
	CallResult
	VendorID string `json:"vendor_id,omitempty"`
}

// VendorLookupResult is the vendor-by-user lookup's normalized response.
type VendorLookupResult struct {
	CallResult
	VendorID string         `json:"vendor_id,omitempty"`
	Vendor   map[string]any `json:"vendor,omitempty"`
}

// VendorAPI is the client for vendor registration and lookup.
type VendorAPI interface {
	Register(ctx context.Context, auth CallAuth, in RegisterVendorInput) *VendorRegisterResult
	LookupByUser(ctx context.Context, auth CallAuth, userID string) *VendorLookupResult
}

// CallAuth identifies the session on whose behalf an authenticated call is
// made. Token must be read from the session store at call time; SessionID
// lets the shared client signal a refresh or eviction back to the store.
type CallAuth struct {
	SessionID string
	Token     string
}

// ProductResult wraps a single-product response.
type ProductResult struct {
	CallResult
	Product map[string]any `json:"product,omitempty"`
}

// ProductListResult wraps the paged product list response.
type ProductListResult struct {
	CallResult
	Products []map[string]any `json:"products,omitempty"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// Brand is one entry of the public brands list.
type Brand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BrandsResult wraps the brands list response.
type BrandsResult struct {
	CallResult
	Brands []Brand `json:"brands,omitempty"`
}

// ReviewSubmission is the payload for submitting a product for review.
type ReviewSubmission struct {
	Action   string `json:"action" validate:"required,oneof=submit withdraw"`
	Notes    string `json:"notes,omitempty"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low normal high"`
	Category string `json:"category,omitempty"`
}

// ProductAPI is the client for the vendor product endpoints.
type ProductAPI interface {
	Create(ctx context.Context, auth CallAuth, vendorID string, data map[string]any, images []FileUpload) *ProductResult
	List(ctx context.Context, auth CallAuth, vendorID string, page, limit int) *ProductListResult
	Update(ctx context.Context, auth CallAuth, vendorID, productID string, data map[string]any, images []FileUpload) *ProductResult
	Delete(ctx context.Context, auth CallAuth, vendorID, productID string) *ProductResult
	// PatchImmediate applies a JSON subset of mutable fields without the
	// multipart round trip.
	PatchImmediate(ctx context.Context, auth CallAuth, vendorID, productID string, fields map[string]any) *ProductResult
	SubmitForReview(ctx context.Context, auth CallAuth, vendorID, productID string, review ReviewSubmission) *ProductResult
	Brands(ctx context.Context) *BrandsResult
}
