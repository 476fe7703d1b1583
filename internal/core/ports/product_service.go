package ports

import "context"

// ProductService proxies product operations to the marketplace backend on
// behalf of a portal session, resolving the bearer token and vendor ID at
// call time. Session errors (unknown session, missing vendor) surface as Go
// errors; backend outcomes are carried in the results.
type ProductService interface {
	Create(ctx context.Context, sessionID string, data map[string]any, images []FileUpload) (*ProductResult, error)
	List(ctx context.Context, sessionID string, page, limit int) (*ProductListResult, error)
	Update(ctx context.Context, sessionID, productID string, data map[string]any, images []FileUpload) (*ProductResult, error)
	Delete(ctx context.Context, sessionID, productID string) (*ProductResult, error)
	PatchImmediate(ctx context.Context, sessionID, productID string, fields map[string]any) (*ProductResult, error)
	SubmitForReview(ctx context.Context, sessionID, productID string, review ReviewSubmission) (*ProductResult, error)
	Vendor(ctx context.Context, sessionID string) (*VendorLookupResult, error)
	Brands(ctx context.Context) *BrandsResult
}
