package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bazarly/vendor-portal/internal/core/ports"
)

const (
	productsPathFmt      = "/vendors/%s/products"
	productPathFmt       = "/vendors/%s/products/%s"
	productReviewPathFmt = "/vendors/%s/products/%s/review"
	brandsPath           = "/products/brands/list"
	productDataFieldName = "productData"
	imagesFieldName      = "images"
)

// ProductClient calls the backend's vendor product endpoints.
type ProductClient struct {
	client *Client
}

func NewProductClient(client *Client) *ProductClient {
	return &ProductClient{client: client}
}

func (p *ProductClient) Create(ctx context.Context, auth ports.CallAuth, vendorID string, data map[string]any, images []ports.FileUpload) *ports.ProductResult {
	resp := p.client.doAuthed(ctx, "product_create", http.MethodPost, sprintfPath(productsPathFmt, vendorID), auth,
		multipartBody(productDataFieldName, data, withFieldName(images, imagesFieldName)))
	return productResult(resp)
}

func (p *ProductClient) List(ctx context.Context, auth ports.CallAuth, vendorID string, page, limit int) *ports.ProductListResult {
	path := fmt.Sprintf("%s?page=%d&limit=%d", sprintfPath(productsPathFmt, vendorID), page, limit)
	resp := p.client.doAuthed(ctx, "product_list", http.MethodGet, path, auth, nil)

	result := &ports.ProductListResult{CallResult: callResult(resp), Page: page, Limit: limit}
	if !result.Success {
		return result
	}

	var payload struct {
		Products []map[string]any `json:"products"`
		Data     []map[string]any `json:"data"`
		Total    int64            `json:"total"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		result.Success = false
		result.Message = "unexpected product list response"
		return result
	}
	result.Products = payload.Products
	if result.Products == nil {
		result.Products = payload.Data
	}
	result.Total = payload.Total
	return result
}

func (p *ProductClient) Update(ctx context.Context, auth ports.CallAuth, vendorID, productID string, data map[string]any, images []ports.FileUpload) *ports.ProductResult {
	resp := p.client.doAuthed(ctx, "product_update", http.MethodPut, sprintfPath(productPathFmt, vendorID, productID), auth,
		multipartBody(productDataFieldName, data, withFieldName(images, imagesFieldName)))
	return productResult(resp)
}

func (p *ProductClient) Delete(ctx context.Context, auth ports.CallAuth, vendorID, productID string) *ports.ProductResult {
	resp := p.client.doAuthed(ctx, "product_delete", http.MethodDelete, sprintfPath(productPathFmt, vendorID, productID), auth, nil)
	return productResult(resp)
}

func (p *ProductClient) PatchImmediate(ctx context.Context, auth ports.CallAuth, vendorID, productID string, fields map[string]any) *ports.ProductResult {
	resp := p.client.doAuthed(ctx, "product_patch", http.MethodPatch, sprintfPath(productPathFmt, vendorID, productID), auth,
		jsonBody(fields))
	return productResult(resp)
}

func (p *ProductClient) SubmitForReview(ctx context.Context, auth ports.CallAuth, vendorID, productID string, review ports.ReviewSubmission) *ports.ProductResult {
	resp := p.client.doAuthed(ctx, "product_review", http.MethodPost, sprintfPath(productReviewPathFmt, vendorID, productID), auth,
		jsonBody(review))
	return productResult(resp)
}

// Brands is a public endpoint; no bearer token is attached.
func (p *ProductClient) Brands(ctx context.Context) *ports.BrandsResult {
	resp := p.client.do(ctx, "brands_list", http.MethodGet, brandsPath, "", nil)

	result := &ports.BrandsResult{CallResult: callResult(resp)}
	if !result.Success {
		return result
	}

	var payload struct {
		Brands []ports.Brand `json:"brands"`
	}
	if err := json.Unmarshal(resp.body, &payload); err == nil && payload.Brands != nil {
		result.Brands = payload.Brands
		return result
	}
	// Some deployments return the bare array.
	var brands []ports.Brand
	if err := json.Unmarshal(resp.body, &brands); err == nil {
		result.Brands = brands
		return result
	}
	result.Success = false
	result.Message = "unexpected brands response"
	return result
}

func productResult(resp response) *ports.ProductResult {
	result := &ports.ProductResult{CallResult: callResult(resp)}
	if !result.Success || len(resp.body) == 0 {
		return result
	}

	var payload struct {
		Message string         `json:"message"`
		Product map[string]any `json:"product"`
	}
	if err := json.Unmarshal(resp.body, &payload); err == nil {
		result.Message = payload.Message
		result.Product = payload.Product
	}
	return result
}

// withFieldName stamps the multipart field name onto uploads coming from the
// transport layer, which only knows file names and types.
func withFieldName(files []ports.FileUpload, field string) []ports.FileUpload {
	out := make([]ports.FileUpload, len(files))
	copy(out, files)
	for i := range out {
		out[i].FieldName = field
	}
	return out
}
