package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bazarly/vendor-portal/internal/core/ports"
)

const (
	vendorRegisterPath  = "/vendors/register"
	vendorByUserPathFmt = "/vendors/user/%s"
	vendorDataFieldName = "vendorData"
)

// VendorClient calls the backend's vendor registration and lookup endpoints.
type VendorClient struct {
	client *Client
}

func NewVendorClient(client *Client) *VendorClient {
	return &VendorClient{client: client}
}

// Register posts the multipart registration: one vendorData JSON part plus a
// named file part per occupied document slot.
func (v *VendorClient) Register(ctx context.Context, auth ports.CallAuth, in ports.RegisterVendorInput) *ports.VendorRegisterResult {
	files := make([]ports.FileUpload, 0, len(in.Documents))
	for slot, doc := range in.Documents {
		if doc == nil {
			continue
		}
		files = append(files, ports.FileUpload{
			FieldName:   string(slot),
			FileName:    doc.FileName,
			ContentType: doc.ContentType,
			Data:        doc.Data,
		})
	}

	resp := v.client.doAuthed(ctx, "vendor_register", http.MethodPost, vendorRegisterPath, auth,
		multipartBody(vendorDataFieldName, in.VendorData, files))

	result := &ports.VendorRegisterResult{CallResult: callResult(resp)}
	if !result.Success {
		return result
	}

	var payload struct {
		Message  string `json:"message"`
		VendorID string `json:"vendor_id"`
		Vendor   struct {
			ID string `json:"id"`
		} `json:"vendor"`
	}
	if err := json.Unmarshal(resp.body, &payload); err == nil {
		result.Message = payload.Message
		result.VendorID = payload.VendorID
		if result.VendorID == "" {
			result.VendorID = payload.Vendor.ID
		}
	}
	return result
}

func (v *VendorClient) LookupByUser(ctx context.Context, auth ports.CallAuth, userID string) *ports.VendorLookupResult {
	resp := v.client.doAuthed(ctx, "vendor_lookup", http.MethodGet, sprintfPath(vendorByUserPathFmt, userID), auth, nil)

	result := &ports.VendorLookupResult{CallResult: callResult(resp)}
	if !result.Success {
		return result
	}

	var vendor map[string]any
	if err := json.Unmarshal(resp.body, &vendor); err != nil {
		result.Success = false
		result.Message = "unexpected vendor response"
		return result
	}
	result.Vendor = vendor
	if id, ok := vendor["id"].(string); ok {
		result.VendorID = id
	}
	return result
}
