package ports

import (
	"context"

	"github.com/bazarly/vendor-portal/internal/core/domain"
)

// StepStatus is one entry of the wizard sidebar.
type StepStatus struct {
	Key      domain.StepKey `json:"key"`
	Index    int            `json:"index"`
	Complete bool           `json:"complete"`
	// Reachable mirrors the sidebar rule: a step is selectable only when its
	// index does not exceed the active step's index.
	Reachable bool `json:"reachable"`
}

// WizardView is the full wizard state returned after every operation.
type WizardView struct {
	ActiveStep      domain.StepKey         `json:"active_step"`
	Steps           []StepStatus           `json:"steps"`
	Progress        int                    `json:"progress"`
	PickupAddresses []domain.PickupAddress `json:"pickup_addresses"`
	// Documents maps each occupied slot to the stored file name.
	Documents map[domain.DocumentSlot]string `json:"documents"`
	Submitted bool                           `json:"submitted"`
}

// DocumentUpload carries one file received for a document slot.
type DocumentUpload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// PickupAddressInput is a partial pickup-address update; empty fields leave
// the stored value unchanged.
type PickupAddressInput struct {
	Label       string `json:"label"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostalCode  string `json:"postal_code"`
	Phone       string `json:"phone"`
}

// WizardService drives the registration wizard state machine for the
// session's draft.
type WizardService interface {
	View(ctx context.Context, sessionID string) (*WizardView, error)

	// UpdateSection merges fields into the step's section in place. Required
	// field gating lives with the presentation layer; the service accepts
	// any partial update.
	UpdateSection(ctx context.Context, sessionID string, step domain.StepKey, fields domain.SectionData) (*WizardView, error)

	// Next advances one step; at review it is a no-op. Prev moves one step
	// back; at business it is a no-op.
	Next(ctx context.Context, sessionID string) (*WizardView, error)
	Prev(ctx context.Context, sessionID string) (*WizardView, error)

	// Goto jumps to an earlier or the current step. Forward jumps return
	// domain.ErrStepLocked.
	Goto(ctx context.Context, sessionID string, step domain.StepKey) (*WizardView, error)

	AppendPickupAddress(ctx context.Context, sessionID string) (*WizardView, error)
	UpdatePickupAddress(ctx context.Context, sessionID string, index int, in PickupAddressInput) (*WizardView, error)
	// RemovePickupAddress deletes the entry at index, preserving order of the
	// rest. Removing the only remaining entry returns
	// domain.ErrLastPickupAddress with the list unchanged.
	RemovePickupAddress(ctx context.Context, sessionID string, index int) (*WizardView, error)

	// AttachDocument stores the upload in the slot, overwriting any previous
	// file. Uploads with a MIME type other than PDF/JPEG/PNG are rejected
	// with domain.ErrUnsupportedFileType and the slot's prior value intact.
	AttachDocument(ctx context.Context, sessionID string, slot domain.DocumentSlot, upload DocumentUpload) (*WizardView, error)
	RemoveDocument(ctx context.Context, sessionID string, slot domain.DocumentSlot) (*WizardView, error)
}
