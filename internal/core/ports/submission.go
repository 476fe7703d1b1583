package ports

import (
	"context"
	"time"

	"github.com/bazarly/vendor-portal/internal/core/domain"
)

// ReviewView is the submit-page aggregate: the flattened backend payload the
// submission would send, plus per-section completion.
type ReviewView struct {
	Payload     map[string]any          `json:"payload"`
	Complete    map[domain.StepKey]bool `json:"complete"`
	AllComplete bool                    `json:"all_complete"`
	Progress    int                     `json:"progress"`
	Submitted   bool                    `json:"submitted"`
}

// SubmitResult is the outcome of a registration submission. Backend
// rejections and network failures are carried in the result; only portal-side
// gating (incomplete sections, duplicate submit) surfaces as errors.
type SubmitResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	VendorID string `json:"vendor_id,omitempty"`
}

// SubmissionService flattens a completed draft into the backend payload and
// performs the one-shot submit.
type SubmissionService interface {
	Preview(ctx context.Context, sessionID string) (*ReviewView, error)

	// Submit returns domain.ErrIncompleteRegistration until every data
	// section is complete and domain.ErrAlreadySubmitted after a success.
	// A failed submission leaves the draft editable and re-submittable.
	Submit(ctx context.Context, sessionID string) (*SubmitResult, error)
}

// SubmissionRecord is the audit-trail entry written for every submission
// attempt.
type SubmissionRecord struct {
	DraftID     string    `json:"draft_id"`
	SessionID   string    `json:"session_id"`
	VendorName  string    `json:"vendor_name"`
	Region      string    `json:"region"`
	Success     bool      `json:"success"`
	Message     string    `json:"message,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmissionRepository persists the audit trail of submission attempts.
type SubmissionRepository interface {
	Insert(ctx context.Context, record *SubmissionRecord) error
}
