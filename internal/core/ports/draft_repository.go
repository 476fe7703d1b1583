package ports

import (
	"context"

	"github.com/bazarly/vendor-portal/internal/core/domain"
)

// DraftRepository stores in-progress wizard drafts keyed by portal session.
// Implementations are in-memory: drafts intentionally do not survive a
// restart.
type DraftRepository interface {
	// GetOrCreate returns the session's draft, creating the empty template
	// on first access.
	GetOrCreate(ctx context.Context, sessionID string) (*domain.WizardDraft, error)
	Get(ctx context.Context, sessionID string) (*domain.WizardDraft, error)
	Put(ctx context.Context, draft *domain.WizardDraft) error
	Delete(ctx context.Context, sessionID string) error
}
