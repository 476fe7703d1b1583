package ports

import (
	"context"

	"github.com/bazarly/vendor-portal/internal/core/domain"
)

// SessionRepository persists the restart-surviving subset of a session under
// its named key. Load returns domain.ErrSessionNotFound for unknown IDs.
type SessionRepository interface {
	Save(ctx context.Context, sessionID string, snap domain.Snapshot) error
	Load(ctx context.Context, sessionID string) (domain.Snapshot, error)
	Delete(ctx context.Context, sessionID string) error
}
