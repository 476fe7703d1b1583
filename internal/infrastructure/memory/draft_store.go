// Package memory holds the in-memory wizard draft store. Drafts deliberately
// do not survive a restart: abandoning the wizard discards them.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/bazarly/vendor-portal/internal/core/domain"
)

// DraftStore keeps one wizard draft per portal session.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[string]*domain.WizardDraft
}

func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[string]*domain.WizardDraft)}
}

func (s *DraftStore) GetOrCreate(_ context.Context, sessionID string) (*domain.WizardDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if draft, ok := s.drafts[sessionID]; ok {
		return draft, nil
	}
	draft := domain.NewWizardDraft(uuid.NewString(), sessionID)
	s.drafts[sessionID] = draft
	return draft, nil
}

func (s *DraftStore) Get(_ context.Context, sessionID string) (*domain.WizardDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	draft, ok := s.drafts[sessionID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return draft, nil
}

func (s *DraftStore) Put(_ context.Context, draft *domain.WizardDraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.drafts[draft.SessionID] = draft
	return nil
}

func (s *DraftStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.drafts, sessionID)
	return nil
}
