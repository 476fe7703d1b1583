package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/ports"
	"github.com/bazarly/vendor-portal/internal/metrics"
)

// pickupAddressesKey is the field under which the pickup list is mirrored
// into the pickup section, so the shallow completion rule applies uniformly.
const pickupAddressesKey = "pickupAddresses"

// WizardService drives the per-session registration wizard draft. Every
// operation holds the draft's own lock, which is shared with the submission
// side.
type WizardService struct {
	drafts ports.DraftRepository
	logger zerolog.Logger
}

func NewWizardService(drafts ports.DraftRepository, logger zerolog.Logger) *WizardService {
	return &WizardService{drafts: drafts, logger: logger}
}

func (s *WizardService) View(ctx context.Context, sessionID string) (*ports.WizardView, error) {
	draft, err := s.drafts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Lock()
	defer draft.Unlock()
	return buildView(draft), nil
}

// UpdateSection merges fields into the step's section in place. Calling it
// twice with the same data is idempotent with respect to completion.
func (s *WizardService) UpdateSection(ctx context.Context, sessionID string, step domain.StepKey, fields domain.SectionData) (*ports.WizardView, error) {
	if domain.StepIndex(step) < 0 || step == domain.StepReview {
		return nil, domain.ErrUnknownStep
	}

	draft, err := s.drafts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Lock()
	defer draft.Unlock()

	section := draft.Form.Sections[step]
	for k, v := range fields {
		section[k] = v
	}

	if err := s.drafts.Put(ctx, draft); err != nil {
		return nil, err
	}
	metrics.SectionUpdatesTotal.WithLabelValues(string(step)).Inc()
	return buildView(draft), nil
}

// Next advances one step. At the review step it is a no-op: submission is
// the only forward action from there.
func (s *WizardService) Next(ctx context.Context, sessionID string) (*ports.WizardView, error) {
	return s.move(ctx, sessionID, +1)
}

// Prev moves one step back; at the first step it is a no-op.
func (s *WizardService) Prev(ctx context.Context, sessionID string) (*ports.WizardView, error) {
	return s.move(ctx, sessionID, -1)
}

func (s *WizardService) move(ctx context.Context, sessionID string, delta int) (*ports.WizardView, error) {
	draft, err := s.drafts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Lock()
	defer draft.Unlock()

	steps := domain.Steps()
	idx := domain.StepIndex(draft.ActiveStep) + delta
	if idx >= 0 && idx < len(steps) {
		draft.ActiveStep = steps[idx]
		if err := s.drafts.Put(ctx, draft); err != nil {
			return nil, err
		}
	}
	return buildView(draft), nil
}

// Goto jumps to an earlier or the current step. Forward jumps are rejected:
// the sidebar only unlocks steps already reached.
func (s *WizardService) Goto(ctx context.Context, sessionID string, step domain.StepKey) (*ports.WizardView, error) {
	if domain.StepIndex(step) < 0 {
		return nil, domain.ErrUnknownStep
	}

	draft, err := s.drafts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Lock()
	defer draft.Unlock()
	if !draft.ActiveStep.CanNavigateTo(step) {
		return nil, domain.ErrStepLocked
	}

	draft.ActiveStep = step
	if err := s.drafts.Put(ctx, draft); err != nil {
		return nil, err
	}
	return buildView(draft), nil
}

// AppendPickupAddress adds one blank record to the end of the list. A blank
// record does not populate the pickup section.
func (s *WizardService) AppendPickupAddress(ctx context.Context, sessionID string) (*ports.WizardView, error) {
	draft, err := s.drafts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Lock()
	defer draft.Unlock()

	draft.Form.PickupAddresses = append(draft.Form.PickupAddresses, domain.PickupAddress{})
	if err := s.drafts.Put(ctx, draft); err != nil {
		return nil, err
	}
	return buildView(draft), nil
}

func (s *WizardService) UpdatePickupAddress(ctx context.Context, sessionID string, index int, in ports.PickupAddressInput) (*ports.WizardView, error) {
	draft, err := s.drafts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Lock()
	defer draft.Unlock()
	if index < 0 || index >= len(draft.Form.PickupAddresses) {
		return nil, domain.ErrPickupIndexOutOfRange
	}

	addr := &draft.Form.PickupAddresses[index]
	if in.Label != "" {
		addr.Label = in.Label
	}
	if in.AddressLine != "" {
		addr.AddressLine = in.AddressLine
	}
	if in.City != "" {
		addr.City = in.City
	}
	if in.Region != "" {
		addr.Region = in.Region
	}
	if in.PostalCode != "" {
		addr.PostalCode = in.PostalCode
	}
	if in.Phone != "" {
		addr.Phone = in.Phone
	}

	syncPickupSection(draft.Form)
	if err := s.drafts.Put(ctx, draft); err != nil {
		return nil, err
	}
	return buildView(draft), nil
}

// RemovePickupAddress deletes the entry at index, preserving the order of
// the rest. The list never shrinks below one record.
func (s *WizardService) RemovePickupAddress(ctx context.Context, sessionID string, index int) (*ports.WizardView, error) {
	draft, err := s.drafts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Lock()
	defer draft.Unlock()
	if len(draft.Form.PickupAddresses) == 1 {
		return nil, domain.ErrLastPickupAddress
	}
	if index < 0 || index >= len(draft.Form.PickupAddresses) {
		return nil, domain.ErrPickupIndexOutOfRange
	}

	list := draft.Form.PickupAddresses
	draft.Form.PickupAddresses = append(list[:index], list[index+1:]...)

	syncPickupSection(draft.Form)
	if err := s.drafts.Put(ctx, draft); err != nil {
		return nil, err
	}
	return buildView(draft), nil
}

// AttachDocument stores the upload in its slot, overwriting any previous
// file. A rejected MIME type leaves the slot's prior value (empty or the
// previous file) unchanged.
func (s *WizardService) AttachDocument(ctx context.Context, sessionID string, slot domain.DocumentSlot, upload ports.DocumentUpload) (*ports.WizardView, error) {
	if !domain.ValidDocumentSlot(slot) {
		return nil, domain.ErrUnknownDocumentSlot
	}
	if !domain.AcceptedDocumentType(upload.ContentType) {
		metrics.DocumentUploadsTotal.WithLabelValues(string(slot), "rejected_type").Inc()
		s.logger.Info().Str("slot", string(slot)).Str("content_type", upload.ContentType).Msg("document rejected")
		return nil, domain.ErrUnsupportedFileType
	}

	draft, err := s.drafts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Lock()
	defer draft.Unlock()

	draft.Form.Documents[slot] = &domain.Document{
		FileName:    upload.FileName,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		Data:        upload.Data,
	}
	draft.Form.Sections[domain.StepDocuments][string(slot)] = upload.FileName

	if err := s.drafts.Put(ctx, draft); err != nil {
		return nil, err
	}
	metrics.DocumentUploadsTotal.WithLabelValues(string(slot), "accepted").Inc()
	return buildView(draft), nil
}

func (s *WizardService) RemoveDocument(ctx context.Context, sessionID string, slot domain.DocumentSlot) (*ports.WizardView, error) {
	if !domain.ValidDocumentSlot(slot) {
		return nil, domain.ErrUnknownDocumentSlot
	}

	draft, err := s.drafts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Lock()
	defer draft.Unlock()

	delete(draft.Form.Documents, slot)
	delete(draft.Form.Sections[domain.StepDocuments], string(slot))

	if err := s.drafts.Put(ctx, draft); err != nil {
		return nil, err
	}
	return buildView(draft), nil
}

// syncPickupSection mirrors the pickup list into the pickup section. Only a
// list containing at least one non-blank address populates the section, so
// appending blanks never marks the step complete.
func syncPickupSection(form *domain.RegistrationForm) {
	any := false
	for _, a := range form.PickupAddresses {
		if !a.Blank() {
			any = true
			break
		}
	}
	if any {
		list := make([]domain.PickupAddress, len(form.PickupAddresses))
		copy(list, form.PickupAddresses)
		form.Sections[domain.StepPickup][pickupAddressesKey] = list
	} else {
		delete(form.Sections[domain.StepPickup], pickupAddressesKey)
	}
}

func buildView(draft *domain.WizardDraft) *ports.WizardView {
	cur := domain.StepIndex(draft.ActiveStep)
	steps := make([]ports.StepStatus, 0, len(domain.Steps()))
	for i, k := range domain.Steps() {
		steps = append(steps, ports.StepStatus{
			Key:       k,
			Index:     i,
			Complete:  k != domain.StepReview && draft.Form.SectionComplete(k),
			Reachable: i <= cur,
		})
	}

	docs := make(map[domain.DocumentSlot]string, len(draft.Form.Documents))
	for slot, doc := range draft.Form.Documents {
		docs[slot] = doc.FileName
	}

	addresses := make([]domain.PickupAddress, len(draft.Form.PickupAddresses))
	copy(addresses, draft.Form.PickupAddresses)

	return &ports.WizardView{
		ActiveStep:      draft.ActiveStep,
		Steps:           steps,
		Progress:        draft.Form.Progress(),
		PickupAddresses: addresses,
		Documents:       docs,
		Submitted:       draft.Submitted,
	}
}
