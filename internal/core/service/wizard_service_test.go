package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub draft repository
// ---------------------------------------------------------------------------

type stubDrafts struct {
	drafts map[string]*domain.WizardDraft
	putErr error
	serial int
}

func newStubDrafts() *stubDrafts {
	return &stubDrafts{drafts: make(map[string]*domain.WizardDraft)}
}

func (s *stubDrafts) GetOrCreate(_ context.Context, sessionID string) (*domain.WizardDraft, error) {
	if draft, ok := s.drafts[sessionID]; ok {
		return draft, nil
	}
	s.serial++
	draft := domain.NewWizardDraft(fmt.Sprintf("draft_%d", s.serial), sessionID)
	s.drafts[sessionID] = draft
	return draft, nil
}

func (s *stubDrafts) Get(_ context.Context, sessionID string) (*domain.WizardDraft, error) {
	draft, ok := s.drafts[sessionID]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return draft, nil
}

func (s *stubDrafts) Put(_ context.Context, draft *domain.WizardDraft) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.drafts[draft.SessionID] = draft
	return nil
}

func (s *stubDrafts) Delete(_ context.Context, sessionID string) error {
	delete(s.drafts, sessionID)
	return nil
}

// ---------------------------------------------------------------------------
// Navigation
// ---------------------------------------------------------------------------

func TestWizard_StartsAtBusiness(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)

	view, err := svc.View(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if view.ActiveStep != domain.StepBusiness {
		t.Errorf("expected business, got %s", view.ActiveStep)
	}
	if view.Progress != 0 {
		t.Errorf("expected 0%% progress, got %d", view.Progress)
	}
}

func TestWizard_NextWalksTheFullSequence(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	want := domain.Steps()
	for i := 1; i < len(want); i++ {
		view, err := svc.Next(ctx, "s1")
		if err != nil {
			t.Fatal(err)
		}
		if view.ActiveStep != want[i] {
			t.Fatalf("after %d advances: want %s, got %s", i, want[i], view.ActiveStep)
		}
	}
}

func TestWizard_NextAtReviewIsNoOp(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	for i := 0; i < len(domain.Steps()); i++ { // one extra advance past the end
		if _, err := svc.Next(ctx, "s1"); err != nil {
			t.Fatal(err)
		}
	}
	view, _ := svc.View(ctx, "s1")
	if view.ActiveStep != domain.StepReview {
		t.Errorf("next at review must stay at review, got %s", view.ActiveStep)
	}
}

func TestWizard_PrevAtFirstStepIsNoOp(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)

	view, err := svc.Prev(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	if view.ActiveStep != domain.StepBusiness {
		t.Errorf("prev at business must stay at business, got %s", view.ActiveStep)
	}
}

func TestWizard_GotoBackward(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, _ = svc.Next(ctx, "s1")
	}
	view, err := svc.Goto(ctx, "s1", domain.StepOwner)
	if err != nil {
		t.Fatal(err)
	}
	if view.ActiveStep != domain.StepOwner {
		t.Errorf("expected owner, got %s", view.ActiveStep)
	}
}

func TestWizard_GotoForwardRejected(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)

	_, err := svc.Goto(context.Background(), "s1", domain.StepFinancial)
	if !errors.Is(err, domain.ErrStepLocked) {
		t.Errorf("expected ErrStepLocked, got %v", err)
	}
}

func TestWizard_GotoUnknownStep(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)

	_, err := svc.Goto(context.Background(), "s1", "bogus")
	if !errors.Is(err, domain.ErrUnknownStep) {
		t.Errorf("expected ErrUnknownStep, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Sections and progress
// ---------------------------------------------------------------------------

func TestWizard_UpdateSectionMergesFields(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	_, err := svc.UpdateSection(ctx, "s1", domain.StepBusiness, domain.SectionData{"businessNameEn": "Dates of Arabia"})
	if err != nil {
		t.Fatal(err)
	}
	view, err := svc.UpdateSection(ctx, "s1", domain.StepBusiness, domain.SectionData{"crNumber": "CR-1010"})
	if err != nil {
		t.Fatal(err)
	}

	// Both writes survive; the second merge must not drop the first field.
	if !view.Steps[0].Complete {
		t.Error("business section must be complete")
	}
	if view.Progress != 13 {
		t.Errorf("expected 13%% after one section, got %d", view.Progress)
	}
}

func TestWizard_UpdateSectionIdempotentProgress(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	first, _ := svc.UpdateSection(ctx, "s1", domain.StepOwner, domain.SectionData{"fullName": "Aisha"})
	second, _ := svc.UpdateSection(ctx, "s1", domain.StepOwner, domain.SectionData{"fullName": "Aisha"})
	if first.Progress != second.Progress {
		t.Errorf("repeated identical update changed progress: %d -> %d", first.Progress, second.Progress)
	}
}

func TestWizard_UpdateSectionRejectsReviewAndUnknown(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	_, err := svc.UpdateSection(ctx, "s1", domain.StepReview, domain.SectionData{"x": "y"})
	if !errors.Is(err, domain.ErrUnknownStep) {
		t.Errorf("review is not a data section, got %v", err)
	}
	_, err = svc.UpdateSection(ctx, "s1", "bogus", domain.SectionData{"x": "y"})
	if !errors.Is(err, domain.ErrUnknownStep) {
		t.Errorf("expected ErrUnknownStep, got %v", err)
	}
}

func TestWizard_ProgressReaches100OnlyWhenAllSectionsFilled(t *testing.T) {
	drafts := newStubDrafts()
	svc := NewWizardService(drafts, discardLogger)
	ctx := context.Background()

	for i, k := range domain.SectionKeys() {
		view, err := svc.UpdateSection(ctx, "s1", k, domain.SectionData{"filled": "x"})
		if err != nil {
			t.Fatal(err)
		}
		last := i == len(domain.SectionKeys())-1
		if last && view.Progress != 100 {
			t.Errorf("all sections filled: expected 100, got %d", view.Progress)
		}
		if !last && view.Progress == 100 {
			t.Errorf("progress hit 100 with only %d sections", i+1)
		}
	}
}

// ---------------------------------------------------------------------------
// Pickup addresses
// ---------------------------------------------------------------------------

func TestWizard_AppendBlankPickupDoesNotComplete(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	view, err := svc.AppendPickupAddress(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(view.PickupAddresses) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(view.PickupAddresses))
	}
	for _, step := range view.Steps {
		if step.Key == domain.StepPickup && step.Complete {
			t.Error("blank addresses must not complete the pickup section")
		}
	}
}

func TestWizard_UpdatePickupCompletesSection(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	view, err := svc.UpdatePickupAddress(ctx, "s1", 0, ports.PickupAddressInput{
		Label: "Warehouse", City: "Riyadh",
	})
	if err != nil {
		t.Fatal(err)
	}
	if view.PickupAddresses[0].Label != "Warehouse" {
		t.Errorf("unexpected address: %+v", view.PickupAddresses[0])
	}
	for _, step := range view.Steps {
		if step.Key == domain.StepPickup && !step.Complete {
			t.Error("a non-blank address must complete the pickup section")
		}
	}
}

func TestWizard_RemoveLastPickupRejected(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)

	_, err := svc.RemovePickupAddress(context.Background(), "s1", 0)
	if !errors.Is(err, domain.ErrLastPickupAddress) {
		t.Errorf("expected ErrLastPickupAddress, got %v", err)
	}

	view, _ := svc.View(context.Background(), "s1")
	if len(view.PickupAddresses) != 1 {
		t.Errorf("list must be unchanged, got %d entries", len(view.PickupAddresses))
	}
}

func TestWizard_RemovePickupPreservesOrder(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	_, _ = svc.AppendPickupAddress(ctx, "s1")
	_, _ = svc.AppendPickupAddress(ctx, "s1")
	_, _ = svc.UpdatePickupAddress(ctx, "s1", 0, ports.PickupAddressInput{Label: "A"})
	_, _ = svc.UpdatePickupAddress(ctx, "s1", 1, ports.PickupAddressInput{Label: "B"})
	_, _ = svc.UpdatePickupAddress(ctx, "s1", 2, ports.PickupAddressInput{Label: "C"})

	view, err := svc.RemovePickupAddress(ctx, "s1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.PickupAddresses) != 2 {
		t.Fatalf("expected 2 addresses, got %d", len(view.PickupAddresses))
	}
	if view.PickupAddresses[0].Label != "A" || view.PickupAddresses[1].Label != "C" {
		t.Errorf("order not preserved: %+v", view.PickupAddresses)
	}
}

func TestWizard_PickupIndexOutOfRange(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	if _, err := svc.UpdatePickupAddress(ctx, "s1", 5, ports.PickupAddressInput{Label: "X"}); !errors.Is(err, domain.ErrPickupIndexOutOfRange) {
		t.Errorf("update: expected ErrPickupIndexOutOfRange, got %v", err)
	}

	_, _ = svc.AppendPickupAddress(ctx, "s1")
	if _, err := svc.RemovePickupAddress(ctx, "s1", -1); !errors.Is(err, domain.ErrPickupIndexOutOfRange) {
		t.Errorf("remove: expected ErrPickupIndexOutOfRange, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Documents
// ---------------------------------------------------------------------------

func pdfUpload(name string) ports.DocumentUpload {
	return ports.DocumentUpload{
		FileName:    name,
		ContentType: "application/pdf",
		Size:        128,
		Data:        []byte("%PDF-fake"),
	}
}

func TestWizard_AttachDocument(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)

	view, err := svc.AttachDocument(context.Background(), "s1", domain.SlotCommercialRegistration, pdfUpload("cr.pdf"))
	if err != nil {
		t.Fatal(err)
	}
	if view.Documents[domain.SlotCommercialRegistration] != "cr.pdf" {
		t.Errorf("expected cr.pdf in slot, got %q", view.Documents[domain.SlotCommercialRegistration])
	}
	for _, step := range view.Steps {
		if step.Key == domain.StepDocuments && !step.Complete {
			t.Error("an occupied slot must complete the documents section")
		}
	}
}

func TestWizard_AttachDocument_OverwritesSlot(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	_, _ = svc.AttachDocument(ctx, "s1", domain.SlotStoreLogo, ports.DocumentUpload{FileName: "old.png", ContentType: "image/png"})
	view, err := svc.AttachDocument(ctx, "s1", domain.SlotStoreLogo, ports.DocumentUpload{FileName: "new.png", ContentType: "image/png"})
	if err != nil {
		t.Fatal(err)
	}
	if view.Documents[domain.SlotStoreLogo] != "new.png" {
		t.Errorf("expected overwrite, got %q", view.Documents[domain.SlotStoreLogo])
	}
}

func TestWizard_AttachDocument_RejectedTypeLeavesSlotUnchanged(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	_, _ = svc.AttachDocument(ctx, "s1", domain.SlotNationalID, pdfUpload("id.pdf"))

	_, err := svc.AttachDocument(ctx, "s1", domain.SlotNationalID, ports.DocumentUpload{
		FileName:    "id.gif",
		ContentType: "image/gif",
	})
	if !errors.Is(err, domain.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}

	view, _ := svc.View(ctx, "s1")
	if view.Documents[domain.SlotNationalID] != "id.pdf" {
		t.Errorf("rejected upload must leave the prior file, got %q", view.Documents[domain.SlotNationalID])
	}
}

func TestWizard_AttachDocument_UnknownSlot(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)

	_, err := svc.AttachDocument(context.Background(), "s1", "taxReturn", pdfUpload("t.pdf"))
	if !errors.Is(err, domain.ErrUnknownDocumentSlot) {
		t.Errorf("expected ErrUnknownDocumentSlot, got %v", err)
	}
}

func TestWizard_RemoveDocument(t *testing.T) {
	svc := NewWizardService(newStubDrafts(), discardLogger)
	ctx := context.Background()

	_, _ = svc.AttachDocument(ctx, "s1", domain.SlotBankLetter, pdfUpload("letter.pdf"))
	view, err := svc.RemoveDocument(ctx, "s1", domain.SlotBankLetter)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := view.Documents[domain.SlotBankLetter]; ok {
		t.Error("slot must be empty after removal")
	}
	for _, step := range view.Steps {
		if step.Key == domain.StepDocuments && step.Complete {
			t.Error("removing the only document must un-complete the section")
		}
	}
}
