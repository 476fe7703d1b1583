package domain

import (
	"errors"
	"math"
	"sync"
)

// StepKey identifies one step of the vendor registration wizard.
type StepKey string

const (
	StepBusiness   StepKey = "business"
	StepOwner      StepKey = "owner"
	StepAddress    StepKey = "address"
	StepCategories StepKey = "categories"
	StepDocuments  StepKey = "documents"
	StepFinancial  StepKey = "financial"
	StepPickup     StepKey = "pickup"
	StepAgreement  StepKey = "agreement"
	StepReview     StepKey = "review"
)

// stepOrder is the fixed wizard sequence. Review is navigable but never
// counts as a completable section.
var stepOrder = []StepKey{
	StepBusiness,
	StepOwner,
	StepAddress,
	StepCategories,
	StepDocuments,
	StepFinancial,
	StepPickup,
	StepAgreement,
	StepReview,
}

var ErrUnknownStep = errors.New("unknown wizard step")
var ErrStepLocked = errors.New("step not yet reachable")
var ErrUnknownDocumentSlot = errors.New("unknown document slot")
var ErrUnsupportedFileType = errors.New("unsupported file type")
var ErrLastPickupAddress = errors.New("cannot remove the last pickup address")
var ErrPickupIndexOutOfRange = errors.New("pickup address index out of range")
var ErrDraftNotFound = errors.New("registration draft not found")
var ErrAlreadySubmitted = errors.New("registration already submitted")
var ErrIncompleteRegistration = errors.New("all sections must be completed before submitting")
var ErrSubmitInFlight = errors.New("submission already in progress")

// Steps returns the wizard steps in order.
func Steps() []StepKey {
	out := make([]StepKey, len(stepOrder))
	copy(out, stepOrder)
	return out
}

// StepIndex returns the zero-based position of key, or -1 when unknown.
func StepIndex(key StepKey) int {
	for i, k := range stepOrder {
		if k == key {
			return i
		}
	}
	return -1
}

// CanNavigateTo reports whether a sidebar jump from the current step to
// target is allowed: backward and in-place navigation only, never forward.
func (s StepKey) CanNavigateTo(target StepKey) bool {
	ti := StepIndex(target)
	if ti < 0 {
		return false
	}
	return ti <= StepIndex(s)
}

// SectionKeys are the eight data-bearing wizard sections (every step except
// review).
func SectionKeys() []StepKey {
	return stepOrder[:len(stepOrder)-1]
}

// SectionData is one section's field map. Values are primitives, string
// slices, or nested maps as submitted by the step form.
type SectionData map[string]any

// DocumentSlot names one of the six fixed upload slots.
type DocumentSlot string

const (
	SlotCommercialRegistration DocumentSlot = "commercialRegistration"
	SlotVATCertificate         DocumentSlot = "vatCertificate"
	SlotNationalID             DocumentSlot = "nationalId"
	SlotBankLetter             DocumentSlot = "bankLetter"
	SlotStoreLogo              DocumentSlot = "storeLogo"
	SlotAuthorizedSignature    DocumentSlot = "authorizedSignature"
)

var documentSlots = []DocumentSlot{
	SlotCommercialRegistration,
	SlotVATCertificate,
	SlotNationalID,
	SlotBankLetter,
	SlotStoreLogo,
	SlotAuthorizedSignature,
}

// acceptedDocumentTypes are the only MIME types a slot accepts. Anything else
// is rejected with the slot's prior value untouched.
var acceptedDocumentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
}

// DocumentSlots returns the six upload slots in display order.
func DocumentSlots() []DocumentSlot {
	out := make([]DocumentSlot, len(documentSlots))
	copy(out, documentSlots)
	return out
}

// ValidDocumentSlot reports whether slot is one of the six fixed slots.
func ValidDocumentSlot(slot DocumentSlot) bool {
	for _, s := range documentSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// AcceptedDocumentType reports whether the MIME type may be uploaded.
func AcceptedDocumentType(contentType string) bool {
	_, ok := acceptedDocumentTypes[contentType]
	return ok
}

// Document is an uploaded file occupying one slot.
type Document struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"-"`
}

// PickupAddress is one entry of the ordered pickup location list.
type PickupAddress struct {
	Label       string `json:"label"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	Region      string `json:"region"`
	PostalCode  string `json:"postal_code"`
	Phone       string `json:"phone"`
}

// Blank reports whether every field of the address is empty.
func (p PickupAddress) Blank() bool {
	return p == PickupAddress{}
}

// RegistrationForm aggregates the eight wizard sections plus the document
// slots and pickup address list backing the documents and pickup sections.
type RegistrationForm struct {
	Sections        map[StepKey]SectionData    `json:"sections"`
	Documents       map[DocumentSlot]*Document `json:"documents"`
	PickupAddresses []PickupAddress            `json:"pickup_addresses"`
}

// NewRegistrationForm returns the empty template: eight empty sections, six
// empty document slots, and a single blank pickup address.
func NewRegistrationForm() *RegistrationForm {
	sections := make(map[StepKey]SectionData, len(SectionKeys()))
	for _, k := range SectionKeys() {
		sections[k] = SectionData{}
	}
	return &RegistrationForm{
		Sections:        sections,
		Documents:       make(map[DocumentSlot]*Document, len(documentSlots)),
		PickupAddresses: []PickupAddress{{}},
	}
}

// populated reports whether a section value counts toward completion.
func populated(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []string:
		return len(t) > 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// SectionComplete applies the wizard's completion rule: a section counts as
// complete as soon as any one of its fields is populated. This is a shallow
// check, not per-field validation; a single irrelevant field marks the whole
// section done.
func (f *RegistrationForm) SectionComplete(key StepKey) bool {
	section, ok := f.Sections[key]
	if !ok {
		return false
	}
	for _, v := range section {
		if populated(v) {
			return true
		}
	}
	return false
}

// CompletedSections counts the data-bearing sections that satisfy
// SectionComplete.
func (f *RegistrationForm) CompletedSections() int {
	n := 0
	for _, k := range SectionKeys() {
		if f.SectionComplete(k) {
			n++
		}
	}
	return n
}

// Progress is the overall completion percentage. Review is excluded from the
// denominator, so 100 means all eight data sections are non-empty.
func (f *RegistrationForm) Progress() int {
	total := len(stepOrder) - 1
	return int(math.Round(100 * float64(f.CompletedSections()) / float64(total)))
}

// WizardDraft is one in-progress registration, scoped to a portal session.
// Drafts are deliberately in-memory only: abandoning the wizard (or a portal
// restart) discards them.
type WizardDraft struct {
	DraftID    string            `json:"draft_id"`
	SessionID  string            `json:"session_id"`
	ActiveStep StepKey           `json:"active_step"`
	Form       *RegistrationForm `json:"form"`
	Submitted  bool              `json:"submitted"`

	mu sync.Mutex
}

// Lock serializes access to the draft's mutable state. The store hands out
// one shared pointer per session, so every reader and writer — wizard edits
// and review/submit alike — must hold the lock.
func (d *WizardDraft) Lock() { d.mu.Lock() }

// Unlock releases the draft lock.
func (d *WizardDraft) Unlock() { d.mu.Unlock() }

// NewWizardDraft starts a draft at the business step with the empty template.
func NewWizardDraft(draftID, sessionID string) *WizardDraft {
	return &WizardDraft{
		DraftID:    draftID,
		SessionID:  sessionID,
		ActiveStep: StepBusiness,
		Form:       NewRegistrationForm(),
	}
}
