package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bazarly/vendor-portal/internal/core/domain"
	"github.com/bazarly/vendor-portal/internal/core/ports"
	"github.com/bazarly/vendor-portal/internal/metrics"
)

// dateLayout is the wire format step forms use for date fields; the backend
// expects RFC 3339.
const dateLayout = "2006-01-02"

// fieldMappings renames section fields to the backend's flattened payload
// keys. Fields without an entry pass through under their form name.
var fieldMappings = map[domain.StepKey]map[string]string{
	domain.StepBusiness: {
		"businessNameEn":  "businessNameEnglish",
		"businessNameAr":  "businessNameArabic",
		"crNumber":        "commercialRegistrationNumber",
		"vatNumber":       "vatRegistrationNumber",
		"establishedDate": "establishmentDate",
	},
	domain.StepOwner: {
		"fullName":   "ownerFullName",
		"nationalId": "ownerNationalId",
		"dob":        "ownerDateOfBirth",
		"email":      "ownerEmail",
		"phone":      "ownerPhone",
	},
	domain.StepAddress: {
		"line1": "addressLine1",
		"line2": "addressLine2",
		"zip":   "postalCode",
	},
	domain.StepCategories: {
		"selected": "productCategories",
		"primary":  "primaryCategory",
	},
	domain.StepFinancial: {
		"iban":          "bankIban",
		"accountHolder": "bankAccountHolder",
	},
	domain.StepAgreement: {
		"signature":  "agreementSignature",
		"signedDate": "agreementSignedDate",
		"confirmed":  "agreementConfirmed",
	},
}

// SubmissionService flattens a completed draft into the backend's payload
// shape and performs the one-shot multipart submit.
type SubmissionService struct {
	drafts    ports.DraftRepository
	sessions  ports.SessionService
	vendorAPI ports.VendorAPI
	audit     ports.SubmissionRepository
	logger    zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewSubmissionService(
	drafts ports.DraftRepository,
	sessions ports.SessionService,
	vendorAPI ports.VendorAPI,
	audit ports.SubmissionRepository,
	logger zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		drafts:    drafts,
		sessions:  sessions,
		vendorAPI: vendorAPI,
		audit:     audit,
		logger:    logger,
		inFlight:  make(map[string]struct{}),
	}
}

func (s *SubmissionService) Preview(ctx context.Context, sessionID string) (*ports.ReviewView, error) {
	draft, err := s.drafts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	draft.Lock()
	defer draft.Unlock()

	complete := make(map[domain.StepKey]bool, len(domain.SectionKeys()))
	all := true
	for _, k := range domain.SectionKeys() {
		c := draft.Form.SectionComplete(k)
		complete[k] = c
		all = all && c
	}

	return &ports.ReviewView{
		Payload:     flattenForm(draft.Form),
		Complete:    complete,
		AllComplete: all,
		Progress:    draft.Form.Progress(),
		Submitted:   draft.Submitted,
	}, nil
}

// Submit forwards the flattened registration to the backend. It is one-shot
// per success: a submitted draft rejects further attempts, while a rejected
// or failed attempt leaves the draft editable. At most one submit per
// session may be in flight.
func (s *SubmissionService) Submit(ctx context.Context, sessionID string) (*ports.SubmitResult, error) {
	if err := s.acquire(sessionID); err != nil {
		return nil, err
	}
	defer s.release(sessionID)

	draft, err := s.drafts.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// The draft stays locked for the whole attempt so wizard edits cannot
	// interleave with validation, the backend call, and the submitted flag.
	draft.Lock()
	defer draft.Unlock()

	if draft.Submitted {
		return nil, domain.ErrAlreadySubmitted
	}
	for _, k := range domain.SectionKeys() {
		if !draft.Form.SectionComplete(k) {
			return nil, domain.ErrIncompleteRegistration
		}
	}

	token, err := s.sessions.BearerToken(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	payload := flattenForm(draft.Form)
	res := s.vendorAPI.Register(ctx, ports.CallAuth{SessionID: sessionID, Token: token}, ports.RegisterVendorInput{
		VendorData: payload,
		Documents:  draft.Form.Documents,
	})

	s.recordAttempt(ctx, draft, payload, res)

	if !res.Success {
		outcome := "rejected"
		if res.NetworkError {
			outcome = "network_error"
		}
		metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
		s.logger.Warn().Str("session_id", sessionID).Str("reason", res.Message).Msg("registration rejected")
		return &ports.SubmitResult{Success: false, Message: res.Message}, nil
	}

	draft.Submitted = true
	if err := s.drafts.Put(ctx, draft); err != nil {
		return nil, err
	}
	if res.VendorID != "" {
		// Link the new vendor to the session so product calls work without
		// a re-login.
		if err := s.sessions.UpdateVendor(ctx, sessionID, res.VendorID, nil); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to link vendor to session")
		}
	}

	metrics.SubmissionsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("session_id", sessionID).Str("vendor_id", res.VendorID).Msg("registration submitted")
	return &ports.SubmitResult{Success: true, Message: res.Message, VendorID: res.VendorID}, nil
}

func (s *SubmissionService) acquire(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[sessionID]; busy {
		return domain.ErrSubmitInFlight
	}
	s.inFlight[sessionID] = struct{}{}
	return nil
}

func (s *SubmissionService) release(sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}

// recordAttempt writes the audit-trail entry. Audit failures are non-fatal.
func (s *SubmissionService) recordAttempt(ctx context.Context, draft *domain.WizardDraft, payload map[string]any, res *ports.VendorRegisterResult) {
	name, _ := payload["businessNameEnglish"].(string)
	region, _ := payload["region"].(string)
	record := &ports.SubmissionRecord{
		DraftID:     draft.DraftID,
		SessionID:   draft.SessionID,
		VendorName:  name,
		Region:      region,
		Success:     res.Success,
		Message:     res.Message,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.audit.Insert(ctx, record); err != nil {
		s.logger.Warn().Err(err).Str("draft_id", draft.DraftID).Msg("failed to write submission audit record")
	}
}

// flattenForm collapses the nested sections into the backend's flat payload:
// fields are renamed per the mapping table, date strings converted to
// RFC 3339, and region names canonicalized. The documents section is
// excluded — files travel as multipart parts, not payload fields.
func flattenForm(form *domain.RegistrationForm) map[string]any {
	out := make(map[string]any)
	for _, step := range domain.SectionKeys() {
		if step == domain.StepDocuments {
			continue
		}
		mapping := fieldMappings[step]
		for field, value := range form.Sections[step] {
			key := field
			if renamed, ok := mapping[field]; ok {
				key = renamed
			}
			out[key] = convertValue(value)
		}
	}

	if region, ok := out["region"].(string); ok {
		out["region"] = domain.CanonicalRegion(region)
	}
	if list, ok := out[pickupAddressesKey].([]domain.PickupAddress); ok {
		canon := make([]domain.PickupAddress, len(list))
		copy(canon, list)
		for i := range canon {
			canon[i].Region = domain.CanonicalRegion(canon[i].Region)
		}
		out[pickupAddressesKey] = canon
	}
	return out
}

// convertValue rewrites plain date strings into RFC 3339 timestamps and
// leaves everything else untouched.
func convertValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return v
	}
	return t.UTC().Format(time.RFC3339)
}
