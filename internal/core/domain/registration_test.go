package domain

import "testing"

// ---------------------------------------------------------------------------
// Step order and navigation
// ---------------------------------------------------------------------------

func TestSteps_OrderIsFixed(t *testing.T) {
	want := []StepKey{
		StepBusiness, StepOwner, StepAddress, StepCategories,
		StepDocuments, StepFinancial, StepPickup, StepAgreement, StepReview,
	}
	got := Steps()
	if len(got) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("step %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestStepIndex_Unknown(t *testing.T) {
	if idx := StepIndex("bogus"); idx != -1 {
		t.Errorf("expected -1 for unknown step, got %d", idx)
	}
}

func TestCanNavigateTo_BackwardAndCurrentOnly(t *testing.T) {
	cases := []struct {
		from, to StepKey
		want     bool
	}{
		{StepFinancial, StepBusiness, true},  // backward
		{StepFinancial, StepFinancial, true}, // in place
		{StepFinancial, StepPickup, false},   // forward
		{StepBusiness, StepReview, false},    // far forward
		{StepReview, StepBusiness, true},     // back from review
		{StepBusiness, "bogus", false},       // unknown target
	}
	for _, tc := range cases {
		if got := tc.from.CanNavigateTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: want %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

// ---------------------------------------------------------------------------
// Completion rule
// ---------------------------------------------------------------------------

func TestSectionComplete_AnyPopulatedFieldCounts(t *testing.T) {
	form := NewRegistrationForm()

	if form.SectionComplete(StepBusiness) {
		t.Error("empty section must not be complete")
	}

	// A single populated field flips the whole section to complete even when
	// every other field is missing.
	form.Sections[StepBusiness]["businessNameEn"] = "Dates of Arabia"
	if !form.SectionComplete(StepBusiness) {
		t.Error("one populated field must mark the section complete")
	}
}

func TestSectionComplete_EmptyValuesDoNotCount(t *testing.T) {
	form := NewRegistrationForm()
	form.Sections[StepOwner]["fullName"] = ""
	form.Sections[StepOwner]["emails"] = []string{}
	form.Sections[StepOwner]["meta"] = map[string]any{}
	form.Sections[StepOwner]["nothing"] = nil

	if form.SectionComplete(StepOwner) {
		t.Error("empty strings, empty collections, and nil must not count")
	}
}

func TestSectionComplete_IdempotentUnderRepeatedWrites(t *testing.T) {
	form := NewRegistrationForm()
	form.Sections[StepAddress]["city"] = "Riyadh"
	form.Sections[StepAddress]["city"] = "Riyadh"

	if !form.SectionComplete(StepAddress) {
		t.Error("section must stay complete after repeated identical writes")
	}
	if form.CompletedSections() != 1 {
		t.Errorf("expected 1 completed section, got %d", form.CompletedSections())
	}
}

func TestSectionComplete_ReviewNeverCompletable(t *testing.T) {
	form := NewRegistrationForm()
	if form.SectionComplete(StepReview) {
		t.Error("review has no section and must never be complete")
	}
}

// ---------------------------------------------------------------------------
// Progress
// ---------------------------------------------------------------------------

func TestProgress_ZeroWhenEmpty(t *testing.T) {
	form := NewRegistrationForm()
	if p := form.Progress(); p != 0 {
		t.Errorf("expected 0, got %d", p)
	}
}

func TestProgress_RoundsPerEighth(t *testing.T) {
	form := NewRegistrationForm()

	// Completing sections one at a time must move progress through the
	// rounded eighths and reach 100 only when all eight are populated.
	wantAfter := []int{13, 25, 38, 50, 63, 75, 88, 100}
	for i, k := range SectionKeys() {
		form.Sections[k]["filled"] = "x"
		if p := form.Progress(); p != wantAfter[i] {
			t.Errorf("after %d sections: want %d, got %d", i+1, wantAfter[i], p)
		}
	}
}

func TestProgress_MonotonicUnderFieldAdds(t *testing.T) {
	form := NewRegistrationForm()
	prev := form.Progress()
	for _, k := range SectionKeys() {
		form.Sections[k]["a"] = "x"
		form.Sections[k]["b"] = "y" // extra fields never move progress backward
		if p := form.Progress(); p < prev {
			t.Fatalf("progress regressed: %d -> %d", prev, p)
		} else {
			prev = p
		}
	}
}

// ---------------------------------------------------------------------------
// Form template and documents
// ---------------------------------------------------------------------------

func TestNewRegistrationForm_Template(t *testing.T) {
	form := NewRegistrationForm()

	if len(form.Sections) != 8 {
		t.Errorf("expected 8 sections, got %d", len(form.Sections))
	}
	if len(form.PickupAddresses) != 1 {
		t.Fatalf("expected exactly one pickup address, got %d", len(form.PickupAddresses))
	}
	if !form.PickupAddresses[0].Blank() {
		t.Error("initial pickup address must be blank")
	}
	if len(form.Documents) != 0 {
		t.Errorf("expected no documents, got %d", len(form.Documents))
	}
}

func TestAcceptedDocumentType(t *testing.T) {
	for _, ct := range []string{"application/pdf", "image/jpeg", "image/png"} {
		if !AcceptedDocumentType(ct) {
			t.Errorf("%s must be accepted", ct)
		}
	}
	for _, ct := range []string{"image/gif", "text/html", "application/zip", ""} {
		if AcceptedDocumentType(ct) {
			t.Errorf("%s must be rejected", ct)
		}
	}
}

func TestValidDocumentSlot(t *testing.T) {
	for _, slot := range DocumentSlots() {
		if !ValidDocumentSlot(slot) {
			t.Errorf("%s must be valid", slot)
		}
	}
	if ValidDocumentSlot("taxReturn") {
		t.Error("unknown slot must be invalid")
	}
}
