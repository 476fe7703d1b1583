package domain

import "testing"

func TestCanonicalRegion_Aliases(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"riyadh", "Riyadh"},
		{"Riyad", "Riyadh"},
		{"JEDDA", "Jeddah"},
		{"mecca", "Makkah"},
		{"medina", "Madinah"},
		{"dammam", "Eastern Province"},
		{"  tabouk  ", "Tabuk"}, // surrounding whitespace is ignored
		{"al-qassim", "Qassim"},
	}
	for _, tc := range cases {
		if got := CanonicalRegion(tc.in); got != tc.want {
			t.Errorf("CanonicalRegion(%q): want %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestCanonicalRegion_UnknownFallsBackToCapitalization(t *testing.T) {
	// Unknown regions pass through capitalized rather than being rejected.
	if got := CanonicalRegion("new region"); got != "New Region" {
		t.Errorf("want %q, got %q", "New Region", got)
	}
	if got := CanonicalRegion("ALULA"); got != "Alula" {
		t.Errorf("want %q, got %q", "Alula", got)
	}
}

func TestCanonicalRegion_Empty(t *testing.T) {
	if got := CanonicalRegion("   "); got != "" {
		t.Errorf("blank input must map to empty, got %q", got)
	}
}
