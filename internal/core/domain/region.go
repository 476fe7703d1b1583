package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// regionAliases maps known spellings and transliterations (lower-cased) to
// the backend's canonical region names.
var regionAliases = map[string]string{
	"riyadh":               "Riyadh",
	"riyad":                "Riyadh",
	"ar riyadh":            "Riyadh",
	"jeddah":               "Jeddah",
	"jedda":                "Jeddah",
	"jidda":                "Jeddah",
	"makkah":               "Makkah",
	"mecca":                "Makkah",
	"makkah al mukarramah": "Makkah",
	"madinah":              "Madinah",
	"medina":               "Madinah",
	"al madinah":           "Madinah",
	"dammam":               "Eastern Province",
	"eastern province":     "Eastern Province",
	"eastern":              "Eastern Province",
	"asir":                 "Asir",
	"aseer":                "Asir",
	"qassim":               "Qassim",
	"al qassim":            "Qassim",
	"al-qassim":            "Qassim",
	"tabuk":                "Tabuk",
	"tabouk":               "Tabuk",
	"hail":                 "Hail",
	"ha'il":                "Hail",
	"jazan":                "Jazan",
	"jizan":                "Jazan",
	"najran":               "Najran",
	"al bahah":             "Al Bahah",
	"baha":                 "Al Bahah",
	"al jawf":              "Al Jawf",
	"jouf":                 "Al Jawf",
	"northern borders":     "Northern Borders",
}

var regionCaser = cases.Title(language.English)

// CanonicalRegion maps a free-text region input to its canonical name via the
// alias table. Unrecognized input falls back to naive word capitalization —
// it is passed through, not rejected, so unknown regions reach the backend
// silently.
func CanonicalRegion(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if canonical, ok := regionAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return regionCaser.String(strings.ToLower(trimmed))
}
