// Package schema defines the canonical spreadsheet column set for case
// tracking files and the alias table that maps hand-maintained header
// spellings onto it.
package schema

import (
	"strings"

	"golang.org/x/text/cases"
)

// Canonical header names referenced elsewhere in the engine.
const (
	HeaderLastName     = "Last name"
	HeaderFirstName    = "First name"
	HeaderEmail        = "Institutional email"
	HeaderCaseType     = "Case type"
	HeaderPRNotes      = "Permanent residency notes"
	HeaderInitialStart = "Initial visa start"
	HeaderStartDate    = "Start date"
	HeaderExpiration   = "Expiration date"
	HeaderDepartment   = "Department"
	HeaderTitle        = "Title"
)

// CanonicalHeaders is the full expected column set. Order is cosmetic only;
// files may carry these columns in any order and any casing.
var CanonicalHeaders = []string{
	HeaderLastName,
	HeaderFirstName,
	HeaderEmail,
	"Personal email",
	"Filed by",
	"Country of birth",
	"Citizenships",
	"Gender",
	HeaderCaseType,
	HeaderPRNotes,
	"Dependents",
	HeaderInitialStart,
	HeaderStartDate,
	HeaderExpiration,
	"Prep extension date",
	"Max period",
	"Document expiry I-94",
	"General notes",
	"SOC code",
	"SOC code description",
	HeaderDepartment,
	HeaderTitle,
	"Department admin",
	"Department advisor",
	"Annual salary",
	"Education level",
	"Education field",
}

// headerAliases maps folded spellings seen in real files onto canonical
// names. Unlisted headers pass through trimmed but otherwise untouched.
var headerAliases = map[string]string{
	"last name":                  HeaderLastName,
	"lastname":                   HeaderLastName,
	"first name":                 HeaderFirstName,
	"firstname":                  HeaderFirstName,
	"institutional email":        HeaderEmail,
	"employee's institutional email": HeaderEmail,
	"employee email":             HeaderEmail,
	"work email":                 HeaderEmail,
	"email":                      HeaderEmail,
	"personal email":             "Personal email",
	"filed by":                   "Filed by",
	"country of birth":           "Country of birth",
	"citizenships":               "Citizenships",
	"all citizenships":           "Citizenships",
	"gender":                     "Gender",
	"case type":                  HeaderCaseType,
	"case":                       HeaderCaseType,
	"visa":                       HeaderCaseType,
	"permanent residency notes":  HeaderPRNotes,
	"pr notes":                   HeaderPRNotes,
	"dependents":                 "Dependents",
	"initial visa start":         HeaderInitialStart,
	"initial h-1b start":         HeaderInitialStart,
	"start date":                 HeaderStartDate,
	"start":                      HeaderStartDate,
	"expiration date":            HeaderExpiration,
	"end date":                   HeaderExpiration,
	"expiry date":                HeaderExpiration,
	"prep extension date":        "Prep extension date",
	"max period":                 "Max period",
	"max h period":               "Max period",
	"document expiry i-94":       "Document expiry I-94",
	"general notes":              "General notes",
	"soc code":                   "SOC code",
	"occupation code":            "SOC code",
	"soc code description":       "SOC code description",
	"occupation code description": "SOC code description",
	"department":                 HeaderDepartment,
	"academic dept.":             HeaderDepartment,
	"title":                      HeaderTitle,
	"employee title":             HeaderTitle,
	"position":                   HeaderTitle,
	"job title":                  HeaderTitle,
	"department admin":           "Department admin",
	"department advisor":         "Department advisor",
	"department advisor/pi/chair": "Department advisor",
	"annual salary":              "Annual salary",
	"education level":            "Education level",
	"employee educational level":  "Education level",
	"employee educational  level": "Education level",
	"education field":            "Education field",
	"employee educational field":  "Education field",
}

// Fold lower-cases text for caseless comparison (Unicode case folding, not
// just ASCII lowering).
func Fold(s string) string {
	return cases.Fold().String(s)
}

// NormalizeHeader trims a raw header and substitutes the canonical form
// when the folded spelling is a known alias.
func NormalizeHeader(h string) string {
	key := strings.TrimSpace(h)
	if canonical, ok := headerAliases[Fold(key)]; ok {
		return canonical
	}
	return key
}

// Validation is the outcome of checking a header row against the canonical
// set. A failed validation is a warning, never an import rejection: source
// files are hand-maintained and header spelling drifts.
type Validation struct {
	OK       bool     `json:"ok"`
	Detected []string `json:"detected"`
	Missing  []string `json:"missing"`
}

// ValidateHeaders normalizes the given headers and reports which canonical
// headers are absent. Comparison is caseless on both sides.
func ValidateHeaders(headers []string) Validation {
	detected := make([]string, 0, len(headers))
	seen := map[string]bool{}
	for _, h := range headers {
		n := NormalizeHeader(h)
		detected = append(detected, n)
		seen[Fold(n)] = true
	}
	var missing []string
	for _, c := range CanonicalHeaders {
		if !seen[Fold(c)] {
			missing = append(missing, c)
		}
	}
	return Validation{OK: len(missing) == 0, Detected: detected, Missing: missing}
}
