package importer

import (
	"math"
	"strings"
	"time"

	"visadesk-data/internal/domain"
	"visadesk-data/internal/schema"
)

// prKeywords are the free-text indicators of permanent-residency status.
// The signal often lives in a notes column rather than the case-type
// column, so the resolver scans every cell of a bucket against these.
var prKeywords = []string{
	"permanent residency",
	"permanent resid",
	"permanent residence",
	"green card",
}

// MentionsPermanentResidency reports whether free text carries any
// permanent-residency indicator, including the split "permanent"+"resid"
// word pair.
func MentionsPermanentResidency(text string) bool {
	t := schema.Fold(text)
	for _, kw := range prKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return strings.Contains(t, "permanent") && strings.Contains(t, "resid")
}

// ResolveVisa derives the current-visa snapshot from an employee's ordered
// row bucket.
//
// Baseline: per field, last-non-empty-wins — each of type/start/end is taken
// from the most recent row in which that field is non-empty, so different
// fields may come from different rows. Then two overrides: if the baseline
// type itself reads permanent+resid the end date is cleared, and if any cell
// anywhere in the bucket mentions permanent residency the type is forced to
// "Permanent Resident" with no end date (permanent residency does not
// expire).
func ResolveVisa(bucket []*domain.RawRow) *domain.Visa {
	typeVal := lastNonEmpty(bucket, schema.HeaderCaseType)
	startVal := lastNonEmpty(bucket, schema.HeaderStartDate, schema.HeaderInitialStart)
	endVal := lastNonEmpty(bucket, schema.HeaderExpiration)

	visa := &domain.Visa{
		Type:      typeVal,
		StartDate: ParseDate(startVal),
		EndDate:   ParseDate(endVal),
	}

	tl := schema.Fold(visa.Type)
	if strings.Contains(tl, "permanent") && strings.Contains(tl, "resid") {
		visa.EndDate = nil
	}

	if bucketMentionsPR(bucket) {
		visa.Type = "Permanent Resident"
		visa.EndDate = nil
	}

	if visa.Type == "" && visa.StartDate == nil && visa.EndDate == nil {
		return nil
	}
	return visa
}

func bucketMentionsPR(bucket []*domain.RawRow) bool {
	for _, row := range bucket {
		for _, k := range row.Keys() {
			if s := row.GetString(k); s != "" && MentionsPermanentResidency(s) {
				return true
			}
		}
	}
	return false
}

// lastNonEmpty scans a bucket from the most recent row backwards and
// returns the first non-empty value among the candidate headers.
func lastNonEmpty(bucket []*domain.RawRow, keys ...string) string {
	for i := len(bucket) - 1; i >= 0; i-- {
		for _, k := range keys {
			if v := bucket[i].GetString(k); v != "" {
				return v
			}
		}
	}
	return ""
}

// dateLayouts covers the formats excelize renders for styled date cells
// plus the spellings humans type into text columns.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01-02-06",
	"1/2/06",
	"1/2/2006",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-06",
	"2 Jan 2006",
}

// ParseDate interprets a raw cell as a calendar date. Unparseable or empty
// values yield nil, never an error: downstream ranking treats nil as "no
// known expiration".
func ParseDate(v string) *time.Time {
	s := strings.TrimSpace(v)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// DaysRemaining is the ceiling of (end - now) in calendar days. A nil visa
// or end date is "infinite": sorted last, distinguishing "no expiration"
// from a near expiry.
func DaysRemaining(v *domain.Visa, now time.Time) int {
	if v == nil || v.EndDate == nil {
		return math.MaxInt
	}
	return int(math.Ceil(v.EndDate.Sub(now).Hours() / 24))
}
