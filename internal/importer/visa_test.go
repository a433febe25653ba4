package importer

import (
	"math"
	"testing"
	"time"

	"visadesk-data/internal/domain"
	"visadesk-data/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMentionsPermanentResidency(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"approved for Permanent Residency", true},
		{"PERMANENT RESID. filed 2023", true},
		{"has a green card", true},
		{"permanent residence granted", true},
		{"permanent position, resident of MD", true}, // split word pair
		{"H-1B extension pending", false},
		{"resident alien questionnaire", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MentionsPermanentResidency(tt.text), "text %q", tt.text)
	}
}

// Per-field last-non-empty-wins: each field comes from the most recent row
// where it is present, so type and end date may be sourced from different
// rows.
func TestResolveVisaLastNonEmptyPerField(t *testing.T) {
	bucket := []*domain.RawRow{
		row(t, schema.HeaderCaseType, "H-1B Initial", schema.HeaderExpiration, "2024-01-01"),
		row(t, schema.HeaderCaseType, "", schema.HeaderExpiration, "2025-01-01"),
		row(t, schema.HeaderCaseType, "H-1B Extension", schema.HeaderExpiration, ""),
	}
	v := ResolveVisa(bucket)
	require.NotNil(t, v)
	assert.Equal(t, "H-1B Extension", v.Type)
	require.NotNil(t, v.EndDate)
	assert.Equal(t, "2025-01-01", v.EndDate.Format("2006-01-02"))
}

// The PR signal may live in a free-text column; any mention anywhere in the
// bucket forces the snapshot to Permanent Resident with no expiration.
func TestResolveVisaPermanentResidencyOverride(t *testing.T) {
	bucket := []*domain.RawRow{
		row(t, schema.HeaderCaseType, "H-1B Initial", schema.HeaderExpiration, "2024-01-01"),
		row(t, schema.HeaderCaseType, "H-1B Extension",
			"General notes", "approved for Permanent Residency"),
	}
	v := ResolveVisa(bucket)
	require.NotNil(t, v)
	assert.Equal(t, "Permanent Resident", v.Type)
	assert.Nil(t, v.EndDate)
}

func TestResolveVisaTypeMentionsPRClearsEndDate(t *testing.T) {
	bucket := []*domain.RawRow{
		row(t, schema.HeaderCaseType, "Permanent Residency (pending)",
			schema.HeaderExpiration, "2026-01-01"),
	}
	v := ResolveVisa(bucket)
	require.NotNil(t, v)
	assert.Nil(t, v.EndDate)
}

func TestResolveVisaStartDateFallsBackToInitialStart(t *testing.T) {
	bucket := []*domain.RawRow{
		row(t, schema.HeaderCaseType, "H-1B Initial", schema.HeaderInitialStart, "2020-09-01"),
	}
	v := ResolveVisa(bucket)
	require.NotNil(t, v)
	require.NotNil(t, v.StartDate)
	assert.Equal(t, "2020-09-01", v.StartDate.Format("2006-01-02"))
}

func TestResolveVisaEmptyBucket(t *testing.T) {
	bucket := []*domain.RawRow{
		row(t, schema.HeaderLastName, "Doe", schema.HeaderFirstName, "Jane"),
	}
	assert.Nil(t, ResolveVisa(bucket))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2025-06-30", "6/30/2025", "06/30/2025", "Jun 30, 2025"} {
		d := ParseDate(s)
		require.NotNil(t, d, "input %q", s)
		assert.Equal(t, "2025-06-30", d.Format("2006-01-02"), "input %q", s)
	}
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("sometime next year"))
}

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)

	days := DaysRemaining(&domain.Visa{EndDate: &end}, now)
	assert.Equal(t, 10, days)

	// no expiration and unknown expiration both rank last
	assert.Equal(t, math.MaxInt, DaysRemaining(nil, now))
	assert.Equal(t, math.MaxInt, DaysRemaining(&domain.Visa{Type: "Permanent Resident"}, now))
}
