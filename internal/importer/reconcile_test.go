package importer

import (
	"encoding/json"
	"testing"

	"visadesk-data/internal/domain"
	"visadesk-data/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func caseTrackingFile(t *testing.T) []byte {
	t.Helper()
	return buildWorkbook(t, [][]any{
		{"Last name", "First name", "Institutional email", "Case type", "Expiration date", "Department", "Title"},
		{"Doe", "Jane", "jdoe@example.edu", "H-1B Initial", "2024-06-30", "Physics", ""},
		{"Smith", "Ann", "", "F-1 OPT", "2025-01-15", "Biology", "Postdoc"},
		{"Doe", "Jane", "jdoe@example.edu", "H-1B Extension", "2027-06-30", "", "Research Scientist"},
	})
}

func TestReconcileReplaceAll(t *testing.T) {
	parsed, err := ReadWorkbook(caseTrackingFile(t))
	require.NoError(t, err)

	records, summary := Reconcile(parsed, nil, ModeReplaceAll)

	assert.Equal(t, 3, summary.RowsRead)
	assert.Equal(t, 0, summary.RowsDiscarded)
	assert.Equal(t, 2, summary.Identities)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	require.Len(t, records, 2)

	jane := records[0]
	assert.NotEmpty(t, jane.ID)
	assert.Equal(t, "Jane", jane.FirstName)
	assert.Equal(t, "jdoe@example.edu", jane.Email)
	// biographical scalars come from the first row of the bucket
	assert.Equal(t, "Physics", jane.Department)
	// but the title falls back to the most recent non-empty value
	assert.Equal(t, "Research Scientist", jane.Title)
	assert.False(t, jane.Flagged)
	assert.Empty(t, jane.Notes)
	require.Len(t, jane.RawRows, 2)

	require.NotNil(t, jane.CurrentVisa)
	assert.Equal(t, "H-1B Extension", jane.CurrentVisa.Type)
	require.NotNil(t, jane.CurrentVisa.EndDate)
	assert.Equal(t, "2027-06-30", jane.CurrentVisa.EndDate.Format("2006-01-02"))
}

// Importing the identical file twice yields record sets identical per
// identity except for the surrogate ids, which are freshly generated.
func TestReconcileReplaceAllIdempotent(t *testing.T) {
	data := caseTrackingFile(t)

	parse := func() *ParsedFile {
		p, err := ReadWorkbook(data)
		require.NoError(t, err)
		return p
	}
	first, _ := Reconcile(parse(), nil, ModeReplaceAll)
	second, _ := Reconcile(parse(), first, ModeReplaceAll)

	require.Len(t, second, len(first))
	for i := range first {
		a, b := first[i], second[i]
		assert.NotEqual(t, a.ID, b.ID, "surrogate ids are never reused")
		assert.Equal(t, a.FirstName, b.FirstName)
		assert.Equal(t, a.LastName, b.LastName)
		assert.Equal(t, a.Department, b.Department)
		assert.Equal(t, a.Title, b.Title)
		assert.Equal(t, a.CurrentVisa, b.CurrentVisa)

		ra, err := json.Marshal(a.RawRows)
		require.NoError(t, err)
		rb, err := json.Marshal(b.RawRows)
		require.NoError(t, err)
		assert.JSONEq(t, string(ra), string(rb))
	}
}

func TestReconcileMerge(t *testing.T) {
	existing := []*domain.Employee{
		{
			ID:        "emp-1",
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jdoe@example.edu",
			Flagged:   true,
			Notes:     []domain.Note{{ID: "n1", Content: "check I-94"}},
			RawRows: []*domain.RawRow{
				row(t, schema.HeaderCaseType, "H-1B Initial"),
			},
		},
	}

	parsed, err := ReadWorkbook(caseTrackingFile(t))
	require.NoError(t, err)
	records, summary := Reconcile(parsed, existing, ModeMerge)

	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 0, summary.Created)
	// unmatched identities (Ann Smith) are dropped, not created
	require.Len(t, records, 1)

	jane := records[0]
	assert.Equal(t, "emp-1", jane.ID)
	assert.True(t, jane.Flagged, "manual flag survives a merge import")
	require.Len(t, jane.Notes, 1)
	require.Len(t, jane.RawRows, 2, "row history replaced by the new bucket")
	require.NotNil(t, jane.CurrentVisa)
	assert.Equal(t, "H-1B Extension", jane.CurrentVisa.Type)
}

func TestReconcileSummaryCountsUnattributed(t *testing.T) {
	data := buildWorkbook(t, [][]any{
		{"Last name", "First name", "Department"},
		{"Doe", "Jane", "Physics"},
		{"", "", "Chemistry"}, // no identity at all
	})
	parsed, err := ReadWorkbook(data)
	require.NoError(t, err)
	_, summary := Reconcile(parsed, nil, ModeReplaceAll)
	assert.Equal(t, 2, summary.RowsRead)
	assert.Equal(t, 1, summary.RowsUnattributed)
	assert.Equal(t, 1, summary.Identities)
}
