package importer

import (
	"testing"

	"visadesk-data/internal/domain"
	"visadesk-data/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(t *testing.T, kv ...string) *domain.RawRow {
	t.Helper()
	require.Zero(t, len(kv)%2)
	r := domain.NewRawRow()
	for i := 0; i < len(kv); i += 2 {
		r.Set(kv[i], kv[i+1])
	}
	return r
}

func TestIdentityKeyPrefersEmail(t *testing.T) {
	r := row(t,
		schema.HeaderEmail, " JDoe@Example.EDU ",
		schema.HeaderLastName, "Doe",
		schema.HeaderFirstName, "Jane",
	)
	assert.Equal(t, "jdoe@example.edu", IdentityKey(r))
}

func TestIdentityKeyNameFallback(t *testing.T) {
	r := row(t, schema.HeaderLastName, " Doe ", schema.HeaderFirstName, "JANE")
	assert.Equal(t, "doe|jane", IdentityKey(r))
}

func TestIdentityKeyUnattributable(t *testing.T) {
	r := row(t, schema.HeaderDepartment, "Physics")
	assert.Equal(t, "", IdentityKey(r))
}

func TestGroupRowsPreservesOrder(t *testing.T) {
	rows := []*domain.RawRow{
		row(t, schema.HeaderLastName, "Doe", schema.HeaderFirstName, "Jane", schema.HeaderCaseType, "H-1B Initial"),
		row(t, schema.HeaderLastName, "Smith", schema.HeaderFirstName, "Ann"),
		row(t, schema.HeaderLastName, "Doe", schema.HeaderFirstName, "Jane", schema.HeaderCaseType, "H-1B Extension"),
		row(t, schema.HeaderDepartment, "Physics"), // no identity, dropped
	}

	g := GroupRows(rows)
	require.Equal(t, []string{"doe|jane", "smith|ann"}, g.Order)
	assert.Equal(t, 1, g.Dropped)

	bucket := g.Buckets["doe|jane"]
	require.Len(t, bucket, 2)
	assert.Equal(t, "H-1B Initial", bucket[0].GetString(schema.HeaderCaseType))
	assert.Equal(t, "H-1B Extension", bucket[1].GetString(schema.HeaderCaseType))

	// grouping is deterministic for a fixed input sequence
	again := GroupRows(rows)
	assert.Equal(t, g.Order, again.Order)
	assert.Equal(t, g.Buckets, again.Buckets)
}

// Two distinct people with the same name and no email coalesce into one
// bucket. Known boundary of the matching scheme, asserted here so a change
// in behavior is a deliberate one.
func TestGroupRowsSameNameCoalesces(t *testing.T) {
	rows := []*domain.RawRow{
		row(t, schema.HeaderLastName, "Lee", schema.HeaderFirstName, "Sam", schema.HeaderDepartment, "Biology"),
		row(t, schema.HeaderLastName, "Lee", schema.HeaderFirstName, "Sam", schema.HeaderDepartment, "History"),
	}
	g := GroupRows(rows)
	require.Len(t, g.Order, 1)
	assert.Len(t, g.Buckets["lee|sam"], 2)
}
