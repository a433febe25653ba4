package repository

import (
	"context"
	"testing"
	"time"

	"visadesk-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileEmployeesRepoRoundTrip(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewFileEmployeesRepo(dir)
	require.NoError(t, err)

	ctx := context.Background()

	// empty store reads as empty, not as an error
	items, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	end := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	row := domain.NewRawRow()
	row.Set("Case type", "H-1B Extension")
	row.Set("Expiration date", "2027-06-30")
	row.Set("Dependents", nil)

	emp := &domain.Employee{
		ID:          "emp-1",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jdoe@example.edu",
		CurrentVisa: &domain.Visa{Type: "H-1B Extension", EndDate: &end},
		RawRows:     []*domain.RawRow{row},
		Notes:       []domain.Note{{ID: "n1", Content: "check I-94", CreatedAt: time.Now().UTC()}},
	}
	require.NoError(t, repo.ReplaceAll(ctx, []*domain.Employee{emp}))

	// a fresh repo over the same directory sees the persisted document
	reopened, err := NewFileEmployeesRepo(dir)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.FirstName)
	require.NotNil(t, got.CurrentVisa)
	assert.Equal(t, "H-1B Extension", got.CurrentVisa.Type)

	require.Len(t, got.RawRows, 1)
	// cell order and null cells survive the JSON round trip
	assert.Equal(t, []string{"Case type", "Expiration date", "Dependents"}, got.RawRows[0].Keys())
	v, ok := got.RawRows[0].Get("Dependents")
	require.True(t, ok)
	assert.Nil(t, v)

	_, err = reopened.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileEmployeesRepoUpdate(t *testing.T) {
	repo, err := NewFileEmployeesRepo(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceAll(ctx, []*domain.Employee{{ID: "emp-1", LastName: "Doe"}}))
	require.NoError(t, repo.Update(ctx, &domain.Employee{ID: "emp-1", LastName: "Doe", Flagged: true}))

	got, err := repo.Get(ctx, "emp-1")
	require.NoError(t, err)
	assert.True(t, got.Flagged)

	err = repo.Update(ctx, &domain.Employee{ID: "emp-2"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileAuditRepoNewestFirst(t *testing.T) {
	repo, err := NewFileAuditRepo(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, typ := range []string{domain.AuditTypeImport, domain.AuditTypeEditCell, domain.AuditTypeFlag} {
		require.NoError(t, repo.Append(ctx, &domain.AuditEntry{
			ID:   typ,
			TS:   base.Add(time.Duration(i) * time.Minute),
			Type: typ,
		}))
	}

	entries, err := repo.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.AuditTypeFlag, entries[0].Type)
	assert.Equal(t, domain.AuditTypeEditCell, entries[1].Type)

	require.NoError(t, repo.Reset(ctx))
	entries, err = repo.List(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
