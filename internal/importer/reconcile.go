package importer

import (
	"visadesk-data/internal/domain"
	"visadesk-data/internal/schema"

	"github.com/google/uuid"
)

// Mode selects how a reconcile treats the existing record set.
type Mode string

const (
	// ModeReplaceAll discards every existing record and rebuilds the set
	// from the file. Flags and notes are not carried over: identity
	// correlation across full reloads is not reliable enough to re-attach
	// them.
	ModeReplaceAll Mode = "replace"
	// ModeMerge replaces only the row history of identities that match an
	// existing record; flags, notes and scalars stay untouched. Identities
	// with no match are dropped rather than created, a conservative policy
	// kept as observed.
	ModeMerge Mode = "merge"
)

// Summary reports what a reconcile did, for the caller and the audit log.
type Summary struct {
	RowsRead         int `json:"rowsRead"`
	RowsDiscarded    int `json:"rowsDiscarded"`
	RowsUnattributed int `json:"rowsUnattributed"`
	Identities       int `json:"identities"`
	Created          int `json:"created"`
	Updated          int `json:"updated"`
}

// Reconcile turns a parsed file into the full replacement record set. The
// returned slice is always the complete new set; callers persist it as one
// atomic replace so no consumer observes a half-written population.
func Reconcile(parsed *ParsedFile, existing []*domain.Employee, mode Mode) ([]*domain.Employee, Summary) {
	grouping := GroupRows(parsed.Rows)
	summary := Summary{
		RowsRead:         parsed.RowsRead,
		RowsDiscarded:    parsed.RowsDiscarded,
		RowsUnattributed: grouping.Dropped,
		Identities:       len(grouping.Order),
	}

	if mode == ModeMerge {
		records := mergeExisting(grouping, existing, &summary)
		return records, summary
	}

	records := make([]*domain.Employee, 0, len(grouping.Order))
	for _, key := range grouping.Order {
		bucket := grouping.Buckets[key]
		records = append(records, newEmployee(bucket))
		summary.Created++
	}
	return records, summary
}

// newEmployee synthesizes a record from one identity bucket. Biographical
// scalars come from the first row, treated as most authoritative; the title
// falls back to the most recent non-empty value since later rows often fill
// it in.
func newEmployee(bucket []*domain.RawRow) *domain.Employee {
	first := bucket[0]
	title := first.GetString(schema.HeaderTitle)
	if title == "" {
		title = lastNonEmpty(bucket, schema.HeaderTitle)
	}
	return &domain.Employee{
		ID:          uuid.NewString(),
		FirstName:   first.GetString(schema.HeaderFirstName),
		LastName:    first.GetString(schema.HeaderLastName),
		Email:       first.GetString(schema.HeaderEmail),
		Department:  first.GetString(schema.HeaderDepartment),
		Title:       title,
		Flagged:     false,
		CurrentVisa: ResolveVisa(bucket),
		RawRows:     bucket,
	}
}

// mergeExisting matches buckets against the existing population by surrogate
// id or identity key and swaps in the new row history for matches only. The
// visa snapshot is re-derived so it stays consistent with the rows.
func mergeExisting(grouping *Grouping, existing []*domain.Employee, summary *Summary) []*domain.Employee {
	byKey := make(map[string]*domain.Employee, len(existing))
	for _, e := range existing {
		byKey[e.ID] = e
		if key := employeeIdentityKey(e); key != "" {
			if _, taken := byKey[key]; !taken {
				byKey[key] = e
			}
		}
	}

	records := make([]*domain.Employee, len(existing))
	copy(records, existing)
	for _, key := range grouping.Order {
		emp, ok := byKey[key]
		if !ok {
			continue // unmatched identities are dropped, not created
		}
		emp.RawRows = grouping.Buckets[key]
		emp.CurrentVisa = ResolveVisa(emp.RawRows)
		summary.Updated++
	}
	return records
}
