package service

import (
	"sort"
	"strings"
	"time"

	"visadesk-data/internal/domain"

	"github.com/google/uuid"
)

// normalizeCellValue canonicalizes the "no value" representation: nil and
// empty/whitespace strings both become nil, everything else its trimmed
// text form. Clearing a cell is therefore recorded as setting it to null,
// never to the empty string.
func normalizeCellValue(v any) any {
	s := strings.TrimSpace(domain.CellString(v))
	if s == "" {
		return nil
	}
	return s
}

// DiffRowCells compares requested field updates against the current values
// of one raw row and returns a change per field whose normalized before and
// after differ. No-op updates produce no changes, and the caller is
// expected to short-circuit without an audit entry when the result is
// empty.
func DiffRowCells(row *domain.RawRow, updates map[string]any, rowIndex int) []domain.Change {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var changes []domain.Change
	for _, k := range keys {
		cur, _ := row.Get(k)
		before := normalizeCellValue(cur)
		after := normalizeCellValue(updates[k])
		if before == after {
			continue
		}
		idx := rowIndex
		changes = append(changes, domain.Change{
			Key:      k,
			Before:   before,
			After:    after,
			RowIndex: &idx,
		})
	}
	return changes
}

// DiffScalar emits one change when a scalar field's before/after differ.
func DiffScalar(key string, before, after any) []domain.Change {
	if before == after {
		return nil
	}
	return []domain.Change{{Key: key, Before: before, After: after}}
}

func newAuditEntry(ts time.Time, typ, actor, employeeID, note string, changes []domain.Change) *domain.AuditEntry {
	return &domain.AuditEntry{
		ID:         uuid.NewString(),
		TS:         ts,
		Actor:      actor,
		Type:       typ,
		EmployeeID: employeeID,
		Changes:    changes,
		Note:       note,
	}
}
