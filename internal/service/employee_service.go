package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"visadesk-data/internal/domain"
	"visadesk-data/internal/importer"
	"visadesk-data/internal/schema"

	"github.com/google/uuid"
)

// EmployeeListItem enriches a record with the ranking fields the roster
// view sorts on.
type EmployeeListItem struct {
	*domain.Employee
	DaysLeft            *int `json:"daysLeft"` // nil = no known expiration
	IsPermanentResident bool `json:"isPermanentResident"`
}

// ListEmployees returns up to 200 records, flagged ones first, then by
// soonest expiration. Records without a known expiration sort last.
func (s *TrackerService) ListEmployees(ctx context.Context) ([]*EmployeeListItem, error) {
	items, err := s.employees.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]*EmployeeListItem, 0, len(items))
	for _, e := range items {
		item := &EmployeeListItem{
			Employee:            e,
			IsPermanentResident: IsPermanentResidentType(visaType(e)),
		}
		if days := importer.DaysRemaining(e.CurrentVisa, now); days != math.MaxInt {
			d := days
			item.DaysLeft = &d
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Flagged != out[j].Flagged {
			return out[i].Flagged
		}
		return sortDays(out[i]) < sortDays(out[j])
	})
	if len(out) > 200 {
		out = out[:200]
	}
	return out, nil
}

func sortDays(it *EmployeeListItem) int {
	if it.DaysLeft == nil {
		return math.MaxInt
	}
	return *it.DaysLeft
}

// VisaHistoryItem is one row of an employee's case history, projected onto
// the fields the detail view renders.
type VisaHistoryItem struct {
	ID        int            `json:"id"`
	Type      string         `json:"type,omitempty"`
	StartDate string         `json:"startDate,omitempty"`
	EndDate   string         `json:"endDate,omitempty"`
	Position  string         `json:"position,omitempty"`
	Raw       *domain.RawRow `json:"raw"`
}

// EmployeeDetail is the full record plus the per-row history projection.
type EmployeeDetail struct {
	*domain.Employee
	Visas []VisaHistoryItem `json:"visas"`
}

func (s *TrackerService) GetEmployee(ctx context.Context, id string) (*EmployeeDetail, error) {
	emp, err := s.employees.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &EmployeeDetail{Employee: emp, Visas: make([]VisaHistoryItem, 0, len(emp.RawRows))}
	for i, row := range emp.RawRows {
		start := row.GetString(schema.HeaderStartDate)
		if start == "" {
			start = row.GetString(schema.HeaderInitialStart)
		}
		detail.Visas = append(detail.Visas, VisaHistoryItem{
			ID:        i + 1,
			Type:      row.GetString(schema.HeaderCaseType),
			StartDate: start,
			EndDate:   row.GetString(schema.HeaderExpiration),
			Position:  row.GetString(schema.HeaderTitle),
			Raw:       row,
		})
	}
	return detail, nil
}

// EditCell applies field updates to one raw row of one employee. Fields
// whose normalized value is unchanged are ignored; when nothing changes at
// all the call short-circuits with a nil entry and no write. The visa
// snapshot is re-derived after the edit so it stays consistent with the
// history.
func (s *TrackerService) EditCell(ctx context.Context, employeeID string, rowIndex int, updates map[string]any, actor string) (*domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if rowIndex < 0 || rowIndex >= len(emp.RawRows) {
		return nil, fmt.Errorf("row index %d out of range (employee has %d rows)", rowIndex, len(emp.RawRows))
	}

	row := emp.RawRows[rowIndex]
	changes := DiffRowCells(row, updates, rowIndex)
	if len(changes) == 0 {
		return nil, nil
	}

	for _, ch := range changes {
		row.Set(ch.Key, ch.After)
	}
	emp.CurrentVisa = importer.ResolveVisa(emp.RawRows)

	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	entry := newAuditEntry(s.now(), domain.AuditTypeEditCell, actor, employeeID, "", changes)
	s.appendAudit(ctx, entry)
	return entry, nil
}

// ToggleFlag sets the manual review flag on a record.
func (s *TrackerService) ToggleFlag(ctx context.Context, employeeID string, flagged bool, actor string) (*domain.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	before := emp.Flagged
	emp.Flagged = flagged
	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	entry := newAuditEntry(s.now(), domain.AuditTypeFlag, actor, employeeID, "",
		[]domain.Change{{Key: "flagged", Before: before, After: flagged}})
	s.appendAudit(ctx, entry)
	return entry, nil
}

// AddNote attaches a free-text annotation to a record. Notes live outside
// the import lifecycle and survive merge imports untouched.
func (s *TrackerService) AddNote(ctx context.Context, employeeID, content string) (*domain.Note, error) {
	if content == "" {
		return nil, fmt.Errorf("note content is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	note := domain.Note{ID: uuid.NewString(), Content: content, CreatedAt: s.now()}
	emp.Notes = append(emp.Notes, note)
	if err := s.employees.Update(ctx, emp); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	return &note, nil
}

func (s *TrackerService) RemoveNote(ctx context.Context, employeeID, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	emp, err := s.employees.Get(ctx, employeeID)
	if err != nil {
		return err
	}
	kept := emp.Notes[:0]
	for _, n := range emp.Notes {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	if len(kept) == len(emp.Notes) {
		return fmt.Errorf("note not found")
	}
	emp.Notes = kept
	if err := s.employees.Update(ctx, emp); err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return nil
}

func visaType(e *domain.Employee) string {
	if e.CurrentVisa == nil {
		return ""
	}
	return e.CurrentVisa.Type
}
