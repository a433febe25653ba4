package domain

import "time"

// Visa is the derived current work-authorization snapshot for one employee.
// It is a cache over RawRows, re-derivable at any time, except that the
// permanent-residency override may rename Type away from any structured
// column value.
type Visa struct {
	Type      string     `json:"type,omitempty"`
	StartDate *time.Time `json:"startDate"`
	EndDate   *time.Time `json:"endDate"`
}

// Note is a manual annotation attached to an employee, independent of
// imports and always preserved across them.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Employee is the canonical per-person record: a stable surrogate id,
// biographical scalars, the derived visa snapshot, and the full ordered
// raw-row history behind it.
type Employee struct {
	ID          string    `json:"id"` // UUID, never reused
	FirstName   string    `json:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty"`
	Email       string    `json:"email,omitempty"` // institutional email
	Department  string    `json:"department,omitempty"`
	Title       string    `json:"title,omitempty"`
	Flagged     bool      `json:"flagged"`
	CurrentVisa *Visa     `json:"currentVisa"`
	RawRows     []*RawRow `json:"rawRows"`
	Notes       []Note    `json:"notes,omitempty"`
}

// Clone returns a deep copy, so callers can stage edits without touching
// the stored record until they write it back.
func (e *Employee) Clone() *Employee {
	c := *e
	if e.CurrentVisa != nil {
		v := *e.CurrentVisa
		c.CurrentVisa = &v
	}
	if e.RawRows != nil {
		c.RawRows = make([]*RawRow, len(e.RawRows))
		for i, r := range e.RawRows {
			c.RawRows[i] = r.Clone()
		}
	}
	c.Notes = append([]Note(nil), e.Notes...)
	return &c
}

// FullName joins the non-empty name parts for display.
func (e *Employee) FullName() string {
	switch {
	case e.FirstName != "" && e.LastName != "":
		return e.FirstName + " " + e.LastName
	case e.FirstName != "":
		return e.FirstName
	default:
		return e.LastName
	}
}
