package domain

import "time"

// Audit entry types.
const (
	AuditTypeImport      = "IMPORT"
	AuditTypeImportClear = "IMPORT_CLEAR"
	AuditTypeReset       = "RESET"
	AuditTypeEditCell    = "EDIT_CELL"
	AuditTypeFlag        = "FLAG"
)

// Change records one field-level before/after pair inside an audit entry.
// RowIndex is set only for raw-row cell edits.
type Change struct {
	Key      string `json:"key"`
	Before   any    `json:"before"`
	After    any    `json:"after"`
	RowIndex *int   `json:"rowIndex,omitempty"`
}

// AuditEntry is one record of the append-only audit log. Entries are never
// mutated or deleted except by a full reset, which is itself audited.
type AuditEntry struct {
	ID         string    `json:"id"`
	TS         time.Time `json:"ts"`
	Actor      string    `json:"actor,omitempty"`
	Type       string    `json:"type"`
	EmployeeID string    `json:"employeeId,omitempty"`
	Changes    []Change  `json:"changes,omitempty"`
	Note       string    `json:"note,omitempty"`
}
