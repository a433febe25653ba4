package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"visadesk-data/internal/domain"
)

// PostgresAuditRepo keeps the audit log in an append-only table. Rows are
// never updated; Reset deletes everything and only the full-system reset
// path calls it.
type PostgresAuditRepo struct {
	db *sql.DB
}

var _ AuditRepository = (*PostgresAuditRepo)(nil)

func NewPostgresAuditRepo(db *sql.DB) *PostgresAuditRepo {
	return &PostgresAuditRepo{db: db}
}

// EnsureSchema creates the audit table when it does not exist yet.
func (r *PostgresAuditRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_entries (
			id          TEXT PRIMARY KEY,
			ts          TIMESTAMPTZ NOT NULL,
			actor       TEXT NOT NULL DEFAULT '',
			entry_type  TEXT NOT NULL,
			employee_id TEXT NOT NULL DEFAULT '',
			changes     JSONB NOT NULL DEFAULT '[]',
			note        TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("failed to create audit_entries table: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepo) Append(ctx context.Context, entry *domain.AuditEntry) error {
	changes := entry.Changes
	if changes == nil {
		changes = []domain.Change{}
	}
	data, err := json.Marshal(changes)
	if err != nil {
		return fmt.Errorf("failed to encode changes: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO audit_entries (id, ts, actor, entry_type, employee_id, changes, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.TS, entry.Actor, entry.Type, entry.EmployeeID, data, entry.Note)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepo) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ts, actor, entry_type, employee_id, changes, note
		FROM audit_entries
		ORDER BY ts DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var changes []byte
		if err := rows.Scan(&e.ID, &e.TS, &e.Actor, &e.Type, &e.EmployeeID, &changes, &e.Note); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &e.Changes); err != nil {
				return nil, fmt.Errorf("failed to decode changes: %w", err)
			}
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}

func (r *PostgresAuditRepo) Reset(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM audit_entries`); err != nil {
		return fmt.Errorf("failed to reset audit log: %w", err)
	}
	return nil
}
