package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"visadesk-data/internal/domain"
)

// PostgresEmployeesRepo persists employee records with the history and
// derived snapshot as JSONB columns. ReplaceAll runs in one transaction so
// readers never observe a mix of old and new records.
type PostgresEmployeesRepo struct {
	db *sql.DB
}

var _ EmployeesRepository = (*PostgresEmployeesRepo)(nil)

func NewPostgresEmployeesRepo(db *sql.DB) *PostgresEmployeesRepo {
	return &PostgresEmployeesRepo{db: db}
}

// EnsureSchema creates the employees table when it does not exist yet.
func (r *PostgresEmployeesRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS employees (
			id           TEXT PRIMARY KEY,
			position     INT NOT NULL,
			first_name   TEXT NOT NULL DEFAULT '',
			last_name    TEXT NOT NULL DEFAULT '',
			email        TEXT NOT NULL DEFAULT '',
			department   TEXT NOT NULL DEFAULT '',
			title        TEXT NOT NULL DEFAULT '',
			flagged      BOOLEAN NOT NULL DEFAULT FALSE,
			current_visa JSONB,
			raw_rows     JSONB NOT NULL DEFAULT '[]',
			notes        JSONB NOT NULL DEFAULT '[]'
		)`)
	if err != nil {
		return fmt.Errorf("failed to create employees table: %w", err)
	}
	return nil
}

func (r *PostgresEmployeesRepo) LoadAll(ctx context.Context) ([]*domain.Employee, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, email, department, title, flagged,
		       current_visa, raw_rows, notes
		FROM employees
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var items []*domain.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s rowScanner) (*domain.Employee, error) {
	var e domain.Employee
	var visa, rawRows, notes []byte
	if err := s.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Department,
		&e.Title, &e.Flagged, &visa, &rawRows, &notes); err != nil {
		return nil, fmt.Errorf("failed to scan employee: %w", err)
	}
	if len(visa) > 0 {
		if err := json.Unmarshal(visa, &e.CurrentVisa); err != nil {
			return nil, fmt.Errorf("failed to decode current_visa: %w", err)
		}
	}
	if len(rawRows) > 0 {
		if err := json.Unmarshal(rawRows, &e.RawRows); err != nil {
			return nil, fmt.Errorf("failed to decode raw_rows: %w", err)
		}
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &e.Notes); err != nil {
			return nil, fmt.Errorf("failed to decode notes: %w", err)
		}
	}
	return &e, nil
}

func employeeColumns(e *domain.Employee) (visa, rawRows, notes []byte, err error) {
	if e.CurrentVisa != nil {
		if visa, err = json.Marshal(e.CurrentVisa); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode current_visa: %w", err)
		}
	}
	rr := e.RawRows
	if rr == nil {
		rr = []*domain.RawRow{}
	}
	if rawRows, err = json.Marshal(rr); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode raw_rows: %w", err)
	}
	ns := e.Notes
	if ns == nil {
		ns = []domain.Note{}
	}
	if notes, err = json.Marshal(ns); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode notes: %w", err)
	}
	return visa, rawRows, notes, nil
}

func (r *PostgresEmployeesRepo) ReplaceAll(ctx context.Context, items []*domain.Employee) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM employees`); err != nil {
		return fmt.Errorf("failed to clear employees: %w", err)
	}
	for i, e := range items {
		visa, rawRows, notes, err := employeeColumns(e)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO employees
				(id, position, first_name, last_name, email, department, title,
				 flagged, current_visa, raw_rows, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			e.ID, i, e.FirstName, e.LastName, e.Email, e.Department, e.Title,
			e.Flagged, nullableJSON(visa), rawRows, notes)
		if err != nil {
			return fmt.Errorf("failed to insert employee %s: %w", e.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit replace: %w", err)
	}
	return nil
}

func (r *PostgresEmployeesRepo) Get(ctx context.Context, id string) (*domain.Employee, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, email, department, title, flagged,
		       current_visa, raw_rows, notes
		FROM employees
		WHERE id = $1`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *PostgresEmployeesRepo) Update(ctx context.Context, emp *domain.Employee) error {
	visa, rawRows, notes, err := employeeColumns(emp)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET first_name = $2, last_name = $3, email = $4, department = $5,
		    title = $6, flagged = $7, current_visa = $8, raw_rows = $9, notes = $10
		WHERE id = $1`,
		emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.Department,
		emp.Title, emp.Flagged, nullableJSON(visa), rawRows, notes)
	if err != nil {
		return fmt.Errorf("failed to update employee %s: %w", emp.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
