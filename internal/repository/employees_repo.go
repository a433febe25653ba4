package repository

import (
	"context"
	"errors"

	"visadesk-data/internal/domain"
)

var ErrNotFound = errors.New("employee not found")

// EmployeesRepository is the injected record store. ReplaceAll swaps the
// whole record set as a single observable step; Update writes one record in
// place. The reconciliation engine itself performs no I/O.
type EmployeesRepository interface {
	LoadAll(ctx context.Context) ([]*domain.Employee, error)
	ReplaceAll(ctx context.Context, items []*domain.Employee) error
	Get(ctx context.Context, id string) (*domain.Employee, error)
	Update(ctx context.Context, emp *domain.Employee) error
}
