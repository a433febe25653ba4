package repository

import (
	"context"
	"sync"

	"visadesk-data/internal/domain"
)

// MemoryEmployeesRepo keeps the record set in process memory. Used as the
// unit-test backend and when no external store is configured. Reads return
// deep copies, so a caller mutating a loaded record changes nothing until
// it writes the record back.
type MemoryEmployeesRepo struct {
	mu    sync.RWMutex
	items []*domain.Employee
	byID  map[string]*domain.Employee
}

var _ EmployeesRepository = (*MemoryEmployeesRepo)(nil)

func NewMemoryEmployeesRepo() *MemoryEmployeesRepo {
	return &MemoryEmployeesRepo{byID: map[string]*domain.Employee{}}
}

func (r *MemoryEmployeesRepo) LoadAll(_ context.Context) ([]*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Employee, len(r.items))
	for i, e := range r.items {
		out[i] = e.Clone()
	}
	return out, nil
}

func (r *MemoryEmployeesRepo) ReplaceAll(_ context.Context, items []*domain.Employee) error {
	next := make([]*domain.Employee, len(items))
	copy(next, items)
	byID := make(map[string]*domain.Employee, len(next))
	for _, e := range next {
		byID[e.ID] = e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = next
	r.byID = byID
	return nil
}

func (r *MemoryEmployeesRepo) Get(_ context.Context, id string) (*domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e.Clone(), nil
}

func (r *MemoryEmployeesRepo) Update(_ context.Context, emp *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.byID[emp.ID]
	if !ok {
		return ErrNotFound
	}
	for i, e := range r.items {
		if e == old {
			r.items[i] = emp
			break
		}
	}
	r.byID[emp.ID] = emp
	return nil
}
