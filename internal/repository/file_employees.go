package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"visadesk-data/internal/domain"
)

// FileEmployeesRepo persists the record set as one JSON document under the
// data directory. Writes go through a temp file + rename so a replace-all
// is atomic on disk: readers see either the old set or the new one, never a
// partial file.
type FileEmployeesRepo struct {
	mu   sync.Mutex
	path string
}

var _ EmployeesRepository = (*FileEmployeesRepo)(nil)

func NewFileEmployeesRepo(dataDir string) (*FileEmployeesRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileEmployeesRepo{path: filepath.Join(dataDir, "employees.json")}, nil
}

func (r *FileEmployeesRepo) LoadAll(_ context.Context) ([]*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *FileEmployeesRepo) load() ([]*domain.Employee, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	var items []*domain.Employee
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.path, err)
	}
	return items, nil
}

func (r *FileEmployeesRepo) ReplaceAll(_ context.Context, items []*domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(items)
}

func (r *FileEmployeesRepo) save(items []*domain.Employee) error {
	if items == nil {
		items = []*domain.Employee{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode employees: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", r.path, err)
	}
	return nil
}

func (r *FileEmployeesRepo) Get(_ context.Context, id string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load()
	if err != nil {
		return nil, err
	}
	for _, e := range items {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, ErrNotFound
}

func (r *FileEmployeesRepo) Update(_ context.Context, emp *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load()
	if err != nil {
		return err
	}
	for i, e := range items {
		if e.ID == emp.ID {
			items[i] = emp
			return r.save(items)
		}
	}
	return ErrNotFound
}
