package repository

import (
	"context"
	"sync"

	"visadesk-data/internal/domain"
)

// MemoryAuditRepo is the in-process audit sink counterpart of
// MemoryEmployeesRepo.
type MemoryAuditRepo struct {
	mu      sync.RWMutex
	entries []*domain.AuditEntry
}

var _ AuditRepository = (*MemoryAuditRepo)(nil)

func NewMemoryAuditRepo() *MemoryAuditRepo {
	return &MemoryAuditRepo{}
}

func (r *MemoryAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *MemoryAuditRepo) List(_ context.Context, limit int) ([]*domain.AuditEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*domain.AuditEntry, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

func (r *MemoryAuditRepo) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = nil
	return nil
}
