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

// FileAuditRepo stores the audit log as one JSON array next to the
// employees document, appended in insertion order.
type FileAuditRepo struct {
	mu   sync.Mutex
	path string
}

var _ AuditRepository = (*FileAuditRepo)(nil)

func NewFileAuditRepo(dataDir string) (*FileAuditRepo, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileAuditRepo{path: filepath.Join(dataDir, "audit-log.json")}, nil
}

func (r *FileAuditRepo) load() ([]*domain.AuditEntry, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", r.path, err)
	}
	var entries []*domain.AuditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", r.path, err)
	}
	return entries, nil
}

func (r *FileAuditRepo) save(entries []*domain.AuditEntry) error {
	if entries == nil {
		entries = []*domain.AuditEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode audit log: %w", err)
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

func (r *FileAuditRepo) Append(_ context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, err := r.load()
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	return r.save(entries)
}

func (r *FileAuditRepo) List(_ context.Context, limit int) ([]*domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries, err := r.load()
	if err != nil {
		return nil, err
	}
	n := len(entries)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]*domain.AuditEntry, 0, limit)
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

func (r *FileAuditRepo) Reset(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(nil)
}
