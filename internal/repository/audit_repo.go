package repository

import (
	"context"

	"visadesk-data/internal/domain"
)

// AuditRepository is the append-only audit sink. List returns newest-first.
// Reset exists only for the explicit full-system reset, which the service
// layer re-audits immediately afterwards.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
	Reset(ctx context.Context) error
}
