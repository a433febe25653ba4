package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"visadesk-data/internal/domain"

	"github.com/go-redis/redis/v8"
)

const auditKey = "visadesk:audit"

// RedisAuditRepo keeps the audit log as a Redis list, pushed from the left
// so LRANGE reads newest-first without sorting.
type RedisAuditRepo struct {
	c *redis.Client
}

var _ AuditRepository = (*RedisAuditRepo)(nil)

func NewRedisAuditRepo(c *redis.Client) *RedisAuditRepo {
	return &RedisAuditRepo{c: c}
}

func (r *RedisAuditRepo) Append(ctx context.Context, entry *domain.AuditEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}
	if err := r.c.LPush(ctx, auditKey, string(data)).Err(); err != nil {
		return fmt.Errorf("failed to push audit entry: %w", err)
	}
	return nil
}

func (r *RedisAuditRepo) List(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	if limit <= 0 {
		limit = 500
	}
	vals, err := r.c.LRange(ctx, auditKey, 0, int64(limit-1)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit list: %w", err)
	}
	entries := make([]*domain.AuditEntry, 0, len(vals))
	for _, v := range vals {
		var e domain.AuditEntry
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			return nil, fmt.Errorf("failed to decode audit entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

func (r *RedisAuditRepo) Reset(ctx context.Context) error {
	if err := r.c.Del(ctx, auditKey).Err(); err != nil {
		return fmt.Errorf("failed to reset audit list: %w", err)
	}
	return nil
}
