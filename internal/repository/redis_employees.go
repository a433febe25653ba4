package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"visadesk-data/internal/domain"

	"github.com/go-redis/redis/v8"
)

const employeesKey = "visadesk:employees"

// RedisEmployeesRepo stores the whole record set as a single JSON value.
// Spreadsheet populations are small, so one document keeps a replace-all
// down to a single SET, which is naturally atomic for readers.
type RedisEmployeesRepo struct {
	mu sync.Mutex
	c  *redis.Client
}

var _ EmployeesRepository = (*RedisEmployeesRepo)(nil)

func NewRedisEmployeesRepo(c *redis.Client) *RedisEmployeesRepo {
	return &RedisEmployeesRepo{c: c}
}

func (r *RedisEmployeesRepo) load(ctx context.Context) ([]*domain.Employee, error) {
	val, err := r.c.Get(ctx, employeesKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read employees key: %w", err)
	}
	var items []*domain.Employee
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, fmt.Errorf("failed to decode employees key: %w", err)
	}
	return items, nil
}

func (r *RedisEmployeesRepo) save(ctx context.Context, items []*domain.Employee) error {
	if items == nil {
		items = []*domain.Employee{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode employees: %w", err)
	}
	if err := r.c.Set(ctx, employeesKey, string(data), 0).Err(); err != nil {
		return fmt.Errorf("failed to write employees key: %w", err)
	}
	return nil
}

func (r *RedisEmployeesRepo) LoadAll(ctx context.Context) ([]*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *RedisEmployeesRepo) ReplaceAll(ctx context.Context, items []*domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.save(ctx, items)
}

func (r *RedisEmployeesRepo) Get(ctx context.Context, id string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load(ctx)
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

func (r *RedisEmployeesRepo) Update(ctx context.Context, emp *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, err := r.load(ctx)
	if err != nil {
		return err
	}
	for i, e := range items {
		if e.ID == emp.ID {
			items[i] = emp
			return r.save(ctx, items)
		}
	}
	return ErrNotFound
}
