package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory is an in-process Cache. Values are kept JSON-encoded so callers
// never share mutable state with the cache.
type Memory struct {
	c *gocache.Cache
}

// NewMemory returns an in-process cache whose entries expire after
// defaultTTL unless Set is given another expiration.
func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}
	return &Memory{c: gocache.New(defaultTTL, 10*time.Minute)}
}

func (m *Memory) Get(ctx context.Context, key string, result any) (bool, error) {
	const op = "cache.Memory.Get"
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	raw, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}
	data, ok := raw.([]byte)
	if !ok {
		return false, fmt.Errorf("%s: unexpected value type %T", op, raw)
	}
	if err := json.Unmarshal(data, result); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	const op = "cache.Memory.Set"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if expiration <= 0 {
		expiration = gocache.DefaultExpiration
	}
	m.c.Set(key, data, expiration)
	return nil
}

func (m *Memory) Invalidate(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Close drops every entry. The go-cache janitor goroutine cannot be stopped.
func (m *Memory) Close() error {
	m.c.Flush()
	return nil
}
