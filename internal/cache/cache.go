// Package cache stores JSON-encoded values under string keys, either in
// Redis or in process memory.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/coleta-calendar/internal/config"
)

// Cache is implemented by Redis and Memory.
type Cache interface {
	// Get decodes the value under key into result and reports whether it was found.
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
	Close() error
}

// New connects to Redis when an address is configured and falls back to the
// in-process cache otherwise.
func New(ctx context.Context, cfg config.RedisConnection, log *slog.Logger) (Cache, error) {
	if cfg.AddressRedis == "" {
		log.Info("redis address not set, using in-memory cache")
		return NewMemory(cfg.CacheTTL), nil
	}
	c, err := InitServer(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("redis cache connected", slog.String("addr", cfg.AddressRedis))
	return c, nil
}
