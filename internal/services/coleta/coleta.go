// Package coleta serves the weekday collection records, keeping the week
// list in a cache that every update invalidates.
package coleta

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
)

// WeekCacheKey holds the cached week list.
const WeekCacheKey = "coletas:semana"

// Repository is the subset of storage.ColetaStore the service needs.
type Repository interface {
	ListColetas(ctx context.Context) ([]models.Coleta, error)
	GetColeta(ctx context.Context, dia string) (*models.Coleta, error)
	UpdateColeta(ctx context.Context, dia, tipo string, observacao *string) (*models.Coleta, error)
}

// Cache describes the cache operations used here.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service wraps the record store with caching and logging.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New creates a Service. A zero ttl keeps entries until the next update.
func New(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// ListWeek returns the seven records, Monday first. Cache failures are
// logged and the store is read instead.
func (s *Service) ListWeek(ctx context.Context) ([]models.Coleta, error) {
	const op = "services.coleta.ListWeek"
	log := s.log.With(slog.String("op", op))

	var cached []models.Coleta
	found, err := s.cache.Get(ctx, WeekCacheKey, &cached)
	if err != nil {
		log.Warn("failed to read from cache", slog.String("key", WeekCacheKey), sl.Err(err))
	}
	if found {
		return cached, nil
	}

	coletas, err := s.repo.ListColetas(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, WeekCacheKey, coletas, s.ttl); err != nil {
		log.Warn("failed to add to cache", slog.String("key", WeekCacheKey), sl.Err(err))
	}
	return coletas, nil
}

// GetDay returns the record of one weekday.
func (s *Service) GetDay(ctx context.Context, dia string) (*models.Coleta, error) {
	const op = "services.coleta.GetDay"
	c, err := s.repo.GetColeta(ctx, dia)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// UpdateDay stores the new type and note of one weekday and drops the
// cached week.
func (s *Service) UpdateDay(ctx context.Context, dia string, req models.DummyColeta) (*models.Coleta, error) {
	const op = "services.coleta.UpdateDay"
	log := s.log.With(slog.String("op", op))

	updated, err := s.repo.UpdateColeta(ctx, dia, req.TipoColeta, req.Observacao)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, WeekCacheKey); err != nil {
		log.Warn("failed to invalidate cache", slog.String("key", WeekCacheKey), sl.Err(err))
	}
	log.Info("coleta updated", slog.String("dia_semana", updated.DiaSemana), slog.String("tipo_coleta", updated.TipoColeta))
	return updated, nil
}
