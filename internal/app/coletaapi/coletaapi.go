// Package coletaapi assembles the public HTTP API.
package coletaapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/coleta-calendar/internal/app/bootstrap"
	"github.com/magabrotheeeer/coleta-calendar/internal/cache"
	"github.com/magabrotheeeer/coleta-calendar/internal/config"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/jwt"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/token"
	"github.com/magabrotheeeer/coleta-calendar/internal/metrics"
	authservice "github.com/magabrotheeeer/coleta-calendar/internal/services/auth"
	coletaservice "github.com/magabrotheeeer/coleta-calendar/internal/services/coleta"
	subservice "github.com/magabrotheeeer/coleta-calendar/internal/services/subscription"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage/backend"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	server *http.Server
	logger *slog.Logger
	store  storage.Storage
	cache  cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.coletaapi.New"

	store, err := backend.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	weekCache, err := cache.New(ctx, cfg.RedisConnection, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router, err := NewRouter(cfg, logger, store, weekCache)
	if err != nil {
		_ = weekCache.Close()
		_ = store.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		store:  store,
		cache:  weekCache,
	}, nil
}

// NewRouter builds the services over store and returns the API handler.
// Each call uses its own Prometheus registry.
func NewRouter(cfg *config.Config, logger *slog.Logger, store storage.Storage, weekCache cache.Cache) (http.Handler, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		return nil, err
	}

	notifierService, err := bootstrap.Notifier(cfg, store, m, logger)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, cfg, logger, Services{
		Coleta:       coletaservice.New(store, weekCache, cfg.CacheTTL, logger),
		Subscription: subservice.New(store, token.New, logger).WithMetrics(m),
		Notifier:     notifierService,
		Auth:         authservice.New(cfg.Admin.Username, cfg.PasswordHash, jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL), logger),
		Health:       store,
		Metrics:      m,
		MetricsPage:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
	})
	return router, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var err error
	select {
	case err = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err = a.server.Shutdown(timeoutCtx)
	}

	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("failed to close cache", sl.Err(cerr))
	}
	if cerr := a.store.Close(); cerr != nil {
		a.logger.Error("failed to close storage", sl.Err(cerr))
	}
	return err
}
