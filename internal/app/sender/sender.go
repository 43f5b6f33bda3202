// Package sender runs the worker that consumes broadcast jobs and emails the
// calendar.
package sender

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/coleta-calendar/internal/app/bootstrap"
	"github.com/magabrotheeeer/coleta-calendar/internal/config"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/metrics"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/calendar"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/notifier"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage/backend"
)

// Broadcaster runs one calendar broadcast.
type Broadcaster interface {
	BroadcastCalendar(ctx context.Context) (*models.BroadcastResult, error)
}

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	store         storage.Storage
	broadcaster   Broadcaster
	metricsServer *http.Server
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := backend.Open(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	notifierService, err := bootstrap.Notifier(cfg, store, m, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		_ = store.Close()
		return nil, err
	}

	app := &App{
		conn:        conn,
		ch:          ch,
		store:       store,
		broadcaster: notifierService,
		logger:      logger,
	}
	if cfg.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		app.metricsServer = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	return app, nil
}

// HandleJob returns the queue handler running one broadcast per job.
// Malformed jobs and an empty calendar are acknowledged and a render failure
// is rejected, so none of them is redelivered forever. Any other failure is
// requeued.
func HandleJob(b Broadcaster, log *slog.Logger) rabbitmq.Handler {
	return func(ctx context.Context, body []byte) error {
		const op = "app.sender.HandleJob"
		log := log.With(slog.String("op", op))

		var job models.BroadcastJob
		if err := json.Unmarshal(body, &job); err != nil {
			log.Error("dropping malformed broadcast job", sl.Err(err))
			return nil
		}
		log = log.With(
			slog.String("reason", job.Reason),
			slog.Time("requested_at", job.RequestedAt),
		)

		res, err := b.BroadcastCalendar(ctx)
		switch {
		case errors.Is(err, notifier.ErrNoData):
			log.Warn("no collection records, broadcast skipped")
			return nil
		case errors.Is(err, calendar.ErrRender):
			return fmt.Errorf("%s: %w: %w", op, rabbitmq.ErrDiscard, err)
		case err != nil:
			return fmt.Errorf("%s: %w", op, err)
		}

		log.Info("broadcast job done",
			slog.Int("sent", res.EmailsSent),
			slog.Int("failed", res.EmailsFailed),
		)
		return nil
	}
}

func (a *App) Run(ctx context.Context) error {
	if a.metricsServer != nil {
		go func() {
			a.logger.Info("metrics server starting on", slog.String("address", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server failed", sl.Err(err))
			}
		}()
	}

	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.CalendarQueue, a.logger, HandleJob(a.broadcaster, a.logger))
	if err != nil {
		a.logger.Error("failed to start calendar queue consumer", sl.Err(err))
		a.close()
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")
	a.close()
	return nil
}

func (a *App) close() {
	if a.metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("failed to stop metrics server", sl.Err(err))
		}
	}
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
