// Package scheduler runs the process that periodically requests a calendar
// broadcast.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/coleta-calendar/internal/config"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	schedulerservice "github.com/magabrotheeeer/coleta-calendar/internal/services/scheduler"
)

// App owns the broker connection of the scheduler process.
type App struct {
	schedulerService *schedulerservice.Service
	runOnStart       bool
	conn             *amqp.Connection
	ch               *amqp.Channel
	logger           *slog.Logger
}

// New connects to RabbitMQ and declares the notification topology.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	return &App{
		schedulerService: schedulerservice.New(ch, cfg.Interval, logger),
		runOnStart:       cfg.RunOnStart,
		conn:             conn,
		ch:               ch,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", sl.Err(err))
		}
	}
}

// Run publishes jobs until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.schedulerService.Run(ctx, a.runOnStart)

	a.logger.Info("shutting down scheduler service")
	closeResources(a.ch, a.conn, a.logger)
	return nil
}
