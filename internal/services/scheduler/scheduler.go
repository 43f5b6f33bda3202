// Package scheduler periodically requests a calendar broadcast by publishing
// a job to the broker.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/coleta-calendar/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
)

// Reasons attached to published jobs.
const (
	ReasonScheduled = "scheduled"
	ReasonStartup   = "startup"
	ReasonManual    = "manual"
)

type Service struct {
	pub      rabbitmq.Publisher
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger
}

// New creates a Service publishing every interval.
func New(pub rabbitmq.Publisher, interval time.Duration, log *slog.Logger) *Service {
	return &Service{
		pub:      pub,
		interval: interval,
		now:      time.Now,
		log:      log,
	}
}

// Publish enqueues one broadcast job.
func (s *Service) Publish(reason string) error {
	const op = "services.scheduler.Publish"

	job := models.BroadcastJob{RequestedAt: s.now().UTC(), Reason: reason}
	if err := rabbitmq.PublishMessage(s.pub, rabbitmq.Exchange, rabbitmq.CalendarRoutingKey, job); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("broadcast job published", slog.String("reason", reason))
	return nil
}

// Run publishes a job every interval until ctx is done. With runOnStart a
// job is published immediately as well.
func (s *Service) Run(ctx context.Context, runOnStart bool) {
	if runOnStart {
		s.tick(ReasonStartup)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ReasonScheduled)
		}
	}
}

func (s *Service) tick(reason string) {
	if err := s.Publish(reason); err != nil {
		s.log.Error("failed to publish broadcast job", sl.Err(err))
	}
}
