// Package subscription manages the mailing list and the email template.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/coleta-calendar/internal/lib/token"
	"github.com/magabrotheeeer/coleta-calendar/internal/metrics"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

// Repository combines the subscription and template stores.
type Repository interface {
	Subscribe(ctx context.Context, email, token string) (*models.Subscription, bool, error)
	UnsubscribeByToken(ctx context.Context, token string) (*models.Subscription, error)
	SubscriptionStats(ctx context.Context) (models.SubscriptionStats, error)
	GetTemplate(ctx context.Context) (*models.EmailTemplate, error)
	SaveTemplate(ctx context.Context, tpl models.EmailTemplate) error
}

// Service implements the mailing list operations exposed over HTTP.
type Service struct {
	repo     Repository
	newToken token.Generator
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// New creates a Service. A nil gen falls back to token.New.
func New(repo Repository, gen token.Generator, log *slog.Logger) *Service {
	if gen == nil {
		gen = token.New
	}
	return &Service{
		repo:     repo,
		newToken: gen,
		log:      log,
	}
}

// WithMetrics makes the service count subscribe and unsubscribe operations.
func (s *Service) WithMetrics(m *metrics.Metrics) *Service {
	s.metrics = m
	return s
}

// NormalizeEmail trims email and checks it looks like an address. Case is
// preserved.
func NormalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return "", fmt.Errorf("invalid email %q: %w", email, storage.ErrValidation)
	}
	return email, nil
}

// Subscribe adds email to the list or reactivates it with a fresh token.
func (s *Service) Subscribe(ctx context.Context, email string) (*models.Subscription, bool, error) {
	const op = "services.subscription.Subscribe"
	log := s.log.With(slog.String("op", op))

	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	tok, err := s.newToken()
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	sub, isNew, err := s.repo.Subscribe(ctx, email, tok)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if isNew {
		log.Info("subscription created", slog.String("email", sub.Email))
		s.metrics.RecordSubscription("new")
	} else {
		log.Info("subscription reactivated", slog.String("email", sub.Email))
		s.metrics.RecordSubscription("reactivated")
	}
	return sub, isNew, nil
}

// Unsubscribe deactivates the subscription that owns tok.
func (s *Service) Unsubscribe(ctx context.Context, tok string) (*models.Subscription, error) {
	const op = "services.subscription.Unsubscribe"

	tok = strings.TrimSpace(tok)
	if tok == "" {
		return nil, fmt.Errorf("%s: token is required: %w", op, storage.ErrValidation)
	}
	sub, err := s.repo.UnsubscribeByToken(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscription cancelled", slog.String("op", op), slog.String("email", sub.Email))
	s.metrics.RecordSubscription("unsubscribed")
	return sub, nil
}

// Stats summarises the mailing list.
func (s *Service) Stats(ctx context.Context) (models.SubscriptionStats, error) {
	const op = "services.subscription.Stats"
	stats, err := s.repo.SubscriptionStats(ctx)
	if err != nil {
		return models.SubscriptionStats{}, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

// Template returns the current email template.
func (s *Service) Template(ctx context.Context) (*models.EmailTemplate, error) {
	const op = "services.subscription.Template"
	tpl, err := s.repo.GetTemplate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tpl, nil
}

// SaveTemplate replaces the email template.
func (s *Service) SaveTemplate(ctx context.Context, tpl models.EmailTemplate) error {
	const op = "services.subscription.SaveTemplate"
	if err := storage.ValidateTemplate(tpl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.SaveTemplate(ctx, tpl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("email template updated", slog.String("op", op))
	return nil
}
