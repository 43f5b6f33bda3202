// Package notifier broadcasts the calendar PDF to every active subscriber.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/token"
	"github.com/magabrotheeeer/coleta-calendar/internal/metrics"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/sender"
)

// DefaultWorkers bounds concurrent SMTP sessions when Options.Workers is unset.
const DefaultWorkers = 4

// ErrNoData is returned when there are no collection records to print.
var ErrNoData = errors.New("no collection records")

type Repository interface {
	ListColetas(ctx context.Context) ([]models.Coleta, error)
	GetTemplate(ctx context.Context) (*models.EmailTemplate, error)
	ListActiveEmails(ctx context.Context) ([]string, error)
	RefreshToken(ctx context.Context, email, token string) error
}

type Renderer interface {
	RenderPDF(ctx context.Context, records []models.Coleta) ([]byte, error)
}

type Sender interface {
	SendCalendar(ctx context.Context, email sender.CalendarEmail) (string, error)
}

// Options tunes a Service.
type Options struct {
	BaseURL  string
	Workers  int
	NewToken token.Generator
}

type Service struct {
	repo     Repository
	renderer Renderer
	sender   Sender
	baseURL  string
	workers  int
	newToken token.Generator
	metrics  *metrics.Metrics
	log      *slog.Logger
}

func New(repo Repository, renderer Renderer, snd Sender, opts Options, m *metrics.Metrics, log *slog.Logger) *Service {
	if opts.Workers < 1 {
		opts.Workers = DefaultWorkers
	}
	if opts.NewToken == nil {
		opts.NewToken = token.New
	}
	return &Service{
		repo:     repo,
		renderer: renderer,
		sender:   snd,
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		workers:  opts.Workers,
		newToken: opts.NewToken,
		metrics:  m,
		log:      log,
	}
}

// UnsubscribeURL builds the cancellation link carried by an email.
func (s *Service) UnsubscribeURL(tok string) string {
	return s.baseURL + "/unsubscribe?" + url.Values{"token": {tok}}.Encode()
}

// RenderCalendar prints the current schedule.
func (s *Service) RenderCalendar(ctx context.Context) ([]byte, error) {
	const op = "services.notifier.RenderCalendar"

	records, err := s.repo.ListColetas(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrNoData)
	}

	start := time.Now()
	pdf, err := s.renderer.RenderPDF(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.RecordRender(time.Since(start))
	return pdf, nil
}

// BroadcastCalendar renders the calendar once and emails it to every active
// subscriber. Per-recipient failures are reported in the result and never
// abort the batch; only missing data, template or render failures do.
func (s *Service) BroadcastCalendar(ctx context.Context) (*models.BroadcastResult, error) {
	const op = "services.notifier.BroadcastCalendar"
	log := s.log.With(slog.String("op", op))
	start := time.Now()

	res, err := s.broadcast(ctx, log)
	switch {
	case errors.Is(err, ErrNoData):
		s.metrics.RecordBroadcast(metrics.StatusNoData, time.Since(start))
	case err != nil:
		s.metrics.RecordBroadcast(metrics.StatusFailed, time.Since(start))
	default:
		s.metrics.RecordBroadcast(metrics.StatusSuccess, time.Since(start))
		s.metrics.RecordEmails(res.EmailsSent, res.EmailsFailed)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

func (s *Service) broadcast(ctx context.Context, log *slog.Logger) (*models.BroadcastResult, error) {
	records, err := s.repo.ListColetas(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		log.Warn("no collection records, nothing to send")
		return nil, ErrNoData
	}

	tpl, err := s.repo.GetTemplate(ctx)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}

	renderStart := time.Now()
	pdf, err := s.renderer.RenderPDF(ctx, records)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordRender(time.Since(renderStart))

	emails, err := s.repo.ListActiveEmails(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	res := &models.BroadcastResult{PDFGenerated: true, Results: []models.RecipientResult{}}
	if len(emails) == 0 {
		log.Info("pdf generated, no active subscribers")
		return res, nil
	}

	res.Results = s.fanOut(ctx, emails, *tpl, pdf)
	for _, r := range res.Results {
		if r.Success {
			res.EmailsSent++
		} else {
			res.EmailsFailed++
		}
	}
	log.Info("broadcast finished",
		slog.Int("sent", res.EmailsSent),
		slog.Int("failed", res.EmailsFailed),
	)
	return res, nil
}

// fanOut sends to every email with at most s.workers sessions in flight.
// results[i] always belongs to emails[i].
func (s *Service) fanOut(ctx context.Context, emails []string, tpl models.EmailTemplate, pdf []byte) []models.RecipientResult {
	results := make([]models.RecipientResult, len(emails))
	sem := make(chan struct{}, s.workers)
	var wg sync.WaitGroup

	for i, email := range emails {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i] = models.RecipientResult{Email: email, Error: ctx.Err().Error()}
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.deliver(ctx, email, tpl, pdf)
		}()
	}
	wg.Wait()
	return results
}

func (s *Service) deliver(ctx context.Context, email string, tpl models.EmailTemplate, pdf []byte) models.RecipientResult {
	log := s.log.With(slog.String("email", email))
	result := models.RecipientResult{Email: email}

	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		return result
	}

	tok, err := s.newToken()
	if err != nil {
		log.Error("failed to generate unsubscribe token", sl.Err(err))
		result.Error = err.Error()
		return result
	}

	id, err := s.sender.SendCalendar(ctx, sender.CalendarEmail{
		To:             email,
		Template:       tpl,
		PDF:            pdf,
		UnsubscribeURL: s.UnsubscribeURL(tok),
	})
	if err != nil {
		log.Warn("calendar delivery failed", sl.Err(err))
		result.Error = err.Error()
		return result
	}
	result.Success = true
	result.MessageID = id

	// The email already carries tok; the stored token must follow it.
	if err := s.repo.RefreshToken(ctx, email, tok); err != nil {
		log.Warn("email sent but token refresh failed", sl.Err(err))
		result.Warning = "token refresh failed: " + err.Error()
	}
	return result
}
