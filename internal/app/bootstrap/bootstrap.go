// Package bootstrap builds the components shared by the API and the sender
// worker.
package bootstrap

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/coleta-calendar/internal/config"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/smtp"
	"github.com/magabrotheeeer/coleta-calendar/internal/metrics"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/calendar"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/notifier"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/sender"
)

// Location loads the zone calendar timestamps are printed in.
func Location(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("bootstrap.Location: %w", err)
	}
	return loc, nil
}

// Notifier wires renderer, SMTP sender and store into a notifier service.
func Notifier(cfg *config.Config, repo notifier.Repository, m *metrics.Metrics, log *slog.Logger) (*notifier.Service, error) {
	loc, err := Location(cfg.TimeZone)
	if err != nil {
		return nil, err
	}
	renderer := calendar.New(calendar.NewChromeEngine(cfg.ChromePath, cfg.PDF.Timeout), loc, log)
	transport := smtp.NewTransport(cfg.SMTP, log)
	snd := sender.New(transport, cfg.SMTP, cfg.ContactEmail, log)

	return notifier.New(repo, renderer, snd, notifier.Options{
		BaseURL: cfg.BaseURL,
		Workers: cfg.Workers,
	}, m, log), nil
}
