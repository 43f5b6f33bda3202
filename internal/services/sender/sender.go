// Package sender composes the calendar email and delivers it over SMTP.
package sender

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"time"

	"github.com/magabrotheeeer/coleta-calendar/internal/config"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/smtp"
)

// Service sends calendar emails through a transport.
type Service struct {
	transport    smtp.TransportInterface
	from         mail.Address
	contactEmail string
	now          func() time.Time
	log          *slog.Logger
}

// New creates a Service. The From address is cfg.SMTPFrom, falling back to
// the transport user.
func New(transport smtp.TransportInterface, cfg config.SMTP, contactEmail string, log *slog.Logger) *Service {
	address := cfg.SMTPFrom
	if address == "" {
		address = transport.GetSMTPUser()
	}
	return &Service{
		transport:    transport,
		from:         mail.Address{Name: cfg.SMTPFromName, Address: address},
		contactEmail: contactEmail,
		now:          time.Now,
		log:          log,
	}
}

// SendCalendar delivers one calendar email and returns its Message-ID.
func (s *Service) SendCalendar(ctx context.Context, email CalendarEmail) (string, error) {
	const op = "services.sender.SendCalendar"
	log := s.log.With(slog.String("op", op), slog.String("to", email.To))

	msg, err := Compose(s.from, email, s.contactEmail, s.now())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := s.sendEmail(ctx, []string{email.To}, msg.Raw); err != nil {
		log.Error("failed to send calendar email", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	log.Info("calendar email sent", slog.String("message_id", msg.ID))
	return msg.ID, nil
}

func (s *Service) sendEmail(ctx context.Context, to []string, raw []byte) error {
	client, err := s.transport.Connect(ctx)
	if err != nil {
		s.log.Error("Failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.from.Address); err != nil {
		s.log.Error("Failed to set MAIL FROM", slog.String("from", s.from.Address), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("Failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("Failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write(raw); err != nil {
		s.log.Error("Failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("Failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("Failed to quit SMTP client", sl.Err(err))
		return err
	}
	return nil
}
