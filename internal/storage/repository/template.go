package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

// GetTemplate returns the stored email template, or the default one when
// the row is missing.
func (s *Storage) GetTemplate(ctx context.Context) (*models.EmailTemplate, error) {
	const op = "storage.repository.GetTemplate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		tpl      models.EmailTemplate
		features string
	)
	err := s.DB.QueryRowContext(ctx, `SELECT subject, greeting, main_message, pdf_description, features,
			closing_message, signature, unsubscribe_message, footer_message
		FROM email_template WHERE id = 1`).Scan(
		&tpl.Subject, &tpl.Greeting, &tpl.MainMessage, &tpl.PDFDescription, &features,
		&tpl.ClosingMessage, &tpl.Signature, &tpl.UnsubscribeMessage, &tpl.FooterMessage)
	if errors.Is(err, sql.ErrNoRows) {
		def := storage.DefaultTemplate()
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal([]byte(features), &tpl.Features); err != nil {
		return nil, fmt.Errorf("%s: decode features: %w", op, err)
	}
	return &tpl, nil
}

// SaveTemplate replaces the stored email template.
func (s *Storage) SaveTemplate(ctx context.Context, tpl models.EmailTemplate) error {
	const op = "storage.repository.SaveTemplate"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if err := storage.ValidateTemplate(tpl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.upsertTemplate(ctx, s.DB, tpl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Storage) upsertTemplate(ctx context.Context, q querier, tpl models.EmailTemplate) error {
	if tpl.Features == nil {
		tpl.Features = []string{}
	}
	features, err := json.Marshal(tpl.Features)
	if err != nil {
		return fmt.Errorf("encode features: %w", err)
	}
	_, err = q.ExecContext(ctx, s.q(`INSERT INTO email_template
			(id, subject, greeting, main_message, pdf_description, features,
			 closing_message, signature, unsubscribe_message, footer_message, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			subject = excluded.subject,
			greeting = excluded.greeting,
			main_message = excluded.main_message,
			pdf_description = excluded.pdf_description,
			features = excluded.features,
			closing_message = excluded.closing_message,
			signature = excluded.signature,
			unsubscribe_message = excluded.unsubscribe_message,
			footer_message = excluded.footer_message,
			updated_at = excluded.updated_at`),
		tpl.Subject, tpl.Greeting, tpl.MainMessage, tpl.PDFDescription, string(features),
		tpl.ClosingMessage, tpl.Signature, tpl.UnsubscribeMessage, tpl.FooterMessage, s.now().UTC())
	return err
}
