package jsonfile

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

// GetTemplate returns the stored email template.
func (s *Storage) GetTemplate(ctx context.Context) (*models.EmailTemplate, error) {
	const op = "storage.jsonfile.GetTemplate"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc templateDoc
	if err := s.load(TemplateFile, &doc, s.defaultTemplate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &doc.Template, nil
}

// SaveTemplate replaces the stored email template.
func (s *Storage) SaveTemplate(ctx context.Context, tpl models.EmailTemplate) error {
	const op = "storage.jsonfile.SaveTemplate"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := storage.ValidateTemplate(tpl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tpl.Features == nil {
		tpl.Features = []string{}
	}
	doc := templateDoc{
		Template: tpl,
		Metadata: metadata{LastUpdated: s.now().UTC(), Version: version},
	}
	if err := s.write(TemplateFile, &doc); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
