package jsonfile

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

// ListColetas returns every record, Monday first.
func (s *Storage) ListColetas(ctx context.Context) ([]models.Coleta, error) {
	const op = "storage.jsonfile.ListColetas"

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc coletasDoc
	if err := s.load(ColetasFile, &doc, s.defaultColetas); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	storage.SortColetas(doc.Coletas)
	return doc.Coletas, nil
}

// GetColeta returns the record of one weekday.
func (s *Storage) GetColeta(ctx context.Context, dia string) (*models.Coleta, error) {
	const op = "storage.jsonfile.GetColeta"

	name, err := storage.CanonicalDay(dia)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	coletas, err := s.ListColetas(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for i := range coletas {
		if coletas[i].DiaSemana == name {
			return &coletas[i], nil
		}
	}
	return nil, fmt.Errorf("%s: weekday %q: %w", op, name, storage.ErrNotFound)
}

// UpdateColeta replaces type and note of one weekday.
func (s *Storage) UpdateColeta(ctx context.Context, dia, tipo string, observacao *string) (*models.Coleta, error) {
	const op = "storage.jsonfile.UpdateColeta"

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tipo, observacao, err := storage.PrepareUpdate(tipo, observacao)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	name, err := storage.CanonicalDay(dia)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var doc coletasDoc
	if err := s.load(ColetasFile, &doc, s.defaultColetas); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	idx := -1
	for i := range doc.Coletas {
		if doc.Coletas[i].DiaSemana == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, fmt.Errorf("%s: weekday %q: %w", op, name, storage.ErrNotFound)
	}

	now := s.now().UTC()
	doc.Coletas[idx].TipoColeta = tipo
	doc.Coletas[idx].Observacao = observacao
	doc.Coletas[idx].UpdatedAt = now
	doc.Metadata.LastUpdated = now

	if err := s.write(ColetasFile, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	updated := doc.Coletas[idx]
	return &updated, nil
}
