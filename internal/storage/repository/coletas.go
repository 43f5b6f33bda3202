package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

const coletaColumns = `id, dia_semana, tipo_coleta, observacao, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanColeta(row rowScanner) (*models.Coleta, error) {
	var (
		c   models.Coleta
		obs sql.NullString
	)
	if err := row.Scan(&c.ID, &c.DiaSemana, &c.TipoColeta, &obs, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if obs.Valid {
		c.Observacao = &obs.String
	}
	return &c, nil
}

// ListColetas returns every record, Monday first.
func (s *Storage) ListColetas(ctx context.Context) ([]models.Coleta, error) {
	const op = "storage.repository.ListColetas"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+coletaColumns+` FROM coletas`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var result []models.Coleta
	for rows.Next() {
		c, err := scanColeta(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	storage.SortColetas(result)
	return result, nil
}

// GetColeta returns the record of one weekday.
func (s *Storage) GetColeta(ctx context.Context, dia string) (*models.Coleta, error) {
	const op = "storage.repository.GetColeta"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	name, err := storage.CanonicalDay(dia)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := s.coletaByName(ctx, s.DB, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// UpdateColeta replaces type and note of one weekday.
func (s *Storage) UpdateColeta(ctx context.Context, dia, tipo string, observacao *string) (*models.Coleta, error) {
	const op = "storage.repository.UpdateColeta"
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

	var updated *models.Coleta
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, s.q(`UPDATE coletas
			SET tipo_coleta = $1, observacao = $2, updated_at = $3
			WHERE dia_semana = $4`), tipo, observacao, s.now().UTC(), name)
		if err != nil {
			return err
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rowsAffected == 0 {
			return fmt.Errorf("weekday %q: %w", name, storage.ErrNotFound)
		}
		updated, err = s.coletaByName(ctx, tx, name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return updated, nil
}

func (s *Storage) coletaByName(ctx context.Context, q querier, name string) (*models.Coleta, error) {
	row := q.QueryRowContext(ctx, s.q(`SELECT `+coletaColumns+` FROM coletas WHERE dia_semana = $1`), name)
	c, err := scanColeta(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("weekday %q: %w", name, storage.ErrNotFound)
	}
	return c, err
}
