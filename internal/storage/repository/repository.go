// Package repository implements storage.Storage on database/sql for
// PostgreSQL (pgx stdlib driver) and SQLite (mattn/go-sqlite3). Queries are
// written once with PostgreSQL placeholders and rebound for SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	// Register the pgx driver for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/coleta-calendar/internal/migrations"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

// Dialect names accepted by New.
const (
	Postgres = migrations.Postgres
	SQLite   = migrations.SQLite
)

var placeholder = regexp.MustCompile(`\$(\d+)`)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Storage wraps a SQL connection pool of either dialect.
type Storage struct {
	DB      *sql.DB
	dialect string
	now     func() time.Time
}

var _ storage.Storage = (*Storage)(nil)

// New opens the database, applies the embedded migrations and seeds the
// default records and template into empty tables.
func New(ctx context.Context, dialect, dsn string) (*Storage, error) {
	const op = "storage.repository.New"

	var driverName string
	switch dialect {
	case Postgres:
		driverName = "pgx"
	case SQLite:
		driverName = "sqlite3"
	default:
		return nil, fmt.Errorf("%s: unknown dialect %q", op, dialect)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if dialect == SQLite {
		// one writer at a time; also keeps :memory: databases on one connection
		db.SetMaxOpenConns(1)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Storage{DB: db, dialect: dialect, now: time.Now}
	if err = s.seed(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// Dialect reports which SQL dialect the storage talks.
func (s *Storage) Dialect() string {
	return s.dialect
}

func (s *Storage) seed(ctx context.Context) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := s.now().UTC()

		var count int
		if err := tx.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM coletas`)).Scan(&count); err != nil {
			return fmt.Errorf("count coletas: %w", err)
		}
		if count == 0 {
			for _, d := range storage.DefaultColetas() {
				_, err := tx.ExecContext(ctx, s.q(`INSERT INTO coletas (dia_semana, tipo_coleta, created_at, updated_at)
					VALUES ($1, $2, $3, $3)`), d.DiaSemana, d.TipoColeta, now)
				if err != nil {
					return fmt.Errorf("seed coleta %s: %w", d.DiaSemana, err)
				}
			}
		}

		if err := tx.QueryRowContext(ctx, s.q(`SELECT COUNT(*) FROM email_template`)).Scan(&count); err != nil {
			return fmt.Errorf("count email_template: %w", err)
		}
		if count == 0 {
			if err := s.upsertTemplate(ctx, tx, storage.DefaultTemplate()); err != nil {
				return fmt.Errorf("seed email_template: %w", err)
			}
		}
		return nil
	})
}

// q rewrites $N placeholders into the form the dialect understands.
func (s *Storage) q(query string) string {
	if s.dialect == SQLite {
		return placeholder.ReplaceAllString(query, "?$1")
	}
	return query
}

// forUpdate returns the row-locking clause for a SELECT inside a transaction.
// SQLite locks the whole database on write so it needs none.
func (s *Storage) forUpdate() string {
	if s.dialect == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// isUniqueViolation reports whether err is a unique constraint failure in
// either dialect.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// Ping checks the connection.
func (s *Storage) Ping(ctx context.Context) error {
	const op = "storage.repository.Ping"
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Storage) Close() error {
	return s.DB.Close()
}
