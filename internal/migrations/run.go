// Package migrations applies the embedded schema to a SQL backend.
package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Dialects with an embedded schema.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var schema embed.FS

// Run brings the schema of db up to date. The migrate instance is not
// closed here because that would also close db.
func Run(db *sql.DB, dialect string) error {
	const op = "migrations.Run"

	var (
		driver database.Driver
		name   string
		err    error
	)
	switch dialect {
	case Postgres:
		name = "pgx_v5"
		driver, err = pgxv5.WithInstance(db, &pgxv5.Config{})
	case SQLite:
		name = "sqlite3"
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return fmt.Errorf("%s: unknown dialect %q", op, dialect)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	source, err := iofs.New(schema, dialect)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m, err := migrate.NewWithInstance("iofs", source, name, driver)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
