// Package backend opens the storage implementation selected in the config.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/coleta-calendar/internal/config"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage/jsonfile"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage/repository"
)

// Open returns the backend named by cfg.Driver, migrated and seeded.
func Open(ctx context.Context, cfg config.Storage, log *slog.Logger) (storage.Storage, error) {
	const op = "storage.backend.Open"

	var (
		s   storage.Storage
		err error
	)
	switch cfg.Driver {
	case config.DriverJSON:
		s, err = jsonfile.New(ctx, cfg.DataDir)
	case config.DriverSQLite:
		s, err = repository.New(ctx, repository.SQLite, cfg.SQLitePath)
	case config.DriverPostgres:
		s, err = repository.New(ctx, repository.Postgres, cfg.StorageConnectionString)
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("storage opened", slog.String("driver", cfg.Driver))
	return s, nil
}
