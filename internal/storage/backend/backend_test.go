package backend

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coleta-calendar/internal/config"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage/jsonfile"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage/repository"
)

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		cfg     config.Storage
		check   func(t *testing.T, s any)
		wantErr bool
	}{
		{
			name: "json",
			cfg:  config.Storage{Driver: config.DriverJSON, DataDir: filepath.Join(dir, "data")},
			check: func(t *testing.T, s any) {
				assert.IsType(t, &jsonfile.Storage{}, s)
			},
		},
		{
			name: "sqlite",
			cfg:  config.Storage{Driver: config.DriverSQLite, SQLitePath: filepath.Join(dir, "coletas.db")},
			check: func(t *testing.T, s any) {
				require.IsType(t, &repository.Storage{}, s)
				assert.Equal(t, repository.SQLite, s.(*repository.Storage).Dialect())
			},
		},
		{
			name:    "unknown",
			cfg:     config.Storage{Driver: "mongo"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(context.Background(), tt.cfg, newNoopLogger())
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()

			tt.check(t, s)
			coletas, err := s.ListColetas(context.Background())
			require.NoError(t, err)
			assert.Len(t, coletas, 7)
		})
	}
}
