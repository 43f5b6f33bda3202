package coleta

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListColetas(ctx context.Context) ([]models.Coleta, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Coleta), args.Error(1)
}

func (m *RepoMock) GetColeta(ctx context.Context, dia string) (*models.Coleta, error) {
	args := m.Called(ctx, dia)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coleta), args.Error(1)
}

func (m *RepoMock) UpdateColeta(ctx context.Context, dia, tipo string, observacao *string) (*models.Coleta, error) {
	args := m.Called(ctx, dia, tipo, observacao)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coleta), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

var week = []models.Coleta{
	{ID: 1, DiaSemana: "segunda-feira", TipoColeta: "orgânicos"},
	{ID: 2, DiaSemana: "terça-feira", TipoColeta: "metal/plástico"},
}

func TestService_ListWeek(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock, cache *CacheMock)
		want       []models.Coleta
		wantErr    bool
	}{
		{
			name: "cache miss reads store and fills cache",
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				cache.On("Get", mock.Anything, WeekCacheKey, mock.Anything).Return(false, nil).Once()
				repo.On("ListColetas", mock.Anything).Return(week, nil).Once()
				cache.On("Set", mock.Anything, WeekCacheKey, week, time.Hour).Return(nil).Once()
			},
			want: week,
		},
		{
			name: "cache hit skips store",
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				cache.On("Get", mock.Anything, WeekCacheKey, mock.Anything).
					Run(func(args mock.Arguments) {
						out := args.Get(2).(*[]models.Coleta)
						*out = week
					}).
					Return(true, nil).Once()
			},
			want: week,
		},
		{
			name: "cache failure falls back to store",
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				cache.On("Get", mock.Anything, WeekCacheKey, mock.Anything).Return(false, errors.New("redis down")).Once()
				repo.On("ListColetas", mock.Anything).Return(week, nil).Once()
				cache.On("Set", mock.Anything, WeekCacheKey, week, time.Hour).Return(errors.New("redis down")).Once()
			},
			want: week,
		},
		{
			name: "store failure",
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				cache.On("Get", mock.Anything, WeekCacheKey, mock.Anything).Return(false, nil).Once()
				repo.On("ListColetas", mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := New(repo, cache, time.Hour, NewNoopLogger())
			got, err := svc.ListWeek(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_GetDay(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	repo.On("GetColeta", mock.Anything, "SEGUNDA-FEIRA").Return(&week[0], nil).Once()
	repo.On("GetColeta", mock.Anything, "feriado").Return(nil, storage.ErrNotFound).Once()

	svc := New(repo, cache, time.Hour, NewNoopLogger())

	got, err := svc.GetDay(context.Background(), "SEGUNDA-FEIRA")
	require.NoError(t, err)
	assert.Equal(t, "segunda-feira", got.DiaSemana)

	_, err = svc.GetDay(context.Background(), "feriado")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	repo.AssertExpectations(t)
}

func TestService_UpdateDay(t *testing.T) {
	note := "Feriado"
	updated := &models.Coleta{ID: 1, DiaSemana: "segunda-feira", TipoColeta: "vidro", Observacao: &note}

	tests := []struct {
		name       string
		setupMocks func(repo *RepoMock, cache *CacheMock)
		wantErr    error
	}{
		{
			name: "success invalidates cache",
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				repo.On("UpdateColeta", mock.Anything, "segunda-feira", "vidro", &note).Return(updated, nil).Once()
				cache.On("Invalidate", mock.Anything, WeekCacheKey).Return(nil).Once()
			},
		},
		{
			name: "invalidate failure is not fatal",
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				repo.On("UpdateColeta", mock.Anything, "segunda-feira", "vidro", &note).Return(updated, nil).Once()
				cache.On("Invalidate", mock.Anything, WeekCacheKey).Return(errors.New("redis down")).Once()
			},
		},
		{
			name: "validation error leaves cache alone",
			setupMocks: func(repo *RepoMock, cache *CacheMock) {
				repo.On("UpdateColeta", mock.Anything, "segunda-feira", "vidro", &note).Return(nil, storage.ErrValidation).Once()
			},
			wantErr: storage.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo, cache)

			svc := New(repo, cache, time.Hour, NewNoopLogger())
			got, err := svc.UpdateDay(context.Background(), "segunda-feira",
				models.DummyColeta{TipoColeta: "vidro", Observacao: &note})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, updated, got)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}
