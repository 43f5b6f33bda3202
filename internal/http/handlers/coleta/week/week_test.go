package week

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListWeek(ctx context.Context) ([]models.Coleta, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Coleta), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestWeekHandler(t *testing.T) {
	coletas := []models.Coleta{
		{ID: 1, DiaSemana: "segunda-feira", TipoColeta: "orgânicos"},
		{ID: 2, DiaSemana: "terça-feira", TipoColeta: "metal/plástico"},
	}

	tests := []struct {
		name           string
		details        bool
		setupMock      func(*MockService)
		expectedStatus int
		check          func(*testing.T, []byte)
	}{
		{
			name: "success",
			setupMock: func(m *MockService) {
				m.On("ListWeek", mock.Anything).Return(coletas, nil).Once()
			},
			expectedStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var got struct {
					Success   bool            `json:"success"`
					Data      []models.Coleta `json:"data"`
					Total     int             `json:"total"`
					Timestamp string          `json:"timestamp"`
				}
				require.NoError(t, json.Unmarshal(body, &got))
				assert.True(t, got.Success)
				assert.Equal(t, 2, got.Total)
				assert.Equal(t, "terça-feira", got.Data[1].DiaSemana)
				assert.NotEmpty(t, got.Timestamp)
			},
		},
		{
			name: "store error hides details in production",
			setupMock: func(m *MockService) {
				m.On("ListWeek", mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"success":false,"error":"Erro ao buscar coletas da semana"}`, string(body))
			},
		},
		{
			name:    "store error shows details in development",
			details: true,
			setupMock: func(m *MockService) {
				m.On("ListWeek", mock.Anything).Return(nil, errors.New("db down")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body []byte) {
				assert.Contains(t, string(body), `"details":"db down"`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			h := response.WithDetails(tt.details)(New(newNoopLogger(), svc))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/semana", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.check(t, w.Body.Bytes())
			svc.AssertExpectations(t)
		})
	}
}
