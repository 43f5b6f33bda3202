package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateDay(ctx context.Context, dia string, req models.DummyColeta) (*models.Coleta, error) {
	args := m.Called(ctx, dia, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Coleta), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func strPtr(s string) *string { return &s }

func TestUpdateHandler(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		requestBody    any
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "success",
			path:        "/api/dia/quarta-feira",
			requestBody: models.DummyColeta{TipoColeta: "vidro", Observacao: strPtr("Só vidro")},
			setupMock: func(m *MockService) {
				m.On("UpdateDay", mock.Anything, "quarta-feira", models.DummyColeta{TipoColeta: "vidro", Observacao: strPtr("Só vidro")}).
					Return(&models.Coleta{ID: 3, DiaSemana: "quarta-feira", TipoColeta: "vidro", Observacao: strPtr("Só vidro")}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"Coleta atualizada com sucesso"`,
		},
		{
			name:           "invalid JSON",
			path:           "/api/dia/quarta-feira",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Pedido inválido"`,
		},
		{
			name:           "missing tipo_coleta",
			path:           "/api/dia/quarta-feira",
			requestBody:    map[string]any{"observacao": "x"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Tipo de coleta é obrigatório"`,
		},
		{
			name:        "blank tipo_coleta rejected by the store",
			path:        "/api/dia/quarta-feira",
			requestBody: models.DummyColeta{TipoColeta: "   "},
			setupMock: func(m *MockService) {
				m.On("UpdateDay", mock.Anything, "quarta-feira", models.DummyColeta{TipoColeta: "   "}).
					Return(nil, fmt.Errorf("op: %w", storage.ErrValidation)).Once()
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"received":{"tipo_coleta":"   ","observacao":null}`,
		},
		{
			name:        "unknown weekday",
			path:        "/api/dia/feriado",
			requestBody: models.DummyColeta{TipoColeta: "vidro"},
			setupMock: func(m *MockService) {
				m.On("UpdateDay", mock.Anything, "feriado", models.DummyColeta{TipoColeta: "vidro"}).
					Return(nil, fmt.Errorf("op: %w", storage.ErrNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"availableDays":["segunda-feira"`,
		},
		{
			name:        "store error",
			path:        "/api/dia/quarta-feira",
			requestBody: models.DummyColeta{TipoColeta: "vidro"},
			setupMock: func(m *MockService) {
				m.On("UpdateDay", mock.Anything, "quarta-feira", models.DummyColeta{TipoColeta: "vidro"}).
					Return(nil, errors.New("disk full")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"Erro ao atualizar coleta"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			var body []byte
			if str, ok := tt.requestBody.(string); ok {
				body = []byte(str)
			} else {
				var err error
				body, err = json.Marshal(tt.requestBody)
				assert.NoError(t, err)
			}

			router := chi.NewRouter()
			router.Put("/api/dia/{nome}", New(newNoopLogger(), svc).ServeHTTP)

			req := httptest.NewRequest(http.MethodPut, tt.path, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
