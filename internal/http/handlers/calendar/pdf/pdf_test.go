package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coleta-calendar/internal/services/notifier"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/sender"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) RenderCalendar(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func serve(svc *MockService) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	New(newNoopLogger(), svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendario.pdf", nil))
	return w
}

func TestPDFHandler(t *testing.T) {
	svc := new(MockService)
	svc.On("RenderCalendar", mock.Anything).Return([]byte("%PDF-1.4 fake"), nil).Once()

	w := serve(svc)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "13", w.Header().Get("Content-Length"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), sender.AttachmentPrefix)
	assert.Equal(t, "%PDF-1.4 fake", w.Body.String())
	svc.AssertExpectations(t)
}

func TestPDFHandler_NoData(t *testing.T) {
	svc := new(MockService)
	svc.On("RenderCalendar", mock.Anything).Return(nil, fmt.Errorf("op: %w", notifier.ErrNoData)).Once()

	w := serve(svc)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Nenhuma coleta encontrada"`)
}

func TestPDFHandler_RenderError(t *testing.T) {
	svc := new(MockService)
	svc.On("RenderCalendar", mock.Anything).Return(nil, errors.New("chrome missing")).Once()

	w := serve(svc)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Erro ao gerar PDF"`)
	assert.NotContains(t, w.Body.String(), "chrome missing")
}
