package calendar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
)

type EngineMock struct{ mock.Mock }

func (m *EngineMock) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	args := m.Called(ctx, html)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

var generatedAt = time.Date(2025, time.March, 5, 9, 30, 0, 0, time.UTC)

func TestStyleFor(t *testing.T) {
	tests := []struct {
		tipo string
		want Style
	}{
		{"orgânicos", Style{"🗑️", "#dcfce7"}},
		{"ORGÂNICOS", Style{"🗑️", "#dcfce7"}},
		{"Metal/Plástico", Style{"♻️", "#fef3c7"}},
		{"papel/cartão", Style{"📄", "#dbeafe"}},
		{"vidro", Style{"🍶", "#d1fae5"}},
		{"resíduos", Style{"🥬", "#fed7aa"}},
		{"sem coleta", Style{"🚫", "#f3f4f6"}},
		{"eletrodomésticos", DefaultStyle},
	}
	for _, tt := range tests {
		t.Run(tt.tipo, func(t *testing.T) {
			assert.Equal(t, tt.want, StyleFor(tt.tipo))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "5 de março de 2025, 09:30", FormatDate(generatedAt))
	assert.Equal(t, "31 de dezembro de 2024, 23:05", FormatDate(time.Date(2024, 12, 31, 23, 5, 0, 0, time.UTC)))
}

func TestRenderHTML(t *testing.T) {
	r := New(nil, time.UTC, newNoopLogger())

	records := []models.Coleta{
		{DiaSemana: "domingo", TipoColeta: "sem coleta"},
		{DiaSemana: "feriado", TipoColeta: "vidro"},
		{DiaSemana: "segunda-feira", TipoColeta: "orgânicos", Observacao: strPtr("Trazer <saco>")},
		{DiaSemana: "quarta-feira", TipoColeta: "cartuchos"},
	}

	html, err := r.RenderHTML(records, generatedAt)
	require.NoError(t, err)

	monday := strings.Index(html, ">segunda-feira<")
	wednesday := strings.Index(html, ">quarta-feira<")
	sunday := strings.Index(html, ">domingo<")
	require.NotEqual(t, -1, monday)
	require.NotEqual(t, -1, wednesday)
	require.NotEqual(t, -1, sunday)
	assert.Less(t, monday, wednesday)
	assert.Less(t, wednesday, sunday)

	assert.NotContains(t, html, ">feriado<")
	assert.Contains(t, html, "background-color: #dcfce7")
	assert.Contains(t, html, "background-color: #f3e8ff")
	assert.Contains(t, html, "📦")
	assert.Contains(t, html, "<strong>Obs:</strong> Trazer &lt;saco&gt;")
	assert.Equal(t, 1, strings.Count(html, "Obs:"))
	assert.Contains(t, html, "Informações Importantes")
	for _, notice := range Notices {
		assert.Contains(t, html, notice)
	}
	assert.Contains(t, html, "Documento gerado em 5 de março de 2025, 09:30")
}

func TestRenderHTML_Empty(t *testing.T) {
	r := New(nil, time.UTC, newNoopLogger())
	html, err := r.RenderHTML(nil, generatedAt)
	require.NoError(t, err)
	assert.NotContains(t, html, `class="day-card"`)
	assert.Contains(t, html, "Informações Importantes")
}

func TestRenderPDF(t *testing.T) {
	records := []models.Coleta{{DiaSemana: "segunda-feira", TipoColeta: "orgânicos"}}

	tests := []struct {
		name    string
		setup   func(e *EngineMock)
		want    []byte
		wantErr bool
	}{
		{
			name: "success",
			setup: func(e *EngineMock) {
				e.On("PrintPDF", mock.Anything, mock.MatchedBy(func(html string) bool {
					return strings.Contains(html, "segunda-feira")
				})).Return([]byte("%PDF-1.4"), nil).Once()
			},
			want: []byte("%PDF-1.4"),
		},
		{
			name: "engine error",
			setup: func(e *EngineMock) {
				e.On("PrintPDF", mock.Anything, mock.Anything).Return(nil, errors.New("chrome crashed")).Once()
			},
			wantErr: true,
		},
		{
			name: "empty output",
			setup: func(e *EngineMock) {
				e.On("PrintPDF", mock.Anything, mock.Anything).Return([]byte{}, nil).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(EngineMock)
			tt.setup(engine)

			r := New(engine, time.UTC, newNoopLogger())
			r.now = func() time.Time { return generatedAt }

			got, err := r.RenderPDF(context.Background(), records)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrRender)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			engine.AssertExpectations(t)
		})
	}
}
