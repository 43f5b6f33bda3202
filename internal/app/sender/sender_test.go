package sender

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/coleta-calendar/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/calendar"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/notifier"
)

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) BroadcastCalendar(ctx context.Context) (*models.BroadcastResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BroadcastResult), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const job = `{"requested_at":"2026-10-12T08:00:00Z","reason":"scheduled"}`

func TestHandleJob(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		setupMock func(*MockBroadcaster)
		wantErr   bool
		discard   bool
	}{
		{
			name: "broadcast succeeds",
			body: job,
			setupMock: func(m *MockBroadcaster) {
				m.On("BroadcastCalendar", mock.Anything).
					Return(&models.BroadcastResult{PDFGenerated: true, EmailsSent: 3}, nil).Once()
			},
		},
		{
			name: "partial failures still ack",
			body: job,
			setupMock: func(m *MockBroadcaster) {
				m.On("BroadcastCalendar", mock.Anything).
					Return(&models.BroadcastResult{PDFGenerated: true, EmailsSent: 1, EmailsFailed: 2}, nil).Once()
			},
		},
		{
			name: "no records acks",
			body: job,
			setupMock: func(m *MockBroadcaster) {
				m.On("BroadcastCalendar", mock.Anything).
					Return(nil, fmt.Errorf("op: %w", notifier.ErrNoData)).Once()
			},
		},
		{
			name: "render failure is rejected",
			body: job,
			setupMock: func(m *MockBroadcaster) {
				m.On("BroadcastCalendar", mock.Anything).
					Return(nil, fmt.Errorf("op: %w: %w", calendar.ErrRender, errors.New("chrome crashed"))).Once()
			},
			wantErr: true,
			discard: true,
		},
		{
			name: "storage failure requeues",
			body: job,
			setupMock: func(m *MockBroadcaster) {
				m.On("BroadcastCalendar", mock.Anything).Return(nil, errors.New("database is locked")).Once()
			},
			wantErr: true,
		},
		{
			name:      "malformed job is dropped",
			body:      `{"requested_at":`,
			setupMock: func(_ *MockBroadcaster) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := new(MockBroadcaster)
			tt.setupMock(b)

			err := HandleJob(b, newNoopLogger())(context.Background(), []byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, tt.discard, errors.Is(err, rabbitmq.ErrDiscard))
			} else {
				assert.NoError(t, err)
			}
			b.AssertExpectations(t)
		})
	}
}
