package notifier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/magabrotheeeer/coleta-calendar/internal/metrics"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/calendar"
	"github.com/magabrotheeeer/coleta-calendar/internal/services/sender"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) ListColetas(ctx context.Context) ([]models.Coleta, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Coleta), args.Error(1)
}

func (m *RepoMock) GetTemplate(ctx context.Context) (*models.EmailTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailTemplate), args.Error(1)
}

func (m *RepoMock) ListActiveEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *RepoMock) RefreshToken(ctx context.Context, email, token string) error {
	args := m.Called(ctx, email, token)
	return args.Error(0)
}

type RendererMock struct {
	mock.Mock
}

func (m *RendererMock) RenderPDF(ctx context.Context, records []models.Coleta) ([]byte, error) {
	args := m.Called(ctx, records)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// fakeSender records calls and fails for addresses listed in fail.
type fakeSender struct {
	fail     map[string]bool
	delay    func(to string) time.Duration
	inFlight atomic.Int32
	peak     atomic.Int32

	mu    sync.Mutex
	calls []sender.CalendarEmail
}

func (f *fakeSender) SendCalendar(_ context.Context, email sender.CalendarEmail) (string, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	if f.delay != nil {
		time.Sleep(f.delay(email.To))
	}

	f.mu.Lock()
	f.calls = append(f.calls, email)
	f.mu.Unlock()

	if f.fail[email.To] {
		return "", errors.New("550 mailbox unavailable")
	}
	return "<" + email.To + ">", nil
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func seqTokens() func() (string, error) {
	var n atomic.Int32
	return func() (string, error) {
		return fmt.Sprintf("tok%d", n.Add(1)), nil
	}
}

func records() []models.Coleta {
	return []models.Coleta{{ID: 1, DiaSemana: "segunda-feira", TipoColeta: "orgânicos"}}
}

func template() *models.EmailTemplate {
	tpl := storage.DefaultTemplate()
	return &tpl
}

func newService(repo *RepoMock, renderer *RendererMock, snd Sender, workers int) *Service {
	return New(repo, renderer, snd, Options{
		BaseURL:  "https://coleta.example.pt/",
		Workers:  workers,
		NewToken: seqTokens(),
	}, nil, newNoopLogger())
}

func TestBroadcastCalendar_NoData(t *testing.T) {
	repo := new(RepoMock)
	renderer := new(RendererMock)
	snd := &fakeSender{}
	repo.On("ListColetas", mock.Anything).Return([]models.Coleta{}, nil).Once()

	res, err := newService(repo, renderer, snd, 2).BroadcastCalendar(context.Background())

	require.ErrorIs(t, err, ErrNoData)
	assert.Nil(t, res)
	renderer.AssertNotCalled(t, "RenderPDF", mock.Anything, mock.Anything)
	assert.Empty(t, snd.calls)
	repo.AssertExpectations(t)
}

func TestBroadcastCalendar_AbortBeforeSending(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*RepoMock, *RendererMock)
		wantErr    error
	}{
		{
			name: "store failure",
			setupMocks: func(r *RepoMock, _ *RendererMock) {
				r.On("ListColetas", mock.Anything).Return(nil, errors.New("disk gone")).Once()
			},
		},
		{
			name: "template failure",
			setupMocks: func(r *RepoMock, _ *RendererMock) {
				r.On("ListColetas", mock.Anything).Return(records(), nil).Once()
				r.On("GetTemplate", mock.Anything).Return(nil, errors.New("bad template")).Once()
			},
		},
		{
			name: "render failure",
			setupMocks: func(r *RepoMock, rd *RendererMock) {
				r.On("ListColetas", mock.Anything).Return(records(), nil).Once()
				r.On("GetTemplate", mock.Anything).Return(template(), nil).Once()
				rd.On("RenderPDF", mock.Anything, records()).
					Return(nil, fmt.Errorf("%w: chrome crashed", calendar.ErrRender)).Once()
			},
			wantErr: calendar.ErrRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			renderer := new(RendererMock)
			snd := &fakeSender{}
			tt.setupMocks(repo, renderer)

			res, err := newService(repo, renderer, snd, 2).BroadcastCalendar(context.Background())

			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Nil(t, res)
			assert.Empty(t, snd.calls)
			repo.AssertNotCalled(t, "ListActiveEmails", mock.Anything)
			repo.AssertExpectations(t)
			renderer.AssertExpectations(t)
		})
	}
}

func TestBroadcastCalendar_NoSubscribers(t *testing.T) {
	repo := new(RepoMock)
	renderer := new(RendererMock)
	repo.On("ListColetas", mock.Anything).Return(records(), nil).Once()
	repo.On("GetTemplate", mock.Anything).Return(template(), nil).Once()
	repo.On("ListActiveEmails", mock.Anything).Return([]string{}, nil).Once()
	renderer.On("RenderPDF", mock.Anything, records()).Return([]byte("%PDF"), nil).Once()

	res, err := newService(repo, renderer, &fakeSender{}, 2).BroadcastCalendar(context.Background())

	require.NoError(t, err)
	assert.True(t, res.PDFGenerated)
	assert.Zero(t, res.EmailsSent)
	assert.Zero(t, res.EmailsFailed)
	assert.Empty(t, res.Results)
}

func TestBroadcastCalendar_PartialFailure(t *testing.T) {
	emails := make([]string, 12)
	for i := range emails {
		emails[i] = fmt.Sprintf("user%02d@example.pt", i)
	}
	failing := map[string]bool{"user03@example.pt": true, "user07@example.pt": true}

	repo := new(RepoMock)
	renderer := new(RendererMock)
	repo.On("ListColetas", mock.Anything).Return(records(), nil).Once()
	repo.On("GetTemplate", mock.Anything).Return(template(), nil).Once()
	repo.On("ListActiveEmails", mock.Anything).Return(emails, nil).Once()
	repo.On("RefreshToken", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)
	renderer.On("RenderPDF", mock.Anything, records()).Return([]byte("%PDF"), nil).Once()

	// Later recipients finish first so completion order differs from input order.
	snd := &fakeSender{
		fail: failing,
		delay: func(to string) time.Duration {
			var i int
			_, _ = fmt.Sscanf(to, "user%02d@", &i)
			return time.Duration(12-i) * time.Millisecond
		},
	}

	res, err := newService(repo, renderer, snd, 3).BroadcastCalendar(context.Background())

	require.NoError(t, err)
	assert.True(t, res.PDFGenerated)
	assert.Equal(t, 10, res.EmailsSent)
	assert.Equal(t, 2, res.EmailsFailed)
	require.Len(t, res.Results, len(emails))
	for i, r := range res.Results {
		assert.Equal(t, emails[i], r.Email)
		assert.Equal(t, !failing[emails[i]], r.Success, emails[i])
		if r.Success {
			assert.Equal(t, "<"+emails[i]+">", r.MessageID)
		} else {
			assert.Contains(t, r.Error, "550")
		}
	}
	assert.LessOrEqual(t, snd.peak.Load(), int32(3))
	assert.Len(t, snd.calls, len(emails))

	// One render for the whole batch, tokens refreshed only after success.
	renderer.AssertNumberOfCalls(t, "RenderPDF", 1)
	repo.AssertNumberOfCalls(t, "RefreshToken", 10)
	for e := range failing {
		repo.AssertNotCalled(t, "RefreshToken", mock.Anything, e, mock.Anything)
	}
}

func TestBroadcastCalendar_TokenInEmailMatchesRefresh(t *testing.T) {
	repo := new(RepoMock)
	renderer := new(RendererMock)
	repo.On("ListColetas", mock.Anything).Return(records(), nil).Once()
	repo.On("GetTemplate", mock.Anything).Return(template(), nil).Once()
	repo.On("ListActiveEmails", mock.Anything).Return([]string{"a@example.pt"}, nil).Once()
	repo.On("RefreshToken", mock.Anything, "a@example.pt", "tok1").Return(nil).Once()
	renderer.On("RenderPDF", mock.Anything, records()).Return([]byte("%PDF"), nil).Once()
	snd := &fakeSender{}

	res, err := newService(repo, renderer, snd, 1).BroadcastCalendar(context.Background())

	require.NoError(t, err)
	require.Len(t, snd.calls, 1)
	assert.Equal(t, "https://coleta.example.pt/unsubscribe?token=tok1", snd.calls[0].UnsubscribeURL)
	assert.Equal(t, []byte("%PDF"), snd.calls[0].PDF)
	assert.Equal(t, 1, res.EmailsSent)
	repo.AssertExpectations(t)
}

func TestBroadcastCalendar_RefreshFailureIsWarning(t *testing.T) {
	repo := new(RepoMock)
	renderer := new(RendererMock)
	repo.On("ListColetas", mock.Anything).Return(records(), nil).Once()
	repo.On("GetTemplate", mock.Anything).Return(template(), nil).Once()
	repo.On("ListActiveEmails", mock.Anything).Return([]string{"a@example.pt"}, nil).Once()
	repo.On("RefreshToken", mock.Anything, "a@example.pt", "tok1").Return(errors.New("locked")).Once()
	renderer.On("RenderPDF", mock.Anything, records()).Return([]byte("%PDF"), nil).Once()

	res, err := newService(repo, renderer, &fakeSender{}, 1).BroadcastCalendar(context.Background())

	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.True(t, res.Results[0].Success)
	assert.True(t, strings.HasPrefix(res.Results[0].Warning, "token refresh failed"))
	assert.Equal(t, 1, res.EmailsSent)
	assert.Zero(t, res.EmailsFailed)
}

func TestBroadcastCalendar_TokenGeneratorFailure(t *testing.T) {
	repo := new(RepoMock)
	renderer := new(RendererMock)
	repo.On("ListColetas", mock.Anything).Return(records(), nil).Once()
	repo.On("GetTemplate", mock.Anything).Return(template(), nil).Once()
	repo.On("ListActiveEmails", mock.Anything).Return([]string{"a@example.pt"}, nil).Once()
	renderer.On("RenderPDF", mock.Anything, records()).Return([]byte("%PDF"), nil).Once()
	snd := &fakeSender{}

	svc := New(repo, renderer, snd, Options{
		NewToken: func() (string, error) { return "", errors.New("entropy exhausted") },
	}, nil, newNoopLogger())
	res, err := svc.BroadcastCalendar(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, res.EmailsFailed)
	assert.Empty(t, snd.calls)
}

func TestBroadcastCalendar_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := new(RepoMock)
	renderer := new(RendererMock)
	repo.On("ListColetas", mock.Anything).Return(records(), nil).Once()
	repo.On("GetTemplate", mock.Anything).Return(template(), nil).Once()
	repo.On("ListActiveEmails", mock.Anything).Return([]string{"a@example.pt", "b@example.pt"}, nil).Once()
	renderer.On("RenderPDF", mock.Anything, records()).Return([]byte("%PDF"), nil).Once()
	snd := &fakeSender{}

	res, err := newService(repo, renderer, snd, 1).BroadcastCalendar(ctx)

	require.NoError(t, err)
	assert.Equal(t, 2, res.EmailsFailed)
	assert.Empty(t, snd.calls)
	repo.AssertNotCalled(t, "RefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestBroadcastCalendar_Metrics(t *testing.T) {
	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	repo := new(RepoMock)
	renderer := new(RendererMock)
	repo.On("ListColetas", mock.Anything).Return([]models.Coleta{}, nil).Once()

	svc := New(repo, renderer, &fakeSender{}, Options{}, m, newNoopLogger())
	_, err = svc.BroadcastCalendar(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRenderCalendar(t *testing.T) {
	repo := new(RepoMock)
	renderer := new(RendererMock)
	repo.On("ListColetas", mock.Anything).Return(records(), nil).Once()
	renderer.On("RenderPDF", mock.Anything, records()).Return([]byte("%PDF"), nil).Once()

	pdf, err := newService(repo, renderer, &fakeSender{}, 1).RenderCalendar(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF"), pdf)
}

func TestNew_Defaults(t *testing.T) {
	svc := New(new(RepoMock), new(RendererMock), &fakeSender{}, Options{BaseURL: "http://x/"}, nil, newNoopLogger())
	assert.Equal(t, DefaultWorkers, svc.workers)
	assert.NotNil(t, svc.newToken)
	assert.Equal(t, "http://x/unsubscribe?token=a%2Bb", svc.UnsubscribeURL("a+b"))
}
