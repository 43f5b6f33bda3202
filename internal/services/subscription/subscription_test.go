package subscription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) Subscribe(ctx context.Context, email, token string) (*models.Subscription, bool, error) {
	args := m.Called(ctx, email, token)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*models.Subscription), args.Bool(1), args.Error(2)
}

func (m *RepoMock) UnsubscribeByToken(ctx context.Context, token string) (*models.Subscription, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) SubscriptionStats(ctx context.Context) (models.SubscriptionStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.SubscriptionStats), args.Error(1)
}

func (m *RepoMock) GetTemplate(ctx context.Context) (*models.EmailTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EmailTemplate), args.Error(1)
}

func (m *RepoMock) SaveTemplate(ctx context.Context, tpl models.EmailTemplate) error {
	return m.Called(ctx, tpl).Error(0)
}

func NewNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func fixedToken(tok string) func() (string, error) {
	return func() (string, error) { return tok, nil }
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "  Ana@Example.pt ", want: "Ana@Example.pt"},
		{in: "user@x", want: "user@x"},
		{in: "", wantErr: true},
		{in: "   ", wantErr: true},
		{in: "no-at-sign", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeEmail(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, storage.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Subscribe(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		gen        func() (string, error)
		setupMocks func(repo *RepoMock)
		wantNew    bool
		wantErr    error
		wantAnyErr bool
	}{
		{
			name:  "new subscription",
			email: " ana@example.pt ",
			gen:   fixedToken("tok-1"),
			setupMocks: func(repo *RepoMock) {
				repo.On("Subscribe", mock.Anything, "ana@example.pt", "tok-1").
					Return(&models.Subscription{Email: "ana@example.pt", IsActive: true, UnsubscribeToken: "tok-1"}, true, nil).Once()
			},
			wantNew: true,
		},
		{
			name:  "reactivated",
			email: "ana@example.pt",
			gen:   fixedToken("tok-2"),
			setupMocks: func(repo *RepoMock) {
				repo.On("Subscribe", mock.Anything, "ana@example.pt", "tok-2").
					Return(&models.Subscription{Email: "ana@example.pt", IsActive: true, UnsubscribeToken: "tok-2"}, false, nil).Once()
			},
		},
		{
			name:  "already subscribed",
			email: "ana@example.pt",
			gen:   fixedToken("tok-3"),
			setupMocks: func(repo *RepoMock) {
				repo.On("Subscribe", mock.Anything, "ana@example.pt", "tok-3").
					Return(nil, false, storage.ErrAlreadySubscribed).Once()
			},
			wantErr: storage.ErrAlreadySubscribed,
		},
		{
			name:       "invalid email never reaches store",
			email:      "not-an-email",
			gen:        fixedToken("unused"),
			setupMocks: func(repo *RepoMock) {},
			wantErr:    storage.ErrValidation,
		},
		{
			name:       "token generator failure",
			email:      "ana@example.pt",
			gen:        func() (string, error) { return "", errors.New("entropy exhausted") },
			setupMocks: func(repo *RepoMock) {},
			wantAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)

			svc := New(repo, tt.gen, NewNoopLogger())
			sub, isNew, err := svc.Subscribe(context.Background(), tt.email)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.wantAnyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantNew, isNew)
				assert.True(t, sub.IsActive)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_Unsubscribe(t *testing.T) {
	repo := new(RepoMock)
	repo.On("UnsubscribeByToken", mock.Anything, "tok").
		Return(&models.Subscription{Email: "ana@example.pt"}, nil).Once()
	repo.On("UnsubscribeByToken", mock.Anything, "unknown").
		Return(nil, storage.ErrNotFound).Once()

	svc := New(repo, nil, NewNoopLogger())

	sub, err := svc.Unsubscribe(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.pt", sub.Email)

	_, err = svc.Unsubscribe(context.Background(), "unknown")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = svc.Unsubscribe(context.Background(), "  ")
	assert.ErrorIs(t, err, storage.ErrValidation)

	repo.AssertExpectations(t)
}

func TestService_Stats(t *testing.T) {
	repo := new(RepoMock)
	want := models.SubscriptionStats{ActiveSubscriptions: 2, TotalSubscriptions: 3, InactiveSubscriptions: 1}
	repo.On("SubscriptionStats", mock.Anything).Return(want, nil).Once()

	svc := New(repo, nil, NewNoopLogger())
	got, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestService_Template(t *testing.T) {
	repo := new(RepoMock)
	tpl := storage.DefaultTemplate()
	repo.On("GetTemplate", mock.Anything).Return(&tpl, nil).Once()
	repo.On("SaveTemplate", mock.Anything, tpl).Return(nil).Once()

	svc := New(repo, nil, NewNoopLogger())

	got, err := svc.Template(context.Background())
	require.NoError(t, err)
	assert.Equal(t, tpl, *got)

	require.NoError(t, svc.SaveTemplate(context.Background(), tpl))

	bad := tpl
	bad.Subject = ""
	assert.ErrorIs(t, svc.SaveTemplate(context.Background(), bad), storage.ErrValidation)

	repo.AssertExpectations(t)
}
