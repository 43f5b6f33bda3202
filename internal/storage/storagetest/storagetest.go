// Package storagetest holds the behaviour checks every storage backend must
// pass. Backend packages call Run from their own tests with a factory that
// returns a freshly seeded store.
package storagetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/coleta-calendar/internal/lib/weekday"
	"github.com/magabrotheeeer/coleta-calendar/internal/models"
	"github.com/magabrotheeeer/coleta-calendar/internal/storage"
)

// Factory opens an empty, seeded store. The store is closed by Run.
type Factory func(t *testing.T) storage.Storage

// Run executes the shared suite against the backend produced by open.
func Run(t *testing.T, open Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Storage)
	}{
		{"ListColetasSeeded", testListColetasSeeded},
		{"GetColetaCaseInsensitive", testGetColetaCaseInsensitive},
		{"GetColetaUnknown", testGetColetaUnknown},
		{"UpdateColeta", testUpdateColeta},
		{"UpdateColetaValidation", testUpdateColetaValidation},
		{"UpdateColetaUnknown", testUpdateColetaUnknown},
		{"SubscribeLifecycle", testSubscribeLifecycle},
		{"SubscribeDuplicate", testSubscribeDuplicate},
		{"SubscribeConcurrent", testSubscribeConcurrent},
		{"UnsubscribeUnknownToken", testUnsubscribeUnknownToken},
		{"RefreshToken", testRefreshToken},
		{"Template", testTemplate},
		{"CanceledContext", testCanceledContext},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			require.NoError(t, s.Ping(context.Background()))
			tt.fn(t, s)
		})
	}
}

// EmptiedFactory opens a store over data whose collection records were all
// removed after an earlier open.
type EmptiedFactory func(t *testing.T) storage.Storage

// RunReseed checks that opening a store with no collection records seeds the
// default week again.
func RunReseed(t *testing.T, open EmptiedFactory) {
	s := open(t)
	t.Cleanup(func() { _ = s.Close() })
	testListColetasSeeded(t, s)
}

func testListColetasSeeded(t *testing.T, s storage.Storage) {
	coletas, err := s.ListColetas(context.Background())
	require.NoError(t, err)
	require.Len(t, coletas, 7)

	defaults := storage.DefaultColetas()
	for i, c := range coletas {
		assert.Equal(t, weekday.All()[i], c.DiaSemana)
		assert.Equal(t, defaults[i].TipoColeta, c.TipoColeta)
		assert.Nil(t, c.Observacao)
		assert.NotZero(t, c.ID)
	}
}

func testGetColetaCaseInsensitive(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	for _, input := range []string{"segunda-feira", "SEGUNDA-FEIRA", "Segunda-Feira"} {
		c, err := s.GetColeta(ctx, input)
		require.NoError(t, err, input)
		assert.Equal(t, weekday.Monday, c.DiaSemana)
	}

	c, err := s.GetColeta(ctx, "TERÇA-FEIRA")
	require.NoError(t, err)
	assert.Equal(t, weekday.Tuesday, c.DiaSemana)
	assert.Equal(t, "metal/plástico", c.TipoColeta)

	c, err = s.GetColeta(ctx, "sabado")
	require.NoError(t, err)
	assert.Equal(t, weekday.Saturday, c.DiaSemana)
}

func testGetColetaUnknown(t *testing.T, s storage.Storage) {
	_, err := s.GetColeta(context.Background(), "feriado")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testUpdateColeta(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	before, err := s.GetColeta(ctx, weekday.Wednesday)
	require.NoError(t, err)

	note := "  Coleta antecipada  "
	updated, err := s.UpdateColeta(ctx, "Quarta-Feira", "  vidro ", &note)
	require.NoError(t, err)
	assert.Equal(t, weekday.Wednesday, updated.DiaSemana)
	assert.Equal(t, "vidro", updated.TipoColeta)
	require.NotNil(t, updated.Observacao)
	assert.Equal(t, "Coleta antecipada", *updated.Observacao)
	assert.False(t, updated.UpdatedAt.Before(before.UpdatedAt))

	got, err := s.GetColeta(ctx, weekday.Wednesday)
	require.NoError(t, err)
	assert.Equal(t, "vidro", got.TipoColeta)
	require.NotNil(t, got.Observacao)
	assert.Equal(t, "Coleta antecipada", *got.Observacao)

	blank := "   "
	updated, err = s.UpdateColeta(ctx, weekday.Wednesday, "orgânicos", &blank)
	require.NoError(t, err)
	assert.Nil(t, updated.Observacao)

	coletas, err := s.ListColetas(ctx)
	require.NoError(t, err)
	assert.Len(t, coletas, 7)
}

func testUpdateColetaValidation(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	_, err := s.UpdateColeta(ctx, weekday.Friday, "   ", nil)
	require.ErrorIs(t, err, storage.ErrValidation)

	got, err := s.GetColeta(ctx, weekday.Friday)
	require.NoError(t, err)
	assert.Equal(t, "orgânicos", got.TipoColeta)
}

func testUpdateColetaUnknown(t *testing.T, s storage.Storage) {
	_, err := s.UpdateColeta(context.Background(), "feriado", "vidro", nil)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testSubscribeLifecycle(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	sub, isNew, err := s.Subscribe(ctx, "ana@example.pt", "token-1")
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.True(t, sub.IsActive)
	assert.Equal(t, "ana@example.pt", sub.Email)
	assert.Equal(t, "token-1", sub.UnsubscribeToken)

	emails, err := s.ListActiveEmails(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ana@example.pt"}, emails)

	gone, err := s.UnsubscribeByToken(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.pt", gone.Email)
	assert.False(t, gone.IsActive)

	_, err = s.UnsubscribeByToken(ctx, "token-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	emails, err = s.ListActiveEmails(ctx)
	require.NoError(t, err)
	assert.Empty(t, emails)

	stats, err := s.SubscriptionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStats{TotalSubscriptions: 1, InactiveSubscriptions: 1}, stats)

	sub, isNew, err = s.Subscribe(ctx, "ana@example.pt", "token-2")
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.True(t, sub.IsActive)
	assert.Equal(t, "token-2", sub.UnsubscribeToken)

	stats, err = s.SubscriptionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStats{TotalSubscriptions: 1, ActiveSubscriptions: 1}, stats)
}

func testSubscribeDuplicate(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	_, _, err := s.Subscribe(ctx, "rui@example.pt", "token-a")
	require.NoError(t, err)

	_, _, err = s.Subscribe(ctx, "rui@example.pt", "token-b")
	require.ErrorIs(t, err, storage.ErrAlreadySubscribed)

	// the original token still works
	_, err = s.UnsubscribeByToken(ctx, "token-a")
	require.NoError(t, err)
}

func testSubscribeConcurrent(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	const n = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		dupes   int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, isNew, err := s.Subscribe(ctx, "race@example.pt", fmt.Sprintf("race-%d", i))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && isNew:
				created++
			case err != nil:
				assert.ErrorIs(t, err, storage.ErrAlreadySubscribed)
				dupes++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, dupes)

	stats, err := s.SubscriptionStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSubscriptions)
}

func testUnsubscribeUnknownToken(t *testing.T, s storage.Storage) {
	_, err := s.UnsubscribeByToken(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testRefreshToken(t *testing.T, s storage.Storage) {
	ctx := context.Background()
	_, _, err := s.Subscribe(ctx, "eva@example.pt", "old")
	require.NoError(t, err)

	require.NoError(t, s.RefreshToken(ctx, "eva@example.pt", "new"))

	_, err = s.UnsubscribeByToken(ctx, "old")
	require.ErrorIs(t, err, storage.ErrNotFound)

	sub, err := s.UnsubscribeByToken(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "eva@example.pt", sub.Email)

	// inactive and unknown emails are ignored
	require.NoError(t, s.RefreshToken(ctx, "eva@example.pt", "newer"))
	require.NoError(t, s.RefreshToken(ctx, "nobody@example.pt", "x"))

	_, err = s.UnsubscribeByToken(ctx, "newer")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func testTemplate(t *testing.T, s storage.Storage) {
	ctx := context.Background()

	tpl, err := s.GetTemplate(ctx)
	require.NoError(t, err)
	assert.Equal(t, storage.DefaultTemplate(), *tpl)

	custom := storage.DefaultTemplate()
	custom.Subject = "Novo calendário"
	custom.Features = []string{"Um", "Dois"}
	require.NoError(t, s.SaveTemplate(ctx, custom))

	tpl, err = s.GetTemplate(ctx)
	require.NoError(t, err)
	assert.Equal(t, custom, *tpl)

	custom.Subject = ""
	assert.ErrorIs(t, s.SaveTemplate(ctx, custom), storage.ErrValidation)
}

func testCanceledContext(t *testing.T, s storage.Storage) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ListColetas(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	_, _, err = s.Subscribe(ctx, "x@example.pt", "t")
	assert.ErrorIs(t, err, context.Canceled)
}
