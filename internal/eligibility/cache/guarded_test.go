package cache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impulsa/internal/eligibility/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/circuit"
	"impulsa/pkg/platform/sentinel"
)

// flakyBackend fails every call while down and counts the calls it sees.
type flakyBackend struct {
	down  bool
	calls int
	inner *InMemoryCache
}

var errDown = errors.New("connection refused")

func (f *flakyBackend) Get(ctx context.Context, userID id.UserID, targetID id.TargetID) (*models.Result, error) {
	f.calls++
	if f.down {
		return nil, errDown
	}
	return f.inner.Get(ctx, userID, targetID)
}

func (f *flakyBackend) Set(ctx context.Context, res *models.Result) error {
	f.calls++
	if f.down {
		return errDown
	}
	return f.inner.Set(ctx, res)
}

func (f *flakyBackend) InvalidateUser(ctx context.Context, userID id.UserID) error {
	f.calls++
	if f.down {
		return errDown
	}
	return f.inner.InvalidateUser(ctx, userID)
}

func (f *flakyBackend) InvalidateTarget(ctx context.Context, targetID id.TargetID) error {
	f.calls++
	if f.down {
		return errDown
	}
	return f.inner.InvalidateTarget(ctx, targetID)
}

func TestGuardedCache(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	ctx := context.Background()
	userID := id.NewUserID()

	backend := &flakyBackend{inner: NewInMemory(time.Hour)}
	breaker := circuit.New("test", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Minute), circuit.WithClock(clock))
	g := NewGuarded(backend, breaker, slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Run("misses do not count as failures", func(t *testing.T) {
		for range 3 {
			_, err := g.Get(ctx, userID, "feria")
			require.ErrorIs(t, err, sentinel.ErrNotFound)
		}
		assert.Equal(t, circuit.StateClosed, breaker.State())
	})

	t.Run("opens after repeated failures and skips the backend", func(t *testing.T) {
		backend.down = true
		_, err := g.Get(ctx, userID, "feria")
		require.ErrorIs(t, err, errDown)
		require.Error(t, g.Set(ctx, &models.Result{UserID: userID, TargetID: "feria"}))
		require.Equal(t, circuit.StateOpen, breaker.State())

		before := backend.calls
		_, err = g.Get(ctx, userID, "feria")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
		require.NoError(t, g.Set(ctx, &models.Result{UserID: userID, TargetID: "feria"}))
		assert.Equal(t, before, backend.calls)
	})

	t.Run("invalidation still reaches the backend", func(t *testing.T) {
		before := backend.calls
		require.ErrorIs(t, g.InvalidateUser(ctx, userID), errDown)
		assert.Equal(t, before+1, backend.calls)
	})

	t.Run("trial call after cooldown closes the circuit", func(t *testing.T) {
		backend.down = false
		now = now.Add(time.Minute)
		_, err := g.Get(ctx, userID, "feria")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
		assert.Equal(t, circuit.StateClosed, breaker.State())
	})
}
