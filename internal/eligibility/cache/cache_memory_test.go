package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"impulsa/internal/eligibility/models"
	id "impulsa/pkg/domain"
	"impulsa/pkg/platform/sentinel"
	"impulsa/pkg/requestcontext"
)

func TestInMemoryCache(t *testing.T) {
	evaluatedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	userID := id.NewUserID()
	res := &models.Result{
		TargetID:    "feria",
		UserID:      userID,
		Status:      models.StatusPartial,
		Percentage:  62.5,
		Missing:     []models.MissingRequirement{{RuleID: "ruc", Name: "RUC"}},
		EvaluatedAt: evaluatedAt,
	}

	at := func(d time.Duration) context.Context {
		return requestcontext.WithTime(context.Background(), evaluatedAt.Add(d))
	}

	t.Run("hit within ttl", func(t *testing.T) {
		c := NewInMemory(time.Minute)
		require.NoError(t, c.Set(at(0), res))

		got, err := c.Get(at(30*time.Second), userID, "feria")
		require.NoError(t, err)
		assert.Equal(t, 62.5, got.Percentage)

		got.Missing[0].Name = "mutated"
		again, err := c.Get(at(30*time.Second), userID, "feria")
		require.NoError(t, err)
		assert.Equal(t, "RUC", again.Missing[0].Name)
	})

	t.Run("stale after ttl", func(t *testing.T) {
		c := NewInMemory(time.Minute)
		require.NoError(t, c.Set(at(0), res))
		_, err := c.Get(at(time.Minute), userID, "feria")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("invalidate user and target", func(t *testing.T) {
		c := NewInMemory(time.Minute)
		require.NoError(t, c.Set(at(0), res))
		other := *res
		other.TargetID = "workshop"
		require.NoError(t, c.Set(at(0), &other))

		require.NoError(t, c.InvalidateTarget(at(0), "feria"))
		_, err := c.Get(at(0), userID, "feria")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
		_, err = c.Get(at(0), userID, "workshop")
		require.NoError(t, err)

		require.NoError(t, c.InvalidateUser(at(0), userID))
		_, err = c.Get(at(0), userID, "workshop")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("zero ttl disables caching", func(t *testing.T) {
		c := NewInMemory(0)
		require.NoError(t, c.Set(at(0), res))
		_, err := c.Get(at(0), userID, "feria")
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
