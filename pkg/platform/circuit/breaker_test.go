package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestBreaker(c *clock) *Breaker {
	return New("cache", WithFailureThreshold(3), WithCooldown(time.Minute), WithClock(c.now))
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)}
	b := newTestBreaker(c)

	assert.Equal(t, StateChange{}, b.RecordFailure())
	assert.Equal(t, StateChange{}, b.RecordFailure())
	assert.True(t, b.Allow())
	assert.Equal(t, StateChange{Opened: true}, b.RecordFailure())
	assert.Equal(t, StateOpen, b.State())
	assert.False(t, b.Allow())
}

func TestBreakerSuccessResetsCount(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)}
	b := newTestBreaker(c)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenTrial(t *testing.T) {
	c := &clock{t: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)}
	b := newTestBreaker(c)
	for range 3 {
		b.RecordFailure()
	}

	t.Run("cooldown holds the circuit open", func(t *testing.T) {
		c.advance(30 * time.Second)
		assert.False(t, b.Allow())
	})

	t.Run("one trial call after cooldown", func(t *testing.T) {
		c.advance(30 * time.Second)
		require.True(t, b.Allow())
		assert.Equal(t, StateHalfOpen, b.State())
		assert.False(t, b.Allow())
	})

	t.Run("failed trial reopens", func(t *testing.T) {
		b.RecordFailure()
		assert.Equal(t, StateOpen, b.State())
		assert.False(t, b.Allow())
	})

	t.Run("successful trial closes", func(t *testing.T) {
		c.advance(time.Minute)
		require.True(t, b.Allow())
		assert.Equal(t, StateChange{Closed: true}, b.RecordSuccess())
		assert.Equal(t, StateClosed, b.State())
		assert.True(t, b.Allow())
	})
}

func TestBreakerReset(t *testing.T) {
	b := New("cache", WithFailureThreshold(1))
	b.RecordFailure()
	require.Equal(t, StateOpen, b.State())
	b.Reset()
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, "closed", b.State().String())
	assert.Equal(t, "cache", b.Name())
}
