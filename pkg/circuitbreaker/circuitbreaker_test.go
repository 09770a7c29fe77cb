package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func fail(context.Context) error    { return errBoom }
func succeed(context.Context) error { return nil }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	var transitions []string
	cb := New("test",
		WithFailureThreshold(2),
		WithCooldown(10*time.Second),
		WithClock(clock.now),
		WithOnStateChange(func(_ string, from, to State) {
			transitions = append(transitions, from.String()+"->"+to.String())
		}),
	)

	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errBoom)
	assert.Equal(t, StateClosed, cb.State())
	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	calls := 0
	err := cb.Execute(context.Background(), func(context.Context) error { calls++; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.True(t, IsRejected(err))
	assert.Zero(t, calls)
	assert.Equal(t, 1, cb.Counts().Rejected)
	assert.Equal(t, []string{"closed->open"}, transitions)
}

func TestBreaker_SuccessResetsFailureStreak(t *testing.T) {
	cb := New("test", WithFailureThreshold(2))

	_ = cb.Execute(context.Background(), fail)
	require.NoError(t, cb.Execute(context.Background(), succeed))
	_ = cb.Execute(context.Background(), fail)

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 2, cb.Counts().TotalFailures)
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New("test",
		WithFailureThreshold(1),
		WithSuccessThreshold(2),
		WithCooldown(time.Minute),
		WithClock(clock.now),
	)
	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	clock.advance(time.Minute)
	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New("test", WithFailureThreshold(1), WithCooldown(time.Minute), WithClock(clock.now))
	_ = cb.Execute(context.Background(), fail)

	clock.advance(time.Minute)
	assert.ErrorIs(t, cb.Execute(context.Background(), fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	clock.advance(30 * time.Second)
	assert.ErrorIs(t, cb.Execute(context.Background(), succeed), ErrCircuitOpen, "cool-down restarts")
}

func TestBreaker_CancellationIsNotAFailure(t *testing.T) {
	cb := New("test", WithFailureThreshold(1))

	err := cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreaker_CustomIsFailure(t *testing.T) {
	cb := New("test", WithFailureThreshold(1), WithIsFailure(func(err error) bool {
		return !errors.Is(err, errBoom)
	}))

	_ = cb.Execute(context.Background(), fail)
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreaker_Reset(t *testing.T) {
	cb := CacheBreaker(nil)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(context.Background(), fail)
	}
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, Counts{}, cb.Counts())
	assert.Equal(t, "listing-cache", cb.Name())
}
