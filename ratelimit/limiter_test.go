package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClock is a manually stepped time source.
type testClock struct {
	current time.Time
}

func (c *testClock) Now() time.Time {
	return c.current
}

func (c *testClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func setupLimiter(t *testing.T, opts ...Option) (*Limiter, *testClock) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	clock := &testClock{current: time.Unix(1_700_000_000, 0)}
	limiter, err := NewLimiter(client,
		WithConfig(NewConfig(opts...)),
		WithClock(clock.Now),
	)
	require.NoError(t, err)
	return limiter, clock
}

func TestNewLimiterValidation(t *testing.T) {
	t.Run("nil client", func(t *testing.T) {
		_, err := NewLimiter(nil)
		assert.Equal(t, ErrRedisClientRequired, err)
	})

	t.Run("invalid config", func(t *testing.T) {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()

		_, err := NewLimiter(client, WithConfig(&Config{}))
		assert.Error(t, err)
	})
}

func TestVisitorGate(t *testing.T) {
	limiter, clock := setupLimiter(t, WithVisitorLimit(3), WithVisitorWindow(time.Hour))
	ctx := context.Background()

	// First three messages pass
	for i := 0; i < 3; i++ {
		rejection, err := limiter.CheckVisitor(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.Nil(t, rejection)
		clock.Advance(time.Minute)
	}

	// The fourth inside the window is rejected with a retry hint
	rejection, err := limiter.CheckVisitor(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, ReasonPerVisitorLimit, rejection.Reason)
	// Oldest message is 3 minutes old, so it ages out in 57 minutes
	assert.InDelta(t, (57 * time.Minute).Seconds(), rejection.RetryAfterSeconds, 1.0)

	// A different visitor is unaffected
	rejection, err = limiter.CheckVisitor(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.Nil(t, rejection)

	// After the window elapses the visitor is admitted again
	clock.Advance(time.Hour)
	rejection, err = limiter.CheckVisitor(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, rejection)
}

func TestVisitorRejectionDoesNotCount(t *testing.T) {
	limiter, clock := setupLimiter(t, WithVisitorLimit(1), WithVisitorWindow(time.Hour))
	ctx := context.Background()

	rejection, err := limiter.CheckVisitor(ctx, "10.0.0.1")
	require.NoError(t, err)
	require.Nil(t, rejection)

	// Many rejected attempts must not extend the lockout
	for i := 0; i < 5; i++ {
		clock.Advance(time.Minute)
		rejection, err = limiter.CheckVisitor(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.NotNil(t, rejection)
	}

	clock.Advance(56 * time.Minute)
	rejection, err = limiter.CheckVisitor(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, rejection)
}

func TestGlobalGate(t *testing.T) {
	limiter, clock := setupLimiter(t,
		WithGlobalTokenLimit(1000),
		WithGlobalWindow(60*time.Second),
		WithMaxDelay(60*time.Second),
	)
	ctx := context.Background()

	// Under budget: check passes
	rejection, err := limiter.CheckGlobal(ctx)
	require.NoError(t, err)
	assert.Nil(t, rejection)

	// Deposit up to exactly the ceiling: still passes
	require.NoError(t, limiter.Deposit(ctx, 600))
	require.NoError(t, limiter.Deposit(ctx, 400))
	rejection, err = limiter.CheckGlobal(ctx)
	require.NoError(t, err)
	assert.Nil(t, rejection)

	// One more token tips the ledger over; the check now rejects with a
	// bounded backoff delay
	require.NoError(t, limiter.Deposit(ctx, 50))
	rejection, err = limiter.CheckGlobal(ctx)
	require.NoError(t, err)
	require.NotNil(t, rejection)
	assert.Equal(t, ReasonGlobalLimit, rejection.Reason)
	assert.LessOrEqual(t, rejection.RetryAfterSeconds, 60.0)

	// Once the deposits age out of the window, checks pass again
	clock.Advance(61 * time.Second)
	rejection, err = limiter.CheckGlobal(ctx)
	require.NoError(t, err)
	assert.Nil(t, rejection)
}

func TestGlobalLedgerSlidingWindow(t *testing.T) {
	limiter, clock := setupLimiter(t,
		WithGlobalTokenLimit(1000),
		WithGlobalWindow(60*time.Second),
	)
	ctx := context.Background()

	require.NoError(t, limiter.Deposit(ctx, 800))
	clock.Advance(40 * time.Second)
	require.NoError(t, limiter.Deposit(ctx, 800))

	// Both deposits in the window: over budget
	rejection, err := limiter.CheckGlobal(ctx)
	require.NoError(t, err)
	require.NotNil(t, rejection)

	// The first deposit slides out, only 800 remain
	clock.Advance(30 * time.Second)
	rejection, err = limiter.CheckGlobal(ctx)
	require.NoError(t, err)
	assert.Nil(t, rejection)
}

func TestDepositZeroTokensIsNoop(t *testing.T) {
	limiter, _ := setupLimiter(t, WithGlobalTokenLimit(10))
	ctx := context.Background()

	require.NoError(t, limiter.Deposit(ctx, 0))
	rejection, err := limiter.CheckGlobal(ctx)
	require.NoError(t, err)
	assert.Nil(t, rejection)
}
