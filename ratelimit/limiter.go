package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	globalLedgerKey  = "tokens"
	visitorKeyPrefix = "visitor:"
)

// Limiter enforces the per-visitor and global generation quotas.
type Limiter struct {
	client *redis.Client
	config *Config
	logger *slog.Logger
	now    func() time.Time
}

// LimiterOption configures a Limiter.
type LimiterOption func(*Limiter) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) LimiterOption {
	return func(l *Limiter) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// WithClock overrides the time source. Tests use this to step through
// windows without sleeping.
func WithClock(now func() time.Time) LimiterOption {
	return func(l *Limiter) error {
		l.now = now
		return nil
	}
}

// WithConfig replaces the default configuration.
func WithConfig(config *Config) LimiterOption {
	return func(l *Limiter) error {
		if err := config.Validate(); err != nil {
			return err
		}
		l.config = config
		return nil
	}
}

// NewLimiter creates a new rate limiter backed by the given Redis client.
func NewLimiter(client *redis.Client, opts ...LimiterOption) (*Limiter, error) {
	if client == nil {
		return nil, ErrRedisClientRequired
	}

	l := &Limiter{
		client: client,
		config: DefaultConfig(),
		logger: slog.Default().With("component", "ratelimit"),
		now:    time.Now,
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// CheckVisitor counts this message against the visitor's rolling window.
// A nil Rejection means the message is admitted and counted.
func (l *Limiter) CheckVisitor(ctx context.Context, visitor string) (*Rejection, error) {
	now := unixSeconds(l.now())
	result, err := visitorScript.Run(ctx, l.client,
		[]string{visitorKeyPrefix + visitor},
		now,
		l.config.VisitorWindow.Seconds(),
		l.config.VisitorLimit,
	).Text()
	if err != nil {
		return nil, fmt.Errorf("visitor gate: %w", err)
	}

	retryAfter, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return nil, fmt.Errorf("visitor gate: bad script reply %q: %w", result, err)
	}
	if retryAfter > 0 {
		l.logger.Info("visitor limit exceeded", "visitor", visitor, "retry_after", retryAfter)
		return &Rejection{Reason: ReasonPerVisitorLimit, RetryAfterSeconds: retryAfter}, nil
	}
	return nil, nil
}

// CheckGlobal checks the shared token ledger without depositing.
// A nil Rejection means the ledger is under budget.
func (l *Limiter) CheckGlobal(ctx context.Context) (*Rejection, error) {
	return l.runGlobal(ctx, false, 0)
}

// Deposit records consumed tokens on the shared ledger. The backoff verdict
// of the deposit run is deliberately ignored: the generation already
// happened, the next CheckGlobal sees the updated ledger.
func (l *Limiter) Deposit(ctx context.Context, tokens int) error {
	_, err := l.runGlobal(ctx, true, tokens)
	return err
}

func (l *Limiter) runGlobal(ctx context.Context, update bool, tokens int) (*Rejection, error) {
	now := unixSeconds(l.now())
	result, err := globalScript.Run(ctx, l.client,
		[]string{globalLedgerKey},
		now,
		strconv.FormatBool(update),
		tokens,
		l.config.GlobalTokenLimit,
		l.config.GlobalWindow.Seconds(),
		l.config.MaxDelay.Seconds(),
	).Text()
	if err != nil {
		return nil, fmt.Errorf("global gate: %w", err)
	}

	delay, err := strconv.ParseFloat(result, 64)
	if err != nil {
		return nil, fmt.Errorf("global gate: bad script reply %q: %w", result, err)
	}
	if delay > 0 {
		l.logger.Info("global token budget exceeded", "retry_after", delay)
		return &Rejection{Reason: ReasonGlobalLimit, RetryAfterSeconds: delay}, nil
	}
	return nil, nil
}

// unixSeconds renders a timestamp as fractional unix seconds for Lua.
func unixSeconds(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixMicro())/1e6, 'f', 6, 64)
}
