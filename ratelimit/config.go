package ratelimit

import (
	"fmt"
	"time"
)

// Default quota parameters.
const (
	DefaultGlobalTokenLimit = 90000
	DefaultGlobalWindow     = 60 * time.Second
	DefaultMaxDelay         = 60 * time.Second
	DefaultVisitorLimit     = 5
	DefaultVisitorWindow    = time.Hour
)

// Config holds rate limiter configuration.
type Config struct {
	// GlobalTokenLimit is the token budget shared by all conversations over
	// GlobalWindow.
	GlobalTokenLimit int

	// GlobalWindow is the sliding window of the global token ledger.
	GlobalWindow time.Duration

	// MaxDelay caps the computed backoff delay.
	MaxDelay time.Duration

	// VisitorLimit is the number of messages a single visitor may send
	// within VisitorWindow.
	VisitorLimit int

	// VisitorWindow is the rolling window of the per-visitor gate.
	VisitorWindow time.Duration
}

// Option is a function that configures a Config.
type Option func(*Config)

// WithGlobalTokenLimit sets the shared token budget.
func WithGlobalTokenLimit(limit int) Option {
	return func(c *Config) {
		c.GlobalTokenLimit = limit
	}
}

// WithGlobalWindow sets the global ledger window.
func WithGlobalWindow(window time.Duration) Option {
	return func(c *Config) {
		c.GlobalWindow = window
	}
}

// WithMaxDelay sets the backoff delay cap.
func WithMaxDelay(max time.Duration) Option {
	return func(c *Config) {
		c.MaxDelay = max
	}
}

// WithVisitorLimit sets the per-visitor message quota.
func WithVisitorLimit(limit int) Option {
	return func(c *Config) {
		c.VisitorLimit = limit
	}
}

// WithVisitorWindow sets the per-visitor rolling window.
func WithVisitorWindow(window time.Duration) Option {
	return func(c *Config) {
		c.VisitorWindow = window
	}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		GlobalTokenLimit: DefaultGlobalTokenLimit,
		GlobalWindow:     DefaultGlobalWindow,
		MaxDelay:         DefaultMaxDelay,
		VisitorLimit:     DefaultVisitorLimit,
		VisitorWindow:    DefaultVisitorWindow,
	}
}

// NewConfig creates a Config with the given options applied to defaults.
func NewConfig(opts ...Option) *Config {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.GlobalTokenLimit <= 0 {
		return fmt.Errorf("global token limit must be positive, got %d", c.GlobalTokenLimit)
	}
	if c.GlobalWindow <= 0 {
		return fmt.Errorf("global window must be positive, got %s", c.GlobalWindow)
	}
	if c.MaxDelay <= 0 {
		return fmt.Errorf("max delay must be positive, got %s", c.MaxDelay)
	}
	if c.VisitorLimit <= 0 {
		return fmt.Errorf("visitor limit must be positive, got %d", c.VisitorLimit)
	}
	if c.VisitorWindow <= 0 {
		return fmt.Errorf("visitor window must be positive, got %s", c.VisitorWindow)
	}
	return nil
}
