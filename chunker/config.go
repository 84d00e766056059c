package chunker

import (
	"errors"
	"fmt"
)

// Default chunking parameters.
const (
	DefaultSize    = 1000
	DefaultOverlap = 0
)

// DefaultSeparators are tried in priority order; the empty string means a
// hard character cutoff.
var DefaultSeparators = []string{"\n\n", ". ", ""}

// Config holds chunker configuration.
type Config struct {
	// Size is the target chunk size in characters.
	Size int

	// Overlap is the number of trailing characters repeated at the start of
	// the next chunk.
	Overlap int

	// Separators are preferred split points in priority order. A lower
	// priority separator is used only when no higher priority one exists
	// within the remaining size budget. An empty string entry cuts at the
	// size limit.
	Separators []string
}

// Option is a function that configures a Config.
type Option func(*Config)

// WithSize sets the target chunk size in characters.
func WithSize(size int) Option {
	return func(c *Config) {
		c.Size = size
	}
}

// WithOverlap sets the overlap size in characters.
func WithOverlap(overlap int) Option {
	return func(c *Config) {
		c.Overlap = overlap
	}
}

// WithSeparators sets the ordered separator list.
func WithSeparators(separators []string) Option {
	return func(c *Config) {
		c.Separators = separators
	}
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Size:       DefaultSize,
		Overlap:    DefaultOverlap,
		Separators: DefaultSeparators,
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
	if c.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.Size)
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		return fmt.Errorf("overlap must be in [0, size), got %d", c.Overlap)
	}
	if len(c.Separators) == 0 {
		return errors.New("at least one separator is required")
	}
	return nil
}
