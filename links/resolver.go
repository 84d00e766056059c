package links

import (
	"context"
	"errors"
	"log/slog"

	"github.com/costiera/concierge/storage"
)

// Resolver substitutes real URLs back in place of placeholder tokens.
type Resolver struct {
	linkRepository storage.LinkRepository
	logger         *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver) error

// WithResolverLogger sets a custom logger.
// Default is slog.Default().
func WithResolverLogger(logger *slog.Logger) ResolverOption {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewResolver creates a new link resolver.
func NewResolver(linkRepository storage.LinkRepository, opts ...ResolverOption) (*Resolver, error) {
	if linkRepository == nil {
		return nil, ErrLinkRepositoryRequired
	}

	r := &Resolver{
		linkRepository: linkRepository,
		logger:         slog.Default().With("component", "link_resolver"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Resolve replaces every placeholder token in text with its stored URL.
// A token whose id has no Link row is left untouched; generated answers can
// carry stale ids from an earlier ingestion and the flow must not break.
func (r *Resolver) Resolve(ctx context.Context, text string) string {
	return placeholderPattern.ReplaceAllStringFunc(text, func(token string) string {
		id, ok := ParsePlaceholder(token)
		if !ok {
			return token
		}

		link, err := r.linkRepository.GetLink(ctx, id)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				r.logger.Warn("link lookup failed", "id", id, "error", err)
			}
			return token
		}
		return link.URL
	})
}
