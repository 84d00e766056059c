package links

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/storage"
)

// Rewriter extracts URLs from document text, persists them as Link rows and
// replaces every occurrence with a placeholder token.
type Rewriter struct {
	linkRepository storage.LinkRepository
	logger         *slog.Logger
}

// RewriterOption configures a Rewriter.
type RewriterOption func(*Rewriter) error

// WithRewriterLogger sets a custom logger.
// Default is slog.Default().
func WithRewriterLogger(logger *slog.Logger) RewriterOption {
	return func(r *Rewriter) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRewriter creates a new link rewriter.
func NewRewriter(linkRepository storage.LinkRepository, opts ...RewriterOption) (*Rewriter, error) {
	if linkRepository == nil {
		return nil, ErrLinkRepositoryRequired
	}

	r := &Rewriter{
		linkRepository: linkRepository,
		logger:         slog.Default().With("component", "link_rewriter"),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// ProcessLinks rewrites every URL in text into a placeholder token, creating
// one Link row per distinct URL owned by doc. All occurrences of the same URL
// map to the same token.
func (r *Rewriter) ProcessLinks(ctx context.Context, text string, doc *core.Document) (string, error) {
	urls := distinctURLs(text)
	if len(urls) == 0 {
		return text, nil
	}

	rows := make([]*core.Link, 0, len(urls))
	for _, url := range urls {
		rows = append(rows, &core.Link{
			DocumentId: doc.Id,
			URL:        url,
		})
	}

	added, err := r.linkRepository.AddLinks(ctx, rows...)
	if err != nil {
		return "", err
	}

	// Replace longer URLs first so a URL that prefixes another never
	// clobbers part of it.
	sort.SliceStable(added, func(i, j int) bool {
		return len(added[i].URL) > len(added[j].URL)
	})
	for _, link := range added {
		text = strings.ReplaceAll(text, link.URL, Placeholder(link.Id))
	}

	r.logger.Debug("rewrote links", "document", doc.Name, "count", len(added))
	return text, nil
}

// distinctURLs returns the distinct URLs in text in first-seen order.
func distinctURLs(text string) []string {
	var urls []string
	seen := make(map[string]struct{})

	for _, match := range urlPattern.FindAllString(text, -1) {
		url := trimURL(match)
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		urls = append(urls, url)
	}
	return urls
}
