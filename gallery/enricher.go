package gallery

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/links"
	"github.com/costiera/concierge/storage"
)

// Entry is one enrichment result: the entity names that resolved to a link,
// the resolved page URL, and the gallery image URLs found there.
type Entry struct {
	Name   string   `json:"name"`
	Link   string   `json:"link"`
	Images []string `json:"images"`
}

// Enricher finds property images for the entities named in an answer.
type Enricher struct {
	linkRepository storage.LinkRepository
	httpClient     *http.Client
	logger         *slog.Logger
}

// Option configures an Enricher.
type Option func(*Enricher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enricher) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithHTTPClient sets the client used to fetch property pages.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Enricher) error {
		if client == nil {
			client = http.DefaultClient
		}
		e.httpClient = client
		return nil
	}
}

// NewEnricher creates a new gallery enricher.
func NewEnricher(linkRepository storage.LinkRepository, opts ...Option) (*Enricher, error) {
	if linkRepository == nil {
		return nil, ErrLinkRepositoryRequired
	}

	e := &Enricher{
		linkRepository: linkRepository,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		logger:         slog.Default().With("component", "gallery"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// FindImages resolves each entity name to a Link via the pre-split corpus
// and returns image entries. Entities sharing a Link are merged into one
// entry; entities with no corpus match are dropped; a scrape failure leaves
// that entry without images but never aborts the call.
func (e *Enricher) FindImages(ctx context.Context, entityNames []string, preSplit []*core.Chunk) []Entry {
	var entries []Entry
	byLink := make(map[core.ID]int)

	for _, name := range entityNames {
		if strings.TrimSpace(name) == "" {
			continue
		}

		linkID, found := findEntityLink(name, preSplit)
		if !found {
			continue
		}

		if idx, dup := byLink[linkID]; dup {
			entries[idx].Name += ", " + name
			continue
		}

		link, err := e.linkRepository.GetLink(ctx, linkID)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				e.logger.Warn("link lookup failed", "id", linkID, "error", err)
			}
			continue
		}

		images := link.ImgLinks
		if len(images) == 0 {
			images = e.scrapeAndCache(ctx, link)
		}

		byLink[linkID] = len(entries)
		entries = append(entries, Entry{
			Name:   name,
			Link:   link.URL,
			Images: images,
		})
	}

	return entries
}

// scrapeAndCache fetches the gallery for a link and caches the result on the
// Link row. Concurrent callers may both scrape; last write wins, which is
// fine because scraping the same page twice yields equivalent results.
func (e *Enricher) scrapeAndCache(ctx context.Context, link *core.Link) []string {
	images, err := scrapeGallery(ctx, e.httpClient, link.URL)
	if err != nil {
		e.logger.Warn("gallery scrape failed", "url", link.URL, "error", err)
		return nil
	}
	if len(images) == 0 {
		return nil
	}

	link.ImgLinks = images
	if _, err := e.linkRepository.UpdateLinks(ctx, link); err != nil {
		e.logger.Warn("image cache update failed", "id", link.Id, "error", err)
	}
	return images
}

// findEntityLink scans the pre-split corpus for a case-insensitive line
// containing the entity name and looks for a placeholder token on that line
// or the immediately preceding one. Bounded on purpose: no fuzzier search.
func findEntityLink(name string, preSplit []*core.Chunk) (core.ID, bool) {
	needle := strings.ToLower(name)

	for _, chunk := range preSplit {
		lines := strings.Split(chunk.PageContent, "\n")
		for i, line := range lines {
			if !strings.Contains(strings.ToLower(line), needle) {
				continue
			}

			if id, ok := links.FindPlaceholder(line); ok {
				return id, true
			}
			if i > 0 {
				if id, ok := links.FindPlaceholder(lines[i-1]); ok {
					return id, true
				}
			}
		}
	}
	return 0, false
}
