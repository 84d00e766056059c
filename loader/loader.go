package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/costiera/concierge/core"
)

// parseFunc parses one document into pre-split text blocks.
type parseFunc func(ctx context.Context, path string) ([]string, error)

// Loader dispatches documents to type-specific parsers.
type Loader struct {
	parsers map[core.DocType]parseFunc
	logger  *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) error {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
		return nil
	}
}

// NewLoader creates a new document loader.
func NewLoader(opts ...Option) (*Loader, error) {
	l := &Loader{
		logger: slog.Default().With("component", "loader"),
	}
	l.parsers = map[core.DocType]parseFunc{
		core.DocTypeCSV:  parseCSV,
		core.DocTypePDF:  parsePDF,
		core.DocTypeXLSX: parseXLSX,
		core.DocTypeHTML: parseHTML,
		core.DocTypeTXT:  parseTXT,
		core.DocTypeDOCX: parseDOCX,
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Load parses a document into pre-split chunks. The returned chunks carry
// the document id and a source metadata entry; positions are assigned later
// when the whole corpus is assembled.
func (l *Loader) Load(ctx context.Context, doc *core.Document) ([]*core.Chunk, error) {
	parse, ok := l.parsers[doc.Type]
	if !ok {
		return nil, fmt.Errorf("%w: no parser for type %q", core.ErrLoadFailed, doc.Type)
	}

	if _, err := os.Stat(doc.Path); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrLoadFailed, err)
	}

	blocks, err := parse(ctx, doc.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrLoadFailed, doc.Name, err)
	}

	chunks := make([]*core.Chunk, 0, len(blocks))
	for _, block := range blocks {
		if block == "" {
			continue
		}
		chunks = append(chunks, &core.Chunk{
			DocumentId:  doc.Id,
			PageContent: block,
			Metadata:    map[string]string{"source": doc.Name},
		})
	}

	l.logger.Debug("loaded document", "name", doc.Name, "type", doc.Type, "blocks", len(chunks))
	return chunks, nil
}
