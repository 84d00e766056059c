package loader

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/documentloaders"
)

// parsePDF loads a PDF page by page, one block per page.
func parsePDF(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	docs, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return nil, err
	}

	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, doc.PageContent)
	}
	return blocks, nil
}
