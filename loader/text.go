package loader

import (
	"context"
	"os"

	"github.com/tmc/langchaingo/documentloaders"
)

// parseTXT loads a plain text file as a single block.
func parseTXT(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	docs, err := documentloaders.NewText(f).Load(ctx)
	if err != nil {
		return nil, err
	}

	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, doc.PageContent)
	}
	return blocks, nil
}
