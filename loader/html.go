package loader

import (
	"context"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseHTML extracts visible text from a page, one block per block-level
// text element. Scripts and styles are dropped.
func parseHTML(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, err
	}

	doc.Find("script, style, noscript").Remove()

	var blocks []string
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, pre, blockquote").Each(func(_ int, sel *goquery.Selection) {
		// Leaf text only; nested block elements report themselves
		if sel.Children().Filter("p, li, td").Length() > 0 {
			return
		}
		if text := strings.TrimSpace(sel.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})

	if len(blocks) == 0 {
		if text := strings.TrimSpace(doc.Text()); text != "" {
			blocks = append(blocks, text)
		}
	}
	return blocks, nil
}
