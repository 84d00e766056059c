package gallery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/costiera/concierge/core"
)

// gallerySelector matches images inside elements tagged as a photo gallery.
const gallerySelector = `[id*="gallery"] img, [class*="gallery"] img`

// scrapeGallery fetches a property page and extracts its gallery image URLs,
// resolved against the page URL.
func scrapeGallery(ctx context.Context, client *http.Client, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrScrapeFailed, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrScrapeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", core.ErrScrapeFailed, pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrScrapeFailed, err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrScrapeFailed, err)
	}

	var images []string
	seen := make(map[string]struct{})
	doc.Find(gallerySelector).Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok || src == "" {
			src, ok = sel.Attr("data-src")
		}
		if !ok || strings.TrimSpace(src) == "" {
			return
		}

		ref, err := url.Parse(strings.TrimSpace(src))
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref).String()
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		images = append(images, resolved)
	})

	return images, nil
}
