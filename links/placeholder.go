package links

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/costiera/concierge/core"
)

// placeholderScheme is a reserved scheme-like prefix; it can never collide
// with a real URL because the rewriter runs before any placeholder exists.
const placeholderScheme = "link://"

var (
	// placeholderPattern matches placeholder tokens and captures the link id.
	placeholderPattern = regexp.MustCompile(`link://(\d+)`)

	// urlPattern matches http(s) URLs in free text. Trailing sentence
	// punctuation is trimmed afterwards, see trimURL.
	urlPattern = regexp.MustCompile(`https?://[^\s<>"'\)\]]+`)
)

// Placeholder returns the placeholder token for a link id.
func Placeholder(id core.ID) string {
	return fmt.Sprintf("%s%d", placeholderScheme, id)
}

// ParsePlaceholder extracts the link id from a placeholder token match.
func ParsePlaceholder(token string) (core.ID, bool) {
	match := placeholderPattern.FindStringSubmatch(token)
	if match == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(match[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return core.ID(id), true
}

// FindPlaceholder returns the id of the first placeholder token in text.
func FindPlaceholder(text string) (core.ID, bool) {
	return ParsePlaceholder(text)
}

// PlaceholderSpans returns the byte ranges of all placeholder tokens in text,
// in order of appearance. Used by the chunker to keep tokens whole.
func PlaceholderSpans(text string) [][]int {
	return placeholderPattern.FindAllStringIndex(text, -1)
}

// trimURL strips sentence punctuation a URL regex greedily swallows.
func trimURL(url string) string {
	for len(url) > 0 {
		switch url[len(url)-1] {
		case '.', ',', ';', ':', '!', '?':
			url = url[:len(url)-1]
		default:
			return url
		}
	}
	return url
}
