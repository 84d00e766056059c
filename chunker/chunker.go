package chunker

import (
	"log/slog"
	"strings"

	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/links"
)

// Chunker splits pre-split text blocks into bounded overlapping segments.
type Chunker struct {
	config *Config
	logger *slog.Logger
}

// NewChunker creates a new chunker.
func NewChunker(opts ...Option) (*Chunker, error) {
	config := NewConfig(opts...)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Chunker{
		config: config,
		logger: slog.Default().With("component", "chunker"),
	}, nil
}

// Split turns pre-split blocks into split chunks. Block metadata is carried
// onto every segment it produces; positions are sequential across the whole
// output, mirroring the stored snapshot order.
func (c *Chunker) Split(blocks []*core.Chunk) []*core.Chunk {
	var out []*core.Chunk
	position := 0

	for _, block := range blocks {
		for _, segment := range c.SplitText(block.PageContent) {
			chunk := &core.Chunk{
				DocumentId:  block.DocumentId,
				Position:    position,
				PageContent: segment,
				Metadata:    copyMetadata(block.Metadata),
			}
			out = append(out, chunk)
			position++
		}
	}

	c.logger.Debug("split blocks", "blocks", len(blocks), "chunks", len(out))
	return out
}

// SplitText splits a single text into segments of at most the configured
// size. With zero overlap the segments concatenate back to the input.
func (c *Chunker) SplitText(text string) []string {
	if text == "" {
		return nil
	}
	if len(text) <= c.config.Size {
		return []string{text}
	}

	spans := links.PlaceholderSpans(text)

	var segments []string
	pos := 0
	for pos < len(text) {
		if len(text)-pos <= c.config.Size {
			segments = append(segments, text[pos:])
			break
		}

		end := c.cutPoint(text, pos, spans)
		segments = append(segments, text[pos:end])

		next := end - c.config.Overlap
		// The overlap tail must not start mid-token either
		next = snapOutOfToken(next, spans, pos)
		if next <= pos {
			next = end
		}
		pos = next
	}
	return segments
}

// cutPoint picks the end of the chunk starting at pos. Separators are tried
// in priority order within the size budget; when none fits, the cut falls at
// the size limit pushed off any placeholder token it would split.
func (c *Chunker) cutPoint(text string, pos int, spans [][]int) int {
	limit := pos + c.config.Size

	for _, sep := range c.config.Separators {
		if sep == "" {
			break
		}
		idx := strings.LastIndex(text[pos:limit], sep)
		if idx <= 0 {
			continue
		}
		return pos + idx + len(sep)
	}

	return snapOutOfToken(limit, spans, pos)
}

// snapOutOfToken moves a boundary that falls strictly inside a placeholder
// token to the nearest token edge. Boundaries at or before floor move to the
// token's far edge so the caller always makes progress.
func snapOutOfToken(boundary int, spans [][]int, floor int) int {
	for _, span := range spans {
		start, end := span[0], span[1]
		if boundary <= start || boundary >= end {
			continue
		}
		if start > floor && boundary-start <= end-boundary {
			return start
		}
		return end
	}
	return boundary
}

func copyMetadata(metadata map[string]string) map[string]string {
	if metadata == nil {
		return nil
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
