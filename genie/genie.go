package genie

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/costiera/concierge/ai"
	"github.com/costiera/concierge/core"
	"github.com/costiera/concierge/index"
	"github.com/tmc/langchaingo/prompts"
)

// Genie answers questions over the ingested corpus.
type Genie struct {
	index     *index.Index
	generator ai.AnswerGenerator
	prompt    prompts.PromptTemplate
	topK      int
	logger    *slog.Logger
}

// Option configures a Genie.
type Option func(*Genie) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Genie) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger
		return nil
	}
}

// WithTopK sets how many chunks are retrieved per question.
// Default is index.DefaultTopK.
func WithTopK(k int) Option {
	return func(g *Genie) error {
		if k <= 0 {
			return fmt.Errorf("top-k must be positive, got %d", k)
		}
		g.topK = k
		return nil
	}
}

// NewGenie creates a new genie.
func NewGenie(idx *index.Index, generator ai.AnswerGenerator, opts ...Option) (*Genie, error) {
	if idx == nil {
		return nil, ErrIndexRequired
	}
	if generator == nil {
		return nil, ErrGeneratorRequired
	}

	g := &Genie{
		index:     idx,
		generator: generator,
		prompt:    newSalesPrompt(),
		topK:      index.DefaultTopK,
		logger:    slog.Default().With("component", "genie"),
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Ask retrieves context for the question and generates a structured answer.
// Retrieval failures are returned to the caller as retryable errors;
// generation and parse failures are swallowed and replaced with the
// localized fallback answer so the conversation continues. The returned int
// is the total token usage to charge against the global budget.
func (g *Genie) Ask(ctx context.Context, question string) (*ai.StructuredAnswer, int, error) {
	matches, err := g.index.Query(ctx, question, g.topK)
	if err != nil {
		return nil, 0, err
	}

	prompt, err := g.prompt.Format(map[string]any{
		"context":  joinChunks(matches),
		"question": question,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", core.ErrGenerationFailed, err)
	}

	answer, usage, err := g.generator.GenerateAnswer(ctx, prompt)
	if err != nil {
		g.logger.Warn("generation failed, answering with fallback", "error", err)
		return &ai.StructuredAnswer{Answer: fallbackAnswer}, usage, nil
	}

	return answer, usage, nil
}

// joinChunks concatenates retrieved chunk contents into the prompt context.
func joinChunks(matches []*core.ScoredChunk) string {
	parts := make([]string, 0, len(matches))
	for _, match := range matches {
		parts = append(parts, match.Chunk.PageContent)
	}
	return strings.Join(parts, "\n\n")
}
