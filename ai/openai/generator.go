// Copyright 2025 Costiera Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/costiera/concierge/ai"
	"github.com/costiera/concierge/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Generator implements ai.AnswerGenerator using OpenAI-compatible chat APIs.
type Generator struct {
	client     llms.Model
	maxRetries int
	logger     *slog.Logger
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken(config.APIToken),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:     client,
		maxRetries: config.MaxRetries,
		logger:     slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new answer generator using the provided configuration.
//
// Returns ai.AnswerGenerator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.AnswerGenerator, error) {
	return newGenerator(config)
}

// GenerateAnswer invokes the generation model and decodes the response into a
// StructuredAnswer. Temperature is fixed at 0 to minimize answer variance for
// a given retrieval set. The second return value is the total token usage of
// all attempts, so the caller can charge the global token budget even when
// decoding ultimately fails.
func (g *Generator) GenerateAnswer(ctx context.Context, prompt string) (*ai.StructuredAnswer, int, error) {
	systemPrompt := buildSystemPrompt(ai.MaxResidencies)
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	// Try up to maxRetries times in case of malformed JSON
	var answer ai.StructuredAnswer
	var lastErr error
	totalUsage := 0
	for attempt := 0; attempt < g.maxRetries; attempt++ {
		response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			g.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, totalUsage, fmt.Errorf("%w: %w", core.ErrGenerationFailed, err)
		}

		if len(response.Choices) < 1 {
			g.logger.Debug("no choices returned from model")
			return nil, totalUsage, fmt.Errorf("%w: model returned no choices", core.ErrGenerationFailed)
		}

		choice := response.Choices[0]
		totalUsage += tokenUsage(choice.GenerationInfo)

		if err := decodeStructuredAnswer(choice.Content, &answer); err != nil {
			lastErr = err
			g.logger.Warn("error parsing generator response",
				"attempt", attempt+1,
				"response", choice.Content,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		g.logger.Error("failed to parse generator response after retries", "err", lastErr)
		return nil, totalUsage, lastErr
	}

	// Enforce the bounded entity count even when the model overshoots
	if len(answer.Residencies) > ai.MaxResidencies {
		answer.Residencies = answer.Residencies[:ai.MaxResidencies]
	}

	g.logger.Debug("generated structured answer",
		"residencies", len(answer.Residencies),
		"usage", totalUsage)

	return &answer, totalUsage, nil
}

// decodeStructuredAnswer is the single strict decode boundary between raw
// model output and the typed answer contract.
func decodeStructuredAnswer(raw string, out *ai.StructuredAnswer) error {
	// Strip markdown code fences if present
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	// Try to repair common JSON issues
	text = repairJSON(text)

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %w", core.ErrParseFailed, err)
	}
	if out.Answer == "" {
		return fmt.Errorf("%w: empty answer field", core.ErrParseFailed)
	}
	return nil
}

// tokenUsage reads the total token count from a choice's generation info.
// OpenAI-compatible backends report CompletionTokens/PromptTokens/TotalTokens;
// missing keys count as zero.
func tokenUsage(info map[string]any) int {
	if info == nil {
		return 0
	}
	if total, ok := info["TotalTokens"].(int); ok && total > 0 {
		return total
	}
	usage := 0
	if n, ok := info["PromptTokens"].(int); ok {
		usage += n
	}
	if n, ok := info["CompletionTokens"].(int); ok {
		usage += n
	}
	return usage
}
