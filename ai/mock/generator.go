package mock

import (
	"context"

	"github.com/costiera/concierge/ai"
)

// MockGenerator is a test double for ai.AnswerGenerator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateAnswerFunc is called by GenerateAnswer if set.
	// If nil, uses default canned behavior.
	GenerateAnswerFunc func(ctx context.Context, prompt string) (*ai.StructuredAnswer, int, error)

	// Answer is the canned answer returned when GenerateAnswerFunc is nil.
	Answer *ai.StructuredAnswer

	// Usage is the canned token usage returned when GenerateAnswerFunc is nil.
	Usage int

	callCount int
}

// NewMockGenerator creates a mock generator with a default canned answer.
// Note: Returns concrete type to allow test assertions via GetMockGenerator().
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		Answer: &ai.StructuredAnswer{
			Answer:      "mock answer",
			Residencies: []string{},
		},
		Usage: 10,
	}
}

// GenerateAnswer returns the configured answer or delegates to GenerateAnswerFunc.
func (m *MockGenerator) GenerateAnswer(ctx context.Context, prompt string) (*ai.StructuredAnswer, int, error) {
	m.callCount++

	if m.GenerateAnswerFunc != nil {
		return m.GenerateAnswerFunc(ctx, prompt)
	}

	return m.Answer, m.Usage, nil
}

// CallCount returns the number of times GenerateAnswer was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateAnswerFunc = nil
}
