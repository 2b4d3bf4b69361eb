package mock

import (
	"context"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields.
type MockGenerator struct {
	// GenerateFunc is called by Generate if set.
	// If nil, uses default scripted behavior.
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	replies   []string
	prompts   []string
	callCount int
}

// NewMockGenerator creates a mock generator. If replies are given they are
// returned one by one for successive Generate calls; once exhausted the last
// reply is repeated. With no replies the mock echoes a fixed placeholder.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator(replies ...string) *MockGenerator {
	return &MockGenerator{replies: replies}
}

// Generate records the prompt and returns the next scripted reply.
func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.prompts = append(m.prompts, prompt)

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}

	if len(m.replies) == 0 {
		return "mock reply", nil
	}
	idx := m.callCount - 1
	if idx >= len(m.replies) {
		idx = len(m.replies) - 1
	}
	return m.replies[idx], nil
}

// CallCount returns the number of times Generate was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Prompts returns every prompt passed to Generate, in call order.
func (m *MockGenerator) Prompts() []string {
	return m.prompts
}

// LastPrompt returns the most recent prompt, or "" if none were recorded.
func (m *MockGenerator) LastPrompt() string {
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// Reset clears recorded calls and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.prompts = nil
	m.GenerateFunc = nil
}
