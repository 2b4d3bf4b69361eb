package ai

import "context"

// Generator produces a completion for a single prompt.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate sends the prompt to the model as a single user-role message
	// and returns the generated reply text.
	// Returns an error if the generation backend is unreachable or replies
	// with an unexpected shape.
	Generate(ctx context.Context, prompt string) (string, error)
}
