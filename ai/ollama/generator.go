package ollama

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/wikirag/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// ErrNoCompletion indicates the model replied without any completion choice.
var ErrNoCompletion = errors.New("model returned no completion")

// Generator implements ai.Generator against a local Ollama server.
type Generator struct {
	llm    *ollama.LLM
	logger *slog.Logger
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	llm, err := ollama.New(
		ollama.WithServerURL(config.Host),
		ollama.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		llm:    llm,
		logger: slog.Default().With("component", "ollama-generator"),
	}, nil
}

// Generate sends the prompt as a single user-role message and returns the
// reply content.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("sending prompt", "length", len(prompt))

	resp, err := g.llm.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	})
	if err != nil {
		g.logger.Error("generation failed", "err", err)
		return "", err
	}

	if len(resp.Choices) == 0 {
		g.logger.Warn("unexpected response shape from Ollama")
		return "", ErrNoCompletion
	}

	return resp.Choices[0].Content, nil
}
