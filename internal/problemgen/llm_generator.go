package problemgen

import (
	"context"
	"fmt"

	"github.com/abhisek/mcqbot/internal/llm"
	"github.com/abhisek/mcqbot/internal/mcq"
)

// Purpose tags question generation requests in the LLM event log.
const Purpose = "question-gen"

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

// GenerateText returns the model output for one question. In structured
// mode the output is the JSON object; otherwise it is free text following
// the labelled template.
func (g *LLMGenerator) GenerateText(ctx context.Context, input Input) (string, error) {
	prompt := llm.Prompt{
		Purpose:     Purpose,
		System:      systemPrompt,
		User:        buildUserMessage(input, g.config),
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	if g.config.Structured {
		prompt.Schema = mcq.Schema
	}

	c, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate %s question: %w", input.Topic, err)
	}
	return c.Text, nil
}
