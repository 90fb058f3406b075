// Package llm talks to hosted language models. Every backend is reduced to
// a single-turn Complete call that returns the model's text.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider completes one prompt.
type Provider interface {
	Complete(ctx context.Context, p Prompt) (*Completion, error)

	// Name is the backend name ("anthropic", "openai", ...).
	Name() string

	// Model is the configured model id.
	Model() string
}

// Prompt is a single-turn request.
type Prompt struct {
	// Purpose labels the call in the event log.
	Purpose string

	System string
	User   string

	// Schema, when set, asks the backend for JSON matching it. The
	// completion text is validated before it is returned.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Finish says why generation stopped.
type Finish string

const (
	FinishStop   Finish = "stop"
	FinishLength Finish = "length"
)

// Completion is a model reply.
type Completion struct {
	Text   string
	Model  string
	Usage  Usage
	Finish Finish
}

// Usage counts tokens for one call.
type Usage struct {
	Input  int
	Output int
}

// Total returns input plus output tokens.
func (u Usage) Total() int { return u.Input + u.Output }

// settle applies the checks shared by every backend: an empty reply is
// malformed, a truncated structured reply cannot be valid, and structured
// replies must match the schema.
func settle(backend string, p Prompt, c *Completion) (*Completion, error) {
	c.Text = strings.TrimSpace(c.Text)
	if c.Text == "" {
		return nil, &Error{Kind: Malformed, Backend: backend, Err: errEmptyReply}
	}
	if p.Schema == nil {
		return c, nil
	}
	if c.Finish == FinishLength {
		return nil, &Error{Kind: Truncated, Backend: backend, Err: errTruncated}
	}
	if err := p.Schema.Validate(json.RawMessage(c.Text)); err != nil {
		return nil, &Error{Kind: Malformed, Backend: backend, Err: err}
	}
	return c, nil
}

// resolveModel maps a short alias to a full model id. Unknown names are
// used as given.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
