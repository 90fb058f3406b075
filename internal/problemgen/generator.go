package problemgen

import "context"

// Generator produces raw question text using an LLM provider.
type Generator interface {
	// GenerateText returns the model's text for one question. The text is
	// not validated; parsing is the caller's concern.
	GenerateText(ctx context.Context, input Input) (string, error)
}
