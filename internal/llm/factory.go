package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// Build creates the configured provider. When rec is non-nil every call is
// recorded; retries wrap the recorder so each attempt is its own event.
func Build(ctx context.Context, cfg Config, rec Recorder, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "mock":
		s := NewScripted()
		s.Fallback = &demoReply
		return s, nil
	case "anthropic":
		p, err = newAnthropic(cfg.Backends["anthropic"])
	case "openai":
		p, err = newOpenAI(cfg.Backends["openai"])
	case "gemini":
		p, err = newGemini(ctx, cfg.Backends["gemini"])
	case "openrouter":
		p, err = newOpenRouter(cfg.Backends["openrouter"])
	}
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", cfg.Provider, err)
	}

	if rec != nil {
		p = WithRecorder(p, rec, logger)
	}
	return WithRetry(p, cfg.Retry), nil
}
