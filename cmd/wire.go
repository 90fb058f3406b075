package cmd

import (
	"context"
	"fmt"

	"github.com/abhisek/mcqbot/internal/llm"
	"github.com/abhisek/mcqbot/internal/problemgen"
	"github.com/abhisek/mcqbot/internal/quiz"
	"github.com/abhisek/mcqbot/internal/ratelimit"
	"github.com/abhisek/mcqbot/internal/store"
)

// newQuizService builds the LLM provider, generator and optional
// illustrator, and wires them into a quiz.Service backed by st. A nil
// eventRepo disables call recording.
func newQuizService(ctx context.Context, st quiz.Store, eventRepo store.EventRepo) (*quiz.Service, error) {
	llmCfg := llm.ResolveConfig()
	var rec llm.Recorder
	if eventRepo != nil {
		rec = eventRepo
	}
	provider, err := llm.Build(ctx, llmCfg, rec, logger)
	if err != nil {
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	genCfg := problemgen.DefaultConfig()
	genCfg.Structured = cfg.Structured

	opts := []quiz.Option{
		quiz.WithLogger(logger),
		quiz.WithGate(ratelimit.NewGate(cfg.Cooldown)),
		quiz.WithMaxAttempts(cfg.MaxAttempts),
		quiz.WithRecentLimit(cfg.RecentLimit),
		quiz.WithValidators(problemgen.DefaultValidators()...),
	}

	if cfg.Images {
		images, err := llm.NewOpenAIImages(llmCfg.Image)
		if err != nil {
			logger.Warn("image generation disabled", "error", err)
		} else {
			if rec != nil {
				images = llm.RecordImages(images, rec, logger)
			}
			opts = append(opts, quiz.WithIllustrator(problemgen.NewIllustrator(images)))
		}
	}

	return quiz.NewService(problemgen.New(provider, genCfg), st, opts...), nil
}
