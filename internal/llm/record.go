package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/mcqbot/internal/store"
)

// Recorder stores one event per call. store.EventRepo satisfies it.
type Recorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

type recorded struct {
	Provider
	rec    Recorder
	logger *slog.Logger
}

// WithRecorder records every call, including failed ones, with its prompt,
// raw reply, token usage and latency. A failure to record is logged and
// does not affect the call.
func WithRecorder(p Provider, rec Recorder, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &recorded{Provider: p, rec: rec, logger: logger}
}

func (r *recorded) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	start := time.Now()
	c, err := r.Provider.Complete(ctx, pr)

	ev := store.LLMRequestEventData{
		Provider:    r.Name(),
		Model:       r.Model(),
		Purpose:     pr.Purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(pr),
	}
	if c != nil {
		ev.Model = c.Model
		ev.InputTokens = c.Usage.Input
		ev.OutputTokens = c.Usage.Output
		ev.ResponseBody = c.Text
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	r.append(ctx, ev)
	return c, err
}

func (r *recorded) append(ctx context.Context, ev store.LLMRequestEventData) {
	// A cancelled request still gets its event.
	if err := r.rec.AppendLLMRequest(context.WithoutCancel(ctx), ev); err != nil {
		r.logger.Warn("record llm event", "purpose", ev.Purpose, "error", err)
	}
}

// transcript renders a prompt for `mcqbot llm view`.
func transcript(pr Prompt) string {
	var b strings.Builder
	if pr.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", pr.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n", pr.User)
	if pr.Schema != nil {
		if def, err := json.Marshal(pr.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "\n[schema %s]\n%s\n", pr.Schema.Name, def)
		}
	}
	return b.String()
}
