package llm

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/abhisek/mcqbot/internal/store"
)

type memRecorder struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (m *memRecorder) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, data)
	return m.err
}

func TestWithRecorder(t *testing.T) {
	rec := &memRecorder{}
	s := NewScripted(
		Reply{Text: "Question: ?", Usage: Usage{Input: 12, Output: 7}},
		Reply{Err: &Error{Kind: RateLimited, Backend: "mock"}},
	)
	p := WithRecorder(s, rec, nil)

	prompt := Prompt{Purpose: "question-gen", System: "sys", User: "ask", Schema: nil}
	if _, err := p.Complete(context.Background(), prompt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Complete(context.Background(), prompt); !IsRateLimited(err) {
		t.Fatalf("error should pass through, got %v", err)
	}

	if len(rec.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(rec.events))
	}
	ok := rec.events[0]
	if ok.Provider != "mock" || ok.Model != "scripted" || ok.Purpose != "question-gen" {
		t.Errorf("unexpected identity: %+v", ok)
	}
	if !ok.Success || ok.InputTokens != 12 || ok.OutputTokens != 7 || ok.ResponseBody != "Question: ?" {
		t.Errorf("unexpected success event: %+v", ok)
	}
	if ok.RequestBody != "[system]\nsys\n\n[user]\nask\n" {
		t.Errorf("request body = %q", ok.RequestBody)
	}

	failed := rec.events[1]
	if failed.Success || !strings.Contains(failed.ErrorMessage, "rate limited") {
		t.Errorf("unexpected failure event: %+v", failed)
	}
}

func TestWithRecorder_RecordFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	rec := &memRecorder{err: errors.New("disk full")}
	p := WithRecorder(NewScripted(Reply{Text: "ok"}), rec, logger)

	c, err := p.Complete(context.Background(), Prompt{Purpose: "question-gen", User: "ask"})
	if err != nil || c.Text != "ok" {
		t.Fatalf("recording failure must not fail the call: %v, %v", c, err)
	}
	if !strings.Contains(buf.String(), "disk full") {
		t.Errorf("expected warning in log, got %q", buf.String())
	}
}

func TestTranscript_IncludesSchema(t *testing.T) {
	got := transcript(Prompt{User: "ask", Schema: testSchema()})
	if !strings.HasPrefix(got, "[user]\nask\n") {
		t.Errorf("transcript = %q", got)
	}
	if !strings.Contains(got, "[schema test-object]") || !strings.Contains(got, `"required":["name","age"]`) {
		t.Errorf("schema block missing: %q", got)
	}
}

func TestPriceOf(t *testing.T) {
	tests := []struct {
		model string
		want  Price
		ok    bool
	}{
		{"gpt-4o-mini", Price{0.15, 0.6}, true},
		{"gpt-4o-2024-08-06", Price{2.5, 10}, true},
		{"claude-haiku-4-5-20251001", Price{1, 5}, true},
		{"claude-opus-4-5-20251101", Price{5, 25}, true},
		{"google/gemini-2.0-flash-exp", Price{0.1, 0.4}, true},
		{"scripted", Price{}, false},
	}
	for _, tt := range tests {
		got, ok := PriceOf(tt.model)
		if ok != tt.ok || got != tt.want {
			t.Errorf("PriceOf(%q) = %v, %v; want %v, %v", tt.model, got, ok, tt.want, tt.ok)
		}
	}

	if c := (Price{Input: 1, Output: 5}).Cost(1_000_000, 200_000); c != 2 {
		t.Errorf("Cost = %v, want 2", c)
	}
}
