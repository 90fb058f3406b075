package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

// noWait records the delays a retrying provider asks for without sleeping.
func noWait(p Provider, policy RetryPolicy) (*retrying, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(p, policy).(*retrying)
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	return r, &waits
}

var testPolicy = RetryPolicy{Attempts: 3, Base: 100 * time.Millisecond, Max: 150 * time.Millisecond}

func down() Reply { return Reply{Err: &Error{Kind: Unavailable, Backend: "mock", Err: errors.New("down")}} }

func TestRetry_FirstAttempt(t *testing.T) {
	s := NewScripted(Reply{Text: "ok"})
	r, waits := noWait(s, testPolicy)

	c, err := r.Complete(context.Background(), Prompt{})
	if err != nil || c.Text != "ok" {
		t.Fatalf("got %v, %v", c, err)
	}
	if len(s.Prompts()) != 1 || len(*waits) != 0 {
		t.Errorf("calls=%d waits=%v", len(s.Prompts()), *waits)
	}
}

func TestRetry_RecoversFromOutage(t *testing.T) {
	s := NewScripted(down(), down(), Reply{Text: "ok"})
	r, waits := noWait(s, testPolicy)

	c, err := r.Complete(context.Background(), Prompt{})
	if err != nil || c.Text != "ok" {
		t.Fatalf("got %v, %v", c, err)
	}
	if len(*waits) != 2 {
		t.Fatalf("expected 2 waits, got %v", *waits)
	}
	// 100ms then capped at 150ms, each jittered into the upper half.
	if w := (*waits)[0]; w < 50*time.Millisecond || w > 100*time.Millisecond {
		t.Errorf("first wait %v out of range", w)
	}
	if w := (*waits)[1]; w < 75*time.Millisecond || w > 150*time.Millisecond {
		t.Errorf("second wait %v out of range", w)
	}
}

func TestRetry_GivesUp(t *testing.T) {
	s := NewScripted(down(), down(), down(), Reply{Text: "never"})
	r, _ := noWait(s, testPolicy)

	_, err := r.Complete(context.Background(), Prompt{})
	if !isKind(err, Unavailable) {
		t.Fatalf("expected last error, got %v", err)
	}
	if n := len(s.Prompts()); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestRetry_MalformedRetriedOnce(t *testing.T) {
	bad := Reply{Text: "   "}
	s := NewScripted(bad, bad, Reply{Text: "ok"})
	r, _ := noWait(s, RetryPolicy{Attempts: 5})

	_, err := r.Complete(context.Background(), Prompt{})
	if !isKind(err, Malformed) {
		t.Fatalf("expected malformed, got %v", err)
	}
	if n := len(s.Prompts()); n != 2 {
		t.Errorf("calls = %d, want 2", n)
	}
}

func TestRetry_NotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"rejected", &Error{Kind: Rejected, Backend: "mock"}},
		{"truncated", &Error{Kind: Truncated, Backend: "mock"}},
		{"cancelled", context.Canceled},
		{"local", errors.New("encode schema")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScripted(Reply{Err: tt.err}, Reply{Text: "ok"})
			r, _ := noWait(s, testPolicy)

			if _, err := r.Complete(context.Background(), Prompt{}); !errors.Is(err, tt.err) {
				t.Fatalf("expected %v, got %v", tt.err, err)
			}
			if n := len(s.Prompts()); n != 1 {
				t.Errorf("calls = %d, want 1", n)
			}
		})
	}
}

func TestRetry_HonoursRetryAfter(t *testing.T) {
	s := NewScripted(
		Reply{Err: &Error{Kind: RateLimited, Backend: "mock", RetryAfter: 2 * time.Second}},
		Reply{Text: "ok"},
	)
	r, waits := noWait(s, testPolicy)

	if _, err := r.Complete(context.Background(), Prompt{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*waits) != 1 || (*waits)[0] != 2*time.Second {
		t.Errorf("waits = %v, want [2s]", *waits)
	}
}

func TestRetry_ContextCancelledWhileWaiting(t *testing.T) {
	s := NewScripted(down(), Reply{Text: "ok"})
	p := WithRetry(s, RetryPolicy{Attempts: 3, Base: time.Hour, Max: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := p.Complete(ctx, Prompt{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if n := len(s.Prompts()); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}

func TestRetry_ZeroAttemptsMeansOne(t *testing.T) {
	s := NewScripted(down(), Reply{Text: "ok"})
	if _, err := WithRetry(s, RetryPolicy{}).Complete(context.Background(), Prompt{}); err == nil {
		t.Fatal("expected the single attempt to fail")
	}
	if n := len(s.Prompts()); n != 1 {
		t.Errorf("calls = %d, want 1", n)
	}
}
