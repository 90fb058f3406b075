package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryPolicy bounds retries of transient failures.
type RetryPolicy struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration
}

type retrying struct {
	Provider
	policy RetryPolicy
	sleep  func(context.Context, time.Duration) error
}

// WithRetry retries rate limits and outages with capped exponential
// backoff. A malformed reply is retried once; rejected and truncated
// requests are returned immediately.
func WithRetry(p Provider, policy RetryPolicy) Provider {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	return &retrying{Provider: p, policy: policy, sleep: sleepCtx}
}

func (r *retrying) Complete(ctx context.Context, pr Prompt) (*Completion, error) {
	var err error
	malformedRetried := false
	for attempt := 0; attempt < r.policy.Attempts; attempt++ {
		if attempt > 0 {
			if serr := r.sleep(ctx, r.delay(attempt-1, err)); serr != nil {
				return nil, serr
			}
		}

		var c *Completion
		if c, err = r.Provider.Complete(ctx, pr); err == nil {
			return c, nil
		}

		kind, ok := KindOf(err)
		if !ok {
			// Context errors and local failures are not retried.
			return nil, err
		}
		switch kind {
		case Rejected, Truncated:
			return nil, err
		case Malformed:
			if malformedRetried {
				return nil, err
			}
			malformedRetried = true
		}
	}
	return nil, err
}

// delay honours a server Retry-After, otherwise doubles Base per attempt up
// to Max and picks a point in the upper half of that window.
func (r *retrying) delay(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	d := r.policy.Base << attempt
	if d <= 0 || (r.policy.Max > 0 && d > r.policy.Max) {
		d = r.policy.Max
	}
	if d <= 0 {
		return 0
	}
	half := d / 2
	return half + rand.N(half+1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
