package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies a failed call.
type Kind int

const (
	// Unavailable covers network failures and 5xx replies.
	Unavailable Kind = iota
	// RateLimited is a 429 from the backend.
	RateLimited
	// Malformed means the reply was empty or did not match the schema.
	Malformed
	// Truncated means the reply hit the token limit.
	Truncated
	// Rejected is a 4xx other than 429; the request itself is wrong.
	Rejected
)

func (k Kind) String() string {
	switch k {
	case RateLimited:
		return "rate limited"
	case Malformed:
		return "malformed reply"
	case Truncated:
		return "truncated reply"
	case Rejected:
		return "request rejected"
	default:
		return "unavailable"
	}
}

var (
	errEmptyReply = errors.New("empty reply")
	errTruncated  = errors.New("max tokens reached")
)

// Error is returned by every backend for a failed call.
type Error struct {
	Kind    Kind
	Backend string
	// RetryAfter is the server's hint for RateLimited, zero when absent.
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Backend, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of err, and false when err is not an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsRateLimited reports whether err is a backend 429.
func IsRateLimited(err error) bool {
	k, ok := KindOf(err)
	return ok && k == RateLimited
}

// fromStatus converts an SDK error carrying an HTTP status code.
func fromStatus(backend string, status int, header http.Header, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	e := &Error{Kind: Unavailable, Backend: backend, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Kind = RateLimited
		e.RetryAfter = retryAfter(header)
	case status >= 400 && status < 500:
		e.Kind = Rejected
	}
	return e
}

// retryAfter reads a Retry-After header in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
