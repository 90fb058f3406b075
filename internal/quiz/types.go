package quiz

import (
	"fmt"
	"time"

	"github.com/abhisek/mcqbot/internal/session"
)

// Request asks for one question for a user. Empty fields fall back to the
// catalog defaults; a Random topic is resolved per request.
type Request struct {
	User       string
	Topic      string
	Subtopic   string
	Difficulty string
	Language   string
}

// Delivery is the result of RequestQuestion. Exactly one of Denied or
// Session is meaningful.
type Delivery struct {
	// Denied is set when the rate gate refused the request.
	Denied bool

	// Remaining is the cooldown left when Denied.
	Remaining time.Duration

	// Processing reports that a previous request is still generating.
	Processing bool

	// Session is the opened question session.
	Session *session.Session

	// Attempts is how many generator calls were made.
	Attempts int

	// Degraded is set when the correct letter was assigned at random.
	Degraded bool

	// Superseded is the unanswered session that this delivery replaced.
	Superseded *session.Session
}

// GenerationError wraps a generator failure with its attempt number.
type GenerationError struct {
	Attempt int
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation attempt %d: %v", e.Attempt, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
