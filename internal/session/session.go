package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mcqbot/internal/mcq"
)

var (
	// ErrInvalidInput is returned when the answer is not one of A-D.
	ErrInvalidInput = errors.New("session: answer must be one of A, B, C, D")

	// ErrNoActiveQuestion is returned when the user has nothing to answer.
	ErrNoActiveQuestion = errors.New("session: no active question")
)

// Option configures a Table.
type Option func(*Table)

// WithClock overrides the time source used to stamp new sessions.
func WithClock(now func() time.Time) Option {
	return func(t *Table) { t.now = now }
}

// Table holds at most one open session per user.
type Table struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewTable creates an empty Table.
func NewTable(opts ...Option) *Table {
	t := &Table{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Open stores sess as its owner's active session, replacing any open one.
// The replaced session is returned and is never resolved.
func (t *Table) Open(sess *Session) (superseded *Session) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	sess.State = Open

	t.mu.Lock()
	defer t.mu.Unlock()

	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = t.now()
	}
	superseded = t.sessions[sess.Owner]
	t.sessions[sess.Owner] = sess
	return superseded
}

// Resolve checks the owner's answer against the active session, marks it
// Resolved and removes it. An invalid letter leaves the session open.
func (t *Table) Resolve(owner, letter string) (*Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, ok := t.sessions[owner]
	if !ok || sess.State != Open {
		return nil, ErrNoActiveQuestion
	}
	chosen, ok := mcq.ParseLetter(letter)
	if !ok {
		return nil, ErrInvalidInput
	}

	sess.State = Resolved
	delete(t.sessions, owner)

	return &Outcome{
		IsCorrect:   chosen == sess.Question.Correct,
		Chosen:      chosen,
		Correct:     sess.Question.Correct,
		Explanation: sess.Question.Explanation,
		Session:     sess,
	}, nil
}

// Active returns the owner's open session.
func (t *Table) Active(owner string) (*Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, ok := t.sessions[owner]
	return sess, ok
}

// Len returns the number of open sessions.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
