package llm

import (
	"context"
	"errors"
	"sync"
)

var errScriptExhausted = errors.New("no scripted reply left")

// Reply is one scripted outcome.
type Reply struct {
	Text  string
	Usage Usage
	Err   error
}

// Scripted is an offline Provider that plays back replies in order and
// records every prompt it was given. It backs the "mock" provider setting
// and tests. An exhausted script answers with Fallback, or fails with
// Unavailable when Fallback is nil.
type Scripted struct {
	Fallback *Reply

	mu      sync.Mutex
	replies []Reply
	prompts []Prompt
}

// demoReply keeps the "mock" provider playable offline.
var demoReply = Reply{Text: `Question: What is 12 × 8?
A) 86
B) 96
C) 98
D) 106
Correct Answer: B
Explanation: 12 × 8 = 96.`}

// NewScripted creates a Scripted provider.
func NewScripted(replies ...Reply) *Scripted {
	return &Scripted{replies: replies}
}

func (s *Scripted) Complete(_ context.Context, p Prompt) (*Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prompts = append(s.prompts, p)
	var r Reply
	switch {
	case len(s.replies) > 0:
		r = s.replies[0]
		s.replies = s.replies[1:]
	case s.Fallback != nil:
		r = *s.Fallback
	default:
		return nil, &Error{Kind: Unavailable, Backend: s.Name(), Err: errScriptExhausted}
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return settle(s.Name(), p, &Completion{
		Text:   r.Text,
		Model:  s.Model(),
		Usage:  r.Usage,
		Finish: FinishStop,
	})
}

func (s *Scripted) Name() string  { return "mock" }
func (s *Scripted) Model() string { return "scripted" }

// Push appends replies to the script.
func (s *Scripted) Push(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// Prompts returns a copy of the prompts seen so far.
func (s *Scripted) Prompts() []Prompt {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Prompt(nil), s.prompts...)
}
