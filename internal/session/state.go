package session

import (
	"time"

	"github.com/abhisek/mcqbot/internal/mcq"
)

// State is the lifecycle phase of a question session.
type State int

const (
	Open     State = iota // Awaiting an answer
	Resolved              // Answered; no longer in the table
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Session is one delivered question awaiting its owner's answer.
type Session struct {
	// ID is a UUID assigned when the session is opened, if empty.
	ID string

	// Owner is the user the question was delivered to.
	Owner string

	// Question is the parsed question. It always has a correct letter.
	Question *mcq.ParsedQuestion

	Topic      string
	Subtopic   string
	Difficulty string
	Language   string

	// ImageURL is set for visual topics when an illustration was generated.
	ImageURL string

	CreatedAt time.Time
	State     State
}

// Outcome is the result of resolving a session with the owner's answer.
type Outcome struct {
	IsCorrect   bool
	Chosen      mcq.Letter
	Correct     mcq.Letter
	Explanation string

	// Session is the resolved session, detached from the table.
	Session *Session
}

// CorrectText returns the text of the correct option.
func (o *Outcome) CorrectText() string {
	if o.Session == nil || o.Session.Question == nil {
		return ""
	}
	return o.Session.Question.OptionText(o.Correct)
}
