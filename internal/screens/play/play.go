package play

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mcqbot/internal/problemgen"
	"github.com/abhisek/mcqbot/internal/quiz"
	"github.com/abhisek/mcqbot/internal/screen"
	"github.com/abhisek/mcqbot/internal/screens/summary"
	"github.com/abhisek/mcqbot/internal/session"
	"github.com/abhisek/mcqbot/internal/ui/components"
	"github.com/abhisek/mcqbot/internal/ui/layout"
	"github.com/abhisek/mcqbot/internal/ui/theme"
)

// minRetry bounds how quickly a denied request is retried.
const minRetry = 500 * time.Millisecond

// Service is the question lifecycle the screen drives.
type Service interface {
	RequestQuestion(ctx context.Context, req quiz.Request) (*quiz.Delivery, error)
	SubmitAnswer(ctx context.Context, user, letter string) (*session.Outcome, error)
}

type phase int

const (
	phaseLoading phase = iota
	phaseWaiting
	phaseAsking
	phaseChecking
	phaseFeedback
	phaseError
)

type questionMsg struct {
	Delivery *quiz.Delivery
	Err      error
}

type outcomeMsg struct {
	Outcome *session.Outcome
	Err     error
}

type retryMsg struct{}

// PlayScreen asks questions until the user stops, then shows a summary.
type PlayScreen struct {
	svc     Service
	req     quiz.Request
	tracker *session.Tracker
	now     func() time.Time

	phase   phase
	spinner spinner.Model
	choice  components.MultiChoice
	current *session.Session
	outcome *session.Outcome
	wait    time.Duration
	notice  string
	errMsg  string
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.ScoreProvider = (*PlayScreen)(nil)

// New creates a PlayScreen for req.
func New(svc Service, req quiz.Request) *PlayScreen {
	return &PlayScreen{
		svc:     svc,
		req:     req,
		tracker: session.NewTracker(time.Now()),
		now:     time.Now,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
}

func (s *PlayScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.fetch())
}

func (s *PlayScreen) Title() string {
	if s.current == nil {
		return "Quiz"
	}
	return problemgen.DisplayTopic(s.current.Topic, s.current.Subtopic, s.current.Language)
}

func (s *PlayScreen) Score() (int, int) {
	return s.tracker.Score()
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAsking:
		return []layout.KeyHint{
			{Key: "A-D", Description: "Answer"},
			{Key: "↑↓ Enter", Description: "Select"},
			{Key: "Esc", Description: "Finish"},
		}
	case phaseFeedback, phaseError:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next question"},
			{Key: "Esc", Description: "Finish"},
		}
	}
	return []layout.KeyHint{{Key: "Esc", Description: "Finish"}}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionMsg:
		return s.handleQuestion(msg)

	case outcomeMsg:
		return s.handleOutcome(msg)

	case retryMsg:
		if s.phase != phaseWaiting {
			return s, nil
		}
		s.phase = phaseLoading
		return s, s.fetch()

	case spinner.TickMsg:
		if s.phase != phaseLoading && s.phase != phaseWaiting && s.phase != phaseChecking {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PlayScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if msg.String() == "esc" {
		return s, s.finish()
	}

	switch s.phase {
	case phaseAsking:
		s.choice, _ = s.choice.Update(msg)
		if !s.choice.Submitted {
			return s, nil
		}
		s.phase = phaseChecking
		return s, tea.Batch(s.spinner.Tick, s.submit(s.choice.Chosen()))

	case phaseFeedback, phaseError:
		switch msg.String() {
		case "q":
			return s, s.finish()
		case "enter", "n", "space":
			return s, s.next()
		}
	}
	return s, nil
}

func (s *PlayScreen) handleQuestion(msg questionMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.phase = phaseError
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	d := msg.Delivery
	if d.Denied {
		s.phase = phaseWaiting
		s.wait = d.Remaining
		wait := max(d.Remaining, minRetry)
		return s, tea.Tick(wait, func(time.Time) tea.Msg { return retryMsg{} })
	}

	s.current = d.Session
	s.outcome = nil
	s.notice = ""
	if d.Degraded {
		s.notice = "The answer key for this question could not be verified."
	}

	q := d.Session.Question
	options := make([]string, 0, len(q.Options))
	for _, o := range q.Options {
		options = append(options, o.Text)
	}
	s.choice = components.NewMultiChoice(q.Text, options)
	s.phase = phaseAsking
	return s, nil
}

func (s *PlayScreen) handleOutcome(msg outcomeMsg) (screen.Screen, tea.Cmd) {
	switch {
	case errors.Is(msg.Err, session.ErrInvalidInput):
		s.choice.Reset()
		s.phase = phaseAsking
		return s, nil
	case msg.Err != nil:
		s.phase = phaseError
		s.errMsg = msg.Err.Error()
		return s, nil
	}

	s.outcome = msg.Outcome
	s.tracker.Record(msg.Outcome)
	s.choice.Reveal(string(msg.Outcome.Correct))
	s.phase = phaseFeedback
	return s, nil
}

func (s *PlayScreen) next() tea.Cmd {
	s.phase = phaseLoading
	s.errMsg = ""
	return tea.Batch(s.spinner.Tick, s.fetch())
}

func (s *PlayScreen) finish() tea.Cmd {
	return screen.Replace(summary.New(session.BuildSummary(s.tracker, s.now())))
}

func (s *PlayScreen) fetch() tea.Cmd {
	svc, req := s.svc, s.req
	return func() tea.Msg {
		d, err := svc.RequestQuestion(context.Background(), req)
		return questionMsg{Delivery: d, Err: err}
	}
}

func (s *PlayScreen) submit(letter string) tea.Cmd {
	svc, user := s.svc, s.req.User
	return func() tea.Msg {
		out, err := svc.SubmitAnswer(context.Background(), user, letter)
		return outcomeMsg{Outcome: out, Err: err}
	}
}

func (s *PlayScreen) View(width, height int) string {
	var body string
	switch s.phase {
	case phaseLoading:
		body = s.spinner.View() + " Generating a question..."
	case phaseWaiting:
		body = s.spinner.View() + " " + theme.Warning.Render(waitMessage(s.wait))
	case phaseChecking:
		body = s.choice.View() + "\n" + s.spinner.View() + " Checking..."
	case phaseAsking:
		body = s.choice.View()
		if s.notice != "" {
			body += "\n" + theme.Hint.Render(s.notice)
		}
	case phaseFeedback:
		body = s.choice.View() + "\n" + s.renderFeedback()
	case phaseError:
		body = theme.Incorrect.Render("Something went wrong: " + s.errMsg)
	}

	cardWidth := min(width-4, 90)
	card := theme.Card.Width(cardWidth).Render(body)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *PlayScreen) renderFeedback() string {
	o := s.outcome
	var b strings.Builder
	if o.IsCorrect {
		b.WriteString(theme.Correct.Render("Correct!"))
	} else {
		b.WriteString(theme.Incorrect.Render(fmt.Sprintf("Wrong. The correct answer is %s) %s", o.Correct, o.CorrectText())))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(o.Explanation))
	return b.String()
}

func waitMessage(d time.Duration) string {
	if d <= 0 {
		return "A question is already on its way..."
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("Please wait %ds before the next question...", secs)
}
