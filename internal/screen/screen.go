package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mcqbot/internal/ui/layout"
)

// Screen is one page of the terminal quiz.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ScoreProvider is implemented by screens that track a running score for
// the header.
type ScoreProvider interface {
	Score() (correct, attempted int)
}

// PushMsg shows Screen on top of the current one.
type PushMsg struct{ Screen Screen }

// ReplaceMsg swaps the current screen for Screen.
type ReplaceMsg struct{ Screen Screen }

// PopMsg returns to the previous screen, if any.
type PopMsg struct{}

// Push returns a command that emits PushMsg.
func Push(s Screen) tea.Cmd {
	return func() tea.Msg { return PushMsg{Screen: s} }
}

// Replace returns a command that emits ReplaceMsg.
func Replace(s Screen) tea.Cmd {
	return func() tea.Msg { return ReplaceMsg{Screen: s} }
}

// Pop is a command that emits PopMsg.
func Pop() tea.Msg { return PopMsg{} }
