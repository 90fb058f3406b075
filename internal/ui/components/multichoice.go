package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mcqbot/internal/mcq"
	"github.com/abhisek/mcqbot/internal/ui/theme"
)

// MultiChoice picks one of up to four lettered options. The answer key is
// unknown to it until Reveal; the server grades, not the widget.
type MultiChoice struct {
	Question  string
	Options   []string
	Selected  int
	Submitted bool

	chosen  mcq.Letter
	correct mcq.Letter
}

func NewMultiChoice(question string, options []string) MultiChoice {
	return MultiChoice{Question: question, Options: options[:min(len(options), len(mcq.Letters))]}
}

// Update moves the cursor with arrows or j/k. Enter submits the cursor;
// typing a letter submits that option directly.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || m.Submitted || len(m.Options) == 0 {
		return m, nil
	}

	switch k := kmsg.String(); k {
	case "up", "k":
		m.Selected = max(m.Selected-1, 0)
	case "down", "j":
		m.Selected = min(m.Selected+1, len(m.Options)-1)
	case "enter":
		m.submit(m.Selected)
	default:
		if l, ok := mcq.ParseLetter(k); ok && l.Index() < len(m.Options) {
			m.Selected = l.Index()
			m.submit(m.Selected)
		}
	}
	return m, nil
}

func (m *MultiChoice) submit(i int) {
	m.Submitted = true
	m.chosen = mcq.Letters[i]
}

// Chosen returns the submitted letter, or "" before submission.
func (m MultiChoice) Chosen() string { return string(m.chosen) }

// Reveal marks the correct option for rendering.
func (m *MultiChoice) Reveal(letter string) {
	if l, ok := mcq.ParseLetter(letter); ok {
		m.correct = l
	}
}

// Reset clears a submission so the player can answer again. The cursor stays.
func (m *MultiChoice) Reset() {
	m.Submitted = false
	m.chosen = ""
}

// IsCorrect reports whether the submitted option matches the revealed one.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.correct != "" && m.chosen == m.correct
}

func (m MultiChoice) View() string {
	rows := make([]string, 0, len(m.Options)+2)
	rows = append(rows, theme.Body.Bold(true).Render(m.Question), "")
	for i, opt := range m.Options {
		cursor := "  "
		if i == m.Selected && !m.Submitted {
			cursor = "▸ "
		}
		l := mcq.Letters[i]
		rows = append(rows, m.style(i, l).Render(cursor+string(l)+")  "+opt))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...) + "\n"
}

func (m MultiChoice) style(i int, l mcq.Letter) lipgloss.Style {
	switch {
	case m.correct != "" && l == m.correct:
		return theme.Correct
	case m.correct != "" && l == m.chosen:
		return theme.Incorrect
	case m.Submitted:
		return theme.Dimmed
	case i == m.Selected:
		return theme.Selected
	}
	return theme.Unselected
}
