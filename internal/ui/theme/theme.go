// Package theme holds the colours and styles shared by every screen.
package theme

import "charm.land/lipgloss/v2"

var (
	Primary   = lipgloss.Color("#4F46E5") // indigo, titles and the cursor
	Secondary = lipgloss.Color("#0EA5E9") // sky, question counters
	Accent    = lipgloss.Color("#EAB308") // gold, score
	Success   = lipgloss.Color("#16A34A")
	Error     = lipgloss.Color("#DC2626")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#8B95A7")
	BgCard    = lipgloss.Color("#171E2E")
	Border    = lipgloss.Color("#3B4658")
)

var base = lipgloss.NewStyle().Foreground(Text)

var (
	Title   = base.Foreground(Primary).Bold(true)
	Body    = base
	Hint    = base.Foreground(TextDim).Italic(true)
	Warning = base.Foreground(Accent)
	Dimmed  = base.Foreground(TextDim)
)

// Option styles, by answer state.
var (
	Selected   = base.Foreground(Primary).Bold(true)
	Unselected = base
	Correct    = base.Foreground(Success).Bold(true)
	Incorrect  = base.Foreground(Error).Bold(true)
)

// Card frames the question and feedback panels.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border).
	Padding(1, 2)

// Bar is the framed strip used for the header and footer.
var Bar = lipgloss.NewStyle().
	Background(BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Border)
