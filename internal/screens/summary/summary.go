package summary

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mcqbot/internal/screen"
	"github.com/abhisek/mcqbot/internal/session"
	"github.com/abhisek/mcqbot/internal/ui/components"
	"github.com/abhisek/mcqbot/internal/ui/layout"
	"github.com/abhisek/mcqbot/internal/ui/theme"
)

// SummaryScreen displays the results of a play loop.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.ScoreProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) Score() (int, int) {
	if s.summary == nil {
		return 0, 0
	}
	return s.summary.TotalCorrect, s.summary.TotalQuestions
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Exit"},
		{Key: "Esc", Description: "Exit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, screen.Pop
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	d := sum.Duration.Round(time.Second)
	lines := []string{
		theme.Title.Render("Quiz complete!"),
		"",
		theme.Body.Render(fmt.Sprintf("%d of %d correct (%.0f%%)", sum.TotalCorrect, sum.TotalQuestions, sum.Accuracy*100)),
		theme.Dimmed.Render(fmt.Sprintf("played for %d:%02d", int(d.Minutes()), int(d.Seconds())%60)),
		"",
	}
	if len(sum.Topics) == 0 {
		lines = append(lines, theme.Hint.Render("No questions answered."))
		return center(width, lines)
	}

	barWidth := min(width-8, 70)
	lines = append(lines,
		theme.Dimmed.Render("By topic"),
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(barWidth, 0))),
	)
	for _, p := range sum.Topics {
		label := fmt.Sprintf("%-28s %d/%d", clip(p.Topic, 28), p.Correct, p.Attempted)
		lines = append(lines, components.NewProgressBar(label, p.Accuracy*100, barWidth).View())
	}
	return center(width, lines)
}

func center(width int, lines []string) string {
	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, block)
}

func clip(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}
