// Package layout draws the frame around every screen: a header with the
// running score, the screen content and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mcqbot/internal/ui/theme"
)

// Smallest terminal a question with four options fits in.
const (
	MinWidth  = 60
	MinHeight = 20
)

type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the player to enlarge the terminal.
func RenderMinSizeMessage(width, height int) string {
	msg := theme.Body.Render(fmt.Sprintf("Window is %dx%d.", width, height)) + "\n" +
		theme.Hint.Render(fmt.Sprintf("Resize to at least %dx%d to keep playing.", MinWidth, MinHeight))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, msg)
}

// RenderHeader shows the app name, the screen title centred, and the score.
func RenderHeader(title string, correct, attempted int, width int) string {
	inner := max(width-4, 0)
	name := theme.Title.Render("MCQ Bot")
	score := theme.Warning.Bold(true).Render(fmt.Sprintf("✓ %d/%d", correct, attempted))

	side := max(lipgloss.Width(name), lipgloss.Width(score)) + 2
	mid := max(inner-2*side, 0)
	line := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(side).PaddingLeft(1).Render(name),
		lipgloss.NewStyle().Width(mid).Align(lipgloss.Center).MaxHeight(1).Render(theme.Body.Render(title)),
		lipgloss.NewStyle().Width(side).PaddingRight(1).Align(lipgloss.Right).Render(score),
	)
	return theme.Bar.Width(width).Render(line)
}

// RenderFooter lists key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = theme.Body.Bold(true).Render(h.Key) + " " + theme.Dimmed.Render(h.Description)
	}
	return theme.Bar.Width(width).Render(" " + strings.Join(parts, "  ·  "))
}

// ContentHeight returns the rows left between header and footer.
func ContentHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(ContentHeight(header, footer, height)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
