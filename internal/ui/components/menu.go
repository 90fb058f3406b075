package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mcqbot/internal/ui/theme"
)

// Menu is a vertical single-choice list.
type Menu struct {
	Items    []string
	Selected int
}

// NewMenu creates a menu with the cursor on the item equal to current,
// or on the first item.
func NewMenu(items []string, current string) Menu {
	m := Menu{Items: items}
	for i, it := range items {
		if it == current {
			m.Selected = i
			break
		}
	}
	return m
}

// Update moves the cursor. Enter is handled by the owner.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Items)-1 {
			m.Selected++
		}
	}
	return m, nil
}

// Value returns the highlighted item.
func (m Menu) Value() string {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return ""
	}
	return m.Items[m.Selected]
}

// View renders the menu, windowed to at most height rows around the
// cursor.
func (m Menu) View(height int) string {
	start, end := 0, len(m.Items)
	if height > 0 && end > height {
		start = m.Selected - height/2
		if start < 0 {
			start = 0
		}
		if start+height > end {
			start = end - height
		}
		end = start + height
	}

	var s string
	for i := start; i < end; i++ {
		if i == m.Selected {
			s += theme.Selected.Render("  ▸ "+m.Items[i]) + "\n"
		} else {
			s += theme.Unselected.Render("    "+m.Items[i]) + "\n"
		}
	}
	return s
}
