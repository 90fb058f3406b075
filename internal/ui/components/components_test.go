package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func TestMultiChoice_LetterSubmits(t *testing.T) {
	m := NewMultiChoice("Q?", []string{"a", "b", "c", "d"})
	m, _ = m.Update(key("c"))
	if !m.Submitted || m.Chosen() != "C" {
		t.Fatalf("chosen = %q submitted=%v", m.Chosen(), m.Submitted)
	}

	// Further input is ignored.
	m, _ = m.Update(key("a"))
	if m.Chosen() != "C" {
		t.Errorf("chosen changed to %q", m.Chosen())
	}
}

func TestMultiChoice_ArrowsAndEnter(t *testing.T) {
	m := NewMultiChoice("Q?", []string{"a", "b", "c", "d"})
	for _, k := range []string{"up", "down", "down", "down", "down", "down"} {
		m, _ = m.Update(key(k))
	}
	if m.Selected != 3 {
		t.Fatalf("Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(key("enter"))
	if m.Chosen() != "D" {
		t.Errorf("chosen = %q, want D", m.Chosen())
	}
}

func TestMultiChoice_RevealAndReset(t *testing.T) {
	m := NewMultiChoice("Q?", []string{"a", "b", "c", "d"})
	if m.Chosen() != "" {
		t.Error("nothing should be chosen initially")
	}
	m, _ = m.Update(key("b"))
	m.Reveal("B")
	if !m.IsCorrect() {
		t.Error("expected correct after revealing B")
	}
	if !strings.Contains(m.View(), "B)  b") {
		t.Errorf("view = %q", m.View())
	}

	m.Reset()
	if m.Submitted || m.Chosen() != "" {
		t.Error("Reset should clear the submission")
	}
	if m.Selected != 1 {
		t.Errorf("Reset should keep the cursor, got %d", m.Selected)
	}
}

func TestMenu(t *testing.T) {
	m := NewMenu([]string{"x", "y", "z"}, "y")
	if m.Value() != "y" {
		t.Fatalf("Value = %q, want y", m.Value())
	}
	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("down"))
	if m.Value() != "z" {
		t.Errorf("Value = %q, want z", m.Value())
	}
	if NewMenu([]string{"x"}, "missing").Value() != "x" {
		t.Error("unknown current should select the first item")
	}
}

func TestMenu_ViewWindow(t *testing.T) {
	items := []string{"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9"}
	m := NewMenu(items, "a9")
	view := m.View(4)
	if got := strings.Count(view, "\n"); got != 4 {
		t.Errorf("rows = %d, want 4", got)
	}
	if !strings.Contains(view, "a9") || strings.Contains(view, "a0") {
		t.Errorf("window should end at the cursor:\n%s", view)
	}
}
