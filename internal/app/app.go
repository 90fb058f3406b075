package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mcqbot/internal/screen"
	"github.com/abhisek/mcqbot/internal/ui/layout"
)

// AppModel is the root Bubble Tea model. It owns the screen stack and
// draws the header and footer around the active screen.
type AppModel struct {
	stack  []screen.Screen
	width  int
	height int
}

// New creates an AppModel showing root.
func New(root screen.Screen) AppModel {
	return AppModel{stack: []screen.Screen{root}}
}

func (m AppModel) Init() tea.Cmd {
	return m.active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case screen.PushMsg:
		m.stack = append(m.stack, msg.Screen)
		return m, msg.Screen.Init()

	case screen.ReplaceMsg:
		m.stack = append(m.stack[:len(m.stack)-1:len(m.stack)-1], msg.Screen)
		return m, msg.Screen.Init()

	case screen.PopMsg:
		if len(m.stack) == 1 {
			return m, tea.Quit
		}
		m.stack = m.stack[:len(m.stack)-1]
		return m, nil
	}

	updated, cmd := m.active().Update(msg)
	m.stack = append(m.stack[:len(m.stack)-1:len(m.stack)-1], updated)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.active()
	var correct, attempted int
	if sp, ok := active.(screen.ScoreProvider); ok {
		correct, attempted = sp.Score()
	}
	header := layout.RenderHeader(active.Title(), correct, attempted, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		hints = append(hp.KeyHints(), hints...)
	}
	footer := layout.RenderFooter(hints, m.width)

	content := active.View(m.width, layout.ContentHeight(header, footer, m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Depth returns the number of screens on the stack.
func (m AppModel) Depth() int {
	return len(m.stack)
}

func (m AppModel) active() screen.Screen {
	return m.stack[len(m.stack)-1]
}

// Run starts the Bubble Tea program with root as the first screen.
func Run(root screen.Screen) error {
	_, err := tea.NewProgram(New(root)).Run()
	return err
}
