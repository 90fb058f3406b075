package setup

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mcqbot/internal/problemgen"
	"github.com/abhisek/mcqbot/internal/quiz"
	"github.com/abhisek/mcqbot/internal/screen"
	"github.com/abhisek/mcqbot/internal/store"
	"github.com/abhisek/mcqbot/internal/ui/components"
	"github.com/abhisek/mcqbot/internal/ui/layout"
	"github.com/abhisek/mcqbot/internal/ui/theme"
)

type step int

const (
	stepUser step = iota
	stepTopic
	stepSubtopic
	stepDifficulty
	stepLanguage
)

var prompts = map[step]string{
	stepUser:       "Who is playing?",
	stepTopic:      "Choose a topic",
	stepSubtopic:   "Choose a math subtopic",
	stepDifficulty: "Choose a difficulty",
	stepLanguage:   "Choose a language",
}

// PlayFactory builds the quiz screen once the request is complete.
type PlayFactory func(req quiz.Request) screen.Screen

// SetupScreen collects the user and question preferences before a quiz.
type SetupScreen struct {
	step  step
	req   quiz.Request
	prefs store.Preferences
	input textinput.Model
	menu  components.Menu
	play  PlayFactory
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates a SetupScreen. An empty user starts with a name prompt;
// prefs preselect each menu.
func New(user string, prefs store.Preferences, play PlayFactory) *SetupScreen {
	s := &SetupScreen{
		req:   quiz.Request{User: user},
		prefs: prefs,
		play:  play,
		input: newNameInput(),
	}
	if user == "" {
		s.step = stepUser
	} else {
		s.enter(stepTopic)
	}
	return s
}

func (s *SetupScreen) Init() tea.Cmd {
	if s.step == stepUser {
		return s.input.Focus()
	}
	return nil
}

func (s *SetupScreen) Title() string {
	return "New Quiz"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.step == stepUser {
		return []layout.KeyHint{{Key: "Enter", Description: "Continue"}, {Key: "Esc", Description: "Quit"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if s.step == stepUser {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return s, cmd
		}
		return s, nil
	}

	switch kmsg.String() {
	case "esc":
		return s, s.back()
	case "enter":
		return s, s.advance()
	}

	var cmd tea.Cmd
	if s.step == stepUser {
		s.input, cmd = s.input.Update(msg)
	} else {
		s.menu, cmd = s.menu.Update(msg)
	}
	return s, cmd
}

// advance stores the current answer and moves on, returning the play
// screen after the last step.
func (s *SetupScreen) advance() tea.Cmd {
	switch s.step {
	case stepUser:
		user := strings.TrimSpace(s.input.Value())
		if user == "" {
			return nil
		}
		s.req.User = user
		s.enter(stepTopic)
	case stepTopic:
		s.req.Topic = s.menu.Value()
		if s.req.Topic == problemgen.MathTopic {
			s.enter(stepSubtopic)
		} else {
			s.req.Subtopic = ""
			s.enter(stepDifficulty)
		}
	case stepSubtopic:
		s.req.Subtopic = s.menu.Value()
		s.enter(stepDifficulty)
	case stepDifficulty:
		s.req.Difficulty = s.menu.Value()
		s.enter(stepLanguage)
	case stepLanguage:
		s.req.Language = s.menu.Value()
		return screen.Replace(s.play(s.req))
	}
	return nil
}

func (s *SetupScreen) back() tea.Cmd {
	switch s.step {
	case stepUser:
		return screen.Pop
	case stepTopic:
		if strings.TrimSpace(s.input.Value()) == "" {
			return screen.Pop
		}
		s.step = stepUser
		return s.input.Focus()
	case stepDifficulty:
		if s.req.Topic == problemgen.MathTopic {
			s.enter(stepSubtopic)
		} else {
			s.enter(stepTopic)
		}
	default:
		s.enter(s.step - 1)
	}
	return nil
}

func (s *SetupScreen) enter(st step) {
	s.step = st
	switch st {
	case stepTopic:
		s.menu = components.NewMenu(append([]string{problemgen.RandomTopic}, problemgen.Topics...), firstNonEmpty(s.req.Topic, s.prefs.Topic))
	case stepSubtopic:
		s.menu = components.NewMenu(append([]string{problemgen.RandomTopic}, problemgen.MathSubtopics...), firstNonEmpty(s.req.Subtopic, s.prefs.MathSubtopic))
	case stepDifficulty:
		s.menu = components.NewMenu(problemgen.Difficulties, firstNonEmpty(s.req.Difficulty, s.prefs.Difficulty))
	case stepLanguage:
		s.menu = components.NewMenu(problemgen.Languages, firstNonEmpty(s.req.Language, s.prefs.Language))
	}
}

func (s *SetupScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render(prompts[s.step]))
	b.WriteString("\n\n")
	if s.step == stepUser {
		b.WriteString(s.input.View())
	} else {
		b.WriteString(s.menu.View(max(height-8, 4)))
	}
	card := theme.Card.Width(min(width-4, 60)).Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func newNameInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "your name or id"
	ti.CharLimit = 64
	ti.Focus()
	return ti
}
