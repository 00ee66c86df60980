package onboard

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/tui/theme"
	"github.com/fieldline/onboard/internal/tui/wizard"
)

// SportsStep is a multi-select checklist over the sport catalog.
type SportsStep struct {
	cursor int
	width  int
	height int

	form   *form.State
	errors *form.Errors
}

// NewSportsStep creates the sports step.
func NewSportsStep(st *form.State, errs *form.Errors) *SportsStep {
	return &SportsStep{form: st, errors: errs}
}

// Init is a no-op; the checklist needs no startup command.
func (s *SportsStep) Init() tea.Cmd {
	return nil
}

// Focus places the cursor at the first entry.
func (s *SportsStep) Focus() tea.Cmd {
	s.cursor = 0
	return nil
}

// FocusLast places the cursor at the last entry.
func (s *SportsStep) FocusLast() tea.Cmd {
	s.cursor = len(form.SportTypes) - 1
	return nil
}

// Blur is a no-op; the checklist has no focusable inputs.
func (s *SportsStep) Blur() {}

// SetSize updates the dimensions for the sports step.
func (s *SportsStep) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// Update handles messages for the sports step.
func (s *SportsStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(form.SportTypes)-1 {
			s.cursor++
		}
	case "tab":
		return func() tea.Msg { return wizard.TabExitForwardMsg{} }
	case "shift+tab":
		return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
	case " ", "x":
		s.form.Toggle(form.FieldSportTypes, form.SportTypes[s.cursor])
		if len(s.form.List(form.FieldSportTypes)) > 0 {
			s.errors.Clear(form.FieldSportTypes)
		}
	case "enter":
		return func() tea.Msg { return NextRequestedMsg{} }
	}

	return nil
}

// View renders the sports checklist.
func (s *SportsStep) View() string {
	t := theme.Current()
	var b strings.Builder

	b.WriteString(t.S().Label.Render("Which sports do you do?"))
	b.WriteString("\n\n")

	cursorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)).Bold(true)
	checkedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success))
	normalStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase))

	for i, sport := range form.SportTypes {
		marker := "[ ]"
		lineStyle := normalStyle
		if s.form.Contains(form.FieldSportTypes, sport) {
			marker = "[x]"
			lineStyle = checkedStyle
		}

		prefix := "  "
		if i == s.cursor {
			prefix = cursorStyle.Render("> ")
		}

		b.WriteString(prefix)
		b.WriteString(lineStyle.Render(marker + " " + sport))
		b.WriteString("\n")
	}

	if msg := s.errors.Get(form.FieldSportTypes); msg != "" {
		b.WriteString("\n")
		b.WriteString(renderFieldError(msg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(wizard.RenderHintBar(
		"↑↓", "navigate",
		"space", "toggle",
		"enter", "continue",
		"esc", "back",
	))

	return b.String()
}
