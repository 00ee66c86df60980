package onboard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/tui/theme"
	"github.com/fieldline/onboard/internal/tui/wizard"
)

// identityField pairs an input with the form field it edits.
type identityField struct {
	name  string
	label string
	input textinput.Model
}

// IdentityStep collects first name, last name, email, and date of birth.
type IdentityStep struct {
	fields     []identityField
	focusIndex int
	width      int
	height     int

	form   *form.State
	errors *form.Errors
}

// NewIdentityStep creates the identity step prefilled from the form state.
func NewIdentityStep(st *form.State, errs *form.Errors) *IdentityStep {
	s := &IdentityStep{form: st, errors: errs}
	s.fields = []identityField{
		{form.FieldFirstName, "First name", newInput("e.g. Ada", st.String(form.FieldFirstName))},
		{form.FieldLastName, "Last name", newInput("e.g. Lovelace", st.String(form.FieldLastName))},
		{form.FieldEmail, "Email", newInput("you@example.com", st.String(form.FieldEmail))},
		{form.FieldDateOfBirth, "Date of birth (YYYY-MM-DD)", newInput("1990-12-10", st.String(form.FieldDateOfBirth))},
	}
	return s
}

// Init focuses the first input.
func (s *IdentityStep) Init() tea.Cmd {
	s.focusIndex = 0
	s.updateFocus()
	return textinput.Blink
}

// Focus gives focus to the first input.
func (s *IdentityStep) Focus() tea.Cmd {
	s.focusIndex = 0
	s.updateFocus()
	return nil
}

// FocusLast gives focus to the last input.
func (s *IdentityStep) FocusLast() tea.Cmd {
	s.focusIndex = len(s.fields) - 1
	s.updateFocus()
	return nil
}

// Blur removes focus from all inputs.
func (s *IdentityStep) Blur() {
	for i := range s.fields {
		s.fields[i].input.Blur()
	}
}

// SetSize updates the dimensions for the identity step.
func (s *IdentityStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	for i := range s.fields {
		s.fields[i].input.SetWidth(width - 10)
	}
}

// Update handles messages for the identity step.
func (s *IdentityStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "tab", "down":
			if s.focusIndex == len(s.fields)-1 {
				return func() tea.Msg { return wizard.TabExitForwardMsg{} }
			}
			s.focusIndex++
			s.updateFocus()
			return nil

		case "shift+tab", "up":
			if s.focusIndex == 0 {
				return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
			}
			s.focusIndex--
			s.updateFocus()
			return nil

		case "enter":
			return func() tea.Msg { return NextRequestedMsg{} }
		}
	}

	var cmd tea.Cmd
	f := &s.fields[s.focusIndex]
	f.input, cmd = f.input.Update(msg)

	// Mirror the live value into the shared form state; editing a field
	// retracts its current error until the next gate run.
	if _, ok := msg.(tea.KeyPressMsg); ok {
		s.form.SetString(f.name, f.input.Value())
		s.errors.Clear(f.name)
	}

	return cmd
}

// View renders the identity step.
func (s *IdentityStep) View() string {
	t := theme.Current()
	var b strings.Builder

	for i, f := range s.fields {
		b.WriteString(t.S().Label.Render(f.label))
		b.WriteString("\n")
		b.WriteString(f.input.View())
		b.WriteString("\n")
		if msg := s.errors.Get(f.name); msg != "" {
			b.WriteString(renderFieldError(msg))
			b.WriteString("\n")
		}
		if i < len(s.fields)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(wizard.RenderHintBar(
		"tab", "next field",
		"enter", "continue",
		"esc", "quit",
	))

	return b.String()
}

func (s *IdentityStep) updateFocus() {
	for i := range s.fields {
		if i == s.focusIndex {
			s.fields[i].input.Focus()
		} else {
			s.fields[i].input.Blur()
		}
	}
}
