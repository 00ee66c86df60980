package onboard

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fieldline/onboard/internal/tui/theme"
)

// newInput creates a themed text input with the standard cursor and focus
// styling used across all wizard steps.
func newInput(placeholder, value string) textinput.Model {
	t := theme.Current()

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = ""
	ti.SetStyles(textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgSubtle)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(t.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	})
	ti.SetWidth(50)
	ti.SetValue(value)
	return ti
}

// renderFieldError renders an inline validation error, or "" when clean.
func renderFieldError(msg string) string {
	if msg == "" {
		return ""
	}
	return theme.Current().S().FieldError.Render("✗ " + msg)
}
