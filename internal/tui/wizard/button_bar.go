package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/fieldline/onboard/internal/tui/theme"
)

// ButtonID identifies a button slot in a two-button bar.
type ButtonID int

const (
	ButtonNone ButtonID = iota - 1
	ButtonBack
	ButtonNext
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with focus tracking. Focus moves with
// FocusNext/FocusPrev and falls off either end so the parent can hand focus
// back to the step content.
type ButtonBar struct {
	buttons []Button
	focused int // index of the focused button, -1 when blurred
	width   int
}

// NewButtonBar creates a new button bar with the given buttons, unfocused.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		focused: -1,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// FocusFirst focuses the first enabled button.
func (b *ButtonBar) FocusFirst() {
	for i, btn := range b.buttons {
		if btn.State != ButtonDisabled {
			b.focused = i
			return
		}
	}
	b.focused = -1
}

// FocusLast focuses the last enabled button.
func (b *ButtonBar) FocusLast() {
	for i := len(b.buttons) - 1; i >= 0; i-- {
		if b.buttons[i].State != ButtonDisabled {
			b.focused = i
			return
		}
	}
	b.focused = -1
}

// FocusNext moves focus forward. Returns false when focus falls off the end;
// the bar is blurred in that case.
func (b *ButtonBar) FocusNext() bool {
	for i := b.focused + 1; i < len(b.buttons); i++ {
		if b.buttons[i].State != ButtonDisabled {
			b.focused = i
			return true
		}
	}
	b.focused = -1
	return false
}

// FocusPrev moves focus backward. Returns false when focus falls off the
// front; the bar is blurred in that case.
func (b *ButtonBar) FocusPrev() bool {
	for i := b.focused - 1; i >= 0; i-- {
		if b.buttons[i].State != ButtonDisabled {
			b.focused = i
			return true
		}
	}
	b.focused = -1
	return false
}

// Blur removes focus from all buttons.
func (b *ButtonBar) Blur() {
	b.focused = -1
}

// IsFocused reports whether any button has focus.
func (b *ButtonBar) IsFocused() bool {
	return b.focused >= 0
}

// FocusedButton returns the ID of the focused button, or ButtonNone.
func (b *ButtonBar) FocusedButton() ButtonID {
	if b.focused < 0 || b.focused >= len(b.buttons) {
		return ButtonNone
	}
	// In a single-button bar the only button acts as Next.
	if len(b.buttons) == 1 {
		return ButtonNext
	}
	return ButtonID(b.focused)
}

// SetEnabled enables or disables the button in the given slot.
func (b *ButtonBar) SetEnabled(id ButtonID, enabled bool) {
	idx := int(id)
	if idx < 0 || idx >= len(b.buttons) {
		return
	}
	if enabled {
		b.buttons[idx].State = ButtonNormal
	} else {
		b.buttons[idx].State = ButtonDisabled
		if b.focused == idx {
			b.focused = -1
		}
	}
}

// Render renders the button bar with proper spacing and styling.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	t := theme.Current()

	normalStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Background(lipgloss.Color(t.BgSurface0)).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	disabledStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted)).
		Background(lipgloss.Color(t.BgMantle)).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	focusedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.BgBase)).
		Background(lipgloss.Color(t.Secondary)).
		Bold(true).
		Padding(0, 2).
		MarginLeft(1).
		MarginRight(1)

	var renderedButtons []string
	for i, btn := range b.buttons {
		var rendered string
		switch {
		case i == b.focused:
			rendered = focusedStyle.Render(btn.Label)
		case btn.State == ButtonDisabled:
			rendered = disabledStyle.Render(btn.Label)
		default:
			rendered = normalStyle.Render(btn.Label)
		}
		renderedButtons = append(renderedButtons, rendered)
	}

	result := strings.Join(renderedButtons, "")

	// Center the button bar
	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, result)
}

// CreateBackNextButtons creates the standard Back/Next button set.
// backEnabled: whether Back button is enabled
// nextLabel: custom label for next button (e.g., "Next →", "Submit")
func CreateBackNextButtons(backEnabled bool, nextLabel string) []Button {
	backState := ButtonNormal
	if !backEnabled {
		backState = ButtonDisabled
	}
	return []Button{
		{Label: "← Back", State: backState},
		{Label: nextLabel, State: ButtonNormal},
	}
}
