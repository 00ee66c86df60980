package onboard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/tui/theme"
	"github.com/fieldline/onboard/internal/tui/wizard"
)

// linksRowCount is the number of focusable rows: three URL inputs followed by
// two visibility selectors.
const linksRowCount = 5

// LinksStep collects the optional social links and the two privacy settings.
// URL rows are text inputs; visibility rows cycle through the levels with
// left/right.
type LinksStep struct {
	urls       []identityField
	focusIndex int
	width      int
	height     int

	form   *form.State
	errors *form.Errors
}

// NewLinksStep creates the links step prefilled from the form state.
func NewLinksStep(st *form.State, errs *form.Errors) *LinksStep {
	s := &LinksStep{form: st, errors: errs}
	s.urls = []identityField{
		{form.FieldInstagramURL, "Instagram (optional)", newInput("https://instagram.com/you", st.String(form.FieldInstagramURL))},
		{form.FieldTwitterURL, "X / Twitter (optional)", newInput("https://x.com/you", st.String(form.FieldTwitterURL))},
		{form.FieldStravaURL, "Strava (optional)", newInput("https://strava.com/athletes/123", st.String(form.FieldStravaURL))},
	}
	return s
}

// Init focuses the first URL input.
func (s *LinksStep) Init() tea.Cmd {
	s.focusIndex = 0
	s.updateFocus()
	return textinput.Blink
}

// Focus gives focus to the first row.
func (s *LinksStep) Focus() tea.Cmd {
	s.focusIndex = 0
	s.updateFocus()
	return nil
}

// FocusLast gives focus to the last row.
func (s *LinksStep) FocusLast() tea.Cmd {
	s.focusIndex = linksRowCount - 1
	s.updateFocus()
	return nil
}

// Blur removes focus from all rows.
func (s *LinksStep) Blur() {
	for i := range s.urls {
		s.urls[i].input.Blur()
	}
	s.focusIndex = -1
}

// SetSize updates the dimensions for the links step.
func (s *LinksStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	for i := range s.urls {
		s.urls[i].input.SetWidth(width - 10)
	}
}

// visibilityField maps a selector row index (3 or 4) to its form field.
func visibilityField(row int) string {
	if row == 3 {
		return form.FieldProfileVisibility
	}
	return form.FieldLinksVisibility
}

// Update handles messages for the links step.
func (s *LinksStep) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "tab", "down":
		if s.focusIndex >= linksRowCount-1 {
			return func() tea.Msg { return wizard.TabExitForwardMsg{} }
		}
		s.focusIndex++
		s.updateFocus()
		return nil

	case "shift+tab", "up":
		if s.focusIndex <= 0 {
			return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
		}
		s.focusIndex--
		s.updateFocus()
		return nil

	case "enter":
		return func() tea.Msg { return NextRequestedMsg{} }
	}

	// Visibility selector rows cycle with left/right.
	if s.focusIndex >= len(s.urls) {
		field := visibilityField(s.focusIndex)
		switch keyMsg.String() {
		case "left", "h":
			s.form.SetString(field, cycleVisibility(s.form.String(field), -1))
		case "right", "l", " ":
			s.form.SetString(field, cycleVisibility(s.form.String(field), 1))
		}
		return nil
	}

	var cmd tea.Cmd
	f := &s.urls[s.focusIndex]
	f.input, cmd = f.input.Update(msg)
	s.form.SetString(f.name, f.input.Value())
	s.errors.Clear(f.name)
	return cmd
}

// cycleVisibility steps through the visibility levels in display order.
func cycleVisibility(current string, dir int) string {
	idx := 0
	for i, lvl := range form.VisibilityLevels {
		if lvl == current {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(form.VisibilityLevels)) % len(form.VisibilityLevels)
	return form.VisibilityLevels[idx]
}

// View renders the links step.
func (s *LinksStep) View() string {
	t := theme.Current()
	var b strings.Builder

	for _, f := range s.urls {
		b.WriteString(t.S().Label.Render(f.label))
		b.WriteString("\n")
		b.WriteString(f.input.View())
		b.WriteString("\n")
		if msg := s.errors.Get(f.name); msg != "" {
			b.WriteString(renderFieldError(msg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString(s.renderVisibilityRow(3, "Profile visibility"))
	b.WriteString("\n")
	b.WriteString(s.renderVisibilityRow(4, "Links visibility"))
	b.WriteString("\n\n")

	b.WriteString(wizard.RenderHintBar(
		"tab", "next field",
		"←→", "change visibility",
		"enter", "continue",
		"esc", "back",
	))

	return b.String()
}

// renderVisibilityRow renders one selector row with the active level
// highlighted.
func (s *LinksStep) renderVisibilityRow(row int, label string) string {
	t := theme.Current()
	field := visibilityField(row)
	current := s.form.String(field)

	activeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.BgBase)).
		Background(lipgloss.Color(t.Secondary)).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgSubtle)).
		Padding(0, 1)

	var options []string
	for _, lvl := range form.VisibilityLevels {
		if lvl == current {
			options = append(options, activeStyle.Render(lvl))
		} else {
			options = append(options, inactiveStyle.Render(lvl))
		}
	}

	labelStyle := t.S().Label
	if s.focusIndex == row {
		labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Secondary)).Bold(true)
	}

	return labelStyle.Render(label) + "  " + strings.Join(options, " ")
}

func (s *LinksStep) updateFocus() {
	for i := range s.urls {
		if i == s.focusIndex {
			s.urls[i].input.Focus()
		} else {
			s.urls[i].input.Blur()
		}
	}
}
