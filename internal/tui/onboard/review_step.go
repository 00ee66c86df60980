package onboard

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"

	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/tui/theme"
	"github.com/fieldline/onboard/internal/tui/wizard"
)

// ReviewStep shows the assembled profile for a final look and owns the
// Back/Submit buttons. While a submission is in flight the buttons lock and a
// spinner shows; failures surface either as a generic banner here or as field
// errors after the wizard redirects.
type ReviewStep struct {
	viewport   viewport.Model
	buttonBar  *wizard.ButtonBar
	spinner    spinner.Model
	submitting bool
	message    string // generic failure banner
	width      int
	height     int

	form *form.State
}

// NewReviewStep creates the review step from the accumulated form state.
func NewReviewStep(st *form.State) *ReviewStep {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(12),
	)
	vp.MouseWheelEnabled = true

	t := theme.Current()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary))

	s := &ReviewStep{
		viewport:  vp,
		buttonBar: wizard.NewButtonBar(wizard.CreateBackNextButtons(true, "Submit")),
		spinner:   sp,
		form:      st,
		width:     60,
		height:    16,
	}
	s.viewport.SetContent(renderMarkdown(s.summaryMarkdown(), 60))
	return s
}

// summaryMarkdown assembles the profile summary as markdown.
func (s *ReviewStep) summaryMarkdown() string {
	var b strings.Builder

	b.WriteString("# Your profile\n\n")
	fmt.Fprintf(&b, "**Name:** %s %s\n\n", s.form.String(form.FieldFirstName), s.form.String(form.FieldLastName))
	fmt.Fprintf(&b, "**Nickname:** %s\n\n", strings.ToLower(s.form.String(form.FieldNickname)))
	fmt.Fprintf(&b, "**Email:** %s\n\n", s.form.String(form.FieldEmail))
	fmt.Fprintf(&b, "**Date of birth:** %s\n\n", s.form.String(form.FieldDateOfBirth))
	fmt.Fprintf(&b, "**Sports:** %s\n\n", strings.Join(s.form.List(form.FieldSportTypes), ", "))

	links := []struct{ label, field string }{
		{"Instagram", form.FieldInstagramURL},
		{"X / Twitter", form.FieldTwitterURL},
		{"Strava", form.FieldStravaURL},
	}
	var present []string
	for _, l := range links {
		if v := strings.TrimSpace(s.form.String(l.field)); v != "" {
			present = append(present, fmt.Sprintf("- %s: %s", l.label, v))
		}
	}
	if len(present) > 0 {
		b.WriteString("**Links:**\n\n")
		b.WriteString(strings.Join(present, "\n"))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "**Profile visibility:** %s\n\n", s.form.String(form.FieldProfileVisibility))
	fmt.Fprintf(&b, "**Links visibility:** %s\n", s.form.String(form.FieldLinksVisibility))

	return b.String()
}

// renderMarkdown renders markdown with glamour, falling back to plain text.
func renderMarkdown(content string, width int) string {
	if width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	return strings.TrimSuffix(rendered, "\n")
}

// Init auto-focuses the Submit button.
func (s *ReviewStep) Init() tea.Cmd {
	s.buttonBar.FocusLast()
	return nil
}

// Focus returns focus to the buttons.
func (s *ReviewStep) Focus() tea.Cmd {
	s.buttonBar.FocusLast()
	return nil
}

// FocusLast is the same as Focus; the viewport itself is not focusable.
func (s *ReviewStep) FocusLast() tea.Cmd {
	return s.Focus()
}

// Blur removes button focus.
func (s *ReviewStep) Blur() {
	s.buttonBar.Blur()
}

// SetSize updates the dimensions for the review step.
func (s *ReviewStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.SetWidth(width)

	vpHeight := height - 4
	if vpHeight < 5 {
		vpHeight = 5
	}
	s.viewport.SetHeight(vpHeight)
	s.viewport.SetContent(renderMarkdown(s.summaryMarkdown(), width))
	s.buttonBar.SetWidth(width)
}

// SetSubmitting toggles the in-flight lock.
func (s *ReviewStep) SetSubmitting(v bool) {
	s.submitting = v
	if v {
		s.message = ""
	}
}

// SetMessage sets the generic failure banner.
func (s *ReviewStep) SetMessage(msg string) {
	s.message = msg
}

// Update handles messages for the review step.
func (s *ReviewStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if s.submitting {
			// Input is locked until the attempt resolves.
			return nil
		}
		switch msg.String() {
		case "tab", "right":
			if !s.buttonBar.FocusNext() {
				s.buttonBar.FocusFirst()
			}
			return nil
		case "shift+tab", "left":
			if !s.buttonBar.FocusPrev() {
				s.buttonBar.FocusLast()
			}
			return nil
		case "enter", " ":
			switch s.buttonBar.FocusedButton() {
			case wizard.ButtonBack:
				return func() tea.Msg { return BackRequestedMsg{} }
			case wizard.ButtonNext:
				return func() tea.Msg { return SubmitRequestedMsg{} }
			}
			return nil
		}
		// Scrolling keys fall through to the viewport.

	case spinner.TickMsg:
		if s.submitting {
			var cmd tea.Cmd
			s.spinner, cmd = s.spinner.Update(msg)
			return cmd
		}
		return nil
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// SpinnerTick starts the spinner while a submission is in flight.
func (s *ReviewStep) SpinnerTick() tea.Cmd {
	return s.spinner.Tick
}

// View renders the review step.
func (s *ReviewStep) View() string {
	t := theme.Current()
	var b strings.Builder

	b.WriteString(s.viewport.View())
	b.WriteString("\n")

	if s.message != "" {
		b.WriteString(t.S().FieldError.Render("✗ " + s.message))
		b.WriteString("\n")
	}

	if s.submitting {
		b.WriteString(s.spinner.View())
		b.WriteString(t.S().Pending.Render(" Creating your profile…"))
		b.WriteString("\n")
	} else {
		b.WriteString(s.buttonBar.Render())
		b.WriteString("\n")
	}

	b.WriteString(wizard.RenderHintBar(
		"↑↓", "scroll",
		"tab", "switch button",
		"enter", "confirm",
		"esc", "back",
	))

	return b.String()
}
