package onboard

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/fieldline/onboard/internal/api"
	"github.com/fieldline/onboard/internal/tui/theme"
	"github.com/fieldline/onboard/internal/tui/wizard"
)

// CompletionStep shows the success screen after the profile is created, or
// the notice that a profile already exists for this account.
type CompletionStep struct {
	profile       *api.ProfileRecord
	alreadyExists bool
	buttonBar     *wizard.ButtonBar
	width         int
	height        int
}

// NewCompletionStep creates a completion step for a created profile.
func NewCompletionStep(profile *api.ProfileRecord) *CompletionStep {
	return &CompletionStep{
		profile:   profile,
		buttonBar: wizard.NewButtonBar([]wizard.Button{{Label: "Done", State: wizard.ButtonNormal}}),
	}
}

// NewAlreadyExistsStep creates the terminal screen for the case where the
// account already has a profile.
func NewAlreadyExistsStep() *CompletionStep {
	return &CompletionStep{
		alreadyExists: true,
		buttonBar:     wizard.NewButtonBar([]wizard.Button{{Label: "Done", State: wizard.ButtonNormal}}),
	}
}

// Init auto-focuses the Done button.
func (s *CompletionStep) Init() tea.Cmd {
	s.buttonBar.FocusFirst()
	return nil
}

// Focus returns focus to the button.
func (s *CompletionStep) Focus() tea.Cmd {
	s.buttonBar.FocusFirst()
	return nil
}

// FocusLast is the same as Focus for a single button.
func (s *CompletionStep) FocusLast() tea.Cmd {
	return s.Focus()
}

// Blur removes button focus.
func (s *CompletionStep) Blur() {
	s.buttonBar.Blur()
}

// SetSize updates the dimensions for the completion step.
func (s *CompletionStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.buttonBar.SetWidth(width)
}

// Update handles messages for the completion step.
func (s *CompletionStep) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyPressMsg); ok {
		switch keyMsg.String() {
		case "enter", " ", "q":
			return tea.Quit
		}
	}
	return nil
}

// View renders the completion step.
func (s *CompletionStep) View() string {
	t := theme.Current()
	var b strings.Builder

	if s.alreadyExists {
		b.WriteString(t.S().Title.Render("You already have a profile"))
		b.WriteString("\n\n")
		b.WriteString(t.S().Hint.Render("This account is already set up, nothing more to do here."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(t.S().Success.Render("✓ Welcome, " + s.profile.Nickname + "!"))
		b.WriteString("\n\n")
		b.WriteString(t.S().Label.Render("Profile ID: "))
		b.WriteString(t.S().Title.Render(s.profile.ID))
		b.WriteString("\n\n")
		b.WriteString(t.S().Hint.Render("Your profile is live. See you out there."))
		b.WriteString("\n\n")
	}

	b.WriteString(s.buttonBar.Render())
	b.WriteString("\n")
	b.WriteString(wizard.RenderHintBar("enter", "close"))

	return b.String()
}
