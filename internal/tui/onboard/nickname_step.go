package onboard

import (
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/nickname"
	"github.com/fieldline/onboard/internal/tui/theme"
	"github.com/fieldline/onboard/internal/tui/wizard"
)

// NicknameStep collects the nickname and surfaces the live availability
// verdict next to the input. Keystrokes feed the checker; its transitions
// arrive as NicknameStateMsg and update the indicator.
type NicknameStep struct {
	input      textinput.Model
	spinner    spinner.Model
	availState nickname.State
	width      int
	height     int

	form    *form.State
	errors  *form.Errors
	checker *nickname.Checker
}

// NewNicknameStep creates the nickname step. The suggestion prefills the
// input only when the field is still empty.
func NewNicknameStep(st *form.State, errs *form.Errors, checker *nickname.Checker, suggestion string) *NicknameStep {
	value := st.String(form.FieldNickname)
	if value == "" && suggestion != "" {
		value = suggestion
		st.SetString(form.FieldNickname, value)
	}

	t := theme.Current()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Primary))

	s := &NicknameStep{
		input:   newInput("letters, numbers, underscores", value),
		spinner: sp,
		form:    st,
		errors:  errs,
		checker: checker,
	}
	if checker != nil {
		s.availState = checker.State()
	}
	return s
}

// Init focuses the input and kicks off a check for any prefilled value.
func (s *NicknameStep) Init() tea.Cmd {
	s.input.Focus()
	cmds := []tea.Cmd{textinput.Blink}
	if value := s.input.Value(); value != "" && s.checker != nil {
		s.checker.Input(value)
		cmds = append(cmds, s.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Focus gives focus to the nickname input.
func (s *NicknameStep) Focus() tea.Cmd {
	s.input.Focus()
	return nil
}

// FocusLast is the same as Focus for a single-input step.
func (s *NicknameStep) FocusLast() tea.Cmd {
	return s.Focus()
}

// Blur removes focus from the input.
func (s *NicknameStep) Blur() {
	s.input.Blur()
}

// SetSize updates the dimensions for the nickname step.
func (s *NicknameStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.input.SetWidth(width - 10)
}

// Update handles messages for the nickname step.
func (s *NicknameStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab":
			return func() tea.Msg { return wizard.TabExitForwardMsg{} }
		case "shift+tab":
			return func() tea.Msg { return wizard.TabExitBackwardMsg{} }
		case "enter":
			return func() tea.Msg { return NextRequestedMsg{} }
		}

		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)

		value := s.input.Value()
		s.form.SetString(form.FieldNickname, value)
		// The checker owns the taken verdict; typing retracts it until the
		// fresh check lands. Other errors on the field clear the normal way.
		s.errors.Clear(form.FieldNickname)
		if s.checker != nil {
			s.checker.Input(value)
		}
		return tea.Batch(cmd, s.spinner.Tick)

	case NicknameStateMsg:
		s.availState = msg.State
		switch msg.State.Status {
		case nickname.StatusTaken:
			if !msg.State.StaleFor(s.form.String(form.FieldNickname)) {
				s.errors.Set(form.FieldNickname, nicknameTakenMessage)
			}
		case nickname.StatusAvailable:
			s.errors.ClearIf(form.FieldNickname, nicknameTakenMessage)
			s.errors.ClearIf(form.FieldNickname, nicknameCheckingMessage)
		}
		if msg.State.Status == nickname.StatusChecking {
			return s.spinner.Tick
		}
		return nil

	case spinner.TickMsg:
		if s.availState.Status == nickname.StatusChecking {
			var cmd tea.Cmd
			s.spinner, cmd = s.spinner.Update(msg)
			return cmd
		}
		return nil
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

// View renders the nickname step.
func (s *NicknameStep) View() string {
	t := theme.Current()
	var b strings.Builder

	b.WriteString(t.S().Label.Render("Nickname"))
	b.WriteString("\n")
	b.WriteString(s.input.View())
	b.WriteString("\n")
	b.WriteString(s.renderAvailability())
	b.WriteString("\n")

	if msg := s.errors.Get(form.FieldNickname); msg != "" && msg != nicknameTakenMessage {
		// The taken verdict already shows in the availability line.
		b.WriteString(renderFieldError(msg))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(wizard.RenderHintBar(
		"enter", "continue",
		"esc", "back",
	))

	return b.String()
}

// renderAvailability renders the live verdict line under the input.
func (s *NicknameStep) renderAvailability() string {
	t := theme.Current()
	live := s.form.String(form.FieldNickname)

	if s.availState.StaleFor(live) && s.availState.Status != nickname.StatusChecking {
		return t.S().Pending.Render("…")
	}

	switch s.availState.Status {
	case nickname.StatusChecking:
		return s.spinner.View() + t.S().Pending.Render(" Checking availability…")
	case nickname.StatusAvailable:
		return t.S().Success.Render("✓ " + s.availState.CheckedValue + " is available")
	case nickname.StatusTaken:
		return t.S().FieldError.Render("✗ " + nicknameTakenMessage)
	case nickname.StatusErrored:
		return t.S().Pending.Render("! Could not verify availability, we'll check again at submission")
	default:
		return t.S().Hint.Render("3-30 characters, letters, numbers, underscores")
	}
}
