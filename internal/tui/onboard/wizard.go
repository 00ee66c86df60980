// Package onboard implements the profile onboarding wizard TUI: a centered
// modal flow over the step controller, with one component per screen and
// typed messages for every transition.
package onboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/fieldline/onboard/internal/api"
	"github.com/fieldline/onboard/internal/config"
	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/identity"
	"github.com/fieldline/onboard/internal/logger"
	"github.com/fieldline/onboard/internal/nickname"
	"github.com/fieldline/onboard/internal/submit"
	"github.com/fieldline/onboard/internal/tui/theme"
	"github.com/fieldline/onboard/internal/tui/wizard"
	"github.com/fieldline/onboard/internal/validation"
	steps "github.com/fieldline/onboard/internal/wizard"
)

// Modal layout constants
const (
	modalWidth        = 70
	modalPadding      = 2
	modalBorderWidth  = 1
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2)
)

// ProgramSender is an interface for sending messages to the Bubbletea
// program. It decouples the checker's notify goroutine from the concrete
// program and keeps tests free of a real terminal.
type ProgramSender interface {
	Send(tea.Msg)
}

// stepComponent is the contract every screen component satisfies.
type stepComponent interface {
	Init() tea.Cmd
	Update(tea.Msg) tea.Cmd
	View() string
	SetSize(width, height int)
	Focus() tea.Cmd
	FocusLast() tea.Cmd
	Blur()
}

// Model is the main Bubbletea model for the onboarding wizard.
type Model struct {
	width     int
	height    int
	cancelled bool

	form        *form.State
	errors      *form.Errors
	controller  *steps.Controller
	checker     *nickname.Checker
	coordinator *submit.Coordinator
	ctx         context.Context

	// Step components, created lazily as the cursor reaches them.
	identityStep *IdentityStep
	nicknameStep *NicknameStep
	sportsStep   *SportsStep
	linksStep    *LinksStep
	reviewStep   *ReviewStep

	// completionStep replaces the flow entirely once set.
	completionStep *CompletionStep

	// Wizard-level Back/Next buttons for the input steps. Review and
	// completion render their own.
	buttonBar     *wizard.ButtonBar
	buttonFocused bool
	cachedBars    map[int]*wizard.ButtonBar

	suggestion string // nickname prefill derived from the identity defaults
	program    ProgramSender
}

// NewModel wires the wizard model from its collaborators. The checker may be
// nil in tests exercising pure navigation.
func NewModel(st *form.State, errs *form.Errors, engine *validation.Engine, checker *nickname.Checker, coordinator *submit.Coordinator, suggestion string) *Model {
	var nickState func() nickname.State
	if checker != nil {
		nickState = checker.State
	}
	return &Model{
		form:        st,
		errors:      errs,
		controller:  steps.New(st, errs, engine, nickState),
		checker:     checker,
		coordinator: coordinator,
		ctx:         context.Background(),
		cachedBars:  make(map[int]*wizard.ButtonBar),
		suggestion:  suggestion,
	}
}

// SetProgram stores the program reference used by async callbacks.
func (m *Model) SetProgram(p ProgramSender) {
	m.program = p
}

// Cancelled reports whether the user left without submitting.
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// Run is the entry point for the onboarding wizard.
func Run(cfg *config.Config) error {
	client := api.NewClient(cfg.APIURL, cfg.AuthToken, time.Duration(cfg.RequestTimeoutMs)*time.Millisecond)

	st := form.NewState()
	errs := form.NewErrors()
	engine := validation.New()

	defaults := identity.FromToken(cfg.AuthToken)
	defaults.Apply(st)
	suggestion := identity.SuggestNickname(defaults.FirstName, defaults.LastName)

	m := NewModel(st, errs, engine, nil, submit.NewCoordinator(client, engine), suggestion)

	p := tea.NewProgram(m)
	m.SetProgram(p)

	// The checker pushes transitions into the program; it needs the program
	// to exist first.
	checker := nickname.NewChecker(client,
		nickname.WithDebounce(time.Duration(cfg.DebounceMs)*time.Millisecond),
		nickname.WithNotify(func(ns nickname.State) {
			p.Send(NicknameStateMsg{State: ns})
		}),
	)
	m.checker = checker
	m.controller = steps.New(st, errs, engine, checker.State)
	defer checker.Close()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("wizard failed: %w", err)
	}

	wm, ok := finalModel.(*Model)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}
	if wm.cancelled {
		return fmt.Errorf("onboarding cancelled by user")
	}
	return nil
}

// Init initializes the wizard model.
func (m *Model) Init() tea.Cmd {
	m.identityStep = NewIdentityStep(m.form, m.errors)
	return m.identityStep.Init()
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateCurrentStepSize()
		return m, nil

	case NextRequestedMsg:
		return m, m.advance()

	case BackRequestedMsg:
		return m, m.goBack()

	case SubmitRequestedMsg:
		return m, m.startSubmit()

	case SubmitResultMsg:
		return m, m.handleSubmitResult(msg)

	case NicknameStateMsg:
		// The nickname step needs the transition even when another message
		// arrives first; it no-ops when not on screen.
		if m.nicknameStep != nil {
			return m, m.nicknameStep.Update(msg)
		}
		return m, nil

	case wizard.TabExitForwardMsg:
		m.focusButtons(false)
		return m, nil

	case wizard.TabExitBackwardMsg:
		m.focusButtons(true)
		return m, nil
	}

	return m, m.updateCurrentStep(msg)
}

// handleKey processes wizard-level key bindings. Returns handled=false when
// the key should flow to the current step.
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Cmd, bool) {
	// Button-focused navigation for the input steps.
	if m.buttonFocused && m.buttonBar != nil {
		switch msg.String() {
		case "tab", "right":
			if !m.buttonBar.FocusNext() {
				m.buttonFocused = false
				return m.currentStep().Focus(), true
			}
			return nil, true
		case "shift+tab", "left":
			if !m.buttonBar.FocusPrev() {
				m.buttonFocused = false
				return m.currentStep().FocusLast(), true
			}
			return nil, true
		case "enter", " ":
			switch m.buttonBar.FocusedButton() {
			case wizard.ButtonBack:
				return m.goBack(), true
			case wizard.ButtonNext:
				return m.advance(), true
			}
			return nil, true
		}
	}

	switch msg.String() {
	case "ctrl+c":
		m.cancelled = true
		return tea.Quit, true

	case "esc":
		if m.completionStep != nil {
			return tea.Quit, true
		}
		if m.reviewStep != nil && m.controller.AtTerminal() && m.coordinator.InFlight() {
			// Never abandon an in-flight submission.
			return nil, true
		}
		if m.controller.Cursor() == 0 {
			m.cancelled = true
			return tea.Quit, true
		}
		return m.goBack(), true
	}

	return nil, false
}

// advance asks the controller to gate the transition and moves on success.
func (m *Model) advance() tea.Cmd {
	if m.completionStep != nil {
		return nil
	}
	if m.controller.AtTerminal() {
		return nil
	}
	if !m.controller.Next() {
		// Blocked: errors landed in the error map, the step re-renders them.
		return nil
	}
	return m.initCurrentStep()
}

// goBack moves one step back without revalidating.
func (m *Model) goBack() tea.Cmd {
	if !m.controller.Back() {
		return nil
	}
	return m.initCurrentStep()
}

// startSubmit kicks off the submission on a background command.
func (m *Model) startSubmit() tea.Cmd {
	if m.reviewStep == nil || m.coordinator.InFlight() {
		return nil
	}

	m.reviewStep.SetSubmitting(true)

	coordinator := m.coordinator
	ctx := m.ctx
	st := m.form
	submitCmd := func() tea.Msg {
		out, err := coordinator.Submit(ctx, st)
		return SubmitResultMsg{Outcome: out, Err: err}
	}

	return tea.Batch(m.reviewStep.SpinnerTick(), submitCmd)
}

// handleSubmitResult maps the outcome onto the next screen.
func (m *Model) handleSubmitResult(msg SubmitResultMsg) tea.Cmd {
	if errors.Is(msg.Err, submit.ErrSubmitInFlight) {
		// A duplicate attempt bounced; the first one still owns the lock.
		logger.Debug("Submit rejected: %v", msg.Err)
		return nil
	}

	if m.reviewStep != nil {
		m.reviewStep.SetSubmitting(false)
	}

	if msg.Err != nil {
		logger.Debug("Submit failed: %v", msg.Err)
		return nil
	}

	out := msg.Outcome
	switch {
	case out.Succeeded():
		m.completionStep = NewCompletionStep(out.Profile)
		m.completionStep.SetSize(m.getModalContentSize())
		return m.completionStep.Init()

	case out.AlreadyExists:
		m.completionStep = NewAlreadyExistsStep()
		m.completionStep.SetSize(m.getModalContentSize())
		return m.completionStep.Init()

	case len(out.FieldErrors) > 0:
		for f, errMsg := range out.FieldErrors {
			m.errors.Set(f, errMsg)
		}
		if out.RedirectStep >= 0 {
			m.controller.Seek(out.RedirectStep)
			return m.initCurrentStep()
		}
		return nil

	default:
		if m.reviewStep != nil {
			m.reviewStep.SetMessage(out.Message)
		}
		return nil
	}
}

// focusButtons hands focus from the step content to the button bar.
func (m *Model) focusButtons(fromEnd bool) {
	if !m.hasButtons() {
		return
	}
	m.buttonFocused = true
	m.currentStep().Blur()
	m.ensureButtonBar()
	if fromEnd {
		m.buttonBar.FocusLast()
	} else {
		m.buttonBar.FocusFirst()
	}
}

// initCurrentStep creates the component for the step the cursor landed on.
// Components are rebuilt on entry so they pick up the latest form state.
func (m *Model) initCurrentStep() tea.Cmd {
	m.buttonFocused = false
	m.buttonBar = nil

	var cmd tea.Cmd
	switch m.controller.Cursor() {
	case steps.StepIdentity:
		m.identityStep = NewIdentityStep(m.form, m.errors)
		cmd = m.identityStep.Init()
	case steps.StepNickname:
		m.nicknameStep = NewNicknameStep(m.form, m.errors, m.checker, m.suggestion)
		cmd = m.nicknameStep.Init()
	case steps.StepSports:
		m.sportsStep = NewSportsStep(m.form, m.errors)
		cmd = m.sportsStep.Init()
	case steps.StepLinks:
		m.linksStep = NewLinksStep(m.form, m.errors)
		cmd = m.linksStep.Init()
	case steps.StepReview:
		m.reviewStep = NewReviewStep(m.form)
		cmd = m.reviewStep.Init()
	}
	m.updateCurrentStepSize()
	return cmd
}

// currentStep returns the active component.
func (m *Model) currentStep() stepComponent {
	if m.completionStep != nil {
		return m.completionStep
	}
	switch m.controller.Cursor() {
	case steps.StepIdentity:
		return m.identityStep
	case steps.StepNickname:
		return m.nicknameStep
	case steps.StepSports:
		return m.sportsStep
	case steps.StepLinks:
		return m.linksStep
	default:
		return m.reviewStep
	}
}

// updateCurrentStep forwards a message to the active component.
func (m *Model) updateCurrentStep(msg tea.Msg) tea.Cmd {
	if step := m.currentStep(); step != nil {
		return step.Update(msg)
	}
	return nil
}

// getModalContentSize returns the internal content dimensions for the modal.
func (m *Model) getModalContentSize() (width, height int) {
	width = modalContentWidth

	height = m.height - 4
	if height < 20 {
		height = 20
	}
	if height > 40 {
		height = 40
	}
	height -= 10
	if height < 10 {
		height = 10
	}
	return width, height
}

// updateCurrentStepSize sizes the active component to the modal content area.
func (m *Model) updateCurrentStepSize() {
	if step := m.currentStep(); step != nil {
		step.SetSize(m.getModalContentSize())
	}
}

// hasButtons reports whether the active step uses the wizard-level bar.
func (m *Model) hasButtons() bool {
	if m.completionStep != nil {
		return false
	}
	return !m.controller.AtTerminal()
}

// ensureButtonBar creates or reuses the bar for the active step, preserving
// focus state across re-renders.
func (m *Model) ensureButtonBar() {
	cursor := m.controller.Cursor()
	if bar, ok := m.cachedBars[cursor]; ok {
		m.buttonBar = bar
		return
	}

	bar := wizard.NewButtonBar(wizard.CreateBackNextButtons(cursor > 0, "Next →"))
	bar.SetWidth(modalContentWidth)
	m.cachedBars[cursor] = bar
	m.buttonBar = bar
}

// View renders the wizard.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		view.Content = lipgloss.NewLayer("")
		return view
	}

	content := m.renderModal()

	centered := lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// renderModal renders the modal chrome around the active step.
func (m *Model) renderModal() string {
	t := theme.Current()

	var heading string
	if m.completionStep != nil {
		heading = "Create your profile"
	} else {
		cur := m.controller.Current()
		heading = fmt.Sprintf("Create your profile - Step %d of %d: %s", cur.Index+1, m.controller.Count(), cur.Label)
	}
	title := t.S().Title.MarginBottom(1).Render(heading)

	var stepContent string
	if step := m.currentStep(); step != nil {
		stepContent = step.View()
	}

	parts := []string{title, stepContent}
	if m.hasButtons() {
		m.ensureButtonBar()
		parts = append(parts, "", m.buttonBar.Render())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	modalStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Padding(2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.BorderDefault))

	return modalStyle.Render(content)
}
