package onboard

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/fieldline/onboard/internal/api"
	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/submit"
	"github.com/fieldline/onboard/internal/validation"
	steps "github.com/fieldline/onboard/internal/wizard"
)

// keyPress creates a KeyPressMsg from a string.
func keyPress(s string) tea.KeyPressMsg {
	return tea.KeyPressMsg(tea.Key{Text: s})
}

// stubCreator returns a canned record or error for CreateProfile.
type stubCreator struct {
	record *api.ProfileRecord
	err    error
}

func (s *stubCreator) CreateProfile(context.Context, api.ProfileCreateRequest) (*api.ProfileRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func frozenEngine() *validation.Engine {
	return validation.NewWithClock(func() time.Time {
		return time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)
	})
}

// filledForm returns form state that passes every step's rules.
func filledForm() *form.State {
	st := form.NewState()
	st.SetString(form.FieldFirstName, "Ada")
	st.SetString(form.FieldLastName, "Lovelace")
	st.SetString(form.FieldEmail, "ada@example.com")
	st.SetString(form.FieldDateOfBirth, "1990-12-10")
	st.SetString(form.FieldNickname, "ada_l")
	st.Toggle(form.FieldSportTypes, "cycling")
	return st
}

// newTestModel builds an initialized model without a checker (the async gate
// is exercised in the controller and checker tests).
func newTestModel(st *form.State, creator *stubCreator) (*Model, *form.Errors) {
	errs := form.NewErrors()
	engine := frozenEngine()
	m := NewModel(st, errs, engine, nil, submit.NewCoordinator(creator, engine), "")
	m.Init()
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m, errs
}

func TestModel_AdvanceBlockedOnEmptyForm(t *testing.T) {
	m, errs := newTestModel(form.NewState(), &stubCreator{})

	m.Update(NextRequestedMsg{})

	if got := m.controller.Cursor(); got != steps.StepIdentity {
		t.Errorf("Expected cursor to stay at identity, got %d", got)
	}
	if errs.Get(form.FieldFirstName) == "" {
		t.Error("Expected a first-name error after blocked advance")
	}
}

func TestModel_FullWalkToReview(t *testing.T) {
	m, _ := newTestModel(filledForm(), &stubCreator{})

	for range [4]int{} {
		m.Update(NextRequestedMsg{})
	}

	if !m.controller.AtTerminal() {
		t.Fatalf("Expected terminal step, got cursor %d", m.controller.Cursor())
	}
	if m.reviewStep == nil {
		t.Fatal("Expected review step to be created")
	}

	view := m.reviewStep.View()
	if !strings.Contains(view, "Submit") {
		t.Error("Expected review step to offer the Submit button")
	}
}

func TestModel_EscGoesBackWithoutValidation(t *testing.T) {
	st := filledForm()
	m, errs := newTestModel(st, &stubCreator{})

	m.Update(NextRequestedMsg{})
	if m.controller.Cursor() != steps.StepNickname {
		t.Fatal("Expected to reach the nickname step")
	}

	// Invalidate an earlier field; back must still succeed and stay silent.
	st.SetString(form.FieldFirstName, "")
	m.Update(keyPress("esc"))

	if m.controller.Cursor() != steps.StepIdentity {
		t.Error("Expected ESC to move back one step")
	}
	if errs.Len() != 0 {
		t.Error("Expected back to not surface validation errors")
	}
}

func TestModel_EscOnFirstStepCancels(t *testing.T) {
	m, _ := newTestModel(form.NewState(), &stubCreator{})

	_, cmd := m.Update(keyPress("esc"))

	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg from ESC on the first step")
	}
	if !m.Cancelled() {
		t.Error("Expected the model to be marked cancelled")
	}
}

func TestModel_SubmitSuccessShowsCompletion(t *testing.T) {
	m, _ := newTestModel(filledForm(), &stubCreator{})

	m.Update(SubmitResultMsg{Outcome: &submit.Outcome{
		Profile: &api.ProfileRecord{ID: "p-1", Nickname: "ada_l"},
	}})

	if m.completionStep == nil {
		t.Fatal("Expected completion step after success")
	}

	view := m.completionStep.View()
	if !strings.Contains(view, "ada_l") {
		t.Error("Expected the completion screen to greet the new nickname")
	}
}

func TestModel_SubmitAlreadyExistsShowsNotice(t *testing.T) {
	m, _ := newTestModel(filledForm(), &stubCreator{})

	m.Update(SubmitResultMsg{Outcome: &submit.Outcome{AlreadyExists: true, RedirectStep: -1}})

	if m.completionStep == nil {
		t.Fatal("Expected a terminal screen for the already-exists case")
	}
	if !strings.Contains(m.completionStep.View(), "already have a profile") {
		t.Error("Expected the already-exists notice")
	}
}

func TestModel_SubmitFieldErrorRedirects(t *testing.T) {
	m, errs := newTestModel(filledForm(), &stubCreator{})

	for range [4]int{} {
		m.Update(NextRequestedMsg{})
	}

	m.Update(SubmitResultMsg{Outcome: &submit.Outcome{
		FieldErrors:  map[string]string{form.FieldNickname: nicknameTakenMessage},
		RedirectStep: steps.StepNickname,
	}})

	if got := m.controller.Cursor(); got != steps.StepNickname {
		t.Errorf("Expected redirect to the nickname step, got %d", got)
	}
	if errs.Get(form.FieldNickname) != nicknameTakenMessage {
		t.Error("Expected the taken error to land on the nickname field")
	}
}

func TestModel_SubmitGenericFailureStaysOnReview(t *testing.T) {
	m, _ := newTestModel(filledForm(), &stubCreator{})

	for range [4]int{} {
		m.Update(NextRequestedMsg{})
	}

	m.Update(SubmitResultMsg{Outcome: &submit.Outcome{
		RedirectStep: -1,
		Message:      submit.MsgGenericFailure,
	}})

	if !m.controller.AtTerminal() {
		t.Error("Expected to stay on the review step")
	}
	if !strings.Contains(m.reviewStep.View(), submit.MsgGenericFailure) {
		t.Error("Expected the generic failure banner on the review step")
	}
}

func TestModel_DuplicateSubmitRejectionKeepsReviewLocked(t *testing.T) {
	m, _ := newTestModel(filledForm(), &stubCreator{})

	for range [4]int{} {
		m.Update(NextRequestedMsg{})
	}

	// First attempt is outstanding; a bounced duplicate must not unlock it.
	m.reviewStep.SetSubmitting(true)
	m.Update(SubmitResultMsg{Err: submit.ErrSubmitInFlight})

	if !m.reviewStep.submitting {
		t.Error("Expected the review step to stay locked while the first attempt runs")
	}
}

func TestModel_ViewRendersStepHeading(t *testing.T) {
	m, _ := newTestModel(form.NewState(), &stubCreator{})

	view := m.View()
	if !view.AltScreen {
		t.Error("Expected the wizard to run in the alt screen")
	}

	content := m.renderModal()
	if !strings.Contains(content, "Step 1 of 5") {
		t.Error("Expected the step counter in the heading")
	}
	if !strings.Contains(content, "About you") {
		t.Error("Expected the step label in the heading")
	}
}
