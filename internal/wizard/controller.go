// Package wizard implements the onboarding step state machine: the ordered
// step definitions, the cursor, and the gate deciding whether the user may
// advance. It is UI-independent; the TUI drives it and renders its verdicts.
package wizard

import (
	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/logger"
	"github.com/fieldline/onboard/internal/nickname"
	"github.com/fieldline/onboard/internal/validation"
)

// MsgNicknameTaken is the field error raised by a taken verdict. The checker
// retracts exactly this message when the verdict flips back to available.
const MsgNicknameTaken = "This nickname is already taken"

// MsgNicknameChecking is surfaced when Next is requested while the
// availability check has not resolved yet.
const MsgNicknameChecking = "Checking nickname availability…"

// Step is one screen's worth of fields, validated and gated independently.
// Steps are created once at wizard initialization and never mutated.
type Step struct {
	Index  int
	Label  string
	Fields []string
}

// Step indices. The review step is terminal and owns no fields.
const (
	StepIdentity = 0
	StepNickname = 1
	StepSports   = 2
	StepLinks    = 3
	StepReview   = 4
)

// Steps returns the canonical ordered step definitions. Field sets partition
// the full field set: every field belongs to exactly one step.
func Steps() []Step {
	return []Step{
		{Index: StepIdentity, Label: "About you", Fields: []string{
			form.FieldFirstName,
			form.FieldLastName,
			form.FieldEmail,
			form.FieldDateOfBirth,
		}},
		{Index: StepNickname, Label: "Pick a nickname", Fields: []string{
			form.FieldNickname,
		}},
		{Index: StepSports, Label: "Your sports", Fields: []string{
			form.FieldSportTypes,
		}},
		{Index: StepLinks, Label: "Links & privacy", Fields: []string{
			form.FieldInstagramURL,
			form.FieldTwitterURL,
			form.FieldStravaURL,
			form.FieldProfileVisibility,
			form.FieldLinksVisibility,
		}},
		{Index: StepReview, Label: "Review & submit", Fields: nil},
	}
}

// StepForField returns the index of the step owning the given field, or -1
// when no step declares it.
func StepForField(field string) int {
	for _, s := range Steps() {
		for _, f := range s.Fields {
			if f == field {
				return s.Index
			}
		}
	}
	return -1
}

// Controller owns the cursor. It is the only component authorized to change
// the active step.
type Controller struct {
	steps  []Step
	cursor int

	form   *form.State
	errors *form.Errors
	engine *validation.Engine

	// nick supplies the availability checker's current verdict. Nil when the
	// wizard runs without a checker (tests of pure step logic).
	nick func() nickname.State
}

// New creates a controller positioned at the first step.
func New(st *form.State, errs *form.Errors, engine *validation.Engine, nick func() nickname.State) *Controller {
	return &Controller{
		steps:  Steps(),
		form:   st,
		errors: errs,
		engine: engine,
		nick:   nick,
	}
}

// Cursor returns the active step index.
func (c *Controller) Cursor() int {
	return c.cursor
}

// Current returns the active step definition.
func (c *Controller) Current() Step {
	return c.steps[c.cursor]
}

// Count returns the number of steps.
func (c *Controller) Count() int {
	return len(c.steps)
}

// AtTerminal reports whether the cursor is on the final step, where the UI
// offers submit instead of next.
func (c *Controller) AtTerminal() bool {
	return c.cursor == len(c.steps)-1
}

// Back moves one step back. Always permitted above the first step; never
// re-validates.
func (c *Controller) Back() bool {
	if c.cursor == 0 {
		return false
	}
	c.cursor--
	logger.Debug("Wizard back to step %d (%s)", c.cursor, c.steps[c.cursor].Label)
	return true
}

// Seek moves the cursor directly to the given step. Used when a submission
// failure points back at a field owned by an earlier step.
func (c *Controller) Seek(idx int) {
	if idx < 0 || idx >= len(c.steps) {
		return
	}
	c.cursor = idx
	logger.Debug("Wizard seek to step %d (%s)", c.cursor, c.steps[c.cursor].Label)
}

// Next validates the current step and advances by exactly one on success.
// On a blocked transition the blocking messages are written to the error map
// and the cursor stays put. Only the current step's fields are gated: earlier
// steps were validated on their own transition, and re-validating everything
// would re-trigger the uniqueness check for no reason.
func (c *Controller) Next() bool {
	if c.AtTerminal() {
		return false
	}

	step := c.steps[c.cursor]
	blocking := c.GateErrors(step)

	// Sync the error map so the user sees exactly why progression is denied.
	for _, f := range step.Fields {
		if msg, ok := blocking[f]; ok {
			c.errors.Set(f, msg)
		} else {
			c.errors.Clear(f)
		}
	}

	if len(blocking) > 0 {
		logger.Debug("Wizard next blocked on step %d: %d field(s)", c.cursor, len(blocking))
		return false
	}

	c.cursor++
	logger.Debug("Wizard advanced to step %d (%s)", c.cursor, c.steps[c.cursor].Label)
	return true
}

// GateErrors computes the blocking errors for a step without mutating
// anything: synchronous rule failures plus the nickname availability gate.
func (c *Controller) GateErrors(step Step) map[string]string {
	blocking := c.engine.ValidateFields(step.Fields, c.form)

	if c.nick != nil && stepOwnsField(step, form.FieldNickname) {
		// A sync failure on the nickname already blocks; the async verdict
		// only matters once the format is clean.
		if _, failed := blocking[form.FieldNickname]; !failed {
			live := c.form.String(form.FieldNickname)
			st := c.nick()
			switch {
			case st.Status == nickname.StatusTaken && !st.StaleFor(live):
				blocking[form.FieldNickname] = MsgNicknameTaken
			case st.Status == nickname.StatusChecking:
				// Block until the check resolves; never advance optimistically.
				blocking[form.FieldNickname] = MsgNicknameChecking
			case st.StaleFor(live), st.Status == nickname.StatusIdle:
				// The committed verdict does not describe the live input:
				// treat as unknown and wait for a fresh check.
				blocking[form.FieldNickname] = MsgNicknameChecking
			case st.Status == nickname.StatusErrored:
				// Fail open: the server is the authoritative uniqueness check.
			}
		}
	}

	return blocking
}

func stepOwnsField(step Step, field string) bool {
	for _, f := range step.Fields {
		if f == field {
			return true
		}
	}
	return false
}
