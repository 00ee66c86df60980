// Package submit aggregates the accumulated form state into the profile
// service's request shape, performs the creation call, and maps server error
// codes back into field messages, step redirects, or a generic fallback.
// Every path resolves to a defined Outcome; nothing escapes unhandled.
package submit

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/fieldline/onboard/internal/api"
	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/logger"
	"github.com/fieldline/onboard/internal/validation"
	"github.com/fieldline/onboard/internal/wizard"
)

// ErrSubmitInFlight is returned when a submit is requested while a previous
// one has not resolved yet.
var ErrSubmitInFlight = errors.New("submission already in flight")

// Messages surfaced for known server error codes.
const (
	MsgEmailTaken     = "An account with this email already exists"
	MsgAgeRequirement = "You must be at least 13 years old"
	MsgGenericFailure = "Could not create your profile. Please try again."
)

// ProfileCreator is the creation collaborator, satisfied by *api.Client.
type ProfileCreator interface {
	CreateProfile(ctx context.Context, payload api.ProfileCreateRequest) (*api.ProfileRecord, error)
}

// Outcome describes the result of one submit attempt.
type Outcome struct {
	// Profile is set on success; all other fields are zero.
	Profile *api.ProfileRecord

	// FieldErrors maps offending fields to messages. RedirectStep points at
	// the earliest step owning one of them (the nickname-taken case lands on
	// the nickname step even though the wizard sits on the last step), or -1.
	FieldErrors  map[string]string
	RedirectStep int

	// AlreadyExists signals the caller to navigate to the existing profile
	// rather than render a field error.
	AlreadyExists bool

	// Message is the generic top-level error for unknown failure shapes.
	Message string
}

// Succeeded reports whether the attempt created a profile.
func (o *Outcome) Succeeded() bool {
	return o.Profile != nil
}

// Coordinator performs the final submission. One instance serves one wizard
// session.
type Coordinator struct {
	mu       sync.Mutex
	inFlight bool

	client ProfileCreator
	engine *validation.Engine
}

// NewCoordinator creates a coordinator using the given creation collaborator.
func NewCoordinator(client ProfileCreator, engine *validation.Engine) *Coordinator {
	return &Coordinator{client: client, engine: engine}
}

// InFlight reports whether a submission is currently outstanding.
func (c *Coordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Submit validates the full form one final time, projects it into the wire
// shape, and performs exactly one creation call. Re-entrant submits return
// ErrSubmitInFlight while the first is outstanding.
func (c *Coordinator) Submit(ctx context.Context, st *form.State) (*Outcome, error) {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	c.inFlight = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = false
		c.mu.Unlock()
	}()

	// Each step was gated on its own transition, but the request must never
	// be partially valid: re-check everything before building it.
	if errs := c.validateAll(st); len(errs) > 0 {
		logger.Warn("Submission blocked by local validation: %d field(s)", len(errs))
		return failureOutcome(errs), nil
	}

	payload := BuildRequest(st)
	record, err := c.client.CreateProfile(ctx, payload)
	if err != nil {
		return mapFailure(err), nil
	}

	return &Outcome{Profile: record, RedirectStep: -1}, nil
}

// BuildRequest projects the form state into the external request shape:
// strings trimmed, empty optionals absent, nickname lowercased.
func BuildRequest(st *form.State) api.ProfileCreateRequest {
	return api.ProfileCreateRequest{
		Name:              strings.TrimSpace(st.String(form.FieldFirstName)),
		Surname:           strings.TrimSpace(st.String(form.FieldLastName)),
		Nickname:          strings.ToLower(strings.TrimSpace(st.String(form.FieldNickname))),
		Email:             strings.TrimSpace(st.String(form.FieldEmail)),
		DateOfBirth:       strings.TrimSpace(st.String(form.FieldDateOfBirth)),
		SportTypes:        append([]string(nil), st.List(form.FieldSportTypes)...),
		InstagramURL:      strings.TrimSpace(st.String(form.FieldInstagramURL)),
		TwitterURL:        strings.TrimSpace(st.String(form.FieldTwitterURL)),
		StravaURL:         strings.TrimSpace(st.String(form.FieldStravaURL)),
		ProfileVisibility: st.String(form.FieldProfileVisibility),
		LinksVisibility:   st.String(form.FieldLinksVisibility),
	}
}

// validateAll runs the rule table over every declared field.
func (c *Coordinator) validateAll(st *form.State) map[string]string {
	errs := make(map[string]string)
	for _, step := range wizard.Steps() {
		for f, msg := range c.engine.ValidateFields(step.Fields, st) {
			errs[f] = msg
		}
	}
	return errs
}

// mapFailure partitions a creation error into the outcome taxonomy.
func mapFailure(err error) *Outcome {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		logger.Error("Profile creation failed: %v", err)
		return &Outcome{RedirectStep: -1, Message: MsgGenericFailure}
	}

	switch apiErr.Code {
	case api.CodeNicknameTaken:
		return failureOutcome(map[string]string{
			form.FieldNickname: wizard.MsgNicknameTaken,
		})

	case api.CodeEmailTaken:
		return failureOutcome(map[string]string{
			form.FieldEmail: MsgEmailTaken,
		})

	case api.CodeAgeRequirementNotMet:
		return failureOutcome(map[string]string{
			form.FieldDateOfBirth: MsgAgeRequirement,
		})

	case api.CodeProfileAlreadyExists:
		// A redirect signal, not a field error.
		return &Outcome{RedirectStep: -1, AlreadyExists: true}

	case api.CodeValidationError:
		errs := make(map[string]string, len(apiErr.Details))
		for _, d := range apiErr.Details {
			if wizard.StepForField(d.Field) >= 0 {
				errs[d.Field] = d.Message
			}
		}
		if len(errs) == 0 {
			return &Outcome{RedirectStep: -1, Message: MsgGenericFailure}
		}
		return failureOutcome(errs)

	default:
		logger.Error("Profile creation failed with unknown code %q: %v", apiErr.Code, err)
		return &Outcome{RedirectStep: -1, Message: MsgGenericFailure}
	}
}

// failureOutcome builds a field-error outcome, pointing the redirect at the
// earliest step owning one of the offending fields.
func failureOutcome(errs map[string]string) *Outcome {
	redirect := -1
	for f := range errs {
		if idx := wizard.StepForField(f); idx >= 0 && (redirect == -1 || idx < redirect) {
			redirect = idx
		}
	}
	return &Outcome{FieldErrors: errs, RedirectStep: redirect}
}
