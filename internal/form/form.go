// Package form holds the wizard's accumulated form state: field values,
// per-field error messages, and the field/enumeration definitions shared by
// the validation engine, the wizard controller, and the submission layer.
package form

import "strings"

// Field name constants. The full field set is the union of all wizard steps.
const (
	FieldFirstName         = "firstName"
	FieldLastName          = "lastName"
	FieldEmail             = "email"
	FieldDateOfBirth       = "dateOfBirth"
	FieldNickname          = "nickname"
	FieldSportTypes        = "sportTypes"
	FieldInstagramURL      = "instagramUrl"
	FieldTwitterURL        = "twitterUrl"
	FieldStravaURL         = "stravaUrl"
	FieldProfileVisibility = "profileVisibility"
	FieldLinksVisibility   = "linksVisibility"
)

// Visibility levels for the privacy settings.
const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
	VisibilityPrivate   = "private"
)

// VisibilityLevels lists the selectable visibility levels in display order.
var VisibilityLevels = []string{VisibilityPublic, VisibilityFollowers, VisibilityPrivate}

// SportTypes lists the selectable sport types in display order.
var SportTypes = []string{
	"running",
	"cycling",
	"swimming",
	"triathlon",
	"football",
	"basketball",
	"tennis",
	"climbing",
}

// ValidSportType reports whether s is one of the known sport types.
func ValidSportType(s string) bool {
	for _, st := range SportTypes {
		if st == s {
			return true
		}
	}
	return false
}

// State maps field names to their current values. String-valued fields
// (including the ISO date of birth) live in strings; the sport-type
// multi-select lives in lists. Fields not yet visited hold their declared
// defaults from NewState.
type State struct {
	strings map[string]string
	lists   map[string][]string
}

// NewState creates a form state populated with the declared defaults.
func NewState() *State {
	return &State{
		strings: map[string]string{
			FieldFirstName:         "",
			FieldLastName:          "",
			FieldEmail:             "",
			FieldDateOfBirth:       "",
			FieldNickname:          "",
			FieldInstagramURL:      "",
			FieldTwitterURL:        "",
			FieldStravaURL:         "",
			FieldProfileVisibility: VisibilityPublic,
			FieldLinksVisibility:   VisibilityPublic,
		},
		lists: map[string][]string{
			FieldSportTypes: nil,
		},
	}
}

// String returns the value of a string-valued field.
func (s *State) String(field string) string {
	return s.strings[field]
}

// SetString sets the value of a string-valued field.
func (s *State) SetString(field, value string) {
	s.strings[field] = value
}

// List returns the value of a list-valued field.
func (s *State) List(field string) []string {
	return s.lists[field]
}

// SetList replaces the value of a list-valued field.
func (s *State) SetList(field string, values []string) {
	s.lists[field] = values
}

// Toggle adds item to a list-valued field if absent, removes it if present.
func (s *State) Toggle(field, item string) {
	current := s.lists[field]
	for i, v := range current {
		if v == item {
			s.lists[field] = append(current[:i], current[i+1:]...)
			return
		}
	}
	s.lists[field] = append(current, item)
}

// Contains reports whether a list-valued field contains item.
func (s *State) Contains(field, item string) bool {
	for _, v := range s.lists[field] {
		if v == item {
			return true
		}
	}
	return false
}

// Errors maps field names to zero-or-one error message. A field with a
// non-empty entry failed a validation rule or holds a taken nickname.
type Errors struct {
	m map[string]string
}

// NewErrors creates an empty error map.
func NewErrors() *Errors {
	return &Errors{m: make(map[string]string)}
}

// Set attaches an error message to a field, replacing any previous one.
func (e *Errors) Set(field, msg string) {
	if strings.TrimSpace(msg) == "" {
		delete(e.m, field)
		return
	}
	e.m[field] = msg
}

// Clear removes the error for a field.
func (e *Errors) Clear(field string) {
	delete(e.m, field)
}

// ClearIf removes the field's error only when it equals msg. This lets the
// nickname checker retract its own taken-error without touching an unrelated
// error that landed on the same field in the meantime.
func (e *Errors) ClearIf(field, msg string) {
	if e.m[field] == msg {
		delete(e.m, field)
	}
}

// Get returns the error message for a field, or "" if clean.
func (e *Errors) Get(field string) string {
	return e.m[field]
}

// Any reports whether any of the given fields has an error.
func (e *Errors) Any(fields ...string) bool {
	for _, f := range fields {
		if e.m[f] != "" {
			return true
		}
	}
	return false
}

// Len returns the number of fields currently holding an error.
func (e *Errors) Len() int {
	return len(e.m)
}

// All returns a copy of the field-to-message map.
func (e *Errors) All() map[string]string {
	out := make(map[string]string, len(e.m))
	for f, msg := range e.m {
		out[f] = msg
	}
	return out
}
