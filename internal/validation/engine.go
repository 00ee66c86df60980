// Package validation implements the synchronous field validation engine.
// Rules are data: a declarative table keyed by field name, evaluated in
// order by one generic engine. The first failing rule wins so error
// messages are deterministic.
package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fieldline/onboard/internal/form"
)

// MinimumAge is the youngest age accepted for a profile.
const MinimumAge = 13

// DateLayout is the wire format for the date of birth.
const DateLayout = "2006-01-02"

var (
	nicknamePattern  = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	instagramPattern = regexp.MustCompile(`^https://(www\.)?instagram\.com/[A-Za-z0-9_.]+/?$`)
	twitterPattern   = regexp.MustCompile(`^https://(www\.)?(twitter|x)\.com/[A-Za-z0-9_]+/?$`)
	stravaPattern    = regexp.MustCompile(`^https://(www\.)?strava\.com/athletes/[0-9]+/?$`)
)

// NicknameFormatValid reports whether a nickname satisfies the local format
// rules (length and character set). The uniqueness checker applies this gate
// before issuing any network request.
func NicknameFormatValid(s string) bool {
	s = strings.TrimSpace(s)
	n := utf8.RuneCountInString(s)
	return n >= 3 && n <= 30 && nicknamePattern.MatchString(s)
}

// Rule is a single validation rule for one field. Fails inspects the form
// state and reports whether the rule is violated.
type Rule struct {
	Message string
	Fails   func(st *form.State, now time.Time) bool
}

// Engine evaluates the declarative rule table. The clock is injectable so
// the age rule is testable at exact boundaries.
type Engine struct {
	rules map[string][]Rule
	now   func() time.Time
}

// New creates an engine with the standard rule table and the real clock.
func New() *Engine {
	return NewWithClock(time.Now)
}

// NewWithClock creates an engine using the supplied clock for age checks.
func NewWithClock(now func() time.Time) *Engine {
	return &Engine{rules: ruleTable(), now: now}
}

// Validate evaluates the rules for one field against the form state and
// returns the first failing rule's message, or "" when the field is clean.
// Deterministic and side-effect free.
func (e *Engine) Validate(field string, st *form.State) string {
	now := e.now()
	for _, r := range e.rules[field] {
		if r.Fails(st, now) {
			return r.Message
		}
	}
	return ""
}

// ValidateFields evaluates every listed field and returns the failing
// fields with their messages. Used for whole-step gating.
func (e *Engine) ValidateFields(fields []string, st *form.State) map[string]string {
	errs := make(map[string]string)
	for _, f := range fields {
		if msg := e.Validate(f, st); msg != "" {
			errs[f] = msg
		}
	}
	return errs
}

// ruleTable builds the per-field rule lists. Order matters: the first
// failing rule's message is the one surfaced.
func ruleTable() map[string][]Rule {
	return map[string][]Rule{
		form.FieldFirstName: {
			requiredString(form.FieldFirstName, "First name is required"),
			maxLen(form.FieldFirstName, 50, "First name is too long (max 50 characters)"),
		},
		form.FieldLastName: {
			requiredString(form.FieldLastName, "Last name is required"),
			maxLen(form.FieldLastName, 50, "Last name is too long (max 50 characters)"),
		},
		form.FieldEmail: {
			requiredString(form.FieldEmail, "Email is required"),
			pattern(form.FieldEmail, emailPattern, "Enter a valid email address"),
		},
		form.FieldNickname: {
			requiredString(form.FieldNickname, "Nickname is required"),
			{
				Message: "Nickname must be 3-30 characters",
				Fails: func(st *form.State, _ time.Time) bool {
					n := utf8.RuneCountInString(strings.TrimSpace(st.String(form.FieldNickname)))
					return n < 3 || n > 30
				},
			},
			pattern(form.FieldNickname, nicknamePattern, "Nickname can only contain letters, numbers, and underscores"),
		},
		form.FieldDateOfBirth: {
			requiredString(form.FieldDateOfBirth, "Date of birth is required"),
			{
				Message: "Enter the date as YYYY-MM-DD",
				Fails: func(st *form.State, _ time.Time) bool {
					_, err := time.Parse(DateLayout, strings.TrimSpace(st.String(form.FieldDateOfBirth)))
					return err != nil
				},
			},
			{
				Message: "You must be at least 13 years old",
				Fails: func(st *form.State, now time.Time) bool {
					dob, err := time.Parse(DateLayout, strings.TrimSpace(st.String(form.FieldDateOfBirth)))
					if err != nil {
						return false // format rule already failed
					}
					return ageAt(dob, now) < MinimumAge
				},
			},
		},
		form.FieldSportTypes: {
			{
				Message: "Select at least one sport",
				Fails: func(st *form.State, _ time.Time) bool {
					return len(st.List(form.FieldSportTypes)) == 0
				},
			},
		},
		form.FieldInstagramURL: {
			optionalPattern(form.FieldInstagramURL, instagramPattern, "Enter a valid Instagram profile URL"),
		},
		form.FieldTwitterURL: {
			optionalPattern(form.FieldTwitterURL, twitterPattern, "Enter a valid X/Twitter profile URL"),
		},
		form.FieldStravaURL: {
			optionalPattern(form.FieldStravaURL, stravaPattern, "Enter a valid Strava athlete URL"),
		},
		form.FieldProfileVisibility: {
			visibilityRule(form.FieldProfileVisibility),
		},
		form.FieldLinksVisibility: {
			visibilityRule(form.FieldLinksVisibility),
		},
	}
}

// ageAt computes age by full date subtraction: the year difference adjusted
// by whether the birth month/day has occurred yet, not calendar-year math.
func ageAt(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years
}

func requiredString(field, msg string) Rule {
	return Rule{
		Message: msg,
		Fails: func(st *form.State, _ time.Time) bool {
			return strings.TrimSpace(st.String(field)) == ""
		},
	}
}

// maxLen bounds the field's length in characters, not bytes, so multi-byte
// input is measured the way users count it.
func maxLen(field string, max int, msg string) Rule {
	return Rule{
		Message: msg,
		Fails: func(st *form.State, _ time.Time) bool {
			return utf8.RuneCountInString(strings.TrimSpace(st.String(field))) > max
		},
	}
}

func pattern(field string, re *regexp.Regexp, msg string) Rule {
	return Rule{
		Message: msg,
		Fails: func(st *form.State, _ time.Time) bool {
			v := strings.TrimSpace(st.String(field))
			return v != "" && !re.MatchString(v)
		},
	}
}

// optionalPattern accepts empty values: optional fields are always valid
// when blank.
func optionalPattern(field string, re *regexp.Regexp, msg string) Rule {
	return pattern(field, re, msg)
}

func visibilityRule(field string) Rule {
	return Rule{
		Message: "Choose public, followers, or private",
		Fails: func(st *form.State, _ time.Time) bool {
			v := st.String(field)
			for _, lvl := range form.VisibilityLevels {
				if v == lvl {
					return false
				}
			}
			return v != ""
		},
	}
}
