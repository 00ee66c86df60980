package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldline/onboard/internal/form"
)

// fixedClock returns a clock pinned to the given date.
func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
	}
}

func stateWith(field, value string) *form.State {
	st := form.NewState()
	st.SetString(field, value)
	return st
}

func TestValidate_FirstName(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"valid", "Ada", ""},
		{"valid with spaces around", "  Ada  ", ""},
		{"empty", "", "First name is required"},
		{"whitespace only", "   ", "First name is required"},
		{"exactly 50 chars", strings.Repeat("a", 50), ""},
		{"51 chars", strings.Repeat("a", 51), "First name is too long (max 50 characters)"},
		{"cyrillic within bounds", strings.Repeat("б", 30), ""},
		{"cyrillic exactly 50 chars", strings.Repeat("б", 50), ""},
		{"cyrillic 51 chars", strings.Repeat("б", 51), "First name is too long (max 50 characters)"},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Validate(form.FieldFirstName, stateWith(form.FieldFirstName, tt.value))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_Nickname(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"valid", "john_doe42", ""},
		{"minimum length", "abc", ""},
		{"maximum length", strings.Repeat("a", 30), ""},
		{"empty", "", "Nickname is required"},
		{"too short", "ab", "Nickname must be 3-30 characters"},
		{"too long", strings.Repeat("a", 31), "Nickname must be 3-30 characters"},
		{"illegal characters", "john.doe", "Nickname can only contain letters, numbers, and underscores"},
		{"spaces inside", "john doe", "Nickname can only contain letters, numbers, and underscores"},
		// Length is measured in characters; 30 multi-byte runes pass the
		// length rule and fail only on the character set.
		{"cyrillic 30 chars hits charset rule", strings.Repeat("б", 30), "Nickname can only contain letters, numbers, and underscores"},
		{"cyrillic 31 chars hits length rule", strings.Repeat("б", 31), "Nickname must be 3-30 characters"},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Validate(form.FieldNickname, stateWith(form.FieldNickname, tt.value))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_Email(t *testing.T) {
	e := New()

	require.Empty(t, e.Validate(form.FieldEmail, stateWith(form.FieldEmail, "ada@example.com")))
	require.Equal(t, "Email is required",
		e.Validate(form.FieldEmail, stateWith(form.FieldEmail, "")))
	require.Equal(t, "Enter a valid email address",
		e.Validate(form.FieldEmail, stateWith(form.FieldEmail, "not-an-email")))
}

func TestValidate_DateOfBirth_AgeBoundary(t *testing.T) {
	// Pinned "now": 2026-06-15.
	e := NewWithClock(fixedClock(2026, time.June, 15))

	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"exactly 13 today", "2013-06-15", ""},
		{"13 years minus one day", "2013-06-16", "You must be at least 13 years old"},
		{"well over 13", "1990-01-01", ""},
		{"birthday later this year", "2013-07-01", "You must be at least 13 years old"},
		{"birthday earlier this year", "2013-05-01", ""},
		{"empty", "", "Date of birth is required"},
		{"bad format", "15/06/2013", "Enter the date as YYYY-MM-DD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Validate(form.FieldDateOfBirth, stateWith(form.FieldDateOfBirth, tt.value))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_SportTypes(t *testing.T) {
	e := New()

	st := form.NewState()
	require.Equal(t, "Select at least one sport", e.Validate(form.FieldSportTypes, st))

	st.Toggle(form.FieldSportTypes, "running")
	require.Empty(t, e.Validate(form.FieldSportTypes, st))

	// Toggling the only selection off reinstates the error.
	st.Toggle(form.FieldSportTypes, "running")
	require.Equal(t, "Select at least one sport", e.Validate(form.FieldSportTypes, st))
}

func TestValidate_SocialLinks(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"instagram empty is valid", form.FieldInstagramURL, "", ""},
		{"instagram valid", form.FieldInstagramURL, "https://instagram.com/ada.lovelace", ""},
		{"instagram with www", form.FieldInstagramURL, "https://www.instagram.com/ada", ""},
		{"instagram wrong host", form.FieldInstagramURL, "https://example.com/ada", "Enter a valid Instagram profile URL"},
		{"twitter valid", form.FieldTwitterURL, "https://twitter.com/ada_l", ""},
		{"x dot com valid", form.FieldTwitterURL, "https://x.com/ada_l", ""},
		{"twitter not a url", form.FieldTwitterURL, "ada_l", "Enter a valid X/Twitter profile URL"},
		{"strava valid", form.FieldStravaURL, "https://strava.com/athletes/12345", ""},
		{"strava slug not id", form.FieldStravaURL, "https://strava.com/athletes/ada", "Enter a valid Strava athlete URL"},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Validate(tt.field, stateWith(tt.field, tt.value))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestValidate_Idempotent(t *testing.T) {
	// Identical inputs must produce identical results on repeated calls.
	e := NewWithClock(fixedClock(2026, time.June, 15))

	st := form.NewState()
	st.SetString(form.FieldNickname, "ab")
	st.SetString(form.FieldDateOfBirth, "2013-06-16")

	for i := 0; i < 5; i++ {
		require.Equal(t, "Nickname must be 3-30 characters", e.Validate(form.FieldNickname, st))
		require.Equal(t, "You must be at least 13 years old", e.Validate(form.FieldDateOfBirth, st))
	}
}

func TestValidateFields(t *testing.T) {
	e := New()

	st := form.NewState()
	st.SetString(form.FieldFirstName, "Ada")
	st.SetString(form.FieldLastName, "")
	st.SetString(form.FieldEmail, "bad")

	errs := e.ValidateFields([]string{form.FieldFirstName, form.FieldLastName, form.FieldEmail}, st)
	require.Len(t, errs, 2)
	require.Equal(t, "Last name is required", errs[form.FieldLastName])
	require.Equal(t, "Enter a valid email address", errs[form.FieldEmail])
}

func TestNicknameFormatValid(t *testing.T) {
	require.True(t, NicknameFormatValid("abc"))
	require.True(t, NicknameFormatValid("john_doe42"))
	require.False(t, NicknameFormatValid("ab"))
	require.False(t, NicknameFormatValid(""))
	require.False(t, NicknameFormatValid("john doe"))
	require.False(t, NicknameFormatValid(strings.Repeat("a", 31)))
	// Two runes, four bytes: still under the minimum length.
	require.False(t, NicknameFormatValid("бё"))
}
