// Package identity extracts profile defaults from the caller's auth token so
// the wizard opens prefilled instead of blank. The token is parsed without
// signature verification: the profile service is the authority, this is
// display-only convenience.
package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gosimple/slug"

	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/logger"
)

// Defaults are the prefill values recovered from the auth token.
type Defaults struct {
	FirstName string
	LastName  string
	Email     string
}

// claims carries the standard OIDC profile claims we care about.
type claims struct {
	jwt.RegisteredClaims
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Name       string `json:"name"`
}

// FromToken parses a bearer token and extracts prefill defaults. Any parse
// failure yields empty defaults; a malformed token must never stop the wizard.
func FromToken(token string) Defaults {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Defaults{}
	}

	var c claims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &c); err != nil {
		logger.Debug("Auth token did not parse as JWT, skipping prefill: %v", err)
		return Defaults{}
	}

	d := Defaults{
		FirstName: strings.TrimSpace(c.GivenName),
		LastName:  strings.TrimSpace(c.FamilyName),
		Email:     strings.TrimSpace(c.Email),
	}

	// Fall back to splitting the display name when the granular claims are
	// absent.
	if d.FirstName == "" && d.LastName == "" && c.Name != "" {
		parts := strings.Fields(c.Name)
		if len(parts) > 0 {
			d.FirstName = parts[0]
		}
		if len(parts) > 1 {
			d.LastName = strings.Join(parts[1:], " ")
		}
	}

	return d
}

// Apply writes the defaults into empty form fields. Values the user already
// typed are never overwritten.
func (d Defaults) Apply(st *form.State) {
	setIfEmpty(st, form.FieldFirstName, d.FirstName)
	setIfEmpty(st, form.FieldLastName, d.LastName)
	setIfEmpty(st, form.FieldEmail, d.Email)
}

func setIfEmpty(st *form.State, field, value string) {
	if value != "" && strings.TrimSpace(st.String(field)) == "" {
		st.SetString(field, value)
	}
}

// SuggestNickname derives a nickname candidate from the person's name, fitted
// to the nickname character set (letters, digits, underscores). Returns ""
// when nothing usable remains.
func SuggestNickname(first, last string) string {
	base := strings.TrimSpace(first + " " + last)
	if base == "" {
		return ""
	}

	// slug.Make transliterates and kebab-cases; the nickname alphabet has no
	// hyphens, so swap them for underscores.
	s := strings.ReplaceAll(slug.Make(base), "-", "_")
	if len(s) > 30 {
		s = strings.Trim(s[:30], "_")
	}
	if len(s) < 3 {
		return ""
	}
	return s
}
