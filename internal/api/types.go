package api

import "time"

// ErrorCode is the machine-readable failure code returned by the profile
// service.
type ErrorCode string

const (
	CodeNicknameTaken        ErrorCode = "NICKNAME_TAKEN"
	CodeEmailTaken           ErrorCode = "EMAIL_TAKEN"
	CodeProfileAlreadyExists ErrorCode = "PROFILE_ALREADY_EXISTS"
	CodeAgeRequirementNotMet ErrorCode = "AGE_REQUIREMENT_NOT_MET"
	CodeValidationError      ErrorCode = "VALIDATION_ERROR"
)

// FieldDetail is one entry of a VALIDATION_ERROR response: a field name in
// the request payload plus a human-readable message for it.
type FieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a decoded failure response from the profile service.
type Error struct {
	Status  int           `json:"-"`
	Code    ErrorCode     `json:"code"`
	Message string        `json:"message"`
	Details []FieldDetail `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return string(e.Code) + ": " + e.Message
	}
	return string(e.Code)
}

// AvailabilityResponse is the body of a nickname availability check.
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Nickname  string `json:"nickname"`
}

// ProfileCreateRequest is the payload for profile creation. Optional fields
// are omitted entirely when empty rather than sent as empty strings.
type ProfileCreateRequest struct {
	Name              string   `json:"name"`
	Surname           string   `json:"surname"`
	Nickname          string   `json:"nickname"`
	Email             string   `json:"email"`
	DateOfBirth       string   `json:"dateOfBirth"`
	SportTypes        []string `json:"sportTypes"`
	InstagramURL      string   `json:"instagramUrl,omitempty"`
	TwitterURL        string   `json:"twitterUrl,omitempty"`
	StravaURL         string   `json:"stravaUrl,omitempty"`
	ProfileVisibility string   `json:"profileVisibility,omitempty"`
	LinksVisibility   string   `json:"linksVisibility,omitempty"`
}

// ProfileRecord is a created profile as returned by the service.
type ProfileRecord struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Surname           string    `json:"surname"`
	Nickname          string    `json:"nickname"`
	Email             string    `json:"email"`
	DateOfBirth       string    `json:"dateOfBirth"`
	SportTypes        []string  `json:"sportTypes"`
	InstagramURL      string    `json:"instagramUrl,omitempty"`
	TwitterURL        string    `json:"twitterUrl,omitempty"`
	StravaURL         string    `json:"stravaUrl,omitempty"`
	ProfileVisibility string    `json:"profileVisibility,omitempty"`
	LinksVisibility   string    `json:"linksVisibility,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}
