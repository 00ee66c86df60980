// Package profiled implements a small in-memory profile service used for
// local wizard development and demos. It speaks the same wire contract as the
// real service: nickname availability lookups and profile creation with the
// full error-code taxonomy.
package profiled

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fieldline/onboard/internal/api"
	"github.com/fieldline/onboard/internal/form"
	"github.com/fieldline/onboard/internal/logger"
	"github.com/fieldline/onboard/internal/validation"
)

// Options configure the stub server.
type Options struct {
	// Taken seeds the nickname namespace so availability checks have
	// something to collide with.
	Taken []string

	// Latency is added to every request, useful for exercising the wizard's
	// pending states by hand.
	Latency time.Duration
}

// Server holds the in-memory profile store.
type Server struct {
	mu        sync.Mutex
	nicknames map[string]bool
	emails    map[string]bool
	profiles  map[string]*api.ProfileRecord
	latency   time.Duration
	engine    *validation.Engine
}

// New creates a stub server with the given seed data.
func New(opts Options) *Server {
	s := &Server{
		nicknames: make(map[string]bool),
		emails:    make(map[string]bool),
		profiles:  make(map[string]*api.ProfileRecord),
		latency:   opts.Latency,
		engine:    validation.New(),
	}
	for _, n := range opts.Taken {
		s.nicknames[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.delay())

	v1 := r.Group("/v1")
	v1.GET("/nicknames/:nickname", s.checkNickname)
	v1.POST("/profiles", s.createProfile)
	return r
}

func (s *Server) delay() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.latency > 0 {
			time.Sleep(s.latency)
		}
		c.Next()
	}
}

func (s *Server) checkNickname(c *gin.Context) {
	nickname := strings.ToLower(strings.TrimSpace(c.Param("nickname")))
	if !validation.NicknameFormatValid(nickname) {
		c.JSON(http.StatusUnprocessableEntity, api.Error{
			Code:    api.CodeValidationError,
			Message: "nickname format is invalid",
			Details: []api.FieldDetail{{Field: form.FieldNickname, Message: "Nickname can only contain letters, numbers, and underscores"}},
		})
		return
	}

	s.mu.Lock()
	taken := s.nicknames[nickname]
	s.mu.Unlock()

	logger.Debug("Availability check for %q: taken=%v", nickname, taken)
	c.JSON(http.StatusOK, api.AvailabilityResponse{
		Available: !taken,
		Nickname:  nickname,
	})
}

func (s *Server) createProfile(c *gin.Context) {
	var req api.ProfileCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Error{
			Code:    api.CodeValidationError,
			Message: "request body is not valid JSON",
		})
		return
	}

	if details := s.validateRequest(&req); len(details) > 0 {
		c.JSON(http.StatusUnprocessableEntity, api.Error{
			Code:    api.CodeValidationError,
			Message: "profile payload failed validation",
			Details: details,
		})
		return
	}

	if ok, dob := s.meetsAgeRequirement(req.DateOfBirth); !ok {
		logger.Debug("Rejected underage profile: dob=%s", dob)
		c.JSON(http.StatusUnprocessableEntity, api.Error{
			Code:    api.CodeAgeRequirementNotMet,
			Message: "you must be at least 13 years old",
		})
		return
	}

	nickname := strings.ToLower(strings.TrimSpace(req.Nickname))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nicknames[nickname] {
		c.JSON(http.StatusConflict, api.Error{
			Code:    api.CodeNicknameTaken,
			Message: "nickname is already in use",
		})
		return
	}
	if s.emails[email] {
		c.JSON(http.StatusConflict, api.Error{
			Code:    api.CodeEmailTaken,
			Message: "email is already registered",
		})
		return
	}

	record := &api.ProfileRecord{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(req.Name),
		Surname:           strings.TrimSpace(req.Surname),
		Nickname:          nickname,
		Email:             email,
		DateOfBirth:       req.DateOfBirth,
		SportTypes:        req.SportTypes,
		InstagramURL:      req.InstagramURL,
		TwitterURL:        req.TwitterURL,
		StravaURL:         req.StravaURL,
		ProfileVisibility: req.ProfileVisibility,
		LinksVisibility:   req.LinksVisibility,
		CreatedAt:         time.Now().UTC(),
	}
	s.nicknames[nickname] = true
	s.emails[email] = true
	s.profiles[record.ID] = record

	logger.Info("Created profile %s (%s)", record.ID, record.Nickname)
	c.JSON(http.StatusCreated, record)
}

// validateRequest re-runs the shared rule table against the wire payload, so
// the stub rejects exactly what the real service would.
func (s *Server) validateRequest(req *api.ProfileCreateRequest) []api.FieldDetail {
	st := form.NewState()
	st.SetString(form.FieldFirstName, req.Name)
	st.SetString(form.FieldLastName, req.Surname)
	st.SetString(form.FieldEmail, req.Email)
	st.SetString(form.FieldDateOfBirth, req.DateOfBirth)
	st.SetString(form.FieldNickname, req.Nickname)
	st.SetList(form.FieldSportTypes, req.SportTypes)
	st.SetString(form.FieldInstagramURL, req.InstagramURL)
	st.SetString(form.FieldTwitterURL, req.TwitterURL)
	st.SetString(form.FieldStravaURL, req.StravaURL)
	st.SetString(form.FieldProfileVisibility, req.ProfileVisibility)
	st.SetString(form.FieldLinksVisibility, req.LinksVisibility)

	fields := []string{
		form.FieldFirstName, form.FieldLastName, form.FieldEmail,
		form.FieldDateOfBirth, form.FieldNickname, form.FieldSportTypes,
		form.FieldInstagramURL, form.FieldTwitterURL, form.FieldStravaURL,
		form.FieldProfileVisibility, form.FieldLinksVisibility,
	}

	var details []api.FieldDetail
	for _, f := range fields {
		// Skip the age rule here; it maps to its own error code below.
		if f == form.FieldDateOfBirth {
			continue
		}
		if msg := s.engine.Validate(f, st); msg != "" {
			details = append(details, api.FieldDetail{Field: f, Message: msg})
		}
	}

	// Date format still belongs to VALIDATION_ERROR.
	dob := strings.TrimSpace(req.DateOfBirth)
	if dob == "" {
		details = append(details, api.FieldDetail{Field: form.FieldDateOfBirth, Message: "Date of birth is required"})
	} else if _, err := time.Parse(validation.DateLayout, dob); err != nil {
		details = append(details, api.FieldDetail{Field: form.FieldDateOfBirth, Message: "Enter the date as YYYY-MM-DD"})
	}

	return details
}

func (s *Server) meetsAgeRequirement(dateOfBirth string) (bool, string) {
	dob, err := time.Parse(validation.DateLayout, strings.TrimSpace(dateOfBirth))
	if err != nil {
		return true, dateOfBirth // format problems were already reported
	}

	now := time.Now().UTC()
	years := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		years--
	}
	return years >= validation.MinimumAge, dateOfBirth
}
