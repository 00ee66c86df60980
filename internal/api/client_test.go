package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCheckNickname(t *testing.T) {
	tests := []struct {
		name      string
		nickname  string
		available bool
	}{
		{"available nickname", "johndoe", true},
		{"taken nickname", "takennick", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, http.MethodGet, r.Method)
				require.Equal(t, "/v1/nicknames/"+tt.nickname, r.URL.Path)
				require.NotEmpty(t, r.Header.Get("X-Request-ID"))

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(AvailabilityResponse{
					Available: tt.available,
					Nickname:  tt.nickname,
				})
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "", time.Second)
			got, err := c.CheckNickname(context.Background(), tt.nickname)
			require.NoError(t, err)
			require.Equal(t, tt.available, got)
		})
	}
}

func TestCheckNickname_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // Closed server makes every request fail at the transport level.

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.CheckNickname(context.Background(), "johndoe")
	require.Error(t, err)
}

func TestCreateProfile_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/profiles", r.URL.Path)
		require.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		var req ProfileCreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "johndoe", req.Nickname)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(ProfileRecord{
			ID:       "prof-1",
			Name:     req.Name,
			Surname:  req.Surname,
			Nickname: req.Nickname,
			Email:    req.Email,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123", time.Second)
	record, err := c.CreateProfile(context.Background(), ProfileCreateRequest{
		Name:        "John",
		Surname:     "Doe",
		Nickname:    "johndoe",
		Email:       "john@example.com",
		DateOfBirth: "1990-01-01",
		SportTypes:  []string{"running"},
	})
	require.NoError(t, err)
	require.Equal(t, "prof-1", record.ID)
	require.Equal(t, "johndoe", record.Nickname)
}

func TestCreateProfile_KnownErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(Error{
			Code:    CodeNicknameTaken,
			Message: "nickname is already taken",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123", time.Second)
	_, err := c.CreateProfile(context.Background(), ProfileCreateRequest{Nickname: "takennick"})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, CodeNicknameTaken, apiErr.Code)
	require.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestCreateProfile_ValidationDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(Error{
			Code:    CodeValidationError,
			Message: "invalid fields",
			Details: []FieldDetail{
				{Field: "email", Message: "email is malformed"},
				{Field: "dateOfBirth", Message: "date is in the future"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.CreateProfile(context.Background(), ProfileCreateRequest{})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, CodeValidationError, apiErr.Code)
	require.Len(t, apiErr.Details, 2)
	require.Equal(t, "email", apiErr.Details[0].Field)
}

func TestCreateProfile_UnknownErrorShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>gateway error</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	_, err := c.CreateProfile(context.Background(), ProfileCreateRequest{})

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	require.Empty(t, apiErr.Code)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
}
