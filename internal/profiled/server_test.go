package profiled

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fieldline/onboard/internal/api"
)

func newTestServer(t *testing.T, opts Options) *api.Client {
	t.Helper()
	srv := httptest.NewServer(New(opts).Router())
	t.Cleanup(srv.Close)
	return api.NewClient(srv.URL, "", 5*time.Second)
}

func validRequest() api.ProfileCreateRequest {
	return api.ProfileCreateRequest{
		Name:        "Ada",
		Surname:     "Lovelace",
		Nickname:    "ada_l",
		Email:       "ada@example.com",
		DateOfBirth: "1990-12-10",
		SportTypes:  []string{"cycling"},
	}
}

func TestServer_NicknameAvailability(t *testing.T) {
	client := newTestServer(t, Options{Taken: []string{"TakenNick"}})

	available, err := client.CheckNickname(context.Background(), "freenick")
	require.NoError(t, err)
	require.True(t, available)

	// Seeded names are normalized, lookups match case-insensitively.
	available, err = client.CheckNickname(context.Background(), "takennick")
	require.NoError(t, err)
	require.False(t, available)
}

func TestServer_CreateProfile(t *testing.T) {
	client := newTestServer(t, Options{})

	record, err := client.CreateProfile(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotEmpty(t, record.ID)
	require.Equal(t, "ada_l", record.Nickname)
	require.False(t, record.CreatedAt.IsZero())

	// The created nickname immediately joins the taken set.
	available, err := client.CheckNickname(context.Background(), "ada_l")
	require.NoError(t, err)
	require.False(t, available)
}

func TestServer_NicknameConflict(t *testing.T) {
	client := newTestServer(t, Options{Taken: []string{"ada_l"}})

	_, err := client.CreateProfile(context.Background(), validRequest())

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, api.CodeNicknameTaken, apiErr.Code)
	require.Equal(t, 409, apiErr.Status)
}

func TestServer_EmailConflict(t *testing.T) {
	client := newTestServer(t, Options{})

	_, err := client.CreateProfile(context.Background(), validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.Nickname = "other_nick"
	_, err = client.CreateProfile(context.Background(), second)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, api.CodeEmailTaken, apiErr.Code)
}

func TestServer_AgeRequirement(t *testing.T) {
	client := newTestServer(t, Options{})

	req := validRequest()
	req.DateOfBirth = time.Now().UTC().AddDate(-12, 0, 0).Format("2006-01-02")
	_, err := client.CreateProfile(context.Background(), req)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, api.CodeAgeRequirementNotMet, apiErr.Code)
}

func TestServer_ValidationDetails(t *testing.T) {
	client := newTestServer(t, Options{})

	req := validRequest()
	req.Email = "not-an-email"
	req.SportTypes = nil
	_, err := client.CreateProfile(context.Background(), req)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, api.CodeValidationError, apiErr.Code)

	byField := make(map[string]string, len(apiErr.Details))
	for _, d := range apiErr.Details {
		byField[d.Field] = d.Message
	}
	require.Contains(t, byField, "email")
	require.Contains(t, byField, "sportTypes")
}

func TestServer_MalformedNicknameLookup(t *testing.T) {
	client := newTestServer(t, Options{})

	_, err := client.CheckNickname(context.Background(), "no spaces!")

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, api.CodeValidationError, apiErr.Code)
}
