// Package api is the HTTP client for the remote profile service. The wizard
// consumes two operations: an idempotent nickname-availability check and the
// profile-creation call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldline/onboard/internal/logger"
)

// Client talks to the profile service over HTTP. Safe for concurrent use.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL. The auth token is
// sent as a bearer token on profile creation; the availability check is
// unauthenticated.
func NewClient(baseURL, authToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authToken:  authToken,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CheckNickname asks the service whether nickname is still free.
// Idempotent, no side effects, may be called repeatedly.
func (c *Client) CheckNickname(ctx context.Context, nickname string) (bool, error) {
	endpoint := c.baseURL + "/v1/nicknames/" + url.PathEscape(nickname)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("building availability request: %w", err)
	}
	c.setCommonHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("availability request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return false, decodeError(resp)
	}

	var body AvailabilityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decoding availability response: %w", err)
	}

	logger.Debug("Nickname %q availability: %v", nickname, body.Available)
	return body.Available, nil
}

// CreateProfile submits a new profile. Failure responses decode to *Error
// carrying the service's machine-readable code.
func (c *Client) CreateProfile(ctx context.Context, payload ProfileCreateRequest) (*ProfileRecord, error) {
	endpoint := c.baseURL + "/v1/profiles"

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding profile request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building profile request: %w", err)
	}
	c.setCommonHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var record ProfileRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding profile response: %w", err)
	}

	logger.Info("Profile created: id=%s nickname=%s", record.ID, record.Nickname)
	return &record, nil
}

// setCommonHeaders stamps every request with a request ID for server-side
// correlation.
func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
}

// decodeError turns a non-2xx response into an *Error. Unknown bodies fall
// back to a code-less error with the HTTP status preserved.
func decodeError(resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("reading error response (status %d): %w", resp.StatusCode, err)
	}

	var apiErr Error
	if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Code != "" {
		apiErr.Status = resp.StatusCode
		logger.Warn("API error: status=%d code=%s message=%s", resp.StatusCode, apiErr.Code, apiErr.Message)
		return &apiErr
	}

	logger.Warn("API error: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(data)))
	return &Error{
		Status:  resp.StatusCode,
		Message: fmt.Sprintf("unexpected response (status %d)", resp.StatusCode),
	}
}
