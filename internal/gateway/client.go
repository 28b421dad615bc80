package gateway

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

	"prepai/internal/api"
	"prepai/internal/config"
	"prepai/internal/services"
)

// HTTPDoer describes the HTTP client used by the gateway client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the persistence gateway.
type Client struct {
	baseURL string
	token   string
	client  HTTPDoer
}

// NewClient constructs a client from configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := 10 * time.Second
	baseURL := ""
	if cfg != nil {
		baseURL = cfg.Gateway.URL
		timeout = cfg.GatewayTimeout()
	}
	return NewHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewHTTPClient constructs a client against baseURL using doer.
func NewHTTPClient(baseURL string, doer HTTPDoer) *Client {
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  doer,
	}
}

// WithToken returns a copy of the client that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = strings.TrimSpace(token)
	return &clone
}

// BaseURL returns the gateway root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Save persists one finalized interview and returns the stored record.
func (c *Client) Save(ctx context.Context, req api.SaveRequest) (*api.InterviewRecord, error) {
	var out api.InterviewRecord
	if err := c.do(ctx, http.MethodPost, "/interviews/save", "save", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns userID's records, newest first.
func (c *Client) History(ctx context.Context, userID string) ([]api.InterviewRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, services.Wrap(services.ErrValidation, "gateway", "history", "user id is empty", nil)
	}
	var out []api.InterviewRecord
	if err := c.do(ctx, http.MethodGet, "/interviews/history/"+url.PathEscape(userID), "history", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []api.InterviewRecord{}
	}
	return out, nil
}

// Signup registers an account and returns its token.
func (c *Client) Signup(ctx context.Context, req api.SignupRequest) (string, error) {
	var out api.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", "signup", req, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (string, error) {
	var out api.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", "login", req, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Me returns the profile of the token's account.
func (c *Client) Me(ctx context.Context) (*api.UserProfile, error) {
	var out api.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/me", "me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile changes the account's name or email.
func (c *Client) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.UserProfile, error) {
	var out api.UserProfile
	if err := c.do(ctx, http.MethodPut, "/auth/update", "update profile", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, operation string, body, out any) error {
	if c.baseURL == "" {
		return services.Wrap(services.ErrConfiguration, "gateway", operation, "gateway url is empty", nil)
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return services.Wrap(services.ErrValidation, "gateway", operation, "encode request", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return services.Wrap(services.ErrTransport, "gateway", operation, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if requestID, ok := services.RequestIDFromContext(ctx); ok {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrTransport, "gateway", operation, "request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return services.Wrap(services.ErrTransport, "gateway", operation, "read response", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return statusError(operation, resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return services.Wrap(services.ErrDecode, "gateway", operation, "decode response", err)
	}
	return nil
}

func statusError(operation string, status int, body []byte) error {
	message := strings.TrimSpace(string(body))
	var payload api.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		message = payload.Error
	}
	if len(message) > 200 {
		message = message[:200]
	}
	marker := services.ErrTransport
	switch status {
	case http.StatusBadRequest:
		marker = services.ErrValidation
	case http.StatusUnauthorized:
		marker = services.ErrUnauthorized
	case http.StatusForbidden:
		marker = services.ErrForbidden
	case http.StatusNotFound:
		marker = services.ErrNotFound
	}
	return services.Wrap(marker, "gateway", operation, fmt.Sprintf("status %d: %s", status, message), nil)
}
