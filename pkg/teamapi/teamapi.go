// Package teamapi provides a client for the teamsync HTTP API. The sync
// reconciler drives it; nothing here retries or merges — a transport
// failure is returned as a plain error for the caller to absorb.
package teamapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mpreston/teamsync/internal/action"
	"github.com/mpreston/teamsync/internal/logger"
	"github.com/mpreston/teamsync/internal/models"
)

// Envelope is the response body every team endpoint returns.
type Envelope struct {
	TeamCode string        `json:"teamCode"`
	State    *models.State `json:"state"`
	Ignored  bool          `json:"ignored,omitempty"`
}

// ErrorResponse is the body of a non-success response.
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// Client defines the interface for team state operations
type Client interface {
	// CreateTeam allocates a new team and returns its code and state
	CreateTeam(ctx context.Context) (*Envelope, error)
	// GetState fetches a team's current document
	GetState(ctx context.Context, teamCode string) (*Envelope, error)
	// PostAction applies one protocol action server-side
	PostAction(ctx context.Context, teamCode string, act action.Action) (*Envelope, error)
	// PutState pushes a whole document unconditionally (recovery path;
	// servers may refuse it with 405)
	PutState(ctx context.Context, teamCode string, state *models.State) error
	// BaseURL returns the configured API base URL
	BaseURL() string
}

// HTTPClient is a real HTTP client for the teamsync API
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new API client with a bounded request timeout.
// The protocol mandates no timeout of its own; the transport imposes one
// to keep a dead request from stalling the poll schedule.
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// NewHTTPClientWithHTTPClient creates a new API client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured API base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// CreateTeam allocates a new team
func (c *HTTPClient) CreateTeam(ctx context.Context) (*Envelope, error) {
	return c.doEnvelope(ctx, http.MethodPost, c.baseURL+"/teams", nil)
}

// GetState fetches a team's current document
func (c *HTTPClient) GetState(ctx context.Context, teamCode string) (*Envelope, error) {
	url := fmt.Sprintf("%s/teams/%s/state", c.baseURL, teamCode)
	return c.doEnvelope(ctx, http.MethodGet, url, nil)
}

// PostAction applies one protocol action server-side
func (c *HTTPClient) PostAction(ctx context.Context, teamCode string, act action.Action) (*Envelope, error) {
	data, err := json.Marshal(act)
	if err != nil {
		return nil, fmt.Errorf("encode action: %w", err)
	}
	body := map[string]interface{}{
		"action": action.Name(act),
		"data":   json.RawMessage(data),
	}
	url := fmt.Sprintf("%s/teams/%s/action", c.baseURL, teamCode)
	return c.doEnvelope(ctx, http.MethodPost, url, body)
}

// PutState pushes a whole document unconditionally
func (c *HTTPClient) PutState(ctx context.Context, teamCode string, state *models.State) error {
	body := map[string]interface{}{
		"state": state,
	}
	url := fmt.Sprintf("%s/teams/%s/state", c.baseURL, teamCode)
	_, err := c.doEnvelope(ctx, http.MethodPut, url, body)
	return err
}

// doEnvelope executes a request and decodes the standard envelope,
// converting non-2xx statuses into errors.
func (c *HTTPClient) doEnvelope(ctx context.Context, method, url string, body interface{}) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("teamsync request", "method", method, "url", url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.log.Debug("teamsync response", "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr ErrorResponse
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return &env, nil
}
