// Package client is a typed HTTP client for the comparison API. It keeps no
// session state: authenticated calls take the access token as an argument.
package client

import (
	"bytes"
	"context"
	"ctchen222/mlb-compare/pkg/proto"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Detail)
}

// Client talks to one API server.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a Client for baseURL. Comparisons can take a while, so the
// default timeout is generous.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 2 * time.Minute}
	}
	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, name, email, password string) (*proto.MessageResponse, error) {
	form := url.Values{"name": {name}, "email": {email}, "password": {password}}
	var resp proto.MessageResponse
	if err := c.doForm(ctx, "/register", form, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*proto.TokenResponse, error) {
	form := url.Values{"username": {email}, "password": {password}}
	var resp proto.TokenResponse
	if err := c.doForm(ctx, "/token", form, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Compare requests a comparison of two players.
func (c *Client) Compare(ctx context.Context, token, player1, player2 string) (*proto.CompareResponse, error) {
	body, err := json.Marshal(proto.CompareRequest{Player1: player1, Player2: player2})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	var resp proto.CompareResponse
	if err := c.do(ctx, http.MethodPost, "/compare_players", token, "application/json", bytes.NewReader(body), &resp); err != nil {
		return nil, fmt.Errorf("compare request failed: %w", err)
	}
	return &resp, nil
}

// History lists the caller's past comparisons, newest first.
func (c *Client) History(ctx context.Context, token string) ([]proto.HistoryEntry, error) {
	var resp []proto.HistoryEntry
	if err := c.do(ctx, http.MethodGet, "/comparison_history", token, "", nil, &resp); err != nil {
		return nil, fmt.Errorf("history request failed: %w", err)
	}
	return resp, nil
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) (*proto.HealthResponse, error) {
	var resp proto.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/health", "", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

func (c *Client) doForm(ctx context.Context, path string, form url.Values, result any) error {
	return c.do(ctx, http.MethodPost, path, "", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), result)
}

func (c *Client) do(ctx context.Context, method, path, token, contentType string, body io.Reader, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp proto.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Detail != "" {
			return &APIError{StatusCode: resp.StatusCode, Detail: errResp.Detail}
		}
		return &APIError{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
