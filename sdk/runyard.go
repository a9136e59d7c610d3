// Package runyard provides a Go client for the Runyard API.
//
// Runyard runs code snippets on a remote sandbox and keeps per-account file
// storage behind bearer-token auth.
//
// Usage:
//
//	client := runyard.New("https://runyard.example.com")
//
//	// Run a snippet (no auth required)
//	res, err := client.Run(ctx, runyard.RunRequest{
//	    Language: "python",
//	    Code:     "print(1+1)",
//	})
//
//	// Register, log in, and upload a file
//	_, err = client.Register(ctx, "a@x.com", "secret")
//	err = client.Login(ctx, "a@x.com", "secret")
//	up, err := client.Upload(ctx, "notes.txt", strings.NewReader("hello"))
package runyard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Client is the Runyard API client. Login stores the bearer token on the
// client; authenticated calls fail with ErrNotAuthenticated before that.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets a previously obtained bearer token.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a Runyard client. baseURL is the server's root URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Token returns the bearer token obtained by Login, or the one set via
// WithToken.
func (c *Client) Token() string {
	return c.token
}

// Health checks that the server is reachable.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	return doRequest[HealthResponse](ctx, c, http.MethodGet, "/health", nil, false)
}

// --- internal helpers ---

func (c *Client) newRequest(ctx context.Context, method, path string, body any, authed bool) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("runyard: marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if c.token == "" {
			return nil, ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func doRequest[T any](ctx context.Context, c *Client, method, path string, body any, authed bool) (*T, error) {
	req, err := c.newRequest(ctx, method, path, body, authed)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp)
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("runyard: decode response: %w", err)
	}
	return &out, nil
}

func parseError(resp *http.Response) *APIError {
	e := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		e.Message = body.Error
	} else {
		e.Message = http.StatusText(resp.StatusCode)
	}
	return e
}
