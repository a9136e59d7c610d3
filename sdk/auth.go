package runyard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password string) (*RegisterResponse, error) {
	body := map[string]string{"email": email, "password": password}
	return doRequest[RegisterResponse](ctx, c, http.MethodPost, "/register", body, false)
}

// Login exchanges credentials for a bearer token and stores it on the client.
func (c *Client) Login(ctx context.Context, email, password string) error {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseError(resp)
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("runyard: decode response: %w", err)
	}
	c.token = out.AccessToken
	return nil
}

// Me returns the authenticated account and its saved files.
func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	return doRequest[MeResponse](ctx, c, http.MethodGet, "/me", nil, true)
}
