// Package sandbox is the client for the remote code-execution service
// (a Piston-compatible API).
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// executeTimeout caps every sandbox call so one slow submission cannot block
// its request indefinitely.
const executeTimeout = 10 * time.Second

// Config holds the connection settings for the sandbox.
// URL is the base URL of the Piston server (e.g. "https://emkc.org").
type Config struct {
	URL string
}

// Client calls the Piston execute API synchronously.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		url:    strings.TrimRight(cfg.URL, "/"),
		client: &http.Client{Timeout: executeTimeout},
	}
}

// Execute submits the files to the sandbox and waits for the result.
// A transport failure wraps ErrUnreachable; an answered-but-failed call
// returns *RemoteError. No retries on either: executions are not idempotent.
func (c *Client) Execute(ctx context.Context, language, version string, files []File) (*Result, error) {
	reqBody := map[string]any{
		"language": language,
		"version":  version,
		"files":    files,
	}
	bodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.url+"/api/v2/execute", bytes.NewReader(bodyJSON))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var remote struct {
			Message string `json:"message"`
		}
		msg := http.StatusText(resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&remote); err == nil && remote.Message != "" {
			msg = remote.Message
		}
		return nil, &RemoteError{StatusCode: resp.StatusCode, Message: msg}
	}

	var raw struct {
		Language string `json:"language"`
		Version  string `json:"version"`
		Run      struct {
			Stdout string  `json:"stdout"`
			Stderr string  `json:"stderr"`
			Output string  `json:"output"`
			Code   *int    `json:"code"`
			Signal *string `json:"signal"`
		} `json:"run"`
		Compile *struct {
			Output string `json:"output"`
		} `json:"compile"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode sandbox response: %w", err)
	}

	res := &Result{
		Language: raw.Language,
		Version:  raw.Version,
		Stdout:   raw.Run.Stdout,
		Stderr:   raw.Run.Stderr,
		Output:   raw.Run.Output,
		ExitCode: raw.Run.Code,
		Signal:   raw.Run.Signal,
	}
	if raw.Compile != nil {
		res.CompileOutput = &raw.Compile.Output
	}
	return res, nil
}
