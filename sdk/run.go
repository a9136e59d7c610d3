package runyard

import (
	"context"
	"net/http"
)

// Run executes a code snippet on the server's sandbox and returns the result.
// No authentication is required.
func (c *Client) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	return doRequest[RunResult](ctx, c, http.MethodPost, "/run", req, false)
}
