package runyard

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned by authenticated calls made before Login.
var ErrNotAuthenticated = errors.New("runyard: not authenticated; call Login first")

// APIError is returned when the Runyard API responds with a non-success status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("runyard: HTTP %d: %s", e.StatusCode, e.Message)
}
