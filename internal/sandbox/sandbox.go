package sandbox

import (
	"context"
	"errors"
	"fmt"
)

// File is one source file in an execution request.
type File struct {
	Name    string `json:"name,omitempty"`
	Content string `json:"content"`
}

// Result is the normalized outcome of one sandbox execution. Stdout and
// stderr are passed through byte-for-byte; callers render them verbatim.
type Result struct {
	Language      string  `json:"language"`
	Version       string  `json:"version"`
	Stdout        string  `json:"stdout"`
	Stderr        string  `json:"stderr"`
	Output        string  `json:"output"`
	ExitCode      *int    `json:"exit_code"`
	Signal        *string `json:"signal,omitempty"`
	CompileOutput *string `json:"compile_output,omitempty"`
}

// ErrUnreachable is returned when the sandbox call cannot be completed at all
// (connection refused, DNS failure, timeout).
var ErrUnreachable = errors.New("sandbox unreachable")

// RemoteError is returned when the sandbox answered but reported a
// non-success status. Message carries the sandbox's own error text.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("sandbox: HTTP %d: %s", e.StatusCode, e.Message)
}

// Executor is the interface the execution proxy depends on.
type Executor interface {
	Execute(ctx context.Context, language, version string, files []File) (*Result, error)
}
