package runyard

import "time"

// RunRequest is one code submission. Version is optional; when set it
// overrides the server's pinned default for the language.
type RunRequest struct {
	Language string `json:"language"`
	Version  string `json:"version,omitempty"`
	Code     string `json:"code"`
}

// RunResult is the sandbox's execution outcome, passed through verbatim.
type RunResult struct {
	Language      string  `json:"language"`
	Version       string  `json:"version"`
	Stdout        string  `json:"stdout"`
	Stderr        string  `json:"stderr"`
	Output        string  `json:"output"`
	ExitCode      *int    `json:"exit_code"`
	Signal        *string `json:"signal,omitempty"`
	CompileOutput *string `json:"compile_output,omitempty"`
}

// RegisterResponse is returned by Register.
type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

// File is one stored file record, visible only to its owner.
type File struct {
	ID         string    `json:"file_id"`
	Filename   string    `json:"filename"`
	StoredName string    `json:"stored_name"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// UploadResponse is returned by Upload.
type UploadResponse struct {
	FileID     string `json:"file_id"`
	Filename   string `json:"filename"`
	StoredName string `json:"stored_name"`
}

// Account is the authenticated user's profile.
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// MeResponse is returned by Me.
type MeResponse struct {
	User  Account `json:"user"`
	Files []File  `json:"files"`
}

// HealthResponse is returned by Health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}
