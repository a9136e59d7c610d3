package store

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account. SavedFileIDs is the account's ordered upload
// history; entries may go stale and are skipped on read, never treated as fatal.
type User struct {
	ID           uuid.UUID   `json:"id"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	SavedFileIDs []uuid.UUID `json:"saved_file_ids"`
	CreatedAt    time.Time   `json:"created_at"`
}

// File is the ownership index entry for one stored blob. StoredName is the
// blob-store key; it is minted together with ID so record and blob share one
// identity, and it is only ever returned to the owning account.
type File struct {
	ID           uuid.UUID `json:"file_id"`
	OwnerID      uuid.UUID `json:"-"`
	OriginalName string    `json:"filename"`
	StoredName   string    `json:"stored_name"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// StagedSubmission is a transient staging row for one execution attempt.
// Rows are deleted immediately after the attempt completes.
type StagedSubmission struct {
	ID        uuid.UUID
	Filename  string
	Code      string
	CreatedAt time.Time
}
