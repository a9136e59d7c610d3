package store

import (
	"context"

	"github.com/google/uuid"
)

// Querier is the interface over all queries; handlers and services depend on
// this so tests can substitute stubs.
type Querier interface {
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	AppendSavedFile(ctx context.Context, arg AppendSavedFileParams) error

	CreateFile(ctx context.Context, arg CreateFileParams) (File, error)
	GetFile(ctx context.Context, arg GetFileParams) (File, error)
	ListFilesByOwner(ctx context.Context, ownerID uuid.UUID) ([]File, error)
	RenameFile(ctx context.Context, arg RenameFileParams) (File, error)

	CreateStagedSubmission(ctx context.Context, arg CreateStagedSubmissionParams) (StagedSubmission, error)
	DeleteStagedSubmission(ctx context.Context, id uuid.UUID) error
}

var _ Querier = (*Queries)(nil)
