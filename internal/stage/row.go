package stage

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/avern/runyard/internal/store"
)

// RowStager persists each artifact as a staged_submissions row and burns it
// with a DELETE after the attempt. The artifact content is taken from the
// row as written back by the database, so what the sandbox receives is what
// was durably staged.
type RowStager struct {
	queries store.Querier
}

func NewRowStager(queries store.Querier) *RowStager {
	return &RowStager{queries: queries}
}

func (s *RowStager) Stage(ctx context.Context, filename, content string) (*Artifact, error) {
	row, err := s.queries.CreateStagedSubmission(ctx, store.CreateStagedSubmissionParams{
		ID:       uuid.New(),
		Filename: filename,
		Code:     content,
	})
	if err != nil {
		return nil, fmt.Errorf("stage submission: %w", err)
	}
	return &Artifact{ID: row.ID, Filename: row.Filename, Content: row.Code}, nil
}

// Release deletes the staging row. DELETE of an absent row is a no-op, so a
// second release never fails.
func (s *RowStager) Release(ctx context.Context, a *Artifact) error {
	if a == nil {
		return nil
	}
	if err := s.queries.DeleteStagedSubmission(ctx, a.ID); err != nil {
		return fmt.Errorf("release submission %s: %w", a.ID, err)
	}
	return nil
}
