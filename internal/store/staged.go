package store

import (
	"context"

	"github.com/google/uuid"
)

const createStagedSubmission = `
INSERT INTO staged_submissions (id, filename, code)
VALUES ($1, $2, $3)
RETURNING id, filename, code, created_at
`

type CreateStagedSubmissionParams struct {
	ID       uuid.UUID
	Filename string
	Code     string
}

func (q *Queries) CreateStagedSubmission(ctx context.Context, arg CreateStagedSubmissionParams) (StagedSubmission, error) {
	row := q.db.QueryRow(ctx, createStagedSubmission, arg.ID, arg.Filename, arg.Code)
	var s StagedSubmission
	err := row.Scan(&s.ID, &s.Filename, &s.Code, &s.CreatedAt)
	return s, err
}

// Deleting an already-burned row is a no-op, which is what makes release
// idempotent for the row stager.
const deleteStagedSubmission = `
DELETE FROM staged_submissions
WHERE id = $1
`

func (q *Queries) DeleteStagedSubmission(ctx context.Context, id uuid.UUID) error {
	_, err := q.db.Exec(ctx, deleteStagedSubmission, id)
	return err
}
