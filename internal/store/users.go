package store

import (
	"context"

	"github.com/google/uuid"
)

const createUser = `
INSERT INTO users (id, email, password_hash)
VALUES ($1, $2, $3)
RETURNING id, email, password_hash, saved_file_ids, created_at
`

type CreateUserParams struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser, arg.ID, arg.Email, arg.PasswordHash)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.SavedFileIDs, &u.CreatedAt)
	return u, err
}

const getUserByEmail = `
SELECT id, email, password_hash, saved_file_ids, created_at
FROM users
WHERE email = $1
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	row := q.db.QueryRow(ctx, getUserByEmail, email)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.SavedFileIDs, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, email, password_hash, saved_file_ids, created_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	row := q.db.QueryRow(ctx, getUserByID, id)
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.SavedFileIDs, &u.CreatedAt)
	return u, err
}

const appendSavedFile = `
UPDATE users
SET saved_file_ids = array_append(saved_file_ids, $2)
WHERE id = $1
`

type AppendSavedFileParams struct {
	UserID uuid.UUID
	FileID uuid.UUID
}

func (q *Queries) AppendSavedFile(ctx context.Context, arg AppendSavedFileParams) error {
	_, err := q.db.Exec(ctx, appendSavedFile, arg.UserID, arg.FileID)
	return err
}
