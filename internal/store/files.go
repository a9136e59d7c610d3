package store

import (
	"context"

	"github.com/google/uuid"
)

const createFile = `
INSERT INTO files (id, owner_id, original_name, stored_name)
VALUES ($1, $2, $3, $4)
RETURNING id, owner_id, original_name, stored_name, uploaded_at
`

type CreateFileParams struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	OriginalName string
	StoredName   string
}

func (q *Queries) CreateFile(ctx context.Context, arg CreateFileParams) (File, error) {
	row := q.db.QueryRow(ctx, createFile, arg.ID, arg.OwnerID, arg.OriginalName, arg.StoredName)
	var f File
	err := row.Scan(&f.ID, &f.OwnerID, &f.OriginalName, &f.StoredName, &f.UploadedAt)
	return f, err
}

// Lookups are always scoped by owner; a foreign id behaves exactly like a
// missing one (pgx.ErrNoRows).
const getFile = `
SELECT id, owner_id, original_name, stored_name, uploaded_at
FROM files
WHERE id = $1 AND owner_id = $2
`

type GetFileParams struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
}

func (q *Queries) GetFile(ctx context.Context, arg GetFileParams) (File, error) {
	row := q.db.QueryRow(ctx, getFile, arg.ID, arg.OwnerID)
	var f File
	err := row.Scan(&f.ID, &f.OwnerID, &f.OriginalName, &f.StoredName, &f.UploadedAt)
	return f, err
}

const listFilesByOwner = `
SELECT id, owner_id, original_name, stored_name, uploaded_at
FROM files
WHERE owner_id = $1
ORDER BY uploaded_at
`

func (q *Queries) ListFilesByOwner(ctx context.Context, ownerID uuid.UUID) ([]File, error) {
	rows, err := q.db.Query(ctx, listFilesByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.ID, &f.OwnerID, &f.OriginalName, &f.StoredName, &f.UploadedAt); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

const renameFile = `
UPDATE files
SET original_name = $3
WHERE id = $1 AND owner_id = $2
RETURNING id, owner_id, original_name, stored_name, uploaded_at
`

type RenameFileParams struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Name    string
}

func (q *Queries) RenameFile(ctx context.Context, arg RenameFileParams) (File, error) {
	row := q.db.QueryRow(ctx, renameFile, arg.ID, arg.OwnerID, arg.Name)
	var f File
	err := row.Scan(&f.ID, &f.OwnerID, &f.OriginalName, &f.StoredName, &f.UploadedAt)
	return f, err
}
