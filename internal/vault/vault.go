// Package vault is the ownership-scoped file store: an index over a blob
// store in which every record belongs to exactly one account and no lookup
// ever crosses accounts.
package vault

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/avern/runyard/internal/store"
)

var (
	// ErrNotFound covers both a genuinely missing record and one owned by
	// another account; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("file not found")
	// ErrBlobMissing means the index references a blob the backing store no
	// longer has.
	ErrBlobMissing = errors.New("file missing from storage")
	ErrEmptyName   = errors.New("filename cannot be empty")
)

// BlobStore is the storage primitive the vault indexes over.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

type Service struct {
	queries store.Querier
	blobs   BlobStore
	log     *zap.Logger
}

func NewService(queries store.Querier, blobs BlobStore, log *zap.Logger) *Service {
	return &Service{queries: queries, blobs: blobs, log: log}
}

// Store writes a new file for ownerID. The record id is minted before the
// blob is written so record and blob share one identity, and the blob goes
// in before the index row: a half-finished upload must never surface in
// List or Hydrate.
func (s *Service) Store(ctx context.Context, ownerID uuid.UUID, originalName string, r io.Reader, size int64, contentType string) (*store.File, error) {
	id := uuid.New()
	key := "files/" + id.String()

	if err := s.blobs.Put(ctx, key, r, size, contentType); err != nil {
		return nil, fmt.Errorf("write blob: %w", err)
	}

	f, err := s.queries.CreateFile(ctx, store.CreateFileParams{
		ID:           id,
		OwnerID:      ownerID,
		OriginalName: originalName,
		StoredName:   key,
	})
	if err != nil {
		// The blob is orphaned otherwise; removal failure only leaves
		// unreferenced garbage, so it is logged and not surfaced.
		if rerr := s.blobs.Remove(ctx, key); rerr != nil {
			s.log.Warn("remove orphaned blob", zap.String("key", key), zap.Error(rerr))
		}
		return nil, fmt.Errorf("index file: %w", err)
	}

	if err := s.queries.AppendSavedFile(ctx, store.AppendSavedFileParams{
		UserID: ownerID,
		FileID: id,
	}); err != nil {
		return nil, fmt.Errorf("append saved file: %w", err)
	}
	return &f, nil
}

// List returns the records owned by ownerID, oldest first.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]store.File, error) {
	return s.queries.ListFilesByOwner(ctx, ownerID)
}

// Rename changes a record's display name. The update is owner-scoped in one
// statement, so it either fully succeeds or leaves the prior name intact.
func (s *Service) Rename(ctx context.Context, ownerID, fileID uuid.UUID, newName string) (*store.File, error) {
	if strings.TrimSpace(newName) == "" {
		return nil, ErrEmptyName
	}
	f, err := s.queries.RenameFile(ctx, store.RenameFileParams{
		ID:      fileID,
		OwnerID: ownerID,
		Name:    newName,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("rename file: %w", err)
	}
	return &f, nil
}

// Fetch returns the record and an open reader over its blob. An index entry
// whose blob is gone is reported as ErrBlobMissing, never as empty content.
func (s *Service) Fetch(ctx context.Context, ownerID, fileID uuid.UUID) (*store.File, io.ReadCloser, error) {
	f, err := s.queries.GetFile(ctx, store.GetFileParams{ID: fileID, OwnerID: ownerID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("lookup file: %w", err)
	}

	rc, err := s.blobs.Get(ctx, f.StoredName)
	if err != nil {
		if errors.Is(err, ErrBlobMissing) {
			return nil, nil, ErrBlobMissing
		}
		return nil, nil, fmt.Errorf("read blob: %w", err)
	}
	return &f, rc, nil
}

// Hydrate resolves the account's saved-file references in order. A reference
// that no longer resolves is skipped: the saved list tolerates staleness.
func (s *Service) Hydrate(ctx context.Context, ownerID uuid.UUID) ([]store.File, error) {
	u, err := s.queries.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	files := make([]store.File, 0, len(u.SavedFileIDs))
	for _, fid := range u.SavedFileIDs {
		f, err := s.queries.GetFile(ctx, store.GetFileParams{ID: fid, OwnerID: ownerID})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, fmt.Errorf("resolve saved file %s: %w", fid, err)
		}
		files = append(files, f)
	}
	return files, nil
}
