package stage

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avern/runyard/internal/store"
)

// stagedOnlyQuerier implements store.Querier backed by a map; only the
// staged-submission queries do anything.
type stagedOnlyQuerier struct {
	mu   sync.Mutex
	rows map[uuid.UUID]store.StagedSubmission
}

func newStagedOnlyQuerier() *stagedOnlyQuerier {
	return &stagedOnlyQuerier{rows: make(map[uuid.UUID]store.StagedSubmission)}
}

func (q *stagedOnlyQuerier) CreateStagedSubmission(_ context.Context, arg store.CreateStagedSubmissionParams) (store.StagedSubmission, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	row := store.StagedSubmission{ID: arg.ID, Filename: arg.Filename, Code: arg.Code}
	q.rows[arg.ID] = row
	return row, nil
}

func (q *stagedOnlyQuerier) DeleteStagedSubmission(_ context.Context, id uuid.UUID) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.rows, id)
	return nil
}

func (q *stagedOnlyQuerier) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.rows)
}

func (q *stagedOnlyQuerier) CreateUser(context.Context, store.CreateUserParams) (store.User, error) {
	return store.User{}, pgx.ErrNoRows
}
func (q *stagedOnlyQuerier) GetUserByEmail(context.Context, string) (store.User, error) {
	return store.User{}, pgx.ErrNoRows
}
func (q *stagedOnlyQuerier) GetUserByID(context.Context, uuid.UUID) (store.User, error) {
	return store.User{}, pgx.ErrNoRows
}
func (q *stagedOnlyQuerier) AppendSavedFile(context.Context, store.AppendSavedFileParams) error {
	return nil
}
func (q *stagedOnlyQuerier) CreateFile(context.Context, store.CreateFileParams) (store.File, error) {
	return store.File{}, pgx.ErrNoRows
}
func (q *stagedOnlyQuerier) GetFile(context.Context, store.GetFileParams) (store.File, error) {
	return store.File{}, pgx.ErrNoRows
}
func (q *stagedOnlyQuerier) ListFilesByOwner(context.Context, uuid.UUID) ([]store.File, error) {
	return nil, nil
}
func (q *stagedOnlyQuerier) RenameFile(context.Context, store.RenameFileParams) (store.File, error) {
	return store.File{}, pgx.ErrNoRows
}

var _ store.Querier = (*stagedOnlyQuerier)(nil)

func TestMemoryStager_ReleaseIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStager()

	a, err := s.Stage(ctx, "main.py", "print(1)")
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("staged count = %d, want 1", s.Len())
	}

	for i := 0; i < 3; i++ {
		if err := s.Release(ctx, a); err != nil {
			t.Fatalf("release #%d: %v", i+1, err)
		}
	}
	if s.Len() != 0 {
		t.Errorf("staged count after release = %d, want 0", s.Len())
	}

	if err := s.Release(ctx, nil); err != nil {
		t.Errorf("release(nil): %v", err)
	}
}

func TestRowStager_BurnsRow(t *testing.T) {
	ctx := context.Background()
	q := newStagedOnlyQuerier()
	s := NewRowStager(q)

	a, err := s.Stage(ctx, "main.py", "print(1)")
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if a.Content != "print(1)" || a.Filename != "main.py" {
		t.Errorf("artifact = %+v", a)
	}
	if q.count() != 1 {
		t.Fatalf("row count = %d, want 1", q.count())
	}

	if err := s.Release(ctx, a); err != nil {
		t.Fatalf("release: %v", err)
	}
	if q.count() != 0 {
		t.Errorf("row count after release = %d, want 0", q.count())
	}

	// Releasing an already-burned artifact is a no-op.
	if err := s.Release(ctx, a); err != nil {
		t.Errorf("second release: %v", err)
	}
	if err := s.Release(ctx, nil); err != nil {
		t.Errorf("release(nil): %v", err)
	}
}
