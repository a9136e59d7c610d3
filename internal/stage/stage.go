// Package stage holds submission source for the duration of one execution
// attempt. Artifacts are burned immediately after use: Release must be
// reachable from every path that follows a successful Stage, and calling it
// twice, or on an artifact that is already gone, is a no-op.
package stage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Artifact is the handle for one staged submission. Content travels with the
// handle so the execution payload can be built without a second lookup.
type Artifact struct {
	ID       uuid.UUID
	Filename string
	Content  string
}

type Stager interface {
	Stage(ctx context.Context, filename, content string) (*Artifact, error)
	Release(ctx context.Context, a *Artifact) error
}

// MemoryStager keeps artifacts in process memory. This is the pure in-memory
// payload mode: nothing durable exists, so Release only clears the entry.
type MemoryStager struct {
	mu        sync.Mutex
	artifacts map[uuid.UUID]*Artifact
}

func NewMemoryStager() *MemoryStager {
	return &MemoryStager{artifacts: make(map[uuid.UUID]*Artifact)}
}

func (s *MemoryStager) Stage(_ context.Context, filename, content string) (*Artifact, error) {
	a := &Artifact{ID: uuid.New(), Filename: filename, Content: content}
	s.mu.Lock()
	s.artifacts[a.ID] = a
	s.mu.Unlock()
	return a, nil
}

func (s *MemoryStager) Release(_ context.Context, a *Artifact) error {
	if a == nil {
		return nil
	}
	s.mu.Lock()
	delete(s.artifacts, a.ID)
	s.mu.Unlock()
	return nil
}

// Len reports how many artifacts are currently staged.
func (s *MemoryStager) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.artifacts)
}
