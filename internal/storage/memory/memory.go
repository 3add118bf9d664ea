// Package memory is a process-local RunStore.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/chrissnell/laketemp/internal/storage"
)

// Store keeps runs in a map. It is safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]storage.Run
}

// New returns an empty store.
func New() *Store {
	return &Store{runs: make(map[uuid.UUID]storage.Run)}
}

func (s *Store) SaveRun(ctx context.Context, run *storage.Run) error {
	storage.Prepare(run)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[run.ID] = clone(run)
	return nil
}

func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (*storage.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("run %s: %w", id, storage.ErrRunNotFound)
	}
	c := clone(&run)
	return &c, nil
}

// clone copies run including its series, so the stored run shares no
// memory with the caller.
func clone(run *storage.Run) storage.Run {
	c := *run
	c.Series.Dates = slices.Clone(run.Series.Dates)
	c.Series.Tepi = slices.Clone(run.Series.Tepi)
	c.Series.Thyp = slices.Clone(run.Series.Thyp)
	return c
}

func (s *Store) Close() error {
	return nil
}
