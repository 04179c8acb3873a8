package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/simreport/pkg/domain"
)

// Store implements ports.RunStore and ports.RunWriter in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Run
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Run),
	}
}

// Save keeps a copy of the run under runID.
func (s *Store) Save(ctx context.Context, runID string, run *domain.Run) error {
	copied := clone(run)
	copied.ID = runID

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[runID] = copied
	return nil
}

// Load retrieves a copy of the run.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[runID]
	if !ok {
		return nil, domain.MissingArtifact("output", runID, nil)
	}
	return clone(run), nil
}

// Delete removes the run.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// List returns the stored run IDs in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// clone copies the containers of a run. Step values are shared; the pipeline
// never mutates them.
func clone(run *domain.Run) *domain.Run {
	ret := &domain.Run{ID: run.ID}

	ret.Config = make(map[string]any, len(run.Config))
	for k, v := range run.Config {
		ret.Config[k] = v
	}

	ret.Meta = domain.Meta{
		Keys:   append([]string(nil), run.Meta.Keys...),
		Values: make(map[string]any, len(run.Meta.Values)),
	}
	for k, v := range run.Meta.Values {
		ret.Meta.Values[k] = v
	}

	ret.History = make([]domain.StepRecord, len(run.History))
	for i, step := range run.History {
		s := make(domain.StepRecord, len(step))
		for k, v := range step {
			s[k] = v
		}
		ret.History[i] = s
	}
	return ret
}
