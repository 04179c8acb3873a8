package ports

import (
	"context"

	"github.com/aretw0/simreport/pkg/domain"
)

// RunStore provides the persisted documents of a simulation run.
type RunStore interface {
	// Load retrieves the run identified by runID.
	// Returns an error matching domain.ErrMissingRunArtifact if a document is absent,
	// or domain.ErrMalformedRunArtifact if it cannot be parsed.
	Load(ctx context.Context, runID string) (*domain.Run, error)
}

// RunWriter persists a run so it can be loaded again by a RunStore.
type RunWriter interface {
	Save(ctx context.Context, runID string, run *domain.Run) error
}
