// Package storage defines the persistence interface for simulation runs.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/chrissnell/laketemp/internal/types"
)

// ErrRunNotFound is returned when no run has the requested identifier.
var ErrRunNotFound = errors.New("run not found")

// Run is one stored simulation: the parameter set it ran with and the
// resulting series.
type Run struct {
	ID          uuid.UUID
	Lake        string
	Periodicity types.Periodicity
	Parameters  types.ParameterSet
	CreatedAt   time.Time
	Series      types.SimulatedSeries
}

// RunStore persists simulation runs.
type RunStore interface {
	// SaveRun stores run. A nil run ID is replaced by a new random one and
	// a zero CreatedAt by the current time.
	SaveRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*Run, error)
	Close() error
}

// HealthChecker is implemented by stores that can report whether their
// backend is reachable.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// Prepare fills in the identifier and creation time of a run about to be
// saved.
func Prepare(run *Run) {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
}
