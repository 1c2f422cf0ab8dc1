// Package executor holds the placeholder task-execution body named as an
// external collaborator in §1. Production deployments are expected to
// replace this with a real implementation that dispatches to whatever a
// research task actually means to run; the core only depends on the
// TaskExecutor port, never on this type directly.
package executor

import (
	"context"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// Placeholder implements secondary.TaskExecutor by succeeding immediately.
// It exists so the processor daemon and CLI have something to wire without
// pulling in a real workload runner.
type Placeholder struct{}

// New creates a Placeholder task executor.
func New() *Placeholder {
	return &Placeholder{}
}

// Execute always succeeds. A real TaskExecutor must be idempotent (§4.3) —
// this one trivially is, since it does nothing.
func (Placeholder) Execute(ctx context.Context, taskID int64, name, description string) error {
	return nil
}

var _ secondary.TaskExecutor = Placeholder{}
