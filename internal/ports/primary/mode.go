// Package primary defines the service interfaces the CLI and daemon
// entrypoints call. Implementations live in internal/app.
package primary

import "context"

// ModeStatus is the current mode plus when and why it was last set.
type ModeStatus struct {
	Mode      string
	UpdatedAt string
	Reason    string
}

// ModeService owns the current operational mode and the two decision
// predicates the rest of the system gates on.
type ModeService interface {
	GetMode(ctx context.Context) (*ModeStatus, error)

	// SetMode rejects unknown modes (errs.MalformedInput) but otherwise
	// lets any caller write any mode — the policy about *who* may write
	// which mode lives in the callers (Escalation Engine, Recovery Gate,
	// director CLI commands), not here.
	SetMode(ctx context.Context, mode, reason string) error

	CanProcessTasks(ctx context.Context) (bool, error)
	CanResearcherAccess(ctx context.Context) (bool, error)
}
