package primary

import "context"

// Escalation is an escalation record at the port boundary.
type Escalation struct {
	Code           string
	Level          string
	State          string
	Message        string
	CreatedAt      string
	NotifiedAt     string
	RemindedAt     string
	AcknowledgedAt   string
	ResolvedAt       string
	ResolutionNote   string
	AssignedDirector string
}

// EscalationFilters narrows an escalation listing.
type EscalationFilters struct {
	State string
}

// EscalationService runs the ingest/promote ladder (§4.5) and exposes the
// director-facing acknowledgment and resolution operations.
type EscalationService interface {
	// RunTick drains pending alerts into escalations and promotes every
	// non-terminal escalation whose threshold has elapsed, triggering
	// auto-lockdown at L4 when configured.
	RunTick(ctx context.Context) error

	GetEscalation(ctx context.Context, code string) (*Escalation, error)
	ListEscalations(ctx context.Context, filters EscalationFilters) ([]*Escalation, error)

	// AcknowledgeEscalation moves an escalation to ACKNOWLEDGED. Terminal
	// states reject with errs.InvariantViolation.
	AcknowledgeEscalation(ctx context.Context, code string) error

	// ResolveEscalation moves an escalation to RESOLVED with a note.
	ResolveEscalation(ctx context.Context, code, note string) error

	// ClaimEscalation records which director is working an escalation,
	// ahead of acknowledging or resolving it. Terminal states reject with
	// errs.InvariantViolation.
	ClaimEscalation(ctx context.Context, code, director string) error
}
