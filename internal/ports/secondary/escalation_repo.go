package secondary

import "context"

// EscalationRecord is one row of management.escalations.
type EscalationRecord struct {
	Code           string // unique, stable identifier
	Level          string
	State          string
	Message        string
	CreatedAt      string
	NotifiedAt     string
	RemindedAt     string
	AcknowledgedAt string
	ResolvedAt     string
	ResolutionNote string

	// AssignedDirector optionally names the director who claimed this
	// escalation ahead of acknowledging it. Claiming narrows who is
	// expected to act; it has no effect on ladder promotion or the
	// recovery gate.
	AssignedDirector string
}

// EscalationFilters narrows an escalation listing.
type EscalationFilters struct {
	State string // empty means no filter
}

// EscalationRepository is the escalation row store (management.escalations).
type EscalationRepository interface {
	Create(ctx context.Context, rec *EscalationRecord) error
	GetByCode(ctx context.Context, code string) (*EscalationRecord, error) // nil, nil if absent
	List(ctx context.Context, filters EscalationFilters) ([]*EscalationRecord, error)
	Update(ctx context.Context, rec *EscalationRecord) error

	// AssignDirector sets or clears (empty string) the claiming director
	// for an escalation.
	AssignDirector(ctx context.Context, code, director string) error

	// CountUnhandled returns the number of escalations whose state is not
	// in {ACKNOWLEDGED, RESOLVED, EXPIRED} — the recovery gate's second
	// conjunct.
	CountUnhandled(ctx context.Context) (int, error)
}
