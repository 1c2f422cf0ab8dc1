package app

import (
	"context"

	"github.com/researchctl/sentinel/internal/clock"
	"github.com/researchctl/sentinel/internal/core/audit"
	"github.com/researchctl/sentinel/internal/errs"
	"github.com/researchctl/sentinel/internal/ports/primary"
	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// AuditService implements primary.AuditService, the append-only,
// checksum-chained audit log (§4.2). Every write computes its own checksum
// at write time; verification recomputes it from the stored fields, never
// trusting the stored checksum as an oracle for itself.
type AuditService struct {
	repo  secondary.AuditRepository
	clock clock.Clock
}

// NewAuditService creates an AuditService.
func NewAuditService(repo secondary.AuditRepository, clk clock.Clock) *AuditService {
	return &AuditService{repo: repo, clock: clk}
}

// Log appends a new audit row, stamping it with the current time and its
// own checksum.
func (s *AuditService) Log(ctx context.Context, role, action, target, details string) error {
	ts := clock.Format(s.clock.Now())
	rec := &secondary.AuditRecord{
		Timestamp: ts,
		Role:      role,
		Action:    action,
		Target:    target,
		Details:   details,
		Checksum:  audit.Checksum(ts, role, action, target, details),
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		return &errs.StorageFault{Target: "audit_log", Err: err}
	}
	return nil
}

// Recent returns the n most recently logged rows, newest first.
func (s *AuditService) Recent(ctx context.Context, n int) ([]*primary.AuditEntry, error) {
	recs, err := s.repo.Recent(ctx, n)
	if err != nil {
		return nil, &errs.StorageFault{Target: "audit_log", Err: err}
	}
	out := make([]*primary.AuditEntry, 0, len(recs))
	for _, r := range recs {
		out = append(out, toAuditEntry(r))
	}
	return out, nil
}

// VerifyIntegrity recomputes every row's checksum from its stored fields
// and reports whether all rows still match. A single tampered or corrupted
// row fails the whole check — callers needing to know which row must read
// the audit log directly.
func (s *AuditService) VerifyIntegrity(ctx context.Context) (bool, error) {
	recs, err := s.repo.All(ctx)
	if err != nil {
		return false, &errs.StorageFault{Target: "audit_log", Err: err}
	}
	for _, r := range recs {
		if !audit.Verify(r.Timestamp, r.Role, r.Action, r.Target, r.Details, r.Checksum) {
			return false, nil
		}
	}
	return true, nil
}

func toAuditEntry(r *secondary.AuditRecord) *primary.AuditEntry {
	return &primary.AuditEntry{
		ID:        r.ID,
		Timestamp: r.Timestamp,
		Role:      r.Role,
		Action:    r.Action,
		Target:    r.Target,
		Details:   r.Details,
		Checksum:  r.Checksum,
	}
}

var _ primary.AuditService = (*AuditService)(nil)
