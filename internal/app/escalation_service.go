package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/researchctl/sentinel/internal/clock"
	"github.com/researchctl/sentinel/internal/config"
	coreescalation "github.com/researchctl/sentinel/internal/core/escalation"
	"github.com/researchctl/sentinel/internal/core/mode"
	"github.com/researchctl/sentinel/internal/errs"
	"github.com/researchctl/sentinel/internal/ports/primary"
	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// EscalationService implements primary.EscalationService: the ingest/promote
// ladder of §4.5. It is the only writer of escalation level, state, and
// timestamps outside of the director-facing ack/resolve calls.
type EscalationService struct {
	escalations secondary.EscalationRepository
	alerts      secondary.AlertStore
	notices     secondary.NotificationStore
	cfg         secondary.ConfigRepository
	modeRepo    secondary.ModeRepository
	audit       *AuditService
	clock       clock.Clock
}

// NewEscalationService creates an EscalationService.
func NewEscalationService(
	escalations secondary.EscalationRepository,
	alerts secondary.AlertStore,
	notices secondary.NotificationStore,
	cfg secondary.ConfigRepository,
	modeRepo secondary.ModeRepository,
	audit *AuditService,
	clk clock.Clock,
) *EscalationService {
	return &EscalationService{
		escalations: escalations,
		alerts:      alerts,
		notices:     notices,
		cfg:         cfg,
		modeRepo:    modeRepo,
		audit:       audit,
		clock:       clk,
	}
}

// RunTick drains pending alerts (ingest phase) then promotes every
// non-terminal escalation whose threshold has elapsed (promote phase),
// triggering auto-lockdown at L4 when configured.
func (s *EscalationService) RunTick(ctx context.Context) error {
	if err := s.ingest(ctx); err != nil {
		return err
	}
	return s.promote(ctx)
}

func (s *EscalationService) ingest(ctx context.Context) error {
	files, err := s.alerts.ListPending(ctx)
	if err != nil {
		return &errs.StorageFault{Target: "alerts", Err: err}
	}

	for _, f := range files {
		if f.Record == nil {
			// Malformed alert file: leave it in place (§7/§9), audit, and
			// move on to the next one instead of deleting it.
			if err := s.audit.Log(ctx, "system", "alert_ingest_error", f.Path, f.Err.Error()); err != nil {
				return err
			}
			continue
		}
		if err := s.ingestOne(ctx, *f.Record); err != nil {
			if err := s.handleItemError(ctx, "escalation_processing_error", f.Path, err); err != nil {
				return err
			}
			continue
		}
		if err := s.alerts.Delete(ctx, f.Path); err != nil {
			if err := s.handleItemError(ctx, "escalation_processing_error", f.Path, &errs.StorageFault{Target: f.Path, Err: err}); err != nil {
				return err
			}
			continue
		}
	}
	return nil
}

// handleItemError classifies err: storage faults and malformed input are
// logged to the audit trail under action, and the containing loop continues
// to the next item (§7 items 3-4). Any other error kind propagates so the
// tick aborts.
func (s *EscalationService) handleItemError(ctx context.Context, action, target string, err error) error {
	var sf *errs.StorageFault
	var mi *errs.MalformedInput
	if !errors.As(err, &sf) && !errors.As(err, &mi) {
		return err
	}
	return s.audit.Log(ctx, "system", action, target, err.Error())
}

func (s *EscalationService) ingestOne(ctx context.Context, alert secondary.AlertRecord) error {
	existing, err := s.escalations.GetByCode(ctx, alert.Code)
	if err != nil {
		return &errs.StorageFault{Target: "escalations:" + alert.Code, Err: err}
	}

	ts := clock.Format(s.clock.Now())

	if existing == nil {
		rec := &secondary.EscalationRecord{
			Code:      alert.Code,
			Level:     string(coreescalation.L1),
			State:     string(coreescalation.Detected),
			Message:   alert.Message,
			CreatedAt: ts,
		}
		if err := s.escalations.Create(ctx, rec); err != nil {
			return &errs.StorageFault{Target: "escalations:" + alert.Code, Err: err}
		}
		return s.notify(ctx, rec, ts)
	}

	state := coreescalation.State(existing.State)
	if state == coreescalation.Acknowledged || state == coreescalation.Resolved {
		// RESOLVED is never re-opened; ACKNOWLEDGED is never re-notified.
		return nil
	}
	existing.Message = alert.Message
	if state == coreescalation.Detected {
		// A prior tick died between Create and notify: catch it up now.
		return s.notify(ctx, existing, ts)
	}
	if err := s.escalations.Update(ctx, existing); err != nil {
		return &errs.StorageFault{Target: "escalations:" + alert.Code, Err: err}
	}
	return nil
}

func (s *EscalationService) notify(ctx context.Context, rec *secondary.EscalationRecord, ts string) error {
	rec.State = string(coreescalation.Notified)
	rec.NotifiedAt = ts
	if err := s.escalations.Update(ctx, rec); err != nil {
		return &errs.StorageFault{Target: "escalations:" + rec.Code, Err: err}
	}
	if err := s.notices.WriteEscalationNotice(ctx, rec.Code, rec.Level, rec.Message, ts); err != nil {
		return &errs.StorageFault{Target: "director_inbox", Err: err}
	}
	return s.audit.Log(ctx, "system", "escalation_notified", rec.Code, fmt.Sprintf("level=%s", rec.Level))
}

func (s *EscalationService) promote(ctx context.Context) error {
	all, err := s.escalations.List(ctx, secondary.EscalationFilters{})
	if err != nil {
		return &errs.StorageFault{Target: "escalations", Err: err}
	}

	for _, rec := range all {
		if coreescalation.IsTerminal(coreescalation.State(rec.State)) {
			continue
		}
		if err := s.promoteOne(ctx, rec); err != nil {
			if err := s.handleItemError(ctx, "escalation_check_error", rec.Code, err); err != nil {
				return err
			}
			continue
		}
	}
	return nil
}

func (s *EscalationService) promoteOne(ctx context.Context, rec *secondary.EscalationRecord) error {
	level := coreescalation.Level(rec.Level)

	notifiedAt, err := parseOrZero(rec.NotifiedAt)
	if err != nil {
		return &errs.MalformedInput{Target: "escalations:" + rec.Code + ":notified_at", Err: err}
	}
	remindedAt, err := parseOrZero(rec.RemindedAt)
	if err != nil {
		return &errs.MalformedInput{Target: "escalations:" + rec.Code + ":reminded_at", Err: err}
	}

	last := coreescalation.LastNotifiedAt(notifiedAt, remindedAt)
	if last.IsZero() {
		// DETECTED but never notified: ingest always notifies on creation,
		// so this only happens if a prior tick died between Create and
		// notify. Treat it the same as "just detected": nothing to promote
		// yet, ingest will catch it up in the next pass over the same code.
		return nil
	}

	now := s.clock.Now()
	elapsed := now.Sub(last)
	if !coreescalation.PromotionDue(level, elapsed) {
		return nil
	}

	ts := clock.Format(now)

	next, hasNext := coreescalation.NextLevel(level)
	if hasNext {
		rec.Level = string(next)
		rec.State = string(coreescalation.Notified)
		rec.NotifiedAt = ts
		if err := s.escalations.Update(ctx, rec); err != nil {
			return &errs.StorageFault{Target: "escalations:" + rec.Code, Err: err}
		}
		if err := s.notices.WriteEscalationNotice(ctx, rec.Code, rec.Level, rec.Message, ts); err != nil {
			return &errs.StorageFault{Target: "director_inbox", Err: err}
		}
		return s.audit.Log(ctx, "system", "escalation_promoted", rec.Code, fmt.Sprintf("level=%s", rec.Level))
	}

	return s.maybeAutoLockdown(ctx, rec, ts)
}

func (s *EscalationService) maybeAutoLockdown(ctx context.Context, rec *secondary.EscalationRecord, ts string) error {
	raw, ok, err := s.cfg.Get(ctx, config.KeyAutoLockdownEnabled)
	if err != nil {
		return &errs.StorageFault{Target: "config:" + config.KeyAutoLockdownEnabled, Err: err}
	}
	enabled := config.Defaults[config.KeyAutoLockdownEnabled]
	if ok {
		enabled = raw
	}
	if !config.ParseBool(enabled) {
		return nil
	}

	current, err := s.modeRepo.Current(ctx)
	if err != nil {
		return &errs.StorageFault{Target: "system_mode", Err: err}
	}
	if current.Mode == string(mode.Lockdown) {
		// Already quarantined: idempotent, no duplicate mode row or notice.
		return nil
	}

	reason := fmt.Sprintf("Automatic lockdown triggered by L4 escalation: %s", rec.Code)
	if _, err := s.modeRepo.Append(ctx, string(mode.Lockdown), reason, ts); err != nil {
		return &errs.StorageFault{Target: "system_mode", Err: err}
	}
	if err := s.audit.Log(ctx, "system", "lockdown_triggered", rec.Code, reason); err != nil {
		return err
	}
	return s.notices.WriteLockdownNotice(ctx, reason, ts)
}

func parseOrZero(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return clock.Parse(s)
}

// GetEscalation returns a single escalation by code, nil if absent.
func (s *EscalationService) GetEscalation(ctx context.Context, code string) (*primary.Escalation, error) {
	rec, err := s.escalations.GetByCode(ctx, code)
	if err != nil {
		return nil, &errs.StorageFault{Target: "escalations:" + code, Err: err}
	}
	if rec == nil {
		return nil, nil
	}
	return toEscalation(rec), nil
}

// ListEscalations lists escalations, optionally filtered by state.
func (s *EscalationService) ListEscalations(ctx context.Context, filters primary.EscalationFilters) ([]*primary.Escalation, error) {
	recs, err := s.escalations.List(ctx, secondary.EscalationFilters{State: filters.State})
	if err != nil {
		return nil, &errs.StorageFault{Target: "escalations", Err: err}
	}
	out := make([]*primary.Escalation, 0, len(recs))
	for _, r := range recs {
		out = append(out, toEscalation(r))
	}
	return out, nil
}

// AcknowledgeEscalation moves an escalation to ACKNOWLEDGED. Terminal states
// reject with errs.InvariantViolation.
func (s *EscalationService) AcknowledgeEscalation(ctx context.Context, code string) error {
	rec, err := s.escalations.GetByCode(ctx, code)
	if err != nil {
		return &errs.StorageFault{Target: "escalations:" + code, Err: err}
	}
	if rec == nil {
		return &errs.InvariantViolation{Reason: fmt.Sprintf("no escalation with code %q", code)}
	}
	if coreescalation.IsTerminal(coreescalation.State(rec.State)) {
		return &errs.InvariantViolation{Reason: fmt.Sprintf("escalation %q is already in terminal state %s", code, rec.State)}
	}

	ts := clock.Format(s.clock.Now())
	rec.State = string(coreescalation.Acknowledged)
	rec.AcknowledgedAt = ts
	if err := s.escalations.Update(ctx, rec); err != nil {
		return &errs.StorageFault{Target: "escalations:" + code, Err: err}
	}
	return s.audit.Log(ctx, "director", "escalation_acknowledged", code, "")
}

// ResolveEscalation moves an escalation to RESOLVED with a note.
func (s *EscalationService) ResolveEscalation(ctx context.Context, code, note string) error {
	rec, err := s.escalations.GetByCode(ctx, code)
	if err != nil {
		return &errs.StorageFault{Target: "escalations:" + code, Err: err}
	}
	if rec == nil {
		return &errs.InvariantViolation{Reason: fmt.Sprintf("no escalation with code %q", code)}
	}
	if coreescalation.IsTerminal(coreescalation.State(rec.State)) {
		return &errs.InvariantViolation{Reason: fmt.Sprintf("escalation %q is already in terminal state %s", code, rec.State)}
	}

	ts := clock.Format(s.clock.Now())
	rec.State = string(coreescalation.Resolved)
	rec.ResolvedAt = ts
	rec.ResolutionNote = note
	if err := s.escalations.Update(ctx, rec); err != nil {
		return &errs.StorageFault{Target: "escalations:" + code, Err: err}
	}
	return s.audit.Log(ctx, "director", "escalation_resolved", code, note)
}

// ClaimEscalation records which director is working an escalation, ahead
// of acknowledging or resolving it.
func (s *EscalationService) ClaimEscalation(ctx context.Context, code, director string) error {
	rec, err := s.escalations.GetByCode(ctx, code)
	if err != nil {
		return &errs.StorageFault{Target: "escalations:" + code, Err: err}
	}
	if rec == nil {
		return &errs.InvariantViolation{Reason: fmt.Sprintf("no escalation with code %q", code)}
	}
	if coreescalation.IsTerminal(coreescalation.State(rec.State)) {
		return &errs.InvariantViolation{Reason: fmt.Sprintf("escalation %q is already in terminal state %s", code, rec.State)}
	}
	if err := s.escalations.AssignDirector(ctx, code, director); err != nil {
		return &errs.StorageFault{Target: "escalations:" + code, Err: err}
	}
	return s.audit.Log(ctx, "director", "escalation_claimed", code, director)
}

func toEscalation(r *secondary.EscalationRecord) *primary.Escalation {
	return &primary.Escalation{
		Code:             r.Code,
		Level:            r.Level,
		State:            r.State,
		Message:          r.Message,
		CreatedAt:        r.CreatedAt,
		NotifiedAt:       r.NotifiedAt,
		RemindedAt:       r.RemindedAt,
		AcknowledgedAt:   r.AcknowledgedAt,
		ResolvedAt:       r.ResolvedAt,
		ResolutionNote:   r.ResolutionNote,
		AssignedDirector: r.AssignedDirector,
	}
}

var _ primary.EscalationService = (*EscalationService)(nil)
