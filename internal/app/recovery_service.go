package app

import (
	"context"
	"fmt"

	"github.com/researchctl/sentinel/internal/clock"
	"github.com/researchctl/sentinel/internal/core/mode"
	corerecovery "github.com/researchctl/sentinel/internal/core/recovery"
	"github.com/researchctl/sentinel/internal/errs"
	"github.com/researchctl/sentinel/internal/ports/primary"
	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// RecoveryService implements primary.RecoveryService: the LOCKDOWN ->
// RECOVERY -> NORMAL transition of §4.6. It is the only caller that may
// write mode history during an active lockdown.
type RecoveryService struct {
	modeRepo    secondary.ModeRepository
	escalations secondary.EscalationRepository
	integrity   secondary.IntegrityChecker
	audit       *AuditService
	clock       clock.Clock
}

// NewRecoveryService creates a RecoveryService.
func NewRecoveryService(
	modeRepo secondary.ModeRepository,
	escalations secondary.EscalationRepository,
	integrity secondary.IntegrityChecker,
	audit *AuditService,
	clk clock.Clock,
) *RecoveryService {
	return &RecoveryService{
		modeRepo:    modeRepo,
		escalations: escalations,
		integrity:   integrity,
		audit:       audit,
		clock:       clk,
	}
}

// TriggerLockdown rejects with errs.InvariantViolation when already in
// LOCKDOWN.
func (s *RecoveryService) TriggerLockdown(ctx context.Context, reason string) error {
	current, err := s.modeRepo.Current(ctx)
	if err != nil {
		return &errs.StorageFault{Target: "system_mode", Err: err}
	}
	if current.Mode == string(mode.Lockdown) {
		return &errs.InvariantViolation{Reason: "system is already in LOCKDOWN"}
	}

	ts := clock.Format(s.clock.Now())
	if _, err := s.modeRepo.Append(ctx, string(mode.Lockdown), reason, ts); err != nil {
		return &errs.StorageFault{Target: "system_mode", Err: err}
	}
	return s.audit.Log(ctx, "director", "lockdown_triggered", "", reason)
}

// VerifyRecoveryConditions evaluates the four-predicate conjunction without
// mutating any state.
func (s *RecoveryService) VerifyRecoveryConditions(ctx context.Context) (bool, []string, error) {
	cond, err := s.gatherConditions(ctx)
	if err != nil {
		return false, nil, err
	}
	ok, issues := corerecovery.Evaluate(cond)
	return ok, issues, nil
}

// ConfirmRecovery re-evaluates the predicate; on success it writes RECOVERY
// then NORMAL in sequence.
func (s *RecoveryService) ConfirmRecovery(ctx context.Context) error {
	cond, err := s.gatherConditions(ctx)
	if err != nil {
		return err
	}
	ok, issues := corerecovery.Evaluate(cond)
	if !ok {
		return &errs.InvariantViolation{Reason: fmt.Sprintf("recovery conditions not met: %v", issues)}
	}

	now := s.clock.Now()
	recoveryTS := clock.Format(now)
	if _, err := s.modeRepo.Append(ctx, string(mode.Recovery), "Director confirmed recovery", recoveryTS); err != nil {
		return &errs.StorageFault{Target: "system_mode", Err: err}
	}
	if err := s.audit.Log(ctx, "director", "recovery_initiated", "", ""); err != nil {
		return err
	}

	normalTS := clock.Format(s.clock.Now())
	if _, err := s.modeRepo.Append(ctx, string(mode.Normal), "Recovery completed", normalTS); err != nil {
		return &errs.StorageFault{Target: "system_mode", Err: err}
	}
	return s.audit.Log(ctx, "system", "recovery_completed", "", "")
}

func (s *RecoveryService) gatherConditions(ctx context.Context) (corerecovery.Conditions, error) {
	current, err := s.modeRepo.Current(ctx)
	if err != nil {
		return corerecovery.Conditions{}, &errs.StorageFault{Target: "system_mode", Err: err}
	}

	unhandled, err := s.escalations.CountUnhandled(ctx)
	if err != nil {
		return corerecovery.Conditions{}, &errs.StorageFault{Target: "escalations", Err: err}
	}

	databasesIntegral := true
	for _, name := range s.integrity.Databases() {
		ok, _, err := s.integrity.Check(name)
		if err != nil {
			return corerecovery.Conditions{}, &errs.StorageFault{Target: "db:" + name, Err: err}
		}
		if !ok {
			databasesIntegral = false
			break
		}
	}

	auditIntegral, err := s.audit.VerifyIntegrity(ctx)
	if err != nil {
		return corerecovery.Conditions{}, err
	}

	return corerecovery.Conditions{
		InLockdown:           current.Mode == string(mode.Lockdown),
		UnhandledEscalations: unhandled,
		DatabasesIntegral:    databasesIntegral,
		AuditIntegral:        auditIntegral,
	}, nil
}

var _ primary.RecoveryService = (*RecoveryService)(nil)
