package primary

import "context"

// RecoveryService drives the LOCKDOWN -> RECOVERY -> NORMAL transition
// (§4.6). It never mutates state on verification; only TriggerLockdown and
// ConfirmRecovery write mode history.
type RecoveryService interface {
	// TriggerLockdown rejects with errs.InvariantViolation when already in
	// LOCKDOWN.
	TriggerLockdown(ctx context.Context, reason string) error

	// VerifyRecoveryConditions evaluates the four-predicate conjunction and
	// returns an ordered list of human-readable reasons for every failing
	// conjunct.
	VerifyRecoveryConditions(ctx context.Context) (ok bool, issues []string, err error)

	// ConfirmRecovery re-evaluates the predicate; on success it writes
	// RECOVERY then NORMAL in sequence. Fails with errs.InvariantViolation
	// if the predicate does not hold.
	ConfirmRecovery(ctx context.Context) error
}
