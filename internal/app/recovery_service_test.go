package app

import (
	"context"
	"errors"
	"testing"

	"github.com/researchctl/sentinel/internal/errs"
	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// mockIntegrityChecker implements secondary.IntegrityChecker in-memory.
type mockIntegrityChecker struct {
	dbs    []string
	failed map[string]bool
}

func newMockIntegrityChecker(dbs ...string) *mockIntegrityChecker {
	return &mockIntegrityChecker{dbs: dbs, failed: map[string]bool{}}
}

func (m *mockIntegrityChecker) Databases() []string { return m.dbs }

func (m *mockIntegrityChecker) Check(name string) (bool, string, error) {
	if m.failed[name] {
		return false, "simulated corruption", nil
	}
	return true, "", nil
}

func TestRecoveryGateBlocksOnUnhandledEscalation(t *testing.T) {
	clk := testClock()
	modeRepo := newMockModeRepository("LOCKDOWN")
	escalations := newMockEscalationRepository()
	_ = escalations.Create(context.Background(), &secondary.EscalationRecord{Code: "X", Level: "L1", State: "NOTIFIED"})
	integrity := newMockIntegrityChecker("system", "research", "management", "shared", "audit")
	auditSvc, _ := newTestAuditService(clk)

	svc := NewRecoveryService(modeRepo, escalations, integrity, auditSvc, clk)
	ctx := context.Background()

	ok, issues, err := svc.VerifyRecoveryConditions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected recovery conditions to fail with an unhandled escalation")
	}
	if len(issues) != 1 {
		t.Fatalf("expected exactly one issue, got %v", issues)
	}

	rec, _ := escalations.GetByCode(ctx, "X")
	rec.State = "ACKNOWLEDGED"
	rec.AcknowledgedAt = "2026-01-02T00:00:00"
	if err := escalations.Update(ctx, rec); err != nil {
		t.Fatal(err)
	}

	ok, issues, err = svc.VerifyRecoveryConditions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !ok || len(issues) != 0 {
		t.Fatalf("expected conditions satisfied after acknowledgment, got ok=%v issues=%v", ok, issues)
	}

	if err := svc.ConfirmRecovery(ctx); err != nil {
		t.Fatalf("confirm recovery: %v", err)
	}
	tail := modeRepo.history[len(modeRepo.history)-2:]
	if tail[0].Mode != "RECOVERY" || tail[1].Mode != "NORMAL" {
		t.Fatalf("expected mode history tail [RECOVERY, NORMAL], got %+v", tail)
	}
	if tail[0].Reason != "Director confirmed recovery" {
		t.Fatalf("expected exact RECOVERY reason text, got %q", tail[0].Reason)
	}
	if tail[1].Reason != "Recovery completed" {
		t.Fatalf("expected exact NORMAL reason text, got %q", tail[1].Reason)
	}
}

func TestRecoveryGateBlocksOnAuditTamper(t *testing.T) {
	clk := testClock()
	modeRepo := newMockModeRepository("LOCKDOWN")
	escalations := newMockEscalationRepository()
	integrity := newMockIntegrityChecker("system", "research", "management", "shared", "audit")
	auditSvc, auditRepo := newTestAuditService(clk)

	for i := 0; i < 5; i++ {
		if err := auditSvc.Log(context.Background(), "system", "noop", "", ""); err != nil {
			t.Fatal(err)
		}
	}
	// Tamper with one row in place without recomputing its checksum.
	auditRepo.rows[2].Details = "tampered"

	svc := NewRecoveryService(modeRepo, escalations, integrity, auditSvc, clk)
	ctx := context.Background()

	ok, err := auditSvc.VerifyIntegrity(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected tampered row to fail integrity verification")
	}

	ok, issues, err := svc.VerifyRecoveryConditions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected recovery conditions to fail when audit integrity fails")
	}
	found := false
	for _, issue := range issues {
		if issue == "audit log failed its integrity check" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an audit-integrity issue, got %v", issues)
	}
}

func TestRecoveryGateBlocksOnDatabaseIntegrity(t *testing.T) {
	clk := testClock()
	modeRepo := newMockModeRepository("LOCKDOWN")
	escalations := newMockEscalationRepository()
	integrity := newMockIntegrityChecker("system", "research", "management", "shared", "audit")
	integrity.failed["research"] = true
	auditSvc, _ := newTestAuditService(clk)

	svc := NewRecoveryService(modeRepo, escalations, integrity, auditSvc, clk)
	ok, issues, err := svc.VerifyRecoveryConditions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if ok || len(issues) == 0 {
		t.Fatalf("expected a failing conjunct for database integrity, got ok=%v issues=%v", ok, issues)
	}
}

func TestTriggerLockdownRejectsWhenAlreadyLockedDown(t *testing.T) {
	clk := testClock()
	modeRepo := newMockModeRepository("LOCKDOWN")
	escalations := newMockEscalationRepository()
	integrity := newMockIntegrityChecker("system")
	auditSvc, _ := newTestAuditService(clk)
	svc := NewRecoveryService(modeRepo, escalations, integrity, auditSvc, clk)

	err := svc.TriggerLockdown(context.Background(), "test")
	var invariant *errs.InvariantViolation
	if !errors.As(err, &invariant) {
		t.Fatalf("expected InvariantViolation, got %v", err)
	}
}
