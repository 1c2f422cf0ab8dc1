package queuetask

import "testing"

func TestCanTransitionLegalEdges(t *testing.T) {
	legal := []struct{ from, to Status }{
		{Pending, Processing},
		{Processing, Completed},
		{Processing, Failed},
	}
	for _, c := range legal {
		if r := CanTransition(c.from, c.to); !r.Allowed {
			t.Errorf("expected %s -> %s to be allowed, reason: %s", c.from, c.to, r.Reason)
		}
	}
}

func TestCanTransitionIllegalEdges(t *testing.T) {
	illegal := []struct{ from, to Status }{
		{Pending, Completed},
		{Completed, Processing},
		{Failed, Processing},
		{Pending, Failed},
	}
	for _, c := range illegal {
		if r := CanTransition(c.from, c.to); r.Allowed {
			t.Errorf("expected %s -> %s to be rejected", c.from, c.to)
		}
	}
}

func TestReconcileRowToFileAlignsToFileWhenPending(t *testing.T) {
	newStatus, changed := ReconcileRowToFile(Processing, Pending)
	if !changed || newStatus != Pending {
		t.Errorf("expected reconciliation to Pending, got (%s, %v)", newStatus, changed)
	}
}

func TestReconcileRowToFileNoOpWhenAligned(t *testing.T) {
	_, changed := ReconcileRowToFile(Processing, Processing)
	if changed {
		t.Error("expected no reconciliation when row and file agree")
	}
}
