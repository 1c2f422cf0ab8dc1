package watchdog

import (
	"testing"
	"time"
)

func TestClassifyDiskBoundaries(t *testing.T) {
	if a := ClassifyDisk(79, 80, 90); a != nil {
		t.Errorf("expected no alert below warning threshold, got %+v", a)
	}
	if a := ClassifyDisk(80, 80, 90); a == nil || a.Severity != Warning {
		t.Errorf("expected WARNING exactly at threshold, got %+v", a)
	}
	if a := ClassifyDisk(90, 80, 90); a == nil || a.Severity != Critical {
		t.Errorf("expected CRITICAL exactly at threshold (critical wins), got %+v", a)
	}
	if a := ClassifyDisk(95, 80, 90); a == nil || a.Severity != Critical {
		t.Errorf("expected CRITICAL above threshold, got %+v", a)
	}
}

func TestClassifyHeartbeat(t *testing.T) {
	stale := 30 * time.Minute
	if a := ClassifyHeartbeat("processor", 29*time.Minute, stale); a != nil {
		t.Errorf("expected no alert under staleness window, got %+v", a)
	}
	if a := ClassifyHeartbeat("processor", 31*time.Minute, stale); a == nil || a.Code != "HEARTBEAT_STALE_processor" {
		t.Errorf("expected HEARTBEAT_STALE_processor, got %+v", a)
	}
}

func TestClassifyIntegrity(t *testing.T) {
	if a := ClassifyIntegrity("audit", true, ""); a != nil {
		t.Errorf("expected no alert when integrity passes, got %+v", a)
	}
	if a := ClassifyIntegrity("audit", false, "checksum mismatch"); a == nil || a.Code != "DB_INTEGRITY_audit" || a.Severity != Critical {
		t.Errorf("expected DB_INTEGRITY_audit critical alert, got %+v", a)
	}
}
