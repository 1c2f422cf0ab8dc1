// Package watchdog contains the pure classification logic behind the three
// health probes: disk usage, heartbeat staleness, and database integrity.
// Each classifier turns a raw measurement into zero or one Alert; the
// Watchdog service performs the measurement and writes the result.
package watchdog

import (
	"fmt"
	"time"
)

// Severity of an emitted alert.
type Severity string

const (
	Warning  Severity = "WARNING"
	Critical Severity = "CRITICAL"
)

// Alert is the one-shot artifact a probe emits.
type Alert struct {
	Severity Severity
	Code     string
	Message  string
}

// ClassifyDisk compares usedPercent against the warning and critical
// thresholds. Critical wins when both are met (a value can be at or above
// both thresholds at once).
func ClassifyDisk(usedPercent, warningThreshold, criticalThreshold int) *Alert {
	if usedPercent >= criticalThreshold {
		return &Alert{
			Severity: Critical,
			Code:     "DISK_CRITICAL",
			Message:  fmt.Sprintf("disk usage at %d%% (critical threshold %d%%)", usedPercent, criticalThreshold),
		}
	}
	if usedPercent >= warningThreshold {
		return &Alert{
			Severity: Warning,
			Code:     "DISK_WARNING",
			Message:  fmt.Sprintf("disk usage at %d%% (warning threshold %d%%)", usedPercent, warningThreshold),
		}
	}
	return nil
}

// ClassifyHeartbeat emits a WARNING when a component's heartbeat age
// exceeds staleAfter. A missing heartbeat file is represented by the caller
// simply not calling this function — never-ran and died are distinguished
// upstream, not here.
func ClassifyHeartbeat(component string, age, staleAfter time.Duration) *Alert {
	if age <= staleAfter {
		return nil
	}
	return &Alert{
		Severity: Warning,
		Code:     fmt.Sprintf("HEARTBEAT_STALE_%s", component),
		Message:  fmt.Sprintf("%s heartbeat is %s old (stale after %s)", component, age.Round(time.Second), staleAfter),
	}
}

// ClassifyIntegrity emits a CRITICAL alert when a database fails its
// integrity check.
func ClassifyIntegrity(dbName string, ok bool, detail string) *Alert {
	if ok {
		return nil
	}
	return &Alert{
		Severity: Critical,
		Code:     fmt.Sprintf("DB_INTEGRITY_%s", dbName),
		Message:  fmt.Sprintf("integrity check failed for %s: %s", dbName, detail),
	}
}
