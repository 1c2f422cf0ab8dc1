// Package recovery contains the pure predicate evaluator behind the
// recovery gate. It never mutates state and performs no I/O; the Recovery
// Gate service gathers the four inputs and hands them here.
package recovery

import "fmt"

// Conditions holds the four inputs the verification predicate conjoins.
type Conditions struct {
	InLockdown           bool
	UnhandledEscalations int
	DatabasesIntegral    bool
	AuditIntegral        bool
}

// Evaluate conjoins the four conditions and returns ok plus an ordered,
// human-readable reason for every failing conjunct.
func Evaluate(c Conditions) (ok bool, issues []string) {
	if !c.InLockdown {
		issues = append(issues, "current mode is not LOCKDOWN")
	}
	if c.UnhandledEscalations > 0 {
		issues = append(issues, fmt.Sprintf("%d escalation(s) not acknowledged or resolved", c.UnhandledEscalations))
	}
	if !c.DatabasesIntegral {
		issues = append(issues, "one or more databases failed their integrity check")
	}
	if !c.AuditIntegral {
		issues = append(issues, "audit log failed its integrity check")
	}
	return len(issues) == 0, issues
}
