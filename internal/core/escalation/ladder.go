// Package escalation contains the pure ladder logic: levels, their
// promotion thresholds, and the state machine rules that decide whether an
// escalation may still be promoted. It performs no I/O; the Escalation
// Engine service drives it against the repository and the clock.
package escalation

import "time"

// Level is a rung on the escalation ladder, L1 (mildest) through L4
// (triggers automatic lockdown).
type Level string

const (
	L1 Level = "L1"
	L2 Level = "L2"
	L3 Level = "L3"
	L4 Level = "L4"
)

// State is the lifecycle state of an escalation record.
type State string

const (
	Detected     State = "DETECTED"
	Notified     State = "NOTIFIED"
	Reminded     State = "REMINDED"
	Acknowledged State = "ACKNOWLEDGED"
	Resolved     State = "RESOLVED"
	Expired      State = "EXPIRED"
)

// Terminal states are sticky: once reached, automatic promotion never
// touches the record again.
var terminal = map[State]bool{
	Acknowledged: true,
	Resolved:     true,
	Expired:      true,
}

// IsTerminal reports whether s is a sticky terminal state.
func IsTerminal(s State) bool {
	return terminal[s]
}

// Handled reports whether s counts as "handled" for the recovery gate.
// Only ACKNOWLEDGED and RESOLVED count; EXPIRED does not.
func Handled(s State) bool {
	return s == Acknowledged || s == Resolved
}

// thresholds maps each level to the elapsed duration that must pass since
// the last notification before the ladder promotes to the next level (or,
// at L4, triggers auto-lockdown).
var thresholds = map[Level]time.Duration{
	L1: 24 * time.Hour,
	L2: 48 * time.Hour,
	L3: 72 * time.Hour,
	L4: 168 * time.Hour,
}

// Threshold returns the promotion threshold for level.
func Threshold(level Level) time.Duration {
	return thresholds[level]
}

// next maps each non-terminal level to the level it promotes to. L4 has no
// next level — promoting past L4 means triggering lockdown, not a Level.
var next = map[Level]Level{
	L1: L2,
	L2: L3,
	L3: L4,
}

// NextLevel returns the level that follows level, and ok=false if level is
// already L4 (the ceiling of the ladder).
func NextLevel(level Level) (Level, bool) {
	n, ok := next[level]
	return n, ok
}

// PromotionDue reports whether elapsed (now - max(reminded_at, notified_at))
// has reached level's threshold. Negative elapsed (a backward clock skew)
// never triggers promotion.
func PromotionDue(level Level, elapsed time.Duration) bool {
	if elapsed < 0 {
		return false
	}
	return elapsed >= Threshold(level)
}

// LastNotifiedAt returns the more recent of remindedAt and notifiedAt,
// treating a zero time as "never". This is the reference point promotion
// elapsed-time is measured from.
func LastNotifiedAt(notifiedAt, remindedAt time.Time) time.Time {
	if remindedAt.After(notifiedAt) {
		return remindedAt
	}
	return notifiedAt
}
