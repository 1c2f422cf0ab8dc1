package secondary

import "context"

// NotificationStore writes plain-text files into the director inbox (§6).
type NotificationStore interface {
	// WriteEscalationNotice writes escalation_<code>_<YYYYMMDD_HHMMSS>.txt.
	WriteEscalationNotice(ctx context.Context, code, level, message, createdAt string) error

	// WriteLockdownNotice writes LOCKDOWN_<YYYYMMDD_HHMMSS>.txt.
	WriteLockdownNotice(ctx context.Context, reason, createdAt string) error
}
