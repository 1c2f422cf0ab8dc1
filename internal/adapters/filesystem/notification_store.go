package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// NotificationStore implements secondary.NotificationStore against
// <base>/inbox/director (§6).
type NotificationStore struct {
	dir string
}

// NewNotificationStore creates a NotificationStore rooted at
// <basePath>/inbox/director.
func NewNotificationStore(basePath string) *NotificationStore {
	return &NotificationStore{dir: filepath.Join(basePath, "inbox", "director")}
}

func timestampSuffix(createdAt string) string {
	return strings.NewReplacer("-", "", ":", "", "T", "_").Replace(createdAt)
}

// WriteEscalationNotice writes escalation_<code>_<YYYYMMDD_HHMMSS>.txt.
func (s *NotificationStore) WriteEscalationNotice(ctx context.Context, code, level, message, createdAt string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create director inbox: %w", err)
	}
	name := fmt.Sprintf("escalation_%s_%s.txt", code, timestampSuffix(createdAt))
	body := fmt.Sprintf(
		"Escalation %s\nLevel: %s\nTime: %s\nMessage: %s\n\n"+
			"Acknowledge with: sentinel escalation ack %s --role=director\n"+
			"Resolve with:      sentinel escalation resolve %s --note=\"...\" --role=director\n",
		code, level, createdAt, message, code, code,
	)
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(body), 0o644); err != nil {
		return fmt.Errorf("failed to write escalation notice for %s: %w", code, err)
	}
	return nil
}

// WriteLockdownNotice writes LOCKDOWN_<YYYYMMDD_HHMMSS>.txt.
func (s *NotificationStore) WriteLockdownNotice(ctx context.Context, reason, createdAt string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create director inbox: %w", err)
	}
	name := fmt.Sprintf("LOCKDOWN_%s.txt", timestampSuffix(createdAt))
	body := fmt.Sprintf(
		"SYSTEM LOCKDOWN\nTime: %s\nReason: %s\n\n"+
			"The system has quarantined itself and is rejecting researcher work.\n"+
			"Review open escalations with: sentinel escalation list --role=director\n"+
			"Once all are acknowledged or resolved, confirm recovery with:\n"+
			"  sentinel recovery verify --role=director\n"+
			"  sentinel recovery confirm --role=director\n",
		createdAt, reason,
	)
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(body), 0o644); err != nil {
		return fmt.Errorf("failed to write lockdown notice: %w", err)
	}
	return nil
}

var _ secondary.NotificationStore = (*NotificationStore)(nil)
