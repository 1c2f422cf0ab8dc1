package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// HeartbeatFileStore implements secondary.HeartbeatFileStore against
// <base>/system/heartbeat/<component>.beat. A missing file means the
// component has never run; the Watchdog relies on this distinction rather
// than treating every absence as staleness.
type HeartbeatFileStore struct {
	dir string
}

// NewHeartbeatFileStore creates a HeartbeatFileStore rooted at
// <basePath>/system/heartbeat.
func NewHeartbeatFileStore(basePath string) *HeartbeatFileStore {
	return &HeartbeatFileStore{dir: filepath.Join(basePath, "system", "heartbeat")}
}

func (s *HeartbeatFileStore) path(component string) string {
	return filepath.Join(s.dir, component+".beat")
}

// Touch writes the component's heartbeat file, setting its mtime to at.
func (s *HeartbeatFileStore) Touch(ctx context.Context, component string, at time.Time) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create heartbeat directory: %w", err)
	}
	p := s.path(component)
	if err := os.WriteFile(p, []byte(at.Format(time.RFC3339)), 0o644); err != nil {
		return fmt.Errorf("failed to write heartbeat for %s: %w", component, err)
	}
	if err := os.Chtimes(p, at, at); err != nil {
		return fmt.Errorf("failed to set heartbeat mtime for %s: %w", component, err)
	}
	return nil
}

// MTime returns ok=false when the component's heartbeat file does not
// exist — never-ran, not stale.
func (s *HeartbeatFileStore) MTime(ctx context.Context, component string) (time.Time, bool, error) {
	info, err := os.Stat(s.path(component))
	if os.IsNotExist(err) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("failed to stat heartbeat for %s: %w", component, err)
	}
	return info.ModTime(), true, nil
}

var _ secondary.HeartbeatFileStore = (*HeartbeatFileStore)(nil)
