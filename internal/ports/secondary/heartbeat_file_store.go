package secondary

import (
	"context"
	"time"
)

// HeartbeatFileStore is the per-component liveness file under
// system/heartbeat/ (§3, §4.4). A missing file means the component has
// never run, which the Watchdog must distinguish from a stale one.
type HeartbeatFileStore interface {
	// Touch writes the component's heartbeat file with the current
	// timestamp as its mtime.
	Touch(ctx context.Context, component string, at time.Time) error

	// MTime returns the heartbeat file's last-modified time. ok is false
	// when the file does not exist.
	MTime(ctx context.Context, component string) (mtime time.Time, ok bool, err error)
}
