package secondary

import "context"

// HeartbeatRepository is the database mirror of liveness for the watchdog
// itself (system.heartbeats). Other components publish liveness only as a
// filesystem heartbeat file (see HeartbeatFileStore); the watchdog is
// mirrored into the database so its own liveness can be queried by a report
// or the CLI without touching the filesystem.
type HeartbeatRepository interface {
	Beat(ctx context.Context, component, timestamp, status string) error
	Get(ctx context.Context, component string) (lastBeat, status string, ok bool, err error)
}
