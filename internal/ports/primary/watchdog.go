package primary

import "context"

// WatchdogService runs the disk/heartbeat/integrity probes (§4.4) and
// writes their results as alert files for the Escalation Engine to
// ingest.
type WatchdogService interface {
	// RunTick performs one round of probes, writes any alerts, and
	// updates the watchdog's own heartbeat regardless of outcome.
	RunTick(ctx context.Context) error
}
