package secondary

import "context"

// AlertRecord is the on-disk shape of a watchdog alert (§6): a one-shot
// artifact written by the Watchdog and consumed exactly once by the
// Escalation Engine.
type AlertRecord struct {
	Level     string `json:"level"` // WARNING or CRITICAL
	Code      string `json:"code"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"` // ISO-8601
}

// AlertFile pairs a directory entry with its parsed contents. Record is nil
// when the file could not be parsed — the malformed-input path (§7) keeps
// the file in place for inspection rather than deleting it.
type AlertFile struct {
	Path   string
	Record *AlertRecord
	Err    error
}

// AlertStore is write-only for the Watchdog and delete-only for the
// Escalation Engine (§5).
type AlertStore interface {
	// Write creates a new alert file named <code>_<YYYYMMDD_HHMMSS>.json.
	Write(ctx context.Context, rec AlertRecord) error

	// ListPending returns every alert file in directory-listing order,
	// parsed or not (§5's ingestion-order guarantee).
	ListPending(ctx context.Context) ([]AlertFile, error)

	// Delete removes an alert file after successful ingestion. Tolerates a
	// missing file (idempotent retry across ticks, §5).
	Delete(ctx context.Context, path string) error
}
