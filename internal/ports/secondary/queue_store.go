package secondary

import "context"

// QueueStore materializes the directory-per-state file side of a task
// (§3, §4.3). The row in TaskRepository is authoritative for status; this
// is the unit of work the processor scans.
type QueueStore interface {
	// WritePending writes <id>.json into the pending directory.
	WritePending(ctx context.Context, id int64, content []byte) error

	// Move relocates <id>.json from one status directory to another.
	// Tolerates the destination already existing (retry safety).
	Move(ctx context.Context, id int64, from, to string) error

	// ListIDs returns the sorted, deterministic ids of every file present
	// in the given status directory.
	ListIDs(ctx context.Context, status string) ([]int64, error)

	// Exists reports whether <id>.json is present in the given status
	// directory.
	Exists(ctx context.Context, id int64, status string) (bool, error)
}
