package secondary

import "context"

// AuditRecord is one row of the append-only audit log.
type AuditRecord struct {
	ID        int64
	Timestamp string
	Role      string
	Action    string
	Target    string
	Details   string
	Checksum  string
}

// AuditRepository is the append-only audit log store (audit.log).
type AuditRepository interface {
	// Append inserts a new row. Rows are never updated.
	Append(ctx context.Context, rec *AuditRecord) error

	// Recent returns the n most recently inserted rows, newest first.
	Recent(ctx context.Context, n int) ([]*AuditRecord, error)

	// All returns every row in insertion order. verify_integrity must touch
	// every row, so the engine has no paginated alternative to this.
	All(ctx context.Context) ([]*AuditRecord, error)
}
