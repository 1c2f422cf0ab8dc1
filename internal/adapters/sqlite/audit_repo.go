package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// AuditRepository implements secondary.AuditRepository against audit.db.
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Append inserts a new audit row. Rows are never updated afterward — the
// whole point of the log is that a later mutation is what VerifyIntegrity
// is meant to catch.
func (r *AuditRepository) Append(ctx context.Context, rec *secondary.AuditRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO log (timestamp, role, action, target, details, checksum) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Timestamp, rec.Role, rec.Action, nullable(rec.Target), nullable(rec.Details), rec.Checksum,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// Recent returns the n most recently inserted rows, newest first.
func (r *AuditRepository) Recent(ctx context.Context, n int) ([]*secondary.AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, role, action, target, details, checksum FROM log ORDER BY id DESC LIMIT ?`, n,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent audit entries: %w", err)
	}
	defer rows.Close()
	return scanAuditRows(rows)
}

// All returns every row in insertion order.
func (r *AuditRepository) All(ctx context.Context) ([]*secondary.AuditRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, role, action, target, details, checksum FROM log ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query all audit entries: %w", err)
	}
	defer rows.Close()
	return scanAuditRows(rows)
}

func scanAuditRows(rows *sql.Rows) ([]*secondary.AuditRecord, error) {
	var out []*secondary.AuditRecord
	for rows.Next() {
		var target, details sql.NullString
		rec := &secondary.AuditRecord{}
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.Role, &rec.Action, &target, &details, &rec.Checksum); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		rec.Target = target.String
		rec.Details = details.String
		out = append(out, rec)
	}
	return out, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ secondary.AuditRepository = (*AuditRepository)(nil)
