// Package sqlite contains SQLite implementations of the secondary ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// ModeRepository implements secondary.ModeRepository against system.db.
type ModeRepository struct {
	db *sql.DB
}

// NewModeRepository creates a new ModeRepository.
func NewModeRepository(db *sql.DB) *ModeRepository {
	return &ModeRepository{db: db}
}

// Append inserts a new mode history row. The initial row (empty table) must
// be seeded by bootstrap as NORMAL; this method performs no such check —
// it only ever appends.
func (r *ModeRepository) Append(ctx context.Context, mode, reason, timestamp string) (*secondary.ModeRecord, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO system_mode (mode, updated_at, reason) VALUES (?, ?, ?)`,
		mode, timestamp, reason,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append mode history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read mode history id: %w", err)
	}
	return &secondary.ModeRecord{ID: id, Mode: mode, UpdatedAt: timestamp, Reason: reason}, nil
}

// Current returns the most recently inserted row.
func (r *ModeRepository) Current(ctx context.Context) (*secondary.ModeRecord, error) {
	rec := &secondary.ModeRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, mode, updated_at, reason FROM system_mode ORDER BY id DESC LIMIT 1`,
	).Scan(&rec.ID, &rec.Mode, &rec.UpdatedAt, &rec.Reason)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("mode history is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read current mode: %w", err)
	}
	return rec, nil
}

var _ secondary.ModeRepository = (*ModeRepository)(nil)
