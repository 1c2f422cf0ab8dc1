package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// HeartbeatRepository implements secondary.HeartbeatRepository against
// system.db.
type HeartbeatRepository struct {
	db *sql.DB
}

// NewHeartbeatRepository creates a new HeartbeatRepository.
func NewHeartbeatRepository(db *sql.DB) *HeartbeatRepository {
	return &HeartbeatRepository{db: db}
}

// Beat upserts the liveness row for a component.
func (r *HeartbeatRepository) Beat(ctx context.Context, component, timestamp, status string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO heartbeats (component, last_beat, status) VALUES (?, ?, ?)
		 ON CONFLICT(component) DO UPDATE SET last_beat = excluded.last_beat, status = excluded.status`,
		component, timestamp, status,
	)
	if err != nil {
		return fmt.Errorf("failed to record heartbeat for %s: %w", component, err)
	}
	return nil
}

// Get returns ok=false if the component has never beaten.
func (r *HeartbeatRepository) Get(ctx context.Context, component string) (string, string, bool, error) {
	var lastBeat, status string
	err := r.db.QueryRowContext(ctx,
		`SELECT last_beat, status FROM heartbeats WHERE component = ?`, component,
	).Scan(&lastBeat, &status)
	if err == sql.ErrNoRows {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("failed to get heartbeat for %s: %w", component, err)
	}
	return lastBeat, status, true, nil
}

var _ secondary.HeartbeatRepository = (*HeartbeatRepository)(nil)
