package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// ConfigRepository implements secondary.ConfigRepository against
// management.db.
type ConfigRepository struct {
	db *sql.DB
}

// NewConfigRepository creates a new ConfigRepository.
func NewConfigRepository(db *sql.DB) *ConfigRepository {
	return &ConfigRepository{db: db}
}

// Get returns ("", false, nil) if the key has never been set.
func (r *ConfigRepository) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get config key %s: %w", key, err)
	}
	return value, true, nil
}

// Set upserts a single key.
func (r *ConfigRepository) Set(ctx context.Context, key, value, timestamp string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO config (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to set config key %s: %w", key, err)
	}
	return nil
}

// All returns every key currently set.
func (r *ConfigRepository) All(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM config`)
	if err != nil {
		return nil, fmt.Errorf("failed to list config: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan config row: %w", err)
		}
		out[key] = value
	}
	return out, nil
}

// SeedDefaults writes every given key only if it is not already set —
// existing operator overrides are never clobbered by a re-seed.
func (r *ConfigRepository) SeedDefaults(ctx context.Context, values map[string]string, timestamp string) error {
	for key, value := range values {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO config (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO NOTHING`,
			key, value, timestamp,
		)
		if err != nil {
			return fmt.Errorf("failed to seed config key %s: %w", key, err)
		}
	}
	return nil
}

var _ secondary.ConfigRepository = (*ConfigRepository)(nil)
