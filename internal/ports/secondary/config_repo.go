package secondary

import "context"

// ConfigRepository is the key/value config store (management.config).
type ConfigRepository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value, timestamp string) error
	All(ctx context.Context) (map[string]string, error)

	// SeedDefaults inserts every key in values that is not already present.
	// Existing keys are left untouched. Used once at bootstrap.
	SeedDefaults(ctx context.Context, values map[string]string, timestamp string) error
}
