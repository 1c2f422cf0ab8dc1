// Package config holds the recognized configuration keys, their defaults,
// and an optional YAML overlay file used to seed the management database's
// config table on first bootstrap. Live values are read through
// secondary.ConfigRepository; this package only knows the static shape.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Recognized configuration keys (§6).
const (
	KeyAutoLockdownEnabled   = "auto_lockdown_enabled"
	KeyDiskWarningThreshold  = "disk_warning_threshold"
	KeyDiskCriticalThreshold = "disk_critical_threshold"
	KeyHeartbeatStaleMinutes = "heartbeat_stale_minutes"
)

// Defaults holds the default value for every recognized key, as strings
// (the config table stores values as text; callers parse as needed).
var Defaults = map[string]string{
	KeyAutoLockdownEnabled:   "true",
	KeyDiskWarningThreshold:  "80",
	KeyDiskCriticalThreshold: "90",
	KeyHeartbeatStaleMinutes: "30",
}

// Recognized reports whether key is one of the recognized configuration keys.
func Recognized(key string) bool {
	_, ok := Defaults[key]
	return ok
}

// Overlay is an optional sentinel.yaml file used to seed non-default values
// into the config table when the institute is first bootstrapped. It never
// overrides values already present in the database.
type Overlay struct {
	AutoLockdownEnabled   *bool   `yaml:"auto_lockdown_enabled"`
	DiskWarningThreshold  *int    `yaml:"disk_warning_threshold"`
	DiskCriticalThreshold *int    `yaml:"disk_critical_threshold"`
	HeartbeatStaleMinutes *int    `yaml:"heartbeat_stale_minutes"`
	BasePath              *string `yaml:"base_path"`
}

// LoadOverlay reads a sentinel.yaml overlay from path. A missing file is not
// an error; it returns a zero-value Overlay so callers fall through to
// Defaults.
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Overlay{}, nil
		}
		return nil, fmt.Errorf("failed to read config overlay: %w", err)
	}

	var o Overlay
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse config overlay: %w", err)
	}
	return &o, nil
}

// SeedValues returns the key/value pairs that should be inserted on first
// bootstrap: the overlay's values where set, Defaults everywhere else.
func (o *Overlay) SeedValues() map[string]string {
	values := make(map[string]string, len(Defaults))
	for k, v := range Defaults {
		values[k] = v
	}
	if o == nil {
		return values
	}
	if o.AutoLockdownEnabled != nil {
		values[KeyAutoLockdownEnabled] = strconv.FormatBool(*o.AutoLockdownEnabled)
	}
	if o.DiskWarningThreshold != nil {
		values[KeyDiskWarningThreshold] = strconv.Itoa(*o.DiskWarningThreshold)
	}
	if o.DiskCriticalThreshold != nil {
		values[KeyDiskCriticalThreshold] = strconv.Itoa(*o.DiskCriticalThreshold)
	}
	if o.HeartbeatStaleMinutes != nil {
		values[KeyHeartbeatStaleMinutes] = strconv.Itoa(*o.HeartbeatStaleMinutes)
	}
	return values
}

// BasePathOrDefault returns the overlay's base path, or the given default
// if unset or the overlay is nil.
func (o *Overlay) BasePathOrDefault(def string) string {
	if o != nil && o.BasePath != nil && strings.TrimSpace(*o.BasePath) != "" {
		return *o.BasePath
	}
	return def
}

// ParseBool mirrors the case-insensitive "true"/"false" parsing required for
// auto_lockdown_enabled by §6.
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// ParseIntOrDefault parses s as an int, falling back to def on error.
func ParseIntOrDefault(s string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return v
}
