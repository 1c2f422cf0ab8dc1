package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// AlertStore implements secondary.AlertStore against
// <base>/system/alerts. Write-only for the Watchdog, delete-only for the
// Escalation Engine (§5).
type AlertStore struct {
	dir string
}

// NewAlertStore creates an AlertStore rooted at <basePath>/system/alerts.
func NewAlertStore(basePath string) *AlertStore {
	return &AlertStore{dir: filepath.Join(basePath, "system", "alerts")}
}

// Write creates a new alert file named <code>_<YYYYMMDD_HHMMSS>.json (§6).
// On the rare collision of two alerts with the same code in the same
// second, a short uuid suffix disambiguates the filename rather than
// silently overwriting one alert with the other.
func (s *AlertStore) Write(ctx context.Context, rec secondary.AlertRecord) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create alerts directory: %w", err)
	}
	ts := strings.NewReplacer("-", "", ":", "", "T", "_").Replace(rec.CreatedAt)
	name := fmt.Sprintf("%s_%s.json", rec.Code, ts)
	path := filepath.Join(s.dir, name)
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal alert %s: %w", rec.Code, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			path = filepath.Join(s.dir, fmt.Sprintf("%s_%s_%s.json", rec.Code, ts, uuid.NewString()[:8]))
			return os.WriteFile(path, data, 0o644)
		}
		return fmt.Errorf("failed to create alert file %s: %w", name, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write alert file %s: %w", name, err)
	}
	return nil
}

// ListPending returns every alert file in directory-listing order (os.ReadDir
// sorts by filename, which matches §5's ordering guarantee). Files whose
// JSON fails to parse are still returned, with Err set and Record nil, so
// callers can audit the malformed-input error and leave the file in place
// per §7/§9 rather than deleting it.
func (s *AlertStore) ListPending(ctx context.Context) ([]secondary.AlertFile, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts directory: %w", err)
	}

	var out []secondary.AlertFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			out = append(out, secondary.AlertFile{Path: path, Err: fmt.Errorf("failed to read %s: %w", e.Name(), err)})
			continue
		}
		var rec secondary.AlertRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			out = append(out, secondary.AlertFile{Path: path, Err: fmt.Errorf("failed to parse %s: %w", e.Name(), err)})
			continue
		}
		out = append(out, secondary.AlertFile{Path: path, Record: &rec})
	}
	return out, nil
}

// Delete removes an alert file after successful ingestion, tolerating a
// missing file so a retried tick (after a partial delete failure) stays
// idempotent.
func (s *AlertStore) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete alert file %s: %w", path, err)
	}
	return nil
}

var _ secondary.AlertStore = (*AlertStore)(nil)
