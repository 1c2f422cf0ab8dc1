// Package filesystem contains filesystem-based adapter implementations for
// the directory-per-state task queue, heartbeat files, alert files, and
// director notifications described in §6.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// QueueStore implements secondary.QueueStore against
// <base>/queues/research/{pending,processing,completed,failed}.
type QueueStore struct {
	baseDir string
}

// NewQueueStore creates a QueueStore rooted at <basePath>/queues/research.
func NewQueueStore(basePath string) *QueueStore {
	return &QueueStore{baseDir: filepath.Join(basePath, "queues", "research")}
}

func (s *QueueStore) statusDir(status string) string {
	return filepath.Join(s.baseDir, status)
}

func (s *QueueStore) filePath(id int64, status string) string {
	return filepath.Join(s.statusDir(status), fmt.Sprintf("%d.json", id))
}

// WritePending writes <id>.json into the pending directory.
func (s *QueueStore) WritePending(ctx context.Context, id int64, content []byte) error {
	dir := s.statusDir("pending")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create pending directory: %w", err)
	}
	if err := os.WriteFile(s.filePath(id, "pending"), content, 0o644); err != nil {
		return fmt.Errorf("failed to write pending file for task %d: %w", id, err)
	}
	return nil
}

// Move relocates <id>.json from one status directory to another. Tolerates
// the destination already existing (retry safety, §5) and the source
// already having moved (idempotent reconciliation, §4.3).
func (s *QueueStore) Move(ctx context.Context, id int64, from, to string) error {
	dstDir := s.statusDir(to)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", to, err)
	}
	src, dst := s.filePath(id, from), s.filePath(id, to)
	if _, err := os.Stat(dst); err == nil {
		// Already moved by a prior, interrupted attempt. Leave it be.
		return nil
	}
	if err := os.Rename(src, dst); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("task %d has no file in %s: %w", id, from, err)
		}
		return fmt.Errorf("failed to move task %d from %s to %s: %w", id, from, to, err)
	}
	return nil
}

// ListIDs returns the sorted, deterministic ids of every file present in
// the given status directory.
func (s *QueueStore) ListIDs(ctx context.Context, status string) ([]int64, error) {
	entries, err := os.ReadDir(s.statusDir(status))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s directory: %w", status, err)
	}
	var ids []int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".json")
		id, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			continue // not a task file; ignore
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Exists reports whether <id>.json is present in the given status
// directory.
func (s *QueueStore) Exists(ctx context.Context, id int64, status string) (bool, error) {
	_, err := os.Stat(s.filePath(id, status))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat task %d in %s: %w", id, status, err)
	}
	return true, nil
}

var _ secondary.QueueStore = (*QueueStore)(nil)
