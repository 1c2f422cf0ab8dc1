package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// ProcessLock implements secondary.ProcessLock as a PID file guarding the
// task processor (§4.3, §5). Acquisition is an atomic exclusive-create; on
// collision the holder's PID is probed for liveness and the stale file is
// removed and retried exactly once.
type ProcessLock struct {
	path string
}

// NewProcessLock creates a ProcessLock at <basePath>/system/bin/processor.lock.
func NewProcessLock(basePath string) *ProcessLock {
	return &ProcessLock{path: filepath.Join(basePath, "system", "bin", "processor.lock")}
}

// Acquire attempts to take the lock, retrying once if the recorded holder
// is dead. Returns acquired=false (no error) if a live peer holds it.
func (l *ProcessLock) Acquire(ctx context.Context) (func() error, bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return nil, false, fmt.Errorf("failed to create lock directory: %w", err)
	}

	acquired, err := l.tryCreate()
	if err != nil {
		return nil, false, err
	}
	if acquired {
		return l.release, true, nil
	}

	// Collision: probe the recorded holder's liveness.
	stale, err := l.holderIsDead()
	if err != nil {
		return nil, false, err
	}
	if !stale {
		return nil, false, nil
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return nil, false, fmt.Errorf("failed to remove stale lock file: %w", err)
	}

	acquired, err = l.tryCreate()
	if err != nil {
		return nil, false, err
	}
	if !acquired {
		return nil, false, nil
	}
	return l.release, true, nil
}

// tryCreate attempts the atomic exclusive-create step of acquisition.
func (l *ProcessLock) tryCreate() (bool, error) {
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(strconv.Itoa(os.Getpid())); err != nil {
		return false, fmt.Errorf("failed to write lock pid: %w", err)
	}
	return true, nil
}

// holderIsDead reads the PID recorded in the lock file and signals it with
// signal 0, which delivers no signal but reports whether the process
// exists. A malformed or unreadable lock file is treated as stale so a
// crash mid-write cannot wedge the processor forever.
func (l *ProcessLock) holderIsDead() (bool, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, fmt.Errorf("failed to read lock file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return true, nil
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return true, nil
	}
	if err := proc.Signal(syscall.Signal(0)); err != nil {
		return true, nil
	}
	return false, nil
}

// release unlinks the lock file and tolerates it already being missing.
func (l *ProcessLock) release() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to release lock file: %w", err)
	}
	return nil
}

var _ secondary.ProcessLock = (*ProcessLock)(nil)
