package secondary

import "context"

// ProcessLock is the single-writer advisory lock guarding the task
// processor (§4.3, §5). Acquire is an atomic exclusive-create; on
// collision the implementation probes the recorded PID's liveness and
// retries once if it is gone.
type ProcessLock interface {
	// Acquire attempts to take the lock, returning a release function on
	// success. The caller must call release exactly once.
	Acquire(ctx context.Context) (release func() error, acquired bool, err error)
}
