package primary

import "context"

// ProcessorService drives the task processor's scan-and-execute protocol
// (§4.3). It is invoked once per tick by cmd/processord and once per
// `sentinel task run-once` CLI invocation.
type ProcessorService interface {
	// RunOnce scans the pending directory and advances every task it can.
	// Returns the count of tasks it moved out of pending this call. Returns
	// (0, nil) without touching anything when the lock is held by a live
	// peer, or when Mode Authority forbids processing.
	RunOnce(ctx context.Context) (processed int, err error)
}
