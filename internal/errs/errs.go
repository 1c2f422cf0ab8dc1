// Package errs distinguishes the error kinds named in the error-handling
// design (policy denial, invariant violation, storage fault, malformed
// input) at the type level, so adapters can pick an exit code or a retry
// policy with errors.As instead of matching on message text.
package errs

import "fmt"

// PolicyDenied means the caller's role or the current operational mode
// forbids the requested action.
type PolicyDenied struct {
	Reason string
}

func (e *PolicyDenied) Error() string { return e.Reason }

// InvariantViolation means the request would break a state-machine rule
// (e.g. triggering LOCKDOWN while already in LOCKDOWN).
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string { return e.Reason }

// StorageFault means a relational store or filesystem primitive failed.
// Target names the row, table, or path that failed.
type StorageFault struct {
	Target string
	Err    error
}

func (e *StorageFault) Error() string {
	return fmt.Sprintf("storage fault on %s: %v", e.Target, e.Err)
}

func (e *StorageFault) Unwrap() error { return e.Err }

// MalformedInput means an externally-produced artifact (an alert file, a
// timestamp) could not be parsed. Target names the offending artifact.
type MalformedInput struct {
	Target string
	Err    error
}

func (e *MalformedInput) Error() string {
	return fmt.Sprintf("malformed input %s: %v", e.Target, e.Err)
}

func (e *MalformedInput) Unwrap() error { return e.Err }
