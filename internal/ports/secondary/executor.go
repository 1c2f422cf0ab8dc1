package secondary

import "context"

// TaskExecutor runs the body of a task. It is the placeholder
// task-execution external collaborator named in §1 — the core only needs
// to know it returns an error on failure; what it actually does is out of
// scope. Implementations are assumed idempotent (§4.3); a non-idempotent
// body must signal failure itself rather than risk double-effect on retry.
type TaskExecutor interface {
	Execute(ctx context.Context, taskID int64, name, description string) error
}
