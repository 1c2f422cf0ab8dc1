package primary

import "context"

// Task is a task row at the port boundary.
type Task struct {
	ID           int64
	Name         string
	Description  string
	Status       string
	CreatedAt    string
	UpdatedAt    string
	CompletedAt  string
	ErrorMessage string
}

// TaskFilters narrows a task listing.
type TaskFilters struct {
	Status string
}

// TaskService is the researcher-facing half of the Queue Engine: creating
// and inspecting work. Role gating (researcher locked out during LOCKDOWN)
// happens here, not in the repository.
type TaskService interface {
	// CreateTask denies with errs.PolicyDenied when the caller's role is
	// researcher and the current mode forbids researcher access.
	CreateTask(ctx context.Context, callerRole, name, description string) (*Task, error)

	ListTasks(ctx context.Context, filters TaskFilters) ([]*Task, error)
	GetTaskStatus(ctx context.Context, id int64) (*Task, error)
}
