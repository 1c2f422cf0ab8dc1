package secondary

import "context"

// TaskRecord is one row of research.tasks.
type TaskRecord struct {
	ID           int64
	Name         string
	Description  string
	Status       string
	CreatedAt    string
	UpdatedAt    string
	CompletedAt  string // empty if not yet completed
	ErrorMessage string // empty unless Status == failed
}

// TaskFilters narrows a task listing.
type TaskFilters struct {
	Status string // empty means no filter
}

// TaskRepository is the task row store (research.tasks).
type TaskRepository interface {
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, rec *TaskRecord) error
	GetByID(ctx context.Context, id int64) (*TaskRecord, error)

	// List returns rows ordered newest-first.
	List(ctx context.Context, filters TaskFilters) ([]*TaskRecord, error)

	// UpdateStatus realigns a row's status and optional terminal fields.
	// completedAt and errorMessage are ignored (left untouched) when empty,
	// except that moving to `completed` always sets completedAt and moving
	// to `failed` always sets errorMessage.
	UpdateStatus(ctx context.Context, id int64, status, timestamp, completedAt, errorMessage string) error
}
