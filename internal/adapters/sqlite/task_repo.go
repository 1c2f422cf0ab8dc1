package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// TaskRepository implements secondary.TaskRepository against research.db.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// NextID returns one more than the highest id in the table (1 when empty).
// Create inserts rec.ID explicitly, so callers take their id from here
// before inserting (e.g. to name the queue file).
func (r *TaskRepository) NextID(ctx context.Context) (int64, error) {
	var maxID int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM tasks`).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to get next task id: %w", err)
	}
	return maxID + 1, nil
}

// Create inserts a new task row.
func (r *TaskRepository) Create(ctx context.Context, rec *secondary.TaskRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, name, description, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, nullable(rec.Description), rec.Status, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task row by id.
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*secondary.TaskRecord, error) {
	rec := &secondary.TaskRecord{}
	var description, completedAt, errorMessage sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, description, status, created_at, updated_at, completed_at, error_message FROM tasks WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Name, &description, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt, &completedAt, &errorMessage)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	rec.Description = description.String
	rec.CompletedAt = completedAt.String
	rec.ErrorMessage = errorMessage.String
	return rec, nil
}

// List returns rows ordered newest-first, optionally filtered by status.
func (r *TaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	query := `SELECT id, name, description, status, created_at, updated_at, completed_at, error_message FROM tasks WHERE 1=1`
	var args []any
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var out []*secondary.TaskRecord
	for rows.Next() {
		var description, completedAt, errorMessage sql.NullString
		rec := &secondary.TaskRecord{}
		if err := rows.Scan(&rec.ID, &rec.Name, &description, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt, &completedAt, &errorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		rec.Description = description.String
		rec.CompletedAt = completedAt.String
		rec.ErrorMessage = errorMessage.String
		out = append(out, rec)
	}
	return out, nil
}

// UpdateStatus realigns a row's status and, when terminal, its completion
// fields.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id int64, status, timestamp, completedAt, errorMessage string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ?, completed_at = COALESCE(?, completed_at), error_message = COALESCE(?, error_message) WHERE id = ?`,
		status, timestamp, nullable(completedAt), nullable(errorMessage), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm task update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %d not found", id)
	}
	return nil
}

var _ secondary.TaskRepository = (*TaskRepository)(nil)
