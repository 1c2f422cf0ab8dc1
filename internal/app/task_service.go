package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/researchctl/sentinel/internal/clock"
	"github.com/researchctl/sentinel/internal/errs"
	"github.com/researchctl/sentinel/internal/ports/primary"
	"github.com/researchctl/sentinel/internal/ports/secondary"
	"github.com/researchctl/sentinel/internal/role"
)

// taskFile is the on-disk shape of a queued task's unit-of-work file.
type taskFile struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
}

// TaskService implements primary.TaskService, the researcher-facing half of
// the Queue Engine (§4.3). It owns the create-task role gate; the processor
// owns everything downstream of the pending file.
type TaskService struct {
	tasks    secondary.TaskRepository
	queue    secondary.QueueStore
	modeSvc  *ModeService
	audit    *AuditService
	clock    clock.Clock
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks secondary.TaskRepository, queue secondary.QueueStore, modeSvc *ModeService, audit *AuditService, clk clock.Clock) *TaskService {
	return &TaskService{tasks: tasks, queue: queue, modeSvc: modeSvc, audit: audit, clock: clk}
}

// CreateTask assigns a monotonic id, inserts a pending row, and writes
// <id>.json into the pending directory. Denied with errs.PolicyDenied when
// callerRole is researcher and the current mode forbids researcher access.
func (s *TaskService) CreateTask(ctx context.Context, callerRole, name, description string) (*primary.Task, error) {
	r, err := role.Parse(callerRole)
	if err != nil {
		return nil, &errs.MalformedInput{Target: "role", Err: err}
	}
	if r == role.Researcher {
		ok, err := s.modeSvc.CanResearcherAccess(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			status, statusErr := s.modeSvc.GetMode(ctx)
			reason := ""
			if statusErr == nil {
				reason = status.Reason
			}
			if err := s.audit.Log(ctx, callerRole, "lockdown_access_denied", "", fmt.Sprintf("action=create_task reason=%q", reason)); err != nil {
				return nil, err
			}
			return nil, &errs.PolicyDenied{Reason: fmt.Sprintf("researcher access is denied while the system is in LOCKDOWN (reason: %s)", reason)}
		}
	}

	id, err := s.tasks.NextID(ctx)
	if err != nil {
		return nil, &errs.StorageFault{Target: "research_tasks", Err: err}
	}
	ts := clock.Format(s.clock.Now())

	rec := &secondary.TaskRecord{
		ID:        id,
		Name:      name,
		Description: description,
		Status:    "pending",
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if err := s.tasks.Create(ctx, rec); err != nil {
		return nil, &errs.StorageFault{Target: "research_tasks", Err: err}
	}

	content, err := json.Marshal(taskFile{ID: id, Name: name, Description: description, CreatedAt: ts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task %d: %w", id, err)
	}
	if err := s.queue.WritePending(ctx, id, content); err != nil {
		return nil, &errs.StorageFault{Target: "queues/research/pending", Err: err}
	}

	if err := s.audit.Log(ctx, callerRole, "task_created", fmt.Sprintf("%d", id), name); err != nil {
		return nil, err
	}
	return toTask(rec), nil
}

// ListTasks returns rows ordered newest-first, optionally filtered by status.
func (s *TaskService) ListTasks(ctx context.Context, filters primary.TaskFilters) ([]*primary.Task, error) {
	recs, err := s.tasks.List(ctx, secondary.TaskFilters{Status: filters.Status})
	if err != nil {
		return nil, &errs.StorageFault{Target: "research_tasks", Err: err}
	}
	out := make([]*primary.Task, 0, len(recs))
	for _, r := range recs {
		out = append(out, toTask(r))
	}
	return out, nil
}

// GetTaskStatus returns the row for id, or nil if it does not exist.
func (s *TaskService) GetTaskStatus(ctx context.Context, id int64) (*primary.Task, error) {
	rec, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, &errs.StorageFault{Target: "research_tasks", Err: err}
	}
	if rec == nil {
		return nil, nil
	}
	return toTask(rec), nil
}

func toTask(r *secondary.TaskRecord) *primary.Task {
	return &primary.Task{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
		CompletedAt:  r.CompletedAt,
		ErrorMessage: r.ErrorMessage,
	}
}

var _ primary.TaskService = (*TaskService)(nil)
