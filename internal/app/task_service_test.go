package app

import (
	"context"
	"errors"
	"testing"

	"github.com/researchctl/sentinel/internal/errs"
	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// mockTaskRepository implements secondary.TaskRepository in-memory.
type mockTaskRepository struct {
	byID  map[int64]*secondary.TaskRecord
	nextID int64
}

func newMockTaskRepository() *mockTaskRepository {
	return &mockTaskRepository{byID: map[int64]*secondary.TaskRecord{}}
}

func (m *mockTaskRepository) NextID(ctx context.Context) (int64, error) {
	m.nextID++
	return m.nextID, nil
}

func (m *mockTaskRepository) Create(ctx context.Context, rec *secondary.TaskRecord) error {
	cp := *rec
	m.byID[rec.ID] = &cp
	return nil
}

func (m *mockTaskRepository) GetByID(ctx context.Context, id int64) (*secondary.TaskRecord, error) {
	rec, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockTaskRepository) List(ctx context.Context, filters secondary.TaskFilters) ([]*secondary.TaskRecord, error) {
	var out []*secondary.TaskRecord
	for _, rec := range m.byID {
		if filters.Status != "" && rec.Status != filters.Status {
			continue
		}
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *mockTaskRepository) UpdateStatus(ctx context.Context, id int64, status, timestamp, completedAt, errorMessage string) error {
	rec, ok := m.byID[id]
	if !ok {
		return errors.New("no such task")
	}
	rec.Status = status
	rec.UpdatedAt = timestamp
	if completedAt != "" {
		rec.CompletedAt = completedAt
	}
	if errorMessage != "" {
		rec.ErrorMessage = errorMessage
	}
	return nil
}

// mockQueueStore implements secondary.QueueStore in-memory, mirroring the
// real directory-per-status layout as a map of status -> set of ids.
type mockQueueStore struct {
	files map[string]map[int64]bool
}

func newMockQueueStore() *mockQueueStore {
	return &mockQueueStore{files: map[string]map[int64]bool{
		"pending": {}, "processing": {}, "completed": {}, "failed": {},
	}}
}

func (m *mockQueueStore) WritePending(ctx context.Context, id int64, content []byte) error {
	m.files["pending"][id] = true
	return nil
}

func (m *mockQueueStore) Move(ctx context.Context, id int64, from, to string) error {
	if !m.files[from][id] {
		return errors.New("no file in source directory")
	}
	delete(m.files[from], id)
	m.files[to][id] = true
	return nil
}

func (m *mockQueueStore) ListIDs(ctx context.Context, status string) ([]int64, error) {
	var ids []int64
	for id := range m.files[status] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *mockQueueStore) Exists(ctx context.Context, id int64, status string) (bool, error) {
	return m.files[status][id], nil
}

func newTestModeService(initialMode string) (*ModeService, *mockModeRepository) {
	repo := newMockModeRepository(initialMode)
	return NewModeService(repo, testClock()), repo
}

func TestCreateTaskCleanPath(t *testing.T) {
	clk := testClock()
	tasks := newMockTaskRepository()
	queue := newMockQueueStore()
	modeSvc, _ := newTestModeService("NORMAL")
	auditSvc, auditRepo := newTestAuditService(clk)

	svc := NewTaskService(tasks, queue, modeSvc, auditSvc, clk)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, "researcher", "T", "d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 1 || task.Status != "pending" {
		t.Fatalf("expected id=1 status=pending, got %+v", task)
	}
	if !queue.files["pending"][1] {
		t.Fatal("expected a pending file for task 1")
	}

	found := false
	for _, row := range auditRepo.rows {
		if row.Action == "task_created" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a task_created audit entry")
	}
}

func TestCreateTaskDeniedDuringLockdown(t *testing.T) {
	clk := testClock()
	tasks := newMockTaskRepository()
	queue := newMockQueueStore()
	modeSvc, modeRepo := newTestModeService("NORMAL")
	auditSvc, auditRepo := newTestAuditService(clk)

	svc := NewTaskService(tasks, queue, modeSvc, auditSvc, clk)
	ctx := context.Background()

	modeRepo.history = append(modeRepo.history, &secondary.ModeRecord{
		ID: int64(len(modeRepo.history) + 1), Mode: "LOCKDOWN", UpdatedAt: "2026-01-01T01:00:00", Reason: "test",
	})

	_, err := svc.CreateTask(ctx, "researcher", "X", "")
	var denied *errs.PolicyDenied
	if !errors.As(err, &denied) {
		t.Fatalf("expected PolicyDenied, got %v", err)
	}
	if len(tasks.byID) != 0 {
		t.Fatal("expected no task row to be created")
	}

	found := false
	for _, row := range auditRepo.rows {
		if row.Action == "lockdown_access_denied" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a lockdown_access_denied audit entry")
	}
}

func TestCreateTaskDirectorBypassesLockdown(t *testing.T) {
	clk := testClock()
	tasks := newMockTaskRepository()
	queue := newMockQueueStore()
	modeSvc, modeRepo := newTestModeService("NORMAL")
	auditSvc, _ := newTestAuditService(clk)

	svc := NewTaskService(tasks, queue, modeSvc, auditSvc, clk)
	ctx := context.Background()

	modeRepo.history = append(modeRepo.history, &secondary.ModeRecord{
		ID: int64(len(modeRepo.history) + 1), Mode: "LOCKDOWN", UpdatedAt: "2026-01-01T01:00:00", Reason: "test",
	})

	if _, err := svc.CreateTask(ctx, "director", "ops task", ""); err != nil {
		t.Fatalf("expected director to bypass the researcher lockdown gate, got %v", err)
	}
}
