package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/researchctl/sentinel/internal/clock"
	"github.com/researchctl/sentinel/internal/core/queuetask"
	"github.com/researchctl/sentinel/internal/errs"
	"github.com/researchctl/sentinel/internal/ports/primary"
	"github.com/researchctl/sentinel/internal/ports/secondary"
)

const processorComponent = "task_processor"

// ProcessorService implements primary.ProcessorService, the Task Processor
// side of the Queue Engine (§4.3): lock acquisition, dual-representation
// reconciliation, and the pending→processing→{completed,failed} walk.
type ProcessorService struct {
	lock      secondary.ProcessLock
	queue     secondary.QueueStore
	tasks     secondary.TaskRepository
	executor  secondary.TaskExecutor
	heartbeat secondary.HeartbeatFileStore
	modeSvc   *ModeService
	audit     *AuditService
	clock     clock.Clock
}

// NewProcessorService creates a ProcessorService.
func NewProcessorService(
	lock secondary.ProcessLock,
	queue secondary.QueueStore,
	tasks secondary.TaskRepository,
	executor secondary.TaskExecutor,
	heartbeat secondary.HeartbeatFileStore,
	modeSvc *ModeService,
	audit *AuditService,
	clk clock.Clock,
) *ProcessorService {
	return &ProcessorService{
		lock:      lock,
		queue:     queue,
		tasks:     tasks,
		executor:  executor,
		heartbeat: heartbeat,
		modeSvc:   modeSvc,
		audit:     audit,
		clock:     clk,
	}
}

// RunOnce scans the pending directory and advances every task it can.
func (s *ProcessorService) RunOnce(ctx context.Context) (int, error) {
	canProcess, err := s.modeSvc.CanProcessTasks(ctx)
	if err != nil {
		return 0, err
	}
	if !canProcess {
		if err := s.audit.Log(ctx, "system", "task_processing_blocked", "", ""); err != nil {
			return 0, err
		}
		return 0, nil
	}

	release, acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		return 0, &errs.StorageFault{Target: "processor.lock", Err: err}
	}
	if !acquired {
		return 0, nil
	}
	defer release()

	if err := s.reconcile(ctx); err != nil {
		return 0, err
	}

	if err := s.retryInFlight(ctx); err != nil {
		return 0, err
	}

	pendingIDs, err := s.queue.ListIDs(ctx, string(queuetask.Pending))
	if err != nil {
		return 0, &errs.StorageFault{Target: "queues/research/pending", Err: err}
	}

	processed := 0
	for _, id := range pendingIDs {
		if err := s.runTask(ctx, id); err != nil {
			if err := s.handleItemError(ctx, "task_processing_error", fmt.Sprintf("%d", id), err); err != nil {
				return processed, err
			}
			continue
		}
		processed++
		if err := s.touchHeartbeat(ctx); err != nil {
			if err := s.handleItemError(ctx, "task_processing_error", fmt.Sprintf("%d", id), err); err != nil {
				return processed, err
			}
		}
	}
	return processed, nil
}

// handleItemError classifies err the way §7 requires: storage faults and
// malformed input are logged to the audit trail under action and the
// containing loop continues to the next task; any other error kind
// propagates and aborts the run.
func (s *ProcessorService) handleItemError(ctx context.Context, action, target string, err error) error {
	var sf *errs.StorageFault
	var mi *errs.MalformedInput
	if !errors.As(err, &sf) && !errors.As(err, &mi) {
		return err
	}
	return s.audit.Log(ctx, "system", action, target, err.Error())
}

// reconcile aligns row status to file location for any id whose file sits
// in pending but whose row disagrees (§4.3's crash-recovery policy).
func (s *ProcessorService) reconcile(ctx context.Context) error {
	pendingIDs, err := s.queue.ListIDs(ctx, string(queuetask.Pending))
	if err != nil {
		return &errs.StorageFault{Target: "queues/research/pending", Err: err}
	}
	for _, id := range pendingIDs {
		rec, err := s.tasks.GetByID(ctx, id)
		if err != nil {
			if err := s.handleItemError(ctx, "task_processing_error", fmt.Sprintf("%d", id), &errs.StorageFault{Target: fmt.Sprintf("research_tasks:%d", id), Err: err}); err != nil {
				return err
			}
			continue
		}
		if rec == nil {
			continue
		}
		newStatus, changed := queuetask.ReconcileRowToFile(queuetask.Status(rec.Status), queuetask.Pending)
		if !changed {
			continue
		}
		ts := clock.Format(s.clock.Now())
		if err := s.tasks.UpdateStatus(ctx, id, string(newStatus), ts, "", ""); err != nil {
			if err := s.handleItemError(ctx, "task_processing_error", fmt.Sprintf("%d", id), &errs.StorageFault{Target: fmt.Sprintf("research_tasks:%d", id), Err: err}); err != nil {
				return err
			}
			continue
		}
	}
	return nil
}

// retryInFlight re-executes every task whose file is in processing and whose
// row still says processing — the crash happened after (b) but before (c)/(d)
// completed on a previous run. Task bodies are assumed idempotent (§4.3).
func (s *ProcessorService) retryInFlight(ctx context.Context) error {
	processingIDs, err := s.queue.ListIDs(ctx, string(queuetask.Processing))
	if err != nil {
		return &errs.StorageFault{Target: "queues/research/processing", Err: err}
	}
	for _, id := range processingIDs {
		rec, err := s.tasks.GetByID(ctx, id)
		if err != nil {
			if err := s.handleItemError(ctx, "task_processing_error", fmt.Sprintf("%d", id), &errs.StorageFault{Target: fmt.Sprintf("research_tasks:%d", id), Err: err}); err != nil {
				return err
			}
			continue
		}
		if rec == nil || rec.Status != string(queuetask.Processing) {
			continue
		}
		if err := s.execute(ctx, rec); err != nil {
			if err := s.handleItemError(ctx, "task_processing_error", fmt.Sprintf("%d", id), err); err != nil {
				return err
			}
			continue
		}
		if err := s.touchHeartbeat(ctx); err != nil {
			if err := s.handleItemError(ctx, "task_processing_error", fmt.Sprintf("%d", id), err); err != nil {
				return err
			}
		}
	}
	return nil
}

// runTask moves id from pending to processing, executes it, and moves it
// on to completed or failed.
func (s *ProcessorService) runTask(ctx context.Context, id int64) error {
	rec, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return &errs.StorageFault{Target: fmt.Sprintf("research_tasks:%d", id), Err: err}
	}
	if rec == nil {
		// File present with no matching row: nothing sane to execute.
		return nil
	}

	// Row is updated before the file is moved: a crash in between leaves
	// row=processing, file=pending, which reconcile's ReconcileRowToFile
	// already recovers by resetting the row back to pending. Moving the
	// file first would instead leave file=processing, row=pending — a
	// state neither reconcile nor retryInFlight scans for.
	ts := clock.Format(s.clock.Now())
	if err := s.tasks.UpdateStatus(ctx, id, string(queuetask.Processing), ts, "", ""); err != nil {
		return &errs.StorageFault{Target: fmt.Sprintf("research_tasks:%d", id), Err: err}
	}
	if err := s.queue.Move(ctx, id, string(queuetask.Pending), string(queuetask.Processing)); err != nil {
		return &errs.StorageFault{Target: fmt.Sprintf("queues/research:%d", id), Err: err}
	}
	if err := s.audit.Log(ctx, "system", "task_started", fmt.Sprintf("%d", id), rec.Name); err != nil {
		return err
	}
	rec.Status = string(queuetask.Processing)

	return s.execute(ctx, rec)
}

// execute runs rec's body (wherever it currently sits: processing) and
// transitions it to its terminal state.
func (s *ProcessorService) execute(ctx context.Context, rec *secondary.TaskRecord) error {
	id := rec.ID
	execErr := s.executor.Execute(ctx, id, rec.Name, rec.Description)
	ts := clock.Format(s.clock.Now())

	if execErr != nil {
		if err := s.queue.Move(ctx, id, string(queuetask.Processing), string(queuetask.Failed)); err != nil {
			return &errs.StorageFault{Target: fmt.Sprintf("queues/research:%d", id), Err: err}
		}
		if err := s.tasks.UpdateStatus(ctx, id, string(queuetask.Failed), ts, "", execErr.Error()); err != nil {
			return &errs.StorageFault{Target: fmt.Sprintf("research_tasks:%d", id), Err: err}
		}
		return s.audit.Log(ctx, "system", "task_failed", fmt.Sprintf("%d", id), execErr.Error())
	}

	if err := s.queue.Move(ctx, id, string(queuetask.Processing), string(queuetask.Completed)); err != nil {
		return &errs.StorageFault{Target: fmt.Sprintf("queues/research:%d", id), Err: err}
	}
	if err := s.tasks.UpdateStatus(ctx, id, string(queuetask.Completed), ts, ts, ""); err != nil {
		return &errs.StorageFault{Target: fmt.Sprintf("research_tasks:%d", id), Err: err}
	}
	return s.audit.Log(ctx, "system", "task_completed", fmt.Sprintf("%d", id), "")
}

func (s *ProcessorService) touchHeartbeat(ctx context.Context) error {
	if err := s.heartbeat.Touch(ctx, processorComponent, s.clock.Now()); err != nil {
		return &errs.StorageFault{Target: "system/heartbeat/" + processorComponent, Err: err}
	}
	return nil
}

var _ primary.ProcessorService = (*ProcessorService)(nil)
