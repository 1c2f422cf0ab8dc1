package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/researchctl/sentinel/internal/clock"
	"github.com/researchctl/sentinel/internal/errs"
	"github.com/researchctl/sentinel/internal/ports/secondary"
)

func testClock() *clock.Fake {
	t, _ := time.ParseInLocation(clock.TimestampFormat, "2026-01-01T00:00:00", time.Local)
	return clock.NewFake(t)
}

// mockModeRepository implements secondary.ModeRepository for testing.
type mockModeRepository struct {
	history   []*secondary.ModeRecord
	currentErr error
	appendErr  error
}

func (m *mockModeRepository) Append(ctx context.Context, mode, reason, timestamp string) (*secondary.ModeRecord, error) {
	if m.appendErr != nil {
		return nil, m.appendErr
	}
	rec := &secondary.ModeRecord{ID: int64(len(m.history) + 1), Mode: mode, UpdatedAt: timestamp, Reason: reason}
	m.history = append(m.history, rec)
	return rec, nil
}

func (m *mockModeRepository) Current(ctx context.Context) (*secondary.ModeRecord, error) {
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	if len(m.history) == 0 {
		return nil, errors.New("mode history is empty")
	}
	return m.history[len(m.history)-1], nil
}

func TestModeServiceGetMode(t *testing.T) {
	repo := &mockModeRepository{history: []*secondary.ModeRecord{
		{ID: 1, Mode: "NORMAL", UpdatedAt: "2026-01-01T00:00:00", Reason: "institute bootstrap"},
	}}
	svc := NewModeService(repo, testClock())

	status, err := svc.GetMode(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Mode != "NORMAL" {
		t.Fatalf("expected NORMAL, got %s", status.Mode)
	}
}

func TestModeServiceSetModeRejectsUnknown(t *testing.T) {
	repo := &mockModeRepository{}
	svc := NewModeService(repo, testClock())

	err := svc.SetMode(context.Background(), "SLEEPY", "bogus")
	var malformed *errs.MalformedInput
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedInput, got %v", err)
	}
	if len(repo.history) != 0 {
		t.Fatal("expected no history row to be appended on rejection")
	}
}

func TestModeServiceCanProcessTasksDuringLockdown(t *testing.T) {
	repo := &mockModeRepository{history: []*secondary.ModeRecord{
		{ID: 1, Mode: "LOCKDOWN", UpdatedAt: "2026-01-01T00:00:00", Reason: "disk critical"},
	}}
	svc := NewModeService(repo, testClock())

	ok, err := svc.CanProcessTasks(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected task processing to be denied during LOCKDOWN")
	}
}

func TestModeServiceCurrentModeStorageFault(t *testing.T) {
	repo := &mockModeRepository{currentErr: errors.New("disk i/o error")}
	svc := NewModeService(repo, testClock())

	_, err := svc.GetMode(context.Background())
	var fault *errs.StorageFault
	if !errors.As(err, &fault) {
		t.Fatalf("expected StorageFault, got %v", err)
	}
}
