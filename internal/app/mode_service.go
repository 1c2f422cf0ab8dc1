package app

import (
	"context"
	"fmt"

	"github.com/researchctl/sentinel/internal/clock"
	"github.com/researchctl/sentinel/internal/core/mode"
	"github.com/researchctl/sentinel/internal/errs"
	"github.com/researchctl/sentinel/internal/ports/primary"
	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// ModeService implements primary.ModeService against the append-only mode
// history (§4.1). It enforces nothing about *who* may write which mode —
// that policy lives in its callers — beyond rejecting unrecognized modes.
type ModeService struct {
	modeRepo secondary.ModeRepository
	clock    clock.Clock
}

// NewModeService creates a ModeService. clk is injectable so tests can
// drive mode history deterministically with a clock.Fake.
func NewModeService(modeRepo secondary.ModeRepository, clk clock.Clock) *ModeService {
	return &ModeService{modeRepo: modeRepo, clock: clk}
}

// GetMode returns the current mode, its timestamp, and its reason.
func (s *ModeService) GetMode(ctx context.Context) (*primary.ModeStatus, error) {
	rec, err := s.modeRepo.Current(ctx)
	if err != nil {
		return nil, &errs.StorageFault{Target: "system_mode", Err: err}
	}
	return &primary.ModeStatus{Mode: rec.Mode, UpdatedAt: rec.UpdatedAt, Reason: rec.Reason}, nil
}

// SetMode appends a new mode history row, rejecting unknown modes.
func (s *ModeService) SetMode(ctx context.Context, rawMode, reason string) error {
	m, err := mode.Parse(rawMode)
	if err != nil {
		return &errs.MalformedInput{Target: "mode", Err: err}
	}
	if _, err := s.modeRepo.Append(ctx, string(m), reason, clock.Format(s.clock.Now())); err != nil {
		return &errs.StorageFault{Target: "system_mode", Err: err}
	}
	return nil
}

// CanProcessTasks reports whether the current mode allows the task
// processor to progress work.
func (s *ModeService) CanProcessTasks(ctx context.Context) (bool, error) {
	m, err := s.currentMode(ctx)
	if err != nil {
		return false, err
	}
	return mode.CanProcessTasks(m), nil
}

// CanResearcherAccess reports whether the current mode allows a researcher
// action to proceed.
func (s *ModeService) CanResearcherAccess(ctx context.Context) (bool, error) {
	m, err := s.currentMode(ctx)
	if err != nil {
		return false, err
	}
	return mode.CanResearcherAccess(m), nil
}

func (s *ModeService) currentMode(ctx context.Context) (mode.Mode, error) {
	rec, err := s.modeRepo.Current(ctx)
	if err != nil {
		return "", &errs.StorageFault{Target: "system_mode", Err: err}
	}
	m, err := mode.Parse(rec.Mode)
	if err != nil {
		return "", fmt.Errorf("mode history contains invalid mode %q: %w", rec.Mode, err)
	}
	return m, nil
}

var _ primary.ModeService = (*ModeService)(nil)
