package app

import (
	"context"
	"errors"
	"time"

	"github.com/researchctl/sentinel/internal/clock"
	"github.com/researchctl/sentinel/internal/config"
	corewatchdog "github.com/researchctl/sentinel/internal/core/watchdog"
	"github.com/researchctl/sentinel/internal/errs"
	"github.com/researchctl/sentinel/internal/ports/primary"
	"github.com/researchctl/sentinel/internal/ports/secondary"
)

// WatchdogService implements primary.WatchdogService: the disk, heartbeat,
// and integrity probes of §4.4.
type WatchdogService struct {
	disk        secondary.DiskUsageProbe
	heartbeat   secondary.HeartbeatFileStore
	heartbeatDB secondary.HeartbeatRepository
	integrity   secondary.IntegrityChecker
	alerts      secondary.AlertStore
	cfg         secondary.ConfigRepository
	audit       *AuditService
	basePath    string
	clock       clock.Clock
}

// NewWatchdogService creates a WatchdogService. basePath is the filesystem
// root the disk probe measures. heartbeatDB mirrors the watchdog's own
// liveness into system.heartbeats (§3) so it can be queried without
// touching the filesystem; every other component publishes liveness only
// as a heartbeat file.
func NewWatchdogService(
	disk secondary.DiskUsageProbe,
	heartbeat secondary.HeartbeatFileStore,
	heartbeatDB secondary.HeartbeatRepository,
	integrity secondary.IntegrityChecker,
	alerts secondary.AlertStore,
	cfg secondary.ConfigRepository,
	audit *AuditService,
	basePath string,
	clk clock.Clock,
) *WatchdogService {
	return &WatchdogService{
		disk:        disk,
		heartbeat:   heartbeat,
		heartbeatDB: heartbeatDB,
		integrity:   integrity,
		alerts:      alerts,
		cfg:         cfg,
		audit:       audit,
		basePath:    basePath,
		clock:       clk,
	}
}

// handleItemError classifies err the way §7 requires: storage faults and
// malformed input are logged to the audit trail under action and the
// containing probe loop continues to the next component or database; any other error
// kind propagates and aborts the tick.
func (s *WatchdogService) handleItemError(ctx context.Context, action, target string, err error) error {
	var sf *errs.StorageFault
	var mi *errs.MalformedInput
	if !errors.As(err, &sf) && !errors.As(err, &mi) {
		return err
	}
	return s.audit.Log(ctx, "system", action, target, err.Error())
}

// RunTick performs one round of probes, writes any alerts, and updates the
// watchdog's own heartbeat regardless of outcome.
func (s *WatchdogService) RunTick(ctx context.Context) error {
	probeErr := s.diskProbe(ctx)
	if probeErr == nil {
		probeErr = s.heartbeatProbe(ctx)
	}
	if probeErr == nil {
		probeErr = s.integrityProbe(ctx)
	}
	if err := s.heartbeat.Touch(ctx, "watchdog", s.clock.Now()); err != nil {
		return &errs.StorageFault{Target: "system/heartbeat/watchdog", Err: err}
	}
	if err := s.heartbeatDB.Beat(ctx, "watchdog", clock.Format(s.clock.Now()), "ok"); err != nil {
		return &errs.StorageFault{Target: "heartbeats:watchdog", Err: err}
	}
	return probeErr
}

func (s *WatchdogService) intConfig(ctx context.Context, key string) (int, error) {
	def := config.ParseIntOrDefault(config.Defaults[key], 0)
	raw, ok, err := s.cfg.Get(ctx, key)
	if err != nil {
		return 0, &errs.StorageFault{Target: "config:" + key, Err: err}
	}
	if !ok {
		return def, nil
	}
	return config.ParseIntOrDefault(raw, def), nil
}

func (s *WatchdogService) diskProbe(ctx context.Context) error {
	warn, err := s.intConfig(ctx, config.KeyDiskWarningThreshold)
	if err != nil {
		return err
	}
	crit, err := s.intConfig(ctx, config.KeyDiskCriticalThreshold)
	if err != nil {
		return err
	}

	usedPercent, err := s.disk.UsedPercent(s.basePath)
	if err != nil {
		return &errs.StorageFault{Target: s.basePath, Err: err}
	}

	if alert := corewatchdog.ClassifyDisk(usedPercent, warn, crit); alert != nil {
		return s.writeAlert(ctx, alert)
	}
	return nil
}

func (s *WatchdogService) heartbeatProbe(ctx context.Context) error {
	staleMinutes, err := s.intConfig(ctx, config.KeyHeartbeatStaleMinutes)
	if err != nil {
		return err
	}
	staleAfter := time.Duration(staleMinutes) * time.Minute

	for _, component := range []string{processorComponent} {
		mtime, ok, err := s.heartbeat.MTime(ctx, component)
		if err != nil {
			if err := s.handleItemError(ctx, "watchdog_error", "system/heartbeat/"+component, &errs.StorageFault{Target: "system/heartbeat/" + component, Err: err}); err != nil {
				return err
			}
			continue
		}
		if !ok {
			// Never ran: not an alert.
			continue
		}
		age := s.clock.Now().Sub(mtime)
		if alert := corewatchdog.ClassifyHeartbeat(component, age, staleAfter); alert != nil {
			if err := s.writeAlert(ctx, alert); err != nil {
				if err := s.handleItemError(ctx, "watchdog_error", "system/heartbeat/"+component, err); err != nil {
					return err
				}
				continue
			}
		}
	}
	return nil
}

func (s *WatchdogService) integrityProbe(ctx context.Context) error {
	for _, name := range s.integrity.Databases() {
		ok, detail, err := s.integrity.Check(name)
		if err != nil {
			if err := s.handleItemError(ctx, "watchdog_error", "db:"+name, &errs.StorageFault{Target: "db:" + name, Err: err}); err != nil {
				return err
			}
			continue
		}
		if alert := corewatchdog.ClassifyIntegrity(name, ok, detail); alert != nil {
			if err := s.writeAlert(ctx, alert); err != nil {
				if err := s.handleItemError(ctx, "watchdog_error", "db:"+name, err); err != nil {
					return err
				}
				continue
			}
		}
	}
	return nil
}

func (s *WatchdogService) writeAlert(ctx context.Context, alert *corewatchdog.Alert) error {
	rec := secondary.AlertRecord{
		Level:     string(alert.Severity),
		Code:      alert.Code,
		Message:   alert.Message,
		CreatedAt: clock.Format(s.clock.Now()),
	}
	if err := s.alerts.Write(ctx, rec); err != nil {
		return &errs.StorageFault{Target: "system/alerts", Err: err}
	}
	return nil
}

var _ primary.WatchdogService = (*WatchdogService)(nil)
