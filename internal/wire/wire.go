// Package wire wires the secondary-port adapters and application services
// together into the handful of entrypoints the repo ships: the sentinel
// CLI and the three daemons. It deliberately does not use sync.Once
// singletons the way the teacher's internal/wire package does — each
// daemon and CLI invocation is its own process with its own lifetime, so
// there is nothing to share across calls within one process beyond what
// Bootstrap already returns.
package wire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/researchctl/sentinel/internal/adapters/executor"
	"github.com/researchctl/sentinel/internal/adapters/filesystem"
	"github.com/researchctl/sentinel/internal/adapters/sqlite"
	"github.com/researchctl/sentinel/internal/app"
	"github.com/researchctl/sentinel/internal/clock"
	"github.com/researchctl/sentinel/internal/config"
	"github.com/researchctl/sentinel/internal/core/mode"
	"github.com/researchctl/sentinel/internal/db"
	"github.com/researchctl/sentinel/internal/ports/primary"
)

// DefaultBasePath is the institute root used when neither --base-path nor
// the SENTINEL_BASE_PATH environment variable is set (§6).
const DefaultBasePath = "/institute"

// institutePaths lists every directory the tree in §6 requires, beyond
// what the individual adapters already create lazily on first write.
// Bootstrap creates the full tree up front so an operator
// browsing it before the first alert or task sees the whole shape.
var institutePaths = []string{
	"research",
	"management",
	"shared/reports",
	"shared/templates",
	"system/bin",
	"system/heartbeat",
	"system/alerts",
	"logs",
	"inbox/researcher",
	"inbox/director",
	"queues/research/pending",
	"queues/research/processing",
	"queues/research/completed",
	"queues/research/failed",
	"queues/management/pending",
	"queues/management/escalations",
	"db",
}

// Container holds every primary-port service the CLI and daemons call,
// plus the database handles they share. Close releases the database
// connections; callers are expected to defer it immediately after
// Bootstrap succeeds.
type Container struct {
	BasePath string
	DBs      *db.Set

	Mode       primary.ModeService
	Audit      primary.AuditService
	Task       primary.TaskService
	Processor  primary.ProcessorService
	Escalation primary.EscalationService
	Watchdog   primary.WatchdogService
	Recovery   primary.RecoveryService

	Clock clock.Clock
}

// Close releases the underlying database connections.
func (c *Container) Close() error {
	return c.DBs.Close()
}

// ResolveBasePath returns the institute root: the explicit flag if
// non-empty, else SENTINEL_BASE_PATH, else DefaultBasePath.
func ResolveBasePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("SENTINEL_BASE_PATH"); env != "" {
		return env
	}
	return DefaultBasePath
}

// Bootstrap creates the directory tree (if absent), opens the five logical
// databases, seeds the config defaults and the initial NORMAL mode row on
// first run, and wires every application service against its adapters. It
// is the single assembly point the CLI and all three daemons call.
func Bootstrap(basePath string) (*Container, error) {
	if err := ensureDirTree(basePath); err != nil {
		return nil, err
	}

	dbs, err := db.Open(basePath)
	if err != nil {
		return nil, err
	}

	clk := clock.Real{}
	ctx := context.Background()

	modeRepo := sqlite.NewModeRepository(dbs.DB("system"))
	if err := seedInitialMode(ctx, modeRepo, clk); err != nil {
		dbs.Close()
		return nil, err
	}

	cfgRepo := sqlite.NewConfigRepository(dbs.DB("management"))
	overlay, err := config.LoadOverlay(filepath.Join(basePath, "sentinel.yaml"))
	if err != nil {
		dbs.Close()
		return nil, err
	}
	if err := cfgRepo.SeedDefaults(ctx, overlay.SeedValues(), clock.Format(clk.Now())); err != nil {
		dbs.Close()
		return nil, fmt.Errorf("failed to seed config defaults: %w", err)
	}

	auditRepo := sqlite.NewAuditRepository(dbs.DB("audit"))
	taskRepo := sqlite.NewTaskRepository(dbs.DB("research"))
	escalationRepo := sqlite.NewEscalationRepository(dbs.DB("management"))
	heartbeatRepo := sqlite.NewHeartbeatRepository(dbs.DB("system"))
	integrity := sqlite.NewIntegrityChecker(dbs)

	queueStore := filesystem.NewQueueStore(basePath)
	alertStore := filesystem.NewAlertStore(basePath)
	heartbeatFiles := filesystem.NewHeartbeatFileStore(basePath)
	notices := filesystem.NewNotificationStore(basePath)
	diskProbe := filesystem.NewDiskUsageProbe()
	lock := filesystem.NewProcessLock(basePath)
	taskExecutor := executor.New()

	auditSvc := app.NewAuditService(auditRepo, clk)
	modeSvc := app.NewModeService(modeRepo, clk)
	taskSvc := app.NewTaskService(taskRepo, queueStore, modeSvc, auditSvc, clk)
	processorSvc := app.NewProcessorService(lock, queueStore, taskRepo, taskExecutor, heartbeatFiles, modeSvc, auditSvc, clk)
	watchdogSvc := app.NewWatchdogService(diskProbe, heartbeatFiles, heartbeatRepo, integrity, alertStore, cfgRepo, auditSvc, basePath, clk)
	escalationSvc := app.NewEscalationService(escalationRepo, alertStore, notices, cfgRepo, modeRepo, auditSvc, clk)
	recoverySvc := app.NewRecoveryService(modeRepo, escalationRepo, integrity, auditSvc, clk)

	return &Container{
		BasePath:   basePath,
		DBs:        dbs,
		Mode:       modeSvc,
		Audit:      auditSvc,
		Task:       taskSvc,
		Processor:  processorSvc,
		Escalation: escalationSvc,
		Watchdog:   watchdogSvc,
		Recovery:   recoverySvc,
		Clock:      clk,
	}, nil
}

func ensureDirTree(basePath string) error {
	for _, rel := range institutePaths {
		if err := os.MkdirAll(filepath.Join(basePath, filepath.FromSlash(rel)), 0o755); err != nil {
			return fmt.Errorf("failed to create institute directory %s: %w", rel, err)
		}
	}
	return nil
}

// seedInitialMode appends the first NORMAL row when system_mode is empty
// (§3: "the initial row is NORMAL"). A populated history is left untouched.
func seedInitialMode(ctx context.Context, repo *sqlite.ModeRepository, clk clock.Clock) error {
	if _, err := repo.Current(ctx); err == nil {
		return nil
	}
	if _, err := repo.Append(ctx, string(mode.Normal), "institute bootstrap", clock.Format(clk.Now())); err != nil {
		return fmt.Errorf("failed to seed initial mode: %w", err)
	}
	return nil
}
