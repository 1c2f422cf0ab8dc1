package cli

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/GianlucaP106/gotmux/gotmux"
	"github.com/spf13/cobra"

	"github.com/researchctl/sentinel/internal/wire"
)

// directorSessionName is the tmux session attach creates (if absent) and
// attaches to. Notifications do not use it; they only write inbox files.
const directorSessionName = "sentinel-director"

func attachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach",
		Short: "Open (or attach to) a tmux session tailing the audit log and alert directory",
		Long: `Creates the sentinel-director tmux session if it does not already exist,
with one pane tailing the audit log and one tailing system/alerts, then
attaches to it. This is a pure operator convenience around the director
inbox and audit log described in §6 — nothing in the core depends on tmux
being installed, and escalation/lockdown notifications are always written
to the director inbox regardless of whether this session exists.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tmux, err := gotmux.DefaultTmux()
			if err != nil {
				return fmt.Errorf("tmux is not available: %w", err)
			}

			base := wire.ResolveBasePath(basePathFlag)

			if !sessionExists(tmux, directorSessionName) {
				if err := createDirectorSession(tmux, base); err != nil {
					return err
				}
				fmt.Printf("created session %s\n", directorSessionName)
			}

			tmuxPath, err := exec.LookPath("tmux")
			if err != nil {
				return fmt.Errorf("tmux binary not found in PATH: %w", err)
			}
			execArgs := []string{"tmux", "attach", "-t", directorSessionName}
			return syscall.Exec(tmuxPath, execArgs, os.Environ())
		},
	}
}

func sessionExists(tmux *gotmux.Tmux, name string) bool {
	sessions, err := tmux.ListSessions()
	if err != nil {
		return false
	}
	for _, s := range sessions {
		if s.Name == name {
			return true
		}
	}
	return false
}

func createDirectorSession(tmux *gotmux.Tmux, basePath string) error {
	session, err := tmux.NewSession(&gotmux.SessionOptions{
		Name:           directorSessionName,
		StartDirectory: basePath,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s session: %w", directorSessionName, err)
	}

	windows, err := session.ListWindows()
	if err != nil || len(windows) == 0 {
		return fmt.Errorf("failed to find initial window in %s: %w", directorSessionName, err)
	}
	first := windows[0]

	panes, err := first.ListPanes()
	if err != nil || len(panes) == 0 {
		return fmt.Errorf("failed to find initial pane in %s: %w", directorSessionName, err)
	}
	auditPane := panes[0]

	if err := auditPane.SplitWindow(&gotmux.SplitWindowOptions{
		SplitDirection: gotmux.PaneSplitDirectionHorizontal,
	}); err != nil {
		return fmt.Errorf("failed to split %s window: %w", directorSessionName, err)
	}

	panes, err = first.ListPanes()
	if err != nil || len(panes) < 2 {
		return fmt.Errorf("failed to find alerts pane in %s: %w", directorSessionName, err)
	}
	alertsPane := panes[1]

	_ = exec.Command("tmux", "send-keys", "-t", auditPane.Id,
		"watch -n5 sentinel --base-path "+basePath+" audit tail --limit 20", "C-m").Run()
	_ = exec.Command("tmux", "send-keys", "-t", alertsPane.Id,
		"watch -n5 ls -la "+basePath+"/system/alerts "+basePath+"/inbox/director", "C-m").Run()
	return nil
}
