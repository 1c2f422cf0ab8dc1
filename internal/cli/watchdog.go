package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/researchctl/sentinel/internal/adapters/filesystem"
	"github.com/researchctl/sentinel/internal/wire"
)

func watchdogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchdog",
		Short: "Run health probes and inspect alert files",
	}
	cmd.AddCommand(watchdogTickCmd())
	cmd.AddCommand(watchdogInspectCmd())
	return cmd
}

func watchdogTickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Run a single watchdog pass (disk, heartbeat, integrity probes)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				return c.Watchdog.RunTick(ctx)
			})
		},
	}
}

func watchdogInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "List alert files awaiting ingestion, including malformed ones left for triage",
		Long: `Lists every file under system/alerts/. Alerts the escalation engine has
not yet ingested are shown as pending; a file that failed to parse is left
on disk rather than deleted (§7, §9) and is shown here so an operator can
look at it directly instead of finding it by accident.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := wire.ResolveBasePath(basePathFlag)
			store := filesystem.NewAlertStore(base)
			files, err := store.ListPending(context.Background())
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("no alert files pending")
				return nil
			}
			for _, f := range files {
				if f.Err != nil {
					fmt.Printf("MALFORMED %s: %v\n", f.Path, f.Err)
					continue
				}
				fmt.Printf("%-8s %-24s %s  (%s)\n", f.Record.Level, f.Record.Code, f.Record.Message, f.Path)
			}
			return nil
		},
	}
}
