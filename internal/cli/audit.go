package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/researchctl/sentinel/internal/wire"
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the append-only audit log",
	}
	cmd.AddCommand(auditTailCmd())
	cmd.AddCommand(auditVerifyCmd())
	return cmd
}

func auditTailCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Show the most recent audit entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				entries, err := c.Audit.Recent(ctx, limit)
				if err != nil {
					return err
				}
				for _, e := range entries {
					line := fmt.Sprintf("%s  %-10s %-28s", e.Timestamp, e.Role, e.Action)
					if e.Target != "" {
						line += " target=" + e.Target
					}
					if e.Details != "" {
						line += " " + e.Details
					}
					fmt.Println(line)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "number of entries to show")
	return cmd
}

func auditVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Recompute every row's checksum and report whether the log is intact",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				ok, err := c.Audit.VerifyIntegrity(ctx)
				if err != nil {
					return err
				}
				if ok {
					fmt.Println(color.New(color.FgHiGreen).Sprint("audit log intact"))
					return nil
				}
				fmt.Println(color.New(color.FgHiRed).Sprint("audit log integrity check FAILED"))
				return nil
			})
		},
	}
}
