package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/researchctl/sentinel/internal/wire"
)

func recoveryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recovery",
		Short: "Trigger lockdown and drive the recovery gate (director only)",
	}
	cmd.AddCommand(recoveryLockdownCmd())
	cmd.AddCommand(recoveryVerifyCmd())
	cmd.AddCommand(recoveryConfirmCmd())
	return cmd
}

func recoveryLockdownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lockdown <reason>",
		Short: "Manually trigger LOCKDOWN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				if _, err := requireDirectorAudited(ctx, c, "recovery_lockdown"); err != nil {
					return err
				}
				if err := c.Recovery.TriggerLockdown(ctx, args[0]); err != nil {
					return err
				}
				fmt.Println("LOCKDOWN triggered: " + args[0])
				return nil
			})
		},
	}
}

func recoveryVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Evaluate the four recovery conditions without changing state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				if _, err := requireDirectorAudited(ctx, c, "recovery_verify"); err != nil {
					return err
				}
				ok, issues, err := c.Recovery.VerifyRecoveryConditions(ctx)
				if err != nil {
					return err
				}
				if ok {
					fmt.Println("recovery conditions satisfied")
					return nil
				}
				fmt.Println("recovery conditions not satisfied:")
				for _, issue := range issues {
					fmt.Println("  - " + issue)
				}
				return nil
			})
		},
	}
}

func recoveryConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm",
		Short: "Confirm recovery: writes RECOVERY then NORMAL if all conditions hold",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				if _, err := requireDirectorAudited(ctx, c, "recovery_confirm"); err != nil {
					return err
				}
				if err := c.Recovery.ConfirmRecovery(ctx); err != nil {
					return err
				}
				fmt.Println("recovery confirmed; mode is NORMAL")
				return nil
			})
		},
	}
}
