package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/researchctl/sentinel/internal/wire"
)

func modeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Inspect the current operational mode",
	}
	cmd.AddCommand(modeShowCmd())
	return cmd
}

func modeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current mode, when it was set, and why",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				status, err := c.Mode.GetMode(ctx)
				if err != nil {
					return err
				}
				fmt.Println(modeBanner(status.Mode) + " since " + status.UpdatedAt)
				if status.Reason != "" {
					fmt.Println("reason: " + status.Reason)
				}
				return nil
			})
		},
	}
}

// modeBanner colors a mode name the way the contract's severity (NORMAL
// good, LOCKDOWN bad) suggests, matching the escalation level coloring
// used elsewhere in the CLI.
func modeBanner(m string) string {
	switch m {
	case "NORMAL":
		return color.New(color.FgHiGreen).Sprint(m)
	case "ALERT":
		return color.New(color.FgYellow).Sprint(m)
	case "PRE-LOCKDOWN":
		return color.New(color.FgHiYellow).Sprint(m)
	case "LOCKDOWN":
		return color.New(color.FgHiRed).Sprint(m)
	case "RECOVERY":
		return color.New(color.FgCyan).Sprint(m)
	default:
		return m
	}
}
