package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/researchctl/sentinel/internal/ports/primary"
	"github.com/researchctl/sentinel/internal/wire"
)

func escalationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "escalation",
		Short: "Inspect and act on the escalation ladder",
	}
	cmd.AddCommand(escalationListCmd())
	cmd.AddCommand(escalationShowCmd())
	cmd.AddCommand(escalationAckCmd())
	cmd.AddCommand(escalationResolveCmd())
	cmd.AddCommand(escalationClaimCmd())
	cmd.AddCommand(escalationTickCmd())
	return cmd
}

func escalationListCmd() *cobra.Command {
	var state string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List escalations, optionally filtered by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				escs, err := c.Escalation.ListEscalations(ctx, primary.EscalationFilters{State: state})
				if err != nil {
					return err
				}
				if len(escs) == 0 {
					fmt.Println("no escalations")
					return nil
				}
				for _, e := range escs {
					fmt.Printf("%-12s %-4s %-12s %s\n", e.Code, e.Level, levelColor(e.Level)(e.State), e.Message)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&state, "state", "", "filter by state")
	return cmd
}

func escalationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <code>",
		Short: "Show one escalation's full history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				e, err := c.Escalation.GetEscalation(ctx, args[0])
				if err != nil {
					return err
				}
				if e == nil {
					fmt.Printf("no escalation with code %q\n", args[0])
					return nil
				}
				fmt.Printf("%s  level=%s  state=%s\n", e.Code, e.Level, e.State)
				fmt.Printf("  message: %s\n", e.Message)
				fmt.Printf("  created:      %s\n", e.CreatedAt)
				printIfSet("  notified:     ", e.NotifiedAt)
				printIfSet("  reminded:     ", e.RemindedAt)
				printIfSet("  acknowledged: ", e.AcknowledgedAt)
				printIfSet("  resolved:     ", e.ResolvedAt)
				printIfSet("  resolution:   ", e.ResolutionNote)
				printIfSet("  claimed by:   ", e.AssignedDirector)
				return nil
			})
		},
	}
}

func printIfSet(label, value string) {
	if value != "" {
		fmt.Println(label + value)
	}
}

func escalationAckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ack <code>",
		Short: "Acknowledge an escalation (director only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				if _, err := requireDirectorAudited(ctx, c, "escalation_ack"); err != nil {
					return err
				}
				if err := c.Escalation.AcknowledgeEscalation(ctx, args[0]); err != nil {
					return err
				}
				fmt.Printf("acknowledged %s\n", args[0])
				return nil
			})
		},
	}
}

func escalationResolveCmd() *cobra.Command {
	var note string
	cmd := &cobra.Command{
		Use:   "resolve <code>",
		Short: "Resolve an escalation with a note (director only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				if _, err := requireDirectorAudited(ctx, c, "escalation_resolve"); err != nil {
					return err
				}
				if err := c.Escalation.ResolveEscalation(ctx, args[0], note); err != nil {
					return err
				}
				fmt.Printf("resolved %s\n", args[0])
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&note, "note", "", "resolution note")
	return cmd
}

func escalationClaimCmd() *cobra.Command {
	var director string
	cmd := &cobra.Command{
		Use:   "claim <code>",
		Short: "Claim an escalation ahead of acknowledging or resolving it (director only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				r, err := requireDirectorAudited(ctx, c, "escalation_claim")
				if err != nil {
					return err
				}
				name := director
				if name == "" {
					name = string(r)
				}
				if err := c.Escalation.ClaimEscalation(ctx, args[0], name); err != nil {
					return err
				}
				fmt.Printf("%s claimed by %s\n", args[0], name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&director, "as", "", "director name to claim as (defaults to --role's identity)")
	return cmd
}

func escalationTickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Run a single escalation-engine tick (ingest then promote)",
		Long: `Runs the same ingest/promote pass (§4.5) that escalationd runs every
interval: one sweep to absorb pending alerts into escalations, then one
pass promoting every non-terminal escalation whose threshold has elapsed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				return c.Escalation.RunTick(ctx)
			})
		},
	}
}

func levelColor(level string) func(string) string {
	var attr color.Attribute
	switch level {
	case "L1":
		attr = color.FgHiBlue
	case "L2":
		attr = color.FgYellow
	case "L3":
		attr = color.FgHiYellow
	case "L4":
		attr = color.FgHiRed
	default:
		attr = color.FgWhite
	}
	c := color.New(attr)
	return func(s string) string { return c.Sprint(s) }
}
