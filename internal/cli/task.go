package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/researchctl/sentinel/internal/ports/primary"
	"github.com/researchctl/sentinel/internal/wire"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Submit and inspect research tasks",
	}
	cmd.AddCommand(taskCreateCmd())
	cmd.AddCommand(taskListCmd())
	cmd.AddCommand(taskStatusCmd())
	cmd.AddCommand(taskRunOnceCmd())
	return cmd
}

func taskCreateCmd() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Submit a new task to the pending queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := requireRole()
			if err != nil {
				return err
			}
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				task, err := c.Task.CreateTask(ctx, string(r), args[0], description)
				if err != nil {
					return err
				}
				fmt.Printf("created task %d (%s) [%s]\n", task.ID, task.Name, task.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "optional task description")
	return cmd
}

func taskListCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				tasks, err := c.Task.ListTasks(ctx, primary.TaskFilters{Status: status})
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					fmt.Println("no tasks")
					return nil
				}
				for _, t := range tasks {
					line := fmt.Sprintf("%-6d %-10s %-24s %s", t.ID, t.Status, t.Name, t.CreatedAt)
					if t.Status == "failed" && t.ErrorMessage != "" {
						line += "  error: " + t.ErrorMessage
					}
					fmt.Println(line)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, processing, completed, failed)")
	return cmd
}

func taskStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id>",
		Short: "Show a single task's status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q: %w", args[0], err)
			}
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				t, err := c.Task.GetTaskStatus(ctx, id)
				if err != nil {
					return err
				}
				if t == nil {
					fmt.Printf("no task with id %d\n", id)
					return nil
				}
				fmt.Printf("task %d: %s [%s]\n", t.ID, t.Name, t.Status)
				fmt.Printf("  created: %s  updated: %s\n", t.CreatedAt, t.UpdatedAt)
				if t.CompletedAt != "" {
					fmt.Printf("  completed: %s\n", t.CompletedAt)
				}
				if t.ErrorMessage != "" {
					fmt.Printf("  error: %s\n", t.ErrorMessage)
				}
				return nil
			})
		},
	}
}

func taskRunOnceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run-once",
		Short: "Run a single processor pass over the pending queue",
		Long: `Runs exactly one scan-and-execute pass, the same protocol the
processord daemon runs every tick (§4.3): lock acquisition, dual-
representation reconciliation, then one walk through pending. Useful for
operator-driven processing without starting the daemon.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(func(ctx context.Context, c *wire.Container) error {
				n, err := c.Processor.RunOnce(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("processed %d task(s)\n", n)
				return nil
			})
		},
	}
}
