// Package cli implements the sentinel command tree: a thin adapter (§1)
// that asserts role from --role, resolves the institute base path, and
// dispatches to the primary-port services wired by internal/wire. Report
// rendering, argument parsing, and error-to-exit-code translation live
// here; the decision logic they call into lives in internal/app and
// internal/core.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/researchctl/sentinel/internal/errs"
	"github.com/researchctl/sentinel/internal/role"
	"github.com/researchctl/sentinel/internal/wire"
)

var (
	basePathFlag string
	roleFlag     string
)

// RootCmd assembles the full sentinel command tree.
func RootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "sentinel",
		Short:   "Sentinel - operational control plane for the research institute",
		Version: version,
		Long: `Sentinel is the CLI surface for the institute's operational control
plane: task submission and inspection, escalation acknowledgment and
resolution, lockdown/recovery, and health reporting. It is a thin adapter
around the mode authority, queue engine, escalation engine, and recovery
gate; the state those own lives in the institute's databases and directory
tree, not in this process.`,
	}

	root.PersistentFlags().StringVar(&basePathFlag, "base-path", "", "institute base path (default: $SENTINEL_BASE_PATH or /institute)")
	root.PersistentFlags().StringVar(&roleFlag, "role", "", "caller role: researcher or director")

	root.AddCommand(modeCmd())
	root.AddCommand(taskCmd())
	root.AddCommand(escalationCmd())
	root.AddCommand(recoveryCmd())
	root.AddCommand(watchdogCmd())
	root.AddCommand(auditCmd())
	root.AddCommand(attachCmd())

	return root
}

// withContainer bootstraps a wire.Container for the duration of one CLI
// invocation and ensures it is closed afterward. Every leaf command runs
// its body through this instead of managing the database handles itself.
func withContainer(fn func(ctx context.Context, c *wire.Container) error) error {
	base := wire.ResolveBasePath(basePathFlag)
	c, err := wire.Bootstrap(base)
	if err != nil {
		return fmt.Errorf("failed to bootstrap institute at %s: %w", base, err)
	}
	defer c.Close()
	return fn(context.Background(), c)
}

// requireRole parses --role, exiting the contract's documented way on an
// unrecognized value: a role failure is a policy denial, not a crash.
func requireRole() (role.Role, error) {
	if roleFlag == "" {
		return "", &errs.PolicyDenied{Reason: "--role is required (researcher or director)"}
	}
	r, err := role.Parse(roleFlag)
	if err != nil {
		return "", &errs.PolicyDenied{Reason: fmt.Sprintf("unrecognized role %q", roleFlag)}
	}
	return r, nil
}

// requireDirectorAudited is the guard commands reserved for the director
// role use. It takes a bootstrapped container so a role mismatch can be
// recorded as the role_violation audit entry §7 documents, rather than
// denied silently.
func requireDirectorAudited(ctx context.Context, c *wire.Container, action string) (role.Role, error) {
	r, err := requireRole()
	if err != nil {
		return "", err
	}
	if r != role.Director {
		_ = c.Audit.Log(ctx, string(r), "role_violation", "", fmt.Sprintf("action=%s requires director", action))
		return "", &errs.PolicyDenied{Reason: "this command requires --role=director"}
	}
	return r, nil
}

// exitCode maps the taxonomy in §7 to the process exit code the contract
// in §6 requires: 1 on permission failure, mode-gated denial, or
// unexpected error; 0 otherwise. Storage faults and malformed input that
// occur mid-tick inside a daemon never reach this function — only CLI
// command errors do, and for a one-shot CLI invocation there is no "next
// item" to continue to, so every error kind here exits non-zero.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Run executes root and translates any returned error into the process
// exit code, printing it to stderr first.
func Run(root *cobra.Command) {
	err := root.Execute()
	if err != nil {
		var policyErr *errs.PolicyDenied
		var invariantErr *errs.InvariantViolation
		switch {
		case errors.As(err, &policyErr):
			fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("denied: ")+policyErr.Reason)
		case errors.As(err, &invariantErr):
			fmt.Fprintln(os.Stderr, color.New(color.FgYellow).Sprint("rejected: ")+invariantErr.Reason)
		default:
			fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("error: ")+err.Error())
		}
	}
	os.Exit(exitCode(err))
}
