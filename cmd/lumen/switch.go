package main

import (
	"fmt"
	"io"

	"github.com/lumenvcs/lumen/diff"
	"github.com/spf13/cobra"
)

type switchCmdFlags struct {
	plan   bool
	detach bool
}

func newSwitchCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switch <rev>",
		Short: "switch HEAD to another branch or commit",
		Args:  cobra.ExactArgs(1),
	}

	flags := switchCmdFlags{}
	cmd.Flags().BoolVar(&flags.plan, "plan", false, "only print the worktree edits switching would make, without switching")
	cmd.Flags().BoolVarP(&flags.detach, "detach", "d", false, "detach HEAD at the resolved commit instead of following a branch")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return switchCmd(cmd.OutOrStdout(), cfg, flags, args[0])
	}

	return cmd
}

func switchCmd(out io.Writer, cfg *globalFlags, flags switchCmdFlags, rev string) error {
	r, err := loadRepository(cfg)
	if err != nil {
		return fmt.Errorf("could not open repository: %w", err)
	}

	if flags.plan {
		changes, err := r.SwitchPlan(rev)
		if err != nil {
			return fmt.Errorf("could not plan switch to %s: %w", rev, err)
		}
		for _, c := range changes {
			fmt.Fprintf(out, "%s %s\n", planVerb(c.Type), c.Path)
		}
		return nil
	}

	id, err := r.Switch(rev, flags.detach)
	if err != nil {
		return fmt.Errorf("could not switch to %s: %w", rev, err)
	}

	if flags.detach {
		fmt.Fprintf(out, "HEAD is now detached at %s\n", id.Short())
		return nil
	}
	fmt.Fprintf(out, "Switched to branch '%s'\n", rev)
	return nil
}

func planVerb(t diff.ChangeType) string {
	switch t {
	case diff.Created:
		return "create"
	case diff.Deleted:
		return "delete"
	default:
		return "update"
	}
}
