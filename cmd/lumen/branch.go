package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch <name> [start-point]",
		Short: "create a branch",
		Args:  cobra.RangeArgs(1, 2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		start := ""
		if len(args) > 1 {
			start = args[1]
		}
		return branchCmd(cfg, args[0], start)
	}

	return cmd
}

func branchCmd(cfg *globalFlags, name, start string) error {
	r, err := loadRepository(cfg)
	if err != nil {
		return fmt.Errorf("could not open repository: %w", err)
	}

	if err := r.Branch(name, start); err != nil {
		return fmt.Errorf("could not create branch %s: %w", name, err)
	}
	return nil
}
