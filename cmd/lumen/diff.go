package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type diffCmdFlags struct {
	cached bool
}

func newDiffCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [<commit> <commit>]",
		Short: "show changes between commits, the index, and the working tree",
		Args:  cobra.MaximumNArgs(2),
	}

	flags := diffCmdFlags{}
	cmd.Flags().BoolVar(&flags.cached, "cached", false, "show staged changes instead of unstaged ones")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return diffCmd(cmd.OutOrStdout(), cfg, flags, args)
	}

	return cmd
}

func diffCmd(out io.Writer, cfg *globalFlags, flags diffCmdFlags, args []string) error {
	r, err := loadRepository(cfg)
	if err != nil {
		return fmt.Errorf("could not open repository: %w", err)
	}

	var result string
	switch {
	case len(args) == 2:
		result, err = r.DiffRefs(args[0], args[1])
	case flags.cached:
		result, err = r.DiffCached()
	default:
		result, err = r.Diff()
	}
	if err != nil {
		return fmt.Errorf("could not compute diff: %w", err)
	}

	fmt.Fprint(out, result)
	return nil
}
