package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type restoreCmdFlags struct {
	source string
}

func newRestoreCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <pathspec>...",
		Short: "restore working tree files",
		Args:  cobra.MinimumNArgs(1),
	}

	flags := restoreCmdFlags{}
	cmd.Flags().StringVarP(&flags.source, "source", "s", "", "restore the working tree files with the content from the given tree-ish, defaults to HEAD")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return restoreCmd(cfg, flags, args)
	}

	return cmd
}

func restoreCmd(cfg *globalFlags, flags restoreCmdFlags, paths []string) error {
	r, err := loadRepository(cfg)
	if err != nil {
		return fmt.Errorf("could not open repository: %w", err)
	}

	for _, p := range paths {
		if err := r.Restore(p, flags.source); err != nil {
			return fmt.Errorf("could not restore %s: %w", p, err)
		}
	}
	return nil
}
