package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRemoveCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rm <pathspec>...",
		Aliases: []string{"remove"},
		Short:   "remove files from the index, leaving the working tree untouched",
		Args:    cobra.MinimumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return removeCmd(cfg, args)
	}

	return cmd
}

func removeCmd(cfg *globalFlags, paths []string) error {
	r, err := loadRepository(cfg)
	if err != nil {
		return fmt.Errorf("could not open repository: %w", err)
	}

	for _, p := range paths {
		if err := r.Remove(p); err != nil {
			return fmt.Errorf("could not remove %s: %w", p, err)
		}
	}
	return nil
}
