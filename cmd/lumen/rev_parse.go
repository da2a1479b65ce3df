package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newRevParseCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rev-parse <rev>",
		Short: "resolve a revision expression to a commit id",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return revParseCmd(cmd.OutOrStdout(), cfg, args[0])
	}

	return cmd
}

func revParseCmd(out io.Writer, cfg *globalFlags, expr string) error {
	r, err := loadRepository(cfg)
	if err != nil {
		return fmt.Errorf("could not open repository: %w", err)
	}

	id, err := r.RevParse(expr)
	if err != nil {
		return fmt.Errorf("could not resolve %s: %w", expr, err)
	}

	fmt.Fprintln(out, id.String())
	return nil
}
