package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type commitCmdFlags struct {
	message string
}

func newCommitCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "record changes staged in the index to a new commit",
	}

	flags := commitCmdFlags{}
	cmd.Flags().StringVarP(&flags.message, "message", "m", "", "commit message")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return commitCmd(cmd.OutOrStdout(), cfg, flags)
	}

	return cmd
}

func commitCmd(out io.Writer, cfg *globalFlags, flags commitCmdFlags) error {
	if flags.message == "" {
		return errors.New("a commit message is required, use -m")
	}

	r, err := loadRepository(cfg)
	if err != nil {
		return fmt.Errorf("could not open repository: %w", err)
	}

	summary, err := r.Commit(flags.message)
	if err != nil {
		return fmt.Errorf("could not commit: %w", err)
	}

	fmt.Fprintln(out, summary)
	return nil
}
