package main

import (
	"fmt"
	"io"

	"github.com/lumenvcs/lumen/status"
	"github.com/spf13/cobra"
)

type statusCmdFlags struct {
	porcelain bool
}

func newStatusCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "show the working tree status",
	}

	flags := statusCmdFlags{}
	cmd.Flags().BoolVar(&flags.porcelain, "porcelain", false, "give the output in an easy-to-parse format for scripts")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return statusCmd(cmd.OutOrStdout(), cfg, flags)
	}

	return cmd
}

func statusCmd(out io.Writer, cfg *globalFlags, flags statusCmdFlags) error {
	r, err := loadRepository(cfg)
	if err != nil {
		return fmt.Errorf("could not open repository: %w", err)
	}

	result, err := r.Status()
	if err != nil {
		return fmt.Errorf("could not compute status: %w", err)
	}

	if flags.porcelain {
		fmt.Fprint(out, status.Porcelain(result))
		return nil
	}
	fmt.Fprint(out, status.Human(result, status.PlainColorWriter))
	return nil
}
