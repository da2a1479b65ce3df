package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/lumenvcs/lumen"
	"github.com/lumenvcs/lumen/internal/gitpath"
	"github.com/spf13/cobra"
)

type initCmdFlags struct {
	quiet bool
}

func newInitCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "create an empty repository",
		Args:  cobra.MaximumNArgs(1),
	}

	flags := initCmdFlags{}
	cmd.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "only print error and warning messages")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		directory := cfg.C.String()
		if len(args) > 0 {
			directory = args[0]
		}
		return initCmd(cmd.OutOrStdout(), flags, directory)
	}

	return cmd
}

func initCmd(out io.Writer, flags initCmdFlags, directory string) error {
	r, err := lumen.InitRepository(directory)
	if err != nil {
		if errors.Is(err, lumen.ErrRepositoryExists) {
			fprintln(flags.quiet, out, "Reinitialized existing lumen repository in", filepath.Join(directory, gitpath.DotGitPath))
			return nil
		}
		return fmt.Errorf("could not init repository: %w", err)
	}

	fprintln(flags.quiet, out, "Initialized empty lumen repository in", r.GitDir())
	return nil
}
