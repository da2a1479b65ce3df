package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type logCmdFlags struct {
	maxCount int
	oneline  bool
}

func newLogCmd(cfg *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "show commit history starting at HEAD",
	}

	flags := logCmdFlags{}
	cmd.Flags().IntVarP(&flags.maxCount, "max-count", "n", 0, "limit the number of commits shown, 0 means unbounded")
	cmd.Flags().BoolVar(&flags.oneline, "oneline", false, "show each commit as short-id and first message line")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return logCmd(cmd.OutOrStdout(), cfg, flags)
	}

	return cmd
}

func logCmd(out io.Writer, cfg *globalFlags, flags logCmdFlags) error {
	r, err := loadRepository(cfg)
	if err != nil {
		return fmt.Errorf("could not open repository: %w", err)
	}

	entries, err := r.Log(flags.maxCount)
	if err != nil {
		return fmt.Errorf("could not walk history: %w", err)
	}

	for _, e := range entries {
		if flags.oneline {
			fmt.Fprintf(out, "%s %s\n", e.ID.Short(), firstLine(e.Message))
			continue
		}

		branch := ""
		if e.OnHead && e.Branch != "" {
			branch = fmt.Sprintf(" (HEAD -> %s)", e.Branch)
		}
		fmt.Fprintf(out, "commit %s%s\n", e.ID.String(), branch)
		fmt.Fprintf(out, "Author: %s <%s>\n", e.Author.Name, e.Author.Email)
		fmt.Fprintf(out, "Date:   %s\n", e.Author.Time.Local().Format("Mon Jan 2 15:04:05 2006 -0700"))
		fmt.Fprintf(out, "\n    %s\n\n", firstLine(e.Message))
	}
	return nil
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return message[:i]
	}
	return message
}
