package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmmoran/equalgen/internal/action/check"
)

func init() {
	rootCmd.AddCommand(NewCheckCommand())
}

func NewCheckCommand() *cobra.Command {
	var checkCmd = &cobra.Command{
		Use:   "check",
		Short: "verify generated files are up to date",
		Long:  "Render every package in memory and diff it against the generated file on disk; nothing is written",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c)
			if err != nil {
				return err
			}
			_, err = check.Run(c.Context(), opts, os.Stdout, slog.Default())
			return err
		},
	}
	addOptionFlags(checkCmd, "input-directory", "patterns", "output-file", "tags", "workers", "include-tests", "manifest")

	return checkCmd
}
