package cmd

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmmoran/equalgen/internal/action/watch"
)

func init() {
	rootCmd.AddCommand(NewWatchCommand())
}

func NewWatchCommand() *cobra.Command {
	var debounce time.Duration

	var watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "regenerate on change",
		Long:  "Generate, then regenerate whenever a Go source file below the input directory changes",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c)
			if err != nil {
				return err
			}
			return watch.Run(c.Context(), opts, debounce, os.Stderr, slog.Default())
		},
	}
	addOptionFlags(watchCmd)
	watchCmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before regenerating")

	return watchCmd
}
