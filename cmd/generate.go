package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cmmoran/equalgen/internal/action/generate"
)

func init() {
	var generateCmd = NewGenerateCommand()
	rootCmd.AddCommand(generateCmd)
}

func NewGenerateCommand() *cobra.Command {
	// generateCmd represents the equalgen generate command
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate equality methods",
		Long:  "Generate Equal and Hash methods for every //equal:generate struct and record the files in the manifest",
		RunE: func(c *cobra.Command, args []string) error {
			opts, err := loadOptions(c)
			if err != nil {
				return err
			}
			_, err = generate.Run(c.Context(), opts, os.Stderr, slog.Default())
			return err
		},
	}
	addOptionFlags(generateCmd)

	return generateCmd
}
