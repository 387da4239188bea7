package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/equalgen/internal/action/generate"
	"github.com/cmmoran/equalgen/internal/action/plan"
)

func init() {
	rootCmd.AddCommand(NewPlanCommand())
}

func NewPlanCommand() *cobra.Command {
	var (
		declFile string
		format   string
	)

	var planCmd = &cobra.Command{
		Use:   "plan",
		Short: "show the equality plan",
		Long:  "Print the ordered fields, classifications and diagnostics for every declaration, read from a YAML declaration file or from Go packages",
		RunE: func(c *cobra.Command, args []string) error {
			var (
				r   *plan.Report
				err error
			)
			if declFile != "" {
				r, err = plan.FromFile(declFile)
			} else {
				opts, lerr := loadOptions(c)
				if lerr != nil {
					return lerr
				}
				r, err = plan.FromPackages(c.Context(), opts)
			}
			if err != nil {
				return err
			}

			switch format {
			case "text":
				err = r.WriteText(c.OutOrStdout())
			case "yaml":
				err = r.WriteYAML(c.OutOrStdout())
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			if n := r.Errors(); n > 0 && failOnError(c) {
				return fmt.Errorf("%w: %s", generate.ErrDiagnostics, generate.Count(n, "error"))
			}
			return nil
		},
	}
	planCmd.Flags().StringVarP(&declFile, "file", "f", "", "YAML declaration file; Go packages are loaded when empty")
	planCmd.Flags().StringVar(&format, "format", "text", "output format (text, yaml)")
	addOptionFlags(planCmd, "input-directory", "patterns", "tags", "fail-on-error")

	return planCmd
}

func failOnError(c *cobra.Command) bool {
	v, err := c.Flags().GetBool("fail-on-error")
	return err == nil && v
}
