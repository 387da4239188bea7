package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/equalgen/internal/parser"
)

// configKey is the configuration section holding parser.Options.
const configKey = "generate"

// optionKeys maps flag names to their parser.Options keys.
var optionKeys = map[string]string{
	"input-directory": "in_dir",
	"patterns":        "patterns",
	"output-file":     "out_file",
	"tags":            "tags",
	"workers":         "workers",
	"include-tests":   "include_tests",
	"manifest":        "manifest_path",
	"fail-on-error":   "fail_on_error",
}

// addOptionFlags registers the parser.Options flags on c. Only the flags
// named in only are added when only is not empty.
func addOptionFlags(c *cobra.Command, only ...string) {
	want := func(name string) bool {
		if len(only) == 0 {
			return true
		}
		for _, o := range only {
			if o == name {
				return true
			}
		}
		return false
	}
	flags := c.Flags()
	if want("input-directory") {
		flags.StringP("input-directory", "i", ".", "directory to load packages from")
	}
	if want("patterns") {
		flags.StringSliceP("patterns", "p", []string{parser.DefaultPattern}, "package patterns, relative to the input directory")
	}
	if want("output-file") {
		flags.StringP("output-file", "o", parser.DefaultOutFile, "name of the file generated next to each package")
	}
	if want("tags") {
		flags.StringSliceP("tags", "t", []string{}, "build tags")
	}
	if want("workers") {
		flags.IntP("workers", "w", 0, "expansions run concurrently (default GOMAXPROCS)")
	}
	if want("include-tests") {
		flags.Bool("include-tests", false, "also generate for _test.go files")
	}
	if want("manifest") {
		flags.StringP("manifest", "m", parser.DefaultManifestPath, "manifest recording generated files, relative to the input directory")
	}
	if want("fail-on-error") {
		flags.Bool("fail-on-error", false, "exit non-zero when error diagnostics are reported")
	}
}

// loadOptions binds the flags of the running command and reads
// parser.Options from flags, environment and config, in that order of
// precedence. Binding happens here rather than in init so commands sharing
// flag names do not steal each other's bindings.
func loadOptions(c *cobra.Command) (*parser.Options, error) {
	for name, key := range optionKeys {
		f := c.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := viper.BindPFlag(configKey+"."+key, f); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	var cfg struct {
		Generate parser.Options `mapstructure:"generate"`
	}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	opts := cfg.Generate
	opts.Normalize()
	return &opts, nil
}
