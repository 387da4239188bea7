package parser

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Options control loading and generation.
//
// InDir        – directory to load packages from
// Patterns     – package patterns relative to InDir (default ./...)
// OutFile      – name of the generated file written next to each package
// Tags         – build tags passed to the loader
// Workers      – expansions run concurrently (default GOMAXPROCS)
// IncludeTests – also load _test.go files
// ManifestPath – manifest recording generated files, relative to InDir
// FailOnError  – treat error diagnostics as a failed run
type Options struct {
	InDir        string   `json:"in_dir,omitempty" yaml:"in_dir,omitempty" toml:"in_dir,omitempty" mapstructure:"in_dir,omitempty"`
	Patterns     []string `json:"patterns,omitempty" yaml:"patterns,omitempty" toml:"patterns,omitempty" mapstructure:"patterns,omitempty"`
	OutFile      string   `json:"out_file,omitempty" yaml:"out_file,omitempty" toml:"out_file,omitempty" mapstructure:"out_file,omitempty"`
	Tags         []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty" mapstructure:"tags,omitempty"`
	Workers      int      `json:"workers,omitempty" yaml:"workers,omitempty" toml:"workers,omitempty" mapstructure:"workers,omitempty"`
	IncludeTests bool     `json:"include_tests,omitempty" yaml:"include_tests,omitempty" toml:"include_tests,omitempty" mapstructure:"include_tests,omitempty"`
	ManifestPath string   `json:"manifest_path,omitempty" yaml:"manifest_path,omitempty" toml:"manifest_path,omitempty" mapstructure:"manifest_path,omitempty"`
	FailOnError  bool     `json:"fail_on_error,omitempty" yaml:"fail_on_error,omitempty" toml:"fail_on_error,omitempty" mapstructure:"fail_on_error,omitempty"`
}

const (
	DefaultOutFile      = "equal_gen.go"
	DefaultManifestPath = ".equalgen.yaml"
	DefaultPattern      = "./..."
)

func NewOptions() *Options {
	return &Options{
		InDir:        ".",
		Patterns:     []string{DefaultPattern},
		OutFile:      DefaultOutFile,
		ManifestPath: DefaultManifestPath,
	}
}

// Normalize fills defaults and makes InDir absolute.
func (o *Options) Normalize() {
	if o.InDir == "" {
		o.InDir = "."
	}
	if abs, err := filepath.Abs(o.InDir); err == nil {
		o.InDir = abs
	}
	if len(o.Patterns) == 0 {
		o.Patterns = []string{DefaultPattern}
	}
	if len(o.OutFile) == 0 {
		o.OutFile = DefaultOutFile
	}
	if !strings.HasSuffix(o.OutFile, ".go") {
		o.OutFile += ".go"
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.ManifestPath == "" {
		o.ManifestPath = DefaultManifestPath
	}
	if !filepath.IsAbs(o.ManifestPath) {
		o.ManifestPath = filepath.Join(o.InDir, o.ManifestPath)
	}
}

// GeneratedFiles names the files a run writes: OutFile and its _test.go
// variant.
func (o *Options) GeneratedFiles() []string {
	return []string{o.OutFile, strings.TrimSuffix(o.OutFile, ".go") + "_test.go"}
}

// BuildFlags returns the loader flags implied by o.
func (o *Options) BuildFlags() []string {
	if len(o.Tags) == 0 {
		return nil
	}
	return []string{"-tags=" + strings.Join(o.Tags, ",")}
}

// functional option pattern ---------------------------------------------------

type Option func(*Options)

func WithInDir(d string) Option        { return func(o *Options) { o.InDir = d } }
func WithPatterns(p ...string) Option  { return func(o *Options) { o.Patterns = append(o.Patterns, p...) } }
func WithOutFile(f string) Option      { return func(o *Options) { o.OutFile = f } }
func WithTags(t ...string) Option      { return func(o *Options) { o.Tags = append(o.Tags, t...) } }
func WithWorkers(n int) Option         { return func(o *Options) { o.Workers = n } }
func WithIncludeTests() Option         { return func(o *Options) { o.IncludeTests = true } }
func WithManifestPath(p string) Option { return func(o *Options) { o.ManifestPath = p } }
func WithFailOnError() Option          { return func(o *Options) { o.FailOnError = true } }
