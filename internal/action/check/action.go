package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/cmmoran/equalgen/internal/action/generate"
	"github.com/cmmoran/equalgen/internal/parser"
	"github.com/cmmoran/equalgen/pkg/manifest"
)

// ErrStale is returned when a generated file differs from what generate
// would write.
var ErrStale = errors.New("generated files are out of date")

// Drift is one generated file that is out of date.
type Drift struct {
	Path string
	// Diff is the go-cmp diff from the file on disk to the expected source.
	Diff string
}

// Run renders every unit in memory and compares it with the file on disk.
// Nothing is written. Diffs are printed to w.
func Run(ctx context.Context, opts *parser.Options, w io.Writer, l *slog.Logger) ([]Drift, error) {
	if l == nil {
		l = slog.Default()
	}
	p, units, err := generate.Build(ctx, opts)
	if err != nil {
		return nil, err
	}
	m, err := manifest.Load(p.Opts.ManifestPath)
	if err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, u := range units {
		onDisk, err := os.ReadFile(u.Path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read generated file: %w", err)
		}
		exists := err == nil

		switch {
		case u.Source == nil && !exists:
			continue
		case u.Source == nil:
			if _, ok := m.Lookup(u.Path); !ok {
				continue
			}
			drifts = append(drifts, Drift{Path: u.Path, Diff: cmp.Diff(string(onDisk), "")})
		default:
			if diff := cmp.Diff(string(onDisk), string(u.Source)); diff != "" {
				drifts = append(drifts, Drift{Path: u.Path, Diff: diff})
			}
		}
	}

	for _, d := range drifts {
		l.With("file", d.Path).Warn("generated file is out of date")
		if w != nil {
			_, _ = fmt.Fprintf(w, "%s:\n%s\n", d.Path, d.Diff)
		}
	}
	if len(drifts) > 0 {
		return drifts, fmt.Errorf("%w: %s", ErrStale, generate.Count(len(drifts), "file"))
	}
	l.With("units", len(units)).Info("generated files are up to date")
	return nil, nil
}
