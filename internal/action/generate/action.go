package generate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/hashicorp/go-multierror"

	"github.com/cmmoran/equalgen/internal/parser"
	"github.com/cmmoran/equalgen/pkg/manifest"
)

// ErrDiagnostics is returned when error diagnostics were reported and the run
// was configured to fail on them.
var ErrDiagnostics = errors.New("error diagnostics reported")

// Result summarises a generate run.
type Result struct {
	Units     []*Unit
	Written   []string
	Unchanged []string
	Removed   []string
	Errors    int
}

// Run generates the equality methods of every configured package, writes
// one file per unit and records the files in the manifest. Diagnostics are
// printed to w and logged on l. A unit that fails to write does not stop the
// others; the failures are returned together.
func Run(ctx context.Context, opts *parser.Options, w io.Writer, l *slog.Logger) (*Result, error) {
	if l == nil {
		l = slog.Default()
	}
	p, units, err := Build(ctx, opts)
	if err != nil {
		return nil, err
	}

	m, err := manifest.Load(p.Opts.ManifestPath)
	if err != nil {
		return nil, err
	}
	m.SetVersion(Version())

	res := &Result{Units: units}
	var (
		kept []string
		errs *multierror.Error
	)
	for _, u := range units {
		for _, e := range u.Package.Errors {
			l.With("package", u.Package.Path, "error", e).Warn("package has errors")
		}
		Report(w, l, p.Fset, u.Diagnostics)
		res.Errors += u.Diagnostics.Errors()

		if u.Source == nil {
			removed, err := removeStale(m, u.Path)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			if removed {
				l.With("file", u.Path).Info("removed stale generated file")
				res.Removed = append(res.Removed, u.Path)
			}
			continue
		}

		changed, err := writeIfChanged(u.Path, u.Source)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if changed {
			l.With("file", u.Path, "types", u.Types()).Info("generated " + Count(len(u.Types()), "type"))
			res.Written = append(res.Written, u.Path)
		} else {
			res.Unchanged = append(res.Unchanged, u.Path)
		}
		m.Record(manifest.Entry{
			Package: u.Package.Path,
			File:    u.Path,
			Types:   u.Types(),
			Digest:  manifest.Digest(u.Source),
		})
		kept = append(kept, u.Path)
	}

	for _, e := range m.Stale(kept) {
		if _, err := os.Stat(m.Abs(e.File)); errors.Is(err, fs.ErrNotExist) {
			m.Remove(e.File)
		}
	}
	if err = m.Save(p.Opts.ManifestPath); err != nil {
		errs = multierror.Append(errs, err)
	}
	if err = errs.ErrorOrNil(); err != nil {
		return res, err
	}

	l.With("written", len(res.Written), "unchanged", len(res.Unchanged), "removed", len(res.Removed)).
		Info(fmt.Sprintf("wrote %s, %s", Count(len(res.Written), "file"), Count(res.Errors, "error")))

	if res.Errors > 0 && p.Opts.FailOnError {
		return res, fmt.Errorf("%w: %s", ErrDiagnostics, Count(res.Errors, "error"))
	}
	return res, nil
}

// removeStale deletes path when the manifest says a previous run wrote it.
func removeStale(m *manifest.Manifest, path string) (bool, error) {
	if _, ok := m.Lookup(path); !ok {
		return false, nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("remove stale file %s: %w", path, err)
	}
	m.Remove(path)
	return true, nil
}

func writeIfChanged(path string, src []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, src) {
		return false, nil
	}
	if err = os.WriteFile(path, src, 0o644); err != nil {
		return false, fmt.Errorf("write generated file %s: %w", path, err)
	}
	return true, nil
}

// Version is the version of the running binary, as recorded in the manifest.
func Version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" {
		return "(devel)"
	}
	return info.Main.Version
}
