package generate

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/cmmoran/equalgen/internal/engine"
	"github.com/cmmoran/equalgen/internal/parser"
	"github.com/cmmoran/equalgen/internal/render"
)

// Unit is the in-memory result for one generation unit.
type Unit struct {
	Package     *parser.Package
	Path        string
	Expansions  []*engine.Expansion
	Diagnostics engine.Diagnostics
	// Source is the rendered file; nil when no conformance survived.
	Source []byte

	directives []engine.Diagnostics
}

// Conformances returns the conformances of the unit, in declaration order.
func (u *Unit) Conformances() []*engine.Conformance {
	var out []*engine.Conformance
	for _, e := range u.Expansions {
		if e.Conformance != nil {
			out = append(out, e.Conformance)
		}
	}
	return out
}

// Types names the types the unit generates methods for.
func (u *Unit) Types() []string {
	var out []string
	for _, c := range u.Conformances() {
		out = append(out, c.TypeName)
	}
	return out
}

// Build parses the configured packages, expands every declaration and
// renders each unit in memory. Nothing is written.
func Build(ctx context.Context, opts *parser.Options) (*parser.Parser, []*Unit, error) {
	p, err := parser.NewWithOpts(opts)
	if err != nil {
		return nil, nil, err
	}
	if err = p.Parse(ctx); err != nil {
		return nil, nil, err
	}

	units := make([]*Unit, len(p.Packages))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers(p.Opts.Workers))
	for i, pkg := range p.Packages {
		u := &Unit{
			Package:     pkg,
			Path:        pkg.OutPath(p.Opts.OutFile),
			Expansions:  make([]*engine.Expansion, len(pkg.Declarations)),
			Diagnostics: slices.Clone(pkg.Diagnostics),
			directives:  make([]engine.Diagnostics, len(pkg.Declarations)),
		}
		units[i] = u
		for j, decl := range pkg.Declarations {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				u.directives[j] = engine.ExpandDirectives(decl)
				if decl.Generate {
					u.Expansions[j] = engine.Expand(decl)
				}
				return nil
			})
		}
	}
	if err = g.Wait(); err != nil {
		return nil, nil, err
	}

	for _, u := range units {
		if err = u.assemble(render.WithGenerated(p.Fset, p.Opts.GeneratedFiles()...)); err != nil {
			return nil, nil, err
		}
	}
	return p, units, nil
}

func (u *Unit) assemble(opts ...render.Option) error {
	for j := range u.Expansions {
		u.Diagnostics = append(u.Diagnostics, u.directives[j]...)
		if e := u.Expansions[j]; e != nil {
			u.Diagnostics = append(u.Diagnostics, e.Diagnostics...)
		}
	}
	u.directives = nil
	u.Expansions = slices.DeleteFunc(u.Expansions, func(e *engine.Expansion) bool { return e == nil })
	u.Diagnostics.Sort()

	conformances := u.Conformances()
	if len(conformances) == 0 {
		return nil
	}
	src, err := render.Source(render.File(u.Package.Name, u.Package.Path, conformances, opts...))
	if err != nil {
		return fmt.Errorf("%s: %w", u.Path, err)
	}
	u.Source = src
	return nil
}

func workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}
