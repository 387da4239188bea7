package parser

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/cmmoran/equalgen/internal/engine"
	"github.com/cmmoran/equalgen/internal/model"
)

var ErrNoPackages = errors.New("no packages matched")

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

// FileConfig carries the package-level facts a single file cannot tell.
type FileConfig struct {
	PkgPath            string
	IsolationSupported bool
}

// Package is one generation unit: the declarations that end up in a single
// generated file. A directory holding both a package and its _test.go files
// yields two units.
type Package struct {
	Name               string
	Path               string
	Dir                string
	Test               bool
	IsolationSupported bool
	Declarations       []*model.Declaration
	Diagnostics        engine.Diagnostics
	Errors             []error
}

// OutPath is where the unit's generated file lives.
func (p *Package) OutPath(outFile string) string {
	if p.Test {
		outFile = strings.TrimSuffix(outFile, ".go") + "_test.go"
	}
	return filepath.Join(p.Dir, outFile)
}

// Generating returns the declarations that asked for generation.
func (p *Package) Generating() []*model.Declaration {
	var out []*model.Declaration
	for _, d := range p.Declarations {
		if d.Generate {
			out = append(out, d)
		}
	}
	return out
}

// Parser holds state/results of a parse run.
type Parser struct {
	Opts     Options
	Fset     *token.FileSet
	Packages []*Package
}

// New executes the parser with opts.
func New(opts ...Option) (*Parser, error) {
	o := NewOptions()
	o.Patterns = nil
	for _, fn := range opts {
		fn(o)
	}

	return NewWithOpts(o)
}

func NewWithOpts(opts *Options) (*Parser, error) {
	opts.Normalize()

	return &Parser{
		Opts: *opts,
		Fset: token.NewFileSet(),
	}, nil
}

// Parse loads the configured packages and collects their declarations.
func (p *Parser) Parse(ctx context.Context) error {
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Mode:       loadMode,
		Dir:        p.Opts.InDir,
		Fset:       p.Fset,
		Tests:      p.Opts.IncludeTests,
		BuildFlags: p.Opts.BuildFlags(),
	}, p.Opts.Patterns...)
	if err != nil {
		return fmt.Errorf("load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return fmt.Errorf("%w: %s", ErrNoPackages, strings.Join(p.Opts.Patterns, " "))
	}

	var (
		gate  = newIsolationGate()
		units = make(map[string]*Package)
		done  = make(map[string]bool)
	)
	for _, pkg := range pkgs {
		if strings.HasSuffix(pkg.ID, ".test") {
			// synthesized test main
			continue
		}
		var gomod, goVersion string
		if pkg.Module != nil {
			gomod, goVersion = pkg.Module.GoMod, pkg.Module.GoVersion
		}
		cfg := FileConfig{
			PkgPath:            pkg.PkgPath,
			IsolationSupported: gate.supported(gomod, goVersion, p.Opts.InDir),
		}
		var loadErrs []error
		for _, e := range pkg.Errors {
			loadErrs = append(loadErrs, e)
		}

		for _, file := range pkg.Syntax {
			name := p.Fset.Position(file.Pos()).Filename
			if done[name] || p.isGenerated(name) {
				continue
			}
			done[name] = true

			unit := p.unit(units, pkg, name)
			unit.IsolationSupported = cfg.IsolationSupported
			unit.Errors = appendMissing(unit.Errors, loadErrs)

			decls, diags := DeclarationsFromFile(p.Fset, file, pkg.TypesInfo, cfg)
			unit.Declarations = append(unit.Declarations, decls...)
			unit.Diagnostics = append(unit.Diagnostics, diags...)
		}
	}

	p.Packages = p.Packages[:0]
	for _, u := range units {
		p.Packages = append(p.Packages, u)
	}
	slices.SortFunc(p.Packages, func(a, b *Package) int {
		if c := strings.Compare(a.Dir, b.Dir); c != 0 {
			return c
		}
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		switch {
		case a.Test == b.Test:
			return 0
		case b.Test:
			return -1
		default:
			return 1
		}
	})
	return nil
}

func (p *Parser) unit(units map[string]*Package, pkg *packages.Package, file string) *Package {
	dir := filepath.Dir(file)
	test := strings.HasSuffix(file, "_test.go")
	key := fmt.Sprintf("%s|%s|%t", dir, pkg.Name, test)
	if u, ok := units[key]; ok {
		return u
	}
	u := &Package{
		Name: pkg.Name,
		Path: strings.TrimSuffix(pkg.PkgPath, "_test"),
		Dir:  dir,
		Test: test,
	}
	units[key] = u
	return u
}

func (p *Parser) isGenerated(file string) bool {
	return slices.Contains(p.Opts.GeneratedFiles(), filepath.Base(file))
}

func appendMissing(dst, src []error) []error {
	for _, e := range src {
		if !slices.ContainsFunc(dst, func(have error) bool { return have.Error() == e.Error() }) {
			dst = append(dst, e)
		}
	}
	return dst
}

// DeclarationsFromFile converts the type declarations of file that carry an
// equal directive on the type or on any of its fields. Equal directives found
// anywhere else are reported as misplaced or unknown. info may be nil.
func DeclarationsFromFile(fset *token.FileSet, file *ast.File, info *types.Info, cfg FileConfig) ([]*model.Declaration, engine.Diagnostics) {
	var (
		b     = NewBuilder(fset, file, info, cfg)
		decls []*model.Declaration
		diags engine.Diagnostics
	)
	for _, d := range file.Decls {
		gen, ok := d.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			groups := []*ast.CommentGroup{ts.Doc, ts.Comment}
			if !gen.Lparen.IsValid() {
				groups = append(groups, gen.Doc)
			}
			decl, ds := b.Declaration(ts, groups...)
			diags = append(diags, ds...)
			if decl.Generate || hasFieldDirectives(decl) {
				decls = append(decls, decl)
			}
		}
	}

	for _, c := range fileDirectives(file) {
		if b.seen[c] {
			continue
		}
		d, ok := ParseDirective(c)
		if !ok {
			continue
		}
		if engine.IsFieldDirective(d.Name) || engine.IsTypeDirective(d.Name) {
			diags = append(diags, engine.Misplaced(d))
		} else {
			diags = append(diags, engine.Unknown(d))
		}
	}
	diags.Sort()
	return decls, diags
}

func hasFieldDirectives(decl *model.Declaration) bool {
	for _, f := range decl.Fields {
		for _, d := range f.Directives {
			if d.Namespace == model.Namespace && !d.Implicit {
				return true
			}
		}
	}
	return false
}
