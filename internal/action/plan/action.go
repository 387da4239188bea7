// Package plan reports what generate would do for a set of declarations
// without rendering any Go source.
package plan

import (
	"context"
	"fmt"
	"go/token"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cmmoran/equalgen/internal/engine"
	"github.com/cmmoran/equalgen/internal/model"
	"github.com/cmmoran/equalgen/internal/parser"
)

// Report is the plan for every declaration, in source order.
type Report struct {
	Types []Type `yaml:"types"`
	// Diagnostics are reported outside any declaration, such as stray
	// directives.
	Diagnostics []string `yaml:"diagnostics,omitempty"`
}

// Type is the plan for one declaration.
type Type struct {
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	Generate    bool     `yaml:"generate"`
	Isolation   string   `yaml:"isolation,omitempty"`
	Hashable    bool     `yaml:"hashable,omitempty"`
	Pointer     bool     `yaml:"pointer_receiver,omitempty"`
	Equality    string   `yaml:"equality,omitempty"`
	Hash        []string `yaml:"hash,omitempty"`
	Fields      []Field  `yaml:"fields,omitempty"`
	Diagnostics []string `yaml:"diagnostics,omitempty"`
}

// Field is the classification of one stored field.
type Field struct {
	Name      string `yaml:"name"`
	Outcome   string `yaml:"outcome"`
	Weight    int    `yaml:"weight,omitempty"`
	Directive string `yaml:"directive,omitempty"`
}

// FromFile plans the declarations of a YAML declaration file.
func FromFile(path string) (*Report, error) {
	fset, decls, err := parser.LoadDecls(path)
	if err != nil {
		return nil, err
	}
	return Build(fset, decls), nil
}

// FromPackages plans the declarations of the configured Go packages.
func FromPackages(ctx context.Context, opts *parser.Options) (*Report, error) {
	p, err := parser.NewWithOpts(opts)
	if err != nil {
		return nil, err
	}
	if err = p.Parse(ctx); err != nil {
		return nil, err
	}
	r := &Report{}
	for _, pkg := range p.Packages {
		r.Types = append(r.Types, Build(p.Fset, pkg.Declarations).Types...)
		r.Diagnostics = append(r.Diagnostics, format(p.Fset, pkg.Diagnostics)...)
	}
	return r, nil
}

// Build expands every declaration.
func Build(fset *token.FileSet, decls []*model.Declaration) *Report {
	r := &Report{Types: make([]Type, 0, len(decls))}
	for _, decl := range decls {
		r.Types = append(r.Types, planType(fset, decl))
	}
	return r
}

func planType(fset *token.FileSet, decl *model.Declaration) Type {
	t := Type{
		Name:     decl.Receiver(),
		Kind:     decl.Kind.String(),
		Generate: decl.Generate,
		Hashable: decl.Hashable,
	}
	diags := engine.ExpandDirectives(decl)
	if decl.Generate {
		exp := engine.Expand(decl)
		diags = append(diags, exp.Diagnostics...)
		if c := exp.Conformance; c != nil {
			t.Isolation = c.Isolation.String()
			t.Pointer = c.PointerReceiver
			t.Equality = c.Equality.Expr()
			if c.Hash != nil {
				t.Hash = c.Hash.Statements()
			}
		}
		for _, c := range exp.Classifications {
			f := Field{Name: c.Field.Name, Outcome: c.Outcome.String()}
			if c.Outcome == engine.Included {
				f.Weight = engine.Weight(c.Field.TypeExpr)
			}
			if c.Directive != nil {
				f.Directive = c.Directive.String()
			}
			t.Fields = append(t.Fields, f)
		}
	}
	t.Diagnostics = format(fset, diags)
	return t
}

func format(fset *token.FileSet, diags engine.Diagnostics) []string {
	diags.Sort()
	var out []string
	for _, d := range diags {
		s := d.Format(fset)
		if d.Fix != nil {
			s += " (fix: " + d.Fix.Message + ")"
		}
		out = append(out, s)
	}
	return out
}

// Errors counts the error diagnostics in r.
func (r *Report) Errors() int {
	n := countErrors(r.Diagnostics)
	for _, t := range r.Types {
		n += countErrors(t.Diagnostics)
	}
	return n
}

func countErrors(diags []string) int {
	n := 0
	for _, d := range diags {
		if strings.Contains(d, ": error: ") {
			n++
		}
	}
	return n
}

// WriteText writes r in a line-oriented form.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder
	for i, t := range r.Types {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(t.Name + " " + t.Kind)
		if !t.Generate {
			b.WriteString(" (not generated)")
		}
		if t.Isolation != "" {
			b.WriteString(" isolation=" + t.Isolation)
		}
		if t.Hashable {
			b.WriteString(" hashable")
		}
		if t.Pointer {
			b.WriteString(" pointer")
		}
		b.WriteByte('\n')
		if t.Equality != "" {
			b.WriteString("  equal: " + t.Equality + "\n")
		}
		if t.Hash != nil {
			b.WriteString("  hash: " + strings.Join(t.Hash, "; ") + "\n")
		}
		for _, f := range t.Fields {
			b.WriteString("  field " + f.Name + " " + f.Outcome)
			if f.Weight > 0 {
				fmt.Fprintf(&b, " weight=%d", f.Weight)
			}
			if f.Directive != "" {
				b.WriteString(" by " + f.Directive)
			}
			b.WriteByte('\n')
		}
		for _, d := range t.Diagnostics {
			b.WriteString("  " + d + "\n")
		}
	}
	if len(r.Diagnostics) > 0 {
		if len(r.Types) > 0 {
			b.WriteByte('\n')
		}
		for _, d := range r.Diagnostics {
			b.WriteString(d + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WriteYAML writes r as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	return enc.Close()
}
