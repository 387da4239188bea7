// Package analyzer reports equalgen diagnostics as go/analysis diagnostics,
// so editors and go vet surface them with their suggested fixes.
package analyzer

import (
	"go/ast"
	"strings"

	"golang.org/x/tools/go/analysis"

	"github.com/cmmoran/equalgen/internal/engine"
	"github.com/cmmoran/equalgen/internal/parser"
)

const doc = `check equal directives

Reports closures that would take part in a generated Equal method, equal
directives attached to the wrong declarations, and //equal:generate on
non-struct types. Rejected closures come with a fix that marks the field
//equal:safeclosure.`

var Analyzer = &analysis.Analyzer{
	Name: "equalvet",
	Doc:  doc,
	Run:  run,
}

func run(pass *analysis.Pass) (any, error) {
	cfg := parser.FileConfig{
		PkgPath:            pass.Pkg.Path(),
		IsolationSupported: parser.SupportsIsolation(pass.Pkg.GoVersion()),
	}
	for _, file := range pass.Files {
		if ast.IsGenerated(file) {
			continue
		}
		decls, diags := parser.DeclarationsFromFile(pass.Fset, file, pass.TypesInfo, cfg)
		for _, d := range decls {
			diags = append(diags, engine.ExpandDirectives(d)...)
			if d.Generate {
				diags = append(diags, engine.Expand(d).Diagnostics...)
			}
		}
		for _, d := range diags {
			report(pass, d)
		}
	}
	return nil, nil
}

func report(pass *analysis.Pass, d engine.Diagnostic) {
	diag := analysis.Diagnostic{
		Pos:      d.Pos,
		End:      d.End,
		Category: d.Code,
		Message:  d.Message,
	}
	if d.Fix != nil {
		indent := strings.Repeat("\t", max(pass.Fset.Position(d.Fix.Pos).Column-1, 0))
		diag.SuggestedFixes = []analysis.SuggestedFix{{
			Message: d.Fix.Message,
			TextEdits: []analysis.TextEdit{{
				Pos:     d.Fix.Pos,
				End:     d.Fix.Pos,
				NewText: []byte("//" + d.Fix.Directive.String() + "\n" + indent),
			}},
		}}
	}
	pass.Report(diag)
}
