// Package engine decides which fields of a declaration take part in equality,
// orders them, and synthesizes the equality and hash conformance.
//
// Every function here is pure: the same declaration always yields the same
// expansion, and expansions of different declarations may run concurrently.
package engine

import (
	"github.com/cmmoran/equalgen/internal/model"
)

// Expansion is the result of expanding //equal:generate on one declaration.
type Expansion struct {
	Decl            *model.Declaration
	Conformance     *Conformance // nil when the declaration is not a struct
	Classifications []Classification
	Diagnostics     Diagnostics
}

// Expand runs the full pipeline for decl. Failures degrade to diagnostics;
// the only case without a conformance is a non-struct declaration.
func Expand(decl *model.Declaration) *Expansion {
	exp := &Expansion{Decl: decl}
	if decl.Kind == model.KindDefinedStruct {
		exp.Diagnostics = append(exp.Diagnostics, errorAt(CodeNotStruct, decl.Pos, decl.Pos,
			"//%s:%s is not supported on %s, a defined type over a struct; apply it to the struct declaration instead",
			model.Namespace, model.DirectiveGenerate, decl.Name))
		return exp
	}
	if decl.Kind != model.KindStruct {
		exp.Diagnostics = append(exp.Diagnostics, errorAt(CodeNotStruct, decl.Pos, decl.Pos,
			"//%s:%s can only be applied to struct declarations", model.Namespace, model.DirectiveGenerate))
		return exp
	}

	included, classes, diags := Classify(decl.Fields)
	exp.Classifications = classes
	exp.Diagnostics = append(exp.Diagnostics, diags...)

	mode := ResolveIsolation(decl.Args, decl.IsolationSupported)
	exp.Conformance = Synthesize(decl, Order(included), mode)
	for _, c := range classes {
		if c.Outcome == SkippedWrapper && NoCopy(*c.Directive) {
			exp.Conformance.PointerReceiver = true
			break
		}
	}
	return exp
}

// ExpandDirectives validates the field directives of decl at their own sites.
// Its diagnostics are independent of Expand.
func ExpandDirectives(decl *model.Declaration) Diagnostics {
	var diags Diagnostics
	for _, f := range decl.Fields {
		diags = append(diags, ValidateField(f)...)
	}
	return diags
}

// Outcomes indexes the classification outcomes by field name.
func (e *Expansion) Outcomes() map[string]Outcome {
	out := make(map[string]Outcome, len(e.Classifications))
	for _, c := range e.Classifications {
		out[c.Field.Name] = c.Outcome
	}
	return out
}
