package engine

import (
	"go/ast"

	"github.com/cmmoran/equalgen/internal/model"
)

// Outcome tags why a field does or does not take part in equality.
type Outcome int

const (
	Included Outcome = iota
	SkippedWrapper
	SkippedExplicit
	SkippedSafeClosure
	RejectedClosure
)

func (o Outcome) String() string {
	switch o {
	case Included:
		return "included"
	case SkippedWrapper:
		return "skipped-wrapper"
	case SkippedExplicit:
		return "skipped-explicit"
	case SkippedSafeClosure:
		return "skipped-safeclosure"
	case RejectedClosure:
		return "rejected-closure"
	default:
		return "unknown"
	}
}

// Classification is the outcome for one field.
type Classification struct {
	Field   *model.Field
	Outcome Outcome
	// Directive is the directive that decided the outcome, if any.
	Directive *model.Directive
}

// wrappers are state-management types with their own change tracking. They
// match bare or qualified under their namespace.
var wrappers = map[string][]string{
	"sync":      {"Mutex", "RWMutex", "Once", "WaitGroup", "Cond", "Map", "Pool"},
	"atomic":    {"Bool", "Int32", "Int64", "Uint32", "Uint64", "Uintptr", "Pointer", "Value"},
	"context":   {"Context"},
	"protoimpl": {"MessageState", "SizeCache", "UnknownFields", "DoNotCompare", "DoNotCopy"},
}

var wrapperIndex = func() map[string]map[string]bool {
	idx := make(map[string]map[string]bool)
	for ns, names := range wrappers {
		for _, n := range names {
			if idx[n] == nil {
				idx[n] = make(map[string]bool)
			}
			idx[n][ns] = true
		}
	}
	return idx
}()

// IsWrapper reports whether d names a known state wrapper.
func IsWrapper(d model.Directive) bool {
	nss, ok := wrapperIndex[d.Name]
	if !ok {
		return false
	}
	return d.Namespace == "" || nss[d.Namespace]
}

// NoCopy reports whether d names a wrapper that must not be copied.
// context.Context is the only wrapper that is an interface.
func NoCopy(d model.Directive) bool {
	return IsWrapper(d) && d.Name != "Context"
}

// Classify assigns an outcome to every stored field and returns the included
// subset in declaration order. Computed and static fields are dropped without
// an outcome. Diagnostics follow declaration order.
func Classify(fields []*model.Field) ([]*model.Field, []Classification, Diagnostics) {
	var (
		included []*model.Field
		results  = make([]Classification, 0, len(fields))
		diags    Diagnostics
	)
	for _, f := range fields {
		if f == nil || f.IsComputed || f.IsStatic {
			continue
		}
		c := classify(f)
		results = append(results, c)
		switch c.Outcome {
		case Included:
			included = append(included, f)
		case RejectedClosure:
			diags = append(diags, closureDiagnostic(f))
		}
	}
	return included, results, diags
}

func classify(f *model.Field) Classification {
	for i := range f.Directives {
		if IsWrapper(f.Directives[i]) {
			return Classification{Field: f, Outcome: SkippedWrapper, Directive: &f.Directives[i]}
		}
	}
	if d, ok := f.Directive(model.DirectiveIgnore); ok {
		return Classification{Field: f, Outcome: SkippedExplicit, Directive: &d}
	}
	if d, ok := f.Directive(model.DirectiveSafeClosure); ok {
		return Classification{Field: f, Outcome: SkippedSafeClosure, Directive: &d}
	}
	if IsClosure(f) {
		return Classification{Field: f, Outcome: RejectedClosure}
	}
	return Classification{Field: f, Outcome: Included}
}

// IsClosure reports whether f holds a function value, judged from its declared
// type, its resolved underlying type or a function-literal initializer.
func IsClosure(f *model.Field) bool {
	return isFuncType(f.TypeExpr) || isFuncType(f.Underlying) || isFuncLit(f.Init)
}

func isFuncType(expr ast.Expr) bool {
	for {
		switch t := expr.(type) {
		case *ast.ParenExpr:
			expr = t.X
		case *ast.StarExpr:
			expr = t.X
		case *ast.FuncType:
			return true
		default:
			return false
		}
	}
}

func isFuncLit(expr ast.Expr) bool {
	for {
		switch t := expr.(type) {
		case *ast.ParenExpr:
			expr = t.X
		case *ast.FuncLit:
			return true
		default:
			return false
		}
	}
}
