package engine

import (
	"github.com/cmmoran/equalgen/internal/model"
)

// unignorable wrappers may not carry equal:ignore.
var unignorable = map[string]string{
	"Mutex":   "sync",
	"RWMutex": "sync",
}

var (
	fieldDirectives = map[string]bool{
		model.DirectiveIgnore:      true,
		model.DirectiveSafeClosure: true,
	}
	typeDirectives = map[string]bool{
		model.DirectiveGenerate: true,
		model.DirectiveHashable: true,
	}
)

// SafeClosureDirective is the directive a closure fix inserts.
func SafeClosureDirective() model.Directive {
	return model.Directive{Namespace: model.Namespace, Name: model.DirectiveSafeClosure}
}

func closureDiagnostic(f *model.Field) Diagnostic {
	d := errorAt(CodeUnsupportedClosure, f.Pos, f.End, "arbitrary closures are not supported")
	d.Fix = &Fix{
		Message:   "insert //" + SafeClosureDirective().String(),
		Pos:       f.Pos,
		Directive: SafeClosureDirective(),
	}
	return d
}

// ValidateField checks every equalgen directive attached to f at the
// directive's own site. It is independent of Classify: a field may be
// excluded there and still be reported here.
func ValidateField(f *model.Field) Diagnostics {
	var diags Diagnostics
	for _, d := range f.Directives {
		if d.Namespace != model.Namespace || d.Implicit {
			continue
		}
		switch {
		case d.Name == model.DirectiveIgnore:
			if diag, bad := validateIgnore(f, d); bad {
				diags = append(diags, diag)
			}
		case d.Name == model.DirectiveSafeClosure:
			if !IsClosure(f) {
				diags = append(diags, errorAt(CodeSafeClosureTarget, d.Pos, d.Pos,
					"%s can only be applied to closures", d))
			}
		case typeDirectives[d.Name]:
			diags = append(diags, Misplaced(d))
		default:
			diags = append(diags, Unknown(d))
		}
	}
	return diags
}

func validateIgnore(f *model.Field, d model.Directive) (Diagnostic, bool) {
	if IsClosure(f) {
		return errorAt(CodeIgnoreClosure, d.Pos, d.Pos, "%s cannot be applied to closures", d), true
	}
	for _, w := range f.Directives {
		if ns, ok := unignorable[w.Name]; ok && (w.Namespace == "" || w.Namespace == ns) {
			return errorAt(CodeIgnoreWrapper, d.Pos, d.Pos,
				"%s cannot be applied to %s.%s fields", d, ns, w.Name), true
		}
	}
	return Diagnostic{}, false
}

// Misplaced reports an equalgen directive attached to the wrong kind of node.
func Misplaced(d model.Directive) Diagnostic {
	target := "fields"
	if typeDirectives[d.Name] {
		target = "type declarations"
	}
	return errorAt(CodeMisplaced, d.Pos, d.Pos, "%s can only be applied to %s", d, target)
}

// Ineffective reports a type directive on a declaration that does not carry
// //equal:generate, so nothing consumes it.
func Ineffective(d model.Directive) Diagnostic {
	diag := errorAt(CodeIneffective, d.Pos, d.Pos, "%s has no effect without %s:%s", d, model.Namespace, model.DirectiveGenerate)
	diag.Severity = SeverityWarning
	return diag
}

// Unknown reports an equalgen directive the engine does not understand.
func Unknown(d model.Directive) Diagnostic {
	return errorAt(CodeUnknownDirective, d.Pos, d.Pos, "unknown directive %s", d)
}

// IsFieldDirective reports whether name belongs on struct fields.
func IsFieldDirective(name string) bool { return fieldDirectives[name] }

// IsTypeDirective reports whether name belongs on type declarations.
func IsTypeDirective(name string) bool { return typeDirectives[name] }
