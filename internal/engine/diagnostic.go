package engine

import (
	"cmp"
	"fmt"
	"go/token"
	"slices"

	"github.com/cmmoran/equalgen/internal/model"
)

// Diagnostic codes.
const (
	CodeUnsupportedClosure = "unsupported-closure"
	CodeNotStruct          = "not-struct"
	CodeIgnoreClosure      = "ignore-closure"
	CodeIgnoreWrapper      = "ignore-wrapper"
	CodeSafeClosureTarget  = "safeclosure-target"
	CodeMisplaced          = "misplaced-directive"
	CodeUnknownDirective   = "unknown-directive"
	CodeIneffective        = "ineffective-directive"
)

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Fix describes a suggested edit: the node at Pos re-declared with Directive
// prepended. It never mutates the node itself.
type Fix struct {
	Message   string
	Pos       token.Pos
	Directive model.Directive
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	Severity Severity
	Code     string
	Message  string
	Pos      token.Pos
	End      token.Pos
	Fix      *Fix
}

// String returns "[code] message".
func (d Diagnostic) String() string {
	if d.Code == "" {
		return d.Message
	}
	return fmt.Sprintf("[%s] %s", d.Code, d.Message)
}

// Format renders d as "file:line:col: severity: [code] message".
func (d Diagnostic) Format(fset *token.FileSet) string {
	return fmt.Sprintf("%s: %s: %s", fset.Position(d.Pos), d.Severity, d)
}

// Recoverable reports whether synthesis still produced output for the node
// the diagnostic concerns.
func (d Diagnostic) Recoverable() bool {
	return d.Fix != nil
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

// HasErrors returns true if there are any error diagnostics.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Sort orders ds by source position, keeping the relative order of
// diagnostics at the same position.
func (ds Diagnostics) Sort() {
	slices.SortStableFunc(ds, func(a, b Diagnostic) int { return cmp.Compare(a.Pos, b.Pos) })
}

// Errors counts the error diagnostics.
func (ds Diagnostics) Errors() int {
	n := 0
	for _, d := range ds {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

func errorAt(code string, pos, end token.Pos, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		End:      end,
	}
}
