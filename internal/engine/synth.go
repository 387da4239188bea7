package engine

import (
	"strings"

	"github.com/cmmoran/equalgen/internal/model"
)

// AlwaysEqual is the equality body used when no field participates.
const AlwaysEqual = "true"

// Conformance is the synthesized equality (and optional hash) for one type.
type Conformance struct {
	TypeName   string
	TypeParams []string
	Isolation  model.Isolation
	Equality   *Equality
	Hash       *Hash // nil unless the declaration is hashable

	// PointerReceiver is set when the type holds a value that must not be
	// copied, such as a sync.Mutex.
	PointerReceiver bool
}

// Equality is the conjunction of per-field equality tests, in order.
type Equality struct {
	Fields []*model.Field
}

// Hash combines every field into one accumulator, in order.
type Hash struct {
	Fields []*model.Field
}

// Synthesize composes the conformance for decl from the ordered field list.
// Equality and Hash share ordered, so they cannot disagree on set or order.
func Synthesize(decl *model.Declaration, ordered []*model.Field, mode model.Isolation) *Conformance {
	c := &Conformance{
		TypeName:   decl.Name,
		TypeParams: decl.TypeParams,
		Isolation:  mode,
		Equality:   &Equality{Fields: ordered},
	}
	if decl.Hashable {
		c.Hash = &Hash{Fields: ordered}
	}
	return c
}

// AlwaysEqual reports whether the equality body is the constant true.
func (e *Equality) AlwaysEqual() bool {
	return len(e.Fields) == 0
}

// Expr renders the equality body as a Go expression over lhs and rhs.
func (e *Equality) Expr() string {
	if e.AlwaysEqual() {
		return AlwaysEqual
	}
	terms := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		terms[i] = "lhs." + f.Name + " == rhs." + f.Name
	}
	return strings.Join(terms, " && ")
}

// Statements renders the hash body, one combine per field.
func (h *Hash) Statements() []string {
	out := make([]string, len(h.Fields))
	for i, f := range h.Fields {
		out[i] = "h.combine(" + f.Name + ")"
	}
	return out
}

// FieldNames lists the names of fields, in order.
func FieldNames(fields []*model.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}
