package model

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"
)

// Namespace is the directive namespace owned by equalgen: //equal:<name>.
const Namespace = "equal"

// Directive names understood by the engine.
const (
	DirectiveGenerate    = "generate"
	DirectiveHashable    = "hashable"
	DirectiveIgnore      = "ignore"
	DirectiveSafeClosure = "safeclosure"
)

// Arg is one key=value argument attached to a directive.
type Arg struct {
	Key   string
	Value string
}

// Directive is an annotation attached to a field or a type declaration.
type Directive struct {
	Namespace string // "" for bare directives
	Name      string
	Args      []Arg
	Implicit  bool // lifted from the field's declared wrapper type
	Pos       token.Pos
}

// Is reports whether d is the equalgen directive with the given name.
func (d Directive) Is(name string) bool {
	return d.Namespace == Namespace && d.Name == name && !d.Implicit
}

// String renders d the way a user would write it.
func (d Directive) String() string {
	if d.Namespace == "" {
		return d.Name
	}
	if d.Implicit {
		return d.Namespace + "." + d.Name
	}
	return d.Namespace + ":" + d.Name
}

// Lookup returns the value of the first argument named key.
func (d Directive) Lookup(key string) (string, bool) {
	for _, a := range d.Args {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Field is one declared member of a type, as seen by the engine.
type Field struct {
	Name       string     // Go identifier
	TypeExpr   ast.Expr   // declared type; nil when unresolvable
	Underlying ast.Expr   // resolved underlying type shape, when known
	Type       types.Type // resolved type, only consulted by the renderer
	Init       ast.Expr   // initializer expression, when the front end has one
	Directives []Directive
	IsComputed bool
	IsStatic   bool
	Pos        token.Pos
	End        token.Pos
}

// Has reports whether f carries the equalgen directive name.
func (f *Field) Has(name string) bool {
	_, ok := f.Directive(name)
	return ok
}

// Directive returns the first equalgen directive called name.
func (f *Field) Directive(name string) (Directive, bool) {
	for _, d := range f.Directives {
		if d.Is(name) {
			return d, true
		}
	}
	return Directive{}, false
}

// Declaration is a type declaration handed to the engine.
type Declaration struct {
	Name       string
	Kind       Kind
	TypeParams []string
	Fields     []*Field
	Generate   bool  // carries //equal:generate
	Args       []Arg // arguments of //equal:generate
	Hashable   bool

	// IsolationSupported is true when the target toolchain can express
	// main-context isolation.
	IsolationSupported bool

	PkgName string
	PkgPath string
	File    string
	Pos     token.Pos
}

// Receiver renders the declaration's receiver type, including type parameters.
func (d *Declaration) Receiver() string {
	if len(d.TypeParams) == 0 {
		return d.Name
	}
	return d.Name + "[" + strings.Join(d.TypeParams, ", ") + "]"
}
