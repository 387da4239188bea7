package engine

import (
	"go/ast"
)

const (
	// MaxWeight is assigned to unknown or unresolvable types.
	MaxWeight = 50
	// OptionalPenalty is added once per pointer layer.
	OptionalPenalty = 1

	sliceWeight = 30
	mapWeight   = 40
	bytesWeight = 8
)

var identWeights = map[string]int{
	"bool": 1,

	"int": 2, "int8": 2, "int16": 2, "int32": 2, "int64": 2,

	"uint": 3, "uint8": 3, "uint16": 3, "uint32": 3, "uint64": 3,
	"uintptr": 3, "byte": 3,

	"float32": 4, "float64": 4, "complex64": 4, "complex128": 4,

	"string": 5,
	"rune":   6,
}

// qualified types, keyed by "pkg.Name" as written in source.
var selectorWeights = map[string]int{
	"time.Duration":   2,
	"time.Time":       7,
	"json.RawMessage": bytesWeight,
	"url.URL":         bytesWeight,
	"uuid.UUID":       9,
}

// Weight ranks a declared type expression by approximate comparison cost.
// It only looks at the shape of expr; nothing is resolved.
func Weight(expr ast.Expr) int {
	switch t := expr.(type) {
	case nil:
		return MaxWeight
	case *ast.ParenExpr:
		return Weight(t.X)
	case *ast.StarExpr:
		return OptionalPenalty + Weight(t.X)
	case *ast.Ident:
		if w, ok := identWeights[t.Name]; ok {
			return w
		}
	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			if w, ok := selectorWeights[pkg.Name+"."+t.Sel.Name]; ok {
				return w
			}
		}
	case *ast.ArrayType:
		if t.Len == nil && isByte(t.Elt) {
			return bytesWeight
		}
		return sliceWeight
	case *ast.MapType:
		return mapWeight
	}
	return MaxWeight
}

func isByte(expr ast.Expr) bool {
	id, ok := expr.(*ast.Ident)
	return ok && (id.Name == "byte" || id.Name == "uint8")
}
