// Package render emits the Go source for synthesized conformances.
package render

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/cmmoran/equalgen/internal/engine"
	"github.com/cmmoran/equalgen/internal/model"
)

const (
	// RuntimePath is the import path of the runtime support package.
	RuntimePath = "github.com/cmmoran/equalgen/pkg/equatable"
	// Header marks generated files.
	Header = "Code generated by equalgen. DO NOT EDIT."
)

const (
	lhs  = "lhs"
	rhs  = "rhs"
	recv = "v"
	hash = "h"
)

// Qualifier returns the doc-comment line stating the isolation of the
// generated methods, or "" when none applies.
func Qualifier(mode model.Isolation) string {
	switch mode {
	case model.NonIsolated:
		return "It is safe for concurrent use."
	case model.MainContext:
		return "It must only be called from the main goroutine."
	default:
		return ""
	}
}

// NewPeers indexes the types a unit generates.
func NewPeers(pkgPath string, conformances []*engine.Conformance, opts ...Option) Peers {
	p := Peers{PkgPath: pkgPath, Types: make(map[string]Peer, len(conformances))}
	for _, c := range conformances {
		p.Types[c.TypeName] = Peer{Hashable: c.Hash != nil, Pointer: c.PointerReceiver}
	}
	for _, fn := range opts {
		fn(&p)
	}
	return p
}

// File renders every conformance of one package into a single file.
func File(pkgName, pkgPath string, conformances []*engine.Conformance, opts ...Option) *jen.File {
	var f *jen.File
	if pkgPath == "" {
		f = jen.NewFile(pkgName)
	} else {
		f = jen.NewFilePathName(pkgPath, pkgName)
	}
	f.HeaderComment(Header)
	f.ImportName(RuntimePath, "equatable")

	peers := NewPeers(pkgPath, conformances, opts...)
	for _, c := range conformances {
		Conformance(f, peers, c)
	}
	return f
}

// Conformance appends the Equal method, the optional Hash method and the
// compile-time assertions for c.
func Conformance(f *jen.File, peers Peers, c *engine.Conformance) {
	typ := receiverType(c)
	qualifier := Qualifier(c.Isolation)

	f.Line()
	f.Comment(fmt.Sprintf("Equal reports whether %s and %s hold equal values.", lhs, rhs))
	if qualifier != "" {
		f.Comment(qualifier)
	}
	f.Func().Params(jen.Id(lhs).Add(typ.Clone())).Id("Equal").Params(jen.Id(rhs).Add(typ.Clone())).Bool().BlockFunc(func(g *jen.Group) {
		if c.PointerReceiver {
			g.If(jen.Id(lhs).Op("==").Nil().Op("||").Id(rhs).Op("==").Nil()).Block(
				jen.Return(jen.Id(lhs).Op("==").Id(rhs)),
			)
		}
		g.Return(equalityExpr(peers, c.Equality))
	})

	if c.Hash != nil {
		f.Line()
		f.Comment(fmt.Sprintf("Hash writes the fields compared by Equal into %s.", hash))
		if qualifier != "" {
			f.Comment(qualifier)
		}
		f.Func().Params(jen.Id(recv).Add(typ.Clone())).Id("Hash").Params(
			jen.Id(hash).Op("*").Qual(RuntimePath, "Hasher"),
		).BlockFunc(func(g *jen.Group) {
			if c.PointerReceiver {
				g.If(jen.Id(recv).Op("==").Nil()).Block(jen.Return())
			}
			for _, fld := range c.Hash.Fields {
				g.Add(hashStmt(peers, fld))
			}
		})
	}

	if len(c.TypeParams) > 0 {
		return
	}
	f.Line()
	f.Var().DefsFunc(func(g *jen.Group) {
		g.Id("_").Qual(RuntimePath, "Equaler").Types(typ.Clone()).Op("=").Add(zeroValue(c))
		if c.Hash != nil {
			g.Id("_").Qual(RuntimePath, "Hashable").Op("=").Add(zeroValue(c))
		}
	})
}

func receiverType(c *engine.Conformance) *jen.Statement {
	typ := jen.Id(c.TypeName)
	if len(c.TypeParams) > 0 {
		params := make([]jen.Code, len(c.TypeParams))
		for i, p := range c.TypeParams {
			params[i] = jen.Id(p)
		}
		typ.Types(params...)
	}
	if c.PointerReceiver {
		return jen.Op("*").Add(typ)
	}
	return typ
}

func zeroValue(c *engine.Conformance) *jen.Statement {
	if c.PointerReceiver {
		return jen.Parens(jen.Op("*").Id(c.TypeName)).Parens(jen.Nil())
	}
	return jen.Id(c.TypeName).Values()
}

func equalityExpr(peers Peers, eq *engine.Equality) *jen.Statement {
	if eq.AlwaysEqual() {
		return jen.True()
	}
	expr := jen.Null()
	for i, fld := range eq.Fields {
		if i > 0 {
			expr.Op("&&").Line()
		}
		expr.Add(fieldEqual(peers, fld))
	}
	return expr
}

func fieldEqual(peers Peers, fld *model.Field) *jen.Statement {
	a, b := jen.Id(lhs).Dot(fld.Name), jen.Id(rhs).Dot(fld.Name)
	switch peers.StrategyFor(fld.Type) {
	case Method:
		return jen.Id(lhs).Dot(fld.Name).Dot("Equal").Call(b)
	case MethodAddr:
		return jen.Id(lhs).Dot(fld.Name).Dot("Equal").Call(jen.Op("&").Add(b))
	case Bytes:
		return jen.Qual("bytes", "Equal").Call(a, b)
	case Slice:
		return jen.Qual("slices", "Equal").Call(a, b)
	case EqualerSlice:
		return jen.Qual(RuntimePath, "EqualSlices").Call(a, b)
	case Map:
		return jen.Qual("maps", "Equal").Call(a, b)
	case EqualerMap:
		return jen.Qual(RuntimePath, "EqualMaps").Call(a, b)
	case Ptr:
		return jen.Qual(RuntimePath, "EqualPtr").Call(a, b)
	case EqualerPtr:
		return jen.Qual(RuntimePath, "EqualPtrs").Call(a, b)
	case PtrSlice:
		return jen.Qual(RuntimePath, "EqualPtrSlices").Call(a, b)
	case EqualerPtrSlice:
		return jen.Qual(RuntimePath, "EqualerPtrSlices").Call(a, b)
	case PtrMap:
		return jen.Qual(RuntimePath, "EqualPtrMaps").Call(a, b)
	case EqualerPtrMap:
		return jen.Qual(RuntimePath, "EqualerPtrMaps").Call(a, b)
	case Deep:
		return jen.Qual("reflect", "DeepEqual").Call(a, b)
	default:
		return a.Op("==").Add(b)
	}
}

func hashStmt(peers Peers, fld *model.Field) *jen.Statement {
	v := jen.Id(recv).Dot(fld.Name)
	combine := func(name string) *jen.Statement {
		return jen.Qual(RuntimePath, name).Call(jen.Id(hash), v)
	}
	switch peers.StrategyFor(fld.Type) {
	case Compare:
		return combine("Combine")
	case Method, MethodAddr:
		switch {
		case peers.hasHash(fld.Type):
			return jen.Id(recv).Dot(fld.Name).Dot("Hash").Call(jen.Id(hash))
		case isTime(fld.Type):
			return combine("CombineTime")
		}
		return combine("CombineOpaque")
	case Bytes:
		return combine("CombineBytes")
	case Slice:
		return combine("CombineSlice")
	case Map:
		return combine("CombineMap")
	case Ptr:
		return combine("CombinePtr")
	case PtrSlice:
		return combine("CombinePtrSlice")
	case PtrMap:
		return combine("CombinePtrMap")
	default:
		return combine("CombineOpaque")
	}
}

// Source renders f, formatted.
func Source(f *jen.File) ([]byte, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
