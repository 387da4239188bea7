package render

import (
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strings"
)

// Strategy is how one field is compared and hashed.
type Strategy int

const (
	Compare Strategy = iota
	Method
	MethodAddr
	Bytes
	Slice
	EqualerSlice
	Map
	EqualerMap
	Ptr
	EqualerPtr
	PtrSlice
	EqualerPtrSlice
	PtrMap
	EqualerPtrMap
	Deep
)

func (s Strategy) String() string {
	switch s {
	case Compare:
		return "compare"
	case Method:
		return "method"
	case MethodAddr:
		return "method-addr"
	case Bytes:
		return "bytes"
	case Slice:
		return "slice"
	case EqualerSlice:
		return "equaler-slice"
	case Map:
		return "map"
	case EqualerMap:
		return "equaler-map"
	case Ptr:
		return "ptr"
	case EqualerPtr:
		return "equaler-ptr"
	case PtrSlice:
		return "ptr-slice"
	case EqualerPtrSlice:
		return "equaler-ptr-slice"
	case PtrMap:
		return "ptr-map"
	case EqualerPtrMap:
		return "equaler-ptr-map"
	default:
		return "deep"
	}
}

// Peer is a type of the package being generated. Its methods do not exist
// yet when the package is type checked.
type Peer struct {
	Hashable bool
	Pointer  bool // methods have pointer receivers
}

// Peers indexes the peers of one package by type name.
type Peers struct {
	PkgPath string
	Types   map[string]Peer
	// Stale reports whether a method was declared by a file the current run
	// replaces. Such methods are ignored. May be nil.
	Stale func(obj types.Object) bool
}

// Option configures the Peers of a rendered file.
type Option func(*Peers)

// WithGenerated marks the methods declared in the package's own files named
// names as stale. Those files are rewritten by the run, so nothing they
// declare can be relied on.
func WithGenerated(fset *token.FileSet, names ...string) Option {
	return func(p *Peers) {
		pkgPath := p.PkgPath
		p.Stale = func(obj types.Object) bool {
			if obj.Pkg() == nil || strings.TrimSuffix(obj.Pkg().Path(), "_test") != pkgPath {
				return false
			}
			tf := fset.File(obj.Pos())
			return tf != nil && slices.Contains(names, filepath.Base(tf.Name()))
		}
	}
}

func (p Peers) lookup(t types.Type) (Peer, bool) {
	named, ok := types.Unalias(t).(*types.Named)
	if !ok || named.Obj().Pkg() == nil || named.Obj().Pkg().Path() != p.PkgPath {
		return Peer{}, false
	}
	peer, ok := p.Types[named.Obj().Name()]
	return peer, ok
}

// StrategyFor picks the strategy for a field of type t. Without type
// information fields are compared with ==.
func (p Peers) StrategyFor(t types.Type) Strategy {
	if t == nil {
		return Compare
	}
	if peer, ok := p.lookup(t); ok && peer.Pointer {
		return MethodAddr
	}
	if p.hasEqual(t) {
		return Method
	}
	switch u := t.Underlying().(type) {
	case *types.Slice:
		if isByte(u.Elem()) {
			return Bytes
		}
		return p.elemStrategy(u.Elem(), EqualerSlice, EqualerPtrSlice, PtrSlice, Slice)
	case *types.Map:
		return p.elemStrategy(u.Elem(), EqualerMap, EqualerPtrMap, PtrMap, Map)
	case *types.Pointer:
		if peer, ok := p.lookup(u.Elem()); ok && peer.Pointer {
			return Method
		}
		switch {
		case p.hasEqual(u.Elem()):
			return EqualerPtr
		case types.Comparable(u.Elem()):
			return Ptr
		}
		return Deep
	}
	if types.Comparable(t) {
		return Compare
	}
	return Deep
}

// elemStrategy picks how the elements of a slice or map compare. Pointer
// elements compare by the values they point to.
func (p Peers) elemStrategy(elem types.Type, equaler, equalerPtr, ptr, plain Strategy) Strategy {
	if p.hasEqual(elem) {
		return equaler
	}
	if pt, ok := types.Unalias(elem).(*types.Pointer); ok {
		if peer, ok := p.lookup(pt.Elem()); ok && peer.Pointer {
			return equaler
		}
		switch {
		case p.hasEqual(pt.Elem()):
			return equalerPtr
		case types.Comparable(pt.Elem()):
			return ptr
		}
		return Deep
	}
	if types.Comparable(elem) {
		return plain
	}
	return Deep
}

// hasEqual reports whether t has a value method Equal(t) bool.
func (p Peers) hasEqual(t types.Type) bool {
	if peer, ok := p.lookup(t); ok {
		return !peer.Pointer
	}
	sig := p.method(t, "Equal")
	if sig == nil || sig.Params().Len() != 1 || sig.Results().Len() != 1 {
		return false
	}
	res, ok := sig.Results().At(0).Type().(*types.Basic)
	return ok && res.Kind() == types.Bool && types.Identical(sig.Params().At(0).Type(), t)
}

// hasHash reports whether t has a method Hash(*equatable.Hasher).
func (p Peers) hasHash(t types.Type) bool {
	if ptr, ok := t.(*types.Pointer); ok {
		if peer, ok := p.lookup(ptr.Elem()); ok {
			return peer.Hashable
		}
	}
	if peer, ok := p.lookup(t); ok {
		return peer.Hashable
	}
	sig := p.method(t, "Hash")
	if sig == nil || sig.Params().Len() != 1 || sig.Results().Len() != 0 {
		return false
	}
	ptr, ok := sig.Params().At(0).Type().(*types.Pointer)
	if !ok {
		return false
	}
	named, ok := ptr.Elem().(*types.Named)
	return ok && named.Obj().Name() == "Hasher" && named.Obj().Pkg() != nil && named.Obj().Pkg().Path() == RuntimePath
}

func (p Peers) method(t types.Type, name string) *types.Signature {
	if _, ok := t.(*types.TypeParam); ok {
		return nil
	}
	sel := types.NewMethodSet(t).Lookup(nil, name)
	if sel == nil || (p.Stale != nil && p.Stale(sel.Obj())) {
		return nil
	}
	sig, _ := sel.Type().(*types.Signature)
	return sig
}

func isByte(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	return ok && b.Kind() == types.Byte
}

func isTime(t types.Type) bool {
	named, ok := types.Unalias(t).(*types.Named)
	return ok && named.Obj().Pkg() != nil && named.Obj().Pkg().Path() == "time" && named.Obj().Name() == "Time"
}
