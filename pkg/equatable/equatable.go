// Package equatable is the runtime support for code generated by equalgen.
//
// Generated Equal methods delegate to the helpers here for fields whose type
// cannot be compared with ==, and generated Hash methods feed every compared
// field into a Hasher.
package equatable

import (
	"maps"
	"slices"
)

// Equaler is implemented by types with a value-receiver Equal method.
type Equaler[T any] interface {
	Equal(T) bool
}

// Hashable is implemented by types with a generated Hash method.
type Hashable interface {
	Hash(h *Hasher)
}

// EqualPtr compares the values behind two pointers. Two nil pointers are
// equal; a nil and a non-nil pointer are not.
func EqualPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// EqualPtrs is EqualPtr for element types that define Equal.
func EqualPtrs[T Equaler[T]](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return (*a).Equal(*b)
}

// EqualSlices compares two slices element-wise with Equal.
func EqualSlices[S ~[]E, E Equaler[E]](a, b S) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// EqualMaps compares two maps whose values define Equal.
func EqualMaps[M ~map[K]V, K comparable, V Equaler[V]](a, b M) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !av.Equal(bv) {
			return false
		}
	}
	return true
}

// EqualPtrSlices compares two slices of pointers by the values they point to.
func EqualPtrSlices[S ~[]*E, E comparable](a, b S) bool {
	return slices.EqualFunc(a, b, EqualPtr[E])
}

// EqualerPtrSlices is EqualPtrSlices for element types that define Equal.
func EqualerPtrSlices[S ~[]*E, E Equaler[E]](a, b S) bool {
	return slices.EqualFunc(a, b, EqualPtrs[E])
}

// EqualPtrMaps compares two maps of pointers by the values they point to.
func EqualPtrMaps[M ~map[K]*V, K, V comparable](a, b M) bool {
	return maps.EqualFunc(a, b, EqualPtr[V])
}

// EqualerPtrMaps is EqualPtrMaps for value types that define Equal.
func EqualerPtrMaps[M ~map[K]*V, K comparable, V Equaler[V]](a, b M) bool {
	return maps.EqualFunc(a, b, EqualPtrs[V])
}
