package equatable

import (
	"encoding/binary"
	"hash/maphash"
	"time"
)

// seed is shared by every Hasher in the process so equal values hash equally.
var seed = maphash.MakeSeed()

// Hasher accumulates field values into a 64-bit hash. The zero value is not
// ready for use; call NewHasher.
type Hasher struct {
	h maphash.Hash
}

// NewHasher returns a Hasher using the process-wide seed.
func NewHasher() *Hasher {
	h := &Hasher{}
	h.h.SetSeed(seed)
	return h
}

// Sum64 returns the hash of everything combined so far.
func (h *Hasher) Sum64() uint64 {
	return h.h.Sum64()
}

// HashOf hashes a single Hashable value.
func HashOf(v Hashable) uint64 {
	h := NewHasher()
	v.Hash(h)
	return h.Sum64()
}

func (h *Hasher) writeUint64(v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.h.Write(buf[:])
}

// Combine writes a comparable value.
func Combine[T comparable](h *Hasher, v T) {
	maphash.WriteComparable(&h.h, v)
}

// CombineBytes writes a byte slice, length-prefixed.
func CombineBytes(h *Hasher, b []byte) {
	h.writeUint64(uint64(len(b)))
	_, _ = h.h.Write(b)
}

// CombineSlice writes every element of s in order, length-prefixed.
func CombineSlice[S ~[]E, E comparable](h *Hasher, s S) {
	h.writeUint64(uint64(len(s)))
	for _, e := range s {
		maphash.WriteComparable(&h.h, e)
	}
}

// CombineMap writes m independently of iteration order.
func CombineMap[M ~map[K]V, K, V comparable](h *Hasher, m M) {
	var sum uint64
	for k, v := range m {
		sum += maphash.Comparable(seed, k)*31 ^ maphash.Comparable(seed, v)
	}
	h.writeUint64(uint64(len(m)))
	h.writeUint64(sum)
}

// CombinePtr writes the value behind p, or a marker when p is nil.
func CombinePtr[T comparable](h *Hasher, p *T) {
	if p == nil {
		_ = h.h.WriteByte(0)
		return
	}
	_ = h.h.WriteByte(1)
	maphash.WriteComparable(&h.h, *p)
}

// CombinePtrSlice writes the values behind the elements of s in order,
// length-prefixed.
func CombinePtrSlice[S ~[]*E, E comparable](h *Hasher, s S) {
	h.writeUint64(uint64(len(s)))
	for _, p := range s {
		CombinePtr(h, p)
	}
}

// CombinePtrMap writes m, keyed by the values behind its pointers,
// independently of iteration order.
func CombinePtrMap[M ~map[K]*V, K, V comparable](h *Hasher, m M) {
	var sum uint64
	for k, v := range m {
		pv := uint64(0)
		if v != nil {
			pv = maphash.Comparable(seed, *v) | 1
		}
		sum += maphash.Comparable(seed, k)*31 ^ pv
	}
	h.writeUint64(uint64(len(m)))
	h.writeUint64(sum)
}

// CombineTime writes the instant t denotes, so times equal under
// time.Time.Equal hash equally regardless of location.
func CombineTime(h *Hasher, t time.Time) {
	h.writeUint64(uint64(t.Unix()))
	h.writeUint64(uint64(t.Nanosecond()))
}

// CombineOpaque marks a field that takes part in equality but contributes no
// bits to the hash. Equal values still hash equally.
func CombineOpaque[T any](h *Hasher, _ T) {}
