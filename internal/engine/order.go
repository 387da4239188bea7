package engine

import (
	"cmp"
	"slices"
	"strings"

	"github.com/cmmoran/equalgen/internal/model"
)

// IdentityKey is the field name that always sorts first.
const IdentityKey = "id"

// IsIdentity reports whether name is the identity key. Matching ignores case
// so Go's conventional ID qualifies.
func IsIdentity(name string) bool {
	return strings.EqualFold(name, IdentityKey)
}

// Order returns a new slice with fields sorted identity first, then by
// ascending Weight, then by name.
func Order(fields []*model.Field) []*model.Field {
	out := slices.Clone(fields)
	slices.SortStableFunc(out, compareFields)
	return out
}

func compareFields(a, b *model.Field) int {
	ai, bi := IsIdentity(a.Name), IsIdentity(b.Name)
	switch {
	case ai && !bi:
		return -1
	case bi && !ai:
		return 1
	}
	if c := cmp.Compare(Weight(a.TypeExpr), Weight(b.TypeExpr)); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}
