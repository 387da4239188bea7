package model

type Kind int

const (
	KindInvalid   Kind = iota
	KindStruct         // type T struct{...}
	KindInterface      // type T interface{...}
	KindBasic          // type T int (enum-like)
	KindPointer        // type T *U
	KindSlice          // type T []U
	KindMap            // type T map[K]V
	KindChan           // type T chan U
	KindFunc           // type T func()
	KindAlias          // type T = U
	KindNamed          // type T U where U is another named type
	KindDefinedStruct  // type T U where U is a named struct type
)

func (k Kind) String() string {
	switch k {
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindBasic:
		return "basic"
	case KindPointer:
		return "pointer"
	case KindSlice:
		return "slice"
	case KindMap:
		return "map"
	case KindChan:
		return "chan"
	case KindFunc:
		return "func"
	case KindAlias:
		return "alias"
	case KindNamed:
		return "named"
	case KindDefinedStruct:
		return "defined-struct"
	default:
		return "invalid"
	}
}

// ParseKind maps the textual kind used by declaration files back to a Kind.
// An empty string means struct.
func ParseKind(s string) Kind {
	if s == "" {
		return KindStruct
	}
	for k := KindStruct; k <= KindDefinedStruct; k++ {
		if k.String() == s {
			return k
		}
	}
	return KindInvalid
}

// Isolation selects the execution-context qualifier of a generated conformance.
type Isolation int

const (
	NonIsolated Isolation = iota
	ContextIsolated
	MainContext
)

func (i Isolation) String() string {
	switch i {
	case ContextIsolated:
		return "isolated"
	case MainContext:
		return "main"
	default:
		return "nonisolated"
	}
}
