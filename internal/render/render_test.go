package render

import (
	"go/ast"
	goparser "go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/equalgen/internal/engine"
	"github.com/cmmoran/equalgen/internal/model"
)

const pkgPath = "example.com/shapes"

const typedSrc = `package shapes

type Celsius float64

func (c Celsius) Equal(o Celsius) bool { return c == o }

type Opaque struct{ parts []int }

type Node struct {
	Next  *Node
	Child Node2
}

type Node2 struct{ V int }

type Locked struct{ N int }

type Sample struct {
	Count   int
	Raw     []byte
	Ints    []int
	Temps   []Celsius
	Counts  map[string]int
	Reads   map[string]Celsius
	Ptr     *int
	TempPtr *Celsius
	Temp    Celsius
	Blob    Opaque
	Pair    [2]int
	Any     any
	Peer    Node2
	Lock    Locked
	LockPtr *Locked
	Many    []*int
	ByKey   map[string]*int
	TempPs  []*Celsius
	ReadPs  map[string]*Celsius
	Locks   []*Locked
	Funcs   []*func()
}
`

func typecheck(t *testing.T) *types.Package {
	t.Helper()
	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, "shapes.go", typedSrc, 0)
	require.NoError(t, err)
	pkg, err := (&types.Config{}).Check(pkgPath, fset, []*ast.File{file}, nil)
	require.NoError(t, err)
	return pkg
}

func structFields(t *testing.T, pkg *types.Package, name string) []*model.Field {
	t.Helper()
	st, ok := pkg.Scope().Lookup(name).Type().Underlying().(*types.Struct)
	require.True(t, ok)
	out := make([]*model.Field, st.NumFields())
	for i := range out {
		v := st.Field(i)
		out[i] = &model.Field{Name: v.Name(), Type: v.Type()}
	}
	return out
}

func testPeers() Peers {
	return Peers{PkgPath: pkgPath, Types: map[string]Peer{
		"Node2":  {Hashable: true},
		"Locked": {Pointer: true},
	}}
}

func TestStrategyFor(t *testing.T) {
	pkg := typecheck(t)
	peers := testPeers()

	want := map[string]Strategy{
		"Count":   Compare,
		"Raw":     Bytes,
		"Ints":    Slice,
		"Temps":   EqualerSlice,
		"Counts":  Map,
		"Reads":   EqualerMap,
		"Ptr":     Ptr,
		"TempPtr": EqualerPtr,
		"Temp":    Method,
		"Blob":    Deep,
		"Pair":    Compare,
		"Any":     Compare,
		"Peer":    Method,
		"Lock":    MethodAddr,
		"LockPtr": Method,
		"Many":    PtrSlice,
		"ByKey":   PtrMap,
		"TempPs":  EqualerPtrSlice,
		"ReadPs":  EqualerPtrMap,
		"Locks":   EqualerSlice,
		"Funcs":   Deep,
	}
	for _, f := range structFields(t, pkg, "Sample") {
		t.Run(f.Name, func(t *testing.T) {
			assert.Equal(t, want[f.Name].String(), peers.StrategyFor(f.Type).String())
		})
	}
	assert.Equal(t, Compare, peers.StrategyFor(nil), "no type information")
}

const previousGenSrc = `package shapes

func (o Old) Equal(rhs Old) bool { return o == rhs }
`

func TestStrategyFor_IgnoresPreviouslyGeneratedMethods(t *testing.T) {
	fset := token.NewFileSet()
	var files []*ast.File
	for name, src := range map[string]string{
		"shapes.go":    "package shapes\n\ntype Old struct{ N int }\n\ntype Outer struct{ In Old }\n",
		"equal_gen.go": previousGenSrc,
	} {
		file, err := goparser.ParseFile(fset, name, src, 0)
		require.NoError(t, err)
		files = append(files, file)
	}
	pkg, err := (&types.Config{}).Check(pkgPath, fset, files, nil)
	require.NoError(t, err)
	in := structFields(t, pkg, "Outer")[0]

	outer := conformance("Outer", []*model.Field{in}, false, model.NonIsolated)
	assert.Equal(t, Method, NewPeers(pkgPath, nil).StrategyFor(in.Type))

	peers := NewPeers(pkgPath, nil, WithGenerated(fset, "equal_gen.go", "equal_gen_test.go"))
	assert.Equal(t, Compare, peers.StrategyFor(in.Type))

	code := File("shapes", pkgPath, []*engine.Conformance{outer}, WithGenerated(fset, "equal_gen.go")).GoString()
	assert.Contains(t, code, "return lhs.In == rhs.In")
	assert.NotContains(t, code, "lhs.In.Equal")

	other := NewPeers("example.com/other", nil, WithGenerated(fset, "equal_gen.go"))
	assert.Equal(t, Method, other.StrategyFor(in.Type), "methods of other packages are kept")
}

func conformance(name string, fields []*model.Field, hashable bool, mode model.Isolation) *engine.Conformance {
	decl := &model.Declaration{Name: name, Kind: model.KindStruct, Hashable: hashable}
	return engine.Synthesize(decl, fields, mode)
}

func TestFile_Strategies(t *testing.T) {
	pkg := typecheck(t)
	c := conformance("Sample", structFields(t, pkg, "Sample"), true, model.NonIsolated)
	peer := conformance("Node2", nil, true, model.NonIsolated)
	locked := conformance("Locked", nil, false, model.NonIsolated)
	locked.PointerReceiver = true

	code := File("shapes", pkgPath, []*engine.Conformance{c, peer, locked}).GoString()

	for _, s := range []string{
		"// Code generated by equalgen. DO NOT EDIT.",
		"package shapes",
		`"github.com/cmmoran/equalgen/pkg/equatable"`,
		"func (lhs Sample) Equal(rhs Sample) bool {",
		"lhs.Count == rhs.Count &&",
		"bytes.Equal(lhs.Raw, rhs.Raw)",
		"slices.Equal(lhs.Ints, rhs.Ints)",
		"equatable.EqualSlices(lhs.Temps, rhs.Temps)",
		"maps.Equal(lhs.Counts, rhs.Counts)",
		"equatable.EqualMaps(lhs.Reads, rhs.Reads)",
		"equatable.EqualPtr(lhs.Ptr, rhs.Ptr)",
		"equatable.EqualPtrs(lhs.TempPtr, rhs.TempPtr)",
		"lhs.Temp.Equal(rhs.Temp)",
		"reflect.DeepEqual(lhs.Blob, rhs.Blob)",
		"lhs.Peer.Equal(rhs.Peer)",
		"lhs.Lock.Equal(&rhs.Lock)",
		"lhs.LockPtr.Equal(rhs.LockPtr)",
		"equatable.EqualPtrSlices(lhs.Many, rhs.Many)",
		"equatable.EqualPtrMaps(lhs.ByKey, rhs.ByKey)",
		"equatable.EqualerPtrSlices(lhs.TempPs, rhs.TempPs)",
		"equatable.EqualerPtrMaps(lhs.ReadPs, rhs.ReadPs)",
		"equatable.EqualSlices(lhs.Locks, rhs.Locks)",
		"equatable.CombinePtrSlice(h, v.Many)",
		"equatable.CombinePtrMap(h, v.ByKey)",
		"equatable.CombineOpaque(h, v.TempPs)",
		"func (v Sample) Hash(h *equatable.Hasher) {",
		"equatable.Combine(h, v.Count)",
		"equatable.CombineBytes(h, v.Raw)",
		"equatable.CombineSlice(h, v.Ints)",
		"equatable.CombineMap(h, v.Counts)",
		"equatable.CombinePtr(h, v.Ptr)",
		"equatable.CombineOpaque(h, v.Temp)",
		"v.Peer.Hash(h)",
		"equatable.CombineOpaque(h, v.Lock)",
		"_ equatable.Equaler[Sample] = Sample{}",
		"_ equatable.Hashable",
		"func (lhs *Locked) Equal(rhs *Locked) bool {",
		"if lhs == nil || rhs == nil {",
		"_ equatable.Equaler[*Locked] = (*Locked)(nil)",
	} {
		assert.Contains(t, code, s)
	}
}

func TestFile_UntypedFieldsCompareWithEquals(t *testing.T) {
	fields := []*model.Field{{Name: "ID"}, {Name: "Name"}}
	code := File("people", "", []*engine.Conformance{conformance("Person", fields, true, model.NonIsolated)}).GoString()

	assert.Contains(t, code, "return lhs.ID == rhs.ID &&")
	assert.Contains(t, code, "lhs.Name == rhs.Name")
	assert.Contains(t, code, "equatable.Combine(h, v.ID)\n\tequatable.Combine(h, v.Name)")
}

func TestFile_AlwaysEqual(t *testing.T) {
	code := File("p", "", []*engine.Conformance{conformance("Empty", nil, true, model.NonIsolated)}).GoString()

	assert.Contains(t, code, "func (lhs Empty) Equal(rhs Empty) bool {\n\treturn true\n}")
	assert.Contains(t, code, "func (v Empty) Hash(h *equatable.Hasher) {}")
}

func TestFile_IsolationQualifier(t *testing.T) {
	tests := []struct {
		mode model.Isolation
		want string
	}{
		{model.NonIsolated, "// It is safe for concurrent use."},
		{model.MainContext, "// It must only be called from the main goroutine."},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			code := File("p", "", []*engine.Conformance{conformance("T", nil, true, tt.mode)}).GoString()
			assert.Contains(t, code, "// Equal reports whether lhs and rhs hold equal values.\n"+tt.want+"\nfunc (lhs T) Equal")
			assert.Contains(t, code, tt.want+"\nfunc (v T) Hash")
		})
	}

	code := File("p", "", []*engine.Conformance{conformance("T", nil, false, model.ContextIsolated)}).GoString()
	assert.Contains(t, code, "// Equal reports whether lhs and rhs hold equal values.\nfunc (lhs T) Equal")
	assert.NotContains(t, code, "Hash")
}

func TestFile_Generic(t *testing.T) {
	decl := &model.Declaration{Name: "Pair", Kind: model.KindStruct, TypeParams: []string{"K", "V"}}
	c := engine.Synthesize(decl, []*model.Field{{Name: "Key"}}, model.NonIsolated)

	code := File("p", "", []*engine.Conformance{c}).GoString()

	assert.Contains(t, code, "func (lhs Pair[K, V]) Equal(rhs Pair[K, V]) bool {")
	assert.NotContains(t, code, "equatable.Equaler")
}

func TestSource_Deterministic(t *testing.T) {
	pkg := typecheck(t)
	render := func() []byte {
		c := conformance("Sample", structFields(t, pkg, "Sample"), true, model.NonIsolated)
		src, err := Source(File("shapes", pkgPath, []*engine.Conformance{c}))
		require.NoError(t, err)
		return src
	}
	first := render()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, render())
	}
}
