package engine

import (
	"go/ast"
	"go/parser"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmmoran/equalgen/internal/model"
)

func typeExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	if src == "" {
		return nil
	}
	expr, err := parser.ParseExpr(src)
	require.NoError(t, err, "parse %q", src)
	return expr
}

func field(t *testing.T, name, typ string, directives ...model.Directive) *model.Field {
	t.Helper()
	return &model.Field{Name: name, TypeExpr: typeExpr(t, typ), Directives: directives}
}

func equalDirective(name string) model.Directive {
	return model.Directive{Namespace: model.Namespace, Name: name}
}

func wrapper(ns, name string) model.Directive {
	return model.Directive{Namespace: ns, Name: name, Implicit: true}
}

func structDecl(fields ...*model.Field) *model.Declaration {
	return &model.Declaration{Name: "T", Kind: model.KindStruct, Generate: true, Fields: fields}
}

func TestExpand_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		fields func(t *testing.T) []*model.Field
		want   []string
	}{
		{
			name: "identity first then names on weight ties",
			fields: func(t *testing.T) []*model.Field {
				return []*model.Field{
					field(t, "Name", "string"),
					field(t, "LastName", "string"),
					field(t, "Random", "string"),
					field(t, "ID", "uuid.UUID"),
				}
			},
			// Weight ties break by lexical name, so LastName precedes Name.
			// This ordering is deliberate; see "Open Question decisions" in
			// DESIGN.md.
			want: []string{"ID", "LastName", "Name", "Random"},
		},
		{
			name: "ascending weight",
			fields: func(t *testing.T) []*model.Field {
				return []*model.Field{
					field(t, "NestedType", "Nested"),
					field(t, "Array", "[]int"),
					field(t, "BasicInt", "int"),
					field(t, "BasicString", "string"),
				}
			},
			want: []string{"BasicInt", "BasicString", "Array", "NestedType"},
		},
		{
			name: "lowercase id also leads",
			fields: func(t *testing.T) []*model.Field {
				return []*model.Field{
					field(t, "flag", "bool"),
					field(t, "id", "string"),
				}
			},
			want: []string{"id", "flag"},
		},
		{
			name: "unresolvable type sorts with unknowns",
			fields: func(t *testing.T) []*model.Field {
				return []*model.Field{
					field(t, "Zeta", ""),
					field(t, "Alpha", "Custom"),
					field(t, "Count", "*int"),
				}
			},
			want: []string{"Count", "Alpha", "Zeta"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exp := Expand(structDecl(tt.fields(t)...))
			require.NotNil(t, exp.Conformance)
			assert.Empty(t, exp.Diagnostics)
			assert.Equal(t, tt.want, FieldNames(exp.Conformance.Equality.Fields))
		})
	}
}

func TestExpand_ClosureRejectionIsRecoverable(t *testing.T) {
	decl := structDecl(
		field(t, "Title", "string"),
		field(t, "OnTap", "*func()"),
		field(t, "Count", "int"),
	)

	exp := Expand(decl)

	require.NotNil(t, exp.Conformance)
	assert.Equal(t, []string{"Count", "Title"}, FieldNames(exp.Conformance.Equality.Fields))
	require.Len(t, exp.Diagnostics, 1)
	d := exp.Diagnostics[0]
	assert.Equal(t, SeverityError, d.Severity)
	assert.Equal(t, CodeUnsupportedClosure, d.Code)
	assert.Equal(t, "arbitrary closures are not supported", d.Message)
	assert.True(t, d.Recoverable())
	require.NotNil(t, d.Fix)
	assert.Equal(t, "equal:safeclosure", d.Fix.Directive.String())
	assert.Equal(t, RejectedClosure, exp.Outcomes()["OnTap"])
}

func TestExpand_ClosureFromInitializerAndUnderlying(t *testing.T) {
	init := field(t, "Callback", "any")
	init.Init = typeExpr(t, "func() {}")
	named := field(t, "Handler", "http.HandlerFunc")
	named.Underlying = typeExpr(t, "func(http.ResponseWriter, *http.Request)")

	exp := Expand(structDecl(init, named, field(t, "Name", "string")))

	assert.Equal(t, []string{"Name"}, FieldNames(exp.Conformance.Equality.Fields))
	assert.Len(t, exp.Diagnostics, 2)
	assert.Equal(t, "Callback", exp.Classifications[0].Field.Name, "diagnostics follow declaration order")
}

func TestExpand_ClassificationPrecedence(t *testing.T) {
	computed := field(t, "Total", "int")
	computed.IsComputed = true
	static := field(t, "_", "struct{}")
	static.IsStatic = true

	decl := structDecl(
		computed,
		static,
		field(t, "mu", "sync.Mutex", wrapper("sync", "Mutex"), equalDirective(model.DirectiveIgnore)),
		field(t, "Cache", "map[string]int", equalDirective(model.DirectiveIgnore), equalDirective(model.DirectiveSafeClosure)),
		field(t, "OnDone", "func()", equalDirective(model.DirectiveSafeClosure)),
		field(t, "Name", "string"),
	)

	exp := Expand(decl)

	assert.Equal(t, map[string]Outcome{
		"mu":     SkippedWrapper,
		"Cache":  SkippedExplicit,
		"OnDone": SkippedSafeClosure,
		"Name":   Included,
	}, exp.Outcomes())
	assert.Len(t, exp.Classifications, 4, "computed and static fields are never classified")
	assert.Empty(t, exp.Diagnostics)
}

func TestIsWrapper(t *testing.T) {
	assert.True(t, IsWrapper(wrapper("sync", "RWMutex")))
	assert.True(t, IsWrapper(model.Directive{Name: "Mutex"}), "bare names match")
	assert.True(t, IsWrapper(wrapper("protoimpl", "MessageState")))
	assert.False(t, IsWrapper(wrapper("mypkg", "Mutex")), "qualified under a foreign namespace")
	assert.False(t, IsWrapper(wrapper("time", "Time")))
}

func TestExpand_EmptyFallsBackToAlwaysEqual(t *testing.T) {
	decl := structDecl(field(t, "mu", "sync.Mutex", wrapper("sync", "Mutex")))
	decl.Hashable = true

	exp := Expand(decl)

	require.NotNil(t, exp.Conformance)
	assert.True(t, exp.Conformance.Equality.AlwaysEqual())
	assert.Equal(t, AlwaysEqual, exp.Conformance.Equality.Expr())
	require.NotNil(t, exp.Conformance.Hash)
	assert.Empty(t, exp.Conformance.Hash.Statements())
}

func TestExpand_HashMirrorsEquality(t *testing.T) {
	decl := structDecl(
		field(t, "Tags", "[]string"),
		field(t, "ID", "int64"),
		field(t, "Score", "*float64"),
		field(t, "Active", "bool"),
	)
	decl.Hashable = true

	exp := Expand(decl)

	c := exp.Conformance
	require.NotNil(t, c.Hash)
	assert.Equal(t, FieldNames(c.Equality.Fields), FieldNames(c.Hash.Fields))
	assert.Equal(t, "lhs.ID == rhs.ID && lhs.Active == rhs.Active && lhs.Score == rhs.Score && lhs.Tags == rhs.Tags", c.Equality.Expr())
	assert.Equal(t, []string{"h.combine(ID)", "h.combine(Active)", "h.combine(Score)", "h.combine(Tags)"}, c.Hash.Statements())
}

func TestExpand_NotHashable(t *testing.T) {
	exp := Expand(structDecl(field(t, "A", "int")))
	assert.Nil(t, exp.Conformance.Hash)
}

func TestExpand_NonStruct(t *testing.T) {
	for _, kind := range []model.Kind{model.KindInterface, model.KindBasic, model.KindPointer, model.KindAlias} {
		t.Run(kind.String(), func(t *testing.T) {
			exp := Expand(&model.Declaration{Name: "T", Kind: kind, Generate: true})
			assert.Nil(t, exp.Conformance)
			require.Len(t, exp.Diagnostics, 1)
			assert.Equal(t, CodeNotStruct, exp.Diagnostics[0].Code)
			assert.Equal(t, "//equal:generate can only be applied to struct declarations", exp.Diagnostics[0].Message)
			assert.False(t, exp.Diagnostics[0].Recoverable())
		})
	}
}

func TestExpand_DefinedStruct(t *testing.T) {
	exp := Expand(&model.Declaration{Name: "Person2", Kind: model.KindDefinedStruct, Generate: true})
	assert.Nil(t, exp.Conformance)
	require.Len(t, exp.Diagnostics, 1)
	assert.Equal(t, CodeNotStruct, exp.Diagnostics[0].Code)
	assert.Equal(t, "//equal:generate is not supported on Person2, a defined type over a struct; apply it to the struct declaration instead", exp.Diagnostics[0].Message)
}

func TestExpand_Deterministic(t *testing.T) {
	build := func() *model.Declaration {
		return structDecl(
			field(t, "B", "string"),
			field(t, "A", "string"),
			field(t, "Fn", "func()"),
			field(t, "ID", "int"),
			field(t, "M", "map[string]int"),
		)
	}
	first := Expand(build())
	for i := 0; i < 10; i++ {
		again := Expand(build())
		assert.Equal(t, first.Conformance.Equality.Expr(), again.Conformance.Equality.Expr())
		assert.Equal(t, len(first.Diagnostics), len(again.Diagnostics))
	}
}

func TestExpandDirectives_Independent(t *testing.T) {
	decl := structDecl(
		field(t, "OnTap", "func()", equalDirective(model.DirectiveIgnore)),
		field(t, "Name", "string"),
	)

	exp := Expand(decl)
	diags := ExpandDirectives(decl)

	assert.Empty(t, exp.Diagnostics, "the type's own expansion is unaffected")
	assert.Equal(t, []string{"Name"}, FieldNames(exp.Conformance.Equality.Fields))
	require.Len(t, diags, 1)
	assert.Equal(t, CodeIgnoreClosure, diags[0].Code)
	assert.Equal(t, "equal:ignore cannot be applied to closures", diags[0].Message)
	assert.Nil(t, diags[0].Fix)
}

func TestExpand_PointerReceiverForLocks(t *testing.T) {
	locked := Expand(structDecl(field(t, "mu", "sync.Mutex", wrapper("sync", "Mutex")), field(t, "N", "int")))
	assert.True(t, locked.Conformance.PointerReceiver)

	withCtx := Expand(structDecl(field(t, "ctx", "context.Context", wrapper("context", "Context")), field(t, "N", "int")))
	assert.False(t, withCtx.Conformance.PointerReceiver)

	assert.False(t, Expand(structDecl(field(t, "N", "int"))).Conformance.PointerReceiver)
}
