package parser

import (
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"strings"

	"github.com/cmmoran/equalgen/internal/engine"
	"github.com/cmmoran/equalgen/internal/model"
)

// Builder turns the type declarations of one file into model declarations.
type Builder struct {
	file    *ast.File
	info    *types.Info       // nil when type information is unavailable
	imports map[string]string // local package name → import path
	seen    map[*ast.Comment]bool

	pkgPath            string
	fileName           string
	isolationSupported bool
}

// NewBuilder prepares a Builder for file. info may be nil.
func NewBuilder(fset *token.FileSet, file *ast.File, info *types.Info, cfg FileConfig) *Builder {
	return &Builder{
		file:               file,
		info:               info,
		imports:            collectImports(file),
		seen:               make(map[*ast.Comment]bool),
		pkgPath:            cfg.PkgPath,
		fileName:           fset.Position(file.Pos()).Filename,
		isolationSupported: cfg.IsolationSupported,
	}
}

// collectImports maps each import's local name to its path.
func collectImports(file *ast.File) map[string]string {
	out := make(map[string]string, len(file.Imports))
	for _, imp := range file.Imports {
		p := strings.Trim(imp.Path.Value, `"`)
		name := path.Base(p)
		if imp.Name != nil {
			if imp.Name.Name == "_" || imp.Name.Name == "." {
				continue
			}
			name = imp.Name.Name
		}
		out[name] = p
	}
	return out
}

// Declaration converts one type spec. groups are the comment groups that
// document it.
func (b *Builder) Declaration(ts *ast.TypeSpec, groups ...*ast.CommentGroup) (*model.Declaration, engine.Diagnostics) {
	decl := &model.Declaration{
		Name:               ts.Name.Name,
		Kind:               declKind(ts),
		TypeParams:         typeParams(ts.TypeParams),
		IsolationSupported: b.isolationSupported,
		PkgName:            b.file.Name.Name,
		PkgPath:            b.pkgPath,
		File:               b.fileName,
		Pos:                ts.Name.Pos(),
	}

	if decl.Kind == model.KindNamed && b.info != nil {
		if obj := b.info.Defs[ts.Name]; obj != nil {
			if _, ok := obj.Type().Underlying().(*types.Struct); ok {
				decl.Kind = model.KindDefinedStruct
			}
		}
	}

	var (
		diags    engine.Diagnostics
		hashable model.Directive
	)
	for _, d := range commentDirectives(b.seen, groups...) {
		switch {
		case d.Name == model.DirectiveGenerate:
			decl.Generate = true
			decl.Args = append(decl.Args, d.Args...)
		case d.Name == model.DirectiveHashable:
			decl.Hashable = true
			hashable = d
		case engine.IsFieldDirective(d.Name):
			diags = append(diags, engine.Misplaced(d))
		default:
			diags = append(diags, engine.Unknown(d))
		}
	}
	if decl.Hashable && !decl.Generate {
		diags = append(diags, engine.Ineffective(hashable))
	}

	if st, ok := ts.Type.(*ast.StructType); ok && st.Fields != nil {
		for _, f := range st.Fields.List {
			decl.Fields = append(decl.Fields, b.Fields(f)...)
		}
	}
	return decl, diags
}

// Fields converts one field spec; `A, B int` yields two fields.
func (b *Builder) Fields(f *ast.Field) []*model.Field {
	if f == nil {
		return nil
	}

	directives := commentDirectives(b.seen, f.Doc, f.Comment)
	directives = append(directives, tagDirectivesOf(f.Tag)...)
	if w, ok := b.wrapperDirective(f.Type); ok {
		directives = append(directives, w)
	}
	underlying, typ := b.resolve(f.Type)

	names := make([]string, 0, len(f.Names))
	for _, id := range f.Names {
		names = append(names, id.Name)
	}
	if len(names) == 0 {
		// Embedded field: the name comes from the type expression.
		names = append(names, embeddedFieldName(f.Type))
	}

	out := make([]*model.Field, 0, len(names))
	for _, name := range names {
		out = append(out, &model.Field{
			Name:       name,
			TypeExpr:   f.Type,
			Underlying: underlying,
			Type:       typ,
			Directives: directives,
			IsStatic:   name == "_",
			Pos:        f.Pos(),
			End:        f.End(),
		})
	}
	return out
}

// wrapperDirective lifts a qualified state-wrapper type into an implicit
// directive, e.g. sync.Mutex or *atomic.Pointer[T].
func (b *Builder) wrapperDirective(expr ast.Expr) (model.Directive, bool) {
	head := typeHead(expr)
	sel, ok := head.(*ast.SelectorExpr)
	if ok {
		if pkg, ok := sel.X.(*ast.Ident); ok {
			if p, ok := b.importPath(pkg); ok {
				d := model.Directive{Namespace: path.Base(p), Name: sel.Sel.Name, Implicit: true, Pos: sel.Pos()}
				if engine.IsWrapper(d) {
					return d, true
				}
			}
		}
	}
	// Aliases and dot-imports resolve through type information.
	if b.info == nil || head == nil {
		return model.Directive{}, false
	}
	named, ok := types.Unalias(b.info.TypeOf(head)).(*types.Named)
	if !ok || named.Obj().Pkg() == nil {
		return model.Directive{}, false
	}
	d := model.Directive{
		Namespace: path.Base(named.Obj().Pkg().Path()),
		Name:      named.Obj().Name(),
		Implicit:  true,
		Pos:       head.Pos(),
	}
	return d, engine.IsWrapper(d)
}

func (b *Builder) importPath(pkg *ast.Ident) (string, bool) {
	if b.info != nil {
		if pn, ok := b.info.Uses[pkg].(*types.PkgName); ok {
			return pn.Imported().Path(), true
		}
	}
	p, ok := b.imports[pkg.Name]
	return p, ok
}

// resolve returns the resolved type of expr and, when that type is a named
// function type, a func shape for the closure gate.
func (b *Builder) resolve(expr ast.Expr) (ast.Expr, types.Type) {
	if b.info == nil {
		return nil, nil
	}
	t := b.info.TypeOf(expr)
	if t == nil {
		return nil, nil
	}
	under := t
	for {
		p, ok := under.Underlying().(*types.Pointer)
		if !ok {
			break
		}
		under = p.Elem()
	}
	if _, ok := under.Underlying().(*types.Signature); ok {
		return &ast.FuncType{Params: &ast.FieldList{}}, t
	}
	return nil, t
}

// typeHead strips pointers, parens and type arguments.
func typeHead(expr ast.Expr) ast.Expr {
	for {
		switch t := expr.(type) {
		case *ast.StarExpr:
			expr = t.X
		case *ast.ParenExpr:
			expr = t.X
		case *ast.IndexExpr:
			expr = t.X
		case *ast.IndexListExpr:
			expr = t.X
		default:
			return expr
		}
	}
}

func embeddedFieldName(expr ast.Expr) string {
	switch t := typeHead(expr).(type) {
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	}
	return ""
}

func declKind(ts *ast.TypeSpec) model.Kind {
	if ts.Assign.IsValid() {
		return model.KindAlias
	}
	switch t := ts.Type.(type) {
	case *ast.StructType:
		return model.KindStruct
	case *ast.InterfaceType:
		return model.KindInterface
	case *ast.StarExpr:
		return model.KindPointer
	case *ast.ArrayType:
		return model.KindSlice
	case *ast.MapType:
		return model.KindMap
	case *ast.ChanType:
		return model.KindChan
	case *ast.FuncType:
		return model.KindFunc
	case *ast.Ident:
		if types.Universe.Lookup(t.Name) != nil {
			return model.KindBasic
		}
		return model.KindNamed
	case *ast.ParenExpr:
		return declKind(&ast.TypeSpec{Type: t.X})
	default:
		return model.KindNamed
	}
}

func typeParams(fl *ast.FieldList) []string {
	if fl == nil {
		return nil
	}
	var out []string
	for _, fp := range fl.List {
		for _, n := range fp.Names {
			out = append(out, n.Name)
		}
	}
	return out
}
