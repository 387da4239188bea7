package parser

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cmmoran/equalgen/internal/model"
)

// DeclFile is the YAML form of a set of declarations, used by the plan
// command to run the engine without Go sources.
type DeclFile struct {
	Types []TypeDecl `yaml:"types"`
}

// TypeDecl describes one type declaration.
type TypeDecl struct {
	Name       string            `yaml:"name"`
	Kind       string            `yaml:"kind,omitempty"`
	TypeParams []string          `yaml:"type_params,omitempty"`
	Generate   *bool             `yaml:"generate,omitempty"`
	Hashable   bool              `yaml:"hashable,omitempty"`
	Args       map[string]string `yaml:"args,omitempty"`
	// ToolchainSupportsIsolation stands in for the go.mod check.
	ToolchainSupportsIsolation bool        `yaml:"toolchain_supports_isolation,omitempty"`
	Fields                     []FieldDecl `yaml:"fields,omitempty"`

	line int
}

// FieldDecl describes one field. Type, Underlying and Init are Go
// expressions; Directives are written "equal:ignore", "sync.Mutex" or bare.
type FieldDecl struct {
	Name       string   `yaml:"name"`
	Type       string   `yaml:"type,omitempty"`
	Underlying string   `yaml:"underlying,omitempty"`
	Init       string   `yaml:"init,omitempty"`
	Directives []string `yaml:"directives,omitempty"`
	Computed   bool     `yaml:"computed,omitempty"`
	Static     bool     `yaml:"static,omitempty"`

	line int
}

func (t *TypeDecl) UnmarshalYAML(n *yaml.Node) error {
	type plain TypeDecl
	if err := n.Decode((*plain)(t)); err != nil {
		return err
	}
	t.line = n.Line
	return nil
}

func (f *FieldDecl) UnmarshalYAML(n *yaml.Node) error {
	type plain FieldDecl
	if err := n.Decode((*plain)(f)); err != nil {
		return err
	}
	f.line = n.Line
	return nil
}

// LoadDecls reads a declaration file from disk.
func LoadDecls(path string) (*token.FileSet, []*model.Declaration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read declarations: %w", err)
	}
	return ParseDecls(path, data)
}

// ParseDecls converts YAML declarations into model declarations whose
// positions resolve against the returned file set.
func ParseDecls(name string, data []byte) (*token.FileSet, []*model.Declaration, error) {
	var df DeclFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, nil, fmt.Errorf("unmarshal declarations: %w", err)
	}

	fset := token.NewFileSet()
	tf := fset.AddFile(name, -1, len(data))
	tf.SetLinesForContent(data)
	pos := func(line int) token.Pos {
		if line < 1 || line > tf.LineCount() {
			return token.NoPos
		}
		return tf.LineStart(line)
	}

	decls := make([]*model.Declaration, 0, len(df.Types))
	for _, td := range df.Types {
		if td.Name == "" {
			return nil, nil, fmt.Errorf("%s:%d: type without a name", name, td.line)
		}
		kind := model.ParseKind(td.Kind)
		if kind == model.KindInvalid {
			return nil, nil, fmt.Errorf("%s:%d: unknown kind %q", name, td.line, td.Kind)
		}
		decl := &model.Declaration{
			Name:               td.Name,
			Kind:               kind,
			TypeParams:         td.TypeParams,
			Generate:           td.Generate == nil || *td.Generate,
			Hashable:           td.Hashable,
			Args:               sortedArgs(td.Args),
			IsolationSupported: td.ToolchainSupportsIsolation,
			File:               name,
			Pos:                pos(td.line),
		}
		for _, fd := range td.Fields {
			f, err := fieldFromDecl(fd, pos(fd.line))
			if err != nil {
				return nil, nil, fmt.Errorf("%s:%d: field %s: %w", name, fd.line, fd.Name, err)
			}
			decl.Fields = append(decl.Fields, f)
		}
		decls = append(decls, decl)
	}
	return fset, decls, nil
}

func fieldFromDecl(fd FieldDecl, pos token.Pos) (*model.Field, error) {
	f := &model.Field{
		Name:       fd.Name,
		TypeExpr:   optionalExpr(fd.Type),
		Underlying: optionalExpr(fd.Underlying),
		IsComputed: fd.Computed,
		IsStatic:   fd.Static || fd.Name == "_",
		Pos:        pos,
		End:        pos,
	}
	if fd.Init != "" {
		init, err := goparser.ParseExpr(fd.Init)
		if err != nil {
			return nil, fmt.Errorf("init: %w", err)
		}
		f.Init = init
	}
	for _, raw := range fd.Directives {
		d, err := parseDirectiveString(raw)
		if err != nil {
			return nil, err
		}
		d.Pos = pos
		f.Directives = append(f.Directives, d)
	}
	return f, nil
}

// optionalExpr parses a type; an empty or unparsable type is unresolvable.
func optionalExpr(src string) ast.Expr {
	if strings.TrimSpace(src) == "" {
		return nil
	}
	expr, err := goparser.ParseExpr(src)
	if err != nil {
		return nil
	}
	return expr
}

func parseDirectiveString(raw string) (model.Directive, error) {
	words := splitWords(strings.TrimPrefix(strings.TrimSpace(raw), "//"))
	if len(words) == 0 {
		return model.Directive{}, fmt.Errorf("empty directive")
	}
	var d model.Directive
	head := words[0]
	switch {
	case strings.Contains(head, ":"):
		d.Namespace, d.Name, _ = strings.Cut(head, ":")
	case strings.Contains(head, "."):
		d.Namespace, d.Name, _ = strings.Cut(head, ".")
		d.Implicit = true
	default:
		d.Name = head
	}
	if d.Name == "" {
		return model.Directive{}, fmt.Errorf("malformed directive %q", raw)
	}
	for _, w := range words[1:] {
		key, value, _ := strings.Cut(w, "=")
		d.Args = append(d.Args, model.Arg{Key: key, Value: strings.Trim(value, `"`)})
	}
	return d, nil
}

func sortedArgs(m map[string]string) []model.Arg {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]model.Arg, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.Arg{Key: k, Value: m[k]})
	}
	return out
}
