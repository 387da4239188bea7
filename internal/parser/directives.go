package parser

import (
	"go/ast"
	"reflect"
	"strconv"
	"strings"

	"github.com/cmmoran/equalgen/internal/model"
)

const directivePrefix = "//" + model.Namespace + ":"

// tag values mapped onto field directives.
var tagDirectives = map[string]string{
	"-":                        model.DirectiveIgnore,
	model.DirectiveIgnore:      model.DirectiveIgnore,
	model.DirectiveSafeClosure: model.DirectiveSafeClosure,
}

// ParseDirective parses one comment line of the form
//
//	//equal:name key=value key2="quoted value"
//
// It reports false for comments outside the equal namespace, including
// "// equal:..." with a space, which Go treats as prose.
func ParseDirective(c *ast.Comment) (model.Directive, bool) {
	if c == nil || !strings.HasPrefix(c.Text, directivePrefix) {
		return model.Directive{}, false
	}
	rest := strings.TrimPrefix(c.Text, directivePrefix)
	words := splitWords(rest)
	if len(words) == 0 || words[0] == "" {
		return model.Directive{}, false
	}
	d := model.Directive{Namespace: model.Namespace, Name: words[0], Pos: c.Slash}
	for _, w := range words[1:] {
		key, value, _ := strings.Cut(w, "=")
		if uq, err := strconv.Unquote(value); err == nil {
			value = uq
		}
		d.Args = append(d.Args, model.Arg{Key: key, Value: value})
	}
	return d, true
}

// splitWords splits on spaces outside double quotes.
func splitWords(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quote = !quote
			cur.WriteRune(r)
		case (r == ' ' || r == '\t') && !quote:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// commentDirectives collects the equal directives of the given groups, in
// source order, marking each consumed comment in seen.
func commentDirectives(seen map[*ast.Comment]bool, groups ...*ast.CommentGroup) []model.Directive {
	var out []model.Directive
	for _, cg := range groups {
		if cg == nil {
			continue
		}
		for _, c := range cg.List {
			d, ok := ParseDirective(c)
			if !ok {
				continue
			}
			if seen != nil {
				seen[c] = true
			}
			out = append(out, d)
		}
	}
	return out
}

// tagDirectivesOf maps the field's `equal:"..."` struct tag onto directives.
// Unrecognised values become directives of their own so that validation can
// report them.
func tagDirectivesOf(lit *ast.BasicLit) []model.Directive {
	if lit == nil {
		return nil
	}
	raw, err := strconv.Unquote(lit.Value)
	if err != nil {
		raw = strings.Trim(lit.Value, "`")
	}
	v, ok := reflect.StructTag(raw).Lookup(model.Namespace)
	if !ok {
		return nil
	}
	var out []model.Directive
	for _, part := range tagParts(v) {
		name, known := tagDirectives[part]
		if !known {
			name = part
		}
		out = append(out, model.Directive{Namespace: model.Namespace, Name: name, Pos: lit.Pos()})
	}
	return out
}

// tagParts splits a tag value on common delimiters.
func tagParts(tagVal string) []string {
	if tagVal == "" {
		return nil
	}
	return strings.FieldsFunc(tagVal, func(r rune) bool {
		return r == ';' || r == ','
	})
}

// fileDirectives lists every equal directive comment in file.
func fileDirectives(file *ast.File) []*ast.Comment {
	var out []*ast.Comment
	for _, cg := range file.Comments {
		for _, c := range cg.List {
			if strings.HasPrefix(c.Text, directivePrefix) {
				out = append(out, c)
			}
		}
	}
	return out
}
