package plan

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cmmoran/equalgen/internal/parser"
)

func TestFromFile_Golden(t *testing.T) {
	r, err := FromFile(filepath.Join("testdata", "decls.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "plan", buf.Bytes())
	assert.Equal(t, 4, r.Errors())
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorContains(t, err, "read declarations")
}

func TestReport_WriteYAML(t *testing.T) {
	r, err := FromFile(filepath.Join("testdata", "decls.yaml"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WriteYAML(&buf))

	var got Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got.Types, 6)
	assert.Equal(t, "Person", got.Types[0].Name)
	assert.Equal(t, "main", got.Types[0].Isolation)
	assert.Equal(t, []Field{
		{Name: "Name", Outcome: "included", Weight: 5},
		{Name: "LastName", Outcome: "included", Weight: 5},
		{Name: "Random", Outcome: "included", Weight: 5},
		{Name: "ID", Outcome: "included", Weight: 9},
	}, got.Types[0].Fields)
	assert.True(t, got.Types[2].Pointer)
	assert.Contains(t, buf.String(), "pointer_receiver: true")
}

func TestFromPackages(t *testing.T) {
	opts := parser.NewOptions()
	opts.InDir = filepath.Join("..", "..", "parser", "testdata", "shapes")

	r, err := FromPackages(context.Background(), opts)
	require.NoError(t, err)

	byName := make(map[string]Type)
	for _, typ := range r.Types {
		byName[typ.Name] = typ
	}
	person, ok := byName["Person"]
	require.True(t, ok)
	assert.Equal(t, "main", person.Isolation)
	assert.True(t, person.Pointer)
	assert.Equal(t, "lhs.ID == rhs.ID && lhs.LastName == rhs.LastName && lhs.Name == rhs.Name && lhs.Created == rhs.Created", person.Equality)
	require.Len(t, person.Diagnostics, 1)
	assert.Contains(t, person.Diagnostics[0], "[unsupported-closure]")

	require.Len(t, r.Diagnostics, 2)
	assert.Contains(t, r.Diagnostics[0], "[misplaced-directive]")
	assert.Contains(t, r.Diagnostics[1], "[unknown-directive]")
}
