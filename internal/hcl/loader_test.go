package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/datatype"
	"github.com/zclconf/go-cty/cty"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	dir := t.TempDir()
	writeFile(t, dir, "a_inputs.hcl", `
input "x" {
  type = number
}

input "names" {
  type = list(string)
}
`)
	writeFile(t, dir, "nested/b_nodes.hcl", `
node "sum" {
  function = "math.add"
  args     = [input.x, 2]
}

node "now" {
  function = "scene.time"
}

output "result" {
  value = node.sum
}
`)
	writeFile(t, dir, "README.md", "not a network file")

	model, err := NewLoader().Load(ctx, dir)
	require.NoError(t, err)

	require.Len(t, model.Inputs, 2)
	assert.Equal(t, "x", model.Inputs[0].Name)
	assert.True(t, model.Inputs[0].Type.Equals(datatype.Single(cty.Number)))
	assert.True(t, model.Inputs[1].Type.Equals(datatype.Vector(cty.String)))

	require.Len(t, model.Nodes, 2)
	sum := model.Nodes[0]
	assert.Equal(t, "math.add", sum.Function)
	require.Len(t, sum.Args, 2)
	traversal, diags := hcl.AbsTraversalForExpr(sum.Args[0])
	require.False(t, diags.HasErrors())
	assert.Equal(t, "input", traversal.RootName())
	v, diags := sum.Args[1].Value(nil)
	require.False(t, diags.HasErrors())
	assert.True(t, v.Equals(cty.NumberIntVal(2)).True())
	assert.Empty(t, model.Nodes[1].Args)

	require.Len(t, model.Outputs, 1)
	assert.Equal(t, "result", model.Outputs[0].Name)
	assert.Contains(t, model.Outputs[0].Range.Filename, "b_nodes.hcl")
}

func TestLoader_LoadFileTwice(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "net.hcl", `input "x" { type = bool }`)

	model, err := NewLoader().Load(context.Background(), path, dir)
	require.NoError(t, err)
	assert.Len(t, model.Inputs, 1)
}

func TestLoader_Errors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"syntax", `node "a" {`, "failed to parse HCL file"},
		{"unknown block", `thing "a" {}`, "failed to decode HCL file"},
		{"missing function", `node "a" {}`, "failed to decode HCL file"},
		{"bad type", `input "x" { type = map(number) }`, `unknown type constructor "map"`},
		{"nested list", `input "x" { type = list(list(number)) }`, "list element"},
		{"unknown primitive", `input "x" { type = decimal }`, `unknown primitive type "decimal"`},
		{"args not a list", `node "a" {
  function = "math.negate"
  args     = input.x
}`, "args must be a list"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "main.hcl", tc.src)
			_, err := NewLoader().Load(context.Background(), dir)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}

	t.Run("missing path", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		assert.ErrorContains(t, err, "error accessing path")
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := NewLoader().Load(context.Background(), t.TempDir())
		assert.ErrorContains(t, err, "no .hcl files found")
	})
}

func TestParseAssignment(t *testing.T) {
	name, v, err := ParseAssignment(`x=[1, 2]`)
	require.NoError(t, err)
	assert.Equal(t, "x", name)
	assert.Equal(t, 2, v.LengthInt())

	name, v, err = ParseAssignment(`label="a=b"`)
	require.NoError(t, err)
	assert.Equal(t, "label", name)
	assert.Equal(t, "a=b", v.AsString())

	_, _, err = ParseAssignment("x")
	assert.ErrorContains(t, err, "expected name=value")

	_, _, err = ParseAssignment("1x=2")
	assert.ErrorContains(t, err, "invalid name")

	_, _, err = ParseAssignment("x=input.y")
	assert.ErrorContains(t, err, "evaluating")
}
