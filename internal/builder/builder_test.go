package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/datatype"
	"github.com/vk/mfnet/internal/evaluate"
	"github.com/vk/mfnet/internal/registry"
	"github.com/vk/mfnet/internal/testutil"
	mathmod "github.com/vk/mfnet/modules/math"
	"github.com/vk/mfnet/modules/text"
	"github.com/zclconf/go-cty/cty"
)

func testRegistry() *registry.Registry {
	return registry.Load(&mathmod.Module{}, &text.Module{})
}

func TestBuild(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	model := testutil.LoadHCL(t, `
input "x" {
  type = number
}

node "double" {
  function = "math.multiply"
  args     = [input.x, 2]
}

node "dm" {
  function = "math.divmod"
  args     = [node.double, 3]
}

node "clamped" {
  function = "math.clamp"
  args     = [node.dm.remainder, null, 5]
}

output "q" {
  value = node.dm.quotient
}

output "r" {
  value = node.clamped
}

output "k" {
  value = [1, 2]
}
`)

	res, err := Build(ctx, model, testRegistry())
	require.NoError(t, err)
	net := res.Network

	assert.Equal(t, 11, net.NodeCount())
	assert.Equal(t, 9, net.LinkCount())
	require.Len(t, res.Inputs, 1)
	require.Len(t, res.Outputs, 3)

	clamped, ok := net.NodeByName("clamped")
	require.True(t, ok)
	assert.Nil(t, clamped.Input(1).Origin(), "null leaves the input unconnected")
	assert.NotNil(t, clamped.Input(2).Origin())

	lit, ok := net.NodeByName("double.b")
	require.True(t, ok)
	v, ok := lit.Function().ConstantValue()
	require.True(t, ok)
	assert.True(t, v.Equals(cty.NumberIntVal(2)).True())

	k, ok := res.Output("k")
	require.True(t, ok)
	assert.True(t, k.Input(0).DataType().Equals(datatype.Vector(cty.Number)))

	x, ok := res.Input("x")
	require.True(t, ok)
	_, ok = res.Input("q")
	assert.False(t, ok)

	values, err := evaluate.EvaluateOnce(ctx,
		[]evaluate.Bound{{Socket: x.Output(0), Value: cty.NumberIntVal(4)}},
		res.Targets(), nil)
	require.NoError(t, err)
	require.Len(t, values, 3)
	assert.True(t, values[0].Equals(cty.NumberIntVal(2)).True(), "8 div 3")
	assert.True(t, values[1].Equals(cty.NumberIntVal(2)).True(), "8 mod 3 clamped to [0, 5]")
	assert.Equal(t, 2, values[2].LengthInt())
}

func TestBuild_Errors(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		wantErr error
		msg     string
	}{
		{
			name:    "unknown function",
			src:     `node "a" { function = "math.nope" }`,
			wantErr: ErrUnknownFunction,
			msg:     `"math.nope"`,
		},
		{
			name: "unknown input",
			src: `node "a" {
  function = "math.negate"
  args     = [input.y]
}`,
			wantErr: ErrUnknownReference,
			msg:     "no input named 'y'",
		},
		{
			name:    "unknown node",
			src:     `output "o" { value = node.ghost }`,
			wantErr: ErrUnknownReference,
			msg:     "no node named 'ghost'",
		},
		{
			name: "unknown output socket",
			src: `node "a" {
  function = "math.divmod"
  args     = [1, 2]
}
output "o" { value = node.a.fraction }`,
			wantErr: ErrUnknownReference,
			msg:     "has no output 'fraction'",
		},
		{
			name: "ambiguous output",
			src: `node "a" {
  function = "math.divmod"
  args     = [1, 2]
}
output "o" { value = node.a }`,
			wantErr: ErrUnknownReference,
			msg:     "has 2 outputs",
		},
		{
			name:    "bad root",
			src:     `output "o" { value = var.x }`,
			wantErr: ErrUnknownReference,
			msg:     "var.x",
		},
		{
			name: "expression instead of reference",
			src: `input "x" { type = number }
node "a" {
  function = "math.negate"
  args     = [input.x + 1]
}`,
			wantErr: ErrUnknownReference,
		},
		{
			name: "too many arguments",
			src: `node "a" {
  function = "math.negate"
  args     = [1, 2]
}`,
			wantErr: ErrArity,
			msg:     "takes 1 arguments, got 2",
		},
		{
			name: "missing argument",
			src: `node "a" {
  function = "math.add"
  args     = [1]
}`,
			wantErr: ErrArity,
			msg:     "argument 'b' has no default",
		},
		{
			name: "null without default",
			src: `node "a" {
  function = "math.add"
  args     = [1, null]
}`,
			wantErr: ErrArity,
		},
		{
			name: "literal type mismatch",
			src: `node "a" {
  function = "math.negate"
  args     = ["abc"]
}`,
			wantErr: ErrTypeMismatch,
			msg:     "as number",
		},
		{
			name: "reference type mismatch",
			src: `input "x" { type = number }
node "a" {
  function = "text.upper"
  args     = [input.x]
}`,
			wantErr: ErrTypeMismatch,
			msg:     "expects string",
		},
		{
			name:    "null output",
			src:     `output "o" { value = null }`,
			wantErr: ErrTypeMismatch,
		},
		{
			name: "duplicate name",
			src: `input "a" { type = number }
node "a" { function = "scene.none" }`,
			wantErr: ErrDuplicateName,
			msg:     "node 'a' conflicts with input",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			model := testutil.LoadHCL(t, tc.src)
			_, err := Build(context.Background(), model, testRegistry())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.wantErr)
			if tc.msg != "" {
				assert.ErrorContains(t, err, tc.msg)
			}
		})
	}
}

func TestBuild_Cycle(t *testing.T) {
	model := testutil.LoadHCL(t, `
node "a" {
  function = "math.negate"
  args     = [node.b]
}

node "b" {
  function = "math.negate"
  args     = [node.a]
}
`)
	_, err := Build(context.Background(), model, testRegistry())
	assert.ErrorContains(t, err, "cycle detected")
}

func TestBuild_StringLiterals(t *testing.T) {
	model := testutil.LoadHCL(t, `
node "joined" {
  function = "text.join"
  args     = ["-", ["a", "b", "c"]]
}

output "s" {
  value = node.joined
}
`)
	res, err := Build(context.Background(), model, testRegistry())
	require.NoError(t, err)

	values, err := evaluate.EvaluateOnce(context.Background(), nil, res.Targets(), nil)
	require.NoError(t, err)
	assert.Equal(t, "a-b-c", values[0].AsString())
}
