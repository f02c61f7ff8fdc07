package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/datatype"
	"github.com/vk/mfnet/internal/function"
	"github.com/zclconf/go-cty/cty"
)

var number = datatype.Single(cty.Number)

func identity(name string, opts ...function.Option) *function.Function {
	return function.New(name,
		[]function.Param{{Name: "in", Type: number}},
		[]function.Param{{Name: "value", Type: number}},
		func(_ *function.CallContext, args []cty.Value) ([]cty.Value, error) { return args, nil },
		opts...)
}

type testModule struct{ fns []*function.Function }

func (m testModule) Register(r *Registry) {
	for _, fn := range m.fns {
		r.Register(fn)
	}
}

func TestRegistry(t *testing.T) {
	r := Load(
		testModule{fns: []*function.Function{identity("b.one"), identity("a.two")}},
		testModule{fns: []*function.Function{identity("c.three")}},
	)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, []string{"a.two", "b.one", "c.three"}, r.Names())

	fn, ok := r.Lookup("b.one")
	require.True(t, ok)
	assert.Equal(t, "b.one", fn.Name())

	_, ok = r.Lookup("missing.fn")
	assert.False(t, ok)

	assert.Panics(t, func() { r.Register(identity("b.one")) })
}

func TestValidate(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())

	t.Run("valid", func(t *testing.T) {
		r := Load(testModule{fns: []*function.Function{
			identity("math.id", function.WithNameHash()),
			identity("scene.ctx", function.DependsOnContext()),
		}})
		assert.NoError(t, r.Validate(ctx))
	})

	t.Run("problems are collected", func(t *testing.T) {
		badDefault := cty.StringVal("x")
		r := New()
		r.Register(identity("unqualified"))
		r.Register(identity("scene.hashed", function.WithNameHash(), function.DependsOnContext()))
		r.Register(function.New("math.noout", nil, nil,
			func(*function.CallContext, []cty.Value) ([]cty.Value, error) { return nil, nil }))
		r.Register(function.New("math.dup",
			[]function.Param{{Name: "a", Type: number}, {Name: "a", Type: number, Default: &badDefault}, {Type: number}},
			[]function.Param{{Name: "value", Type: number}},
			func(*function.CallContext, []cty.Value) ([]cty.Value, error) { return nil, nil }))

		err := r.Validate(ctx)
		require.Error(t, err)
		msg := err.Error()
		assert.Contains(t, msg, "'unqualified': name must be qualified")
		assert.Contains(t, msg, "'scene.hashed': context-dependent")
		assert.Contains(t, msg, "'math.noout': declares no outputs")
		assert.Contains(t, msg, "duplicate input 'a'")
		assert.Contains(t, msg, "default of input 'a' is string")
		assert.Contains(t, msg, "input 2 has no name")
	})
}
