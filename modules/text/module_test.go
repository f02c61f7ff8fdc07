package text

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/function"
	"github.com/vk/mfnet/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

func TestModule(t *testing.T) {
	r := registry.Load(&Module{})
	require.NoError(t, r.Validate(ctxlog.Discard(context.Background())))
	assert.Equal(t, []string{"text.join", "text.length", "text.lower", "text.repeat", "text.upper"}, r.Names())

	cases := []struct {
		name string
		args []cty.Value
		want cty.Value
	}{
		{"text.upper", []cty.Value{cty.StringVal("abc")}, cty.StringVal("ABC")},
		{"text.lower", []cty.Value{cty.StringVal("ABC")}, cty.StringVal("abc")},
		{"text.length", []cty.Value{cty.StringVal("héllo")}, cty.NumberIntVal(5)},
		{"text.join", []cty.Value{
			cty.StringVal(", "),
			cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}),
		}, cty.StringVal("a, b")},
		{"text.repeat", []cty.Value{cty.StringVal("ab"), cty.NumberIntVal(3)}, cty.StringVal("ababab")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fn, ok := r.Lookup(tc.name)
			require.True(t, ok)
			out, err := fn.Call(&function.CallContext{}, tc.args)
			require.NoError(t, err)
			require.Len(t, out, 1)
			assert.True(t, out[0].Equals(tc.want).True(), "got %#v", out[0])
		})
	}
}

func TestRepeat(t *testing.T) {
	_, err := Repeat("x", -1)
	assert.ErrorContains(t, err, "negative repeat count")
}
