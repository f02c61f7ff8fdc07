package optimize

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/mfnet/internal/datatype"
	"github.com/vk/mfnet/internal/evaluate"
	"github.com/vk/mfnet/internal/function"
	"github.com/vk/mfnet/internal/network"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

var (
	number     = datatype.Single(cty.Number)
	numberList = datatype.Vector(cty.Number)
)

func numberParams(names ...string) []function.Param {
	out := make([]function.Param, len(names))
	for i, n := range names {
		out[i] = function.Param{Name: n, Type: number}
	}
	return out
}

func binary(name string, fn func(a, b cty.Value) cty.Value, opts ...function.Option) *function.Function {
	return function.New(name, numberParams("a", "b"), numberParams("value"),
		func(_ *function.CallContext, args []cty.Value) ([]cty.Value, error) {
			return []cty.Value{fn(args[0], args[1])}, nil
		}, opts...)
}

func addFn() *function.Function {
	return function.FromCty("math.add", stdlib.AddFunc, numberParams("a", "b"), numberParams("value")[0], function.WithNameHash())
}

func mulFn() *function.Function {
	return function.FromCty("math.multiply", stdlib.MultiplyFunc, numberParams("a", "b"), numberParams("value")[0], function.WithNameHash())
}

func subFn() *function.Function {
	return function.FromCty("math.subtract", stdlib.SubtractFunc, numberParams("a", "b"), numberParams("value")[0], function.WithNameHash())
}

// negFn has no operation identity.
func negFn() *function.Function {
	return function.New("negate", numberParams("a"), numberParams("value"),
		func(_ *function.CallContext, args []cty.Value) ([]cty.Value, error) {
			return []cty.Value{args[0].Negate()}, nil
		})
}

func divmodFn() *function.Function {
	return function.New("math.divmod", numberParams("a", "b"), numberParams("quotient", "remainder"),
		func(_ *function.CallContext, args []cty.Value) ([]cty.Value, error) {
			q := args[0].Divide(args[1])
			return []cty.Value{q, args[0].Modulo(args[1])}, nil
		}, function.WithNameHash())
}

// timeOffsetFn adds the "time" context value to its input.
func timeOffsetFn() *function.Function {
	return function.New("scene.offset", numberParams("a"), numberParams("value"),
		func(cc *function.CallContext, args []cty.Value) ([]cty.Value, error) {
			t, ok := cc.Value("time")
			if !ok {
				t = cty.Zero
			}
			return []cty.Value{args[0].Add(t)}, nil
		}, function.DependsOnContext())
}

// contextSumFn sums two inputs plus the "time" context value.
func contextSumFn() *function.Function {
	return function.New("scene.sum", numberParams("a", "b"), numberParams("value"),
		func(cc *function.CallContext, args []cty.Value) ([]cty.Value, error) {
			t, ok := cc.Value("time")
			if !ok {
				t = cty.Zero
			}
			return []cty.Value{args[0].Add(args[1]).Add(t)}, nil
		}, function.DependsOnContext())
}

func rangeFn() *function.Function {
	return function.MustNative("list.range", func(n int) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = float64(i)
		}
		return out
	}, []string{"count"}, []string{"value"}, function.WithNameHash())
}

func sumFn() *function.Function {
	return function.MustNative("list.sum", func(values []float64) float64 {
		total := 0.0
		for _, v := range values {
			total += v
		}
		return total
	}, []string{"values"}, []string{"value"}, function.WithNameHash())
}

var errBoom = errors.New("boom")

func failingFn() *function.Function {
	return function.New("fail", numberParams("a"), numberParams("value"),
		func(*function.CallContext, []cty.Value) ([]cty.Value, error) {
			return nil, errBoom
		}, function.WithNameHash())
}

func constant(net *network.Network, name string, v int64) *network.Node {
	return net.AddFunction(name, function.ConstantValue(cty.NumberIntVal(v)))
}

func inputNode(net *network.Network, name string, dt datatype.DataType) *network.Node {
	return net.AddDummy(name, nil, []network.SocketSpec{{Name: name, Type: dt}})
}

func outputNode(net *network.Network, name string, dt datatype.DataType) *network.Node {
	return net.AddDummy(name, []network.SocketSpec{{Name: name, Type: dt}}, nil)
}

func link(net *network.Network, from *network.Node, fromIdx int, to *network.Node, toIdx int) {
	net.AddLink(from.Output(fromIdx), to.Input(toIdx))
}

// evalOutputs evaluates every input socket of the given output dummies with
// inputs bound to values.
func evalOutputs(t *testing.T, outputs []*network.Node, bound []evaluate.Bound, evalCtx *evaluate.Context) []cty.Value {
	t.Helper()
	var targets []*network.InputSocket
	for _, o := range outputs {
		targets = append(targets, o.Inputs()...)
	}
	values, err := evaluate.EvaluateOnce(context.Background(), bound, targets, evalCtx)
	require.NoError(t, err)
	return values
}

func requireSameValues(t *testing.T, want, got []cty.Value) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.True(t, want[i].Equals(got[i]).True(), "value %d: want %#v, got %#v", i, want[i], got[i])
	}
}

func nodeNames(nodes []*network.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name()
	}
	return out
}
