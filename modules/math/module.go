package math

import (
	"errors"
	stdmath "math"

	"github.com/vk/mfnet/internal/datatype"
	"github.com/vk/mfnet/internal/function"
	"github.com/vk/mfnet/internal/registry"
	"github.com/zclconf/go-cty/cty"
	ctyfunction "github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

var number = datatype.Single(cty.Number)

func param(name string) function.Param {
	return function.Param{Name: name, Type: number}
}

func binary(name string, fn ctyfunction.Function) *function.Function {
	return function.FromCty(name, fn, []function.Param{param("a"), param("b")}, param("value"), function.WithNameHash())
}

func unary(name string, fn ctyfunction.Function) *function.Function {
	return function.FromCty(name, fn, []function.Param{param("a")}, param("value"), function.WithNameHash())
}

// DivMod returns the floored quotient and the remainder of a / b.
func DivMod(_ *function.CallContext, args []cty.Value) ([]cty.Value, error) {
	a, b := args[0], args[1]
	if b.Equals(cty.Zero).True() {
		return nil, errors.New("division by zero")
	}
	q, err := stdlib.Divide(a, b)
	if err != nil {
		return nil, err
	}
	q, err = stdlib.Floor(q)
	if err != nil {
		return nil, err
	}
	r, err := stdlib.Subtract(a, q.Multiply(b))
	if err != nil {
		return nil, err
	}
	return []cty.Value{q, r}, nil
}

// Hypot is the euclidean norm of (a, b).
func Hypot(a, b float64) float64 {
	return stdmath.Hypot(a, b)
}

// Clamp limits value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	return stdmath.Max(lo, stdmath.Min(hi, value))
}

// Register registers the math functions.
func (m *Module) Register(r *registry.Registry) {
	r.Register(binary("math.add", stdlib.AddFunc))
	r.Register(binary("math.subtract", stdlib.SubtractFunc))
	r.Register(binary("math.multiply", stdlib.MultiplyFunc))
	r.Register(binary("math.divide", stdlib.DivideFunc))
	r.Register(binary("math.modulo", stdlib.ModuloFunc))
	r.Register(binary("math.min", stdlib.MinFunc))
	r.Register(binary("math.max", stdlib.MaxFunc))
	r.Register(binary("math.pow", stdlib.PowFunc))
	r.Register(unary("math.negate", stdlib.NegateFunc))
	r.Register(unary("math.abs", stdlib.AbsoluteFunc))
	r.Register(unary("math.floor", stdlib.FloorFunc))
	r.Register(unary("math.ceil", stdlib.CeilFunc))

	r.Register(function.New("math.divmod",
		[]function.Param{param("a"), param("b")},
		[]function.Param{param("quotient"), param("remainder")},
		DivMod, function.WithNameHash()))

	r.Register(function.MustNative("math.hypot", Hypot, []string{"a", "b"}, []string{"value"}, function.WithNameHash()))

	r.Register(function.MustNative("math.clamp", Clamp, []string{"value", "min", "max"}, []string{"value"},
		function.WithNameHash(),
		function.WithDefault("min", cty.Zero),
		function.WithDefault("max", cty.NumberIntVal(1)),
	))
}
