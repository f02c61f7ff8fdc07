package list

import (
	"fmt"

	"github.com/vk/mfnet/internal/datatype"
	"github.com/vk/mfnet/internal/function"
	"github.com/vk/mfnet/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

var (
	number     = datatype.Single(cty.Number)
	numberList = datatype.Vector(cty.Number)
)

// Range returns [0, count). The result is never nil so an empty range is
// an empty list rather than a null one.
func Range(count int) ([]float64, error) {
	if count < 0 {
		return nil, fmt.Errorf("negative range count %d", count)
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = float64(i)
	}
	return out, nil
}

// Sum adds all values.
func Sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Register registers the list functions.
func (m *Module) Register(r *registry.Registry) {
	values := function.Param{Name: "values", Type: numberList}

	r.Register(function.FromCty("list.length", stdlib.LengthFunc,
		[]function.Param{values}, function.Param{Name: "value", Type: number}, function.WithNameHash()))
	r.Register(function.FromCty("list.element", stdlib.ElementFunc,
		[]function.Param{values, {Name: "index", Type: number}},
		function.Param{Name: "value", Type: number}, function.WithNameHash()))
	r.Register(function.FromCty("list.concat", stdlib.ConcatFunc,
		[]function.Param{{Name: "a", Type: numberList}, {Name: "b", Type: numberList}},
		function.Param{Name: "value", Type: numberList}, function.WithNameHash()))
	r.Register(function.MustNative("list.range", Range, []string{"count"}, []string{"value"}, function.WithNameHash()))
	r.Register(function.MustNative("list.sum", Sum, []string{"values"}, []string{"value"}, function.WithNameHash()))
}
