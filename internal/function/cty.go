package function

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	ctyfunction "github.com/zclconf/go-cty/cty/function"
)

// FromCty wraps a go-cty function as a single-output descriptor. The cty
// result is converted to the declared result type.
func FromCty(name string, fn ctyfunction.Function, inputs []Param, result Param, opts ...Option) *Function {
	want := result.Type.CtyType()
	call := func(_ *CallContext, args []cty.Value) ([]cty.Value, error) {
		v, err := fn.Call(args)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if !v.Type().Equals(want) {
			v, err = convert.Convert(v, want)
			if err != nil {
				return nil, fmt.Errorf("%s: result: %w", name, err)
			}
		}
		return []cty.Value{v}, nil
	}
	return New(name, inputs, []Param{result}, call, opts...)
}
