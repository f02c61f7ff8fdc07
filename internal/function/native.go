package function

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/vk/mfnet/internal/datatype"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// ErrNotANumber is returned when a native function yields NaN, which has no
// cty representation.
var ErrNotANumber = errors.New("result is not a number")

// Native adapts a plain Go func into a function descriptor. Parameters and
// results must map onto socket types through gocty (float64, int, string,
// bool and slices of them). A trailing error result is allowed. Input and
// output sockets are named after paramNames and resultNames, falling back to
// positional names.
func Native(name string, fn any, paramNames, resultNames []string, opts ...Option) (*Function, error) {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return nil, fmt.Errorf("native function %q: expected a func, got %s", name, ft)
	}
	if ft.IsVariadic() {
		return nil, fmt.Errorf("native function %q: variadic funcs are not supported", name)
	}

	inputs := make([]Param, ft.NumIn())
	for i := range inputs {
		dt, err := impliedDataType(ft.In(i))
		if err != nil {
			return nil, fmt.Errorf("native function %q, argument %d: %w", name, i, err)
		}
		inputs[i] = Param{Name: paramName(paramNames, i, "arg"), Type: dt}
	}

	numOut := ft.NumOut()
	returnsErr := numOut > 0 && ft.Out(numOut-1) == errorType
	if returnsErr {
		numOut--
	}
	if numOut == 0 {
		return nil, fmt.Errorf("native function %q: must return at least one value", name)
	}
	outputs := make([]Param, numOut)
	for i := range outputs {
		dt, err := impliedDataType(ft.Out(i))
		if err != nil {
			return nil, fmt.Errorf("native function %q, result %d: %w", name, i, err)
		}
		outputs[i] = Param{Name: paramName(resultNames, i, "result"), Type: dt}
	}

	call := func(_ *CallContext, args []cty.Value) (results []cty.Value, err error) {
		defer func() {
			if r := recover(); r != nil {
				results, err = nil, fmt.Errorf("%s: panicked: %v", name, r)
			}
		}()
		in := make([]reflect.Value, len(args))
		for i, arg := range args {
			target := reflect.New(ft.In(i))
			if err := gocty.FromCtyValue(arg, target.Interface()); err != nil {
				return nil, fmt.Errorf("%s: argument %q: %w", name, inputs[i].Name, err)
			}
			in[i] = target.Elem()
		}
		out := fv.Call(in)
		if returnsErr {
			if errVal := out[numOut]; !errVal.IsNil() {
				return nil, errVal.Interface().(error)
			}
		}
		results = make([]cty.Value, numOut)
		for i := range results {
			if hasNaN(out[i]) {
				return nil, fmt.Errorf("%s: result %q: %w", name, outputs[i].Name, ErrNotANumber)
			}
			v, err := gocty.ToCtyValue(out[i].Interface(), outputs[i].Type.CtyType())
			if err != nil {
				return nil, fmt.Errorf("%s: result %q: %w", name, outputs[i].Name, err)
			}
			results[i] = v
		}
		return results, nil
	}

	return New(name, inputs, outputs, call, opts...), nil
}

// MustNative is like Native but panics on error. It is meant for module
// registration, where a bad signature is a programming error.
func MustNative(name string, fn any, paramNames, resultNames []string, opts ...Option) *Function {
	f, err := Native(name, fn, paramNames, resultNames, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

func impliedDataType(t reflect.Type) (datatype.DataType, error) {
	ty, err := gocty.ImpliedType(reflect.Zero(t).Interface())
	if err != nil {
		return datatype.DataType{}, err
	}
	return datatype.FromCtyType(ty)
}

func hasNaN(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(v.Float())
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			if hasNaN(v.Index(i)) {
				return true
			}
		}
	}
	return false
}

func paramName(names []string, i int, prefix string) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return fmt.Sprintf("%s%d", prefix, i)
}
