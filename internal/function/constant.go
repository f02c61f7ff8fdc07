package function

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vk/mfnet/internal/datatype"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ConstantOutputName is the name of the single output of constant functions.
const ConstantOutputName = "value"

// ConstantValue returns a zero-input function that always yields v. The value
// must be known, non-null and of a primitive type.
func ConstantValue(v cty.Value) *Function {
	dt, err := datatype.FromCtyType(v.Type())
	if err != nil || !dt.IsSingle() {
		panic(fmt.Sprintf("function: constant value must be primitive, got %s", v.Type().FriendlyName()))
	}
	return newConstant("constant", dt, v)
}

// ConstantVector returns a zero-input function that always yields the list of
// elems.
func ConstantVector(elem cty.Type, elems []cty.Value) *Function {
	dt := datatype.Vector(elem)
	v := cty.ListValEmpty(elem)
	if len(elems) > 0 {
		v = cty.ListVal(elems)
	}
	return newConstant("constant_vector", dt, v)
}

func newConstant(name string, dt datatype.DataType, v cty.Value) *Function {
	if !v.IsWhollyKnown() || v.IsNull() {
		panic("function: constant value must be known and non-null")
	}
	outputs := []Param{{Name: ConstantOutputName, Type: dt}}
	f := New(name, nil, outputs, func(*CallContext, []cty.Value) ([]cty.Value, error) {
		return []cty.Value{v}, nil
	}, WithOperationHash(valueHash(dt, v)))
	f.constant = &v
	return f
}

// valueHash derives an identity from the value's type and JSON encoding, so
// that equal literals share an identity.
func valueHash(dt datatype.DataType, v cty.Value) uint32 {
	d := xxhash.New()
	_, _ = d.WriteString(dt.String())
	_, _ = d.WriteString(":")
	if buf, err := ctyjson.Marshal(v, v.Type()); err == nil {
		_, _ = d.Write(buf)
	} else {
		_, _ = d.WriteString(v.GoString())
	}
	h := d.Sum64()
	return uint32(h) ^ uint32(h>>32)
}
