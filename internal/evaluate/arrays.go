package evaluate

import (
	"fmt"

	"github.com/vk/mfnet/internal/datatype"
	"github.com/zclconf/go-cty/cty"
)

// IndexRange is a contiguous batch mask.
type IndexRange struct {
	Start int
	Size  int
}

// Range returns the mask covering indices [0, n).
func Range(n int) IndexRange {
	return IndexRange{Size: n}
}

// End is one past the last index of the range.
func (r IndexRange) End() int { return r.Start + r.Size }

// SingleArray holds one Single value per batch element.
type SingleArray struct {
	Type   datatype.DataType
	Values []cty.Value
}

// NewSingleArray allocates an array of size elements, pre-filled with the zero
// value of dt.
func NewSingleArray(dt datatype.DataType, size int) *SingleArray {
	if !dt.IsSingle() {
		panic(fmt.Sprintf("evaluate: %s is not a single type", dt))
	}
	values := make([]cty.Value, size)
	for i := range values {
		values[i] = dt.Zero()
	}
	return &SingleArray{Type: dt, Values: values}
}

// VectorArray holds one variable-length list per batch element.
type VectorArray struct {
	ElemType cty.Type
	Elems    [][]cty.Value
}

// NewVectorArray allocates an array of size empty lists.
func NewVectorArray(elem cty.Type, size int) *VectorArray {
	return &VectorArray{ElemType: elem, Elems: make([][]cty.Value, size)}
}

// DataType returns the vector data type of the array.
func (a *VectorArray) DataType() datatype.DataType {
	return datatype.Vector(a.ElemType)
}

// List returns element i as a cty list.
func (a *VectorArray) List(i int) cty.Value {
	return listOf(a.ElemType, a.Elems[i])
}

func listOf(elem cty.Type, elems []cty.Value) cty.Value {
	if len(elems) == 0 {
		return cty.ListValEmpty(elem)
	}
	return cty.ListVal(elems)
}
