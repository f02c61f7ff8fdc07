// Package datatype describes the values carried by network sockets. A socket
// either carries a single value of a primitive type or a variable-length
// vector of them. Both are backed by go-cty types so that values flow through
// the network as cty.Value.
package datatype

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Category distinguishes scalar sockets from vector sockets.
type Category int

const (
	// SingleCategory sockets carry one value per batch element.
	SingleCategory Category = iota
	// VectorCategory sockets carry a list of values per batch element.
	VectorCategory
)

func (c Category) String() string {
	switch c {
	case SingleCategory:
		return "single"
	case VectorCategory:
		return "vector"
	default:
		return "unknown"
	}
}

// DataType is the type attached to a socket.
type DataType struct {
	Category Category
	// Base is the primitive element type (number, string or bool).
	Base cty.Type
}

// Single returns the scalar data type for base.
func Single(base cty.Type) DataType {
	mustBePrimitive(base)
	return DataType{Category: SingleCategory, Base: base}
}

// Vector returns the vector data type whose elements are of type base.
func Vector(base cty.Type) DataType {
	mustBePrimitive(base)
	return DataType{Category: VectorCategory, Base: base}
}

func mustBePrimitive(t cty.Type) {
	if !t.IsPrimitiveType() {
		panic(fmt.Sprintf("datatype: base type must be primitive, got %s", t.FriendlyName()))
	}
}

// FromCtyType maps a cty type onto a DataType. Primitive types become Single
// types and lists of primitives become Vector types.
func FromCtyType(t cty.Type) (DataType, error) {
	switch {
	case t.IsPrimitiveType():
		return Single(t), nil
	case t.IsListType() && t.ElementType().IsPrimitiveType():
		return Vector(t.ElementType()), nil
	default:
		return DataType{}, fmt.Errorf("unsupported socket type %s", t.FriendlyName())
	}
}

// IsSingle reports whether the type is a scalar type.
func (d DataType) IsSingle() bool { return d.Category == SingleCategory }

// IsVector reports whether the type is a vector type.
func (d DataType) IsVector() bool { return d.Category == VectorCategory }

// CtyType returns the cty type of a value carried by one batch element.
func (d DataType) CtyType() cty.Type {
	if d.Category == VectorCategory {
		return cty.List(d.Base)
	}
	return d.Base
}

// Equals reports whether both data types describe the same values.
func (d DataType) Equals(other DataType) bool {
	return d.Category == other.Category && d.Base.Equals(other.Base)
}

// Zero returns the value used to pre-fill an output slot of this type.
func (d DataType) Zero() cty.Value {
	if d.Category == VectorCategory {
		return cty.ListValEmpty(d.Base)
	}
	switch {
	case d.Base == cty.Number:
		return cty.Zero
	case d.Base == cty.String:
		return cty.StringVal("")
	case d.Base == cty.Bool:
		return cty.False
	default:
		return cty.NullVal(d.Base)
	}
}

// String returns the type in HCL spelling, e.g. "number" or "list(string)".
func (d DataType) String() string {
	if d.Base == cty.NilType {
		return "invalid"
	}
	if d.Category == VectorCategory {
		return fmt.Sprintf("list(%s)", d.Base.FriendlyName())
	}
	return d.Base.FriendlyName()
}
