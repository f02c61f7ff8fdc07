package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestDataType_Basics(t *testing.T) {
	num := Single(cty.Number)
	nums := Vector(cty.Number)

	assert.True(t, num.IsSingle())
	assert.False(t, num.IsVector())
	assert.True(t, nums.IsVector())

	assert.Equal(t, cty.Number, num.CtyType())
	assert.True(t, cty.List(cty.Number).Equals(nums.CtyType()))

	assert.Equal(t, "number", num.String())
	assert.Equal(t, "list(number)", nums.String())
	assert.Equal(t, "invalid", DataType{}.String())

	assert.True(t, num.Equals(Single(cty.Number)))
	assert.False(t, num.Equals(nums))
	assert.False(t, num.Equals(Single(cty.String)))
}

func TestDataType_NonPrimitivePanics(t *testing.T) {
	assert.Panics(t, func() { Single(cty.List(cty.Number)) })
	assert.Panics(t, func() { Vector(cty.DynamicPseudoType) })
}

func TestFromCtyType(t *testing.T) {
	dt, err := FromCtyType(cty.String)
	require.NoError(t, err)
	assert.True(t, dt.Equals(Single(cty.String)))

	dt, err = FromCtyType(cty.List(cty.Bool))
	require.NoError(t, err)
	assert.True(t, dt.Equals(Vector(cty.Bool)))

	_, err = FromCtyType(cty.Map(cty.String))
	assert.ErrorContains(t, err, "unsupported socket type")

	_, err = FromCtyType(cty.List(cty.List(cty.Number)))
	assert.Error(t, err)
}

func TestDataType_Zero(t *testing.T) {
	assert.True(t, Single(cty.Number).Zero().RawEquals(cty.Zero))
	assert.True(t, Single(cty.String).Zero().RawEquals(cty.StringVal("")))
	assert.True(t, Single(cty.Bool).Zero().RawEquals(cty.False))

	empty := Vector(cty.String).Zero()
	assert.True(t, empty.Type().Equals(cty.List(cty.String)))
	assert.Equal(t, 0, empty.LengthInt())
}
