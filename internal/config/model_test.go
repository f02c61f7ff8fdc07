package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/mfnet/internal/datatype"
	"github.com/zclconf/go-cty/cty"
)

func TestModelMerge(t *testing.T) {
	m := &Model{Inputs: []*Input{{Name: "x", Type: datatype.Single(cty.Number)}}}
	m.Merge(&Model{
		Nodes:   []*Node{{Name: "n", Function: "math.add"}},
		Outputs: []*Output{{Name: "r"}},
	})
	m.Merge(&Model{})

	assert.Equal(t, 3, m.Len())
	assert.Equal(t, "x", m.Inputs[0].Name)
	assert.Equal(t, "n", m.Nodes[0].Name)
	assert.Equal(t, "r", m.Outputs[0].Name)
}
