package config

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mfnet/internal/datatype"
)

// Model is the unified representation of an authored network. Blocks keep
// the order in which they were read.
type Model struct {
	Inputs  []*Input
	Nodes   []*Node
	Outputs []*Output
}

// Input is an `input` block: a named, typed value bound at evaluation time.
type Input struct {
	Name  string
	Type  datatype.DataType
	Range hcl.Range
}

// Node is a `node` block: one invocation of a registered function. Args are
// positional and match the function's input sockets.
type Node struct {
	Name     string
	Function string
	Args     []hcl.Expression
	Range    hcl.Range
}

// Output is an `output` block exposing a value of the network.
type Output struct {
	Name  string
	Value hcl.Expression
	Range hcl.Range
}

// Len returns the number of blocks in the model.
func (m *Model) Len() int {
	return len(m.Inputs) + len(m.Nodes) + len(m.Outputs)
}

// Merge appends the blocks of other to m.
func (m *Model) Merge(other *Model) {
	m.Inputs = append(m.Inputs, other.Inputs...)
	m.Nodes = append(m.Nodes, other.Nodes...)
	m.Outputs = append(m.Outputs, other.Outputs...)
}
