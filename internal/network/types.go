package network

import (
	"fmt"
	"iter"

	"github.com/vk/mfnet/internal/datatype"
	"github.com/vk/mfnet/internal/function"
)

// NodeKind distinguishes function nodes from dummy nodes.
type NodeKind int

const (
	FunctionNode NodeKind = iota
	DummyNode
)

func (k NodeKind) String() string {
	switch k {
	case FunctionNode:
		return "function"
	case DummyNode:
		return "dummy"
	default:
		return "unknown"
	}
}

// NodeRef is a generation-checked reference to a node slot.
type NodeRef struct {
	ID         int
	Generation uint32
}

// SocketSpec declares a socket of a dummy node.
type SocketSpec struct {
	Name string
	Type datatype.DataType
}

// Node is a vertex of the network.
type Node struct {
	network *Network
	id      int
	gen     uint32
	kind    NodeKind
	name    string
	fn      *function.Function
	inputs  []*InputSocket
	outputs []*OutputSocket
}

// ID returns the dense id of the node. Ids are stable until the node is
// removed.
func (n *Node) ID() int { return n.id }

// Ref returns a generation-checked reference to the node.
func (n *Node) Ref() NodeRef { return NodeRef{ID: n.id, Generation: n.gen} }

func (n *Node) Name() string { return n.name }

func (n *Node) Kind() NodeKind { return n.kind }

func (n *Node) IsDummy() bool { return n.kind == DummyNode }

func (n *Node) IsFunction() bool { return n.kind == FunctionNode }

// Function returns the wrapped function, or nil for dummy nodes.
func (n *Node) Function() *function.Function { return n.fn }

// Network returns the owning network, or nil once the node is removed.
func (n *Node) Network() *Network { return n.network }

// Removed reports whether the node has been removed from its network.
func (n *Node) Removed() bool { return n.network == nil }

func (n *Node) Inputs() []*InputSocket { return n.inputs }

func (n *Node) Outputs() []*OutputSocket { return n.outputs }

func (n *Node) Input(i int) *InputSocket { return n.inputs[i] }

func (n *Node) Output(i int) *OutputSocket { return n.outputs[i] }

// OutputByName returns the output socket with the given name.
func (n *Node) OutputByName(name string) (*OutputSocket, bool) {
	for _, out := range n.outputs {
		if out.name == name {
			return out, true
		}
	}
	return nil, false
}

// OriginNodes yields the origin node of every connected input, in socket
// order. A node feeding several inputs is yielded once per input.
func (n *Node) OriginNodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, in := range n.inputs {
			if in.origin == nil {
				continue
			}
			if !yield(in.origin.node) {
				return
			}
		}
	}
}

// TargetNodes yields the node of every target of every output. A node fed by
// several links is yielded once per link.
func (n *Node) TargetNodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, out := range n.outputs {
			for _, target := range out.targets {
				if !yield(target.node) {
					return
				}
			}
		}
	}
}

func (n *Node) String() string {
	return fmt.Sprintf("%s#%d(%s)", n.kind, n.id, n.name)
}

// Socket is the behaviour shared by input and output sockets.
type Socket interface {
	ID() int
	Index() int
	Name() string
	Node() *Node
	DataType() datatype.DataType
	IsInput() bool
}

type socketBase struct {
	node     *Node
	id       int
	index    int
	name     string
	dataType datatype.DataType
}

// ID returns the dense socket id.
func (s *socketBase) ID() int { return s.id }

// Index returns the position of the socket among the node's inputs or
// outputs.
func (s *socketBase) Index() int { return s.index }

func (s *socketBase) Name() string { return s.name }

func (s *socketBase) Node() *Node { return s.node }

func (s *socketBase) DataType() datatype.DataType { return s.dataType }

// InputSocket receives a value from at most one origin.
type InputSocket struct {
	socketBase
	origin *OutputSocket
}

func (s *InputSocket) IsInput() bool { return true }

// Origin returns the output feeding this input, or nil if unconnected.
func (s *InputSocket) Origin() *OutputSocket { return s.origin }

func (s *InputSocket) String() string {
	return fmt.Sprintf("%s.in[%d:%s]", s.node, s.index, s.name)
}

// OutputSocket fans a value out to any number of targets.
type OutputSocket struct {
	socketBase
	targets []*InputSocket
}

func (s *OutputSocket) IsInput() bool { return false }

// Targets returns a snapshot of the inputs fed by this output. The slice is a
// copy, so links may be changed while iterating over it.
func (s *OutputSocket) Targets() []*InputSocket {
	if len(s.targets) == 0 {
		return nil
	}
	out := make([]*InputSocket, len(s.targets))
	copy(out, s.targets)
	return out
}

// TargetCount returns the number of inputs fed by this output.
func (s *OutputSocket) TargetCount() int { return len(s.targets) }

func (s *OutputSocket) String() string {
	return fmt.Sprintf("%s.out[%d:%s]", s.node, s.index, s.name)
}
