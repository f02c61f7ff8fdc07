package network

import (
	"fmt"

	"github.com/vk/mfnet/internal/datatype"
	"github.com/vk/mfnet/internal/function"
)

// Network owns nodes, sockets and the links between them.
type Network struct {
	nodes       []*Node
	generations []uint32
	freeNodes   []int

	sockets     []Socket
	freeSockets []int
}

// New creates an empty network.
func New() *Network {
	return &Network{}
}

// AddFunction adds a function node whose sockets mirror fn's signature.
func (n *Network) AddFunction(name string, fn *function.Function) *Node {
	if fn == nil {
		panic(fmt.Sprintf("network: function node %q needs a function", name))
	}
	node := n.newNode(FunctionNode, name)
	node.fn = fn
	for i, p := range fn.Inputs() {
		node.inputs = append(node.inputs, n.newInput(node, i, p.Name, p.Type))
	}
	for i, p := range fn.Outputs() {
		node.outputs = append(node.outputs, n.newOutput(node, i, p.Name, p.Type))
	}
	return node
}

// AddDummy adds a dummy node. A dummy node marks a network boundary and must
// have at least one socket.
func (n *Network) AddDummy(name string, inputs, outputs []SocketSpec) *Node {
	if len(inputs) == 0 && len(outputs) == 0 {
		panic(fmt.Sprintf("network: dummy node %q has no sockets", name))
	}
	node := n.newNode(DummyNode, name)
	for i, s := range inputs {
		node.inputs = append(node.inputs, n.newInput(node, i, s.Name, s.Type))
	}
	for i, s := range outputs {
		node.outputs = append(node.outputs, n.newOutput(node, i, s.Name, s.Type))
	}
	return node
}

func (n *Network) newNode(kind NodeKind, name string) *Node {
	node := &Node{network: n, kind: kind, name: name}
	if l := len(n.freeNodes); l > 0 {
		node.id = n.freeNodes[l-1]
		n.freeNodes = n.freeNodes[:l-1]
		n.generations[node.id]++
		n.nodes[node.id] = node
	} else {
		node.id = len(n.nodes)
		n.nodes = append(n.nodes, node)
		n.generations = append(n.generations, 0)
	}
	node.gen = n.generations[node.id]
	return node
}

func (n *Network) allocSocket(s Socket) int {
	if l := len(n.freeSockets); l > 0 {
		id := n.freeSockets[l-1]
		n.freeSockets = n.freeSockets[:l-1]
		n.sockets[id] = s
		return id
	}
	n.sockets = append(n.sockets, s)
	return len(n.sockets) - 1
}

func (n *Network) newInput(node *Node, index int, name string, dt datatype.DataType) *InputSocket {
	s := &InputSocket{socketBase: socketBase{node: node, index: index, name: name, dataType: dt}}
	s.id = n.allocSocket(s)
	return s
}

func (n *Network) newOutput(node *Node, index int, name string, dt datatype.DataType) *OutputSocket {
	s := &OutputSocket{socketBase: socketBase{node: node, index: index, name: name, dataType: dt}}
	s.id = n.allocSocket(s)
	return s
}

func (n *Network) checkOwned(node *Node) {
	if node == nil || node.network != n {
		panic(fmt.Sprintf("network: node %v does not belong to this network", node))
	}
}

// AddLink connects from to to. The input must be unconnected and both sockets
// must carry the same data type.
func (n *Network) AddLink(from *OutputSocket, to *InputSocket) {
	n.checkOwned(from.node)
	n.checkOwned(to.node)
	if to.origin != nil {
		panic(fmt.Sprintf("network: %s is already linked to %s", to, to.origin))
	}
	if !from.dataType.Equals(to.dataType) {
		panic(fmt.Sprintf("network: cannot link %s (%s) to %s (%s)", from, from.dataType, to, to.dataType))
	}
	to.origin = from
	from.targets = append(from.targets, to)
}

// RelinkOrigin moves target from its current origin to newOrigin.
func (n *Network) RelinkOrigin(newOrigin *OutputSocket, target *InputSocket) {
	n.checkOwned(target.node)
	if target.origin == newOrigin {
		return
	}
	if target.origin != nil {
		n.Unlink(target)
	}
	n.AddLink(newOrigin, target)
}

// Unlink disconnects target from its origin. Unlinking an unconnected input
// is a no-op.
func (n *Network) Unlink(target *InputSocket) {
	n.checkOwned(target.node)
	origin := target.origin
	if origin == nil {
		return
	}
	origin.targets = removeTarget(origin.targets, target)
	target.origin = nil
}

func removeTarget(targets []*InputSocket, target *InputSocket) []*InputSocket {
	for i, t := range targets {
		if t == target {
			copy(targets[i:], targets[i+1:])
			targets[len(targets)-1] = nil
			return targets[:len(targets)-1]
		}
	}
	return targets
}

// RemoveNode detaches node from all its links and frees its slots.
func (n *Network) RemoveNode(node *Node) {
	n.checkOwned(node)
	for _, in := range node.inputs {
		n.Unlink(in)
	}
	for _, out := range node.outputs {
		for _, target := range out.targets {
			target.origin = nil
		}
		out.targets = nil
	}
	for _, in := range node.inputs {
		n.freeSocket(in.id)
	}
	for _, out := range node.outputs {
		n.freeSocket(out.id)
	}
	n.nodes[node.id] = nil
	n.freeNodes = append(n.freeNodes, node.id)
	node.network = nil
}

// RemoveNodes removes a batch of nodes. Links between nodes of the batch are
// dropped along with the nodes.
func (n *Network) RemoveNodes(nodes []*Node) {
	for _, node := range nodes {
		n.checkOwned(node)
	}
	for _, node := range nodes {
		n.RemoveNode(node)
	}
}

func (n *Network) freeSocket(id int) {
	n.sockets[id] = nil
	n.freeSockets = append(n.freeSockets, id)
}

// NodeIDAmount is one past the highest node id ever handed out.
func (n *Network) NodeIDAmount() int { return len(n.nodes) }

// SocketIDAmount is one past the highest socket id ever handed out.
func (n *Network) SocketIDAmount() int { return len(n.sockets) }

// NodeByID returns the node in slot id, or nil for a free slot.
func (n *Network) NodeByID(id int) *Node {
	if id < 0 || id >= len(n.nodes) {
		return nil
	}
	return n.nodes[id]
}

// SocketByID returns the socket in slot id, or nil for a free slot.
func (n *Network) SocketByID(id int) Socket {
	if id < 0 || id >= len(n.sockets) {
		return nil
	}
	return n.sockets[id]
}

// Resolve returns the node ref points at, unless the slot has been reused or
// freed since the ref was taken.
func (n *Network) Resolve(ref NodeRef) (*Node, bool) {
	node := n.NodeByID(ref.ID)
	if node == nil || n.generations[ref.ID] != ref.Generation {
		return nil, false
	}
	return node, true
}

// Nodes returns all live nodes in id order.
func (n *Network) Nodes() []*Node {
	return n.collect(func(*Node) bool { return true })
}

// FunctionNodes returns the live function nodes in id order.
func (n *Network) FunctionNodes() []*Node {
	return n.collect((*Node).IsFunction)
}

// DummyNodes returns the live dummy nodes in id order.
func (n *Network) DummyNodes() []*Node {
	return n.collect((*Node).IsDummy)
}

func (n *Network) collect(keep func(*Node) bool) []*Node {
	var out []*Node
	for _, node := range n.nodes {
		if node != nil && keep(node) {
			out = append(out, node)
		}
	}
	return out
}

// NodeCount returns the number of live nodes.
func (n *Network) NodeCount() int {
	return len(n.nodes) - len(n.freeNodes)
}

// LinkCount returns the number of links.
func (n *Network) LinkCount() int {
	count := 0
	for _, s := range n.sockets {
		if out, ok := s.(*OutputSocket); ok {
			count += len(out.targets)
		}
	}
	return count
}

// NodeByName returns the first live node with the given name.
func (n *Network) NodeByName(name string) (*Node, bool) {
	for _, node := range n.nodes {
		if node != nil && node.name == name {
			return node, true
		}
	}
	return nil, false
}
