package network

import (
	"fmt"
	"iter"
)

// NodesToTheRightOfInclusive marks every node reachable from start by
// following links forward, start included. The mask is indexed by node id.
func (n *Network) NodesToTheRightOfInclusive(start []*Node) []bool {
	return n.flood(start, (*Node).TargetNodes)
}

// NodesToTheLeftOfInclusive marks every node from which start is reachable,
// start included. The mask is indexed by node id.
func (n *Network) NodesToTheLeftOfInclusive(start []*Node) []bool {
	return n.flood(start, (*Node).OriginNodes)
}

// NodesNotToTheLeftOfExclusive returns the nodes that have no forward path
// into start, in id order. The start nodes themselves are not returned.
func (n *Network) NodesNotToTheLeftOfExclusive(start []*Node) []*Node {
	mask := n.NodesToTheLeftOfInclusive(start)
	return n.NodesByInvertedMask(mask)
}

// NodesByInvertedMask returns the live nodes whose mask entry is false.
func (n *Network) NodesByInvertedMask(mask []bool) []*Node {
	var out []*Node
	for id, node := range n.nodes {
		if node == nil {
			continue
		}
		if id < len(mask) && mask[id] {
			continue
		}
		out = append(out, node)
	}
	return out
}

func (n *Network) flood(start []*Node, next func(*Node) iter.Seq[*Node]) []bool {
	mask := make([]bool, len(n.nodes))
	stack := make([]*Node, 0, len(start))
	for _, node := range start {
		n.checkOwned(node)
		if !mask[node.id] {
			mask[node.id] = true
			stack = append(stack, node)
		}
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for other := range next(node) {
			if !mask[other.id] {
				mask[other.id] = true
				stack = append(stack, other)
			}
		}
	}
	return mask
}

// DetectCycles reports an error if following links forward can lead back to
// the same node.
func (n *Network) DetectCycles() error {
	// permanent: fully visited and not part of a cycle.
	// temporary: on the current DFS path.
	permanent := make([]bool, len(n.nodes))
	temporary := make([]bool, len(n.nodes))

	var visit func(node *Node) error
	visit = func(node *Node) error {
		if permanent[node.id] {
			return nil
		}
		if temporary[node.id] {
			return fmt.Errorf("cycle detected involving node '%s'", node.name)
		}
		temporary[node.id] = true
		for target := range node.TargetNodes() {
			if err := visit(target); err != nil {
				return err
			}
		}
		temporary[node.id] = false
		permanent[node.id] = true
		return nil
	}

	for _, node := range n.nodes {
		if node != nil && !permanent[node.id] {
			if err := visit(node); err != nil {
				return err
			}
		}
	}
	return nil
}
