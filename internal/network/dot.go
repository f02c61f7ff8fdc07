package network

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// WriteDOT renders the network as a Graphviz digraph. Every node is a record
// with its inputs on the left and its outputs on the right.
func (n *Network) WriteDOT(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph network {")
	fmt.Fprintln(bw, "  rankdir=LR;")
	fmt.Fprintln(bw, "  node [shape=record];")

	for _, node := range n.Nodes() {
		attrs := ""
		if node.IsDummy() {
			attrs = ", style=dashed"
		}
		fmt.Fprintf(bw, "  n%d [label=\"{%s|%s|%s}\"%s];\n",
			node.id, socketFields(node.inputs), dotEscape(nodeLabel(node)), socketFields(node.outputs), attrs)
	}

	for _, node := range n.Nodes() {
		for _, out := range node.outputs {
			for _, target := range out.targets {
				fmt.Fprintf(bw, "  n%d:s%d -> n%d:s%d;\n", node.id, out.id, target.node.id, target.id)
			}
		}
	}

	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func nodeLabel(node *Node) string {
	if node.fn == nil {
		return node.name
	}
	if v, ok := node.fn.ConstantValue(); ok {
		if raw, err := ctyjson.Marshal(v, v.Type()); err == nil {
			return fmt.Sprintf("%s = %s", node.name, raw)
		}
	}
	if node.name == node.fn.Name() {
		return node.name
	}
	return fmt.Sprintf("%s (%s)", node.name, node.fn.Name())
}

func socketFields[S interface {
	ID() int
	Name() string
}](sockets []S) string {
	parts := make([]string, len(sockets))
	for i, s := range sockets {
		parts[i] = fmt.Sprintf("<s%d> %s", s.ID(), dotEscape(s.Name()))
	}
	return "{" + strings.Join(parts, "|") + "}"
}

var dotReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
	`|`, `\|`,
	`<`, `\<`,
	`>`, `\>`,
)

func dotEscape(s string) string {
	return dotReplacer.Replace(s)
}
