package optimize

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/mfnet/internal/network"
)

func TestRemoveUnusedNodes(t *testing.T) {
	ctx := context.Background()
	net := network.New()
	x := inputNode(net, "x", number)
	unusedInput := inputNode(net, "unused_input", number)
	used := net.AddFunction("used", addFn())
	dangling := net.AddFunction("dangling", addFn())
	feedsDangling := net.AddFunction("feeds_dangling", negFn())
	out := outputNode(net, "out", number)
	link(net, x, 0, used, 0)
	link(net, x, 0, used, 1)
	link(net, used, 0, out, 0)
	link(net, x, 0, feedsDangling, 0)
	link(net, feedsDangling, 0, dangling, 0)
	link(net, used, 0, dangling, 1)

	removed := RemoveUnusedNodes(ctx, net)
	assert.Equal(t, 2, removed)
	assert.True(t, dangling.Removed())
	assert.True(t, feedsDangling.Removed())
	assert.False(t, unusedInput.Removed(), "dummy nodes are always kept")
	assert.Equal(t, 1, used.Output(0).TargetCount())
	assert.Equal(t, []string{"x", "unused_input", "used", "out"}, nodeNames(net.Nodes()))

	t.Run("every remaining node reaches a dummy", func(t *testing.T) {
		mask := net.NodesToTheLeftOfInclusive(net.DummyNodes())
		assert.Empty(t, net.NodesByInvertedMask(mask))
	})

	t.Run("idempotent", func(t *testing.T) {
		nodes := net.Nodes()
		links := net.LinkCount()
		assert.Zero(t, RemoveUnusedNodes(ctx, net))
		assert.Equal(t, nodes, net.Nodes())
		assert.Equal(t, links, net.LinkCount())
	})
}

func TestRemoveUnusedNodes_NoDummies(t *testing.T) {
	net := network.New()
	a := constant(net, "a", 1)
	b := net.AddFunction("b", negFn())
	link(net, a, 0, b, 0)

	assert.Equal(t, 2, RemoveUnusedNodes(context.Background(), net))
	assert.Zero(t, net.NodeCount())
}
