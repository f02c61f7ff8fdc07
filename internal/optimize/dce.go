package optimize

import (
	"context"
	"time"

	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/network"
	"go.opentelemetry.io/otel/attribute"
)

// RemoveUnusedNodes removes every node that has no forward path to a dummy
// node and returns how many were removed.
func RemoveUnusedNodes(ctx context.Context, net *network.Network) int {
	start := time.Now()
	ctx, span := startPassSpan(ctx, PassRemoveUnused, net.NodeCount())

	unused := net.NodesNotToTheLeftOfExclusive(net.DummyNodes())
	net.RemoveNodes(unused)

	recordRemoved(ctx, len(unused))
	recordPass(ctx, PassRemoveUnused, time.Since(start), nil)
	endSpan(span, nil, attribute.Int("optimize.removed", len(unused)))
	ctxlog.FromContext(ctx).Debug("Removed unused nodes.", "removed", len(unused))
	return len(unused)
}
