package optimize

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/network"
	"go.opentelemetry.io/otel/attribute"
)

// Structural hash constants. Inputs are combined in socket order with a
// polynomial accumulator, so swapping two inputs changes the hash. Output
// factors are forced odd so that scaling a node hash stays a bijection on
// uint32.
const (
	inputHashSeed       uint32 = 827823743
	inputHashFactor     uint32 = 456123
	nodeHashFactor      uint32 = 462347
	outputHashBase      uint32 = 45234
	outputHashIndexStep uint32 = 567243
)

// DedupStats summarizes one Deduplicate call.
type DedupStats struct {
	// Hashed is the number of output sockets that received a hash.
	Hashed int
	// Groups is the number of hash classes with more than one member.
	Groups int
	// Relinked is the number of inputs moved onto a representative socket.
	Relinked int
}

// Deduplicate merges output sockets that always compute the same value. The
// consumers of every duplicate are moved to the first socket of its class;
// the emptied nodes are left for RemoveUnusedNodes.
//
// Dummy outputs and unconnected inputs are hashed with values drawn from a
// generator seeded with seed, so they never compare equal to each other.
func Deduplicate(ctx context.Context, net *network.Network, seed uint64) DedupStats {
	start := time.Now()
	ctx, span := startPassSpan(ctx, PassDeduplicate, net.NodeCount())

	hashes := hashOutputs(net, seed)
	stats := mergeByHash(net, hashes)

	recordMerged(ctx, stats.Relinked)
	recordPass(ctx, PassDeduplicate, time.Since(start), nil)
	endSpan(span, nil,
		attribute.Int("optimize.hashed", stats.Hashed),
		attribute.Int("optimize.groups", stats.Groups),
		attribute.Int("optimize.relinked", stats.Relinked),
	)
	ctxlog.FromContext(ctx).Debug("Deduplicated network.",
		"hashed", stats.Hashed, "groups", stats.Groups, "relinked", stats.Relinked)
	return stats
}

type socketHashes struct {
	hash   []uint32
	hashed []bool
}

func (h *socketHashes) set(s *network.OutputSocket, v uint32) {
	h.hash[s.ID()] = v
	h.hashed[s.ID()] = true
}

func hashOutputs(net *network.Network, seed uint64) *socketHashes {
	rng := rand.New(rand.NewPCG(seed, seed))
	hashes := &socketHashes{
		hash:   make([]uint32, net.SocketIDAmount()),
		hashed: make([]bool, net.SocketIDAmount()),
	}
	nodeHashed := make([]bool, net.NodeIDAmount())

	for _, node := range net.DummyNodes() {
		for _, out := range node.Outputs() {
			hashes.set(out, rng.Uint32())
		}
		nodeHashed[node.ID()] = true
	}

	stack := net.FunctionNodes()
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		if nodeHashed[node.ID()] {
			stack = stack[:len(stack)-1]
			continue
		}

		ready := true
		for origin := range node.OriginNodes() {
			if !nodeHashed[origin.ID()] {
				ready = false
				stack = append(stack, origin)
			}
		}
		if !ready {
			continue
		}

		acc := inputHashSeed
		for _, in := range node.Inputs() {
			var inputHash uint32
			if origin := in.Origin(); origin != nil {
				inputHash = hashes.hash[origin.ID()]
			} else {
				inputHash = rng.Uint32()
			}
			acc = acc*inputHashFactor + inputHash
		}

		opHash, ok := node.Function().OperationHash()
		if !ok {
			opHash = rng.Uint32()
		}
		nodeHash := acc*nodeHashFactor + opHash

		for _, out := range node.Outputs() {
			hashes.set(out, nodeHash*outputHashFactor(out.Index()))
		}

		stack = stack[:len(stack)-1]
		nodeHashed[node.ID()] = true
	}
	return hashes
}

func outputHashFactor(index int) uint32 {
	return (outputHashBase + outputHashIndexStep*uint32(index)) | 1
}

func mergeByHash(net *network.Network, hashes *socketHashes) DedupStats {
	var stats DedupStats
	groups := make(map[uint32][]*network.OutputSocket)
	var order []uint32
	for id, ok := range hashes.hashed {
		if !ok {
			continue
		}
		stats.Hashed++
		h := hashes.hash[id]
		if _, seen := groups[h]; !seen {
			order = append(order, h)
		}
		groups[h] = append(groups[h], net.SocketByID(id).(*network.OutputSocket))
	}

	for _, h := range order {
		members := groups[h]
		if len(members) < 2 {
			continue
		}
		stats.Groups++
		representative := members[0]
		for _, dup := range members[1:] {
			for _, target := range dup.Targets() {
				net.RelinkOrigin(representative, target)
				stats.Relinked++
			}
		}
	}
	return stats
}
