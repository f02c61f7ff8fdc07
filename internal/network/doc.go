// Package network is the graph model of a multi-function network.
//
// # Model
//
// A Network owns nodes and sockets. A node is either a function node, which
// wraps a function.Function and derives its sockets from the signature, or a
// dummy node, which marks an external input or output of the whole network.
// A link is the origin/target relation between one output socket and one
// input socket: an input has at most one origin, an output fans out to any
// number of targets.
//
// # Identity
//
// Nodes and sockets live in slot arenas indexed by small dense ids, so passes
// can keep per-node and per-socket state in plain slices sized by
// NodeIDAmount and SocketIDAmount. Removing a node frees its slots for reuse;
// every node slot carries a generation counter so a NodeRef taken before the
// removal does not resolve to the new occupant.
//
// # Mutation rules
//
// The graph is built by a trusted builder, so malformed edits (linking an
// already linked input, mismatched types, sockets of another network) panic.
// OutputSocket.Targets returns a copy; relinking while iterating over it is
// safe. Removing a node only invalidates that node and its sockets.
//
// A Network is not safe for concurrent mutation.
package network
