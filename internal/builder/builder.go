package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/mfnet/internal/config"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/function"
	"github.com/vk/mfnet/internal/network"
	"github.com/vk/mfnet/internal/registry"
)

var (
	// ErrUnknownFunction is returned when a node names an unregistered function.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrUnknownReference is returned for references that match no input,
	// node or output socket.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrArity is returned when a node has more arguments than its function
	// has inputs, or leaves an input without a default unset.
	ErrArity = errors.New("argument count mismatch")
	// ErrTypeMismatch is returned when a value cannot be given the socket type.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrDuplicateName is returned when two blocks share a name.
	ErrDuplicateName = errors.New("duplicate name")
)

// Result is a built network together with its interface dummies.
type Result struct {
	Network *network.Network
	// Inputs and Outputs hold the dummy nodes in model order.
	Inputs  []*network.Node
	Outputs []*network.Node
}

// Input returns the input dummy with the given name.
func (r *Result) Input(name string) (*network.Node, bool) {
	return findNode(r.Inputs, name)
}

// Output returns the output dummy with the given name.
func (r *Result) Output(name string) (*network.Node, bool) {
	return findNode(r.Outputs, name)
}

// Targets returns the input sockets of all output dummies in model order.
func (r *Result) Targets() []*network.InputSocket {
	out := make([]*network.InputSocket, 0, len(r.Outputs))
	for _, o := range r.Outputs {
		out = append(out, o.Inputs()...)
	}
	return out
}

func findNode(nodes []*network.Node, name string) (*network.Node, bool) {
	for _, n := range nodes {
		if n.Name() == name {
			return n, true
		}
	}
	return nil, false
}

// build is the state shared by both passes.
type build struct {
	net     *network.Network
	reg     *registry.Registry
	inputs  map[string]*network.Node
	nodes   map[string]*network.Node
	configs map[string]*config.Node
}

// Build constructs a network from a config model, resolving function names
// through r.
func Build(ctx context.Context, model *config.Model, r *registry.Registry) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting network construction.")

	b := &build{
		net:     network.New(),
		reg:     r,
		inputs:  make(map[string]*network.Node),
		nodes:   make(map[string]*network.Node),
		configs: make(map[string]*config.Node),
	}
	res := &Result{Network: b.net}

	// First pass: create input dummies and function nodes.
	if err := b.createNodes(ctx, model, res); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node creation complete.", "node_count", b.net.NodeCount())

	// Second pass: link arguments and create output dummies.
	if err := b.linkNodes(ctx, model, res); err != nil {
		return nil, err
	}
	logger.Debug("Build: Node linking complete.", "link_count", b.net.LinkCount())

	if err := b.net.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating network: %w", err)
	}
	logger.Debug("Build: Cycle detection passed.")

	logger.Info("Build: Network construction successful.",
		"inputs", len(res.Inputs), "nodes", b.net.NodeCount(), "outputs", len(res.Outputs))
	return res, nil
}

func (b *build) lookup(name string) (*function.Function, error) {
	fn, ok := b.reg.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownFunction, name)
	}
	return fn, nil
}
