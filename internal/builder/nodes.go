package builder

import (
	"context"
	"fmt"

	"github.com/vk/mfnet/internal/config"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/network"
)

// createNodes performs the first pass, adding one node per input and node
// block. Output names are checked here as well so that every duplicate is
// reported before linking starts.
func (b *build) createNodes(ctx context.Context, model *config.Model, res *Result) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting node creation pass.")

	seen := make(map[string]string)
	claim := func(kind, name string) error {
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("%w: %s '%s' conflicts with %s of the same name", ErrDuplicateName, kind, name, prev)
		}
		seen[name] = kind
		return nil
	}

	for _, in := range model.Inputs {
		if err := claim("input", in.Name); err != nil {
			return err
		}
		logger.Debug("Creating input node.", "name", in.Name, "type", in.Type)
		node := b.net.AddDummy(in.Name, nil, []network.SocketSpec{{Name: in.Name, Type: in.Type}})
		b.inputs[in.Name] = node
		res.Inputs = append(res.Inputs, node)
	}

	for _, n := range model.Nodes {
		if err := claim("node", n.Name); err != nil {
			return err
		}
		fn, err := b.lookup(n.Function)
		if err != nil {
			return fmt.Errorf("node '%s' (%s): %w", n.Name, n.Range, err)
		}
		logger.Debug("Creating function node.", "name", n.Name, "function", fn.Name())
		b.nodes[n.Name] = b.net.AddFunction(n.Name, fn)
		b.configs[n.Name] = n
	}

	for _, out := range model.Outputs {
		if err := claim("output", out.Name); err != nil {
			return err
		}
	}
	return nil
}
