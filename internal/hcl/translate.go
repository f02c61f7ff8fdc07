// This file translates the decoded HCL blocks into the format-agnostic model
// of the config package.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mfnet/internal/config"
	"github.com/vk/mfnet/internal/ctxlog"
)

func translateFile(ctx context.Context, root *fileRoot) (*config.Model, error) {
	model := &config.Model{}
	for _, in := range root.Inputs {
		def, err := translateInput(ctx, in)
		if err != nil {
			return nil, err
		}
		model.Inputs = append(model.Inputs, def)
	}
	for _, n := range root.Nodes {
		def, err := translateNode(ctx, n)
		if err != nil {
			return nil, err
		}
		model.Nodes = append(model.Nodes, def)
	}
	for _, out := range root.Outputs {
		model.Outputs = append(model.Outputs, &config.Output{
			Name:  out.Name,
			Value: out.Value,
			Range: out.Value.Range(),
		})
	}
	return model, nil
}

func translateInput(ctx context.Context, in *inputBlock) (*config.Input, error) {
	dt, err := typeExprToDataType(ctx, in.Type)
	if err != nil {
		return nil, fmt.Errorf("input '%s': %w", in.Name, err)
	}
	return &config.Input{Name: in.Name, Type: dt, Range: in.Type.Range()}, nil
}

func translateNode(ctx context.Context, n *nodeBlock) (*config.Node, error) {
	logger := ctxlog.FromContext(ctx).With("node", n.Name, "function", n.Function)
	args, diags := argExprs(n.Args)
	if diags.HasErrors() {
		return nil, fmt.Errorf("node '%s': args must be a list: %w", n.Name, diags)
	}
	logger.Debug("Translated node block.", "arg_count", len(args))
	return &config.Node{
		Name:     n.Name,
		Function: n.Function,
		Args:     args,
		Range:    n.Args.Range(),
	}, nil
}

// argExprs splits a tuple expression into its element expressions. A missing
// `args` attribute decodes to a static null and yields no arguments.
func argExprs(expr hcl.Expression) ([]hcl.Expression, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}
	if len(expr.Variables()) == 0 {
		if v, diags := expr.Value(nil); !diags.HasErrors() && v.IsNull() {
			return nil, nil
		}
	}
	return hcl.ExprList(expr)
}
