package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/mfnet/internal/config"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/datatype"
	"github.com/vk/mfnet/internal/function"
	"github.com/vk/mfnet/internal/network"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// linkNodes performs the second pass. Nodes are linked in model order, then
// the output dummies are created.
func (b *build) linkNodes(ctx context.Context, model *config.Model, res *Result) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting linking pass.")

	for _, n := range model.Nodes {
		if err := b.linkArgs(ctx, n); err != nil {
			return fmt.Errorf("node '%s': %w", n.Name, err)
		}
	}

	for _, out := range model.Outputs {
		origin, err := b.resolve(out.Value, nil, out.Name+"."+function.ConstantOutputName)
		if err != nil {
			return fmt.Errorf("output '%s': %w", out.Name, err)
		}
		if origin == nil {
			return fmt.Errorf("output '%s' (%s): %w: value must not be null", out.Name, out.Range, ErrTypeMismatch)
		}
		node := b.net.AddDummy(out.Name, []network.SocketSpec{{Name: out.Name, Type: origin.DataType()}}, nil)
		b.net.AddLink(origin, node.Input(0))
		res.Outputs = append(res.Outputs, node)
		logger.Debug("Created output node.", "name", out.Name, "origin", origin.String())
	}
	return nil
}

func (b *build) linkArgs(ctx context.Context, n *config.Node) error {
	logger := ctxlog.FromContext(ctx).With("node", n.Name)
	node := b.nodes[n.Name]
	inputs := node.Inputs()
	if len(n.Args) > len(inputs) {
		return fmt.Errorf("%w: %s takes %d arguments, got %d", ErrArity, node.Function().Name(), len(inputs), len(n.Args))
	}

	for i, socket := range inputs {
		param := node.Function().Inputs()[i]
		var origin *network.OutputSocket
		if i < len(n.Args) {
			dt := socket.DataType()
			var err error
			origin, err = b.resolve(n.Args[i], &dt, n.Name+"."+socket.Name())
			if err != nil {
				return fmt.Errorf("argument '%s': %w", socket.Name(), err)
			}
		}
		if origin == nil {
			if param.Default == nil {
				return fmt.Errorf("%w: argument '%s' has no default and must be set", ErrArity, socket.Name())
			}
			logger.Debug("Argument left unconnected.", "socket", socket.Name())
			continue
		}
		if !origin.DataType().Equals(socket.DataType()) {
			return fmt.Errorf("%w: argument '%s' expects %s, %s is %s",
				ErrTypeMismatch, socket.Name(), socket.DataType(), origin, origin.DataType())
		}
		b.net.AddLink(origin, socket)
	}
	return nil
}

// resolve returns the output socket an expression refers to. Literals are
// added as constant nodes named literalName; want is the socket type they are
// converted to, or nil to infer it from the value. A null literal resolves to
// nil.
func (b *build) resolve(expr hcl.Expression, want *datatype.DataType, literalName string) (*network.OutputSocket, error) {
	if len(expr.Variables()) > 0 {
		return b.resolveReference(expr)
	}

	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating literal: %w", diags)
	}
	if v.IsNull() {
		return nil, nil
	}

	var dt datatype.DataType
	if want != nil {
		dt = *want
	} else {
		var err error
		if dt, err = impliedDataType(v); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrTypeMismatch, err)
		}
	}
	fn, err := literal(v, dt)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrTypeMismatch, err)
	}
	return b.net.AddFunction(literalName, fn).Output(0), nil
}

func (b *build) resolveReference(expr hcl.Expression) (*network.OutputSocket, error) {
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: arguments must be a reference or a literal: %w", ErrUnknownReference, diags)
	}
	names := make([]string, 0, len(traversal))
	for _, step := range traversal {
		switch s := step.(type) {
		case hcl.TraverseRoot:
			names = append(names, s.Name)
		case hcl.TraverseAttr:
			names = append(names, s.Name)
		default:
			return nil, fmt.Errorf("%w: unsupported traversal step in %s", ErrUnknownReference, expr.Range())
		}
	}

	switch {
	case names[0] == "input" && len(names) == 2:
		node, ok := b.inputs[names[1]]
		if !ok {
			return nil, fmt.Errorf("%w: no input named '%s'", ErrUnknownReference, names[1])
		}
		return node.Output(0), nil

	case names[0] == "node" && (len(names) == 2 || len(names) == 3):
		node, ok := b.nodes[names[1]]
		if !ok {
			return nil, fmt.Errorf("%w: no node named '%s'", ErrUnknownReference, names[1])
		}
		if len(names) == 3 {
			socket, ok := node.OutputByName(names[2])
			if !ok {
				return nil, fmt.Errorf("%w: node '%s' has no output '%s'", ErrUnknownReference, names[1], names[2])
			}
			return socket, nil
		}
		if len(node.Outputs()) != 1 {
			return nil, fmt.Errorf("%w: node '%s' has %d outputs, name one of them", ErrUnknownReference, names[1], len(node.Outputs()))
		}
		return node.Output(0), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownReference, strings.Join(names, "."))
	}
}

// literal converts v to dt and wraps it in a constant function.
func literal(v cty.Value, dt datatype.DataType) (*function.Function, error) {
	converted, err := convert.Convert(v, dt.CtyType())
	if err != nil {
		return nil, fmt.Errorf("cannot use %s as %s: %w", v.Type().FriendlyName(), dt, err)
	}
	if !converted.IsWhollyKnown() {
		return nil, fmt.Errorf("literal must be known")
	}
	if dt.IsSingle() {
		return function.ConstantValue(converted), nil
	}
	elems := converted.AsValueSlice()
	for i, e := range elems {
		if e.IsNull() {
			return nil, fmt.Errorf("list element %d is null", i)
		}
	}
	return function.ConstantVector(dt.Base, elems), nil
}

// impliedDataType picks a socket type for a literal without a target socket.
// Tuples such as [1, 2] become lists of their unified element type.
func impliedDataType(v cty.Value) (datatype.DataType, error) {
	t := v.Type()
	if t.IsTupleType() {
		elems := t.TupleElementTypes()
		if len(elems) == 0 {
			return datatype.DataType{}, fmt.Errorf("cannot infer the element type of an empty list")
		}
		unified, _ := convert.UnifyUnsafe(elems)
		if unified == cty.NilType {
			return datatype.DataType{}, fmt.Errorf("list elements have no common type")
		}
		t = cty.List(unified)
	}
	return datatype.FromCtyType(t)
}
