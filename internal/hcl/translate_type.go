// This file contains the logic for parsing HCL type expressions (e.g. `string`,
// `list(number)`) into socket data types.

package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/datatype"
	"github.com/zclconf/go-cty/cty"
)

// typeExprToDataType converts an HCL type expression into a DataType. Only
// primitives and lists of primitives are valid socket types.
func typeExprToDataType(ctx context.Context, expr hcl.Expression) (datatype.DataType, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a function call.", "call", v.Name)
		if v.Name != "list" {
			return datatype.DataType{}, fmt.Errorf("unknown type constructor %q", v.Name)
		}
		if len(v.Args) != 1 {
			return datatype.DataType{}, fmt.Errorf("list() requires exactly one argument, got %d", len(v.Args))
		}
		elem, err := primitiveType(v.Args[0])
		if err != nil {
			return datatype.DataType{}, fmt.Errorf("list element: %w", err)
		}
		return datatype.Vector(elem), nil

	case *hclsyntax.ScopeTraversalExpr:
		t, err := primitiveType(v)
		if err != nil {
			return datatype.DataType{}, err
		}
		logger.Debug("Parsed primitive type.", "type", t.FriendlyName())
		return datatype.Single(t), nil

	default:
		return datatype.DataType{}, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

func primitiveType(expr hcl.Expression) (cty.Type, error) {
	switch hcl.ExprAsKeyword(expr) {
	case "number":
		return cty.Number, nil
	case "string":
		return cty.String, nil
	case "bool":
		return cty.Bool, nil
	case "":
		return cty.NilType, fmt.Errorf("expected a primitive type keyword, got %T", expr)
	default:
		return cty.NilType, fmt.Errorf("unknown primitive type %q", hcl.ExprAsKeyword(expr))
	}
}
