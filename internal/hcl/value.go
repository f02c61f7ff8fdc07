package hcl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// ParseValue evaluates src as a standalone HCL expression without variables,
// e.g. `3`, `"text"` or `[1, 2]`.
func ParseValue(src string) (cty.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<value>", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("parsing %q: %w", src, diags)
	}
	v, diags := expr.Value(nil)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("evaluating %q: %w", src, diags)
	}
	return v, nil
}

// ParseAssignment splits a `name=expression` pair and evaluates the
// expression.
func ParseAssignment(s string) (string, cty.Value, error) {
	name, src, ok := strings.Cut(s, "=")
	if !ok {
		return "", cty.NilVal, fmt.Errorf("expected name=value, got %q", s)
	}
	if !hclsyntax.ValidIdentifier(name) {
		return "", cty.NilVal, fmt.Errorf("invalid name %q in %q", name, s)
	}
	v, err := ParseValue(src)
	if err != nil {
		return "", cty.NilVal, err
	}
	return name, v, nil
}
