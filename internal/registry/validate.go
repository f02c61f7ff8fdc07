package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/function"
	"github.com/zclconf/go-cty/cty"
)

// Validate checks every registered descriptor for problems that would only
// show up while building or optimizing a network.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.Names() {
		fn := r.functions[name]
		if !strings.Contains(name, ".") {
			errs = append(errs, fmt.Sprintf("function '%s': name must be qualified by its module, e.g. 'math.add'", name))
		}
		if len(fn.Outputs()) == 0 {
			errs = append(errs, fmt.Sprintf("function '%s': declares no outputs", name))
		}
		errs = append(errs, checkParams(name, "input", fn.Inputs())...)
		errs = append(errs, checkParams(name, "output", fn.Outputs())...)

		if _, ok := fn.OperationHash(); ok && fn.DependsOnContext() {
			// Equal identity is meaningless when the result depends on context,
			// but deduplication would still merge such nodes.
			errs = append(errs, fmt.Sprintf("function '%s': context-dependent functions must not declare an operation identity", name))
		}
		if _, ok := fn.OperationHash(); !ok && !fn.DependsOnContext() {
			logger.Debug("Function has no operation identity; its nodes are never merged.", "function", name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func checkParams(fnName, kind string, params []function.Param) []string {
	var errs []string
	seen := make(map[string]struct{}, len(params))
	for i, p := range params {
		if p.Name == "" {
			errs = append(errs, fmt.Sprintf("function '%s': %s %d has no name", fnName, kind, i))
			continue
		}
		if _, dup := seen[p.Name]; dup {
			errs = append(errs, fmt.Sprintf("function '%s': duplicate %s '%s'", fnName, kind, p.Name))
		}
		seen[p.Name] = struct{}{}
		if p.Type.Base == cty.NilType {
			errs = append(errs, fmt.Sprintf("function '%s': %s '%s' has no type", fnName, kind, p.Name))
		}
		if p.Default != nil && !p.Default.Type().Equals(p.Type.CtyType()) {
			errs = append(errs, fmt.Sprintf("function '%s': default of %s '%s' is %s, want %s",
				fnName, kind, p.Name, p.Default.Type().FriendlyName(), p.Type))
		}
	}
	return errs
}
