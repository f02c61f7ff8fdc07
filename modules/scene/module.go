// Package scene provides functions that read the evaluation context. None of
// them carry an operation identity and all of them are kept out of constant
// folding.
package scene

import (
	"fmt"

	"github.com/vk/mfnet/internal/datatype"
	"github.com/vk/mfnet/internal/function"
	"github.com/vk/mfnet/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Context keys read by this module.
const (
	TimeKey  = "time"
	FrameKey = "frame"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

func contextReader(key string) function.CallFunc {
	return func(cc *function.CallContext, _ []cty.Value) ([]cty.Value, error) {
		v, ok := cc.Value(key)
		if !ok {
			return nil, fmt.Errorf("context value %q is not set", key)
		}
		n, err := convert.Convert(v, cty.Number)
		if err != nil {
			return nil, fmt.Errorf("context value %q: %w", key, err)
		}
		return []cty.Value{n}, nil
	}
}

// Register registers the scene functions.
func (m *Module) Register(r *registry.Registry) {
	out := []function.Param{{Name: "value", Type: datatype.Single(cty.Number)}}
	r.Register(function.New("scene.time", nil, out, contextReader(TimeKey), function.DependsOnContext()))
	r.Register(function.New("scene.frame", nil, out, contextReader(FrameKey), function.DependsOnContext()))
}
