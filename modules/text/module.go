package text

import (
	"fmt"
	"strings"

	"github.com/vk/mfnet/internal/datatype"
	"github.com/vk/mfnet/internal/function"
	"github.com/vk/mfnet/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

var (
	str     = datatype.Single(cty.String)
	strList = datatype.Vector(cty.String)
	number  = datatype.Single(cty.Number)
)

// Repeat returns s repeated n times.
func Repeat(s string, n int) (string, error) {
	if n < 0 {
		return "", fmt.Errorf("negative repeat count %d", n)
	}
	return strings.Repeat(s, n), nil
}

// Register registers the text functions.
func (m *Module) Register(r *registry.Registry) {
	s := function.Param{Name: "value", Type: str}

	r.Register(function.FromCty("text.upper", stdlib.UpperFunc, []function.Param{s}, s, function.WithNameHash()))
	r.Register(function.FromCty("text.lower", stdlib.LowerFunc, []function.Param{s}, s, function.WithNameHash()))
	r.Register(function.FromCty("text.length", stdlib.StrlenFunc,
		[]function.Param{s}, function.Param{Name: "value", Type: number}, function.WithNameHash()))

	sep := cty.StringVal("")
	r.Register(function.FromCty("text.join", stdlib.JoinFunc,
		[]function.Param{
			{Name: "separator", Type: str, Default: &sep},
			{Name: "values", Type: strList},
		}, s, function.WithNameHash()))

	r.Register(function.MustNative("text.repeat", Repeat, []string{"value", "count"}, []string{"value"}, function.WithNameHash()))
}
