// Package function defines the descriptors wrapped by function nodes.
//
// A Function is plain data: a name, an ordered input and output signature,
// whether its result depends on the evaluation context, and an optional
// operation identity. Two functions with equal operation identities must
// always produce equal outputs for equal inputs, which lets the optimizer
// merge their invocations.
package function

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vk/mfnet/internal/datatype"
	"github.com/zclconf/go-cty/cty"
)

// Param is one input or output slot of a function signature.
type Param struct {
	Name string
	Type datatype.DataType
	// Default is used for an input that has no origin. Inputs without a
	// default must be connected to be evaluated.
	Default *cty.Value
}

// CallFunc computes the outputs of one batch element.
type CallFunc func(cc *CallContext, args []cty.Value) ([]cty.Value, error)

// CallContext is handed to a CallFunc for every batch element.
type CallContext struct {
	// Index is the batch element being computed.
	Index int
	// Values holds the context values of the evaluation, keyed by name.
	Values map[string]cty.Value
}

// Value returns the context value stored under key.
func (cc *CallContext) Value(key string) (cty.Value, bool) {
	if cc == nil || cc.Values == nil {
		return cty.NilVal, false
	}
	v, ok := cc.Values[key]
	return v, ok
}

// Function is an immutable function descriptor.
type Function struct {
	name             string
	inputs           []Param
	outputs          []Param
	dependsOnContext bool
	hasHash          bool
	hash             uint32
	constant         *cty.Value
	call             CallFunc
}

// Option configures a Function at construction time.
type Option func(*Function)

// WithOperationHash gives the function an explicit operation identity.
func WithOperationHash(h uint32) Option {
	return func(f *Function) {
		f.hasHash = true
		f.hash = h
	}
}

// WithNameHash derives the operation identity from the function name. Only
// use it for functions whose behaviour is fully determined by their name.
func WithNameHash() Option {
	return func(f *Function) {
		f.hasHash = true
		f.hash = HashString(f.name)
	}
}

// DependsOnContext marks the function as reading external context.
func DependsOnContext() Option {
	return func(f *Function) { f.dependsOnContext = true }
}

// WithDefault sets the default value of the named input.
func WithDefault(input string, v cty.Value) Option {
	return func(f *Function) {
		for i := range f.inputs {
			if f.inputs[i].Name == input {
				f.inputs[i].Default = &v
				return
			}
		}
		panic(fmt.Sprintf("function %q has no input %q", f.name, input))
	}
}

// New creates a function descriptor.
func New(name string, inputs, outputs []Param, call CallFunc, opts ...Option) *Function {
	if call == nil {
		panic(fmt.Sprintf("function %q: call body must not be nil", name))
	}
	f := &Function{
		name:    name,
		inputs:  inputs,
		outputs: outputs,
		call:    call,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Function) Name() string { return f.name }

// Inputs returns the input params in socket order.
func (f *Function) Inputs() []Param { return f.inputs }

// Outputs returns the output params in socket order.
func (f *Function) Outputs() []Param { return f.outputs }

// DependsOnContext reports whether the result depends on the evaluation
// context rather than on the inputs alone.
func (f *Function) DependsOnContext() bool { return f.dependsOnContext }

// OperationHash returns the operation identity, if the function has one.
func (f *Function) OperationHash() (uint32, bool) { return f.hash, f.hasHash }

// ConstantValue returns the literal produced by a constant function.
func (f *Function) ConstantValue() (cty.Value, bool) {
	if f.constant == nil {
		return cty.NilVal, false
	}
	return *f.constant, true
}

// Call computes one batch element. The number of arguments and results is
// checked against the signature.
func (f *Function) Call(cc *CallContext, args []cty.Value) ([]cty.Value, error) {
	if len(args) != len(f.inputs) {
		return nil, fmt.Errorf("function %q expects %d arguments, got %d", f.name, len(f.inputs), len(args))
	}
	results, err := f.call(cc, args)
	if err != nil {
		return nil, err
	}
	if len(results) != len(f.outputs) {
		return nil, fmt.Errorf("function %q returned %d results, signature declares %d", f.name, len(results), len(f.outputs))
	}
	return results, nil
}

func (f *Function) String() string {
	return f.name
}

// HashString folds a string into a 32 bit identity.
func HashString(s string) uint32 {
	h := xxhash.Sum64String(s)
	return uint32(h) ^ uint32(h>>32)
}
