// Package evaluate computes values of sockets in a network.
//
// A NetworkFunction treats a set of output sockets as bound inputs and a set
// of input sockets as the values to compute. Everything upstream of the
// computed sockets is evaluated on demand, once per batch element.
package evaluate

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/vk/mfnet/internal/datatype"
	"github.com/vk/mfnet/internal/function"
	"github.com/vk/mfnet/internal/network"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnboundInput is returned when evaluation reaches a dummy output that
	// was not bound as an input of the call.
	ErrUnboundInput = errors.New("unbound input")
	// ErrMissingInput is returned when an unconnected input has no default.
	ErrMissingInput = errors.New("missing input")
)

// Interface tells whether a param is read or written by a call.
type Interface int

const (
	Input Interface = iota
	Output
)

func (i Interface) String() string {
	if i == Input {
		return "input"
	}
	return "output"
}

// ParamType describes one param of a NetworkFunction.
type ParamType struct {
	Interface Interface
	DataType  datatype.DataType
}

// NetworkFunction evaluates a sub-network.
type NetworkFunction struct {
	inputs  []*network.OutputSocket
	outputs []*network.InputSocket
	bound   map[*network.OutputSocket]int
}

// NewNetworkFunction creates a function whose params are inputs followed by
// outputs.
func NewNetworkFunction(inputs []*network.OutputSocket, outputs []*network.InputSocket) *NetworkFunction {
	bound := make(map[*network.OutputSocket]int, len(inputs))
	for i, s := range inputs {
		if s == nil {
			panic("evaluate: nil input socket")
		}
		bound[s] = i
	}
	for _, s := range outputs {
		if s == nil {
			panic("evaluate: nil output socket")
		}
	}
	return &NetworkFunction{inputs: inputs, outputs: outputs, bound: bound}
}

// ParamCount is the number of params.
func (f *NetworkFunction) ParamCount() int {
	return len(f.inputs) + len(f.outputs)
}

// ParamIndices returns 0..ParamCount()-1.
func (f *NetworkFunction) ParamIndices() []int {
	out := make([]int, f.ParamCount())
	for i := range out {
		out[i] = i
	}
	return out
}

// ParamType returns the type of param i.
func (f *NetworkFunction) ParamType(i int) ParamType {
	if i < len(f.inputs) {
		return ParamType{Interface: Input, DataType: f.inputs[i].DataType()}
	}
	return ParamType{Interface: Output, DataType: f.outputs[i-len(f.inputs)].DataType()}
}

// Context carries values that context-dependent functions may read.
type Context struct {
	values map[string]cty.Value
}

// NewContext creates a context holding a copy of values.
func NewContext(values map[string]cty.Value) *Context {
	c := &Context{values: make(map[string]cty.Value, len(values))}
	for k, v := range values {
		c.values[k] = v
	}
	return c
}

// Set stores a context value. Set must not be called during a Call.
func (c *Context) Set(key string, v cty.Value) {
	if c.values == nil {
		c.values = make(map[string]cty.Value)
	}
	c.values[key] = v
}

// Values returns the context values.
func (c *Context) Values() map[string]cty.Value {
	if c == nil {
		return nil
	}
	return c.values
}

// Call evaluates every index in mask. Indices run concurrently, each with
// its own memo, and write to distinct elements of the output arrays.
func (f *NetworkFunction) Call(ctx context.Context, mask IndexRange, params *Params, evalCtx *Context) error {
	if params.fn != f {
		return errors.New("evaluate: params were built for another function")
	}
	if err := params.complete(); err != nil {
		return err
	}
	if mask.Start < 0 || mask.End() > params.size {
		return fmt.Errorf("evaluate: mask [%d, %d) exceeds batch size %d", mask.Start, mask.End(), params.size)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := mask.Start; i < mask.End(); i++ {
		g.Go(func() error {
			return f.callIndex(gctx, i, params, evalCtx)
		})
	}
	return g.Wait()
}

// callIndex evaluates one batch element. A panicking function is reported as
// an error.
func (f *NetworkFunction) callIndex(ctx context.Context, index int, params *Params, evalCtx *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("evaluate: index %d panicked: %v", index, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return err
	}
	e := &evaluation{
		ctx:    ctx,
		fn:     f,
		index:  index,
		params: params,
		cc:     &function.CallContext{Index: index, Values: evalCtx.Values()},
		memo:   make(map[*network.OutputSocket]cty.Value),
	}
	for k, target := range f.outputs {
		v, err := e.input(target, nil)
		if err != nil {
			return err
		}
		paramIdx := len(f.inputs) + k
		if arr, ok := params.singles[paramIdx]; ok {
			arr.Values[index] = v
			continue
		}
		params.vectors[paramIdx].Elems[index] = listElems(v)
	}
	return nil
}

type evaluation struct {
	ctx    context.Context
	fn     *NetworkFunction
	index  int
	params *Params
	cc     *function.CallContext
	memo   map[*network.OutputSocket]cty.Value
}

// input resolves the value arriving at an input socket.
func (e *evaluation) input(s *network.InputSocket, param *function.Param) (cty.Value, error) {
	origin := s.Origin()
	if origin != nil {
		return e.output(origin)
	}
	if param != nil && param.Default != nil {
		return *param.Default, nil
	}
	return cty.NilVal, fmt.Errorf("%w: %s", ErrMissingInput, s)
}

// output computes the value of an output socket, evaluating its node once.
func (e *evaluation) output(s *network.OutputSocket) (cty.Value, error) {
	if v, ok := e.memo[s]; ok {
		return v, nil
	}
	if idx, ok := e.fn.bound[s]; ok {
		v := e.params.inputs[idx][e.index]
		e.memo[s] = v
		return v, nil
	}
	node := s.Node()
	if node.IsDummy() {
		return cty.NilVal, fmt.Errorf("%w: %s", ErrUnboundInput, s)
	}

	fn := node.Function()
	params := fn.Inputs()
	args := make([]cty.Value, len(params))
	for i, in := range node.Inputs() {
		v, err := e.input(in, &params[i])
		if err != nil {
			return cty.NilVal, err
		}
		args[i] = v
	}
	if err := e.ctx.Err(); err != nil {
		return cty.NilVal, err
	}
	results, err := fn.Call(e.cc, args)
	if err != nil {
		return cty.NilVal, fmt.Errorf("node %q (%s): %w", node.Name(), fn.Name(), err)
	}
	for i, out := range node.Outputs() {
		e.memo[out] = results[i]
	}
	return results[s.Index()], nil
}

// Bound pairs an input socket of a call with its value.
type Bound struct {
	Socket *network.OutputSocket
	Value  cty.Value
}

// EvaluateOnce computes targets for a batch of one element. Vector results
// are returned as cty lists.
func EvaluateOnce(ctx context.Context, bound []Bound, targets []*network.InputSocket, evalCtx *Context) ([]cty.Value, error) {
	inputs := make([]*network.OutputSocket, len(bound))
	for i, b := range bound {
		inputs[i] = b.Socket
	}
	fn := NewNetworkFunction(inputs, targets)
	params := NewParams(fn, 1)
	for _, b := range bound {
		dt := b.Socket.DataType()
		v, err := convertTo(b.Value, dt)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", b.Socket.Name(), err)
		}
		if dt.IsVector() {
			err = params.AddVectorInput(dt.Base, listElems(v))
		} else {
			err = params.AddSingleInput(dt, v)
		}
		if err != nil {
			return nil, err
		}
	}
	for _, t := range targets {
		dt := t.DataType()
		var err error
		if dt.IsVector() {
			err = params.AddVectorOutput(NewVectorArray(dt.Base, 1))
		} else {
			err = params.AddSingleOutput(NewSingleArray(dt, 1))
		}
		if err != nil {
			return nil, err
		}
	}
	if err := fn.Call(ctx, Range(1), params, evalCtx); err != nil {
		return nil, err
	}
	out := make([]cty.Value, len(targets))
	for k := range targets {
		idx := len(bound) + k
		if arr := params.ComputedArray(idx); arr != nil {
			out[k] = arr.Values[0]
		} else {
			out[k] = params.ComputedVectorArray(idx).List(0)
		}
	}
	return out, nil
}

func convertTo(v cty.Value, dt datatype.DataType) (cty.Value, error) {
	if v.IsNull() || !v.IsKnown() {
		return cty.NilVal, errors.New("value must be known and not null")
	}
	return convert.Convert(v, dt.CtyType())
}

func listElems(v cty.Value) []cty.Value {
	if v.LengthInt() == 0 {
		return nil
	}
	return v.AsValueSlice()
}
