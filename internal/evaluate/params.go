package evaluate

import (
	"fmt"

	"github.com/vk/mfnet/internal/datatype"
	"github.com/zclconf/go-cty/cty"
)

// Params collects the arguments of one NetworkFunction call. Params must be
// added in param order: every input first, then every output.
type Params struct {
	fn      *NetworkFunction
	size    int
	inputs  [][]cty.Value
	singles map[int]*SingleArray
	vectors map[int]*VectorArray
	next    int
}

// NewParams creates a builder for a batch of size elements.
func NewParams(fn *NetworkFunction, size int) *Params {
	return &Params{
		fn:      fn,
		size:    size,
		singles: make(map[int]*SingleArray),
		vectors: make(map[int]*VectorArray),
	}
}

// Size is the batch size the params were built for.
func (p *Params) Size() int { return p.size }

func (p *Params) expect(iface Interface, dt datatype.DataType) (int, error) {
	if p.next >= p.fn.ParamCount() {
		return 0, fmt.Errorf("evaluate: too many params, function takes %d", p.fn.ParamCount())
	}
	want := p.fn.ParamType(p.next)
	if want.Interface != iface {
		return 0, fmt.Errorf("evaluate: param %d is an %s", p.next, want.Interface)
	}
	if !want.DataType.Equals(dt) {
		return 0, fmt.Errorf("evaluate: param %d has type %s, got %s", p.next, want.DataType, dt)
	}
	idx := p.next
	p.next++
	return idx, nil
}

func (p *Params) broadcast(values []cty.Value) ([]cty.Value, error) {
	switch len(values) {
	case p.size:
		return values, nil
	case 1:
		out := make([]cty.Value, p.size)
		for i := range out {
			out[i] = values[0]
		}
		return out, nil
	default:
		return nil, fmt.Errorf("evaluate: expected 1 or %d values, got %d", p.size, len(values))
	}
}

// AddSingleInput adds the next input param. A single value is broadcast to
// every batch element.
func (p *Params) AddSingleInput(dt datatype.DataType, values ...cty.Value) error {
	if _, err := p.expect(Input, dt); err != nil {
		return err
	}
	values, err := p.broadcast(values)
	if err != nil {
		return err
	}
	p.inputs = append(p.inputs, values)
	return nil
}

// AddVectorInput adds the next input param from Go slices of elements. A
// single list is broadcast to every batch element.
func (p *Params) AddVectorInput(elem cty.Type, lists ...[]cty.Value) error {
	if _, err := p.expect(Input, datatype.Vector(elem)); err != nil {
		return err
	}
	values := make([]cty.Value, len(lists))
	for i, l := range lists {
		values[i] = listOf(elem, l)
	}
	values, err := p.broadcast(values)
	if err != nil {
		return err
	}
	p.inputs = append(p.inputs, values)
	return nil
}

// AddSingleOutput adds the next output param. The array receives the result.
func (p *Params) AddSingleOutput(arr *SingleArray) error {
	idx, err := p.expect(Output, arr.Type)
	if err != nil {
		return err
	}
	if len(arr.Values) < p.size {
		return fmt.Errorf("evaluate: output %d holds %d elements, batch has %d", idx, len(arr.Values), p.size)
	}
	p.singles[idx] = arr
	return nil
}

// AddVectorOutput adds the next output param. The array receives the result.
func (p *Params) AddVectorOutput(arr *VectorArray) error {
	idx, err := p.expect(Output, arr.DataType())
	if err != nil {
		return err
	}
	if len(arr.Elems) < p.size {
		return fmt.Errorf("evaluate: output %d holds %d elements, batch has %d", idx, len(arr.Elems), p.size)
	}
	p.vectors[idx] = arr
	return nil
}

// ComputedArray returns the single output array registered for param i.
func (p *Params) ComputedArray(i int) *SingleArray {
	return p.singles[i]
}

// ComputedVectorArray returns the vector output array registered for param i.
func (p *Params) ComputedVectorArray(i int) *VectorArray {
	return p.vectors[i]
}

func (p *Params) complete() error {
	if p.next != p.fn.ParamCount() {
		return fmt.Errorf("evaluate: %d of %d params provided", p.next, p.fn.ParamCount())
	}
	return nil
}
