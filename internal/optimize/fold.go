package optimize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/evaluate"
	"github.com/vk/mfnet/internal/function"
	"github.com/vk/mfnet/internal/network"
	"github.com/vk/mfnet/internal/resource"
	"github.com/zclconf/go-cty/cty"
	"go.opentelemetry.io/otel/attribute"
)

// ErrFoldEvaluation is returned when the constant region of a network fails
// to evaluate.
var ErrFoldEvaluation = errors.New("constant folding evaluation failed")

// ProbeName is the name of the temporary dummy nodes inserted while folding.
const ProbeName = "probe"

// FoldStats summarizes one FoldConstants call.
type FoldStats struct {
	// Probes is the number of constant outputs that fed a non-constant node.
	Probes int
	// Folded is the number of literal nodes created.
	Folded int
}

type probe struct {
	node   *network.Node
	origin *network.OutputSocket
}

// FoldConstants evaluates every output of the constant region that feeds a
// non-constant node and replaces it with a literal node. A node is constant
// when no dummy node and no context-dependent function lies upstream of it.
// Source nodes without inputs are left as they are. The folded region is
// left for RemoveUnusedNodes.
//
// Evaluated values are owned by resources. If evaluation fails, the network
// is left unchanged and the error wraps ErrFoldEvaluation.
func FoldConstants(ctx context.Context, net *network.Network, resources *resource.Collector) (stats FoldStats, err error) {
	start := time.Now()
	ctx, span := startPassSpan(ctx, PassFoldConstants, net.NodeCount())
	defer func() {
		recordFolded(ctx, stats.Folded)
		recordPass(ctx, PassFoldConstants, time.Since(start), err)
		endSpan(span, err,
			attribute.Int("optimize.probes", stats.Probes),
			attribute.Int("optimize.folded", stats.Folded),
		)
	}()
	logger := ctxlog.FromContext(ctx)

	probes := insertProbes(net)
	stats.Probes = len(probes)
	if len(probes) == 0 {
		logger.Debug("No constant outputs to fold.")
		return stats, nil
	}
	defer func() {
		for _, p := range probes {
			net.RemoveNode(p.node)
		}
	}()

	literals, err := evaluateProbes(ctx, probes, resources)
	if err != nil {
		return stats, err
	}

	for i, p := range probes {
		folded := net.AddFunction(p.origin.Node().Name()+"."+p.origin.Name(), literals[i])
		for _, target := range p.origin.Targets() {
			if target.Node() == p.node {
				continue
			}
			net.RelinkOrigin(folded.Output(0), target)
		}
		stats.Folded++
	}
	logger.Debug("Folded constants.", "probes", stats.Probes, "folded", stats.Folded)
	return stats, nil
}

func insertProbes(net *network.Network) []probe {
	roots := net.DummyNodes()
	for _, node := range net.FunctionNodes() {
		if node.Function().DependsOnContext() {
			roots = append(roots, node)
		}
	}
	nonConstant := net.NodesToTheRightOfInclusive(roots)

	var probes []probe
	for _, node := range net.NodesByInvertedMask(nonConstant) {
		if len(node.Inputs()) == 0 {
			continue
		}
		for _, out := range node.Outputs() {
			for _, target := range out.Targets() {
				if !nonConstant[target.Node().ID()] {
					continue
				}
				dummy := net.AddDummy(ProbeName,
					[]network.SocketSpec{{Name: out.Name(), Type: out.DataType()}}, nil)
				net.AddLink(out, dummy.Input(0))
				probes = append(probes, probe{node: dummy, origin: out})
				break
			}
		}
	}
	return probes
}

// evaluateProbes computes every probe in one call with a batch of one and an
// empty context, and returns a literal function per probe.
func evaluateProbes(ctx context.Context, probes []probe, resources *resource.Collector) ([]*function.Function, error) {
	targets := make([]*network.InputSocket, len(probes))
	for i, p := range probes {
		targets[i] = p.node.Input(0)
	}
	fn := evaluate.NewNetworkFunction(nil, targets)
	params := evaluate.NewParams(fn, 1)

	for _, i := range fn.ParamIndices() {
		dt := fn.ParamType(i).DataType
		var err error
		if dt.IsVector() {
			err = params.AddVectorOutput(resource.Construct(resources, "constant vector", *evaluate.NewVectorArray(dt.Base, 1)))
		} else {
			err = params.AddSingleOutput(resource.Construct(resources, "constant value", *evaluate.NewSingleArray(dt, 1)))
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFoldEvaluation, err)
		}
	}

	if err := fn.Call(ctx, evaluate.Range(1), params, evaluate.NewContext(nil)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFoldEvaluation, err)
	}

	literals := make([]*function.Function, len(probes))
	for _, i := range fn.ParamIndices() {
		dt := fn.ParamType(i).DataType
		if dt.IsVector() {
			arr := params.ComputedVectorArray(i)
			if err := checkLiterals(arr.Elems[0]...); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrFoldEvaluation, probes[i].origin, err)
			}
			literals[i] = function.ConstantVector(dt.Base, arr.Elems[0])
		} else {
			v := params.ComputedArray(i).Values[0]
			if err := checkLiterals(v); err != nil {
				return nil, fmt.Errorf("%w: %s: %w", ErrFoldEvaluation, probes[i].origin, err)
			}
			literals[i] = function.ConstantValue(v)
		}
	}
	return literals, nil
}

var errNotLiteral = errors.New("result is null or unknown")

func checkLiterals(values ...cty.Value) error {
	for _, v := range values {
		if v.IsNull() || !v.IsWhollyKnown() {
			return errNotLiteral
		}
	}
	return nil
}
