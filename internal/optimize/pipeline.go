package optimize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/network"
	"github.com/vk/mfnet/internal/resource"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"
)

// Pass names accepted in a pipeline configuration.
const (
	PassDeduplicate   = "deduplicate"
	PassRemoveUnused  = "remove_unused"
	PassFoldConstants = "fold_constants"
)

// ErrUnknownPass is returned for a pass name the pipeline does not know.
var ErrUnknownPass = errors.New("unknown optimizer pass")

// PipelineConfig selects the passes to run and how often to repeat them.
type PipelineConfig struct {
	// Passes run in order on every iteration.
	Passes []string `yaml:"passes"`
	// MaxIterations bounds how often the pass list is repeated. Iteration
	// stops early once a whole round changes nothing.
	MaxIterations int `yaml:"max_iterations"`
	// Seed initializes the hash generator of every deduplicate pass.
	Seed uint64 `yaml:"seed"`
}

// DefaultPipelineConfig returns the standard pass order.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Passes:        []string{PassDeduplicate, PassRemoveUnused, PassFoldConstants, PassRemoveUnused},
		MaxIterations: 4,
		Seed:          0,
	}
}

// Validate checks that the configuration is valid.
func (c PipelineConfig) Validate() error {
	if len(c.Passes) == 0 {
		return errors.New("passes must not be empty")
	}
	for _, p := range c.Passes {
		switch p {
		case PassDeduplicate, PassRemoveUnused, PassFoldConstants:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownPass, p)
		}
	}
	if c.MaxIterations < 1 {
		return errors.New("max_iterations must be >= 1")
	}
	return nil
}

// LoadPipelineConfig reads a YAML pipeline file on top of the defaults. An
// empty path returns the defaults.
func LoadPipelineConfig(path string) (PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load pipeline config: %w", err)
	}
	return ParsePipelineConfig(data)
}

// ParsePipelineConfig decodes YAML on top of the defaults and validates the
// result.
func ParsePipelineConfig(data []byte) (PipelineConfig, error) {
	cfg := DefaultPipelineConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshaling pipeline YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid pipeline config: %w", err)
	}
	return cfg, nil
}

// PassResult records one pass run.
type PassResult struct {
	Iteration int
	Pass      string
	// Changes counts relinked inputs, removed nodes or folded outputs,
	// depending on the pass.
	Changes  int
	Duration time.Duration
}

// Report summarizes a pipeline run.
type Report struct {
	Iterations  int
	Converged   bool
	NodesBefore int
	NodesAfter  int
	LinksBefore int
	LinksAfter  int
	Passes      []PassResult
}

// Changes returns the total number of changes made by the named pass.
func (r *Report) Changes(pass string) int {
	total := 0
	for _, p := range r.Passes {
		if p.Pass == pass {
			total += p.Changes
		}
	}
	return total
}

// Pipeline runs optimizer passes in a configured order.
type Pipeline struct {
	cfg PipelineConfig
}

// NewPipeline creates a pipeline after validating cfg.
func NewPipeline(cfg PipelineConfig) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg}, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() PipelineConfig { return p.cfg }

// Run repeats the pass list until a round changes nothing or the iteration
// limit is reached. Values produced by folding are owned by resources.
func (p *Pipeline) Run(ctx context.Context, net *network.Network, resources *resource.Collector) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	ctx, span := tracer.Start(ctx, "optimize.Pipeline.Run")
	report := &Report{NodesBefore: net.NodeCount(), LinksBefore: net.LinkCount()}

	var runErr error
	for iter := 1; iter <= p.cfg.MaxIterations; iter++ {
		report.Iterations = iter
		changed := false
		for _, pass := range p.cfg.Passes {
			start := time.Now()
			n, err := p.runPass(ctx, pass, net, resources)
			if err != nil {
				runErr = fmt.Errorf("iteration %d, pass %s: %w", iter, pass, err)
				break
			}
			report.Passes = append(report.Passes, PassResult{
				Iteration: iter,
				Pass:      pass,
				Changes:   n,
				Duration:  time.Since(start),
			})
			if n > 0 {
				changed = true
			}
		}
		if runErr != nil {
			break
		}
		logger.Debug("Pipeline iteration complete.", "iteration", iter, "changed", changed, "nodes", net.NodeCount())
		if !changed {
			report.Converged = true
			break
		}
	}

	report.NodesAfter = net.NodeCount()
	report.LinksAfter = net.LinkCount()
	endSpan(span, runErr,
		attribute.Int("optimize.iterations", report.Iterations),
		attribute.Bool("optimize.converged", report.Converged),
		attribute.Int("network.nodes_before", report.NodesBefore),
		attribute.Int("network.nodes_after", report.NodesAfter),
	)
	if runErr != nil {
		return report, runErr
	}
	logger.Info("Optimized network.",
		"iterations", report.Iterations,
		"converged", report.Converged,
		"nodes_before", report.NodesBefore,
		"nodes_after", report.NodesAfter,
	)
	return report, nil
}

func (p *Pipeline) runPass(ctx context.Context, pass string, net *network.Network, resources *resource.Collector) (int, error) {
	switch pass {
	case PassDeduplicate:
		return Deduplicate(ctx, net, p.cfg.Seed).Relinked, nil
	case PassRemoveUnused:
		return RemoveUnusedNodes(ctx, net), nil
	case PassFoldConstants:
		stats, err := FoldConstants(ctx, net, resources)
		return stats.Folded, err
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPass, pass)
	}
}
