package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/vk/mfnet/internal/builder"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/evaluate"
	"github.com/vk/mfnet/internal/resource"
	"github.com/vk/mfnet/internal/telemetry"
	"github.com/zclconf/go-cty/cty"
)

// ErrOutputChanged is returned when an evaluated output differs before and
// after optimization.
var ErrOutputChanged = errors.New("optimization changed a network output")

// Run builds the network, optimizes it and writes the result.
func (a *App) Run(ctx context.Context, appConfig *Config) (err error) {
	ctx, logger := ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "run_id", uuid.NewString())
	logger.Debug("App.Run method started.")

	telemetryCfg := telemetry.DefaultConfig()
	telemetryCfg.Exporter = appConfig.Telemetry
	telemetryCfg.Writer = a.outW
	shutdown, err := telemetry.Init(ctx, telemetryCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		err = errors.Join(err, shutdown(context.WithoutCancel(ctx)))
	}()

	built, err := builder.Build(ctx, a.model, a.registry)
	if err != nil {
		return fmt.Errorf("failed to build network: %w", err)
	}

	var before []cty.Value
	if appConfig.Evaluate {
		if before, err = a.evaluate(ctx, built, appConfig); err != nil {
			return fmt.Errorf("evaluation before optimization failed: %w", err)
		}
	}

	resources := resource.NewCollector()
	defer resources.CloseContext(ctx)

	logger.Info("Starting optimization.", "nodes", built.Network.NodeCount())
	report, err := a.pipeline.Run(ctx, built.Network, resources)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	out, closeOut, err := a.output(appConfig.OutputPath)
	if err != nil {
		return err
	}
	defer closeOut()

	switch appConfig.Format {
	case FormatSummary:
		err = writeSummary(out, report)
	case FormatDOT:
		err = built.Network.WriteDOT(out)
	}
	if err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if appConfig.Evaluate {
		after, err := a.evaluate(ctx, built, appConfig)
		if err != nil {
			return fmt.Errorf("evaluation after optimization failed: %w", err)
		}
		for i, node := range built.Outputs {
			if !before[i].Equals(after[i]).True() {
				return fmt.Errorf("%w: %s", ErrOutputChanged, node.Name())
			}
		}
		if err := writeValues(out, built, after); err != nil {
			return fmt.Errorf("failed to write values: %w", err)
		}
	}

	logger.Debug("App.Run method finished.")
	return nil
}

// evaluate computes every network output with the configured bindings.
func (a *App) evaluate(ctx context.Context, built *builder.Result, cfg *Config) ([]cty.Value, error) {
	bound := make([]evaluate.Bound, 0, len(cfg.Set))
	for name, v := range cfg.Set {
		node, ok := built.Input(name)
		if !ok {
			return nil, fmt.Errorf("no network input named %q", name)
		}
		bound = append(bound, evaluate.Bound{Socket: node.Output(0), Value: v})
	}
	return evaluate.EvaluateOnce(ctx, bound, built.Targets(), evaluate.NewContext(cfg.Context))
}

func (a *App) output(path string) (io.Writer, func(), error) {
	if path == "" {
		return a.outW, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, func() {
		if err := f.Close(); err != nil {
			a.logger.Error("Failed to close output file.", "path", path, "error", err)
		}
	}, nil
}
