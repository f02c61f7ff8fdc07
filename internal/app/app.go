package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/mfnet/internal/config"
	"github.com/vk/mfnet/internal/ctxlog"
	"github.com/vk/mfnet/internal/optimize"
	"github.com/vk/mfnet/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	model    *config.Model
	pipeline *optimize.Pipeline
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// Startup failures are fatal and panic.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.NetworkPath)
	if err != nil {
		panic(fmt.Errorf("failed to load network: %w", err))
	}
	logger.Debug("Network loaded and translated into unified model.", "blocks", model.Len())

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.Load(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "functions", reg.Len())

	if err := reg.Validate(ctx); err != nil {
		panic(err)
	}
	logger.Debug("Registry validation passed.")

	pipelineCfg, err := pipelineConfig(appConfig)
	if err != nil {
		panic(err)
	}
	pipeline, err := optimize.NewPipeline(pipelineCfg)
	if err != nil {
		panic(err)
	}
	logger.Debug("Pipeline configured.", "passes", pipelineCfg.Passes, "max_iterations", pipelineCfg.MaxIterations)

	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		model:    model,
		pipeline: pipeline,
	}
}

// pipelineConfig loads the pipeline file and applies the overrides of cfg.
func pipelineConfig(cfg *Config) (optimize.PipelineConfig, error) {
	pc, err := optimize.LoadPipelineConfig(cfg.PipelinePath)
	if err != nil {
		return pc, fmt.Errorf("failed to load pipeline config: %w", err)
	}
	if len(cfg.Passes) > 0 {
		pc.Passes = cfg.Passes
	}
	if cfg.MaxIterations > 0 {
		pc.MaxIterations = cfg.MaxIterations
	}
	if cfg.Seed != nil {
		pc.Seed = *cfg.Seed
	}
	return pc, pc.Validate()
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Model returns the loaded network model.
func (a *App) Model() *config.Model {
	return a.model
}

// Pipeline returns the configured optimizer pipeline.
func (a *App) Pipeline() *optimize.Pipeline {
	return a.pipeline
}
