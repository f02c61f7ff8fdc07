package app

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vk/mfnet/internal/telemetry"
	"github.com/zclconf/go-cty/cty"
)

// Output formats accepted by Config.Format.
const (
	FormatSummary = "summary"
	FormatDOT     = "dot"
	FormatNone    = "none"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	NetworkPath  string // hcl file or directory
	PipelinePath string // optional pipeline YAML
	OutputPath   string // result file, stdout when empty

	// Passes, MaxIterations and Seed override the pipeline file when set.
	Passes        []string
	MaxIterations int
	Seed          *uint64

	Format    string
	Evaluate  bool
	Set       map[string]cty.Value // network input bindings
	Context   map[string]cty.Value // evaluation context values
	Telemetry string

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.NetworkPath == "" {
		return nil, errors.New("NetworkPath is a required configuration field and cannot be empty")
	}
	if cfg.Format == "" {
		cfg.Format = FormatSummary
	}
	if !slices.Contains([]string{FormatSummary, FormatDOT, FormatNone}, cfg.Format) {
		return nil, fmt.Errorf("invalid format %q: must be 'summary', 'dot' or 'none'", cfg.Format)
	}
	if cfg.Telemetry == "" {
		cfg.Telemetry = telemetry.ExporterNone
	}
	if cfg.Telemetry != telemetry.ExporterNone && cfg.Telemetry != telemetry.ExporterStdout {
		return nil, fmt.Errorf("invalid telemetry exporter %q: must be 'none' or 'stdout'", cfg.Telemetry)
	}
	if cfg.MaxIterations < 0 {
		return nil, fmt.Errorf("max iterations must not be negative, got %d", cfg.MaxIterations)
	}
	if (len(cfg.Set) > 0 || len(cfg.Context) > 0) && !cfg.Evaluate {
		return nil, errors.New("input and context values are only used with evaluation enabled")
	}
	return &cfg, nil
}
