// Package telemetry wires the OpenTelemetry SDK behind the otel API used by
// the optimizer. Only the stdout exporters are supported; with the "none"
// exporter the global no-op providers stay in place.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Exporter names accepted by Config.Exporter.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// ErrUnknownExporter is returned by Init for an unsupported exporter name.
var ErrUnknownExporter = errors.New("unknown telemetry exporter")

// Config controls telemetry behavior.
type Config struct {
	// ServiceName identifies this process in traces and metrics.
	ServiceName string
	// ServiceVersion is the version string reported with every signal.
	ServiceVersion string
	// Exporter selects the exporter: "stdout" or "none".
	Exporter string
	// Writer receives the stdout exporters' output. Defaults to os.Stderr.
	Writer io.Writer
}

// DefaultConfig returns a configuration with exporting disabled.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "mfnet",
		ServiceVersion: "dev",
		Exporter:       ExporterNone,
	}
}

// Init installs global tracer and meter providers for cfg. The returned
// shutdown func flushes and stops them and must be called before exit.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			if err := fn(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	switch cfg.Exporter {
	case ExporterNone, "":
		return shutdown, nil
	case ExporterStdout:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.Exporter)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	tp, err := initTracer(w, res)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	otel.SetTracerProvider(tp)
	shutdownFuncs = append(shutdownFuncs, tp.Shutdown)

	mp, err := initMeter(w, res)
	if err != nil {
		_ = shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}
	otel.SetMeterProvider(mp)
	shutdownFuncs = append(shutdownFuncs, mp.Shutdown)

	return shutdown, nil
}

// initTracer exports spans synchronously; a CLI run is too short-lived for
// batching to pay off.
func initTracer(w io.Writer, res *resource.Resource) (*trace.TracerProvider, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create stdout trace exporter: %w", err)
	}
	return trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithResource(res),
		trace.WithSampler(trace.AlwaysSample()),
	), nil
}

// initMeter collects metrics periodically; shutdown performs a final export.
func initMeter(w io.Writer, res *resource.Resource) (*metric.MeterProvider, error) {
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w), stdoutmetric.WithPrettyPrint())
	if err != nil {
		return nil, fmt.Errorf("create stdout metric exporter: %w", err)
	}
	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter)),
	), nil
}
