package optimize

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("mfnet.optimize")
	meter  = otel.Meter("mfnet.optimize")
)

var (
	passDuration    metric.Float64Histogram
	passTotal       metric.Int64Counter
	socketsMerged   metric.Int64Counter
	nodesRemoved    metric.Int64Counter
	constantsFolded metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		passDuration, err = meter.Float64Histogram(
			"optimize_pass_duration_seconds",
			metric.WithDescription("Duration of optimizer passes"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		passTotal, err = meter.Int64Counter(
			"optimize_pass_total",
			metric.WithDescription("Total number of optimizer pass runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		socketsMerged, err = meter.Int64Counter(
			"optimize_sockets_merged_total",
			metric.WithDescription("Output sockets whose consumers were moved to an equivalent socket"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesRemoved, err = meter.Int64Counter(
			"optimize_nodes_removed_total",
			metric.WithDescription("Nodes removed because no network output depends on them"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		constantsFolded, err = meter.Int64Counter(
			"optimize_constants_folded_total",
			metric.WithDescription("Output sockets replaced by literal constants"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordPass(ctx context.Context, pass string, duration time.Duration, err error) {
	if initMetrics() != nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("pass", pass),
		attribute.Bool("success", err == nil),
	)
	passDuration.Record(ctx, duration.Seconds(), attrs)
	passTotal.Add(ctx, 1, attrs)
}

func recordMerged(ctx context.Context, n int) {
	if initMetrics() != nil || n == 0 {
		return
	}
	socketsMerged.Add(ctx, int64(n))
}

func recordRemoved(ctx context.Context, n int) {
	if initMetrics() != nil || n == 0 {
		return
	}
	nodesRemoved.Add(ctx, int64(n))
}

func recordFolded(ctx context.Context, n int) {
	if initMetrics() != nil || n == 0 {
		return
	}
	constantsFolded.Add(ctx, int64(n))
}

// startPassSpan creates a span for one optimizer pass.
func startPassSpan(ctx context.Context, pass string, nodeCount int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "optimize."+pass,
		trace.WithAttributes(
			attribute.String("optimize.pass", pass),
			attribute.Int("network.node_count", nodeCount),
		),
	)
}

func endSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
