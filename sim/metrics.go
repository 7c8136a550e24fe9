package sim

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "switchsim.sim"

// instruments are the OpenTelemetry instruments of one Estimator.
type instruments struct {
	latency metric.Float64Histogram
	total   metric.Int64Counter
	nodes   metric.Int64Counter
}

func newInstruments(mp metric.MeterProvider) (*instruments, error) {
	meter := mp.Meter(instrumentationName)
	var (
		inst instruments
		err  error
	)

	inst.latency, err = meter.Float64Histogram(
		"switching_estimate_duration_seconds",
		metric.WithDescription("Duration of switching estimation passes"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	inst.total, err = meter.Int64Counter(
		"switching_estimate_total",
		metric.WithDescription("Total switching estimation passes"),
	)
	if err != nil {
		return nil, err
	}

	inst.nodes, err = meter.Int64Counter(
		"switching_nodes_simulated_total",
		metric.WithDescription("Inputs and AND nodes simulated"),
	)
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (inst *instruments) record(ctx context.Context, d time.Duration, nodes int, success bool) {
	attrs := metric.WithAttributes(attribute.Bool("success", success))
	inst.latency.Record(ctx, d.Seconds(), attrs)
	inst.total.Add(ctx, 1, attrs)
	if success {
		inst.nodes.Add(ctx, int64(nodes))
	}
}
