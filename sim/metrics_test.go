package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/bcspragu/SwitchingAnalyzer/switching"
)

func findMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %s not recorded", name)
	return metricdata.Metrics{}
}

func success(t *testing.T, attrs attribute.Set) bool {
	t.Helper()
	v, ok := attrs.Value("success")
	require.True(t, ok, "success attribute missing")
	return v.AsBool()
}

func TestEstimateTelemetry(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	e := NewEstimator(WithSeed(1), WithMeterProvider(mp), WithTracerProvider(tp))
	_, err := e.Estimate(ctx, andCircuit(), 64)
	require.NoError(t, err)
	_, err = e.Estimate(ctx, andCircuit(), 0)
	require.ErrorIs(t, err, switching.ErrInvalidArgument)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	total, ok := findMetric(t, rm, "switching_estimate_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	passes := map[bool]int64{}
	for _, dp := range total.DataPoints {
		passes[success(t, dp.Attributes)] += dp.Value
	}
	assert.Equal(t, map[bool]int64{true: 1, false: 1}, passes)

	latency, ok := findMetric(t, rm, "switching_estimate_duration_seconds").Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	timed := map[bool]uint64{}
	for _, dp := range latency.DataPoints {
		timed[success(t, dp.Attributes)] += dp.Count
	}
	assert.Equal(t, map[bool]uint64{true: 1, false: 1}, timed)

	// only the successful pass counts its two inputs and one AND node
	nodes, ok := findMetric(t, rm, "switching_nodes_simulated_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, nodes.DataPoints, 1)
	assert.Equal(t, int64(3), nodes.DataPoints[0].Value)

	ended := spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "sim.Estimate", ended[0].Name())
	assert.Equal(t, codes.Unset, ended[0].Status().Code)
	assert.Equal(t, codes.Error, ended[1].Status().Code)
}
