// Package telemetry installs the OpenTelemetry providers that the
// estimator's spans and instruments report to.
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

// Exporter names accepted for traces and metrics.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
)

// ErrUnknownExporter is returned for an exporter name Init does not know.
var ErrUnknownExporter = errors.New("unknown telemetry exporter")

// Config selects the exporters.
type Config struct {
	// ServiceName identifies this process in exported data.
	ServiceName string

	// Traces and Metrics are each ExporterNone or ExporterStdout.
	Traces  string
	Metrics string

	// Writer receives stdout exporter output. Nil means os.Stderr.
	Writer io.Writer
}

// ValidExporter reports whether name can be passed to Init.
func ValidExporter(name string) bool {
	return name == ExporterNone || name == ExporterStdout
}

// Init sets the global tracer and meter providers as cfg asks and returns
// the function that flushes and stops them. With both exporters set to none
// the globals are left alone.
func Init(cfg Config) (func(context.Context) error, error) {
	for _, name := range []string{cfg.Traces, cfg.Metrics} {
		if name != "" && !ValidExporter(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, name)
		}
	}

	var shutdownFuncs []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
	)

	if cfg.Traces == ExporterStdout {
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("create trace exporter: %w", err)
		}
		tp := trace.NewTracerProvider(
			trace.WithBatcher(exp),
			trace.WithResource(res),
		)
		otel.SetTracerProvider(tp)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	}

	if cfg.Metrics == ExporterStdout {
		exp, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("create metric exporter: %w", err)
		}
		mp := metric.NewMeterProvider(
			metric.WithResource(res),
			metric.WithReader(metric.NewPeriodicReader(exp)),
		)
		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
	}

	return shutdown, nil
}
