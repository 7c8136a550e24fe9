// Package sim estimates switching activity by bit-parallel random
// simulation of an and-inverter graph.
//
// Every input gets a word array of random bits; every AND node's array is
// computed from its fanins' arrays in dependency order, 32 samples per word.
// Each array is then reduced to the probability that two random samples of
// the signal differ.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/bcspragu/SwitchingAnalyzer/aig"
	"github.com/bcspragu/SwitchingAnalyzer/switching"
)

const (
	// DefaultSeed seeds the generator when no source or seed is given.
	DefaultSeed = 1

	// DefaultMaxWords bounds the arena of one pass (1 GiB of uint32).
	DefaultMaxWords = 1 << 28
)

// Estimator runs switching estimation passes. Each pass allocates its own
// storage, but the word source is consumed by every pass, so an Estimator
// must not be used from more than one goroutine at a time.
type Estimator struct {
	src      WordSource
	maxWords int64
	logger   *slog.Logger

	tp     trace.TracerProvider
	mp     metric.MeterProvider
	tracer trace.Tracer
	inst   *instruments
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithSeed seeds the default PCG word source.
func WithSeed(seed uint64) Option {
	return func(e *Estimator) { e.src = NewSource(seed) }
}

// WithSource replaces the word source.
func WithSource(src WordSource) Option {
	return func(e *Estimator) { e.src = src }
}

// WithMaxWords caps the number of words one pass may allocate.
func WithMaxWords(n int64) Option {
	return func(e *Estimator) { e.maxWords = n }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Estimator) { e.logger = l }
}

// WithTracerProvider sets where estimation spans go. The default is the
// global provider at construction time.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Estimator) { e.tp = tp }
}

// WithMeterProvider sets where estimation metrics go. The default is the
// global provider at construction time.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(e *Estimator) { e.mp = mp }
}

// NewEstimator builds an Estimator.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{maxWords: DefaultMaxWords}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = NewSource(DefaultSeed)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.tp == nil {
		e.tp = otel.GetTracerProvider()
	}
	if e.mp == nil {
		e.mp = otel.GetMeterProvider()
	}
	e.tracer = e.tp.Tracer(instrumentationName)

	inst, err := newInstruments(e.mp)
	if err != nil {
		e.logger.Warn("estimator metrics disabled", "error", err)
		inst, _ = newInstruments(noop.NewMeterProvider())
	}
	e.inst = inst
	return e
}

// Estimate simulates patterns random samples per signal and returns the
// switching probability of every input and AND node of c, indexed by node
// identifier. The constant node and unused identifiers hold 0.
//
// It fails with switching.ErrInvalidArgument for a nil circuit or a
// non-positive pattern count, and with switching.ErrOutOfMemory when the
// simulation storage would exceed the configured budget. On failure no
// table is returned. ctx carries tracing only; a pass is never interrupted.
func (e *Estimator) Estimate(ctx context.Context, c *aig.Circuit, patterns int) (switching.Table, error) {
	ctx, span := e.tracer.Start(ctx, "sim.Estimate", trace.WithAttributes(
		attribute.Int("patterns", patterns),
	))
	defer span.End()
	start := time.Now()

	t, err := e.estimate(c, patterns)
	nodes := 0
	if c != nil {
		nodes = len(c.Inputs()) + c.NumAnds()
		span.SetAttributes(attribute.String("circuit", c.Name), attribute.Int("nodes", nodes))
	}
	e.inst.record(ctx, time.Since(start), nodes, err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	e.logger.Debug("switching estimated",
		"circuit", c.Name,
		"patterns", patterns,
		"words", WordCount(patterns),
		"nodes", nodes,
		"duration", time.Since(start))
	return t, nil
}

func (e *Estimator) estimate(c *aig.Circuit, patterns int) (switching.Table, error) {
	if c == nil {
		return nil, fmt.Errorf("estimate: nil circuit: %w", switching.ErrInvalidArgument)
	}
	if patterns <= 0 {
		return nil, fmt.Errorf("estimate: pattern count %d must be positive: %w", patterns, switching.ErrInvalidArgument)
	}

	width := WordCount(patterns)
	a, err := newArena(c.NumObjects(), width, e.maxWords)
	if err != nil {
		return nil, fmt.Errorf("estimate %s: %w", c.Name, err)
	}
	defer a.release()

	t := switching.NewTable(c)
	for _, id := range c.Inputs() {
		w := a.row(id)
		Fill(w, e.src)
		t[id] = Switching(w)
	}
	for _, id := range c.DFS() {
		n := c.Node(id)
		w := a.row(id)
		evalAnd(w, a.row(n.Fanin0.ID()), a.row(n.Fanin1.ID()), n.Fanin0, n.Fanin1)
		t[id] = Switching(w)
	}
	return t, nil
}
