package sim

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/bcspragu/SwitchingAnalyzer/aig"
	"github.com/bcspragu/SwitchingAnalyzer/switching"
)

// Job is one circuit to estimate.
type Job struct {
	Circuit  *aig.Circuit
	Patterns int
	Seed     uint64
}

// Result pairs a job with its table or error.
type Result struct {
	Job   Job
	Table switching.Table
	Err   error
}

// Runner estimates many circuits at once. Every job gets its own Estimator
// seeded from the job, so results do not depend on scheduling.
type Runner struct {
	// Workers bounds the number of jobs in flight. Values below 1 mean 1.
	Workers int

	// MaxWords is passed to each Estimator; 0 keeps the default.
	MaxWords int64

	Logger *slog.Logger
}

// Run estimates every job and returns results in job order. A failing job
// does not stop the others; its error is reported in its Result. Jobs not
// yet started when ctx is cancelled report ctx.Err().
func (r *Runner) Run(ctx context.Context, jobs []Job) []Result {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(jobs))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		results[i].Job = job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			opts := []Option{WithSeed(job.Seed), WithLogger(logger)}
			if r.MaxWords > 0 {
				opts = append(opts, WithMaxWords(r.MaxWords))
			}
			t, err := NewEstimator(opts...).Estimate(ctx, job.Circuit, job.Patterns)
			results[i].Table, results[i].Err = t, err
			if err != nil {
				logger.Warn("estimation failed", "job", i, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
