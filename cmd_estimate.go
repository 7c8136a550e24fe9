package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bcspragu/SwitchingAnalyzer/aig"
	"github.com/bcspragu/SwitchingAnalyzer/report"
	"github.com/bcspragu/SwitchingAnalyzer/sim"
	"github.com/bcspragu/SwitchingAnalyzer/store"
	"github.com/bcspragu/SwitchingAnalyzer/switching"
)

type estimateFlags struct {
	out     string
	json    string
	sqlite  string
	noCache bool
}

func (a *app) estimateCmd() *cobra.Command {
	var f estimateFlags
	cmd := &cobra.Command{
		Use:   "estimate <file.bench>",
		Short: "Simulate a circuit and report the switching activity of every signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEstimate(cmd, args[0], f)
		},
	}
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "write the values to <base>.switch")
	cmd.Flags().StringVar(&f.json, "json", "", "write a JSON report to this file, - for stdout")
	cmd.Flags().StringVar(&f.sqlite, "sqlite", "", "append the values to this SQLite database")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "ignore the table cache for this run")
	return cmd
}

func (a *app) runEstimate(cmd *cobra.Command, path string, f estimateFlags) error {
	c, err := a.parser.ParseFile(path)
	if err != nil {
		return err
	}

	t, err := a.estimate(cmd.Context(), c, !f.noCache)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), c, t)

	if f.out != "" {
		written, err := a.codec.WriteValues(c, t, f.out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", written)
	}

	meta := report.NewMeta(a.cfg.Patterns, a.cfg.Seed)
	switch f.json {
	case "":
	case "-":
		if err := report.WriteJSON(cmd.OutOrStdout(), c, t, meta); err != nil {
			return err
		}
	default:
		if err := writeJSONFile(f.json, c, t, meta); err != nil {
			return err
		}
	}
	if f.sqlite != "" {
		if err := report.WriteSQLite(f.sqlite, c, t, meta); err != nil {
			return err
		}
		a.logger.Info("exported to sqlite", "path", f.sqlite, "run_id", meta.RunID)
	}
	return nil
}

// estimate runs the simulator, going through the cache when it is enabled.
func (a *app) estimate(ctx context.Context, c *aig.Circuit, useCache bool) (switching.Table, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	est := sim.NewEstimator(
		sim.WithSeed(a.cfg.Seed),
		sim.WithMaxWords(a.cfg.MaxWords),
		sim.WithLogger(a.logger),
	)
	if !useCache || !a.cfg.Cache.Enabled {
		return est.Estimate(ctx, c, a.cfg.Patterns)
	}

	s, err := store.Open(store.Config{Path: a.cfg.Cache.Path, Logger: a.logger})
	if err != nil {
		return nil, err
	}
	defer s.Close()

	key := store.Key{Fingerprint: c.Fingerprint(), Patterns: a.cfg.Patterns, Seed: a.cfg.Seed}
	if t, ok, err := s.Get(key, c.NumObjects()); err != nil {
		a.logger.Warn("unreadable cache entry, estimating again", "circuit", c.Name, "error", err)
	} else if ok {
		a.logger.Debug("cache hit", "circuit", c.Name, "fingerprint", key.Fingerprint)
		return t, nil
	}

	t, err := est.Estimate(ctx, c, a.cfg.Patterns)
	if err != nil {
		return nil, err
	}
	if err := s.Put(key, t); err != nil {
		a.logger.Warn("failed to cache table", "circuit", c.Name, "error", err)
	}
	return t, nil
}

func writeJSONFile(path string, c *aig.Circuit, t switching.Table, meta report.Meta) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create the report: %w", err)
	}
	if err := report.WriteJSON(f, c, t, meta); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
