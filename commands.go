package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bcspragu/SwitchingAnalyzer/aig"
	"github.com/bcspragu/SwitchingAnalyzer/bench"
	"github.com/bcspragu/SwitchingAnalyzer/config"
	"github.com/bcspragu/SwitchingAnalyzer/switching"
	"github.com/bcspragu/SwitchingAnalyzer/telemetry"
)

// app carries what every subcommand needs once flags and config are merged.
type app struct {
	configPath string
	patterns   int
	seed       uint64
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
	parser bench.Parser
	codec  switching.Codec

	shutdown func(context.Context) error
}

// newApp builds the command tree. close must be called once the command
// has run, whatever its outcome.
func newApp() (*app, *cobra.Command) {
	a := &app{}
	root := &cobra.Command{
		Use:   "switchsim",
		Short: "Estimate switching activity of gate-level circuits by random simulation",
		Long: `switchsim reads ISCAS .bench netlists, simulates random stimulus through
the circuit's and-inverter graph and reports, for every signal, the
probability that two random samples of it differ.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.IntVar(&a.patterns, "patterns", 0, "random patterns per signal (overrides config)")
	pf.Uint64Var(&a.seed, "seed", 0, "random seed (overrides config)")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (overrides config)")

	root.AddCommand(
		a.estimateCmd(),
		a.templateCmd(),
		a.loadCmd(),
		a.batchCmd(),
		a.watchCmd(),
	)
	return a, root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("patterns") {
		cfg.Patterns = a.patterns
	}
	if flags.Changed("seed") {
		cfg.Seed = a.seed
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := config.ParseLevel(cfg.LogLevel)
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)
	a.parser = bench.Parser{Logger: a.logger}
	a.codec = switching.Codec{Logger: a.logger}

	shutdown, err := telemetry.Init(telemetry.Config{
		ServiceName: "switchsim",
		Traces:      cfg.Telemetry.Traces,
		Metrics:     cfg.Telemetry.Metrics,
		Writer:      cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.shutdown = shutdown
	return nil
}

// close flushes telemetry.
func (a *app) close() error {
	if a.shutdown == nil {
		return nil
	}
	return a.shutdown(context.Background())
}

func printSummary(w io.Writer, c *aig.Circuit, t switching.Table) {
	s := t.Summarize(c)
	fmt.Fprintf(w, "%s: %d inputs, %d nodes, switching min %.4f max %.4f mean %.4f\n",
		c.Name, s.Inputs, s.Nodes, s.Min, s.Max, s.Mean)
}
