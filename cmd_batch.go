package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bcspragu/SwitchingAnalyzer/sim"
)

func (a *app) batchCmd() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "batch <file.bench>...",
		Short: "Estimate several circuits concurrently",
		Long: `Estimate every listed circuit with batch.workers estimations in flight.
Every circuit is simulated with the configured seed, so its result does not
depend on the other arguments. With -d each table is written to
<dir>/<circuit>.switch.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs := make([]sim.Job, 0, len(args))
			for _, path := range args {
				c, err := a.parser.ParseFile(path)
				if err != nil {
					return err
				}
				jobs = append(jobs, sim.Job{Circuit: c, Patterns: a.cfg.Patterns, Seed: a.cfg.Seed})
			}

			runner := sim.Runner{
				Workers:  a.cfg.Batch.Workers,
				MaxWords: a.cfg.MaxWords,
				Logger:   a.logger,
			}
			var errs []error
			for _, res := range runner.Run(cmd.Context(), jobs) {
				c := res.Job.Circuit
				if res.Err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", c.Name, res.Err))
					continue
				}
				printSummary(cmd.OutOrStdout(), c, res.Table)
				if outDir == "" {
					continue
				}
				if _, err := a.codec.WriteValues(c, res.Table, filepath.Join(outDir, c.Name)); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
	cmd.Flags().StringVarP(&outDir, "dir", "d", "", "directory for the .switch files")
	return cmd
}
