package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bcspragu/SwitchingAnalyzer/switching"
)

func (a *app) loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.bench> [file.switch]",
		Short: "Check a .switch file against a circuit and summarize it",
		Long: `Load a .switch file for the circuit and print a summary of its values.
Without a .switch argument a template named after the circuit is written to
the working directory instead.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.parser.ParseFile(args[0])
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 2 {
				path = args[1]
			}
			t, err := a.codec.Load(c, path)
			if err != nil {
				return err
			}
			if t == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "no values given, wrote %s%s\n", c.Name, switching.Suffix)
				return nil
			}
			printSummary(cmd.OutOrStdout(), c, t)
			return nil
		},
	}
}
