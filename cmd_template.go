package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

)

func (a *app) templateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template <file.bench>",
		Short: "Write a .switch template with every value set to 0.5",
		Long: `Write a .switch template for the circuit. Without -o the file is
placed next to the netlist, named after it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.parser.ParseFile(args[0])
			if err != nil {
				return err
			}
			base := out
			if base == "" {
				base = trimExt(args[0])
			}
			written, err := a.codec.WriteTemplate(c, base)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", written)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "base name of the template file")
	return cmd
}

func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
