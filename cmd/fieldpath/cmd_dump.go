package main

import (
	"github.com/dhamidi/fieldpath/typemodel"
	"github.com/spf13/cobra"
)

func newDumpCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Write the class graph as a YAML index document",
		Long: `Write every class and named module of the loaded class graph as a
YAML document that --index reads back. Scanning a class path once and
dumping it avoids re-reading jars on every run.

Examples:
  fieldpath dump --classpath build/classes:lib/dep.jar > classes.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := opts.buildIndex()
			if err != nil {
				return err
			}
			return typemodel.DumpYAML(cmd.OutOrStdout(), idx)
		},
	}
}
