package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:          "fieldpath",
		Short:        "Resolve Java field access expressions against a class graph",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.load(); err != nil {
				return err
			}
			commonlog.Configure(opts.config.Verbosity, nil)
			return nil
		},
	}
	opts.register(rootCmd)

	rootCmd.AddCommand(newResolveCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newDumpCmd(opts))
	rootCmd.AddCommand(newClasspathCmd(opts))

	return rootCmd
}
