package main

import (
	"fmt"

	"github.com/dhamidi/fieldpath/format"
	"github.com/dhamidi/fieldpath/resolve"
	"github.com/spf13/cobra"
)

func newResolveCmd(opts *globalOptions) *cobra.Command {
	var (
		caller       string
		outputFormat string
		raw          bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <expression>...",
		Short: "Resolve field access expressions as seen from a caller class",
		Long: `Resolve each expression to the chain of receiver casts and field loads
that reaches the named field from code in the caller class.

Chains are normalized unless --raw is given: steps before a static field
load are dropped and a leading instance field load gets an implicit this.

Examples:
  fieldpath resolve -i classes.yaml --caller 'p.Outer$Inner' Outer.this.counter
  fieldpath resolve --classpath build/classes --caller p.Sample -f json value next.value`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := opts.buildIndex()
			if err != nil {
				return err
			}
			callerID, err := lookupClass(idx, caller)
			if err != nil {
				return err
			}
			if outputFormat == "" {
				outputFormat = opts.config.Format
			}
			enc, err := format.NewEncoder(outputFormat, cmd.OutOrStdout(), idx)
			if err != nil {
				return err
			}

			r := resolve.New(idx)
			failed := 0
			for _, expr := range args {
				c, err := r.Resolve(callerID, expr)
				if err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), err)
					failed++
					continue
				}
				if !raw {
					c = c.Normalize()
				}
				if err := enc.Encode(expr, c); err != nil {
					return fmt.Errorf("encode %s: %w", outputFormat, err)
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d expressions did not resolve", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&caller, "caller", "", "binary name of the class the expressions appear in")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (line, json, yaml)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the chain as resolved, without normalizing")
	_ = cmd.MarkFlagRequired("caller")

	return cmd
}
