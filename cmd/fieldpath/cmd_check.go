package main

import (
	"fmt"

	"github.com/dhamidi/fieldpath/access"
	"github.com/dhamidi/fieldpath/typemodel"
	"github.com/spf13/cobra"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var from, through string

	cmd := &cobra.Command{
		Use:   "check <class> <field>",
		Short: "Check whether a field may be accessed from a class",
		Long: `Check a field access against the JVM member access rules.

The field is looked up from <class> the way the resolver does. The
access is checked through a reference of type --through, which defaults
to <class>; pass --through none for an access without a receiver.

Examples:
  fieldpath check -i classes.yaml lib.api.Api count --from client.Ext
  fieldpath check -i classes.yaml lib.api.Api count --from client.Ext --through client.ExtSub`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := opts.buildIndex()
			if err != nil {
				return err
			}
			class, err := lookupClass(idx, args[0])
			if err != nil {
				return err
			}
			current, err := lookupClass(idx, from)
			if err != nil {
				return err
			}
			target := class
			switch through {
			case "":
			case "none":
				target = typemodel.NoClass
			default:
				if target, err = lookupClass(idx, through); err != nil {
					return err
				}
			}

			field, err := typemodel.FieldOnHierarchy(idx, class, args[1])
			if err != nil {
				return err
			}
			if err := access.NewChecker(idx).Check(target, field, current); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s field %s is accessible from %s\n",
				field.Modifiers.Visibility(), typemodel.Describe(idx, field), idx.Name(current))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "binary name of the accessing class")
	cmd.Flags().StringVar(&through, "through", "", "static type of the receiver, or none")
	_ = cmd.MarkFlagRequired("from")

	return cmd
}
