package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/fieldpath/typemodel"
	"github.com/spf13/cobra"
)

func newClasspathCmd(opts *globalOptions) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "classpath",
		Short: "List the classes of the class graph",
		Long: `List every defined class, one per line:

  <kind>	<name>	<modifiers>	<loader>	<module>

Examples:
  fieldpath classpath --classpath lib/dep.jar
  fieldpath classpath -i classes.yaml --package com.example`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := opts.buildIndex()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, c := range idx.Classes() {
				if prefix != "" && !inPackage(idx.PackageOf(c), prefix) {
					continue
				}
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\n",
					idx.Kind(c),
					idx.Name(c),
					modifiersStr(idx.Modifiers(c)),
					loaderStr(idx.Definition(c).Loader),
					moduleStr(idx.ModuleOf(c)),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&prefix, "package", "p", "", "only list classes in this package and its subpackages")

	return cmd
}

func inPackage(pkg, prefix string) bool {
	return pkg == prefix || strings.HasPrefix(pkg, prefix+".")
}

func modifiersStr(m typemodel.Modifiers) string {
	if m == 0 {
		return "-"
	}
	return strings.Join(m.Names(), ",")
}

func loaderStr(name string) string {
	if name == "" {
		return "boot"
	}
	return name
}

func moduleStr(m *typemodel.Module) string {
	if !m.IsNamed() {
		return "-"
	}
	return m.Name
}
