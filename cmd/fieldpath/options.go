package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/fieldpath/config"
	"github.com/dhamidi/fieldpath/typemodel"
	"github.com/spf13/cobra"
)

// globalOptions are the flags shared by every command. Flags given on the
// command line override the configuration file.
type globalOptions struct {
	configPath     string
	index          []string
	classpath      []string
	noModuleSystem bool
	verbose        int

	config *config.Config
}

func (o *globalOptions) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVarP(&o.configPath, "config", "c", "", "configuration file (YAML or JSON)")
	f.StringArrayVarP(&o.index, "index", "i", nil, "YAML class graph document (repeatable)")
	f.StringArrayVar(&o.classpath, "classpath", nil, "class path list for one loader, as name=path or path (repeatable)")
	f.BoolVar(&o.noModuleSystem, "no-module-system", false, "skip module export checks")
	f.CountVarP(&o.verbose, "verbose", "v", "increase log verbosity")
}

func (o *globalOptions) load() error {
	c := config.New()
	if o.configPath != "" {
		if err := c.LoadFile(o.configPath); err != nil {
			return err
		}
	}
	c.Index = append(c.Index, o.index...)
	for i, cp := range o.classpath {
		name, paths := loaderFlag(cp, i)
		c.AddClasspath(name, paths)
	}
	if o.noModuleSystem {
		c.SetModuleSystem(false)
	}
	c.Verbosity += o.verbose
	o.config = c
	return nil
}

// loaderFlag splits "name=path:path". Unnamed lists are called app, app2,
// and so on.
func loaderFlag(value string, n int) (string, string) {
	if name, paths, ok := strings.Cut(value, "="); ok && name != "" && !strings.ContainsAny(name, `/\.:;`) {
		return name, paths
	}
	if n == 0 {
		return "app", value
	}
	return fmt.Sprintf("app%d", n+1), value
}

func (o *globalOptions) buildIndex() (*typemodel.Index, error) {
	idx, err := o.config.Build()
	if err != nil {
		return nil, fmt.Errorf("load class graph: %w", err)
	}
	return idx, nil
}

func lookupClass(idx *typemodel.Index, name string) (typemodel.ClassID, error) {
	id, ok := idx.LoadClass(name)
	if !ok {
		return typemodel.NoClass, fmt.Errorf("%w: %s", typemodel.ErrUnknownClass, name)
	}
	return id, nil
}
