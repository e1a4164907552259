// Package config holds the settings of the fieldpath command: where the
// class graph comes from and how it is interpreted.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/fieldpath/typemodel"
	"gopkg.in/yaml.v3"
)

// Config is the complete configuration.
type Config struct {
	// ModuleSystem enables module export checks. When nil, index
	// documents decide and the default is on.
	ModuleSystem *bool    `yaml:"moduleSystem,omitempty" json:"moduleSystem,omitempty"`
	Verbosity    int      `yaml:"verbosity" json:"verbosity"`
	Format       string   `yaml:"format" json:"format"`
	Index        []string `yaml:"index" json:"index"`
	Loaders      []Loader `yaml:"loaders" json:"loaders"`
}

// Loader is one classpath layer. Classes found on it share a defining
// loader named Name.
type Loader struct {
	Name      string   `yaml:"name" json:"name"`
	Classpath []string `yaml:"classpath" json:"classpath"`
}

// file is the on-disk form; pointers tell unset values from zero values.
type file struct {
	ModuleSystem *bool    `yaml:"moduleSystem" json:"moduleSystem"`
	Verbosity    *int     `yaml:"verbosity" json:"verbosity"`
	Format       string   `yaml:"format" json:"format"`
	Index        []string `yaml:"index" json:"index"`
	Loaders      []Loader `yaml:"loaders" json:"loaders"`
}

// New creates a Config with default values.
func New() *Config {
	return &Config{
		Format: "line",
	}
}

// LoadFile loads configuration from a file (YAML or JSON based on
// extension). Relative paths in the file are taken relative to the file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var loaded file
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &loaded); err != nil {
			return fmt.Errorf("parsing JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			if err := json.Unmarshal(data, &loaded); err != nil {
				return fmt.Errorf("unable to parse config as YAML or JSON")
			}
		}
	}

	loaded.relativeTo(filepath.Dir(path))
	c.merge(&loaded)
	return nil
}

func (f *file) relativeTo(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i, p := range f.Index {
		f.Index[i] = abs(p)
	}
	for i := range f.Loaders {
		for j, p := range f.Loaders[i].Classpath {
			f.Loaders[i].Classpath[j] = abs(p)
		}
	}
}

// merge applies the loaded values over the current ones. Lists append.
func (c *Config) merge(loaded *file) {
	if loaded.ModuleSystem != nil {
		c.ModuleSystem = loaded.ModuleSystem
	}
	if loaded.Verbosity != nil {
		c.Verbosity = *loaded.Verbosity
	}
	if loaded.Format != "" {
		c.Format = loaded.Format
	}
	c.Index = append(c.Index, loaded.Index...)
	c.Loaders = append(c.Loaders, loaded.Loaders...)
}

// AddClasspath appends a loader, splitting a path list such as
// "build/classes:lib/a.jar".
func (c *Config) AddClasspath(loader, pathList string) {
	var entries []string
	for _, p := range filepath.SplitList(pathList) {
		if p != "" {
			entries = append(entries, p)
		}
	}
	if len(entries) > 0 {
		c.Loaders = append(c.Loaders, Loader{Name: loader, Classpath: entries})
	}
}

// Validate reports settings that cannot produce a class graph.
func (c *Config) Validate() error {
	if len(c.Index) == 0 && len(c.Loaders) == 0 {
		return fmt.Errorf("no class graph: give an index file or a classpath")
	}
	seen := make(map[string]bool)
	for _, l := range c.Loaders {
		if seen[l.Name] {
			return fmt.Errorf("loader %q is listed twice", l.Name)
		}
		seen[l.Name] = true
	}
	return nil
}

// Build reads every index document and classpath layer into a type model.
// Index documents come first, so their definitions win over classpath
// classes of the same name.
func (c *Config) Build() (*typemodel.Index, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b := typemodel.NewBuilder()
	for _, path := range c.Index {
		if err := b.AddYAMLFile(path); err != nil {
			return nil, err
		}
	}
	if c.ModuleSystem != nil {
		b.SetModuleSystem(*c.ModuleSystem)
	}
	for _, l := range c.Loaders {
		if err := b.AddClasspath(l.Name, l.Classpath); err != nil {
			return nil, fmt.Errorf("loader %q: %w", l.Name, err)
		}
	}
	return b.Build()
}

// SetModuleSystem overrides the module system setting.
func (c *Config) SetModuleSystem(enabled bool) {
	c.ModuleSystem = &enabled
}
