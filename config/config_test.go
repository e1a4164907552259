package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "fieldpath.yaml", `
moduleSystem: false
verbosity: 2
format: json
index: [classes.yaml]
loaders:
  - name: app
    classpath: [build/classes, /opt/lib/dep.jar]
`},
		{"json", "fieldpath.json", `{
  "moduleSystem": false,
  "verbosity": 2,
  "format": "json",
  "index": ["classes.yaml"],
  "loaders": [{"name": "app", "classpath": ["build/classes", "/opt/lib/dep.jar"]}]
}`},
		{"no extension", "fieldpathrc", `{"moduleSystem": false, "verbosity": 2, "format": "json", "index": ["classes.yaml"],
  "loaders": [{"name": "app", "classpath": ["build/classes", "/opt/lib/dep.jar"]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			c := New()
			if err := c.LoadFile(path); err != nil {
				t.Fatalf("LoadFile() error = %v", err)
			}
			if c.ModuleSystem == nil || *c.ModuleSystem {
				t.Errorf("ModuleSystem = %v, want false", c.ModuleSystem)
			}
			if c.Verbosity != 2 {
				t.Errorf("Verbosity = %d, want 2", c.Verbosity)
			}
			if c.Format != "json" {
				t.Errorf("Format = %q, want %q", c.Format, "json")
			}
			if want := filepath.Join(dir, "classes.yaml"); len(c.Index) != 1 || c.Index[0] != want {
				t.Errorf("Index = %q, want [%q]", c.Index, want)
			}
			if len(c.Loaders) != 1 {
				t.Fatalf("len(Loaders) = %d, want 1", len(c.Loaders))
			}
			cp := c.Loaders[0].Classpath
			if cp[0] != filepath.Join(dir, "build/classes") || cp[1] != "/opt/lib/dep.jar" {
				t.Errorf("Classpath = %q", cp)
			}
		})
	}
}

func TestDefaultsSurviveEmptyFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "verbosity: 1\n")
	c := New()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if c.Format != "line" {
		t.Errorf("Format = %q, want %q", c.Format, "line")
	}
	if c.ModuleSystem != nil {
		t.Errorf("ModuleSystem = %v, want unset", *c.ModuleSystem)
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()
	if err := New().LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("LoadFile(missing) error = nil, want error")
	}
	bad := writeFile(t, dir, "bad.yaml", "loaders: {name: [\n")
	if err := New().LoadFile(bad); err == nil {
		t.Errorf("LoadFile(bad) error = nil, want error")
	}
}

func TestAddClasspathAndValidate(t *testing.T) {
	c := New()
	if err := c.Validate(); err == nil {
		t.Errorf("Validate() of empty config error = nil, want error")
	}
	c.AddClasspath("app", strings.Join([]string{"a", "", "b.jar"}, string(os.PathListSeparator)))
	if len(c.Loaders) != 1 || strings.Join(c.Loaders[0].Classpath, ",") != "a,b.jar" {
		t.Errorf("Loaders = %+v", c.Loaders)
	}
	c.AddClasspath("plugins", "")
	if len(c.Loaders) != 1 {
		t.Errorf("AddClasspath with no entries added a loader")
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	c.AddClasspath("app", "c")
	if err := c.Validate(); err == nil {
		t.Errorf("Validate() with a duplicate loader error = nil, want error")
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "classes.yaml", `
moduleSystem: true
classes:
  - name: p.A
    modifiers: public
    fields:
      - {name: x, type: int}
`)
	path := writeFile(t, dir, "fieldpath.yaml", "index: [classes.yaml]\n")

	c := New()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	c.SetModuleSystem(false)
	idx, err := c.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if idx.HasModuleSystem() {
		t.Errorf("HasModuleSystem() = true, want the configured false")
	}
	a, ok := idx.LoadClass("p.A")
	if !ok {
		t.Fatalf("LoadClass(p.A) not found")
	}
	if _, ok := idx.DeclaredField(a, "x"); !ok {
		t.Errorf("DeclaredField(p.A, x) not found")
	}
}
