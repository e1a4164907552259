package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const classes = `
classes:
  - name: java.lang.Object
    modifiers: public
  - name: p.Outer
    modifiers: public
    super: java.lang.Object
    loader: app
    fields:
      - {name: counter, type: int}
      - {name: LIMIT, type: int, modifiers: public static final}
  - name: p.Outer$Inner
    modifiers: public
    super: java.lang.Object
    enclosing: p.Outer
    loader: app
  - name: q.Stranger
    modifiers: public
    super: java.lang.Object
    loader: app
`

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	index := filepath.Join(t.TempDir(), "classes.yaml")
	if err := os.WriteFile(index, []byte(classes), 0o644); err != nil {
		t.Fatal(err)
	}
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--index", index}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestResolveCommand(t *testing.T) {
	out, _, err := run(t, "resolve", "--caller", "p.Outer$Inner", "Outer.this.counter")
	if err != nil {
		t.Fatalf("resolve error = %v", err)
	}
	want := strings.Join([]string{
		"chain\tOuter.this.counter\tp.Outer$Inner\tint\tinstance",
		"this\tp.Outer$Inner",
		"outer\tp.Outer$Inner\tp.Outer\t0",
		"field\tcounter\tint\tp.Outer\tp.Outer\tpackage\t-",
		"",
	}, "\n")
	if out != want {
		t.Errorf("resolve output = %q, want %q", out, want)
	}
}

func TestResolveCommandReportsFailures(t *testing.T) {
	out, errOut, err := run(t, "resolve", "--caller", "p.Outer", "-f", "json", "bogus", "LIMIT")
	if err == nil {
		t.Fatalf("resolve error = nil, want error")
	}
	if !strings.Contains(errOut, `unrecognized symbol "bogus"`) {
		t.Errorf("stderr = %q, want the resolution error", errOut)
	}
	if !strings.Contains(out, `"expression": "LIMIT"`) {
		t.Errorf("stdout = %q, want the LIMIT chain", out)
	}
}

func TestCheckCommand(t *testing.T) {
	out, _, err := run(t, "check", "p.Outer", "LIMIT", "--from", "q.Stranger")
	if err != nil {
		t.Fatalf("check error = %v", err)
	}
	if !strings.Contains(out, "public field p.Outer.LIMIT is accessible from q.Stranger") {
		t.Errorf("check output = %q", out)
	}
	if _, _, err := run(t, "check", "p.Outer", "counter", "--from", "q.Stranger"); err == nil {
		t.Errorf("check of package-private field from another package error = nil, want error")
	}
}

func TestClasspathCommand(t *testing.T) {
	out, _, err := run(t, "classpath", "--package", "p")
	if err != nil {
		t.Fatalf("classpath error = %v", err)
	}
	want := "class\tp.Outer\tpublic\tapp\t-\nclass\tp.Outer$Inner\tpublic\tapp\t-\n"
	if out != want {
		t.Errorf("classpath output = %q, want %q", out, want)
	}
}

func TestDumpCommand(t *testing.T) {
	out, _, err := run(t, "dump")
	if err != nil {
		t.Fatalf("dump error = %v", err)
	}
	for _, name := range []string{"java.lang.Object", "p.Outer$Inner", "q.Stranger"} {
		if !strings.Contains(out, name) {
			t.Errorf("dump output does not mention %s", name)
		}
	}
}

func TestLoaderFlag(t *testing.T) {
	tests := []struct {
		value      string
		n          int
		name, path string
	}{
		{"build/classes", 0, "app", "build/classes"},
		{"lib/a.jar", 1, "app2", "lib/a.jar"},
		{"plugins=ext/p.jar:ext/q.jar", 0, "plugins", "ext/p.jar:ext/q.jar"},
		{"dir/x=y.jar", 0, "app", "dir/x=y.jar"},
	}
	for _, tt := range tests {
		name, path := loaderFlag(tt.value, tt.n)
		if name != tt.name || path != tt.path {
			t.Errorf("loaderFlag(%q) = %q, %q, want %q, %q", tt.value, name, path, tt.name, tt.path)
		}
	}
}
