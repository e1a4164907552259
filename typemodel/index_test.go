package typemodel

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

const sampleGraph = `
moduleSystem: true
modules:
  - name: com.example.core
    loader: app
    exports:
      - package: com.example.api
      - package: com.example.internal
        to: [com.example.friend]
classes:
  - name: java.lang.Object
    modifiers: public
  - name: com.example.api.Base
    modifiers: public abstract
    super: java.lang.Object
    interfaces: [com.example.api.Tagged]
    loader: app
    module: com.example.core
    fields:
      - {name: id, type: long, modifiers: protected}
      - {name: tag, type: java.lang.String, modifiers: public}
  - name: com.example.api.Tagged
    kind: interface
    modifiers: [public, abstract]
    loader: app
    module: com.example.core
    fields:
      - {name: tag, type: java.lang.String, modifiers: public static final, constant: x}
  - name: com.example.api.Outer
    modifiers: public
    super: com.example.api.Base
    loader: app
    module: com.example.core
    fields:
      - {name: counter, type: int}
      - {name: grid, type: "int[][]", modifiers: private}
  - name: com.example.api.Outer$Inner
    modifiers: public static
    super: java.lang.Object
    enclosing: com.example.api.Outer
    loader: app
    module: com.example.core
  - name: com.example.api.Outer$1Helper
    super: java.lang.Object
    enclosing: com.example.api.Outer
    local: true
    loader: app
    module: com.example.core
  - name: com.example.api.Outer$1
    super: com.example.missing.Gone
    enclosing: com.example.api.Outer
    local: true
    loader: app
    module: com.example.core
`

func loadSample(t *testing.T) *Index {
	t.Helper()
	idx, err := LoadYAML([]byte(sampleGraph))
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	return idx
}

func mustLoad(t *testing.T, m Model, name string) ClassID {
	t.Helper()
	id, ok := m.LoadClass(name)
	if !ok {
		t.Fatalf("LoadClass(%q) not found", name)
	}
	return id
}

func TestIndexLinking(t *testing.T) {
	idx := loadSample(t)
	outer := mustLoad(t, idx, "com.example.api.Outer")
	base := mustLoad(t, idx, "com.example.api.Base")
	inner := mustLoad(t, idx, "com.example.api.Outer$Inner")

	t.Run("names", func(t *testing.T) {
		tests := []struct {
			name, simple, pkg string
		}{
			{"com.example.api.Outer", "Outer", "com.example.api"},
			{"com.example.api.Outer$Inner", "Inner", "com.example.api"},
			{"com.example.api.Outer$1Helper", "Helper", "com.example.api"},
			{"com.example.api.Outer$1", "", "com.example.api"},
			{"int", "int", ""},
		}
		for _, tt := range tests {
			id := mustLoad(t, idx, tt.name)
			if got := idx.SimpleName(id); got != tt.simple {
				t.Errorf("SimpleName(%s) = %q, want %q", tt.name, got, tt.simple)
			}
			if got := idx.PackageOf(id); got != tt.pkg {
				t.Errorf("PackageOf(%s) = %q, want %q", tt.name, got, tt.pkg)
			}
		}
	})

	t.Run("hierarchy", func(t *testing.T) {
		if got := idx.Superclass(outer); got != base {
			t.Errorf("Superclass(Outer) = %s, want Base", idx.Name(got))
		}
		ifaces := idx.Interfaces(base)
		if len(ifaces) != 1 || idx.Name(ifaces[0]) != "com.example.api.Tagged" {
			t.Errorf("Interfaces(Base) = %v", ifaces)
		}
		if got := idx.Kind(ifaces[0]); got != KindInterface {
			t.Errorf("Kind(Tagged) = %q, want %q", got, KindInterface)
		}
	})

	t.Run("nesting", func(t *testing.T) {
		if got := idx.EnclosingClass(inner); got != outer {
			t.Errorf("EnclosingClass(Inner) = %s, want Outer", idx.Name(got))
		}
		helper := mustLoad(t, idx, "com.example.api.Outer$1Helper")
		if got := idx.EnclosingClass(helper); got != outer {
			t.Errorf("EnclosingClass(Helper) = %s, want Outer", idx.Name(got))
		}
		nested := idx.DeclaredNestedClasses(outer)
		if len(nested) != 1 || nested[0] != inner {
			t.Errorf("DeclaredNestedClasses(Outer) = %v, want only Inner", nested)
		}
		if !idx.Modifiers(inner).IsStatic() {
			t.Error("Expected Inner to be static")
		}
	})

	t.Run("placeholders", func(t *testing.T) {
		gone := mustLoad(t, idx, "com.example.missing.Gone")
		if !idx.IsPlaceholder(gone) {
			t.Error("Expected Gone to be a placeholder")
		}
		if !idx.Modifiers(gone).IsPublic() || idx.LoaderOf(gone) != BootLoader {
			t.Error("Expected placeholder to be public and boot-defined")
		}
		for _, c := range idx.Classes() {
			if c == gone {
				t.Error("Classes() must not list placeholders")
			}
		}
	})

	t.Run("array types", func(t *testing.T) {
		grid := mustLoad(t, idx, "int[][]")
		if got := idx.Kind(grid); got != KindArray {
			t.Errorf("Kind(int[][]) = %q, want %q", got, KindArray)
		}
		if _, ok := idx.LoadClass("int[]"); !ok {
			t.Error("Expected element array type int[] to be registered")
		}
		if got := idx.Name(idx.Superclass(grid)); got != "java.lang.Object" {
			t.Errorf("Superclass(int[][]) = %q, want java.lang.Object", got)
		}
	})

	t.Run("modules and loaders", func(t *testing.T) {
		m := idx.ModuleOf(outer)
		if m.Name != "com.example.core" {
			t.Fatalf("ModuleOf(Outer) = %s", m)
		}
		obj := mustLoad(t, idx, "java.lang.Object")
		if idx.ModuleOf(obj).IsNamed() {
			t.Error("Expected java.lang.Object in an unnamed module")
		}
		if idx.LoaderOf(outer) != NewLoaderID("app") {
			t.Error("Expected Outer to be defined by loader app")
		}
		if idx.LoaderOf(outer) == idx.LoaderOf(obj) {
			t.Error("Expected app and boot loaders to differ")
		}
	})
}

func TestModuleIsExported(t *testing.T) {
	idx := loadSample(t)
	core := idx.ModuleOf(mustLoad(t, idx, "com.example.api.Outer"))
	unnamed := idx.ModuleOf(mustLoad(t, idx, "java.lang.Object"))
	friend := &Module{Name: "com.example.friend"}
	stranger := &Module{Name: "com.example.stranger"}

	tests := []struct {
		name string
		pkg  string
		to   *Module
		want bool
	}{
		{"unqualified export", "com.example.api", stranger, true},
		{"unqualified export to unnamed", "com.example.api", unnamed, true},
		{"qualified export to target", "com.example.internal", friend, true},
		{"qualified export to other", "com.example.internal", stranger, false},
		{"qualified export to unnamed", "com.example.internal", unnamed, false},
		{"not exported", "com.example.hidden", stranger, false},
		{"same module", "com.example.hidden", core, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.IsExported(tt.pkg, tt.to); got != tt.want {
				t.Errorf("IsExported(%q, %s) = %v, want %v", tt.pkg, tt.to, got, tt.want)
			}
		})
	}

	if !unnamed.IsExported("anything", stranger) {
		t.Error("Expected unnamed modules to export every package")
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing name", "classes:\n  - modifiers: public\n", "without a name"},
		{"internal name", "classes:\n  - name: a/b/C\n", "dotted binary name"},
		{"unknown module", "classes:\n  - name: a.C\n    module: nope\n", "unknown module"},
		{"bad modifier", "classes:\n  - name: a.C\n    modifiers: sealed\n", "unknown modifier"},
		{"duplicate field", "classes:\n  - name: a.C\n    fields: [{name: x, type: int}, {name: x, type: int}]\n", "declared twice"},
		{"superclass cycle", "classes:\n  - name: a.A\n    super: a.B\n  - name: a.B\n    super: a.A\n", "cyclic"},
		{"unknown key", "classes:\n  - name: a.C\n    supper: a.B\n", "supper"},
		{"nest host key", "classes:\n  - name: a.C$D\n    enclosing: a.C\n    nestHost: a.C\n", "nestHost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadYAML([]byte(tt.doc))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestDuplicateDefinitionFirstWins(t *testing.T) {
	b := NewBuilder()
	b.AddClass(ClassDef{Name: "a.C", Loader: "first", Fields: []FieldDef{{Name: "x", Type: "int"}}})
	b.AddClass(ClassDef{Name: "a.C", Loader: "second"})
	idx, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	c := mustLoad(t, idx, "a.C")
	if idx.LoaderOf(c) != NewLoaderID("first") {
		t.Error("Expected the first definition to win")
	}
	if _, ok := idx.DeclaredField(c, "x"); !ok {
		t.Error("Expected field x from the first definition")
	}
}

func TestDumpYAMLRoundTrip(t *testing.T) {
	idx := loadSample(t)
	var buf bytes.Buffer
	if err := DumpYAML(&buf, idx); err != nil {
		t.Fatalf("DumpYAML() error = %v", err)
	}
	again, err := LoadYAML(buf.Bytes())
	if err != nil {
		t.Fatalf("LoadYAML(dump) error = %v\n%s", err, buf.String())
	}
	if got, want := len(again.Classes()), len(idx.Classes()); got != want {
		t.Errorf("round trip has %d classes, want %d", got, want)
	}
	outer := mustLoad(t, again, "com.example.api.Outer")
	f, ok := again.DeclaredField(outer, "grid")
	if !ok || !f.IsPrivate() || f.Type != "int[][]" {
		t.Errorf("round trip field grid = %+v", f)
	}
	if again.ModuleOf(outer).Name != "com.example.core" {
		t.Error("Expected module membership to survive the round trip")
	}
}

func TestFieldOnHierarchy(t *testing.T) {
	idx := loadSample(t)
	outer := mustLoad(t, idx, "com.example.api.Outer")

	t.Run("own field", func(t *testing.T) {
		f, err := FieldOnHierarchy(idx, outer, "counter")
		if err != nil {
			t.Fatalf("FieldOnHierarchy() error = %v", err)
		}
		if f.Declaring != outer {
			t.Errorf("declaring = %s, want Outer", idx.Name(f.Declaring))
		}
	})

	t.Run("superclass field", func(t *testing.T) {
		f, err := FieldOnHierarchy(idx, outer, "id")
		if err != nil {
			t.Fatalf("FieldOnHierarchy() error = %v", err)
		}
		if got := idx.Name(f.Declaring); got != "com.example.api.Base" {
			t.Errorf("declaring = %s, want Base", got)
		}
	})

	t.Run("declared field beats interface", func(t *testing.T) {
		base := mustLoad(t, idx, "com.example.api.Base")
		f, err := FieldOnHierarchy(idx, base, "tag")
		if err != nil {
			t.Fatalf("FieldOnHierarchy() error = %v", err)
		}
		if f.Declaring != base {
			t.Errorf("declaring = %s, want Base", idx.Name(f.Declaring))
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := FieldOnHierarchy(idx, outer, "nope")
		if !errors.Is(err, ErrNoSuchField) {
			t.Errorf("error = %v, want ErrNoSuchField", err)
		}
	})
}

func TestFieldOnHierarchyBreadthFirstOrder(t *testing.T) {
	// Sub extends Mid extends Top; Sub implements I. Both Top and I declare
	// x. Breadth first order reaches I before Top.
	idx, err := LoadYAML([]byte(`
classes:
  - name: p.Top
    fields: [{name: x, type: int, modifiers: public}]
  - name: p.Mid
    super: p.Top
  - name: p.I
    kind: interface
    fields: [{name: x, type: int, modifiers: public static final}]
  - name: p.Sub
    super: p.Mid
    interfaces: [p.I]
`))
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	sub := mustLoad(t, idx, "p.Sub")
	f, err := FieldOnHierarchy(idx, sub, "x")
	if err != nil {
		t.Fatalf("FieldOnHierarchy() error = %v", err)
	}
	if got := idx.Name(f.Declaring); got != "p.I" {
		t.Errorf("declaring = %s, want p.I", got)
	}
}
