package access

import (
	"errors"
	"strings"
	"testing"

	"github.com/dhamidi/fieldpath/typemodel"
)

const graph = `
moduleSystem: true
modules:
  - name: lib
    loader: app
    exports:
      - package: lib.api
      - package: lib.friend
        to: [client]
  - name: client
    loader: app
classes:
  - name: java.lang.Object
    modifiers: public
  - name: lib.api.Api
    modifiers: public
    super: java.lang.Object
    loader: app
    module: lib
    fields:
      - {name: VERSION, type: int, modifiers: public static final}
      - {name: count, type: int, modifiers: protected}
      - {name: CACHE, type: int, modifiers: protected static}
      - {name: pkgField, type: int}
      - {name: secret, type: int, modifiers: private}
  - name: lib.api.Api$Helper
    modifiers: private static
    super: java.lang.Object
    enclosing: lib.api.Api
    loader: app
    module: lib
    fields:
      - {name: data, type: int, modifiers: private}
  - name: lib.api.Hidden
    super: java.lang.Object
    loader: app
    module: lib
    fields:
      - {name: open, type: int, modifiers: public}
  - name: lib.api.Peer
    super: java.lang.Object
    loader: app
    module: lib
  - name: lib.internal.Impl
    modifiers: public
    super: java.lang.Object
    loader: app
    module: lib
    fields:
      - {name: VALUE, type: int, modifiers: public static}
  - name: lib.friend.Friend
    modifiers: public
    super: java.lang.Object
    loader: app
    module: lib
    fields:
      - {name: X, type: int, modifiers: public static}
  - name: client.Main
    modifiers: public
    super: java.lang.Object
    loader: app
    module: client
  - name: client.Ext
    modifiers: public
    super: lib.api.Api
    loader: app
    module: client
  - name: client.ExtSub
    super: client.Ext
    loader: app
    module: client
  - name: lib.api.Impostor
    super: java.lang.Object
    loader: other
  - name: other.Stranger
    modifiers: public
    super: java.lang.Object
    loader: other
`

type fixture struct {
	t   *testing.T
	idx *typemodel.Index
}

func newFixture(t *testing.T, moduleSystem bool) *fixture {
	t.Helper()
	doc := graph
	if !moduleSystem {
		doc = strings.Replace(doc, "moduleSystem: true", "moduleSystem: false", 1)
	}
	idx, err := typemodel.LoadYAML([]byte(doc))
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	return &fixture{t: t, idx: idx}
}

func (f *fixture) class(name string) typemodel.ClassID {
	f.t.Helper()
	if name == "" {
		return typemodel.NoClass
	}
	id, ok := f.idx.LoadClass(name)
	if !ok {
		f.t.Fatalf("LoadClass(%q) not found", name)
	}
	return id
}

// field takes "pkg.Class#name".
func (f *fixture) field(ref string) typemodel.Field {
	f.t.Helper()
	class, name, _ := strings.Cut(ref, "#")
	fld, ok := f.idx.DeclaredField(f.class(class), name)
	if !ok {
		f.t.Fatalf("no field %s", ref)
	}
	return fld
}

func TestIsAccessible(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		field   string
		current string
		want    bool
	}{
		{"same class private", "lib.api.Api", "lib.api.Api#secret", "lib.api.Api", true},

		{"public static across modules", "", "lib.api.Api#VERSION", "client.Main", true},
		{"public static from unnamed module", "", "lib.api.Api#VERSION", "other.Stranger", true},
		{"package not exported", "", "lib.internal.Impl#VALUE", "client.Main", false},
		{"qualified export to target module", "", "lib.friend.Friend#X", "client.Main", true},
		{"qualified export to other module", "", "lib.friend.Friend#X", "other.Stranger", false},

		{"package-private same runtime package", "lib.api.Api", "lib.api.Api#pkgField", "lib.api.Peer", true},
		{"package-private other loader", "lib.api.Api", "lib.api.Api#pkgField", "lib.api.Impostor", false},
		{"package-private other package", "lib.api.Api", "lib.api.Api#pkgField", "client.Main", false},

		{"private from nestmate", "lib.api.Api", "lib.api.Api#secret", "lib.api.Api$Helper", true},
		{"private of nested from host", "lib.api.Api$Helper", "lib.api.Api$Helper#data", "lib.api.Api", true},
		{"private from same package", "lib.api.Api", "lib.api.Api#secret", "lib.api.Peer", false},

		{"public field of non-public class same package", "lib.api.Hidden", "lib.api.Hidden#open", "lib.api.Peer", true},
		{"public field of non-public class other loader", "lib.api.Hidden", "lib.api.Hidden#open", "lib.api.Impostor", false},
		{"public field of non-public class other package", "lib.api.Hidden", "lib.api.Hidden#open", "client.Main", false},

		{"protected through own class", "client.Ext", "lib.api.Api#count", "client.Ext", true},
		{"protected through subclass", "client.ExtSub", "lib.api.Api#count", "client.Ext", true},
		{"protected through superclass", "lib.api.Api", "lib.api.Api#count", "client.Ext", false},
		{"protected without receiver", "", "lib.api.Api#count", "client.Ext", true},
		{"protected static through superclass", "lib.api.Api", "lib.api.Api#CACHE", "client.Ext", true},
		{"protected from unrelated class", "lib.api.Api", "lib.api.Api#count", "client.Main", false},
		{"protected from same package", "lib.api.Api", "lib.api.Api#count", "lib.api.Peer", true},
	}

	f := newFixture(t, true)
	c := NewChecker(f.idx)
	for _, tt := range tests {
		target, field, current := f.class(tt.target), f.field(tt.field), f.class(tt.current)
		t.Run(tt.name, func(t *testing.T) {
			if got := c.IsAccessible(target, field, current); got != tt.want {
				t.Errorf("IsAccessible(%s, %s, %s) = %v, want %v", tt.target, tt.field, tt.current, got, tt.want)
			}
		})
	}
}

func TestWithoutModuleSystem(t *testing.T) {
	f := newFixture(t, false)
	c := NewChecker(f.idx)
	impl, main := f.field("lib.internal.Impl#VALUE"), f.class("client.Main")
	if !c.IsAccessible(typemodel.NoClass, impl, main) {
		t.Errorf("IsAccessible(Impl.VALUE from client.Main) = false, want true without a module system")
	}
	friend, stranger := f.field("lib.friend.Friend#X"), f.class("other.Stranger")
	if !c.IsAccessible(typemodel.NoClass, friend, stranger) {
		t.Errorf("IsAccessible(Friend.X from other.Stranger) = false, want true without a module system")
	}
}

func TestCheckError(t *testing.T) {
	f := newFixture(t, true)
	c := NewChecker(f.idx)
	err := c.Check(f.class("lib.api.Api"), f.field("lib.api.Api#count"), f.class("client.Ext"))
	var aerr *Error
	if !errors.As(err, &aerr) {
		t.Fatalf("Check() error = %v, want *Error", err)
	}
	if aerr.Visibility != "protected" {
		t.Errorf("Visibility = %q, want %q", aerr.Visibility, "protected")
	}
	if !strings.Contains(err.Error(), "lib.api.Api.count") {
		t.Errorf("error = %q, want it to name the field", err.Error())
	}

	err = c.Check(typemodel.NoClass, f.field("lib.internal.Impl#VALUE"), f.class("client.Main"))
	if err == nil || !strings.Contains(err.Error(), "not exported") {
		t.Errorf("Check() error = %v, want an export error", err)
	}
}

func TestPredicates(t *testing.T) {
	f := newFixture(t, true)
	c := NewChecker(f.idx)
	api, helper, peer, impostor := f.class("lib.api.Api"), f.class("lib.api.Api$Helper"), f.class("lib.api.Peer"), f.class("lib.api.Impostor")
	ext, extSub := f.class("client.Ext"), f.class("client.ExtSub")

	if !c.SameClassPackage(api, peer) {
		t.Errorf("SameClassPackage(Api, Peer) = false, want true")
	}
	if c.SameClassPackage(api, impostor) {
		t.Errorf("SameClassPackage(Api, Impostor) = true, want false")
	}
	if !c.IsSubclassOf(extSub, api) || !c.IsSubclassOf(api, api) {
		t.Errorf("IsSubclassOf() = false for a subclass")
	}
	if c.IsSubclassOf(api, ext) {
		t.Errorf("IsSubclassOf(Api, Ext) = true, want false")
	}
	if got := c.NestHost(helper); got != api {
		t.Errorf("NestHost(Api$Helper) = %s, want lib.api.Api", f.idx.Name(got))
	}
	intClass := f.class("int")
	if got := c.NestHost(intClass); got != intClass {
		t.Errorf("NestHost(int) = %s, want int", f.idx.Name(got))
	}
	if !c.AreNestMates(helper, api) || c.AreNestMates(peer, api) {
		t.Errorf("AreNestMates() gave the wrong answer")
	}
}
