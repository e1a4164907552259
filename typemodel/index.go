package typemodel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tliron/commonlog"
)

// ClassDef describes one class before linking. Names are binary names in
// dotted form. Nest membership is not recorded: the nest host of a class is
// its outermost enclosing class.
type ClassDef struct {
	Name       string    `yaml:"name"`
	SimpleName string    `yaml:"simpleName,omitempty"`
	Kind       Kind      `yaml:"kind,omitempty"`
	Modifiers  Modifiers `yaml:"modifiers,omitempty"`
	Superclass string    `yaml:"super,omitempty"`
	Interfaces []string  `yaml:"interfaces,omitempty"`
	Enclosing  string    `yaml:"enclosing,omitempty"`
	// Local marks local and anonymous classes: they have an enclosing
	// class but are not among its declared nested classes.
	Local  bool       `yaml:"local,omitempty"`
	Loader string     `yaml:"loader,omitempty"`
	Module string     `yaml:"module,omitempty"`
	Fields []FieldDef `yaml:"fields,omitempty"`
}

type FieldDef struct {
	Name      string    `yaml:"name"`
	Type      string    `yaml:"type"`
	Modifiers Modifiers `yaml:"modifiers,omitempty"`
	Constant  any       `yaml:"constant,omitempty"`
}

type ModuleDef struct {
	Name    string      `yaml:"name"`
	Loader  string      `yaml:"loader,omitempty"`
	Open    bool        `yaml:"open,omitempty"`
	Exports []ExportDef `yaml:"exports,omitempty"`
}

type ExportDef struct {
	Package string   `yaml:"package"`
	To      []string `yaml:"to,omitempty"`
}

var primitiveNames = []string{"boolean", "byte", "char", "short", "int", "long", "float", "double", "void"}

type classEntry struct {
	def         ClassDef
	simpleName  string
	pkg         string
	kind        Kind
	modifiers   Modifiers
	super       ClassID
	interfaces  []ClassID
	enclosing   ClassID
	nested      []ClassID
	fields      []Field
	module      *Module
	loader      LoaderID
	placeholder bool
}

// Index is an immutable in-memory Model. Build one with a Builder.
type Index struct {
	classes      []classEntry
	byName       map[string]ClassID
	modules      []*Module
	moduleSystem bool
}

var _ Model = (*Index)(nil)

// Builder collects class and module definitions and links them into an
// Index. Definitions may be added in any order. When two definitions share
// a name the first one wins, as on a classpath.
type Builder struct {
	classes      []ClassDef
	modules      []ModuleDef
	moduleSystem bool
	log          commonlog.Logger
}

func NewBuilder() *Builder {
	return &Builder{
		moduleSystem: true,
		log:          commonlog.GetLogger("fieldpath.typemodel"),
	}
}

// SetModuleSystem sets the capability reported by HasModuleSystem.
// Defaults to true.
func (b *Builder) SetModuleSystem(enabled bool) { b.moduleSystem = enabled }

func (b *Builder) AddClass(def ClassDef) { b.classes = append(b.classes, def) }

func (b *Builder) AddModule(def ModuleDef) { b.modules = append(b.modules, def) }

type moduleKey struct {
	loader LoaderID
	name   string
}

type linker struct {
	idx     *Index
	modules map[moduleKey]*Module
	log     commonlog.Logger
}

func (b *Builder) Build() (*Index, error) {
	l := &linker{
		idx: &Index{
			byName:       make(map[string]ClassID),
			moduleSystem: b.moduleSystem,
		},
		modules: make(map[moduleKey]*Module),
		log:     b.log,
	}

	for _, md := range b.modules {
		if err := l.addModule(md); err != nil {
			return nil, err
		}
	}

	for _, name := range primitiveNames {
		l.add(classEntry{
			def:       ClassDef{Name: name},
			kind:      KindPrimitive,
			modifiers: ModPublic | ModFinal | ModAbstract,
			loader:    BootLoader,
		})
	}

	for _, def := range b.classes {
		if err := validateClassDef(def); err != nil {
			return nil, err
		}
		if _, dup := l.idx.byName[def.Name]; dup {
			l.log.Debugf("skipping duplicate definition of %s", def.Name)
			continue
		}
		kind := def.Kind
		if kind == "" {
			kind = KindClass
		}
		loader := NewLoaderID(def.Loader)
		l.add(classEntry{
			def:       def,
			kind:      kind,
			modifiers: def.Modifiers,
			loader:    loader,
		})
	}

	// Linking may append placeholders and array classes; only the
	// definitions seen so far are linked here.
	defined := len(l.idx.classes)
	for id := 0; id < defined; id++ {
		if err := l.link(ClassID(id)); err != nil {
			return nil, err
		}
	}

	if err := l.checkCycles(); err != nil {
		return nil, err
	}

	sort.SliceStable(l.idx.modules, func(i, j int) bool {
		return l.idx.modules[i].Name < l.idx.modules[j].Name
	})
	return l.idx, nil
}

func validateClassDef(def ClassDef) error {
	if def.Name == "" {
		return fmt.Errorf("class definition without a name")
	}
	if strings.ContainsAny(def.Name, "/;[") {
		return fmt.Errorf("class %s: name must be a dotted binary name", def.Name)
	}
	if def.Kind != "" && (!def.Kind.valid() || def.Kind == KindPrimitive || def.Kind == KindArray) {
		return fmt.Errorf("class %s: invalid kind %q", def.Name, def.Kind)
	}
	for _, f := range def.Fields {
		if f.Name == "" || f.Type == "" {
			return fmt.Errorf("class %s: field needs a name and a type", def.Name)
		}
	}
	return nil
}

func (l *linker) addModule(md ModuleDef) error {
	if md.Name == "" {
		return fmt.Errorf("module definition without a name")
	}
	key := moduleKey{NewLoaderID(md.Loader), md.Name}
	if _, dup := l.modules[key]; dup {
		return fmt.Errorf("module %s defined twice in loader %q", md.Name, md.Loader)
	}
	m := &Module{
		Name:    md.Name,
		Loader:  key.loader,
		Open:    md.Open,
		Exports: make(map[string][]string),
	}
	for _, e := range md.Exports {
		m.Exports[e.Package] = append(m.Exports[e.Package], e.To...)
	}
	l.modules[key] = m
	l.idx.modules = append(l.idx.modules, m)
	return nil
}

func (l *linker) unnamedModule(loader LoaderID) *Module {
	key := moduleKey{loader: loader}
	if m, ok := l.modules[key]; ok {
		return m
	}
	m := &Module{Loader: loader}
	l.modules[key] = m
	l.idx.modules = append(l.idx.modules, m)
	return m
}

func (l *linker) add(e classEntry) ClassID {
	id := ClassID(len(l.idx.classes))
	if e.kind != KindPrimitive && e.kind != KindArray {
		e.pkg = packageOf(e.def.Name)
	}
	e.super = NoClass
	e.enclosing = NoClass
	if e.module == nil {
		e.module = l.unnamedModule(e.loader)
	}
	l.idx.classes = append(l.idx.classes, e)
	l.idx.byName[e.def.Name] = id
	return id
}

// resolve returns the class named name, creating a placeholder for names
// the index does not define.
func (l *linker) resolve(name, from string) ClassID {
	if id, ok := l.idx.byName[name]; ok {
		return id
	}
	if strings.HasSuffix(name, "[]") {
		return l.arrayClass(name)
	}
	l.log.Debugf("%s refers to %s which is not defined, using a placeholder", from, name)
	id := l.add(classEntry{
		def:         ClassDef{Name: name},
		kind:        KindClass,
		modifiers:   ModPublic,
		loader:      BootLoader,
		placeholder: true,
	})
	l.idx.classes[id].simpleName = simpleNameOf(name, "")
	return id
}

// arrayClass registers an array type. Arrays share the loader and module
// of their element type and extend java.lang.Object when it is defined.
func (l *linker) arrayClass(name string) ClassID {
	elem := l.resolve(strings.TrimSuffix(name, "[]"), name)
	ee := l.idx.classes[elem]
	id := l.add(classEntry{
		def:       ClassDef{Name: name},
		kind:      KindArray,
		modifiers: ModPublic | ModFinal | ModAbstract,
		loader:    ee.loader,
		module:    ee.module,
	})
	e := &l.idx.classes[id]
	e.simpleName = simpleNameOf(strings.TrimSuffix(name, "[]"), "") + "[]"
	if obj, ok := l.idx.byName["java.lang.Object"]; ok {
		e.super = obj
	}
	for _, iface := range []string{"java.lang.Cloneable", "java.io.Serializable"} {
		if id, ok := l.idx.byName[iface]; ok {
			e.interfaces = append(e.interfaces, id)
		}
	}
	return id
}

func (l *linker) link(id ClassID) error {
	e := &l.idx.classes[id]
	if e.kind == KindPrimitive {
		e.simpleName = e.def.Name
		return nil
	}
	def := e.def

	if def.Module != "" {
		m, ok := l.modules[moduleKey{e.loader, def.Module}]
		if !ok {
			return fmt.Errorf("class %s: unknown module %s", def.Name, def.Module)
		}
		e.module = m
	}

	// resolve may grow the class table, so entries are re-fetched by id
	// after each call.
	if def.Superclass != "" {
		super := l.resolve(def.Superclass, def.Name)
		l.idx.classes[id].super = super
	}
	for _, iface := range def.Interfaces {
		ifaceID := l.resolve(iface, def.Name)
		l.idx.classes[id].interfaces = append(l.idx.classes[id].interfaces, ifaceID)
	}
	if def.Enclosing != "" {
		enc := l.resolve(def.Enclosing, def.Name)
		l.idx.classes[id].enclosing = enc
		if !def.Local {
			l.idx.classes[enc].nested = append(l.idx.classes[enc].nested, id)
		}
	}

	fields := make([]Field, 0, len(def.Fields))
	seen := make(map[string]bool, len(def.Fields))
	for _, fd := range def.Fields {
		if seen[fd.Name] {
			return fmt.Errorf("class %s: field %s declared twice", def.Name, fd.Name)
		}
		seen[fd.Name] = true
		fields = append(fields, Field{
			Name:      fd.Name,
			Declaring: id,
			Type:      fd.Type,
			Modifiers: fd.Modifiers,
		})
		if strings.HasSuffix(fd.Type, "[]") {
			if _, ok := l.idx.byName[fd.Type]; !ok {
				l.arrayClass(fd.Type)
			}
		}
	}

	e = &l.idx.classes[id]
	e.fields = fields
	e.simpleName = def.SimpleName
	if e.simpleName == "" {
		e.simpleName = simpleNameOf(def.Name, def.Enclosing)
	}
	return nil
}

func (l *linker) checkCycles() error {
	limit := len(l.idx.classes)
	for id := range l.idx.classes {
		for _, step := range []struct {
			what string
			next func(ClassID) ClassID
		}{
			{"superclass", l.idx.Superclass},
			{"enclosing class", l.idx.EnclosingClass},
		} {
			c, n := ClassID(id), 0
			for c != NoClass {
				if n > limit {
					return fmt.Errorf("class %s: %s chain is cyclic", l.idx.classes[id].def.Name, step.what)
				}
				c = step.next(c)
				n++
			}
		}
	}
	return nil
}

func packageOf(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return ""
}

// simpleNameOf derives the source simple name from a binary name. Nested
// classes drop the enclosing name and, for local classes, the numeric
// prefix javac inserts; anonymous classes have an empty simple name.
func simpleNameOf(name, enclosing string) string {
	if enclosing != "" && strings.HasPrefix(name, enclosing+"$") {
		return strings.TrimLeft(name[len(enclosing)+1:], "0123456789")
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

func (x *Index) entry(c ClassID) *classEntry {
	if c < 0 || int(c) >= len(x.classes) {
		return nil
	}
	return &x.classes[c]
}

func (x *Index) Name(c ClassID) string {
	if e := x.entry(c); e != nil {
		return e.def.Name
	}
	return ""
}

func (x *Index) SimpleName(c ClassID) string {
	if e := x.entry(c); e != nil {
		return e.simpleName
	}
	return ""
}

func (x *Index) Kind(c ClassID) Kind {
	if e := x.entry(c); e != nil {
		return e.kind
	}
	return ""
}

func (x *Index) Modifiers(c ClassID) Modifiers {
	if e := x.entry(c); e != nil {
		return e.modifiers
	}
	return 0
}

func (x *Index) PackageOf(c ClassID) string {
	if e := x.entry(c); e != nil {
		return e.pkg
	}
	return ""
}

func (x *Index) ModuleOf(c ClassID) *Module {
	if e := x.entry(c); e != nil {
		return e.module
	}
	return &Module{}
}

func (x *Index) LoaderOf(c ClassID) LoaderID {
	if e := x.entry(c); e != nil {
		return e.loader
	}
	return BootLoader
}

func (x *Index) Superclass(c ClassID) ClassID {
	if e := x.entry(c); e != nil {
		return e.super
	}
	return NoClass
}

func (x *Index) Interfaces(c ClassID) []ClassID {
	if e := x.entry(c); e != nil {
		return e.interfaces
	}
	return nil
}

func (x *Index) EnclosingClass(c ClassID) ClassID {
	if e := x.entry(c); e != nil {
		return e.enclosing
	}
	return NoClass
}

func (x *Index) DeclaredNestedClasses(c ClassID) []ClassID {
	if e := x.entry(c); e != nil {
		return e.nested
	}
	return nil
}

func (x *Index) DeclaredFields(c ClassID) []Field {
	if e := x.entry(c); e != nil {
		return e.fields
	}
	return nil
}

func (x *Index) DeclaredField(c ClassID, name string) (Field, bool) {
	for _, f := range x.DeclaredFields(c) {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (x *Index) LoadClass(name string) (ClassID, bool) {
	id, ok := x.byName[name]
	return id, ok
}

func (x *Index) HasModuleSystem() bool { return x.moduleSystem }

// IsPlaceholder reports whether c stands in for a class that was referenced
// but never defined.
func (x *Index) IsPlaceholder(c ClassID) bool {
	if e := x.entry(c); e != nil {
		return e.placeholder
	}
	return false
}

// Classes returns the defined classes in definition order, leaving out
// primitives, array types and placeholders.
func (x *Index) Classes() []ClassID {
	var ids []ClassID
	for i, e := range x.classes {
		if e.kind == KindPrimitive || e.kind == KindArray || e.placeholder {
			continue
		}
		ids = append(ids, ClassID(i))
	}
	return ids
}

// Definition returns the definition c was built from.
func (x *Index) Definition(c ClassID) ClassDef {
	if e := x.entry(c); e != nil {
		return e.def
	}
	return ClassDef{}
}

// Modules returns the named modules of the index.
func (x *Index) Modules() []*Module {
	var result []*Module
	for _, m := range x.modules {
		if m.IsNamed() {
			result = append(result, m)
		}
	}
	return result
}
