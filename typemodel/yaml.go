package typemodel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Document is the YAML form of a class graph:
//
//	moduleSystem: true
//	modules:
//	  - name: com.example.core
//	    loader: app
//	    exports:
//	      - package: com.example.api
//	classes:
//	  - name: com.example.api.Sample
//	    modifiers: public
//	    super: java.lang.Object
//	    loader: app
//	    module: com.example.core
//	    fields:
//	      - {name: value, type: int, modifiers: private}
type Document struct {
	ModuleSystem *bool       `yaml:"moduleSystem,omitempty"`
	Modules      []ModuleDef `yaml:"modules,omitempty"`
	Classes      []ClassDef  `yaml:"classes"`
}

// AddYAML decodes a class graph document into the builder. A
// moduleSystem key in the document overrides the builder's setting.
func (b *Builder) AddYAML(r io.Reader) error {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil
		}
		return fmt.Errorf("decode class graph: %w", err)
	}
	if doc.ModuleSystem != nil {
		b.SetModuleSystem(*doc.ModuleSystem)
	}
	for _, md := range doc.Modules {
		b.AddModule(md)
	}
	for _, cd := range doc.Classes {
		b.AddClass(cd)
	}
	return nil
}

func (b *Builder) AddYAMLFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := b.AddYAML(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadYAML builds an index from a single class graph document.
func LoadYAML(data []byte) (*Index, error) {
	b := NewBuilder()
	if err := b.AddYAML(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return b.Build()
}

// DumpYAML writes the defined classes and named modules of the index as a
// class graph document that AddYAML reads back.
func DumpYAML(w io.Writer, x *Index) error {
	moduleSystem := x.HasModuleSystem()
	doc := Document{ModuleSystem: &moduleSystem}
	for _, m := range x.Modules() {
		md := ModuleDef{Name: m.Name, Open: m.Open}
		if m.Loader != BootLoader {
			md.Loader = loaderName(x, m.Loader)
		}
		for pkg, to := range m.Exports {
			md.Exports = append(md.Exports, ExportDef{Package: pkg, To: to})
		}
		sortExports(md.Exports)
		doc.Modules = append(doc.Modules, md)
	}
	for _, c := range x.Classes() {
		doc.Classes = append(doc.Classes, x.Definition(c))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("encode class graph: %w", err)
	}
	return enc.Close()
}

// loaderName recovers the loader name used by some class definition, since
// identities are one-way hashes.
func loaderName(x *Index, id LoaderID) string {
	for _, c := range x.Classes() {
		def := x.Definition(c)
		if NewLoaderID(def.Loader) == id {
			return def.Loader
		}
	}
	return id.String()
}

func sortExports(exports []ExportDef) {
	sort.Slice(exports, func(i, j int) bool {
		return exports[i].Package < exports[j].Package
	})
}
