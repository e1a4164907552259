package typemodel

import (
	"archive/zip"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dhamidi/fieldpath/classfile"
)

// AddClasspath reads every class under the given directories and jar
// files and adds them to the builder as defined by loader. An entry whose
// root holds a module-info.class becomes a named module and all of its
// classes belong to it. Class files that fail to parse are logged and
// skipped.
func (b *Builder) AddClasspath(loader string, entries []string) error {
	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil {
			return fmt.Errorf("classpath entry %s: %w", entry, err)
		}
		var defs []ClassDef
		var module *ModuleDef
		if info.IsDir() {
			defs, module, err = b.scanDirectory(entry, loader)
		} else if strings.HasSuffix(entry, ".jar") || strings.HasSuffix(entry, ".zip") {
			defs, module, err = b.scanJar(entry, loader)
		} else if strings.HasSuffix(entry, ".class") {
			var def ClassDef
			def, err = ClassDefFromFile(entry, loader)
			defs = []ClassDef{def}
		} else {
			b.log.Debugf("skipping classpath entry %s: not a directory, jar or class file", entry)
			continue
		}
		if err != nil {
			return fmt.Errorf("classpath entry %s: %w", entry, err)
		}

		if module != nil {
			b.AddModule(*module)
		}
		for _, def := range defs {
			if module != nil {
				def.Module = module.Name
			}
			b.AddClass(def)
		}
		b.log.Debugf("loaded %d classes from %s", len(defs), entry)
	}
	return nil
}

func (b *Builder) scanDirectory(root, loader string) ([]ClassDef, *ModuleDef, error) {
	var defs []ClassDef
	var module *ModuleDef
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(p) != ".class" || d.Name() == "package-info.class" {
			return nil
		}
		cf, err := classfile.ParseFile(p)
		if err != nil {
			b.log.Warningf("skipping %s: %v", p, err)
			return nil
		}
		if d.Name() == "module-info.class" {
			if filepath.Dir(p) == filepath.Clean(root) {
				if md, ok := ModuleDefFromClassFile(cf, loader); ok {
					module = &md
				}
			}
			return nil
		}
		defs = append(defs, ClassDefFromClassFile(cf, loader))
		return nil
	})
	return defs, module, err
}

func (b *Builder) scanJar(jarPath, loader string) ([]ClassDef, *ModuleDef, error) {
	r, err := zip.OpenReader(jarPath)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	var defs []ClassDef
	var module *ModuleDef
	for _, f := range r.File {
		if f.FileInfo().IsDir() || path.Ext(f.Name) != ".class" {
			continue
		}
		// multi-release overlays duplicate base classes
		if strings.HasPrefix(f.Name, "META-INF/") {
			continue
		}
		cf, err := parseZipEntry(f)
		if err != nil {
			b.log.Warningf("skipping %s!%s: %v", jarPath, f.Name, err)
			continue
		}
		if f.Name == "module-info.class" {
			if md, ok := ModuleDefFromClassFile(cf, loader); ok {
				module = &md
			}
			continue
		}
		if path.Base(f.Name) == "module-info.class" || path.Base(f.Name) == "package-info.class" {
			continue
		}
		defs = append(defs, ClassDefFromClassFile(cf, loader))
	}
	return defs, module, nil
}

func parseZipEntry(f *zip.File) (*classfile.ClassFile, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return classfile.Parse(rc)
}
