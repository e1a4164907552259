package typemodel

import (
	"io"
	"os"

	"github.com/dhamidi/fieldpath/classfile"
)

const classModifierMask = ModPublic | ModPrivate | ModProtected | ModStatic | ModFinal | ModAbstract | ModSynthetic

func ClassDefFromFile(path, loader string) (ClassDef, error) {
	f, err := os.Open(path)
	if err != nil {
		return ClassDef{}, err
	}
	defer f.Close()
	return ClassDefFromReader(f, loader)
}

func ClassDefFromReader(r io.Reader, loader string) (ClassDef, error) {
	cf, err := classfile.Parse(r)
	if err != nil {
		return ClassDef{}, err
	}
	return ClassDefFromClassFile(cf, loader), nil
}

// ClassDefFromClassFile converts a parsed class file. Nested classes take
// their modifiers and enclosing class from their own InnerClasses entry;
// local and anonymous classes take the enclosing class from
// EnclosingMethod. Synthetic fields are dropped.
func ClassDefFromClassFile(cf *classfile.ClassFile, loader string) ClassDef {
	cp := cf.ConstantPool
	def := ClassDef{
		Name:      classfile.InternalToSourceName(cf.ClassName()),
		Kind:      classKindFromClassFile(cf),
		Modifiers: Modifiers(cf.AccessFlags) & classModifierMask,
		Loader:    loader,
	}

	if super := cf.SuperClassName(); super != "" {
		def.Superclass = classfile.InternalToSourceName(super)
	}
	for _, iface := range cf.InterfaceNames() {
		def.Interfaces = append(def.Interfaces, classfile.InternalToSourceName(iface))
	}

	if own, ok := cf.OwnInnerClass(); ok {
		def.Modifiers = Modifiers(own.AccessFlags) & classModifierMask
		def.SimpleName = own.Name
		if own.Outer != "" {
			def.Enclosing = classfile.InternalToSourceName(own.Outer)
		}
	}
	if def.Enclosing == "" {
		if outer := cf.EnclosingMethodClass(); outer != "" {
			def.Enclosing = classfile.InternalToSourceName(outer)
			def.Local = true
		}
	}

	for i := range cf.Fields {
		field := &cf.Fields[i]
		if field.IsSynthetic() {
			continue
		}
		fd := FieldDef{
			Name:      field.Name(cp),
			Modifiers: Modifiers(field.AccessFlags) & (classModifierMask | ModVolatile | ModTransient),
			Constant:  field.ConstantValue(cp),
		}
		if ft := field.ParsedDescriptor(cp); ft != nil {
			fd.Type = ft.SourceName()
		} else {
			fd.Type = "java.lang.Object"
		}
		def.Fields = append(def.Fields, fd)
	}

	return def
}

// ModuleDefFromClassFile converts a module-info class. It reports false for
// ordinary classes.
func ModuleDefFromClassFile(cf *classfile.ClassFile, loader string) (ModuleDef, bool) {
	info := cf.Module()
	if info == nil {
		return ModuleDef{}, false
	}
	md := ModuleDef{
		Name:   info.Name,
		Loader: loader,
		Open:   info.Open,
	}
	for _, e := range info.Exports {
		md.Exports = append(md.Exports, ExportDef{
			Package: classfile.InternalToSourceName(e.Package),
			To:      e.To,
		})
	}
	return md, true
}

func classKindFromClassFile(cf *classfile.ClassFile) Kind {
	switch {
	case cf.IsAnnotation():
		return KindAnnotation
	case cf.IsEnum():
		return KindEnum
	case cf.IsInterface():
		return KindInterface
	case cf.IsRecord():
		return KindRecord
	}
	return KindClass
}
