package classfile

// ClassFile is the part of a decoded class file the type model consumes.
// Methods are skipped while parsing; only their count is retained.
type ClassFile struct {
	MinorVersion uint16
	MajorVersion uint16
	ConstantPool ConstantPool
	AccessFlags  AccessFlags
	ThisClass    uint16
	SuperClass   uint16
	Interfaces   []uint16
	Fields       []FieldInfo
	MethodCount  uint16
	Attributes   []AttributeInfo
}

func (cf *ClassFile) ClassName() string {
	return cf.ConstantPool.GetClassName(cf.ThisClass)
}

func (cf *ClassFile) SuperClassName() string {
	if cf.SuperClass == 0 {
		return ""
	}
	return cf.ConstantPool.GetClassName(cf.SuperClass)
}

func (cf *ClassFile) InterfaceNames() []string {
	names := make([]string, len(cf.Interfaces))
	for i, idx := range cf.Interfaces {
		names[i] = cf.ConstantPool.GetClassName(idx)
	}
	return names
}

func (cf *ClassFile) IsInterface() bool {
	return cf.AccessFlags.IsInterface() && !cf.AccessFlags.IsAnnotation()
}

func (cf *ClassFile) IsAnnotation() bool { return cf.AccessFlags.IsAnnotation() }
func (cf *ClassFile) IsEnum() bool       { return cf.AccessFlags.IsEnum() }
func (cf *ClassFile) IsModule() bool     { return cf.AccessFlags.IsModule() }

// IsRecord reports whether the class carries a Record attribute.
func (cf *ClassFile) IsRecord() bool { return cf.GetAttribute("Record") != nil }

func (cf *ClassFile) GetField(name string) *FieldInfo {
	for i := range cf.Fields {
		if cf.Fields[i].Name(cf.ConstantPool) == name {
			return &cf.Fields[i]
		}
	}
	return nil
}

func (cf *ClassFile) GetAttribute(name string) *AttributeInfo {
	return findAttribute(cf.Attributes, name)
}

// InnerClass is an InnerClasses entry with its indices resolved.
type InnerClass struct {
	Inner       string
	Outer       string
	Name        string
	AccessFlags AccessFlags
}

// InnerClasses returns the resolved InnerClasses table. Local and
// anonymous classes have an empty Outer; anonymous classes also have an
// empty Name.
func (cf *ClassFile) InnerClasses() []InnerClass {
	attr := cf.GetAttribute("InnerClasses")
	if attr == nil {
		return nil
	}
	ic := attr.AsInnerClasses()
	if ic == nil {
		return nil
	}
	result := make([]InnerClass, len(ic.Classes))
	for i, e := range ic.Classes {
		result[i] = InnerClass{
			Inner:       cf.ConstantPool.GetClassName(e.InnerClassInfoIndex),
			Outer:       cf.ConstantPool.GetClassName(e.OuterClassInfoIndex),
			Name:        cf.ConstantPool.GetUtf8(e.InnerNameIndex),
			AccessFlags: e.InnerClassAccessFlags,
		}
	}
	return result
}

// OwnInnerClass returns the InnerClasses entry describing this class
// itself, present when the class is nested.
func (cf *ClassFile) OwnInnerClass() (InnerClass, bool) {
	self := cf.ClassName()
	for _, ic := range cf.InnerClasses() {
		if ic.Inner == self {
			return ic, true
		}
	}
	return InnerClass{}, false
}

// EnclosingMethodClass returns the class named by the EnclosingMethod
// attribute of a local or anonymous class.
func (cf *ClassFile) EnclosingMethodClass() string {
	attr := cf.GetAttribute("EnclosingMethod")
	if attr == nil {
		return ""
	}
	if em := attr.AsEnclosingMethod(); em != nil {
		return cf.ConstantPool.GetClassName(em.ClassIndex)
	}
	return ""
}

func (cf *ClassFile) NestHost() string {
	attr := cf.GetAttribute("NestHost")
	if attr == nil {
		return ""
	}
	if nh := attr.AsNestHost(); nh != nil {
		return cf.ConstantPool.GetClassName(nh.HostClassIndex)
	}
	return ""
}

func (cf *ClassFile) NestMembers() []string {
	attr := cf.GetAttribute("NestMembers")
	if attr == nil {
		return nil
	}
	nm := attr.AsNestMembers()
	if nm == nil {
		return nil
	}
	names := make([]string, len(nm.Classes))
	for i, idx := range nm.Classes {
		names[i] = cf.ConstantPool.GetClassName(idx)
	}
	return names
}

// ModuleInfo is the resolved content of a module-info class relevant to
// package visibility.
type ModuleInfo struct {
	Name     string
	Open     bool
	Exports  []ModuleExport
	Packages []string
}

type ModuleExport struct {
	Package string
	To      []string
}

// Module returns the resolved Module attribute, or nil when the class is
// not a module descriptor. Package names are in internal form.
func (cf *ClassFile) Module() *ModuleInfo {
	attr := cf.GetAttribute("Module")
	if attr == nil {
		return nil
	}
	m := attr.AsModule()
	if m == nil {
		return nil
	}
	cp := cf.ConstantPool
	info := &ModuleInfo{
		Name: cp.GetModuleName(m.ModuleNameIndex),
		Open: m.ModuleFlags&ModuleOpen != 0,
	}
	for _, e := range m.Exports {
		export := ModuleExport{Package: cp.GetPackageName(e.ExportsIndex)}
		for _, to := range e.ExportsToIndex {
			export.To = append(export.To, cp.GetModuleName(to))
		}
		info.Exports = append(info.Exports, export)
	}
	if pa := cf.GetAttribute("ModulePackages"); pa != nil {
		if mp := pa.AsModulePackages(); mp != nil {
			for _, idx := range mp.PackageIndex {
				info.Packages = append(info.Packages, cp.GetPackageName(idx))
			}
		}
	}
	return info
}
