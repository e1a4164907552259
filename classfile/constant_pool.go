package classfile

type ConstantPoolEntry interface {
	Tag() ConstantTag
}

type ConstantUtf8Info struct {
	Value string
}

func (c *ConstantUtf8Info) Tag() ConstantTag { return ConstantUtf8 }

type ConstantIntegerInfo struct {
	Value int32
}

func (c *ConstantIntegerInfo) Tag() ConstantTag { return ConstantInteger }

type ConstantFloatInfo struct {
	Value float32
}

func (c *ConstantFloatInfo) Tag() ConstantTag { return ConstantFloat }

type ConstantLongInfo struct {
	Value int64
}

func (c *ConstantLongInfo) Tag() ConstantTag { return ConstantLong }

type ConstantDoubleInfo struct {
	Value float64
}

func (c *ConstantDoubleInfo) Tag() ConstantTag { return ConstantDouble }

// ConstantNamedInfo covers the entries that point at a single Utf8 name:
// Class, String, Module, Package and MethodType.
type ConstantNamedInfo struct {
	Kind      ConstantTag
	NameIndex uint16
}

func (c *ConstantNamedInfo) Tag() ConstantTag { return c.Kind }

// ConstantRefInfo covers the two-index entries (member refs, NameAndType,
// dynamic call sites) and MethodHandle. The type model never follows them,
// they are kept so indices stay aligned.
type ConstantRefInfo struct {
	Kind   ConstantTag
	First  uint16
	Second uint16
}

func (c *ConstantRefInfo) Tag() ConstantTag { return c.Kind }

type ConstantPool []ConstantPoolEntry

func (cp ConstantPool) entry(index uint16) ConstantPoolEntry {
	if index == 0 || int(index) > len(cp) {
		return nil
	}
	return cp[index-1]
}

func (cp ConstantPool) GetUtf8(index uint16) string {
	if e, ok := cp.entry(index).(*ConstantUtf8Info); ok {
		return e.Value
	}
	return ""
}

func (cp ConstantPool) named(index uint16, tag ConstantTag) string {
	if e, ok := cp.entry(index).(*ConstantNamedInfo); ok && e.Kind == tag {
		return cp.GetUtf8(e.NameIndex)
	}
	return ""
}

func (cp ConstantPool) GetClassName(index uint16) string {
	return cp.named(index, ConstantClass)
}

func (cp ConstantPool) GetString(index uint16) string {
	return cp.named(index, ConstantString)
}

func (cp ConstantPool) GetModuleName(index uint16) string {
	return cp.named(index, ConstantModule)
}

func (cp ConstantPool) GetPackageName(index uint16) string {
	return cp.named(index, ConstantPackage)
}

// GetConstant returns the Go value of a loadable constant used by
// ConstantValue attributes, or nil.
func (cp ConstantPool) GetConstant(index uint16) any {
	switch e := cp.entry(index).(type) {
	case *ConstantIntegerInfo:
		return e.Value
	case *ConstantLongInfo:
		return e.Value
	case *ConstantFloatInfo:
		return e.Value
	case *ConstantDoubleInfo:
		return e.Value
	case *ConstantNamedInfo:
		if e.Kind == ConstantString {
			return cp.GetUtf8(e.NameIndex)
		}
	}
	return nil
}
