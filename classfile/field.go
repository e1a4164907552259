package classfile

type FieldInfo struct {
	AccessFlags     AccessFlags
	NameIndex       uint16
	DescriptorIndex uint16
	Attributes      []AttributeInfo
}

func (f *FieldInfo) Name(cp ConstantPool) string {
	return cp.GetUtf8(f.NameIndex)
}

func (f *FieldInfo) Descriptor(cp ConstantPool) string {
	return cp.GetUtf8(f.DescriptorIndex)
}

func (f *FieldInfo) GetAttribute(name string) *AttributeInfo {
	return findAttribute(f.Attributes, name)
}

func (f *FieldInfo) IsStatic() bool    { return f.AccessFlags.IsStatic() }
func (f *FieldInfo) IsSynthetic() bool { return f.AccessFlags.IsSynthetic() }

func (f *FieldInfo) ParsedDescriptor(cp ConstantPool) *FieldType {
	return ParseFieldDescriptor(f.Descriptor(cp))
}

// ConstantValue returns the compile-time constant of a static final field,
// or nil when the field has none.
func (f *FieldInfo) ConstantValue(cp ConstantPool) any {
	attr := f.GetAttribute("ConstantValue")
	if attr == nil {
		return nil
	}
	if cv := attr.AsConstantValue(); cv != nil {
		return cp.GetConstant(cv.ConstantValueIndex)
	}
	return nil
}
