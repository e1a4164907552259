package classfile

import (
	"encoding/binary"
)

type AttributeInfo struct {
	NameIndex uint16
	Name      string
	Info      []byte
	Parsed    interface{}
}

type ConstantValueAttribute struct {
	ConstantValueIndex uint16
}

type InnerClassesAttribute struct {
	Classes []InnerClassEntry
}

type InnerClassEntry struct {
	InnerClassInfoIndex   uint16
	OuterClassInfoIndex   uint16
	InnerNameIndex        uint16
	InnerClassAccessFlags AccessFlags
}

type EnclosingMethodAttribute struct {
	ClassIndex  uint16
	MethodIndex uint16
}

type NestHostAttribute struct {
	HostClassIndex uint16
}

type NestMembersAttribute struct {
	Classes []uint16
}

type ModuleAttribute struct {
	ModuleNameIndex    uint16
	ModuleFlags        uint16
	ModuleVersionIndex uint16
	Exports            []ModuleExports
	Opens              []ModuleExports
}

type ModuleExports struct {
	ExportsIndex   uint16
	ExportsFlags   uint16
	ExportsToIndex []uint16
}

type ModulePackagesAttribute struct {
	PackageIndex []uint16
}

func findAttribute(attrs []AttributeInfo, name string) *AttributeInfo {
	for i := range attrs {
		if attrs[i].Name == name {
			return &attrs[i]
		}
	}
	return nil
}

func (a *AttributeInfo) AsConstantValue() *ConstantValueAttribute {
	v, _ := a.Parsed.(*ConstantValueAttribute)
	return v
}

func (a *AttributeInfo) AsInnerClasses() *InnerClassesAttribute {
	v, _ := a.Parsed.(*InnerClassesAttribute)
	return v
}

func (a *AttributeInfo) AsEnclosingMethod() *EnclosingMethodAttribute {
	v, _ := a.Parsed.(*EnclosingMethodAttribute)
	return v
}

func (a *AttributeInfo) AsNestHost() *NestHostAttribute {
	v, _ := a.Parsed.(*NestHostAttribute)
	return v
}

func (a *AttributeInfo) AsNestMembers() *NestMembersAttribute {
	v, _ := a.Parsed.(*NestMembersAttribute)
	return v
}

func (a *AttributeInfo) AsModule() *ModuleAttribute {
	v, _ := a.Parsed.(*ModuleAttribute)
	return v
}

func (a *AttributeInfo) AsModulePackages() *ModulePackagesAttribute {
	v, _ := a.Parsed.(*ModulePackagesAttribute)
	return v
}

// parseAttribute decodes the attributes the type model reads. Everything
// else is kept as raw bytes.
func parseAttribute(name string, info []byte) interface{} {
	switch name {
	case "ConstantValue":
		if len(info) < 2 {
			return nil
		}
		return &ConstantValueAttribute{ConstantValueIndex: u2(info, 0)}
	case "InnerClasses":
		return parseInnerClassesAttribute(info)
	case "EnclosingMethod":
		if len(info) < 4 {
			return nil
		}
		return &EnclosingMethodAttribute{ClassIndex: u2(info, 0), MethodIndex: u2(info, 2)}
	case "NestHost":
		if len(info) < 2 {
			return nil
		}
		return &NestHostAttribute{HostClassIndex: u2(info, 0)}
	case "NestMembers":
		if idx := parseIndexList(info); idx != nil {
			return &NestMembersAttribute{Classes: idx}
		}
	case "Module":
		return parseModuleAttribute(info)
	case "ModulePackages":
		if idx := parseIndexList(info); idx != nil {
			return &ModulePackagesAttribute{PackageIndex: idx}
		}
	}
	return nil
}

func u2(b []byte, offset int) uint16 {
	return binary.BigEndian.Uint16(b[offset : offset+2])
}

// parseIndexList decodes a u2 count followed by that many u2 indices.
func parseIndexList(info []byte) []uint16 {
	if len(info) < 2 {
		return nil
	}
	count := int(u2(info, 0))
	if len(info) < 2+count*2 {
		return nil
	}
	result := make([]uint16, count)
	for i := range result {
		result[i] = u2(info, 2+i*2)
	}
	return result
}

func parseInnerClassesAttribute(info []byte) *InnerClassesAttribute {
	if len(info) < 2 {
		return nil
	}
	count := int(u2(info, 0))
	if len(info) < 2+count*8 {
		return nil
	}

	ic := &InnerClassesAttribute{
		Classes: make([]InnerClassEntry, count),
	}

	offset := 2
	for i := 0; i < count; i++ {
		ic.Classes[i] = InnerClassEntry{
			InnerClassInfoIndex:   u2(info, offset),
			OuterClassInfoIndex:   u2(info, offset+2),
			InnerNameIndex:        u2(info, offset+4),
			InnerClassAccessFlags: AccessFlags(u2(info, offset+6)),
		}
		offset += 8
	}

	return ic
}

// parseModuleAttribute decodes the module header, its exports and opens.
// Requires are skipped; uses and provides follow opens and are not read.
func parseModuleAttribute(info []byte) *ModuleAttribute {
	if len(info) < 6 {
		return nil
	}

	m := &ModuleAttribute{
		ModuleNameIndex:    u2(info, 0),
		ModuleFlags:        u2(info, 2),
		ModuleVersionIndex: u2(info, 4),
	}

	offset := 6
	if len(info) < offset+2 {
		return m
	}
	requiresCount := int(u2(info, offset))
	offset += 2 + requiresCount*6
	if len(info) < offset {
		return m
	}

	var ok bool
	if m.Exports, offset, ok = parseModuleExports(info, offset); !ok {
		return m
	}
	m.Opens, _, _ = parseModuleExports(info, offset)
	return m
}

func parseModuleExports(info []byte, offset int) ([]ModuleExports, int, bool) {
	if len(info) < offset+2 {
		return nil, offset, false
	}
	count := int(u2(info, offset))
	offset += 2

	result := make([]ModuleExports, 0, count)
	for i := 0; i < count; i++ {
		if len(info) < offset+6 {
			return result, offset, false
		}
		e := ModuleExports{
			ExportsIndex: u2(info, offset),
			ExportsFlags: u2(info, offset+2),
		}
		toCount := int(u2(info, offset+4))
		offset += 6
		if len(info) < offset+toCount*2 {
			return result, offset, false
		}
		for j := 0; j < toCount; j++ {
			e.ExportsToIndex = append(e.ExportsToIndex, u2(info, offset))
			offset += 2
		}
		result = append(result, e)
	}
	return result, offset, true
}
