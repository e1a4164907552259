package classfile

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

type reader struct {
	r   io.Reader
	err error
}

func (r *reader) readU1() uint8 {
	if r.err != nil {
		return 0
	}
	var buf [1]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return buf[0]
}

func (r *reader) readU2() uint16 {
	if r.err != nil {
		return 0
	}
	var buf [2]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (r *reader) readU4() uint32 {
	if r.err != nil {
		return 0
	}
	var buf [4]byte
	_, r.err = io.ReadFull(r.r, buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

func (r *reader) readBytes(n int) []byte {
	if r.err != nil {
		return nil
	}
	buf := make([]byte, n)
	_, r.err = io.ReadFull(r.r, buf)
	return buf
}

func ParseFile(path string) (*ClassFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open class file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(rd io.Reader) (*ClassFile, error) {
	r := &reader{r: rd}

	magic := r.readU4()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", r.err)
	}
	if magic != Magic {
		return nil, fmt.Errorf("invalid magic number: 0x%X (expected 0xCAFEBABE)", magic)
	}

	cf := &ClassFile{
		MinorVersion: r.readU2(),
		MajorVersion: r.readU2(),
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read version: %w", r.err)
	}

	constantPoolCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read constant pool count: %w", r.err)
	}
	if constantPoolCount == 0 {
		return nil, fmt.Errorf("invalid constant pool count: 0")
	}

	cf.ConstantPool = make(ConstantPool, constantPoolCount-1)
	for i := uint16(1); i < constantPoolCount; i++ {
		entry, wide, err := readConstantPoolEntry(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read constant pool entry %d: %w", i, err)
		}
		cf.ConstantPool[i-1] = entry
		if wide {
			// long and double take two slots; the second is unusable
			i++
		}
	}

	cf.AccessFlags = AccessFlags(r.readU2())
	cf.ThisClass = r.readU2()
	cf.SuperClass = r.readU2()

	interfacesCount := r.readU2()
	cf.Interfaces = make([]uint16, interfacesCount)
	for i := range cf.Interfaces {
		cf.Interfaces[i] = r.readU2()
	}
	if r.err != nil {
		return nil, fmt.Errorf("failed to read class info: %w", r.err)
	}

	fieldsCount := r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read fields count: %w", r.err)
	}
	cf.Fields = make([]FieldInfo, fieldsCount)
	for i := range cf.Fields {
		if err := readFieldInfo(r, cf.ConstantPool, &cf.Fields[i]); err != nil {
			return nil, fmt.Errorf("failed to read field %d: %w", i, err)
		}
	}

	cf.MethodCount = r.readU2()
	if r.err != nil {
		return nil, fmt.Errorf("failed to read methods count: %w", r.err)
	}
	for i := uint16(0); i < cf.MethodCount; i++ {
		if err := skipMethodInfo(r); err != nil {
			return nil, fmt.Errorf("failed to read method %d: %w", i, err)
		}
	}

	attrs, err := readAttributes(r, cf.ConstantPool)
	if err != nil {
		return nil, fmt.Errorf("failed to read class attributes: %w", err)
	}
	cf.Attributes = attrs

	return cf, nil
}

func readConstantPoolEntry(r *reader) (ConstantPoolEntry, bool, error) {
	tag := ConstantTag(r.readU1())
	if r.err != nil {
		return nil, false, r.err
	}

	var entry ConstantPoolEntry
	wide := false
	switch tag {
	case ConstantUtf8:
		length := r.readU2()
		entry = &ConstantUtf8Info{Value: decodeModifiedUtf8(r.readBytes(int(length)))}
	case ConstantInteger:
		entry = &ConstantIntegerInfo{Value: int32(r.readU4())}
	case ConstantFloat:
		entry = &ConstantFloatInfo{Value: math.Float32frombits(r.readU4())}
	case ConstantLong:
		high, low := r.readU4(), r.readU4()
		entry = &ConstantLongInfo{Value: int64(uint64(high)<<32 | uint64(low))}
		wide = true
	case ConstantDouble:
		high, low := r.readU4(), r.readU4()
		entry = &ConstantDoubleInfo{Value: math.Float64frombits(uint64(high)<<32 | uint64(low))}
		wide = true
	case ConstantClass, ConstantString, ConstantMethodType, ConstantModule, ConstantPackage:
		entry = &ConstantNamedInfo{Kind: tag, NameIndex: r.readU2()}
	case ConstantFieldref, ConstantMethodref, ConstantInterfaceMethodref,
		ConstantNameAndType, ConstantDynamic, ConstantInvokeDynamic:
		entry = &ConstantRefInfo{Kind: tag, First: r.readU2(), Second: r.readU2()}
	case ConstantMethodHandle:
		kind := r.readU1()
		entry = &ConstantRefInfo{Kind: tag, First: uint16(kind), Second: r.readU2()}
	default:
		return nil, false, fmt.Errorf("unknown constant pool tag: %d", tag)
	}
	if r.err != nil {
		return nil, false, r.err
	}
	return entry, wide, nil
}

func readFieldInfo(r *reader, cp ConstantPool, field *FieldInfo) error {
	field.AccessFlags = AccessFlags(r.readU2())
	field.NameIndex = r.readU2()
	field.DescriptorIndex = r.readU2()
	if r.err != nil {
		return r.err
	}
	attrs, err := readAttributes(r, cp)
	if err != nil {
		return err
	}
	field.Attributes = attrs
	return nil
}

func skipMethodInfo(r *reader) error {
	r.readU2() // access flags
	r.readU2() // name
	r.readU2() // descriptor
	count := r.readU2()
	for i := uint16(0); i < count; i++ {
		r.readU2()
		length := r.readU4()
		if r.err != nil {
			return r.err
		}
		if _, err := io.CopyN(io.Discard, r.r, int64(length)); err != nil {
			r.err = err
		}
	}
	return r.err
}

func readAttributes(r *reader, cp ConstantPool) ([]AttributeInfo, error) {
	count := r.readU2()
	if r.err != nil {
		return nil, r.err
	}
	attrs := make([]AttributeInfo, count)
	for i := range attrs {
		nameIndex := r.readU2()
		length := r.readU4()
		info := r.readBytes(int(length))
		if r.err != nil {
			return nil, r.err
		}
		name := cp.GetUtf8(nameIndex)
		attrs[i] = AttributeInfo{
			NameIndex: nameIndex,
			Name:      name,
			Info:      info,
			Parsed:    parseAttribute(name, info),
		}
	}
	return attrs, nil
}

func decodeModifiedUtf8(bytes []byte) string {
	runes := make([]rune, 0, len(bytes))
	i := 0
	for i < len(bytes) {
		b := bytes[i]
		switch {
		case b&0x80 == 0:
			runes = append(runes, rune(b))
			i++
		case b&0xE0 == 0xC0 && i+1 < len(bytes):
			runes = append(runes, rune(b&0x1F)<<6|rune(bytes[i+1]&0x3F))
			i += 2
		case b&0xF0 == 0xE0 && i+2 < len(bytes):
			r := rune(b&0x0F)<<12 | rune(bytes[i+1]&0x3F)<<6 | rune(bytes[i+2]&0x3F)
			if r >= 0xD800 && r <= 0xDBFF && i+5 < len(bytes) && bytes[i+3] == 0xED {
				low := rune(bytes[i+3]&0x0F)<<12 | rune(bytes[i+4]&0x3F)<<6 | rune(bytes[i+5]&0x3F)
				if low >= 0xDC00 && low <= 0xDFFF {
					runes = append(runes, 0x10000+((r-0xD800)<<10)+(low-0xDC00))
					i += 6
					continue
				}
			}
			runes = append(runes, r)
			i += 3
		default:
			runes = append(runes, rune(b))
			i++
		}
	}
	return string(runes)
}
