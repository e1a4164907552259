package classfile

import "strings"

type FieldType struct {
	BaseType   string
	ClassName  string
	ArrayDepth int
}

// SourceName renders the type as a binary source name: "int",
// "java.lang.String", "p.Outer$Inner", "long[][]".
func (ft *FieldType) SourceName() string {
	var sb strings.Builder
	if ft.BaseType != "" {
		sb.WriteString(ft.BaseType)
	} else {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (ft *FieldType) IsArray() bool {
	return ft.ArrayDepth > 0
}

func (ft *FieldType) IsPrimitive() bool {
	return ft.BaseType != "" && ft.ArrayDepth == 0
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// ParseFieldDescriptor parses a field descriptor such as "I" or
// "[Ljava/lang/String;". It returns nil for malformed input.
func ParseFieldDescriptor(desc string) *FieldType {
	ft := &FieldType{}
	i := 0
	for i < len(desc) && desc[i] == '[' {
		ft.ArrayDepth++
		i++
	}
	if i >= len(desc) {
		return nil
	}

	if base, ok := baseTypes[desc[i]]; ok {
		if i+1 != len(desc) {
			return nil
		}
		ft.BaseType = base
		return ft
	}
	if desc[i] != 'L' || !strings.HasSuffix(desc, ";") || len(desc)-i < 3 {
		return nil
	}
	ft.ClassName = desc[i+1 : len(desc)-1]
	return ft
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}
