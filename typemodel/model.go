// Package typemodel is the read-only view of a JVM class graph that the
// resolver and the access checker query: classes, their fields, nesting,
// packages, modules and defining loaders.
package typemodel

import (
	"errors"
	"fmt"
)

// ClassID is a handle to a class in a Model.
type ClassID int32

// NoClass is the null handle.
const NoClass ClassID = -1

var (
	ErrNoSuchField  = errors.New("no such field")
	ErrUnknownClass = errors.New("unknown class")
)

type Kind string

const (
	KindClass      Kind = "class"
	KindInterface  Kind = "interface"
	KindEnum       Kind = "enum"
	KindAnnotation Kind = "annotation"
	KindRecord     Kind = "record"
	KindPrimitive  Kind = "primitive"
	KindArray      Kind = "array"
)

func (k Kind) valid() bool {
	switch k {
	case KindClass, KindInterface, KindEnum, KindAnnotation, KindRecord, KindPrimitive, KindArray:
		return true
	}
	return false
}

// Field is a declared field. Type is the binary source name of the
// declared type: "int", "java.lang.String", "p.Outer$Inner", "int[]".
type Field struct {
	Name      string
	Declaring ClassID
	Type      string
	Modifiers Modifiers
}

func (f Field) IsStatic() bool  { return f.Modifiers.IsStatic() }
func (f Field) IsPrivate() bool { return f.Modifiers.IsPrivate() }

// Model is the type-model query surface. Implementations must be safe for
// concurrent reads.
type Model interface {
	// Name returns the binary name, e.g. "p.Outer$Inner".
	Name(c ClassID) string
	SimpleName(c ClassID) string
	Kind(c ClassID) Kind
	// Modifiers of a nested class come from its InnerClasses entry and so
	// may include private, protected and static.
	Modifiers(c ClassID) Modifiers
	PackageOf(c ClassID) string
	// ModuleOf never returns nil; classes outside a named module belong to
	// the unnamed module of their loader.
	ModuleOf(c ClassID) *Module
	LoaderOf(c ClassID) LoaderID
	Superclass(c ClassID) ClassID
	Interfaces(c ClassID) []ClassID
	// EnclosingClass is the lexically enclosing class, including for
	// local and anonymous classes.
	EnclosingClass(c ClassID) ClassID
	DeclaredNestedClasses(c ClassID) []ClassID
	DeclaredFields(c ClassID) []Field
	DeclaredField(c ClassID, name string) (Field, bool)
	// LoadClass looks a class up by binary name.
	LoadClass(name string) (ClassID, bool)
	// HasModuleSystem reports whether module boundaries are enforced.
	HasModuleSystem() bool
}

// Describe renders a field as "p.Owner.name" for messages.
func Describe(m Model, f Field) string {
	return fmt.Sprintf("%s.%s", m.Name(f.Declaring), f.Name)
}
