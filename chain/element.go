// Package chain holds the result of resolving a field access expression:
// the ordered receiver casts and field loads that reach the target field.
package chain

import (
	"fmt"

	"github.com/dhamidi/fieldpath/typemodel"
)

// Element is one step of a chain. The implementations are ThisReference,
// QualifiedThisReference and FieldReference.
type Element interface {
	// Type is the static type of the value the step produces.
	Type() typemodel.ClassID
	IsStatic() bool
	Describe(m typemodel.Model) string
	element()
}

// ThisReference loads the current instance, typed as Class.
type ThisReference struct {
	Class typemodel.ClassID
}

func NewThisReference(class typemodel.ClassID) ThisReference {
	return ThisReference{Class: class}
}

func (r ThisReference) Type() typemodel.ClassID { return r.Class }
func (r ThisReference) IsStatic() bool          { return false }
func (r ThisReference) element()                {}

func (r ThisReference) Describe(m typemodel.Model) string {
	return fmt.Sprintf("this(%s)", m.Name(r.Class))
}

// QualifiedThisReference walks from an instance of Inner out to its
// enclosing instance of Enclosing. Depth counts the enclosing classes
// crossed in between, so a direct outer class has depth 0.
type QualifiedThisReference struct {
	Inner     typemodel.ClassID
	Enclosing typemodel.ClassID
	Depth     int
}

// NewQualifiedThisReference fails unless enclosing lexically encloses
// inner, directly or not.
func NewQualifiedThisReference(m typemodel.Model, inner, enclosing typemodel.ClassID) (QualifiedThisReference, error) {
	depth := 0
	for c := m.EnclosingClass(inner); c != typemodel.NoClass; c = m.EnclosingClass(c) {
		if c == enclosing {
			return QualifiedThisReference{Inner: inner, Enclosing: enclosing, Depth: depth}, nil
		}
		depth++
	}
	return QualifiedThisReference{}, fmt.Errorf("%s is not an enclosing class of %s", m.Name(enclosing), m.Name(inner))
}

func (r QualifiedThisReference) Type() typemodel.ClassID { return r.Enclosing }
func (r QualifiedThisReference) IsStatic() bool          { return false }
func (r QualifiedThisReference) element()                {}

func (r QualifiedThisReference) Describe(m typemodel.Model) string {
	return fmt.Sprintf("%s.this(from %s, depth %d)", m.Name(r.Enclosing), m.Name(r.Inner), r.Depth)
}

// FieldReference loads Field through a reference typed as Membering.
type FieldReference struct {
	Membering typemodel.ClassID
	Field     typemodel.Field
	// FieldType is the declared type of the field, NoClass when the model
	// does not know it.
	FieldType typemodel.ClassID
}

// NewFieldReference fails unless looking field's name up from membering
// yields field itself.
func NewFieldReference(m typemodel.Model, membering typemodel.ClassID, field typemodel.Field) (FieldReference, error) {
	found, err := typemodel.FieldOnHierarchy(m, membering, field.Name)
	if err != nil {
		return FieldReference{}, err
	}
	if found != field {
		return FieldReference{}, fmt.Errorf("field %s is hidden by %s when seen from %s",
			typemodel.Describe(m, field), typemodel.Describe(m, found), m.Name(membering))
	}
	typ, ok := m.LoadClass(field.Type)
	if !ok {
		typ = typemodel.NoClass
	}
	return FieldReference{Membering: membering, Field: field, FieldType: typ}, nil
}

func (r FieldReference) Type() typemodel.ClassID { return r.FieldType }
func (r FieldReference) IsStatic() bool          { return r.Field.IsStatic() }
func (r FieldReference) element()                {}

func (r FieldReference) Describe(m typemodel.Model) string {
	prefix := ""
	if r.IsStatic() {
		prefix = "static "
	}
	return fmt.Sprintf("%s%s.%s via %s : %s", prefix, m.Name(r.Field.Declaring), r.Field.Name, m.Name(r.Membering), r.Field.Type)
}
