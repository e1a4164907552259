// Package access decides whether a field may be accessed from a class,
// following the JVM's member access rules.
package access

import (
	"fmt"

	"github.com/dhamidi/fieldpath/typemodel"
)

// Error reports a rejected access: the visibility level of the field and
// the rule that failed.
type Error struct {
	Field      string
	Visibility string
	From       string
	Reason     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s field %s is not accessible from %s: %s", e.Visibility, e.Field, e.From, e.Reason)
}

// Checker evaluates access rules against a type model. It holds no state
// beyond the model and is safe for concurrent use.
type Checker struct {
	model typemodel.Model
}

// NewChecker returns a checker that answers from m.
func NewChecker(m typemodel.Model) *Checker {
	return &Checker{model: m}
}

// IsAccessible reports whether current may access field through a
// reference of static type target. Pass typemodel.NoClass as target when
// there is no receiver.
func (c *Checker) IsAccessible(target typemodel.ClassID, field typemodel.Field, current typemodel.ClassID) bool {
	return c.Check(target, field, current) == nil
}

// Check is IsAccessible with the reason for a rejection.
func (c *Checker) Check(target typemodel.ClassID, field typemodel.Field, current typemodel.ClassID) error {
	m := c.model
	declaring := field.Declaring
	if current == declaring {
		return nil
	}

	reject := func(format string, args ...any) error {
		return &Error{
			Field:      typemodel.Describe(m, field),
			Visibility: field.Modifiers.Visibility(),
			From:       m.Name(current),
			Reason:     fmt.Sprintf(format, args...),
		}
	}

	if m.HasModuleSystem() {
		from, to := m.ModuleOf(current), m.ModuleOf(declaring)
		if from != to && !to.IsExported(m.PackageOf(declaring), from) {
			return reject("package %s of %s is not exported to %s", m.PackageOf(declaring), to, from)
		}
	}

	samePackage, gotSamePackage := false, false
	isSamePackage := func() bool {
		if !gotSamePackage {
			samePackage = c.SameClassPackage(current, declaring)
			gotSamePackage = true
		}
		return samePackage
	}

	if !m.Modifiers(declaring).IsPublic() && !isSamePackage() {
		return reject("class %s is not public and not in the same runtime package", m.Name(declaring))
	}

	mods := field.Modifiers
	if mods.IsPublic() {
		return nil
	}

	if mods.IsPrivate() {
		if c.AreNestMates(current, declaring) {
			return nil
		}
		return reject("%s and %s are not nestmates", m.Name(current), m.Name(declaring))
	}

	if mods.IsProtected() {
		if !c.IsSubclassOf(current, declaring) && !isSamePackage() {
			return reject("%s is neither a subclass of %s nor in its package", m.Name(current), m.Name(declaring))
		}
		if !field.IsStatic() && target != typemodel.NoClass && target != current && !isSamePackage() {
			if !c.IsSubclassOf(target, current) {
				return reject("access through %s, which is not a subclass of %s", m.Name(target), m.Name(current))
			}
		}
		return nil
	}

	if isSamePackage() {
		return nil
	}
	return reject("not in the same runtime package")
}

// SameClassPackage reports whether two classes are in the same runtime
// package: equal package names and the same defining loader.
func (c *Checker) SameClassPackage(a, b typemodel.ClassID) bool {
	m := c.model
	return m.LoaderOf(a) == m.LoaderOf(b) && m.PackageOf(a) == m.PackageOf(b)
}

// IsSubclassOf reports whether class is ofClass or extends it, following
// superclasses only.
func (c *Checker) IsSubclassOf(class, ofClass typemodel.ClassID) bool {
	for class != typemodel.NoClass {
		if class == ofClass {
			return true
		}
		class = c.model.Superclass(class)
	}
	return false
}

// NestHost returns the outermost lexically enclosing class. Arrays and
// primitives are their own hosts.
func (c *Checker) NestHost(class typemodel.ClassID) typemodel.ClassID {
	switch c.model.Kind(class) {
	case typemodel.KindPrimitive, typemodel.KindArray:
		return class
	}
	for {
		outer := c.model.EnclosingClass(class)
		if outer == typemodel.NoClass {
			return class
		}
		class = outer
	}
}

// AreNestMates reports whether a and b share a nest host.
func (c *Checker) AreNestMates(a, b typemodel.ClassID) bool {
	return c.NestHost(a) == c.NestHost(b)
}
