package chain

import (
	"strings"

	"github.com/dhamidi/fieldpath/typemodel"
)

// Chain is the sequence of steps from a call site in Caller to a field.
// A chain never changes after it is built.
type Chain struct {
	caller   typemodel.ClassID
	elements []Element
}

func New(caller typemodel.ClassID, elements ...Element) *Chain {
	return &Chain{
		caller:   caller,
		elements: append([]Element(nil), elements...),
	}
}

func (c *Chain) Caller() typemodel.ClassID { return c.caller }

// Elements returns a copy of the steps.
func (c *Chain) Elements() []Element {
	return append([]Element(nil), c.elements...)
}

func (c *Chain) Len() int { return len(c.elements) }

// IsStatic reports whether the chain starts without a receiver.
func (c *Chain) IsStatic() bool {
	if len(c.elements) == 0 {
		return false
	}
	return c.elements[0].IsStatic()
}

// Type is the static type of the chain's value: the last step's type, or
// the caller for an empty chain.
func (c *Chain) Type() typemodel.ClassID {
	if len(c.elements) == 0 {
		return c.caller
	}
	return c.elements[len(c.elements)-1].Type()
}

// Normalize drops every step before the last static step, since a static
// load needs no receiver, and prepends an implicit this when the result
// is empty or starts with an instance field load.
func (c *Chain) Normalize() *Chain {
	var out []Element
	for _, e := range c.elements {
		if e.IsStatic() {
			out = nil
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		out = []Element{NewThisReference(c.caller)}
	} else if f, ok := out[0].(FieldReference); ok && !f.IsStatic() {
		out = append([]Element{NewThisReference(c.caller)}, out...)
	}
	return &Chain{caller: c.caller, elements: out}
}

// Equal reports whether two chains have the same caller and steps.
func (c *Chain) Equal(other *Chain) bool {
	if c.caller != other.caller || len(c.elements) != len(other.elements) {
		return false
	}
	for i := range c.elements {
		if c.elements[i] != other.elements[i] {
			return false
		}
	}
	return true
}

// Describe renders the chain one step per line.
func (c *Chain) Describe(m typemodel.Model) string {
	var sb strings.Builder
	for i, e := range c.elements {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(e.Describe(m))
	}
	return sb.String()
}
