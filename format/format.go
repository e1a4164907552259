// Package format writes resolved chains as tab separated lines, JSON or
// YAML.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/fieldpath/chain"
	"github.com/dhamidi/fieldpath/typemodel"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(expression string, c *chain.Chain) error
}

// NewEncoder returns the encoder for a format name: line, json or yaml.
func NewEncoder(name string, w io.Writer, m typemodel.Model) (Encoder, error) {
	switch name {
	case "line", "":
		return NewLineEncoder(w, m), nil
	case "json":
		return NewJSONEncoder(w, m), nil
	case "yaml":
		return NewYAMLEncoder(w, m), nil
	}
	return nil, fmt.Errorf("unknown format: %s (expected line, json or yaml)", name)
}

type chainData struct {
	Expression string        `json:"expression" yaml:"expression"`
	Caller     string        `json:"caller" yaml:"caller"`
	Type       string        `json:"type" yaml:"type"`
	Static     bool          `json:"static" yaml:"static"`
	Elements   []elementData `json:"elements" yaml:"elements"`
}

type elementData struct {
	Kind      string     `json:"kind" yaml:"kind"`
	Class     string     `json:"class,omitempty" yaml:"class,omitempty"`
	Enclosing string     `json:"enclosing,omitempty" yaml:"enclosing,omitempty"`
	Depth     *int       `json:"depth,omitempty" yaml:"depth,omitempty"`
	Field     *fieldData `json:"field,omitempty" yaml:"field,omitempty"`
}

type fieldData struct {
	Name       string   `json:"name" yaml:"name"`
	Declaring  string   `json:"declaring" yaml:"declaring"`
	Type       string   `json:"type" yaml:"type"`
	Visibility string   `json:"visibility" yaml:"visibility"`
	Modifiers  []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty,flow"`
}

func buildChainData(m typemodel.Model, expression string, c *chain.Chain) chainData {
	data := chainData{
		Expression: expression,
		Caller:     m.Name(c.Caller()),
		Type:       typeName(m, c),
		Static:     c.IsStatic(),
		Elements:   []elementData{},
	}
	for _, e := range c.Elements() {
		switch e := e.(type) {
		case chain.ThisReference:
			data.Elements = append(data.Elements, elementData{Kind: "this", Class: m.Name(e.Class)})
		case chain.QualifiedThisReference:
			depth := e.Depth
			data.Elements = append(data.Elements, elementData{
				Kind:      "outer",
				Class:     m.Name(e.Inner),
				Enclosing: m.Name(e.Enclosing),
				Depth:     &depth,
			})
		case chain.FieldReference:
			data.Elements = append(data.Elements, elementData{
				Kind:  "field",
				Class: m.Name(e.Membering),
				Field: &fieldData{
					Name:       e.Field.Name,
					Declaring:  m.Name(e.Field.Declaring),
					Type:       e.Field.Type,
					Visibility: e.Field.Modifiers.Visibility(),
					Modifiers:  otherModifiers(e.Field.Modifiers),
				},
			})
		}
	}
	return data
}

// typeName prefers the declared field type, which is known even when the
// model has no class for it.
func typeName(m typemodel.Model, c *chain.Chain) string {
	elems := c.Elements()
	if len(elems) > 0 {
		if f, ok := elems[len(elems)-1].(chain.FieldReference); ok {
			return f.Field.Type
		}
	}
	return m.Name(c.Type())
}

func otherModifiers(mods typemodel.Modifiers) []string {
	return (mods &^ (typemodel.ModPublic | typemodel.ModProtected | typemodel.ModPrivate)).Names()
}
