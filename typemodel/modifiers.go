package typemodel

import (
	"fmt"
	"strings"

	"github.com/dhamidi/fieldpath/classfile"
	"gopkg.in/yaml.v3"
)

// Modifiers uses the JVM access flag bit layout.
type Modifiers uint16

const (
	ModPublic    = Modifiers(classfile.AccPublic)
	ModPrivate   = Modifiers(classfile.AccPrivate)
	ModProtected = Modifiers(classfile.AccProtected)
	ModStatic    = Modifiers(classfile.AccStatic)
	ModFinal     = Modifiers(classfile.AccFinal)
	ModVolatile  = Modifiers(classfile.AccVolatile)
	ModTransient = Modifiers(classfile.AccTransient)
	ModAbstract  = Modifiers(classfile.AccAbstract)
	ModSynthetic = Modifiers(classfile.AccSynthetic)
)

func (m Modifiers) IsPublic() bool    { return m&ModPublic != 0 }
func (m Modifiers) IsPrivate() bool   { return m&ModPrivate != 0 }
func (m Modifiers) IsProtected() bool { return m&ModProtected != 0 }
func (m Modifiers) IsStatic() bool    { return m&ModStatic != 0 }
func (m Modifiers) IsFinal() bool     { return m&ModFinal != 0 }

var modifierNames = []struct {
	mod  Modifiers
	name string
}{
	{ModPublic, "public"},
	{ModProtected, "protected"},
	{ModPrivate, "private"},
	{ModAbstract, "abstract"},
	{ModStatic, "static"},
	{ModFinal, "final"},
	{ModTransient, "transient"},
	{ModVolatile, "volatile"},
	{ModSynthetic, "synthetic"},
}

// Visibility returns "public", "protected", "private" or "package".
func (m Modifiers) Visibility() string {
	switch {
	case m.IsPublic():
		return "public"
	case m.IsProtected():
		return "protected"
	case m.IsPrivate():
		return "private"
	}
	return "package"
}

// Names lists the modifier keywords in source order.
func (m Modifiers) Names() []string {
	var names []string
	for _, n := range modifierNames {
		if m&n.mod != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

func (m Modifiers) String() string {
	return strings.Join(m.Names(), " ")
}

// ParseModifiers parses space separated modifier keywords.
func ParseModifiers(s string) (Modifiers, error) {
	var m Modifiers
	for _, word := range strings.Fields(s) {
		mod, err := parseModifier(word)
		if err != nil {
			return 0, err
		}
		m |= mod
	}
	return m, nil
}

func parseModifier(word string) (Modifiers, error) {
	for _, n := range modifierNames {
		if n.name == word {
			return n.mod, nil
		}
	}
	return 0, fmt.Errorf("unknown modifier %q", word)
}

// MarshalYAML writes modifiers as a single space separated string.
func (m Modifiers) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML accepts either "public static" or [public, static].
func (m *Modifiers) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		mods, err := ParseModifiers(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		*m = mods
		return nil
	case yaml.SequenceNode:
		var mods Modifiers
		for _, item := range value.Content {
			mod, err := parseModifier(item.Value)
			if err != nil {
				return fmt.Errorf("line %d: %w", item.Line, err)
			}
			mods |= mod
		}
		*m = mods
		return nil
	}
	return fmt.Errorf("line %d: modifiers must be a string or a list", value.Line)
}
