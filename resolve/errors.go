package resolve

import (
	"fmt"
	"strings"
)

type Kind int

const (
	Malformed Kind = iota + 1
	Unrecognized
	PrematureEnd
	StaticContext
	IllegalAccess
	Unsupported
	NoSuperclass
	BadQualifiedThis
	UnknownType
)

var kindNames = map[Kind]string{
	Malformed:        "malformed expression",
	Unrecognized:     "unrecognized symbol",
	PrematureEnd:     "premature end of expression",
	StaticContext:    "static context",
	IllegalAccess:    "illegal access",
	Unsupported:      "unsupported",
	NoSuperclass:     "no superclass",
	BadQualifiedThis: "invalid qualified this",
	UnknownType:      "unknown type",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is the single error type returned by Resolve. Position is the
// index of the offending token; it equals the token count when the
// expression ended too early.
type Error struct {
	Kind       Kind
	Expression string
	Position   int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "cannot resolve %q: %s", e.Expression, e.Kind)
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	fmt.Fprintf(&sb, " (at token %d)", e.Position)
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }
