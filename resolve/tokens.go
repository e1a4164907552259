package resolve

import (
	"fmt"
	"strings"
	"unicode"
)

// tokens is the dotted expression split into identifiers, consumed left
// to right through a cursor.
type tokens struct {
	expr  string
	items []string
	pos   int
}

func tokenize(expr string) (*tokens, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, &Error{Kind: Malformed, Expression: expr, Message: "empty expression"}
	}
	parts := strings.Split(expr, ".")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if !isIdentifier(p) {
			msg := fmt.Sprintf("%q is not an identifier", p)
			if p == "" {
				msg = "empty name between dots"
			}
			return nil, &Error{Kind: Malformed, Expression: expr, Position: i, Message: msg}
		}
		parts[i] = p
	}
	return &tokens{expr: expr, items: parts}, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

func (t *tokens) peek() (string, bool) {
	if t.pos >= len(t.items) {
		return "", false
	}
	return t.items[t.pos], true
}

func (t *tokens) next() (string, bool) {
	tok, ok := t.peek()
	if ok {
		t.pos++
	}
	return tok, ok
}

// last is the index of the most recently consumed token.
func (t *tokens) last() int {
	if t.pos == 0 {
		return 0
	}
	return t.pos - 1
}

func (t *tokens) mark() int      { return t.pos }
func (t *tokens) reset(mark int) { t.pos = mark }
func (t *tokens) len() int       { return len(t.items) }
