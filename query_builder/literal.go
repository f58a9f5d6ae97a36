package query_builder

import (
	"fmt"
	"strconv"

	"github.com/spf13/cast"
)

type literalKind uint8

const (
	kindNone literalKind = iota
	kindText
	kindNumber
)

// Literal is a value passed to the builder.
//
// Text literals are quoted and escaped when they become a term or field value.
// Number literals are always emitted verbatim. The zero Literal is None.
type Literal struct {
	kind literalKind
	repr string // text as given, or the number already formatted
}

// None is the absent literal. Term-like operations elide it.
var None = Literal{}

// Text returns a textual literal. An empty string counts as absent.
func Text(s string) Literal {
	return Literal{kind: kindText, repr: s}
}

// Int returns a numeric literal for an integer.
func Int(n int64) Literal {
	return Literal{kind: kindNumber, repr: strconv.FormatInt(n, 10)}
}

// Float returns a numeric literal rendered in its shortest decimal form.
func Float(f float64) Literal {
	return Literal{kind: kindNumber, repr: strconv.FormatFloat(f, 'f', -1, 64)}
}

// Value converts an untyped value, typically decoded from YAML or JSON, into a Literal.
//
// nil becomes None, strings become Text and any Go numeric type becomes a
// number. Other values are stringified and treated as Text.
func Value(v interface{}) Literal {
	switch t := v.(type) {
	case nil:
		return None
	case Literal:
		return t
	case string:
		return Text(t)
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return Literal{kind: kindNumber, repr: cast.ToString(t)}
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprint(v)
	}
	return Text(s)
}

// Present reports whether the literal carries a value. Zero is present; empty text is not.
func (l Literal) Present() bool {
	switch l.kind {
	case kindText:
		return l.repr != ""
	case kindNumber:
		return true
	}
	return false
}

// IsText reports whether the literal is textual.
func (l Literal) IsText() bool {
	return l.kind == kindText
}

// String returns the literal unquoted and unescaped.
func (l Literal) String() string {
	return l.repr
}

// term renders the literal as a standalone query value: text is sanitized, numbers are verbatim.
func (l Literal) term() string {
	if l.kind == kindText {
		s, _ := sanitize(l.repr)
		return s
	}
	return l.repr
}
