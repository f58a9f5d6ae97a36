package query_builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: ``, expected: ``},
		{input: `plain text`, expected: `plain text`},
		{input: `application/json`, expected: `application\/json`},
		{input: `a\b`, expected: `a\\b`},
		{input: `\:`, expected: `\\\:`},
		{input: `"a" "b"`, expected: `\"a\" \"b\"`},
		{input: `k:v:w`, expected: `k\:v\:w`},
		{input: `[*test]`, expected: `\[\*test\]`},
		{input: `hello?`, expected: `hello\?`},
		{
			input:    `\&|:/+-!(){}[]^"~*?`,
			expected: `\\\&\|\:\/\+\-\!\(\)\{\}\[\]\^\"\~\*\?`,
		},
		{input: `héllo wörld`, expected: `héllo wörld`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Escape(tt.input))
		})
	}
}

func TestEscape_EveryReservedCharIsPrefixedOnce(t *testing.T) {
	input := strings.Join(reservedChars, "x") + strings.Join(reservedChars, "")
	escaped := Escape(input)

	// Removing one backslash in front of every reserved character gives back the input.
	var unescaped strings.Builder
	for i := 0; i < len(escaped); i++ {
		if escaped[i] == '\\' {
			i++
		}
		unescaped.WriteByte(escaped[i])
	}
	assert.Equal(t, input, unescaped.String())
	assert.Len(t, escaped, len(input)+2*len(reservedChars))
}

func TestSanitize(t *testing.T) {
	s, ok := sanitize("")
	assert.False(t, ok)
	assert.Empty(t, s)

	s, ok = sanitize("ssh")
	assert.True(t, ok)
	assert.Equal(t, `"ssh"`, s)

	s, ok = sanitize(`say "hi"`)
	assert.True(t, ok)
	assert.Equal(t, `"say \"hi\""`, s)
}
