package query_builder

import "strings"

// reservedChars lists the metacharacters of the query grammar, backslash first.
var reservedChars = []string{
	`\`, `&`, `|`, `:`, `/`, `+`, `-`, `!`,
	`(`, `)`, `{`, `}`, `[`, `]`, `^`, `"`, `~`, `*`, `?`,
}

// escaper replaces every reserved character in a single left-to-right pass,
// so backslashes it inserts are never escaped again.
var escaper = newEscaper()

func newEscaper() *strings.Replacer {
	pairs := make([]string, 0, len(reservedChars)*2)
	for _, c := range reservedChars {
		pairs = append(pairs, c, `\`+c)
	}
	return strings.NewReplacer(pairs...)
}

// Escape prefixes every reserved character in input with a backslash.
//
// Example: Escape("application/json") returns `application\/json`.
func Escape(input string) string {
	return escaper.Replace(input)
}

// sanitize quotes the escaped value. It reports false for an empty value.
func sanitize(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	return `"` + Escape(value) + `"`, true
}
