package query_builder

import (
	"strconv"
	"strings"
)

const (
	existsField      = "_exists_"
	colon            = ":"
	rangeTo          = "TO"
	keywordNot       = "NOT"
	keywordAnd       = "AND"
	keywordOr        = "OR"
	openParenthesis  = "("
	closeParenthesis = ")"
	tilde            = "~"
	space            = " "
)

// Range brackets. Square brackets include the bound, curly braces exclude it.
const (
	InclusiveFrom = "["
	ExclusiveFrom = "{"
	InclusiveTo   = "]"
	ExclusiveTo   = "}"
)

// QueryBuilder accumulates the tokens of a search query.
//
// Every mutating method returns the same builder so calls can be chained.
// A QueryBuilder is not safe for concurrent use.
type QueryBuilder struct {
	tokens []token // Finalized query fragments in output order
}

// token is a query fragment. Only fragments added by And, Or and Not are
// keywords, so Raw("AND") is never dropped as a dangling operator.
type token struct {
	text    string
	keyword bool
}

// New returns an empty QueryBuilder.
func New() *QueryBuilder {
	return &QueryBuilder{}
}

// From returns a new QueryBuilder holding a copy of other's tokens.
//
// Later changes to either builder do not affect the other. A nil other is the same as New.
func From(other *QueryBuilder) *QueryBuilder {
	q := New()
	if other != nil {
		q.tokens = cloneTokens(other.tokens)
	}
	return q
}

// Term adds a free-text term.
//
// Text is quoted and escaped, numbers are added verbatim. An absent value adds
// nothing and drops a trailing AND, OR or NOT instead.
func (q *QueryBuilder) Term(value Literal) *QueryBuilder {
	if !value.Present() {
		return q.elide()
	}
	return q.push(value.term())
}

// FuzzTerm adds a fuzzy term such as "ssh"~3.
//
// Only the first distance is used and it must be a whole number; fractional
// similarity values are not supported. Without a distance the engine default
// applies and the term ends with a bare tilde.
func (q *QueryBuilder) FuzzTerm(value Literal, distance ...int) *QueryBuilder {
	if !value.Present() {
		return q.elide()
	}
	return q.push(value.term() + tilde + fuzziness(distance))
}

// Exists matches documents that have the field.
func (q *QueryBuilder) Exists(field string) *QueryBuilder {
	return q.push(existsField + colon + field)
}

// Field matches a field value, e.g. type:"ssh" or http_response_code:500.
//
// An absent value elides like Term.
func (q *QueryBuilder) Field(field string, value Literal) *QueryBuilder {
	if !value.Present() {
		return q.elide()
	}
	return q.push(field + colon + value.term())
}

// OpField adds a one-sided range such as http_response_code:>500.
//
// Neither the operator nor the value is escaped.
func (q *QueryBuilder) OpField(field, operator string, value Literal) *QueryBuilder {
	return q.push(field + colon + operator + value.String())
}

// FuzzField adds a fuzzy field match such as type:"ssh"~3.
//
// distance follows the same rules as in FuzzTerm.
func (q *QueryBuilder) FuzzField(field string, value Literal, distance ...int) *QueryBuilder {
	if !value.Present() {
		return q.elide()
	}
	return q.push(field + colon + value.term() + tilde + fuzziness(distance))
}

// Range adds a range query like http_response_code:[500 TO 504}.
//
// When both bounds are text they are wrapped in double quotes without escaping,
// which suits timestamps. Otherwise both are added verbatim.
func (q *QueryBuilder) Range(field, fromBracket string, from, to Literal, toBracket string) *QueryBuilder {
	lo, hi := from.String(), to.String()
	if from.IsText() && to.IsText() {
		lo, hi = `"`+lo+`"`, `"`+hi+`"`
	}
	return q.push(field + colon + fromBracket + lo + space + rangeTo + space + hi + toBracket)
}

// Raw adds text exactly as given.
func (q *QueryBuilder) Raw(text string) *QueryBuilder {
	return q.push(text)
}

// Not adds the NOT operator.
func (q *QueryBuilder) Not() *QueryBuilder {
	return q.pushKeyword(keywordNot)
}

// And adds the AND operator.
func (q *QueryBuilder) And() *QueryBuilder {
	return q.pushKeyword(keywordAnd)
}

// Or adds the OR operator.
func (q *QueryBuilder) Or() *QueryBuilder {
	return q.pushKeyword(keywordOr)
}

// OpenParen starts a group.
func (q *QueryBuilder) OpenParen() *QueryBuilder {
	return q.push(openParenthesis)
}

// CloseParen ends a group.
func (q *QueryBuilder) CloseParen() *QueryBuilder {
	return q.push(closeParenthesis)
}

// Append adds a copy of other's tokens to the end of q. other is left unchanged.
func (q *QueryBuilder) Append(other *QueryBuilder) *QueryBuilder {
	if other == nil {
		return q
	}
	q.tokens = append(q.tokens, other.tokens...)
	return q
}

// Build renders the query.
//
// A leading AND or OR is dropped, and a NOT left on its own is dropped too.
// Build does not modify the builder, so repeated calls return the same string.
func (q *QueryBuilder) Build() string {
	tokens := q.tokens
	if len(tokens) > 0 && (tokens[0].is(keywordAnd) || tokens[0].is(keywordOr)) {
		tokens = tokens[1:]
	}
	if len(tokens) == 1 && tokens[0].is(keywordNot) {
		return ""
	}
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.text
	}
	return strings.Join(parts, space)
}

// String implements fmt.Stringer and returns Build().
func (q *QueryBuilder) String() string {
	return q.Build()
}

func (q *QueryBuilder) push(text string) *QueryBuilder {
	q.tokens = append(q.tokens, token{text: text})
	return q
}

func (q *QueryBuilder) pushKeyword(keyword string) *QueryBuilder {
	q.tokens = append(q.tokens, token{text: keyword, keyword: true})
	return q
}

// elide drops a single dangling conjunction left by a caller that skipped an optional value.
func (q *QueryBuilder) elide() *QueryBuilder {
	if n := len(q.tokens); n > 0 && q.tokens[n-1].keyword {
		q.tokens = q.tokens[:n-1]
	}
	return q
}

func (t token) is(keyword string) bool {
	return t.keyword && t.text == keyword
}

func fuzziness(distance []int) string {
	if len(distance) == 0 {
		return ""
	}
	return strconv.Itoa(distance[0])
}

func cloneTokens(tokens []token) []token {
	if len(tokens) == 0 {
		return nil
	}
	return append(make([]token, 0, len(tokens)), tokens...)
}
