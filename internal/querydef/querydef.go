// Package querydef loads query definitions from YAML or JSON documents and
// replays them onto a query_builder.QueryBuilder.
//
// A definition is an ordered list of steps under the top-level "query" key:
//
//	query:
//	  - open_paren
//	  - term: ssh login
//	  - and
//	  - field: {name: source, value: example.org}
//	  - close_paren
//	  - or
//	  - exists: always_find_me
package querydef

import (
	"io"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	qb "github.com/yesetoda/graylog_query/query_builder"
)

const maxGroupDepth = 10

// Step kinds.
const (
	KindAnd        = "and"
	KindOr         = "or"
	KindNot        = "not"
	KindOpenParen  = "open_paren"
	KindCloseParen = "close_paren"
	KindTerm       = "term"
	KindFuzzTerm   = "fuzz_term"
	KindExists     = "exists"
	KindField      = "field"
	KindOpField    = "op_field"
	KindFuzzField  = "fuzz_field"
	KindRange      = "range"
	KindRaw        = "raw"
	KindGroup      = "group"
)

// Step is one decoded item of a definition.
type Step struct {
	Kind   string
	Params Params
	Steps  []Step // Nested steps of a group
}

// Params holds the arguments of a step. Unused fields stay empty.
type Params struct {
	Name        string      `mapstructure:"name"`
	Op          string      `mapstructure:"op"`
	Value       interface{} `mapstructure:"value"`
	Distance    interface{} `mapstructure:"distance"`
	From        interface{} `mapstructure:"from"`
	To          interface{} `mapstructure:"to"`
	FromBracket string      `mapstructure:"from_bracket"`
	ToBracket   string      `mapstructure:"to_bracket"`
}

// Definition is an ordered list of steps.
type Definition struct {
	Steps []Step
}

type document struct {
	Query []interface{} `yaml:"query"`
}

// Load decodes a definition document.
func Load(r io.Reader) (*Definition, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Definition{}, nil
		}
		return nil, errors.Wrap(err, "cannot decode query definition")
	}
	steps, err := decodeSteps(doc.Query, 0)
	if err != nil {
		return nil, err
	}
	return &Definition{Steps: steps}, nil
}

// Parse decodes a definition from a string.
func Parse(s string) (*Definition, error) {
	return Load(strings.NewReader(s))
}

// Apply replays the definition onto q and returns q.
func (d *Definition) Apply(q *qb.QueryBuilder) *qb.QueryBuilder {
	for _, s := range d.Steps {
		s.apply(q)
	}
	return q
}

// Builder returns a new QueryBuilder holding the definition.
func (d *Definition) Builder() *qb.QueryBuilder {
	return d.Apply(qb.New())
}

// Len returns the number of steps, counting nested group steps.
func (d *Definition) Len() int {
	return countSteps(d.Steps)
}

func countSteps(steps []Step) int {
	n := len(steps)
	for _, s := range steps {
		n += countSteps(s.Steps)
	}
	return n
}

func (s Step) apply(q *qb.QueryBuilder) {
	p := s.Params
	switch s.Kind {
	case KindAnd:
		q.And()
	case KindOr:
		q.Or()
	case KindNot:
		q.Not()
	case KindOpenParen:
		q.OpenParen()
	case KindCloseParen:
		q.CloseParen()
	case KindTerm:
		q.Term(qb.Value(p.Value))
	case KindFuzzTerm:
		q.FuzzTerm(qb.Value(p.Value), distance(p.Distance)...)
	case KindExists:
		q.Exists(p.Name)
	case KindField:
		q.Field(p.Name, qb.Value(p.Value))
	case KindOpField:
		q.OpField(p.Name, p.Op, qb.Value(p.Value))
	case KindFuzzField:
		q.FuzzField(p.Name, qb.Value(p.Value), distance(p.Distance)...)
	case KindRange:
		q.Range(p.Name, p.FromBracket, qb.Value(p.From), qb.Value(p.To), p.ToBracket)
	case KindRaw:
		q.Raw(cast.ToString(p.Value))
	case KindGroup:
		q.OpenParen()
		for _, child := range s.Steps {
			child.apply(q)
		}
		q.CloseParen()
	}
}

// distance drops values that are not whole numbers, which leaves a bare tilde.
func distance(v interface{}) []int {
	if v == nil {
		return nil
	}
	d, err := cast.ToIntE(v)
	if err != nil {
		return nil
	}
	if f, err := cast.ToFloat64E(v); err != nil || f != float64(d) {
		return nil
	}
	return []int{d}
}

func decodeSteps(items []interface{}, depth int) ([]Step, error) {
	if depth > maxGroupDepth {
		return nil, errors.New("group depth exceeded")
	}
	steps := make([]Step, 0, len(items))
	for i, item := range items {
		s, err := decodeStep(item, depth)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d", i)
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func decodeStep(item interface{}, depth int) (Step, error) {
	switch v := item.(type) {
	case string:
		kind := strings.ToLower(v)
		if !isKeyword(kind) {
			return Step{}, errors.Errorf("unknown keyword %q", v)
		}
		return Step{Kind: kind}, nil
	case map[string]interface{}:
		kinds := keys(v)
		if len(kinds) != 1 {
			return Step{}, errors.Errorf("expected a single step kind, got %s", strings.Join(kinds, ", "))
		}
		return decodeArgs(strings.ToLower(kinds[0]), v[kinds[0]], depth)
	case nil:
		return Step{}, errors.New("empty step")
	}
	return Step{}, errors.Errorf("unsupported step of type %T", item)
}

func decodeArgs(kind string, arg interface{}, depth int) (Step, error) {
	s := Step{Kind: kind}
	switch kind {
	case KindAnd, KindOr, KindNot, KindOpenParen, KindCloseParen:
		return s, nil
	case KindTerm, KindRaw:
		if m, ok := arg.(map[string]interface{}); ok {
			return s, decodeParams(m, &s.Params)
		}
		s.Params.Value = arg
		return s, nil
	case KindExists:
		if m, ok := arg.(map[string]interface{}); ok {
			return s, decodeParams(m, &s.Params)
		}
		name, err := cast.ToStringE(arg)
		if err != nil {
			return Step{}, errors.Wrap(err, "invalid exists field")
		}
		s.Params.Name = name
		return s, nil
	case KindFuzzTerm, KindField, KindOpField, KindFuzzField, KindRange:
		m, ok := arg.(map[string]interface{})
		if !ok {
			return Step{}, errors.Errorf("%s expects a mapping, got %T", kind, arg)
		}
		return s, decodeParams(m, &s.Params)
	case KindGroup:
		children, ok := arg.([]interface{})
		if !ok {
			return Step{}, errors.Errorf("group expects a list, got %T", arg)
		}
		steps, err := decodeSteps(children, depth+1)
		if err != nil {
			return Step{}, errors.Wrap(err, "group")
		}
		s.Steps = steps
		return s, nil
	}
	return Step{}, errors.Errorf("unknown step kind %q", kind)
}

func decodeParams(m map[string]interface{}, p *Params) error {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Metadata:         &md,
		Result:           p,
	})
	if err != nil {
		return errors.Wrap(err, "cannot create params decoder")
	}
	if err := dec.Decode(m); err != nil {
		return errors.Wrap(err, "cannot decode step params")
	}
	if len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return errors.Errorf("unknown params: %s", strings.Join(md.Unused, ", "))
	}
	return nil
}

func isKeyword(kind string) bool {
	switch kind {
	case KindAnd, KindOr, KindNot, KindOpenParen, KindCloseParen:
		return true
	}
	return false
}

func keys(m map[string]interface{}) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}
