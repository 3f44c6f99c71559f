// Package search parses image queries and runs them over loaded indexes.
package search

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/kamusis/chroma/internal/predicates"
)

// ErrInvalidQuery indicates a query that cannot be parsed.
var ErrInvalidQuery = errors.New("invalid query")

var comparisonRe = regexp.MustCompile(`^([A-Za-z_]+)\((.*)\)(>=|<=|!=|>|<|=)(.+)$`)

// Parse splits q into predicate filters and free-text terms. Filters are
// written name(param)<op><number> or name:param; the short form means
// score >= threshold. Parameters containing spaces may be quoted.
func Parse(q string, set predicates.Set, threshold float64) (Query, error) {
	var out Query
	for _, tok := range tokenize(q) {
		if m := comparisonRe.FindStringSubmatch(tok); m != nil {
			name := strings.ToLower(m[1])
			pred, ok := set.Lookup(name)
			if !ok {
				return Query{}, fmt.Errorf("%w: unknown filter %q", ErrInvalidQuery, m[1])
			}
			v, err := strconv.ParseFloat(m[4], 64)
			if err != nil {
				return Query{}, fmt.Errorf("%w: %q is not a number", ErrInvalidQuery, m[4])
			}
			out.Filters = append(out.Filters, newFilter(pred, unquote(m[2]), Op(m[3]), v))
			continue
		}
		if name, param, ok := strings.Cut(tok, ":"); ok {
			if pred, found := set.Lookup(strings.ToLower(name)); found {
				out.Filters = append(out.Filters, newFilter(pred, unquote(param), OpGE, threshold))
				continue
			}
		}
		out.Terms = append(out.Terms, strings.ToLower(unquote(tok)))
	}
	return out, nil
}

func newFilter(pred predicates.Predicate, param string, op Op, v float64) Filter {
	return Filter{
		Name:   pred.Name(),
		Param:  param,
		Op:     op,
		Value:  v,
		pred:   pred,
		parsed: pred.Parse(param),
	}
}

// Holds reports whether score satisfies the filter's comparison.
func (f Filter) Holds(score float64) bool {
	switch f.Op {
	case OpGE:
		return score >= f.Value
	case OpLE:
		return score <= f.Value
	case OpGT:
		return score > f.Value
	case OpLT:
		return score < f.Value
	case OpEQ:
		return score == f.Value
	case OpNE:
		return score != f.Value
	}
	return false
}

func (f Filter) String() string {
	return fmt.Sprintf("%s(%s)%s%g", f.Name, f.Param, f.Op, f.Value)
}

// tokenize splits on whitespace outside double quotes and parentheses.
func tokenize(q string) []string {
	var (
		out   []string
		cur   strings.Builder
		depth int
		quote bool
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}
	for _, r := range strings.TrimSpace(q) {
		switch {
		case r == '"':
			quote = !quote
		case quote:
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case unicode.IsSpace(r) && depth == 0:
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return out
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
