package search

import (
	"github.com/kamusis/chroma/internal/features"
	"github.com/kamusis/chroma/internal/predicates"
)

// Op is a comparison between a predicate score and a query value.
type Op string

const (
	OpGE Op = ">="
	OpLE Op = "<="
	OpGT Op = ">"
	OpLT Op = "<"
	OpEQ Op = "="
	OpNE Op = "!="
)

// Filter is one predicate term of a query, such as color(red)>=0.7.
type Filter struct {
	Name  string
	Param string
	Op    Op
	Value float64

	pred   predicates.Predicate
	parsed any
}

// Query is a parsed search: every filter must hold and every term must
// appear in the image path.
type Query struct {
	Filters []Filter
	Terms   []string
}

// Empty reports whether the query has nothing to match on.
func (q Query) Empty() bool {
	return len(q.Filters) == 0 && len(q.Terms) == 0
}

// SearchResult represents one matched image.
type SearchResult struct {
	Index  string
	Path   string
	Record features.Record
	Score  float64
	Why    string
}
