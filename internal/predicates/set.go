package predicates

import (
	"sort"

	"github.com/kamusis/chroma/internal/colormath"
	"github.com/kamusis/chroma/internal/features"
	"github.com/kamusis/chroma/internal/histogram"
)

// Predicate is a named filter usable in queries as name:param or
// name(param)<op><value>.
type Predicate interface {
	Name() string
	// Parse converts the raw parameter once per query.
	Parse(param string) any
	// Score rates a record against a parsed parameter.
	Score(rec features.Record, parsed any) float64
}

// Set holds predicates by name.
type Set map[string]Predicate

// NewSet returns the color and hist predicates.
func NewSet(resolver HistogramResolver) Set {
	s := Set{}
	s.Register(colorPredicate{})
	s.Register(histPredicate{resolver: resolver})
	return s
}

// Register adds p, replacing a predicate of the same name.
func (s Set) Register(p Predicate) {
	s[p.Name()] = p
}

// Lookup returns the predicate called name.
func (s Set) Lookup(name string) (Predicate, bool) {
	p, ok := s[name]
	return p, ok
}

// Names returns the registered names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type colorPredicate struct{}

func (colorPredicate) Name() string { return "color" }

func (colorPredicate) Parse(param string) any {
	return colormath.ColorParam(param)
}

func (colorPredicate) Score(rec features.Record, parsed any) float64 {
	c, ok := parsed.(colormath.Color)
	if !ok {
		c = colormath.Black
	}
	return Color(rec, c)
}

type histPredicate struct {
	resolver HistogramResolver
}

func (histPredicate) Name() string { return "hist" }

func (p histPredicate) Parse(param string) any {
	return p.resolver.Resolve(param)
}

func (p histPredicate) Score(rec features.Record, parsed any) float64 {
	h, _ := parsed.(*histogram.Histogram)
	return float64(HistMetric(rec, h, p.resolver.Metric))
}
