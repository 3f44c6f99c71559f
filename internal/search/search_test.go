package search

import (
	"errors"
	"reflect"
	"testing"

	"github.com/kamusis/chroma/internal/colormath"
	"github.com/kamusis/chroma/internal/imageindex"
	"github.com/kamusis/chroma/internal/predicates"
)

func solid(n int, c colormath.RGBA8) []colormath.RGBA8 {
	out := make([]colormath.RGBA8, n)
	for i := range out {
		out[i] = c
	}
	return out
}

func testIndexes(t *testing.T) []*imageindex.Index {
	t.Helper()
	a := imageindex.New("a")
	half := append(solid(2, colormath.RGBA8{R: 255, A: 255}), solid(2, colormath.RGBA8{B: 255, A: 255})...)
	if _, err := a.Index("Sky/blue.png", solid(4, colormath.RGBA8{B: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Index("sky/half.png", half); err != nil {
		t.Fatal(err)
	}
	b := imageindex.New("b")
	if _, err := b.Index("fire/red.png", solid(4, colormath.RGBA8{R: 255, A: 255})); err != nil {
		t.Fatal(err)
	}
	return []*imageindex.Index{a, b}
}

func paths(rs []SearchResult) []string {
	out := []string{}
	for _, r := range rs {
		out = append(out, r.Path)
	}
	return out
}

func TestParse(t *testing.T) {
	set := predicates.NewSet(predicates.HistogramResolver{})
	q, err := Parse(`color:blue  color(#ff0000)<0.25 hist("my dir/x.png")!=0 Sky C:\img`, set, 0.5)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(q.Filters) != 3 {
		t.Fatalf("filters = %v", q.Filters)
	}
	if f := q.Filters[0]; f.Name != "color" || f.Param != "blue" || f.Op != OpGE || f.Value != 0.5 {
		t.Fatalf("short filter = %v", f)
	}
	if f := q.Filters[1]; f.Param != "#ff0000" || f.Op != OpLT || f.Value != 0.25 {
		t.Fatalf("comparison filter = %v", f)
	}
	if f := q.Filters[2]; f.Name != "hist" || f.Param != "my dir/x.png" || f.Op != OpNE {
		t.Fatalf("quoted filter = %v", f)
	}
	if !reflect.DeepEqual(q.Terms, []string{"sky", `c:\img`}) {
		t.Fatalf("terms = %v", q.Terms)
	}

	if _, err := Parse("size(3)>1", set, 0.5); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("unknown filter err = %v", err)
	}
	if _, err := Parse("color(red)>=high", set, 0.5); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("bad number err = %v", err)
	}
}

func TestFilterHolds(t *testing.T) {
	cases := []struct {
		op   Op
		want [3]bool // score below, equal, above 0.5
	}{
		{OpGE, [3]bool{false, true, true}},
		{OpLE, [3]bool{true, true, false}},
		{OpGT, [3]bool{false, false, true}},
		{OpLT, [3]bool{true, false, false}},
		{OpEQ, [3]bool{false, true, false}},
		{OpNE, [3]bool{true, false, true}},
	}
	for _, tc := range cases {
		f := Filter{Op: tc.op, Value: 0.5}
		got := [3]bool{f.Holds(0.25), f.Holds(0.5), f.Holds(0.75)}
		if got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.op, got, tc.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	set := predicates.NewSet(predicates.HistogramResolver{})
	indexes := testIndexes(t)

	q, _ := Parse("color:blue", set, 0.5)
	got := Evaluate(indexes, q, Options{Workers: 2})
	if !reflect.DeepEqual(paths(got), []string{"Sky/blue.png", "sky/half.png"}) {
		t.Fatalf("color:blue = %v", paths(got))
	}
	// half.png is half blue, half red at distance sqrt(2) from blue.
	if got[0].Index != "a" || got[0].Score != 1 || !(got[1].Score > 0.5 && got[1].Score < 1) {
		t.Fatalf("scores = %v, %v", got[0].Score, got[1].Score)
	}

	q, _ = Parse("color(red)>0.3", set, 0.5)
	got = Evaluate(indexes, q, Options{Rank: true})
	if !reflect.DeepEqual(paths(got), []string{"fire/red.png", "sky/half.png"}) {
		t.Fatalf("ranked = %v", paths(got))
	}

	q, _ = Parse("SKY", set, 0.5)
	got = Evaluate(indexes, q, Options{Limit: 1})
	if len(got) != 1 || got[0].Path != "Sky/blue.png" || got[0].Why != "keyword" {
		t.Fatalf("keyword = %+v", got)
	}

	q, _ = Parse("sky color:red", set, 0.5)
	got = Evaluate(indexes, q, Options{})
	if !reflect.DeepEqual(paths(got), []string{"sky/half.png"}) {
		t.Fatalf("combined = %v", paths(got))
	}

	if got := Evaluate(indexes, Query{}, Options{}); len(got) != 0 {
		t.Fatalf("empty query matched %d", len(got))
	}
}

func TestMatchTerms(t *testing.T) {
	if !MatchTerms("Photos/Beach.PNG", []string{"beach", "photos"}) {
		t.Fatalf("expected match")
	}
	if MatchTerms("Photos/Beach.PNG", []string{"beach", "night"}) {
		t.Fatalf("expected AND semantics")
	}
	if !MatchTerms("anything", nil) {
		t.Fatalf("no terms should match")
	}
}
