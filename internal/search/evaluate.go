package search

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/kamusis/chroma/internal/features"
	"github.com/kamusis/chroma/internal/imageindex"
	"github.com/kamusis/chroma/internal/predicates"
)

// Options controls Evaluate.
type Options struct {
	// Rank orders results by summed filter score instead of index order.
	Rank bool
	// Limit caps the number of results; zero means no limit.
	Limit int
	// Workers scores records concurrently. Zero means NumCPU.
	Workers int
}

// Evaluate runs q over the records of indexes. Results come in index order,
// then record insertion order, unless opts.Rank is set.
func Evaluate(indexes []*imageindex.Index, q Query, opts Options) []SearchResult {
	if q.Empty() {
		return []SearchResult{}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	out := []SearchResult{}
	for _, idx := range indexes {
		out = append(out, evaluateIndex(idx, q, workers)...)
	}
	if opts.Rank {
		SortResults(out)
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func evaluateIndex(idx *imageindex.Index, q Query, workers int) []SearchResult {
	records := idx.Records()
	matches := make([]*SearchResult, len(records))

	var wg sync.WaitGroup
	chunk := (len(records) + workers - 1) / workers
	for start := 0; start < len(records); start += chunk {
		end := min(start+chunk, len(records))
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				matches[i] = match(idx, records[i], q)
			}
		}(start, end)
	}
	wg.Wait()

	var out []SearchResult
	for _, m := range matches {
		if m != nil {
			out = append(out, *m)
		}
	}
	return out
}

func match(idx *imageindex.Index, rec features.Record, q Query) *SearchResult {
	path := predicates.SearchKey(idx, rec)
	if !MatchTerms(path, q.Terms) {
		return nil
	}
	var (
		total float64
		why   []string
	)
	for _, f := range q.Filters {
		score := f.pred.Score(rec, f.parsed)
		if !f.Holds(score) {
			return nil
		}
		total += score
		why = append(why, fmt.Sprintf("%s=%.3f", f.Name, score))
	}
	if len(why) == 0 {
		why = append(why, "keyword")
	}
	return &SearchResult{
		Index:  idx.Name(),
		Path:   path,
		Record: rec,
		Score:  total,
		Why:    strings.Join(why, " "),
	}
}
