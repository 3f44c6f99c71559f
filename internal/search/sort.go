package search

import "sort"

// SortResults sorts results by score (descending). Equal scores keep their
// index order.
func SortResults(results []SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
