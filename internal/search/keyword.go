package search

import "strings"

// MatchTerms reports whether every term occurs in path, ignoring case
// (AND semantics). No terms always match.
func MatchTerms(path string, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	blob := strings.ToLower(path)
	for _, tok := range terms {
		if !strings.Contains(blob, tok) {
			return false
		}
	}
	return true
}
