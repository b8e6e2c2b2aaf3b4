// Package resolve implements fuzzy matching of extracted name strings against
// the canonical dataset names.
package resolve

import (
	"math"
	"sort"

	"github.com/agnivade/levenshtein"
)

// Match pairs a candidate name with its similarity score.
type Match struct {
	Name  string
	Score int
}

// Ratio returns a normalized edit-distance similarity between a and b on a
// 0..100 scale. Two empty strings are identical.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	longer := len([]rune(a))
	if l := len([]rune(b)); l > longer {
		longer = l
	}
	if longer == 0 {
		return 100
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(dist)/float64(longer))))
}

// BestMatches scores query against every candidate and returns those at or
// above cutoff, ordered by descending score. Ties keep the candidates'
// original relative order. The result is truncated to limit entries.
// Identical inputs always produce identical output.
func BestMatches(query string, candidates []string, cutoff, limit int) []Match {
	matches := make([]Match, 0, len(candidates))
	for _, cand := range candidates {
		if score := Ratio(query, cand); score >= cutoff {
			matches = append(matches, Match{Name: cand, Score: score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit >= 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
