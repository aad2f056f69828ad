package search

import "strings"

// DefaultSimilarityThreshold matches the pg_trgm default, so the
// in-process matcher and the SQL '%' operator agree.
const DefaultSimilarityThreshold = 0.3

// Matcher decides whether stored text fuzzily matches a search term.
// The production path matches inside PostgreSQL via pg_trgm; this
// interface lets tests and future in-process indexes plug in the same
// capability.
type Matcher interface {
	Match(text, term string) bool
}

// TrigramMatcher is an in-process mirror of pg_trgm similarity:
// word-wise padded trigrams compared as sets.
type TrigramMatcher struct {
	Threshold float64
}

func NewTrigramMatcher() TrigramMatcher {
	return TrigramMatcher{Threshold: DefaultSimilarityThreshold}
}

// Match reports whether term is similar enough to text. An empty term
// matches everything, so a pure tag search still returns results.
func (m TrigramMatcher) Match(text, term string) bool {
	if strings.TrimSpace(term) == "" {
		return true
	}
	return Similarity(text, term) >= m.Threshold
}

// Similarity returns the trigram similarity of a and b in [0, 1]:
// shared trigrams over the size of the union, case-insensitive.
func Similarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	shared := 0
	for g := range ta {
		if _, ok := tb[g]; ok {
			shared++
		}
	}
	union := len(ta) + len(tb) - shared
	return float64(shared) / float64(union)
}

// trigrams extracts the padded trigram set of s the way pg_trgm does:
// each word lowered and padded with two leading and one trailing space.
func trigrams(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(s)) {
		padded := []rune("  " + word + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}
