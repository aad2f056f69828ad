// Package search parses free-text search queries and provides the
// trigram similarity used to match them.
package search

import (
	"regexp"
	"strings"
)

// hashtag is '#' followed by one or more non-whitespace characters.
var hashtagPattern = regexp.MustCompile(`#\S+`)

// Query is a parsed search string: the free-text remainder and the
// hashtag filters extracted from it, in input order. Filters keep their
// leading '#' and original case; canonicalization happens at match time.
type Query struct {
	FreeText string
	Filters  []string
}

// Parse splits a raw query into free text and hashtag filters. The
// filters are removed from the free text and the surrounding whitespace
// is collapsed, so a query of only hashtags leaves an empty FreeText.
func Parse(raw string) Query {
	filters := hashtagPattern.FindAllString(raw, -1)
	remainder := hashtagPattern.ReplaceAllString(raw, " ")
	return Query{
		FreeText: strings.Join(strings.Fields(remainder), " "),
		Filters:  filters,
	}
}

// LastFilter returns the last hashtag token of raw, or "" when raw
// contains none. Used by the tag suggestion endpoint, which completes
// only the most recent hashtag the user typed.
func LastFilter(raw string) string {
	matches := hashtagPattern.FindAllString(raw, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1]
}
