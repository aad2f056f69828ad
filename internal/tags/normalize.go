// Package tags canonicalizes raw tag strings. The canonical form is
// lowercase with a single leading '#'; Normalize is idempotent.
package tags

import "strings"

// Normalize returns the canonical form of one raw tag.
func Normalize(raw string) string {
	name := strings.ToLower(raw)
	for strings.HasPrefix(name, "##") {
		name = name[1:]
	}
	if !strings.HasPrefix(name, "#") {
		name = "#" + name
	}
	return name
}

// NormalizeAll canonicalizes every input in order. Duplicates pass
// through; deduplication is the tag service's concern. Empty input
// yields an empty result.
func NormalizeAll(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		out = append(out, Normalize(r))
	}
	return out
}
