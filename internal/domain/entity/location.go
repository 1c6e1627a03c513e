package entity

import "strings"

// LocationParts splits a free-text "city, region" location on commas, trimming and
// lower-casing each part. Empty parts are dropped.
func LocationParts(location string) []string {
	raw := strings.Split(location, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}

	return parts
}

// LocationsOverlap reports whether any part of a is contained in a part of b, or the
// other way round. Matching is plain substring containment, so "chennai" also matches
// "chennai north".
func LocationsOverlap(a, b []string) bool {
	for _, left := range a {
		for _, right := range b {
			if strings.Contains(left, right) || strings.Contains(right, left) {
				return true
			}
		}
	}

	return false
}
