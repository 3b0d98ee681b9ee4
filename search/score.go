package search

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// similarityRatio is the Gestalt matching ratio over the characters of the
// two strings, as difflib computes it.
func similarityRatio(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

// symbolRelevance scores how well a query matches a symbol or file name.
// Both sides are case-normalized first. Exact match is 1.0; a substring
// match scores by position (prefix 0.9, word boundary or suffix 0.8, other
// 0.7); anything else falls back to the similarity ratio, floored at 0.3.
func symbolRelevance(query, target string) float64 {
	q := strings.ToLower(query)
	t := strings.ToLower(target)

	if q == t {
		return 1.0
	}

	if strings.Contains(t, q) {
		switch {
		case strings.HasPrefix(t, q):
			return 0.9
		case strings.Contains(t, " "+q) || strings.HasSuffix(t, q):
			return 0.8
		default:
			return 0.7
		}
	}

	if ratio := similarityRatio(q, t); ratio > 0.3 {
		return ratio
	}
	return 0.3
}

// textRelevance scores a full-text line match. Occurrences are counted
// case-insensitively regardless of search mode.
func textRelevance(query, line string) float64 {
	q := strings.ToLower(query)
	l := strings.ToLower(line)

	similarity := similarityRatio(q, l)
	occurrences := 0
	if q != "" {
		occurrences = strings.Count(l, q)
	}

	if occurrences > 1 {
		return math.Min(1.0, 0.6+float64(occurrences)*0.1+similarity*0.3)
	}
	return math.Min(1.0, 0.5+similarity*0.5)
}
