package search

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.0001
}

func Test_SymbolRelevance_Tiers(t *testing.T) {
	tests := []struct {
		query  string
		target string
		want   float64
	}{
		{"button", "Button", 1.0},       // exact, case-normalized
		{"button", "ButtonGroup", 0.9},  // prefix
		{"Button", "ActionButton", 0.8}, // suffix boundary
		{"list", "my list items", 0.8},  // space boundary
		{"oo", "FooBar", 0.7},           // interior substring
	}
	for _, tt := range tests {
		if got := symbolRelevance(tt.query, tt.target); !almostEqual(got, tt.want) {
			t.Errorf("symbolRelevance(%q, %q) = %v, want %v", tt.query, tt.target, got, tt.want)
		}
	}
}

func Test_SymbolRelevance_SimilarityFallback(t *testing.T) {
	// "buttn" is not a substring of "button"; matching blocks cover 5 of
	// 11 characters, so the ratio is 10/11.
	got := symbolRelevance("buttn", "button")
	if !almostEqual(got, 10.0/11.0) {
		t.Errorf("expected ratio 10/11, got %v", got)
	}
}

func Test_SymbolRelevance_Floor(t *testing.T) {
	if got := symbolRelevance("xyz", "Button"); !almostEqual(got, 0.3) {
		t.Errorf("expected floor 0.3, got %v", got)
	}
}

func Test_TextRelevance_SingleOccurrence(t *testing.T) {
	if got := textRelevance("render", "render"); !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0 for identical line, got %v", got)
	}
}

func Test_TextRelevance_MultipleOccurrences(t *testing.T) {
	// Three occurrences: 0.6 + 3*0.1 + ratio("x", line)*0.3.
	line := "x and x and x"
	sim := similarityRatio("x", line)
	want := math.Min(1.0, 0.6+0.3+sim*0.3)
	if got := textRelevance("x", line); !almostEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func Test_TextRelevance_CaseInsensitiveCount(t *testing.T) {
	// Occurrences are counted case-insensitively even though the search
	// itself may be case-sensitive.
	got := textRelevance("Button", "Button BUTTON button")
	if got <= 0.8 {
		t.Errorf("expected three counted occurrences to push the score up, got %v", got)
	}
}

func Test_SimilarityRatio_Bounds(t *testing.T) {
	if got := similarityRatio("abc", "abc"); !almostEqual(got, 1.0) {
		t.Errorf("expected 1.0 for equal strings, got %v", got)
	}
	if got := similarityRatio("abc", "xyz"); !almostEqual(got, 0.0) {
		t.Errorf("expected 0.0 for disjoint strings, got %v", got)
	}
}
