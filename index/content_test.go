package index

import (
	"path/filepath"
	"testing"
)

func Test_QueryTerm(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"render", "render"},
		{"  render  ", "render"},
		{`"exact phrase"`, "exact phrase"},
		{"/rend.*/", "rend.*"},
		{"/", "/"},
		{`""`, `""`},
	}
	for _, tt := range tests {
		if got := QueryTerm(tt.query); got != tt.want {
			t.Errorf("QueryTerm(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

func Test_Store_MatchingPaths(t *testing.T) {
	s := newTestStore(t)
	writeSource(t, s.Root(), "button.h", buttonHeader)
	writeSource(t, s.Root(), "main.cpp", mainSource)
	writeSource(t, s.Root(), "other.cpp", "int unrelated() { return 1; }\n")
	indexAll(t, s, "button.h", "main.cpp", "other.cpp")

	paths, err := s.MatchingPaths("Button", 50)
	if err != nil {
		t.Fatalf("MatchingPaths: %v", err)
	}

	found := make(map[string]bool, len(paths))
	for _, p := range paths {
		found[p] = true
	}
	if !found[filepath.Join(s.Root(), "button.h")] {
		t.Errorf("expected button.h among hits, got %v", paths)
	}
	if !found[filepath.Join(s.Root(), "main.cpp")] {
		t.Errorf("expected main.cpp among hits, got %v", paths)
	}
	if found[filepath.Join(s.Root(), "other.cpp")] {
		t.Errorf("did not expect other.cpp among hits, got %v", paths)
	}
}

func Test_Store_MatchingPaths_AfterRemove(t *testing.T) {
	s := newTestStore(t)
	writeSource(t, s.Root(), "button.h", buttonHeader)
	indexAll(t, s, "button.h")

	paths, err := s.MatchingPaths("render", 50)
	if err != nil {
		t.Fatalf("MatchingPaths: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("expected a hit before removal")
	}

	s.Remove("button.h")
	paths, err = s.MatchingPaths("render", 50)
	if err != nil {
		t.Fatalf("MatchingPaths: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("expected no hits after removal, got %v", paths)
	}
}

func Test_Store_MatchingPaths_RegexQuery(t *testing.T) {
	s := newTestStore(t)
	writeSource(t, s.Root(), "button.h", buttonHeader)
	indexAll(t, s, "button.h")

	paths, err := s.MatchingPaths("/rend.*/", 50)
	if err != nil {
		t.Fatalf("MatchingPaths: %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("expected 1 hit for regexp query, got %v", paths)
	}
}
