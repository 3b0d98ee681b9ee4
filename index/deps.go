package index

import (
	"path"
	"path/filepath"
	"strings"
)

// resolveLocked rebuilds every dependency edge from the raw include tables.
// Matching is by basename on both sides: the include target is stripped of
// its quote or angle adorners and reduced to its final path element, and
// each indexed file is keyed by its basename. When two files share a
// basename the one later in sorted path order wins. Includes that match no
// indexed file are dropped silently; system headers are expected to miss.
func (s *Store) resolveLocked() {
	byName := make(map[string]string, len(s.sortedPaths))
	for _, p := range s.sortedPaths {
		byName[s.records[p].Name] = p
	}

	s.resolved = make(map[string][]string, len(s.rawIncludes))
	for file, includes := range s.rawIncludes {
		var edges []string
		for _, inc := range includes {
			base := path.Base(filepath.ToSlash(strings.Trim(inc, `"<>`)))
			if target, ok := byName[base]; ok {
				edges = append(edges, target)
			}
		}
		if len(edges) > 0 {
			s.resolved[file] = edges
		}
	}
}

// DependenciesOf returns the resolved dependency edges of one file, in the
// order its includes appear.
func (s *Store) DependenciesOf(p string) []string {
	abs, err := s.absolute(p)
	if err != nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.resolved[abs]...)
}

// DependentsOf returns the files whose dependency lists contain the given
// file, in sorted path order.
func (s *Store) DependentsOf(p string) []string {
	abs, err := s.absolute(p)
	if err != nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, candidate := range s.sortedPaths {
		for _, dep := range s.resolved[candidate] {
			if dep == abs {
				out = append(out, candidate)
				break
			}
		}
	}
	return out
}

// RawIncludesOf returns the include targets of one file as written in the
// source, adorners stripped.
func (s *Store) RawIncludesOf(p string) []string {
	abs, err := s.absolute(p)
	if err != nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.rawIncludes[abs]))
	for _, inc := range s.rawIncludes[abs] {
		out = append(out, strings.Trim(inc, `"<>`))
	}
	return out
}

// DependencyGraph returns the sorted file list and a copy of every resolved
// edge list, taken under one lock so the two are consistent with each
// other.
func (s *Store) DependencyGraph() ([]string, map[string][]string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]string, len(s.sortedPaths))
	copy(files, s.sortedPaths)

	edges := make(map[string][]string, len(s.resolved))
	for file, deps := range s.resolved {
		edges[file] = append([]string(nil), deps...)
	}
	return files, edges
}
