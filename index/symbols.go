package index

import "sort"

// SymbolKind names one of the four symbol tables.
type SymbolKind string

const (
	KindComponent SymbolKind = "component"
	KindFunction  SymbolKind = "function"
	KindClass     SymbolKind = "class"
	KindUIElement SymbolKind = "ui_element"
)

// SymbolEntry is one symbol name with the sorted files that define or
// mention it. Files is never empty.
type SymbolEntry struct {
	Name  string
	Files []string
}

// symbolIndex maps a symbol name to the set of files it appears in. A key
// exists only while its set is non-empty; removePath deletes keys whose
// last file disappears.
type symbolIndex map[string]map[string]struct{}

func (si symbolIndex) add(name, path string) {
	if name == "" {
		return
	}
	files, ok := si[name]
	if !ok {
		files = make(map[string]struct{})
		si[name] = files
	}
	files[path] = struct{}{}
}

func (si symbolIndex) removePath(path string) {
	for name, files := range si {
		if _, ok := files[path]; !ok {
			continue
		}
		delete(files, path)
		if len(files) == 0 {
			delete(si, name)
		}
	}
}

// entries returns the whole table as sorted SymbolEntry values, each with
// its files sorted.
func (si symbolIndex) entries() []SymbolEntry {
	names := make([]string, 0, len(si))
	for name := range si {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]SymbolEntry, 0, len(names))
	for _, name := range names {
		files := make([]string, 0, len(si[name]))
		for path := range si[name] {
			files = append(files, path)
		}
		sort.Strings(files)
		out = append(out, SymbolEntry{Name: name, Files: files})
	}
	return out
}

func (s *Store) table(kind SymbolKind) symbolIndex {
	switch kind {
	case KindComponent:
		return s.components
	case KindFunction:
		return s.functions
	case KindClass:
		return s.classes
	case KindUIElement:
		return s.uiElements
	default:
		return nil
	}
}

// SymbolEntries returns one kind's table as a sorted, copied snapshot.
// Unknown kinds yield nil.
func (s *Store) SymbolEntries(kind SymbolKind) []SymbolEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table := s.table(kind)
	if table == nil {
		return nil
	}
	return table.entries()
}

// SymbolsOf returns the sorted symbols of one kind found in a single file.
func (s *Store) SymbolsOf(kind SymbolKind, path string) []string {
	abs, err := s.absolute(path)
	if err != nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	table := s.table(kind)
	if table == nil {
		return nil
	}

	var out []string
	for name, files := range table {
		if _, ok := files[abs]; ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
