package search

import (
	"strings"

	"github.com/seb1232/cppindex-mcp/index"
)

// Related is one file connected to another through the dependency graph or
// a shared symbol.
type Related struct {
	File         string
	Relationship string
}

// Related lists the files connected to the given one: direct dependencies,
// direct dependents, then files sharing a component or class tag with it.
// Deduplicated by file, first relationship wins. Unknown files yield nil.
func (e *Engine) Related(file string) []Related {
	rec, ok := e.store.Record(file)
	if !ok {
		return nil
	}
	abs := rec.Path

	var related []Related
	for _, dep := range e.store.DependenciesOf(abs) {
		related = append(related, Related{File: e.display(dep), Relationship: "dependency"})
	}
	for _, dependent := range e.store.DependentsOf(abs) {
		related = append(related, Related{File: e.display(dependent), Relationship: "dependent"})
	}

	shares := func(kind index.SymbolKind, label string) {
		for _, entry := range e.store.SymbolEntries(kind) {
			if !containsFile(entry.Files, abs) {
				continue
			}
			for _, other := range entry.Files {
				if other == abs {
					continue
				}
				related = append(related, Related{
					File:         e.display(other),
					Relationship: label + entry.Name,
				})
			}
		}
	}
	shares(index.KindComponent, "shares component: ")
	shares(index.KindClass, "shares class: ")

	seen := make(map[string]struct{}, len(related))
	deduped := make([]Related, 0, len(related))
	for _, r := range related {
		if _, ok := seen[r.File]; ok {
			continue
		}
		seen[r.File] = struct{}{}
		deduped = append(deduped, r)
	}
	return deduped
}

// UsageExample is a code window showing a symbol from one file being used
// in another.
type UsageExample struct {
	File string
	Code string
	Kind string // "component" or "class"
	Name string
}

// UsageExamples collects up to maxExamples snippets of other files using
// the components and classes of the given file. Components are walked
// before classes; a file whose content has no locatable occurrence of the
// symbol is skipped. Unknown files yield nil.
func (e *Engine) UsageExamples(file string, maxExamples int) []UsageExample {
	if maxExamples <= 0 {
		maxExamples = defaultMaxExamples
	}
	rec, ok := e.store.Record(file)
	if !ok {
		return nil
	}
	abs := rec.Path

	var examples []UsageExample
	collect := func(kind index.SymbolKind, label string) bool {
		for _, entry := range e.store.SymbolEntries(kind) {
			if !containsFile(entry.Files, abs) {
				continue
			}
			for _, other := range entry.Files {
				if other == abs {
					continue
				}
				content, err := e.store.Content(other)
				if err != nil {
					continue
				}
				snippet := extractSnippet(content, entry.Name, e.snippetContext)
				if snippet == "" {
					continue
				}
				examples = append(examples, UsageExample{
					File: e.display(other),
					Code: snippet,
					Kind: label,
					Name: entry.Name,
				})
				if len(examples) >= maxExamples {
					return true
				}
			}
		}
		return false
	}

	if collect(index.KindComponent, "component") {
		return examples
	}
	collect(index.KindClass, "class")
	return examples
}

// extractSnippet returns the lines around the first occurrence of needle,
// contextLines on each side, or "" when needle does not occur.
func extractSnippet(content, needle string, contextLines int) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !strings.Contains(line, needle) {
			continue
		}
		start := i - contextLines
		if start < 0 {
			start = 0
		}
		end := i + contextLines + 1
		if end > len(lines) {
			end = len(lines)
		}
		return strings.Join(lines[start:end], "\n")
	}
	return ""
}

func containsFile(files []string, path string) bool {
	for _, f := range files {
		if f == path {
			return true
		}
	}
	return false
}
