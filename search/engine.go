// Package search implements the typed query surface over the index Store:
// symbol, dependency, regex, full-text, and bleve-backed content searches,
// plus related-file and usage-example lookups. Results are sorted by
// relevance descending and truncated to the caller's limit; a small LRU
// keyed by store generation caches whole result sets between mutations.
package search

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/seb1232/cppindex-mcp/index"
)

const (
	defaultMaxResults     = 50
	defaultSnippetContext = 5
	defaultMaxExamples    = 5
)

// Kind selects the search strategy.
type Kind string

const (
	KindComponent  Kind = "component"
	KindFunction   Kind = "function"
	KindClass      Kind = "class"
	KindUIElement  Kind = "ui_element"
	KindDependency Kind = "dependency"
	KindText       Kind = "text"
	KindRegex      Kind = "regex"
	KindContent    Kind = "content"
)

// Options configures a single search.
type Options struct {
	// CaseSensitive disables the default case folding of query and targets.
	CaseSensitive bool
	// Extensions restricts results to files with these extensions. Empty
	// means no restriction. A leading dot is tolerated.
	Extensions []string
	// MaxResults caps the result list after sorting. Zero means the
	// engine default.
	MaxResults int
}

// Result is one search hit. File is root-relative. Start and End carry the
// match column bounds for regex searches; Dependents is set on dependency
// summary rows.
type Result struct {
	File       string
	Line       int
	Text       string
	Relevance  float64
	Start      int
	End        int
	Dependents []string
}

// EngineOptions tunes a new Engine. Zero values select defaults.
type EngineOptions struct {
	CacheSize      int // result cache entries; <= 0 disables caching
	SnippetContext int // context lines around usage example snippets
	MaxResults     int // default result cap when Options.MaxResults is zero
}

// Engine answers queries against a Store. Safe for concurrent use; all
// mutable state lives in the Store and the internal cache.
type Engine struct {
	store          *index.Store
	cache          *resultCache
	logger         *slog.Logger
	snippetContext int
	maxResults     int
}

// NewEngine creates an Engine over the given store.
func NewEngine(store *index.Store, opts EngineOptions, logger *slog.Logger) *Engine {
	snippetContext := opts.SnippetContext
	if snippetContext <= 0 {
		snippetContext = defaultSnippetContext
	}
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &Engine{
		store:          store,
		cache:          newResultCache(opts.CacheSize),
		logger:         logger,
		snippetContext: snippetContext,
		maxResults:     maxResults,
	}
}

// Search runs one query. An empty query yields no results. Unrecognized
// kinds fall back to full-text search. Only content searches can fail;
// an invalid regex degrades to an empty result set.
func (e *Engine) Search(kind Kind, query string, opts Options) ([]Result, error) {
	if query == "" {
		return nil, nil
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = e.maxResults
	}

	generation := e.store.Generation()
	if cached, ok := e.cache.get(generation, kind, query, opts); ok {
		return cached, nil
	}

	q := query
	if !opts.CaseSensitive {
		q = strings.ToLower(query)
	}
	filter := newExtensionFilter(opts.Extensions)

	var results []Result
	switch kind {
	case KindComponent:
		results = e.symbolSearch(index.KindComponent, q, opts.CaseSensitive, filter)
		results = e.appendTextMatches(results, q, opts.CaseSensitive, filter)
	case KindFunction:
		results = e.symbolSearch(index.KindFunction, q, opts.CaseSensitive, filter)
	case KindClass:
		results = e.symbolSearch(index.KindClass, q, opts.CaseSensitive, filter)
	case KindUIElement:
		results = e.symbolSearch(index.KindUIElement, q, opts.CaseSensitive, filter)
		results = e.appendTextMatches(results, q, opts.CaseSensitive, filter)
	case KindDependency:
		results = e.dependencySearch(q, opts.CaseSensitive, filter)
	case KindRegex:
		results = e.regexSearch(query, opts.CaseSensitive, filter)
	case KindContent:
		var err error
		results, err = e.contentSearch(query, opts.CaseSensitive, filter, opts.MaxResults)
		if err != nil {
			return nil, err
		}
	default:
		results = e.fullTextSearch(q, opts.CaseSensitive, filter)
	}

	sortByRelevance(results)
	if len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}

	e.cache.put(generation, kind, query, opts, results)
	return results, nil
}

func (e *Engine) symbolSearch(kind index.SymbolKind, query string, caseSensitive bool, filter extensionFilter) []Result {
	var results []Result
	for _, entry := range e.store.SymbolEntries(kind) {
		name := entry.Name
		if !caseSensitive {
			name = strings.ToLower(name)
		}
		if !strings.Contains(name, query) {
			continue
		}

		relevance := symbolRelevance(query, entry.Name)
		for _, file := range entry.Files {
			if !filter.matches(file) {
				continue
			}
			line, text := e.locate(file, entry.Name)
			results = append(results, Result{
				File:      e.display(file),
				Line:      line,
				Text:      text,
				Relevance: relevance,
			})
		}
	}
	return results
}

// appendTextMatches adds full-text hits for files not already present,
// one row per new file.
func (e *Engine) appendTextMatches(results []Result, query string, caseSensitive bool, filter extensionFilter) []Result {
	seen := make(map[string]struct{}, len(results))
	for _, r := range results {
		seen[r.File] = struct{}{}
	}
	for _, r := range e.fullTextSearch(query, caseSensitive, filter) {
		if _, ok := seen[r.File]; ok {
			continue
		}
		results = append(results, r)
		seen[r.File] = struct{}{}
	}
	return results
}

func (e *Engine) fullTextSearch(query string, caseSensitive bool, filter extensionFilter) []Result {
	var results []Result
	for _, file := range e.store.Files() {
		if !filter.matches(file) {
			continue
		}
		content, err := e.store.Content(file)
		if err != nil {
			continue
		}

		haystack := content
		if !caseSensitive {
			haystack = strings.ToLower(content)
		}
		if !strings.Contains(haystack, query) {
			continue
		}

		lines := strings.Split(content, "\n")
		searchLines := strings.Split(haystack, "\n")
		for i, searchLine := range searchLines {
			if !strings.Contains(searchLine, query) {
				continue
			}
			results = append(results, Result{
				File:      e.display(file),
				Line:      i + 1,
				Text:      strings.TrimSpace(lines[i]),
				Relevance: textRelevance(query, lines[i]),
			})
		}
	}
	return results
}

func (e *Engine) regexSearch(pattern string, caseSensitive bool, filter extensionFilter) []Result {
	if !caseSensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		e.logger.Debug("invalid regex query", "pattern", pattern, "error", err)
		return nil
	}

	var results []Result
	for _, file := range e.store.Files() {
		if !filter.matches(file) {
			continue
		}
		content, err := e.store.Content(file)
		if err != nil {
			continue
		}

		for i, line := range strings.Split(content, "\n") {
			for _, loc := range re.FindAllStringIndex(line, -1) {
				results = append(results, Result{
					File:      e.display(file),
					Line:      i + 1,
					Text:      strings.TrimSpace(line),
					Relevance: 1.0,
					Start:     loc[0],
					End:       loc[1],
				})
			}
		}
	}
	return results
}

// dependencySearch matches files by basename and reports each match as a
// summary row carrying its dependents, followed by one row per dependent
// pointing at the concrete include line. A file can also match through one
// of its resolved dependencies, in which case the include line in the
// depending file is reported. Each file appears at most once outside the
// summary's dependent list.
func (e *Engine) dependencySearch(query string, caseSensitive bool, filter extensionFilter) []Result {
	files, edges := e.store.DependencyGraph()

	dependentsOf := func(target string) []string {
		var out []string
		for _, f := range files {
			for _, dep := range edges[f] {
				if dep == target {
					out = append(out, f)
					break
				}
			}
		}
		return out
	}

	processed := make(map[string]struct{})
	var results []Result

	for _, file := range files {
		if !filter.matches(file) {
			continue
		}

		name := filepath.Base(file)
		nameMatch := name
		if !caseSensitive {
			nameMatch = strings.ToLower(name)
		}

		if strings.Contains(nameMatch, query) {
			if _, done := processed[file]; !done {
				relevance := symbolRelevance(query, name)
				processed[file] = struct{}{}
				dependents := dependentsOf(file)

				display := make([]string, 0, len(dependents))
				for _, d := range dependents {
					display = append(display, e.display(d))
				}
				results = append(results, Result{
					File:       e.display(file),
					Line:       1,
					Text:       fmt.Sprintf("File with %d dependents", len(dependents)),
					Relevance:  relevance,
					Dependents: display,
				})

				for _, depFile := range dependents {
					if !filter.matches(depFile) {
						continue
					}
					if _, done := processed[depFile]; done {
						continue
					}
					line, text := e.locateInclude(depFile, name)
					if line == 0 {
						continue
					}
					results = append(results, Result{
						File:      e.display(depFile),
						Line:      line,
						Text:      text,
						Relevance: relevance * 0.9,
					})
					processed[depFile] = struct{}{}
				}
			}
		}

		for _, dep := range edges[file] {
			depName := filepath.Base(dep)
			depMatch := depName
			if !caseSensitive {
				depMatch = strings.ToLower(depName)
			}
			if !strings.Contains(depMatch, query) {
				continue
			}
			if _, done := processed[file]; done {
				continue
			}
			relevance := symbolRelevance(query, depName)
			line, text := e.locateInclude(file, depName)
			if line == 0 {
				continue
			}
			results = append(results, Result{
				File:      e.display(file),
				Line:      line,
				Text:      text,
				Relevance: relevance,
			})
			processed[file] = struct{}{}
		}
	}
	return results
}

// contentSearch narrows candidates through the bleve index, then scans the
// candidate files line by line for the literal term.
func (e *Engine) contentSearch(query string, caseSensitive bool, filter extensionFilter, limit int) ([]Result, error) {
	candidates, err := e.store.MatchingPaths(query, limit)
	if err != nil {
		return nil, err
	}

	term := index.QueryTerm(query)
	needle := term
	if !caseSensitive {
		needle = strings.ToLower(term)
	}

	var results []Result
	for _, file := range candidates {
		if !filter.matches(file) {
			continue
		}
		content, err := e.store.Content(file)
		if err != nil {
			continue
		}

		for i, line := range strings.Split(content, "\n") {
			scan := line
			if !caseSensitive {
				scan = strings.ToLower(line)
			}
			if !strings.Contains(scan, needle) {
				continue
			}
			results = append(results, Result{
				File:      e.display(file),
				Line:      i + 1,
				Text:      strings.TrimSpace(line),
				Relevance: textRelevance(term, line),
			})
		}
	}
	return results, nil
}

// locate returns the first line containing needle, 1-based, with its
// stripped text. Falls back to line 1 with empty text so symbol results
// always point somewhere.
func (e *Engine) locate(file, needle string) (int, string) {
	content, err := e.store.Content(file)
	if err != nil {
		return 1, ""
	}
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(line, needle) {
			return i + 1, strings.TrimSpace(line)
		}
	}
	return 1, ""
}

// locateInclude returns the first line that is an include of the named
// file, or 0 when there is none.
func (e *Engine) locateInclude(file, includeName string) (int, string) {
	content, err := e.store.Content(file)
	if err != nil {
		return 0, ""
	}
	for i, line := range strings.Split(content, "\n") {
		if strings.Contains(line, "#include") && strings.Contains(line, includeName) {
			return i + 1, strings.TrimSpace(line)
		}
	}
	return 0, ""
}

// display converts a store identity to the root-relative form results
// carry.
func (e *Engine) display(abs string) string {
	rel, err := filepath.Rel(e.store.Root(), abs)
	if err != nil {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}

func sortByRelevance(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
}

// extensionFilter holds normalized ".ext" suffixes; empty admits all.
type extensionFilter []string

func newExtensionFilter(extensions []string) extensionFilter {
	out := make(extensionFilter, 0, len(extensions))
	for _, ext := range extensions {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext == "" {
			continue
		}
		out = append(out, "."+strings.ToLower(ext))
	}
	return out
}

func (f extensionFilter) matches(path string) bool {
	if len(f) == 0 {
		return true
	}
	lower := strings.ToLower(path)
	for _, suffix := range f {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}
