// Package index holds the in-memory picture of a C/C++ source tree: file
// records, four symbol tables, the include-dependency graph, cached file
// contents, and a full-text content index. One Store owns all of it behind a
// single lock, so an update swaps a file's old facts for its new ones in one
// critical section and readers never observe the gap between the two.
package index

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/zeebo/xxh3"

	"github.com/seb1232/cppindex-mcp/extract"
	"github.com/seb1232/cppindex-mcp/ignore"
	"github.com/seb1232/cppindex-mcp/language"
)

var (
	// ErrNotIndexed marks lookups for files the Store has never seen.
	ErrNotIndexed = errors.New("file not indexed")
	// ErrTooLarge marks files skipped because they exceed the size limit.
	ErrTooLarge = errors.New("file exceeds size limit")
	// ErrBinaryContent marks files skipped because they look binary.
	ErrBinaryContent = errors.New("binary content")
)

// FileRecord describes one indexed file. The absolute path is the identity
// every other table keys by.
type FileRecord struct {
	Path      string // absolute path, the identity
	RelPath   string // root-relative, forward slashes, for display
	Name      string // basename
	Ext       string // lowercase extension without dot
	Dialect   string // label for status breakdowns
	ModTime   time.Time
	SizeBytes int64
	Hash      string // xxh3 digest of the raw bytes
}

// Store is the aggregate index over one project root.
type Store struct {
	root      string
	logger    *slog.Logger
	matcher   *ignore.Matcher
	extractor extract.Extractor

	mu          sync.RWMutex
	records     map[string]*FileRecord
	sortedPaths []string // sorted identities for deterministic iteration
	components  symbolIndex
	functions   symbolIndex
	classes     symbolIndex
	uiElements  symbolIndex
	rawIncludes map[string][]string // include targets as written, per file
	resolved    map[string][]string // resolved dependency edges, per file
	contents    map[string]string
	totalBytes  int64
	generation  uint64
	content     bleve.Index
}

// NewStore creates an empty Store for the given project root.
func NewStore(root string, matcher *ignore.Matcher, extractor extract.Extractor, logger *slog.Logger) (*Store, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	contentIndex, err := newContentIndex()
	if err != nil {
		return nil, err
	}

	s := &Store{
		root:      absRoot,
		logger:    logger,
		matcher:   matcher,
		extractor: extractor,
		content:   contentIndex,
	}
	s.resetMaps()
	return s, nil
}

func (s *Store) resetMaps() {
	s.records = make(map[string]*FileRecord)
	s.sortedPaths = make([]string, 0)
	s.components = make(symbolIndex)
	s.functions = make(symbolIndex)
	s.classes = make(symbolIndex)
	s.uiElements = make(symbolIndex)
	s.rawIncludes = make(map[string][]string)
	s.resolved = make(map[string][]string)
	s.contents = make(map[string]string)
	s.totalBytes = 0
}

// Root returns the absolute project root.
func (s *Store) Root() string {
	return s.root
}

// Clear drops every record and recreates the content index. Used at the
// start of a full rescan.
func (s *Store) Clear() error {
	freshContent, err := newContentIndex()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.content
	s.content = freshContent
	s.resetMaps()
	s.generation++

	if old != nil {
		if err := old.Close(); err != nil {
			s.logger.Debug("closing previous content index", "error", err)
		}
	}
	return nil
}

// Close releases the content index.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content.Close()
}

// IndexFile reads, hashes, and extracts one file, then swaps its entry into
// every table. Dependency edges are not recomputed; batch callers run
// ResolveDependencies once at the end.
func (s *Store) IndexFile(path string) error {
	return s.indexFile(path, false)
}

// ApplyUpdate re-indexes one changed file and recomputes dependency edges,
// all inside a single critical section: the old entry is purged and the new
// one inserted with no observable state in between.
func (s *Store) ApplyUpdate(path string) error {
	return s.indexFile(path, true)
}

func (s *Store) indexFile(path string, resolve bool) error {
	abs, err := s.absolute(path)
	if err != nil {
		return err
	}

	// Disk I/O and extraction happen before the lock; only the table swap
	// is serialized.
	rec, facts, content, err := s.loadFile(abs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(abs)
	s.insertLocked(rec, facts, content)
	if resolve {
		s.resolveLocked()
	}
	s.generation++
	return nil
}

// Remove purges a file from every table and drops any dependency edges that
// pointed at it. Returns false if the file was not indexed.
func (s *Store) Remove(path string) bool {
	abs, err := s.absolute(path)
	if err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeLocked(abs) {
		return false
	}
	s.resolveLocked()
	s.generation++
	return true
}

// ResolveDependencies recomputes the dependency edges from the raw include
// tables. Runs after every batch of IndexFile calls.
func (s *Store) ResolveDependencies() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolveLocked()
	s.generation++
}

// HasChanged reports whether the file's bytes on disk differ from the
// indexed state. Unknown and unreadable files count as changed.
func (s *Store) HasChanged(path string) bool {
	abs, err := s.absolute(path)
	if err != nil {
		return true
	}

	s.mu.RLock()
	rec, ok := s.records[abs]
	s.mu.RUnlock()
	if !ok {
		return true
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return true
	}
	return hashBytes(data) != rec.Hash
}

// Content returns the cached text of an indexed file. Every insert fills
// the cache, so a miss means the file is not indexed.
func (s *Store) Content(path string) (string, error) {
	abs, err := s.absolute(path)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	content, ok := s.contents[abs]
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrNotIndexed)
	}
	return content, nil
}

// Known reports whether a path is currently indexed.
func (s *Store) Known(path string) bool {
	abs, err := s.absolute(path)
	if err != nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[abs]
	return ok
}

// Record returns a copy of the record for path.
func (s *Store) Record(path string) (FileRecord, bool) {
	abs, err := s.absolute(path)
	if err != nil {
		return FileRecord{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[abs]
	if !ok {
		return FileRecord{}, false
	}
	return *rec, true
}

// Files returns the indexed identities in sorted order.
func (s *Store) Files() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.sortedPaths))
	copy(out, s.sortedPaths)
	return out
}

// Records returns copies of every record in sorted path order.
func (s *Store) Records() []FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]FileRecord, 0, len(s.sortedPaths))
	for _, path := range s.sortedPaths {
		out = append(out, *s.records[path])
	}
	return out
}

// FileCount returns the number of indexed files.
func (s *Store) FileCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Generation is bumped by every mutation; cache keys include it so stale
// results age out on their own.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// SearchByGlob returns records whose relative path matches a doublestar
// glob, in sorted path order.
func (s *Store) SearchByGlob(pattern string, maxResults int) ([]FileRecord, error) {
	if maxResults <= 0 {
		maxResults = 50
	}
	pattern = strings.ReplaceAll(pattern, "\\", "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []FileRecord
	for _, path := range s.sortedPaths {
		if len(results) >= maxResults {
			break
		}
		rec := s.records[path]
		matched, err := doublestar.Match(pattern, rec.RelPath)
		if err != nil {
			continue
		}
		if matched {
			results = append(results, *rec)
		}
	}
	return results, nil
}

// Stats is a point-in-time summary of the Store.
type Stats struct {
	Files       int
	Components  int
	Functions   int
	Classes     int
	UIElements  int
	Edges       int
	TotalBytes  int64
	Generation  uint64
	ContentDocs uint64
}

// Snapshot returns current counters.
func (s *Store) Snapshot() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := 0
	for _, deps := range s.resolved {
		edges += len(deps)
	}

	docs, _ := s.content.DocCount()
	return Stats{
		Files:       len(s.records),
		Components:  len(s.components),
		Functions:   len(s.functions),
		Classes:     len(s.classes),
		UIElements:  len(s.uiElements),
		Edges:       edges,
		TotalBytes:  s.totalBytes,
		Generation:  s.generation,
		ContentDocs: docs,
	}
}

// DialectCounts returns file counts per dialect label.
func (s *Store) DialectCounts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, rec := range s.records {
		counts[rec.Dialect]++
	}
	return counts
}

// absolute normalizes a user-supplied path to the identity form: absolute
// and cleaned. Relative paths are taken as root-relative.
func (s *Store) absolute(path string) (string, error) {
	if path == "" {
		return "", errors.New("empty path")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, filepath.FromSlash(path))
	}
	return filepath.Clean(path), nil
}

// loadFile reads and extracts one file. No locks held.
func (s *Store) loadFile(abs string) (FileRecord, extract.Facts, string, error) {
	info, err := os.Stat(abs)
	if err != nil {
		return FileRecord{}, extract.Facts{}, "", fmt.Errorf("stat %s: %w", abs, err)
	}
	if info.IsDir() {
		return FileRecord{}, extract.Facts{}, "", fmt.Errorf("%s is a directory", abs)
	}
	if s.matcher != nil && s.matcher.IsFileTooLarge(info.Size()) {
		return FileRecord{}, extract.Facts{}, "", fmt.Errorf("%s (%d bytes): %w", abs, info.Size(), ErrTooLarge)
	}

	data, err := readFileWithRetry(abs)
	if err != nil {
		return FileRecord{}, extract.Facts{}, "", fmt.Errorf("read %s: %w", abs, err)
	}
	if language.IsBinaryContent(data) {
		return FileRecord{}, extract.Facts{}, "", fmt.Errorf("%s: %w", abs, ErrBinaryContent)
	}

	rel, err := filepath.Rel(s.root, abs)
	if err != nil {
		rel = abs
	}

	rec := FileRecord{
		Path:      abs,
		RelPath:   filepath.ToSlash(rel),
		Name:      filepath.Base(abs),
		Ext:       strings.ToLower(strings.TrimPrefix(filepath.Ext(abs), ".")),
		Dialect:   language.Detect(abs),
		ModTime:   info.ModTime(),
		SizeBytes: info.Size(),
		Hash:      hashBytes(data),
	}

	content := string(data)
	return rec, s.extractor.Extract(abs, content), content, nil
}

func (s *Store) insertLocked(rec FileRecord, facts extract.Facts, content string) {
	stored := rec
	s.records[rec.Path] = &stored

	idx := sort.SearchStrings(s.sortedPaths, rec.Path)
	s.sortedPaths = append(s.sortedPaths, "")
	copy(s.sortedPaths[idx+1:], s.sortedPaths[idx:])
	s.sortedPaths[idx] = rec.Path

	for _, name := range facts.Components {
		s.components.add(name, rec.Path)
	}
	for _, name := range facts.Functions {
		s.functions.add(name, rec.Path)
	}
	for _, name := range facts.Classes {
		s.classes.add(name, rec.Path)
	}
	for _, name := range facts.UIElements {
		s.uiElements.add(name, rec.Path)
	}

	s.rawIncludes[rec.Path] = append([]string(nil), facts.Includes...)
	s.contents[rec.Path] = content
	s.totalBytes += rec.SizeBytes

	if err := s.content.Index(rec.Path, contentDocument{
		Path:    rec.RelPath,
		Name:    rec.Name,
		Dialect: rec.Dialect,
		Content: content,
	}); err != nil {
		s.logger.Debug("content index update failed", "file", rec.RelPath, "error", err)
	}
}

func (s *Store) removeLocked(abs string) bool {
	rec, ok := s.records[abs]
	if !ok {
		return false
	}

	delete(s.records, abs)

	idx := sort.SearchStrings(s.sortedPaths, abs)
	if idx < len(s.sortedPaths) && s.sortedPaths[idx] == abs {
		s.sortedPaths = append(s.sortedPaths[:idx], s.sortedPaths[idx+1:]...)
	}

	s.components.removePath(abs)
	s.functions.removePath(abs)
	s.classes.removePath(abs)
	s.uiElements.removePath(abs)

	delete(s.rawIncludes, abs)
	delete(s.resolved, abs)
	delete(s.contents, abs)
	s.totalBytes -= rec.SizeBytes

	if err := s.content.Delete(abs); err != nil {
		s.logger.Debug("content index delete failed", "file", rec.RelPath, "error", err)
	}
	return true
}

// readFileWithRetry reads a file, retrying briefly. Editors often truncate
// and rewrite, which can surface as transient read failures right after a
// change event.
func readFileWithRetry(path string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			time.Sleep(50 * time.Millisecond)
		}
		data, err := os.ReadFile(path)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func hashBytes(data []byte) string {
	h := xxh3.New()
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
