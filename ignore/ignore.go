package ignore

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	gitignore "github.com/denormal/go-gitignore"
)

// Matcher decides which paths take part in indexing. A file is indexed when
// its extension is tracked and no exclusion rule hits: excluded path-segment
// prefixes first, then .gitignore rules from the project root.
// Thread-safe: Reload() acquires a write lock, the checks a read lock.
type Matcher struct {
	mu               sync.RWMutex
	rootDir          string
	extensions       map[string]bool
	excludePrefixes  []string
	maxFileSizeBytes int64
	gitIgnore        gitignore.GitIgnore
}

// MatcherOptions configures the matcher. Zero-value fields fall back to the
// package defaults.
type MatcherOptions struct {
	RootDir          string
	Extensions       []string
	ExcludePrefixes  []string
	MaxFileSizeBytes int64
}

// NewMatcher creates a matcher rooted at options.RootDir.
func NewMatcher(options MatcherOptions) *Matcher {
	matcher := &Matcher{
		rootDir:          options.RootDir,
		extensions:       make(map[string]bool),
		excludePrefixes:  options.ExcludePrefixes,
		maxFileSizeBytes: options.MaxFileSizeBytes,
	}

	exts := options.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	for _, ext := range exts {
		matcher.extensions[strings.ToLower(strings.TrimPrefix(ext, "."))] = true
	}

	if len(matcher.excludePrefixes) == 0 {
		matcher.excludePrefixes = DefaultExcludePrefixes
	}
	if matcher.maxFileSizeBytes <= 0 {
		matcher.maxFileSizeBytes = DefaultMaxFileSizeBytes
	}

	// Load .gitignore from project root
	matcher.gitIgnore = loadIgnoreFile(filepath.Join(options.RootDir, ".gitignore"), options.RootDir)

	return matcher
}

// TracksExtension returns true if the file's extension is in the tracked set.
func (m *Matcher) TracksExtension(path string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.extensions[ext]
}

// Extensions returns the tracked extension set, sorted for display.
func (m *Matcher) Extensions() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.extensions))
	for ext := range m.extensions {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// ShouldIgnore returns true if the given path should be excluded from
// indexing. The extension check is separate; this covers exclusion rules.
func (m *Matcher) ShouldIgnore(absolutePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil {
		relativePath = absolutePath
	}
	relativePath = filepath.ToSlash(relativePath)

	// Every relative segment is checked, the basename included: a prefix of
	// "bin" excludes bin/app.cpp and binary_search.cpp alike.
	if m.matchesExcludedSegment(relativePath) {
		return true
	}

	isDir := false
	if info, err := os.Stat(absolutePath); err == nil {
		isDir = info.IsDir()
	}

	// Relative() matches against rules without requiring the file on disk.
	if m.gitIgnore != nil {
		match := m.gitIgnore.Relative(relativePath, isDir)
		if match != nil && match.Ignore() {
			return true
		}
	}

	return false
}

// ShouldIgnoreDir returns true if a directory should be skipped entirely
// during traversal.
func (m *Matcher) ShouldIgnoreDir(absolutePath string) bool {
	return m.ShouldIgnore(absolutePath)
}

// IsFileTooLarge returns true if the file exceeds the max file size limit.
func (m *Matcher) IsFileTooLarge(fileSize int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fileSize > m.maxFileSizeBytes
}

// MaxFileSizeBytes returns the configured maximum file size.
func (m *Matcher) MaxFileSizeBytes() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.maxFileSizeBytes
}

func (m *Matcher) matchesExcludedSegment(relativePath string) bool {
	if relativePath == "." {
		return false
	}
	for _, part := range strings.Split(relativePath, "/") {
		for _, prefix := range m.excludePrefixes {
			if strings.HasPrefix(part, prefix) {
				return true
			}
		}
	}
	return false
}

// Reload re-reads the .gitignore file from disk. Used when the watcher
// detects changes to it.
func (m *Matcher) Reload() {
	newGitIgnore := loadIgnoreFile(filepath.Join(m.rootDir, ".gitignore"), m.rootDir)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.gitIgnore = newGitIgnore
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses the io.Reader form so the file handle is closed promptly on Windows.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
