package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/seb1232/cppindex-mcp/extract"
	"github.com/seb1232/cppindex-mcp/ignore"
	"github.com/seb1232/cppindex-mcp/index"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestStore builds an empty store over a temp root with default rules.
func newTestStore(t *testing.T) (string, *index.Store, *ignore.Matcher) {
	t.Helper()
	root := t.TempDir()
	matcher := ignore.NewMatcher(ignore.MatcherOptions{RootDir: root})
	store, err := index.NewStore(root, matcher, extract.NewRegexExtractor(), testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return root, store, matcher
}

func writeFile(t *testing.T, root string, rel string, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

func waitUntil(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func Test_syncOnce_IndexesMissingFile(t *testing.T) {
	root, store, matcher := newTestStore(t)
	writeFile(t, root, "main.cpp", "int main() { return 0; }\n")

	result := syncOnce(root, store, matcher, testLogger())

	if result.MissingFiles != 1 {
		t.Errorf("MissingFiles = %d, want 1", result.MissingFiles)
	}
	if result.StaleFiles != 0 || result.ModifiedFiles != 0 {
		t.Errorf("unexpected stale/modified counts: %+v", result)
	}
	if !store.Known("main.cpp") {
		t.Error("main.cpp not indexed after sweep")
	}
}

func Test_syncOnce_RemovesStaleFile(t *testing.T) {
	root, store, matcher := newTestStore(t)
	path := writeFile(t, root, "util.cpp", "int helper() { return 1; }\n")
	if err := store.IndexFile(path); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}

	os.Remove(path)

	result := syncOnce(root, store, matcher, testLogger())

	if result.StaleFiles != 1 {
		t.Errorf("StaleFiles = %d, want 1", result.StaleFiles)
	}
	if store.Known("util.cpp") {
		t.Error("util.cpp still indexed after sweep")
	}
}

func Test_syncOnce_ReindexesModifiedFile(t *testing.T) {
	root, store, matcher := newTestStore(t)
	path := writeFile(t, root, "main.cpp", "int main() { return 0; }\n")
	if err := store.IndexFile(path); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}

	writeFile(t, root, "main.cpp", "int main() { return 42; }\n")
	future := time.Now().Add(time.Hour)
	os.Chtimes(path, future, future)

	result := syncOnce(root, store, matcher, testLogger())

	if result.ModifiedFiles != 1 {
		t.Errorf("ModifiedFiles = %d, want 1", result.ModifiedFiles)
	}
	content, err := store.Content("main.cpp")
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if content != "int main() { return 42; }\n" {
		t.Errorf("indexed content not refreshed: %q", content)
	}
}

func Test_syncOnce_SkipsTouchedUnchangedFile(t *testing.T) {
	root, store, matcher := newTestStore(t)
	path := writeFile(t, root, "main.cpp", "int main() { return 0; }\n")
	if err := store.IndexFile(path); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}

	// New mtime, same bytes.
	future := time.Now().Add(time.Hour)
	os.Chtimes(path, future, future)

	generation := store.Generation()
	result := syncOnce(root, store, matcher, testLogger())

	if result.ModifiedFiles != 0 {
		t.Errorf("ModifiedFiles = %d, want 0", result.ModifiedFiles)
	}
	if store.Generation() != generation {
		t.Error("sweep bumped the generation for an unchanged file")
	}
}

func Test_syncOnce_CleanTreeReportsNothing(t *testing.T) {
	root, store, matcher := newTestStore(t)
	path := writeFile(t, root, "main.cpp", "int main() { return 0; }\n")
	if err := store.IndexFile(path); err != nil {
		t.Fatalf("IndexFile: %v", err)
	}

	result := syncOnce(root, store, matcher, testLogger())

	if result.MissingFiles != 0 || result.StaleFiles != 0 || result.ModifiedFiles != 0 {
		t.Errorf("expected clean sweep, got %+v", result)
	}
	if result.Duration == 0 {
		t.Error("Duration not recorded")
	}
}

func Test_syncOnce_HonorsFilters(t *testing.T) {
	root, store, matcher := newTestStore(t)
	writeFile(t, root, "main.cpp", "int main() { return 0; }\n")
	writeFile(t, root, "notes.txt", "untracked extension\n")
	writeFile(t, root, "build/generated.cpp", "int generated() { return 0; }\n")

	result := syncOnce(root, store, matcher, testLogger())

	if result.MissingFiles != 1 {
		t.Errorf("MissingFiles = %d, want 1", result.MissingFiles)
	}
	if store.Known("notes.txt") {
		t.Error("untracked extension indexed")
	}
	if store.Known("build/generated.cpp") {
		t.Error("excluded directory indexed")
	}
}

func Test_syncOnce_SkipsBinaryContent(t *testing.T) {
	root, store, matcher := newTestStore(t)
	path := filepath.Join(root, "blob.cpp")
	if err := os.WriteFile(path, []byte{0x7F, 0x45, 0x4C, 0x46, 0x00, 0x01}, 0644); err != nil {
		t.Fatal(err)
	}

	result := syncOnce(root, store, matcher, testLogger())

	if result.MissingFiles != 0 {
		t.Errorf("MissingFiles = %d, want 0 (binary skipped)", result.MissingFiles)
	}
	if store.Known("blob.cpp") {
		t.Error("binary file indexed")
	}
}

func Test_syncOnce_SkipsTooLargeFiles(t *testing.T) {
	root := t.TempDir()
	matcher := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:          root,
		MaxFileSizeBytes: 64,
	})
	store, err := index.NewStore(root, matcher, extract.NewRegexExtractor(), testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	writeFile(t, root, "small.cpp", "int s() { return 0; }\n")
	large := make([]byte, 200)
	for i := range large {
		large[i] = 'x'
	}
	os.WriteFile(filepath.Join(root, "large.cpp"), large, 0644)

	result := syncOnce(root, store, matcher, testLogger())

	if result.MissingFiles != 1 {
		t.Errorf("MissingFiles = %d, want 1 (small.cpp only)", result.MissingFiles)
	}
	if store.Known("large.cpp") {
		t.Error("oversized file indexed")
	}
}

func Test_syncOnce_ResolvesNewEdges(t *testing.T) {
	root, store, matcher := newTestStore(t)
	writeFile(t, root, "a.h", "int shared();\n")
	appPath := writeFile(t, root, "b.cpp", "#include \"a.h\"\n\nint main() { return shared(); }\n")

	result := syncOnce(root, store, matcher, testLogger())

	if result.MissingFiles != 2 {
		t.Fatalf("MissingFiles = %d, want 2", result.MissingFiles)
	}
	deps := store.DependenciesOf(appPath)
	if len(deps) != 1 || deps[0] != filepath.Join(root, "a.h") {
		t.Errorf("DependenciesOf(b.cpp) = %v, want [a.h]", deps)
	}
}

func Test_runPeriodicSync_RepairsDrift(t *testing.T) {
	root, store, matcher := newTestStore(t)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		runPeriodicSync(50*time.Millisecond, root, store, matcher, testLogger(), stop)
		close(done)
	}()
	defer func() {
		close(stop)
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("runPeriodicSync did not stop")
		}
	}()

	// Appears behind the sweep's back; the next tick should pick it up.
	writeFile(t, root, "late.cpp", "int late() { return 0; }\n")

	waitUntil(t, 2*time.Second, "late.cpp to be indexed", func() bool {
		return store.Known("late.cpp")
	})
}

func Test_runPeriodicSync_StopsOnChannelClose(t *testing.T) {
	root, store, matcher := newTestStore(t)

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		runPeriodicSync(time.Second, root, store, matcher, testLogger(), stop)
		close(done)
	}()

	close(stop)

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("runPeriodicSync did not stop within 3 seconds")
	}
}
