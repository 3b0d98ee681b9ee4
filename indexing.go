package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/seb1232/cppindex-mcp/ignore"
	"github.com/seb1232/cppindex-mcp/index"
)

// indexWorkers bounds the parallel read+extract stage of a full scan. The
// store serializes the table swap itself.
const indexWorkers = 8

// performIndexing walks the root directory and indexes every eligible file,
// then resolves dependency edges once over the whole batch. Returns the
// number of files indexed and total bytes processed.
func performIndexing(rootDir string, store *index.Store, matcher *ignore.Matcher, logger *slog.Logger) (int, int64) {
	var (
		mu           sync.Mutex
		indexedCount int
		totalSize    int64
	)

	var group errgroup.Group
	group.SetLimit(indexWorkers)

	filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != rootDir && matcher.ShouldIgnoreDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if matcher.ShouldIgnore(path) || !matcher.TracksExtension(path) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if matcher.IsFileTooLarge(info.Size()) {
			return nil
		}

		size := info.Size()
		group.Go(func() error {
			if err := store.IndexFile(path); err != nil {
				logger.Debug("skipped file", "path", path, "error", err)
				return nil
			}
			mu.Lock()
			indexedCount++
			totalSize += size
			mu.Unlock()
			return nil
		})
		return nil
	})

	group.Wait()

	// IndexFile leaves edges alone; one resolution pass covers the batch.
	store.ResolveDependencies()

	return indexedCount, totalSize
}
