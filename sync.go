package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/seb1232/cppindex-mcp/ignore"
	"github.com/seb1232/cppindex-mcp/index"
)

// SyncResult holds the outcome of one consistency sweep.
type SyncResult struct {
	MissingFiles  int // on disk but not indexed
	StaleFiles    int // indexed but gone from disk
	ModifiedFiles int // indexed with different bytes on disk
	Duration      time.Duration
}

// runPeriodicSync re-checks index/disk consistency at the given interval
// until stop is closed. The watcher normally keeps the index current; the
// sweep catches whatever slipped past it, such as lost fsnotify events or
// edits on a mount the watcher cannot observe.
func runPeriodicSync(
	interval time.Duration,
	rootDir string,
	store *index.Store,
	matcher *ignore.Matcher,
	logger *slog.Logger,
	stop <-chan struct{},
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("periodic sync started", "interval", interval)

	for {
		select {
		case <-stop:
			logger.Info("periodic sync stopped")
			return
		case <-ticker.C:
			result := syncOnce(rootDir, store, matcher, logger)
			discrepancies := result.MissingFiles + result.StaleFiles + result.ModifiedFiles
			if discrepancies > 0 {
				logger.Info("sync sweep complete",
					"missing", result.MissingFiles,
					"stale", result.StaleFiles,
					"modified", result.ModifiedFiles,
					"duration", result.Duration,
				)
			} else {
				logger.Debug("sync sweep complete, index is current", "duration", result.Duration)
			}
		}
	}
}

// syncOnce compares the filesystem with the index and repairs drift through
// the store's normal operations.
func syncOnce(rootDir string, store *index.Store, matcher *ignore.Matcher, logger *slog.Logger) SyncResult {
	start := time.Now()
	var result SyncResult

	// Disk pass: every file the matcher admits today, so rule changes since
	// the last scan take effect here too.
	onDisk := make(map[string]time.Time)
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
		onDisk[path] = info.ModTime()
		return nil
	})

	indexed := store.Records()
	indexedByPath := make(map[string]index.FileRecord, len(indexed))
	for _, rec := range indexed {
		indexedByPath[rec.Path] = rec
	}

	newEdges := false

	// On disk but not indexed.
	for path := range onDisk {
		if _, ok := indexedByPath[path]; ok {
			continue
		}
		if err := store.IndexFile(path); err != nil {
			logger.Debug("sync: skipped unindexed file", "path", path, "error", err)
			continue
		}
		logger.Info("sync: indexed missing file", "path", path)
		result.MissingFiles++
		newEdges = true
	}

	// Indexed but gone from disk. Remove recomputes edges itself.
	for path := range indexedByPath {
		if _, ok := onDisk[path]; ok {
			continue
		}
		if store.Remove(path) {
			logger.Info("sync: removed stale file", "path", path)
			result.StaleFiles++
		}
	}

	// Indexed with a different mtime. The hash check screens out bare
	// touches so an unchanged file does not invalidate the query cache.
	for path, modTime := range onDisk {
		rec, ok := indexedByPath[path]
		if !ok {
			continue
		}
		if modTime.Equal(rec.ModTime) {
			continue
		}
		if !store.HasChanged(path) {
			continue
		}
		if err := store.ApplyUpdate(path); err != nil {
			logger.Warn("sync: failed to update file", "path", path, "error", err)
			continue
		}
		logger.Info("sync: re-indexed modified file", "path", path)
		result.ModifiedFiles++
	}

	if newEdges {
		store.ResolveDependencies()
	}

	result.Duration = time.Since(start)
	return result
}
