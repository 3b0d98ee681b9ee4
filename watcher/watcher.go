// Package watcher follows a project tree on disk. The Watcher normalizes
// fsnotify notifications into created/modified/deleted events on a channel,
// the Debouncer collapses bursts of them, and the Monitor drives the index
// from both: deletions apply immediately, everything else waits out the
// quiet interval so editors that write in several steps cause one update.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Kind classifies a filesystem change.
type Kind int

const (
	Created Kind = iota
	Modified
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Event is one normalized filesystem change.
type Event struct {
	Kind Kind
	Path string
}

// PathFilter decides which paths produce events.
type PathFilter interface {
	ShouldIgnoreDir(absolutePath string) bool
	ShouldIgnore(absolutePath string) bool
	TracksExtension(path string) bool
}

// Watcher watches a directory tree recursively and emits normalized events.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	filter    PathFilter
	rootDir   string
	logger    *slog.Logger
	events    chan Event
}

// NewWatcher creates a recursive watcher on the given root directory. All
// non-ignored subdirectories are registered up front; directories created
// later are registered as their create events arrive.
func NewWatcher(rootDir string, filter PathFilter, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		filter:    filter,
		rootDir:   rootDir,
		logger:    logger,
		events:    make(chan Event, 64),
	}

	err = filepath.WalkDir(rootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip entries that can't be read
		}
		if !d.IsDir() {
			return nil
		}
		if path != rootDir && filter.ShouldIgnoreDir(path) {
			return filepath.SkipDir
		}
		if watchErr := fsWatcher.Add(path); watchErr != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", watchErr)
		}
		return nil
	})
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return w, nil
}

// Events returns the channel of normalized events. It is closed when Start
// returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start listens for file system events until the watcher is closed. Call
// this in a goroutine.
func (w *Watcher) Start() {
	defer close(w.events)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

// handleEvent filters and normalizes a single fsnotify event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// A new directory starts being watched; directory events are not
	// forwarded.
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if !w.filter.ShouldIgnoreDir(path) {
				if err := w.fsWatcher.Add(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	// The rules file bypasses the filters: ".git" is an excluded segment
	// prefix, which would otherwise swallow the event the monitor needs to
	// reload on.
	if filepath.Base(path) != ".gitignore" {
		if w.filter.ShouldIgnore(path) {
			return
		}
		if !w.filter.TracksExtension(path) {
			return
		}
	}

	var kind Kind
	switch {
	case event.Has(fsnotify.Create):
		kind = Created
	case event.Has(fsnotify.Write):
		kind = Modified
	case event.Has(fsnotify.Remove):
		kind = Deleted
	case event.Has(fsnotify.Rename):
		// The old path stops existing; the new path arrives as a create.
		kind = Deleted
	default:
		return
	}

	w.events <- Event{Kind: kind, Path: path}
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
