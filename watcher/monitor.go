package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Index is the slice of the store the monitor drives.
type Index interface {
	HasChanged(path string) bool
	ApplyUpdate(path string) error
	Remove(path string) bool
}

// RulesReloader re-reads ignore rules when the rules file changes.
type RulesReloader interface {
	Reload()
}

// Monitor is the single consumer between the watcher and the index. It
// owns the debouncer: create and modify events wait out the quiet interval
// and are applied from the latest on-disk state, deletions are applied
// immediately and cancel any pending update for the same path.
type Monitor struct {
	watcher   *Watcher
	debouncer *Debouncer
	index     Index
	reloader  RulesReloader
	logger    *slog.Logger
	done      chan struct{}
}

// NewMonitor creates a monitor consuming the given watcher.
func NewMonitor(w *Watcher, index Index, reloader RulesReloader, debounce time.Duration, logger *slog.Logger) *Monitor {
	return &Monitor{
		watcher:   w,
		debouncer: NewDebouncer(debounce),
		index:     index,
		reloader:  reloader,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Run consumes events and debounced batches until the watcher's event
// channel closes, then drains the debouncer and returns. Call this in a
// goroutine; close the watcher to stop it.
func (m *Monitor) Run() {
	defer close(m.done)

	events := m.watcher.Events()
	batches := m.debouncer.Output()

	for events != nil || batches != nil {
		select {
		case event, ok := <-events:
			if !ok {
				events = nil
				m.debouncer.Close()
				continue
			}
			m.handleEvent(event)

		case batch, ok := <-batches:
			if !ok {
				batches = nil
				continue
			}
			m.applyBatch(batch)
		}
	}
}

// Done is closed once Run has drained and returned.
func (m *Monitor) Done() <-chan struct{} {
	return m.done
}

func (m *Monitor) handleEvent(event Event) {
	if filepath.Base(event.Path) == ".gitignore" {
		m.reloader.Reload()
		m.logger.Info("reloaded ignore rules", "trigger", event.Path)
		return
	}

	if event.Kind == Deleted {
		m.debouncer.Drop(event.Path)
		if m.index.Remove(event.Path) {
			m.logger.Debug("removed from index", "path", event.Path)
		}
		return
	}

	m.debouncer.Add(event)
}

func (m *Monitor) applyBatch(batch []Event) {
	for _, event := range batch {
		info, err := os.Stat(event.Path)
		if err != nil {
			// Vanished between the event and the window closing.
			if m.index.Remove(event.Path) {
				m.logger.Debug("removed vanished file", "path", event.Path)
			}
			continue
		}
		if info.IsDir() {
			continue
		}
		if !m.index.HasChanged(event.Path) {
			continue
		}
		if err := m.index.ApplyUpdate(event.Path); err != nil {
			m.logger.Warn("index update failed", "path", event.Path, "error", err)
			continue
		}
		m.logger.Debug("updated index", "path", event.Path, "kind", event.Kind.String())
	}
}
