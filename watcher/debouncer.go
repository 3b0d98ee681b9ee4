package watcher

import (
	"sync"
	"time"
)

// Debouncer collects events and emits them as one batch after a quiet
// interval. Multiple events for the same path within a window collapse into
// the latest one; the batch reflects on-disk state at the moment the window
// closes, not at the first event of the burst.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	pending  map[string]Event
	timer    *time.Timer
	output   chan []Event
	closed   bool
}

// NewDebouncer creates a debouncer with the given quiet interval.
func NewDebouncer(interval time.Duration) *Debouncer {
	return &Debouncer{
		interval: interval,
		pending:  make(map[string]Event),
		output:   make(chan []Event, 16),
	}
}

// Output returns the channel that receives batched events. It is closed by
// Close.
func (d *Debouncer) Output() <-chan []Event {
	return d.output
}

// Add records an event, replacing any pending event for the same path, and
// restarts the quiet timer.
func (d *Debouncer) Add(event Event) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.pending[event.Path] = event

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.Flush)
}

// Drop discards any pending event for the path. Used when the file is
// deleted mid-burst so the stale update never fires.
func (d *Debouncer) Drop(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.pending, path)
}

// Flush emits the pending batch without waiting out the quiet interval.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushLocked()
}

func (d *Debouncer) flushLocked() {
	if d.closed || len(d.pending) == 0 {
		return
	}

	batch := make([]Event, 0, len(d.pending))
	for _, event := range d.pending {
		batch = append(batch, event)
	}
	d.pending = make(map[string]Event)
	d.output <- batch
}

// Close flushes any pending events, stops the timer, and closes the output
// channel so a draining consumer terminates.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.flushLocked()
	d.closed = true
	close(d.output)
}
