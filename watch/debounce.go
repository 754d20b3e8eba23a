package watch

import (
	"sort"
	"sync"
	"time"
)

// Change is a batched file system change under the scan root.
type Change struct {
	Path string
	Op   ChangeOp
}

// ChangeOp is the kind of change observed.
type ChangeOp int

const (
	OpCreate ChangeOp = iota
	OpWrite
	OpRemove
	OpRename
)

// debouncer collapses bursts of changes into one batch per quiet period.
// Editors commonly emit several events per save; the TUI only needs one
// refresh. Batches come out sorted by path, so identical change sets
// always produce identical batches.
type debouncer struct {
	interval time.Duration
	output   chan []Change

	mu      sync.Mutex
	pending map[string]Change
	timer   *time.Timer
	stopped bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{
		interval: interval,
		pending:  make(map[string]Change),
		output:   make(chan []Change, 16),
	}
}

// add records a change and restarts the quiet-period timer. A later op
// for the same path replaces the earlier one within the window.
func (d *debouncer) add(path string, op ChangeOp) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = Change{Path: path, Op: op}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, d.flush)
}

// flush snapshots the window under the lock and delivers it outside the
// lock, so a slow consumer never stalls concurrent adds.
func (d *debouncer) flush() {
	batch := d.take()
	if batch == nil {
		return
	}
	select {
	case d.output <- batch:
	default:
		// A slow consumer drops the batch; the next change re-triggers.
	}
}

// take drains the pending window into a path-sorted batch, or nil when
// the window is empty or the debouncer has stopped.
func (d *debouncer) take() []Change {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || len(d.pending) == 0 {
		return nil
	}
	batch := make([]Change, 0, len(d.pending))
	for _, change := range d.pending {
		batch = append(batch, change)
	}
	d.pending = make(map[string]Change)

	sort.Slice(batch, func(i, j int) bool {
		return batch[i].Path < batch[j].Path
	})
	return batch
}

// stop cancels any pending flush; no batch is delivered after stop
// returns, and further adds are ignored.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
}
