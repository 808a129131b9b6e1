package watch

import (
	"sync"
	"time"
)

// debouncer coalesces a burst of triggers into one callback, invoked
// once the window passes without a new trigger. The callback receives
// the number of triggers it absorbed.
type debouncer struct {
	window time.Duration
	fire   func(coalesced int)

	mu      sync.Mutex
	pending int
	timer   *time.Timer
}

func newDebouncer(window time.Duration, fire func(coalesced int)) *debouncer {
	return &debouncer{window: window, fire: fire}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending++
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *debouncer) flush() {
	d.mu.Lock()
	n := d.pending
	d.pending = 0
	d.mu.Unlock()

	if n > 0 {
		d.fire(n)
	}
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = 0
}
