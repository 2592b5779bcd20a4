package usecase

import (
	"sync"
	"time"
)

// DefaultSearchDebounce is the quiet period before a search fires
const DefaultSearchDebounce = 300 * time.Millisecond

// Debouncer delays a callback until input has been quiet for a fixed
// period. Each Trigger supersedes the pending one, so at most one timer is
// armed at a time.
type Debouncer struct {
	delay time.Duration
	fn    func(query string)

	mu    sync.Mutex
	timer *time.Timer
	query string
	seq   uint64
}

// NewDebouncer creates a debouncer that calls fn after delay
func NewDebouncer(delay time.Duration, fn func(query string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultSearchDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)arms the timer for query
func (d *Debouncer) Trigger(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.query = query
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if seq != d.seq {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fn(query)
	})
}

// Cancel disarms a pending timer
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
}

// Flush runs the pending callback now, on the calling goroutine, instead of
// waiting for the timer. It reports whether a callback was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.seq++
	query := d.query
	d.mu.Unlock()

	d.fn(query)
	return true
}

// Pending reports whether a timer is armed
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
