package listing

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultSearchDelay is the pause after the last keystroke before a search
// runs.
const DefaultSearchDelay = 300 * time.Millisecond

// Debouncer runs only the last of a burst of calls, delay after the burst
// ends. Each call bumps a generation; a call that fires after being
// superseded is dropped.
type Debouncer struct {
	delay      time.Duration
	generation atomic.Uint64

	mu    sync.Mutex
	timer *time.Timer
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultSearchDelay
	}
	return &Debouncer{delay: delay}
}

// Call schedules fn and cancels any call still waiting.
func (d *Debouncer) Call(fn func()) {
	gen := d.generation.Add(1)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		if d.generation.Load() != gen {
			return
		}
		fn()
	})
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.generation.Add(1)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Generation returns the id of the most recent call. Work started from a
// call can compare against it to learn whether it is still current.
func (d *Debouncer) Generation() uint64 {
	return d.generation.Load()
}
