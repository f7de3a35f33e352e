package systems

import "time"

// Debouncer coalesces bursts of triggers into one call of fn.
// Each Schedule cancels any pending deadline and sets a new one; Poll runs fn
// once the latest deadline has passed. Time is supplied by the caller, so the
// debouncer runs on whatever clock drives the frame loop.
type Debouncer struct {
	delay    time.Duration
	fn       func()
	deadline time.Duration
	pending  bool
}

// NewDebouncer creates a debouncer that calls fn delay after the last Schedule.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Schedule (re)arms the debouncer relative to now.
func (d *Debouncer) Schedule(now time.Duration) {
	d.deadline = now + d.delay
	d.pending = true
}

// Cancel drops any pending call.
func (d *Debouncer) Cancel() {
	d.pending = false
}

// Pending reports whether a call is armed.
func (d *Debouncer) Pending() bool {
	return d.pending
}

// Poll runs fn if the deadline has passed. Reports whether fn ran.
func (d *Debouncer) Poll(now time.Duration) bool {
	if !d.pending || now < d.deadline {
		return false
	}
	d.pending = false
	d.fn()
	return true
}
