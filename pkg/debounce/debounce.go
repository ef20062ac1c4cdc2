// Package debounce collapses bursts of calls into a single delayed call and
// tags each call with a monotonically increasing sequence number, so that
// results of slow calls can be discarded once a newer result was applied.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs at most one task per cool-down window.
type Debouncer struct {
	delay time.Duration

	lock    sync.Mutex
	timer   *time.Timer
	issued  uint64
	applied uint64
	stopped bool
}

// New returns a debouncer waiting delay after the last trigger before running
// the task.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules task, replacing any task scheduled and not yet started.
// The task receives the sequence number to pass to Apply along with its
// result.
func (d *Debouncer) Trigger(task func(seq uint64)) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.lock.Lock()
		if d.stopped {
			d.lock.Unlock()
			return
		}
		d.issued++
		seq := d.issued
		d.timer = nil
		d.lock.Unlock()

		task(seq)
	})
}

// Apply runs fn only if no result with a greater sequence number has been
// applied yet, and reports whether fn ran.
func (d *Debouncer) Apply(seq uint64, fn func()) bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.stopped || seq <= d.applied {
		return false
	}
	d.applied = seq
	fn()
	return true
}

// Invalidate discards the results of every task already started.
func (d *Debouncer) Invalidate() {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.applied = d.issued
}

// Pending returns whether a task is scheduled and not yet started.
func (d *Debouncer) Pending() bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.timer != nil
}

func (d *Debouncer) Stopped() bool {
	d.lock.Lock()
	defer d.lock.Unlock()

	return d.stopped
}

// Stop cancels the scheduled task and makes every later call a no-op.
func (d *Debouncer) Stop() {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.stopped = true
}
