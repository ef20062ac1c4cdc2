package timer

import (
	"sync"
	"time"
)

// Timer behaves like time.AfterFunc but can be paused and resumed. Pausing
// keeps track of the remaining time so that resuming does not restart the
// countdown from scratch.
type Timer struct {
	lock      sync.Mutex
	callback  func()
	remaining time.Duration
	start     time.Time
	timer     *time.Timer
	gen       uint64
	fired     bool
}

// New starts a timer that calls callback once delay has elapsed.
func New(callback func(), delay time.Duration) *Timer {
	t := &Timer{
		callback:  callback,
		remaining: delay,
	}
	t.Resume()
	return t
}

// Pause stops the countdown, keeping the remaining time.
func (t *Timer) Pause() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.timer == nil {
		return
	}
	t.timer.Stop()
	t.timer = nil
	t.remaining -= time.Since(t.start)
	if t.remaining < 0 {
		t.remaining = 0
	}
}

// Resume restarts the countdown from the remaining time. It is a no-op if
// the countdown is already in progress.
func (t *Timer) Resume() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.fired || t.timer != nil {
		return
	}
	t.gen++
	gen := t.gen
	t.start = time.Now()
	t.timer = time.AfterFunc(t.remaining, func() { t.fire(gen) })
}

// Stop cancels the timer. A stopped timer can be resumed.
func (t *Timer) Stop() {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// IsRunning returns whether the countdown is in progress.
func (t *Timer) IsRunning() bool {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.timer != nil
}

// Remaining returns the time left before the callback is called.
func (t *Timer) Remaining() time.Duration {
	t.lock.Lock()
	defer t.lock.Unlock()

	if t.timer == nil {
		return t.remaining
	}
	left := t.remaining - time.Since(t.start)
	if left < 0 {
		return 0
	}
	return left
}

func (t *Timer) fire(gen uint64) {
	t.lock.Lock()
	if t.timer == nil || t.fired || gen != t.gen {
		t.lock.Unlock()
		return
	}
	t.fired = true
	t.timer = nil
	t.remaining = 0
	t.lock.Unlock()

	t.callback()
}
