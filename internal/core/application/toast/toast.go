// Package toast keeps the stack of notifications shown to the user. Messages
// are grouped by category, each group being dismissed automatically once its
// timer expires.
package toast

import (
	"sync"
	"time"

	"github.com/metwallet/walletd/pkg/timer"
	log "github.com/sirupsen/logrus"
)

const (
	CategoryError   = "error"
	CategorySuccess = "success"
	CategoryInfo    = "info"

	DefaultAutoClose = 6 * time.Second
)

// Group is the list of messages of a category, in insertion order.
type Group struct {
	Category string   `json:"category"`
	Messages []string `json:"messages"`
}

// Option customizes a single Add call.
type Option func(*options)

type options struct {
	autoClose    time.Duration
	hasAutoClose bool
}

// WithAutoClose overrides the auto-close delay of the queue. A delay of 0
// makes the toast sticky.
func WithAutoClose(d time.Duration) Option {
	return func(o *options) {
		o.autoClose = d
		o.hasAutoClose = true
	}
}

// Queue is the toast stack. It is safe for concurrent use.
type Queue struct {
	autoClose time.Duration
	onChange  func([]Group)

	lock   sync.Mutex
	stack  []Group
	timers map[string]*timer.Timer
	closed bool
}

// New returns an empty queue. Toasts are dismissed after autoClose unless
// overridden, DefaultAutoClose is used if autoClose is negative. onChange,
// if not nil, receives a copy of the stack after every change.
func New(autoClose time.Duration, onChange func([]Group)) *Queue {
	if autoClose < 0 {
		autoClose = DefaultAutoClose
	}
	return &Queue{
		autoClose: autoClose,
		onChange:  onChange,
		timers:    make(map[string]*timer.Timer),
	}
}

// Add pushes message in the group of category. Duplicated messages are
// ignored. The auto-close timer is (re)started only if the group is new or
// its timer is still running, so that a paused group stays visible.
func (q *Queue) Add(category, message string, opts ...Option) {
	if category == "" || message == "" {
		return
	}
	o := options{autoClose: q.autoClose}
	for _, opt := range opts {
		opt(&o)
	}

	q.lock.Lock()
	if q.closed {
		q.lock.Unlock()
		return
	}

	idx := q.indexOf(category)
	if o.autoClose > 0 {
		current, ok := q.timers[category]
		if idx < 0 || (ok && current.IsRunning()) {
			q.startTimer(category, o.autoClose)
		}
	}

	changed := true
	if idx < 0 {
		q.stack = append(q.stack, Group{Category: category, Messages: []string{message}})
	} else if !contains(q.stack[idx].Messages, message) {
		q.stack[idx].Messages = append(q.stack[idx].Messages, message)
	} else {
		changed = false
	}
	stack := q.copyStack()
	q.lock.Unlock()

	log.Debugf("toast %s: %s", category, message)
	if changed {
		q.notify(stack)
	}
}

// startTimer must be called with the lock held.
func (q *Queue) startTimer(category string, d time.Duration) {
	if t, ok := q.timers[category]; ok {
		t.Stop()
	}
	var t *timer.Timer
	t = timer.New(func() {
		q.lock.Lock()
		current := q.timers[category]
		q.lock.Unlock()
		if current != t {
			return
		}
		q.Dismiss(category)
	}, d)
	q.timers[category] = t
}

// Dismiss removes the group of category.
func (q *Queue) Dismiss(category string) {
	q.lock.Lock()
	if t, ok := q.timers[category]; ok {
		t.Stop()
		delete(q.timers, category)
	}
	idx := q.indexOf(category)
	if idx < 0 {
		q.lock.Unlock()
		return
	}
	q.stack = append(q.stack[:idx], q.stack[idx+1:]...)
	stack := q.copyStack()
	q.lock.Unlock()

	q.notify(stack)
}

// Pause stops the auto-close timer of category, keeping the remaining time.
func (q *Queue) Pause(category string) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if t, ok := q.timers[category]; ok {
		t.Pause()
	}
}

// Resume restarts the auto-close timer of category from the remaining time.
func (q *Queue) Resume(category string) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.closed {
		return
	}
	if t, ok := q.timers[category]; ok {
		t.Resume()
	}
}

// Stack returns a copy of the groups, in insertion order.
func (q *Queue) Stack() []Group {
	q.lock.Lock()
	defer q.lock.Unlock()

	return q.copyStack()
}

// Close stops every timer. Later calls to Add are ignored.
func (q *Queue) Close() {
	q.lock.Lock()
	defer q.lock.Unlock()

	for category, t := range q.timers {
		t.Stop()
		delete(q.timers, category)
	}
	q.closed = true
}

func (q *Queue) indexOf(category string) int {
	for i, g := range q.stack {
		if g.Category == category {
			return i
		}
	}
	return -1
}

func (q *Queue) copyStack() []Group {
	stack := make([]Group, 0, len(q.stack))
	for _, g := range q.stack {
		stack = append(stack, Group{
			Category: g.Category,
			Messages: append([]string(nil), g.Messages...),
		})
	}
	return stack
}

func (q *Queue) notify(stack []Group) {
	if q.onChange != nil {
		q.onChange(stack)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
