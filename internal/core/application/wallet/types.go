package wallet

import (
	"sync"

	"github.com/metwallet/walletd/internal/core/domain"
)

// snapshotQueue holds the latest state snapshot waiting to be persisted.
// Pushing a new snapshot replaces the pending one.
type snapshotQueue struct {
	lock    *sync.Mutex
	pending *domain.PersistedState
	notify  chan struct{}
}

func newSnapshotQueue() *snapshotQueue {
	return &snapshotQueue{
		lock:   &sync.Mutex{},
		notify: make(chan struct{}, 1),
	}
}

func (q *snapshotQueue) push(state domain.PersistedState) {
	q.lock.Lock()
	q.pending = &state
	q.lock.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *snapshotQueue) pop() (domain.PersistedState, bool) {
	q.lock.Lock()
	defer q.lock.Unlock()

	if q.pending == nil {
		return domain.PersistedState{}, false
	}
	state := *q.pending
	q.pending = nil
	return state, true
}
