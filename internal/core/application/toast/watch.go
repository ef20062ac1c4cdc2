package toast

import (
	"sync"
	"time"

	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/application/store"
	"github.com/metwallet/walletd/internal/core/domain"
)

const (
	ErrorAutoClose    = 15 * time.Second
	SyncFailedMessage = "Could not sync transactions/events"
)

// StateSource is the store the queue watches.
type StateSource interface {
	State() domain.State
	Subscribe(listener store.Listener) (string, func())
}

// Watch toasts every new wallet error and every transition of the active
// chain transactions sync to failed. It returns the function to stop
// watching.
func (q *Queue) Watch(source StateSource) func() {
	var (
		lock       sync.Mutex
		s          = source.State()
		lastError  = selectors.LastError(s)
		syncStatus = selectors.TxSyncStatus(s)
	)

	_, unsubscribe := source.Subscribe(func(s domain.State, _ store.Event) {
		newError, newStatus := selectors.LastError(s), selectors.TxSyncStatus(s)

		lock.Lock()
		prevError, prevStatus := lastError, syncStatus
		lastError, syncStatus = newError, newStatus
		lock.Unlock()

		if newError != "" && newError != prevError {
			q.Add(CategoryError, newError, WithAutoClose(ErrorAutoClose))
		}
		if newStatus == domain.SyncStatusFailed && newStatus != prevStatus {
			q.Add(CategoryError, SyncFailedMessage)
		}
	})
	return unsubscribe
}
