package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metwallet/walletd/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

// Listener is notified after every successful dispatch with a copy of the
// new state and the applied event. Listeners run in the dispatching
// goroutine and must not dispatch synchronously.
type Listener func(state domain.State, ev Event)

type subscription struct {
	id       string
	listener Listener
}

// Store owns the application state. Events are applied one at a time,
// readers always get deep copies.
type Store struct {
	dispatchLock sync.Mutex

	lock  sync.RWMutex
	state domain.State

	subsLock      sync.RWMutex
	subscriptions []subscription

	now func() time.Time
}

// NewStore returns a store holding the state preceding the initial state.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock returns a store using now to timestamp status updates.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		state: domain.NewState(),
		now:   now,
	}
}

// Dispatch applies ev to the state and notifies the listeners. An error is
// returned if ev violates an invariant, the state is left untouched.
func (s *Store) Dispatch(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.dispatchLock.Lock()
	defer s.dispatchLock.Unlock()

	s.lock.Lock()
	if err := Reduce(&s.state, ev, s.now()); err != nil {
		s.lock.Unlock()
		log.WithError(err).Warnf("failed to apply event %s", ev.Type())
		return err
	}
	s.lock.Unlock()

	log.Debugf("applied event %s", ev.Type())

	subs := s.listSubscriptions()
	if len(subs) <= 0 {
		return nil
	}
	state := s.State()
	for _, sub := range subs {
		sub.listener(state, ev)
	}
	return nil
}

// State returns a deep copy of the current state.
func (s *Store) State() domain.State {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.state.Copy()
}

// Subscribe registers listener and returns its id along with a function to
// unsubscribe it.
func (s *Store) Subscribe(listener Listener) (string, func()) {
	s.subsLock.Lock()
	defer s.subsLock.Unlock()

	id := uuid.New().String()
	s.subscriptions = append(s.subscriptions, subscription{id, listener})
	return id, func() { s.Unsubscribe(id) }
}

// Unsubscribe removes the listener with the given id, if any.
func (s *Store) Unsubscribe(id string) {
	s.subsLock.Lock()
	defer s.subsLock.Unlock()

	for i, sub := range s.subscriptions {
		if sub.id == id {
			s.subscriptions = append(s.subscriptions[:i], s.subscriptions[i+1:]...)
			return
		}
	}
}

func (s *Store) listSubscriptions() []subscription {
	s.subsLock.RLock()
	defer s.subsLock.RUnlock()

	return append([]subscription(nil), s.subscriptions...)
}
