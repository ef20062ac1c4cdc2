package inmemory

import (
	"context"
	"sync"

	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
)

type stateRepositoryImpl struct {
	state *domain.PersistedState
	lock  *sync.RWMutex
}

// NewStateRepositoryImpl returns a repository keeping the state snapshot in
// memory. Nothing survives a restart.
func NewStateRepositoryImpl() ports.StateRepository {
	return &stateRepositoryImpl{
		lock: &sync.RWMutex{},
	}
}

func (r *stateRepositoryImpl) Get(_ context.Context) (*domain.PersistedState, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.state == nil {
		return nil, nil
	}
	state := r.state.Copy()
	return &state, nil
}

func (r *stateRepositoryImpl) Save(_ context.Context, state domain.PersistedState) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	s := state.Copy()
	r.state = &s
	return nil
}

func (r *stateRepositoryImpl) Close() {}
