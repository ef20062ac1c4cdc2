package dbbadger

import (
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

const stateKey = "state"

type stateRecord struct {
	SavedAt int64                 `json:"savedAt"`
	State   domain.PersistedState `json:"state"`
}

type stateRepositoryImpl struct {
	db *DbManager

	lock   sync.RWMutex
	closed bool
}

// NewStateRepositoryImpl returns a repository persisting the state snapshot
// in a badger store under baseDbDir, in memory if empty.
func NewStateRepositoryImpl(
	baseDbDir string, logger badger.Logger,
) (ports.StateRepository, error) {
	db, err := NewDbManager(baseDbDir, logger)
	if err != nil {
		return nil, err
	}
	return &stateRepositoryImpl{db: db}, nil
}

func (r *stateRepositoryImpl) Get(_ context.Context) (*domain.PersistedState, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.closed {
		return nil, ErrRepositoryClosed
	}

	var record stateRecord
	if err := r.db.Store.Get(stateKey, &record); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record.State, nil
}

func (r *stateRepositoryImpl) Save(
	_ context.Context, state domain.PersistedState,
) error {
	r.lock.RLock()
	defer r.lock.RUnlock()

	if r.closed {
		return ErrRepositoryClosed
	}

	return r.db.Store.Upsert(stateKey, &stateRecord{
		SavedAt: time.Now().Unix(),
		State:   state,
	})
}

func (r *stateRepositoryImpl) Close() {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.db.Close()
}
