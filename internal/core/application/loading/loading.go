// Package loading tracks the data required before the wallet can be used.
// Tasks are checked off at a fixed cadence, at most one per tick, so that
// fast loads still show every step.
package loading

import (
	"context"
	"sync"
	"time"

	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/application/store"
	"github.com/metwallet/walletd/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultCadence = 200 * time.Millisecond
	CompleteDelay  = 20 * time.Millisecond
)

// Checklist tells which of the required data has been checked off.
type Checklist struct {
	HasBlockHeight bool `json:"hasBlockHeight"`
	HasCoinRate    bool `json:"hasCoinRate"`
	HasCoinBalance bool `json:"hasCoinBalance"`
	HasMetBalance  bool `json:"hasMetBalance"`
}

func (c Checklist) IsComplete() bool {
	return c.HasBlockHeight && c.HasCoinRate && c.HasCoinBalance && c.HasMetBalance
}

// Dispatcher is the store the checklist reads from and notifies once
// complete.
type Dispatcher interface {
	State() domain.State
	Dispatch(ctx context.Context, ev store.Event) error
}

type Service struct {
	dispatcher Dispatcher
	cadence    time.Duration

	lock      sync.RWMutex
	checklist Checklist
	running   bool

	quitChan chan struct{}
	doneChan chan struct{}
}

// NewService returns a checklist polling dispatcher every cadence,
// DefaultCadence if not positive.
func NewService(dispatcher Dispatcher, cadence time.Duration) *Service {
	if cadence <= 0 {
		cadence = DefaultCadence
	}
	return &Service{
		dispatcher: dispatcher,
		cadence:    cadence,
		quitChan:   make(chan struct{}, 1),
		doneChan:   make(chan struct{}),
	}
}

// Start polls the store in background until every task is checked off or
// Stop is called.
func (s *Service) Start() {
	s.lock.Lock()
	if s.running {
		s.lock.Unlock()
		return
	}
	s.running = true
	s.lock.Unlock()

	go s.start()
}

// Stop interrupts the polling.
func (s *Service) Stop() {
	select {
	case s.quitChan <- struct{}{}:
	default:
	}
}

// Done is closed once the required-data-gathered event has been
// dispatched.
func (s *Service) Done() <-chan struct{} {
	return s.doneChan
}

func (s *Service) Checklist() Checklist {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.checklist
}

func (s *Service) start() {
	ticker := time.NewTicker(s.cadence)
	defer ticker.Stop()

	for {
		select {
		case <-s.quitChan:
			log.Debug("loading checklist stopped")
			return
		case <-ticker.C:
			if !s.checkTasks() {
				continue
			}
			ticker.Stop()
			select {
			case <-s.quitChan:
				return
			case <-time.After(CompleteDelay):
			}
			if err := s.dispatcher.Dispatch(
				context.Background(), store.RequiredDataGathered{},
			); err != nil {
				log.WithError(err).Warn("failed to dispatch required data gathered")
				return
			}
			log.Debug("required data gathered")
			close(s.doneChan)
			return
		}
	}
}

// checkTasks checks off the first available task not yet done and returns
// whether the checklist is complete.
func (s *Service) checkTasks() bool {
	state := s.dispatcher.State()

	s.lock.Lock()
	defer s.lock.Unlock()

	c := &s.checklist
	switch {
	case !c.HasBlockHeight && selectors.BlockHeight(state) > -1:
		c.HasBlockHeight = true
	case !c.HasCoinRate && selectors.CoinRate(state) != nil:
		c.HasCoinRate = true
	case !c.HasCoinBalance && selectors.CoinBalanceWei(state) != nil:
		c.HasCoinBalance = true
	case !c.HasMetBalance && selectors.MetBalanceWei(state) != nil:
		c.HasMetBalance = true
	default:
		return c.IsComplete()
	}
	log.Debugf("loading checklist: %+v", *c)
	return c.IsComplete()
}
