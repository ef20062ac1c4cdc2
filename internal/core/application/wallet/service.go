// Package wallet composes the store with the wallet client: it loads the
// initial state, forwards user requests to the client and persists state
// snapshots.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/metwallet/walletd/internal/core/application/forms"
	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/application/store"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/metwallet/walletd/pkg/sanitizer"
	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultRequestTimeout = 15 * time.Second
	// RefreshRate is the max number of refresh requests per second sent to
	// the client.
	RefreshRate = 5
)

var (
	// ErrMissingClient ...
	ErrMissingClient = errors.New("missing wallet client")
	// ErrMissingStore ...
	ErrMissingStore = errors.New("missing store")
	// ErrMissingRepository ...
	ErrMissingRepository = errors.New("missing state repository")
	// ErrAlreadyInitialized is returned when calling Init more than once.
	ErrAlreadyInitialized = errors.New("wallet service already initialized")
	// ErrNotInitialized ...
	ErrNotInitialized = errors.New("wallet service not initialized")
	// ErrNoActiveAddress ...
	ErrNoActiveAddress = errors.New("no active address")
)

// transientEvents do not change the persisted part of the state.
var transientEvents = map[store.EventType]bool{
	store.EventConnectivityStateChanged: true,
	store.EventConnectionStatusChanged:  true,
	store.EventSessionStarted:           true,
	store.EventRequiredDataGathered:     true,
	store.EventWalletError:              true,
}

type Service struct {
	client  ports.Client
	store   *store.Store
	repo    ports.StateRepository
	timeout time.Duration
	limiter ratelimit.Limiter

	lock        sync.Mutex
	initialized bool
	stopped     bool
	unsubscribe func()

	snapshots *snapshotQueue
	quitChan  chan struct{}
	doneChan  chan struct{}
}

// NewService returns a wallet service. Client requests time out after
// timeout, DefaultRequestTimeout if not positive.
func NewService(
	client ports.Client, st *store.Store, repo ports.StateRepository, timeout time.Duration,
) (*Service, error) {
	if client == nil {
		return nil, ErrMissingClient
	}
	if st == nil {
		return nil, ErrMissingStore
	}
	if repo == nil {
		return nil, ErrMissingRepository
	}
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Service{
		client:    client,
		store:     st,
		repo:      repo,
		timeout:   timeout,
		limiter:   ratelimit.New(RefreshRate),
		snapshots: newSnapshotQueue(),
		quitChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
	}, nil
}

func (s *Service) Store() *store.Store {
	return s.store
}

// Init waits for the client to be ready, hydrates the state with the last
// persisted snapshot and starts persisting every change.
func (s *Service) Init(ctx context.Context) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.initialized {
		return ErrAlreadyInitialized
	}

	config, err := s.client.OnInit(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize wallet client: %w", err)
	}

	persisted, err := s.repo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to read persisted state: %w", err)
	}

	ev := store.InitialStateReceived{Config: config}
	if persisted != nil {
		ev.Chains = persisted.Chains
		log.Debugf("hydrating state of %d chains", len(persisted.Chains.ByID))
	}
	if err := s.store.Dispatch(ctx, ev); err != nil {
		return fmt.Errorf("invalid initial state: %w", err)
	}

	_, s.unsubscribe = s.store.Subscribe(func(state domain.State, ev store.Event) {
		if transientEvents[ev.Type()] {
			return
		}
		s.snapshots.push(state.Persisted())
	})
	go s.listenToSnapshots()

	s.initialized = true
	log.Infof("wallet initialized, active chain %s", selectors.ActiveChain(s.store.State()))
	return nil
}

// Login submits the password to the client and starts the session.
func (s *Service) Login(ctx context.Context, password string) error {
	if err := forms.ValidatePassword(password).AsError(); err != nil {
		return err
	}
	if err := s.client.OnLoginSubmit(ctx, password); err != nil {
		return err
	}
	return s.store.Dispatch(ctx, store.SessionStarted{})
}

// CreateMnemonic returns a new recovery phrase.
func (s *Service) CreateMnemonic(ctx context.Context) (string, error) {
	return s.client.CreateMnemonic(ctx)
}

// ValidateOnboarding returns the field errors of the given onboarding data,
// again being the confirmation of the recovery phrase, if any.
func (s *Service) ValidateOnboarding(mnemonic, again, password string) forms.Errors {
	return forms.ValidateOnboarding(
		s.client, s.store.State().Config, mnemonic, again, password,
	)
}

// CompleteOnboarding creates the wallet from the given recovery phrase and
// starts the session. The phrase must be valid and the password strong
// enough for the configured entropy.
func (s *Service) CompleteOnboarding(ctx context.Context, mnemonic, password string) error {
	if err := s.ValidateOnboarding(mnemonic, "", password).AsError(); err != nil {
		return err
	}
	if err := s.client.OnOnboardingCompleted(ctx, ports.OnboardingRequest{
		Mnemonic: sanitizer.SanitizeMnemonic(mnemonic),
		Password: password,
	}); err != nil {
		return err
	}
	return s.store.Dispatch(ctx, store.SessionStarted{})
}

// ChangeActiveChain switches the active chain, that must be enabled.
func (s *Service) ChangeActiveChain(ctx context.Context, chain string) error {
	if err := s.store.Dispatch(ctx, store.ActiveChainChanged{Chain: chain}); err != nil {
		return err
	}
	log.Infof("active chain changed to %s", chain)
	return nil
}

// RefreshAllTransactions asks the client to rescan the history of the
// active address of every chain, concurrently.
func (s *Service) RefreshAllTransactions(ctx context.Context) error {
	state := s.store.State()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	for _, chain := range state.Config.EnabledChains {
		chain := chain
		address := selectors.ChainActiveAddress(state, chain)
		if address == "" {
			continue
		}
		eg.Go(func() error {
			s.limiter.Take()
			if err := s.client.RefreshAllTransactions(ctx, chain, address); err != nil {
				return fmt.Errorf("failed to refresh transactions of chain %s: %w", chain, err)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.WithError(err).Warn("transactions refresh failed")
		return err
	}
	return nil
}

// RefreshTransaction asks the client to refresh a single transaction of the
// active address.
func (s *Service) RefreshTransaction(ctx context.Context, hash string) error {
	state := s.store.State()
	address := selectors.ActiveAddress(state)
	if address == "" {
		return ErrNoActiveAddress
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.limiter.Take()
	return s.client.RefreshTransaction(ctx, selectors.ActiveChain(state), hash, address)
}

// Snapshot persists the current state right away.
func (s *Service) Snapshot(ctx context.Context) error {
	s.lock.Lock()
	initialized := s.initialized
	s.lock.Unlock()

	if !initialized {
		return ErrNotInitialized
	}
	return s.repo.Save(ctx, s.store.State().Persisted())
}

// Stop persists a last snapshot, notifies the client and releases the
// repository.
func (s *Service) Stop(ctx context.Context) error {
	s.lock.Lock()
	if s.stopped {
		s.lock.Unlock()
		return nil
	}
	s.stopped = true
	initialized := s.initialized
	s.lock.Unlock()

	if initialized {
		s.unsubscribe()
		close(s.quitChan)
		<-s.doneChan

		if err := s.repo.Save(ctx, s.store.State().Persisted()); err != nil {
			log.WithError(err).Warn("failed to persist last state snapshot")
		}
	}

	defer s.repo.Close()
	if err := s.client.OnStop(ctx); err != nil {
		return fmt.Errorf("failed to stop wallet client: %w", err)
	}
	log.Info("wallet stopped")
	return nil
}

func (s *Service) listenToSnapshots() {
	defer close(s.doneChan)

	for {
		select {
		case <-s.quitChan:
			return
		case <-s.snapshots.notify:
			state, ok := s.snapshots.pop()
			if !ok {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
			if err := s.repo.Save(ctx, state); err != nil {
				log.WithError(err).Warn("failed to persist state snapshot")
			}
			cancel()
		}
	}
}
