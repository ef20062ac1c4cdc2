package forms

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/domain"
	log "github.com/sirupsen/logrus"
)

// Kind identifies the type of a form.
type Kind string

const (
	KindBuy         Kind = "buy"
	KindConvertCoin Kind = "convert-coin"
	KindConvertMet  Kind = "convert-met"
	KindSendCoin    Kind = "send-coin"
	KindSendMet     Kind = "send-met"
	KindPort        Kind = "port"
	KindRetryImport Kind = "retry-import"
)

var kindFeatures = map[Kind]selectors.Feature{
	KindBuy:         selectors.FeatureBuy,
	KindConvertCoin: selectors.FeatureConvert,
	KindConvertMet:  selectors.FeatureConvert,
	KindSendCoin:    selectors.FeatureSend,
	KindSendMet:     selectors.FeatureSendMet,
	KindPort:        selectors.FeaturePort,
	KindRetryImport: selectors.FeatureRetryImport,
}

var (
	// ErrUnknownKind ...
	ErrUnknownKind = errors.New("unknown form kind")
	// ErrFormNotFound ...
	ErrFormNotFound = errors.New("form not found")
	// ErrFeatureDisabled is returned when opening the form of a feature not
	// available in the current state.
	ErrFeatureDisabled = errors.New("feature disabled")
	// ErrImportNotFound is returned when retrying an import that is not
	// among the failed imports of the active chain.
	ErrImportNotFound = errors.New("failed import not found")
)

// Form is implemented by every form of this package.
type Form interface {
	OnInputChange(id, value string)
	OnMaxClick()
	Validate() Errors
	Submit(ctx context.Context, password string) (string, error)
	Reset()
	State() State
	Close()
}

// Manager keeps the open forms, each identified by a random id.
type Manager struct {
	deps Deps

	lock  sync.RWMutex
	forms map[string]Form
}

func NewManager(deps Deps) *Manager {
	return &Manager{
		deps:  deps.withDefaults(),
		forms: make(map[string]Form),
	}
}

// Open creates a form of the given kind and returns its id. burnHash
// selects the failed import to retry and is ignored by the other kinds.
func (m *Manager) Open(kind Kind, burnHash string) (string, error) {
	feature, ok := kindFeatures[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	state := m.deps.Store.State()
	if status := selectors.FeatureStatusOf(state, feature); status != selectors.StatusOK {
		reason := selectors.DisabledReason(feature, status, selectors.CoinSymbol(state))
		return "", fmt.Errorf("%w: %s", ErrFeatureDisabled, reason)
	}

	var f Form
	switch kind {
	case KindBuy:
		f = NewBuyMETForm(m.deps)
	case KindConvertCoin:
		f = NewConvertCoinToMETForm(m.deps)
	case KindConvertMet:
		f = NewConvertMETToCoinForm(m.deps)
	case KindSendCoin:
		f = NewSendCoinForm(m.deps)
	case KindSendMet:
		f = NewSendMETForm(m.deps)
	case KindPort:
		f = NewPortForm(m.deps)
	case KindRetryImport:
		data, ok := findFailedImport(state, burnHash)
		if !ok {
			return "", fmt.Errorf("%w: %s", ErrImportNotFound, burnHash)
		}
		retry := NewRetryImportForm(m.deps, data)
		retry.EstimateGas()
		f = retry
	}

	id := uuid.New().String()

	m.lock.Lock()
	m.forms[id] = f
	m.lock.Unlock()

	log.Debugf("opened %s form %s", kind, id)
	return id, nil
}

func (m *Manager) Get(id string) (Form, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	f, ok := m.forms[id]
	if !ok {
		return nil, ErrFormNotFound
	}
	return f, nil
}

// Close stops the pending estimates of the form and forgets it.
func (m *Manager) Close(id string) error {
	m.lock.Lock()
	f, ok := m.forms[id]
	delete(m.forms, id)
	m.lock.Unlock()

	if !ok {
		return ErrFormNotFound
	}
	f.Close()
	return nil
}

func (m *Manager) CloseAll() {
	m.lock.Lock()
	forms := m.forms
	m.forms = make(map[string]Form)
	m.lock.Unlock()

	for _, f := range forms {
		f.Close()
	}
}

func findFailedImport(s domain.State, burnHash string) (domain.PortOperation, bool) {
	for _, op := range selectors.FailedImports(s) {
		if op.CurrentBurnHash == burnHash {
			return op, true
		}
	}
	return domain.PortOperation{}, false
}
