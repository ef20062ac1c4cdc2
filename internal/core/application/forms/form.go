// Package forms implements the view-models of the wallet forms: buy in
// auction, convert, send, port and retry import. Every form keeps its own
// field values and errors, estimates gas and returns through debounced
// client calls and delegates the submission to the client.
package forms

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/metwallet/walletd/pkg/circuitbreaker"
	"github.com/metwallet/walletd/pkg/debounce"
	"github.com/metwallet/walletd/pkg/sanitizer"
	"github.com/metwallet/walletd/pkg/units"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const (
	DefaultEstimateDelay  = 500 * time.Millisecond
	DefaultRequestTimeout = 15 * time.Second
)

const (
	FieldCoinAmount  = "coinAmount"
	FieldUSDAmount   = "usdAmount"
	FieldMetAmount   = "metAmount"
	FieldToAddress   = "toAddress"
	FieldGasPrice    = "gasPrice"
	FieldGasLimit    = "gasLimit"
	FieldUseMinimum  = "useMinimum"
	FieldEstimate    = "estimate"
	FieldRate        = "rate"
	FieldFee         = "fee"
	FieldDestination = "destinationChain"
	FieldPassword    = "password"

	FieldMnemonic      = "mnemonic"
	FieldMnemonicAgain = "mnemonicAgain"
)

var (
	// ErrInvalidForm is returned when submitting a form that does not pass
	// validation.
	ErrInvalidForm = errors.New("form has validation errors")
	// ErrInvalidFields is wrapped by ValidationError.
	ErrInvalidFields = errors.New("invalid fields")
	// ErrNoActiveAddress ...
	ErrNoActiveAddress = errors.New("no active address")
)

// Status is the lifecycle step of a form.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusEditing    Status = "editing"
	StatusEstimating Status = "estimating"
	StatusValidated  Status = "validated"
	StatusSubmitted  Status = "submitted"
)

// StateReader gives access to the current application state.
type StateReader interface {
	State() domain.State
}

// Deps are the collaborators shared by every form.
type Deps struct {
	Client ports.Client
	Store  StateReader
	// Breaker guards every estimation call, a new one is created if nil.
	Breaker        *gobreaker.CircuitBreaker
	EstimateDelay  time.Duration
	RequestTimeout time.Duration
}

func (d Deps) withDefaults() Deps {
	if d.Breaker == nil {
		d.Breaker = circuitbreaker.NewCircuitBreaker("forms")
	}
	if d.EstimateDelay <= 0 {
		d.EstimateDelay = DefaultEstimateDelay
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = DefaultRequestTimeout
	}
	return d
}

// State is a snapshot of a form.
type State struct {
	Values           map[string]string `json:"values"`
	Errors           Errors            `json:"errors"`
	GasEstimateError bool              `json:"gasEstimateError"`
	EstimateError    string            `json:"estimateError,omitempty"`
	Status           Status            `json:"status"`
}

// Value returns the value of the given field.
func (s State) Value(id string) string {
	return s.Values[id]
}

// form holds the behavior shared by every form. Values are always stored
// sanitized.
type form struct {
	deps Deps

	gasDebouncer      *debounce.Debouncer
	estimateDebouncer *debounce.Debouncer

	initial func(domain.State) map[string]string

	lock             sync.RWMutex
	values           map[string]string
	errors           Errors
	gasEstimateError bool
	estimateError    string
	status           Status
	gas              tracker
	estimate         tracker
}

func newForm(deps Deps, initial func(domain.State) map[string]string) *form {
	deps = deps.withDefaults()
	f := &form{
		deps:              deps,
		gasDebouncer:      debounce.New(deps.EstimateDelay),
		estimateDebouncer: debounce.New(deps.EstimateDelay),
		initial:           initial,
	}
	f.Reset()
	return f
}

// Reset restores the initial values of the form, from the current state.
// Estimates in flight are discarded.
func (f *form) Reset() {
	f.gasDebouncer.Invalidate()
	f.estimateDebouncer.Invalidate()
	initial := f.initial(f.deps.Store.State())

	f.lock.Lock()
	defer f.lock.Unlock()

	f.values = initial
	f.errors = Errors{}
	f.gasEstimateError = false
	f.estimateError = ""
	f.status = StatusIdle
	f.gas.done = f.gas.triggers
	f.estimate.done = f.estimate.triggers
}

// State returns a copy of the form state.
func (f *form) State() State {
	f.lock.RLock()
	defer f.lock.RUnlock()

	values := make(map[string]string, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	return State{
		Values:           values,
		Errors:           f.errors.copy(),
		GasEstimateError: f.gasEstimateError,
		EstimateError:    f.estimateError,
		Status:           f.status,
	}
}

func (f *form) value(id string) string {
	f.lock.RLock()
	defer f.lock.RUnlock()

	return f.values[id]
}

// setInput stores the sanitized value of field id and clears its error.
// Coin and USD amounts are kept in sync when syncAmounts is set.
func (f *form) setInput(id, value string, syncAmounts bool) {
	var rate *float64
	if syncAmounts {
		rate = selectors.CoinRate(f.deps.Store.State())
	}

	f.lock.Lock()
	defer f.lock.Unlock()

	if syncAmounts {
		SyncAmounts(f.values, rate, id, value)
	}
	if id == FieldGasLimit {
		f.gasEstimateError = false
	}
	delete(f.errors, id)
	f.values[id] = sanitizer.SanitizeInput(value)
	if f.status != StatusEstimating {
		f.status = StatusEditing
	}
}

// setErrors records the result of a validation and returns whether the form
// is valid.
func (f *form) setErrors(errs Errors) bool {
	f.lock.Lock()
	defer f.lock.Unlock()

	if len(errs) > 0 {
		f.errors = errs
		f.status = StatusEditing
		return false
	}
	f.errors = Errors{}
	f.status = StatusValidated
	return true
}

func (f *form) setSubmitted() {
	f.lock.Lock()
	defer f.lock.Unlock()

	f.status = StatusSubmitted
}

// submitFunc sends the transaction built from the form values and returns
// its hash.
type submitFunc func(ctx context.Context, s domain.State, values map[string]string, params ports.TxParams) (string, error)

// submit validates the form along with the password and delegates the
// submission to send.
func (f *form) submit(
	ctx context.Context, name, password string, validate func() Errors, send submitFunc,
) (string, error) {
	errs := validate().merge(ValidatePassword(password))
	if !f.setErrors(errs) {
		return "", ErrInvalidForm
	}

	s := f.deps.Store.State()
	params, err := f.txParams(s, password)
	if err != nil {
		return "", err
	}
	hash, err := send(ctx, s, f.State().Values, params)
	if err != nil {
		log.WithError(err).Warnf("%s: submission failed", name)
		return "", err
	}

	f.setSubmitted()
	log.Infof("%s: submitted transaction %s", name, hash)
	return hash, nil
}

// tracker counts the estimates scheduled and completed, a form is
// estimating while they differ.
type tracker struct {
	triggers uint64
	done     uint64
}

func (t tracker) busy() bool {
	return t.triggers != t.done
}

func (f *form) updateStatus() {
	if f.status == StatusEstimating && !f.gas.busy() && !f.estimate.busy() {
		f.status = StatusEditing
	}
}

// estimateCall is the client call estimating something given the current
// form values. ok is false if the values do not allow an estimate.
type estimateCall[T any] func(values map[string]string) (call func(context.Context) (T, error), ok bool)

// schedule debounces an estimate through d. Only the result of the latest
// call is applied: apply runs with the form locked, ok being false when the
// values did not allow the estimate. Client calls go through the circuit
// breaker.
func schedule[T any](
	f *form, d *debounce.Debouncer, tr *tracker, name string,
	prepare estimateCall[T], apply func(res T, err error, ok bool),
) {
	if d.Stopped() {
		return
	}

	f.lock.Lock()
	tr.triggers++
	f.status = StatusEstimating
	f.lock.Unlock()

	d.Trigger(func(seq uint64) {
		f.lock.RLock()
		trigger := tr.triggers
		f.lock.RUnlock()

		defer func() {
			f.lock.Lock()
			defer f.lock.Unlock()
			if trigger > tr.done {
				tr.done = trigger
			}
			f.updateStatus()
		}()

		call, ok := prepare(f.State().Values)
		if !ok {
			d.Apply(seq, func() {
				f.lock.Lock()
				defer f.lock.Unlock()
				var zero T
				apply(zero, nil, false)
			})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), f.deps.RequestTimeout)
		defer cancel()

		res, err := circuitbreaker.Execute(f.deps.Breaker, func() (T, error) {
			return call(ctx)
		})
		if err != nil {
			log.WithError(err).Debugf("%s: estimate failed", name)
		}
		applied := d.Apply(seq, func() {
			f.lock.Lock()
			defer f.lock.Unlock()
			apply(res, err, true)
		})
		if !applied {
			log.Debugf("%s: discarded stale estimate %d", name, seq)
		}
	})
}

// scheduleGasEstimate debounces a gas limit estimate. Failures only set the
// gas estimate error flag.
func (f *form) scheduleGasEstimate(name string, prepare estimateCall[uint64]) {
	schedule(f, f.gasDebouncer, &f.gas, name, prepare, func(gasLimit uint64, err error, ok bool) {
		if !ok {
			return
		}
		if err != nil {
			f.gasEstimateError = true
			return
		}
		f.gasEstimateError = false
		f.values[FieldGasLimit] = strconv.FormatUint(gasLimit, 10)
	})
}

// Close stops the pending estimates. Results of calls in flight are
// discarded.
func (f *form) Close() {
	f.gasDebouncer.Stop()
	f.estimateDebouncer.Stop()

	f.lock.Lock()
	defer f.lock.Unlock()
	f.gas.done = f.gas.triggers
	f.estimate.done = f.estimate.triggers
	f.updateStatus()
}

// txParams returns the parameters common to every transaction of the
// active address.
func (f *form) txParams(s domain.State, password string) (ports.TxParams, error) {
	from := selectors.ActiveAddress(s)
	if from == "" {
		return ports.TxParams{}, ErrNoActiveAddress
	}

	values := f.State().Values
	gasPrice := ""
	if price := values[FieldGasPrice]; price != "" {
		wei, err := f.deps.Client.ToWei(sanitizer.Sanitize(price), units.UnitGwei)
		if err != nil {
			return ports.TxParams{}, err
		}
		gasPrice = wei
	}

	return ports.TxParams{
		Chain:    selectors.ActiveChain(s),
		WalletID: selectors.ActiveWalletID(s),
		Password: password,
		From:     from,
		GasPrice: gasPrice,
		Gas:      values[FieldGasLimit],
	}, nil
}

// initialGasValues returns the gas price in gwei and the given default gas
// limit of the active chain.
func initialGasValues(client ports.Client, s domain.State, gasLimit string) map[string]string {
	gasPrice, err := client.FromWei(selectors.ChainGasPrice(s), units.UnitGwei)
	if err != nil {
		gasPrice = ""
	}
	return map[string]string{
		FieldGasPrice: gasPrice,
		FieldGasLimit: gasLimit,
	}
}

// maxCoin returns the coin balance of the active address in coin units.
func maxCoin(client ports.Client, s domain.State) string {
	balance := selectors.CoinBalanceWei(s)
	if balance == nil {
		return "0"
	}
	amount, err := client.ToCoin(selectors.ActiveChainConfig(s), *balance)
	if err != nil {
		return "0"
	}
	return amount
}

// maxMet returns the MET balance of the active address.
func maxMet(client ports.Client, s domain.State) string {
	balance := selectors.MetBalanceWei(s)
	if balance == nil {
		return "0"
	}
	amount, err := client.FromWei(*balance, units.UnitEther)
	if err != nil {
		return "0"
	}
	return amount
}
