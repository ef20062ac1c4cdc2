package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/metwallet/walletd/internal/core/application/forms"
	"github.com/metwallet/walletd/internal/core/application/loading"
	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/application/store"
	"github.com/metwallet/walletd/internal/core/application/toast"
)

// ToastsEvent is the event pushed to the client every time the toast stack
// changes.
const ToastsEvent = "toasts-changed"

var (
	// ErrInvalidParams ...
	ErrInvalidParams = errors.New("invalid request params")
	// ErrNotConvertForm is returned when toggling the minimum return of a
	// form that is not a conversion.
	ErrNotConvertForm = errors.New("form is not a conversion")
)

// WalletService is the application service the client requests are
// forwarded to.
type WalletService interface {
	Store() *store.Store
	Login(ctx context.Context, password string) error
	CreateMnemonic(ctx context.Context) (string, error)
	ValidateOnboarding(mnemonic, again, password string) forms.Errors
	CompleteOnboarding(ctx context.Context, mnemonic, password string) error
	ChangeActiveChain(ctx context.Context, chain string) error
	RefreshAllTransactions(ctx context.Context) error
	RefreshTransaction(ctx context.Context, hash string) error
}

// ChecklistProvider exposes the progress of the initial data loading.
type ChecklistProvider interface {
	Checklist() loading.Checklist
}

// Handler serves the requests the client makes to the daemon: state
// queries, session and forms.
type Handler struct {
	wallet  WalletService
	forms   *forms.Manager
	toasts  *toast.Queue
	loading ChecklistProvider
}

func NewHandler(
	wallet WalletService, formsManager *forms.Manager,
	toasts *toast.Queue, loading ChecklistProvider,
) *Handler {
	return &Handler{wallet, formsManager, toasts, loading}
}

// Register registers every method served by the handler on b.
func (h *Handler) Register(b *Bridge) {
	for method, fn := range map[string]HandlerFunc{
		"getState":            h.getState,
		"getFeatures":         h.getFeatures,
		"getTransactions":     h.getTransactions,
		"getFailedImports":    h.getFailedImports,
		"getOngoingImports":   h.getOngoingImports,
		"getChains":           h.getChains,
		"getPortDestinations": h.getPortDestinations,
		"getChecklist":        h.getChecklist,
		"getToasts":           h.getToasts,
		"dismissToast":        h.dismissToast,
		"pauseToast":          h.pauseToast,
		"resumeToast":         h.resumeToast,

		"login":                  h.login,
		"createMnemonic":         h.createMnemonic,
		"validateOnboarding":     h.validateOnboarding,
		"completeOnboarding":     h.completeOnboarding,
		"changeActiveChain":      h.changeActiveChain,
		"refreshAllTransactions": h.refreshAllTransactions,
		"refreshTransaction":     h.refreshTransaction,

		"openForm":       h.openForm,
		"closeForm":      h.closeForm,
		"formState":      h.formState,
		"formInput":      h.formInput,
		"formMaxClick":   h.formMaxClick,
		"formUseMinimum": h.formUseMinimum,
		"formValidate":   h.formValidate,
		"formReset":      h.formReset,
		"formSubmit":     h.formSubmit,
	} {
		b.Handle(method, fn)
	}
}

type chainParams struct {
	Chain string `json:"chain"`
}

type hashParams struct {
	Hash string `json:"hash"`
}

type sessionParams struct {
	Mnemonic      string `json:"mnemonic"`
	MnemonicAgain string `json:"mnemonicAgain,omitempty"`
	Password      string `json:"password"`
}

type mnemonicResult struct {
	Mnemonic string `json:"mnemonic"`
}

type validationResult struct {
	Errors forms.Errors `json:"errors"`
}

type toastParams struct {
	Category string `json:"category"`
}

type openFormParams struct {
	Kind     forms.Kind `json:"kind"`
	BurnHash string     `json:"burnHash,omitempty"`
}

type formParams struct {
	ID         string `json:"id"`
	Field      string `json:"field,omitempty"`
	Value      string `json:"value,omitempty"`
	UseMinimum bool   `json:"useMinimum,omitempty"`
	Password   string `json:"password,omitempty"`
}

type formIDResult struct {
	ID string `json:"id"`
}

type txHashResult struct {
	Hash string `json:"hash"`
}

func (h *Handler) getState(context.Context, json.RawMessage) (interface{}, error) {
	return h.wallet.Store().State(), nil
}

func (h *Handler) getFeatures(context.Context, json.RawMessage) (interface{}, error) {
	return selectors.FeatureStates(h.wallet.Store().State()), nil
}

func (h *Handler) getTransactions(context.Context, json.RawMessage) (interface{}, error) {
	return selectors.ActiveWalletTxRows(h.wallet.Store().State()), nil
}

func (h *Handler) getFailedImports(context.Context, json.RawMessage) (interface{}, error) {
	return selectors.FailedImports(h.wallet.Store().State()), nil
}

func (h *Handler) getOngoingImports(context.Context, json.RawMessage) (interface{}, error) {
	return selectors.OngoingImports(h.wallet.Store().State()), nil
}

func (h *Handler) getChains(context.Context, json.RawMessage) (interface{}, error) {
	return selectors.ChainsWithBalances(h.wallet.Store().State()), nil
}

func (h *Handler) getPortDestinations(context.Context, json.RawMessage) (interface{}, error) {
	return selectors.PortDestinations(h.wallet.Store().State()), nil
}

func (h *Handler) getChecklist(context.Context, json.RawMessage) (interface{}, error) {
	return h.loading.Checklist(), nil
}

func (h *Handler) getToasts(context.Context, json.RawMessage) (interface{}, error) {
	return h.toasts.Stack(), nil
}

func (h *Handler) dismissToast(_ context.Context, payload json.RawMessage) (interface{}, error) {
	params, err := decode[toastParams](payload)
	if err != nil {
		return nil, err
	}
	h.toasts.Dismiss(params.Category)
	return nil, nil
}

// pauseToast stops the auto-close timer of a toast group while the user
// reads its messages.
func (h *Handler) pauseToast(_ context.Context, payload json.RawMessage) (interface{}, error) {
	params, err := decode[toastParams](payload)
	if err != nil {
		return nil, err
	}
	h.toasts.Pause(params.Category)
	return nil, nil
}

func (h *Handler) resumeToast(_ context.Context, payload json.RawMessage) (interface{}, error) {
	params, err := decode[toastParams](payload)
	if err != nil {
		return nil, err
	}
	h.toasts.Resume(params.Category)
	return nil, nil
}

func (h *Handler) login(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	params, err := decode[sessionParams](payload)
	if err != nil {
		return nil, err
	}
	return nil, h.wallet.Login(ctx, params.Password)
}

func (h *Handler) createMnemonic(ctx context.Context, _ json.RawMessage) (interface{}, error) {
	mnemonic, err := h.wallet.CreateMnemonic(ctx)
	if err != nil {
		return nil, err
	}
	return mnemonicResult{mnemonic}, nil
}

func (h *Handler) validateOnboarding(_ context.Context, payload json.RawMessage) (interface{}, error) {
	params, err := decode[sessionParams](payload)
	if err != nil {
		return nil, err
	}
	return validationResult{
		h.wallet.ValidateOnboarding(params.Mnemonic, params.MnemonicAgain, params.Password),
	}, nil
}

func (h *Handler) completeOnboarding(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	params, err := decode[sessionParams](payload)
	if err != nil {
		return nil, err
	}
	return nil, h.wallet.CompleteOnboarding(ctx, params.Mnemonic, params.Password)
}

func (h *Handler) changeActiveChain(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	params, err := decode[chainParams](payload)
	if err != nil {
		return nil, err
	}
	return nil, h.wallet.ChangeActiveChain(ctx, params.Chain)
}

func (h *Handler) refreshAllTransactions(ctx context.Context, _ json.RawMessage) (interface{}, error) {
	return nil, h.wallet.RefreshAllTransactions(ctx)
}

func (h *Handler) refreshTransaction(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	params, err := decode[hashParams](payload)
	if err != nil {
		return nil, err
	}
	return nil, h.wallet.RefreshTransaction(ctx, params.Hash)
}

func (h *Handler) openForm(_ context.Context, payload json.RawMessage) (interface{}, error) {
	params, err := decode[openFormParams](payload)
	if err != nil {
		return nil, err
	}
	id, err := h.forms.Open(params.Kind, params.BurnHash)
	if err != nil {
		return nil, err
	}
	return formIDResult{id}, nil
}

func (h *Handler) closeForm(_ context.Context, payload json.RawMessage) (interface{}, error) {
	params, err := decode[formParams](payload)
	if err != nil {
		return nil, err
	}
	return nil, h.forms.Close(params.ID)
}

func (h *Handler) formState(_ context.Context, payload json.RawMessage) (interface{}, error) {
	return h.withForm(payload, func(f forms.Form, _ formParams) (interface{}, error) {
		return f.State(), nil
	})
}

func (h *Handler) formInput(_ context.Context, payload json.RawMessage) (interface{}, error) {
	return h.withForm(payload, func(f forms.Form, params formParams) (interface{}, error) {
		if params.Field == "" {
			return nil, fmt.Errorf("%w: missing field", ErrInvalidParams)
		}
		f.OnInputChange(params.Field, params.Value)
		return f.State(), nil
	})
}

func (h *Handler) formMaxClick(_ context.Context, payload json.RawMessage) (interface{}, error) {
	return h.withForm(payload, func(f forms.Form, _ formParams) (interface{}, error) {
		f.OnMaxClick()
		return f.State(), nil
	})
}

func (h *Handler) formUseMinimum(_ context.Context, payload json.RawMessage) (interface{}, error) {
	return h.withForm(payload, func(f forms.Form, params formParams) (interface{}, error) {
		c, ok := f.(*forms.ConvertForm)
		if !ok {
			return nil, ErrNotConvertForm
		}
		c.SetUseMinimum(params.UseMinimum)
		return f.State(), nil
	})
}

func (h *Handler) formValidate(_ context.Context, payload json.RawMessage) (interface{}, error) {
	return h.withForm(payload, func(f forms.Form, _ formParams) (interface{}, error) {
		f.Validate()
		return f.State(), nil
	})
}

func (h *Handler) formReset(_ context.Context, payload json.RawMessage) (interface{}, error) {
	return h.withForm(payload, func(f forms.Form, _ formParams) (interface{}, error) {
		f.Reset()
		return f.State(), nil
	})
}

func (h *Handler) formSubmit(ctx context.Context, payload json.RawMessage) (interface{}, error) {
	return h.withForm(payload, func(f forms.Form, params formParams) (interface{}, error) {
		hash, err := f.Submit(ctx, params.Password)
		if err != nil {
			return nil, err
		}
		return txHashResult{hash}, nil
	})
}

func (h *Handler) withForm(
	payload json.RawMessage, fn func(forms.Form, formParams) (interface{}, error),
) (interface{}, error) {
	params, err := decode[formParams](payload)
	if err != nil {
		return nil, err
	}
	f, err := h.forms.Get(params.ID)
	if err != nil {
		return nil, err
	}
	return fn(f, params)
}

func decode[T any](payload json.RawMessage) (T, error) {
	var v T
	if len(payload) == 0 {
		return v, nil
	}
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, fmt.Errorf("%w: %s", ErrInvalidParams, err)
	}
	return v, nil
}
