package forms

import (
	"context"

	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/metwallet/walletd/pkg/sanitizer"
	"github.com/metwallet/walletd/pkg/units"
)

// BuyMETForm buys MET in the current auction of the active chain.
type BuyMETForm struct {
	*form
}

func NewBuyMETForm(deps Deps) *BuyMETForm {
	client := deps.Client
	return &BuyMETForm{newForm(deps, func(s domain.State) map[string]string {
		values := initialGasValues(client, s, selectors.ActiveChainConfig(s).MetDefaultGasLimit)
		values[FieldCoinAmount] = ""
		values[FieldUSDAmount] = ""
		return values
	})}
}

func (b *BuyMETForm) OnInputChange(id, value string) {
	b.setInput(id, value, true)
	if id == FieldCoinAmount || id == FieldUSDAmount {
		b.scheduleGasEstimate("buy", b.gasLimitCall)
	}
}

func (b *BuyMETForm) gasLimitCall(values map[string]string) (func(context.Context) (uint64, error), bool) {
	s := b.deps.Store.State()
	value, err := b.deps.Client.ToWei(sanitizer.Sanitize(values[FieldCoinAmount]), units.UnitEther)
	if err != nil {
		return nil, false
	}
	req := ports.GasLimitRequest{
		Chain: selectors.ActiveChain(s),
		From:  selectors.ActiveAddress(s),
		Value: value,
	}
	return func(ctx context.Context) (uint64, error) {
		return b.deps.Client.GetAuctionGasLimit(ctx, req)
	}, true
}

// OnMaxClick sets the coin amount to the whole coin balance.
func (b *BuyMETForm) OnMaxClick() {
	b.OnInputChange(FieldCoinAmount, maxCoin(b.deps.Client, b.deps.Store.State()))
}

// Estimate returns the expected outcome of the purchase with the current
// coin amount. It returns false if the amount or the auction status are not
// valid.
func (b *BuyMETForm) Estimate() (PurchaseEstimate, bool) {
	status := selectors.AuctionStatus(b.deps.Store.State())
	if status == nil {
		return PurchaseEstimate{}, false
	}
	return EstimatePurchase(status.TokenRemaining, b.value(FieldCoinAmount), status.CurrentPrice)
}

func (b *BuyMETForm) Validate() Errors {
	errs := b.validate()
	b.setErrors(errs)
	return errs
}

func (b *BuyMETForm) validate() Errors {
	s := b.deps.Store.State()
	values := b.State().Values
	return ValidateCoinAmount(
		b.deps.Client, selectors.ActiveChainConfig(s), values[FieldCoinAmount], maxCoin(b.deps.Client, s),
	).merge(
		ValidateGasPrice(b.deps.Client, values[FieldGasPrice]),
		ValidateGasLimit(b.deps.Client, values[FieldGasLimit]),
	)
}

// Submit buys MET with the coin amount and returns the transaction hash.
func (b *BuyMETForm) Submit(ctx context.Context, password string) (string, error) {
	return b.submit(ctx, "buy", password, b.validate, func(
		ctx context.Context, s domain.State, values map[string]string, params ports.TxParams,
	) (string, error) {
		value, err := b.deps.Client.FromCoin(
			selectors.ActiveChainConfig(s), sanitizer.Sanitize(values[FieldCoinAmount]),
		)
		if err != nil {
			return "", err
		}
		return b.deps.Client.BuyMetronome(ctx, ports.BuyRequest{TxParams: params, Value: value})
	})
}
