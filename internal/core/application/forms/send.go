package forms

import (
	"context"

	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/metwallet/walletd/pkg/sanitizer"
	"github.com/metwallet/walletd/pkg/units"
)

// SendCoinForm sends the chain coin to an address. Gas is estimated and
// validated only on chains using gas.
type SendCoinForm struct {
	*form
}

func NewSendCoinForm(deps Deps) *SendCoinForm {
	client := deps.Client
	return &SendCoinForm{newForm(deps, func(s domain.State) map[string]string {
		values := initialGasValues(client, s, selectors.ActiveChainConfig(s).CoinDefaultGasLimit)
		values[FieldToAddress] = ""
		values[FieldCoinAmount] = ""
		values[FieldUSDAmount] = ""
		return values
	})}
}

func (f *SendCoinForm) OnInputChange(id, value string) {
	f.setInput(id, value, true)

	chain := selectors.ActiveChainConfig(f.deps.Store.State())
	if !chain.UsesGas() {
		return
	}
	if id == FieldCoinAmount || id == FieldUSDAmount || id == FieldToAddress {
		f.scheduleGasEstimate("send-coin", f.gasLimitCall)
	}
}

func (f *SendCoinForm) gasLimitCall(values map[string]string) (func(context.Context) (uint64, error), bool) {
	s := f.deps.Store.State()
	chain := selectors.ActiveChainConfig(s)
	to := values[FieldToAddress]
	if !f.deps.Client.IsAddress(chain, to) {
		return nil, false
	}
	value, err := f.deps.Client.FromCoin(chain, sanitizer.Sanitize(values[FieldCoinAmount]))
	if err != nil {
		return nil, false
	}
	req := ports.GasLimitRequest{
		Chain: selectors.ActiveChain(s),
		From:  selectors.ActiveAddress(s),
		To:    to,
		Value: value,
	}
	return func(ctx context.Context) (uint64, error) {
		return f.deps.Client.GetGasLimit(ctx, req)
	}, true
}

// OnMaxClick sets the coin amount to the whole coin balance.
func (f *SendCoinForm) OnMaxClick() {
	f.OnInputChange(FieldCoinAmount, maxCoin(f.deps.Client, f.deps.Store.State()))
}

func (f *SendCoinForm) Validate() Errors {
	errs := f.validate()
	f.setErrors(errs)
	return errs
}

func (f *SendCoinForm) validate() Errors {
	s := f.deps.Store.State()
	chain := selectors.ActiveChainConfig(s)
	values := f.State().Values

	errs := ValidateToAddress(f.deps.Client, chain, values[FieldToAddress]).merge(
		ValidateCoinAmount(f.deps.Client, chain, values[FieldCoinAmount], maxCoin(f.deps.Client, s)),
	)
	if chain.UsesGas() {
		errs = errs.merge(
			ValidateGasPrice(f.deps.Client, values[FieldGasPrice]),
			ValidateGasLimit(f.deps.Client, values[FieldGasLimit]),
		)
	}
	return errs
}

// Submit sends the coin amount and returns the transaction hash.
func (f *SendCoinForm) Submit(ctx context.Context, password string) (string, error) {
	return f.submit(ctx, "send-coin", password, f.validate, func(
		ctx context.Context, s domain.State, values map[string]string, params ports.TxParams,
	) (string, error) {
		chain := selectors.ActiveChainConfig(s)
		value, err := f.deps.Client.FromCoin(chain, sanitizer.Sanitize(values[FieldCoinAmount]))
		if err != nil {
			return "", err
		}
		if !chain.UsesGas() {
			params.GasPrice = ""
			params.Gas = ""
		}
		return f.deps.Client.SendCoin(ctx, ports.SendRequest{
			TxParams: params,
			To:       values[FieldToAddress],
			Value:    value,
		})
	})
}

// SendMETForm sends MET to an address.
type SendMETForm struct {
	*form
}

func NewSendMETForm(deps Deps) *SendMETForm {
	client := deps.Client
	return &SendMETForm{newForm(deps, func(s domain.State) map[string]string {
		values := initialGasValues(client, s, selectors.ActiveChainConfig(s).MetDefaultGasLimit)
		values[FieldToAddress] = ""
		values[FieldMetAmount] = ""
		return values
	})}
}

func (f *SendMETForm) OnInputChange(id, value string) {
	f.setInput(id, value, false)
	if id == FieldMetAmount || id == FieldToAddress {
		f.scheduleGasEstimate("send-met", f.gasLimitCall)
	}
}

func (f *SendMETForm) gasLimitCall(values map[string]string) (func(context.Context) (uint64, error), bool) {
	s := f.deps.Store.State()
	chain := selectors.ActiveChainConfig(s)
	to := values[FieldToAddress]
	if !f.deps.Client.IsAddress(chain, to) {
		return nil, false
	}
	value, err := f.deps.Client.ToWei(sanitizer.Sanitize(values[FieldMetAmount]), units.UnitEther)
	if err != nil {
		return nil, false
	}
	req := ports.GasLimitRequest{
		Chain: selectors.ActiveChain(s),
		From:  selectors.ActiveAddress(s),
		To:    to,
		Value: value,
		Token: chain.MetTokenAddress,
	}
	return func(ctx context.Context) (uint64, error) {
		return f.deps.Client.GetTokensGasLimit(ctx, req)
	}, true
}

// OnMaxClick sets the MET amount to the whole MET balance.
func (f *SendMETForm) OnMaxClick() {
	f.OnInputChange(FieldMetAmount, maxMet(f.deps.Client, f.deps.Store.State()))
}

func (f *SendMETForm) Validate() Errors {
	errs := f.validate()
	f.setErrors(errs)
	return errs
}

func (f *SendMETForm) validate() Errors {
	s := f.deps.Store.State()
	values := f.State().Values
	return ValidateToAddress(f.deps.Client, selectors.ActiveChainConfig(s), values[FieldToAddress]).merge(
		ValidateMetAmount(f.deps.Client, values[FieldMetAmount], maxMet(f.deps.Client, s)),
		ValidateGasPrice(f.deps.Client, values[FieldGasPrice]),
		ValidateGasLimit(f.deps.Client, values[FieldGasLimit]),
	)
}

// Submit sends the MET amount and returns the transaction hash.
func (f *SendMETForm) Submit(ctx context.Context, password string) (string, error) {
	return f.submit(ctx, "send-met", password, f.validate, func(
		ctx context.Context, _ domain.State, values map[string]string, params ports.TxParams,
	) (string, error) {
		value, err := f.deps.Client.ToWei(sanitizer.Sanitize(values[FieldMetAmount]), units.UnitEther)
		if err != nil {
			return "", err
		}
		return f.deps.Client.SendMet(ctx, ports.SendRequest{
			TxParams: params,
			To:       values[FieldToAddress],
			Value:    value,
		})
	})
}
