package forms

import (
	"context"
	"strconv"

	"github.com/metwallet/walletd/internal/core/application/selectors"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/metwallet/walletd/pkg/sanitizer"
	"github.com/metwallet/walletd/pkg/units"
)

// conversion tells a ConvertForm which side of the converter it sells.
type conversion struct {
	name        string
	amountField string
	syncAmounts bool
	// toValue converts the amount field into the value sent to the client.
	toValue   func(client ports.Client, s domain.State, amount string) (string, error)
	maxAmount func(client ports.Client, s domain.State) string
	validate  func(client ports.Client, s domain.State, amount, max string) Errors
	gasLimit  func(client ports.Client) func(context.Context, ports.GasLimitRequest) (uint64, error)
	estimate  func(client ports.Client) func(context.Context, ports.ConvertEstimateRequest) (string, error)
	rate      func(client ports.Client, amount, result string) (string, error)
	send      func(client ports.Client) func(context.Context, ports.ConvertRequest) (string, error)
}

var (
	coinToMet = conversion{
		name:        "convert-coin",
		amountField: FieldCoinAmount,
		syncAmounts: true,
		toValue: func(client ports.Client, s domain.State, amount string) (string, error) {
			return client.FromCoin(selectors.ActiveChainConfig(s), sanitizer.Sanitize(amount))
		},
		maxAmount: maxCoin,
		validate: func(client ports.Client, s domain.State, amount, max string) Errors {
			return ValidateCoinAmount(client, selectors.ActiveChainConfig(s), amount, max)
		},
		gasLimit: func(client ports.Client) func(context.Context, ports.GasLimitRequest) (uint64, error) {
			return client.GetConvertCoinGasLimit
		},
		estimate: func(client ports.Client) func(context.Context, ports.ConvertEstimateRequest) (string, error) {
			return client.GetConvertCoinEstimate
		},
		rate: func(client ports.Client, amount, result string) (string, error) {
			coin, err := client.ToWei(sanitizer.Sanitize(amount), units.UnitEther)
			if err != nil {
				return "", err
			}
			return ConversionRate(result, coin)
		},
		send: func(client ports.Client) func(context.Context, ports.ConvertRequest) (string, error) {
			return client.ConvertCoin
		},
	}

	metToCoin = conversion{
		name:        "convert-met",
		amountField: FieldMetAmount,
		toValue: func(client ports.Client, _ domain.State, amount string) (string, error) {
			return client.ToWei(sanitizer.Sanitize(amount), units.UnitEther)
		},
		maxAmount: maxMet,
		validate: func(client ports.Client, _ domain.State, amount, max string) Errors {
			return ValidateMetAmount(client, amount, max)
		},
		gasLimit: func(client ports.Client) func(context.Context, ports.GasLimitRequest) (uint64, error) {
			return client.GetConvertMetGasLimit
		},
		estimate: func(client ports.Client) func(context.Context, ports.ConvertEstimateRequest) (string, error) {
			return client.GetConvertMetEstimate
		},
		rate: func(client ports.Client, amount, result string) (string, error) {
			met, err := client.ToWei(sanitizer.Sanitize(amount), units.UnitEther)
			if err != nil {
				return "", err
			}
			return ConversionRate(met, result)
		},
		send: func(client ports.Client) func(context.Context, ports.ConvertRequest) (string, error) {
			return client.ConvertMet
		},
	}
)

// conversionEstimate is the expected return of a conversion along with the
// resulting rate.
type conversionEstimate struct {
	result string
	rate   string
}

// ConvertForm converts between the chain coin and MET through the
// converter contract. The expected return is estimated along with the gas
// limit and, when UseMinimum is set, enforced as the minimum return.
type ConvertForm struct {
	*form
	conversion conversion
}

// NewConvertCoinToMETForm returns the form converting the chain coin into
// MET.
func NewConvertCoinToMETForm(deps Deps) *ConvertForm {
	return newConvertForm(deps, coinToMet)
}

// NewConvertMETToCoinForm returns the form converting MET into the chain
// coin.
func NewConvertMETToCoinForm(deps Deps) *ConvertForm {
	return newConvertForm(deps, metToCoin)
}

func newConvertForm(deps Deps, c conversion) *ConvertForm {
	client := deps.Client
	return &ConvertForm{
		form: newForm(deps, func(s domain.State) map[string]string {
			values := initialGasValues(client, s, selectors.ActiveChainConfig(s).CoinDefaultGasLimit)
			values[c.amountField] = ""
			if c.syncAmounts {
				values[FieldUSDAmount] = ""
			}
			values[FieldUseMinimum] = strconv.FormatBool(true)
			values[FieldEstimate] = ""
			values[FieldRate] = ""
			return values
		}),
		conversion: c,
	}
}

func (c *ConvertForm) OnInputChange(id, value string) {
	c.setInput(id, value, c.conversion.syncAmounts)
	if id == c.conversion.amountField || (c.conversion.syncAmounts && id == FieldUSDAmount) {
		c.scheduleGasEstimate(c.conversion.name, c.gasLimitCall)
		schedule(c.form, c.estimateDebouncer, &c.estimate, c.conversion.name, c.estimateCall, c.applyEstimate)
	}
}

// SetUseMinimum sets whether the estimated return is enforced as minimum.
func (c *ConvertForm) SetUseMinimum(useMinimum bool) {
	c.setInput(FieldUseMinimum, strconv.FormatBool(useMinimum), false)
}

// UseMinimum returns whether the estimated return is enforced.
func (c *ConvertForm) UseMinimum() bool {
	useMinimum, _ := strconv.ParseBool(c.value(FieldUseMinimum))
	return useMinimum
}

func (c *ConvertForm) gasLimitCall(values map[string]string) (func(context.Context) (uint64, error), bool) {
	s := c.deps.Store.State()
	value, err := c.conversion.toValue(c.deps.Client, s, values[c.conversion.amountField])
	if err != nil {
		return nil, false
	}
	req := ports.GasLimitRequest{
		Chain: selectors.ActiveChain(s),
		From:  selectors.ActiveAddress(s),
		Value: value,
	}
	gasLimit := c.conversion.gasLimit(c.deps.Client)
	return func(ctx context.Context) (uint64, error) {
		return gasLimit(ctx, req)
	}, true
}

func (c *ConvertForm) estimateCall(values map[string]string) (func(context.Context) (conversionEstimate, error), bool) {
	s := c.deps.Store.State()
	amount := values[c.conversion.amountField]
	value, err := c.conversion.toValue(c.deps.Client, s, amount)
	if err != nil || !isGreaterThanZero(amount) {
		return nil, false
	}
	req := ports.ConvertEstimateRequest{Chain: selectors.ActiveChain(s), Value: value}
	estimate := c.conversion.estimate(c.deps.Client)
	return func(ctx context.Context) (conversionEstimate, error) {
		result, err := estimate(ctx, req)
		if err != nil {
			return conversionEstimate{}, err
		}
		rate, err := c.conversion.rate(c.deps.Client, amount, result)
		if err != nil {
			return conversionEstimate{}, err
		}
		return conversionEstimate{result: result, rate: rate}, nil
	}, true
}

func (c *ConvertForm) applyEstimate(res conversionEstimate, err error, ok bool) {
	c.values[FieldEstimate] = res.result
	c.values[FieldRate] = res.rate
	c.estimateError = ""
	if ok && err != nil {
		c.estimateError = err.Error()
	}
}

// OnMaxClick sets the amount to the whole balance.
func (c *ConvertForm) OnMaxClick() {
	c.OnInputChange(c.conversion.amountField, c.conversion.maxAmount(c.deps.Client, c.deps.Store.State()))
}

func (c *ConvertForm) Validate() Errors {
	errs := c.validate()
	c.setErrors(errs)
	return errs
}

func (c *ConvertForm) validate() Errors {
	s := c.deps.Store.State()
	values := c.State().Values
	amount := values[c.conversion.amountField]
	return c.conversion.validate(
		c.deps.Client, s, amount, c.conversion.maxAmount(c.deps.Client, s),
	).merge(
		ValidateGasPrice(c.deps.Client, values[FieldGasPrice]),
		ValidateGasLimit(c.deps.Client, values[FieldGasLimit]),
		ValidateUseMinimum(c.UseMinimum(), values[FieldEstimate]),
	)
}

// Submit converts the amount and returns the transaction hash.
func (c *ConvertForm) Submit(ctx context.Context, password string) (string, error) {
	return c.submit(ctx, c.conversion.name, password, c.validate, func(
		ctx context.Context, s domain.State, values map[string]string, params ports.TxParams,
	) (string, error) {
		value, err := c.conversion.toValue(c.deps.Client, s, values[c.conversion.amountField])
		if err != nil {
			return "", err
		}
		req := ports.ConvertRequest{TxParams: params, Value: value}
		if useMinimum, _ := strconv.ParseBool(values[FieldUseMinimum]); useMinimum {
			req.MinReturn = values[FieldEstimate]
		}
		return c.conversion.send(c.deps.Client)(ctx, req)
	})
}
