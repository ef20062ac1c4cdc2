package forms

import (
	"errors"

	"github.com/metwallet/walletd/pkg/mathutil"
	"github.com/metwallet/walletd/pkg/sanitizer"
	"github.com/metwallet/walletd/pkg/units"
	"github.com/shopspring/decimal"
)

const (
	InvalidAmountPlaceholder = "Invalid amount"
	SmallAmountPlaceholder   = "< 0.01"
	defaultPlaceholder       = "0.00"
)

// ErrZeroAmount is returned when computing a rate over a zero amount.
var ErrZeroAmount = errors.New("amount must not be zero")

// PurchaseEstimate is the outcome of buying in auction with a given coin
// amount. When the purchase depletes the auction, only UsedCoinAmount is
// spent and ExcessCoinAmount is returned. Amounts are in wei.
type PurchaseEstimate struct {
	ExpectedMETAmount string `json:"expectedMETamount,omitempty"`
	Excedes           bool   `json:"excedes"`
	UsedCoinAmount    string `json:"usedCoinAmount,omitempty"`
	ExcessCoinAmount  string `json:"excessCoinAmount,omitempty"`
}

// EstimatePurchase returns the expected outcome of spending amount, in coin
// units, in the current auction selling remaining tokens at rate. Auction
// prices always have 18 decimals, whatever the chain. It returns false if
// amount is not valid.
func EstimatePurchase(remaining, amount, rate string) (PurchaseEstimate, bool) {
	weiAmount, err := units.ToWei(sanitizer.Sanitize(amount), units.UnitEther)
	if err != nil {
		return PurchaseEstimate{}, false
	}
	wei, ok := mathutil.ParseAmount(weiAmount)
	if !ok || wei.IsNegative() {
		return PurchaseEstimate{}, false
	}
	price, ok := mathutil.ParseAmount(rate)
	if !ok || !price.IsPositive() {
		return PurchaseEstimate{}, false
	}
	left, ok := mathutil.ParseAmount(remaining)
	if !ok {
		return PurchaseEstimate{}, false
	}

	expected := wei.DivRound(price, units.DefaultDecimals).Shift(units.DefaultDecimals).Truncate(0)
	estimate := PurchaseEstimate{
		ExpectedMETAmount: expected.String(),
		Excedes:           expected.GreaterThan(left),
	}
	if estimate.Excedes {
		used := left.Mul(price).Div(mathutil.OneEther).Round(0)
		estimate.UsedCoinAmount = used.String()
		estimate.ExcessCoinAmount = wei.Sub(used).Round(0).String()
	}
	return estimate, true
}

// ConversionRate returns the integer rate of a conversion between metAmount
// and coinAmount, both in wei.
func ConversionRate(metAmount, coinAmount string) (string, error) {
	met, err := units.FromWei(metAmount, units.UnitEther)
	if err != nil {
		return "", err
	}
	m, err := units.Parse(met)
	if err != nil {
		return "", err
	}
	if m.IsZero() {
		return "", ErrZeroAmount
	}
	c, err := units.Parse(coinAmount)
	if err != nil {
		return "", err
	}
	return c.DivRound(m, units.DefaultDecimals).Round(0).String(), nil
}

// SyncAmounts keeps the coin and USD amounts of values in sync with the
// field id just changed to value, given the coin USD rate.
func SyncAmounts(values map[string]string, rate *float64, id, value string) {
	value = sanitizer.SanitizeInput(value)
	switch id {
	case FieldCoinAmount:
		values[FieldUSDAmount] = coinToUSD(value, rate)
	case FieldUSDAmount:
		values[FieldCoinAmount] = usdToCoin(value, rate)
	}
}

func rateToWei(rate *float64) (decimal.Decimal, bool) {
	if rate == nil {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(*rate).Shift(units.DefaultDecimals).Truncate(0), true
}

func coinToUSD(amount string, rate *float64) string {
	weiRate, ok := rateToWei(rate)
	if !ok {
		return InvalidAmountPlaceholder
	}
	weiAmount, err := units.ToWei(sanitizer.Sanitize(amount), units.UnitEther)
	if err != nil {
		return InvalidAmountPlaceholder
	}
	wei, ok := mathutil.ParseAmount(weiAmount)
	if !ok {
		return InvalidAmountPlaceholder
	}

	weiUSD := wei.Mul(weiRate).Div(mathutil.OneEther).Truncate(0)
	switch {
	case weiUSD.IsNegative():
		return InvalidAmountPlaceholder
	case weiUSD.IsZero():
		return "0"
	case weiUSD.LessThan(mathutil.SmallestUSD.Shift(units.DefaultDecimals)):
		return SmallAmountPlaceholder
	}
	return weiUSD.Shift(-units.DefaultDecimals).Round(2).String()
}

func usdToCoin(amount string, rate *float64) string {
	weiRate, ok := rateToWei(rate)
	if !ok || weiRate.IsZero() {
		return InvalidAmountPlaceholder
	}
	weiAmount, err := units.ToWei(sanitizer.Sanitize(amount), units.UnitEther)
	if err != nil {
		return InvalidAmountPlaceholder
	}
	wei, ok := mathutil.ParseAmount(weiAmount)
	if !ok || wei.IsNegative() {
		return InvalidAmountPlaceholder
	}
	return wei.DivRound(weiRate, units.DefaultDecimals).String()
}

// AmountFieldsProps are the values and placeholders to display in a pair of
// amount fields.
type AmountFieldsProps struct {
	CoinAmount      string `json:"coinAmount"`
	MetAmount       string `json:"metAmount"`
	USDAmount       string `json:"usdAmount"`
	CoinPlaceholder string `json:"coinPlaceholder"`
	MetPlaceholder  string `json:"metPlaceholder"`
	USDPlaceholder  string `json:"usdPlaceholder"`
}

// GetAmountFieldsProps moves the placeholder values of the given amounts to
// their placeholders.
func GetAmountFieldsProps(coinAmount, metAmount, usdAmount string) AmountFieldsProps {
	props := AmountFieldsProps{
		CoinAmount:      coinAmount,
		MetAmount:       metAmount,
		USDAmount:       usdAmount,
		CoinPlaceholder: defaultPlaceholder,
		MetPlaceholder:  defaultPlaceholder,
		USDPlaceholder:  defaultPlaceholder,
	}
	if coinAmount == InvalidAmountPlaceholder {
		props.CoinAmount = ""
		props.CoinPlaceholder = InvalidAmountPlaceholder
	}
	if metAmount == InvalidAmountPlaceholder {
		props.MetAmount = ""
		props.MetPlaceholder = InvalidAmountPlaceholder
	}
	if usdAmount == InvalidAmountPlaceholder || usdAmount == SmallAmountPlaceholder {
		props.USDAmount = ""
		props.USDPlaceholder = usdAmount
	}
	return props
}
