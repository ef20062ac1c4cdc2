package mathutil

import (
	"github.com/shopspring/decimal"
)

var (
	// OneEther is 10^18 wei.
	OneEther = decimal.New(1, 18)
	// SmallestUSD is the smallest USD amount displayed, anything below is
	// shown as "< 0.01".
	SmallestUSD = decimal.New(1, -2)
)

// ParseAmount parses a wei or coin amount string. Empty strings and invalid
// numbers are reported as not ok.
func ParseAmount(amount string) (decimal.Decimal, bool) {
	if amount == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// HasFunds returns whether the given balance is known and greater than 0.
func HasFunds(balance *string) bool {
	if balance == nil {
		return false
	}
	v, ok := ParseAmount(*balance)
	return ok && v.IsPositive()
}

// SmallestToUSD converts an amount expressed in the smallest unit of a coin
// with the given decimals into USD.
func SmallestToUSD(amount string, decimals int32, rate float64) (decimal.Decimal, bool) {
	v, ok := ParseAmount(amount)
	if !ok {
		return decimal.Zero, false
	}
	return v.Shift(-decimals).Mul(decimal.NewFromFloat(rate)), true
}

// FormatUSD formats a USD amount with 2 decimal places.
func FormatUSD(v decimal.Decimal) string {
	return v.StringFixed(2)
}
