// Package units converts amounts between their display representation and
// the smallest denomination (wei) used for every balance and transaction
// value.
package units

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

const (
	UnitWei   = "wei"
	UnitGwei  = "gwei"
	UnitEther = "ether"

	// DefaultDecimals is the precision of MET and of auction prices on every
	// chain.
	DefaultDecimals = 18
)

var (
	// ErrInvalidAmount ...
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTooManyDecimals is returned when an amount cannot be expressed in
	// wei without truncation.
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
	// ErrUnknownUnit ...
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrNegativeAmount ...
	ErrNegativeAmount = errors.New("amount must not be negative")

	unitDecimals = map[string]int32{
		UnitWei:   0,
		"kwei":    3,
		"mwei":    6,
		UnitGwei:  9,
		"szabo":   12,
		"finney":  15,
		UnitEther: 18,
	}
)

// UnitDecimals returns the number of decimals of the given unit name.
func UnitDecimals(unit string) (int32, error) {
	if unit == "" {
		return DefaultDecimals, nil
	}
	d, ok := unitDecimals[strings.ToLower(unit)]
	if !ok {
		return 0, ErrUnknownUnit
	}
	return d, nil
}

// ToWei converts amount, expressed in unit, into wei.
func ToWei(amount, unit string) (string, error) {
	decimals, err := UnitDecimals(unit)
	if err != nil {
		return "", err
	}
	return ToSmallest(amount, decimals)
}

// FromWei converts a wei amount into unit.
func FromWei(wei, unit string) (string, error) {
	decimals, err := UnitDecimals(unit)
	if err != nil {
		return "", err
	}
	return FromSmallest(wei, decimals)
}

// ToSmallest converts a coin amount with the given precision into its
// smallest denomination.
func ToSmallest(amount string, decimals int32) (string, error) {
	v, err := parse(amount)
	if err != nil {
		return "", err
	}
	shifted := v.Shift(decimals)
	if !shifted.Equal(shifted.Truncate(0)) {
		return "", ErrTooManyDecimals
	}
	return shifted.String(), nil
}

// FromSmallest converts an amount in the smallest denomination into a coin
// amount with the given precision.
func FromSmallest(amount string, decimals int32) (string, error) {
	v, err := parse(amount)
	if err != nil {
		return "", err
	}
	if !v.Equal(v.Truncate(0)) {
		return "", ErrInvalidAmount
	}
	return v.Shift(-decimals).String(), nil
}

// ToBN parses a decimal or 0x prefixed hex string into a big integer.
func ToBN(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if strings.HasPrefix(amount, "0x") || strings.HasPrefix(amount, "0X") {
		return hexutil.DecodeBig(amount)
	}
	v, ok := new(big.Int).SetString(amount, 10)
	if !ok {
		return nil, ErrInvalidAmount
	}
	return v, nil
}

// ToHex returns the 0x prefixed hex encoding of a non negative integer.
func ToHex(amount string) (string, error) {
	v, err := ToBN(amount)
	if err != nil {
		return "", err
	}
	if v.Sign() < 0 {
		return "", ErrNegativeAmount
	}
	return hexutil.EncodeBig(v), nil
}

// Parse returns the decimal value of an amount string.
func Parse(amount string) (decimal.Decimal, error) {
	return parse(amount)
}

func parse(amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return v, nil
}
