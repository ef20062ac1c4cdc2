package units_test

import (
	"testing"

	"github.com/metwallet/walletd/pkg/units"
	"github.com/stretchr/testify/require"
)

func TestToWei(t *testing.T) {
	t.Parallel()

	tests := []struct {
		amount   string
		unit     string
		expected string
	}{
		{"1", units.UnitEther, "1000000000000000000"},
		{"0.000000000000000001", units.UnitEther, "1"},
		{"1.5", units.UnitGwei, "1500000000"},
		{"42", units.UnitWei, "42"},
		{"1234.56", "", "1234560000000000000000"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.amount+"_"+tt.unit, func(t *testing.T) {
			wei, err := units.ToWei(tt.amount, tt.unit)
			require.NoError(t, err)
			require.Equal(t, tt.expected, wei)

			back, err := units.FromWei(wei, tt.unit)
			require.NoError(t, err)
			require.Equal(t, tt.amount, back)
		})
	}
}

func TestFailingToWei(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		amount        string
		unit          string
		expectedError error
	}{
		{"empty", "", units.UnitEther, units.ErrInvalidAmount},
		{"not_a_number", "abc", units.UnitEther, units.ErrInvalidAmount},
		{"comma_decimal", "1,5", units.UnitEther, units.ErrInvalidAmount},
		{"too_many_decimals", "0.1", units.UnitWei, units.ErrTooManyDecimals},
		{"unknown_unit", "1", "satoshi", units.ErrUnknownUnit},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := units.ToWei(tt.amount, tt.unit)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestToHex(t *testing.T) {
	t.Parallel()

	hex, err := units.ToHex("21000")
	require.NoError(t, err)
	require.Equal(t, "0x5208", hex)

	bn, err := units.ToBN("0x5208")
	require.NoError(t, err)
	require.Equal(t, int64(21000), bn.Int64())

	_, err = units.ToHex("21000.5")
	require.Error(t, err)

	_, err = units.ToHex("-1")
	require.ErrorIs(t, err, units.ErrNegativeAmount)
}
