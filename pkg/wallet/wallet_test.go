package wallet_test

import (
	"math"
	"strings"
	"testing"

	"github.com/metwallet/walletd/pkg/wallet"
	"github.com/stretchr/testify/require"
)

func TestNewMnemonic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		entropySize int
		words       int
	}{
		{0, 12},
		{128, 12},
		{256, 24},
	}
	for _, tt := range tests {
		mnemonic, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{EntropySize: tt.entropySize})
		require.NoError(t, err)
		require.Len(t, strings.Fields(mnemonic), tt.words)
		require.True(t, wallet.IsMnemonicValid(mnemonic))
		// Extra whitespace and upper case are sanitized.
		require.True(t, wallet.IsMnemonicValid("  "+strings.ToUpper(mnemonic)+" "))
	}
}

func TestFailingNewMnemonic(t *testing.T) {
	t.Parallel()

	for _, size := range []int{-1, 127, 257, 130} {
		_, err := wallet.NewMnemonic(wallet.NewMnemonicOpts{EntropySize: size})
		require.ErrorIs(t, err, wallet.ErrInvalidEntropySize)
	}
}

func TestIsMnemonicValid(t *testing.T) {
	t.Parallel()

	require.False(t, wallet.IsMnemonicValid(""))
	require.False(t, wallet.IsMnemonicValid("   "))
	require.False(t, wallet.IsMnemonicValid("not a valid recovery phrase at all"))
	require.True(t, wallet.IsMnemonicValid(
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
	))
}

func TestStringEntropy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		str      string
		expected float64
	}{
		{"", 0},
		{"aaaa", 4 * math.Log2(26)},
		{"aA1!", 4 * math.Log2(26+26+10+33)},
		{"12345678", 8 * math.Log2(10)},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			require.InDelta(t, tt.expected, wallet.StringEntropy(tt.str), 1e-9)
		})
	}
}
