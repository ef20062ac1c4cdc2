package domain_test

import (
	"testing"

	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		config        domain.Config
		expectedError error
	}{
		{
			name:          "no_enabled_chains",
			config:        domain.Config{},
			expectedError: domain.ErrMissingEnabledChains,
		},
		{
			name:          "missing_chain_config",
			config:        domain.Config{EnabledChains: []string{"eth"}},
			expectedError: domain.ErrMissingChainConfig,
		},
		{
			name: "valid",
			config: domain.Config{
				EnabledChains: []string{"eth"},
				Chains:        map[string]domain.ChainConfig{"eth": {Symbol: "ETH"}},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.expectedError == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.expectedError)
		})
	}
}

func TestStateCopy(t *testing.T) {
	t.Parallel()

	balance := "10"
	state := domain.NewState()
	state.Config = domain.Config{
		EnabledChains: []string{"eth"},
		Chains:        map[string]domain.ChainConfig{"eth": {Symbol: "ETH"}},
	}
	cs := domain.NewChainState()
	cs.Wallets.Active = "w1"
	cs.Wallets.ByID["w1"] = domain.Wallet{
		Addresses: map[string]domain.Address{
			myAddress: {
				Balance: &balance,
				Transactions: []domain.RawTransaction{
					{Transaction: domain.TxData{Hash: "0x1", BlockNumber: int64Ptr(5)}},
				},
			},
		},
	}
	state.Chains.Active = "eth"
	state.Chains.ByID["eth"] = cs

	copied := state.Copy()

	*copied.Chains.ByID["eth"].Wallets.ByID["w1"].Addresses[myAddress].Balance = "20"
	*copied.Chains.ByID["eth"].Wallets.ByID["w1"].Addresses[myAddress].Transactions[0].Transaction.BlockNumber = 6
	copied.Config.EnabledChains[0] = "qtum"

	original := state.Chains.ByID["eth"].Wallets.ByID["w1"].Addresses[myAddress]
	require.Equal(t, "10", *original.Balance)
	require.Equal(t, int64(5), *original.Transactions[0].Transaction.BlockNumber)
	require.Equal(t, "eth", state.Config.EnabledChains[0])
}

func TestActiveAddressIsSortedFirst(t *testing.T) {
	t.Parallel()

	wallet := domain.Wallet{
		Addresses: map[string]domain.Address{
			otherAddress: {},
			myAddress:    {},
		},
	}
	for i := 0; i < 10; i++ {
		addr, ok := wallet.ActiveAddress()
		require.True(t, ok)
		require.Equal(t, myAddress, addr)
	}

	_, ok := domain.Wallet{}.ActiveAddress()
	require.False(t, ok)
}

func TestTxExplorerURL(t *testing.T) {
	t.Parallel()

	cfg := domain.ChainConfig{ExplorerURL: "https://explorer.io/tx/{{hash}}"}
	require.Equal(t, "https://explorer.io/tx/0xabc", cfg.TxExplorerURL("0xabc"))
	require.Equal(t, "#", domain.ChainConfig{}.TxExplorerURL("0xabc"))
}
