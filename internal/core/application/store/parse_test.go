package store_test

import (
	"testing"

	"github.com/metwallet/walletd/internal/core/application/store"
	"github.com/stretchr/testify/require"
)

func TestParseEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		tag      string
		payload  string
		expected store.Event
	}{
		{
			name:     "coin block",
			tag:      "coin-block",
			payload:  `{"chain":"eth","number":42,"timestamp":1700000000}`,
			expected: store.CoinBlock{ChainTarget: store.ChainTarget{Chain: "eth"}, Number: 42, Timestamp: int64Ptr(1700000000)},
		},
		{
			name:     "gas price as string",
			tag:      "gas-price-updated",
			payload:  `"20000000000"`,
			expected: store.GasPriceUpdated{GasPrice: "20000000000"},
		},
		{
			name:     "gas price as object",
			tag:      "gas-price-updated",
			payload:  `{"chain":"qtum","gasPrice":"40"}`,
			expected: store.GasPriceUpdated{ChainTarget: store.ChainTarget{Chain: "qtum"}, GasPrice: "40"},
		},
		{
			name:     "web3 connection status",
			tag:      "web3-connection-status-changed",
			payload:  `{"chain":"eth","connected":true}`,
			expected: store.ConnectionStatusChanged{ChainTarget: store.ChainTarget{Chain: "eth"}, Key: "web3", Connected: true},
		},
		{
			name:     "active chain as string",
			tag:      "active-chain-changed",
			payload:  `"qtum"`,
			expected: store.ActiveChainChanged{Chain: "qtum"},
		},
		{
			name:     "session started without payload",
			tag:      "session-started",
			payload:  ``,
			expected: store.SessionStarted{},
		},
		{
			name:     "scan finished",
			tag:      "transactions-scan-finished",
			payload:  `{"chain":"eth","success":false}`,
			expected: store.TransactionsScanFinished{ChainTarget: store.ChainTarget{Chain: "eth"}, Success: boolPtr(false)},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ev, err := store.ParseEvent(tt.tag, []byte(tt.payload))
			require.NoError(t, err)
			require.Equal(t, tt.expected, ev)
		})
	}
}

func TestParseWalletStateChanged(t *testing.T) {
	t.Parallel()

	payloads := []string{
		`{"chain":"eth","wallets":{"w1":{"addresses":{"0xabc":{"balance":"10"}}}}}`,
		`{"chain":"eth","w1":{"addresses":{"0xabc":{"balance":"10"}}}}`,
	}

	for _, payload := range payloads {
		ev, err := store.ParseEvent("wallet-state-changed", []byte(payload))
		require.NoError(t, err)

		wsc, ok := ev.(store.WalletStateChanged)
		require.True(t, ok)
		require.Equal(t, "eth", wsc.TargetChain())
		require.Len(t, wsc.Wallets, 1)
		balance := wsc.Wallets["w1"].Addresses["0xabc"].Balance
		require.NotNil(t, balance)
		require.Equal(t, "10", *balance)
	}
}

func TestParseEventErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tag     string
		payload string
		err     error
	}{
		{"unknown tag", "foo-bar", `{}`, store.ErrUnknownEvent},
		{"empty connection key", "-connection-status-changed", `{}`, store.ErrUnknownEvent},
		{"malformed payload", "coin-block", `{"number":"abc"}`, store.ErrMalformedPayload},
		{"not json", "coin-price-updated", `price`, store.ErrMalformedPayload},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ev, err := store.ParseEvent(tt.tag, []byte(tt.payload))
			require.ErrorIs(t, err, tt.err)
			require.Nil(t, ev)
		})
	}
}

func TestEncodeEvent(t *testing.T) {
	t.Parallel()

	events := []store.Event{
		store.ConnectionStatusChanged{
			ChainTarget: store.ChainTarget{Chain: "eth"}, Key: "indexer", Connected: true,
		},
		store.CoinPriceUpdated{ChainTarget: store.ChainTarget{Chain: "qtum"}, Price: 2.5},
		store.OpenWallets{WalletIDs: []string{"a"}, ActiveWallet: "a"},
	}

	for _, ev := range events {
		tag, payload, err := store.EncodeEvent(ev)
		require.NoError(t, err)

		parsed, err := store.ParseEvent(tag, payload)
		require.NoError(t, err)
		require.Equal(t, ev, parsed)
	}
}

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }
