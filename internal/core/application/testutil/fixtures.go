// Package testutil provides fixtures and a mocked wallet client shared by the
// application tests.
package testutil

import (
	"context"

	"github.com/metwallet/walletd/internal/core/application/store"
	"github.com/metwallet/walletd/internal/core/domain"
)

const (
	EthChain  = "eth"
	QtumChain = "qtum"

	EthSymbol  = "ETH"
	QtumSymbol = "QTUM"

	WalletID = "wallet-1"

	EthAddress   = "0x1111111111111111111111111111111111111111"
	QtumAddress  = "0x2222222222222222222222222222222222222222"
	OtherAddress = "0x3333333333333333333333333333333333333333"

	EthMetToken  = "0x825a2ce3547e77397b7eac4eb464e2edcfaae514"
	QtumMetToken = "0x9af0d4d2a3b3e1e2b7f5cb5d1c6f8d1b8f5a4d3c"

	OneEther = "1000000000000000000"
)

// NewConfig returns a config enabling the eth and qtum chains.
func NewConfig() domain.Config {
	return domain.Config{
		EnabledChains:           []string{EthChain, QtumChain},
		RequiredPasswordEntropy: 72,
		DefaultGasPrice:         "1000000000",
		Chains: map[string]domain.ChainConfig{
			EthChain: {
				DisplayName:         "Ethereum",
				Symbol:              EthSymbol,
				ChainType:           domain.ChainTypeEthereum,
				ChainID:             "1",
				Decimals:            18,
				MetTokenAddress:     EthMetToken,
				ConverterAddress:    "0x686e5ac50d9236a9b7406791256e47feddb26aba",
				ExplorerURL:         "https://etherscan.io/tx/{{hash}}",
				DefaultGasPrice:     "1000000000",
				CoinDefaultGasLimit: "21000",
				MetDefaultGasLimit:  "250000",
			},
			QtumChain: {
				DisplayName:         "Qtum",
				Symbol:              QtumSymbol,
				ChainType:           domain.ChainTypeQtum,
				ChainID:             "mainnet",
				Decimals:            8,
				MetTokenAddress:     QtumMetToken,
				ConverterAddress:    "0x1a54a1d8c7a7d0c7a6a9d6c4f3e2b1a0c9d8e7f6",
				DefaultGasPrice:     "40",
				CoinDefaultGasLimit: "250000",
				MetDefaultGasLimit:  "250000",
			},
		},
	}
}

// Balances of the active address of a chain. Nil fields are unknown.
type Balances struct {
	Coin *string
	Met  *string
}

// Str returns a pointer to v.
func Str(v string) *string { return &v }

// Int64 returns a pointer to v.
func Int64(v int64) *int64 { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }

// NewInitialState returns an initial state event for the eth and qtum
// chains, eth being active, with the given balances.
func NewInitialState(eth, qtum Balances) store.InitialStateReceived {
	config := NewConfig()
	return store.InitialStateReceived{
		Config: config,
		Chains: domain.Chains{
			Active: EthChain,
			ByID: map[string]domain.ChainState{
				EthChain:  newChainState(EthAddress, EthMetToken, eth),
				QtumChain: newChainState(QtumAddress, QtumMetToken, qtum),
			},
		},
	}
}

func newChainState(address, metToken string, b Balances) domain.ChainState {
	cs := domain.NewChainState()
	cs.Wallets.Active = WalletID
	cs.Wallets.AllIDs = []string{WalletID}
	addr := domain.Address{Balance: b.Coin, Token: map[string]domain.TokenBalance{}}
	if b.Met != nil {
		addr.Token[metToken] = domain.TokenBalance{Balance: b.Met, Symbol: domain.SymbolMET}
	}
	cs.Wallets.ByID[WalletID] = domain.Wallet{
		Addresses: map[string]domain.Address{address: addr},
	}
	return cs
}

// NewStore returns a store that already received the given initial state.
func NewStore(initial store.InitialStateReceived) (*store.Store, error) {
	s := store.NewStore()
	if err := s.Dispatch(context.Background(), initial); err != nil {
		return nil, err
	}
	return s, nil
}

// AddTransactions returns a wallet-state-changed event adding txs to the
// given address of the chain.
func AddTransactions(
	chain, address string, txs ...domain.RawTransaction,
) store.WalletStateChanged {
	return store.WalletStateChanged{
		ChainTarget: store.ChainTarget{Chain: chain},
		Wallets: map[string]domain.Wallet{
			WalletID: {
				Addresses: map[string]domain.Address{
					address: {Transactions: txs},
				},
			},
		},
	}
}

// ExportTx returns an export transaction burning value on the origin chain
// with destination the given chain symbol and address.
func ExportTx(hash, burnHash, destinationSymbol, to, value string) domain.RawTransaction {
	return domain.RawTransaction{
		Transaction: domain.TxData{From: to, Hash: hash, Value: "0", BlockNumber: Int64(10)},
		Receipt:     &domain.Receipt{From: to},
		Meta: domain.TxMeta{
			Metronome: &domain.MetronomeMeta{
				Export: &domain.PortData{
					CurrentBurnHash:  burnHash,
					DestinationChain: destinationSymbol,
					To:               to,
					Value:            value,
					Fee:              "1000",
				},
			},
		},
	}
}

// ImportRequestTx returns an import request transaction for the given burn
// hash.
func ImportRequestTx(hash, burnHash, originSymbol, from, value string) domain.RawTransaction {
	return domain.RawTransaction{
		Transaction: domain.TxData{From: from, Hash: hash, Value: "0", BlockNumber: Int64(20)},
		Meta: domain.TxMeta{
			Metronome: &domain.MetronomeMeta{
				ImportRequest: &domain.PortData{
					CurrentBurnHash: burnHash,
					OriginChain:     originSymbol,
					Value:           value,
				},
			},
		},
	}
}

// ImportTx returns an import transaction for the given burn hash.
func ImportTx(hash, burnHash, originSymbol, from, value string) domain.RawTransaction {
	return domain.RawTransaction{
		Transaction: domain.TxData{From: from, Hash: hash, Value: "0", BlockNumber: Int64(30)},
		Meta: domain.TxMeta{
			Metronome: &domain.MetronomeMeta{
				Import: &domain.PortData{
					CurrentBurnHash: burnHash,
					OriginChain:     originSymbol,
					Value:           value,
				},
			},
		},
	}
}

// AttestationTx returns an attestation on the given burn hash.
func AttestationTx(hash, burnHash, from string, valid bool) domain.RawTransaction {
	return domain.RawTransaction{
		Transaction: domain.TxData{From: from, Hash: hash, Value: "0", BlockNumber: Int64(25)},
		Meta: domain.TxMeta{
			Metronome: &domain.MetronomeMeta{
				Attestation: &domain.Attestation{CurrentBurnHash: burnHash, IsValid: valid},
			},
		},
	}
}
