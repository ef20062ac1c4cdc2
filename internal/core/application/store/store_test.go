package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/metwallet/walletd/internal/core/application/store"
	"github.com/metwallet/walletd/internal/core/application/testutil"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/stretchr/testify/require"
)

var ctx = context.Background()

func newTestStore(t *testing.T) *store.Store {
	s, err := testutil.NewStore(testutil.NewInitialState(
		testutil.Balances{Coin: testutil.Str("0"), Met: testutil.Str("0")},
		testutil.Balances{Coin: testutil.Str(testutil.OneEther)},
	))
	require.NoError(t, err)
	return s
}

func TestInitialStateRequiresEnabledChains(t *testing.T) {
	t.Parallel()

	s := store.NewStore()
	err := s.Dispatch(ctx, store.InitialStateReceived{})
	require.ErrorIs(t, err, domain.ErrMissingEnabledChains)

	state := s.State()
	require.Empty(t, state.Chains.ByID)
	require.Empty(t, state.Config.EnabledChains)
}

func TestInitialStateActiveChain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		persisted      string
		expectedActive string
	}{
		{"persisted_enabled", testutil.QtumChain, testutil.QtumChain},
		{"persisted_not_enabled", "etc", testutil.EthChain},
		{"nothing_persisted", "", testutil.EthChain},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			initial := testutil.NewInitialState(testutil.Balances{}, testutil.Balances{})
			initial.Chains.Active = tt.persisted

			s := store.NewStore()
			require.NoError(t, s.Dispatch(ctx, initial))

			state := s.State()
			require.Equal(t, tt.expectedActive, state.Chains.Active)
			require.Len(t, state.Chains.ByID, 2)
			require.Equal(t, int64(-1), state.Chains.ByID[testutil.EthChain].Meta.Height)
		})
	}
}

func TestInitialStateWithoutPersistedChains(t *testing.T) {
	t.Parallel()

	s := store.NewStore()
	err := s.Dispatch(ctx, store.InitialStateReceived{Config: testutil.NewConfig()})
	require.NoError(t, err)

	state := s.State()
	require.Len(t, state.Chains.ByID, 2)
	eth := state.Chains.ByID[testutil.EthChain]
	require.NotNil(t, eth.Wallets.ByID)
	require.NotNil(t, eth.Port.FailedImports)
	require.Equal(t, "1000000000", eth.Meta.GasPrice)
}

func TestChainEventsTargetSingleChain(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.Dispatch(ctx, store.CoinBlock{
		ChainTarget: store.ChainTarget{Chain: testutil.QtumChain},
		Number:      100,
	}))
	state := s.State()
	require.Equal(t, int64(100), state.Chains.ByID[testutil.QtumChain].Meta.Height)
	require.Equal(t, int64(-1), state.Chains.ByID[testutil.EthChain].Meta.Height)

	require.NoError(t, s.Dispatch(ctx, store.GasPriceUpdated{GasPrice: "5"}))
	state = s.State()
	require.Equal(t, "5", state.Chains.ByID[testutil.QtumChain].Meta.GasPrice)
	require.Equal(t, "5", state.Chains.ByID[testutil.EthChain].Meta.GasPrice)
}

func TestWalletStateChangedMergesTransactions(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	first := domain.RawTransaction{Transaction: domain.TxData{Hash: "0x1", Value: "1"}}
	second := domain.RawTransaction{Transaction: domain.TxData{Hash: "0x2", Value: "2"}}
	require.NoError(t, s.Dispatch(ctx, testutil.AddTransactions(
		testutil.EthChain, testutil.EthAddress, first, second,
	)))

	mined := domain.RawTransaction{
		Transaction: domain.TxData{Hash: "0x2", Value: "2", BlockNumber: testutil.Int64(7)},
	}
	third := domain.RawTransaction{Transaction: domain.TxData{Hash: "0x3", Value: "3"}}
	require.NoError(t, s.Dispatch(ctx, testutil.AddTransactions(
		testutil.EthChain, testutil.EthAddress, mined, third,
	)))

	addr := s.State().Chains.ByID[testutil.EthChain].
		Wallets.ByID[testutil.WalletID].Addresses[testutil.EthAddress]
	require.Len(t, addr.Transactions, 3)

	byHash := map[string]domain.RawTransaction{}
	for _, tx := range addr.Transactions {
		byHash[tx.Transaction.Hash] = tx
	}
	require.NotNil(t, byHash["0x2"].Transaction.BlockNumber)
	require.Equal(t, int64(7), *byHash["0x2"].Transaction.BlockNumber)

	// balances are kept when the incoming wallet state does not carry them
	require.NotNil(t, addr.Balance)
	require.Equal(t, "0", *addr.Balance)
	require.Equal(t, "0", *addr.TokenBalance(testutil.EthMetToken))

	qtumAddr := s.State().Chains.ByID[testutil.QtumChain].
		Wallets.ByID[testutil.WalletID].Addresses[testutil.QtumAddress]
	require.Empty(t, qtumAddr.Transactions)
}

func TestIsOnline(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	require.True(t, s.State().Connectivity.IsOnline)

	require.NoError(t, s.Dispatch(ctx, store.ConnectivityStateChanged{Ok: false}))
	require.False(t, s.State().Connectivity.IsOnline)

	events := []store.Event{
		store.ConverterStatusUpdated{},
		store.AuctionStatusUpdated{},
		store.WalletStateChanged{},
		store.CoinPriceUpdated{Price: 1},
		store.CoinBlock{Number: 1},
	}
	for _, ev := range events {
		require.NoError(t, s.Dispatch(ctx, store.ConnectivityStateChanged{Ok: false}))
		require.NoError(t, s.Dispatch(ctx, ev))
		require.True(t, s.State().Connectivity.IsOnline, ev.Type().String())
	}

	require.NoError(t, s.Dispatch(ctx, store.GasPriceUpdated{GasPrice: "1"}))
	require.NoError(t, s.Dispatch(ctx, store.ConnectivityStateChanged{Ok: false}))
	require.NoError(t, s.Dispatch(ctx, store.GasPriceUpdated{GasPrice: "2"}))
	require.False(t, s.State().Connectivity.IsOnline)
}

func TestStatusUpdates(t *testing.T) {
	t.Parallel()

	now := time.Unix(1700000000, 0)
	s := store.NewStoreWithClock(func() time.Time { return now })
	require.NoError(t, s.Dispatch(ctx, testutil.NewInitialState(
		testutil.Balances{}, testutil.Balances{},
	)))

	require.NoError(t, s.Dispatch(ctx, store.AuctionStatusUpdated{
		CurrentAuction: testutil.Str("12"),
		CurrentPrice:   testutil.Str("100"),
		TokenRemaining: testutil.Str("500"),
	}))
	require.NoError(t, s.Dispatch(ctx, store.AuctionStatusUpdated{
		TokenRemaining: testutil.Str("0"),
	}))
	require.NoError(t, s.Dispatch(ctx, store.ChainHopStartTimeUpdated{
		ChainHopStartTime: now.UnixMilli() - 1,
	}))
	require.NoError(t, s.Dispatch(ctx, store.AttestationThresholdUpdated{Threshold: 3}))

	eth := s.State().Chains.ByID[testutil.EthChain]
	require.Equal(t, now.Unix(), *eth.Auction.LastUpdated)
	require.Equal(t, "12", eth.Auction.Status.CurrentAuction)
	require.Equal(t, "100", eth.Auction.Status.CurrentPrice)
	require.Equal(t, "0", eth.Auction.Status.TokenRemaining)
	require.True(t, eth.Meta.IsChainHopEnabled)
	require.Equal(t, int64(3), *eth.Meta.AttestationThreshold)
}

func TestSessionAndWallets(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.Dispatch(ctx, store.SessionStarted{}))
	require.NoError(t, s.Dispatch(ctx, store.RequiredDataGathered{}))
	require.NoError(t, s.Dispatch(ctx, store.WalletError{Message: "boom"}))
	require.NoError(t, s.Dispatch(ctx, store.OpenWallets{WalletIDs: []string{"a", "b"}}))

	state := s.State()
	require.True(t, state.Session.IsLoggedIn)
	require.True(t, state.Session.HasEnoughData)
	require.Equal(t, "boom", state.Session.LastError)
	require.Equal(t, "a", state.Chains.ByID[testutil.EthChain].Wallets.Active)

	require.NoError(t, s.Dispatch(ctx, store.CreateWallet{
		ChainTarget: store.ChainTarget{Chain: testutil.EthChain},
		WalletID:    "c",
	}))
	state = s.State()
	require.Equal(t, []string{"a", "b", "c"}, state.Chains.ByID[testutil.EthChain].Wallets.AllIDs)
	require.Equal(t, "c", state.Chains.ByID[testutil.EthChain].Wallets.Active)
	require.Equal(t, "a", state.Chains.ByID[testutil.QtumChain].Wallets.Active)
}

func TestTransactionsScan(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	target := store.ChainTarget{Chain: testutil.EthChain}

	require.NoError(t, s.Dispatch(ctx, store.TransactionsScanStarted{ChainTarget: target}))
	wallets := s.State().Chains.ByID[testutil.EthChain].Wallets
	require.True(t, wallets.IsScanningTx)
	require.Equal(t, domain.SyncStatusSyncing, wallets.SyncStatus)

	failed := false
	require.NoError(t, s.Dispatch(ctx, store.TransactionsScanFinished{
		ChainTarget: target, Success: &failed,
	}))
	wallets = s.State().Chains.ByID[testutil.EthChain].Wallets
	require.False(t, wallets.IsScanningTx)
	require.Equal(t, domain.SyncStatusFailed, wallets.SyncStatus)

	err := s.Dispatch(ctx, store.TransactionsSyncStatusChanged{ChainTarget: target, Status: "nope"})
	require.ErrorIs(t, err, store.ErrUnknownSyncStatus)
}

func TestActiveChainChanged(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.Dispatch(ctx, store.ActiveChainChanged{Chain: testutil.QtumChain}))
	require.Equal(t, testutil.QtumChain, s.State().Chains.Active)

	err := s.Dispatch(ctx, store.ActiveChainChanged{Chain: "etc"})
	require.ErrorIs(t, err, domain.ErrChainNotEnabled)
	require.Equal(t, testutil.QtumChain, s.State().Chains.Active)
}

func TestConnectionStatusChanged(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	require.NoError(t, s.Dispatch(ctx, store.ConnectionStatusChanged{
		ChainTarget: store.ChainTarget{Chain: testutil.EthChain},
		Key:         store.ConnectionWeb3,
		Connected:   true,
	}))

	state := s.State()
	require.True(t, state.Connectivity.Connections[store.ConnectionWeb3])
	require.True(t, *state.Chains.ByID[testutil.EthChain].Meta.IsWeb3Connected)
	require.Nil(t, state.Chains.ByID[testutil.QtumChain].Meta.IsWeb3Connected)
}

func TestSubscribe(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	var received []store.EventType
	_, unsubscribe := s.Subscribe(func(state domain.State, ev store.Event) {
		received = append(received, ev.Type())
	})

	require.NoError(t, s.Dispatch(ctx, store.SessionStarted{}))
	require.Error(t, s.Dispatch(ctx, store.ActiveChainChanged{Chain: "etc"}))
	unsubscribe()
	require.NoError(t, s.Dispatch(ctx, store.RequiredDataGathered{}))

	require.Equal(t, []store.EventType{store.EventSessionStarted}, received)
}

func TestStateIsACopy(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)

	state := s.State()
	state.Chains.Active = testutil.QtumChain
	*state.Chains.ByID[testutil.EthChain].Wallets.ByID[testutil.WalletID].
		Addresses[testutil.EthAddress].Balance = "42"

	fresh := s.State()
	require.Equal(t, testutil.EthChain, fresh.Chains.Active)
	require.Equal(t, "0", *fresh.Chains.ByID[testutil.EthChain].Wallets.ByID[testutil.WalletID].
		Addresses[testutil.EthAddress].Balance)
}
