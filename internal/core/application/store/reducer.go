package store

import (
	"fmt"
	"time"

	"github.com/metwallet/walletd/internal/core/domain"
)

const (
	ConnectionWeb3    = "web3"
	ConnectionIndexer = "indexer"
)

// Reduce applies ev to state in place. The returned error reports invariant
// violations, state is left untouched in that case.
func Reduce(state *domain.State, ev Event, now time.Time) error {
	switch e := ev.(type) {
	case InitialStateReceived:
		return reduceInitialState(state, e)
	case ActiveChainChanged:
		if !state.Config.IsEnabled(e.Chain) {
			return fmt.Errorf("%w: %s", domain.ErrChainNotEnabled, e.Chain)
		}
		state.Chains.Active = e.Chain
		return nil
	}

	reduceConnectivity(state, ev)
	reduceSession(state, ev)

	ce, ok := ev.(ChainEvent)
	if !ok {
		return nil
	}
	if e, ok := ev.(TransactionsSyncStatusChanged); ok {
		if !isValidSyncStatus(e.Status) {
			return fmt.Errorf("%w: %s", ErrUnknownSyncStatus, e.Status)
		}
	}
	for _, id := range state.ChainIDs() {
		if target := ce.TargetChain(); target != "" && target != id {
			continue
		}
		cs := state.Chains.ByID[id]
		reduceChain(&cs, ev, now)
		state.Chains.ByID[id] = cs
	}
	return nil
}

func reduceInitialState(state *domain.State, e InitialStateReceived) error {
	if err := e.Config.Validate(); err != nil {
		return err
	}

	config := e.Config.Copy()
	active := config.EnabledChains[0]
	if config.IsEnabled(e.Chains.Active) {
		active = e.Chains.Active
	}

	byID := make(map[string]domain.ChainState, len(config.EnabledChains))
	for _, id := range config.EnabledChains {
		cs, ok := state.Chains.ByID[id]
		if !ok {
			cs = domain.NewChainState()
		}
		if persisted, ok := e.Chains.ByID[id]; ok {
			cs = hydrateChain(persisted)
		}
		if cs.Meta.GasPrice == "" {
			cs.Meta.GasPrice = config.DefaultGasPrice
		}
		byID[id] = cs
	}

	state.Config = config
	state.Chains = domain.Chains{Active: active, ByID: byID}
	state.Connectivity.Connections = map[string]bool{}
	return nil
}

// hydrateChain returns a copy of the persisted chain state with every
// collection initialized.
func hydrateChain(persisted domain.ChainState) domain.ChainState {
	cs := persisted.Copy()
	if cs.Wallets.ByID == nil {
		cs.Wallets.ByID = map[string]domain.Wallet{}
	}
	if cs.Port.PendingImports == nil {
		cs.Port.PendingImports = []domain.PortOperation{}
	}
	if cs.Port.FailedImports == nil {
		cs.Port.FailedImports = []domain.PortOperation{}
	}
	return cs
}

func reduceConnectivity(state *domain.State, ev Event) {
	switch e := ev.(type) {
	case ConnectivityStateChanged:
		state.Connectivity.IsOnline = e.Ok
	case ConverterStatusUpdated, AuctionStatusUpdated, WalletStateChanged,
		CoinPriceUpdated, CoinBlock:
		state.Connectivity.IsOnline = true
	case ConnectionStatusChanged:
		if state.Connectivity.Connections == nil {
			state.Connectivity.Connections = map[string]bool{}
		}
		state.Connectivity.Connections[e.Key] = e.Connected
	}
}

func reduceSession(state *domain.State, ev Event) {
	switch e := ev.(type) {
	case SessionStarted:
		state.Session.IsLoggedIn = true
	case RequiredDataGathered:
		state.Session.HasEnoughData = true
	case WalletError:
		state.Session.LastError = e.Message
	}
}

func reduceChain(cs *domain.ChainState, ev Event, now time.Time) {
	switch e := ev.(type) {
	case WalletStateChanged:
		mergeWallets(&cs.Wallets, e.Wallets)
	case CreateWallet:
		cs.Wallets.AllIDs = append(cs.Wallets.AllIDs, e.WalletID)
		cs.Wallets.Active = e.WalletID
	case OpenWallets:
		cs.Wallets.AllIDs = append([]string(nil), e.WalletIDs...)
		cs.Wallets.Active = e.ActiveWallet
		if cs.Wallets.Active == "" && len(e.WalletIDs) > 0 {
			cs.Wallets.Active = e.WalletIDs[0]
		}
	case TransactionsScanStarted:
		cs.Wallets.IsScanningTx = true
		cs.Wallets.SyncStatus = domain.SyncStatusSyncing
	case TransactionsScanFinished:
		cs.Wallets.IsScanningTx = false
		cs.Wallets.SyncStatus = domain.SyncStatusUpToDate
		if e.Success != nil && !*e.Success {
			cs.Wallets.SyncStatus = domain.SyncStatusFailed
		}
	case TransactionsSyncStatusChanged:
		cs.Wallets.SyncStatus = e.Status
	case AuctionStatusUpdated:
		lastUpdated := now.Unix()
		cs.Auction.LastUpdated = &lastUpdated
		cs.Auction.Status = patchAuctionStatus(cs.Auction.Status, e)
	case ConverterStatusUpdated:
		lastUpdated := now.Unix()
		status := e.ConverterStatus
		cs.Converter.LastUpdated = &lastUpdated
		cs.Converter.Status = &status
	case CoinBlock:
		cs.Meta.Height = e.Number
		if e.Timestamp != nil {
			ts := *e.Timestamp
			cs.Meta.BestBlockTimestamp = &ts
		}
	case CoinPriceUpdated:
		lastUpdated := now.Unix()
		rate := e.Price
		cs.Meta.Rate = &rate
		cs.Meta.RateLastUpdated = &lastUpdated
	case GasPriceUpdated:
		cs.Meta.GasPrice = e.GasPrice
	case AttestationThresholdUpdated:
		threshold := e.Threshold
		cs.Meta.AttestationThreshold = &threshold
	case ChainHopStartTimeUpdated:
		start := e.ChainHopStartTime
		cs.Meta.ChainHopStartTime = &start
		cs.Meta.IsChainHopEnabled = now.UnixMilli() > start
	case ConnectionStatusChanged:
		connected := e.Connected
		switch e.Key {
		case ConnectionWeb3:
			cs.Meta.IsWeb3Connected = &connected
		case ConnectionIndexer:
			cs.Meta.IsIndexerConnected = &connected
		}
	}
}

func patchAuctionStatus(
	status *domain.AuctionStatus, e AuctionStatusUpdated,
) *domain.AuctionStatus {
	out := domain.AuctionStatus{}
	if status != nil {
		out = *status
	}
	if e.CurrentAuction != nil {
		out.CurrentAuction = *e.CurrentAuction
	}
	if e.CurrentPrice != nil {
		out.CurrentPrice = *e.CurrentPrice
	}
	if e.TokenRemaining != nil {
		out.TokenRemaining = *e.TokenRemaining
	}
	if e.GenesisTime != nil {
		out.GenesisTime = *e.GenesisTime
	}
	if e.NextAuctionStartTime != nil {
		out.NextAuctionStartTime = *e.NextAuctionStartTime
	}
	return &out
}

// mergeWallets deep merges the incoming wallets into the current ones.
// Transactions are joined by hash, the incoming version winning.
func mergeWallets(wallets *domain.Wallets, incoming map[string]domain.Wallet) {
	if wallets.ByID == nil {
		wallets.ByID = map[string]domain.Wallet{}
	}
	for id, in := range incoming {
		current, ok := wallets.ByID[id]
		if !ok || current.Addresses == nil {
			current = domain.Wallet{Addresses: map[string]domain.Address{}}
		}
		for addr, inAddr := range in.Addresses {
			current.Addresses[addr] = mergeAddress(current.Addresses[addr], inAddr)
		}
		wallets.ByID[id] = current
	}
}

func mergeAddress(current, incoming domain.Address) domain.Address {
	out := current.Copy()
	if incoming.Balance != nil {
		balance := *incoming.Balance
		out.Balance = &balance
	}
	if len(incoming.Token) > 0 {
		if out.Token == nil {
			out.Token = map[string]domain.TokenBalance{}
		}
		for contract, tb := range incoming.Token {
			merged := out.Token[contract]
			if tb.Balance != nil {
				balance := *tb.Balance
				merged.Balance = &balance
			}
			if tb.Symbol != "" {
				merged.Symbol = tb.Symbol
			}
			out.Token[contract] = merged
		}
	}
	if incoming.Transactions != nil {
		out.Transactions = unionByHash(incoming.Transactions, out.Transactions)
	}
	return out
}

// unionByHash returns the transactions of first followed by the ones of
// second not found in first, keeping the first occurrence of each hash.
func unionByHash(first, second []domain.RawTransaction) []domain.RawTransaction {
	seen := make(map[string]struct{}, len(first)+len(second))
	out := make([]domain.RawTransaction, 0, len(first)+len(second))
	for _, list := range [][]domain.RawTransaction{first, second} {
		for _, tx := range list {
			hash := tx.Transaction.Hash
			if _, ok := seen[hash]; ok {
				continue
			}
			seen[hash] = struct{}{}
			out = append(out, tx.Copy())
		}
	}
	return out
}

func isValidSyncStatus(status string) bool {
	switch status {
	case domain.SyncStatusSyncing, domain.SyncStatusUpToDate, domain.SyncStatusFailed:
		return true
	}
	return false
}
