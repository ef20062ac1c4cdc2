package store

import (
	"github.com/metwallet/walletd/internal/core/domain"
)

// EventType enumerates the events the store reacts to.
type EventType int

const (
	EventInitialStateReceived EventType = iota
	EventWalletStateChanged
	EventCoinBlock
	EventCoinPriceUpdated
	EventGasPriceUpdated
	EventAuctionStatusUpdated
	EventConverterStatusUpdated
	EventAttestationThresholdUpdated
	EventChainHopStartTimeUpdated
	EventConnectivityStateChanged
	EventConnectionStatusChanged
	EventTransactionsScanStarted
	EventTransactionsScanFinished
	EventTransactionsSyncStatusChanged
	EventSessionStarted
	EventRequiredDataGathered
	EventWalletError
	EventActiveChainChanged
	EventCreateWallet
	EventOpenWallets
)

const connectionStatusSuffix = "-connection-status-changed"

var eventTags = map[EventType]string{
	EventInitialStateReceived:          "initial-state-received",
	EventWalletStateChanged:            "wallet-state-changed",
	EventCoinBlock:                     "coin-block",
	EventCoinPriceUpdated:              "coin-price-updated",
	EventGasPriceUpdated:               "gas-price-updated",
	EventAuctionStatusUpdated:          "auction-status-updated",
	EventConverterStatusUpdated:        "converter-status-updated",
	EventAttestationThresholdUpdated:   "attestation-threshold-updated",
	EventChainHopStartTimeUpdated:      "chain-hop-start-time-updated",
	EventConnectivityStateChanged:      "connectivity-state-changed",
	EventConnectionStatusChanged:       connectionStatusSuffix,
	EventTransactionsScanStarted:       "transactions-scan-started",
	EventTransactionsScanFinished:      "transactions-scan-finished",
	EventTransactionsSyncStatusChanged: "transactions-sync-status-changed",
	EventSessionStarted:                "session-started",
	EventRequiredDataGathered:          "required-data-gathered",
	EventWalletError:                   "wallet-error",
	EventActiveChainChanged:            "active-chain-changed",
	EventCreateWallet:                  "create-wallet",
	EventOpenWallets:                   "open-wallets",
}

// String returns the wire tag of the event type. Connection status events
// are tagged <key>-connection-status-changed, see ConnectionStatusChanged.Tag.
func (t EventType) String() string {
	if tag, ok := eventTags[t]; ok {
		return tag
	}
	return "unknown"
}

// Event is implemented by every event payload of this package only.
type Event interface {
	Type() EventType
	isEvent()
}

// ChainEvent is an event that may target a single chain. An empty target
// means every chain.
type ChainEvent interface {
	Event
	TargetChain() string
}

// ChainTarget is embedded by per-chain events.
type ChainTarget struct {
	Chain string `json:"chain,omitempty"`
}

func (c ChainTarget) TargetChain() string { return c.Chain }

type InitialStateReceived struct {
	Config domain.Config `json:"config"`
	Chains domain.Chains `json:"chains"`
}

type WalletStateChanged struct {
	ChainTarget
	Wallets map[string]domain.Wallet `json:"wallets"`
}

type CoinBlock struct {
	ChainTarget
	Number    int64  `json:"number"`
	Timestamp *int64 `json:"timestamp,omitempty"`
}

type CoinPriceUpdated struct {
	ChainTarget
	Price float64 `json:"price"`
}

type GasPriceUpdated struct {
	ChainTarget
	GasPrice string `json:"gasPrice"`
}

// AuctionStatusUpdated patches the auction status, nil fields are left
// untouched.
type AuctionStatusUpdated struct {
	ChainTarget
	CurrentAuction       *string `json:"currentAuction,omitempty"`
	CurrentPrice         *string `json:"currentPrice,omitempty"`
	TokenRemaining       *string `json:"tokenRemaining,omitempty"`
	GenesisTime          *int64  `json:"genesisTime,omitempty"`
	NextAuctionStartTime *int64  `json:"nextAuctionStartTime,omitempty"`
}

type ConverterStatusUpdated struct {
	ChainTarget
	domain.ConverterStatus
}

type AttestationThresholdUpdated struct {
	ChainTarget
	Threshold int64 `json:"threshold"`
}

// ChainHopStartTimeUpdated carries the chain hop start time in milliseconds
// since epoch.
type ChainHopStartTimeUpdated struct {
	ChainTarget
	ChainHopStartTime int64 `json:"chainHopStartTime"`
}

type ConnectivityStateChanged struct {
	Ok bool `json:"ok"`
}

// ConnectionStatusChanged reports the status of a single connection of the
// client, identified by Key (ie. web3, indexer).
type ConnectionStatusChanged struct {
	ChainTarget
	Key       string `json:"-"`
	Connected bool   `json:"connected"`
}

// Tag returns the wire tag of the event.
func (e ConnectionStatusChanged) Tag() string {
	return e.Key + connectionStatusSuffix
}

type TransactionsScanStarted struct {
	ChainTarget
}

type TransactionsScanFinished struct {
	ChainTarget
	// Success is nil when the client does not report the scan outcome.
	Success *bool `json:"success,omitempty"`
}

type TransactionsSyncStatusChanged struct {
	ChainTarget
	Status string `json:"status"`
}

type SessionStarted struct{}

type RequiredDataGathered struct{}

type WalletError struct {
	Message string `json:"message"`
}

type ActiveChainChanged struct {
	Chain string `json:"chain"`
}

type CreateWallet struct {
	ChainTarget
	WalletID string `json:"walletId"`
}

type OpenWallets struct {
	ChainTarget
	WalletIDs    []string `json:"walletIds"`
	ActiveWallet string   `json:"activeWallet,omitempty"`
}

func (InitialStateReceived) Type() EventType          { return EventInitialStateReceived }
func (WalletStateChanged) Type() EventType            { return EventWalletStateChanged }
func (CoinBlock) Type() EventType                     { return EventCoinBlock }
func (CoinPriceUpdated) Type() EventType              { return EventCoinPriceUpdated }
func (GasPriceUpdated) Type() EventType               { return EventGasPriceUpdated }
func (AuctionStatusUpdated) Type() EventType          { return EventAuctionStatusUpdated }
func (ConverterStatusUpdated) Type() EventType        { return EventConverterStatusUpdated }
func (AttestationThresholdUpdated) Type() EventType   { return EventAttestationThresholdUpdated }
func (ChainHopStartTimeUpdated) Type() EventType      { return EventChainHopStartTimeUpdated }
func (ConnectivityStateChanged) Type() EventType      { return EventConnectivityStateChanged }
func (ConnectionStatusChanged) Type() EventType       { return EventConnectionStatusChanged }
func (TransactionsScanStarted) Type() EventType       { return EventTransactionsScanStarted }
func (TransactionsScanFinished) Type() EventType      { return EventTransactionsScanFinished }
func (TransactionsSyncStatusChanged) Type() EventType { return EventTransactionsSyncStatusChanged }
func (SessionStarted) Type() EventType                { return EventSessionStarted }
func (RequiredDataGathered) Type() EventType          { return EventRequiredDataGathered }
func (WalletError) Type() EventType                   { return EventWalletError }
func (ActiveChainChanged) Type() EventType            { return EventActiveChainChanged }
func (CreateWallet) Type() EventType                  { return EventCreateWallet }
func (OpenWallets) Type() EventType                   { return EventOpenWallets }

func (InitialStateReceived) isEvent()          {}
func (WalletStateChanged) isEvent()            {}
func (CoinBlock) isEvent()                     {}
func (CoinPriceUpdated) isEvent()              {}
func (GasPriceUpdated) isEvent()               {}
func (AuctionStatusUpdated) isEvent()          {}
func (ConverterStatusUpdated) isEvent()        {}
func (AttestationThresholdUpdated) isEvent()   {}
func (ChainHopStartTimeUpdated) isEvent()      {}
func (ConnectivityStateChanged) isEvent()      {}
func (ConnectionStatusChanged) isEvent()       {}
func (TransactionsScanStarted) isEvent()       {}
func (TransactionsScanFinished) isEvent()      {}
func (TransactionsSyncStatusChanged) isEvent() {}
func (SessionStarted) isEvent()                {}
func (RequiredDataGathered) isEvent()          {}
func (WalletError) isEvent()                   {}
func (ActiveChainChanged) isEvent()            {}
func (CreateWallet) isEvent()                  {}
func (OpenWallets) isEvent()                   {}
