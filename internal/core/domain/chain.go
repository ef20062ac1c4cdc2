package domain

import "strings"

const (
	ChainTypeEthereum = "ethereum"
	ChainTypeQtum     = "qtum"

	explorerHashPlaceholder = "{{hash}}"
)

// Config is the wallet configuration received along with the initial state.
type Config struct {
	// EnabledChains lists the ids of the chains the wallet supports. It must
	// contain at least one value.
	EnabledChains []string               `json:"enabledChains"`
	Chains        map[string]ChainConfig `json:"chains"`
	// RequiredPasswordEntropy is the minimum entropy a new password must have.
	RequiredPasswordEntropy float64 `json:"requiredPasswordEntropy"`
	DefaultGasPrice         string  `json:"defaultGasPrice,omitempty"`
}

// ChainConfig is the static configuration of a single chain.
type ChainConfig struct {
	DisplayName      string `json:"displayName"`
	Symbol           string `json:"symbol"`
	ChainType        string `json:"chainType"`
	ChainID          string `json:"chainId"`
	Decimals         int32  `json:"decimals"`
	MetTokenAddress  string `json:"metTokenAddress"`
	ConverterAddress string `json:"converterAddress"`
	// ExplorerURL contains a {{hash}} placeholder replaced by the tx hash.
	ExplorerURL         string `json:"explorerUrl,omitempty"`
	DefaultGasPrice     string `json:"defaultGasPrice"`
	CoinDefaultGasLimit string `json:"coinDefaultGasLimit"`
	MetDefaultGasLimit  string `json:"metDefaultGasLimit"`
}

// UsesGas returns whether transactions on the chain require explicit gas
// price and limit.
func (c ChainConfig) UsesGas() bool {
	return c.ChainType == ChainTypeEthereum
}

// Copy returns a deep copy of the config.
func (c Config) Copy() Config {
	out := c
	out.EnabledChains = append([]string(nil), c.EnabledChains...)
	out.Chains = make(map[string]ChainConfig, len(c.Chains))
	for k, v := range c.Chains {
		out.Chains[k] = v
	}
	return out
}

// IsEnabled returns whether the given chain is listed in EnabledChains.
func (c Config) IsEnabled(chain string) bool {
	for _, id := range c.EnabledChains {
		if id == chain {
			return true
		}
	}
	return false
}

// ChainState is the whole state of a single chain.
type ChainState struct {
	Wallets   Wallets        `json:"wallets"`
	Auction   AuctionState   `json:"auction"`
	Converter ConverterState `json:"converter"`
	Port      PortState      `json:"port"`
	Meta      Meta           `json:"meta"`
}

// NewChainState returns an empty chain state.
func NewChainState() ChainState {
	return ChainState{
		Wallets: Wallets{ByID: map[string]Wallet{}},
		Port: PortState{
			PendingImports: []PortOperation{},
			FailedImports:  []PortOperation{},
		},
		Meta: NewMeta(),
	}
}

// Copy returns a deep copy of the chain state.
func (c ChainState) Copy() ChainState {
	out := c
	out.Wallets = c.Wallets.Copy()
	out.Auction = c.Auction.Copy()
	out.Converter = c.Converter.Copy()
	out.Port.PendingImports = append([]PortOperation(nil), c.Port.PendingImports...)
	out.Port.FailedImports = append([]PortOperation(nil), c.Port.FailedImports...)
	out.Meta = c.Meta.Copy()
	return out
}

// Meta holds the chain-wide data gathered by the client.
type Meta struct {
	// Height is -1 until the first block is received.
	Height               int64    `json:"height"`
	BestBlockTimestamp   *int64   `json:"bestBlockTimestamp"`
	GasPrice             string   `json:"gasPrice"`
	Rate                 *float64 `json:"rate"`
	RateLastUpdated      *int64   `json:"rateLastUpdated"`
	AttestationThreshold *int64   `json:"attestationThreshold"`
	ChainHopStartTime    *int64   `json:"chainHopStartTime"`
	IsChainHopEnabled    bool     `json:"isChainHopEnabled"`
	IsWeb3Connected      *bool    `json:"isWeb3Connected"`
	IsIndexerConnected   *bool    `json:"isIndexerConnected"`
}

// NewMeta returns a Meta with unknown height.
func NewMeta() Meta {
	return Meta{Height: -1}
}

// Copy returns a deep copy of the meta.
func (m Meta) Copy() Meta {
	out := m
	out.BestBlockTimestamp = copyInt64(m.BestBlockTimestamp)
	out.Rate = copyFloat64(m.Rate)
	out.RateLastUpdated = copyInt64(m.RateLastUpdated)
	out.AttestationThreshold = copyInt64(m.AttestationThreshold)
	out.ChainHopStartTime = copyInt64(m.ChainHopStartTime)
	out.IsWeb3Connected = copyBool(m.IsWeb3Connected)
	out.IsIndexerConnected = copyBool(m.IsIndexerConnected)
	return out
}

// AuctionStatus is the status of the current auction as reported by the
// client. Amounts are wei strings.
type AuctionStatus struct {
	CurrentAuction       string `json:"currentAuction"`
	CurrentPrice         string `json:"currentPrice"`
	TokenRemaining       string `json:"tokenRemaining"`
	GenesisTime          int64  `json:"genesisTime,omitempty"`
	NextAuctionStartTime int64  `json:"nextAuctionStartTime,omitempty"`
}

// AuctionState wraps the auction status along with its update time.
type AuctionState struct {
	LastUpdated *int64         `json:"lastUpdated"`
	Status      *AuctionStatus `json:"status"`
}

// Copy returns a deep copy of the auction state.
func (a AuctionState) Copy() AuctionState {
	out := AuctionState{LastUpdated: copyInt64(a.LastUpdated)}
	if a.Status != nil {
		st := *a.Status
		out.Status = &st
	}
	return out
}

// ConverterStatus is the status of the converter contract.
type ConverterStatus struct {
	AvailableCoin string `json:"availableCoin"`
	AvailableMet  string `json:"availableMet"`
	CurrentPrice  string `json:"currentPrice"`
}

// ConverterState wraps the converter status along with its update time.
type ConverterState struct {
	LastUpdated *int64           `json:"lastUpdated"`
	Status      *ConverterStatus `json:"status"`
}

// Copy returns a deep copy of the converter state.
func (c ConverterState) Copy() ConverterState {
	out := ConverterState{LastUpdated: copyInt64(c.LastUpdated)}
	if c.Status != nil {
		st := *c.Status
		out.Status = &st
	}
	return out
}

// PortState is the port branch hydrated from the persisted state.
type PortState struct {
	PendingImports []PortOperation `json:"pendingImports"`
	FailedImports  []PortOperation `json:"failedImports"`
}

func copyInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyFloat64(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// TxExplorerURL returns the explorer link of the given transaction, or "#"
// if the chain has no explorer configured.
func (c ChainConfig) TxExplorerURL(hash string) string {
	if c.ExplorerURL == "" {
		return "#"
	}
	return strings.ReplaceAll(c.ExplorerURL, explorerHashPlaceholder, hash)
}
