// Package selectors derives read-only view models from a state snapshot.
// Every function is pure and can be recomputed on each state change.
package selectors

import (
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/pkg/mathutil"
)

const noAuction = "-1"

// ActiveChain returns the id of the active chain.
func ActiveChain(s domain.State) string {
	return s.Chains.Active
}

// ActiveChainConfig returns the config of the active chain.
func ActiveChainConfig(s domain.State) domain.ChainConfig {
	return s.Config.Chains[s.Chains.Active]
}

// ActiveChainDisplayName returns the display name of the active chain.
func ActiveChainDisplayName(s domain.State) string {
	return ActiveChainConfig(s).DisplayName
}

// CoinSymbol returns the symbol of the active chain native coin.
func CoinSymbol(s domain.State) string {
	return ActiveChainConfig(s).Symbol
}

func IsOnline(s domain.State) bool {
	return s.Connectivity.IsOnline
}

func IsLoggedIn(s domain.State) bool {
	return s.Session.IsLoggedIn
}

// HasEnoughData returns whether the data required to show the wallet has
// been gathered.
func HasEnoughData(s domain.State) bool {
	return s.Session.HasEnoughData
}

func LastError(s domain.State) string {
	return s.Session.LastError
}

// IsMultiChain returns whether at least two chains are enabled.
func IsMultiChain(s domain.State) bool {
	return len(s.Config.EnabledChains) > 1
}

func activeChainState(s domain.State) domain.ChainState {
	cs, _ := s.ActiveChainState()
	return cs
}

// ActiveWalletID returns the id of the active wallet on the active chain.
func ActiveWalletID(s domain.State) string {
	return activeChainState(s).Wallets.Active
}

// ActiveAddress returns the active address of the active wallet on the
// active chain, or an empty string.
func ActiveAddress(s domain.State) string {
	address, _, _ := chainAddress(s, s.Chains.Active)
	return address
}

// ChainActiveAddress returns the active address of the active wallet of
// the given chain, or an empty string.
func ChainActiveAddress(s domain.State, chain string) string {
	address, _, _ := chainAddress(s, chain)
	return address
}

// chainAddress returns the active address of the active wallet of the given
// chain along with its data.
func chainAddress(s domain.State, chain string) (string, domain.Address, bool) {
	cs, ok := s.Chains.ByID[chain]
	if !ok {
		return "", domain.Address{}, false
	}
	wallet, ok := cs.Wallets.ActiveWallet()
	if !ok {
		return "", domain.Address{}, false
	}
	address, ok := wallet.ActiveAddress()
	if !ok {
		return "", domain.Address{}, false
	}
	return address, wallet.Addresses[address], true
}

// CoinBalanceWei returns the native coin balance of the active address, nil
// if unknown.
func CoinBalanceWei(s domain.State) *string {
	_, addr, ok := chainAddress(s, s.Chains.Active)
	if !ok {
		return nil
	}
	return addr.Balance
}

// MetBalanceWei returns the MET balance of the active address, nil if
// unknown.
func MetBalanceWei(s domain.State) *string {
	_, addr, ok := chainAddress(s, s.Chains.Active)
	if !ok {
		return nil
	}
	return addr.TokenBalance(ActiveChainConfig(s).MetTokenAddress)
}

// CoinRate returns the USD rate of the active chain coin, nil if unknown.
func CoinRate(s domain.State) *float64 {
	return activeChainState(s).Meta.Rate
}

// CoinBalanceUSD returns the USD value of the coin balance of the active
// address with 2 decimal places, "0" if balance or rate are unknown.
func CoinBalanceUSD(s domain.State) string {
	balance := CoinBalanceWei(s)
	if balance == nil {
		return "0"
	}
	return toUSD(s, *balance)
}

// MetBalanceUSD is always "0" since there is no MET:USD rate.
func MetBalanceUSD(domain.State) string {
	return "0"
}

func toUSD(s domain.State, amount string) string {
	rate := CoinRate(s)
	if amount == "" || rate == nil || *rate == 0 {
		return "0"
	}
	usd, ok := mathutil.SmallestToUSD(amount, ActiveChainConfig(s).Decimals, *rate)
	if !ok {
		return "0"
	}
	return mathutil.FormatUSD(usd)
}

func AuctionStatus(s domain.State) *domain.AuctionStatus {
	return activeChainState(s).Auction.Status
}

func AuctionLastUpdated(s domain.State) *int64 {
	return activeChainState(s).Auction.LastUpdated
}

// CurrentAuction returns the number of the current auction, "-1" if
// unknown.
func CurrentAuction(s domain.State) string {
	status := AuctionStatus(s)
	if status == nil || status.CurrentAuction == "" {
		return noAuction
	}
	return status.CurrentAuction
}

// AuctionPriceUSD returns the USD value of the current auction price.
func AuctionPriceUSD(s domain.State) string {
	status := AuctionStatus(s)
	if status == nil {
		return "0"
	}
	return toUSD(s, status.CurrentPrice)
}

func ConverterStatus(s domain.State) *domain.ConverterStatus {
	return activeChainState(s).Converter.Status
}

func ConverterLastUpdated(s domain.State) *int64 {
	return activeChainState(s).Converter.LastUpdated
}

// ConverterPrice returns the current converter price in wei, nil if
// unknown.
func ConverterPrice(s domain.State) *string {
	status := ConverterStatus(s)
	if status == nil {
		return nil
	}
	price := status.CurrentPrice
	return &price
}

// ConverterPriceUSD returns the USD value of the converter price.
func ConverterPriceUSD(s domain.State) string {
	status := ConverterStatus(s)
	if status == nil {
		return "0"
	}
	return toUSD(s, status.CurrentPrice)
}

func ChainMeta(s domain.State) domain.Meta {
	return activeChainState(s).Meta
}

// BlockHeight returns the height of the active chain, -1 if unknown.
func BlockHeight(s domain.State) int64 {
	cs, ok := s.ActiveChainState()
	if !ok {
		return -1
	}
	return cs.Meta.Height
}

func AttestationThreshold(s domain.State) *int64 {
	return ChainMeta(s).AttestationThreshold
}

// ChainGasPrice returns the gas price of the active chain, falling back to
// the chain default one.
func ChainGasPrice(s domain.State) string {
	if gasPrice := ChainMeta(s).GasPrice; gasPrice != "" {
		return gasPrice
	}
	return ActiveChainConfig(s).DefaultGasPrice
}

// ChainConnectionStatus returns whether the active chain node is
// connected, nil if unknown.
func ChainConnectionStatus(s domain.State) *bool {
	if s.Chains.Active == "" {
		return nil
	}
	return ChainMeta(s).IsWeb3Connected
}

// IndexerConnectionStatus returns whether the active chain indexer is
// connected, nil if unknown.
func IndexerConnectionStatus(s domain.State) *bool {
	if s.Chains.Active == "" {
		return nil
	}
	return ChainMeta(s).IsIndexerConnected
}

// ExplorerURL returns the explorer link of the given transaction on the
// active chain.
func ExplorerURL(s domain.State, hash string) string {
	return ActiveChainConfig(s).TxExplorerURL(hash)
}

// TxConfirmations returns the confirmations of tx on the active chain.
func TxConfirmations(s domain.State, tx domain.ParsedTransaction) int64 {
	return domain.Confirmations(BlockHeight(s), tx.BlockNumber)
}
