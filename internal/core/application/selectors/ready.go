package selectors

import "github.com/metwallet/walletd/internal/core/domain"

// ChainReadyStatus tells which of the data required to use a chain has
// been received.
type ChainReadyStatus struct {
	HasCoinBalance bool   `json:"hasCoinBalance"`
	HasMetBalance  bool   `json:"hasMetBalance"`
	HasBlockHeight bool   `json:"hasBlockHeight"`
	HasCoinRate    bool   `json:"hasCoinRate"`
	DisplayName    string `json:"displayName"`
	Symbol         string `json:"symbol"`
}

// IsReady returns whether every required data has been received.
func (c ChainReadyStatus) IsReady() bool {
	return c.HasCoinBalance && c.HasMetBalance && c.HasBlockHeight && c.HasCoinRate
}

// ChainBalance is the MET balance of the active address of a chain.
type ChainBalance struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	Balance     *string `json:"balance"`
}

// ChainsReadyStatus returns the ready status of every chain by id.
func ChainsReadyStatus(s domain.State) map[string]ChainReadyStatus {
	statuses := make(map[string]ChainReadyStatus, len(s.Chains.ByID))
	for chain, cs := range s.Chains.ByID {
		config := s.Config.Chains[chain]
		status := ChainReadyStatus{
			HasBlockHeight: cs.Meta.Height > -1,
			HasCoinRate:    cs.Meta.Rate != nil,
			DisplayName:    config.DisplayName,
			Symbol:         config.Symbol,
		}
		if _, addr, ok := chainAddress(s, chain); ok {
			status.HasCoinBalance = addr.Balance != nil
			status.HasMetBalance = addr.TokenBalance(config.MetTokenAddress) != nil
		}
		statuses[chain] = status
	}
	return statuses
}

// ChainsWithBalances returns the MET balance of every chain, following the
// enabled chains order.
func ChainsWithBalances(s domain.State) []ChainBalance {
	balances := make([]ChainBalance, 0, len(s.Chains.ByID))
	for _, chain := range s.Config.EnabledChains {
		if _, ok := s.Chains.ByID[chain]; !ok {
			continue
		}
		config := s.Config.Chains[chain]
		balance := ChainBalance{ID: chain, DisplayName: config.DisplayName}
		if _, addr, ok := chainAddress(s, chain); ok {
			balance.Balance = addr.TokenBalance(config.MetTokenAddress)
		}
		balances = append(balances, balance)
	}
	return balances
}
