package domain

import "sort"

const (
	SyncStatusSyncing  = "syncing"
	SyncStatusUpToDate = "up-to-date"
	SyncStatusFailed   = "failed"
)

// Wallets is the wallets branch of a chain state.
type Wallets struct {
	Active       string            `json:"active"`
	AllIDs       []string          `json:"allIds"`
	ByID         map[string]Wallet `json:"byId"`
	IsScanningTx bool              `json:"isScanningTx"`
	SyncStatus   string            `json:"syncStatus,omitempty"`
}

// Wallet is a named keyset holding one or more addresses.
type Wallet struct {
	Addresses map[string]Address `json:"addresses"`
}

// Address holds balances and the transaction history of a single address.
type Address struct {
	// Balance is the native coin balance in wei, nil until known.
	Balance      *string                 `json:"balance"`
	Token        map[string]TokenBalance `json:"token,omitempty"`
	Transactions []RawTransaction        `json:"transactions,omitempty"`
}

// TokenBalance is the balance of a token contract, in wei, nil until known.
type TokenBalance struct {
	Balance *string `json:"balance"`
	Symbol  string  `json:"symbol,omitempty"`
}

// ActiveWallet returns the active wallet, if any.
func (w Wallets) ActiveWallet() (Wallet, bool) {
	if w.Active == "" || w.ByID == nil {
		return Wallet{}, false
	}
	wallet, ok := w.ByID[w.Active]
	return wallet, ok
}

// ActiveAddress returns the address used as current context for the active
// wallet. Addresses are sorted to make the choice stable.
func (w Wallet) ActiveAddress() (string, bool) {
	addresses := w.SortedAddresses()
	if len(addresses) <= 0 {
		return "", false
	}
	return addresses[0], true
}

// SortedAddresses returns the addresses of the wallet in lexicographic order.
func (w Wallet) SortedAddresses() []string {
	addresses := make([]string, 0, len(w.Addresses))
	for addr := range w.Addresses {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)
	return addresses
}

// TokenBalance returns the balance of the given token contract, nil if
// unknown.
func (a Address) TokenBalance(contract string) *string {
	if a.Token == nil {
		return nil
	}
	tb, ok := a.Token[contract]
	if !ok {
		return nil
	}
	return tb.Balance
}

// Copy returns a deep copy of the wallets branch.
func (w Wallets) Copy() Wallets {
	out := w
	out.AllIDs = append([]string(nil), w.AllIDs...)
	if w.ByID != nil {
		out.ByID = make(map[string]Wallet, len(w.ByID))
		for id, wallet := range w.ByID {
			out.ByID[id] = wallet.Copy()
		}
	}
	return out
}

// Copy returns a deep copy of the wallet.
func (w Wallet) Copy() Wallet {
	out := Wallet{Addresses: make(map[string]Address, len(w.Addresses))}
	for addr, data := range w.Addresses {
		out.Addresses[addr] = data.Copy()
	}
	return out
}

// Copy returns a deep copy of the address.
func (a Address) Copy() Address {
	out := Address{Balance: copyString(a.Balance)}
	if a.Token != nil {
		out.Token = make(map[string]TokenBalance, len(a.Token))
		for k, v := range a.Token {
			out.Token[k] = TokenBalance{Balance: copyString(v.Balance), Symbol: v.Symbol}
		}
	}
	if a.Transactions != nil {
		out.Transactions = make([]RawTransaction, len(a.Transactions))
		for i, tx := range a.Transactions {
			out.Transactions[i] = tx.Copy()
		}
	}
	return out
}

func copyString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
