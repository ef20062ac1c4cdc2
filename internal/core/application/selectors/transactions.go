package selectors

import (
	"sort"

	"github.com/metwallet/walletd/internal/core/domain"
)

// ActiveWalletTransactions returns the parsed transactions of the active
// address, latest first. Unmined transactions come before mined ones,
// attestations are hidden.
func ActiveWalletTransactions(s domain.State) []domain.ParsedTransaction {
	address, addr, ok := chainAddress(s, s.Chains.Active)
	if !ok {
		return []domain.ParsedTransaction{}
	}

	parse := domain.NewTransactionParser(address)
	txs := sortTransactions(addr.Transactions)
	parsed := make([]domain.ParsedTransaction, 0, len(txs))
	for _, tx := range txs {
		p := parse(tx)
		if p.TxType == domain.TxTypeAttestation {
			continue
		}
		parsed = append(parsed, p)
	}
	return parsed
}

// sortTransactions returns a copy of txs sorted by block number,
// transaction index and nonce, descending. Missing values sort first, ties
// are returned in reverse order of appearance.
func sortTransactions(txs []domain.RawTransaction) []domain.RawTransaction {
	out := make([]domain.RawTransaction, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		out = append(out, txs[i])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Transaction, out[j].Transaction
		if c := compareDesc(a.BlockNumber, b.BlockNumber); c != 0 {
			return c < 0
		}
		if c := compareDesc(a.TransactionIndex, b.TransactionIndex); c != 0 {
			return c < 0
		}
		return compareDesc(a.Nonce, b.Nonce) < 0
	})
	return out
}

// compareDesc orders nil first, then greater values first.
func compareDesc(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a > *b:
		return -1
	case *a < *b:
		return 1
	}
	return 0
}

func HasTransactions(s domain.State) bool {
	return len(ActiveWalletTransactions(s)) > 0
}

func IsScanningTx(s domain.State) bool {
	return activeChainState(s).Wallets.IsScanningTx
}

func TxSyncStatus(s domain.State) string {
	return activeChainState(s).Wallets.SyncStatus
}

// TransactionFromHash returns the parsed transaction of the active address
// with the given hash.
func TransactionFromHash(s domain.State, hash string) (domain.ParsedTransaction, bool) {
	for _, tx := range ActiveWalletTransactions(s) {
		if tx.Hash == hash {
			return tx, true
		}
	}
	return domain.ParsedTransaction{}, false
}

// TxRow is a transaction of the active address along with its state on the
// active chain.
type TxRow struct {
	domain.ParsedTransaction
	Confirmations int64  `json:"confirmations"`
	IsFailed      bool   `json:"isFailed"`
	IsPending     bool   `json:"isPending"`
	ExplorerURL   string `json:"explorerUrl"`
}

// ActiveWalletTxRows returns the transactions of the active address in the
// order of ActiveWalletTransactions, with confirmations, failed and pending
// flags and explorer link.
func ActiveWalletTxRows(s domain.State) []TxRow {
	txs := ActiveWalletTransactions(s)
	rows := make([]TxRow, 0, len(txs))
	for _, tx := range txs {
		confirmations := TxConfirmations(s, tx)
		rows = append(rows, TxRow{
			ParsedTransaction: tx,
			Confirmations:     confirmations,
			IsFailed:          domain.IsFailed(tx, confirmations),
			IsPending:         domain.IsPending(tx, confirmations),
			ExplorerURL:       ExplorerURL(s, tx.Hash),
		})
	}
	return rows
}
