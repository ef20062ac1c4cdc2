package selectors

import (
	"sort"

	"github.com/metwallet/walletd/internal/core/domain"
)

// OngoingImport is an import requested by the active address that has not
// been completed yet.
type OngoingImport struct {
	Transaction domain.ParsedTransaction `json:"transaction"`
	BurnHash    string                   `json:"burnHash"`
	// Export is the originating export, nil if not found on any chain.
	Export               *domain.PortOperation `json:"export,omitempty"`
	Attestations         int                   `json:"attestations"`
	Refutations          int                   `json:"refutations"`
	AttestationThreshold *int64                `json:"attestationThreshold,omitempty"`
}

// PortDestination is a chain MET can be ported to.
type PortDestination struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// chainTx is a transaction of the global set, tagged with the symbol of the
// chain it was found on and the address whose history holds it.
type chainTx struct {
	originChain string
	owner       string
	tx          domain.RawTransaction
}

// allTransactions flattens the transactions of every address of every
// wallet of every chain. Iteration order is stable.
func allTransactions(s domain.State) []chainTx {
	txs := make([]chainTx, 0)
	for _, chain := range s.ChainIDs() {
		symbol := s.Config.Chains[chain].Symbol
		wallets := s.Chains.ByID[chain].Wallets.ByID

		ids := make([]string, 0, len(wallets))
		for id := range wallets {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			wallet := wallets[id]
			for _, address := range wallet.SortedAddresses() {
				for _, tx := range wallet.Addresses[address].Transactions {
					txs = append(txs, chainTx{symbol, address, tx})
				}
			}
		}
	}
	return txs
}

func exportOperation(ct chainTx) domain.PortOperation {
	op := domain.PortOperation{
		OriginChain: ct.originChain,
		PortData:    *ct.tx.Meta.Metronome.Export,
	}
	if ct.tx.Receipt != nil {
		op.From = ct.tx.Receipt.From
	}
	return op
}

// FailedImports returns the exports sent to the active address on the
// active chain that were never followed by an import request from the
// active address. Each export appears once.
func FailedImports(s domain.State) []domain.PortOperation {
	failed := make([]domain.PortOperation, 0)

	address, addr, ok := chainAddress(s, s.Chains.Active)
	if !ok {
		return failed
	}
	symbol := CoinSymbol(s)

	requested := make(map[string]struct{})
	for _, tx := range addr.Transactions {
		if m := tx.Meta.Metronome; m != nil && m.ImportRequest != nil {
			requested[m.ImportRequest.CurrentBurnHash] = struct{}{}
		}
	}

	seen := make(map[string]struct{})
	for _, ct := range allTransactions(s) {
		m := ct.tx.Meta.Metronome
		if m == nil || m.Export == nil {
			continue
		}
		export := m.Export
		if export.DestinationChain != symbol || export.To != address {
			continue
		}
		if _, ok := requested[export.CurrentBurnHash]; ok {
			continue
		}
		if _, ok := seen[export.CurrentBurnHash]; ok {
			continue
		}
		seen[export.CurrentBurnHash] = struct{}{}
		failed = append(failed, exportOperation(ct))
	}
	return failed
}

// OngoingImports returns the import requests of the active address with no
// matching import yet, latest first and one per burn hash, along with the
// attestations gathered so far.
func OngoingImports(s domain.State) []OngoingImport {
	ongoing := make([]OngoingImport, 0)

	address, addr, ok := chainAddress(s, s.Chains.Active)
	if !ok {
		return ongoing
	}

	imported := make(map[string]struct{})
	exports := make(map[string]domain.PortOperation)
	// burn hash -> attestation tx hash -> validity
	votes := make(map[string]map[string]bool)

	for _, ct := range allTransactions(s) {
		m := ct.tx.Meta.Metronome
		if m == nil {
			continue
		}
		switch domain.ClassifyTransaction(ct.tx, ct.owner) {
		case domain.TxTypeImported:
			imported[m.Import.CurrentBurnHash] = struct{}{}
		case domain.TxTypeExported:
			if _, ok := exports[m.Export.CurrentBurnHash]; !ok {
				exports[m.Export.CurrentBurnHash] = exportOperation(ct)
			}
		case domain.TxTypeAttestation:
			burnHash := m.Attestation.CurrentBurnHash
			if votes[burnHash] == nil {
				votes[burnHash] = make(map[string]bool)
			}
			votes[burnHash][ct.tx.Transaction.Hash] = m.Attestation.IsValid
		}
	}

	threshold := AttestationThreshold(s)
	parse := domain.NewTransactionParser(address)
	seen := make(map[string]struct{})
	for _, tx := range sortTransactions(addr.Transactions) {
		parsed := parse(tx)
		if parsed.TxType != domain.TxTypeImportRequested {
			continue
		}
		burnHash := parsed.PortBurnHash
		if _, ok := imported[burnHash]; ok {
			continue
		}
		if _, ok := seen[burnHash]; ok {
			continue
		}
		seen[burnHash] = struct{}{}

		op := OngoingImport{
			Transaction:          parsed,
			BurnHash:             burnHash,
			AttestationThreshold: threshold,
		}
		if export, ok := exports[burnHash]; ok {
			export := export
			op.Export = &export
		}
		for _, valid := range votes[burnHash] {
			if valid {
				op.Attestations++
			} else {
				op.Refutations++
			}
		}
		ongoing = append(ongoing, op)
	}
	return ongoing
}

// PortDestinations returns the enabled chains other than the active one.
func PortDestinations(s domain.State) []PortDestination {
	destinations := make([]PortDestination, 0, len(s.Config.EnabledChains))
	for _, chain := range s.Config.EnabledChains {
		if chain == s.Chains.Active {
			continue
		}
		destinations = append(destinations, PortDestination{
			Label: s.Config.Chains[chain].DisplayName,
			Value: chain,
		})
	}
	return destinations
}
