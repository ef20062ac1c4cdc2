package domain

import (
	"github.com/shopspring/decimal"
)

type txClassifier struct {
	txType string
	match  func(tx RawTransaction, token *TokenEvent, myAddress string) bool
}

// txClassifiers is evaluated in order, the first match wins. A transaction
// meta can satisfy more than one predicate.
var txClassifiers = []txClassifier{
	{TxTypeAuction, func(tx RawTransaction, _ *TokenEvent, _ string) bool {
		return tx.metronome().Auction
	}},
	{TxTypeConverted, func(tx RawTransaction, _ *TokenEvent, _ string) bool {
		return tx.metronome().Converter
	}},
	{TxTypeImportRequested, func(tx RawTransaction, _ *TokenEvent, _ string) bool {
		return tx.metronome().ImportRequest != nil
	}},
	{TxTypeImported, func(tx RawTransaction, _ *TokenEvent, _ string) bool {
		return tx.metronome().Import != nil
	}},
	{TxTypeExported, func(tx RawTransaction, _ *TokenEvent, _ string) bool {
		return tx.metronome().Export != nil
	}},
	{TxTypeAttestation, func(tx RawTransaction, _ *TokenEvent, _ string) bool {
		return tx.metronome().Attestation != nil
	}},
	{TxTypeSent, isSendTransaction},
	{TxTypeReceived, isReceiveTransaction},
}

func isSendTransaction(tx RawTransaction, token *TokenEvent, myAddress string) bool {
	from := tx.Transaction.From
	if token == nil {
		return from != "" && from == myAddress
	}
	if token.From != "" && token.From == myAddress {
		return true
	}
	return token.Processing && from == myAddress
}

func isReceiveTransaction(tx RawTransaction, token *TokenEvent, myAddress string) bool {
	if token == nil {
		to := tx.Transaction.To
		return to != "" && to == myAddress
	}
	return token.To != "" && token.To == myAddress
}

// ClassifyTransaction returns the type of the given transaction as seen by
// myAddress.
func ClassifyTransaction(tx RawTransaction, myAddress string) string {
	var token *TokenEvent
	if t, ok := tx.TokenData(); ok {
		token = &t
	}
	return classify(tx, token, myAddress)
}

func classify(tx RawTransaction, token *TokenEvent, myAddress string) string {
	for _, c := range txClassifiers {
		if c.match(tx, token, myAddress) {
			return c.txType
		}
	}
	return TxTypeUnknown
}

// NewTransactionParser returns a function that maps raw transactions of
// myAddress into their parsed representation.
func NewTransactionParser(myAddress string) func(RawTransaction) ParsedTransaction {
	return func(tx RawTransaction) ParsedTransaction {
		return parseTransaction(tx, myAddress)
	}
}

func parseTransaction(tx RawTransaction, myAddress string) ParsedTransaction {
	var token *TokenEvent
	if t, ok := tx.TokenData(); ok {
		token = &t
	}
	txType := classify(tx, token, myAddress)
	isTransfer := txType == TxTypeSent || txType == TxTypeReceived

	parsed := ParsedTransaction{
		TxType:             txType,
		From:               tx.Transaction.From,
		To:                 tx.Transaction.To,
		Value:              tx.Transaction.Value,
		Hash:               tx.Transaction.Hash,
		BlockNumber:        copyInt64(tx.Transaction.BlockNumber),
		Timestamp:          copyInt64(tx.Transaction.Timestamp),
		ContractCallFailed: tx.Meta.ContractCallFailed,
	}
	if tx.Receipt != nil {
		parsed.GasUsed = copyInt64(tx.Receipt.GasUsed)
	}

	if token != nil {
		if txType == TxTypeReceived && token.From != "" {
			parsed.From = token.From
		}
		if txType == TxTypeSent && token.To != "" {
			parsed.To = token.To
		}
		if isTransfer && token.Value != "" {
			parsed.Value = token.Value
		}
		parsed.IsProcessing = token.Processing
		if token.Event == TokenEventApproval {
			approved := token.Value
			parsed.ApprovedValue = &approved
			isZero := isZeroAmount(token.Value)
			parsed.IsApproval = !isZero
			parsed.IsCancelApproval = isZero
		}
	}

	if isTransfer {
		parsed.Symbol = SymbolCoin
		if token != nil {
			parsed.Symbol = SymbolMET
		}
	}

	switch txType {
	case TxTypeAuction:
		parsed.CoinSpentInAuction = coinSpentInAuction(tx)
		if tx.Transaction.BlockHash != "" && token != nil {
			bought := token.Value
			parsed.MetBoughtInAuction = &bought
		}
	case TxTypeConverted:
		parseConversion(&parsed, tx, token)
	case TxTypeExported, TxTypeImported, TxTypeImportRequested:
		parsePort(&parsed, tx, txType)
	case TxTypeAttestation:
		att := tx.metronome().Attestation
		parsed.PortBurnHash = att.CurrentBurnHash
		valid := att.IsValid
		parsed.IsAttestationValid = &valid
	}

	return parsed
}

// coinSpentInAuction returns transaction value minus the returned value.
func coinSpentInAuction(tx RawTransaction) *string {
	value, err := decimal.NewFromString(tx.Transaction.Value)
	if err != nil {
		return nil
	}
	returned := decimal.Zero
	if tx.Meta.ReturnedValue != "" {
		returned, err = decimal.NewFromString(tx.Meta.ReturnedValue)
		if err != nil {
			return nil
		}
	}
	spent := value.Sub(returned).String()
	return &spent
}

// parseConversion infers the conversion direction from the base value: a
// conversion that moves no coin is a MET to coin one.
func parseConversion(parsed *ParsedTransaction, tx RawTransaction, token *TokenEvent) {
	parsed.ConvertedFrom = SymbolCoin
	if isZeroAmount(tx.Transaction.Value) {
		parsed.ConvertedFrom = SymbolMET
	}

	if parsed.ConvertedFrom == SymbolCoin {
		fromValue := tx.Transaction.Value
		parsed.FromValue = &fromValue
		if token != nil {
			toValue := token.Value
			parsed.ToValue = &toValue
		}
		return
	}

	if token != nil {
		fromValue := token.Value
		parsed.FromValue = &fromValue
		toValue := tx.Meta.ReturnedValue
		parsed.ToValue = &toValue
	}
}

func parsePort(parsed *ParsedTransaction, tx RawTransaction, txType string) {
	m := tx.metronome()
	var data *PortData
	switch txType {
	case TxTypeExported:
		data = m.Export
		parsed.ExportedTo = data.DestinationChain
	case TxTypeImported:
		data = m.Import
		parsed.ImportedFrom = data.OriginChain
	case TxTypeImportRequested:
		data = m.ImportRequest
		parsed.ImportedFrom = data.OriginChain
	}
	parsed.PortBurnHash = data.CurrentBurnHash
	if data.Value != "" {
		parsed.Value = data.Value
	}
	if data.Fee != "" {
		fee := data.Fee
		parsed.PortFee = &fee
	}
}

func isZeroAmount(amount string) bool {
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return amount == ""
	}
	return v.IsZero()
}
