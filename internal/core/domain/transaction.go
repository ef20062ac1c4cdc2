package domain

import "sort"

const (
	TxTypeAuction         = "auction"
	TxTypeConverted       = "converted"
	TxTypeImportRequested = "import-requested"
	TxTypeImported        = "imported"
	TxTypeExported        = "exported"
	TxTypeAttestation     = "attestation"
	TxTypeSent            = "sent"
	TxTypeReceived        = "received"
	TxTypeUnknown         = "unknown"

	SymbolMET  = "MET"
	SymbolCoin = "coin"

	TokenEventApproval = "Approval"
	TokenEventTransfer = "Transfer"

	// ConfirmationsThreshold is the number of confirmations after which a
	// transaction is no longer pending.
	ConfirmationsThreshold = 6
)

// RawTransaction is a transaction record as received from the client.
type RawTransaction struct {
	Transaction TxData   `json:"transaction"`
	Receipt     *Receipt `json:"receipt,omitempty"`
	Meta        TxMeta   `json:"meta"`
}

// TxData holds the chain-native fields of a transaction.
type TxData struct {
	From string `json:"from"`
	To   string `json:"to"`
	// Value is expressed in wei.
	Value string `json:"value"`
	// BlockNumber is nil while the transaction is not mined.
	BlockNumber      *int64 `json:"blockNumber"`
	BlockHash        string `json:"blockHash,omitempty"`
	Hash             string `json:"hash"`
	TransactionIndex *int64 `json:"transactionIndex,omitempty"`
	Nonce            *int64 `json:"nonce,omitempty"`
	Timestamp        *int64 `json:"timestamp,omitempty"`
}

// Receipt holds the fields of the transaction receipt used by the wallet.
type Receipt struct {
	From    string `json:"from,omitempty"`
	GasUsed *int64 `json:"gasUsed,omitempty"`
}

// TxMeta carries the protocol specific annotations of a transaction.
type TxMeta struct {
	// Tokens maps a token contract address to the token event the
	// transaction emitted.
	Tokens             map[string]TokenEvent `json:"tokens,omitempty"`
	ReturnedValue      string                `json:"returnedValue,omitempty"`
	ContractCallFailed bool                  `json:"contractCallFailed,omitempty"`
	Metronome          *MetronomeMeta        `json:"metronome,omitempty"`
}

// TokenEvent is a token transfer or approval.
type TokenEvent struct {
	Event      string `json:"event,omitempty"`
	From       string `json:"from,omitempty"`
	To         string `json:"to,omitempty"`
	Value      string `json:"value,omitempty"`
	Processing bool   `json:"processing,omitempty"`
}

// MetronomeMeta flags auction purchases, conversions and port operations.
type MetronomeMeta struct {
	Auction       bool         `json:"auction,omitempty"`
	Converter     bool         `json:"converter,omitempty"`
	Export        *PortData    `json:"export,omitempty"`
	Import        *PortData    `json:"import,omitempty"`
	ImportRequest *PortData    `json:"importRequest,omitempty"`
	Attestation   *Attestation `json:"attestation,omitempty"`
}

// PortData describes one leg of a port operation. Export legs carry the
// destination chain, import legs the origin chain.
type PortData struct {
	CurrentBurnHash  string `json:"currentBurnHash"`
	DestinationChain string `json:"destinationChain,omitempty"`
	OriginChain      string `json:"originChain,omitempty"`
	To               string `json:"to,omitempty"`
	Value            string `json:"value,omitempty"`
	Fee              string `json:"fee,omitempty"`
	BurnSequence     string `json:"burnSequence,omitempty"`
	ExtraData        string `json:"extraData,omitempty"`
}

// Attestation is a validator vote on an export.
type Attestation struct {
	CurrentBurnHash string `json:"currentBurnHash"`
	IsValid         bool   `json:"isValid"`
}

// PortOperation is an export, as seen from its destination chain, along with
// the chain it originates from.
type PortOperation struct {
	OriginChain string `json:"originChain"`
	From        string `json:"from"`
	PortData
}

// IsMined returns whether the transaction was included in a block.
func (tx RawTransaction) IsMined() bool {
	return tx.Transaction.BlockNumber != nil
}

// TokenData returns the token event of the transaction with the smallest
// contract key, if any.
func (tx RawTransaction) TokenData() (TokenEvent, bool) {
	if len(tx.Meta.Tokens) <= 0 {
		return TokenEvent{}, false
	}
	keys := make([]string, 0, len(tx.Meta.Tokens))
	for k := range tx.Meta.Tokens {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return tx.Meta.Tokens[keys[0]], true
}

func (tx RawTransaction) metronome() MetronomeMeta {
	if tx.Meta.Metronome == nil {
		return MetronomeMeta{}
	}
	return *tx.Meta.Metronome
}

// Copy returns a deep copy of the transaction.
func (tx RawTransaction) Copy() RawTransaction {
	out := tx
	out.Transaction.BlockNumber = copyInt64(tx.Transaction.BlockNumber)
	out.Transaction.TransactionIndex = copyInt64(tx.Transaction.TransactionIndex)
	out.Transaction.Nonce = copyInt64(tx.Transaction.Nonce)
	out.Transaction.Timestamp = copyInt64(tx.Transaction.Timestamp)
	if tx.Receipt != nil {
		r := *tx.Receipt
		r.GasUsed = copyInt64(tx.Receipt.GasUsed)
		out.Receipt = &r
	}
	if tx.Meta.Tokens != nil {
		out.Meta.Tokens = make(map[string]TokenEvent, len(tx.Meta.Tokens))
		for k, v := range tx.Meta.Tokens {
			out.Meta.Tokens[k] = v
		}
	}
	if tx.Meta.Metronome != nil {
		m := *tx.Meta.Metronome
		m.Export = copyPortData(m.Export)
		m.Import = copyPortData(m.Import)
		m.ImportRequest = copyPortData(m.ImportRequest)
		if m.Attestation != nil {
			a := *m.Attestation
			m.Attestation = &a
		}
		out.Meta.Metronome = &m
	}
	return out
}

func copyPortData(p *PortData) *PortData {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// ParsedTransaction is the classified, display ready projection of a
// RawTransaction.
type ParsedTransaction struct {
	TxType             string  `json:"txType"`
	From               string  `json:"from"`
	To                 string  `json:"to"`
	Value              string  `json:"value"`
	Hash               string  `json:"hash"`
	BlockNumber        *int64  `json:"blockNumber"`
	Timestamp          *int64  `json:"timestamp,omitempty"`
	Symbol             string  `json:"symbol,omitempty"`
	CoinSpentInAuction *string `json:"coinSpentInAuction,omitempty"`
	MetBoughtInAuction *string `json:"metBoughtInAuction,omitempty"`
	ConvertedFrom      string  `json:"convertedFrom,omitempty"`
	FromValue          *string `json:"fromValue,omitempty"`
	ToValue            *string `json:"toValue,omitempty"`
	IsApproval         bool    `json:"isApproval"`
	IsCancelApproval   bool    `json:"isCancelApproval"`
	ApprovedValue      *string `json:"approvedValue,omitempty"`
	IsProcessing       bool    `json:"isProcessing"`
	ContractCallFailed bool    `json:"contractCallFailed"`
	GasUsed            *int64  `json:"gasUsed,omitempty"`
	PortFee            *string `json:"portFee,omitempty"`
	ExportedTo         string  `json:"exportedTo,omitempty"`
	ImportedFrom       string  `json:"importedFrom,omitempty"`
	PortBurnHash       string  `json:"portBurnHash,omitempty"`
	IsAttestationValid *bool   `json:"isAttestationValid,omitempty"`
}
