package ports

// TxParams are the fields shared by every submission request. GasPrice is
// expressed in wei, Gas is the gas limit.
type TxParams struct {
	Chain    string `json:"chain"`
	WalletID string `json:"walletId"`
	Password string `json:"password"`
	From     string `json:"from"`
	GasPrice string `json:"gasPrice,omitempty"`
	Gas      string `json:"gas,omitempty"`
}

type SendRequest struct {
	TxParams
	To    string `json:"to"`
	Value string `json:"value"`
}

type BuyRequest struct {
	TxParams
	Value string `json:"value"`
}

type ConvertRequest struct {
	TxParams
	Value string `json:"value"`
	// MinReturn is empty when no minimum return is enforced.
	MinReturn string `json:"minReturn,omitempty"`
}

type PortRequest struct {
	TxParams
	Value                 string `json:"value"`
	Fee                   string `json:"fee"`
	DestinationChain      string `json:"destinationChain"`
	DestinationMetAddress string `json:"destinationMetAddress"`
	ExtraData             string `json:"extraData,omitempty"`
}

type RetryImportRequest struct {
	TxParams
	OriginChain           string `json:"originChain"`
	CurrentBurnHash       string `json:"currentBurnHash"`
	BurnSequence          string `json:"burnSequence,omitempty"`
	DestinationChain      string `json:"destinationChain"`
	DestinationMetAddress string `json:"destinationMetAddress"`
	To                    string `json:"to"`
	Value                 string `json:"value"`
	Fee                   string `json:"fee"`
	ExtraData             string `json:"extraData,omitempty"`
}

type GasLimitRequest struct {
	Chain string `json:"chain"`
	From  string `json:"from"`
	To    string `json:"to,omitempty"`
	Value string `json:"value"`
	// Token is the token contract address for token transfers.
	Token            string `json:"token,omitempty"`
	DestinationChain string `json:"destinationChain,omitempty"`
}

type ImportGasLimitRequest struct {
	Chain           string `json:"chain"`
	From            string `json:"from"`
	OriginChain     string `json:"originChain"`
	CurrentBurnHash string `json:"currentBurnHash"`
	Value           string `json:"value"`
	Fee             string `json:"fee"`
}

type PortFeesRequest struct {
	Chain            string `json:"chain"`
	From             string `json:"from"`
	Value            string `json:"value"`
	DestinationChain string `json:"destinationChain"`
}

type ConvertEstimateRequest struct {
	Chain string `json:"chain"`
	Value string `json:"value"`
}

type OnboardingRequest struct {
	Mnemonic string `json:"mnemonic"`
	Password string `json:"password"`
}
