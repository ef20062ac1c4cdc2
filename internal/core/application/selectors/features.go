package selectors

import (
	"fmt"

	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/pkg/mathutil"
)

// Feature identifies a gated wallet feature.
type Feature string

const (
	FeatureSend        Feature = "send"
	FeatureSendMet     Feature = "send-met"
	FeatureBuy         Feature = "buy"
	FeatureConvert     Feature = "convert"
	FeaturePort        Feature = "port"
	FeatureRetryImport Feature = "retry-import"
)

// Features lists every gated feature.
var Features = []Feature{
	FeatureSend, FeatureSendMet, FeatureBuy,
	FeatureConvert, FeaturePort, FeatureRetryImport,
}

// FeatureStatus is the availability of a feature. Only StatusOK means
// enabled.
type FeatureStatus string

const (
	StatusOK           FeatureStatus = "ok"
	StatusOffline      FeatureStatus = "offline"
	StatusNoFunds      FeatureStatus = "no-funds"
	StatusDepleted     FeatureStatus = "depleted"
	StatusNoCoin       FeatureStatus = "no-coin"
	StatusNoMet        FeatureStatus = "no-met"
	StatusNoMultichain FeatureStatus = "no-multichain"
)

// FeatureState is the status of a feature along with the reason it is
// disabled, empty if enabled.
type FeatureState struct {
	Feature        Feature       `json:"feature"`
	Status         FeatureStatus `json:"status"`
	Disabled       bool          `json:"disabled"`
	DisabledReason string        `json:"disabledReason,omitempty"`
}

func SendFeatureStatus(s domain.State) FeatureStatus {
	if !IsOnline(s) {
		return StatusOffline
	}
	if !mathutil.HasFunds(CoinBalanceWei(s)) && !mathutil.HasFunds(MetBalanceWei(s)) {
		return StatusNoFunds
	}
	return StatusOK
}

func SendMetFeatureStatus(s domain.State) FeatureStatus {
	if !IsOnline(s) {
		return StatusOffline
	}
	if !mathutil.HasFunds(MetBalanceWei(s)) {
		return StatusNoFunds
	}
	return StatusOK
}

// BuyFeatureStatus reports the auction as depleted when its remaining
// tokens are known and zero.
func BuyFeatureStatus(s domain.State) FeatureStatus {
	if !IsOnline(s) {
		return StatusOffline
	}
	if status := AuctionStatus(s); status != nil && status.TokenRemaining != "" &&
		!mathutil.HasFunds(&status.TokenRemaining) {
		return StatusDepleted
	}
	return StatusOK
}

func ConvertFeatureStatus(s domain.State) FeatureStatus {
	if !IsOnline(s) {
		return StatusOffline
	}
	if !mathutil.HasFunds(CoinBalanceWei(s)) {
		return StatusNoCoin
	}
	return StatusOK
}

func PortFeatureStatus(s domain.State) FeatureStatus {
	if !IsMultiChain(s) {
		return StatusNoMultichain
	}
	if !IsOnline(s) {
		return StatusOffline
	}
	if !mathutil.HasFunds(CoinBalanceWei(s)) {
		return StatusNoCoin
	}
	if !mathutil.HasFunds(MetBalanceWei(s)) {
		return StatusNoMet
	}
	return StatusOK
}

func RetryImportFeatureStatus(s domain.State) FeatureStatus {
	if !IsMultiChain(s) {
		return StatusNoMultichain
	}
	if !IsOnline(s) {
		return StatusOffline
	}
	if !mathutil.HasFunds(CoinBalanceWei(s)) {
		return StatusNoCoin
	}
	return StatusOK
}

// FeatureStatusOf returns the status of the given feature.
func FeatureStatusOf(s domain.State, feature Feature) FeatureStatus {
	switch feature {
	case FeatureSend:
		return SendFeatureStatus(s)
	case FeatureSendMet:
		return SendMetFeatureStatus(s)
	case FeatureBuy:
		return BuyFeatureStatus(s)
	case FeatureConvert:
		return ConvertFeatureStatus(s)
	case FeaturePort:
		return PortFeatureStatus(s)
	case FeatureRetryImport:
		return RetryImportFeatureStatus(s)
	}
	return StatusOK
}

// DisabledReason returns the message explaining why the feature is
// disabled given its status, empty if enabled.
func DisabledReason(feature Feature, status FeatureStatus, coinSymbol string) string {
	if status == StatusOK {
		return ""
	}
	if status == StatusNoMultichain {
		return "You need at least two enabled chains to port MET"
	}

	switch feature {
	case FeatureSend:
		switch status {
		case StatusOffline:
			return "Can't send while offline"
		case StatusNoFunds:
			return "You need some funds to send"
		}
	case FeatureSendMet:
		switch status {
		case StatusOffline:
			return "Can't send while offline"
		case StatusNoFunds:
			return "You need some MET to send"
		}
	case FeatureBuy:
		switch status {
		case StatusOffline:
			return "Can't buy while offline"
		case StatusDepleted:
			return "No MET remaining in current auction"
		}
	case FeatureConvert:
		switch status {
		case StatusOffline:
			return "Can't convert while offline"
		case StatusNoCoin:
			return fmt.Sprintf("You need some %s to pay for conversion gas", coinSymbol)
		}
	case FeaturePort:
		switch status {
		case StatusOffline:
			return "Can't port while offline"
		case StatusNoCoin:
			return fmt.Sprintf("You need some %s to pay for port gas", coinSymbol)
		case StatusNoMet:
			return "You need some MET to port"
		}
	case FeatureRetryImport:
		switch status {
		case StatusOffline:
			return "Can't retry import while offline"
		case StatusNoCoin:
			return fmt.Sprintf("You need some %s to pay for import gas", coinSymbol)
		}
	}
	return string(status)
}

// FeatureStates returns the state of every gated feature on the active
// chain.
func FeatureStates(s domain.State) []FeatureState {
	symbol := CoinSymbol(s)
	states := make([]FeatureState, 0, len(Features))
	for _, f := range Features {
		status := FeatureStatusOf(s, f)
		states = append(states, FeatureState{
			Feature:        f,
			Status:         status,
			Disabled:       status != StatusOK,
			DisabledReason: DisabledReason(f, status, symbol),
		})
	}
	return states
}
