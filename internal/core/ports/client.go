package ports

import (
	"context"
	"math/big"

	"github.com/metwallet/walletd/internal/core/domain"
)

// Client is the wallet client owning keys, signing and chain connectivity.
// Everything this daemon knows about the chains comes from it, either as
// pushed events or as results of the calls below.
type Client interface {
	UnitConverter
	GasEstimator
	TxSubmitter
	Lifecycle
	MnemonicProvider
	Utilities
}

// UnitConverter converts amounts between display units and wei. These
// helpers are local to the client and never block.
type UnitConverter interface {
	ToWei(amount, unit string) (string, error)
	FromWei(wei, unit string) (string, error)
	// ToCoin converts a wei amount into the native coin of the chain,
	// honoring its decimals.
	ToCoin(chain domain.ChainConfig, wei string) (string, error)
	// FromCoin converts a native coin amount of the chain into wei.
	FromCoin(chain domain.ChainConfig, amount string) (string, error)
	ToBN(amount string) (*big.Int, error)
	ToHex(amount string) (string, error)
	IsAddress(chain domain.ChainConfig, address string) bool
}

type GasEstimator interface {
	GetGasLimit(ctx context.Context, req GasLimitRequest) (uint64, error)
	GetAuctionGasLimit(ctx context.Context, req GasLimitRequest) (uint64, error)
	GetConvertCoinGasLimit(ctx context.Context, req GasLimitRequest) (uint64, error)
	GetConvertMetGasLimit(ctx context.Context, req GasLimitRequest) (uint64, error)
	GetTokensGasLimit(ctx context.Context, req GasLimitRequest) (uint64, error)
	GetImportGasLimit(ctx context.Context, req ImportGasLimitRequest) (uint64, error)
	GetPortGasLimit(ctx context.Context, req GasLimitRequest) (uint64, error)
	GetPortFees(ctx context.Context, req PortFeesRequest) (string, error)
	// GetConvertCoinEstimate returns the MET, in wei, obtained converting
	// the given coin value.
	GetConvertCoinEstimate(ctx context.Context, req ConvertEstimateRequest) (string, error)
	// GetConvertMetEstimate returns the coin, in wei, obtained converting
	// the given MET value.
	GetConvertMetEstimate(ctx context.Context, req ConvertEstimateRequest) (string, error)
	GetGasPrice(ctx context.Context, chain string) (string, error)
}

// TxSubmitter signs and broadcasts transactions. Every method returns the
// hash of the broadcasted transaction.
type TxSubmitter interface {
	SendCoin(ctx context.Context, req SendRequest) (string, error)
	SendMet(ctx context.Context, req SendRequest) (string, error)
	BuyMetronome(ctx context.Context, req BuyRequest) (string, error)
	ConvertCoin(ctx context.Context, req ConvertRequest) (string, error)
	ConvertMet(ctx context.Context, req ConvertRequest) (string, error)
	PortMetronome(ctx context.Context, req PortRequest) (string, error)
	RetryImport(ctx context.Context, req RetryImportRequest) (string, error)
}

type Lifecycle interface {
	// OnInit returns the wallet config once the client is ready.
	OnInit(ctx context.Context) (domain.Config, error)
	OnStop(ctx context.Context) error
	OnOnboardingCompleted(ctx context.Context, req OnboardingRequest) error
	OnLoginSubmit(ctx context.Context, password string) error
}

type MnemonicProvider interface {
	CreateMnemonic(ctx context.Context) (string, error)
	IsValidMnemonic(mnemonic string) bool
	// GetStringEntropy returns the entropy, in bits, of the given password.
	GetStringEntropy(str string) float64
}

type Utilities interface {
	CopyToClipboard(ctx context.Context, text string) error
	OnLinkClick(ctx context.Context, url string) error
	GetAppVersion(ctx context.Context) (string, error)
	RefreshAllTransactions(ctx context.Context, chain, address string) error
	RefreshTransaction(ctx context.Context, chain, hash, address string) error
}

// StateRepository persists the hydratable part of the state. Get returns
// nil and no error if nothing was persisted yet.
type StateRepository interface {
	Get(ctx context.Context) (*domain.PersistedState, error)
	Save(ctx context.Context, state domain.PersistedState) error
	Close()
}
