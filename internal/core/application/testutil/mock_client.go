package testutil

import (
	"context"
	"math/big"

	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/metwallet/walletd/pkg/units"
	"github.com/stretchr/testify/mock"
)

// MockClient is a mocked ports.Client. Unit conversion helpers are not
// mocked and rely on pkg/units, every other method must be set up with On.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) ToWei(amount, unit string) (string, error) {
	return units.ToWei(amount, unit)
}

func (m *MockClient) FromWei(wei, unit string) (string, error) {
	return units.FromWei(wei, unit)
}

func (m *MockClient) ToCoin(chain domain.ChainConfig, wei string) (string, error) {
	return units.FromSmallest(wei, chain.Decimals)
}

func (m *MockClient) FromCoin(chain domain.ChainConfig, amount string) (string, error) {
	return units.ToSmallest(amount, chain.Decimals)
}

func (m *MockClient) ToBN(amount string) (*big.Int, error) {
	return units.ToBN(amount)
}

func (m *MockClient) ToHex(amount string) (string, error) {
	return units.ToHex(amount)
}

func (m *MockClient) IsAddress(chain domain.ChainConfig, address string) bool {
	args := m.Called(chain, address)
	return args.Bool(0)
}

func (m *MockClient) GetGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return m.gasLimit(m.Called(ctx, req))
}

func (m *MockClient) GetAuctionGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return m.gasLimit(m.Called(ctx, req))
}

func (m *MockClient) GetConvertCoinGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return m.gasLimit(m.Called(ctx, req))
}

func (m *MockClient) GetConvertMetGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return m.gasLimit(m.Called(ctx, req))
}

func (m *MockClient) GetTokensGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return m.gasLimit(m.Called(ctx, req))
}

func (m *MockClient) GetImportGasLimit(ctx context.Context, req ports.ImportGasLimitRequest) (uint64, error) {
	return m.gasLimit(m.Called(ctx, req))
}

func (m *MockClient) GetPortGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return m.gasLimit(m.Called(ctx, req))
}

func (m *MockClient) GetPortFees(ctx context.Context, req ports.PortFeesRequest) (string, error) {
	return m.str(m.Called(ctx, req))
}

func (m *MockClient) GetConvertCoinEstimate(ctx context.Context, req ports.ConvertEstimateRequest) (string, error) {
	return m.str(m.Called(ctx, req))
}

func (m *MockClient) GetConvertMetEstimate(ctx context.Context, req ports.ConvertEstimateRequest) (string, error) {
	return m.str(m.Called(ctx, req))
}

func (m *MockClient) GetGasPrice(ctx context.Context, chain string) (string, error) {
	return m.str(m.Called(ctx, chain))
}

func (m *MockClient) SendCoin(ctx context.Context, req ports.SendRequest) (string, error) {
	return m.str(m.Called(ctx, req))
}

func (m *MockClient) SendMet(ctx context.Context, req ports.SendRequest) (string, error) {
	return m.str(m.Called(ctx, req))
}

func (m *MockClient) BuyMetronome(ctx context.Context, req ports.BuyRequest) (string, error) {
	return m.str(m.Called(ctx, req))
}

func (m *MockClient) ConvertCoin(ctx context.Context, req ports.ConvertRequest) (string, error) {
	return m.str(m.Called(ctx, req))
}

func (m *MockClient) ConvertMet(ctx context.Context, req ports.ConvertRequest) (string, error) {
	return m.str(m.Called(ctx, req))
}

func (m *MockClient) PortMetronome(ctx context.Context, req ports.PortRequest) (string, error) {
	return m.str(m.Called(ctx, req))
}

func (m *MockClient) RetryImport(ctx context.Context, req ports.RetryImportRequest) (string, error) {
	return m.str(m.Called(ctx, req))
}

func (m *MockClient) OnInit(ctx context.Context) (domain.Config, error) {
	args := m.Called(ctx)

	var res domain.Config
	if a := args.Get(0); a != nil {
		res = a.(domain.Config)
	}
	return res, args.Error(1)
}

func (m *MockClient) OnStop(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockClient) OnOnboardingCompleted(ctx context.Context, req ports.OnboardingRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockClient) OnLoginSubmit(ctx context.Context, password string) error {
	return m.Called(ctx, password).Error(0)
}

func (m *MockClient) CreateMnemonic(ctx context.Context) (string, error) {
	return m.str(m.Called(ctx))
}

func (m *MockClient) IsValidMnemonic(mnemonic string) bool {
	return m.Called(mnemonic).Bool(0)
}

func (m *MockClient) GetStringEntropy(str string) float64 {
	args := m.Called(str)

	var res float64
	if a := args.Get(0); a != nil {
		res = a.(float64)
	}
	return res
}

func (m *MockClient) CopyToClipboard(ctx context.Context, text string) error {
	return m.Called(ctx, text).Error(0)
}

func (m *MockClient) OnLinkClick(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func (m *MockClient) GetAppVersion(ctx context.Context) (string, error) {
	return m.str(m.Called(ctx))
}

func (m *MockClient) RefreshAllTransactions(ctx context.Context, chain, address string) error {
	return m.Called(ctx, chain, address).Error(0)
}

func (m *MockClient) RefreshTransaction(ctx context.Context, chain, hash, address string) error {
	return m.Called(ctx, chain, hash, address).Error(0)
}

func (m *MockClient) gasLimit(args mock.Arguments) (uint64, error) {
	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *MockClient) str(args mock.Arguments) (string, error) {
	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}
