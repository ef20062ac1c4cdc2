package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/metwallet/walletd/internal/core/ports"
	"github.com/metwallet/walletd/pkg/units"
	"github.com/metwallet/walletd/pkg/wallet"
)

const (
	methodGetGasLimit            = "getGasLimit"
	methodGetAuctionGasLimit     = "getAuctionGasLimit"
	methodGetConvertCoinGasLimit = "getConvertCoinGasLimit"
	methodGetConvertMetGasLimit  = "getConvertMetGasLimit"
	methodGetTokensGasLimit      = "getTokensGasLimit"
	methodGetImportGasLimit      = "getImportGasLimit"
	methodGetPortGasLimit        = "getPortGasLimit"
	methodGetPortFees            = "getPortFees"
	methodGetConvertCoinEstimate = "getConvertCoinEstimate"
	methodGetConvertMetEstimate  = "getConvertMetEstimate"
	methodGetGasPrice            = "getGasPrice"

	methodSendCoin      = "sendCoin"
	methodSendMet       = "sendMet"
	methodBuyMetronome  = "buyMetronome"
	methodConvertCoin   = "convertCoin"
	methodConvertMet    = "convertMet"
	methodPortMetronome = "portMetronome"
	methodRetryImport   = "retryImport"

	methodOnInit                = "onInit"
	methodOnStop                = "onStop"
	methodOnOnboardingCompleted = "onOnboardingCompleted"
	methodOnLoginSubmit         = "onLoginSubmit"

	methodCopyToClipboard        = "copyToClipboard"
	methodOnLinkClick            = "onLinkClick"
	methodGetAppVersion          = "getAppVersion"
	methodRefreshAllTransactions = "refreshAllTransactions"
	methodRefreshTransaction     = "refreshTransaction"
)

// Caller sends requests to the wallet client.
type Caller interface {
	Call(ctx context.Context, method string, params, result interface{}) error
	Ready() <-chan struct{}
}

// Client implements ports.Client. Unit conversions, address and recovery
// phrase checks are computed locally, everything else is forwarded to the
// wallet client.
type Client struct {
	caller Caller
	chains map[string]domain.ChainConfig
}

// NewClient returns a client calling through caller. The given chain
// configs complete the ones the wallet client does not provide at init.
func NewClient(caller Caller, chains map[string]domain.ChainConfig) *Client {
	if chains == nil {
		chains = map[string]domain.ChainConfig{}
	}
	return &Client{caller, chains}
}

func (c *Client) ToWei(amount, unit string) (string, error) {
	return units.ToWei(amount, unit)
}

func (c *Client) FromWei(wei, unit string) (string, error) {
	return units.FromWei(wei, unit)
}

func (c *Client) ToCoin(chain domain.ChainConfig, wei string) (string, error) {
	return units.FromSmallest(wei, chainDecimals(chain))
}

func (c *Client) FromCoin(chain domain.ChainConfig, amount string) (string, error) {
	return units.ToSmallest(amount, chainDecimals(chain))
}

func (c *Client) ToBN(amount string) (*big.Int, error) {
	return units.ToBN(amount)
}

func (c *Client) ToHex(amount string) (string, error) {
	return units.ToHex(amount)
}

// IsAddress accepts hex encoded addresses, the format used by both
// ethereum and the qtum wallets.
func (c *Client) IsAddress(_ domain.ChainConfig, address string) bool {
	return common.IsHexAddress(address)
}

func (c *Client) GetGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return c.gasLimit(ctx, methodGetGasLimit, req)
}

func (c *Client) GetAuctionGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return c.gasLimit(ctx, methodGetAuctionGasLimit, req)
}

func (c *Client) GetConvertCoinGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return c.gasLimit(ctx, methodGetConvertCoinGasLimit, req)
}

func (c *Client) GetConvertMetGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return c.gasLimit(ctx, methodGetConvertMetGasLimit, req)
}

func (c *Client) GetTokensGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return c.gasLimit(ctx, methodGetTokensGasLimit, req)
}

func (c *Client) GetImportGasLimit(ctx context.Context, req ports.ImportGasLimitRequest) (uint64, error) {
	return c.gasLimit(ctx, methodGetImportGasLimit, req)
}

func (c *Client) GetPortGasLimit(ctx context.Context, req ports.GasLimitRequest) (uint64, error) {
	return c.gasLimit(ctx, methodGetPortGasLimit, req)
}

func (c *Client) GetPortFees(ctx context.Context, req ports.PortFeesRequest) (string, error) {
	return c.amount(ctx, methodGetPortFees, req)
}

func (c *Client) GetConvertCoinEstimate(ctx context.Context, req ports.ConvertEstimateRequest) (string, error) {
	return c.amount(ctx, methodGetConvertCoinEstimate, req)
}

func (c *Client) GetConvertMetEstimate(ctx context.Context, req ports.ConvertEstimateRequest) (string, error) {
	return c.amount(ctx, methodGetConvertMetEstimate, req)
}

func (c *Client) GetGasPrice(ctx context.Context, chain string) (string, error) {
	return c.amount(ctx, methodGetGasPrice, map[string]string{"chain": chain})
}

func (c *Client) SendCoin(ctx context.Context, req ports.SendRequest) (string, error) {
	return c.txHash(ctx, methodSendCoin, req)
}

func (c *Client) SendMet(ctx context.Context, req ports.SendRequest) (string, error) {
	return c.txHash(ctx, methodSendMet, req)
}

func (c *Client) BuyMetronome(ctx context.Context, req ports.BuyRequest) (string, error) {
	return c.txHash(ctx, methodBuyMetronome, req)
}

func (c *Client) ConvertCoin(ctx context.Context, req ports.ConvertRequest) (string, error) {
	return c.txHash(ctx, methodConvertCoin, req)
}

func (c *Client) ConvertMet(ctx context.Context, req ports.ConvertRequest) (string, error) {
	return c.txHash(ctx, methodConvertMet, req)
}

func (c *Client) PortMetronome(ctx context.Context, req ports.PortRequest) (string, error) {
	return c.txHash(ctx, methodPortMetronome, req)
}

func (c *Client) RetryImport(ctx context.Context, req ports.RetryImportRequest) (string, error) {
	return c.txHash(ctx, methodRetryImport, req)
}

// OnInit waits for the wallet client to connect and returns its config.
func (c *Client) OnInit(ctx context.Context) (domain.Config, error) {
	select {
	case <-ctx.Done():
		return domain.Config{}, fmt.Errorf("waiting for wallet client: %w", ctx.Err())
	case <-c.caller.Ready():
	}

	var config domain.Config
	if err := c.caller.Call(ctx, methodOnInit, struct{}{}, &config); err != nil {
		return domain.Config{}, err
	}

	if config.Chains == nil {
		config.Chains = map[string]domain.ChainConfig{}
	}
	for _, id := range config.EnabledChains {
		if _, ok := config.Chains[id]; ok {
			continue
		}
		if chain, ok := c.chains[id]; ok {
			config.Chains[id] = chain
		}
	}
	if err := config.Validate(); err != nil {
		return domain.Config{}, err
	}
	return config, nil
}

func (c *Client) OnStop(ctx context.Context) error {
	err := c.caller.Call(ctx, methodOnStop, struct{}{}, nil)
	if err == ErrNotConnected || err == ErrBridgeClosed {
		return nil
	}
	return err
}

func (c *Client) OnOnboardingCompleted(ctx context.Context, req ports.OnboardingRequest) error {
	return c.caller.Call(ctx, methodOnOnboardingCompleted, req, nil)
}

func (c *Client) OnLoginSubmit(ctx context.Context, password string) error {
	return c.caller.Call(ctx, methodOnLoginSubmit, map[string]string{"password": password}, nil)
}

func (c *Client) CreateMnemonic(_ context.Context) (string, error) {
	return wallet.NewMnemonic(wallet.NewMnemonicOpts{})
}

func (c *Client) IsValidMnemonic(mnemonic string) bool {
	return wallet.IsMnemonicValid(mnemonic)
}

func (c *Client) GetStringEntropy(str string) float64 {
	return wallet.StringEntropy(str)
}

func (c *Client) CopyToClipboard(ctx context.Context, text string) error {
	return c.caller.Call(ctx, methodCopyToClipboard, map[string]string{"text": text}, nil)
}

func (c *Client) OnLinkClick(ctx context.Context, url string) error {
	return c.caller.Call(ctx, methodOnLinkClick, map[string]string{"url": url}, nil)
}

func (c *Client) GetAppVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.caller.Call(ctx, methodGetAppVersion, struct{}{}, &version); err != nil {
		return "", err
	}
	return version, nil
}

func (c *Client) RefreshAllTransactions(ctx context.Context, chain, address string) error {
	return c.caller.Call(ctx, methodRefreshAllTransactions, map[string]string{
		"chain":   chain,
		"address": address,
	}, nil)
}

func (c *Client) RefreshTransaction(ctx context.Context, chain, hash, address string) error {
	return c.caller.Call(ctx, methodRefreshTransaction, map[string]string{
		"chain":   chain,
		"hash":    hash,
		"address": address,
	}, nil)
}

func (c *Client) gasLimit(ctx context.Context, method string, req interface{}) (uint64, error) {
	var res json.RawMessage
	if err := c.caller.Call(ctx, method, req, &res); err != nil {
		return 0, err
	}
	return parseUint(method, res)
}

func (c *Client) amount(ctx context.Context, method string, req interface{}) (string, error) {
	var res json.RawMessage
	if err := c.caller.Call(ctx, method, req, &res); err != nil {
		return "", err
	}
	return parseAmount(method, res)
}

func (c *Client) txHash(ctx context.Context, method string, req interface{}) (string, error) {
	var hash string
	if err := c.caller.Call(ctx, method, req, &hash); err != nil {
		return "", err
	}
	if hash == "" {
		return "", fmt.Errorf("%s: empty transaction hash", method)
	}
	return hash, nil
}

// parseUint accepts both JSON numbers and decimal or hex strings.
func parseUint(method string, raw json.RawMessage) (uint64, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if strings.HasPrefix(s, "0x") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: invalid result %s", method, raw)
		}
		return v, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid result %s", method, raw)
	}
	return v, nil
}

// parseAmount returns the integer amount, in wei, as a decimal string.
func parseAmount(method string, raw json.RawMessage) (string, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	bn, err := units.ToBN(s)
	if err != nil {
		return "", fmt.Errorf("%s: invalid result %s", method, raw)
	}
	return bn.String(), nil
}

func chainDecimals(chain domain.ChainConfig) int32 {
	if chain.Decimals <= 0 {
		return units.DefaultDecimals
	}
	return chain.Decimals
}
