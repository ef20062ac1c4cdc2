package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/metwallet/walletd/internal/config"
	"github.com/stretchr/testify/require"
)

const chainsConfig = `{
  "chains": {
    "eth": {
      "displayName": "Ethereum",
      "symbol": "ETH",
      "chainType": "ethereum",
      "chainId": "1",
      "decimals": 18,
      "metTokenAddress": "0x825a2ce3547e77397b7eac4eb464e2edcfaae514",
      "explorerUrl": "https://etherscan.io/tx/{{hash}}",
      "defaultGasPrice": "1000000000"
    }
  }
}`

func TestInitConfig(t *testing.T) {
	datadir := t.TempDir()
	t.Setenv("WALLETD_DATADIR", datadir)
	t.Setenv("WALLETD_ESTIMATE_DEBOUNCE", "250")

	require.NoError(t, config.InitConfig())

	require.Equal(t, 4, config.GetInt(config.LogLevelKey))
	require.Equal(t, config.DBBadger, config.GetString(config.DBTypeKey))
	require.Equal(t, 250*time.Millisecond, config.GetMilliseconds(config.EstimateDebounceKey))
	require.Equal(t, 15*time.Second, config.GetMilliseconds(config.ClientRequestTimeoutKey))
	require.True(t, config.GetBool(config.EnableMetricsKey))
	require.Zero(t, config.GetMilliseconds(config.StatsIntervalKey))
	require.DirExists(t, filepath.Join(datadir, config.DbLocation))

	chains, err := config.GetChainsConfig()
	require.NoError(t, err)
	require.Nil(t, chains)
}

func TestChainsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chains.json")
	require.NoError(t, os.WriteFile(path, []byte(chainsConfig), 0644))

	t.Setenv("WALLETD_DATADIR", t.TempDir())
	t.Setenv("WALLETD_DB_TYPE", config.DBInMemory)
	t.Setenv("WALLETD_CHAINS_CONFIG_FILE", path)

	require.NoError(t, config.InitConfig())

	chains, err := config.GetChainsConfig()
	require.NoError(t, err)
	require.Len(t, chains, 1)

	eth := chains["eth"]
	require.Equal(t, "ETH", eth.Symbol)
	require.Equal(t, "ethereum", eth.ChainType)
	require.Equal(t, "1", eth.ChainID)
	require.Equal(t, int32(18), eth.Decimals)
	require.Equal(t, "https://etherscan.io/tx/{{hash}}", eth.ExplorerURL)
}

func TestFailingInitConfig(t *testing.T) {
	badChains := filepath.Join(t.TempDir(), "chains.json")
	require.NoError(t, os.WriteFile(
		badChains, []byte(`{"chains": {"btc": {"symbol": "BTC", "chainType": "bitcoin"}}}`), 0644,
	))

	tests := []struct {
		name string
		env  map[string]string
	}{
		{"invalid log level", map[string]string{"WALLETD_LOG_LEVEL": "7"}},
		{"unsupported db type", map[string]string{"WALLETD_DB_TYPE": "postgres"}},
		{"invalid debounce", map[string]string{"WALLETD_ESTIMATE_DEBOUNCE": "0"}},
		{"invalid loading cadence", map[string]string{"WALLETD_LOADING_CADENCE": "-1"}},
		{"negative stats interval", map[string]string{"WALLETD_STATS_INTERVAL": "-10"}},
		{"missing chains file", map[string]string{"WALLETD_CHAINS_CONFIG_FILE": "/not/found.json"}},
		{"unknown chain type", map[string]string{"WALLETD_CHAINS_CONFIG_FILE": badChains}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WALLETD_DATADIR", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			require.Error(t, config.InitConfig())
		})
	}
}
