package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/metwallet/walletd/internal/core/domain"
	"github.com/spf13/viper"
)

const (
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// ListenAddressKey is the <host:port> address where the bridge waits for
	// the wallet client to connect
	ListenAddressKey = "LISTEN_ADDRESS"
	// ChainsConfigFileKey is the path of an optional JSON file with the
	// configs of the chains not provided by the wallet client
	ChainsConfigFileKey = "CHAINS_CONFIG_FILE"
	// EstimateDebounceKey are the milliseconds to wait after the last input
	// change before estimating gas and conversions
	EstimateDebounceKey = "ESTIMATE_DEBOUNCE"
	// ToastAutoCloseKey are the milliseconds a notification stays visible
	ToastAutoCloseKey = "TOAST_AUTO_CLOSE"
	// LoadingCadenceKey are the milliseconds between two checks of the
	// loading checklist
	LoadingCadenceKey = "LOADING_CADENCE"
	// ClientRequestTimeoutKey are the milliseconds to wait for the wallet
	// client to answer a request
	ClientRequestTimeoutKey = "CLIENT_REQUEST_TIMEOUT"
	// EnableMetricsKey exposes the prometheus metrics on /metrics of the
	// listen address
	EnableMetricsKey = "ENABLE_METRICS"
	// StatsIntervalKey are the milliseconds between two logs of the memory
	// statistics, 0 disables them
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation = "db"

	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	vip *viper.Viper

	supportedDBTypes = map[string]bool{
		DBBadger:   true,
		DBInMemory: true,
	}
	durationKeys = []string{
		EstimateDebounceKey,
		ToastAutoCloseKey,
		LoadingCadenceKey,
		ClientRequestTimeoutKey,
	}
)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("WALLETD")
	vip.AutomaticEnv()

	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir())
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(ListenAddressKey, "localhost:9950")
	vip.SetDefault(EstimateDebounceKey, 500)
	vip.SetDefault(ToastAutoCloseKey, 6000)
	vip.SetDefault(LoadingCadenceKey, 200)
	vip.SetDefault(ClientRequestTimeoutKey, 15000)
	vip.SetDefault(EnableMetricsKey, true)
	vip.SetDefault(StatsIntervalKey, 0)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if GetString(DBTypeKey) == DBBadger {
		if err := makeDirectoryIfNotExists(GetDbDir()); err != nil {
			return fmt.Errorf("error while creating datadir: %s", err)
		}
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

// GetMilliseconds returns the value of key, expressed in milliseconds, as a
// duration.
func GetMilliseconds(key string) time.Duration {
	return time.Duration(vip.GetInt64(key)) * time.Millisecond
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func GetDbDir() string {
	return filepath.Join(GetDatadir(), DbLocation)
}

// GetChainsConfig returns the chain configs listed in the chains config
// file, if any.
func GetChainsConfig() (map[string]domain.ChainConfig, error) {
	path := GetString(ChainsConfigFileKey)
	if path == "" {
		return nil, nil
	}
	return readChainsConfig(path)
}

func readChainsConfig(path string) (map[string]domain.ChainConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read chains config: %w", err)
	}

	var file struct {
		Chains map[string]domain.ChainConfig
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to parse chains config: %w", err)
	}
	for id, chain := range file.Chains {
		if chain.Symbol == "" {
			return nil, fmt.Errorf("missing symbol for chain %s", id)
		}
		if chain.ChainType != domain.ChainTypeEthereum && chain.ChainType != domain.ChainTypeQtum {
			return nil, fmt.Errorf("unknown type %q for chain %s", chain.ChainType, id)
		}
	}
	return file.Chains, nil
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	logLevel := GetInt(LogLevelKey)
	if logLevel < 0 || logLevel > 6 {
		return fmt.Errorf("%s must be in range [0, 6]", LogLevelKey)
	}

	dbType := GetString(DBTypeKey)
	if !supportedDBTypes[dbType] {
		return fmt.Errorf("unsupported %s %q", DBTypeKey, dbType)
	}

	if GetMilliseconds(StatsIntervalKey) < 0 {
		return fmt.Errorf("%s must not be negative", StatsIntervalKey)
	}

	if len(GetString(ListenAddressKey)) <= 0 {
		return fmt.Errorf("missing listen address")
	}

	for _, key := range durationKeys {
		if GetMilliseconds(key) <= 0 {
			return fmt.Errorf("%s must be a positive number of milliseconds", key)
		}
	}

	if path := GetString(ChainsConfigFileKey); path != "" {
		if _, err := readChainsConfig(path); err != nil {
			return err
		}
	}

	return nil
}

func defaultDatadir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".walletd"
	}
	return filepath.Join(dir, "walletd")
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
