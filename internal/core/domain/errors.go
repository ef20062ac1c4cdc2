package domain

import "errors"

var (
	// ErrMissingEnabledChains is returned when the config lists no enabled chain
	ErrMissingEnabledChains = errors.New(
		"config must contain an \"enabledChains\" property with at least one value",
	)
	// ErrChainNotEnabled is returned when referring to a chain missing from
	// config.enabledChains
	ErrChainNotEnabled = errors.New("chain is not enabled")
	// ErrMissingChainConfig ...
	ErrMissingChainConfig = errors.New("enabled chain has no config")
	// ErrNoActiveWallet ...
	ErrNoActiveWallet = errors.New("no active wallet")
)

// Validate checks the invariants of the config received with the initial
// state.
func (c Config) Validate() error {
	if len(c.EnabledChains) <= 0 {
		return ErrMissingEnabledChains
	}
	for _, id := range c.EnabledChains {
		if _, ok := c.Chains[id]; !ok {
			return ErrMissingChainConfig
		}
	}
	return nil
}
