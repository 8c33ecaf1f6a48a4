package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"feesim/core/types"
)

// Default quanta applied when a config file omits explicit settings.
const (
	DefaultLeaderTimeout     = int64(100)
	DefaultValidatorsTimeout = int64(200)
)

// Config is the simulator configuration. It parameterizes the budget quanta
// and the surrounding tooling; the penalty coefficients are protocol
// constants and deliberately absent.
type Config struct {
	LeaderTimeout       int64  `toml:"LeaderTimeout"`
	ValidatorsTimeout   int64  `toml:"ValidatorsTimeout"`
	StakingDistribution string `toml:"StakingDistribution"`

	LogEnvironment string `toml:"LogEnvironment"`
	LogFile        string `toml:"LogFile"`
	MetricsAddress string `toml:"MetricsAddress"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		LeaderTimeout:       DefaultLeaderTimeout,
		ValidatorsTimeout:   DefaultValidatorsTimeout,
		StakingDistribution: string(types.StakingConstant),
	}
}

// Load reads the configuration from the given path, falling back to defaults
// when the file does not exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the protocol cannot run under.
func (c *Config) Validate() error {
	if c.LeaderTimeout <= 0 {
		return fmt.Errorf("config: LeaderTimeout must be positive, got %d", c.LeaderTimeout)
	}
	if c.ValidatorsTimeout <= 0 {
		return fmt.Errorf("config: ValidatorsTimeout must be positive, got %d", c.ValidatorsTimeout)
	}
	distribution := types.StakingDistribution(strings.ToUpper(strings.TrimSpace(c.StakingDistribution)))
	if distribution != types.StakingConstant {
		return fmt.Errorf("config: staking distribution %q is reserved", c.StakingDistribution)
	}
	return nil
}

// Quanta returns the configured budget quanta as big integers.
func (c *Config) Quanta() (leader, validators *big.Int) {
	return big.NewInt(c.LeaderTimeout), big.NewInt(c.ValidatorsTimeout)
}
