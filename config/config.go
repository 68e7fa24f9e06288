package config

import (
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v2"
)

// Config describes the executor deployment: its ledger account, the
// token universe, the lending pools it may borrow from, and the venue
// pools it may route through.
type Config struct {
	Executor string `yaml:"executor"`
	Owner    string `yaml:"owner"`
	Debug    bool   `yaml:"debug"`

	Metrics struct {
		Enabled  bool   `yaml:"enabled"`
		Endpoint string `yaml:"endpoint"`
	} `yaml:"metrics"`

	Defaults struct {
		MinProfitBps   uint32 `yaml:"min_profit_bps"`
		MaxSlippageBps uint32 `yaml:"max_slippage_bps"`
	} `yaml:"defaults"`

	Tokens       []TokenConfig       `yaml:"tokens"`
	LendingPools []LendingPoolConfig `yaml:"lending_pools"`
	Pools        []VenuePoolConfig   `yaml:"pools"`
}

// TokenConfig names a token and its display precision.
type TokenConfig struct {
	Symbol   string `yaml:"symbol"`
	Address  string `yaml:"address"`
	Decimals int32  `yaml:"decimals"`
}

// LendingPoolConfig seeds a pool the executor can flash-borrow from.
type LendingPoolConfig struct {
	Address   string `yaml:"address"`
	Token     string `yaml:"token"` // symbol or address
	Liquidity string `yaml:"liquidity"`
}

// VenuePoolConfig seeds a trading pool on one venue. FeeTier applies to
// venues with per-pool fee tiers and is in thousandths (997 = 0.3%).
type VenuePoolConfig struct {
	Venue    string `yaml:"venue"` // "uniswap_v2" or "sushiswap_v2"
	Address  string `yaml:"address"`
	Token0   string `yaml:"token0"`
	Token1   string `yaml:"token1"`
	Reserve0 string `yaml:"reserve0"`
	Reserve1 string `yaml:"reserve1"`
	FeeTier  uint32 `yaml:"fee_tier,omitempty"`
}

// Load reads a YAML config file and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvExecutor); v != "" {
		c.Executor = v
	}
	if v := os.Getenv(EnvOwner); v != "" {
		c.Owner = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		c.Debug = strings.EqualFold(v, "true") || v == "1"
	}
}

func (c *Config) validate() error {
	if !common.IsHexAddress(c.Executor) {
		return fmt.Errorf("invalid executor address %q", c.Executor)
	}
	if !common.IsHexAddress(c.Owner) {
		return fmt.Errorf("invalid owner address %q", c.Owner)
	}
	for _, t := range c.Tokens {
		if !common.IsHexAddress(t.Address) {
			return fmt.Errorf("invalid address for token %s", t.Symbol)
		}
	}
	return nil
}

// ExecutorAddress returns the executor's ledger account.
func (c *Config) ExecutorAddress() common.Address {
	return common.HexToAddress(c.Executor)
}

// OwnerAddress returns the configured owner.
func (c *Config) OwnerAddress() common.Address {
	return common.HexToAddress(c.Owner)
}

// ResolveToken maps a token symbol or hex address to its address.
func (c *Config) ResolveToken(ref string) (common.Address, error) {
	for _, t := range c.Tokens {
		if strings.EqualFold(t.Symbol, ref) {
			return common.HexToAddress(t.Address), nil
		}
	}
	if common.IsHexAddress(ref) {
		return common.HexToAddress(ref), nil
	}
	return common.Address{}, fmt.Errorf("unknown token %q", ref)
}

// DecimalsFor returns the display precision for a token address, or 0.
func (c *Config) DecimalsFor(addr common.Address) int32 {
	for _, t := range c.Tokens {
		if common.HexToAddress(t.Address) == addr {
			return t.Decimals
		}
	}
	return 0
}

// ParseAmount parses a decimal integer amount from config or flags.
func ParseAmount(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}
