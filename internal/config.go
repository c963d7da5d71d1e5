package internal

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"go-simpler.org/env"
	"gopkg.in/yaml.v3"
)

// Config is the tool configuration, read from YAML and overridden by the environment
type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	Wallet   WalletConfig   `yaml:"wallet"`
	Contract ContractConfig `yaml:"contract"`
	Journal  string         `yaml:"journal"`
}

// NetworkConfig selects the RPC node and the only accepted chain
type NetworkConfig struct {
	ChainID int64  `yaml:"chain_id"`
	RPCURL  string `yaml:"rpc_url"`
}

// WalletConfig locates the signing key
type WalletConfig struct {
	Keystore   string `yaml:"keystore,omitempty"`
	Passphrase string `yaml:"-"`
	PrivateKey string `yaml:"-"`
}

// ContractConfig describes the collection contract and mint parameters
type ContractConfig struct {
	Address       string `yaml:"address"`
	MintFee       string `yaml:"mint_fee"`
	Confirmations uint64 `yaml:"confirmations"`
}

// envOverrides are read from the process environment (and .env)
type envOverrides struct {
	RPCURL        string `env:"PUNKS_RPC_URL"`
	ChainID       int64  `env:"PUNKS_CHAIN_ID"`
	Contract      string `env:"PUNKS_CONTRACT"`
	Keystore      string `env:"PUNKS_KEYSTORE"`
	Passphrase    string `env:"PUNKS_KEYSTORE_PASSWORD"`
	PrivateKey    string `env:"PUNKS_PRIVATE_KEY"`
	MintFee       string `env:"PUNKS_MINT_FEE"`
	Confirmations uint64 `env:"PUNKS_CONFIRMATIONS"`
	Journal       string `env:"PUNKS_JOURNAL"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	journal := ""
	if home, err := os.UserHomeDir(); err == nil {
		journal = filepath.Join(home, ".punks-mint", "receipts.db")
	}
	return &Config{
		Network:  NetworkConfig{ChainID: MumbaiChainID},
		Contract: ContractConfig{MintFee: "0.01", Confirmations: 1},
		Journal:  journal,
	}
}

// DefaultConfigPath returns ~/.punks-mint.yaml
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".punks-mint.yaml"
	}
	return filepath.Join(home, ".punks-mint.yaml")
}

// LoadConfig reads path (a missing file is fine unless required) and applies
// environment overrides.
func LoadConfig(path string, required bool) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Field: path, Err: fmt.Errorf("failed to parse config: %w", err)}
		}
		LogDebug("Loaded config from %s", path)
	case errors.Is(err, os.ErrNotExist) && !required:
		LogDebug("No config file at %s, using defaults", path)
	default:
		return nil, &ConfigError{Field: path, Err: err}
	}

	if err := godotenv.Load(); err != nil {
		LogDebug("No .env file found, using environment variables")
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if err := env.Load(&o, nil); err != nil {
		return &ConfigError{Field: "env", Err: err}
	}
	if o.RPCURL != "" {
		c.Network.RPCURL = o.RPCURL
	}
	if o.ChainID != 0 {
		c.Network.ChainID = o.ChainID
	}
	if o.Contract != "" {
		c.Contract.Address = o.Contract
	}
	if o.Keystore != "" {
		c.Wallet.Keystore = o.Keystore
	}
	if o.Passphrase != "" {
		c.Wallet.Passphrase = o.Passphrase
	}
	if o.PrivateKey != "" {
		c.Wallet.PrivateKey = o.PrivateKey
	}
	if o.MintFee != "" {
		c.Contract.MintFee = o.MintFee
	}
	if o.Confirmations != 0 {
		c.Contract.Confirmations = o.Confirmations
	}
	if o.Journal != "" {
		c.Journal = o.Journal
	}
	return nil
}

// Validate checks the values the mint flow depends on
func (c *Config) Validate() error {
	if c.Network.RPCURL == "" {
		return &ConfigError{Field: "network.rpc_url", Err: errors.New("required (or set PUNKS_RPC_URL)")}
	}
	if c.Network.ChainID <= 0 {
		return &ConfigError{Field: "network.chain_id", Err: fmt.Errorf("must be positive, got %d", c.Network.ChainID)}
	}
	if !common.IsHexAddress(c.Contract.Address) {
		return &ConfigError{Field: "contract.address", Err: fmt.Errorf("not a hex address: %q", c.Contract.Address)}
	}
	if _, err := c.MintFeeWei(); err != nil {
		return err
	}
	if c.Contract.Confirmations < 1 || c.Contract.Confirmations > MaxConfirmations {
		return &ConfigError{Field: "contract.confirmations", Err: fmt.Errorf("must be between 1 and %d, got %d", MaxConfirmations, c.Contract.Confirmations)}
	}
	return nil
}

// MintFeeWei returns the configured fee in wei
func (c *Config) MintFeeWei() (*big.Int, error) {
	wei, err := ParseEther(c.Contract.MintFee)
	if err != nil {
		return nil, &ConfigError{Field: "contract.mint_fee", Err: err}
	}
	return wei, nil
}

// ProviderConfig returns the wallet provider configuration derived from c.
// Injected keys stay disabled until SessionManager.InitializeOnLoad enables them.
func (c *Config) ProviderConfig() ProviderConfig {
	return ProviderConfig{
		RequiredNetwork: c.Network.ChainID,
		Options: ProviderOptions{
			RPCURL:       c.Network.RPCURL,
			KeystorePath: c.Wallet.Keystore,
			Passphrase:   c.Wallet.Passphrase,
			InjectedKey:  c.Wallet.PrivateKey,
		},
	}
}
