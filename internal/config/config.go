// Package config provides configuration of the trustful command.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PasswordEnv overrides Wallet.Password if set.
const PasswordEnv = "TRUSTFUL_WALLET_PASSWORD"

// Default values applied by Load to the omitted fields.
const (
	DefaultRPCTimeout    = 15 * time.Second
	DefaultListenAddress = ":8080"
	DefaultPollInterval  = time.Second
	DefaultDSN           = "file:trustful.db?cache=shared"
)

// Config groups all settings of the trustful command.
type Config struct {
	RPC       RPCConfig       `yaml:"rpc"`
	Wallet    WalletConfig    `yaml:"wallet"`
	Contracts ContractsConfig `yaml:"contracts"`
	Registry  RegistryConfig  `yaml:"registry"`
	Indexer   IndexerConfig   `yaml:"indexer"`
}

// RPCConfig holds Neo RPC node connection settings.
type RPCConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// WalletConfig points to the account signing transactions.
type WalletConfig struct {
	Path     string `yaml:"path"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
}

// ContractsConfig holds location of the compiled contracts. The directory
// contains '<name>/contract.nef' and '<name>/manifest.json' for each
// contract. Embedded contracts are used if it's empty.
type ContractsConfig struct {
	Dir string `yaml:"dir"`
}

// RegistryConfig describes the registry deployment.
type RegistryConfig struct {
	// Hex-encoded salt of the factory deployment or a seed string hashed into one.
	FactorySalt       string   `yaml:"factory_salt"`
	Managers          []string `yaml:"managers"`
	ManagerOnlyCreate *bool    `yaml:"manager_only_create"`
	KeepLastManager   *bool    `yaml:"keep_last_manager"`
}

// IndexerConfig holds settings of the factory event indexer.
type IndexerConfig struct {
	Factory       string        `yaml:"factory"`
	DSN           string        `yaml:"dsn"`
	ListenAddress string        `yaml:"listen_address"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	StartBlock    uint32        `yaml:"start_block"`
	NATSURL       string        `yaml:"nats_url"`
}

// Load reads the configuration from the YAML file, applies environment
// overrides and defaults and validates the result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	return Parse(data)
}

// Parse is like Load but accepts the file content.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if v := os.Getenv(PasswordEnv); v != "" {
		cfg.Wallet.Password = v
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.RPC.Timeout == 0 {
		c.RPC.Timeout = DefaultRPCTimeout
	}
	if c.Indexer.DSN == "" {
		c.Indexer.DSN = DefaultDSN
	}
	if c.Indexer.ListenAddress == "" {
		c.Indexer.ListenAddress = DefaultListenAddress
	}
	if c.Indexer.PollInterval == 0 {
		c.Indexer.PollInterval = DefaultPollInterval
	}
}

func (c *Config) validate() error {
	if c.RPC.Endpoint == "" {
		return errors.New("missing RPC endpoint")
	}
	if c.RPC.Timeout < 0 {
		return fmt.Errorf("negative RPC timeout %s", c.RPC.Timeout)
	}
	if c.Indexer.PollInterval < 0 {
		return fmt.Errorf("negative poll interval %s", c.Indexer.PollInterval)
	}
	return nil
}
