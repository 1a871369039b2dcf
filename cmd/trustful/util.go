package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/trustful-labs/trustful-contract/contracts"
	"github.com/trustful-labs/trustful-contract/internal/config"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func newLogger(c *cli.Context) (*zap.Logger, error) {
	if c.Bool("debug") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("load config: %v", err), 1)
	}
	return cfg, nil
}

func newRPCClient(ctx context.Context, cfg *config.Config) (*rpcclient.Client, error) {
	c, err := rpcclient.New(ctx, cfg.RPC.Endpoint, rpcclient.Options{
		DialTimeout:    cfg.RPC.Timeout,
		RequestTimeout: cfg.RPC.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init RPC client: %w", err)
	}

	return c, nil
}

// openAccount returns unlocked account from the configured wallet. The
// default wallet account is used if no address is configured.
func openAccount(cfg *config.Config) (*wallet.Account, error) {
	w, err := wallet.NewWalletFromFile(cfg.Wallet.Path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}
	defer w.Close()

	var acc *wallet.Account
	if cfg.Wallet.Address != "" {
		h, err := address.StringToUint160(cfg.Wallet.Address)
		if err != nil {
			return nil, fmt.Errorf("decode wallet address: %w", err)
		}

		acc = w.GetAccount(h)
		if acc == nil {
			return nil, fmt.Errorf("account %s is missing in the wallet", cfg.Wallet.Address)
		}
	} else {
		if len(w.Accounts) == 0 {
			return nil, errors.New("wallet has no accounts")
		}

		acc = w.GetAccount(w.GetChangeAddress())
		if acc == nil {
			acc = w.Accounts[0]
		}
	}

	err = acc.Decrypt(cfg.Wallet.Password, w.Scrypt)
	if err != nil {
		return nil, fmt.Errorf("unlock account: %w", err)
	}

	return acc, nil
}

func readContracts(cfg *config.Config) (contracts.Set, error) {
	if cfg.Contracts.Dir == "" {
		return contracts.Get()
	}
	return contracts.ReadDir(cfg.Contracts.Dir)
}

// parseHash decodes either Neo address or little-endian hex string.
func parseHash(s string) (util.Uint160, error) {
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}

	h, err := util.Uint160DecodeStringLE(s)
	if err != nil {
		return h, fmt.Errorf("'%s' is neither Neo address nor LE hex: %w", s, err)
	}

	return h, nil
}
