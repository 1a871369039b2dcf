package main

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/trustful-labs/trustful-contract/deploy"
	"github.com/trustful-labs/trustful-contract/internal/config"
	"github.com/trustful-labs/trustful-contract/rpc/deployer"
	"github.com/trustful-labs/trustful-contract/rpc/scorerfactory"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func deployCommand() *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "Deploy the registry: Deployer, code and ScorerFactory",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			log, err := newLogger(c)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			prm, err := deployPrm(cfg)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			prm.Logger = log

			if cfg.Registry.FactorySalt == "" {
				seed := uuid.NewString()
				prm.FactorySalt = deployer.SaltFromString(seed)
				log.Warn("factory salt is not configured, generated new one, save it to repeat the deployment",
					zap.String("seed", seed))
			}

			prm.LocalAccount, err = openAccount(cfg)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			prm.Contracts, err = readContracts(cfg)
			if err != nil {
				return cli.Exit(fmt.Sprintf("read contracts: %v", err), 1)
			}

			rpc, err := newRPCClient(c.Context, cfg)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer rpc.Close()
			prm.Blockchain = rpc

			res, err := deploy.Deploy(c.Context, prm)
			if err != nil {
				return cli.Exit(fmt.Sprintf("deploy registry: %v", err), 1)
			}

			fmt.Fprintf(c.App.Writer, "Deployer:      %s (%s)\n", address.Uint160ToString(res.Deployer), res.Deployer.StringLE())
			fmt.Fprintf(c.App.Writer, "ScorerFactory: %s (%s)\n", address.Uint160ToString(res.Factory), res.Factory.StringLE())
			fmt.Fprintf(c.App.Writer, "Scorer code:   %s\n", res.ScorerCode.StringLE())
			fmt.Fprintf(c.App.Writer, "Factory salt:  %s\n", hex.EncodeToString(prm.FactorySalt))

			return nil
		},
	}
}

// deployPrm fills deploy.Prm fields configured in the registry section.
func deployPrm(cfg *config.Config) (deploy.Prm, error) {
	var prm deploy.Prm

	if cfg.Registry.FactorySalt != "" {
		prm.FactorySalt = deployer.SaltFromString(cfg.Registry.FactorySalt)
	}

	for _, s := range cfg.Registry.Managers {
		h, err := parseHash(s)
		if err != nil {
			return prm, fmt.Errorf("invalid manager: %w", err)
		}
		prm.Managers = append(prm.Managers, h)
	}

	if cfg.Registry.ManagerOnlyCreate != nil || cfg.Registry.KeepLastManager != nil {
		// contract defaults
		p := scorerfactory.Policy{ManagerOnlyCreate: true, KeepLastManager: true}
		if cfg.Registry.ManagerOnlyCreate != nil {
			p.ManagerOnlyCreate = *cfg.Registry.ManagerOnlyCreate
		}
		if cfg.Registry.KeepLastManager != nil {
			p.KeepLastManager = *cfg.Registry.KeepLastManager
		}
		prm.Policy = &p
	}

	return prm, nil
}
