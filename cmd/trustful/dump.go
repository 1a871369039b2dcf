package main

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/trustful-labs/trustful-contract/rpc/scorerfactory"
	"github.com/trustful-labs/trustful-contract/tests/dump"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "Dump states and storages of the registry contracts for migration tests",
		Flags: []cli.Flag{
			factoryFlag(),
			&cli.StringFlag{
				Name:     "label",
				Usage:    "Label of the blockchain environment (e.g. 'testnet')",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Output directory",
				Value: "testdata",
			},
		},
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

			factory, err := factoryAddress(c, cfg.Indexer.Factory)
			if err != nil {
				return err
			}

			rootDir := c.String("out")

			err = os.MkdirAll(rootDir, 0700)
			if err != nil {
				return cli.Exit(fmt.Sprintf("create root dir: %v", err), 1)
			}

			rpc, err := newRPCClient(c.Context, cfg)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer rpc.Close()

			b, err := newRemoteBlockchain(rpc)
			if err != nil {
				return cli.Exit(fmt.Sprintf("init remote blockchain: %v", err), 1)
			}

			d, err := dump.NewCreator(rootDir, dump.ID{
				Label: c.String("label"),
				Block: b.height,
			})
			if err != nil {
				return cli.Exit(fmt.Sprintf("init local dumper: %v", err), 1)
			}

			err = overtakeContracts(log, b, d, factory)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			err = d.Flush()
			if err != nil {
				return cli.Exit(fmt.Sprintf("flush dump: %v", err), 1)
			}

			log.Info("registry contracts are successfully dumped", zap.String("dir", rootDir))

			return nil
		},
	}
}

func overtakeContracts(log *zap.Logger, from *remoteBlockchain, to *dump.Creator, factory util.Uint160) error {
	registry, err := from.rpc.GetStorageByHash(factory, []byte("registry"))
	if err != nil {
		return fmt.Errorf("get Deployer address from the factory: %w", err)
	}

	deployerHash, err := util.Uint160DecodeBytesBE(registry)
	if err != nil {
		return fmt.Errorf("decode Deployer address: %w", err)
	}

	scorers, err := scorerfactory.NewReader(invoker.New(from.rpc, nil), factory).GetScorers()
	if err != nil {
		return fmt.Errorf("get scorers: %w", err)
	}

	type item struct {
		role dump.Role
		hash util.Uint160
	}

	items := []item{{dump.RoleDeployer, deployerHash}, {dump.RoleFactory, factory}}
	for h := range scorers {
		items = append(items, item{dump.RoleScorer, h})
	}

	for _, it := range items {
		log.Info("processing contract...", zap.String("role", string(it.role)), zap.Stringer("address", it.hash))

		ctr, err := from.contractState(it.hash)
		if err != nil {
			return fmt.Errorf("get %s contract state: %w", it.role, err)
		}

		w := to.AddContract(it.role, ctr)

		err = from.iterateContractStorage(it.hash, w.Write)
		if err != nil {
			return fmt.Errorf("iterate %s contract storage: %w", it.role, err)
		}
	}

	return nil
}
