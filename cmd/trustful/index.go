package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/trustful-labs/trustful-contract/indexer"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func indexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Index the factory directory and serve it over HTTP",
		Flags: []cli.Flag{factoryFlag()},
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

			sigCtx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, err := indexer.OpenStore(sigCtx, cfg.Indexer.DSN)
			if err != nil {
				return cli.Exit(fmt.Sprintf("open store: %v", err), 1)
			}
			defer func() { _ = store.Close() }()

			pub, err := indexer.NewPublisher(cfg.Indexer.NATSURL, indexer.NewLoggerAdapter(log))
			if err != nil {
				return cli.Exit(fmt.Sprintf("init publisher: %v", err), 1)
			}
			defer func() { _ = pub.Close() }()

			rpc, err := newRPCClient(sigCtx, cfg)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer rpc.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())

			x := indexer.New(indexer.Prm{
				Logger:       log,
				Blockchain:   rpc,
				Store:        store,
				Publisher:    pub,
				Factory:      factory,
				StartBlock:   cfg.Indexer.StartBlock,
				PollInterval: cfg.Indexer.PollInterval,
				Registerer:   reg,
			})

			log.Info("starting indexer",
				zap.Stringer("factory", factory),
				zap.String("listen", cfg.Indexer.ListenAddress))

			g, ctx := errgroup.WithContext(sigCtx)
			g.Go(func() error {
				return x.Run(ctx)
			})
			g.Go(func() error {
				return indexer.Serve(ctx, cfg.Indexer.ListenAddress, indexer.NewAPI(store, reg))
			})

			err = g.Wait()
			if err != nil && sigCtx.Err() == nil {
				return cli.Exit(err.Error(), 1)
			}

			return nil
		},
	}
}
