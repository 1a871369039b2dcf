package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/trustful-labs/trustful-contract/rpc/scorerfactory"
	"github.com/urfave/cli/v2"
)

type scorerInfo struct {
	Address     string `json:"address"`
	Hash        string `json:"hash"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func factoryFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "factory",
		Usage: "ScorerFactory address or LE hex, defaults to the configured one",
	}
}

func scorersCommand() *cli.Command {
	return &cli.Command{
		Name:  "scorers",
		Usage: "Print the scorer directory of the factory as JSON",
		Flags: []cli.Flag{factoryFlag()},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			factory, err := factoryAddress(c, cfg.Indexer.Factory)
			if err != nil {
				return err
			}

			rpc, err := newRPCClient(c.Context, cfg)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer rpc.Close()

			dir, err := scorerfactory.NewReader(invoker.New(rpc, nil), factory).GetScorers()
			if err != nil {
				return cli.Exit(fmt.Sprintf("get scorers: %v", err), 1)
			}

			res := make([]scorerInfo, 0, len(dir))
			for h, m := range dir {
				res = append(res, scorerInfo{
					Address:     address.Uint160ToString(h),
					Hash:        h.StringLE(),
					Name:        m.Name,
					Description: m.Description,
					Icon:        m.Icon,
				})
			}
			sort.Slice(res, func(i, j int) bool { return res[i].Hash < res[j].Hash })

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
}

func factoryAddress(c *cli.Context, configured string) (util.Uint160, error) {
	s := c.String("factory")
	if s == "" {
		s = configured
	}
	if s == "" {
		return util.Uint160{}, cli.Exit("missing factory address", 1)
	}

	h, err := parseHash(s)
	if err != nil {
		return h, cli.Exit(fmt.Sprintf("invalid factory: %v", err), 1)
	}

	return h, nil
}
