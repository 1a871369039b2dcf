package main

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/trustful-labs/trustful-contract/contracts"
	"github.com/trustful-labs/trustful-contract/rpc/deployer"
	"github.com/urfave/cli/v2"
)

func addressCommand() *cli.Command {
	return &cli.Command{
		Name:  "address",
		Usage: "Calculate address of the contract deployed through the Deployer",
		Description: `Address depends on the sender of the deploying transaction, the invoker
of Deployer 'deploy' method (they are the same for direct calls), the salt
and the code. Embedded Scorer code is used by default.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "sender",
				Usage:    "Sender of the deploying transaction (address or LE hex)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "invoker",
				Usage: "Invoker of the Deployer, defaults to the sender",
			},
			&cli.StringFlag{
				Name:  "salt",
				Usage: "Hex-encoded salt or any seed string, new random one if omitted",
			},
			&cli.StringFlag{
				Name:  "contract",
				Usage: "Embedded contract: 'scorer' or 'scorerfactory'",
				Value: "scorer",
			},
		},
		Action: func(c *cli.Context) error {
			sender, err := parseHash(c.String("sender"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid sender: %v", err), 1)
			}

			invoker := sender
			if s := c.String("invoker"); s != "" {
				invoker, err = parseHash(s)
				if err != nil {
					return cli.Exit(fmt.Sprintf("invalid invoker: %v", err), 1)
				}
			}

			seed := c.String("salt")
			if seed == "" {
				seed = uuid.NewString()
				fmt.Fprintf(c.App.Writer, "Seed:     %s\n", seed)
			}
			salt := deployer.SaltFromString(seed)

			set, err := contracts.Get()
			if err != nil {
				return cli.Exit(fmt.Sprintf("read embedded contracts: %v", err), 1)
			}

			var ctr contracts.Contract
			switch c.String("contract") {
			case "scorer":
				ctr = set.Scorer
			case "scorerfactory":
				ctr = set.ScorerFactory
			default:
				return cli.Exit(fmt.Sprintf("unsupported contract '%s'", c.String("contract")), 1)
			}

			h := deployer.Address(sender, ctr.NEF.Checksum, ctr.Manifest.Name, invoker, salt)

			fmt.Fprintf(c.App.Writer, "Salt:     %s\n", hex.EncodeToString(salt))
			fmt.Fprintf(c.App.Writer, "Name:     %s\n", deployer.InstanceName(ctr.Manifest.Name, invoker, salt))
			fmt.Fprintf(c.App.Writer, "Address:  %s\n", address.Uint160ToString(h))
			fmt.Fprintf(c.App.Writer, "Hash:     %s\n", h.StringLE())

			return nil
		},
	}
}
