package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "trustful",
		Usage:   "Trustful scorer registry tool",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML configuration file",
				Value:   "config.yml",
				EnvVars: []string{"TRUSTFUL_CONFIG"},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable development logging",
			},
		},
		Commands: []*cli.Command{
			deployCommand(),
			addressCommand(),
			scorersCommand(),
			dumpCommand(),
			indexCommand(),
		},
	}
}
