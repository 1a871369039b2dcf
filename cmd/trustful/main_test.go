package main

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/trustful-labs/trustful-contract/contracts"
	"github.com/trustful-labs/trustful-contract/internal/config"
	"github.com/trustful-labs/trustful-contract/rpc/deployer"
	"github.com/trustful-labs/trustful-contract/rpc/scorerfactory"
)

func TestParseHash(t *testing.T) {
	h := util.Uint160{1, 2, 3}

	got, err := parseHash(address.Uint160ToString(h))
	require.NoError(t, err)
	require.Equal(t, h, got)

	got, err = parseHash(h.StringLE())
	require.NoError(t, err)
	require.Equal(t, h, got)

	_, err = parseHash("neither")
	require.Error(t, err)
}

func TestDeployPrm(t *testing.T) {
	manager := util.Uint160{9}
	no := false

	prm, err := deployPrm(&config.Config{Registry: config.RegistryConfig{
		FactorySalt:     "seed",
		Managers:        []string{address.Uint160ToString(manager)},
		KeepLastManager: &no,
	}})
	require.NoError(t, err)
	require.Equal(t, deployer.SaltFromString("seed"), prm.FactorySalt)
	require.Equal(t, []util.Uint160{manager}, prm.Managers)
	require.Equal(t, &scorerfactory.Policy{ManagerOnlyCreate: true, KeepLastManager: false}, prm.Policy)

	prm, err = deployPrm(&config.Config{})
	require.NoError(t, err)
	require.Nil(t, prm.FactorySalt)
	require.Nil(t, prm.Policy)

	_, err = deployPrm(&config.Config{Registry: config.RegistryConfig{Managers: []string{"bad"}}})
	require.ErrorContains(t, err, "invalid manager")
}

func TestAddressCommand(t *testing.T) {
	var (
		out    bytes.Buffer
		sender = util.Uint160{1}
		salt   = make([]byte, deployer.SaltLength)
	)

	app := newApp()
	app.Writer = &out

	err := app.Run([]string{"trustful", "address",
		"--sender", address.Uint160ToString(sender),
		"--salt", hex.EncodeToString(salt),
	})
	require.NoError(t, err)

	set, err := contracts.Get()
	require.NoError(t, err)

	exp := deployer.Address(sender, set.Scorer.NEF.Checksum, set.Scorer.Manifest.Name, sender, salt)
	require.True(t, strings.Contains(out.String(), exp.StringLE()), out.String())
	require.True(t, strings.Contains(out.String(), deployer.InstanceName("Scorer", sender, salt)), out.String())

	t.Run("random salt", func(t *testing.T) {
		out.Reset()

		err := app.Run([]string{"trustful", "address", "--sender", sender.StringLE()})
		require.NoError(t, err)
		require.Contains(t, out.String(), "Seed:")
	})

	t.Run("unsupported contract", func(t *testing.T) {
		err := app.Run([]string{"trustful", "address", "--sender", sender.StringLE(), "--contract", "deployer"})
		require.Error(t, err)
	})
}
