package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sample = `
rpc:
  endpoint: http://localhost:30333
  timeout: 5s
wallet:
  path: wallet.json
  address: NbUgTSFvPmsRxmGeWpuuGeJUoRoi6PErcM
  password: secret
registry:
  factory_salt: "0102"
  managers:
    - NbUgTSFvPmsRxmGeWpuuGeJUoRoi6PErcM
  manager_only_create: false
indexer:
  factory: "0x1234"
  nats_url: nats://localhost:4222
`

func TestLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(p, []byte(sample), 0o600))

	cfg, err := Load(p)
	require.NoError(t, err)

	require.Equal(t, "http://localhost:30333", cfg.RPC.Endpoint)
	require.Equal(t, 5*time.Second, cfg.RPC.Timeout)
	require.Equal(t, "secret", cfg.Wallet.Password)
	require.Equal(t, "0102", cfg.Registry.FactorySalt)
	require.Len(t, cfg.Registry.Managers, 1)
	require.NotNil(t, cfg.Registry.ManagerOnlyCreate)
	require.False(t, *cfg.Registry.ManagerOnlyCreate)
	require.Nil(t, cfg.Registry.KeepLastManager)
	require.Equal(t, "nats://localhost:4222", cfg.Indexer.NATSURL)

	t.Run("defaults", func(t *testing.T) {
		require.Empty(t, cfg.Contracts.Dir)
		require.Equal(t, DefaultDSN, cfg.Indexer.DSN)
		require.Equal(t, DefaultListenAddress, cfg.Indexer.ListenAddress)
		require.Equal(t, DefaultPollInterval, cfg.Indexer.PollInterval)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestParse(t *testing.T) {
	t.Run("password override", func(t *testing.T) {
		t.Setenv(PasswordEnv, "from-env")

		cfg, err := Parse([]byte(sample))
		require.NoError(t, err)
		require.Equal(t, "from-env", cfg.Wallet.Password)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		_, err := Parse([]byte("wallet:\n  path: w.json\n"))
		require.ErrorContains(t, err, "missing RPC endpoint")
	})

	t.Run("invalid YAML", func(t *testing.T) {
		_, err := Parse([]byte("rpc: [\n"))
		require.Error(t, err)
	})

	t.Run("negative timeout", func(t *testing.T) {
		_, err := Parse([]byte("rpc:\n  endpoint: http://localhost\n  timeout: -1s\n"))
		require.ErrorContains(t, err, "negative RPC timeout")
	})
}
