package migration_test

import (
	"crypto/rand"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/trustful-labs/trustful-contract/rpc/deployer"
	"github.com/trustful-labs/trustful-contract/rpc/scorer"
	"github.com/trustful-labs/trustful-contract/tests/dump"
	"github.com/trustful-labs/trustful-contract/tests/migration"
)

const (
	deployerDir = "../../contracts/deployer"
	scorerDir   = "../../contracts/scorer"
)

func compile(t *testing.T, e *neotest.Executor, dir string) (*neotest.Contract, []byte, []byte) {
	c := neotest.CompileFile(t, e.CommitteeHash, dir, filepath.Join(dir, "config.yml"))

	bNEF, err := c.NEF.Bytes()
	require.NoError(t, err)

	jManifest, err := json.Marshal(c.Manifest)
	require.NoError(t, err)

	return c, bNEF, jManifest
}

// prepareDump deploys Deployer and a Scorer instance through it, registers a
// user and writes both contracts into the dump.
func prepareDump(t *testing.T) (*dump.Reader, util.Uint160, util.Uint160, util.Uint160) {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)

	d, _, _ := compile(t, e, deployerDir)
	e.DeployContract(t, d, nil)

	sc, bNEF, jManifest := compile(t, e, scorerDir)
	codeHash := deployer.CodeHash(bNEF, jManifest)

	inv := e.CommitteeInvoker(d.Hash)
	inv.Invoke(t, stackitem.NewByteArray(codeHash.BytesBE()), "upload", bNEF, jManifest)

	creator := e.NewAccount(t, 100_0000_0000)
	user := e.NewAccount(t, 100_0000_0000)

	salt := make([]byte, deployer.SaltLength)
	_, _ = rand.Read(salt)

	initArgs := scorer.InitArgs(creator.ScriptHash(), nil, scorer.Metadata{
		Name:        "Trustful",
		Description: "Migrated scorer",
		Icon:        "icon",
	})
	var scorerHash util.Uint160
	inv.WithSigners(creator).InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Len(t, stack, 1)

		arr, ok := stack[0].Value().([]stackitem.Item)
		require.True(t, ok)
		require.Len(t, arr, 2)

		b, err := arr[0].TryBytes()
		require.NoError(t, err)

		scorerHash, err = util.Uint160DecodeBytesBE(b)
		require.NoError(t, err)
	}, "deploy", creator.ScriptHash(), codeHash, salt, "initialize", initArgs)

	require.Equal(t, deployer.Address(creator.ScriptHash(), sc.NEF.Checksum, "Scorer", creator.ScriptHash(), salt), scorerHash)

	e.NewInvoker(scorerHash, user).Invoke(t, stackitem.Null{}, "addUser", user.ScriptHash())

	dir := t.TempDir()
	id := dump.ID{Label: "local", Block: bc.BlockHeight()}

	c, err := dump.NewCreator(dir, id)
	require.NoError(t, err)

	migration.DumpContract(t, bc, c, dump.RoleDeployer, d.Hash)
	migration.DumpContract(t, bc, c, dump.RoleScorer, scorerHash)
	require.NoError(t, c.Flush())

	r, err := dump.ReadDump(dir, id)
	require.NoError(t, err)

	return r, d.Hash, scorerHash, user.ScriptHash()
}

func TestRestoreFromChain(t *testing.T) {
	r, deployerHash, scorerHash, user := prepareDump(t)

	t.Run("scorer", func(t *testing.T) {
		var keys int
		c := migration.NewContract(t, r, scorerHash, migration.ContractOptions{
			SourceCodeDir:      scorerDir,
			StorageDumpHandler: func([]byte, []byte) { keys++ },
		})
		require.NotZero(t, keys)

		require.NotNil(t, c.GetStorageItem([]byte("creator")))

		active, err := c.Call(t, "getUsers").Value().([]stackitem.MapElement)[0].Value.TryBool()
		require.NoError(t, err)
		require.True(t, active)

		score, err := c.Call(t, "getUserScore", user).TryInteger()
		require.NoError(t, err)
		require.Zero(t, score.Int64())

		registry := c.GetStorageItem([]byte("registry"))
		require.Equal(t, deployerHash.BytesBE(), registry)
	})

	t.Run("deployer", func(t *testing.T) {
		var codes, salts [][]byte
		c := migration.NewContract(t, r, deployerHash, migration.ContractOptions{
			SourceCodeDir:      deployerDir,
			StorageDumpHandler: func(key, _ []byte) {
				switch key[0] {
				case 'c':
					codes = append(codes, append([]byte(nil), key...))
				case 's':
					salts = append(salts, append([]byte(nil), key...))
				}
			},
		})
		require.Len(t, codes, 1)
		require.Len(t, salts, 1)

		c.CheckUpdateFail(t, "contract is already of the latest version")

		for _, k := range append(codes, salts...) {
			require.NotNil(t, c.GetStorageItem(k), "item %x should remain", k)
		}

		// uploaded code survives restoration
		_, bNEF, jManifest := compile(t, c.Executor(), scorerDir)
		code := c.Call(t, "getCode", deployer.CodeHash(bNEF, jManifest))
		require.IsType(t, stackitem.NewStruct(nil), code)
	})
}
