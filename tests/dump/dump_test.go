package dump

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
)

func TestIDString(t *testing.T) {
	for _, id := range []ID{
		{Label: "testnet", Block: 42},
		{Label: "private-net", Block: 0},
	} {
		var res ID
		require.NoError(t, res.decodeString(id.String()))
		require.Equal(t, id, res)
	}

	var res ID
	require.Error(t, res.decodeString("label"))
	require.Error(t, res.decodeString("label-block"))
}

func TestDumpRoundTrip(t *testing.T) {
	dir := t.TempDir()
	id := ID{Label: "test", Block: 100}

	c, err := NewCreator(dir, id)
	require.NoError(t, err)

	deployer := contractState(t, 1, "Deployer")
	factory := contractState(t, 2, "ScorerFactory#1")

	key, value := []byte{'c', 1}, []byte("code")

	w := c.AddContract(RoleDeployer, deployer)
	require.NoError(t, w.Write(key, value))
	key[1], value[0] = 2, 'C' // writer must copy
	require.NoError(t, w.Write(key, value))

	w = c.AddContract(RoleFactory, factory)
	require.NoError(t, w.Write([]byte("creator"), util.Uint160{3}.BytesBE()))

	require.NoError(t, c.Flush())

	_, err = NewCreator(dir, id)
	require.Error(t, err)

	r, err := ReadDump(dir, id)
	require.NoError(t, err)

	var roles []Role
	r.IterateContractStates(func(role Role, st state.Contract) {
		roles = append(roles, role)
	})
	require.Equal(t, []Role{RoleDeployer, RoleFactory}, roles)
	require.Equal(t, deployer.Hash, r.Contracts()[0].State.Hash)
	require.Equal(t, "ScorerFactory#1", r.Contracts()[1].State.Manifest.Name)

	type item struct {
		id   int32
		k, v string
	}
	var items []item
	r.IterateContractStorages(func(id int32, key, value []byte) {
		items = append(items, item{id, string(key), string(value)})
	})
	require.Equal(t, []item{
		{1, "c\x01", "code"},
		{1, "c\x02", "Code"},
		{2, "creator", string(util.Uint160{3}.BytesBE())},
	}, items)

	var ids []ID
	require.NoError(t, IterateDumps(dir, func(id ID, r *Reader) {
		ids = append(ids, id)
		require.Len(t, r.Contracts(), 2)
	}))
	require.Equal(t, []ID{id}, ids)
}

func contractState(t *testing.T, id int32, name string) state.Contract {
	f, err := nef.NewFile([]byte{1, 2, 3})
	require.NoError(t, err)

	return state.Contract{ContractBase: state.ContractBase{
		ID:       id,
		Hash:     util.Uint160{byte(id)},
		NEF:      *f,
		Manifest: *manifest.NewManifest(name),
	}}
}
