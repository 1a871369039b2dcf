package migration

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/stretchr/testify/require"
	"github.com/trustful-labs/trustful-contract/tests/dump"
)

// inheritor of storage.Store canceling Close method.
type nopCloseStore struct {
	storage.Store
}

func (x nopCloseStore) Close() error {
	return nil
}

// DumpContract adds the contract deployed in the given blockchain to the dump
// with all its storage items.
func DumpContract(tb testing.TB, bc *core.Blockchain, c *dump.Creator, role dump.Role, hash util.Uint160) {
	cs := bc.GetContractState(hash)
	require.NotNil(tb, cs, "missing contract %s", hash.StringLE())

	w := c.AddContract(role, *cs)

	var err error
	bc.SeekStorage(cs.ID, nil, func(k, v []byte) bool {
		err = w.Write(k, v)
		return err == nil
	})
	require.NoError(tb, err)
}
