package migration

import (
	"encoding/binary"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/core/dao"
	"github.com/nspcc-dev/neo-go/pkg/core/native"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
	"github.com/trustful-labs/trustful-contract/tests/dump"
)

// Contract is a registry contract restored from the dump into a fresh test
// chain together with all other dumped registry contracts. It allows to
// update the contract to the code compiled from the current sources and to
// read its state before and after that.
//
// Use NewContract to construct it.
type Contract struct {
	id   int32
	exec *neotest.Executor
	inv  *neotest.ContractInvoker

	nefBytes     []byte
	manifestJSON []byte
}

// ContractOptions groups optional parameters of NewContract.
type ContractOptions struct {
	// Source code directory of the new contract version. Defaults to
	// '../<dir>' where dir is the source directory of the contract role, e.g.
	// '../scorerfactory' for the factory.
	SourceCodeDir string

	// Called for each storage item of the restored contract before the chain
	// is started.
	StorageDumpHandler func(key, value []byte)
}

var roleDirs = map[dump.Role]string{
	dump.RoleDeployer: "deployer",
	dump.RoleFactory:  "scorerfactory",
	dump.RoleScorer:   "scorer",
}

// NewContract restores all contracts of the dump into a new test chain and
// returns Contract for the one with the given address. Contract must be
// present in the dump.
func NewContract(tb testing.TB, d *dump.Reader, hash util.Uint160, opts ContractOptions) *Contract {
	store := storage.NewMemoryStore()

	st := restoreDump(tb, d, store, hash, opts.StorageDumpHandler)

	// neo-go#2926: contracts put into the store directly are visible only
	// after the second chain start. nopCloseStore keeps the data between
	// the runs.
	noConfig := func(*config.Blockchain) {}

	bc, _ := chain.NewSingleWithCustomConfigAndStore(tb, noConfig, nopCloseStore{store}, false)
	go bc.Run()
	bc.Close()

	bc, committee := chain.NewSingleWithCustomConfigAndStore(tb, noConfig, store, true)
	exec := neotest.NewExecutor(tb, bc, committee, committee)

	dir := opts.SourceCodeDir
	if dir == "" {
		dir = filepath.Join("..", roleDirs[st.role])
	}

	ctr := neotest.CompileFile(tb, exec.CommitteeHash, dir, filepath.Join(dir, "config.yml"))

	nefBytes, err := ctr.NEF.Bytes()
	require.NoError(tb, err)

	manifestJSON, err := json.Marshal(ctr.Manifest)
	require.NoError(tb, err)

	return &Contract{
		id:           st.id,
		exec:         exec,
		inv:          exec.NewInvoker(hash, committee),
		nefBytes:     nefBytes,
		manifestJSON: manifestJSON,
	}
}

type restored struct {
	id   int32
	role dump.Role
}

// restoreDump writes contract states and storage items of the dump into the
// store the way the chain keeps them.
func restoreDump(tb testing.TB, d *dump.Reader, store *storage.MemoryStore, hash util.Uint160, handler func(key, value []byte)) restored {
	var (
		res   restored
		found bool
		d0    = dao.NewSimple(store, false, true)
		items = storage.NewMemCachedStore(store)
	)

	natives := native.NewContracts(config.ProtocolConfiguration{})
	require.NoError(tb, natives.Management.InitializeCache(d0))

	d.IterateContractStates(func(role dump.Role, cs state.Contract) {
		// contract may be dumped after some updates
		cs.UpdateCounter = 0
		require.NoError(tb, native.PutContractState(d0, &cs))

		if cs.Hash.Equals(hash) {
			res, found = restored{id: cs.ID, role: role}, true
		}
	})
	require.True(tb, found, "contract %s is missing in the dump", hash.StringLE())

	d.IterateContractStorages(func(id int32, key, value []byte) {
		if handler != nil && id == res.id {
			handler(key, value)
		}

		k := make([]byte, 5, 5+len(key))
		k[0] = byte(d0.Version.StoragePrefix)
		binary.LittleEndian.PutUint32(k[1:], uint32(id))

		items.Put(append(k, key...), value)
	})

	_, err := d0.PersistSync()
	require.NoError(tb, err)

	_, err = items.PersistSync()
	require.NoError(tb, err)

	return res
}

func (x *Contract) checkUpdate(tb testing.TB, faultException string, args ...any) {
	const method = "update"

	if faultException != "" {
		x.inv.InvokeFail(tb, faultException, method, x.nefBytes, x.manifestJSON, args)
		return
	}

	x.inv.Invoke(tb, stackitem.Null{}, method, x.nefBytes, x.manifestJSON, args)
}

// CheckUpdateSuccess updates the contract to the compiled code with the given
// data and checks that it succeeds. The update is signed by the committee.
func (x *Contract) CheckUpdateSuccess(tb testing.TB, args ...any) {
	x.checkUpdate(tb, "", args...)
}

// CheckUpdateFail is the same as CheckUpdateSuccess but expects the update to
// fail with the given exception.
func (x *Contract) CheckUpdateFail(tb testing.TB, faultException string, args ...any) {
	x.checkUpdate(tb, faultException, args...)
}

// Call invokes read-only method of the contract without persisting anything
// and returns its single result.
func (x *Contract) Call(tb testing.TB, method string, args ...any) stackitem.Item {
	stack, err := x.inv.TestInvoke(tb, method, args...)
	require.NoError(tb, err, "method '%s'", method)

	res, err := unwrap.Item(&result.Invoke{
		State: vmstate.Halt.String(),
		Stack: stack.ToArray(),
	}, nil)
	require.NoError(tb, err)

	return res
}

// GetStorageItem returns value stored in the contract by key.
func (x *Contract) GetStorageItem(key []byte) []byte {
	return x.exec.Chain.GetStorageItem(x.id, key)
}

// Executor returns test executor of the restored chain.
func (x *Contract) Executor() *neotest.Executor {
	return x.exec
}
