package tests

import (
	"crypto/rand"
	"encoding/json"
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/trustful-labs/trustful-contract/rpc/deployer"
)

const (
	deployerPath      = "../contracts/deployer"
	scorerPath        = "../contracts/scorer"
	scorerFactoryPath = "../contracts/scorerfactory"
	scorerUpgradePath = "../internal/testcontracts/scorerupgrade"
)

// accountGAS is enough to pay for several contract deployments.
const accountGAS = 1000_0000_0000

func randomBytes(n int) []byte {
	a := make([]byte, n)
	_, _ = rand.Read(a)
	return a
}

func newSalt() []byte {
	return randomBytes(deployer.SaltLength)
}

func newExecutor(t *testing.T) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

func compileContract(t *testing.T, e *neotest.Executor, dir string) *neotest.Contract {
	return neotest.CompileFile(t, e.CommitteeHash, dir, path.Join(dir, "config.yml"))
}

// contractCode returns binary NEF and JSON manifest of the compiled contract.
func contractCode(t *testing.T, c *neotest.Contract) ([]byte, []byte) {
	bNEF, err := c.NEF.Bytes()
	require.NoError(t, err)

	jManifest, err := json.Marshal(c.Manifest)
	require.NoError(t, err)

	return bNEF, jManifest
}

// registry groups Deployer contract with the code uploaded to it.
type registry struct {
	e   *neotest.Executor
	inv *neotest.ContractInvoker

	scorer       *neotest.Contract
	scorerCode   util.Uint256
	factory      *neotest.Contract
	factoryCode  util.Uint256
	deployerHash util.Uint160
}

// newRegistry deploys Deployer and uploads Scorer and ScorerFactory code.
func newRegistry(t *testing.T) *registry {
	e := newExecutor(t)

	ctr := compileContract(t, e, deployerPath)
	e.DeployContract(t, ctr, nil)

	r := &registry{
		e:            e,
		inv:          e.CommitteeInvoker(ctr.Hash),
		deployerHash: ctr.Hash,
		scorer:       compileContract(t, e, scorerPath),
		factory:      compileContract(t, e, scorerFactoryPath),
	}

	r.scorerCode = r.upload(t, r.scorer)
	r.factoryCode = r.upload(t, r.factory)

	return r
}

func (r *registry) upload(t *testing.T, c *neotest.Contract) util.Uint256 {
	bNEF, jManifest := contractCode(t, c)
	h := deployer.CodeHash(bNEF, jManifest)

	r.inv.Invoke(t, stackitem.NewByteArray(h.BytesBE()), "upload", bNEF, jManifest)

	return h
}

// deploy deploys code through the Deployer on behalf of the signer and returns
// address of the new contract.
func (r *registry) deploy(t *testing.T, signer neotest.Signer, code util.Uint256, salt []byte, initArgs []any) util.Uint160 {
	var res util.Uint160

	r.inv.WithSigners(signer).InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Len(t, stack, 1)

		arr, ok := stack[0].Value().([]stackitem.Item)
		require.True(t, ok)
		require.Len(t, arr, 2)

		b, err := arr[0].TryBytes()
		require.NoError(t, err)

		res, err = util.Uint160DecodeBytesBE(b)
		require.NoError(t, err)
	}, "deploy", signer.ScriptHash(), code, salt, "initialize", initArgs)

	return res
}

// testInvoker implements RPC binding invoker interfaces on top of the test
// chain, so contract state can be read with the bindings.
type testInvoker struct {
	t   testing.TB
	inv *neotest.ContractInvoker
}

func (i testInvoker) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	inv := i.inv
	if !inv.Hash.Equals(contract) {
		inv = inv.Executor.NewInvoker(contract, inv.Signers...)
	}

	s, err := inv.TestInvoke(i.t, operation, params...)
	if err != nil {
		return &result.Invoke{State: "FAULT", FaultException: err.Error()}, nil
	}

	return &result.Invoke{State: "HALT", Stack: s.ToArray()}, nil
}

// findEvent returns the first notification with the given name emitted by
// the contract in the transaction.
func findEvent(t *testing.T, e *neotest.Executor, h util.Uint256, contract util.Uint160, name string) state.NotificationEvent {
	aer := e.GetTxExecResult(t, h)
	for _, ev := range aer.Events {
		if ev.Name == name && ev.ScriptHash.Equals(contract) {
			return ev
		}
	}

	require.FailNowf(t, "missing notification", "%s from %s", name, contract.StringLE())
	return state.NotificationEvent{}
}

// invokeBytes invokes the method and checks that it returns single item with
// the expected bytes. Hashes read from the contract storage are returned as
// Buffer, so the item type is not compared.
func invokeBytes(t *testing.T, inv *neotest.ContractInvoker, expected []byte, method string, args ...any) util.Uint256 {
	return inv.InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Len(t, stack, 1)

		b, err := stack[0].TryBytes()
		require.NoError(t, err)
		require.Equal(t, expected, b)
	}, method, args...)
}

func hashItem(h util.Uint160) stackitem.Item {
	return stackitem.NewByteArray(h.BytesBE())
}

func hashesItem(hs ...util.Uint160) stackitem.Item {
	items := make([]stackitem.Item, len(hs))
	for i := range hs {
		items[i] = hashItem(hs[i])
	}
	return stackitem.NewArray(items)
}

func stateEvent(contract util.Uint160, name string, items ...stackitem.Item) state.NotificationEvent {
	return state.NotificationEvent{
		ScriptHash: contract,
		Name:       name,
		Item:       stackitem.NewArray(items),
	}
}
