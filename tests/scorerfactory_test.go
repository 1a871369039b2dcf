package tests

import (
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
	"github.com/trustful-labs/trustful-contract/rpc/deployer"
	"github.com/trustful-labs/trustful-contract/rpc/scorer"
	"github.com/trustful-labs/trustful-contract/rpc/scorerfactory"
)

type factoryEnv struct {
	*registry

	hash    util.Uint160
	creator neotest.Signer
	// owner invokes the factory on behalf of the creator.
	owner  *neotest.ContractInvoker
	reader *scorerfactory.ContractReader
}

// newFactory deploys and initializes ScorerFactory through the Deployer.
func newFactory(t *testing.T) *factoryEnv {
	r := newRegistry(t)

	creator := r.e.NewAccount(t, accountGAS)
	h := r.deploy(t, creator, r.factoryCode, newSalt(), []any{creator.ScriptHash(), r.scorerCode})

	owner := r.e.NewInvoker(h, creator)

	return &factoryEnv{
		registry: r,
		hash:     h,
		creator:  creator,
		owner:    owner,
		reader:   scorerfactory.NewReader(testInvoker{t, owner}, h),
	}
}

// createScorer invokes createScorer on behalf of the signer and returns
// address of the new Scorer.
func (f *factoryEnv) createScorer(t *testing.T, signer neotest.Signer, salt []byte, name string) (util.Uint160, util.Uint256) {
	var res util.Uint160

	h := f.owner.WithSigners(signer).InvokeAndCheck(t, func(t testing.TB, stack []stackitem.Item) {
		require.Len(t, stack, 1)

		b, err := stack[0].TryBytes()
		require.NoError(t, err)

		res, err = util.Uint160DecodeBytesBE(b)
		require.NoError(t, err)
	}, "createScorer", signer.ScriptHash(), salt, "initialize", scorerInitArgs(signer.ScriptHash(), name))

	return res, h
}

func TestFactoryInitialize(t *testing.T) {
	f := newFactory(t)
	creator := f.creator.ScriptHash()

	f.owner.Invoke(t, true, "isInitialized")
	f.owner.Invoke(t, true, "isFactoryCreator", creator)
	f.owner.Invoke(t, false, "isFactoryCreator", util.Uint160{1})
	f.owner.Invoke(t, true, "isManager", creator)
	invokeBytes(t, f.owner, f.scorerCode.BytesBE(), "getCodeHash")

	f.owner.InvokeFail(t, "AlreadyInitialized", "initialize", creator, f.scorerCode)

	got, err := f.reader.GetContractCreator()
	require.NoError(t, err)
	require.Equal(t, creator, got)

	policy, err := f.reader.GetPolicy()
	require.NoError(t, err)
	require.Equal(t, &scorerfactory.Policy{ManagerOnlyCreate: true, KeepLastManager: true}, policy)

	f.owner.Invoke(t, 1_000, "version")
}

func TestFactoryNotInitialized(t *testing.T) {
	e := newExecutor(t)

	ctr := compileContract(t, e, scorerFactoryPath)
	e.DeployContract(t, ctr, nil)

	acc := e.NewAccount(t)
	inv := e.NewInvoker(ctr.Hash, acc)

	inv.Invoke(t, false, "isInitialized")
	inv.InvokeFail(t, "NotInitialized", "getContractCreator")
	inv.InvokeFail(t, "NotInitialized", "getCodeHash")
	inv.InvokeFail(t, "NotInitialized", "createScorer", acc.ScriptHash(), newSalt(), "initialize",
		scorerInitArgs(acc.ScriptHash(), "name"))

	scorers, err := scorerfactory.NewReader(testInvoker{t, inv}, ctr.Hash).GetScorers()
	require.NoError(t, err)
	require.Empty(t, scorers)

	inv.InvokeFail(t, "EmptyArg", "initialize", acc.ScriptHash(), []byte{1, 2, 3})
	inv.InvokeFail(t, "Unauthorized", "initialize", util.Uint160{1}, util.Uint256{})

	// Without code registry the factory can't create anything.
	inv.Invoke(t, stackitem.Null{}, "initialize", acc.ScriptHash(), util.Uint256{1})
	inv.InvokeFail(t, "code registry is not set", "createScorer", acc.ScriptHash(), newSalt(), "initialize",
		scorerInitArgs(acc.ScriptHash(), "name"))
}

func TestFactoryManagers(t *testing.T) {
	f := newFactory(t)
	creator := f.creator.ScriptHash()

	m1 := f.e.NewAccount(t)
	m2 := f.e.NewAccount(t)

	checkManagers := func(t *testing.T, exp ...util.Uint160) {
		managers, err := f.reader.GetManagers()
		require.NoError(t, err)
		require.Equal(t, exp, managers)
	}

	h := f.owner.Invoke(t, stackitem.Null{}, "addManager", creator, m1.ScriptHash())
	f.e.CheckTxNotificationEvent(t, h, 0, stateEvent(f.hash, "ManagerChanged",
		hashItem(creator), hashItem(m1.ScriptHash()), stackitem.Make("add")))

	// Managers can add managers too.
	f.owner.WithSigners(m1).Invoke(t, stackitem.Null{}, "addManager", m1.ScriptHash(), m2.ScriptHash())
	checkManagers(t, creator, m1.ScriptHash(), m2.ScriptHash())

	f.owner.InvokeFail(t, "ManagerAlreadyExists", "addManager", creator, m2.ScriptHash())

	stranger := f.e.NewAccount(t)
	f.owner.WithSigners(stranger).InvokeFail(t, "Unauthorized", "addManager", stranger.ScriptHash(), stranger.ScriptHash())
	f.owner.WithSigners(stranger).InvokeFail(t, "Unauthorized", "removeManager", stranger.ScriptHash(), m1.ScriptHash())
	checkManagers(t, creator, m1.ScriptHash(), m2.ScriptHash())

	f.owner.WithSigners(m2).Invoke(t, stackitem.Null{}, "removeManager", m2.ScriptHash(), m1.ScriptHash())
	f.owner.InvokeFail(t, "ManagerNotFound", "removeManager", creator, m1.ScriptHash())
	f.owner.Invoke(t, false, "isManager", m1.ScriptHash())

	f.owner.Invoke(t, stackitem.Null{}, "removeManager", creator, m2.ScriptHash())
	f.owner.InvokeFail(t, "CannotRemoveLastManager", "removeManager", creator, creator)
	checkManagers(t, creator)

	// Creator keeps admin rights without being a manager.
	f.owner.Invoke(t, stackitem.Null{}, "setPolicy", creator, true, false)
	f.owner.Invoke(t, stackitem.Null{}, "removeManager", creator, creator)
	f.owner.Invoke(t, stackitem.Null{}, "addManager", creator, m1.ScriptHash())
	checkManagers(t, m1.ScriptHash())
}

func TestFactoryCreateScorer(t *testing.T) {
	f := newFactory(t)
	creator := f.creator.ScriptHash()

	salt := newSalt()
	addr, h := f.createScorer(t, f.creator, salt, "first")

	expected := deployer.Address(creator, f.scorer.NEF.Checksum, f.scorer.Manifest.Name, creator, salt)
	require.Equal(t, expected, addr)

	var created scorerfactory.ScorerCreatedEvent
	require.NoError(t, created.FromStackItem(findEvent(t, f.e, h, f.hash, "ScorerCreated").Item))
	require.Equal(t, creator, created.Deployer)
	require.Equal(t, addr, created.Scorer)
	require.Equal(t, "first", created.Metadata.Name)

	scorers, err := f.reader.GetScorers()
	require.NoError(t, err)
	require.Equal(t, map[util.Uint160]*scorer.Metadata{
		addr: {Name: "first", Description: "description of first", Icon: "https://example.com/first.png"},
	}, scorers)

	owner, err := scorer.NewReader(testInvoker{t, f.owner}, addr).GetContractOwner()
	require.NoError(t, err)
	require.Equal(t, creator, owner)

	t.Run("replay", func(t *testing.T) {
		f.owner.InvokeFail(t, "salt already used", "createScorer", creator, salt, "initialize",
			scorerInitArgs(creator, "again"))
	})

	t.Run("invalid init args", func(t *testing.T) {
		f.owner.InvokeFail(t, "InvalidInitArgs", "createScorer", creator, newSalt(), "initialize",
			[]any{creator, []any{}})
	})

	t.Run("failing initializer", func(t *testing.T) {
		f.owner.InvokeFail(t, "EmptyArg", "createScorer", creator, newSalt(), "initialize",
			scorerInitArgs(creator, ""))

		scorers, err := f.reader.GetScorers()
		require.NoError(t, err)
		require.Len(t, scorers, 1)
	})

	t.Run("witness", func(t *testing.T) {
		other := f.e.NewAccount(t)
		f.owner.WithSigners(other).InvokeFail(t, "Unauthorized", "createScorer", creator, newSalt(),
			"initialize", scorerInitArgs(creator, "stolen"))
	})
}

func TestFactoryCreatePolicy(t *testing.T) {
	f := newFactory(t)
	creator := f.creator.ScriptHash()

	user := f.e.NewAccount(t, accountGAS)

	f.owner.WithSigners(user).InvokeFail(t, "Unauthorized", "createScorer", user.ScriptHash(), newSalt(),
		"initialize", scorerInitArgs(user.ScriptHash(), "user"))

	f.owner.WithSigners(user).InvokeFail(t, "Unauthorized", "setPolicy", user.ScriptHash(), false, true)

	h := f.owner.Invoke(t, stackitem.Null{}, "setPolicy", creator, false, true)
	f.e.CheckTxNotificationEvent(t, h, 0, stateEvent(f.hash, "PolicyChanged",
		hashItem(creator), stackitem.NewBool(false), stackitem.NewBool(true)))

	addr, _ := f.createScorer(t, user, newSalt(), "user")

	scorers, err := f.reader.GetScorers()
	require.NoError(t, err)
	require.Contains(t, scorers, addr)
}

func TestFactoryRemoveScorer(t *testing.T) {
	f := newFactory(t)
	creator := f.creator.ScriptHash()

	first, _ := f.createScorer(t, f.creator, newSalt(), "first")
	second, _ := f.createScorer(t, f.creator, newSalt(), "second")

	stranger := f.e.NewAccount(t)
	f.owner.WithSigners(stranger).InvokeFail(t, "Unauthorized", "removeScorer", stranger.ScriptHash(), first)

	h := f.owner.Invoke(t, stackitem.Null{}, "removeScorer", creator, first)
	f.e.CheckTxNotificationEvent(t, h, 0, stateEvent(f.hash, "ScorerRemoved",
		hashItem(creator), hashItem(first),
		stackitem.Make("first"), stackitem.Make("description of first"), stackitem.Make("https://example.com/first.png")))

	f.owner.InvokeFail(t, "ScorerNotFound", "removeScorer", creator, first)

	scorers, err := f.reader.GetScorers()
	require.NoError(t, err)
	require.Len(t, scorers, 1)
	require.Contains(t, scorers, second)

	// Removal from the directory doesn't affect the contract.
	require.NotNil(t, f.e.Chain.GetContractState(first))
}

func TestFactoryUpdate(t *testing.T) {
	f := newFactory(t)

	bNEF, jManifest := contractCode(t, f.factory)

	stranger := f.e.NewAccount(t, accountGAS)
	f.owner.WithSigners(stranger).InvokeFail(t, "Unauthorized", "update", bNEF, jManifest, nil)

	// instance name is kept, so the update reaches the version check
	f.owner.InvokeFail(t, "contract is already of the latest version", "update", bNEF, jManifest, nil)
}
