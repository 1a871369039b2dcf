package scorerfactory

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/trustful-labs/trustful-contract/common"
	"github.com/trustful-labs/trustful-contract/contracts/scorer/scorerconst"
	"github.com/trustful-labs/trustful-contract/contracts/scorerfactory/scorerfactoryconst"
)

const (
	creatorKey  = "creator"
	registryKey = "registry"
	codeHashKey = "codeHash"
	policyKey   = "policy"

	scorerPrefix = 'd'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		common.CheckUpdateData(data)
		return
	}

	if data != nil {
		ctx := storage.GetContext()
		storage.Put(ctx, registryKey, data.(interop.Hash160))
	}

	runtime.Log("scorer factory contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the factory creator. Manifest name is replaced with the name of the
// deployed instance.
func Update(script []byte, manifest []byte, data any) {
	ctx := storage.GetReadOnlyContext()
	common.CheckWitness(common.GetAddress(ctx, creatorKey))

	self := management.GetContract(runtime.GetExecutingScriptHash())
	manifest = common.RenameManifest(manifest, self.Manifest.Name)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("scorer factory contract updated")
}

// Initialize sets the factory creator and the hash of Scorer code in the
// code registry. It can be called only once and requires creator's witness.
// The creator becomes the first manager.
func Initialize(creator interop.Hash160, codeHash interop.Hash256) {
	ctx := storage.GetContext()

	if common.IsInitialized(ctx) {
		panic(common.ErrAlreadyInitialized)
	}

	common.CheckWitness(creator)

	if len(codeHash) != interop.Hash256Len {
		panic(common.ErrEmptyArg)
	}

	storage.Put(ctx, creatorKey, creator)
	storage.Put(ctx, codeHashKey, codeHash)
	common.SetSerialized(ctx, common.ManagersKey, []interop.Hash160{creator})
	common.SetSerialized(ctx, policyKey, scorerfactoryconst.Policy{
		ManagerOnlyCreate: true,
		KeepLastManager:   true,
	})
	common.MarkInitialized(ctx)

	runtime.Notify("FactoryInitialized", creator, codeHash)
}

// IsInitialized checks whether Initialize was called.
func IsInitialized() bool {
	ctx := storage.GetReadOnlyContext()
	return common.IsInitialized(ctx)
}

// IsManager checks whether addr is a manager.
func IsManager(addr interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return common.IsManager(ctx, addr)
}

// IsFactoryCreator checks whether addr is the factory creator.
func IsFactoryCreator(addr interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()

	creator := storage.Get(ctx, creatorKey)
	return creator != nil && addr.Equals(creator)
}

// AddManager adds new manager. Caller must be either the creator or
// a manager.
func AddManager(caller, manager interop.Hash160) {
	ctx := storage.GetContext()
	checkAdmin(ctx, caller)

	common.AddManager(ctx, manager)
	runtime.Notify("ManagerChanged", caller, manager, common.ActionAdd)
}

// RemoveManager removes manager. Caller must be either the creator or
// a manager. Removal of the last manager is rejected if the factory policy
// says so.
func RemoveManager(caller, manager interop.Hash160) {
	ctx := storage.GetContext()
	checkAdmin(ctx, caller)

	common.RemoveManager(ctx, manager, getPolicy(ctx).KeepLastManager)
	runtime.Notify("ManagerChanged", caller, manager, common.ActionRemove)
}

// CreateScorer deploys new Scorer through the code registry at the address
// derived from the deployer and the salt and initializes it calling initFn
// with initArgs. Then it records the Scorer metadata in the directory and
// returns the Scorer address.
//
// Deployer's witness is required unless the deployer is the factory itself.
// If the factory policy restricts creation to managers, the deployer must be
// a manager.
func CreateScorer(deployer interop.Hash160, salt []byte, initFn string, initArgs []any) interop.Hash160 {
	ctx := storage.GetContext()

	if !common.IsInitialized(ctx) {
		panic(common.ErrNotInitialized)
	}

	common.CheckWitnessUnlessSelf(deployer)

	if getPolicy(ctx).ManagerOnlyCreate && !common.IsManager(ctx, deployer) {
		panic(common.ErrUnauthorized)
	}

	if len(initArgs) < scorerfactoryconst.MinInitArgs {
		panic(scorerfactoryconst.InvalidInitArgsError)
	}

	registry := storage.Get(ctx, registryKey)
	if registry == nil {
		panic(scorerfactoryconst.RegistryNotSetError)
	}

	codeHash := storage.Get(ctx, codeHashKey).(interop.Hash256)

	res := contract.Call(registry.(interop.Hash160), "deploy", contract.All,
		deployer, codeHash, salt, initFn, initArgs).([]any)
	scorer := res[0].(interop.Hash160)

	meta := contract.Call(scorer, "getMetadata", contract.ReadOnly).(scorerconst.Metadata)
	common.SetSerialized(ctx, scorerKey(scorer), meta)

	runtime.Notify("ScorerCreated", deployer, scorer, meta.Name, meta.Description, meta.Icon)

	return scorer
}

// RemoveScorer removes Scorer from the directory. The Scorer contract itself
// is not affected. Only managers can call it.
func RemoveScorer(caller, scorer interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckRole(caller, common.IsManager(ctx, caller))

	key := scorerKey(scorer)

	meta := common.GetSerialized(ctx, key)
	if meta == nil {
		panic(scorerfactoryconst.ScorerNotFoundError)
	}

	storage.Delete(ctx, key)

	m := meta.(scorerconst.Metadata)
	runtime.Notify("ScorerRemoved", caller, scorer, m.Name, m.Description, m.Icon)
}

// SetPolicy changes factory policy. Only the creator can call it.
func SetPolicy(caller interop.Hash160, managerOnlyCreate, keepLastManager bool) {
	ctx := storage.GetContext()

	creator := common.GetAddress(ctx, creatorKey)
	common.CheckRole(caller, caller.Equals(creator))

	common.SetSerialized(ctx, policyKey, scorerfactoryconst.Policy{
		ManagerOnlyCreate: managerOnlyCreate,
		KeepLastManager:   keepLastManager,
	})

	runtime.Notify("PolicyChanged", caller, managerOnlyCreate, keepLastManager)
}

// GetPolicy returns current policy.
func GetPolicy() scorerfactoryconst.Policy {
	ctx := storage.GetReadOnlyContext()
	return getPolicy(ctx)
}

// GetScorers returns directory of created scorers: metadata by address.
func GetScorers() map[string]scorerconst.Metadata {
	ctx := storage.GetReadOnlyContext()

	res := map[string]scorerconst.Metadata{}

	it := storage.Find(ctx, []byte{scorerPrefix}, storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		scorer := iterator.Value(it).(interop.Hash160)
		res[string(scorer)] = common.GetSerialized(ctx, scorerKey(scorer)).(scorerconst.Metadata)
	}

	return res
}

// GetManagers returns managers in order of addition.
func GetManagers() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetList(ctx, common.ManagersKey)
}

// GetContractCreator returns the factory creator.
func GetContractCreator() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetAddress(ctx, creatorKey)
}

// GetCodeHash returns hash of the Scorer code in the code registry.
func GetCodeHash() interop.Hash256 {
	ctx := storage.GetReadOnlyContext()

	h := storage.Get(ctx, codeHashKey)
	if h == nil {
		panic(common.ErrNotInitialized)
	}

	return h.(interop.Hash256)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkAdmin(ctx storage.Context, caller interop.Hash160) {
	creator := common.GetAddress(ctx, creatorKey)
	common.CheckRole(caller, caller.Equals(creator) || common.IsManager(ctx, caller))
}

func getPolicy(ctx storage.Context) scorerfactoryconst.Policy {
	p := common.GetSerialized(ctx, policyKey)
	if p == nil {
		panic(common.ErrNotInitialized)
	}

	return p.(scorerfactoryconst.Policy)
}

func scorerKey(scorer interop.Hash160) []byte {
	return append([]byte{scorerPrefix}, scorer...)
}
