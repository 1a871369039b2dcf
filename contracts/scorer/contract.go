package scorer

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/trustful-labs/trustful-contract/common"
	"github.com/trustful-labs/trustful-contract/contracts/deployer/deployerconst"
	"github.com/trustful-labs/trustful-contract/contracts/scorer/scorerconst"
)

const (
	creatorKey  = "creator"
	registryKey = "registry"
	metadataKey = "meta"
	policyKey   = "policy"

	userPrefix  = 'u'
	scorePrefix = 's'
	badgePrefix = 'b'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		runtime.Log("scorer contract upgraded")
		return
	}

	if data != nil {
		ctx := storage.GetContext()
		storage.Put(ctx, registryKey, data.(interop.Hash160))
	}

	runtime.Log("scorer contract deployed")
}

// Initialize sets the creator, initial badges and display metadata of the
// Scorer. It can be called only once and requires creator's witness. The
// creator becomes the first manager.
func Initialize(creator interop.Hash160, badges []scorerconst.Badge, name, description, icon string) {
	ctx := storage.GetContext()

	if common.IsInitialized(ctx) {
		panic(common.ErrAlreadyInitialized)
	}

	common.CheckWitness(creator)

	if len(name) == 0 || len(description) == 0 || len(icon) == 0 {
		panic(common.ErrEmptyArg)
	}

	policy := scorerconst.Policy{
		AllowZeroScore:  true,
		KeepLastManager: true,
	}

	for i := range badges {
		b := badges[i]
		putBadge(ctx, policy, b.Name, b.Issuer, b.Score, b.Icon)
	}

	storage.Put(ctx, creatorKey, creator)
	common.SetSerialized(ctx, common.ManagersKey, []interop.Hash160{creator})
	common.SetSerialized(ctx, metadataKey, scorerconst.Metadata{
		Name:        name,
		Description: description,
		Icon:        icon,
	})
	common.SetSerialized(ctx, policyKey, policy)
	common.MarkInitialized(ctx)

	runtime.Notify("ScorerInitialized", creator, name, description, icon, badges)
}

// AddManager adds new manager. Only the creator can call it.
func AddManager(sender, manager interop.Hash160) {
	ctx := storage.GetContext()
	checkCreator(ctx, sender)

	common.AddManager(ctx, manager)
	runtime.Notify("ManagerChanged", sender, manager, common.ActionAdd)
}

// RemoveManager removes manager. Only the creator can call it. Removal of
// the last manager is rejected if the manager policy says so.
func RemoveManager(sender, manager interop.Hash160) {
	ctx := storage.GetContext()
	checkCreator(ctx, sender)

	common.RemoveManager(ctx, manager, getPolicy(ctx).KeepLastManager)
	runtime.Notify("ManagerChanged", sender, manager, common.ActionRemove)
}

// AddUser registers user in the Scorer. The user must sign the transaction.
// Previously removed user can be added again.
func AddUser(user interop.Hash160) {
	ctx := storage.GetContext()
	checkInitialized(ctx)
	common.CheckWitness(user)

	key := userKey(user)
	if isActive(ctx, key) {
		panic(scorerconst.UserAlreadyExistError)
	}

	common.SetSerialized(ctx, key, true)
	runtime.Notify("UserChanged", user, common.ActionAdd)
}

// RemoveUser deactivates user and resets its score. The user must sign the
// transaction.
func RemoveUser(user interop.Hash160) {
	ctx := storage.GetContext()
	checkInitialized(ctx)
	common.CheckWitness(user)

	key := userKey(user)
	if !isActive(ctx, key) {
		panic(scorerconst.UserDoesNotExistError)
	}

	common.SetSerialized(ctx, key, false)
	storage.Delete(ctx, scoreKey(user))
	runtime.Notify("UserChanged", user, common.ActionRemove)
}

// AddBadge adds new badge. Only managers can call it.
func AddBadge(sender interop.Hash160, name string, issuer interop.Hash160, score int, icon string) {
	ctx := storage.GetContext()
	checkManager(ctx, sender)

	putBadge(ctx, getPolicy(ctx), name, issuer, score, icon)
	runtime.Notify("BadgeAdded", sender, name, issuer, score, icon)
}

// RemoveBadge removes badge identified by name and issuer. Only managers can
// call it.
func RemoveBadge(sender interop.Hash160, name string, issuer interop.Hash160) {
	ctx := storage.GetContext()
	checkManager(ctx, sender)

	key := badgeKey(issuer, name)

	b := common.GetSerialized(ctx, key)
	if b == nil {
		panic(scorerconst.BadgeNotFoundError)
	}

	storage.Delete(ctx, key)
	runtime.Notify("BadgeRemoved", sender, name, issuer, b.(scorerconst.Badge).Score)
}

// SetUserScore sets score of the active user. Only managers can call it.
func SetUserScore(sender, user interop.Hash160, score int) {
	ctx := storage.GetContext()
	checkManager(ctx, sender)

	if !isActive(ctx, userKey(user)) {
		panic(scorerconst.UserDoesNotExistError)
	}
	if score < 0 || score > scorerconst.MaxScore {
		panic(scorerconst.InvalidScoreRangeError)
	}

	common.SetSerialized(ctx, scoreKey(user), score)
	runtime.Notify("UserScoreChanged", sender, user, score)
}

// SetScorePolicy allows or forbids zero-score badges. Only the creator can
// call it. Existing badges are not affected.
func SetScorePolicy(sender interop.Hash160, allowZeroScore bool) {
	ctx := storage.GetContext()
	checkCreator(ctx, sender)

	p := getPolicy(ctx)
	p.AllowZeroScore = allowZeroScore
	common.SetSerialized(ctx, policyKey, p)

	runtime.Notify("PolicyChanged", sender, p.AllowZeroScore, p.KeepLastManager)
}

// SetManagerPolicy allows or forbids removal of the last manager. Only the
// creator can call it.
func SetManagerPolicy(sender interop.Hash160, keepLastManager bool) {
	ctx := storage.GetContext()
	checkCreator(ctx, sender)

	p := getPolicy(ctx)
	p.KeepLastManager = keepLastManager
	common.SetSerialized(ctx, policyKey, p)

	runtime.Notify("PolicyChanged", sender, p.AllowZeroScore, p.KeepLastManager)
}

// GetUsers returns all users ever added with their activity flags.
func GetUsers() map[string]bool {
	ctx := storage.GetReadOnlyContext()

	res := map[string]bool{}

	it := storage.Find(ctx, []byte{userPrefix}, storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		user := iterator.Value(it).(interop.Hash160)
		res[string(user)] = isActive(ctx, userKey(user))
	}

	return res
}

// GetBadges returns all badges.
func GetBadges() []scorerconst.Badge {
	ctx := storage.GetReadOnlyContext()

	res := []scorerconst.Badge{}

	it := storage.Find(ctx, []byte{badgePrefix}, storage.ValuesOnly|storage.DeserializeValues)
	for iterator.Next(it) {
		res = append(res, iterator.Value(it).(scorerconst.Badge))
	}

	return res
}

// GetManagers returns managers in order of addition.
func GetManagers() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetList(ctx, common.ManagersKey)
}

// GetContractOwner returns the creator.
func GetContractOwner() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return common.GetAddress(ctx, creatorKey)
}

// GetMetadata returns display metadata.
func GetMetadata() scorerconst.Metadata {
	ctx := storage.GetReadOnlyContext()

	m := common.GetSerialized(ctx, metadataKey)
	if m == nil {
		panic(common.ErrNotInitialized)
	}

	return m.(scorerconst.Metadata)
}

// GetUserScore returns score of the user, 0 if it was never set or the user
// was removed since then.
func GetUserScore(user interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()

	s := common.GetSerialized(ctx, scoreKey(user))
	if s == nil {
		return 0
	}

	return s.(int)
}

// GetPolicy returns current policy.
func GetPolicy() scorerconst.Policy {
	ctx := storage.GetReadOnlyContext()
	return getPolicy(ctx)
}

// Upgrade replaces contract code with the code uploaded to the code registry
// under newCodeHash. Storage is kept as is. Only the creator can call it.
func Upgrade(newCodeHash interop.Hash256) {
	ctx := storage.GetContext()

	creator := common.GetAddress(ctx, creatorKey)
	common.CheckWitness(creator)

	registry := storage.Get(ctx, registryKey)
	if registry == nil {
		panic(scorerconst.RegistryNotSetError)
	}

	code := contract.Call(registry.(interop.Hash160), "getCode", contract.ReadOnly,
		newCodeHash).(deployerconst.Code)

	self := management.GetContract(runtime.GetExecutingScriptHash())
	manifest := common.RenameManifest(code.Manifest, self.Manifest.Name)

	runtime.Notify("Upgraded", creator, newCodeHash)

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, code.NEF, manifest, nil)
}

// ContractVersion returns the build constant of the Scorer code.
func ContractVersion() int {
	return scorerconst.ContractVersion
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func checkInitialized(ctx storage.Context) {
	if !common.IsInitialized(ctx) {
		panic(common.ErrNotInitialized)
	}
}

func checkCreator(ctx storage.Context, sender interop.Hash160) {
	creator := common.GetAddress(ctx, creatorKey)
	common.CheckRole(sender, sender.Equals(creator))
}

func checkManager(ctx storage.Context, sender interop.Hash160) {
	checkInitialized(ctx)
	common.CheckRole(sender, common.IsManager(ctx, sender))
}

func getPolicy(ctx storage.Context) scorerconst.Policy {
	p := common.GetSerialized(ctx, policyKey)
	if p == nil {
		panic(common.ErrNotInitialized)
	}

	return p.(scorerconst.Policy)
}

func putBadge(ctx storage.Context, policy scorerconst.Policy, name string, issuer interop.Hash160, score int, icon string) {
	if len(name) == 0 {
		panic(common.ErrEmptyArg)
	}
	if len(issuer) != interop.Hash160Len {
		panic(scorerconst.InvalidIssuerError)
	}
	if score < 0 || score > scorerconst.MaxScore || (score == 0 && !policy.AllowZeroScore) {
		panic(scorerconst.InvalidScoreRangeError)
	}

	key := badgeKey(issuer, name)
	if storage.Get(ctx, key) != nil {
		panic(scorerconst.BadgeAlreadyExistsError)
	}

	common.SetSerialized(ctx, key, scorerconst.Badge{
		Name:   name,
		Issuer: issuer,
		Score:  score,
		Icon:   icon,
	})
}

func isActive(ctx storage.Context, key []byte) bool {
	v := common.GetSerialized(ctx, key)
	return v != nil && v.(bool)
}

func userKey(user interop.Hash160) []byte {
	return append([]byte{userPrefix}, user...)
}

func scoreKey(user interop.Hash160) []byte {
	return append([]byte{scorePrefix}, user...)
}

func badgeKey(issuer interop.Hash160, name string) []byte {
	key := append([]byte{badgePrefix}, issuer...)
	return append(key, []byte(name)...)
}
