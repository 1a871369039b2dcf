// Package scorer contains RPC wrappers for the Scorer contract.
package scorer

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Badge is a contract-specific scorerconst.Badge type used by its methods.
type Badge struct {
	Name   string
	Issuer util.Uint160
	Score  *big.Int
	Icon   string
}

// Metadata is a contract-specific scorerconst.Metadata type used by its methods.
type Metadata struct {
	Name        string
	Description string
	Icon        string
}

// Policy is a contract-specific scorerconst.Policy type used by its methods.
type Policy struct {
	AllowZeroScore  bool
	KeepLastManager bool
}

// ScorerInitializedEvent represents "ScorerInitialized" event emitted by the contract.
type ScorerInitializedEvent struct {
	Creator     util.Uint160
	Name        string
	Description string
	Icon        string
	Badges      []*Badge
}

// ManagerChangedEvent represents "ManagerChanged" event emitted by the contract.
type ManagerChangedEvent struct {
	Sender  util.Uint160
	Manager util.Uint160
	Action  string
}

// UserChangedEvent represents "UserChanged" event emitted by the contract.
type UserChangedEvent struct {
	User   util.Uint160
	Action string
}

// BadgeAddedEvent represents "BadgeAdded" event emitted by the contract.
type BadgeAddedEvent struct {
	Sender util.Uint160
	Name   string
	Issuer util.Uint160
	Score  *big.Int
	Icon   string
}

// BadgeRemovedEvent represents "BadgeRemoved" event emitted by the contract.
type BadgeRemovedEvent struct {
	Sender util.Uint160
	Name   string
	Issuer util.Uint160
	Score  *big.Int
}

// UserScoreChangedEvent represents "UserScoreChanged" event emitted by the contract.
type UserScoreChangedEvent struct {
	Sender util.Uint160
	User   util.Uint160
	Score  *big.Int
}

// PolicyChangedEvent represents "PolicyChanged" event emitted by the contract.
type PolicyChangedEvent struct {
	Sender          util.Uint160
	AllowZeroScore  bool
	KeepLastManager bool
}

// UpgradedEvent represents "Upgraded" event emitted by the contract.
type UpgradedEvent struct {
	Sender   util.Uint160
	CodeHash util.Uint256
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// ContractVersion invokes `contractVersion` method of contract.
func (c *ContractReader) ContractVersion() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "contractVersion"))
}

// GetBadges invokes `getBadges` method of contract.
func (c *ContractReader) GetBadges() ([]*Badge, error) {
	items, err := unwrap.Array(c.invoker.Call(c.hash, "getBadges"))
	if err != nil {
		return nil, err
	}
	return itemsToBadges(items)
}

// GetContractOwner invokes `getContractOwner` method of contract.
func (c *ContractReader) GetContractOwner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "getContractOwner"))
}

// GetManagers invokes `getManagers` method of contract.
func (c *ContractReader) GetManagers() ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "getManagers"))
}

// GetMetadata invokes `getMetadata` method of contract.
func (c *ContractReader) GetMetadata() (*Metadata, error) {
	return itemToMetadata(unwrap.Item(c.invoker.Call(c.hash, "getMetadata")))
}

// GetPolicy invokes `getPolicy` method of contract.
func (c *ContractReader) GetPolicy() (*Policy, error) {
	return itemToPolicy(unwrap.Item(c.invoker.Call(c.hash, "getPolicy")))
}

// GetUserScore invokes `getUserScore` method of contract.
func (c *ContractReader) GetUserScore(user util.Uint160) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getUserScore", user))
}

// GetUsers invokes `getUsers` method of contract. The result maps every user
// ever added to its activity flag.
func (c *ContractReader) GetUsers() (map[util.Uint160]bool, error) {
	m, err := unwrap.Map(c.invoker.Call(c.hash, "getUsers"))
	if err != nil {
		return nil, err
	}

	res := make(map[util.Uint160]bool, m.Len())
	for _, kv := range m.Value().([]stackitem.MapElement) {
		u, err := itemToUint160(kv.Key)
		if err != nil {
			return nil, fmt.Errorf("key: %w", err)
		}
		active, err := kv.Value.TryBool()
		if err != nil {
			return nil, fmt.Errorf("value of %s: %w", u.StringLE(), err)
		}
		res[u] = active
	}

	return res, nil
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// AddBadge creates a transaction invoking `addBadge` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddBadge(sender util.Uint160, name string, issuer util.Uint160, score *big.Int, icon string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addBadge", sender, name, issuer, score, icon)
}

// AddBadgeTransaction creates a transaction invoking `addBadge` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddBadgeTransaction(sender util.Uint160, name string, issuer util.Uint160, score *big.Int, icon string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addBadge", sender, name, issuer, score, icon)
}

// AddBadgeUnsigned creates a transaction invoking `addBadge` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddBadgeUnsigned(sender util.Uint160, name string, issuer util.Uint160, score *big.Int, icon string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addBadge", nil, sender, name, issuer, score, icon)
}

// AddManager creates a transaction invoking `addManager` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddManager(sender util.Uint160, manager util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addManager", sender, manager)
}

// AddManagerTransaction creates a transaction invoking `addManager` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddManagerTransaction(sender util.Uint160, manager util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addManager", sender, manager)
}

// AddManagerUnsigned creates a transaction invoking `addManager` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddManagerUnsigned(sender util.Uint160, manager util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addManager", nil, sender, manager)
}

// AddUser creates a transaction invoking `addUser` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddUser(user util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addUser", user)
}

// AddUserTransaction creates a transaction invoking `addUser` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddUserTransaction(user util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addUser", user)
}

// AddUserUnsigned creates a transaction invoking `addUser` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddUserUnsigned(user util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addUser", nil, user)
}

// Initialize creates a transaction invoking `initialize` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Initialize(creator util.Uint160, badges []any, name string, description string, icon string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "initialize", creator, badges, name, description, icon)
}

// InitializeTransaction creates a transaction invoking `initialize` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) InitializeTransaction(creator util.Uint160, badges []any, name string, description string, icon string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "initialize", creator, badges, name, description, icon)
}

// InitializeUnsigned creates a transaction invoking `initialize` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) InitializeUnsigned(creator util.Uint160, badges []any, name string, description string, icon string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "initialize", nil, creator, badges, name, description, icon)
}

// RemoveBadge creates a transaction invoking `removeBadge` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveBadge(sender util.Uint160, name string, issuer util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeBadge", sender, name, issuer)
}

// RemoveBadgeTransaction creates a transaction invoking `removeBadge` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveBadgeTransaction(sender util.Uint160, name string, issuer util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeBadge", sender, name, issuer)
}

// RemoveBadgeUnsigned creates a transaction invoking `removeBadge` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveBadgeUnsigned(sender util.Uint160, name string, issuer util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeBadge", nil, sender, name, issuer)
}

// RemoveManager creates a transaction invoking `removeManager` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveManager(sender util.Uint160, manager util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeManager", sender, manager)
}

// RemoveManagerTransaction creates a transaction invoking `removeManager` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveManagerTransaction(sender util.Uint160, manager util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeManager", sender, manager)
}

// RemoveManagerUnsigned creates a transaction invoking `removeManager` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveManagerUnsigned(sender util.Uint160, manager util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeManager", nil, sender, manager)
}

// RemoveUser creates a transaction invoking `removeUser` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveUser(user util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeUser", user)
}

// RemoveUserTransaction creates a transaction invoking `removeUser` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveUserTransaction(user util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeUser", user)
}

// RemoveUserUnsigned creates a transaction invoking `removeUser` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveUserUnsigned(user util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeUser", nil, user)
}

// SetManagerPolicy creates a transaction invoking `setManagerPolicy` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetManagerPolicy(sender util.Uint160, keepLastManager bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setManagerPolicy", sender, keepLastManager)
}

// SetManagerPolicyTransaction creates a transaction invoking `setManagerPolicy` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetManagerPolicyTransaction(sender util.Uint160, keepLastManager bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setManagerPolicy", sender, keepLastManager)
}

// SetManagerPolicyUnsigned creates a transaction invoking `setManagerPolicy` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetManagerPolicyUnsigned(sender util.Uint160, keepLastManager bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setManagerPolicy", nil, sender, keepLastManager)
}

// SetScorePolicy creates a transaction invoking `setScorePolicy` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetScorePolicy(sender util.Uint160, allowZeroScore bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setScorePolicy", sender, allowZeroScore)
}

// SetScorePolicyTransaction creates a transaction invoking `setScorePolicy` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetScorePolicyTransaction(sender util.Uint160, allowZeroScore bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setScorePolicy", sender, allowZeroScore)
}

// SetScorePolicyUnsigned creates a transaction invoking `setScorePolicy` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetScorePolicyUnsigned(sender util.Uint160, allowZeroScore bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setScorePolicy", nil, sender, allowZeroScore)
}

// SetUserScore creates a transaction invoking `setUserScore` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetUserScore(sender util.Uint160, user util.Uint160, score *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setUserScore", sender, user, score)
}

// SetUserScoreTransaction creates a transaction invoking `setUserScore` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetUserScoreTransaction(sender util.Uint160, user util.Uint160, score *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setUserScore", sender, user, score)
}

// SetUserScoreUnsigned creates a transaction invoking `setUserScore` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetUserScoreUnsigned(sender util.Uint160, user util.Uint160, score *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setUserScore", nil, sender, user, score)
}

// Upgrade creates a transaction invoking `upgrade` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Upgrade(newCodeHash util.Uint256) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "upgrade", newCodeHash)
}

// UpgradeTransaction creates a transaction invoking `upgrade` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpgradeTransaction(newCodeHash util.Uint256) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "upgrade", newCodeHash)
}

// UpgradeUnsigned creates a transaction invoking `upgrade` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpgradeUnsigned(newCodeHash util.Uint256) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "upgrade", nil, newCodeHash)
}

// itemToMetadata converts stack item into *Metadata.
func itemToMetadata(item stackitem.Item, err error) (*Metadata, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Metadata)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Metadata from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Metadata) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Name, err = stackitem.ToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.Description, err = stackitem.ToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Description: %w", err)
	}

	index++
	res.Icon, err = stackitem.ToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Icon: %w", err)
	}

	return nil
}

// itemToPolicy converts stack item into *Policy.
func itemToPolicy(item stackitem.Item, err error) (*Policy, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Policy)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Policy from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Policy) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	res.AllowZeroScore, err = arr[0].TryBool()
	if err != nil {
		return fmt.Errorf("field AllowZeroScore: %w", err)
	}

	res.KeepLastManager, err = arr[1].TryBool()
	if err != nil {
		return fmt.Errorf("field KeepLastManager: %w", err)
	}

	return nil
}

// FromStackItem retrieves fields of Badge from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Badge) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Name, err = stackitem.ToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}

	index++
	res.Issuer, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Issuer: %w", err)
	}

	index++
	res.Score, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Score: %w", err)
	}

	index++
	res.Icon, err = stackitem.ToString(arr[index])
	if err != nil {
		return fmt.Errorf("field Icon: %w", err)
	}

	return nil
}

func itemsToBadges(items []stackitem.Item) ([]*Badge, error) {
	res := make([]*Badge, len(items))
	for i := range items {
		res[i] = new(Badge)
		if err := res[i].FromStackItem(items[i]); err != nil {
			return nil, fmt.Errorf("badge #%d: %w", i, err)
		}
	}
	return res, nil
}

// InitArgs returns arguments of the `initialize` method in the form expected
// by the Deployer and the factory.
func InitArgs(creator util.Uint160, badges []Badge, meta Metadata) []any {
	bs := make([]any, len(badges))
	for i, b := range badges {
		score := b.Score
		if score == nil {
			score = new(big.Int)
		}
		bs[i] = []any{b.Name, b.Issuer, score, b.Icon}
	}
	return []any{creator, bs, meta.Name, meta.Description, meta.Icon}
}

type stackItemDecoder interface {
	FromStackItem(*stackitem.Array) error
}

// eventsFromApplicationLog decodes all events with the given name from the
// provided [result.ApplicationLog].
func eventsFromApplicationLog[T any, PT interface {
	*T
	stackItemDecoder
}](log *result.ApplicationLog, name string) ([]*T, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*T
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != name {
				continue
			}
			event := PT(new(T))
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize %sEvent from stackitem (execution #%d, event #%d): %w", name, i, j, err)
			}
			res = append(res, (*T)(event))
		}
	}

	return res, nil
}

// eventFields checks that item is an array of n elements and returns them.
func eventFields(item *stackitem.Array, n int) ([]stackitem.Item, error) {
	if item == nil {
		return nil, errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

// ScorerInitializedEventsFromApplicationLog retrieves a set of all emitted events
// with "ScorerInitialized" name from the provided [result.ApplicationLog].
func ScorerInitializedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ScorerInitializedEvent, error) {
	return eventsFromApplicationLog[ScorerInitializedEvent](log, "ScorerInitialized")
}

// FromStackItem converts provided [stackitem.Array] to ScorerInitializedEvent or
// returns an error if it's not possible to do to so.
func (e *ScorerInitializedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 5)
	if err != nil {
		return err
	}

	e.Creator, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Creator: %w", err)
	}
	e.Name, err = stackitem.ToString(arr[1])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}
	e.Description, err = stackitem.ToString(arr[2])
	if err != nil {
		return fmt.Errorf("field Description: %w", err)
	}
	e.Icon, err = stackitem.ToString(arr[3])
	if err != nil {
		return fmt.Errorf("field Icon: %w", err)
	}
	badges, ok := arr[4].Value().([]stackitem.Item)
	if !ok {
		return errors.New("field Badges: not an array")
	}
	e.Badges, err = itemsToBadges(badges)
	if err != nil {
		return fmt.Errorf("field Badges: %w", err)
	}

	return nil
}

// ManagerChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "ManagerChanged" name from the provided [result.ApplicationLog].
func ManagerChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ManagerChangedEvent, error) {
	return eventsFromApplicationLog[ManagerChangedEvent](log, "ManagerChanged")
}

// FromStackItem converts provided [stackitem.Array] to ManagerChangedEvent or
// returns an error if it's not possible to do to so.
func (e *ManagerChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Sender, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Sender: %w", err)
	}
	e.Manager, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Manager: %w", err)
	}
	e.Action, err = stackitem.ToString(arr[2])
	if err != nil {
		return fmt.Errorf("field Action: %w", err)
	}

	return nil
}

// UserChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "UserChanged" name from the provided [result.ApplicationLog].
func UserChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*UserChangedEvent, error) {
	return eventsFromApplicationLog[UserChangedEvent](log, "UserChanged")
}

// FromStackItem converts provided [stackitem.Array] to UserChangedEvent or
// returns an error if it's not possible to do to so.
func (e *UserChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.User, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}
	e.Action, err = stackitem.ToString(arr[1])
	if err != nil {
		return fmt.Errorf("field Action: %w", err)
	}

	return nil
}

// BadgeAddedEventsFromApplicationLog retrieves a set of all emitted events
// with "BadgeAdded" name from the provided [result.ApplicationLog].
func BadgeAddedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BadgeAddedEvent, error) {
	return eventsFromApplicationLog[BadgeAddedEvent](log, "BadgeAdded")
}

// FromStackItem converts provided [stackitem.Array] to BadgeAddedEvent or
// returns an error if it's not possible to do to so.
func (e *BadgeAddedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 5)
	if err != nil {
		return err
	}

	e.Sender, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Sender: %w", err)
	}
	e.Name, err = stackitem.ToString(arr[1])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}
	e.Issuer, err = itemToUint160(arr[2])
	if err != nil {
		return fmt.Errorf("field Issuer: %w", err)
	}
	e.Score, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Score: %w", err)
	}
	e.Icon, err = stackitem.ToString(arr[4])
	if err != nil {
		return fmt.Errorf("field Icon: %w", err)
	}

	return nil
}

// BadgeRemovedEventsFromApplicationLog retrieves a set of all emitted events
// with "BadgeRemoved" name from the provided [result.ApplicationLog].
func BadgeRemovedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BadgeRemovedEvent, error) {
	return eventsFromApplicationLog[BadgeRemovedEvent](log, "BadgeRemoved")
}

// FromStackItem converts provided [stackitem.Array] to BadgeRemovedEvent or
// returns an error if it's not possible to do to so.
func (e *BadgeRemovedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	e.Sender, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Sender: %w", err)
	}
	e.Name, err = stackitem.ToString(arr[1])
	if err != nil {
		return fmt.Errorf("field Name: %w", err)
	}
	e.Issuer, err = itemToUint160(arr[2])
	if err != nil {
		return fmt.Errorf("field Issuer: %w", err)
	}
	e.Score, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Score: %w", err)
	}

	return nil
}

// UserScoreChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "UserScoreChanged" name from the provided [result.ApplicationLog].
func UserScoreChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*UserScoreChangedEvent, error) {
	return eventsFromApplicationLog[UserScoreChangedEvent](log, "UserScoreChanged")
}

// FromStackItem converts provided [stackitem.Array] to UserScoreChangedEvent or
// returns an error if it's not possible to do to so.
func (e *UserScoreChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Sender, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Sender: %w", err)
	}
	e.User, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}
	e.Score, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Score: %w", err)
	}

	return nil
}

// PolicyChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "PolicyChanged" name from the provided [result.ApplicationLog].
func PolicyChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*PolicyChangedEvent, error) {
	return eventsFromApplicationLog[PolicyChangedEvent](log, "PolicyChanged")
}

// FromStackItem converts provided [stackitem.Array] to PolicyChangedEvent or
// returns an error if it's not possible to do to so.
func (e *PolicyChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Sender, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Sender: %w", err)
	}
	e.AllowZeroScore, err = arr[1].TryBool()
	if err != nil {
		return fmt.Errorf("field AllowZeroScore: %w", err)
	}
	e.KeepLastManager, err = arr[2].TryBool()
	if err != nil {
		return fmt.Errorf("field KeepLastManager: %w", err)
	}

	return nil
}

// UpgradedEventsFromApplicationLog retrieves a set of all emitted events
// with "Upgraded" name from the provided [result.ApplicationLog].
func UpgradedEventsFromApplicationLog(log *result.ApplicationLog) ([]*UpgradedEvent, error) {
	return eventsFromApplicationLog[UpgradedEvent](log, "Upgraded")
}

// FromStackItem converts provided [stackitem.Array] to UpgradedEvent or
// returns an error if it's not possible to do to so.
func (e *UpgradedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.Sender, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Sender: %w", err)
	}
	b, err := arr[1].TryBytes()
	if err != nil {
		return fmt.Errorf("field CodeHash: %w", err)
	}
	e.CodeHash, err = util.Uint256DecodeBytesBE(b)
	if err != nil {
		return fmt.Errorf("field CodeHash: %w", err)
	}

	return nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}
