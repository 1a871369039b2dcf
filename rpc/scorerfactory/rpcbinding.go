// Package scorerfactory contains RPC wrappers for the ScorerFactory contract.
package scorerfactory

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/trustful-labs/trustful-contract/rpc/scorer"
)

// Policy is a contract-specific scorerfactoryconst.Policy type used by its methods.
type Policy struct {
	ManagerOnlyCreate bool
	KeepLastManager   bool
}

// FactoryInitializedEvent represents "FactoryInitialized" event emitted by the contract.
type FactoryInitializedEvent struct {
	Creator  util.Uint160
	CodeHash util.Uint256
}

// ManagerChangedEvent represents "ManagerChanged" event emitted by the contract.
type ManagerChangedEvent struct {
	Caller  util.Uint160
	Manager util.Uint160
	Action  string
}

// ScorerCreatedEvent represents "ScorerCreated" event emitted by the contract.
type ScorerCreatedEvent struct {
	Deployer util.Uint160
	Scorer   util.Uint160
	Metadata scorer.Metadata
}

// ScorerRemovedEvent represents "ScorerRemoved" event emitted by the contract.
type ScorerRemovedEvent struct {
	Caller   util.Uint160
	Scorer   util.Uint160
	Metadata scorer.Metadata
}

// PolicyChangedEvent represents "PolicyChanged" event emitted by the contract.
type PolicyChangedEvent struct {
	Caller            util.Uint160
	ManagerOnlyCreate bool
	KeepLastManager   bool
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

// GetCodeHash invokes `getCodeHash` method of contract.
func (c *ContractReader) GetCodeHash() (util.Uint256, error) {
	return unwrap.Uint256(c.invoker.Call(c.hash, "getCodeHash"))
}

// GetContractCreator invokes `getContractCreator` method of contract.
func (c *ContractReader) GetContractCreator() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "getContractCreator"))
}

// GetManagers invokes `getManagers` method of contract.
func (c *ContractReader) GetManagers() ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "getManagers"))
}

// GetPolicy invokes `getPolicy` method of contract.
func (c *ContractReader) GetPolicy() (*Policy, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "getPolicy"))
	if err != nil {
		return nil, err
	}
	var res = new(Policy)
	err = res.FromStackItem(item)
	return res, err
}

// GetScorers invokes `getScorers` method of contract. The result is the
// directory of created scorers.
func (c *ContractReader) GetScorers() (map[util.Uint160]*scorer.Metadata, error) {
	m, err := unwrap.Map(c.invoker.Call(c.hash, "getScorers"))
	if err != nil {
		return nil, err
	}

	res := make(map[util.Uint160]*scorer.Metadata, m.Len())
	for _, kv := range m.Value().([]stackitem.MapElement) {
		h, err := itemToUint160(kv.Key)
		if err != nil {
			return nil, fmt.Errorf("key: %w", err)
		}
		meta := new(scorer.Metadata)
		err = meta.FromStackItem(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("metadata of %s: %w", h.StringLE(), err)
		}
		res[h] = meta
	}

	return res, nil
}

// IsFactoryCreator invokes `isFactoryCreator` method of contract.
func (c *ContractReader) IsFactoryCreator(addr util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isFactoryCreator", addr))
}

// IsInitialized invokes `isInitialized` method of contract.
func (c *ContractReader) IsInitialized() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isInitialized"))
}

// IsManager invokes `isManager` method of contract.
func (c *ContractReader) IsManager(addr util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isManager", addr))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// AddManager creates a transaction invoking `addManager` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddManager(caller util.Uint160, manager util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addManager", caller, manager)
}

// AddManagerTransaction creates a transaction invoking `addManager` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddManagerTransaction(caller util.Uint160, manager util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addManager", caller, manager)
}

// AddManagerUnsigned creates a transaction invoking `addManager` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddManagerUnsigned(caller util.Uint160, manager util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addManager", nil, caller, manager)
}

// CreateScorer creates a transaction invoking `createScorer` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateScorer(deployer util.Uint160, salt []byte, initFn string, initArgs []any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createScorer", deployer, salt, initFn, initArgs)
}

// CreateScorerTransaction creates a transaction invoking `createScorer` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateScorerTransaction(deployer util.Uint160, salt []byte, initFn string, initArgs []any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createScorer", deployer, salt, initFn, initArgs)
}

// CreateScorerUnsigned creates a transaction invoking `createScorer` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateScorerUnsigned(deployer util.Uint160, salt []byte, initFn string, initArgs []any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createScorer", nil, deployer, salt, initFn, initArgs)
}

// Initialize creates a transaction invoking `initialize` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Initialize(creator util.Uint160, codeHash util.Uint256) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "initialize", creator, codeHash)
}

// InitializeTransaction creates a transaction invoking `initialize` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) InitializeTransaction(creator util.Uint160, codeHash util.Uint256) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "initialize", creator, codeHash)
}

// InitializeUnsigned creates a transaction invoking `initialize` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) InitializeUnsigned(creator util.Uint160, codeHash util.Uint256) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "initialize", nil, creator, codeHash)
}

// RemoveManager creates a transaction invoking `removeManager` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveManager(caller util.Uint160, manager util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeManager", caller, manager)
}

// RemoveManagerTransaction creates a transaction invoking `removeManager` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveManagerTransaction(caller util.Uint160, manager util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeManager", caller, manager)
}

// RemoveManagerUnsigned creates a transaction invoking `removeManager` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveManagerUnsigned(caller util.Uint160, manager util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeManager", nil, caller, manager)
}

// RemoveScorer creates a transaction invoking `removeScorer` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveScorer(caller util.Uint160, scorer util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeScorer", caller, scorer)
}

// RemoveScorerTransaction creates a transaction invoking `removeScorer` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveScorerTransaction(caller util.Uint160, scorer util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeScorer", caller, scorer)
}

// RemoveScorerUnsigned creates a transaction invoking `removeScorer` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveScorerUnsigned(caller util.Uint160, scorer util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeScorer", nil, caller, scorer)
}

// SetPolicy creates a transaction invoking `setPolicy` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetPolicy(caller util.Uint160, managerOnlyCreate bool, keepLastManager bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setPolicy", caller, managerOnlyCreate, keepLastManager)
}

// SetPolicyTransaction creates a transaction invoking `setPolicy` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetPolicyTransaction(caller util.Uint160, managerOnlyCreate bool, keepLastManager bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setPolicy", caller, managerOnlyCreate, keepLastManager)
}

// SetPolicyUnsigned creates a transaction invoking `setPolicy` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetPolicyUnsigned(caller util.Uint160, managerOnlyCreate bool, keepLastManager bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setPolicy", nil, caller, managerOnlyCreate, keepLastManager)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
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
	res.ManagerOnlyCreate, err = arr[0].TryBool()
	if err != nil {
		return fmt.Errorf("field ManagerOnlyCreate: %w", err)
	}

	res.KeepLastManager, err = arr[1].TryBool()
	if err != nil {
		return fmt.Errorf("field KeepLastManager: %w", err)
	}

	return nil
}

// Event is a notification of the factory decoded by EventsFromApplicationLog.
type Event interface {
	FromStackItem(*stackitem.Array) error
}

// EventsFromApplicationLog decodes all notifications emitted by the factory
// with the given hash in the provided [result.ApplicationLog] preserving
// their order. Unknown notifications are skipped. Notifications of executions
// that didn't end in HALT state are skipped too: the chain keeps them in the
// log although none of their effects persist.
func EventsFromApplicationLog(log *result.ApplicationLog, factory util.Uint160) ([]Event, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []Event
	for i, ex := range log.Executions {
		if ex.VMState != vmstate.Halt {
			continue
		}

		for j, e := range ex.Events {
			if !e.ScriptHash.Equals(factory) {
				continue
			}

			var event Event
			switch e.Name {
			case "FactoryInitialized":
				event = new(FactoryInitializedEvent)
			case "ManagerChanged":
				event = new(ManagerChangedEvent)
			case "ScorerCreated":
				event = new(ScorerCreatedEvent)
			case "ScorerRemoved":
				event = new(ScorerRemovedEvent)
			case "PolicyChanged":
				event = new(PolicyChangedEvent)
			default:
				continue
			}

			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize %sEvent from stackitem (execution #%d, event #%d): %w", e.Name, i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// ScorerCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "ScorerCreated" name from the provided [result.ApplicationLog].
func ScorerCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*ScorerCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ScorerCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ScorerCreated" {
				continue
			}
			event := new(ScorerCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ScorerCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

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

// FromStackItem converts provided [stackitem.Array] to FactoryInitializedEvent or
// returns an error if it's not possible to do to so.
func (e *FactoryInitializedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.Creator, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Creator: %w", err)
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

// FromStackItem converts provided [stackitem.Array] to ManagerChangedEvent or
// returns an error if it's not possible to do to so.
func (e *ManagerChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Caller, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Caller: %w", err)
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

// FromStackItem converts provided [stackitem.Array] to ScorerCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *ScorerCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 5)
	if err != nil {
		return err
	}

	e.Deployer, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Deployer: %w", err)
	}
	e.Scorer, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Scorer: %w", err)
	}
	err = e.Metadata.FromStackItem(stackitem.NewStruct(arr[2:]))
	if err != nil {
		return fmt.Errorf("field Metadata: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to ScorerRemovedEvent or
// returns an error if it's not possible to do to so.
func (e *ScorerRemovedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 5)
	if err != nil {
		return err
	}

	e.Caller, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Caller: %w", err)
	}
	e.Scorer, err = itemToUint160(arr[1])
	if err != nil {
		return fmt.Errorf("field Scorer: %w", err)
	}
	err = e.Metadata.FromStackItem(stackitem.NewStruct(arr[2:]))
	if err != nil {
		return fmt.Errorf("field Metadata: %w", err)
	}

	return nil
}

// FromStackItem converts provided [stackitem.Array] to PolicyChangedEvent or
// returns an error if it's not possible to do to so.
func (e *PolicyChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.Caller, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Caller: %w", err)
	}
	e.ManagerOnlyCreate, err = arr[1].TryBool()
	if err != nil {
		return fmt.Errorf("field ManagerOnlyCreate: %w", err)
	}
	e.KeepLastManager, err = arr[2].TryBool()
	if err != nil {
		return fmt.Errorf("field KeepLastManager: %w", err)
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
