// Package deployer contains RPC wrappers for the Deployer contract.
package deployer

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

// ErrNotDeployed is returned by GetDeployment if there is no contract
// deployed with the given invoker and salt.
var ErrNotDeployed = errors.New("no deployment")

// Code is a NEF and manifest pair stored in the Deployer.
type Code struct {
	NEF      []byte
	Manifest []byte
}

// CodeUploadedEvent represents "CodeUploaded" event emitted by the contract.
type CodeUploadedEvent struct {
	Hash util.Uint256
}

// DeployedEvent represents "Deployed" event emitted by the contract.
type DeployedEvent struct {
	Invoker  util.Uint160
	Contract util.Uint160
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

// GetCode invokes `getCode` method of contract.
func (c *ContractReader) GetCode(hash util.Uint256) (*Code, error) {
	return itemToCode(unwrap.Item(c.invoker.Call(c.hash, "getCode", hash)))
}

// GetDeployment invokes `getDeployment` method of contract. It returns
// ErrNotDeployed if invoker hasn't deployed anything with the given salt.
func (c *ContractReader) GetDeployment(invoker util.Uint160, salt []byte) (util.Uint160, error) {
	item, err := unwrap.Item(c.invoker.Call(c.hash, "getDeployment", invoker, salt))
	if err != nil {
		return util.Uint160{}, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return util.Uint160{}, ErrNotDeployed
	}

	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}

	return util.Uint160DecodeBytesBE(b)
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Deploy creates a transaction invoking `deploy` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Deploy(invoker util.Uint160, codeHash util.Uint256, salt []byte, initFn string, initArgs []any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deploy", invoker, codeHash, salt, initFn, initArgs)
}

// DeployTransaction creates a transaction invoking `deploy` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeployTransaction(invoker util.Uint160, codeHash util.Uint256, salt []byte, initFn string, initArgs []any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deploy", invoker, codeHash, salt, initFn, initArgs)
}

// DeployUnsigned creates a transaction invoking `deploy` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeployUnsigned(invoker util.Uint160, codeHash util.Uint256, salt []byte, initFn string, initArgs []any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deploy", nil, invoker, codeHash, salt, initFn, initArgs)
}

// Upload creates a transaction invoking `upload` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Upload(nef []byte, manifest []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "upload", nef, manifest)
}

// UploadTransaction creates a transaction invoking `upload` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UploadTransaction(nef []byte, manifest []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "upload", nef, manifest)
}

// UploadUnsigned creates a transaction invoking `upload` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UploadUnsigned(nef []byte, manifest []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "upload", nil, nef, manifest)
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

// itemToCode converts stack item into *Code.
func itemToCode(item stackitem.Item, err error) (*Code, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Code)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Code from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Code) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.NEF, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field NEF: %w", err)
	}

	index++
	res.Manifest, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field Manifest: %w", err)
	}

	return nil
}

// CodeUploadedEventsFromApplicationLog retrieves a set of all emitted events
// with "CodeUploaded" name from the provided [result.ApplicationLog].
func CodeUploadedEventsFromApplicationLog(log *result.ApplicationLog) ([]*CodeUploadedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*CodeUploadedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "CodeUploaded" {
				continue
			}
			event := new(CodeUploadedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize CodeUploadedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to CodeUploadedEvent or
// returns an error if it's not possible to do to so.
func (e *CodeUploadedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 1 {
		return errors.New("wrong number of structure elements")
	}

	var err error
	e.Hash, err = itemToUint256(arr[0])
	if err != nil {
		return fmt.Errorf("field Hash: %w", err)
	}

	return nil
}

// DeployedEventsFromApplicationLog retrieves a set of all emitted events
// with "Deployed" name from the provided [result.ApplicationLog].
func DeployedEventsFromApplicationLog(log *result.ApplicationLog) ([]*DeployedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DeployedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Deployed" {
				continue
			}
			event := new(DeployedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DeployedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DeployedEvent or
// returns an error if it's not possible to do to so.
func (e *DeployedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
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
	e.Invoker, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Invoker: %w", err)
	}

	index++
	e.Contract, err = itemToUint160(arr[index])
	if err != nil {
		return fmt.Errorf("field Contract: %w", err)
	}

	index++
	e.CodeHash, err = itemToUint256(arr[index])
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

func itemToUint256(item stackitem.Item) (util.Uint256, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint256{}, err
	}
	return util.Uint256DecodeBytesBE(b)
}
