// Package account contains RPC wrappers for IBetYou Account contract.
package account

import (
	"crypto/elliptic"
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// CreditEvent represents "Credit" event emitted by the contract.
type CreditEvent struct {
	User   *keys.PublicKey
	Amount *big.Int
}

// DebitEvent represents "Debit" event emitted by the contract.
type DebitEvent struct {
	User   *keys.PublicKey
	Amount *big.Int
	BetID  []byte
}

// PayoutEvent represents "Payout" event emitted by the contract.
type PayoutEvent struct {
	BetID  []byte
	Winner *keys.PublicKey
	Amount *big.Int
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

// Custody invokes `custody` method of contract.
func (c *ContractReader) Custody(betID []byte) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "custody", betID))
}

// GetBalance invokes `getBalance` method of contract.
func (c *ContractReader) GetBalance(user *keys.PublicKey) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getBalance", user))
}

// Master invokes `master` method of contract.
func (c *ContractReader) Master() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "master"))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// AddBalance creates a transaction invoking `addBalance` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddBalance(user *keys.PublicKey, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addBalance", user, amount)
}

// AddBalanceTransaction creates a transaction invoking `addBalance` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddBalanceTransaction(user *keys.PublicKey, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addBalance", user, amount)
}

// AddBalanceUnsigned creates a transaction invoking `addBalance` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddBalanceUnsigned(user *keys.PublicKey, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addBalance", nil, user, amount)
}

// IncreaseBalance creates a transaction invoking `increaseBalance` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) IncreaseBalance(user *keys.PublicKey, amount *big.Int, sig []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "increaseBalance", user, amount, sig)
}

// IncreaseBalanceTransaction creates a transaction invoking `increaseBalance` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) IncreaseBalanceTransaction(user *keys.PublicKey, amount *big.Int, sig []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "increaseBalance", user, amount, sig)
}

// IncreaseBalanceUnsigned creates a transaction invoking `increaseBalance` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) IncreaseBalanceUnsigned(user *keys.PublicKey, amount *big.Int, sig []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "increaseBalance", nil, user, amount, sig)
}

// SetMaster creates a transaction invoking `setMaster` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetMaster(master util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setMaster", master)
}

// SetMasterTransaction creates a transaction invoking `setMaster` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetMasterTransaction(master util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setMaster", master)
}

// SetMasterUnsigned creates a transaction invoking `setMaster` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetMasterUnsigned(master util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setMaster", nil, master)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// CreditEventsFromApplicationLog retrieves a set of all emitted events
// with "Credit" name from the provided [result.ApplicationLog].
func CreditEventsFromApplicationLog(log *result.ApplicationLog) ([]*CreditEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*CreditEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Credit" {
				continue
			}
			event := new(CreditEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize CreditEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to CreditEvent or
// returns an error if it's not possible to do to so.
func (e *CreditEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.User, err = publicKeyFromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}

	e.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// DebitEventsFromApplicationLog retrieves a set of all emitted events
// with "Debit" name from the provided [result.ApplicationLog].
func DebitEventsFromApplicationLog(log *result.ApplicationLog) ([]*DebitEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DebitEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Debit" {
				continue
			}
			event := new(DebitEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DebitEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DebitEvent or
// returns an error if it's not possible to do to so.
func (e *DebitEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.User, err = publicKeyFromItem(arr[0])
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}

	e.Amount, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	e.BetID, err = arr[2].TryBytes()
	if err != nil {
		return fmt.Errorf("field BetID: %w", err)
	}

	return nil
}

// PayoutEventsFromApplicationLog retrieves a set of all emitted events
// with "Payout" name from the provided [result.ApplicationLog].
func PayoutEventsFromApplicationLog(log *result.ApplicationLog) ([]*PayoutEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*PayoutEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Payout" {
				continue
			}
			event := new(PayoutEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize PayoutEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to PayoutEvent or
// returns an error if it's not possible to do to so.
func (e *PayoutEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.BetID, err = arr[0].TryBytes()
	if err != nil {
		return fmt.Errorf("field BetID: %w", err)
	}

	e.Winner, err = publicKeyFromItem(arr[1])
	if err != nil {
		return fmt.Errorf("field Winner: %w", err)
	}

	e.Amount, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
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

func publicKeyFromItem(item stackitem.Item) (*keys.PublicKey, error) {
	b, err := item.TryBytes()
	if err != nil {
		return nil, err
	}
	return keys.NewPublicKeyFromBytes(b, elliptic.P256())
}
