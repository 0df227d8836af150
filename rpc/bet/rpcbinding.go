// Package bet contains RPC wrappers for IBetYou Bet contract.
package bet

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

// Status is a contract-specific bet.Bet type used by its methods.
// Unassigned participants and votes are nil.
type Status struct {
	Admin                  *keys.PublicKey
	Bettor                 *keys.PublicKey
	CounterBettor          *keys.PublicKey
	BettorJudge            *keys.PublicKey
	CounterBettorJudge     *keys.PublicKey
	Amount                 *big.Int
	BettorJudgeVote        *keys.PublicKey
	CounterBettorJudgeVote *keys.PublicKey
	Winner                 *keys.PublicKey
	State                  *big.Int
}

// BetCreatedEvent represents "BetCreated" event emitted by the contract.
type BetCreatedEvent struct {
	BetID  []byte
	Bettor *keys.PublicKey
	Admin  *keys.PublicKey
	Amount *big.Int
}

// RoleAssignedEvent represents "RoleAssigned" event emitted by the contract.
type RoleAssignedEvent struct {
	BetID []byte
	Role  *big.Int
	User  *keys.PublicKey
}

// VotedEvent represents "Voted" event emitted by the contract.
type VotedEvent struct {
	BetID     []byte
	Judge     *keys.PublicKey
	Candidate *keys.PublicKey
}

// StateChangedEvent represents "StateChanged" event emitted by the contract.
type StateChangedEvent struct {
	BetID []byte
	State *big.Int
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

// Contract implements all contract methods available outside of Master
// contract.
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

// GetBetStatus invokes `getBetStatus` method of contract.
func (c *ContractReader) GetBetStatus(betID []byte) (*Status, error) {
	return ItemToStatus(unwrap.Item(c.invoker.Call(c.hash, "getBetStatus", betID)))
}

// GetState invokes `getState` method of contract.
func (c *ContractReader) GetState(betID []byte) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getState", betID))
}

// GetWinner invokes `getWinner` method of contract. It returns nil key for
// undecided bets.
func (c *ContractReader) GetWinner(betID []byte) (*keys.PublicKey, error) {
	return ItemToOptionalPublicKey(unwrap.Item(c.invoker.Call(c.hash, "getWinner", betID)))
}

// Master invokes `master` method of contract.
func (c *ContractReader) Master() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "master"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
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

// ItemToStatus converts stack item into *Status.
func ItemToStatus(item stackitem.Item, err error) (*Status, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Status)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Status from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Status) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 10 {
		return errors.New("wrong number of structure elements")
	}

	keyFields := []struct {
		name string
		dst  **keys.PublicKey
		item stackitem.Item
	}{
		{"Admin", &res.Admin, arr[0]},
		{"Bettor", &res.Bettor, arr[1]},
		{"CounterBettor", &res.CounterBettor, arr[2]},
		{"BettorJudge", &res.BettorJudge, arr[3]},
		{"CounterBettorJudge", &res.CounterBettorJudge, arr[4]},
		{"BettorJudgeVote", &res.BettorJudgeVote, arr[6]},
		{"CounterBettorJudgeVote", &res.CounterBettorJudgeVote, arr[7]},
		{"Winner", &res.Winner, arr[8]},
	}

	var err error
	for _, f := range keyFields {
		*f.dst, err = ItemToOptionalPublicKey(f.item, nil)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.name, err)
		}
	}

	res.Amount, err = arr[5].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	res.State, err = arr[9].TryInteger()
	if err != nil {
		return fmt.Errorf("field State: %w", err)
	}

	return nil
}

// ItemToOptionalPublicKey converts stack item into public key. Null item
// results in nil key.
func ItemToOptionalPublicKey(item stackitem.Item, err error) (*keys.PublicKey, error) {
	if err != nil {
		return nil, err
	}
	if _, ok := item.(stackitem.Null); ok {
		return nil, nil
	}

	b, err := item.TryBytes()
	if err != nil {
		return nil, err
	}
	return keys.NewPublicKeyFromBytes(b, elliptic.P256())
}

// BetCreatedEventsFromApplicationLog retrieves a set of all emitted events
// with "BetCreated" name from the provided [result.ApplicationLog].
func BetCreatedEventsFromApplicationLog(log *result.ApplicationLog) ([]*BetCreatedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*BetCreatedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "BetCreated" {
				continue
			}
			event := new(BetCreatedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize BetCreatedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to BetCreatedEvent or
// returns an error if it's not possible to do to so.
func (e *BetCreatedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 4)
	if err != nil {
		return err
	}

	e.BetID, err = arr[0].TryBytes()
	if err != nil {
		return fmt.Errorf("field BetID: %w", err)
	}

	e.Bettor, err = ItemToOptionalPublicKey(arr[1], nil)
	if err != nil {
		return fmt.Errorf("field Bettor: %w", err)
	}

	e.Admin, err = ItemToOptionalPublicKey(arr[2], nil)
	if err != nil {
		return fmt.Errorf("field Admin: %w", err)
	}

	e.Amount, err = arr[3].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// RoleAssignedEventsFromApplicationLog retrieves a set of all emitted events
// with "RoleAssigned" name from the provided [result.ApplicationLog].
func RoleAssignedEventsFromApplicationLog(log *result.ApplicationLog) ([]*RoleAssignedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*RoleAssignedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "RoleAssigned" {
				continue
			}
			event := new(RoleAssignedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize RoleAssignedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to RoleAssignedEvent or
// returns an error if it's not possible to do to so.
func (e *RoleAssignedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.BetID, err = arr[0].TryBytes()
	if err != nil {
		return fmt.Errorf("field BetID: %w", err)
	}

	e.Role, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field Role: %w", err)
	}

	e.User, err = ItemToOptionalPublicKey(arr[2], nil)
	if err != nil {
		return fmt.Errorf("field User: %w", err)
	}

	return nil
}

// VotedEventsFromApplicationLog retrieves a set of all emitted events
// with "Voted" name from the provided [result.ApplicationLog].
func VotedEventsFromApplicationLog(log *result.ApplicationLog) ([]*VotedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*VotedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Voted" {
				continue
			}
			event := new(VotedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize VotedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to VotedEvent or
// returns an error if it's not possible to do to so.
func (e *VotedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 3)
	if err != nil {
		return err
	}

	e.BetID, err = arr[0].TryBytes()
	if err != nil {
		return fmt.Errorf("field BetID: %w", err)
	}

	e.Judge, err = ItemToOptionalPublicKey(arr[1], nil)
	if err != nil {
		return fmt.Errorf("field Judge: %w", err)
	}

	e.Candidate, err = ItemToOptionalPublicKey(arr[2], nil)
	if err != nil {
		return fmt.Errorf("field Candidate: %w", err)
	}

	return nil
}

// StateChangedEventsFromApplicationLog retrieves a set of all emitted events
// with "StateChanged" name from the provided [result.ApplicationLog].
func StateChangedEventsFromApplicationLog(log *result.ApplicationLog) ([]*StateChangedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*StateChangedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "StateChanged" {
				continue
			}
			event := new(StateChangedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize StateChangedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to StateChangedEvent or
// returns an error if it's not possible to do to so.
func (e *StateChangedEvent) FromStackItem(item *stackitem.Array) error {
	arr, err := eventFields(item, 2)
	if err != nil {
		return err
	}

	e.BetID, err = arr[0].TryBytes()
	if err != nil {
		return fmt.Errorf("field BetID: %w", err)
	}

	e.State, err = arr[1].TryInteger()
	if err != nil {
		return fmt.Errorf("field State: %w", err)
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
