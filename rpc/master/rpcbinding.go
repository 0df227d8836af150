// Package master contains RPC wrappers for IBetYou Master contract.
package master

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/IBetYou/ibetyou-contract/rpc/bet"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

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

// Contracts invokes `contracts` method of contract. It returns addresses
// of Account and Bet contracts.
func (c *ContractReader) Contracts() (util.Uint160, util.Uint160, error) {
	arr, err := unwrap.Array(c.invoker.Call(c.hash, "contracts"))
	if err != nil {
		return util.Uint160{}, util.Uint160{}, err
	}
	if len(arr) != 2 {
		return util.Uint160{}, util.Uint160{}, errors.New("wrong number of contracts")
	}

	var res [2]util.Uint160
	for i := range arr {
		b, err := arr[i].TryBytes()
		if err != nil {
			return util.Uint160{}, util.Uint160{}, fmt.Errorf("contract #%d: %w", i, err)
		}
		res[i], err = util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, util.Uint160{}, fmt.Errorf("contract #%d: %w", i, err)
		}
	}

	return res[0], res[1], nil
}

// GetBalance invokes `getBalance` method of contract.
func (c *ContractReader) GetBalance(user *keys.PublicKey) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getBalance", user))
}

// GetBetStatus invokes `getBetStatus` method of contract.
func (c *ContractReader) GetBetStatus(betID []byte) (*bet.Status, error) {
	return bet.ItemToStatus(unwrap.Item(c.invoker.Call(c.hash, "getBetStatus", betID)))
}

// GetWinner invokes `getWinner` method of contract. It returns nil key for
// undecided bets.
func (c *ContractReader) GetWinner(betID []byte) (*keys.PublicKey, error) {
	return bet.ItemToOptionalPublicKey(unwrap.Item(c.invoker.Call(c.hash, "getWinner", betID)))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// CreateBet creates a transaction invoking `createBet` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateBet(user *keys.PublicKey, amount *big.Int, betID []byte, admin *keys.PublicKey) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createBet", user, amount, betID, admin)
}

// CreateBetTransaction creates a transaction invoking `createBet` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateBetTransaction(user *keys.PublicKey, amount *big.Int, betID []byte, admin *keys.PublicKey) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createBet", user, amount, betID, admin)
}

// CreateBetUnsigned creates a transaction invoking `createBet` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateBetUnsigned(user *keys.PublicKey, amount *big.Int, betID []byte, admin *keys.PublicKey) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createBet", nil, user, amount, betID, admin)
}

// JoinCounterBettor creates a transaction invoking `joinCounterBettor` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) JoinCounterBettor(user *keys.PublicKey, amount *big.Int, betID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "joinCounterBettor", user, amount, betID)
}

// JoinCounterBettorTransaction creates a transaction invoking `joinCounterBettor` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) JoinCounterBettorTransaction(user *keys.PublicKey, amount *big.Int, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "joinCounterBettor", user, amount, betID)
}

// JoinCounterBettorUnsigned creates a transaction invoking `joinCounterBettor` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) JoinCounterBettorUnsigned(user *keys.PublicKey, amount *big.Int, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "joinCounterBettor", nil, user, amount, betID)
}

// JoinBettorJudge creates a transaction invoking `joinBettorJudge` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) JoinBettorJudge(user *keys.PublicKey, betID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "joinBettorJudge", user, betID)
}

// JoinBettorJudgeTransaction creates a transaction invoking `joinBettorJudge` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) JoinBettorJudgeTransaction(user *keys.PublicKey, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "joinBettorJudge", user, betID)
}

// JoinBettorJudgeUnsigned creates a transaction invoking `joinBettorJudge` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) JoinBettorJudgeUnsigned(user *keys.PublicKey, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "joinBettorJudge", nil, user, betID)
}

// JoinCounterBettorJudge creates a transaction invoking `joinCounterBettorJudge` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) JoinCounterBettorJudge(user *keys.PublicKey, betID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "joinCounterBettorJudge", user, betID)
}

// JoinCounterBettorJudgeTransaction creates a transaction invoking `joinCounterBettorJudge` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) JoinCounterBettorJudgeTransaction(user *keys.PublicKey, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "joinCounterBettorJudge", user, betID)
}

// JoinCounterBettorJudgeUnsigned creates a transaction invoking `joinCounterBettorJudge` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) JoinCounterBettorJudgeUnsigned(user *keys.PublicKey, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "joinCounterBettorJudge", nil, user, betID)
}

// BettorJudgeVote creates a transaction invoking `bettorJudgeVote` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) BettorJudgeVote(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "bettorJudgeVote", judge, candidate, betID)
}

// BettorJudgeVoteTransaction creates a transaction invoking `bettorJudgeVote` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) BettorJudgeVoteTransaction(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "bettorJudgeVote", judge, candidate, betID)
}

// BettorJudgeVoteUnsigned creates a transaction invoking `bettorJudgeVote` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) BettorJudgeVoteUnsigned(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "bettorJudgeVote", nil, judge, candidate, betID)
}

// BettorJudgeVoteSigned creates a transaction invoking `bettorJudgeVoteSigned` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) BettorJudgeVoteSigned(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte, sig []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "bettorJudgeVoteSigned", judge, candidate, betID, sig)
}

// BettorJudgeVoteSignedTransaction creates a transaction invoking `bettorJudgeVoteSigned` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) BettorJudgeVoteSignedTransaction(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte, sig []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "bettorJudgeVoteSigned", judge, candidate, betID, sig)
}

// BettorJudgeVoteSignedUnsigned creates a transaction invoking `bettorJudgeVoteSigned` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) BettorJudgeVoteSignedUnsigned(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte, sig []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "bettorJudgeVoteSigned", nil, judge, candidate, betID, sig)
}

// CounterBettorJudgeVote creates a transaction invoking `counterBettorJudgeVote` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CounterBettorJudgeVote(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "counterBettorJudgeVote", judge, candidate, betID)
}

// CounterBettorJudgeVoteTransaction creates a transaction invoking `counterBettorJudgeVote` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CounterBettorJudgeVoteTransaction(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "counterBettorJudgeVote", judge, candidate, betID)
}

// CounterBettorJudgeVoteUnsigned creates a transaction invoking `counterBettorJudgeVote` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CounterBettorJudgeVoteUnsigned(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "counterBettorJudgeVote", nil, judge, candidate, betID)
}

// CounterBettorJudgeVoteSigned creates a transaction invoking `counterBettorJudgeVoteSigned` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CounterBettorJudgeVoteSigned(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte, sig []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "counterBettorJudgeVoteSigned", judge, candidate, betID, sig)
}

// CounterBettorJudgeVoteSignedTransaction creates a transaction invoking `counterBettorJudgeVoteSigned` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CounterBettorJudgeVoteSignedTransaction(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte, sig []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "counterBettorJudgeVoteSigned", judge, candidate, betID, sig)
}

// CounterBettorJudgeVoteSignedUnsigned creates a transaction invoking `counterBettorJudgeVoteSigned` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CounterBettorJudgeVoteSignedUnsigned(judge *keys.PublicKey, candidate *keys.PublicKey, betID []byte, sig []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "counterBettorJudgeVoteSigned", nil, judge, candidate, betID, sig)
}

// SetContracts creates a transaction invoking `setContracts` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetContracts(accountContract util.Uint160, betContract util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setContracts", accountContract, betContract)
}

// SetContractsTransaction creates a transaction invoking `setContracts` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetContractsTransaction(accountContract util.Uint160, betContract util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setContracts", accountContract, betContract)
}

// SetContractsUnsigned creates a transaction invoking `setContracts` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetContractsUnsigned(accountContract util.Uint160, betContract util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setContracts", nil, accountContract, betContract)
}

// SolveDispute creates a transaction invoking `solveDispute` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SolveDispute(admin *keys.PublicKey, winner *keys.PublicKey, betID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "solveDispute", admin, winner, betID)
}

// SolveDisputeTransaction creates a transaction invoking `solveDispute` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SolveDisputeTransaction(admin *keys.PublicKey, winner *keys.PublicKey, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "solveDispute", admin, winner, betID)
}

// SolveDisputeUnsigned creates a transaction invoking `solveDispute` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SolveDisputeUnsigned(admin *keys.PublicKey, winner *keys.PublicKey, betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "solveDispute", nil, admin, winner, betID)
}

// SolveDisputeSigned creates a transaction invoking `solveDisputeSigned` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SolveDisputeSigned(admin *keys.PublicKey, winner *keys.PublicKey, betID []byte, sig []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "solveDisputeSigned", admin, winner, betID, sig)
}

// SolveDisputeSignedTransaction creates a transaction invoking `solveDisputeSigned` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SolveDisputeSignedTransaction(admin *keys.PublicKey, winner *keys.PublicKey, betID []byte, sig []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "solveDisputeSigned", admin, winner, betID, sig)
}

// SolveDisputeSignedUnsigned creates a transaction invoking `solveDisputeSigned` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SolveDisputeSignedUnsigned(admin *keys.PublicKey, winner *keys.PublicKey, betID []byte, sig []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "solveDisputeSigned", nil, admin, winner, betID, sig)
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

// WithdrawFunds creates a transaction invoking `withdrawFunds` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) WithdrawFunds(betID []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "withdrawFunds", betID)
}

// WithdrawFundsTransaction creates a transaction invoking `withdrawFunds` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) WithdrawFundsTransaction(betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "withdrawFunds", betID)
}

// WithdrawFundsUnsigned creates a transaction invoking `withdrawFunds` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) WithdrawFundsUnsigned(betID []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "withdrawFunds", nil, betID)
}
