package master

import (
	"github.com/IBetYou/ibetyou-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	ownerKey   = 'o'
	accountKey = 'a'
	betKey     = 'b'

	// BettorJudgeVoteTag is a domain tag of the signed bettor judge vote.
	BettorJudgeVoteTag = "bettor_judge_vote"
	// CounterBettorJudgeVoteTag is a domain tag of the signed counter bettor
	// judge vote.
	CounterBettorJudgeVoteTag = "counter_bettor_judge_vote"
	// SolveDisputeTag is a domain tag of the signed dispute resolution.
	SolveDisputeTag = "solve_dispute"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	args := data.([]any)
	if isUpdate {
		version := args[len(args)-1].(int)
		common.CheckVersion(version)
		return
	}

	owner := args[0].(interop.Hash160)
	if len(owner) != interop.Hash160Len {
		panic("invalid owner address")
	}
	storage.Put(ctx, ownerKey, owner)

	setContracts(ctx, args[1].(interop.Hash160), args[2].(interop.Hash160))

	runtime.Log("master contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	common.UpdateContract(nefFile, manifest, data)
	runtime.Log("master contract updated")
}

// SetContracts rebinds Account and Bet contracts. It can be invoked only by
// the owner.
func SetContracts(accountContract, betContract interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).([]byte))
	setContracts(ctx, accountContract, betContract)
}

// Contracts returns addresses of Account and Bet contracts.
func Contracts() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return []interop.Hash160{
		storage.Get(ctx, accountKey).(interop.Hash160),
		storage.Get(ctx, betKey).(interop.Hash160),
	}
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// CreateBet creates a bet with the given stake and admin and debits the stake
// from the user who becomes the bettor.
func CreateBet(user interop.PublicKey, amount int, betID []byte, admin interop.PublicKey) {
	common.CheckUserKey(user)
	common.CheckWitness(user)

	accountContract, betContract := getContracts()
	contract.Call(betContract, "create", contract.All, betID, user, admin, amount)
	contract.Call(accountContract, "debit", contract.All, user, amount, betID)
}

// JoinCounterBettor makes the user the counter bettor and debits the stake.
func JoinCounterBettor(user interop.PublicKey, amount int, betID []byte) {
	common.CheckUserKey(user)
	common.CheckWitness(user)

	accountContract, betContract := getContracts()
	contract.Call(betContract, "joinCounterBettor", contract.All, betID, user, amount)
	contract.Call(accountContract, "debit", contract.All, user, amount, betID)
}

// JoinBettorJudge makes the user the judge of the bettor side.
func JoinBettorJudge(user interop.PublicKey, betID []byte) {
	common.CheckUserKey(user)
	common.CheckWitness(user)

	_, betContract := getContracts()
	contract.Call(betContract, "joinBettorJudge", contract.All, betID, user)
}

// JoinCounterBettorJudge makes the user the judge of the counter bettor side.
func JoinCounterBettorJudge(user interop.PublicKey, betID []byte) {
	common.CheckUserKey(user)
	common.CheckWitness(user)

	_, betContract := getContracts()
	contract.Call(betContract, "joinCounterBettorJudge", contract.All, betID, user)
}

// BettorJudgeVote records the bettor judge vote for the candidate.
func BettorJudgeVote(judge, candidate interop.PublicKey, betID []byte) {
	common.CheckUserKey(judge)
	common.CheckWitness(judge)

	_, betContract := getContracts()
	contract.Call(betContract, "bettorJudgeVote", contract.All, betID, judge, candidate)
}

// CounterBettorJudgeVote records the counter bettor judge vote for the
// candidate.
func CounterBettorJudgeVote(judge, candidate interop.PublicKey, betID []byte) {
	common.CheckUserKey(judge)
	common.CheckWitness(judge)

	_, betContract := getContracts()
	contract.Call(betContract, "counterBettorJudgeVote", contract.All, betID, judge, candidate)
}

// SolveDispute sets the winner of the disputed bet on behalf of its admin.
func SolveDispute(admin, winner interop.PublicKey, betID []byte) {
	common.CheckUserKey(admin)
	common.CheckWitness(admin)

	_, betContract := getContracts()
	contract.Call(betContract, "solveDispute", contract.All, betID, admin, winner)
}

// BettorJudgeVoteSigned is the same as BettorJudgeVote, but the judge is
// authenticated by the signature over [BettorJudgeVoteTag, master address,
// betID, candidate] instead of the transaction witness.
func BettorJudgeVoteSigned(judge, candidate interop.PublicKey, betID []byte, sig interop.Signature) {
	common.CheckSignature(judge, sig, BettorJudgeVoteTag, []any{betID, candidate})

	_, betContract := getContracts()
	contract.Call(betContract, "bettorJudgeVote", contract.All, betID, judge, candidate)
}

// CounterBettorJudgeVoteSigned is the same as CounterBettorJudgeVote, but the
// judge is authenticated by the signature over [CounterBettorJudgeVoteTag,
// master address, betID, candidate].
func CounterBettorJudgeVoteSigned(judge, candidate interop.PublicKey, betID []byte, sig interop.Signature) {
	common.CheckSignature(judge, sig, CounterBettorJudgeVoteTag, []any{betID, candidate})

	_, betContract := getContracts()
	contract.Call(betContract, "counterBettorJudgeVote", contract.All, betID, judge, candidate)
}

// SolveDisputeSigned is the same as SolveDispute, but the admin is
// authenticated by the signature over [SolveDisputeTag, master address,
// betID, winner].
func SolveDisputeSigned(admin, winner interop.PublicKey, betID []byte, sig interop.Signature) {
	common.CheckSignature(admin, sig, SolveDisputeTag, []any{betID, winner})

	_, betContract := getContracts()
	contract.Call(betContract, "solveDispute", contract.All, betID, admin, winner)
}

// WithdrawFunds finishes the decided bet and pays the pot to the winner.
// Anyone can trigger the withdrawal, funds always go to the winner.
func WithdrawFunds(betID []byte) {
	accountContract, betContract := getContracts()

	winner := contract.Call(betContract, "withdraw", contract.All, betID).(interop.PublicKey)
	contract.Call(accountContract, "payout", contract.All, betID, winner)
}

// GetWinner returns the winner of the bet or null if it is not decided yet.
func GetWinner(betID []byte) interop.PublicKey {
	_, betContract := getContracts()
	return contract.Call(betContract, "getWinner", contract.ReadOnly, betID).(interop.PublicKey)
}

// GetBetStatus returns the bet structure as stored by Bet contract.
func GetBetStatus(betID []byte) any {
	_, betContract := getContracts()
	return contract.Call(betContract, "getBetStatus", contract.ReadOnly, betID)
}

// GetBalance returns balance of the user from Account contract.
func GetBalance(user interop.PublicKey) int {
	accountContract, _ := getContracts()
	return contract.Call(accountContract, "getBalance", contract.ReadOnly, user).(int)
}

func setContracts(ctx storage.Context, accountContract, betContract interop.Hash160) {
	if len(accountContract) != interop.Hash160Len || len(betContract) != interop.Hash160Len {
		panic("invalid contract address")
	}

	storage.Put(ctx, accountKey, accountContract)
	storage.Put(ctx, betKey, betContract)
}

func getContracts() (interop.Hash160, interop.Hash160) {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, accountKey).(interop.Hash160), storage.Get(ctx, betKey).(interop.Hash160)
}
