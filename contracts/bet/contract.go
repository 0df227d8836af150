package bet

import (
	"github.com/IBetYou/ibetyou-contract/common"
	"github.com/IBetYou/ibetyou-contract/contracts/bet/betconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Bet structure stores participants and progress of a single bet.
// Unassigned participants and votes are null.
type Bet struct {
	Admin              interop.PublicKey
	Bettor             interop.PublicKey
	CounterBettor      interop.PublicKey
	BettorJudge        interop.PublicKey
	CounterBettorJudge interop.PublicKey
	// Stake of each side
	Amount                 int
	BettorJudgeVote        interop.PublicKey
	CounterBettorJudgeVote interop.PublicKey
	Winner                 interop.PublicKey
	State                  int
}

const (
	ownerKey  = 'o'
	masterKey = 'm'

	betPrefix = 'b'

	errSlotTaken     = common.ErrRoleConflict + ": role is already assigned"
	errHasRole       = common.ErrRoleConflict + ": user already takes part in the bet"
	errNotJudge      = common.ErrUnauthorized + ": caller is not the judge of the bet"
	errNotAdmin      = common.ErrUnauthorized + ": caller is not the admin of the bet"
	errAdminIsBettor = common.ErrRoleConflict + ": admin can't be the bettor"
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

	if len(args) > 1 && args[1] != nil {
		setMaster(ctx, args[1].(interop.Hash160))
	}

	runtime.Log("bet contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	common.UpdateContract(nefFile, manifest, data)
	runtime.Log("bet contract updated")
}

// SetMaster sets the orchestrator contract which is the only one allowed to
// change bets. It can be invoked only by the owner.
func SetMaster(master interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(storage.Get(ctx, ownerKey).([]byte))
	setMaster(ctx, master)
}

// Master returns address of the orchestrator contract.
func Master() interop.Hash160 {
	return getMaster(storage.GetReadOnlyContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// Create registers a new bet in RoleAssignment state with the bettor and the
// admin assigned.
func Create(betID []byte, bettor, admin interop.PublicKey, amount int) {
	ctx := storage.GetContext()
	common.CheckCallingContract(getMaster(ctx))
	checkBetID(betID)
	common.CheckUserKey(bettor)
	common.CheckUserKey(admin)

	if amount <= 0 {
		panic(common.ErrInvalidAmount)
	}
	if common.BytesEqual(bettor, admin) {
		panic(errAdminIsBettor)
	}

	key := common.PrefixedKey(betPrefix, betID)
	if storage.Get(ctx, key) != nil {
		panic(common.ErrBetExists)
	}

	b := Bet{
		Admin:  admin,
		Bettor: bettor,
		Amount: amount,
		State:  betconst.StateRoleAssignment,
	}
	common.SetSerialized(ctx, key, b)

	runtime.Notify("BetCreated", betID, bettor, admin, amount)
}

// JoinCounterBettor assigns the counter bettor role. Amount must be equal to
// the bettor stake.
func JoinCounterBettor(betID []byte, user interop.PublicKey, amount int) {
	ctx := storage.GetContext()
	common.CheckCallingContract(getMaster(ctx))
	common.CheckUserKey(user)

	b := getBet(ctx, betID)
	if b.CounterBettor != nil {
		panic(errSlotTaken)
	}
	checkNoRole(b, user)
	checkState(b, betconst.StateRoleAssignment)

	if amount != b.Amount {
		panic(common.ErrInvalidAmount + ": expected " + std.Itoa10(b.Amount))
	}

	b.CounterBettor = user
	assignRole(ctx, betID, b, betconst.RoleCounterBettor, user)
}

// JoinBettorJudge assigns the judge of the bettor side.
func JoinBettorJudge(betID []byte, user interop.PublicKey) {
	ctx := storage.GetContext()
	common.CheckCallingContract(getMaster(ctx))
	common.CheckUserKey(user)

	b := getBet(ctx, betID)
	if b.BettorJudge != nil {
		panic(errSlotTaken)
	}
	checkNoRole(b, user)
	checkState(b, betconst.StateRoleAssignment)

	b.BettorJudge = user
	assignRole(ctx, betID, b, betconst.RoleBettorJudge, user)
}

// JoinCounterBettorJudge assigns the judge of the counter bettor side.
func JoinCounterBettorJudge(betID []byte, user interop.PublicKey) {
	ctx := storage.GetContext()
	common.CheckCallingContract(getMaster(ctx))
	common.CheckUserKey(user)

	b := getBet(ctx, betID)
	if b.CounterBettorJudge != nil {
		panic(errSlotTaken)
	}
	checkNoRole(b, user)
	checkState(b, betconst.StateRoleAssignment)

	b.CounterBettorJudge = user
	assignRole(ctx, betID, b, betconst.RoleCounterBettorJudge, user)
}

// BettorJudgeVote records the vote of the bettor judge. Candidate must be
// one of the bettors.
func BettorJudgeVote(betID []byte, judge, candidate interop.PublicKey) {
	ctx := storage.GetContext()
	common.CheckCallingContract(getMaster(ctx))

	b := getBet(ctx, betID)
	checkState(b, betconst.StateVoting)
	if !common.BytesEqual(b.BettorJudge, judge) {
		panic(errNotJudge)
	}
	if b.BettorJudgeVote != nil {
		panic(common.ErrAlreadyVoted)
	}
	checkCandidate(b, candidate)

	b.BettorJudgeVote = candidate
	runtime.Notify("Voted", betID, judge, candidate)

	b = tally(betID, b)
	common.SetSerialized(ctx, common.PrefixedKey(betPrefix, betID), b)
}

// CounterBettorJudgeVote records the vote of the counter bettor judge.
// Candidate must be one of the bettors.
func CounterBettorJudgeVote(betID []byte, judge, candidate interop.PublicKey) {
	ctx := storage.GetContext()
	common.CheckCallingContract(getMaster(ctx))

	b := getBet(ctx, betID)
	checkState(b, betconst.StateVoting)
	if !common.BytesEqual(b.CounterBettorJudge, judge) {
		panic(errNotJudge)
	}
	if b.CounterBettorJudgeVote != nil {
		panic(common.ErrAlreadyVoted)
	}
	checkCandidate(b, candidate)

	b.CounterBettorJudgeVote = candidate
	runtime.Notify("Voted", betID, judge, candidate)

	b = tally(betID, b)
	common.SetSerialized(ctx, common.PrefixedKey(betPrefix, betID), b)
}

// SolveDispute sets the winner of the disputed bet. Only the bet admin
// can resolve a dispute.
func SolveDispute(betID []byte, admin, winner interop.PublicKey) {
	ctx := storage.GetContext()
	common.CheckCallingContract(getMaster(ctx))

	b := getBet(ctx, betID)
	checkState(b, betconst.StateDispute)
	if !common.BytesEqual(b.Admin, admin) {
		panic(errNotAdmin)
	}
	checkCandidate(b, winner)

	b.Winner = winner
	b = setState(betID, b, betconst.StateDecided)
	common.SetSerialized(ctx, common.PrefixedKey(betPrefix, betID), b)
}

// Withdraw finishes the decided bet and returns the winner who receives
// the pot.
func Withdraw(betID []byte) interop.PublicKey {
	ctx := storage.GetContext()
	common.CheckCallingContract(getMaster(ctx))

	b := getBet(ctx, betID)
	checkState(b, betconst.StateDecided)

	b = setState(betID, b, betconst.StateWithdrawn)
	common.SetSerialized(ctx, common.PrefixedKey(betPrefix, betID), b)

	return b.Winner
}

// GetBetStatus returns the bet structure.
func GetBetStatus(betID []byte) Bet {
	return getBet(storage.GetReadOnlyContext(), betID)
}

// GetWinner returns the winner of the bet or null if it is not decided yet.
func GetWinner(betID []byte) interop.PublicKey {
	return getBet(storage.GetReadOnlyContext(), betID).Winner
}

// GetState returns the state code of the bet.
func GetState(betID []byte) int {
	return getBet(storage.GetReadOnlyContext(), betID).State
}

func assignRole(ctx storage.Context, betID []byte, b Bet, role int, user interop.PublicKey) {
	runtime.Notify("RoleAssigned", betID, role, user)

	if b.CounterBettor != nil && b.BettorJudge != nil && b.CounterBettorJudge != nil {
		b = setState(betID, b, betconst.StateVoting)
	}

	common.SetSerialized(ctx, common.PrefixedKey(betPrefix, betID), b)
}

// tally decides the bet once both judges have voted.
func tally(betID []byte, b Bet) Bet {
	if b.BettorJudgeVote == nil || b.CounterBettorJudgeVote == nil {
		return b
	}

	if common.BytesEqual(b.BettorJudgeVote, b.CounterBettorJudgeVote) {
		b.Winner = b.BettorJudgeVote
		return setState(betID, b, betconst.StateDecided)
	}

	return setState(betID, b, betconst.StateDispute)
}

func setState(betID []byte, b Bet, state int) Bet {
	b.State = state
	runtime.Notify("StateChanged", betID, state)
	return b
}

func checkState(b Bet, expected int) {
	if b.State != expected {
		panic(common.ErrInvalidTransition + ": bet is in state " + std.Itoa10(b.State) +
			", expected " + std.Itoa10(expected))
	}
}

func checkNoRole(b Bet, user interop.PublicKey) {
	if common.BytesEqual(b.Admin, user) ||
		common.BytesEqual(b.Bettor, user) ||
		common.BytesEqual(b.CounterBettor, user) ||
		common.BytesEqual(b.BettorJudge, user) ||
		common.BytesEqual(b.CounterBettorJudge, user) {
		panic(errHasRole)
	}
}

func checkCandidate(b Bet, candidate interop.PublicKey) {
	if !common.BytesEqual(b.Bettor, candidate) && !common.BytesEqual(b.CounterBettor, candidate) {
		panic(common.ErrInvalidCandidate)
	}
}

func checkBetID(betID []byte) {
	if len(betID) == 0 || len(betID) > betconst.MaxBetIDLength {
		panic(common.ErrInvalidBetID)
	}
}

func setMaster(ctx storage.Context, master interop.Hash160) {
	if len(master) != interop.Hash160Len {
		panic("invalid master address")
	}
	storage.Put(ctx, masterKey, master)
}

func getMaster(ctx storage.Context) interop.Hash160 {
	data := storage.Get(ctx, masterKey)
	if data != nil {
		return data.(interop.Hash160)
	}

	return nil
}

func getBet(ctx storage.Context, betID []byte) Bet {
	data := storage.Get(ctx, common.PrefixedKey(betPrefix, betID))
	if data == nil {
		panic(common.ErrBetNotFound)
	}

	return std.Deserialize(data.([]byte)).(Bet)
}
