package account

import (
	"github.com/IBetYou/ibetyou-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Account structure stores balance sheet of a single user.
type Account struct {
	// Spendable balance
	Balance int
}

const (
	ownerKey  = 'o'
	masterKey = 'm'

	accPrefix     = 'a'
	custodyPrefix = 'c'

	// IncreaseBalanceTag is a domain tag of the signed balance credit.
	IncreaseBalanceTag = "increase_balance"

	// ErrNothingEscrowed is thrown on payout of a bet without custody.
	ErrNothingEscrowed = common.ErrInvalidTransition + ": nothing is escrowed for the bet"
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

	runtime.Log("account contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	common.UpdateContract(nefFile, manifest, data)
	runtime.Log("account contract updated")
}

// SetMaster binds the ledger to the orchestrator contract. Only this contract
// can move funds into and out of the escrow. It can be invoked only by the
// owner.
func SetMaster(master interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))
	setMaster(ctx, master)
}

// Master returns address of the orchestrator contract.
func Master() interop.Hash160 {
	return getMaster(storage.GetReadOnlyContext())
}

// Owner returns address of the ledger owner.
func Owner() interop.Hash160 {
	return getOwner(storage.GetReadOnlyContext())
}

// AddBalance credits user with amount. It can be invoked only by the owner.
func AddBalance(user interop.PublicKey, amount int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(getOwner(ctx))
	common.CheckUserKey(user)

	credit(ctx, user, amount)
}

// IncreaseBalance credits user with amount if sig is a valid signature of
// the user over [IncreaseBalanceTag, ledger address, amount]. Signature has
// no nonce, so the same signature can be submitted again.
func IncreaseBalance(user interop.PublicKey, amount int, sig interop.Signature) {
	common.CheckSignature(user, sig, IncreaseBalanceTag, []any{amount})

	ctx := storage.GetContext()
	credit(ctx, user, amount)
}

// Debit moves amount from the user balance into the custody of the bet.
// It can be invoked only by the orchestrator contract.
func Debit(user interop.PublicKey, amount int, betID []byte) {
	ctx := storage.GetContext()
	common.CheckCallingContract(getMaster(ctx))
	checkAmount(amount)

	key := common.PrefixedKey(accPrefix, user)
	acc := getAccount(ctx, key)
	if acc.Balance < amount {
		panic(common.ErrInsufficientBalance + ": " + std.Itoa10(acc.Balance) + " < " + std.Itoa10(amount))
	}

	acc.Balance -= amount
	common.SetSerialized(ctx, key, acc)

	custodyKey := common.PrefixedKey(custodyPrefix, betID)
	storage.Put(ctx, custodyKey, common.GetInt(ctx, custodyKey)+amount)

	runtime.Notify("Debit", user, amount, betID)
}

// Payout releases whole custody of the bet to the winner and returns released
// amount. It can be invoked only by the orchestrator contract.
func Payout(betID []byte, winner interop.PublicKey) int {
	ctx := storage.GetContext()
	common.CheckCallingContract(getMaster(ctx))
	common.CheckUserKey(winner)

	custodyKey := common.PrefixedKey(custodyPrefix, betID)
	pot := common.GetInt(ctx, custodyKey)
	if pot == 0 {
		panic(ErrNothingEscrowed)
	}
	storage.Delete(ctx, custodyKey)

	key := common.PrefixedKey(accPrefix, winner)
	acc := getAccount(ctx, key)
	acc.Balance += pot
	common.SetSerialized(ctx, key, acc)

	runtime.Notify("Payout", betID, winner, pot)

	return pot
}

// GetBalance returns spendable balance of the user. Unknown users have zero
// balance.
func GetBalance(user interop.PublicKey) int {
	ctx := storage.GetReadOnlyContext()
	return getAccount(ctx, common.PrefixedKey(accPrefix, user)).Balance
}

// Custody returns amount escrowed by the bet.
func Custody(betID []byte) int {
	ctx := storage.GetReadOnlyContext()
	return common.GetInt(ctx, common.PrefixedKey(custodyPrefix, betID))
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func credit(ctx storage.Context, user interop.PublicKey, amount int) {
	checkAmount(amount)

	key := common.PrefixedKey(accPrefix, user)
	acc := getAccount(ctx, key)
	acc.Balance += amount
	common.SetSerialized(ctx, key, acc)

	runtime.Notify("Credit", user, amount)
}

func checkAmount(amount int) {
	if amount <= 0 {
		panic(common.ErrInvalidAmount)
	}
}

func setMaster(ctx storage.Context, master interop.Hash160) {
	if len(master) != interop.Hash160Len {
		panic("invalid master address")
	}
	storage.Put(ctx, masterKey, master)
}

func getOwner(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, ownerKey).(interop.Hash160)
}

func getMaster(ctx storage.Context) interop.Hash160 {
	data := storage.Get(ctx, masterKey)
	if data != nil {
		return data.(interop.Hash160)
	}

	return nil
}

func getAccount(ctx storage.Context, key any) Account {
	data := storage.Get(ctx, key)
	if data != nil {
		return std.Deserialize(data.([]byte)).(Account)
	}

	return Account{}
}
