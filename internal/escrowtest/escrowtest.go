// Package escrowtest deploys escrow contracts to a single node test chain.
package escrowtest

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

// Contract names as directories under contracts/.
const (
	AccountContract = "account"
	BetContract     = "bet"
	MasterContract  = "master"
)

// Env is a test chain with Account, Bet and Master contracts deployed and
// bound to each other. Owner of all contracts is the committee.
type Env struct {
	*neotest.Executor

	Account util.Uint160
	Bet     util.Uint160
	Master  util.Uint160
}

// User is a participant of bets that can sign transactions.
type User struct {
	neotest.SingleSigner
}

// ContractDir returns path to the sources of the named contract.
func ContractDir(name string) string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "contracts", name)
}

// NewExecutor creates executor over a new single node chain.
func NewExecutor(t testing.TB) *neotest.Executor {
	bc, acc := chain.NewSingle(t)
	return neotest.NewExecutor(t, bc, acc, acc)
}

// Compile compiles the named contract on behalf of the executor committee.
func Compile(t testing.TB, e *neotest.Executor, name string) *neotest.Contract {
	dir := ContractDir(name)
	return neotest.CompileFile(t, e.CommitteeHash, dir, filepath.Join(dir, "config.yml"))
}

// Deploy creates a new chain and deploys all escrow contracts to it.
func Deploy(t testing.TB) *Env {
	e := NewExecutor(t)

	acc := Compile(t, e, AccountContract)
	bet := Compile(t, e, BetContract)
	master := Compile(t, e, MasterContract)

	e.DeployContract(t, acc, []any{e.CommitteeHash, master.Hash})
	e.DeployContract(t, bet, []any{e.CommitteeHash, master.Hash})
	e.DeployContract(t, master, []any{e.CommitteeHash, acc.Hash, bet.Hash})

	return &Env{
		Executor: e,
		Account:  acc.Hash,
		Bet:      bet.Hash,
		Master:   master.Hash,
	}
}

// NewUser creates an account with some GAS to pay for transactions.
func (e *Env) NewUser(t testing.TB) User {
	return User{e.NewAccount(t).(neotest.SingleSigner)}
}

// NewFundedUser creates an account and credits it with amount in Account
// contract.
func (e *Env) NewFundedUser(t testing.TB, amount int64) User {
	u := e.NewUser(t)
	e.Fund(t, u, amount)
	return u
}

// Fund credits user with amount on behalf of the Account contract owner.
func (e *Env) Fund(t testing.TB, u User, amount int64) {
	e.CommitteeInvoker(e.Account).Invoke(t, stackitem.Null{}, "addBalance", u.PublicKey(), amount)
}

// MasterAs returns Master contract invoker signed by the given users.
func (e *Env) MasterAs(users ...User) *neotest.ContractInvoker {
	signers := make([]neotest.Signer, len(users))
	for i := range users {
		signers[i] = users[i]
	}
	return e.NewInvoker(e.Master, signers...)
}

// Balance returns balance of the user in Account contract.
func (e *Env) Balance(t testing.TB, u User) int64 {
	stack, err := e.CommitteeInvoker(e.Account).TestInvoke(t, "getBalance", u.PublicKey())
	require.NoError(t, err)

	v, err := stack.Pop().Item().TryInteger()
	require.NoError(t, err)
	return v.Int64()
}

// State returns state code of the bet.
func (e *Env) State(t testing.TB, betID []byte) int64 {
	stack, err := e.CommitteeInvoker(e.Bet).TestInvoke(t, "getState", betID)
	require.NoError(t, err)

	v, err := stack.Pop().Item().TryInteger()
	require.NoError(t, err)
	return v.Int64()
}

// PrivateKey returns the key of the user.
func (u User) PrivateKey() *keys.PrivateKey {
	return u.Account().PrivateKey()
}

// PublicKey returns compressed public key of the user, it is the user
// identifier in escrow contracts.
func (u User) PublicKey() []byte {
	return u.Account().PrivateKey().PublicKey().Bytes()
}

// Bytes calls read-only method of the contract and returns its result as a
// byte slice. Hashes and keys come back from the VM as Buffer or ByteString
// depending on how contract produced them, so both are accepted.
func Bytes(t testing.TB, inv *neotest.ContractInvoker, method string, args ...any) []byte {
	stack, err := inv.TestInvoke(t, method, args...)
	require.NoError(t, err)
	require.Equal(t, 1, stack.Len())

	b, err := stack.Pop().Item().TryBytes()
	require.NoError(t, err)
	return b
}

// BytesArray is like Bytes for methods returning an array of byte slices.
func BytesArray(t testing.TB, inv *neotest.ContractInvoker, method string, args ...any) [][]byte {
	stack, err := inv.TestInvoke(t, method, args...)
	require.NoError(t, err)
	require.Equal(t, 1, stack.Len())

	arr, ok := stack.Pop().Item().Value().([]stackitem.Item)
	require.True(t, ok, "result is not an array")

	res := make([][]byte, len(arr))
	for i := range arr {
		res[i], err = arr[i].TryBytes()
		require.NoError(t, err)
	}
	return res
}
