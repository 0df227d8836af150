package client

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/IBetYou/ibetyou-contract/metrics"
	"github.com/IBetYou/ibetyou-contract/rpc/fault"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var (
	masterHash  = util.Uint160{1}
	accountHash = util.Uint160{2}
	betHash     = util.Uint160{3}
)

var errNotSupported = errors.New("not supported")

type sentCall struct {
	contract util.Uint160
	method   string
	params   []any
}

// testActor records sent calls and returns prepared results.
type testActor struct {
	mtx   sync.Mutex
	sent  []sentCall
	calls []string

	invoke  func(method string) *result.Invoke
	sendErr error
	exec    *state.AppExecResult
	waitErr error
	block   chan struct{}
}

func (a *testActor) Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error) {
	a.mtx.Lock()
	a.calls = append(a.calls, operation)
	a.mtx.Unlock()

	if a.invoke == nil {
		return nil, errNotSupported
	}
	return a.invoke(operation), nil
}

func (a *testActor) MakeCall(util.Uint160, string, ...any) (*transaction.Transaction, error) {
	return nil, errNotSupported
}

func (a *testActor) MakeRun([]byte) (*transaction.Transaction, error) {
	return nil, errNotSupported
}

func (a *testActor) MakeUnsignedCall(util.Uint160, string, []transaction.Attribute, ...any) (*transaction.Transaction, error) {
	return nil, errNotSupported
}

func (a *testActor) MakeUnsignedRun([]byte, []transaction.Attribute) (*transaction.Transaction, error) {
	return nil, errNotSupported
}

func (a *testActor) SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error) {
	a.mtx.Lock()
	a.sent = append(a.sent, sentCall{contract, method, params})
	a.mtx.Unlock()

	if a.sendErr != nil {
		return util.Uint256{}, 0, a.sendErr
	}
	return util.Uint256{0xFF}, 100, nil
}

func (a *testActor) SendRun([]byte) (util.Uint256, uint32, error) {
	return util.Uint256{}, 0, errNotSupported
}

func (a *testActor) Wait(h util.Uint256, _ uint32, err error) (*state.AppExecResult, error) {
	if err != nil {
		return nil, err
	}
	if a.block != nil {
		<-a.block
	}
	if a.waitErr != nil {
		return nil, a.waitErr
	}
	if a.exec != nil {
		return a.exec, nil
	}
	return &state.AppExecResult{Container: h, Execution: state.Execution{VMState: vmstate.Halt}}, nil
}

func (a *testActor) lastSent() sentCall {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	return a.sent[len(a.sent)-1]
}

func halt(items ...stackitem.Item) *result.Invoke {
	return &result.Invoke{State: vmstate.Halt.String(), Stack: items}
}

func faulted(exception string) *result.Invoke {
	return &result.Invoke{State: vmstate.Fault.String(), FaultException: exception}
}

func newKey(t *testing.T) *keys.PrivateKey {
	k, err := keys.NewPrivateKey()
	require.NoError(t, err)
	return k
}

func newClient(t *testing.T, act *testActor) (*Client, *metrics.Client) {
	m := metrics.NewClient(prometheus.NewRegistry())
	c, err := New(Prm{
		Logger:  zaptest.NewLogger(t),
		Actor:   act,
		Master:  masterHash,
		Account: accountHash,
		Metrics: m,
	})
	require.NoError(t, err)
	return c, m
}

func TestNew(t *testing.T) {
	logger := zaptest.NewLogger(t)

	t.Run("missing parameters", func(t *testing.T) {
		_, err := New(Prm{Actor: &testActor{}, Master: masterHash})
		require.Error(t, err)
		_, err = New(Prm{Logger: logger, Master: masterHash})
		require.Error(t, err)
		_, err = New(Prm{Logger: logger, Actor: &testActor{}})
		require.Error(t, err)
	})

	t.Run("account from master", func(t *testing.T) {
		act := &testActor{invoke: func(string) *result.Invoke {
			return halt(stackitem.NewArray([]stackitem.Item{
				stackitem.NewByteArray(accountHash.BytesBE()),
				stackitem.NewByteArray(betHash.BytesBE()),
			}))
		}}

		c, err := New(Prm{Logger: logger, Actor: act, Master: masterHash})
		require.NoError(t, err)
		require.Equal(t, accountHash, c.Account())
		require.Equal(t, masterHash, c.Master())
		require.Equal(t, []string{"contracts"}, act.calls)
	})

	t.Run("master unavailable", func(t *testing.T) {
		act := &testActor{invoke: func(string) *result.Invoke {
			return faulted("unauthorized: caller is not allowed")
		}}

		_, err := New(Prm{Logger: logger, Actor: act, Master: masterHash})
		require.ErrorIs(t, err, fault.ErrUnauthorized)
	})
}

func TestBetID(t *testing.T) {
	id := NewBetID()
	require.Len(t, id, 16)
	require.NotEqual(t, id, NewBetID())

	decoded, err := DecodeBetID(EncodeBetID(id))
	require.NoError(t, err)
	require.Equal(t, id, decoded)

	_, err = DecodeBetID("0OIl")
	require.Error(t, err)
	_, err = DecodeBetID("")
	require.Error(t, err)
}

func TestOperations(t *testing.T) {
	act := &testActor{}
	c, m := newClient(t, act)
	ctx := context.Background()

	user, admin, judge := newKey(t).PublicKey(), newKey(t).PublicKey(), newKey(t).PublicKey()
	betID := NewBetID()

	require.NoError(t, c.AddBalance(ctx, user, 50))
	sent := act.lastSent()
	require.Equal(t, accountHash, sent.contract)
	require.Equal(t, "addBalance", sent.method)
	require.Equal(t, []any{user, big.NewInt(50)}, sent.params)

	require.NoError(t, c.IncreaseBalance(ctx, user, 5, []byte{1}))
	require.Equal(t, "increaseBalance", act.lastSent().method)

	require.NoError(t, c.CreateBet(ctx, betID, user, 10, admin))
	sent = act.lastSent()
	require.Equal(t, masterHash, sent.contract)
	require.Equal(t, "createBet", sent.method)
	require.Equal(t, []any{user, big.NewInt(10), betID, admin}, sent.params)

	for method, call := range map[string]func() error{
		"joinCounterBettor":            func() error { return c.JoinCounterBettor(ctx, betID, user, 10) },
		"joinBettorJudge":              func() error { return c.JoinBettorJudge(ctx, betID, user) },
		"joinCounterBettorJudge":       func() error { return c.JoinCounterBettorJudge(ctx, betID, user) },
		"bettorJudgeVote":              func() error { return c.BettorJudgeVote(ctx, betID, judge, user) },
		"counterBettorJudgeVote":       func() error { return c.CounterBettorJudgeVote(ctx, betID, judge, user) },
		"bettorJudgeVoteSigned":        func() error { return c.BettorJudgeVoteSigned(ctx, betID, judge, user, []byte{1}) },
		"counterBettorJudgeVoteSigned": func() error { return c.CounterBettorJudgeVoteSigned(ctx, betID, judge, user, []byte{1}) },
		"solveDispute":                 func() error { return c.SolveDispute(ctx, betID, admin, user) },
		"solveDisputeSigned":           func() error { return c.SolveDisputeSigned(ctx, betID, admin, user, []byte{1}) },
	} {
		require.NoError(t, call(), method)
		require.Equal(t, method, act.lastSent().method)
		require.Equal(t, masterHash, act.lastSent().contract)
	}

	require.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("create_bet", "ok")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("bettor_judge_vote", "ok")))
}

func TestFailures(t *testing.T) {
	ctx := context.Background()
	user, admin := newKey(t).PublicKey(), newKey(t).PublicKey()

	t.Run("test invocation", func(t *testing.T) {
		act := &testActor{sendErr: errors.New("at instruction 10 (THROW): unhandled exception: \"role conflict: role is already taken\"")}
		c, m := newClient(t, act)

		err := c.JoinBettorJudge(ctx, NewBetID(), user)
		require.ErrorIs(t, err, fault.ErrRoleConflict)
		require.ErrorIs(t, err, act.sendErr)
		require.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("join_bettor_judge", "role_conflict")))
	})

	t.Run("faulted transaction", func(t *testing.T) {
		act := &testActor{exec: &state.AppExecResult{Execution: state.Execution{
			VMState:        vmstate.Fault,
			FaultException: "insufficient balance: balance is too low",
		}}}
		c, m := newClient(t, act)

		err := c.CreateBet(ctx, NewBetID(), user, 10, admin)
		require.ErrorIs(t, err, fault.ErrInsufficientBalance)
		require.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("create_bet", "insufficient_balance")))
	})

	t.Run("expired transaction", func(t *testing.T) {
		act := &testActor{waitErr: errors.New("transaction expired")}
		c, m := newClient(t, act)

		err := c.AddBalance(ctx, user, 1)
		require.ErrorIs(t, err, act.waitErr)
		require.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("add_balance", "other")))
	})

	t.Run("canceled", func(t *testing.T) {
		act := &testActor{block: make(chan struct{})}
		defer close(act.block)
		c, _ := newClient(t, act)

		ctx, cancel := context.WithCancel(ctx)
		cancel()

		err := c.AddBalance(ctx, user, 1)
		require.ErrorIs(t, err, context.Canceled)
		require.Empty(t, act.sent)
	})

	t.Run("canceled while waiting", func(t *testing.T) {
		act := &testActor{block: make(chan struct{})}
		defer close(act.block)
		c, _ := newClient(t, act)

		ctx, cancel := context.WithCancel(ctx)
		go func() {
			for {
				act.mtx.Lock()
				n := len(act.sent)
				act.mtx.Unlock()
				if n > 0 {
					cancel()
					return
				}
			}
		}()

		err := c.AddBalance(ctx, user, 1)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	winner := newKey(t).PublicKey()
	betID := NewBetID()

	payout := state.NotificationEvent{
		ScriptHash: accountHash,
		Name:       "Payout",
		Item: stackitem.NewArray([]stackitem.Item{
			stackitem.NewByteArray(betID),
			stackitem.NewByteArray(winner.Bytes()),
			stackitem.Make(20),
		}),
	}

	t.Run("paid", func(t *testing.T) {
		act := &testActor{exec: &state.AppExecResult{Execution: state.Execution{
			VMState: vmstate.Halt,
			Events: []state.NotificationEvent{
				{ScriptHash: betHash, Name: "StateChanged", Item: stackitem.NewArray(nil)},
				payout,
			},
		}}}
		c, _ := newClient(t, act)

		w, amount, err := c.Withdraw(ctx, betID)
		require.NoError(t, err)
		require.True(t, w.Equal(winner))
		require.EqualValues(t, 20, amount)
		require.Equal(t, "withdrawFunds", act.lastSent().method)
	})

	t.Run("no payout", func(t *testing.T) {
		act := &testActor{}
		c, _ := newClient(t, act)

		_, _, err := c.Withdraw(ctx, betID)
		require.ErrorIs(t, err, ErrNoPayout)
	})

	t.Run("not decided", func(t *testing.T) {
		act := &testActor{sendErr: errors.New("invalid transition: bet is not decided")}
		c, _ := newClient(t, act)

		_, _, err := c.Withdraw(ctx, betID)
		require.ErrorIs(t, err, fault.ErrInvalidTransition)
	})
}

func TestReads(t *testing.T) {
	user := newKey(t).PublicKey()

	act := &testActor{invoke: func(method string) *result.Invoke {
		switch method {
		case "getBalance":
			return halt(stackitem.Make(42))
		case "getWinner":
			return halt(stackitem.Null{})
		default:
			return faulted("invalid transition: bet not found")
		}
	}}
	c, _ := newClient(t, act)

	b, err := c.Balance(user)
	require.NoError(t, err)
	require.EqualValues(t, 42, b)

	w, err := c.Winner(NewBetID())
	require.NoError(t, err)
	require.Nil(t, w)

	_, err = c.Status(NewBetID())
	require.ErrorIs(t, err, fault.ErrInvalidTransition)
	require.ErrorIs(t, err, fault.ErrBetNotFound)
}
