// Package client provides high-level access to the escrow betting system.
//
// Client sends transactions to the Master and Account contracts, waits for
// their acceptance and converts FAULT exceptions to errors of the fault
// package. Client is safe for concurrent use as long as the underlying
// Actor is.
package client

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/IBetYou/ibetyou-contract/metrics"
	"github.com/IBetYou/ibetyou-contract/rpc/account"
	"github.com/IBetYou/ibetyou-contract/rpc/bet"
	"github.com/IBetYou/ibetyou-contract/rpc/fault"
	"github.com/IBetYou/ibetyou-contract/rpc/master"
	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Actor sends transactions and waits for their execution. It is
// implemented by the neo-go rpcclient actor.
type Actor interface {
	master.Actor
	Wait(h util.Uint256, vub uint32, err error) (*state.AppExecResult, error)
}

// Prm groups parameters of the Client.
type Prm struct {
	// Logger of the client. Required.
	Logger *zap.Logger

	// Actor signing the transactions. Required.
	Actor Actor

	// Address of the Master contract. Required.
	Master util.Uint160

	// Address of the Account contract. If zero, it is requested from the
	// Master contract.
	Account util.Uint160

	// Optional metrics of sent operations.
	Metrics *metrics.Client
}

// Client of the escrow contracts.
type Client struct {
	logger  *zap.Logger
	actor   Actor
	metrics *metrics.Client

	masterHash  util.Uint160
	accountHash util.Uint160
	master      *master.Contract
	account     *account.Contract
}

// ErrNoPayout is returned by [Client.Withdraw] when the transaction was
// accepted without paying the winner.
var ErrNoPayout = errors.New("no payout in the transaction")

// New creates Client of the escrow contracts.
func New(prm Prm) (*Client, error) {
	switch {
	case prm.Logger == nil:
		return nil, errors.New("missing logger")
	case prm.Actor == nil:
		return nil, errors.New("missing actor")
	case prm.Master.Equals(util.Uint160{}):
		return nil, errors.New("missing Master contract address")
	}

	c := &Client{
		logger:     prm.Logger,
		actor:      prm.Actor,
		metrics:    prm.Metrics,
		masterHash: prm.Master,
		master:     master.New(prm.Actor, prm.Master),
	}

	c.accountHash = prm.Account
	if c.accountHash.Equals(util.Uint160{}) {
		accountHash, _, err := c.master.Contracts()
		if err != nil {
			return nil, fmt.Errorf("get Account contract address: %w", fault.Classify(err))
		}
		c.accountHash = accountHash
	}

	c.account = account.New(prm.Actor, c.accountHash)

	return c, nil
}

// NewBetID returns a new random bet identifier.
func NewBetID() []byte {
	id := uuid.New()
	return id[:]
}

// EncodeBetID returns text representation of the bet identifier.
func EncodeBetID(id []byte) string {
	return base58.Encode(id)
}

// DecodeBetID parses the bet identifier from its text representation.
func DecodeBetID(s string) ([]byte, error) {
	id, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("decode bet id: %w", err)
	}
	if len(id) == 0 {
		return nil, errors.New("empty bet id")
	}
	return id, nil
}

// Master returns the address of the Master contract.
func (c *Client) Master() util.Uint160 {
	return c.masterHash
}

// Account returns the address of the Account contract.
func (c *Client) Account() util.Uint160 {
	return c.accountHash
}

// AddBalance credits the user on behalf of the Account contract owner.
func (c *Client) AddBalance(ctx context.Context, user *keys.PublicKey, amount int64) error {
	_, err := c.exec(ctx, "add_balance", func() (util.Uint256, uint32, error) {
		return c.account.AddBalance(user, big.NewInt(amount))
	})
	return err
}

// IncreaseBalance credits the user with the signature produced by
// [auth.IncreaseBalance].
func (c *Client) IncreaseBalance(ctx context.Context, user *keys.PublicKey, amount int64, sig []byte) error {
	_, err := c.exec(ctx, "increase_balance", func() (util.Uint256, uint32, error) {
		return c.account.IncreaseBalance(user, big.NewInt(amount), sig)
	})
	return err
}

// CreateBet opens the bet with the user as the bettor and escrows the
// amount from the user balance.
func (c *Client) CreateBet(ctx context.Context, betID []byte, user *keys.PublicKey, amount int64, admin *keys.PublicKey) error {
	_, err := c.exec(ctx, "create_bet", func() (util.Uint256, uint32, error) {
		return c.master.CreateBet(user, big.NewInt(amount), betID, admin)
	})
	if err == nil {
		c.logger.Info("bet created", zap.String("bet", EncodeBetID(betID)), zap.Int64("amount", amount))
	}
	return err
}

// JoinCounterBettor takes the counter bettor role matching the bet amount.
func (c *Client) JoinCounterBettor(ctx context.Context, betID []byte, user *keys.PublicKey, amount int64) error {
	_, err := c.exec(ctx, "join_counter_bettor", func() (util.Uint256, uint32, error) {
		return c.master.JoinCounterBettor(user, big.NewInt(amount), betID)
	})
	return err
}

// JoinBettorJudge takes the judge role on the bettor side.
func (c *Client) JoinBettorJudge(ctx context.Context, betID []byte, user *keys.PublicKey) error {
	_, err := c.exec(ctx, "join_bettor_judge", func() (util.Uint256, uint32, error) {
		return c.master.JoinBettorJudge(user, betID)
	})
	return err
}

// JoinCounterBettorJudge takes the judge role on the counter bettor side.
func (c *Client) JoinCounterBettorJudge(ctx context.Context, betID []byte, user *keys.PublicKey) error {
	_, err := c.exec(ctx, "join_counter_bettor_judge", func() (util.Uint256, uint32, error) {
		return c.master.JoinCounterBettorJudge(user, betID)
	})
	return err
}

// BettorJudgeVote votes for the candidate as the bettor judge. Judge must
// witness the transaction.
func (c *Client) BettorJudgeVote(ctx context.Context, betID []byte, judge, candidate *keys.PublicKey) error {
	_, err := c.exec(ctx, "bettor_judge_vote", func() (util.Uint256, uint32, error) {
		return c.master.BettorJudgeVote(judge, candidate, betID)
	})
	return err
}

// CounterBettorJudgeVote votes for the candidate as the counter bettor
// judge. Judge must witness the transaction.
func (c *Client) CounterBettorJudgeVote(ctx context.Context, betID []byte, judge, candidate *keys.PublicKey) error {
	_, err := c.exec(ctx, "counter_bettor_judge_vote", func() (util.Uint256, uint32, error) {
		return c.master.CounterBettorJudgeVote(judge, candidate, betID)
	})
	return err
}

// BettorJudgeVoteSigned relays the vote signed by the bettor judge.
func (c *Client) BettorJudgeVoteSigned(ctx context.Context, betID []byte, judge, candidate *keys.PublicKey, sig []byte) error {
	_, err := c.exec(ctx, "bettor_judge_vote", func() (util.Uint256, uint32, error) {
		return c.master.BettorJudgeVoteSigned(judge, candidate, betID, sig)
	})
	return err
}

// CounterBettorJudgeVoteSigned relays the vote signed by the counter bettor
// judge.
func (c *Client) CounterBettorJudgeVoteSigned(ctx context.Context, betID []byte, judge, candidate *keys.PublicKey, sig []byte) error {
	_, err := c.exec(ctx, "counter_bettor_judge_vote", func() (util.Uint256, uint32, error) {
		return c.master.CounterBettorJudgeVoteSigned(judge, candidate, betID, sig)
	})
	return err
}

// SolveDispute decides the disputed bet. Admin must witness the
// transaction.
func (c *Client) SolveDispute(ctx context.Context, betID []byte, admin, winner *keys.PublicKey) error {
	_, err := c.exec(ctx, "solve_dispute", func() (util.Uint256, uint32, error) {
		return c.master.SolveDispute(admin, winner, betID)
	})
	return err
}

// SolveDisputeSigned relays the dispute decision signed by the admin.
func (c *Client) SolveDisputeSigned(ctx context.Context, betID []byte, admin, winner *keys.PublicKey, sig []byte) error {
	_, err := c.exec(ctx, "solve_dispute", func() (util.Uint256, uint32, error) {
		return c.master.SolveDisputeSigned(admin, winner, betID, sig)
	})
	return err
}

// Withdraw pays the pot of the decided bet to the winner and returns the
// winner with the paid amount.
func (c *Client) Withdraw(ctx context.Context, betID []byte) (*keys.PublicKey, int64, error) {
	res, err := c.exec(ctx, "withdraw", func() (util.Uint256, uint32, error) {
		return c.master.WithdrawFunds(betID)
	})
	if err != nil {
		return nil, 0, err
	}

	for i := range res.Events {
		ev := res.Events[i]
		if ev.Name != "Payout" || !ev.ScriptHash.Equals(c.accountHash) {
			continue
		}

		var payout account.PayoutEvent
		if err := payout.FromStackItem(ev.Item); err != nil {
			return nil, 0, fmt.Errorf("decode payout: %w", err)
		}

		c.logger.Info("bet paid out",
			zap.String("bet", EncodeBetID(betID)),
			zap.String("winner", hex.EncodeToString(payout.Winner.Bytes())),
			zap.Stringer("amount", payout.Amount))

		return payout.Winner, payout.Amount.Int64(), nil
	}

	return nil, 0, ErrNoPayout
}

// Status returns the bet.
func (c *Client) Status(betID []byte) (*bet.Status, error) {
	st, err := c.master.GetBetStatus(betID)
	if err != nil {
		return nil, fault.Classify(err)
	}
	return st, nil
}

// Winner returns the winner of the bet or nil if it is not decided yet.
func (c *Client) Winner(betID []byte) (*keys.PublicKey, error) {
	w, err := c.master.GetWinner(betID)
	if err != nil {
		return nil, fault.Classify(err)
	}
	return w, nil
}

// Balance returns the balance of the user.
func (c *Client) Balance(user *keys.PublicKey) (int64, error) {
	b, err := c.master.GetBalance(user)
	if err != nil {
		return 0, fault.Classify(err)
	}
	return b.Int64(), nil
}

// exec sends the transaction and waits for its execution. Errors are
// classified with the fault package.
func (c *Client) exec(ctx context.Context, op string, send func() (util.Uint256, uint32, error)) (*state.AppExecResult, error) {
	start := time.Now()

	res, err := c.sendAndWait(ctx, send)
	if err != nil {
		err = fmt.Errorf("%s: %w", op, fault.Classify(err))
	}

	if c.metrics != nil {
		c.metrics.Operations.WithLabelValues(op, fault.Kind(err)).Inc()
		c.metrics.Duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		c.logger.Debug("operation failed", zap.String("operation", op), zap.Error(err))
		return nil, err
	}

	c.logger.Debug("operation accepted",
		zap.String("operation", op),
		zap.Stringer("tx", res.Container),
		zap.Duration("took", time.Since(start)))

	return res, nil
}

type waitResult struct {
	res *state.AppExecResult
	err error
}

func (c *Client) sendAndWait(ctx context.Context, send func() (util.Uint256, uint32, error)) (*state.AppExecResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h, vub, err := send()
	if err != nil {
		return nil, err
	}

	// Wait returns after the transaction is accepted or expired, so the
	// goroutine does not outlive valid until block.
	ch := make(chan waitResult, 1)
	go func() {
		res, err := c.actor.Wait(h, vub, nil)
		ch <- waitResult{res, err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("wait for transaction %s: %w", h.StringLE(), ctx.Err())
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("wait for transaction %s: %w", h.StringLE(), r.err)
		}
		if err := fault.CheckExecution(r.res); err != nil {
			return nil, err
		}
		return r.res, nil
	}
}
