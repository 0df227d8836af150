// Package monitor follows notifications of escrow contracts and maintains
// metrics of bets and balances.
package monitor

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/IBetYou/ibetyou-contract/metrics"
	"github.com/IBetYou/ibetyou-contract/rpc/account"
	"github.com/IBetYou/ibetyou-contract/rpc/bet"
	"github.com/mr-tron/base58"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"go.uber.org/zap"
)

// Subscriber opens notification streams of the contracts. It is implemented
// by the WebSocket RPC client.
type Subscriber interface {
	ReceiveExecutionNotifications(flt *neorpc.NotificationFilter, rcvr chan<- *state.ContainedNotificationEvent) (string, error)
	Unsubscribe(id string) error
}

// ErrSubscriptionClosed is returned by Run when the notification stream is
// closed by the RPC client, usually because of connection loss.
var ErrSubscriptionClosed = errors.New("notification subscription closed")

const notificationBufSize = 64

// Monitor maintains metrics from notifications of Account and Bet contracts.
type Monitor struct {
	logger  *zap.Logger
	metrics *metrics.Monitor

	account util.Uint160
	bet     util.Uint160

	mtx sync.Mutex
	// last known state of the bet by hex-encoded ID
	states map[string]int64
}

// New creates Monitor of the given contracts.
func New(logger *zap.Logger, m *metrics.Monitor, accountContract, betContract util.Uint160) *Monitor {
	return &Monitor{
		logger:  logger,
		metrics: m,
		account: accountContract,
		bet:     betContract,
		states:  make(map[string]int64),
	}
}

// State returns last observed state of the bet. Withdrawn bets are not
// reported.
func (m *Monitor) State(betID []byte) (int64, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	st, ok := m.states[hex.EncodeToString(betID)]
	return st, ok
}

type subscription struct {
	id string
	ch chan *state.ContainedNotificationEvent
}

// Run subscribes to notifications of the contracts and handles them until
// the context is done or any subscription is closed.
func (m *Monitor) Run(ctx context.Context, sub Subscriber) error {
	var subs []subscription
	defer func() { m.unsubscribe(sub, subs) }()

	for _, h := range []util.Uint160{m.account, m.bet} {
		contract := h
		ch := make(chan *state.ContainedNotificationEvent, notificationBufSize)

		id, err := sub.ReceiveExecutionNotifications(&neorpc.NotificationFilter{Contract: &contract}, ch)
		if err != nil {
			return fmt.Errorf("subscribe to notifications of %s: %w", contract.StringLE(), err)
		}

		subs = append(subs, subscription{id: id, ch: ch})
	}

	m.logger.Info("monitoring escrow contracts",
		zap.Stringer("account", m.account), zap.Stringer("bet", m.bet))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg    sync.WaitGroup
		errCh = make(chan error, len(subs))
	)

	for _, s := range subs {
		wg.Add(1)
		go func(s subscription) {
			defer wg.Done()

			err := m.consume(ctx, s.ch)
			if err != nil {
				errCh <- err
				cancel()
			}
		}(s)
	}

	wg.Wait()

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

func (m *Monitor) consume(ctx context.Context, ch <-chan *state.ContainedNotificationEvent) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-ch:
			if !ok {
				return ErrSubscriptionClosed
			}
			m.Handle(ev)
		}
	}
}

// unsubscribe drops subscriptions. RPC client blocks on sending to a full
// channel, so channels are drained until Unsubscribe returns.
func (m *Monitor) unsubscribe(sub Subscriber, subs []subscription) {
	for _, s := range subs {
		done := make(chan struct{})
		go func(ch <-chan *state.ContainedNotificationEvent) {
			for {
				select {
				case <-done:
					return
				case _, ok := <-ch:
					if !ok {
						ch = nil
					}
				}
			}
		}(s.ch)

		err := sub.Unsubscribe(s.id)
		close(done)

		if err != nil {
			m.logger.Warn("failed to unsubscribe from notifications", zap.String("id", s.id), zap.Error(err))
		}
	}
}

// Handle updates metrics according to the notification. Notifications of
// other contracts are ignored.
func (m *Monitor) Handle(ev *state.ContainedNotificationEvent) {
	if ev == nil {
		return
	}

	var err error

	switch {
	case ev.ScriptHash.Equals(m.account):
		err = m.handleAccount(ev)
	case ev.ScriptHash.Equals(m.bet):
		err = m.handleBet(ev)
	default:
		return
	}

	m.metrics.Events.WithLabelValues(ev.Name).Inc()
	m.metrics.LastEventTime.SetToCurrentTime()

	if err != nil {
		m.metrics.DecodeErrors.Inc()
		m.logger.Warn("invalid notification",
			zap.String("name", ev.Name),
			zap.Stringer("tx", ev.Container),
			zap.Error(err))
	}
}

func (m *Monitor) handleAccount(ev *state.ContainedNotificationEvent) error {
	switch ev.Name {
	case "Credit":
		var e account.CreditEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		m.metrics.Credited.Add(float64(e.Amount.Int64()))
	case "Debit":
		var e account.DebitEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		m.metrics.Escrowed.Add(float64(e.Amount.Int64()))
	case "Payout":
		var e account.PayoutEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		m.metrics.PaidOut.Add(float64(e.Amount.Int64()))

		m.logger.Info("bet paid out",
			zap.String("bet", base58.Encode(e.BetID)),
			zap.String("winner", hex.EncodeToString(e.Winner.Bytes())),
			zap.Stringer("amount", e.Amount))
	}

	return nil
}

func (m *Monitor) handleBet(ev *state.ContainedNotificationEvent) error {
	switch ev.Name {
	case "BetCreated":
		var e bet.BetCreatedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		m.setState(e.BetID, bet.StateRoleAssignment.Int64())

		m.logger.Info("bet created",
			zap.String("bet", base58.Encode(e.BetID)),
			zap.Stringer("amount", e.Amount))
	case "StateChanged":
		var e bet.StateChangedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}
		m.setState(e.BetID, e.State.Int64())

		m.logger.Info("bet state changed",
			zap.String("bet", base58.Encode(e.BetID)),
			zap.String("state", bet.StateName(e.State.Int64())))
	case "RoleAssigned":
		var e bet.RoleAssignedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}

		m.logger.Debug("role assigned",
			zap.String("bet", base58.Encode(e.BetID)),
			zap.String("role", bet.RoleName(e.Role.Int64())))
	case "Voted":
		var e bet.VotedEvent
		if err := e.FromStackItem(ev.Item); err != nil {
			return err
		}

		m.logger.Debug("judge voted", zap.String("bet", base58.Encode(e.BetID)))
	}

	return nil
}

// setState moves the bet between state gauges. Bets created before the
// monitor started are only counted in their new state. Withdrawn bets are
// final and are not tracked any longer.
func (m *Monitor) setState(betID []byte, st int64) {
	key := hex.EncodeToString(betID)

	m.mtx.Lock()
	defer m.mtx.Unlock()

	if prev, ok := m.states[key]; ok {
		if prev == st {
			return
		}
		m.metrics.Bets.WithLabelValues(bet.StateName(prev)).Dec()
	}

	m.metrics.Bets.WithLabelValues(bet.StateName(st)).Inc()

	if st == bet.StateWithdrawn.Int64() {
		delete(m.states, key)
		return
	}
	m.states[key] = st
}
