package bet_test

import (
	"testing"

	"github.com/IBetYou/ibetyou-contract/common"
	"github.com/IBetYou/ibetyou-contract/internal/escrowtest"
	"github.com/stretchr/testify/require"
)

func TestMutationsRestrictedToMaster(t *testing.T) {
	e := escrowtest.Deploy(t)
	bettor := e.NewFundedUser(t, 50)
	admin := e.NewUser(t)

	betID := []byte("bet")
	inv := e.CommitteeInvoker(e.Bet)

	inv.InvokeFail(t, common.ErrCallerFailed, "create", betID, bettor.PublicKey(), admin.PublicKey(), 10)
	inv.InvokeFail(t, common.ErrCallerFailed, "joinBettorJudge", betID, admin.PublicKey())
	inv.InvokeFail(t, common.ErrCallerFailed, "bettorJudgeVote", betID, admin.PublicKey(), bettor.PublicKey())
	inv.InvokeFail(t, common.ErrCallerFailed, "solveDispute", betID, admin.PublicKey(), bettor.PublicKey())
	inv.InvokeFail(t, common.ErrCallerFailed, "withdraw", betID)
}

func TestUnknownBet(t *testing.T) {
	e := escrowtest.Deploy(t)
	inv := e.CommitteeInvoker(e.Bet)

	for _, method := range []string{"getBetStatus", "getWinner", "getState"} {
		_, err := inv.TestInvoke(t, method, []byte("missing"))
		require.ErrorContains(t, err, common.ErrBetNotFound, method)
	}
}

func TestSetMaster(t *testing.T) {
	e := escrowtest.Deploy(t)
	u := e.NewUser(t)

	e.NewInvoker(e.Bet, u).InvokeFail(t, common.ErrOwnerWitnessFailed, "setMaster", e.Account)

	inv := e.CommitteeInvoker(e.Bet)
	require.Equal(t, e.Master.BytesBE(), escrowtest.Bytes(t, inv, "master"))
	inv.InvokeFail(t, "invalid master address", "setMaster", []byte{1, 2, 3})
}
