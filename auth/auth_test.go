package auth_test

import (
	"math/big"
	"testing"

	"github.com/IBetYou/ibetyou-contract/auth"
	"github.com/IBetYou/ibetyou-contract/contracts/account"
	"github.com/IBetYou/ibetyou-contract/contracts/master"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

func TestTagsMatchContracts(t *testing.T) {
	require.Equal(t, account.IncreaseBalanceTag, auth.TagIncreaseBalance)
	require.Equal(t, master.BettorJudgeVoteTag, auth.TagBettorJudgeVote)
	require.Equal(t, master.CounterBettorJudgeVoteTag, auth.TagCounterBettorJudgeVote)
	require.Equal(t, master.SolveDisputeTag, auth.TagSolveDispute)
}

func TestPayload(t *testing.T) {
	contract := util.Uint160{1, 2, 3}

	data, err := auth.Payload(auth.TagIncreaseBalance, contract, int64(10))
	require.NoError(t, err)

	item, err := stackitem.Deserialize(data)
	require.NoError(t, err)

	arr, ok := item.Value().([]stackitem.Item)
	require.True(t, ok)
	require.Len(t, arr, 3)

	tag, err := arr[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, auth.TagIncreaseBalance, string(tag))

	addr, err := arr[1].TryBytes()
	require.NoError(t, err)
	require.Equal(t, contract.BytesBE(), addr)

	amount, err := arr[2].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 10, amount.Int64())

	t.Run("integer kinds are equivalent", func(t *testing.T) {
		fromInt, err := auth.Payload(auth.TagIncreaseBalance, contract, 10)
		require.NoError(t, err)
		fromBig, err := auth.Payload(auth.TagIncreaseBalance, contract, big.NewInt(10))
		require.NoError(t, err)

		require.Equal(t, data, fromInt)
		require.Equal(t, data, fromBig)
	})

	t.Run("bound to contract", func(t *testing.T) {
		other, err := auth.Payload(auth.TagIncreaseBalance, util.Uint160{4}, int64(10))
		require.NoError(t, err)
		require.NotEqual(t, data, other)
	})

	t.Run("unsupported argument", func(t *testing.T) {
		_, err := auth.Payload(auth.TagIncreaseBalance, contract, 1.5)
		require.ErrorContains(t, err, "argument #0")
	})
}

func TestSignVerify(t *testing.T) {
	judge, err := keys.NewPrivateKey()
	require.NoError(t, err)
	candidate, err := keys.NewPrivateKey()
	require.NoError(t, err)

	contract := util.Uint160{0xAA}
	betID := []byte("bet-1")

	sig, err := auth.BettorJudgeVote(judge, contract, betID, candidate.PublicKey())
	require.NoError(t, err)
	require.Len(t, sig, auth.SignatureLen)

	require.NoError(t, auth.Verify(judge.PublicKey(), sig,
		auth.TagBettorJudgeVote, contract, betID, candidate.PublicKey().Bytes()))

	t.Run("another tag", func(t *testing.T) {
		err := auth.Verify(judge.PublicKey(), sig,
			auth.TagCounterBettorJudgeVote, contract, betID, candidate.PublicKey().Bytes())
		require.ErrorIs(t, err, auth.ErrInvalidSignature)
	})

	t.Run("another signer", func(t *testing.T) {
		err := auth.Verify(candidate.PublicKey(), sig,
			auth.TagBettorJudgeVote, contract, betID, candidate.PublicKey().Bytes())
		require.ErrorIs(t, err, auth.ErrInvalidSignature)
	})

	t.Run("another bet", func(t *testing.T) {
		err := auth.Verify(judge.PublicKey(), sig,
			auth.TagBettorJudgeVote, contract, []byte("bet-2"), candidate.PublicKey().Bytes())
		require.ErrorIs(t, err, auth.ErrInvalidSignature)
	})

	t.Run("wrong length", func(t *testing.T) {
		err := auth.Verify(judge.PublicKey(), sig[1:],
			auth.TagBettorJudgeVote, contract, betID, candidate.PublicKey().Bytes())
		require.ErrorIs(t, err, auth.ErrInvalidSignature)
	})
}

func TestIncreaseBalance(t *testing.T) {
	user, err := keys.NewPrivateKey()
	require.NoError(t, err)

	contract := util.Uint160{0xBB}

	sig, err := auth.IncreaseBalance(user, contract, 100)
	require.NoError(t, err)

	require.NoError(t, auth.Verify(user.PublicKey(), sig, auth.TagIncreaseBalance, contract, int64(100)))
	require.ErrorIs(t, auth.Verify(user.PublicKey(), sig, auth.TagIncreaseBalance, contract, int64(101)),
		auth.ErrInvalidSignature)
}
