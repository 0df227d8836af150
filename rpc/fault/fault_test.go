package fault

import (
	"errors"
	"fmt"
	"testing"

	"github.com/IBetYou/ibetyou-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/stretchr/testify/require"
)

func TestFromException(t *testing.T) {
	testCases := []struct {
		exception string
		kind      error
	}{
		{common.ErrBetNotFound, ErrInvalidTransition},
		{common.ErrAlreadyVoted, ErrInvalidTransition},
		{common.ErrWitnessFailed, ErrUnauthorized},
		{common.ErrInvalidKey, ErrUnauthorized},
		{common.ErrRoleConflict + ": role is already assigned", ErrRoleConflict},
		{common.ErrInsufficientBalance + ": 5 < 10", ErrInsufficientBalance},
		{common.ErrInvalidSignature + ": wrong length", ErrInvalidSignature},
		{`at instruction 120 (THROW): unhandled exception: "invalid transition: bet is in state 1, expected 2"`, ErrInvalidTransition},
	}

	for _, tc := range testCases {
		t.Run(tc.exception, func(t *testing.T) {
			err := FromException(tc.exception)
			require.ErrorIs(t, err, tc.kind)
			require.NotErrorIs(t, err, ErrFault)
			require.Equal(t, tc.exception, err.Error())

			var fe *Error
			require.True(t, errors.As(err, &fe))
			require.Equal(t, tc.exception, fe.Exception())
		})
	}

	t.Run("unknown", func(t *testing.T) {
		err := FromException("gas limit exceeded")
		require.ErrorIs(t, err, ErrFault)
		for _, kind := range kinds {
			require.NotErrorIs(t, err, kind)
		}
		require.Contains(t, err.Error(), "gas limit exceeded")
	})
}

func TestDetails(t *testing.T) {
	err := FromException(common.ErrBetNotFound)
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.ErrorIs(t, err, ErrBetNotFound)
	require.NotErrorIs(t, err, ErrInvalidAmount)

	err = FromException(common.ErrInvalidAmount + ": expected 10")
	require.ErrorIs(t, err, ErrInvalidTransition)
	require.ErrorIs(t, err, ErrInvalidAmount)

	err = FromException(common.ErrInvalidCandidate)
	require.ErrorIs(t, err, ErrInvalidTransition)
	for _, detail := range details {
		require.NotErrorIs(t, err, detail)
	}
}

func TestClassify(t *testing.T) {
	require.NoError(t, Classify(nil))

	plain := errors.New("connection refused")
	require.Equal(t, plain, Classify(plain))

	rpcErr := errors.New("invocation failed: at instruction 10 (THROW): unhandled exception: \"role conflict: role is already assigned\"")
	err := Classify(rpcErr)
	require.ErrorIs(t, err, ErrRoleConflict)
	require.ErrorIs(t, err, rpcErr)

	require.Equal(t, err, Classify(err))
}

func TestCheckInvoke(t *testing.T) {
	require.NoError(t, CheckInvoke(&result.Invoke{State: vmstate.Halt.String()}))

	err := CheckInvoke(&result.Invoke{
		State:          vmstate.Fault.String(),
		FaultException: common.ErrOwnerWitnessFailed,
	})
	require.ErrorIs(t, err, ErrUnauthorized)

	require.Error(t, CheckInvoke(nil))
}

func TestCheckExecution(t *testing.T) {
	res := &state.AppExecResult{Execution: state.Execution{VMState: vmstate.Halt}}
	require.NoError(t, CheckExecution(res))

	res.VMState = vmstate.Fault
	res.FaultException = common.ErrInsufficientBalance + ": 0 < 10"
	require.ErrorIs(t, CheckExecution(res), ErrInsufficientBalance)

	require.Error(t, CheckExecution(nil))
}

func TestKind(t *testing.T) {
	require.Equal(t, "ok", Kind(nil))
	require.Equal(t, "role_conflict", Kind(FromException(common.ErrRoleConflict)))
	require.Equal(t, "insufficient_balance", Kind(fmt.Errorf("create bet: %w",
		FromException(common.ErrInsufficientBalance))))
	require.Equal(t, "other", Kind(FromException("boom")))
	require.Equal(t, "other", Kind(errors.New("connection refused")))
}
