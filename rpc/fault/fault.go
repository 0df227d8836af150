// Package fault maps FAULT exceptions of escrow contracts to Go errors.
//
// Contracts panic with messages starting with one of the failure kind
// prefixes declared in the common package. Any returned error matches
// exactly one of the package sentinels with errors.Is, exceptions without
// a known prefix match ErrFault only.
package fault

import (
	"errors"
	"fmt"
	"strings"

	"github.com/IBetYou/ibetyou-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
)

// Failure kinds.
var (
	ErrInvalidTransition   = errors.New(common.ErrInvalidTransition)
	ErrUnauthorized        = errors.New(common.ErrUnauthorized)
	ErrRoleConflict        = errors.New(common.ErrRoleConflict)
	ErrInsufficientBalance = errors.New(common.ErrInsufficientBalance)
	ErrInvalidSignature    = errors.New(common.ErrInvalidSignature)

	// ErrFault is returned for exceptions of unknown kind.
	ErrFault = errors.New("contract execution failed")

	// Details of ErrInvalidTransition.
	ErrBetNotFound   = errors.New(common.ErrBetNotFound)
	ErrBetExists     = errors.New(common.ErrBetExists)
	ErrAlreadyVoted  = errors.New(common.ErrAlreadyVoted)
	ErrInvalidAmount = errors.New(common.ErrInvalidAmount)
)

var kinds = []error{
	ErrInvalidTransition,
	ErrUnauthorized,
	ErrRoleConflict,
	ErrInsufficientBalance,
	ErrInvalidSignature,
}

var details = []error{
	ErrBetNotFound,
	ErrBetExists,
	ErrAlreadyVoted,
	ErrInvalidAmount,
}

// Error is a contract failure.
type Error struct {
	kind      error
	detail    error
	exception string
}

// Error implements error interface.
func (e *Error) Error() string {
	if e.kind == ErrFault {
		return fmt.Sprintf("%s: %s", ErrFault, e.exception)
	}
	return e.exception
}

// Unwrap returns the failure kind and the detailed reason if it is known.
func (e *Error) Unwrap() []error {
	if e.detail != nil {
		return []error{e.kind, e.detail}
	}
	return []error{e.kind}
}

// Exception returns the original exception message.
func (e *Error) Exception() string {
	return e.exception
}

// FromException classifies the FAULT exception message. The VM wraps
// panic message into its own text, so the kind prefix is searched in the
// whole exception.
func FromException(exception string) error {
	msg := strings.TrimSpace(exception)
	for _, kind := range kinds {
		if !strings.Contains(msg, kind.Error()) {
			continue
		}

		res := &Error{kind: kind, exception: msg}
		for _, detail := range details {
			if strings.Contains(msg, detail.Error()) {
				res.detail = detail
				break
			}
		}
		return res
	}

	return &Error{kind: ErrFault, exception: msg}
}

// Classify converts an error returned by RPC client into *Error if its
// text carries the contract exception. Other errors are returned as is.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	var fe *Error
	if errors.As(err, &fe) {
		return err
	}

	res := FromException(err.Error())
	if errors.Is(res, ErrFault) {
		return err
	}

	return fmt.Errorf("%w: %w", res, err)
}

// CheckInvoke returns an error if the test invocation has not finished in
// HALT state.
func CheckInvoke(res *result.Invoke) error {
	if res == nil {
		return errors.New("nil invocation result")
	}
	if res.State == vmstate.Halt.String() {
		return nil
	}

	return FromException(res.FaultException)
}

// CheckExecution returns an error if the persisted transaction has not
// finished in HALT state.
func CheckExecution(res *state.AppExecResult) error {
	if res == nil {
		return errors.New("nil execution result")
	}
	if res.VMState == vmstate.Halt {
		return nil
	}

	return FromException(res.FaultException)
}

// Kind returns the name of the failure kind of err suitable for a metric
// label. Nil error results in "ok".
func Kind(err error) string {
	if err == nil {
		return "ok"
	}

	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return strings.ReplaceAll(kind.Error(), " ", "_")
		}
	}

	return "other"
}
