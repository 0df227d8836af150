package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

var (
	// ErrOwnerWitnessFailed appears when the method must be called
	// by the contract owner but was not.
	ErrOwnerWitnessFailed = ErrUnauthorized + ": owner witness check failed"
	// ErrWitnessFailed appears when the method must be called
	// using certain public key but was not.
	ErrWitnessFailed = ErrUnauthorized + ": witness check failed"
	// ErrCallerFailed appears when the method must be invoked from
	// a particular contract but was not.
	ErrCallerFailed = ErrUnauthorized + ": calling contract check failed"
)

// CheckOwnerWitness checks witness of the contract owner.
// It panics with ErrOwnerWitnessFailed message on fail.
func CheckOwnerWitness(owner []byte) {
	checkWitnessWithPanic(owner, ErrOwnerWitnessFailed)
}

// CheckWitness checks witness of the passed caller.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(caller []byte) {
	checkWitnessWithPanic(caller, ErrWitnessFailed)
}

// CheckCallingContract panics with ErrCallerFailed if the current method
// was not called by the contract with the given hash.
func CheckCallingContract(expected interop.Hash160) {
	if expected == nil || !runtime.GetCallingScriptHash().Equals(expected) {
		panic(ErrCallerFailed)
	}
}

// CheckUserKey panics if key is not a compressed public key.
func CheckUserKey(key interop.PublicKey) {
	if len(key) != interop.PublicKeyCompressedLen {
		panic(ErrInvalidKey)
	}
}

func checkWitnessWithPanic(caller []byte, panicMsg string) {
	if !runtime.CheckWitness(caller) {
		panic(panicMsg)
	}
}
