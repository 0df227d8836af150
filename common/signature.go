package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
)

// SignedPayload returns the message a user signs to authorize operation tag
// with the given arguments on the executing contract. The layout is the
// serialized array [tag, executing script hash, args...].
//
// Payload has no nonce, so a signature stays valid for the same arguments.
func SignedPayload(tag string, args []any) []byte {
	items := []any{tag, runtime.GetExecutingScriptHash()}
	for i := range args {
		items = append(items, args[i])
	}

	return std.Serialize(items)
}

// CheckSignature verifies secp256r1 signature of SignedPayload(tag, args)
// made by key. It panics with ErrInvalidSignature message on fail.
func CheckSignature(key interop.PublicKey, sig interop.Signature, tag string, args []any) {
	CheckUserKey(key)

	if len(sig) != interop.SignatureLen {
		panic(ErrInvalidSignature + ": wrong length")
	}

	if !crypto.VerifyWithECDsa(SignedPayload(tag, args), key, sig, crypto.Secp256r1) {
		panic(ErrInvalidSignature)
	}
}
