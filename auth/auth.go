// Package auth builds and signs payloads of signature-authorized escrow
// operations.
//
// A payload is the NeoVM serialization of the array
//
//	[tag, contract address, args...]
//
// where tag names the operation and contract address is the script hash of
// the contract verifying the signature. The contracts hash the payload with
// SHA-256 and check secp256r1 ECDSA signature against the public key of the
// acting user, so Sign produces exactly what CryptoLib verifyWithECDsa
// expects.
package auth

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// Operation domain tags. They must match the ones used by the contracts.
const (
	TagIncreaseBalance        = "increase_balance"
	TagBettorJudgeVote        = "bettor_judge_vote"
	TagCounterBettorJudgeVote = "counter_bettor_judge_vote"
	TagSolveDispute           = "solve_dispute"
)

// SignatureLen is the length of the signature in bytes.
const SignatureLen = 64

// ErrInvalidSignature is returned by Verify when the signature does not
// match the payload.
var ErrInvalidSignature = errors.New("invalid signature")

// Payload returns the message authorizing operation tag with args on the
// contract. Supported argument types are []byte, string, int64, int and
// *big.Int.
func Payload(tag string, contract util.Uint160, args ...any) ([]byte, error) {
	items := make([]stackitem.Item, 0, 2+len(args))
	items = append(items,
		stackitem.NewByteArray([]byte(tag)),
		stackitem.NewByteArray(contract.BytesBE()))

	for i := range args {
		item, err := argToItem(args[i])
		if err != nil {
			return nil, fmt.Errorf("argument #%d: %w", i, err)
		}
		items = append(items, item)
	}

	data, err := stackitem.Serialize(stackitem.NewArray(items))
	if err != nil {
		return nil, fmt.Errorf("serialize payload: %w", err)
	}

	return data, nil
}

// Sign returns the signature of the payload made by key.
func Sign(key *keys.PrivateKey, tag string, contract util.Uint160, args ...any) ([]byte, error) {
	payload, err := Payload(tag, contract, args...)
	if err != nil {
		return nil, err
	}

	return key.Sign(payload), nil
}

// Verify checks that sig is a signature of the payload made by the owner of
// pub.
func Verify(pub *keys.PublicKey, sig []byte, tag string, contract util.Uint160, args ...any) error {
	if len(sig) != SignatureLen {
		return fmt.Errorf("%w: length %d instead of %d", ErrInvalidSignature, len(sig), SignatureLen)
	}

	payload, err := Payload(tag, contract, args...)
	if err != nil {
		return err
	}

	if !pub.Verify(sig, hash.Sha256(payload).BytesBE()) {
		return ErrInvalidSignature
	}

	return nil
}

// IncreaseBalance signs the balance credit of amount in Account contract.
func IncreaseBalance(key *keys.PrivateKey, account util.Uint160, amount int64) ([]byte, error) {
	return Sign(key, TagIncreaseBalance, account, amount)
}

// BettorJudgeVote signs the vote of the bettor judge in Master contract.
func BettorJudgeVote(key *keys.PrivateKey, master util.Uint160, betID []byte, candidate *keys.PublicKey) ([]byte, error) {
	return Sign(key, TagBettorJudgeVote, master, betID, candidate.Bytes())
}

// CounterBettorJudgeVote signs the vote of the counter bettor judge in
// Master contract.
func CounterBettorJudgeVote(key *keys.PrivateKey, master util.Uint160, betID []byte, candidate *keys.PublicKey) ([]byte, error) {
	return Sign(key, TagCounterBettorJudgeVote, master, betID, candidate.Bytes())
}

// SolveDispute signs the dispute resolution by the bet admin in Master
// contract.
func SolveDispute(key *keys.PrivateKey, master util.Uint160, betID []byte, winner *keys.PublicKey) ([]byte, error) {
	return Sign(key, TagSolveDispute, master, betID, winner.Bytes())
}

func argToItem(arg any) (stackitem.Item, error) {
	switch v := arg.(type) {
	case []byte:
		return stackitem.NewByteArray(v), nil
	case string:
		return stackitem.NewByteArray([]byte(v)), nil
	case int:
		return stackitem.NewBigInteger(big.NewInt(int64(v))), nil
	case int64:
		return stackitem.NewBigInteger(big.NewInt(v)), nil
	case *big.Int:
		return stackitem.NewBigInteger(v), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", arg)
	}
}
