package common

// Failure messages of the escrow contracts. Every message starts with one of
// the five kind prefixes, so off-chain code can classify a FAULT by its
// exception text.
const (
	// ErrInvalidTransition is thrown when an operation is not allowed in the
	// current state of the bet.
	ErrInvalidTransition = "invalid transition"
	// ErrUnauthorized is thrown when the caller lacks the required identity.
	ErrUnauthorized = "unauthorized"
	// ErrRoleConflict is thrown when a role slot is taken or the user
	// already plays another role in the bet.
	ErrRoleConflict = "role conflict"
	// ErrInsufficientBalance is thrown when a debit exceeds the balance.
	ErrInsufficientBalance = "insufficient balance"
	// ErrInvalidSignature is thrown when a signed call carries a bad signature.
	ErrInvalidSignature = "invalid signature"

	ErrBetNotFound      = ErrInvalidTransition + ": bet not found"
	ErrBetExists        = ErrInvalidTransition + ": bet already exists"
	ErrAlreadyVoted     = ErrInvalidTransition + ": judge has already voted"
	ErrInvalidAmount    = ErrInvalidTransition + ": invalid amount"
	ErrInvalidBetID     = ErrInvalidTransition + ": invalid bet id"
	ErrInvalidCandidate = ErrInvalidTransition + ": invalid candidate"
	ErrInvalidKey       = ErrUnauthorized + ": invalid public key"
)
