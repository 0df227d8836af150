// Package betconst contains constants shared by Bet contract and its clients.
package betconst

// Bet states. Values are part of the contract interface.
const (
	// StateRoleAssignment is the state of a new bet waiting for counter
	// bettor and judges.
	StateRoleAssignment = 1
	// StateVoting is the state after all four roles are assigned.
	StateVoting = 2
	// StateDecided is the state after the winner is known.
	StateDecided = 3
	// StateWithdrawn is the terminal state, the pot is paid to the winner.
	StateWithdrawn = 4
	// StateDispute is the state after judges voted for different candidates.
	StateDispute = 5
)

// Roles of the bet participants as reported by RoleAssigned notification.
const (
	RoleBettor             = 1
	RoleCounterBettor      = 2
	RoleBettorJudge        = 3
	RoleCounterBettorJudge = 4
)

// MaxBetIDLength is the maximum length of the bet identifier in bytes.
const MaxBetIDLength = 64
