package bet

import (
	"math/big"

	"github.com/IBetYou/ibetyou-contract/contracts/bet/betconst"
)

// Possible bet states in [Status].
var (
	// StateRoleAssignment is used by bets waiting for participants.
	StateRoleAssignment = big.NewInt(betconst.StateRoleAssignment)

	// StateVoting is used by bets with all roles assigned.
	StateVoting = big.NewInt(betconst.StateVoting)

	// StateDecided is used by bets with a known winner.
	StateDecided = big.NewInt(betconst.StateDecided)

	// StateWithdrawn is used by finished bets.
	StateWithdrawn = big.NewInt(betconst.StateWithdrawn)

	// StateDispute is used by bets waiting for the admin decision.
	StateDispute = big.NewInt(betconst.StateDispute)
)

// StateName returns human readable name of the bet state code.
func StateName(state int64) string {
	switch state {
	case betconst.StateRoleAssignment:
		return "role_assignment"
	case betconst.StateVoting:
		return "voting"
	case betconst.StateDecided:
		return "decided"
	case betconst.StateWithdrawn:
		return "withdrawn"
	case betconst.StateDispute:
		return "dispute"
	default:
		return "unknown"
	}
}

// RoleName returns human readable name of the role code from
// [RoleAssignedEvent].
func RoleName(role int64) string {
	switch role {
	case betconst.RoleBettor:
		return "bettor"
	case betconst.RoleCounterBettor:
		return "counter_bettor"
	case betconst.RoleBettorJudge:
		return "bettor_judge"
	case betconst.RoleCounterBettorJudge:
		return "counter_bettor_judge"
	default:
		return "unknown"
	}
}
