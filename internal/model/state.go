package model

// State is the behavioural state of an agent.
type State int32

const (
	// StatePatrolling - no target, wandering along axis directions
	StatePatrolling State = iota
	// StateChasing - closing distance to the target
	StateChasing
	// StateAttacking - in attack band, choosing and executing attacks
	StateAttacking
	// StateDefensive - keeping distance, dodging, blocking, feinting
	StateDefensive
	// StateRecovering - locked after a heavy or charge attack
	StateRecovering
	// StateStunned - locked after a stunning hit
	StateStunned

	stateCount
)

// String returns human-readable state name
func (s State) String() string {
	switch s {
	case StatePatrolling:
		return "PATROLLING"
	case StateChasing:
		return "CHASING"
	case StateAttacking:
		return "ATTACKING"
	case StateDefensive:
		return "DEFENSIVE"
	case StateRecovering:
		return "RECOVERING"
	case StateStunned:
		return "STUNNED"
	default:
		return "UNKNOWN"
	}
}

// IsLocked reports whether the state suppresses cadence decisions and movement.
func (s State) IsLocked() bool {
	return s == StateRecovering || s == StateStunned
}

// States lists all states in declaration order.
func States() []State {
	out := make([]State, 0, stateCount)
	for s := StatePatrolling; s < stateCount; s++ {
		out = append(out, s)
	}
	return out
}

// AttackType identifies an attack variant.
type AttackType int32

const (
	AttackNone AttackType = iota
	AttackQuick
	AttackHeavy
	AttackCharge
)

// String returns human-readable attack name
func (t AttackType) String() string {
	switch t {
	case AttackNone:
		return "NONE"
	case AttackQuick:
		return "QUICK"
	case AttackHeavy:
		return "HEAVY"
	case AttackCharge:
		return "CHARGE"
	default:
		return "UNKNOWN"
	}
}

// AttackAttempt is a scheduled attack waiting for its reaction delay.
// Ephemeral: created by the combat resolver, never persisted.
type AttackAttempt struct {
	Type          AttackType
	Damage        int32
	ReactionDelay float64
	Source        AgentID
	Target        AgentID
	// Riposte marks a free counter attack; it never starts recovery.
	Riposte bool
}
