package model

import (
	"fmt"
	"sync"
)

// AgentID is a weak, non-owning reference to an agent in the roster.
// It must be re-resolved and re-validated every time it is used.
type AgentID uint32

// Cooldowns holds the remaining time of every cooldown, in seconds.
type Cooldowns struct {
	QuickAttack  float64
	HeavyAttack  float64
	ChargeAttack float64
	Dodge        float64
}

// Attack returns the remaining cooldown of an attack type (0 for AttackNone).
func (c Cooldowns) Attack(t AttackType) float64 {
	switch t {
	case AttackQuick:
		return c.QuickAttack
	case AttackHeavy:
		return c.HeavyAttack
	case AttackCharge:
		return c.ChargeAttack
	default:
		return 0
	}
}

func (c *Cooldowns) advance(dt float64) {
	c.QuickAttack = countdown(c.QuickAttack, dt)
	c.HeavyAttack = countdown(c.HeavyAttack, dt)
	c.ChargeAttack = countdown(c.ChargeAttack, dt)
	c.Dodge = countdown(c.Dodge, dt)
}

// Vitals are the fields written by damage resolution.
// They are only mutated through Agent.Update, which serialises writers per agent.
type Vitals struct {
	Health          int32
	MaxHealth       int32
	State           State
	Invulnerability float64
	Stun            float64
	Dead            bool
}

// HealthRatio returns Health / MaxHealth in [0,1].
func (v Vitals) HealthRatio() float64 {
	if v.MaxHealth <= 0 {
		return 0
	}
	return float64(v.Health) / float64(v.MaxHealth)
}

// PatrolState is the wandering bookkeeping of an agent.
type PatrolState struct {
	Direction Vec2
	Timer     float64
	Pause     float64
}

// Expiry reports which countdowns reached zero during Advance.
type Expiry struct {
	StunEnded     bool
	RecoveryEnded bool
	FeintEnded    bool
}

// Agent is an autonomous combatant.
// Created with full health in StatePatrolling; health is clamped to [0, MaxHealth]
// and an agent at 0 health is dead for good.
type Agent struct {
	mu sync.RWMutex

	id        AgentID
	name      string
	archetype *Archetype

	position Vec2
	vitals   Vitals

	cooldowns     Cooldowns
	recovery      float64
	decisionTimer float64
	patrol        PatrolState
	feint         float64
	executing     AttackType

	stateTime [stateCount]float64
}

// NewAgent validates the archetype and creates an agent at pos.
func NewAgent(id AgentID, name string, archetype *Archetype, pos Vec2) (*Agent, error) {
	if archetype == nil {
		return nil, fmt.Errorf("%w: agent %q has no archetype", ErrInvalidConfiguration, name)
	}
	if err := archetype.Validate(); err != nil {
		return nil, fmt.Errorf("creating agent %q: %w", name, err)
	}

	return &Agent{
		id:        id,
		name:      name,
		archetype: archetype,
		position:  pos,
		vitals: Vitals{
			Health:    archetype.MaxHealth,
			MaxHealth: archetype.MaxHealth,
			State:     StatePatrolling,
		},
	}, nil
}

// ID returns the agent id.
func (a *Agent) ID() AgentID { return a.id }

// Name returns the agent name.
func (a *Agent) Name() string { return a.name }

// Archetype returns the shared stat table. Callers must not modify it.
func (a *Agent) Archetype() *Archetype { return a.archetype }

// Personality returns the archetype personality.
func (a *Agent) Personality() Personality { return a.archetype.Personality }

// Position returns the current position.
func (a *Agent) Position() Vec2 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.position
}

// SetPosition sets the position. Called by the movement executor.
func (a *Agent) SetPosition(p Vec2) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.position = p
}

// Vitals returns a copy of the damage-related fields.
func (a *Agent) Vitals() Vitals {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.vitals
}

// Health returns the current health.
func (a *Agent) Health() int32 {
	return a.Vitals().Health
}

// MaxHealth returns the maximum health.
func (a *Agent) MaxHealth() int32 {
	return a.archetype.MaxHealth
}

// HealthRatio returns current/max health.
func (a *Agent) HealthRatio() float64 {
	return a.Vitals().HealthRatio()
}

// IsDead reports whether the agent has died.
func (a *Agent) IsDead() bool {
	return a.Vitals().Dead
}

// State returns the behavioural state.
func (a *Agent) State() State {
	return a.Vitals().State
}

// Update runs fn with exclusive access to the vitals.
// Health is clamped to [0, MaxHealth] afterwards. Returns true exactly once:
// on the call that brought health to 0.
func (a *Agent) Update(fn func(v *Vitals)) (died bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.vitals.Dead {
		return false
	}

	fn(&a.vitals)

	a.vitals.MaxHealth = a.archetype.MaxHealth
	a.vitals.Health = min(max(a.vitals.Health, 0), a.vitals.MaxHealth)
	a.vitals.Invulnerability = max(a.vitals.Invulnerability, 0)
	a.vitals.Stun = max(a.vitals.Stun, 0)

	if a.vitals.Health == 0 {
		a.vitals.Dead = true
		a.executing = AttackNone
		return true
	}
	return false
}

// SetState switches the behavioural state. Dead agents keep their last state.
// Returns the previous state and whether it changed.
func (a *Agent) SetState(s State) (State, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.vitals.State
	if a.vitals.Dead || prev == s {
		return prev, false
	}
	a.vitals.State = s
	return prev, true
}

// StartRecovery locks the agent in StateRecovering for d seconds.
func (a *Agent) StartRecovery(d float64) (State, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.vitals.State
	if a.vitals.Dead {
		return prev, false
	}
	a.vitals.State = StateRecovering
	a.recovery = d
	return prev, prev != StateRecovering
}

// Recovery returns the remaining recovery time.
func (a *Agent) Recovery() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.recovery
}

// Cooldowns returns a copy of the cooldown table.
func (a *Agent) Cooldowns() Cooldowns {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cooldowns
}

// SetCooldowns replaces the cooldown table.
func (a *Agent) SetCooldowns(c Cooldowns) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cooldowns = c
}

// StartAttackCooldown starts the archetype cooldown of an attack type.
func (a *Agent) StartAttackCooldown(t AttackType) {
	d := a.archetype.AttackCooldown(t)

	a.mu.Lock()
	defer a.mu.Unlock()

	switch t {
	case AttackQuick:
		a.cooldowns.QuickAttack = d
	case AttackHeavy:
		a.cooldowns.HeavyAttack = d
	case AttackCharge:
		a.cooldowns.ChargeAttack = d
	}
}

// StartDodgeCooldown starts the archetype dodge cooldown.
func (a *Agent) StartDodgeCooldown() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cooldowns.Dodge = a.archetype.DodgeCooldown
}

// DecisionTimer returns the time left until the next cadence decision.
func (a *Agent) DecisionTimer() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.decisionTimer
}

// SetDecisionTimer sets the time left until the next cadence decision.
func (a *Agent) SetDecisionTimer(t float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.decisionTimer = t
}

// Patrol returns the patrol bookkeeping.
func (a *Agent) Patrol() PatrolState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.patrol
}

// SetPatrol replaces the patrol bookkeeping.
func (a *Agent) SetPatrol(p PatrolState) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.patrol = p
}

// Feint returns the remaining feint retreat time (0 when not feinting).
func (a *Agent) Feint() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.feint
}

// SetFeint starts or clears a feint retreat.
func (a *Agent) SetFeint(d float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.feint = max(d, 0)
}

// Executing returns the attack currently waiting for its reaction delay.
func (a *Agent) Executing() AttackType {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.executing
}

// SetExecuting marks an attack as in flight (AttackNone clears it).
func (a *Agent) SetExecuting(t AttackType) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.executing = t
}

// Advance runs every countdown forward by dt and accounts time spent in the current state.
func (a *Agent) Advance(dt float64) Expiry {
	a.mu.Lock()
	defer a.mu.Unlock()

	var exp Expiry
	if a.vitals.Dead || dt <= 0 {
		return exp
	}

	a.stateTime[a.vitals.State] += dt
	a.cooldowns.advance(dt)
	a.vitals.Invulnerability = countdown(a.vitals.Invulnerability, dt)

	if a.vitals.State == StateStunned {
		a.vitals.Stun = countdown(a.vitals.Stun, dt)
		exp.StunEnded = a.vitals.Stun == 0
	}
	if a.vitals.State == StateRecovering {
		a.recovery = countdown(a.recovery, dt)
		exp.RecoveryEnded = a.recovery == 0
	}
	if a.feint > 0 {
		a.feint = countdown(a.feint, dt)
		exp.FeintEnded = a.feint == 0
	}

	return exp
}

// StateTime returns the seconds spent in s so far.
func (a *Agent) StateTime(s State) float64 {
	if s < 0 || s >= stateCount {
		return 0
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stateTime[s]
}

// StateTimes returns the seconds spent per state.
func (a *Agent) StateTimes() map[State]float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[State]float64, stateCount)
	for s := StatePatrolling; s < stateCount; s++ {
		out[s] = a.stateTime[s]
	}
	return out
}

// Snapshot returns the read-only view other agents perceive during a tick.
func (a *Agent) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return Snapshot{
		ID:        a.id,
		Name:      a.name,
		Position:  a.position,
		Health:    a.vitals.Health,
		MaxHealth: a.vitals.MaxHealth,
		State:     a.vitals.State,
		Dead:      a.vitals.Dead,
	}
}

// Snapshot is an immutable copy of an agent taken at tick start.
type Snapshot struct {
	ID        AgentID
	Name      string
	Position  Vec2
	Health    int32
	MaxHealth int32
	State     State
	Dead      bool
}

// Alive reports whether the agent can be perceived or targeted.
func (s Snapshot) Alive() bool {
	return !s.Dead && s.Health > 0
}

// HealthRatio returns Health / MaxHealth.
func (s Snapshot) HealthRatio() float64 {
	if s.MaxHealth <= 0 {
		return 0
	}
	return float64(s.Health) / float64(s.MaxHealth)
}

func countdown(v, dt float64) float64 {
	v -= dt
	if v < 0 {
		return 0
	}
	return v
}
