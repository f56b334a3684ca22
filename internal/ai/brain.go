package ai

import (
	"log/slog"
	"sync/atomic"

	"github.com/udisondev/arenaai/internal/event"
	"github.com/udisondev/arenaai/internal/game/combat"
	"github.com/udisondev/arenaai/internal/game/locomotion"
	"github.com/udisondev/arenaai/internal/game/perception"
	"github.com/udisondev/arenaai/internal/model"
	"github.com/udisondev/arenaai/internal/rng"
)

// Order is an attack the brain wants executed this tick.
type Order struct {
	Attack model.AttackType
	Target model.Snapshot
}

// Plan is the output of one think phase, applied by the Simulation in the commit phase.
type Plan struct {
	Intent locomotion.Intent
	Order  Order
	Events []event.Event
}

// Brain drives one agent: countdowns, forced transitions, the decision
// cadence, movement intents and attack choice.
// State machine: PATROLLING → CHASING/ATTACKING/DEFENSIVE, with RECOVERING and
// STUNNED entered by combat and left through forced transitions.
type Brain struct {
	agent     *model.Agent
	src       rng.Source
	obstacles perception.Obstruction
	isRunning atomic.Bool

	// target is a weak reference, re-validated against the view every tick.
	target atomic.Uint32
}

// NewBrain creates a brain for agent. obstacles may be nil (open arena).
func NewBrain(agent *model.Agent, src rng.Source, obstacles perception.Obstruction) *Brain {
	return &Brain{
		agent:     agent,
		src:       src,
		obstacles: obstacles,
	}
}

// Start starts the brain. The first Think decides immediately.
func (b *Brain) Start() {
	b.isRunning.Store(true)
	b.agent.SetDecisionTimer(0)

	if IsDebugEnabled() {
		slog.Debug("brain started",
			"agent", b.agent.Name(),
			"agentID", b.agent.ID(),
			"archetype", b.agent.Archetype().Name)
	}
}

// Stop stops the brain and drops its target.
func (b *Brain) Stop() {
	b.isRunning.Store(false)
	b.target.Store(0)

	if IsDebugEnabled() {
		slog.Debug("brain stopped",
			"agent", b.agent.Name(),
			"agentID", b.agent.ID())
	}
}

// Agent returns the controlled agent.
func (b *Brain) Agent() *model.Agent {
	return b.agent
}

// Target returns the current target id (0 when none).
func (b *Brain) Target() model.AgentID {
	return model.AgentID(b.target.Load())
}

// thought carries per-tick scratch state through the think helpers.
type thought struct {
	now    float64
	dt     float64
	view   []model.Snapshot
	self   model.Snapshot
	events []event.Event
}

func (t *thought) emit(e event.Event) {
	e.Time = t.now
	if e.Agent == 0 {
		e.Agent = t.self.ID
	}
	if e.Position.IsZero() {
		e.Position = t.self.Position
	}
	t.events = append(t.events, e)
}

// Think runs the think phase for one tick.
func (b *Brain) Think(now, dt float64, view []model.Snapshot) Plan {
	a := b.agent
	if !b.isRunning.Load() || a.IsDead() {
		return Plan{}
	}

	t := &thought{now: now, dt: dt, view: view}
	exp := a.Advance(dt)
	t.self = a.Snapshot()

	target, hasTarget := b.validateTarget(t)

	// Forced transitions bypass the cadence.
	due := false
	switch {
	case exp.StunEnded:
		b.setState(t, model.StateDefensive)
		due = true
	case exp.RecoveryEnded:
		due = true
	}

	if due || !a.State().IsLocked() {
		timer := a.DecisionTimer() - dt
		if due || timer <= 0 {
			target, hasTarget = b.decide(t)
			timer = a.Archetype().DecisionInterval
		}
		a.SetDecisionTimer(timer)
	}

	if exp.FeintEnded {
		b.feintFollowUp(t, target, hasTarget)
	}

	plan := Plan{Intent: b.move(t, target, hasTarget)}
	plan.Order = b.chooseAttack(target, hasTarget)
	plan.Events = t.events
	return plan
}

// validateTarget re-resolves the weak target reference against the view.
// A dead, vanished or out-of-detection target is dropped and the agent falls
// back to patrolling.
func (b *Brain) validateTarget(t *thought) (model.Snapshot, bool) {
	id := model.AgentID(b.target.Load())
	if id == 0 {
		return model.Snapshot{}, false
	}

	snap, alive := perception.Lookup(t.view, id)
	if alive && t.self.Position.DistanceTo(snap.Position) < b.agent.Archetype().DetectionRange {
		return snap, true
	}

	b.target.Store(0)
	t.emit(event.Event{Kind: event.KindTargetLost, Other: id})

	if IsDebugEnabled() {
		slog.Debug("brain lost target",
			"agent", b.agent.Name(),
			"agentID", b.agent.ID(),
			"targetID", id,
			"alive", alive)
	}

	if !b.agent.State().IsLocked() {
		b.setState(t, model.StatePatrolling)
	}
	return model.Snapshot{}, false
}

// decide re-acquires the target and evaluates the state model once.
func (b *Brain) decide(t *thought) (model.Snapshot, bool) {
	a := b.agent
	arch := a.Archetype()

	target, ok := perception.FindTarget(t.self, t.view, arch.DetectionRange)
	as := Assessment{HasTarget: ok, HealthRatio: a.HealthRatio()}
	if ok {
		b.target.Store(uint32(target.ID))
		as.TargetHealthRatio = target.HealthRatio()
		as.Distance = t.self.Position.DistanceTo(target.Position)
		as.Allies = perception.CountNearby(t.self, t.view, arch.AllyDetectionRange)
		as.Obstructed = perception.IsBlocked(b.obstacles, t.self.Position, target.Position, as.Distance)
	} else {
		b.target.Store(0)
	}

	next := Decide(arch, as, b.src)
	b.setState(t, next)

	if IsDebugEnabled() {
		slog.Debug("brain decided",
			"agent", a.Name(),
			"agentID", a.ID(),
			"targetID", target.ID,
			"distance", as.Distance,
			"healthRatio", as.HealthRatio,
			"allies", as.Allies,
			"obstructed", as.Obstructed,
			"state", next)
	}
	return target, ok
}

// feintFollowUp turns a finished feint into an attack when the target is
// still within reach and an aggression roll succeeds. Only an agent still
// Defensive follows up; a same-tick decision away from Defensive wins.
func (b *Brain) feintFollowUp(t *thought, target model.Snapshot, hasTarget bool) {
	a := b.agent
	if !hasTarget || a.State() != model.StateDefensive {
		return
	}

	arch := a.Archetype()
	if t.self.Position.DistanceTo(target.Position) > arch.AttackRange {
		return
	}
	if b.src.Float64() < arch.Personality.Aggression {
		b.setState(t, model.StateAttacking)
	}
}

func (b *Brain) move(t *thought, target model.Snapshot, hasTarget bool) locomotion.Intent {
	sit := locomotion.Situation{Target: target, HasTarget: hasTarget}
	if hasTarget {
		sit.Allies = perception.CountNearby(t.self, t.view, b.agent.Archetype().AllyDetectionRange)
	}

	intent := locomotion.Plan(b.agent, sit, b.src, t.dt)
	if intent.Dodged {
		t.emit(event.Event{Kind: event.KindDodged, Other: target.ID})
	}
	if intent.Feint {
		t.emit(event.Event{Kind: event.KindFeint, Other: target.ID})
	}
	return intent
}

func (b *Brain) chooseAttack(target model.Snapshot, hasTarget bool) Order {
	a := b.agent
	if !hasTarget || a.State() != model.StateAttacking || a.Executing() != model.AttackNone {
		return Order{}
	}

	dist := a.Position().DistanceTo(target.Position)
	if dist > a.Archetype().AttackRange {
		return Order{}
	}

	t := combat.ChooseAttack(a, dist, b.src)
	if t == model.AttackNone {
		return Order{}
	}
	return Order{Attack: t, Target: target}
}

func (b *Brain) setState(t *thought, s model.State) {
	prev, changed := b.agent.SetState(s)
	if !changed {
		return
	}
	if prev == model.StateDefensive {
		b.agent.SetFeint(0)
	}
	t.emit(event.Event{Kind: event.KindStateChanged, From: prev, To: s})
}
