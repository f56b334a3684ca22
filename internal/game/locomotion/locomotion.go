// Package locomotion turns a behavioural state into a movement request.
// It never moves anything itself: the movement executor applies the Intent
// and resolves collisions.
package locomotion

import (
	"github.com/udisondev/arenaai/internal/model"
	"github.com/udisondev/arenaai/internal/rng"
)

const (
	attackCloseFactor   = 1.2
	defensiveRetreat    = 0.8
	defensiveApproach   = 0.5
	defensiveBand       = 1.0
	dodgeTriggerFactor  = 0.5
	dodgeMaxAngle       = 90.0
	approachMaxDrift    = 45.0
	maxPatrolRejections = 16
)

// Intent is the movement requested for one tick.
type Intent struct {
	// Velocity in units per second, applied over the tick.
	Velocity model.Vec2
	// Displacement is an instantaneous reposition (dodge), applied once.
	Displacement model.Vec2

	Dodged       bool
	Feint        bool
	Flanking     bool
	PatrolTurned bool
}

// IsZero reports whether the intent requests no movement at all.
func (i Intent) IsZero() bool {
	return i.Velocity.IsZero() && i.Displacement.IsZero()
}

// Situation is what the agent perceives this tick.
type Situation struct {
	Target    model.Snapshot
	HasTarget bool
	Allies    int
}

// Plan computes the intent for the agent's current state.
// Runs every tick regardless of the decision cadence.
func Plan(a *model.Agent, sit Situation, src rng.Source, dt float64) Intent {
	switch a.State() {
	case model.StatePatrolling:
		return Patrol(a, src, dt)
	case model.StateChasing:
		if !sit.HasTarget {
			return Intent{}
		}
		return Chase(a, sit.Target, sit.Allies, src, dt)
	case model.StateAttacking:
		if !sit.HasTarget {
			return Intent{}
		}
		return Close(a, sit.Target, dt)
	case model.StateDefensive:
		if !sit.HasTarget {
			return Intent{}
		}
		return Defend(a, sit.Target, src)
	default:
		// Recovering and Stunned hold still while their countdowns run.
		return Intent{}
	}
}

// Patrol walks along the patrol direction and turns every patrol_change_interval.
func Patrol(a *model.Agent, src rng.Source, dt float64) Intent {
	arch := a.Archetype()
	p := a.Patrol()

	if p.Pause > 0 {
		p.Pause = max(p.Pause-dt, 0)
		a.SetPatrol(p)
		return Intent{}
	}

	var intent Intent
	if p.Direction.IsZero() {
		p.Direction = NextPatrolDirection(p.Direction, src)
		p.Timer = arch.PatrolChangeInterval
		intent.PatrolTurned = true
	}

	intent.Velocity = p.Direction.Scale(arch.PatrolSpeed)

	p.Timer -= dt
	if p.Timer <= 0 {
		p.Direction = NextPatrolDirection(p.Direction, src)
		p.Timer = arch.PatrolChangeInterval
		p.Pause = arch.PatrolPauseDuration
		intent.PatrolTurned = true
	}

	a.SetPatrol(p)
	return intent
}

// NextPatrolDirection picks an axis direction uniformly, never repeating prev.
func NextPatrolDirection(prev model.Vec2, src rng.Source) model.Vec2 {
	for range maxPatrolRejections {
		d := model.AxisDirections[src.IntN(len(model.AxisDirections))]
		if d != prev {
			return d
		}
	}

	// A degenerate source kept rolling prev: take the next direction in order.
	for i, d := range model.AxisDirections {
		if d == prev {
			return model.AxisDirections[(i+1)%len(model.AxisDirections)]
		}
	}
	return model.AxisDirections[0]
}

// Chase moves toward the target. With allies around, a coordination roll
// swings the approach by ±flank_angle so escorts close in from the sides.
func Chase(a *model.Agent, target model.Snapshot, allies int, src rng.Source, dt float64) Intent {
	arch := a.Archetype()
	pos := a.Position()

	var intent Intent
	intent.Velocity = approach(pos, target.Position, StrikeDistance(arch), arch.MoveSpeed, dt)
	if allies > 0 && src.Float64() < arch.Personality.Coordination {
		intent.Velocity = intent.Velocity.Rotate(rng.CoinFlip(src) * arch.FlankAngle)
		intent.Flanking = true
	}
	return intent
}

// Close shortens the remaining distance while no attack is executing.
// Movement is suppressed during an attack's reaction delay.
func Close(a *model.Agent, target model.Snapshot, dt float64) Intent {
	if a.Executing() != model.AttackNone {
		return Intent{}
	}

	arch := a.Archetype()
	v := approach(a.Position(), target.Position, StrikeDistance(arch), arch.MoveSpeed*attackCloseFactor, dt)
	return Intent{Velocity: v}
}

// StrikeDistance is where approaching agents stop: the middle of the attack band.
func StrikeDistance(arch *model.Archetype) float64 {
	return (arch.MinAttackRange + arch.AttackRange) / 2
}

// approach moves toward (or away from) to until the gap equals stop,
// never covering more than the gap within one tick.
func approach(from, to model.Vec2, stop, speed, dt float64) model.Vec2 {
	dir := from.DirectionTo(to)
	if dir.IsZero() {
		dir = model.Left
	}

	gap := from.DistanceTo(to) - stop
	if gap < 0 {
		dir = dir.Scale(-1)
		gap = -gap
	}
	if dt > 0 {
		speed = min(speed, gap/dt)
	}
	return dir.Scale(speed)
}

// Defend keeps the agent around safe_distance, dodging and feinting on tactical rolls.
func Defend(a *model.Agent, target model.Snapshot, src rng.Source) Intent {
	arch := a.Archetype()
	pers := arch.Personality
	pos := a.Position()
	dist := pos.DistanceTo(target.Position)

	away := target.Position.DirectionTo(pos)
	if away.IsZero() {
		away = model.Right
	}

	// A running feint keeps retreating until the brain checks the follow-up.
	if a.Feint() > 0 {
		return Intent{Velocity: away.Scale(arch.MoveSpeed)}
	}

	if dist < arch.SafeDistance*dodgeTriggerFactor &&
		a.Cooldowns().Dodge <= 0 &&
		src.Float64() < pers.Tactical {
		angle := rng.Between(src, -dodgeMaxAngle, dodgeMaxAngle)
		a.StartDodgeCooldown()
		return Intent{
			Displacement: away.Rotate(angle).Scale(arch.DodgeDistance),
			Dodged:       true,
		}
	}

	if src.Float64() < arch.FeintChance*pers.Tactical {
		a.SetFeint(arch.FeintDelay)
		return Intent{Velocity: away.Scale(arch.MoveSpeed), Feint: true}
	}

	switch {
	case dist < arch.SafeDistance:
		return Intent{Velocity: away.Scale(arch.MoveSpeed * defensiveRetreat)}
	case dist > arch.SafeDistance+defensiveBand:
		toward := away.Scale(-1).Rotate(rng.Between(src, -approachMaxDrift, approachMaxDrift))
		return Intent{Velocity: toward.Scale(arch.MoveSpeed * defensiveApproach)}
	default:
		return Intent{}
	}
}
