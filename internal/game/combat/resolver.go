// Package combat arbitrates attacks and resolves their delayed effects.
package combat

import (
	"log/slog"

	"github.com/udisondev/arenaai/internal/event"
	"github.com/udisondev/arenaai/internal/model"
	"github.com/udisondev/arenaai/internal/rng"
	"github.com/udisondev/arenaai/internal/timer"
)

// Lookup resolves an agent id against the live roster.
type Lookup func(id model.AgentID) (*model.Agent, bool)

// Impulser is the physical-impulse channel of the movement executor.
type Impulser interface {
	ApplyImpulse(id model.AgentID, impulse model.Vec2)
}

// Resolver owns the queue of in-flight attack attempts.
//
// Execute schedules an attempt after the attacker's reaction time; Advance
// drains due attempts and applies them. Not safe for concurrent use: the
// simulation calls it from its sequential commit and resolve phases only.
type Resolver struct {
	queue    timer.Queue[model.AttackAttempt]
	lookup   Lookup
	impulses Impulser
	sink     event.Sink
	src      rng.Source
}

// NewResolver creates a resolver. impulses and sink may be nil.
func NewResolver(lookup Lookup, impulses Impulser, sink event.Sink, src rng.Source) *Resolver {
	if sink == nil {
		sink = event.Discard
	}
	return &Resolver{
		lookup:   lookup,
		impulses: impulses,
		sink:     sink,
		src:      src,
	}
}

// Pending returns the number of in-flight attempts.
func (r *Resolver) Pending() int {
	return r.queue.Len()
}

// Execute starts an attack of type t from attacker against target at time now.
// The cooldown starts immediately; damage resolves after the reaction time.
// A charge additionally pushes the attacker toward the target right away.
func (r *Resolver) Execute(now float64, attacker *model.Agent, target model.Snapshot, t model.AttackType) {
	if t == model.AttackNone || attacker.IsDead() {
		return
	}

	arch := attacker.Archetype()
	attempt := model.AttackAttempt{
		Type:          t,
		Damage:        arch.AttackDamage(t),
		ReactionDelay: arch.ReactionTime,
		Source:        attacker.ID(),
		Target:        target.ID,
	}

	attacker.SetExecuting(t)
	attacker.StartAttackCooldown(t)
	r.queue.Schedule(now+attempt.ReactionDelay, attempt)

	pos := attacker.Position()
	if t == model.AttackCharge && r.impulses != nil && arch.ChargeImpulse > 0 {
		r.impulses.ApplyImpulse(attacker.ID(), pos.DirectionTo(target.Position).Scale(arch.ChargeImpulse))
	}

	r.sink.Publish(event.Event{
		Time:     now,
		Kind:     event.KindAttackStarted,
		Agent:    attacker.ID(),
		Other:    target.ID,
		Attack:   t,
		Damage:   attempt.Damage,
		Position: pos,
	})
}

// Advance resolves every attempt due at or before now, in (due time, schedule order).
// Ripostes scheduled during the drain resolve in the same call.
func (r *Resolver) Advance(now float64) {
	for {
		attempt, ok := r.queue.Next(now)
		if !ok {
			return
		}
		r.resolve(now, attempt)
	}
}

// CancelFrom drops every in-flight attempt made by id.
func (r *Resolver) CancelFrom(id model.AgentID) int {
	return r.cancel(func(a model.AttackAttempt) bool {
		return a.Source == id
	})
}

// CancelInvolving drops every in-flight attempt made by or aimed at id.
func (r *Resolver) CancelInvolving(id model.AgentID) int {
	return r.cancel(func(a model.AttackAttempt) bool {
		return a.Source == id || a.Target == id
	})
}

// cancel removes matching attempts and frees their attackers to act again.
func (r *Resolver) cancel(match func(model.AttackAttempt) bool) int {
	return r.queue.Cancel(func(a model.AttackAttempt) bool {
		if !match(a) {
			return false
		}
		if !a.Riposte {
			if src, ok := r.lookup(a.Source); ok {
				src.SetExecuting(model.AttackNone)
			}
		}
		return true
	})
}

func (r *Resolver) resolve(now float64, attempt model.AttackAttempt) {
	attacker, ok := r.lookup(attempt.Source)
	if !ok || attacker.IsDead() {
		return
	}
	if !attempt.Riposte {
		attacker.SetExecuting(model.AttackNone)
	}

	target, ok := r.lookup(attempt.Target)
	landed := ok && !target.IsDead() &&
		attacker.Position().DistanceTo(target.Position()) <= attacker.Archetype().AttackRange

	if !landed {
		if !ok || target.IsDead() {
			slog.Debug("attack target stale",
				"attacker", attacker.Name(),
				"targetID", attempt.Target,
				"attack", attempt.Type)
		}
		r.sink.Publish(event.Event{
			Time:     now,
			Kind:     event.KindAttackMissed,
			Agent:    attacker.ID(),
			Other:    attempt.Target,
			Attack:   attempt.Type,
			Position: attacker.Position(),
		})
	} else {
		r.hit(now, attempt, attacker, target)
	}

	if attempt.Riposte || attacker.IsDead() {
		return
	}
	if attempt.Type == model.AttackHeavy || (attempt.Type == model.AttackCharge && landed) {
		r.startRecovery(now, attacker)
	}
}

func (r *Resolver) hit(now float64, attempt model.AttackAttempt, attacker, target *model.Agent) {
	apply := ApplyDamage
	if attempt.Riposte {
		apply = ApplyCounterDamage
	}
	res := apply(target, attacker, attempt.Damage, r.src)

	base := event.Event{
		Time:     now,
		Agent:    target.ID(),
		Other:    attacker.ID(),
		Attack:   attempt.Type,
		Position: target.Position(),
	}

	switch res.Outcome {
	case OutcomeIgnored:
		return
	case OutcomeAbsorbed:
		e := base
		e.Kind = event.KindHitAbsorbed
		e.Health = res.Health
		r.sink.Publish(e)
		return
	case OutcomeBlocked:
		e := base
		e.Kind = event.KindBlocked
		e.Health = res.Health
		r.sink.Publish(e)
		if res.Riposte {
			r.riposte(now, target, attacker)
		}
		return
	}

	e := base
	e.Kind = event.KindDamageTaken
	e.Damage = res.Damage
	e.Health = res.Health
	r.sink.Publish(e)

	if res.Died {
		r.CancelInvolving(target.ID())
		d := base
		d.Kind = event.KindDied
		r.sink.Publish(d)
		return
	}

	if res.Stunned {
		r.CancelFrom(target.ID())
		sc := base
		sc.Kind = event.KindStateChanged
		sc.From = res.PrevState
		sc.To = model.StateStunned
		r.sink.Publish(sc)
		st := base
		st.Kind = event.KindStunned
		r.sink.Publish(st)
	}

	if force := attacker.Archetype().KnockbackForce; force > 0 && r.impulses != nil {
		dir := attacker.Position().DirectionTo(target.Position())
		r.impulses.ApplyImpulse(target.ID(), dir.Scale(force))
	}
}

// riposte schedules a free quick attack from the blocker, due immediately.
// It starts no cooldown and no recovery.
func (r *Resolver) riposte(now float64, blocker, attacker *model.Agent) {
	attempt := model.AttackAttempt{
		Type:    model.AttackQuick,
		Damage:  blocker.Archetype().QuickDamage,
		Source:  blocker.ID(),
		Target:  attacker.ID(),
		Riposte: true,
	}
	r.queue.Schedule(now, attempt)

	r.sink.Publish(event.Event{
		Time:     now,
		Kind:     event.KindRiposte,
		Agent:    blocker.ID(),
		Other:    attacker.ID(),
		Attack:   model.AttackQuick,
		Damage:   attempt.Damage,
		Position: blocker.Position(),
	})
}

func (r *Resolver) startRecovery(now float64, attacker *model.Agent) {
	prev, changed := attacker.StartRecovery(attacker.Archetype().RecoveryTime)
	if !changed {
		return
	}
	r.sink.Publish(event.Event{
		Time:     now,
		Kind:     event.KindStateChanged,
		Agent:    attacker.ID(),
		From:     prev,
		To:       model.StateRecovering,
		Position: attacker.Position(),
	})
}
