// Package event carries discrete simulation events to presentation sinks
// (animation, UI, scoring, logs). Sinks observe only; nothing flows back.
package event

import (
	"github.com/udisondev/arenaai/internal/model"
)

// Kind identifies an event type.
type Kind uint8

const (
	KindStateChanged Kind = iota + 1
	KindAttackStarted
	KindAttackMissed
	KindDamageTaken
	KindHitAbsorbed
	KindBlocked
	KindRiposte
	KindDodged
	KindFeint
	KindStunned
	KindDied
	KindTargetLost
)

// String returns human-readable kind name
func (k Kind) String() string {
	switch k {
	case KindStateChanged:
		return "STATE_CHANGED"
	case KindAttackStarted:
		return "ATTACK_STARTED"
	case KindAttackMissed:
		return "ATTACK_MISSED"
	case KindDamageTaken:
		return "DAMAGE_TAKEN"
	case KindHitAbsorbed:
		return "HIT_ABSORBED"
	case KindBlocked:
		return "BLOCKED"
	case KindRiposte:
		return "RIPOSTE"
	case KindDodged:
		return "DODGED"
	case KindFeint:
		return "FEINT"
	case KindStunned:
		return "STUNNED"
	case KindDied:
		return "DIED"
	case KindTargetLost:
		return "TARGET_LOST"
	default:
		return "UNKNOWN"
	}
}

// Event is one observable fact about the simulation.
// Agent is the subject; Other is the counterpart (attacker, target) when there is one.
type Event struct {
	Time     float64
	Kind     Kind
	Agent    model.AgentID
	Other    model.AgentID
	From     model.State
	To       model.State
	Attack   model.AttackType
	Damage   int32
	Health   int32
	Position model.Vec2
}

// Sink consumes events.
type Sink interface {
	Publish(e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(e Event)

// Publish calls f(e).
func (f SinkFunc) Publish(e Event) { f(e) }

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Bus fans events out to several sinks in registration order.
type Bus struct {
	sinks []Sink
}

// NewBus creates a bus over the given sinks. Nil sinks are skipped.
func NewBus(sinks ...Sink) *Bus {
	b := &Bus{}
	for _, s := range sinks {
		b.Add(s)
	}
	return b
}

// Add registers a sink.
func (b *Bus) Add(s Sink) {
	if s != nil {
		b.sinks = append(b.sinks, s)
	}
}

// Publish forwards e to every sink.
func (b *Bus) Publish(e Event) {
	for _, s := range b.sinks {
		s.Publish(e)
	}
}
