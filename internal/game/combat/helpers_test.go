package combat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/arenaai/internal/event"
	"github.com/udisondev/arenaai/internal/model"
)

func newArchetype() *model.Archetype {
	return &model.Archetype{
		Name:                 "fighter",
		MaxHealth:            100,
		QuickDamage:          10,
		HeavyDamage:          20,
		ChargeDamage:         15,
		MoveSpeed:            5,
		PatrolSpeed:          2,
		DetectionRange:       5,
		AttackRange:          1.5,
		MinAttackRange:       0.5,
		SafeDistance:         2,
		DecisionInterval:     1,
		ReactionTime:         0.3,
		RecoveryTime:         1,
		InvulnerabilityTime:  0.5,
		StunDuration:         1.5,
		QuickAttackCooldown:  1,
		HeavyAttackCooldown:  3,
		ChargeAttackCooldown: 5,
		DodgeCooldown:        2,
		Personality:          model.Personality{Aggression: 0.5, Courage: 0.5, Tactical: 0.5, Coordination: 0.5},
	}
}

func newAgent(t *testing.T, id model.AgentID, arch *model.Archetype, x, y float64) *model.Agent {
	t.Helper()
	a, err := model.NewAgent(id, arch.Name, arch, model.NewVec2(x, y))
	require.NoError(t, err)
	return a
}

type testRoster map[model.AgentID]*model.Agent

func newRoster(agents ...*model.Agent) testRoster {
	r := make(testRoster, len(agents))
	for _, a := range agents {
		r[a.ID()] = a
	}
	return r
}

func (r testRoster) lookup(id model.AgentID) (*model.Agent, bool) {
	a, ok := r[id]
	return a, ok
}

type impulse struct {
	id model.AgentID
	v  model.Vec2
}

type impulseRecorder struct {
	got []impulse
}

func (r *impulseRecorder) ApplyImpulse(id model.AgentID, v model.Vec2) {
	r.got = append(r.got, impulse{id: id, v: v})
}

func kinds(events []event.Event) []event.Kind {
	out := make([]event.Kind, 0, len(events))
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}
