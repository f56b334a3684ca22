package ai

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/arenaai/internal/model"
)

func testArchetype() *model.Archetype {
	return &model.Archetype{
		Name:                 "grunt",
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
		AllyDetectionRange:   4,
		DecisionInterval:     1,
		PatrolChangeInterval: 3,
		ReactionTime:         0.3,
		RecoveryTime:         1,
		InvulnerabilityTime:  0.5,
		StunDuration:         1.5,
		QuickAttackCooldown:  1,
		HeavyAttackCooldown:  3,
		ChargeAttackCooldown: 5,
		DodgeCooldown:        2,
		DodgeDistance:        2,
		Personality:          model.Personality{Aggression: 0.5, Courage: 0.5, Tactical: 0.5, Coordination: 0.5},
	}
}

func newTestAgent(t testing.TB, id model.AgentID, arch *model.Archetype, x, y float64) *model.Agent {
	t.Helper()
	a, err := model.NewAgent(id, arch.Name, arch, model.NewVec2(x, y))
	require.NoError(t, err)
	return a
}

func snapshots(agents ...*model.Agent) []model.Snapshot {
	out := make([]model.Snapshot, len(agents))
	for i, a := range agents {
		out[i] = a.Snapshot()
	}
	return out
}
