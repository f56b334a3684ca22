package combat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/arenaai/internal/event"
	"github.com/udisondev/arenaai/internal/model"
	"github.com/udisondev/arenaai/internal/rng"
)

type fixture struct {
	roster   testRoster
	impulses *impulseRecorder
	rec      *event.Recorder
	res      *Resolver
}

func newFixture(src rng.Source, agents ...*model.Agent) *fixture {
	f := &fixture{
		roster:   newRoster(agents...),
		impulses: &impulseRecorder{},
		rec:      &event.Recorder{},
	}
	f.res = NewResolver(f.roster.lookup, f.impulses, f.rec, src)
	return f
}

func TestResolver_QuickAttackResolvesAfterReaction(t *testing.T) {
	t.Parallel()

	attacker := newAgent(t, 1, newArchetype(), 0, 0)
	target := newAgent(t, 2, newArchetype(), 1, 0)
	f := newFixture(rng.Fixed(0.99), attacker, target)

	f.res.Execute(0, attacker, target.Snapshot(), model.AttackQuick)

	assert.Equal(t, model.AttackQuick, attacker.Executing())
	assert.InDelta(t, 1.0, attacker.Cooldowns().QuickAttack, 1e-9)
	assert.Equal(t, 1, f.res.Pending())

	f.res.Advance(0.2)
	assert.Equal(t, int32(100), target.Health())
	assert.Equal(t, 1, f.res.Pending())

	f.res.Advance(0.3)
	assert.Equal(t, int32(90), target.Health())
	assert.Equal(t, model.AttackNone, attacker.Executing())
	assert.Zero(t, f.res.Pending())
	assert.Equal(t, model.StatePatrolling, attacker.State(), "quick attacks do not recover")

	hits := f.rec.OfKind(event.KindDamageTaken)
	require.Len(t, hits, 1)
	assert.Equal(t, model.AgentID(2), hits[0].Agent)
	assert.Equal(t, model.AgentID(1), hits[0].Other)
	assert.Equal(t, int32(10), hits[0].Damage)
	assert.Equal(t, int32(90), hits[0].Health)
}

func TestResolver_RevalidatesRange(t *testing.T) {
	t.Parallel()

	attacker := newAgent(t, 1, newArchetype(), 0, 0)
	target := newAgent(t, 2, newArchetype(), 1, 0)
	f := newFixture(rng.Fixed(0.99), attacker, target)

	f.res.Execute(0, attacker, target.Snapshot(), model.AttackQuick)
	target.SetPosition(model.NewVec2(3, 0))
	f.res.Advance(1)

	assert.Equal(t, int32(100), target.Health())
	assert.Equal(t, []event.Kind{event.KindAttackStarted, event.KindAttackMissed}, kinds(f.rec.Events()))
	assert.Equal(t, model.AttackNone, attacker.Executing())
}

func TestResolver_StaleTarget(t *testing.T) {
	t.Parallel()

	attacker := newAgent(t, 1, newArchetype(), 0, 0)
	target := newAgent(t, 2, newArchetype(), 1, 0)
	f := newFixture(rng.Fixed(0.99), attacker, target)

	f.res.Execute(0, attacker, target.Snapshot(), model.AttackQuick)
	delete(f.roster, target.ID())

	assert.NotPanics(t, func() { f.res.Advance(1) })
	assert.Len(t, f.rec.OfKind(event.KindAttackMissed), 1)
	assert.Empty(t, f.rec.OfKind(event.KindDamageTaken))
}

func TestResolver_Recovery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		attack       model.AttackType
		outOfRange   bool
		wantRecovery bool
	}{
		{name: "heavy hit", attack: model.AttackHeavy, wantRecovery: true},
		{name: "heavy miss", attack: model.AttackHeavy, outOfRange: true, wantRecovery: true},
		{name: "charge hit", attack: model.AttackCharge, wantRecovery: true},
		{name: "charge miss", attack: model.AttackCharge, outOfRange: true, wantRecovery: false},
		{name: "quick hit", attack: model.AttackQuick, wantRecovery: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			attacker := newAgent(t, 1, newArchetype(), 0, 0)
			attacker.SetState(model.StateAttacking)
			target := newAgent(t, 2, newArchetype(), 1, 0)
			f := newFixture(rng.Fixed(0.99), attacker, target)

			f.res.Execute(0, attacker, target.Snapshot(), tt.attack)
			if tt.outOfRange {
				target.SetPosition(model.NewVec2(4, 0))
			}
			f.res.Advance(0.3)

			if tt.wantRecovery {
				assert.Equal(t, model.StateRecovering, attacker.State())
				assert.InDelta(t, 1.0, attacker.Recovery(), 1e-9)
				changes := f.rec.OfKind(event.KindStateChanged)
				require.Len(t, changes, 1)
				assert.Equal(t, model.StateAttacking, changes[0].From)
				assert.Equal(t, model.StateRecovering, changes[0].To)
			} else {
				assert.Equal(t, model.StateAttacking, attacker.State())
			}
		})
	}
}

func TestResolver_ChargeImpulseAndKnockback(t *testing.T) {
	t.Parallel()

	arch := newArchetype()
	arch.ChargeImpulse = 4
	arch.KnockbackForce = 2
	attacker := newAgent(t, 1, arch, 0, 0)
	target := newAgent(t, 2, newArchetype(), 1, 0)
	f := newFixture(rng.Fixed(0.99), attacker, target)

	f.res.Execute(0, attacker, target.Snapshot(), model.AttackCharge)
	require.Len(t, f.impulses.got, 1)
	assert.Equal(t, impulse{id: 1, v: model.NewVec2(4, 0)}, f.impulses.got[0])

	f.res.Advance(0.3)
	require.Len(t, f.impulses.got, 2)
	assert.Equal(t, impulse{id: 2, v: model.NewVec2(2, 0)}, f.impulses.got[1])
	assert.Equal(t, int32(85), target.Health())
}

func TestResolver_BlockAndRiposte(t *testing.T) {
	t.Parallel()

	blockerArch := newArchetype()
	blockerArch.BlockChance = 1
	blockerArch.RiposteChance = 1
	blockerArch.Personality.Tactical = 1
	attacker := newAgent(t, 1, newArchetype(), 0, 0)
	blocker := newAgent(t, 2, blockerArch, 1, 0)
	blocker.SetState(model.StateDefensive)
	f := newFixture(rng.Fixed(0), attacker, blocker)

	f.res.Execute(0, attacker, blocker.Snapshot(), model.AttackQuick)
	f.res.Advance(0.3)

	assert.Equal(t, int32(100), blocker.Health())
	assert.Equal(t, int32(90), attacker.Health(), "riposte lands in the same drain")
	assert.Zero(t, f.res.Pending())
	assert.Zero(t, blocker.Cooldowns().QuickAttack, "ripostes are free")
	assert.Equal(t, model.StateDefensive, blocker.State())
	assert.Equal(t, []event.Kind{
		event.KindAttackStarted,
		event.KindBlocked,
		event.KindRiposte,
		event.KindDamageTaken,
	}, kinds(f.rec.Events()))
}

func TestResolver_RiposteCannotBeRiposted(t *testing.T) {
	t.Parallel()

	arch := newArchetype()
	arch.BlockChance = 1
	arch.RiposteChance = 1
	arch.Personality.Tactical = 1
	a := newAgent(t, 1, arch, 0, 0)
	b := newAgent(t, 2, arch, 1, 0)
	a.SetState(model.StateDefensive)
	b.SetState(model.StateDefensive)
	f := newFixture(rng.Fixed(0), a, b)

	f.res.Execute(0, a, b.Snapshot(), model.AttackQuick)

	done := make(chan struct{})
	go func() {
		f.res.Advance(0.3)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Advance did not return")
	}

	assert.Equal(t, int32(100), a.Health())
	assert.Equal(t, int32(100), b.Health())
	assert.Zero(t, f.res.Pending())
	assert.Len(t, f.rec.OfKind(event.KindRiposte), 1)
	assert.Equal(t, []event.Kind{
		event.KindAttackStarted,
		event.KindBlocked,
		event.KindRiposte,
		event.KindBlocked,
	}, kinds(f.rec.Events()))
}

func TestResolver_RiposteHitsDefensiveAttacker(t *testing.T) {
	t.Parallel()

	blockerArch := newArchetype()
	blockerArch.BlockChance = 1
	blockerArch.RiposteChance = 1
	blockerArch.Personality.Tactical = 1
	attacker := newAgent(t, 1, newArchetype(), 0, 0)
	blocker := newAgent(t, 2, blockerArch, 1, 0)
	attacker.SetState(model.StateDefensive)
	blocker.SetState(model.StateDefensive)
	// block 0, riposte 0, attacker block roll 0.99 misses.
	f := newFixture(rng.NewSequence(0, 0, 0.99), attacker, blocker)

	f.res.Execute(0, attacker, blocker.Snapshot(), model.AttackQuick)
	f.res.Advance(0.3)

	assert.Equal(t, int32(95), attacker.Health(), "defensive halves the riposte")
	assert.Zero(t, f.res.Pending())
	assert.Len(t, f.rec.OfKind(event.KindRiposte), 1)
}

func TestResolver_AbsorbedHit(t *testing.T) {
	t.Parallel()

	attacker := newAgent(t, 1, newArchetype(), 0, 0)
	target := newAgent(t, 2, newArchetype(), 1, 0)
	target.Update(func(v *model.Vitals) { v.Invulnerability = 10 })
	f := newFixture(rng.Fixed(0.99), attacker, target)

	f.res.Execute(0, attacker, target.Snapshot(), model.AttackQuick)
	f.res.Advance(0.3)

	assert.Equal(t, int32(100), target.Health())
	assert.Len(t, f.rec.OfKind(event.KindHitAbsorbed), 1)
}

func TestResolver_DeathCancelsInFlight(t *testing.T) {
	t.Parallel()

	first := newAgent(t, 1, newArchetype(), 0, 0)
	second := newAgent(t, 3, newArchetype(), 2, 0)
	victim := newAgent(t, 2, newArchetype(), 1, 0)
	victim.Update(func(v *model.Vitals) { v.Health = 5 })
	victim.Update(func(v *model.Vitals) { v.Invulnerability = 0 })
	f := newFixture(rng.Fixed(0.99), first, second, victim)

	f.res.Execute(0, first, victim.Snapshot(), model.AttackQuick)
	f.res.Execute(0.1, second, victim.Snapshot(), model.AttackQuick)
	f.res.Execute(0.1, victim, first.Snapshot(), model.AttackQuick)

	f.res.Advance(0.3)

	assert.True(t, victim.IsDead())
	assert.Zero(t, f.res.Pending())
	assert.Equal(t, model.AttackNone, second.Executing(), "cancelled attacker is free to act")

	died := f.rec.OfKind(event.KindDied)
	require.Len(t, died, 1)
	assert.Equal(t, model.AgentID(2), died[0].Agent)
	assert.Equal(t, model.AgentID(1), died[0].Other)
	assert.Equal(t, int32(100), first.Health())
}

func TestResolver_StunCancelsTargetAttack(t *testing.T) {
	t.Parallel()

	arch := newArchetype()
	arch.Personality.Tactical = 1
	attacker := newAgent(t, 1, arch, 0, 0)
	target := newAgent(t, 2, newArchetype(), 1, 0)
	f := newFixture(rng.Fixed(0.2), attacker, target)

	f.res.Execute(0, attacker, target.Snapshot(), model.AttackHeavy)
	f.res.Execute(0.1, target, attacker.Snapshot(), model.AttackQuick)
	f.res.Advance(0.3)

	assert.Equal(t, model.StateStunned, target.State())
	assert.InDelta(t, 1.5, target.Vitals().Stun, 1e-9)
	assert.Equal(t, model.AttackNone, target.Executing())
	assert.Zero(t, f.res.Pending())
	assert.Len(t, f.rec.OfKind(event.KindStunned), 1)

	f.res.Advance(1)
	assert.Equal(t, int32(100), attacker.Health())
}
