package combat

import (
	"github.com/udisondev/arenaai/internal/model"
	"github.com/udisondev/arenaai/internal/rng"
)

// stunFactor scales the attacker's tactical trait into the stun chance.
const stunFactor = 0.3

// Outcome classifies what a hit did to its target.
type Outcome uint8

const (
	// OutcomeIgnored: the target was already dead.
	OutcomeIgnored Outcome = iota
	// OutcomeAbsorbed: the target was inside its invulnerability window.
	OutcomeAbsorbed
	// OutcomeBlocked: a defensive target blocked the hit.
	OutcomeBlocked
	// OutcomeHit: damage was applied.
	OutcomeHit
)

// String returns human-readable outcome name
func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "IGNORED"
	case OutcomeAbsorbed:
		return "ABSORBED"
	case OutcomeBlocked:
		return "BLOCKED"
	case OutcomeHit:
		return "HIT"
	default:
		return "UNKNOWN"
	}
}

// DamageResult describes a single ApplyDamage call.
type DamageResult struct {
	Outcome Outcome
	// Damage is the health actually removed (after defensive halving).
	Damage int32
	// Health is the target's health after the call.
	Health int32
	// Riposte is set when a block earned the target a free quick attack.
	Riposte bool
	// Stunned is set when the hit forced the target into StateStunned.
	Stunned bool
	// PrevState is the target's state before a stun replaced it.
	PrevState model.State
	Died      bool
}

// ApplyDamage resolves one hit of raw damage from attacker against target.
//
// Writes go through target.Update, so concurrent attackers resolving against
// the same target never lose updates. attacker may be nil (no stun roll).
// Rolls are drawn in a fixed order: block, riposte, stun; each only when its
// precondition holds.
func ApplyDamage(target, attacker *model.Agent, raw int32, src rng.Source) DamageResult {
	return applyDamage(target, attacker, raw, src, true)
}

// ApplyCounterDamage resolves a riposte. It can be blocked like any hit, but
// the block never earns a counter-riposte and no riposte roll is drawn.
func ApplyCounterDamage(target, attacker *model.Agent, raw int32, src rng.Source) DamageResult {
	return applyDamage(target, attacker, raw, src, false)
}

func applyDamage(target, attacker *model.Agent, raw int32, src rng.Source, riposte bool) DamageResult {
	arch := target.Archetype()
	tactical := arch.Personality.Tactical

	// Heavy or charge still cooling down means the attacker is mid-swing.
	var stunChance float64
	if attacker != nil {
		cd := attacker.Cooldowns()
		if cd.HeavyAttack > 0 || cd.ChargeAttack > 0 {
			stunChance = stunFactor * attacker.Personality().Tactical
		}
	}

	var res DamageResult
	res.Died = target.Update(func(v *model.Vitals) {
		res.Health = v.Health
		res.PrevState = v.State

		if v.Invulnerability > 0 {
			res.Outcome = OutcomeAbsorbed
			return
		}

		defensive := v.State == model.StateDefensive
		if defensive && src.Float64() < arch.BlockChance*tactical {
			res.Outcome = OutcomeBlocked
			res.Riposte = riposte && src.Float64() < arch.RiposteChance*tactical
			return
		}

		dmg := max(raw, 0)
		if defensive {
			dmg /= 2
		}
		res.Outcome = OutcomeHit
		res.Damage = min(dmg, v.Health)
		v.Health -= dmg
		v.Invulnerability = arch.InvulnerabilityTime

		if v.Health > 0 && stunChance > 0 && src.Float64() < stunChance {
			v.State = model.StateStunned
			v.Stun = arch.StunDuration
			res.Stunned = true
		}
	})

	if res.Outcome == OutcomeHit {
		res.Health = target.Health()
	}
	if res.Stunned {
		target.SetExecuting(model.AttackNone)
	}
	return res
}
