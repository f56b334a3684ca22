package combat

import (
	"github.com/udisondev/arenaai/internal/model"
	"github.com/udisondev/arenaai/internal/rng"
)

// Attack band weights relative to attackChance.
const (
	quickWeight  = 0.5
	heavyWeight  = 0.3
	chargeWeight = 0.2
)

// Weights returns the raw quick, heavy and charge weights for an attacker
// at the given health ratio and distance to its target.
func Weights(arch *model.Archetype, healthRatio, distance float64) (quick, heavy, charge float64) {
	pers := arch.Personality
	attackChance := pers.Aggression * healthRatio

	quick = quickWeight * attackChance * (1 + pers.Aggression)
	heavy = heavyWeight * attackChance * pers.Tactical
	if distance > arch.MinAttackRange {
		charge = chargeWeight * attackChance
	}
	return quick, heavy, charge
}

// ChooseAttack arbitrates between quick, heavy and charge attacks.
//
// One roll picks a band from the normalised weights; the band's own cooldown
// then gates it. A band on cooldown yields AttackNone rather than falling
// through to the next band. All-zero weights yield AttackNone without a draw.
func ChooseAttack(a *model.Agent, distance float64, src rng.Source) model.AttackType {
	quick, heavy, charge := Weights(a.Archetype(), a.HealthRatio(), distance)
	total := quick + heavy + charge
	if total <= 0 {
		return model.AttackNone
	}

	roll := src.Float64() * total

	var picked model.AttackType
	switch {
	case roll < quick:
		picked = model.AttackQuick
	case roll < quick+heavy:
		picked = model.AttackHeavy
	default:
		picked = model.AttackCharge
	}

	if a.Cooldowns().Attack(picked) > 0 {
		return model.AttackNone
	}
	return picked
}
