package ai

import (
	"github.com/udisondev/arenaai/internal/model"
	"github.com/udisondev/arenaai/internal/rng"
)

const (
	// panicThreshold is the health ratio below which panic retreat is rolled.
	panicThreshold = 0.3
	// weakTargetBonus scales how much a wounded target raises aggression.
	weakTargetBonus = 0.5
	// escortBonus scales how much each nearby ally raises aggression.
	escortBonus = 0.2
	// tacticalRestraint scales how much tactical agents hold back from attacking.
	tacticalRestraint = 0.5
)

// Assessment is what an agent knows at a decision point.
type Assessment struct {
	HasTarget         bool
	HealthRatio       float64
	TargetHealthRatio float64
	Distance          float64
	Allies            int
	Obstructed        bool
}

// AdjustedAggression raises aggression against weaker, more escorted targets.
func AdjustedAggression(p model.Personality, targetHealthRatio float64, allies int) float64 {
	return p.Aggression *
		(1 - targetHealthRatio*weakTargetBonus) *
		(1 + p.Coordination*float64(allies)*escortBonus)
}

// RetreatChance is the panic-retreat probability at the given health ratio.
func RetreatChance(p model.Personality, healthRatio float64) float64 {
	return (1 - p.Courage) * (1 - healthRatio)
}

// InAttackBand reports whether distance lies strictly inside (min_attack_range, attack_range).
func InAttackBand(arch *model.Archetype, distance float64) bool {
	return distance > arch.MinAttackRange && distance < arch.AttackRange
}

// Decide evaluates the weighted state model once.
//
// Draws: one panic roll when health is below the threshold, then one roll for
// the attack or chase branch. An obstructed target makes chasing ineligible,
// so that branch resolves to StateDefensive without a draw.
func Decide(arch *model.Archetype, as Assessment, src rng.Source) model.State {
	if !as.HasTarget {
		return model.StatePatrolling
	}

	p := arch.Personality
	hr := as.HealthRatio
	adjusted := AdjustedAggression(p, as.TargetHealthRatio, as.Allies)

	if hr < panicThreshold && src.Float64() < RetreatChance(p, hr) {
		return model.StateDefensive
	}

	defensive := p.Tactical + (1-adjusted)*(1-hr)

	if InAttackBand(arch, as.Distance) && !as.Obstructed {
		attack := adjusted * hr * (1 - tacticalRestraint*p.Tactical)
		return choose(attack, defensive, model.StateAttacking, model.StateDefensive, src)
	}

	if as.Obstructed {
		return model.StateDefensive
	}

	chase := adjusted * hr
	return choose(chase, defensive, model.StateChasing, model.StateDefensive, src)
}

// choose samples between two outcomes with weights a and b, normalised.
// Two zero weights fall back to an even split.
func choose(a, b float64, first, second model.State, src rng.Source) model.State {
	total := a + b
	threshold := 0.5
	if total > 0 {
		threshold = a / total
	}
	if src.Float64() < threshold {
		return first
	}
	return second
}
