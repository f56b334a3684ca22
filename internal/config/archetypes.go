package config

import "github.com/udisondev/arenaai/internal/model"

// BuiltinArchetypes returns fresh copies of the stock archetypes.
//
//   - bokoblin: balanced line fighter
//   - brute: slow heavy hitter that rarely thinks twice
//   - skirmisher: fragile, fast, flanks and feints
func BuiltinArchetypes() map[string]*model.Archetype {
	return map[string]*model.Archetype{
		"bokoblin":   bokoblin(),
		"brute":      brute(),
		"skirmisher": skirmisher(),
	}
}

func bokoblin() *model.Archetype {
	return &model.Archetype{
		Name:         "bokoblin",
		MaxHealth:    150,
		QuickDamage:  10,
		HeavyDamage:  18,
		ChargeDamage: 14,

		MoveSpeed:   5,
		PatrolSpeed: 5,

		DetectionRange:     5,
		AttackRange:        1.5,
		MinAttackRange:     0.5,
		SafeDistance:       2,
		AllyDetectionRange: 4,

		DecisionInterval:     1,
		PatrolChangeInterval: 3,
		PatrolPauseDuration:  0,

		FlankAngle:    30,
		DodgeDistance: 1.5,
		FeintChance:   0.2,
		FeintDelay:    0.4,
		BlockChance:   0.2,
		RiposteChance: 0.3,

		ReactionTime:        0.3,
		RecoveryTime:        0.5,
		InvulnerabilityTime: 0.2,
		StunDuration:        1,
		ChargeImpulse:       4,
		KnockbackForce:      2,

		QuickAttackCooldown:  1,
		HeavyAttackCooldown:  2.5,
		ChargeAttackCooldown: 4,
		DodgeCooldown:        2,

		Personality: model.Personality{
			Aggression:   0.5,
			Courage:      0.5,
			Tactical:     0.5,
			Coordination: 0.5,
		},
	}
}

func brute() *model.Archetype {
	a := bokoblin()
	a.Name = "brute"
	a.MaxHealth = 240
	a.QuickDamage = 12
	a.HeavyDamage = 30
	a.ChargeDamage = 22
	a.MoveSpeed = 3.5
	a.PatrolSpeed = 2.5
	a.AttackRange = 1.8
	a.ReactionTime = 0.45
	a.RecoveryTime = 0.9
	a.StunDuration = 0.7
	a.ChargeImpulse = 6
	a.KnockbackForce = 4
	a.FeintChance = 0.05
	a.BlockChance = 0.1
	a.RiposteChance = 0.1
	a.HeavyAttackCooldown = 2
	a.Personality = model.Personality{
		Aggression:   0.8,
		Courage:      0.8,
		Tactical:     0.2,
		Coordination: 0.3,
	}
	return a
}

func skirmisher() *model.Archetype {
	a := bokoblin()
	a.Name = "skirmisher"
	a.MaxHealth = 90
	a.QuickDamage = 8
	a.HeavyDamage = 12
	a.ChargeDamage = 10
	a.MoveSpeed = 6.5
	a.PatrolSpeed = 4
	a.DetectionRange = 6.5
	a.SafeDistance = 2.5
	a.AllyDetectionRange = 6
	a.DecisionInterval = 0.6
	a.FlankAngle = 60
	a.DodgeDistance = 2
	a.FeintChance = 0.4
	a.FeintDelay = 0.3
	a.BlockChance = 0.15
	a.RiposteChance = 0.5
	a.ReactionTime = 0.2
	a.RecoveryTime = 0.3
	a.InvulnerabilityTime = 0.3
	a.StunDuration = 1.2
	a.KnockbackForce = 1
	a.QuickAttackCooldown = 0.6
	a.DodgeCooldown = 1.2
	a.Personality = model.Personality{
		Aggression:   0.4,
		Courage:      0.3,
		Tactical:     0.9,
		Coordination: 0.8,
	}
	return a
}
