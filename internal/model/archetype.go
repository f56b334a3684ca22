package model

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when an archetype carries a trait or chance
// outside [0,1], or a negative range, cooldown or timer.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Personality biases every probabilistic choice an agent makes.
// All traits are in [0,1].
type Personality struct {
	Aggression   float64 `yaml:"aggression"`
	Courage      float64 `yaml:"courage"`
	Tactical     float64 `yaml:"tactical"`
	Coordination float64 `yaml:"coordination"`
}

// Archetype is the stat table shared by every agent of one kind.
// Specialisation is data: a brute and a skirmisher differ only here.
// Times are seconds, distances are arena units, angles are degrees.
type Archetype struct {
	Name string `yaml:"-"`

	MaxHealth    int32 `yaml:"max_health"`
	QuickDamage  int32 `yaml:"quick_damage"`
	HeavyDamage  int32 `yaml:"heavy_damage"`
	ChargeDamage int32 `yaml:"charge_damage"`

	MoveSpeed   float64 `yaml:"move_speed"`
	PatrolSpeed float64 `yaml:"patrol_speed"`

	DetectionRange     float64 `yaml:"detection_range"`
	AttackRange        float64 `yaml:"attack_range"`
	MinAttackRange     float64 `yaml:"min_attack_range"`
	SafeDistance       float64 `yaml:"safe_distance"`
	AllyDetectionRange float64 `yaml:"ally_detection_range"`

	DecisionInterval     float64 `yaml:"decision_interval"`
	PatrolChangeInterval float64 `yaml:"patrol_change_interval"`
	PatrolPauseDuration  float64 `yaml:"patrol_pause_duration"`

	FlankAngle    float64 `yaml:"flank_angle"`
	DodgeDistance float64 `yaml:"dodge_distance"`
	FeintChance   float64 `yaml:"feint_chance"`
	FeintDelay    float64 `yaml:"feint_delay"`
	BlockChance   float64 `yaml:"block_chance"`
	RiposteChance float64 `yaml:"riposte_chance"`

	ReactionTime        float64 `yaml:"reaction_time"`
	RecoveryTime        float64 `yaml:"recovery_time"`
	InvulnerabilityTime float64 `yaml:"invulnerability_time"`
	StunDuration        float64 `yaml:"stun_duration"`
	ChargeImpulse       float64 `yaml:"charge_impulse"`
	KnockbackForce      float64 `yaml:"knockback_force"`

	QuickAttackCooldown  float64 `yaml:"quick_attack_cooldown"`
	HeavyAttackCooldown  float64 `yaml:"heavy_attack_cooldown"`
	ChargeAttackCooldown float64 `yaml:"charge_attack_cooldown"`
	DodgeCooldown        float64 `yaml:"dodge_cooldown"`

	Personality Personality `yaml:"personality"`
}

// AttackDamage returns the raw damage of the given attack type.
func (a *Archetype) AttackDamage(t AttackType) int32 {
	switch t {
	case AttackQuick:
		return a.QuickDamage
	case AttackHeavy:
		return a.HeavyDamage
	case AttackCharge:
		return a.ChargeDamage
	default:
		return 0
	}
}

// AttackCooldown returns the cooldown started by the given attack type.
func (a *Archetype) AttackCooldown(t AttackType) float64 {
	switch t {
	case AttackQuick:
		return a.QuickAttackCooldown
	case AttackHeavy:
		return a.HeavyAttackCooldown
	case AttackCharge:
		return a.ChargeAttackCooldown
	default:
		return 0
	}
}

// Validate checks every key of the stat table.
// All violations are reported together, each wrapping ErrInvalidConfiguration.
func (a *Archetype) Validate() error {
	var errs []error

	unit := func(key string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%w: %s %s=%v outside [0,1]", ErrInvalidConfiguration, a.Name, key, v))
		}
	}
	nonNegative := func(key string, v float64) {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%w: %s %s=%v is negative", ErrInvalidConfiguration, a.Name, key, v))
		}
	}

	if a.MaxHealth <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s max_health=%d must be positive", ErrInvalidConfiguration, a.Name, a.MaxHealth))
	}
	nonNegative("quick_damage", float64(a.QuickDamage))
	nonNegative("heavy_damage", float64(a.HeavyDamage))
	nonNegative("charge_damage", float64(a.ChargeDamage))

	unit("aggression", a.Personality.Aggression)
	unit("courage", a.Personality.Courage)
	unit("tactical", a.Personality.Tactical)
	unit("coordination", a.Personality.Coordination)
	unit("feint_chance", a.FeintChance)
	unit("block_chance", a.BlockChance)
	unit("riposte_chance", a.RiposteChance)

	for _, kv := range []struct {
		key string
		v   float64
	}{
		{"move_speed", a.MoveSpeed},
		{"patrol_speed", a.PatrolSpeed},
		{"detection_range", a.DetectionRange},
		{"attack_range", a.AttackRange},
		{"min_attack_range", a.MinAttackRange},
		{"safe_distance", a.SafeDistance},
		{"ally_detection_range", a.AllyDetectionRange},
		{"decision_interval", a.DecisionInterval},
		{"patrol_change_interval", a.PatrolChangeInterval},
		{"patrol_pause_duration", a.PatrolPauseDuration},
		{"dodge_distance", a.DodgeDistance},
		{"feint_delay", a.FeintDelay},
		{"reaction_time", a.ReactionTime},
		{"recovery_time", a.RecoveryTime},
		{"invulnerability_time", a.InvulnerabilityTime},
		{"stun_duration", a.StunDuration},
		{"charge_impulse", a.ChargeImpulse},
		{"knockback_force", a.KnockbackForce},
		{"quick_attack_cooldown", a.QuickAttackCooldown},
		{"heavy_attack_cooldown", a.HeavyAttackCooldown},
		{"charge_attack_cooldown", a.ChargeAttackCooldown},
		{"dodge_cooldown", a.DodgeCooldown},
	} {
		nonNegative(kv.key, kv.v)
	}

	if a.AttackRange > 0 && a.MinAttackRange >= a.AttackRange {
		errs = append(errs, fmt.Errorf("%w: %s min_attack_range=%v must be below attack_range=%v",
			ErrInvalidConfiguration, a.Name, a.MinAttackRange, a.AttackRange))
	}

	return errors.Join(errs...)
}
