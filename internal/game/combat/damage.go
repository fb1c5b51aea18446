package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/fableforge/engine/internal/game/actor"
	"github.com/fableforge/engine/internal/game/ruleset"
)

// Modifier names used in the DamageResult breakdown.
const (
	ModifierLevelAdvantage = "level_advantage"
	ModifierWeaponQuality  = "weapon_quality"
	ModifierAbilityBonus   = "ability_bonus"
	ModifierTerrain        = "terrain"
	ModifierWeather        = "weather"
	ModifierScript         = "script"
)

// pipelineOrder fixes the sequence the modifier factors are multiplied in.
// Float multiplication is not associative, so ranging over the map would make
// the product depend on iteration order and break seeded replays.
var pipelineOrder = []string{
	ModifierLevelAdvantage,
	ModifierWeaponQuality,
	ModifierAbilityBonus,
	ModifierTerrain,
	ModifierWeather,
	ModifierScript,
}

// applyModifiers multiplies base by every present factor in pipeline order.
func applyModifiers(base float64, modifiers map[string]float64) float64 {
	out := base
	for _, name := range pipelineOrder {
		if f, ok := modifiers[name]; ok {
			out *= f
		}
	}
	return out
}

// AttackContext is the full input to a single attack resolution.
type AttackContext struct {
	Attacker actor.Combatant
	Defender actor.Combatant
	Loadout  Loadout
}

// DamageResult is the engine-owned record of one resolved attack. It is
// produced fresh per attack and never mutated after return. Damage carries
// the computed value even when Hit is false; the round simulator decides
// what is actually applied.
type DamageResult struct {
	// Damage is the final computed damage, clamped to [MinDamage, MaxDamage].
	Damage int
	// RawDamage is the base damage before the modifier pipeline.
	RawDamage float64
	// Hit reports whether the hit roll succeeded.
	Hit bool
	// CriticalHit reports whether the critical roll succeeded (only rolled on a hit).
	CriticalHit bool
	// HitChance is the clamped hit percentage that was rolled against.
	HitChance int
	// CriticalChance is the clamped critical percentage that was rolled against.
	CriticalChance int
	// DamageReduction is the damage-type reduction factor that was applied.
	DamageReduction float64
	// Modifiers is the breakdown of each multiplicative pipeline factor.
	Modifiers map[string]float64
}

// TotalModifier returns the product of all pipeline factors, multiplied in
// pipeline order.
func (r DamageResult) TotalModifier() float64 {
	return applyModifiers(1.0, r.Modifiers)
}

// ResolveAttack computes the full DamageResult for ctx: base damage from the
// attacker's stats and loadout, the multiplicative modifier pipeline, hit and
// critical rolls, damage-type reduction, and the final clamp.
//
// The result always carries a damage value, even on a miss; zeroing applied
// damage on a miss or dodge is the round simulator's responsibility, which
// keeps computed-but-unapplied damage visible for logging and testing.
//
// Postcondition: result.Damage is within [cfg.MinDamage, cfg.MaxDamage].
func (e *Engine) ResolveAttack(ctx AttackContext) DamageResult {
	base := e.baseDamage(ctx)

	modifiers := map[string]float64{
		ModifierLevelAdvantage: e.levelAdvantage(ctx.Attacker, ctx.Defender),
		ModifierWeaponQuality:  ctx.Loadout.Weapon.QualityFactor(),
		ModifierAbilityBonus:   ruleset.KeywordMultiplier(ctx.Loadout.Ability),
		// Terrain and weather are reserved extension points.
		ModifierTerrain: 1.0,
		ModifierWeather: 1.0,
	}
	if e.hook != nil {
		if factor, ok := e.hook.DamageModifier(ctx.Attacker, ctx.Defender, ctx.Loadout.Ability, string(ctx.Loadout.DamageType)); ok {
			modifiers[ModifierScript] = factor
		}
	}

	modified := applyModifiers(base, modifiers)

	hitChance := e.HitChance(ctx.Attacker, ctx.Defender)
	critChance := e.CriticalChance(ctx.Attacker, ctx.Defender)
	hit := e.roller.Check("hit", hitChance)

	crit := false
	if hit {
		crit = e.roller.Check("crit", critChance)
		if crit {
			modified *= e.cfg.CritMultiplier
		}
	}

	reduction := e.damageReduction(ctx.Defender, ctx.Loadout.DamageType)
	modified *= reduction

	damage := clampInt(int(modified), e.cfg.MinDamage, e.cfg.MaxDamage)

	result := DamageResult{
		Damage:          damage,
		RawDamage:       base,
		Hit:             hit,
		CriticalHit:     crit,
		HitChance:       hitChance,
		CriticalChance:  critChance,
		DamageReduction: reduction,
		Modifiers:       modifiers,
	}

	e.logger.Debug("attack resolved",
		zap.String("attacker", ctx.Attacker.Name()),
		zap.String("defender", ctx.Defender.Name()),
		zap.String("damage_type", string(ctx.Loadout.DamageType)),
		zap.Float64("raw_damage", base),
		zap.Int("damage", damage),
		zap.Bool("hit", hit),
		zap.Bool("critical", crit),
	)
	return result
}

// baseDamage computes the pre-modifier damage for ctx: stat-scaled physical
// or elemental base plus flat weapon/ability bonuses, scaled by the
// attacker's class damage multiplier. Unknown damage types fall back to a
// small constant so the formula stays total.
func (e *Engine) baseDamage(ctx AttackContext) float64 {
	stats := actor.StatsOrNeutral(ctx.Attacker)
	classMult := e.classes.DamageMultiplier(ctx.Attacker.ClassTag())

	var base float64
	switch {
	case ctx.Loadout.DamageType == DamagePhysical:
		base = e.cfg.BasePhysicalDamage +
			float64(stats.Strength)*e.cfg.StatMultiplier +
			float64(ctx.Loadout.Weapon.DamageBonus()) +
			float64(e.abilities.DamageBonus(ctx.Loadout.Ability))
	case ctx.Loadout.DamageType.IsElemental():
		base = e.cfg.BaseMagicalDamage +
			float64(stats.Intelligence)*e.cfg.StatMultiplier +
			float64(e.abilities.SpellBonus(ctx.Loadout.Ability))
	default:
		// Flat fallback, no stat scaling and no class multiplier.
		return unknownTypeBaseDamage
	}
	return base * classMult
}

// levelAdvantage returns the level-difference factor: 1 + step per level of
// difference, symmetric above and below, floored at zero so a huge deficit
// cannot flip the damage sign.
func (e *Engine) levelAdvantage(attacker, defender actor.Combatant) float64 {
	diff := attacker.Level() - defender.Level()
	factor := 1.0 + e.cfg.LevelAdvantageStep*float64(diff)
	return math.Max(factor, 0)
}

// damageReduction returns the damage-type reduction factor for defender:
// armor absorption for physical, magic absorption for elemental, and an
// extra resistance factor when the defender resists the exact type.
func (e *Engine) damageReduction(defender actor.Combatant, dt DamageType) float64 {
	var reduction float64
	if dt.IsElemental() {
		reduction = e.cfg.MagicAbsorption
	} else {
		reduction = e.cfg.ArmorAbsorption
	}
	if defender.ResistantTo(string(dt)) {
		reduction *= e.cfg.ResistanceFactor
	}
	return reduction
}
