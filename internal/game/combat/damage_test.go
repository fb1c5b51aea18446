package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/fableforge/engine/internal/config"
	"github.com/fableforge/engine/internal/game/actor"
	"github.com/fableforge/engine/internal/game/combat"
	"github.com/fableforge/engine/internal/game/item"
	"github.com/fableforge/engine/internal/game/rng"
	"github.com/fableforge/engine/internal/game/ruleset"
)

// TestResolveAttackPhysicalExact pins the whole physical pipeline to a
// hand-computed value: str 15, class multiplier 1.5, no weapon or ability,
// same level, forced hit, no crit, armor absorption 0.8.
//
//	base     = 5 + 15*1.5 = 27.5, *1.5 class = 41.25
//	pipeline = all factors 1.0
//	reduced  = 41.25 * 0.8 = 33.0
func TestResolveAttackPhysicalExact(t *testing.T) {
	classes := ruleset.NewClassRegistry(
		&ruleset.ClassDef{ID: "berserker", Name: "Berserker", CritBonus: 0, DamageMultiplier: 1.5},
	)
	e := combat.NewEngine(
		config.Default().Combat,
		classes,
		ruleset.NewAbilityRegistry(ruleset.DefaultAbilities()...),
		&scriptSrc{vals: []int{rollLow, rollHigh}}, // hit succeeds, crit fails
		zap.NewNop(),
	)

	attacker := makeFighter("a", "Ursa", 5, 100, 15, 10, "berserker")
	defender := makeFighter("b", "Borin", 5, 100, 10, 10, "")

	result := e.ResolveAttack(combat.AttackContext{
		Attacker: attacker,
		Defender: defender,
		Loadout:  combat.Loadout{DamageType: combat.DamagePhysical},
	})

	assert.True(t, result.Hit)
	assert.False(t, result.CriticalHit)
	assert.Equal(t, 41.25, result.RawDamage)
	assert.Equal(t, 0.8, result.DamageReduction)
	assert.Equal(t, 33, result.Damage)
}

func TestResolveAttackElementalUsesIntelligence(t *testing.T) {
	e := newTestEngine(&scriptSrc{vals: []int{rollLow, rollHigh}})
	mage := makeFighter("m", "Lyra", 5, 100, 10, 10, "mage")
	mage.Base.Intelligence = 16
	defender := makeFighter("b", "Borin", 5, 100, 10, 10, "")

	result := e.ResolveAttack(combat.AttackContext{
		Attacker: mage,
		Defender: defender,
		Loadout:  combat.Loadout{Ability: "Firebolt", DamageType: combat.DamageFire},
	})

	// base = 8 + 16*1.5 + spell 10 = 42, * mage 1.25 = 52.5
	assert.Equal(t, 52.5, result.RawDamage)
	// magic absorption 0.9: 52.5 * 0.9 = 47.25 -> 47
	assert.Equal(t, 47, result.Damage)
}

func TestResolveAttackUnknownTypeFallsBack(t *testing.T) {
	e := newTestEngine(&scriptSrc{vals: []int{rollLow, rollHigh}})
	a, b := evenFighters()
	a.Class = "mage" // class multiplier must not scale the flat fallback

	result := e.ResolveAttack(combat.AttackContext{
		Attacker: a,
		Defender: b,
		Loadout:  combat.Loadout{DamageType: combat.DamageType("psychic")},
	})

	assert.Equal(t, 10.0, result.RawDamage)
	// armor absorption 0.8: 10 * 0.8 = 8
	assert.Equal(t, 8, result.Damage)
}

func TestResolveAttackCriticalMultiplies(t *testing.T) {
	normal := newTestEngine(&scriptSrc{vals: []int{rollLow, rollHigh}})
	critical := newTestEngine(&scriptSrc{vals: []int{rollLow, rollLow}})
	a, b := evenFighters()
	ctx := combat.AttackContext{Attacker: a, Defender: b, Loadout: combat.Loadout{DamageType: combat.DamagePhysical}}

	plain := normal.ResolveAttack(ctx)
	crit := critical.ResolveAttack(ctx)

	require.True(t, plain.Hit)
	require.True(t, crit.CriticalHit)
	// crit multiplier 2.0: (5 + 10*1.5) * 0.8 = 16 vs 32
	assert.Equal(t, 16, plain.Damage)
	assert.Equal(t, 32, crit.Damage)
}

func TestResolveAttackMissStillComputesDamage(t *testing.T) {
	e := newTestEngine(&scriptSrc{vals: []int{rollHigh}})
	a, b := evenFighters()

	result := e.ResolveAttack(combat.AttackContext{
		Attacker: a,
		Defender: b,
		Loadout:  combat.Loadout{DamageType: combat.DamagePhysical},
	})

	assert.False(t, result.Hit)
	assert.False(t, result.CriticalHit, "critical is only rolled on a hit")
	assert.Greater(t, result.Damage, 0, "computed damage stays visible on a miss")
}

func TestResolveAttackWeaponBonusesAndRarity(t *testing.T) {
	legendary := &item.Weapon{
		ID: "doombrand", Name: "Doombrand", Rarity: item.RarityLegendary,
		StatsMod: map[string]int{item.ModDamage: 10},
	}
	common := &item.Weapon{
		ID: "rustblade", Name: "Rustblade", Rarity: item.RarityCommon,
		StatsMod: map[string]int{item.ModDamage: 10},
	}

	resolve := func(w *item.Weapon) combat.DamageResult {
		e := newTestEngine(&scriptSrc{vals: []int{rollLow, rollHigh}})
		a, b := evenFighters()
		return e.ResolveAttack(combat.AttackContext{
			Attacker: a, Defender: b,
			Loadout: combat.Loadout{Weapon: w, DamageType: combat.DamagePhysical},
		})
	}

	lr := resolve(legendary)
	cr := resolve(common)

	// Identical rolls and stats: only the quality factor differs.
	assert.Equal(t, lr.RawDamage, cr.RawDamage)
	assert.Equal(t, 1.3, lr.Modifiers[combat.ModifierWeaponQuality])
	assert.Equal(t, 1.0, cr.Modifiers[combat.ModifierWeaponQuality])
	assert.Greater(t, lr.Damage, cr.Damage)
}

func TestResolveAttackAbilityKeywordAndBonus(t *testing.T) {
	e := newTestEngine(&scriptSrc{vals: []int{rollLow, rollHigh}})
	a, b := evenFighters()

	result := e.ResolveAttack(combat.AttackContext{
		Attacker: a, Defender: b,
		Loadout: combat.Loadout{Ability: "Ultimate Cleave", DamageType: combat.DamagePhysical},
	})

	// base = 5 + 10*1.5 + ability 20 = 40
	assert.Equal(t, 40.0, result.RawDamage)
	assert.Equal(t, 1.5, result.Modifiers[combat.ModifierAbilityBonus])
	assert.Equal(t, 1.5, result.TotalModifier(), "only the keyword factor differs from 1.0")
	// 40 * 1.5 * 0.8 = 48
	assert.Equal(t, 48, result.Damage)
}

// TestTotalModifierMultipliesInPipelineOrder pins the factor sequence.
// Float multiplication is not associative, so the product must not depend on
// map iteration order; repeated calls have to agree bit for bit.
func TestTotalModifierMultipliesInPipelineOrder(t *testing.T) {
	r := combat.DamageResult{Modifiers: map[string]float64{
		combat.ModifierLevelAdvantage: 1.25,
		combat.ModifierWeaponQuality:  1.3,
		combat.ModifierAbilityBonus:   1.5,
		combat.ModifierTerrain:        1.0,
		combat.ModifierWeather:        1.0,
		combat.ModifierScript:         1.1,
	}}

	want := 1.0
	for _, f := range []float64{1.25, 1.3, 1.5, 1.0, 1.0, 1.1} {
		want *= f
	}
	for i := 0; i < 64; i++ {
		assert.Equal(t, want, r.TotalModifier())
	}
}

func TestResolveAttackSeedReplayIsDeterministic(t *testing.T) {
	// Several non-unit factors at once: level advantage 1.25, legendary
	// quality 1.3, Ultimate keyword 1.5.
	resolve := func() combat.DamageResult {
		e := newTestEngine(rng.NewSeededSource(42))
		attacker := makeFighter("a", "High", 10, 100, 15, 10, "mage")
		defender := makeFighter("d", "Low", 5, 100, 10, 10, "")
		weapon := &item.Weapon{
			ID: "doombrand", Name: "Doombrand", Rarity: item.RarityLegendary,
			StatsMod: map[string]int{item.ModDamage: 10},
		}
		return e.ResolveAttack(combat.AttackContext{
			Attacker: attacker, Defender: defender,
			Loadout: combat.Loadout{Weapon: weapon, Ability: "Ultimate Cleave", DamageType: combat.DamagePhysical},
		})
	}

	first := resolve()
	for i := 0; i < 32; i++ {
		assert.Equal(t, first, resolve())
	}
}

func TestResolveAttackResistanceStacksOnAbsorption(t *testing.T) {
	e := newTestEngine(&scriptSrc{vals: []int{rollLow, rollHigh}})
	a, b := evenFighters()
	b.Resistances = []string{"fire"}

	result := e.ResolveAttack(combat.AttackContext{
		Attacker: a, Defender: b,
		Loadout: combat.Loadout{DamageType: combat.DamageFire},
	})

	// magic absorption 0.9 * resistance 0.5 = 0.45
	assert.InDelta(t, 0.45, result.DamageReduction, 1e-9)
}

func TestResolveAttackLevelAdvantageSymmetric(t *testing.T) {
	e := newTestEngine(&scriptSrc{vals: []int{rollLow, rollHigh}})
	high := makeFighter("h", "High", 20, 100, 10, 10, "")
	low := makeFighter("l", "Low", 10, 100, 10, 10, "")

	up := e.ResolveAttack(combat.AttackContext{Attacker: high, Defender: low, Loadout: combat.Loadout{DamageType: combat.DamagePhysical}})
	down := e.ResolveAttack(combat.AttackContext{Attacker: low, Defender: high, Loadout: combat.Loadout{DamageType: combat.DamagePhysical}})

	assert.InDelta(t, 1.5, up.Modifiers[combat.ModifierLevelAdvantage], 1e-9)
	assert.InDelta(t, 0.5, down.Modifiers[combat.ModifierLevelAdvantage], 1e-9)
}

func TestResolveAttackNeutralStatsFallback(t *testing.T) {
	e := newTestEngine(&scriptSrc{vals: []int{rollLow, rollHigh}})
	hollow := &actor.Snapshot{UID: "x", CharName: "Hollow", CharLevel: 5, CurrentHP: 50, MaximumHP: 50}
	_, b := evenFighters()

	result := e.ResolveAttack(combat.AttackContext{
		Attacker: hollow, Defender: b,
		Loadout: combat.Loadout{DamageType: combat.DamagePhysical},
	})

	// Neutral strength 10: base = 5 + 10*1.5 = 20
	assert.Equal(t, 20.0, result.RawDamage)
}

func TestPropertyDamageAlwaysClamped(t *testing.T) {
	cfg := config.Default().Combat

	rapid.Check(t, func(t *rapid.T) {
		e := newTestEngine(rng.NewSeededSource(rapid.Int64().Draw(t, "seed")))
		a := makeFighter("a", "A",
			rapid.IntRange(1, 100).Draw(t, "a_level"), 100,
			rapid.IntRange(1, 20).Draw(t, "a_str"),
			rapid.IntRange(1, 20).Draw(t, "a_dex"), "mage")
		b := makeFighter("b", "B",
			rapid.IntRange(1, 100).Draw(t, "b_level"), 100,
			rapid.IntRange(1, 20).Draw(t, "b_str"),
			rapid.IntRange(1, 20).Draw(t, "b_dex"), "")
		weapon := &item.Weapon{
			ID: "w", Name: "W", Rarity: item.RarityLegendary,
			StatsMod: map[string]int{item.ModDamage: rapid.IntRange(0, 500).Draw(t, "weapon_damage")},
		}
		dt := combat.DamageType(rapid.SampledFrom([]string{
			"physical", "fire", "ice", "lightning", "holy", "dark", "void",
		}).Draw(t, "damage_type"))

		result := e.ResolveAttack(combat.AttackContext{
			Attacker: a, Defender: b,
			Loadout: combat.Loadout{Weapon: weapon, Ability: "Ultimate Cleave", DamageType: dt},
		})
		if result.Damage < cfg.MinDamage || result.Damage > cfg.MaxDamage {
			t.Fatalf("damage %d outside [%d, %d]", result.Damage, cfg.MinDamage, cfg.MaxDamage)
		}
	})
}
