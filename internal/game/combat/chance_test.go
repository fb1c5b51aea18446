package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/fableforge/engine/internal/config"
	"github.com/fableforge/engine/internal/game/rng"
)

// TestHitChanceZeroModifiers: equal dex and equal level leave the base hit
// chance untouched.
func TestHitChanceZeroModifiers(t *testing.T) {
	e := newTestEngine(rng.NewSeededSource(1))
	a, b := evenFighters()

	assert.Equal(t, config.Default().Combat.Hit.Base, e.HitChance(a, b))
}

func TestHitChanceDexAndLevelModifiers(t *testing.T) {
	e := newTestEngine(rng.NewSeededSource(1))
	a := makeFighter("a", "Aldric", 15, 100, 10, 18, "")
	b := makeFighter("b", "Borin", 5, 100, 10, 10, "")

	// base 80 + (18-10)/2 + (15-5)/5 = 80 + 4 + 2 = 86
	assert.Equal(t, 86, e.HitChance(a, b))
	// Reversed: 80 + (10-18)/2 + (5-15)/5 = 80 - 4 - 2 = 74
	assert.Equal(t, 74, e.HitChance(b, a))
}

func TestCriticalChanceFormula(t *testing.T) {
	e := newTestEngine(rng.NewSeededSource(1))
	rogue := makeFighter("r", "Vex", 20, 100, 10, 18, "rogue")
	b := makeFighter("b", "Borin", 5, 100, 10, 10, "")

	// base 5 + (18-10)/4 + 20/10 + rogue 10 = 5 + 2 + 2 + 10 = 19
	assert.Equal(t, 19, e.CriticalChance(rogue, b))
}

func TestCriticalChanceLowDexNeverNegativeBonus(t *testing.T) {
	e := newTestEngine(rng.NewSeededSource(1))
	clumsy := makeFighter("c", "Clumsy", 1, 100, 10, 4, "")
	b := makeFighter("b", "Borin", 1, 100, 10, 10, "")

	// (4-10)/4 would be negative; it is floored at 0: base 5 + 0 + 0 + 0 = 5
	assert.Equal(t, 5, e.CriticalChance(clumsy, b))
}

func TestCriticalChanceUnknownClassDefaultsToZeroBonus(t *testing.T) {
	e := newTestEngine(rng.NewSeededSource(1))
	goblin := makeFighter("g", "Snag", 10, 100, 10, 10, "goblin")
	b := makeFighter("b", "Borin", 10, 100, 10, 10, "")

	// base 5 + 0 + 10/10 + 0 = 6
	assert.Equal(t, 6, e.CriticalChance(goblin, b))
}

func TestDodgeChanceFormula(t *testing.T) {
	e := newTestEngine(rng.NewSeededSource(1))
	nimble := makeFighter("n", "Nim", 16, 100, 10, 19, "")
	slow := makeFighter("s", "Slog", 4, 100, 10, 10, "")

	// base 10 + (19-10)/3 + 16/8 = 10 + 3 + 2 = 15
	assert.Equal(t, 15, e.DodgeChance(nimble, slow))
}

func TestBlockChanceWithShield(t *testing.T) {
	e := newTestEngine(rng.NewSeededSource(1))
	tank := makeFighter("t", "Thane", 20, 100, 15, 10, "warrior")
	a := makeFighter("a", "Aldric", 5, 100, 10, 10, "")

	// base 5 + 15/5 + 20/10 + 0 = 10 without a shield
	assert.Equal(t, 10, e.BlockChance(tank, a))

	tank.Armor = shieldArmor(30)
	// shield 30/10 = +3
	assert.Equal(t, 13, e.BlockChance(tank, a))
}

func TestChanceFunctionsAreIdempotent(t *testing.T) {
	e := newTestEngine(rng.NewSeededSource(1))
	a := makeFighter("a", "Aldric", 12, 100, 14, 16, "rogue")
	b := makeFighter("b", "Borin", 7, 100, 11, 9, "warrior")

	assert.Equal(t, e.HitChance(a, b), e.HitChance(a, b))
	assert.Equal(t, e.CriticalChance(a, b), e.CriticalChance(a, b))
	assert.Equal(t, e.DodgeChance(b, a), e.DodgeChance(b, a))
	assert.Equal(t, e.BlockChance(b, a), e.BlockChance(b, a))
}

func TestPropertyChancesWithinConfiguredBounds(t *testing.T) {
	cfg := config.Default().Combat
	e := newTestEngine(rng.NewSeededSource(1))

	rapid.Check(t, func(t *rapid.T) {
		a := makeFighter("a", "A",
			rapid.IntRange(1, 100).Draw(t, "a_level"), 100,
			rapid.IntRange(1, 20).Draw(t, "a_str"),
			rapid.IntRange(1, 20).Draw(t, "a_dex"), "rogue")
		b := makeFighter("b", "B",
			rapid.IntRange(1, 100).Draw(t, "b_level"), 100,
			rapid.IntRange(1, 20).Draw(t, "b_str"),
			rapid.IntRange(1, 20).Draw(t, "b_dex"), "warrior")
		b.Armor = shieldArmor(rapid.IntRange(0, 100).Draw(t, "shield"))

		checks := []struct {
			name     string
			value    int
			min, max int
		}{
			{"hit", e.HitChance(a, b), cfg.Hit.Min, cfg.Hit.Max},
			{"crit", e.CriticalChance(a, b), cfg.Crit.Min, cfg.Crit.Max},
			{"dodge", e.DodgeChance(b, a), cfg.Dodge.Min, cfg.Dodge.Max},
			{"block", e.BlockChance(b, a), cfg.Block.Min, cfg.Block.Max},
		}
		for _, c := range checks {
			if c.value < c.min || c.value > c.max {
				t.Fatalf("%s chance %d outside [%d, %d]", c.name, c.value, c.min, c.max)
			}
		}
	})
}
