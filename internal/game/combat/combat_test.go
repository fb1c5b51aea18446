package combat_test

import (
	"go.uber.org/zap"

	"github.com/fableforge/engine/internal/config"
	"github.com/fableforge/engine/internal/game/actor"
	"github.com/fableforge/engine/internal/game/combat"
	"github.com/fableforge/engine/internal/game/item"
	"github.com/fableforge/engine/internal/game/rng"
	"github.com/fableforge/engine/internal/game/ruleset"
)

// scriptSrc is a deterministic Source for testing. It replays vals in order,
// cycling when exhausted; each value is reduced mod n so scripts can use
// 0 (roll of 1, always under any clamped chance) and 99 (roll of 100,
// always over any clamped chance).
type scriptSrc struct {
	vals []int
	i    int
}

func (s *scriptSrc) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

// Script roll values: low always succeeds a percent check, high always fails
// one (chances are clamped below 100).
const (
	rollLow  = 0  // Percent() == 1
	rollHigh = 99 // Percent() == 100
)

func newTestEngine(src rng.Source) *combat.Engine {
	return combat.NewEngine(
		config.Default().Combat,
		ruleset.NewClassRegistry(ruleset.DefaultClasses()...),
		ruleset.NewAbilityRegistry(ruleset.DefaultAbilities()...),
		src,
		zap.NewNop(),
	)
}

// makeFighter builds a valid snapshot with the given knobs and 10s elsewhere.
func makeFighter(id, name string, level, hp, str, dex int, class string) *actor.Snapshot {
	return &actor.Snapshot{
		UID:       id,
		CharName:  name,
		CharLevel: level,
		CurrentHP: hp,
		MaximumHP: hp,
		Base: actor.Stats{
			Strength:     str,
			Dexterity:    dex,
			Intelligence: 10,
			Wisdom:       10,
			Charisma:     10,
			Constitution: 10,
		},
		Class: class,
	}
}

// shieldArmor returns a single shield piece with the given defense bonus.
func shieldArmor(defense int) []*item.Armor {
	return []*item.Armor{
		{ID: "shield", Name: "Shield", Type: item.ArmorTypeShield, StatsMod: map[string]int{item.ModDefense: defense}},
	}
}

func evenFighters() (*actor.Snapshot, *actor.Snapshot) {
	a := makeFighter("a", "Aldric", 5, 100, 10, 10, "")
	b := makeFighter("b", "Borin", 5, 100, 10, 10, "")
	return a, b
}
