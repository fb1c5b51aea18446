package combat

import (
	"fmt"

	"github.com/fableforge/engine/internal/game/actor"
)

// validateCombatant checks one combatant view against the engine's input
// contract: level in [1, 100], MaxHP > 0, HP in [0, MaxHP], and every
// effective stat positive. Stats() already has additive equipment bonuses
// folded in, so the 1-20 bound on base stats is not enforceable here; that
// check belongs to the snapshot's own Validate, before equipment. An
// entirely unset stat block is tolerated and resolves to the neutral
// default, so callers may hand the engine bare views; stricter callers
// validate their snapshots beforehand.
func validateCombatant(c actor.Combatant) error {
	if c.Level() < 1 || c.Level() > 100 {
		return fmt.Errorf("combat: combatant %q: level must be 1-100, got %d", c.Name(), c.Level())
	}
	if c.MaxHP() <= 0 {
		return fmt.Errorf("combat: combatant %q: max HP must be > 0, got %d", c.Name(), c.MaxHP())
	}
	if c.HP() < 0 || c.HP() > c.MaxHP() {
		return fmt.Errorf("combat: combatant %q: HP must be 0-%d, got %d", c.Name(), c.MaxHP(), c.HP())
	}

	stats := c.Stats()
	if stats.IsZero() {
		return nil
	}
	for _, st := range []struct {
		name  string
		value int
	}{
		{"strength", stats.Strength},
		{"dexterity", stats.Dexterity},
		{"intelligence", stats.Intelligence},
		{"wisdom", stats.Wisdom},
		{"charisma", stats.Charisma},
		{"constitution", stats.Constitution},
	} {
		if st.value < 1 {
			return fmt.Errorf("combat: combatant %q: %s must be positive, got %d", c.Name(), st.name, st.value)
		}
	}
	return nil
}
