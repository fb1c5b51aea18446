package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassRegistryDefaults(t *testing.T) {
	reg := NewClassRegistry(DefaultClasses()...)

	assert.Equal(t, 10, reg.CritBonus("rogue"))
	assert.Equal(t, 2, reg.CritBonus("warrior"))
	assert.Equal(t, 1.25, reg.DamageMultiplier("mage"))

	// Unknown tags resolve to the explicit defaults, not an error.
	assert.Equal(t, 0, reg.CritBonus("goblin"))
	assert.Equal(t, 1.0, reg.DamageMultiplier("goblin"))
	_, ok := reg.Class("goblin")
	assert.False(t, ok)
}

func TestClassRegistryRegisterOverwrites(t *testing.T) {
	reg := NewClassRegistry()
	reg.Register(&ClassDef{ID: "warrior", Name: "Warrior", CritBonus: 2, DamageMultiplier: 1.2})
	reg.Register(&ClassDef{ID: "warrior", Name: "Warrior", CritBonus: 4, DamageMultiplier: 1.3})
	assert.Equal(t, 4, reg.CritBonus("warrior"))
}

func TestClassRegistryRegisterPanics(t *testing.T) {
	reg := NewClassRegistry()
	assert.Panics(t, func() { reg.Register(nil) })
	assert.Panics(t, func() { reg.Register(&ClassDef{Name: "Nameless"}) })
}

func TestAbilityRegistryLookups(t *testing.T) {
	reg := NewAbilityRegistry(DefaultAbilities()...)

	assert.Equal(t, 8, reg.DamageBonus("Power Strike"))
	assert.Equal(t, 10, reg.SpellBonus("Firebolt"))
	assert.Equal(t, 0, reg.DamageBonus("Firebolt"))

	// Missing ability is the common case, not an error.
	assert.Equal(t, 0, reg.DamageBonus(""))
	assert.Equal(t, 0, reg.SpellBonus("Unknown Technique"))
}

func TestKeywordMultiplier(t *testing.T) {
	tests := []struct {
		ability string
		want    float64
	}{
		{"Power Strike", 1.2},
		{"Deadly Thrust", 1.3},
		{"Ultimate Cleave", 1.5},
		{"Quick Jab", 1.0},
		{"", 1.0},
		// Strongest keyword wins when several match.
		{"Ultimate Power Strike", 1.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KeywordMultiplier(tt.ability), "ability %q", tt.ability)
	}
}

func TestLoadClasses(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "necromancer.yaml"), []byte(`
id: necromancer
name: Necromancer
crit_bonus: 6
damage_multiplier: 1.35
`), 0644))

	classes, err := LoadClasses(dir)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "necromancer", classes[0].ID)
	assert.Equal(t, 6, classes[0].CritBonus)
}

func TestLoadClassesRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(`
id: broken
name: Broken
crit_bonus: 3
damage_multiplier: 0
`), 0644))

	_, err := LoadClasses(dir)
	assert.Error(t, err)
}

func TestLoadAbilities(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smite.yaml"), []byte(`
name: Holy Smite
damage_bonus: 11
spell_bonus: 5
`), 0644))

	abilities, err := LoadAbilities(dir)
	require.NoError(t, err)
	require.Len(t, abilities, 1)
	assert.Equal(t, 11, abilities[0].DamageBonus)
	assert.Equal(t, 5, abilities[0].SpellBonus)
}

func TestLoadAbilitiesMissingDir(t *testing.T) {
	_, err := LoadAbilities("/nonexistent/abilities")
	assert.Error(t, err)
}
