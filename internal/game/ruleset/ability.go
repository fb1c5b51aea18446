package ruleset

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// AbilityDef defines the flat damage bonuses an ability contributes.
// DamageBonus feeds physical attacks; SpellBonus feeds elemental attacks.
type AbilityDef struct {
	Name string `yaml:"name"`
	// DamageBonus is added flat to physical base damage.
	DamageBonus int `yaml:"damage_bonus"`
	// SpellBonus is added flat to elemental base damage.
	SpellBonus int `yaml:"spell_bonus"`
}

// Validate checks that the AbilityDef satisfies its invariants.
//
// Precondition: a is non-nil.
// Postcondition: Returns nil iff all fields are valid.
func (a *AbilityDef) Validate() error {
	var errs []error
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.DamageBonus < 0 {
		errs = append(errs, fmt.Errorf("damage_bonus must be >= 0, got %d", a.DamageBonus))
	}
	if a.SpellBonus < 0 {
		errs = append(errs, fmt.Errorf("spell_bonus must be >= 0, got %d", a.SpellBonus))
	}
	if len(errs) > 0 {
		return fmt.Errorf("ability validation failed: %v", errs)
	}
	return nil
}

// AbilityRegistry provides ability bonus lookups keyed by ability name.
// An unknown or empty ability name contributes nothing; attacks without an
// ability are the common case, not an error.
type AbilityRegistry struct {
	abilities map[string]*AbilityDef
}

// NewAbilityRegistry returns a registry seeded with defs.
//
// Precondition: every def must be non-nil with a non-empty Name.
// Postcondition: Returns a non-nil registry; duplicate names keep the last def.
func NewAbilityRegistry(defs ...*AbilityDef) *AbilityRegistry {
	r := &AbilityRegistry{abilities: make(map[string]*AbilityDef)}
	for _, d := range defs {
		r.Register(d)
	}
	return r
}

// Register adds an AbilityDef to the registry.
//
// Precondition: def must be non-nil with a non-empty Name.
// Postcondition: def is retrievable by Name; re-registering a name overwrites.
func (r *AbilityRegistry) Register(def *AbilityDef) {
	if def == nil {
		panic("AbilityRegistry.Register: precondition violated: def must be non-nil")
	}
	if def.Name == "" {
		panic("AbilityRegistry.Register: precondition violated: def Name must be non-empty")
	}
	r.abilities[def.Name] = def
}

// DamageBonus returns the flat physical damage bonus for ability.
//
// Postcondition: Returns 0 for unknown or empty ability names.
func (r *AbilityRegistry) DamageBonus(ability string) int {
	if a, ok := r.abilities[ability]; ok {
		return a.DamageBonus
	}
	return 0
}

// SpellBonus returns the flat elemental damage bonus for ability.
//
// Postcondition: Returns 0 for unknown or empty ability names.
func (r *AbilityRegistry) SpellBonus(ability string) int {
	if a, ok := r.abilities[ability]; ok {
		return a.SpellBonus
	}
	return 0
}

// KeywordMultiplier returns the multiplicative ability factor derived from
// keywords in the ability name. Stronger keywords win when several match.
//
// Postcondition: Returns one of 1.0, 1.2, 1.3, 1.5.
func KeywordMultiplier(ability string) float64 {
	switch {
	case strings.Contains(ability, "Ultimate"):
		return 1.5
	case strings.Contains(ability, "Deadly"):
		return 1.3
	case strings.Contains(ability, "Power"):
		return 1.2
	default:
		return 1.0
	}
}

// DefaultAbilities returns the built-in ability table used when no content
// directory overrides it.
func DefaultAbilities() []*AbilityDef {
	return []*AbilityDef{
		{Name: "Power Strike", DamageBonus: 8},
		{Name: "Deadly Thrust", DamageBonus: 12},
		{Name: "Ultimate Cleave", DamageBonus: 20},
		{Name: "Firebolt", SpellBonus: 10},
		{Name: "Ice Lance", SpellBonus: 9},
		{Name: "Power Surge", SpellBonus: 14},
		{Name: "Ultimate Storm", SpellBonus: 22},
	}
}

// LoadAbilities reads all *.yaml files in dir and parses each as an AbilityDef.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed abilities (may be empty slice) or a non-nil error.
func LoadAbilities(dir string) ([]*AbilityDef, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	abilities := make([]*AbilityDef, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var a AbilityDef
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("parsing ability file %s: %w", path, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("invalid ability in %s: %w", path, err)
		}
		abilities = append(abilities, &a)
	}
	return abilities, nil
}
