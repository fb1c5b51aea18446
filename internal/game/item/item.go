// Package item defines the equipment surface the combat engine consumes:
// weapons with rarity and stat modifiers, and armor pieces whose defense
// and shield bonuses feed the block and reduction formulas. Item generation
// itself belongs to calling systems; this package only describes items.
package item

import (
	"errors"
	"fmt"
)

// Rarity is the quality tier of a weapon.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// validRarities is the set of legal Rarity values.
var validRarities = map[Rarity]bool{
	RarityCommon:    true,
	RarityUncommon:  true,
	RarityRare:      true,
	RarityEpic:      true,
	RarityLegendary: true,
}

// QualityMultiplier returns the damage factor contributed by the weapon's tier.
// Unknown tiers resolve to 1.0, the same as common gear.
//
// Postcondition: Returns a value >= 1.0.
func (r Rarity) QualityMultiplier() float64 {
	switch r {
	case RarityRare:
		return 1.1
	case RarityEpic:
		return 1.2
	case RarityLegendary:
		return 1.3
	default:
		return 1.0
	}
}

// Stat mod keys recognized by the combat engine.
const (
	ModDamage  = "damage"
	ModDefense = "defense"
)

// ArmorType values with engine-visible behavior. Other types are carried
// through untouched; only shields feed the block formula.
const (
	ArmorTypeShield = "shield"
)

// Weapon is the static definition of an equippable weapon.
type Weapon struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Rarity Rarity `yaml:"rarity"`
	// StatsMod holds additive modifiers keyed by stat name. The "damage"
	// key is the flat weapon damage bonus; other keys fold into the
	// wielder's effective stats.
	StatsMod map[string]int `yaml:"stats_mod"`
}

// DamageBonus returns the weapon's flat damage contribution, 0 when absent.
func (w *Weapon) DamageBonus() int {
	if w == nil {
		return 0
	}
	return w.StatsMod[ModDamage]
}

// QualityFactor returns the damage multiplier of the weapon's rarity tier.
// An absent weapon contributes the neutral 1.0.
func (w *Weapon) QualityFactor() float64 {
	if w == nil {
		return 1.0
	}
	return w.Rarity.QualityMultiplier()
}

// Validate checks that the Weapon satisfies its invariants.
//
// Precondition: w is non-nil.
// Postcondition: Returns nil iff all fields are valid.
func (w *Weapon) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !validRarities[w.Rarity] {
		errs = append(errs, fmt.Errorf("rarity %q is not a valid rarity", w.Rarity))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %v", errs)
	}
	return nil
}

// Armor is the static definition of an equippable armor piece.
type Armor struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// Type tags the armor slot or kind; "shield" pieces contribute their
	// defense modifier to the wearer's block chance.
	Type string `yaml:"type"`
	// StatsMod holds additive modifiers keyed by stat name.
	StatsMod map[string]int `yaml:"stats_mod"`
}

// IsShield reports whether this armor piece counts as a shield.
func (a *Armor) IsShield() bool {
	return a != nil && a.Type == ArmorTypeShield
}

// DefenseBonus returns the armor's defense modifier, 0 when absent.
func (a *Armor) DefenseBonus() int {
	if a == nil {
		return 0
	}
	return a.StatsMod[ModDefense]
}

// Validate checks that the Armor satisfies its invariants.
//
// Precondition: a is non-nil.
// Postcondition: Returns nil iff all fields are valid.
func (a *Armor) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.Type == "" {
		errs = append(errs, errors.New("type must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor validation failed: %v", errs)
	}
	return nil
}

// ShieldBonus sums the defense modifiers of all shield-typed pieces in armor.
// Absence of any shield yields 0.
//
// Postcondition: Returns >= 0 for well-formed content (negative mods pass through).
func ShieldBonus(armor []*Armor) int {
	total := 0
	for _, a := range armor {
		if a.IsShield() {
			total += a.DefenseBonus()
		}
	}
	return total
}
