// Package actor defines the minimal read/write view of a combat participant.
// Characters and enemies are owned by calling systems; the engine sees them
// only through the Combatant interface and mutates nothing except HP.
package actor

import (
	"fmt"

	"github.com/fableforge/engine/internal/game/item"
)

// Stats is the six-stat block shared by every combatant. Each value is
// expected in [1, 20] before equipment bonuses.
type Stats struct {
	Strength     int
	Dexterity    int
	Intelligence int
	Wisdom       int
	Charisma     int
	Constitution int
}

// IsZero reports whether the block is entirely unset, the marker for a
// malformed snapshot from a caller.
func (s Stats) IsZero() bool {
	return s == Stats{}
}

// Neutral returns the fallback stat block: 10 in every stat. Formulas stay
// total when a caller hands the engine a combatant with no stats; callers
// that want strictness should validate before simulating.
func Neutral() Stats {
	return Stats{
		Strength:     10,
		Dexterity:    10,
		Intelligence: 10,
		Wisdom:       10,
		Charisma:     10,
		Constitution: 10,
	}
}

// Stat bonus keys accepted in equipment stat mappings.
const (
	StatStrength     = "strength"
	StatDexterity    = "dexterity"
	StatIntelligence = "intelligence"
	StatWisdom       = "wisdom"
	StatCharisma     = "charisma"
	StatConstitution = "constitution"
)

// Combatant is the engine's polymorphic view of any combat participant,
// player character or enemy. Implementations adapt the caller's concrete
// model; SetHP is the only mutation the engine ever performs.
type Combatant interface {
	// ID returns a stable identifier for the combatant.
	ID() string
	// Name returns the display name used in round messages.
	Name() string
	// Level returns the combatant level, expected in [1, 100].
	Level() int
	// HP returns current hit points in [0, MaxHP].
	HP() int
	// MaxHP returns maximum hit points, > 0.
	MaxHP() int
	// SetHP overwrites current hit points. Implementations clamp to [0, MaxHP].
	SetHP(hp int)
	// Stats returns the effective stat block with equipped bonuses folded in.
	Stats() Stats
	// ClassTag returns the class or enemy-type tag used for class-specific
	// crit bonus and damage multiplier lookups. Unknown tags resolve to defaults.
	ClassTag() string
	// ShieldBonus returns the defense bonus of equipped shield-tagged armor, 0 if none.
	ShieldBonus() int
	// ResistantTo reports whether the combatant declares resistance to the
	// exact damage type tag.
	ResistantTo(damageType string) bool
	// IsAlive reports whether HP > 0.
	IsAlive() bool
}

// StatsOrNeutral returns c's effective stats, substituting the neutral block
// when the snapshot carries no stats at all. This keeps every formula defined
// for malformed input; it is a documented leniency, not a data guarantee.
func StatsOrNeutral(c Combatant) Stats {
	s := c.Stats()
	if s.IsZero() {
		return Neutral()
	}
	return s
}

// Snapshot is the concrete Combatant adapter for callers that have plain
// data rather than their own model: a borrowed view whose only engine-visible
// mutation is the HP field.
type Snapshot struct {
	UID       string
	CharName  string
	CharLevel int
	CurrentHP int
	MaximumHP int
	Base      Stats
	Class     string
	// EquipBonuses holds additive stat bonuses derived from equipped items,
	// keyed by the Stat* constants.
	EquipBonuses map[string]int
	// Armor is the set of equipped armor pieces; shields feed block chance.
	Armor []*item.Armor
	// Resistances lists damage type tags this combatant resists.
	Resistances []string
}

var _ Combatant = (*Snapshot)(nil)

// ID implements Combatant.
func (s *Snapshot) ID() string { return s.UID }

// Name implements Combatant.
func (s *Snapshot) Name() string { return s.CharName }

// Level implements Combatant.
func (s *Snapshot) Level() int { return s.CharLevel }

// HP implements Combatant.
func (s *Snapshot) HP() int { return s.CurrentHP }

// MaxHP implements Combatant.
func (s *Snapshot) MaxHP() int { return s.MaximumHP }

// SetHP overwrites current HP, clamped to [0, MaxHP].
//
// Postcondition: 0 <= HP() <= MaxHP().
func (s *Snapshot) SetHP(hp int) {
	if hp < 0 {
		hp = 0
	}
	if hp > s.MaximumHP {
		hp = s.MaximumHP
	}
	s.CurrentHP = hp
}

// Stats returns the base block with equipped bonuses folded in. A zero base
// block stays zero so that StatsOrNeutral can detect malformed snapshots.
func (s *Snapshot) Stats() Stats {
	if s.Base.IsZero() {
		return s.Base
	}
	out := s.Base
	out.Strength += s.EquipBonuses[StatStrength]
	out.Dexterity += s.EquipBonuses[StatDexterity]
	out.Intelligence += s.EquipBonuses[StatIntelligence]
	out.Wisdom += s.EquipBonuses[StatWisdom]
	out.Charisma += s.EquipBonuses[StatCharisma]
	out.Constitution += s.EquipBonuses[StatConstitution]
	return out
}

// ClassTag implements Combatant.
func (s *Snapshot) ClassTag() string { return s.Class }

// ShieldBonus implements Combatant by inspecting equipped armor.
func (s *Snapshot) ShieldBonus() int { return item.ShieldBonus(s.Armor) }

// ResistantTo implements Combatant.
func (s *Snapshot) ResistantTo(damageType string) bool {
	for _, r := range s.Resistances {
		if r == damageType {
			return true
		}
	}
	return false
}

// IsAlive implements Combatant.
func (s *Snapshot) IsAlive() bool { return s.CurrentHP > 0 }

// Validate checks the snapshot against the engine's input contract: level in
// [1, 100], MaxHP > 0, HP in [0, MaxHP], and every base stat in [1, 20].
//
// Postcondition: Returns nil iff the snapshot is a valid combat participant.
func (s *Snapshot) Validate() error {
	if s.CharName == "" {
		return fmt.Errorf("combatant %q: name must not be empty", s.UID)
	}
	if s.CharLevel < 1 || s.CharLevel > 100 {
		return fmt.Errorf("combatant %q: level must be 1-100, got %d", s.CharName, s.CharLevel)
	}
	if s.MaximumHP <= 0 {
		return fmt.Errorf("combatant %q: max HP must be > 0, got %d", s.CharName, s.MaximumHP)
	}
	if s.CurrentHP < 0 || s.CurrentHP > s.MaximumHP {
		return fmt.Errorf("combatant %q: HP must be 0-%d, got %d", s.CharName, s.MaximumHP, s.CurrentHP)
	}
	for _, st := range []struct {
		name  string
		value int
	}{
		{StatStrength, s.Base.Strength},
		{StatDexterity, s.Base.Dexterity},
		{StatIntelligence, s.Base.Intelligence},
		{StatWisdom, s.Base.Wisdom},
		{StatCharisma, s.Base.Charisma},
		{StatConstitution, s.Base.Constitution},
	} {
		if st.value < 1 || st.value > 20 {
			return fmt.Errorf("combatant %q: %s must be 1-20, got %d", s.CharName, st.name, st.value)
		}
	}
	return nil
}
