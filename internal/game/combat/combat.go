// Package combat implements the combat resolution engine: chance and damage
// calculation for a single attack, round-by-round simulation of an exchange,
// and aggregation of a full engagement into an outcome record. The engine
// borrows combatant views from callers, mutates only their HP, and returns
// engine-owned result records.
package combat

import (
	"errors"

	"go.uber.org/zap"

	"github.com/fableforge/engine/internal/config"
	"github.com/fableforge/engine/internal/game/actor"
	"github.com/fableforge/engine/internal/game/item"
	"github.com/fableforge/engine/internal/game/rng"
	"github.com/fableforge/engine/internal/game/ruleset"
)

// DamageType tags the kind of damage an attack deals.
type DamageType string

const (
	DamagePhysical  DamageType = "physical"
	DamageFire      DamageType = "fire"
	DamageIce       DamageType = "ice"
	DamageLightning DamageType = "lightning"
	DamageHoly      DamageType = "holy"
	DamageDark      DamageType = "dark"
)

// IsElemental reports whether t is one of the elemental damage types.
func (t DamageType) IsElemental() bool {
	switch t {
	case DamageFire, DamageIce, DamageLightning, DamageHoly, DamageDark:
		return true
	default:
		return false
	}
}

// Known reports whether t is a recognized damage type. Unknown types fall
// back to a small constant base damage rather than failing.
func (t DamageType) Known() bool {
	return t == DamagePhysical || t.IsElemental()
}

// unknownTypeBaseDamage is the base damage for unrecognized damage type tags.
const unknownTypeBaseDamage = 10.0

// Validation errors surfaced before any simulation starts. A malformed combat
// request is a programming error in the caller, never retried.
var (
	// ErrNilCombatant is returned when an engagement is missing a participant.
	ErrNilCombatant = errors.New("combat: engagement requires two non-nil combatants")
	// ErrSameCombatant is returned when both participants are the same view.
	ErrSameCombatant = errors.New("combat: a combatant cannot fight itself")
	// ErrInvalidRoundCap is returned for a non-positive round cap.
	ErrInvalidRoundCap = errors.New("combat: round cap must be positive")
)

// DamageHook is an optional extension point for content-scripted damage
// modifiers. Implementations return an extra multiplicative factor and true,
// or false when no hook applies.
type DamageHook interface {
	DamageModifier(attacker, defender actor.Combatant, ability string, damageType string) (float64, bool)
}

// Loadout carries the optional per-attack context of one side: an equipped
// weapon, a named ability, and the damage type dealt. All fields are
// optional; the zero value is an unarmed physical attack.
type Loadout struct {
	Weapon     *item.Weapon
	Ability    string
	DamageType DamageType
}

// Participant pairs a combatant view with its attack loadout for an engagement.
type Participant struct {
	Combatant actor.Combatant
	Loadout   Loadout
}

// Engine resolves attacks, rounds, and full engagements. It holds only fixed
// tables and an injected randomness source; all combatant state belongs to
// callers. An Engine is not safe for concurrent invocation against the same
// combatant pair; it assumes exclusive ownership of the combatants for the
// duration of a call.
type Engine struct {
	cfg       config.CombatConfig
	classes   *ruleset.ClassRegistry
	abilities *ruleset.AbilityRegistry
	roller    *rng.Roller
	logger    *zap.Logger
	hook      DamageHook
}

// NewEngine creates an Engine with the given constant tables and roll source.
//
// Precondition: classes, abilities, src, and logger must be non-nil;
// cfg must have passed config validation.
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(cfg config.CombatConfig, classes *ruleset.ClassRegistry, abilities *ruleset.AbilityRegistry, src rng.Source, logger *zap.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		classes:   classes,
		abilities: abilities,
		roller:    rng.NewRoller(src, logger),
		logger:    logger,
	}
}

// SetDamageHook installs a scripted damage modifier hook. A nil hook disables
// the script factor (it stays 1.0).
func (e *Engine) SetDamageHook(h DamageHook) {
	e.hook = h
}

// clampInt clamps v to [lo, hi].
func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
