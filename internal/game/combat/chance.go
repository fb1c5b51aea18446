package combat

import "github.com/fableforge/engine/internal/game/actor"

// Chance formulas. Each function is pure: identical inputs always yield the
// identical percentage, and every result is clamped to its configured range.
// Integer division truncates toward zero; operands are non-negative after
// clamping, so this matches flooring for all reachable values.

// HitChance returns the attacker's chance to land an attack on defender.
//
// Formula: base + (atk.dex - def.dex)/2 + (atk.level - def.level)/5.
// Postcondition: cfg.Hit.Min <= result <= cfg.Hit.Max.
func (e *Engine) HitChance(attacker, defender actor.Combatant) int {
	as := actor.StatsOrNeutral(attacker)
	ds := actor.StatsOrNeutral(defender)
	chance := e.cfg.Hit.Base +
		(as.Dexterity-ds.Dexterity)/2 +
		(attacker.Level()-defender.Level())/5
	return clampInt(chance, e.cfg.Hit.Min, e.cfg.Hit.Max)
}

// CriticalChance returns the attacker's chance to turn a hit into a critical.
//
// Formula: base + max(0, (atk.dex-10)/4) + atk.level/10 + classCritBonus.
// Unknown class tags contribute 0.
// Postcondition: cfg.Crit.Min <= result <= cfg.Crit.Max.
func (e *Engine) CriticalChance(attacker, defender actor.Combatant) int {
	as := actor.StatsOrNeutral(attacker)
	dexBonus := (as.Dexterity - 10) / 4
	if dexBonus < 0 {
		dexBonus = 0
	}
	chance := e.cfg.Crit.Base +
		dexBonus +
		attacker.Level()/10 +
		e.classes.CritBonus(attacker.ClassTag())
	return clampInt(chance, e.cfg.Crit.Min, e.cfg.Crit.Max)
}

// DodgeChance returns the defender's chance to dodge an attack from attacker.
//
// Formula: base + (def.dex - atk.dex)/3 + def.level/8.
// Postcondition: cfg.Dodge.Min <= result <= cfg.Dodge.Max.
func (e *Engine) DodgeChance(defender, attacker actor.Combatant) int {
	ds := actor.StatsOrNeutral(defender)
	as := actor.StatsOrNeutral(attacker)
	chance := e.cfg.Dodge.Base +
		(ds.Dexterity-as.Dexterity)/3 +
		defender.Level()/8
	return clampInt(chance, e.cfg.Dodge.Min, e.cfg.Dodge.Max)
}

// BlockChance returns the defender's chance to block an attack from attacker.
// Shield-tagged armor contributes a tenth of its defense bonus; no shield
// contributes nothing.
//
// Formula: base + def.str/5 + def.level/10 + shieldBonus/10.
// Postcondition: cfg.Block.Min <= result <= cfg.Block.Max.
func (e *Engine) BlockChance(defender, attacker actor.Combatant) int {
	ds := actor.StatsOrNeutral(defender)
	chance := e.cfg.Block.Base +
		ds.Strength/5 +
		defender.Level()/10 +
		defender.ShieldBonus()/10
	return clampInt(chance, e.cfg.Block.Min, e.cfg.Block.Max)
}
