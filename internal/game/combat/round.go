package combat

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// RoundRecord is the engine-owned record of one attacker→defender exchange.
type RoundRecord struct {
	// Round is the 1-based round number within an engagement (0 for a
	// standalone exchange).
	Round int

	AttackerID   string
	AttackerName string
	DefenderID   string
	DefenderName string

	// Pre/post HP snapshots. The defender's HP is the only state the
	// simulator mutates.
	AttackerHPBefore int
	AttackerHPAfter  int
	DefenderHPBefore int
	DefenderHPAfter  int

	// Dodged short-circuits the exchange: no block or critical resolution
	// is performed and no damage is applied.
	Dodged      bool
	Blocked     bool
	Hit         bool
	CriticalHit bool

	// Damage is the final applied damage: 0 on a dodge or miss, halved by a
	// successful block on a hit.
	Damage int

	// Result is the full computed attack result, retained for introspection
	// even when the attack was dodged or missed.
	Result DamageResult

	// Message is the human-readable narration of the exchange.
	Message string
}

// SimulateRound resolves one exchange from attacker to defender: dodge check,
// block check, damage calculation, and HP application. Mutating the
// defender's HP is the engine's one permitted side effect on caller-owned
// state.
//
// Precondition: attacker.Combatant and defender.Combatant must be non-nil.
// Postcondition: defender HP == max(0, pre-round HP - applied damage);
// the returned record's flags and message are consistent with the rolls.
func (e *Engine) SimulateRound(attacker, defender Participant) RoundRecord {
	atk, def := attacker.Combatant, defender.Combatant

	loadout := attacker.Loadout
	if loadout.DamageType == "" {
		loadout.DamageType = DamagePhysical
	}

	rec := RoundRecord{
		AttackerID:       atk.ID(),
		AttackerName:     atk.Name(),
		DefenderID:       def.ID(),
		DefenderName:     def.Name(),
		AttackerHPBefore: atk.HP(),
		DefenderHPBefore: def.HP(),
	}

	if e.roller.Check("dodge", e.DodgeChance(def, atk)) {
		rec.Dodged = true
		rec.AttackerHPAfter = atk.HP()
		rec.DefenderHPAfter = def.HP()
		rec.Message = fmt.Sprintf("%s attacks %s, but %s dodges out of the way!",
			rec.AttackerName, rec.DefenderName, rec.DefenderName)
		return rec
	}

	rec.Blocked = e.roller.Check("block", e.BlockChance(def, atk))

	// The attack is resolved even when blocked, so the record keeps the
	// computed damage for introspection.
	result := e.ResolveAttack(AttackContext{Attacker: atk, Defender: def, Loadout: loadout})
	rec.Result = result
	rec.Hit = result.Hit
	rec.CriticalHit = result.CriticalHit

	if result.Hit {
		damage := result.Damage
		if rec.Blocked {
			damage = int(math.Floor(float64(damage) * e.cfg.BlockReduction))
		}
		rec.Damage = damage

		hp := def.HP() - damage
		if hp < 0 {
			hp = 0
		}
		def.SetHP(hp)
	}

	rec.AttackerHPAfter = atk.HP()
	rec.DefenderHPAfter = def.HP()
	rec.Message = roundMessage(rec)

	e.logger.Debug("round simulated",
		zap.String("attacker", rec.AttackerName),
		zap.String("defender", rec.DefenderName),
		zap.Bool("dodged", rec.Dodged),
		zap.Bool("blocked", rec.Blocked),
		zap.Bool("hit", rec.Hit),
		zap.Bool("critical", rec.CriticalHit),
		zap.Int("damage", rec.Damage),
		zap.Int("defender_hp", rec.DefenderHPAfter),
	)
	return rec
}

// roundMessage selects the narration for a resolved (non-dodged) round.
// Priority: blocked > critical > normal hit > no damage.
func roundMessage(rec RoundRecord) string {
	switch {
	case rec.Blocked && rec.Hit:
		return fmt.Sprintf("%s blocks %s's attack, taking only %d damage.",
			rec.DefenderName, rec.AttackerName, rec.Damage)
	case rec.Blocked:
		return fmt.Sprintf("%s raises a guard, but %s's attack goes wide anyway.",
			rec.DefenderName, rec.AttackerName)
	case rec.CriticalHit:
		return fmt.Sprintf("%s lands a critical hit on %s for %d damage!",
			rec.AttackerName, rec.DefenderName, rec.Damage)
	case rec.Hit:
		return fmt.Sprintf("%s hits %s for %d damage.",
			rec.AttackerName, rec.DefenderName, rec.Damage)
	default:
		return fmt.Sprintf("%s attacks %s, but the blow misses.",
			rec.AttackerName, rec.DefenderName)
	}
}
