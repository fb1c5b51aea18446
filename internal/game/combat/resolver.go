package combat

// ResolvedRound enriches a RoundRecord with termination information.
type ResolvedRound struct {
	RoundRecord

	// CombatOver is true when either side's HP reached 0.
	CombatOver bool
	// Winner and Loser are combatant names; both empty while combat
	// continues, both "draw" when both sides are down.
	Winner string
	Loser  string
	// AttackerHPPercent and DefenderHPPercent are post-round HP as a
	// percentage of each side's maximum.
	AttackerHPPercent float64
	DefenderHPPercent float64
}

// ResolveRound post-processes one round record against the participants'
// maximum HP to detect termination and declare a winner. It is a pure
// function of the record and the two maximums.
//
// Both sides at 0 HP simultaneously (only possible when a combatant entered
// the round already downed) resolves as a draw.
//
// Precondition: attackerMaxHP > 0 and defenderMaxHP > 0.
// Postcondition: CombatOver is true iff either post-round HP <= 0.
func ResolveRound(rec RoundRecord, attackerMaxHP, defenderMaxHP int) ResolvedRound {
	resolved := ResolvedRound{
		RoundRecord:       rec,
		AttackerHPPercent: hpPercent(rec.AttackerHPAfter, attackerMaxHP),
		DefenderHPPercent: hpPercent(rec.DefenderHPAfter, defenderMaxHP),
	}

	attackerDown := rec.AttackerHPAfter <= 0
	defenderDown := rec.DefenderHPAfter <= 0
	if !attackerDown && !defenderDown {
		return resolved
	}

	resolved.CombatOver = true
	switch {
	case attackerDown && defenderDown:
		resolved.Winner = WinnerDraw
		resolved.Loser = WinnerDraw
	case defenderDown:
		resolved.Winner = rec.AttackerName
		resolved.Loser = rec.DefenderName
	default:
		resolved.Winner = rec.DefenderName
		resolved.Loser = rec.AttackerName
	}
	return resolved
}

// hpPercent returns hp as a percentage of maxHP, floored at 0.
func hpPercent(hp, maxHP int) float64 {
	if hp <= 0 || maxHP <= 0 {
		return 0
	}
	return float64(hp) / float64(maxHP) * 100
}
