package combat

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Outcome classifies how an engagement ended.
type Outcome string

const (
	// OutcomeVictory means one combatant's HP reached 0.
	OutcomeVictory Outcome = "victory"
	// OutcomeDraw means the round cap was exhausted without a kill, or both
	// sides were down simultaneously.
	OutcomeDraw Outcome = "draw"
)

// WinnerDraw is the winner value reported for a drawn engagement.
const WinnerDraw = "draw"

// CombatOutcome is the terminal record of a full engagement: created once
// per Fight call, returned to the caller, never mutated afterward.
type CombatOutcome struct {
	// EngagementID uniquely identifies this engagement.
	EngagementID string
	Outcome      Outcome
	// Winner is the winning combatant's name, or "draw".
	Winner string
	Loser  string

	TotalRounds    int
	TotalDamage    int
	TotalHits      int
	TotalCriticals int

	// HitRate is TotalHits/TotalRounds; CriticalRate is
	// TotalCriticals/TotalHits; AverageDamage is TotalDamage/TotalHits.
	// All are 0 when the divisor is 0.
	HitRate       float64
	CriticalRate  float64
	AverageDamage float64

	// Rounds is the ordered combat log.
	Rounds []RoundRecord
}

// Fight runs a full engagement between a and b: strictly alternating
// single-attack rounds up to the configured round cap, with a pre-round
// liveness guard. a attacks first.
//
// Precondition: both participants carry non-nil, valid combatant views.
// Postcondition: Returns a CombatOutcome whose TotalRounds <= cfg.MaxRounds,
// or a validation error before any state is touched.
func (e *Engine) Fight(a, b Participant) (*CombatOutcome, error) {
	return e.FightRounds(a, b, e.cfg.MaxRounds)
}

// FightRounds is Fight with an explicit round cap.
//
// Precondition: maxRounds > 0.
func (e *Engine) FightRounds(a, b Participant, maxRounds int) (*CombatOutcome, error) {
	if err := validateEngagement(a, b, maxRounds); err != nil {
		return nil, err
	}

	outcome := &CombatOutcome{
		EngagementID: uuid.NewString(),
		Outcome:      OutcomeDraw,
		Winner:       WinnerDraw,
		Loser:        WinnerDraw,
	}

	attacker, defender := a, b
	for round := 1; round <= maxRounds; round++ {
		// Pre-round guard: a combatant already down forfeits without a round
		// being simulated.
		if !attacker.Combatant.IsAlive() || !defender.Combatant.IsAlive() {
			e.creditSurvivor(outcome, attacker, defender)
			break
		}

		rec := e.SimulateRound(attacker, defender)
		rec.Round = round
		resolved := ResolveRound(rec, attacker.Combatant.MaxHP(), defender.Combatant.MaxHP())

		outcome.Rounds = append(outcome.Rounds, rec)
		outcome.TotalRounds = round
		if !rec.Dodged && rec.Hit {
			outcome.TotalHits++
			outcome.TotalDamage += rec.Damage
			if rec.CriticalHit {
				outcome.TotalCriticals++
			}
		}

		if resolved.CombatOver {
			if resolved.Winner == WinnerDraw {
				outcome.Outcome = OutcomeDraw
				outcome.Winner = WinnerDraw
				outcome.Loser = WinnerDraw
			} else {
				outcome.Outcome = OutcomeVictory
				outcome.Winner = resolved.Winner
				outcome.Loser = resolved.Loser
			}
			break
		}

		// Strict alternation: the attacker of this round defends the next.
		attacker, defender = defender, attacker
	}

	finalizeRates(outcome)

	e.logger.Info("engagement resolved",
		zap.String("engagement_id", outcome.EngagementID),
		zap.String("outcome", string(outcome.Outcome)),
		zap.String("winner", outcome.Winner),
		zap.Int("rounds", outcome.TotalRounds),
		zap.Int("total_damage", outcome.TotalDamage),
	)
	return outcome, nil
}

// creditSurvivor finalizes outcome when a combatant was already down at the
// top of a round. Both down resolves as a draw.
func (e *Engine) creditSurvivor(outcome *CombatOutcome, attacker, defender Participant) {
	atkAlive := attacker.Combatant.IsAlive()
	defAlive := defender.Combatant.IsAlive()
	switch {
	case atkAlive && !defAlive:
		outcome.Outcome = OutcomeVictory
		outcome.Winner = attacker.Combatant.Name()
		outcome.Loser = defender.Combatant.Name()
	case defAlive && !atkAlive:
		outcome.Outcome = OutcomeVictory
		outcome.Winner = defender.Combatant.Name()
		outcome.Loser = attacker.Combatant.Name()
	default:
		outcome.Outcome = OutcomeDraw
		outcome.Winner = WinnerDraw
		outcome.Loser = WinnerDraw
	}
}

// finalizeRates computes the derived rates with division-by-zero guards.
func finalizeRates(outcome *CombatOutcome) {
	if outcome.TotalRounds > 0 {
		outcome.HitRate = float64(outcome.TotalHits) / float64(outcome.TotalRounds)
	}
	if outcome.TotalHits > 0 {
		outcome.CriticalRate = float64(outcome.TotalCriticals) / float64(outcome.TotalHits)
		outcome.AverageDamage = float64(outcome.TotalDamage) / float64(outcome.TotalHits)
	}
}

// validateEngagement rejects malformed combat requests before any simulation
// starts. Validation failures are programming errors in the caller, not
// transient conditions; nothing here is retried.
func validateEngagement(a, b Participant, maxRounds int) error {
	if a.Combatant == nil || b.Combatant == nil {
		return ErrNilCombatant
	}
	if a.Combatant == b.Combatant {
		return ErrSameCombatant
	}
	if maxRounds <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRoundCap, maxRounds)
	}
	for _, p := range []Participant{a, b} {
		if err := validateCombatant(p.Combatant); err != nil {
			return err
		}
	}
	return nil
}
