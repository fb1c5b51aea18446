package rng

import "go.uber.org/zap"

// Roller wraps a Source and logger to provide logged percentile rolls.
// All rolls are logged at debug level with the chance type, target chance,
// rolled value, and success flag.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Percent returns a uniform roll in [1, 100].
//
// Postcondition: 1 <= result <= 100.
func (r *Roller) Percent() int {
	return r.src.Intn(100) + 1
}

// Check rolls a percentile against chance and reports success (roll <= chance).
// kind names the chance type for the audit log ("hit", "crit", "dodge", "block").
//
// Postcondition: Returns true iff the rolled value is <= chance.
func (r *Roller) Check(kind string, chance int) bool {
	roll := r.Percent()
	ok := roll <= chance
	r.logger.Debug("chance roll",
		zap.String("kind", kind),
		zap.Int("chance", chance),
		zap.Int("roll", roll),
		zap.Bool("success", ok),
	)
	return ok
}

// Source exposes the underlying randomness source.
func (r *Roller) Source() Source {
	return r.src
}
