package leveling

import (
	"errors"
	"math"
)

// Default conversion constants.
const (
	DefaultBaseExpPerPage      = 0.05
	DefaultBaseExpPerCoin      = 0.2
	DefaultRateReductionFactor = 0.5
)

const (
	// ExpPerLevel is the EXP needed to advance one level.
	ExpPerLevel = 100.0

	// MaxLevel matches the users.level INTEGER column.
	MaxLevel = math.MaxInt32

	// minRate stops recharge conversion once the per-coin rate has decayed
	// to nothing; remaining coins yield no EXP.
	minRate = 1e-9

	// epsilon absorbs float noise at level boundaries so that a gain which
	// lands exactly on 100 EXP rolls over instead of stalling at 100.
	epsilon = 1e-9
)

// Config holds the EXP conversion constants.
type Config struct {
	BaseExpPerPage      float64
	BaseExpPerCoin      float64
	RateReductionFactor float64
}

// NewDefaultConfig returns the production conversion constants.
func NewDefaultConfig() Config {
	return Config{
		BaseExpPerPage:      DefaultBaseExpPerPage,
		BaseExpPerCoin:      DefaultBaseExpPerCoin,
		RateReductionFactor: DefaultRateReductionFactor,
	}
}

// Validate rejects constants that would make the level curve degenerate.
// A reduction factor of 1 or more never decays, so recharge conversion
// would not terminate in a bounded number of levels.
func (c Config) Validate() error {
	if c.BaseExpPerPage <= 0 || c.BaseExpPerCoin <= 0 {
		return errors.New("leveling: base exp rates must be positive")
	}
	if c.RateReductionFactor <= 0 || c.RateReductionFactor >= 1 {
		return errors.New("leveling: rate reduction factor must be in (0, 1)")
	}
	return nil
}
