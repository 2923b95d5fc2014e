package leveling

import (
	"errors"
	"fmt"
	"math"
)

// Source identifies what produced an EXP gain.
type Source string

const (
	SourceRecharge Source = "recharge"
	SourceReading  Source = "reading"
)

var (
	// ErrInvalidAmount is returned for negative, NaN or infinite amounts.
	ErrInvalidAmount = errors.New("amount must be a finite non-negative number")

	// ErrUnknownSource is returned for a source other than recharge or reading.
	ErrUnknownSource = errors.New("unknown exp source")

	// ErrInvalidProgress is returned when the starting state is out of range.
	ErrInvalidProgress = errors.New("invalid starting progress")
)

// Progress is a user's position on the level curve.
type Progress struct {
	Level int
	Exp   float64
}

// Result is the outcome of applying a gain.
type Result struct {
	Progress
	LevelsGained int
}

// LevelUpOccurred reports whether the gain moved the user up at least one level.
func (r Result) LevelUpOccurred() bool {
	return r.LevelsGained > 0
}

// Calculator converts recharge coins and read pages into EXP.
// The EXP rate at level L is base * factor^(L-1).
type Calculator struct {
	config Config
}

func NewCalculator(config Config) *Calculator {
	return &Calculator{config: config}
}

// RateAt returns the EXP granted per unit at level for the given base rate.
func (c *Calculator) RateAt(base float64, level int) float64 {
	return base * math.Pow(c.config.RateReductionFactor, float64(level-1))
}

// Apply converts amount units from source into EXP starting at p.
func (c *Calculator) Apply(p Progress, source Source, amount float64) (Result, error) {
	if err := validate(p, amount); err != nil {
		return Result{}, err
	}

	switch source {
	case SourceRecharge:
		return c.applyRecharge(p, amount), nil
	case SourceReading:
		gain := c.RateAt(c.config.BaseExpPerPage, p.Level) * amount
		return rollOver(p, gain), nil
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}

// AddExp adds a flat EXP gain, carrying any overflow into further levels.
func (c *Calculator) AddExp(p Progress, gain float64) (Result, error) {
	if err := validate(p, gain); err != nil {
		return Result{}, err
	}
	return rollOver(p, gain), nil
}

// applyRecharge spends the coin pool level by level. Each level is paid for
// at that level's rate, so a large recharge climbs more slowly as it goes.
func (c *Calculator) applyRecharge(p Progress, coins float64) Result {
	level, exp := p.Level, p.Exp

	for coins > 0 {
		rate := c.RateAt(c.config.BaseExpPerCoin, level)
		if rate <= minRate {
			break
		}

		needed := (ExpPerLevel - exp) / rate
		if coins+epsilon >= needed {
			coins = math.Max(0, coins-needed)
			level++
			exp = 0
			continue
		}

		exp += coins * rate
		coins = 0
	}

	return Result{
		Progress:     Progress{Level: level, Exp: clamp(exp)},
		LevelsGained: level - p.Level,
	}
}

// rollOver adds gain to p in one pass and converts every full 100 EXP into a level.
func rollOver(p Progress, gain float64) Result {
	level, exp := p.Level, p.Exp+gain

	if levels := math.Floor((exp + epsilon) / ExpPerLevel); levels > 0 {
		if levels >= float64(MaxLevel-level) {
			return Result{
				Progress:     Progress{Level: MaxLevel, Exp: 0},
				LevelsGained: MaxLevel - p.Level,
			}
		}
		level += int(levels)
		exp -= levels * ExpPerLevel
	}

	return Result{
		Progress:     Progress{Level: level, Exp: clamp(exp)},
		LevelsGained: level - p.Level,
	}
}

func validate(p Progress, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return ErrInvalidAmount
	}
	if p.Level < 1 || p.Level > MaxLevel || math.IsNaN(p.Exp) || p.Exp < 0 || p.Exp >= ExpPerLevel {
		return fmt.Errorf("%w: level=%d exp=%v", ErrInvalidProgress, p.Level, p.Exp)
	}
	return nil
}

// clamp keeps exp inside [0, 100). Values within epsilon below zero are float noise.
func clamp(exp float64) float64 {
	if exp < 0 {
		return 0
	}
	if exp >= ExpPerLevel {
		return math.Nextafter(ExpPerLevel, 0)
	}
	return exp
}
