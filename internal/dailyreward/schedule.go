// Package dailyreward implements the daily login streak and its cyclic
// reward schedule. It is pure computation; persistence lives in the
// service layer.
package dailyreward

import (
	"errors"
	"fmt"
	"time"
)

// RewardTypeCoin is the only reward type that can be credited today.
const RewardTypeCoin = "Xu"

var (
	// ErrAlreadyClaimed is returned when the reward was already claimed on the current calendar day.
	ErrAlreadyClaimed = errors.New("daily reward already claimed today")

	// ErrInvalidRewardType is returned for a schedule entry that is not a coin reward.
	ErrInvalidRewardType = errors.New("invalid reward type")
)

// Reward is one day of the schedule.
type Reward struct {
	Type   string
	Amount int64
}

// DefaultSchedule is the 7-day cycle; day 8 starts over at day 1.
var DefaultSchedule = []Reward{
	{Type: RewardTypeCoin, Amount: 30},
	{Type: RewardTypeCoin, Amount: 50},
	{Type: RewardTypeCoin, Amount: 60},
	{Type: RewardTypeCoin, Amount: 70},
	{Type: RewardTypeCoin, Amount: 100},
	{Type: RewardTypeCoin, Amount: 120},
	{Type: RewardTypeCoin, Amount: 200},
}

// Claim is the outcome of a successful claim transition.
type Claim struct {
	LoginDays    int
	Reward       Reward
	StreakReset  bool
	Notification string
}

// Schedule evaluates claims against a cyclic reward table in a fixed timezone.
type Schedule struct {
	rewards []Reward
	loc     *time.Location
}

// NewSchedule creates a Schedule. A nil location means UTC.
func NewSchedule(rewards []Reward, loc *time.Location) *Schedule {
	if loc == nil {
		loc = time.UTC
	}
	return &Schedule{rewards: rewards, loc: loc}
}

// RewardFor returns the reward for the given streak day (1-based).
func (s *Schedule) RewardFor(loginDays int) (Reward, error) {
	if len(s.rewards) == 0 || loginDays < 1 {
		return Reward{}, fmt.Errorf("%w: no reward for day %d", ErrInvalidRewardType, loginDays)
	}
	reward := s.rewards[(loginDays-1)%len(s.rewards)]
	if reward.Type != RewardTypeCoin {
		return Reward{}, fmt.Errorf("%w: %q", ErrInvalidRewardType, reward.Type)
	}
	return reward, nil
}

// DiffDays returns the number of calendar days from last to now in the
// schedule's timezone. Time of day is ignored.
func (s *Schedule) DiffDays(last, now time.Time) int {
	y1, m1, d1 := last.In(s.loc).Date()
	y2, m2, d2 := now.In(s.loc).Date()
	from := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	to := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}

// Next computes the claim for a user whose last claim was at lastClaim
// (nil when never claimed) with the given streak, evaluated at now.
func (s *Schedule) Next(lastClaim *time.Time, loginDays int, now time.Time) (Claim, error) {
	next := 1
	reset := false

	if lastClaim != nil {
		switch diff := s.DiffDays(*lastClaim, now); {
		case diff <= 0:
			// diff < 0 means the stored claim is ahead of our clock; treat it as today.
			return Claim{}, ErrAlreadyClaimed
		case diff == 1:
			next = loginDays + 1
		default:
			reset = true
		}
	}

	reward, err := s.RewardFor(next)
	if err != nil {
		return Claim{}, err
	}

	msg := fmt.Sprintf("You received %d %s for day %d of your login streak.", reward.Amount, reward.Type, next)
	if reset {
		msg = fmt.Sprintf("Your login streak was reset. You received %d %s, come back tomorrow to keep it going.", reward.Amount, reward.Type)
	}

	return Claim{
		LoginDays:    next,
		Reward:       reward,
		StreakReset:  reset,
		Notification: msg,
	}, nil
}
