package dailyreward

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Skipf("timezone %s not available: %v", name, err)
	}
	return loc
}

func TestSchedule_RewardFor_Cycles(t *testing.T) {
	s := NewSchedule(DefaultSchedule, time.UTC)

	want := []int64{30, 50, 60, 70, 100, 120, 200, 30, 50}
	for i, amount := range want {
		reward, err := s.RewardFor(i + 1)
		require.NoError(t, err)
		assert.Equal(t, amount, reward.Amount, "day %d", i+1)
		assert.Equal(t, RewardTypeCoin, reward.Type)
	}

	reward, err := s.RewardFor(14)
	require.NoError(t, err)
	assert.Equal(t, int64(200), reward.Amount)
}

func TestSchedule_RewardFor_InvalidType(t *testing.T) {
	s := NewSchedule([]Reward{{Type: RewardTypeCoin, Amount: 10}, {Type: "Ticket", Amount: 1}}, time.UTC)

	_, err := s.RewardFor(2)
	assert.ErrorIs(t, err, ErrInvalidRewardType)

	_, err = s.RewardFor(3)
	assert.NoError(t, err)

	_, err = s.RewardFor(0)
	assert.ErrorIs(t, err, ErrInvalidRewardType)
}

func TestSchedule_DiffDays(t *testing.T) {
	s := NewSchedule(DefaultSchedule, time.UTC)

	testCases := []struct {
		name string
		last time.Time
		now  time.Time
		want int
	}{
		{
			name: "same_day",
			last: time.Date(2026, 3, 1, 0, 5, 0, 0, time.UTC),
			now:  time.Date(2026, 3, 1, 23, 55, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "next_day_after_midnight",
			last: time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC),
			now:  time.Date(2026, 3, 2, 0, 1, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "across_month",
			last: time.Date(2026, 2, 27, 12, 0, 0, 0, time.UTC),
			now:  time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
			want: 3,
		},
		{
			name: "clock_skew",
			last: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
			now:  time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
			want: -1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.DiffDays(tc.last, tc.now))
		})
	}
}

func TestSchedule_DiffDays_UsesScheduleTimezone(t *testing.T) {
	loc := mustLoad(t, "Asia/Ho_Chi_Minh") // UTC+7
	s := NewSchedule(DefaultSchedule, loc)

	// 16:30 UTC and 17:30 UTC are on the same UTC day but different local days.
	last := time.Date(2026, 3, 1, 16, 30, 0, 0, time.UTC)
	now := time.Date(2026, 3, 1, 17, 30, 0, 0, time.UTC)

	assert.Equal(t, 1, s.DiffDays(last, now))
	assert.Equal(t, 0, NewSchedule(DefaultSchedule, time.UTC).DiffDays(last, now))
}

func TestSchedule_Next(t *testing.T) {
	s := NewSchedule(DefaultSchedule, time.UTC)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	yesterday := now.Add(-20 * time.Hour)
	threeDaysAgo := now.AddDate(0, 0, -3)
	earlierToday := now.Add(-2 * time.Hour)

	t.Run("first_claim", func(t *testing.T) {
		claim, err := s.Next(nil, 0, now)
		require.NoError(t, err)
		assert.Equal(t, 1, claim.LoginDays)
		assert.Equal(t, int64(30), claim.Reward.Amount)
		assert.False(t, claim.StreakReset)
		assert.Contains(t, claim.Notification, "You received 30 Xu")
	})

	t.Run("streak_continues", func(t *testing.T) {
		claim, err := s.Next(&yesterday, 3, now)
		require.NoError(t, err)
		assert.Equal(t, 4, claim.LoginDays)
		assert.Equal(t, int64(70), claim.Reward.Amount)
		assert.False(t, claim.StreakReset)
	})

	t.Run("streak_wraps_after_day_seven", func(t *testing.T) {
		claim, err := s.Next(&yesterday, 7, now)
		require.NoError(t, err)
		assert.Equal(t, 8, claim.LoginDays)
		assert.Equal(t, int64(30), claim.Reward.Amount)
	})

	t.Run("streak_reset", func(t *testing.T) {
		claim, err := s.Next(&threeDaysAgo, 6, now)
		require.NoError(t, err)
		assert.Equal(t, 1, claim.LoginDays)
		assert.Equal(t, int64(30), claim.Reward.Amount)
		assert.True(t, claim.StreakReset)
		assert.Contains(t, claim.Notification, "streak was reset")
	})

	t.Run("already_claimed_today", func(t *testing.T) {
		_, err := s.Next(&earlierToday, 2, now)
		assert.ErrorIs(t, err, ErrAlreadyClaimed)
	})
}
