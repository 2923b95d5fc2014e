package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storyverse/rewards-api/internal/dailyreward"
	"github.com/storyverse/rewards-api/internal/leveling"
	"github.com/storyverse/rewards-api/internal/model"
	"github.com/storyverse/rewards-api/pkg/database"
)

// ProgressService applies EXP gains and daily rewards to users.
type ProgressService struct {
	pool     TxBeginner
	users    UserRepositoryInterface
	calc     *leveling.Calculator
	schedule *dailyreward.Schedule
	now      func() time.Time
}

// NewProgressService creates a new ProgressService.
func NewProgressService(pool *pgxpool.Pool, users UserRepositoryInterface, calc *leveling.Calculator, schedule *dailyreward.Schedule) *ProgressService {
	return NewProgressServiceWithTxBeginner(pool, users, calc, schedule, time.Now)
}

// NewProgressServiceWithTxBeginner creates a ProgressService with a custom TxBeginner and clock.
// Primarily used for testing.
func NewProgressServiceWithTxBeginner(pool TxBeginner, users UserRepositoryInterface, calc *leveling.Calculator, schedule *dailyreward.Schedule, now func() time.Time) *ProgressService {
	return &ProgressService{
		pool:     pool,
		users:    users,
		calc:     calc,
		schedule: schedule,
		now:      now,
	}
}

// AddExp converts a recharge or reading amount into EXP for the user and
// credits coinIncrease to the balance. The amount itself is never deducted
// from the balance; it only fuels the level curve.
// Returns:
//   - ErrUserNotFound if the user doesn't exist
//   - ErrInvalidAmount / ErrUnknownSource for a gain the level curve rejects
func (s *ProgressService) AddExp(ctx context.Context, userID uuid.UUID, req *model.AddExpRequest) (*model.AddExpResponse, error) {
	if req == nil || req.Amount == nil || req.CoinIncrease < 0 {
		return nil, ErrInvalidRequest
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer database.Rollback(ctx, tx)

	user, err := s.users.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	res, err := s.calc.Apply(leveling.Progress{Level: user.Level, Exp: user.Exp}, leveling.Source(req.Source), *req.Amount)
	if err != nil {
		return nil, fmt.Errorf("apply exp: %w", err)
	}

	balance, err := creditCoins(user.CoinBalance, req.CoinIncrease)
	if err != nil {
		return nil, err
	}

	user.Level = res.Level
	user.Exp = res.Exp
	user.CoinBalance = balance

	if err := s.users.UpdateProgress(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &model.AddExpResponse{
		Level:           user.Level,
		Exp:             user.Exp,
		CoinBalance:     user.CoinBalance,
		LevelUpOccurred: res.LevelUpOccurred(),
	}, nil
}

// ClaimDailyReward credits today's streak reward.
// The user row stays locked for the whole claim, so concurrent claims on
// the same day serialize and all but the first see ErrAlreadyClaimedToday.
func (s *ProgressService) ClaimDailyReward(ctx context.Context, userID uuid.UUID) (*model.ClaimRewardResponse, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer database.Rollback(ctx, tx)

	user, err := s.users.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	claim, err := s.schedule.Next(user.LastDailyLogin, user.ConsecutiveLoginDays, now)
	if err != nil {
		return nil, err
	}

	balance, err := creditCoins(user.CoinBalance, claim.Reward.Amount)
	if err != nil {
		return nil, err
	}
	user.CoinBalance = balance
	user.ConsecutiveLoginDays = claim.LoginDays
	user.LastDailyLogin = &now

	if err := s.users.UpdateProgress(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &model.ClaimRewardResponse{
		NewBalance:          user.CoinBalance,
		NextLoginDays:       claim.LoginDays,
		RewardAmount:        claim.Reward.Amount,
		NotificationMessage: claim.Notification,
	}, nil
}

// GetProgress returns the user's current level, EXP, balance and streak.
func (s *ProgressService) GetProgress(ctx context.Context, userID uuid.UUID) (*model.ProgressResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return &model.ProgressResponse{
		Level:                user.Level,
		Exp:                  user.Exp,
		CoinBalance:          user.CoinBalance,
		ConsecutiveLoginDays: user.ConsecutiveLoginDays,
		LastDailyLogin:       user.LastDailyLogin,
	}, nil
}
