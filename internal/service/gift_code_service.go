package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storyverse/rewards-api/internal/leveling"
	"github.com/storyverse/rewards-api/internal/model"
	"github.com/storyverse/rewards-api/pkg/database"
)

// GiftCodeRepositoryInterface defines the interface for gift code data access.
type GiftCodeRepositoryInterface interface {
	GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.GiftCode, error)
	IncrementUsedCount(ctx context.Context, tx database.TxQuerier, id int64) error
}

// GiftCodeUsageRepositoryInterface defines the interface for redemption records.
type GiftCodeUsageRepositoryInterface interface {
	Exists(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, giftCodeID int64) (bool, error)
	Insert(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, giftCodeID int64) error
}

// VoucherGranter grants a voucher into a user's wallet.
type VoucherGranter interface {
	GrantToUser(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, voucherID int64) error
}

// GiftCodeService redeems gift codes.
type GiftCodeService struct {
	pool      TxBeginner
	giftCodes GiftCodeRepositoryInterface
	usages    GiftCodeUsageRepositoryInterface
	users     UserRepositoryInterface
	vouchers  VoucherGranter
	calc      *leveling.Calculator
	now       func() time.Time
}

// GiftCodeDeps groups the repositories GiftCodeService needs.
type GiftCodeDeps struct {
	GiftCodes GiftCodeRepositoryInterface
	Usages    GiftCodeUsageRepositoryInterface
	Users     UserRepositoryInterface
	Vouchers  VoucherGranter
}

// NewGiftCodeService creates a new GiftCodeService.
func NewGiftCodeService(pool *pgxpool.Pool, deps GiftCodeDeps, calc *leveling.Calculator) *GiftCodeService {
	return NewGiftCodeServiceWithTxBeginner(pool, deps, calc, time.Now)
}

// NewGiftCodeServiceWithTxBeginner creates a GiftCodeService with a custom TxBeginner and clock.
// Primarily used for testing.
func NewGiftCodeServiceWithTxBeginner(pool TxBeginner, deps GiftCodeDeps, calc *leveling.Calculator, now func() time.Time) *GiftCodeService {
	return &GiftCodeService{
		pool:      pool,
		giftCodes: deps.GiftCodes,
		usages:    deps.Usages,
		users:     deps.Users,
		vouchers:  deps.Vouchers,
		calc:      calc,
		now:       now,
	}
}

// Redeem atomically applies a gift code to a user.
// The gift code row is locked (SELECT FOR UPDATE) for the whole transaction
// so used_count increments serialize; the UNIQUE(user_id, gift_code_id)
// constraint is the final guard against double redemption.
// Returns, in check order:
//   - ErrUnauthenticated if userID is empty
//   - ErrGiftCodeNotFound / ErrGiftCodeInactive
//   - ErrGiftCodeExpired
//   - ErrGiftCodeLimitReached
//   - ErrGiftCodeAlreadyUsed
//   - ErrUserNotFound if the caller has no user row
func (s *GiftCodeService) Redeem(ctx context.Context, userID uuid.UUID, code string) (*model.RedeemGiftCodeResponse, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	code = normalizeCode(code)
	if code == "" {
		return nil, ErrInvalidRequest
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer database.Rollback(ctx, tx)

	// 1. Lock the gift code row
	gc, err := s.giftCodes.GetByCodeForUpdate(ctx, tx, code)
	if err != nil {
		return nil, err
	}

	// 2. Business rules, all before any write
	if !gc.IsActive {
		return nil, ErrGiftCodeInactive
	}
	if gc.ExpiredAt(s.now()) {
		return nil, ErrGiftCodeExpired
	}
	if gc.Exhausted() {
		return nil, ErrGiftCodeLimitReached
	}
	used, err := s.usages.Exists(ctx, tx, userID, gc.ID)
	if err != nil {
		return nil, fmt.Errorf("check usage: %w", err)
	}
	if used {
		return nil, ErrGiftCodeAlreadyUsed
	}

	// 3. Lock the user and price the reward, still before any write
	user, err := s.users.GetForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	res, err := s.calc.AddExp(leveling.Progress{Level: user.Level, Exp: user.Exp}, gc.ExpReward)
	if err != nil {
		return nil, fmt.Errorf("apply exp reward: %w", err)
	}
	balance, err := creditCoins(user.CoinBalance, gc.CoinReward)
	if err != nil {
		return nil, err
	}

	// 4. Record usage (UNIQUE constraint catches concurrent duplicates)
	if err := s.usages.Insert(ctx, tx, userID, gc.ID); err != nil {
		return nil, err
	}

	// 5. Consume one redemption
	if err := s.giftCodes.IncrementUsedCount(ctx, tx, gc.ID); err != nil {
		return nil, err
	}

	// 6. Credit rewards
	user.Level = res.Level
	user.Exp = res.Exp
	user.CoinBalance = balance
	if err := s.users.UpdateProgress(ctx, tx, user); err != nil {
		return nil, fmt.Errorf("credit rewards: %w", err)
	}

	// 7. Linked voucher
	if gc.VoucherID != nil {
		if err := s.vouchers.GrantToUser(ctx, tx, userID, *gc.VoucherID); err != nil {
			return nil, fmt.Errorf("grant voucher: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	return &model.RedeemGiftCodeResponse{
		Success: true,
		Message: redeemMessage(gc, res),
	}, nil
}

func redeemMessage(gc *model.GiftCode, res leveling.Result) string {
	var parts []string
	if gc.CoinReward > 0 {
		parts = append(parts, fmt.Sprintf("%d Xu", gc.CoinReward))
	}
	if gc.ExpReward > 0 {
		parts = append(parts, fmt.Sprintf("%g EXP", gc.ExpReward))
	}
	if gc.VoucherID != nil {
		parts = append(parts, "a voucher")
	}

	msg := "Gift code redeemed successfully"
	if len(parts) > 0 {
		msg += ": you received " + strings.Join(parts, ", ")
	}
	if res.LevelUpOccurred() {
		msg += fmt.Sprintf(". Level up! You are now level %d", res.Level)
	}
	return msg
}
