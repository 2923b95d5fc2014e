package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storyverse/rewards-api/internal/model"
	"github.com/storyverse/rewards-api/internal/service"
	"github.com/storyverse/rewards-api/pkg/database"
)

// GiftCodeRepository provides data access for gift codes using pgx.
type GiftCodeRepository struct {
	pool PoolInterface
}

// NewGiftCodeRepository creates a new GiftCodeRepository with the given pool.
func NewGiftCodeRepository(pool *pgxpool.Pool) *GiftCodeRepository {
	return &GiftCodeRepository{pool: pool}
}

// NewGiftCodeRepositoryWithPool creates a new GiftCodeRepository with a custom pool interface.
// This is primarily used for testing.
func NewGiftCodeRepositoryWithPool(pool PoolInterface) *GiftCodeRepository {
	return &GiftCodeRepository{pool: pool}
}

// GetByCodeForUpdate retrieves a gift code with a row lock (SELECT FOR UPDATE).
// This locks the row until the transaction completes.
// Returns service.ErrGiftCodeNotFound if the code doesn't exist.
func (r *GiftCodeRepository) GetByCodeForUpdate(ctx context.Context, tx database.TxQuerier, code string) (*model.GiftCode, error) {
	query := `SELECT id, code, is_active, expiry_date, usage_limit, used_count, coin_reward, exp_reward, voucher_id
		FROM gift_codes WHERE code = $1 FOR UPDATE`

	var gc model.GiftCode
	err := tx.QueryRow(ctx, query, code).Scan(
		&gc.ID,
		&gc.Code,
		&gc.IsActive,
		&gc.ExpiryDate,
		&gc.UsageLimit,
		&gc.UsedCount,
		&gc.CoinReward,
		&gc.ExpReward,
		&gc.VoucherID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrGiftCodeNotFound
		}
		return nil, fmt.Errorf("get gift code for update %s: %w", code, err)
	}
	return &gc, nil
}

// IncrementUsedCount consumes one redemption of the gift code.
// The WHERE guard keeps used_count within usage_limit even if the caller's
// snapshot is stale; zero affected rows means service.ErrGiftCodeLimitReached.
func (r *GiftCodeRepository) IncrementUsedCount(ctx context.Context, tx database.TxQuerier, id int64) error {
	query := `UPDATE gift_codes SET used_count = used_count + 1
		WHERE id = $1 AND (usage_limit = 0 OR used_count < usage_limit)`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("increment used count for gift code %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrGiftCodeLimitReached
	}
	return nil
}
