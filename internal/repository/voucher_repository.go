package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storyverse/rewards-api/internal/model"
	"github.com/storyverse/rewards-api/pkg/database"
)

// VoucherRepository provides data access for vouchers using pgx.
type VoucherRepository struct {
	pool PoolInterface
}

// NewVoucherRepository creates a new VoucherRepository with the given pool.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// NewVoucherRepositoryWithPool creates a new VoucherRepository with a custom pool interface.
// This is primarily used for testing.
func NewVoucherRepositoryWithPool(pool PoolInterface) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// GetByCode retrieves a voucher by its code.
// Returns nil, nil if the voucher is not found (service layer handles this).
func (r *VoucherRepository) GetByCode(ctx context.Context, code string) (*model.Voucher, error) {
	query := `SELECT id, code, is_active, start_date, end_date, usage_limit, used_count,
		discount_type, discount_value, max_discount_amount, min_order_value
		FROM vouchers WHERE code = $1`

	var v model.Voucher
	var discountType string
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&v.ID,
		&v.Code,
		&v.IsActive,
		&v.StartDate,
		&v.EndDate,
		&v.UsageLimit,
		&v.UsedCount,
		&discountType,
		&v.DiscountValue,
		&v.MaxDiscountAmount,
		&v.MinOrderValue,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get voucher by code %s: %w", code, err)
	}
	v.DiscountType = model.DiscountType(discountType)
	return &v, nil
}

// HasUserUsed reports whether the user already spent the voucher on an order.
func (r *VoucherRepository) HasUserUsed(ctx context.Context, voucherID int64, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM voucher_usages WHERE voucher_id = $1 AND user_id = $2)`

	var used bool
	if err := r.pool.QueryRow(ctx, query, voucherID, userID).Scan(&used); err != nil {
		return false, fmt.Errorf("check voucher usage: %w", err)
	}
	return used, nil
}

// GrantToUser puts the voucher in the user's wallet within a transaction.
// Granting a voucher the user already holds is a no-op.
func (r *VoucherRepository) GrantToUser(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, voucherID int64) error {
	query := `INSERT INTO user_vouchers (user_id, voucher_id) VALUES ($1, $2)
		ON CONFLICT (user_id, voucher_id) DO NOTHING`

	if _, err := tx.Exec(ctx, query, userID, voucherID); err != nil {
		return fmt.Errorf("grant voucher %d: %w", voucherID, err)
	}
	return nil
}
