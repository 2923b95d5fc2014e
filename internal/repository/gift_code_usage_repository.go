package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storyverse/rewards-api/internal/service"
	"github.com/storyverse/rewards-api/pkg/database"
)

// GiftCodeUsageRepository records which users redeemed which gift codes.
type GiftCodeUsageRepository struct {
	pool PoolInterface
}

// NewGiftCodeUsageRepository creates a new GiftCodeUsageRepository with the given pool.
func NewGiftCodeUsageRepository(pool *pgxpool.Pool) *GiftCodeUsageRepository {
	return &GiftCodeUsageRepository{pool: pool}
}

// NewGiftCodeUsageRepositoryWithPool creates a new GiftCodeUsageRepository with a custom pool interface.
// This is primarily used for testing.
func NewGiftCodeUsageRepositoryWithPool(pool PoolInterface) *GiftCodeUsageRepository {
	return &GiftCodeUsageRepository{pool: pool}
}

// Exists reports whether the user already redeemed the gift code.
func (r *GiftCodeUsageRepository) Exists(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, giftCodeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM gift_code_usages WHERE user_id = $1 AND gift_code_id = $2)`

	var exists bool
	if err := tx.QueryRow(ctx, query, userID, giftCodeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check gift code usage: %w", err)
	}
	return exists, nil
}

// Insert records a redemption within a transaction.
// Returns service.ErrGiftCodeAlreadyUsed if the user already redeemed the code (unique constraint violation).
func (r *GiftCodeUsageRepository) Insert(ctx context.Context, tx database.TxQuerier, userID uuid.UUID, giftCodeID int64) error {
	query := `INSERT INTO gift_code_usages (user_id, gift_code_id) VALUES ($1, $2)`

	_, err := tx.Exec(ctx, query, userID, giftCodeID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrGiftCodeAlreadyUsed
		}
		return fmt.Errorf("insert gift code usage: %w", err)
	}
	return nil
}
