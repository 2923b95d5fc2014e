package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/storyverse/rewards-api/internal/model"
	"github.com/storyverse/rewards-api/pkg/database"
)

// TxBeginner defines the interface for beginning transactions.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// UserRepositoryInterface defines the interface for user progression data access.
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.User, error)
	UpdateProgress(ctx context.Context, tx database.TxQuerier, user *model.User) error
}

// normalizeCode trims surrounding whitespace. Codes are matched case-sensitively.
func normalizeCode(code string) string {
	return strings.TrimSpace(code)
}

// creditCoins adds amount to balance, rejecting negative amounts and
// totals that would not fit the coin_balance column.
func creditCoins(balance, amount int64) (int64, error) {
	if amount < 0 || balance > math.MaxInt64-amount {
		return 0, fmt.Errorf("%w: coin balance would overflow", ErrInvalidRequest)
	}
	return balance + amount, nil
}
