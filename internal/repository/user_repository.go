package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storyverse/rewards-api/internal/model"
	"github.com/storyverse/rewards-api/internal/service"
	"github.com/storyverse/rewards-api/pkg/database"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, level, exp, coin_balance, consecutive_login_days, last_daily_login`

// UserRepository provides data access for user progression using pgx.
type UserRepository struct {
	pool PoolInterface
}

// NewUserRepository creates a new UserRepository with the given pool.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// NewUserRepositoryWithPool creates a new UserRepository with a custom pool interface.
// This is primarily used for testing.
func NewUserRepositoryWithPool(pool PoolInterface) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Level,
		&u.Exp,
		&u.CoinBalance,
		&u.ConsecutiveLoginDays,
		&u.LastDailyLogin,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user's progression without locking.
// Returns nil, nil if the user is not found (service layer handles this).
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// GetForUpdate retrieves a user with a row lock (SELECT FOR UPDATE).
// Returns service.ErrUserNotFound if the user doesn't exist.
func (r *UserRepository) GetForUpdate(ctx context.Context, tx database.TxQuerier, id uuid.UUID) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	u, err := scanUser(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user for update %s: %w", id, err)
	}
	return u, nil
}

// UpdateProgress writes level, exp, balance and streak state.
// Must be called within a transaction after locking the row.
func (r *UserRepository) UpdateProgress(ctx context.Context, tx database.TxQuerier, user *model.User) error {
	query := `UPDATE users
		SET level = $2, exp = $3, coin_balance = $4, consecutive_login_days = $5,
		    last_daily_login = $6, updated_at = NOW()
		WHERE id = $1`

	tag, err := tx.Exec(ctx, query,
		user.ID, user.Level, user.Exp, user.CoinBalance, user.ConsecutiveLoginDays, user.LastDailyLogin)
	if err != nil {
		return fmt.Errorf("update user %s: %w", user.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrUserNotFound
	}
	return nil
}
