package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// TxQuerier is implemented by both pgxpool.Pool and pgx.Tx.
// Repository methods that need transaction support should accept TxQuerier.
type TxQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// maxRetryBackoff caps a single wait between connection attempts.
const maxRetryBackoff = 30 * time.Second

// PoolOptions controls how the rewards database is brought up.
type PoolOptions struct {
	DSN string
	// MaxRetries is the number of connection attempts; values below 1 still try once.
	MaxRetries int
	// RetryBackoff is the first wait; each later wait doubles, capped at maxRetryBackoff.
	RetryBackoff time.Duration
	// AutoMigrate applies the embedded schema once the pool answers a ping.
	AutoMigrate bool
}

func (o PoolOptions) attempts() int {
	if o.MaxRetries < 1 {
		return 1
	}
	return o.MaxRetries
}

// backoff returns the wait after the given zero-based failed attempt.
func (o PoolOptions) backoff(attempt int) time.Duration {
	base := o.RetryBackoff
	if base <= 0 {
		base = time.Second
	}
	wait := base
	for i := 0; i < attempt; i++ {
		wait *= 2
		if wait >= maxRetryBackoff {
			return maxRetryBackoff
		}
	}
	if wait > maxRetryBackoff {
		return maxRetryBackoff
	}
	return wait
}

// NewPool connects to PostgreSQL, retrying with exponential backoff until the
// pool answers a ping, then brings the schema up to date when AutoMigrate is set.
// A pool whose migrations fail is closed before the error is returned.
func NewPool(ctx context.Context, opts PoolOptions) (*pgxpool.Pool, error) {
	pool, err := connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	if opts.AutoMigrate {
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
		log.Info().Msg("database schema up to date")
	}
	return pool, nil
}

func connect(ctx context.Context, opts PoolOptions) (*pgxpool.Pool, error) {
	var err error
	attempts := opts.attempts()

	for attempt := 0; attempt < attempts; attempt++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.New(ctx, opts.DSN)
		if err == nil {
			pingErr := pool.Ping(ctx)
			if pingErr == nil {
				log.Info().Int("attempt", attempt+1).Msg("database connection established")
				return pool, nil
			}
			pool.Close()
			err = fmt.Errorf("ping failed: %w", pingErr)
		}

		if attempt == attempts-1 {
			break
		}

		wait := opts.backoff(attempt)
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", attempts).
			Dur("next_retry_in", wait).
			Msg("database connection failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", attempts, err)
}
