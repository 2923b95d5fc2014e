package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Rollback rolls back tx and logs any failure other than pgx.ErrTxClosed.
// It never returns an error so callers can defer it without masking the
// error that caused the rollback. Rolling back a committed tx is a no-op.
func Rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		log.Error().Err(err).Msg("transaction rollback failed")
	}
}
