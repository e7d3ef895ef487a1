package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"inkwell/internal/domain"
	"inkwell/internal/domain/repositories"
)

// transient failures are retried once before surfacing; every core mutation
// is a single atomic unit, so re-running the whole function is safe.
const (
	txAttempts     = 2
	txRetryBackoff = 100 * time.Millisecond
)

// TransactionManager implements the TransactionManager interface
type TransactionManager struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager
func NewTransactionManager(pool *pgxpool.Pool, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{pool: pool, logger: logger}
}

// ExecTx executes a function within a transaction, retrying once on a
// transient store failure.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	var err error
	for attempt := 1; attempt <= txAttempts; attempt++ {
		err = tm.execOnce(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrStoreUnavailable) {
			return err
		}
		if attempt < txAttempts {
			tm.logger.Warn("transient store failure, retrying transaction",
				"attempt", attempt,
				"error", err,
			)
			select {
			case <-time.After(txRetryBackoff):
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, ctx.Err())
			}
		}
	}
	return err
}

func (tm *TransactionManager) execOnce(ctx context.Context, fn repositories.TxFn) error {
	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", classifyTransient(err))
	}

	// Defer rollback - safe even if commit succeeds
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			tm.logger.Error("rollback failed", "error", err)
		}
	}()

	// Store transaction in context so repositories can access it
	txCtx := repositories.WithTx(ctx, tx)

	if err := fn(txCtx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", classifyTransient(err))
	}

	return nil
}
