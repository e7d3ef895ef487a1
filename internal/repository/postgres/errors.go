package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"inkwell/internal/domain"
)

// isPgDuplicateError checks if error is a unique constraint violation
func isPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 23505 = unique_violation
		return pgErr.Code == "23505"
	}
	return false
}

// isPgNoRowsError checks if error is a "no rows" error
func isPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// classifyTransient maps connection-level and serialization failures onto
// domain.ErrStoreUnavailable so callers know the whole operation is safe to
// retry. Other errors pass through unchanged.
func classifyTransient(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrStoreUnavailable
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", // serialization_failure
			"40P01", // deadlock_detected
			"57P03": // cannot_connect_now
			return domain.ErrStoreUnavailable
		}
		// Class 08 = connection exceptions
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return domain.ErrStoreUnavailable
		}
	}
	return err
}
