package repositories

import (
	"context"
	"time"

	"inkwell/internal/domain/models"
)

// AccountRepository defines account storage operations. Balance mutations
// are single conditional statements at the store so concurrent callers can
// never jointly overdraw an account.
type AccountRepository interface {
	// Create inserts a new account
	Create(ctx context.Context, account *models.Account) error

	// GetByID retrieves an account by ID
	GetByID(ctx context.Context, id string) (*models.Account, error)

	// GetByIDForUpdate retrieves an account and holds its row lock for the
	// remainder of the surrounding transaction
	GetByIDForUpdate(ctx context.Context, id string) (*models.Account, error)

	// EarnTokens atomically increments the balance and returns the new value
	EarnTokens(ctx context.Context, id string, amount int, now time.Time) (int, error)

	// SpendTokens atomically decrements the balance if it covers amount.
	// Returns InsufficientBalanceError (with the current balance) when the
	// guard fails; the balance is left untouched.
	SpendTokens(ctx context.Context, id string, amount int, now time.Time) (int, error)

	// RecordChallenge applies the outcome of a graded challenge submission:
	// credits reward tokens, sets the streak, and stamps last_challenge_at.
	// Returns the new balance.
	RecordChallenge(ctx context.Context, id string, streak, reward int, now time.Time) (int, error)
}
