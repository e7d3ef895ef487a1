package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// PostgresAccountRepository implements the AccountRepository interface
type PostgresAccountRepository struct {
	db     repositories.Querier
	logger *slog.Logger
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(config *RepositoryConfig) repositories.AccountRepository {
	return &PostgresAccountRepository{
		db:     config.DB,
		logger: config.Logger,
	}
}

const accountColumns = `id, tokens, current_streak, last_challenge_at, last_activity_at, created_at, updated_at`

// Create inserts a new account
func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, tokens, current_streak, last_challenge_at, last_activity_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	exec := GetExecutor(ctx, r.db)
	_, err := exec.Exec(ctx, query,
		account.ID,
		account.Tokens,
		account.CurrentStreak,
		account.LastChallengeAt,
		account.LastActivityAt,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("account %s already exists: %w", account.ID, domain.ErrValidation)
		}
		return fmt.Errorf("create account: %w", classifyTransient(err))
	}

	return nil
}

// GetByID retrieves an account by ID
func (r *PostgresAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1`, accountColumns)
	return r.scanAccount(ctx, query, id)
}

// GetByIDForUpdate retrieves an account holding its row lock until the
// surrounding transaction ends. Only meaningful inside ExecTx.
func (r *PostgresAccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE id = $1 FOR UPDATE`, accountColumns)
	return r.scanAccount(ctx, query, id)
}

func (r *PostgresAccountRepository) scanAccount(ctx context.Context, query, id string) (*models.Account, error) {
	exec := GetExecutor(ctx, r.db)

	var account models.Account
	err := exec.QueryRow(ctx, query, id).Scan(
		&account.ID,
		&account.Tokens,
		&account.CurrentStreak,
		&account.LastChallengeAt,
		&account.LastActivityAt,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get account: %w", classifyTransient(err))
	}

	return &account, nil
}

// EarnTokens atomically increments the balance and returns the new value
func (r *PostgresAccountRepository) EarnTokens(ctx context.Context, id string, amount int, now time.Time) (int, error) {
	query := `
		UPDATE accounts
		SET tokens = tokens + $2, last_activity_at = $3, updated_at = $3
		WHERE id = $1
		RETURNING tokens
	`

	exec := GetExecutor(ctx, r.db)
	var balance int
	err := exec.QueryRow(ctx, query, id, amount, now).Scan(&balance)
	if err != nil {
		if isPgNoRowsError(err) {
			return 0, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("earn tokens: %w", classifyTransient(err))
	}

	return balance, nil
}

// SpendTokens decrements the balance only when it covers amount. The guard
// lives in the WHERE clause, so two concurrent spends can never jointly
// overdraw: the database serializes the row update and the second statement
// sees the already-decremented balance.
func (r *PostgresAccountRepository) SpendTokens(ctx context.Context, id string, amount int, now time.Time) (int, error) {
	query := `
		UPDATE accounts
		SET tokens = tokens - $2, last_activity_at = $3, updated_at = $3
		WHERE id = $1 AND tokens >= $2
		RETURNING tokens
	`

	exec := GetExecutor(ctx, r.db)
	var balance int
	err := exec.QueryRow(ctx, query, id, amount, now).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !isPgNoRowsError(err) {
		return 0, fmt.Errorf("spend tokens: %w", classifyTransient(err))
	}

	// Zero rows: either the account is missing or the guard failed.
	// Re-read to tell the two apart and report the untouched balance.
	account, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return 0, getErr
	}

	return 0, &domain.InsufficientBalanceError{Required: amount, Balance: account.Tokens}
}

// RecordChallenge applies a graded submission: credits the reward, sets the
// streak, and stamps last_challenge_at. Returns the new balance.
func (r *PostgresAccountRepository) RecordChallenge(ctx context.Context, id string, streak, reward int, now time.Time) (int, error) {
	query := `
		UPDATE accounts
		SET tokens = tokens + $2, current_streak = $3, last_challenge_at = $4, last_activity_at = $4, updated_at = $4
		WHERE id = $1
		RETURNING tokens
	`

	exec := GetExecutor(ctx, r.db)
	var balance int
	err := exec.QueryRow(ctx, query, id, reward, streak, now).Scan(&balance)
	if err != nil {
		if isPgNoRowsError(err) {
			return 0, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		return 0, fmt.Errorf("record challenge: %w", classifyTransient(err))
	}

	return balance, nil
}
